package services

import "errors"

var (
	ErrLeagueIDRequired = errors.New("league id is required")
	ErrBracketNotFound  = errors.New("no bracket has been synced for this league")

	// ErrPersistChunk marks a sync that stopped because a write batch failed. Rows from
	// earlier batches stay written; re-running the sync is safe.
	ErrPersistChunk = errors.New("failed to persist bracket entry batch")
)
