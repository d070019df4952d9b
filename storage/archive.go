package storage

import (
	"context"
	"io"
)

type ArchiveResult struct {
	Key      string
	Location string
	ETag     string
}

// SnapshotArchiver keeps copies of raw upstream payloads for auditing bracket syncs.
type SnapshotArchiver interface {
	Put(ctx context.Context, key string, contentType string, reader io.Reader) (*ArchiveResult, error)
}

// NopArchiver discards snapshots. It is used when no bucket is configured.
type NopArchiver struct{}

func (NopArchiver) Put(_ context.Context, key string, _ string, _ io.Reader) (*ArchiveResult, error) {
	return &ArchiveResult{Key: key}, nil
}
