package brackets

import "errors"

// Integrity errors: the upstream bracket cannot be trusted and nothing is written.
var (
	ErrInvalidReference = errors.New("invalid advancement reference")
	ErrInvalidSlot      = errors.New("invalid bracket slot")
)
