package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNoMatch         = errors.New("no recurrence pattern recognized")
	ErrNotFound        = errors.New("not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrUnknownCategory = errors.New("unknown recognizer category")
)
