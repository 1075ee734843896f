package repository

import "errors"

// Sentinel errors shared by all repository implementations. Implementations
// wrap them with context; callers match with errors.Is.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)
