package shared

import "errors"

var (
	// ErrNotFound indicates a referenced entity is missing.
	ErrNotFound = errors.New("not found")
	// ErrHasDependents indicates a delete was refused while the
	// denormalized product count is above zero.
	ErrHasDependents = errors.New("still referenced by products")
)
