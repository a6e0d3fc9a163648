package catalog

import "errors"

var (
	// ErrStorageRead means the overlay could not be read or decoded.
	ErrStorageRead = errors.New("catalog storage read failed")

	// ErrStorageWrite means the overlay could not be persisted.
	// The in-memory catalog is left as it was before the call.
	ErrStorageWrite = errors.New("catalog storage write failed")

	ErrDuplicateName    = errors.New("category already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrPromptNotFound   = errors.New("prompt not found")
	ErrInvalidName      = errors.New("invalid category name")
	ErrInvalidText      = errors.New("invalid prompt text")
)
