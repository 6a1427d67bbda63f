package repository

import "errors"

var (
	// ErrUnknownLabel indicates the code is not one of the catalog labels
	ErrUnknownLabel = errors.New("unknown label")

	// ErrDuplicateEntry indicates two catalog entries share a code
	ErrDuplicateEntry = errors.New("duplicate catalog entry")
)
