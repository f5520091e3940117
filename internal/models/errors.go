package models

import "errors"

var (
	// ErrDuplicate is returned by stores when a uniqueness constraint rejects a write.
	ErrDuplicate = errors.New("duplicate key")
	// ErrNotFound is returned by stores when a lookup by key matches nothing.
	ErrNotFound = errors.New("record not found")
)
