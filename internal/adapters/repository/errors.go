package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrEmptySnapshot = errors.New("snapshot has no events")
)
