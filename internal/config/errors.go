package config

import "errors"

// Errors returned by Load. Match with errors.Is to tell a source that
// failed to parse apart from values that failed validation.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
