package config

import "errors"

var (
	// ErrInvalidConfig reports a value that fails validation.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig reports a file, env, or decode failure.
	ErrLoadConfig = errors.New("load config failed")
)
