package config

import "errors"

var (
	// ErrInvalidConfig marks a configuration that failed Validate.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks a failure reading the YAML file or environment.
	ErrLoadConfig = errors.New("load config failed")
	// ErrUnknownStoreDriver is returned for a store_driver other than memory or postgres.
	ErrUnknownStoreDriver = errors.New("unknown store driver")
)
