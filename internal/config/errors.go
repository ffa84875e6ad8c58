package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so that callers can use
// errors.Is() while still printing a readable message.
var (
	// ErrNoReport is returned when no Cobertura report path is given.
	ErrNoReport = errors.New("no coverage report specified")

	// ErrInvalidLogFormat is returned for a log format other than text or json.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
