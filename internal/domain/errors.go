package domain

import "errors"

// Domain errors represent error conditions in the runlane domain.
// These errors are returned wrapped and can be checked with errors.Is.
var (
	// ErrInvalidArgument is returned when a window, width or floor value
	// cannot describe any geometry (start >= end, width <= 0, ...).
	ErrInvalidArgument = errors.New("runlane: invalid argument")

	// ErrInvalidRecord is returned when a record cannot be decoded into a
	// well-formed Record (unknown status, missing start time).
	ErrInvalidRecord = errors.New("runlane: invalid record")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("runlane: invalid configuration")

	// ErrUnsupportedFormat is returned for record files with an unknown extension.
	ErrUnsupportedFormat = errors.New("runlane: unsupported format")
)
