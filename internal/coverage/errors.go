package coverage

import "errors"

// Errors returned while loading or flattening a report.
// All of them are fatal for a run; callers match them with errors.Is.
var (
	// ErrInputNotFound is returned when the report path does not exist.
	ErrInputNotFound = errors.New("coverage report not found")

	// ErrMalformedInput is returned when the report is not well-formed XML
	// or has no root element.
	ErrMalformedInput = errors.New("malformed coverage report")

	// ErrMissingPackagesSection is returned by Flatten when the root element
	// has no <packages> child.
	ErrMissingPackagesSection = errors.New("no <packages> element found")
)
