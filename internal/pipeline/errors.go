package pipeline

import "errors"

var (
	// ErrFetchTimeout is returned when the fetch phase exceeds its timeout.
	ErrFetchTimeout = errors.New("fetch phase timed out")
	// ErrNormalizeTimeout is returned when the normalize phase exceeds its timeout.
	ErrNormalizeTimeout = errors.New("normalize phase timed out")
)
