package scorer

import "errors"

// Validation errors. They are per-defect and recoverable: the calculator
// excludes the defect from aggregation and records a warning.
var (
	ErrInvalidSeverity  = errors.New("scorer: invalid severity")
	ErrInvalidIndex     = errors.New("scorer: index out of range")
	ErrInvalidExtent    = errors.New("scorer: invalid extent")
	ErrMissingIntensity = errors.New("scorer: intensity not set")
	ErrMissingExtent    = errors.New("scorer: extent not set")
	ErrInvalidWeight    = errors.New("scorer: invalid weight")
)
