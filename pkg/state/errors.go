package state

import "errors"

// Structural errors. A transition that fails with one of these leaves the
// snapshot untouched.
var (
	ErrUnknownElement  = errors.New("unknown element")
	ErrUnknownReport   = errors.New("unknown inspection report")
	ErrUnknownInstance = errors.New("unknown defect instance")
	ErrUnknownTask     = errors.New("unknown task")
	ErrUnknownTarget   = errors.New("unknown media target")
	ErrDuplicateID     = errors.New("duplicate id")
	ErrInvalidSeverity = errors.New("invalid severity")
	ErrInvalidField    = errors.New("invalid field")
	ErrInvalidValue    = errors.New("invalid value")
	ErrUnknownAction   = errors.New("unknown action")
)
