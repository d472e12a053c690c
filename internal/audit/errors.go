package audit

import "errors"

// Validation errors for boundary values.
var (
	ErrInvalidVerdict  = errors.New("audit result must be pass or fail")
	ErrInvalidSeverity = errors.New("severity must be low, medium, or critical")
)
