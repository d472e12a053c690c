package auditor

import "errors"

// Sentinel errors for audit stage operations.
var (
	ErrInvocation = errors.New("model invocation failed")
	ErrParse      = errors.New("failed to parse audit verdict")
)
