package workflow

import "errors"

// Sentinel errors for workflow execution. Stage failures are folded into the
// audit record rather than returned; these cover the machinery around it.
var (
	ErrGraphBuild = errors.New("failed to build workflow graph")
	ErrGraphState = errors.New("workflow state is malformed")
)
