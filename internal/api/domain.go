package api

import (
	"github.com/vigil-audit/vigil/internal/audits"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Audits audits.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	auditsSystem := audits.New(
		runtime.Workflow,
		runtime.Pipeline,
		runtime.Logger,
	)

	return &Domain{
		Audits: auditsSystem,
	}
}
