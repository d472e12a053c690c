package knowledge

import "errors"

// Sentinel errors for knowledge index operations. Index load failures are
// recovered internally by the empty-index fallback and never reach the
// pipeline's error accumulator.
var (
	ErrIndexLoad = errors.New("failed to load knowledge index")
	ErrQuery     = errors.New("similarity search failed")
)
