package extraction

import "errors"

// Sentinel errors for extraction operations. ErrDownload's text is part of
// the pipeline's diagnostic contract: acquisition failures surface in the
// final state as "failed to download the video : <cause>".
var (
	ErrDownload   = errors.New("failed to download the video")
	ErrExtraction = errors.New("extraction failed")
	ErrProbe      = errors.New("failed to probe the video")
)
