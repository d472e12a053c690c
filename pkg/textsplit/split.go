// Package textsplit chunks long text into overlapping windows sized for
// embedding, preferring natural boundaries over hard cuts.
package textsplit

import "strings"

// Options control chunk sizing.
type Options struct {
	// ChunkSize is the maximum chunk length in bytes.
	ChunkSize int
	// Overlap is how many bytes of the previous chunk each new chunk
	// repeats, preserving context across the cut.
	Overlap int
}

// DefaultOptions returns the sizing used for compliance rule indexing.
func DefaultOptions() Options {
	return Options{ChunkSize: 1000, Overlap: 200}
}

// Separators tried in order when looking for a cut point near the chunk
// boundary. The last resort is a hard cut at the size limit.
var separators = []string{"\n\n", "\n", " "}

// Split chunks text into overlapping windows of at most opts.ChunkSize
// bytes. Cuts prefer paragraph breaks, then line breaks, then word breaks.
// Whitespace-only chunks are dropped.
func Split(text string, opts Options) []string {
	if opts.ChunkSize <= 0 {
		opts = DefaultOptions()
	}
	if opts.Overlap >= opts.ChunkSize {
		opts.Overlap = opts.ChunkSize / 2
	}

	var chunks []string
	for start := 0; start < len(text); {
		end := start + opts.ChunkSize
		if end >= len(text) {
			end = len(text)
		} else {
			end = cutPoint(text, start, end)
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(text) {
			break
		}

		next := end - opts.Overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// cutPoint finds the latest separator in the window's back half, falling
// back to the hard limit when the text has no usable boundary.
func cutPoint(text string, start, limit int) int {
	window := text[start:limit]
	floor := len(window) / 2

	for _, sep := range separators {
		if idx := strings.LastIndex(window, sep); idx >= floor {
			return start + idx + len(sep)
		}
	}
	return limit
}
