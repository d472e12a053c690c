package audit

import "slices"

// Merge applies a stage's partial update to the prior state, field by field,
// according to the Strategies table. The prior state is not mutated: append
// fields clone the prior backing array before extending it, so earlier
// snapshots held by callers stay intact.
func Merge(prior State, delta Delta) State {
	next := prior

	if delta.LocalFilePath != nil {
		next.LocalFilePath = delta.LocalFilePath
	}
	if delta.ClearLocalFile {
		next.LocalFilePath = nil
	}
	if delta.Metadata != nil {
		next.Metadata = delta.Metadata
	}
	if delta.Transcript != nil {
		next.Transcript = delta.Transcript
	}
	if delta.OCRText != nil {
		next.OCRText = *delta.OCRText
	}

	next.Issues = mergeSlice(FieldIssues, prior.Issues, delta.Issues)
	next.Errors = mergeSlice(FieldErrors, prior.Errors, delta.Errors)

	if delta.Verdict != VerdictUnset {
		next.Verdict = delta.Verdict
	}
	if delta.Report != nil {
		next.Report = *delta.Report
	}

	return next
}

func mergeSlice[T any](field Field, prior, update []T) []T {
	switch Strategies[field] {
	case StrategyAppend:
		if len(update) == 0 {
			return prior
		}
		return append(slices.Clone(prior), update...)
	default:
		return update
	}
}
