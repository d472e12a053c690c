// Package audit defines the state record threaded through the audit pipeline
// and the merge semantics that combine stage-produced partial updates into it.
package audit

import (
	"encoding/json"
	"slices"
)

// Verdict is the terminal judgment of an audit run.
type Verdict string

// Verdict values. VerdictUnset is the pre-pipeline zero value; the
// orchestrator guarantees a finished run carries pass or fail.
const (
	VerdictUnset Verdict = ""
	VerdictPass  Verdict = "pass"
	VerdictFail  Verdict = "fail"
)

var verdicts = []Verdict{VerdictPass, VerdictFail}

// ParseVerdict validates a string as a terminal verdict value.
// Returns ErrInvalidVerdict for anything other than "pass" or "fail".
func ParseVerdict(s string) (Verdict, error) {
	v := Verdict(s)
	if !slices.Contains(verdicts, v) {
		return "", ErrInvalidVerdict
	}
	return v, nil
}

// Severity categorizes how serious a compliance violation is.
type Severity string

// Severity levels accepted at the model boundary.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityCritical Severity = "critical"
)

var severities = []Severity{SeverityLow, SeverityMedium, SeverityCritical}

// ParseSeverity validates a string as a known severity level.
// Returns ErrInvalidSeverity if the value is not recognized.
func ParseSeverity(s string) (Severity, error) {
	v := Severity(s)
	if !slices.Contains(severities, v) {
		return "", ErrInvalidSeverity
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known severity level.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ComplianceIssue is a single detected rule violation.
type ComplianceIssue struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Timestamp   *string  `json:"timestamp,omitempty"`
}

// State is the single record threaded through the pipeline. It is owned by
// the orchestrator for the duration of one run and mutated only through
// Merge; stages never write to it directly.
type State struct {
	VideoURL string `json:"video_url"`
	VideoID  string `json:"video_id"`

	// LocalFilePath is owned by the ingestion stage while extraction runs
	// and is nil again before the pipeline completes.
	LocalFilePath *string        `json:"local_file_path,omitempty"`
	Metadata      map[string]any `json:"video_metadata"`

	// Transcript is nil until ingestion has run; an empty string means
	// ingestion ran and produced nothing.
	Transcript *string  `json:"video_transcript"`
	OCRText    []string `json:"ocr_text"`

	Issues []ComplianceIssue `json:"compliance_result"`
	Errors []string          `json:"errors"`

	Verdict Verdict `json:"audit_result"`
	Report  string  `json:"audit_report"`
}

// NewState creates the initial record for one audit request: immutable
// inputs set, every derived field zeroed.
func NewState(videoURL, videoID string) State {
	return State{
		VideoURL: videoURL,
		VideoID:  videoID,
		Metadata: map[string]any{},
		OCRText:  []string{},
		Issues:   []ComplianceIssue{},
		Errors:   []string{},
	}
}

// TranscriptText returns the transcript, or "" when not yet computed.
func (s *State) TranscriptText() string {
	if s.Transcript == nil {
		return ""
	}
	return *s.Transcript
}
