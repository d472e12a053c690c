package audit

// Delta is a stage's partial update to the running State. Pointer fields
// carry overwrite values and distinguish "not touched" (nil) from
// "explicitly set"; slice fields carry appended values.
type Delta struct {
	LocalFilePath *string
	// ClearLocalFile resets LocalFilePath to nil; the transient file must
	// not outlive the ingestion stage.
	ClearLocalFile bool

	Metadata   map[string]any
	Transcript *string
	OCRText    *[]string

	Issues []ComplianceIssue
	Errors []string

	Verdict Verdict
	Report  *string
}

// Field names the State fields a Delta can touch.
type Field string

// Merge-relevant fields.
const (
	FieldLocalFilePath Field = "local_file_path"
	FieldMetadata      Field = "video_metadata"
	FieldTranscript    Field = "video_transcript"
	FieldOCRText       Field = "ocr_text"
	FieldIssues        Field = "compliance_result"
	FieldErrors        Field = "errors"
	FieldVerdict       Field = "audit_result"
	FieldReport        Field = "audit_report"
)

// Strategy declares how a Delta value combines with the prior State value.
type Strategy string

// Merge strategies.
const (
	// StrategyOverwrite replaces the prior value outright; last writer wins.
	StrategyOverwrite Strategy = "overwrite"
	// StrategyAppend accumulates values in execution order and never
	// truncates.
	StrategyAppend Strategy = "append"
)

// Strategies is the per-field merge policy. Issues and Errors are the only
// accumulator fields; every other field is last-writer-wins.
var Strategies = map[Field]Strategy{
	FieldLocalFilePath: StrategyOverwrite,
	FieldMetadata:      StrategyOverwrite,
	FieldTranscript:    StrategyOverwrite,
	FieldOCRText:       StrategyOverwrite,
	FieldIssues:        StrategyAppend,
	FieldErrors:        StrategyAppend,
	FieldVerdict:       StrategyOverwrite,
	FieldReport:        StrategyOverwrite,
}
