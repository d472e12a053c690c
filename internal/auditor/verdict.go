package auditor

import (
	"fmt"

	"github.com/vigil-audit/vigil/internal/audit"
	"github.com/vigil-audit/vigil/pkg/formatting"
)

// Defaults substituted for fields absent from an otherwise valid response.
const (
	defaultVerdict = audit.VerdictFail
	defaultReport  = "no report generated"
)

type issuePayload struct {
	Category    string  `json:"category"`
	Severity    string  `json:"severity"`
	Description string  `json:"description"`
	Timestamp   *string `json:"timestamp"`
}

// verdictPayload mirrors the model's output contract. Pointer fields
// distinguish absent from present-but-empty so documented defaults apply
// only to genuinely missing fields.
type verdictPayload struct {
	ComplianceResult *[]issuePayload `json:"compliance_result"`
	AuditResult      *string         `json:"audit_result"`
	AuditReport      *string         `json:"audit_report"`
}

// ModelVerdict is the validated judgment parsed from a model response.
type ModelVerdict struct {
	Issues  []audit.ComplianceIssue
	Verdict audit.Verdict
	Report  string
}

// ParseVerdict parses raw model output into a ModelVerdict: strip an
// optional markdown fence, parse as JSON, validate enum values, and
// substitute documented defaults for missing fields. Any structural
// deviation yields ErrParse; nothing is silently coerced.
func ParseVerdict(content string) (*ModelVerdict, error) {
	payload, err := formatting.Parse[verdictPayload](content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParse, err)
	}

	verdict := defaultVerdict
	if payload.AuditResult != nil {
		verdict, err = audit.ParseVerdict(*payload.AuditResult)
		if err != nil {
			return nil, fmt.Errorf("%w: audit_result %q: %s", ErrParse, *payload.AuditResult, err)
		}
	}

	report := defaultReport
	if payload.AuditReport != nil {
		report = *payload.AuditReport
	}

	issues := []audit.ComplianceIssue{}
	if payload.ComplianceResult != nil {
		issues = make([]audit.ComplianceIssue, len(*payload.ComplianceResult))
		for i, raw := range *payload.ComplianceResult {
			severity, err := audit.ParseSeverity(raw.Severity)
			if err != nil {
				return nil, fmt.Errorf("%w: compliance_result[%d] severity %q: %s", ErrParse, i, raw.Severity, err)
			}
			issues[i] = audit.ComplianceIssue{
				Category:    raw.Category,
				Description: raw.Description,
				Severity:    severity,
				Timestamp:   raw.Timestamp,
			}
		}
	}

	return &ModelVerdict{Issues: issues, Verdict: verdict, Report: report}, nil
}
