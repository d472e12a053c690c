// Package prompts holds the prompt material for the audit judgment: tunable
// instructions, the immutable output specification, and composition of both
// with retrieved rules and extracted video content into a single prompt.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"
)

// System builds the system portion of the audit prompt: auditor
// instructions, the retrieved compliance rules, and the output contract.
// When no rules were retrieved the section says so explicitly rather than
// being silently omitted.
func System(rules string) string {
	var sb strings.Builder
	sb.WriteString(auditInstructions)
	sb.WriteString("\n\nCompliance rules:\n\n")

	if strings.TrimSpace(rules) == "" {
		sb.WriteString("(no rules retrieved; audit on the content alone)")
	} else {
		sb.WriteString(rules)
	}

	sb.WriteString("\n\n")
	sb.WriteString(auditSpec)
	return sb.String()
}

// User builds the user portion of the audit prompt from the extracted video
// content.
func User(metadata map[string]any, transcript string, ocr []string) (string, error) {
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("serialize video metadata: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("VIDEO_METADATA: ")
	sb.Write(metaJSON)
	sb.WriteString("\nTRANSCRIPT: ")
	sb.WriteString(transcript)
	sb.WriteString("\nOCR: ")
	sb.WriteString(strings.Join(ocr, " | "))
	return sb.String(), nil
}

// Compose joins the system and user portions into the single prompt the
// chat agent accepts.
func Compose(rules string, metadata map[string]any, transcript string, ocr []string) (string, error) {
	user, err := User(metadata, transcript, ocr)
	if err != nil {
		return "", err
	}
	return System(rules) + "\n\n" + user, nil
}
