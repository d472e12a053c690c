package prompts

const auditSpec = `Respond with a JSON object matching this exact structure:

{
  "compliance_result": [
    {
      "category": "claim validation",
      "severity": "critical",
      "description": "explanation of the violation"
    }
  ],
  "audit_result": "fail",
  "audit_report": "summary of findings"
}

Field constraints:
- compliance_result: One entry per violation found. category names the rule
  area violated, severity is exactly one of "low", "medium", or "critical",
  and description explains the violation with reference to the content.
- audit_result: Exactly "pass" or "fail". "fail" whenever at least one
  violation was found.
- audit_report: A short human-readable summary of the findings.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- If no violations are found, set audit_result to "pass" and
  compliance_result to []`
