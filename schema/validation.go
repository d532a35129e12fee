package schema

import (
	"fmt"
	"strings"
)

// Severity classifies a validation finding.
type Severity string

// Validation severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationError is one finding from configuration validation, pointing at
// the repository and field it concerns. Findings are accumulated rather
// than short-circuiting so a single pass reports every problem.
type ValidationError struct {
	Repository string   `json:"repository,omitempty"`
	Field      string   `json:"field,omitempty"`
	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
}

func (e ValidationError) Error() string {
	var b strings.Builder
	if e.Repository != "" {
		fmt.Fprintf(&b, "%s: ", e.Repository)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, "%s: ", e.Field)
	}
	b.WriteString(e.Message)
	return b.String()
}

// sinphaseKeywords mark a validation message as methodology-relevant.
var sinphaseKeywords = []string{"cost", "threshold", "isolation", "complexity", "governance"}

// IsSinphaseViolation reports whether the finding concerns the cost
// governance methodology, judged by keyword presence in the message.
// Matching is case-insensitive.
func (e ValidationError) IsSinphaseViolation() bool {
	msg := strings.ToLower(e.Message)
	for _, kw := range sinphaseKeywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

// CountBySeverity tallies validation findings per severity.
func CountBySeverity(errs []ValidationError) map[Severity]int {
	counts := make(map[Severity]int)
	for _, e := range errs {
		counts[e.Severity]++
	}
	return counts
}
