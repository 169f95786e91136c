package types

import "fmt"

// Severity classifies how serious a finding is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ParseSeverity resolves a severity name from a rule file. Empty defaults
// to warning.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "":
		return SeverityWarning, nil
	case "error", "warning", "info":
		return Severity(s), nil
	default:
		return "", fmt.Errorf("unknown severity %q", s)
	}
}

// Finding is one pattern match reported to the user. When fix synthesis
// succeeds, Fix holds the replacement text for [StartOffset, EndOffset);
// when it fails the finding is still reported with HasFix false.
type Finding struct {
	RuleID      string   `json:"rule_id"`
	Severity    Severity `json:"severity"`
	Filename    string   `json:"filename"`
	Message     string   `json:"message"`
	Line        int      `json:"line"`
	Column      int      `json:"column"`
	EndLine     int      `json:"end_line"`
	EndColumn   int      `json:"end_column"`
	StartOffset int      `json:"start_offset"`
	EndOffset   int      `json:"end_offset"`
	Fix         string   `json:"fix,omitempty"`
	HasFix      bool     `json:"has_fix"`
}
