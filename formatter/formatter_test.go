package formatter

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dutchcyberguy/semgrep/internal/types"
)

func plainGenerate(t *testing.T, findings []types.Finding, lines []string) string {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
	return Generate(findings, lines)
}

func TestGenerateFinding(t *testing.T) {
	f := types.Finding{
		RuleID:    "swap-args",
		Severity:  types.SeverityWarning,
		Filename:  "main.go",
		Message:   "arguments are reversed",
		Line:      2,
		Column:    6,
		EndLine:   2,
		EndColumn: 17,
		Fix:       "cmp(hi, lo)",
		HasFix:    true,
	}
	lines := []string{"package main", "x := cmp(lo, hi)"}

	out := plainGenerate(t, []types.Finding{f}, lines)

	assert.Contains(t, out, "warning: [swap-args] arguments are reversed")
	assert.Contains(t, out, " --> main.go:2:6")
	assert.Contains(t, out, "  x := cmp(lo, hi)")
	assert.Contains(t, out, "  fix: cmp(hi, lo)")

	// caret underline sits under the matched span
	require.Contains(t, out, "^")
	caretLine := ""
	for _, l := range strings.Split(out, "\n") {
		if strings.Contains(l, "^") {
			caretLine = l
			break
		}
	}
	assert.Equal(t, "  "+strings.Repeat(" ", 5)+strings.Repeat("^", 11), caretLine)
}

func TestGenerateWithoutFix(t *testing.T) {
	f := types.Finding{
		RuleID:   "r",
		Severity: types.SeverityError,
		Filename: "f.go",
		Message:  "m",
		Line:     1, Column: 1, EndLine: 1, EndColumn: 4,
	}
	out := plainGenerate(t, []types.Finding{f}, []string{"foo"})

	assert.Contains(t, out, "error: [r] m")
	assert.NotContains(t, out, "fix:")
}

func TestGenerateTabAlignment(t *testing.T) {
	// the underline must account for tab expansion in the printed line
	f := types.Finding{
		RuleID:   "r",
		Severity: types.SeverityInfo,
		Filename: "f.go",
		Message:  "m",
		Line:     1, Column: 2, EndLine: 1, EndColumn: 7,
	}
	out := plainGenerate(t, []types.Finding{f}, []string{"\tprobe"})

	caretLine := ""
	for _, l := range strings.Split(out, "\n") {
		if strings.Contains(l, "^") {
			caretLine = l
		}
	}
	require.NotEmpty(t, caretLine)
	assert.Equal(t, "  "+strings.Repeat(" ", 8)+strings.Repeat("^", 5), caretLine)
}

func TestGenerateOutOfRangeLine(t *testing.T) {
	f := types.Finding{
		RuleID: "r", Severity: types.SeverityWarning,
		Filename: "f.go", Message: "m",
		Line: 99, Column: 1, EndLine: 99, EndColumn: 2,
	}
	out := plainGenerate(t, []types.Finding{f}, []string{"only line"})

	assert.Contains(t, out, " --> f.go:99:1")
	assert.NotContains(t, out, "^", "no source excerpt for a line we cannot show")
}

func TestGenerateMultipleFindings(t *testing.T) {
	findings := []types.Finding{
		{RuleID: "a", Severity: types.SeverityWarning, Filename: "f.go", Message: "first", Line: 1, Column: 1, EndLine: 1, EndColumn: 2},
		{RuleID: "b", Severity: types.SeverityWarning, Filename: "f.go", Message: "second", Line: 1, Column: 1, EndLine: 1, EndColumn: 2},
	}
	out := plainGenerate(t, findings, []string{"x"})

	assert.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))
}
