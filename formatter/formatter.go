// Package formatter renders findings for humans: location header, the
// offending source line with a caret underline, and the suggested fix when
// one was synthesized.
package formatter

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/dutchcyberguy/semgrep/internal/types"
)

const tabWidth = 8

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	warningStyle    = color.New(color.FgHiYellow, color.Bold)
	infoStyle       = color.New(color.FgHiBlue, color.Bold)
	ruleStyle       = color.New(color.FgYellow, color.Bold)
	fileStyle       = color.New(color.FgCyan, color.Bold)
	messageStyle    = color.New(color.FgWhite)
	suggestionStyle = color.New(color.FgGreen, color.Bold)
)

// Generate formats all findings of one file. lines is the file content
// split on newlines.
func Generate(findings []types.Finding, lines []string) string {
	var builder strings.Builder
	for _, f := range findings {
		builder.WriteString(formatFinding(f, lines))
	}
	return builder.String()
}

func formatFinding(f types.Finding, lines []string) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("%s: %s %s\n",
		severityStyle(f.Severity).Sprint(f.Severity),
		ruleStyle.Sprintf("[%s]", f.RuleID),
		messageStyle.Sprint(f.Message)))
	builder.WriteString(fmt.Sprintf(" --> %s\n",
		fileStyle.Sprintf("%s:%d:%d", f.Filename, f.Line, f.Column)))

	if f.Line >= 1 && f.Line <= len(lines) {
		line := lines[f.Line-1]
		builder.WriteString("  " + line + "\n")

		start := visualColumn(line, f.Column)
		end := visualColumn(line, f.EndColumn)
		if f.EndLine != f.Line {
			end = visualColumn(line, len(line)+1)
		}
		width := end - start
		if width < 1 {
			width = 1
		}
		builder.WriteString("  " + strings.Repeat(" ", start-1))
		builder.WriteString(severityStyle(f.Severity).Sprint(strings.Repeat("^", width)))
		builder.WriteString("\n")
	}

	if f.HasFix {
		builder.WriteString(fmt.Sprintf("  %s %s\n",
			suggestionStyle.Sprint("fix:"), f.Fix))
	}
	builder.WriteString("\n")
	return builder.String()
}

func severityStyle(s types.Severity) *color.Color {
	switch s {
	case types.SeverityError:
		return errorStyle
	case types.SeverityInfo:
		return infoStyle
	default:
		return warningStyle
	}
}

// visualColumn widens tabs so the caret underline lines up with the
// printed source line.
func visualColumn(line string, column int) int {
	visual := 0
	for i := range line {
		if i+1 >= column {
			break
		}
		if line[i] == '\t' {
			visual += tabWidth - (visual % tabWidth)
		} else {
			visual++
		}
	}
	return visual + 1
}
