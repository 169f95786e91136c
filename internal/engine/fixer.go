package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dutchcyberguy/semgrep/internal/types"
)

// applicable filters findings down to the fixes that will be applied:
// ascending offset order, overlaps dropped keeping the earliest.
func applicable(findings []types.Finding) []types.Finding {
	var fixes []types.Finding
	for _, f := range findings {
		if f.HasFix {
			fixes = append(fixes, f)
		}
	}
	sort.Slice(fixes, func(i, j int) bool {
		return fixes[i].StartOffset < fixes[j].StartOffset
	})

	kept := fixes[:0]
	lastEnd := -1
	for _, f := range fixes {
		if f.StartOffset < lastEnd {
			continue
		}
		kept = append(kept, f)
		lastEnd = f.EndOffset
	}
	return kept
}

// ApplyFixes splices every applicable fix into src and returns the fixed
// text plus the number of fixes applied. Fixes are applied back to front
// so earlier offsets stay valid; when two fixes overlap the earlier one
// wins and the later is skipped.
func ApplyFixes(src string, findings []types.Finding) (string, int) {
	kept := applicable(findings)

	result := src
	for i := len(kept) - 1; i >= 0; i-- {
		f := kept[i]
		if f.StartOffset < 0 || f.EndOffset > len(src) || f.StartOffset > f.EndOffset {
			continue
		}
		result = result[:f.StartOffset] + f.Fix + result[f.EndOffset:]
	}
	return result, len(kept)
}

// Preview renders a before/after snippet per applicable fix without
// touching src: the line holding the match, and that line with the fix
// spliced in.
func Preview(src string, findings []types.Finding) []string {
	var out []string
	for _, f := range applicable(findings) {
		if f.StartOffset < 0 || f.EndOffset > len(src) || f.StartOffset > f.EndOffset {
			continue
		}
		lineStart := strings.LastIndexByte(src[:f.StartOffset], '\n') + 1
		lineEnd := strings.IndexByte(src[f.EndOffset:], '\n')
		if lineEnd < 0 {
			lineEnd = len(src)
		} else {
			lineEnd += f.EndOffset
		}

		before := src[lineStart:lineEnd]
		after := src[lineStart:f.StartOffset] + f.Fix + src[f.EndOffset:lineEnd]
		out = append(out, fmt.Sprintf("line %d:\n- %s\n+ %s", f.Line, before, after))
	}
	return out
}
