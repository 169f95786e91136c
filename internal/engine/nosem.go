package engine

import (
	"strings"

	"github.com/dutchcyberguy/semgrep/autofix/source"
	"github.com/dutchcyberguy/semgrep/internal/lang"
)

// suppressed reports whether the line holding offset carries a nosem
// marker in a line comment, e.g. "// nosem" or "# nosemgrep".
func suppressed(buf *source.Buffer, offset int, g *lang.Grammar) bool {
	text := buf.Text()
	if offset > len(text) {
		return false
	}
	start := strings.LastIndexByte(text[:offset], '\n') + 1
	end := strings.IndexByte(text[offset:], '\n')
	if end < 0 {
		end = len(text)
	} else {
		end += offset
	}
	line := text[start:end]

	idx := strings.Index(line, g.LineComment)
	if idx < 0 {
		return false
	}
	return strings.Contains(line[idx:], "nosem")
}
