// Package lang is the closed registry of target languages. Every language
// shares the generic node envelope; only the concrete grammar knobs differ.
package lang

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/dutchcyberguy/semgrep/autofix/syntax"
)

// Language identifies one target language grammar.
type Language int

const (
	Generic Language = iota
	Go
	Gno
	Python
	JavaScript
)

func (l Language) String() string {
	switch l {
	case Go:
		return "go"
	case Gno:
		return "gno"
	case Python:
		return "python"
	case JavaScript:
		return "javascript"
	default:
		return "generic"
	}
}

// Parse resolves a language name from a rule file.
func Parse(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "generic":
		return Generic, nil
	case "go", "golang":
		return Go, nil
	case "gno":
		return Gno, nil
	case "python", "py":
		return Python, nil
	case "javascript", "js":
		return JavaScript, nil
	default:
		return Generic, fmt.Errorf("unknown language %q", s)
	}
}

// Detect guesses the language of a file from its name and content using
// enry, falling back to the extension for languages enry does not know.
func Detect(path string, content []byte) Language {
	if strings.HasSuffix(path, ".gno") {
		return Gno
	}
	switch enry.GetLanguage(filepath.Base(path), content) {
	case "Go":
		return Go
	case "Python":
		return Python
	case "JavaScript", "TypeScript":
		return JavaScript
	default:
		return Generic
	}
}

// Grammar holds the per-language knobs the lexer, parser, and suppression
// scanner need. The node envelope above it is language-independent.
type Grammar struct {
	LineComment string
	Brackets    map[byte]byte              // open -> close
	ListKinds   map[byte]syntax.ListKind   // open -> separator convention
}

var defaultBrackets = map[byte]byte{'(': ')', '[': ']', '{': '}'}

var grammars = map[Language]*Grammar{
	Generic: {
		LineComment: "#",
		Brackets:    defaultBrackets,
		ListKinds:   map[byte]syntax.ListKind{'(': syntax.ListArgs, '[': syntax.ListArgs, '{': syntax.ListStmts},
	},
	Go: {
		LineComment: "//",
		Brackets:    defaultBrackets,
		ListKinds:   map[byte]syntax.ListKind{'(': syntax.ListArgs, '[': syntax.ListArgs, '{': syntax.ListStmts},
	},
	Gno: {
		LineComment: "//",
		Brackets:    defaultBrackets,
		ListKinds:   map[byte]syntax.ListKind{'(': syntax.ListArgs, '[': syntax.ListArgs, '{': syntax.ListStmts},
	},
	Python: {
		LineComment: "#",
		Brackets:    defaultBrackets,
		// python braces delimit literals, not blocks
		ListKinds: map[byte]syntax.ListKind{'(': syntax.ListArgs, '[': syntax.ListArgs, '{': syntax.ListArgs},
	},
	JavaScript: {
		LineComment: "//",
		Brackets:    defaultBrackets,
		ListKinds:   map[byte]syntax.ListKind{'(': syntax.ListArgs, '[': syntax.ListArgs, '{': syntax.ListStmts},
	},
}

// Grammar returns the grammar for l.
func (l Language) Grammar() *Grammar {
	if g, ok := grammars[l]; ok {
		return g
	}
	return grammars[Generic]
}
