// Package pattern turns pattern, template, and target source text into
// trees of the generic node envelope. Patterns and templates may contain
// metavariable holes; target files are lexed with holes disabled so a
// literal ":[" in source stays literal text.
package pattern

import (
	"fmt"
	"unicode"
)

type tokenType int

const (
	tokWord tokenType = iota
	tokPunct
	tokSpace
	tokHole
)

// token is one lexed span. Tokens tile the input: every byte belongs to
// exactly one token, so concatenating token spans reproduces the input.
type token struct {
	typ        tokenType
	text       string
	start, end int
	name       string // hole name, tokHole only
	ellipsis   bool   // :[name...] form, tokHole only
}

// lex splits input into tokens. When holes is true, :[name] and
// :[name...] are recognized as hole tokens.
func lex(input string, holes bool) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		c := input[i]

		if holes && c == ':' && i+1 < len(input) && input[i+1] == '[' {
			tok, next, err := lexHole(input, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i = next
			continue
		}

		if isSpace(c) {
			start := i
			for i < len(input) && isSpace(input[i]) {
				i++
			}
			tokens = append(tokens, token{typ: tokSpace, text: input[start:i], start: start, end: i})
			continue
		}

		if isWordChar(c) {
			start := i
			for i < len(input) && isWordChar(input[i]) {
				i++
			}
			tokens = append(tokens, token{typ: tokWord, text: input[start:i], start: start, end: i})
			continue
		}

		tokens = append(tokens, token{typ: tokPunct, text: input[i : i+1], start: i, end: i + 1})
		i++
	}
	return tokens, nil
}

// lexHole scans :[name] or :[name...] starting at the ':' and returns the
// hole token plus the index just past the closing bracket.
func lexHole(input string, start int) (token, int, error) {
	i := start + 2 // skip ":["
	if i >= len(input) || !isIdentStart(input[i]) {
		return token{}, 0, fmt.Errorf("position %d: metavariable name must start with a letter or '_'", i)
	}
	nameStart := i
	for i < len(input) && isIdentChar(input[i]) {
		i++
	}
	name := input[nameStart:i]

	ellipsis := false
	if i+2 < len(input) && input[i] == '.' && input[i+1] == '.' && input[i+2] == '.' {
		ellipsis = true
		i += 3
	}
	if i >= len(input) || input[i] != ']' {
		return token{}, 0, fmt.Errorf("position %d: metavariable %q is not terminated with ']'", start, name)
	}
	i++
	return token{
		typ:      tokHole,
		text:     input[start:i],
		start:    start,
		end:      i,
		name:     name,
		ellipsis: ellipsis,
	}, i, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isWordChar(c byte) bool {
	return isIdentChar(c)
}

func isIdentStart(c byte) bool {
	return unicode.IsLetter(rune(c)) || c == '_'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || unicode.IsDigit(rune(c))
}
