package autofix

import (
	"github.com/dutchcyberguy/semgrep/autofix/source"
	"github.com/dutchcyberguy/semgrep/autofix/syntax"
)

// Render produces the replacement text for one match: substitute the
// bindings into the template tree, then print the result against the two
// buffers. The caller splices the text over the match's range.
func Render(env *syntax.Env, tmpl syntax.Node, target, template *source.Buffer) (string, error) {
	substituted, err := Replace(env, tmpl)
	if err != nil {
		return "", err
	}
	return Print(substituted, target, template)
}

// Recoverable reports whether a fix-synthesis failure is local to one
// match. Recoverable failures degrade the finding to "no fix available"
// and scanning continues; anything else (notably offset mismatches) is an
// internal invariant violation the caller must escalate.
func Recoverable(err error) bool {
	switch err.(type) {
	case *UnboundMetavarError, *TypeMismatchError, *UnprintableNodeError, *TemplateParseError:
		return true
	}
	return false
}
