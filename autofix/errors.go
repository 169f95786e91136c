package autofix

import (
	"fmt"

	"github.com/dutchcyberguy/semgrep/autofix/syntax"
)

// UnboundMetavarError reports a placeholder used in a fix template that has
// no binding in the match environment. The finding is still reported; only
// its fix is dropped.
type UnboundMetavarError struct {
	Name string
}

func (e *UnboundMetavarError) Error() string {
	return fmt.Sprintf("metavariable %q is not bound in the match", e.Name)
}

// TypeMismatchError reports an ellipsis placeholder bound to a single
// subtree, or a scalar placeholder bound to a sequence.
type TypeMismatchError struct {
	Name string
	Seq  bool // true when the binding is a sequence
}

func (e *TypeMismatchError) Error() string {
	if e.Seq {
		return fmt.Sprintf("metavariable %q is bound to a sequence but referenced as a scalar", e.Name)
	}
	return fmt.Sprintf("metavariable %q is bound to a scalar but referenced with ellipsis", e.Name)
}

// UnprintableNodeError reports a node reached during printing that has
// neither a usable origin nor a recognized synthesized form. The printer
// never guesses text.
type UnprintableNodeError struct {
	Kind syntax.Kind
}

func (e *UnprintableNodeError) Error() string {
	return fmt.Sprintf("cannot print synthesized %s node", e.Kind)
}

// TemplateParseError reports a fix template that fails to parse under the
// rule's language grammar. It is reported once per rule, independent of any
// match, and disables autofix for that rule only.
type TemplateParseError struct {
	RuleID string
	Err    error
}

func (e *TemplateParseError) Error() string {
	return fmt.Sprintf("rule %q: fix template does not parse: %v", e.RuleID, e.Err)
}

func (e *TemplateParseError) Unwrap() error { return e.Err }
