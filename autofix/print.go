package autofix

import (
	"fmt"
	"strings"

	"github.com/dutchcyberguy/semgrep/autofix/source"
	"github.com/dutchcyberguy/semgrep/autofix/syntax"
)

// Print renders a substituted tree to text. Per node, in priority order:
// lift the verbatim buffer slice when the node still carries an origin,
// emit the canonical form of a synthesized separator, or recurse over an
// origin-less composite and concatenate the children in structural order.
// Anything else is an UnprintableNodeError. Printing is a pure function.
func Print(tree syntax.Node, target, template *source.Buffer) (string, error) {
	var sb strings.Builder
	if err := emit(&sb, tree, target, template); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func emit(sb *strings.Builder, n syntax.Node, target, template *source.Buffer) error {
	if r := n.Origin(); r != nil {
		buf, err := bufferFor(r.Buf, target, template)
		if err != nil {
			return err
		}
		text, err := buf.Slice(*r)
		if err != nil {
			return err
		}
		sb.WriteString(text)
		return nil
	}

	switch t := n.(type) {
	case *syntax.Token:
		if text, ok := t.Sep.CanonicalText(); ok {
			sb.WriteString(text)
			return nil
		}
		return &UnprintableNodeError{Kind: syntax.KindToken}

	case *syntax.Expr:
		return emitAll(sb, t.Children, target, template)

	case *syntax.List:
		return emitAll(sb, t.Elems, target, template)

	case *syntax.Sequence:
		return emitAll(sb, t.Elems, target, template)

	default:
		// metavariable and ellipsis references must be resolved before
		// printing; reaching one here means substitution was skipped
		return &UnprintableNodeError{Kind: n.Kind()}
	}
}

func emitAll(sb *strings.Builder, nodes []syntax.Node, target, template *source.Buffer) error {
	for _, c := range nodes {
		if err := emit(sb, c, target, template); err != nil {
			return err
		}
	}
	return nil
}

func bufferFor(id source.ID, target, template *source.Buffer) (*source.Buffer, error) {
	switch id {
	case source.Target:
		if target != nil {
			return target, nil
		}
	case source.Template:
		if template != nil {
			return template, nil
		}
	}
	return nil, fmt.Errorf("%w: no %s buffer supplied to printer", source.ErrOffsetMismatch, id)
}
