// Package autofix synthesizes replacement text for a pattern match: it
// substitutes the match's placeholder bindings into the parsed fix template
// and renders the result, copying verbatim spans of the original buffers
// wherever possible instead of re-printing from scratch.
package autofix

import (
	"github.com/dutchcyberguy/semgrep/autofix/syntax"
)

// Replace rewrites the fix-template tree, resolving every metavariable and
// ellipsis reference against env.
//
// Subtrees the substitution does not touch are returned as the same shared
// node, origin intact, so the printer can lift them wholesale. A composite
// whose children changed is rebuilt without an origin, which forces the
// printer to recurse. The operation is all-or-nothing: on error no partial
// tree is returned.
func Replace(env *syntax.Env, tmpl syntax.Node) (syntax.Node, error) {
	return substitute(env, tmpl, syntax.SepSpace)
}

// substitute walks the template. sep is the separator class an ellipsis
// expansion at this level would use; list nodes override it with their own
// convention.
func substitute(env *syntax.Env, n syntax.Node, sep syntax.SepClass) (syntax.Node, error) {
	switch t := n.(type) {
	case *syntax.Token:
		return t, nil

	case *syntax.MetaVar:
		b, ok := env.Lookup(t.Name)
		if !ok {
			return nil, &UnboundMetavarError{Name: t.Name}
		}
		if b.IsSeq {
			return nil, &TypeMismatchError{Name: t.Name, Seq: true}
		}
		return b.Single, nil

	case *syntax.Ellipsis:
		seq, err := expandEllipsis(env, t, sep)
		if err != nil {
			return nil, err
		}
		return seq, nil

	case *syntax.Expr:
		children, changed, err := substituteAll(env, t.Children, sep)
		if err != nil {
			return nil, err
		}
		if !changed {
			return t, nil
		}
		return t.Rebuild(children), nil

	case *syntax.List:
		elems, changed, err := substituteAll(env, t.Elems, t.ListKind.Sep())
		if err != nil {
			return nil, err
		}
		if !changed {
			return t, nil
		}
		return t.Rebuild(elems), nil

	case *syntax.Sequence:
		// sequences only exist in already-substituted trees
		return t, nil

	default:
		return nil, &UnprintableNodeError{Kind: n.Kind()}
	}
}

func substituteAll(env *syntax.Env, nodes []syntax.Node, sep syntax.SepClass) ([]syntax.Node, bool, error) {
	out := make([]syntax.Node, 0, len(nodes))
	changed := false
	for _, c := range nodes {
		sc, err := substitute(env, c, sep)
		if err != nil {
			return nil, false, err
		}
		if sc != c {
			changed = true
		}
		out = append(out, sc)
	}
	if !changed {
		return nodes, false, nil
	}
	return out, true, nil
}

// expandEllipsis splices a sequence binding: k bound subtrees joined by k-1
// synthesized separators of the surrounding list's convention.
func expandEllipsis(env *syntax.Env, e *syntax.Ellipsis, sep syntax.SepClass) (*syntax.Sequence, error) {
	b, ok := env.Lookup(e.Name)
	if !ok {
		return nil, &UnboundMetavarError{Name: e.Name}
	}
	if !b.IsSeq {
		return nil, &TypeMismatchError{Name: e.Name}
	}
	elems := make([]syntax.Node, 0, 2*len(b.Seq))
	for i, sub := range b.Seq {
		if i > 0 {
			elems = append(elems, syntax.Synthesize(sep))
		}
		elems = append(elems, sub)
	}
	return &syntax.Sequence{Elems: elems}, nil
}
