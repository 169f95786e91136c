// Package match locates pattern occurrences in a parsed target tree and
// produces the placeholder environment and overall range of each match.
package match

import (
	"strings"

	"github.com/dutchcyberguy/semgrep/autofix/source"
	"github.com/dutchcyberguy/semgrep/autofix/syntax"
)

// Match is one occurrence of a pattern in the target.
type Match struct {
	Env   *syntax.Env  // placeholder bindings, read-only after matching
	Range source.Range // overall matched span in the target buffer
}

// Matcher matches one pattern tree against trees parsed from a single
// target buffer. It holds no mutable state across FindAll calls.
type Matcher struct {
	buf *source.Buffer
}

// New creates a matcher for trees parsed from buf.
func New(buf *source.Buffer) *Matcher {
	return &Matcher{buf: buf}
}

// FindAll returns all non-overlapping matches, leftmost first. Matching is
// whitespace-insensitive: separator tokens on either side never have to
// line up, only the real tokens and the tree shape do.
func (m *Matcher) FindAll(pattern, tree *syntax.Expr) []Match {
	var out []Match
	m.walk(pattern.Children, tree.Children, &out)
	return out
}

func (m *Matcher) walk(pat []syntax.Node, nodes []syntax.Node, out *[]Match) {
	i := 0
	for i < len(nodes) {
		if isSep(nodes[i]) {
			i++
			continue
		}
		env := syntax.NewEnv()
		if end, bound, ok := m.seq(pat, nodes, 0, i, env); ok && end > i {
			if r, spanned := syntax.SpanAll(trimSeps(nodes[i:end])); spanned {
				*out = append(*out, Match{Env: bound, Range: r})
				i = end
				continue
			}
		}
		switch t := nodes[i].(type) {
		case *syntax.Expr:
			m.walk(pat, t.Children, out)
		case *syntax.List:
			m.walk(pat, t.Elems, out)
		}
		i++
	}
}

// seq matches the pattern slice against nodes starting at ti. On success
// it returns the exclusive end index in nodes and the environment that
// made the match work (a clone of env when backtracking was involved).
func (m *Matcher) seq(pat, tgt []syntax.Node, pi, ti int, env *syntax.Env) (int, *syntax.Env, bool) {
	for {
		for pi < len(pat) && isSep(pat[pi]) {
			pi++
		}
		if pi == len(pat) {
			return ti, env, true
		}
		for ti < len(tgt) && isSep(tgt[ti]) {
			ti++
		}

		switch p := pat[pi].(type) {
		case *syntax.MetaVar:
			return m.seqMetaVar(pat, tgt, pi, ti, p, env)

		case *syntax.Ellipsis:
			return m.seqEllipsis(pat, tgt, pi, ti, p, env)

		case *syntax.Token:
			if ti >= len(tgt) {
				return 0, nil, false
			}
			t, ok := tgt[ti].(*syntax.Token)
			if !ok || t.Text != p.Text {
				return 0, nil, false
			}
			pi++
			ti++

		case *syntax.Expr:
			if ti >= len(tgt) {
				return 0, nil, false
			}
			t, ok := tgt[ti].(*syntax.Expr)
			if !ok {
				return 0, nil, false
			}
			e2, ok := m.whole(p.Children, t.Children, env)
			if !ok {
				return 0, nil, false
			}
			env = e2
			pi++
			ti++

		case *syntax.List:
			if ti >= len(tgt) {
				return 0, nil, false
			}
			t, ok := tgt[ti].(*syntax.List)
			if !ok || t.ListKind != p.ListKind {
				return 0, nil, false
			}
			e2, ok := m.elems(nonSep(p.Elems), nonSep(t.Elems), env)
			if !ok {
				return 0, nil, false
			}
			env = e2
			pi++
			ti++

		default:
			return 0, nil, false
		}
	}
}

// seqMetaVar binds a scalar hole at sequence level. The hole consumes a
// run of sibling nodes: shortest run that lets the rest of the pattern
// match, or, for a trailing hole, the longest run within the current line.
func (m *Matcher) seqMetaVar(pat, tgt []syntax.Node, pi, ti int, p *syntax.MetaVar, env *syntax.Env) (int, *syntax.Env, bool) {
	if ti >= len(tgt) {
		return 0, nil, false
	}
	if restEmpty(pat, pi+1) {
		k := lineEnd(tgt, ti)
		run := trimSeps(tgt[ti:k])
		if len(run) == 0 {
			return 0, nil, false
		}
		trial := env.Clone()
		if !m.bind(trial, p.Name, syntax.BindNode(m.wrapRun(run))) {
			return 0, nil, false
		}
		return ti + runLen(tgt[ti:], run), trial, true
	}
	for k := ti + 1; k <= len(tgt); k++ {
		if isSep(tgt[k-1]) {
			continue
		}
		run := trimSeps(tgt[ti:k])
		trial := env.Clone()
		if !m.bind(trial, p.Name, syntax.BindNode(m.wrapRun(run))) {
			continue
		}
		if end, e2, ok := m.seq(pat, tgt, pi+1, k, trial); ok {
			return end, e2, true
		}
	}
	return 0, nil, false
}

// seqEllipsis binds a variable-length hole at sequence level, shortest
// first, zero nodes allowed.
func (m *Matcher) seqEllipsis(pat, tgt []syntax.Node, pi, ti int, p *syntax.Ellipsis, env *syntax.Env) (int, *syntax.Env, bool) {
	for k := ti; k <= len(tgt); k++ {
		if k > ti && isSep(tgt[k-1]) {
			continue
		}
		trial := env.Clone()
		if !m.bind(trial, p.Name, syntax.BindSeq(nonSep(tgt[ti:k]))) {
			continue
		}
		if end, e2, ok := m.seq(pat, tgt, pi+1, k, trial); ok {
			return end, e2, true
		}
	}
	return 0, nil, false
}

// whole requires the pattern to consume the target children completely.
func (m *Matcher) whole(pat, tgt []syntax.Node, env *syntax.Env) (*syntax.Env, bool) {
	end, e2, ok := m.seq(pat, tgt, 0, 0, env)
	if !ok {
		return nil, false
	}
	for _, n := range tgt[end:] {
		if !isSep(n) {
			return nil, false
		}
	}
	return e2, true
}

// elems aligns list elements, with ellipsis holes absorbing zero or more
// of them.
func (m *Matcher) elems(pe, te []syntax.Node, env *syntax.Env) (*syntax.Env, bool) {
	if len(pe) == 0 {
		if len(te) == 0 {
			return env, true
		}
		return nil, false
	}
	if ell, ok := pe[0].(*syntax.Ellipsis); ok {
		for k := 0; k <= len(te); k++ {
			trial := env.Clone()
			if !m.bind(trial, ell.Name, syntax.BindSeq(te[:k])) {
				continue
			}
			if e2, ok := m.elems(pe[1:], te[k:], trial); ok {
				return e2, true
			}
		}
		return nil, false
	}
	if len(te) == 0 {
		return nil, false
	}
	if mv, ok := pe[0].(*syntax.MetaVar); ok {
		if !m.bind(env, mv.Name, syntax.BindNode(te[0])) {
			return nil, false
		}
		return m.elems(pe[1:], te[1:], env)
	}
	e2, ok := m.whole([]syntax.Node{pe[0]}, []syntax.Node{te[0]}, env)
	if !ok {
		return nil, false
	}
	return m.elems(pe[1:], te[1:], e2)
}

// bind records a binding, rejecting a rebinding whose text differs from
// the first occurrence.
func (m *Matcher) bind(env *syntax.Env, name string, b syntax.Binding) bool {
	if prev, ok := env.Lookup(name); ok {
		return m.bindingText(prev) == m.bindingText(b)
	}
	env.Bind(name, b)
	return true
}

func (m *Matcher) bindingText(b syntax.Binding) string {
	if !b.IsSeq {
		return m.textOf(b.Single)
	}
	parts := make([]string, 0, len(b.Seq))
	for _, n := range b.Seq {
		parts = append(parts, m.textOf(n))
	}
	return strings.Join(parts, "\x00")
}

func (m *Matcher) textOf(n syntax.Node) string {
	r, ok := syntax.Span(n)
	if !ok {
		return ""
	}
	text, err := m.buf.Slice(r)
	if err != nil {
		return ""
	}
	return text
}

// wrapRun turns a consumed node run into one bindable subtree.
func (m *Matcher) wrapRun(run []syntax.Node) syntax.Node {
	if len(run) == 1 {
		return run[0]
	}
	span, _ := syntax.SpanAll(run)
	elems := make([]syntax.Node, len(run))
	copy(elems, run)
	return syntax.NewExpr(elems, span)
}

func isSep(n syntax.Node) bool {
	t, ok := n.(*syntax.Token)
	return ok && t.IsSeparator()
}

func nonSep(nodes []syntax.Node) []syntax.Node {
	var out []syntax.Node
	for _, n := range nodes {
		if !isSep(n) {
			out = append(out, n)
		}
	}
	return out
}

func trimSeps(nodes []syntax.Node) []syntax.Node {
	start, end := 0, len(nodes)
	for start < end && isSep(nodes[start]) {
		start++
	}
	for end > start && isSep(nodes[end-1]) {
		end--
	}
	return nodes[start:end]
}

func restEmpty(pat []syntax.Node, pi int) bool {
	for ; pi < len(pat); pi++ {
		if !isSep(pat[pi]) {
			return false
		}
	}
	return true
}

// lineEnd returns the index just past the last node before the next
// newline-class separator. A trailing hole never consumes past the end of
// its line.
func lineEnd(tgt []syntax.Node, ti int) int {
	for k := ti; k < len(tgt); k++ {
		if t, ok := tgt[k].(*syntax.Token); ok && t.Sep == syntax.SepNewline {
			return k
		}
	}
	return len(tgt)
}

// runLen counts how many leading nodes of tail the trimmed run covers.
func runLen(tail, run []syntax.Node) int {
	if len(run) == 0 {
		return 0
	}
	last := run[len(run)-1]
	for i, n := range tail {
		if n == last {
			return i + 1
		}
	}
	return len(tail)
}
