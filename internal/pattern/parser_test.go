package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dutchcyberguy/semgrep/autofix"
	"github.com/dutchcyberguy/semgrep/autofix/source"
	"github.com/dutchcyberguy/semgrep/autofix/syntax"
	"github.com/dutchcyberguy/semgrep/internal/lang"
)

func parseTemplate(t *testing.T, text string) (*syntax.Expr, *source.Buffer) {
	t.Helper()
	buf := source.NewBuffer(source.Template, "test", text)
	tree, err := Parse(buf, lang.Go, true)
	require.NoError(t, err)
	return tree, buf
}

func TestParsePreservesText(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"foobar",
		"foo + bar",
		"foo(1, 42, 423)",
		"bar(baz, :[rest...])",
		"if x { y() }",
		"m[k] = v",
	}
	for _, input := range inputs {
		tree, buf := parseTemplate(t, input)

		// an untouched tree prints back to the exact input
		got, err := autofix.Print(tree, nil, buf)
		require.NoError(t, err, input)
		assert.Equal(t, input, got, input)

		// the root origin spans the whole buffer
		require.NotNil(t, tree.Origin())
		assert.Equal(t, source.NewRange(source.Template, 0, len(input)), *tree.Origin())
	}
}

func TestParseGroupShape(t *testing.T) {
	t.Parallel()
	tree, _ := parseTemplate(t, "foo(1, 42)")

	require.Len(t, tree.Children, 2)
	assert.Equal(t, syntax.KindToken, tree.Children[0].Kind())

	group, ok := tree.Children[1].(*syntax.Expr)
	require.True(t, ok)
	require.Len(t, group.Children, 3)

	list, ok := group.Children[1].(*syntax.List)
	require.True(t, ok)
	assert.Equal(t, syntax.ListArgs, list.ListKind)

	var elems []string
	for _, e := range list.Elems {
		if tok, ok := e.(*syntax.Token); ok && tok.IsSeparator() {
			continue
		}
		tok, ok := e.(*syntax.Token)
		require.True(t, ok)
		elems = append(elems, tok.Text)
	}
	assert.Equal(t, []string{"1", "42"}, elems)
}

func TestParseMultiTokenElement(t *testing.T) {
	t.Parallel()
	tree, buf := parseTemplate(t, "f(a + b, c)")

	group := tree.Children[1].(*syntax.Expr)
	list := group.Children[1].(*syntax.List)

	var elems []syntax.Node
	for _, e := range list.Elems {
		if tok, ok := e.(*syntax.Token); ok && tok.IsSeparator() {
			continue
		}
		elems = append(elems, e)
	}
	require.Len(t, elems, 2)

	// "a + b" is one element wrapped in a composite spanning exactly it
	expr, ok := elems[0].(*syntax.Expr)
	require.True(t, ok)
	r, ok := syntax.Span(expr)
	require.True(t, ok)
	text, err := buf.Slice(r)
	require.NoError(t, err)
	assert.Equal(t, "a + b", text)
}

func TestParseHoles(t *testing.T) {
	t.Parallel()
	tree, _ := parseTemplate(t, ":[lhs] + :[rest...]")

	var kinds []syntax.Kind
	for _, c := range tree.Children {
		kinds = append(kinds, c.Kind())
	}
	assert.Contains(t, kinds, syntax.KindMetaVar)
	assert.Contains(t, kinds, syntax.KindEllipsis)

	mv, ok := tree.Children[0].(*syntax.MetaVar)
	require.True(t, ok)
	assert.Equal(t, "lhs", mv.Name)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
	}{
		{"missing close paren", "foo("},
		{"stray close paren", "foo)"},
		{"mismatched brackets", "foo(]"},
		{"bad hole", "f(:[1])"},
		// known limitation: brackets inside string literals count toward
		// balancing, so such a file is reported as unparseable
		{"bracket inside string literal", `f(":)")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := source.NewBuffer(source.Template, "test", tt.input)
			_, err := Parse(buf, lang.Go, true)
			assert.Error(t, err)
		})
	}
}

func TestParseTargetKeepsHoleSyntaxLiteral(t *testing.T) {
	t.Parallel()
	buf := source.NewBuffer(source.Target, "test", "m = :[x]")
	tree, err := Parse(buf, lang.Go, false)
	require.NoError(t, err)

	for _, c := range tree.Children {
		assert.NotEqual(t, syntax.KindMetaVar, c.Kind())
	}
}
