package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dutchcyberguy/semgrep/autofix/source"
)

func TestEnvInsertionOrder(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	env.Bind("c", BindNode(NewToken("1", source.NewRange(source.Target, 0, 1))))
	env.Bind("a", BindSeq(nil))
	env.Bind("b", BindNode(NewToken("2", source.NewRange(source.Target, 1, 2))))

	assert.Equal(t, []string{"c", "a", "b"}, env.Names())

	// rebinding keeps the original position
	env.Bind("a", BindNode(NewToken("3", source.NewRange(source.Target, 2, 3))))
	assert.Equal(t, []string{"c", "a", "b"}, env.Names())
	assert.Equal(t, 3, env.Len())

	b, ok := env.Lookup("a")
	require.True(t, ok)
	assert.False(t, b.IsSeq)
}

func TestEnvCloneIsIndependent(t *testing.T) {
	t.Parallel()
	env := NewEnv()
	env.Bind("x", BindSeq(nil))

	clone := env.Clone()
	clone.Bind("y", BindSeq(nil))

	assert.Equal(t, 1, env.Len())
	assert.Equal(t, 2, clone.Len())

	_, ok := env.Lookup("y")
	assert.False(t, ok)
}

func TestSepCanonicalText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		sep      SepClass
		expected string
		ok       bool
	}{
		{SepCommaSpace, ", ", true},
		{SepNewline, "\n", true},
		{SepSpace, " ", true},
		{SepNone, "", false},
	}
	for _, tt := range tests {
		text, ok := tt.sep.CanonicalText()
		assert.Equal(t, tt.ok, ok, tt.sep.String())
		assert.Equal(t, tt.expected, text, tt.sep.String())
	}
}

func TestSpan(t *testing.T) {
	t.Parallel()
	tok := func(start, end int) *Token {
		return NewToken("x", source.NewRange(source.Target, start, end))
	}

	t.Run("node with origin", func(t *testing.T) {
		r, ok := Span(tok(2, 5))
		require.True(t, ok)
		assert.Equal(t, source.NewRange(source.Target, 2, 5), r)
	})

	t.Run("origin-less composite unions children", func(t *testing.T) {
		seq := &Sequence{Elems: []Node{tok(4, 6), Synthesize(SepCommaSpace), tok(9, 12)}}
		r, ok := Span(seq)
		require.True(t, ok)
		assert.Equal(t, source.NewRange(source.Target, 4, 12), r)
	})

	t.Run("fully synthesized has no span", func(t *testing.T) {
		seq := &Sequence{Elems: []Node{Synthesize(SepCommaSpace)}}
		_, ok := Span(seq)
		assert.False(t, ok)
	})
}

func TestListKindSep(t *testing.T) {
	t.Parallel()
	assert.Equal(t, SepCommaSpace, ListArgs.Sep())
	assert.Equal(t, SepNewline, ListStmts.Sep())
}
