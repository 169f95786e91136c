package pattern

import (
	"fmt"

	"github.com/dutchcyberguy/semgrep/autofix/source"
	"github.com/dutchcyberguy/semgrep/autofix/syntax"
	"github.com/dutchcyberguy/semgrep/internal/lang"
)

// Parse builds the tree for one buffer under the given language grammar.
// Every leaf carries an origin into buf, and leaves tile the buffer, so
// printing an untouched tree reproduces the text byte for byte. The root
// node's origin spans the whole buffer.
func Parse(buf *source.Buffer, language lang.Language, holes bool) (*syntax.Expr, error) {
	tokens, err := lex(buf.Text(), holes)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens, buf: buf, grammar: language.Grammar()}
	children, err := p.parseSeq(0)
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		t := p.tokens[p.pos]
		return nil, fmt.Errorf("position %d: unbalanced %q", t.start, t.text)
	}
	return syntax.NewExpr(children, source.NewRange(buf.ID(), 0, buf.Len())), nil
}

type parser struct {
	tokens  []token
	pos     int
	buf     *source.Buffer
	grammar *lang.Grammar
}

func (p *parser) rangeOf(t token) source.Range {
	return source.NewRange(p.buf.ID(), t.start, t.end)
}

// parseSeq consumes nodes until EOF or an unconsumed closer byte.
// closer == 0 means parse to EOF.
func (p *parser) parseSeq(closer byte) ([]syntax.Node, error) {
	var nodes []syntax.Node
	for p.pos < len(p.tokens) {
		t := p.tokens[p.pos]

		switch t.typ {
		case tokHole:
			p.pos++
			if t.ellipsis {
				nodes = append(nodes, syntax.NewEllipsis(t.name, p.rangeOf(t)))
			} else {
				nodes = append(nodes, syntax.NewMetaVar(t.name, p.rangeOf(t)))
			}

		case tokSpace:
			p.pos++
			nodes = append(nodes, syntax.NewSepToken(t.text, spaceClass(t.text), p.rangeOf(t)))

		case tokWord:
			p.pos++
			nodes = append(nodes, syntax.NewToken(t.text, p.rangeOf(t)))

		case tokPunct:
			// the grammar has no string-literal awareness: a lone bracket
			// inside a quoted literal counts toward balancing and fails
			// the parse of that buffer
			b := t.text[0]
			if closer != 0 && b == closer {
				return nodes, nil
			}
			if closeByte, ok := p.grammar.Brackets[b]; ok {
				group, err := p.parseGroup(t, closeByte)
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, group)
				continue
			}
			if isCloser(p.grammar, b) {
				return nil, fmt.Errorf("position %d: unbalanced %q", t.start, t.text)
			}
			p.pos++
			switch b {
			case ',':
				nodes = append(nodes, syntax.NewSepToken(t.text, syntax.SepCommaSpace, p.rangeOf(t)))
			case ';':
				nodes = append(nodes, syntax.NewSepToken(t.text, syntax.SepNewline, p.rangeOf(t)))
			default:
				nodes = append(nodes, syntax.NewToken(t.text, p.rangeOf(t)))
			}
		}
	}
	if closer != 0 {
		return nil, fmt.Errorf("missing closing %q", string(closer))
	}
	return nodes, nil
}

// parseGroup consumes a bracketed group: the open delimiter, a list node
// covering the content, and the close delimiter, wrapped in one composite
// whose origin spans the delimiters.
func (p *parser) parseGroup(open token, closeByte byte) (*syntax.Expr, error) {
	p.pos++ // consume open bracket
	inner, err := p.parseSeq(closeByte)
	if err != nil {
		return nil, err
	}
	if p.pos >= len(p.tokens) {
		return nil, fmt.Errorf("position %d: missing closing %q for %q", open.start, string(closeByte), open.text)
	}
	closeTok := p.tokens[p.pos]
	p.pos++

	kind := p.grammar.ListKinds[open.text[0]]
	list := syntax.NewList(kind, p.groupElems(inner, kind),
		source.NewRange(p.buf.ID(), open.end, closeTok.start))

	children := []syntax.Node{
		syntax.NewToken(open.text, p.rangeOf(open)),
		list,
		syntax.NewToken(closeTok.text, p.rangeOf(closeTok)),
	}
	return syntax.NewExpr(children, source.NewRange(p.buf.ID(), open.start, closeTok.end)), nil
}

// groupElems wraps each element run of a list body in a single node so the
// matcher can bind holes to whole elements. Separator tokens, including
// the whitespace around them, stay at list level in original order.
func (p *parser) groupElems(nodes []syntax.Node, kind syntax.ListKind) []syntax.Node {
	split := kind.Sep()
	isSplit := func(n syntax.Node) bool {
		t, ok := n.(*syntax.Token)
		return ok && t.Sep == split
	}
	isPad := func(n syntax.Node) bool {
		t, ok := n.(*syntax.Token)
		return ok && t.IsSeparator() && t.Sep != split
	}

	var out []syntax.Node
	i := 0
	for i < len(nodes) {
		if isSplit(nodes[i]) || isPad(nodes[i]) {
			out = append(out, nodes[i])
			i++
			continue
		}
		// element run: up to the last non-padding node before the next
		// split separator
		j, last := i, i
		for j < len(nodes) && !isSplit(nodes[j]) {
			if !isPad(nodes[j]) {
				last = j
			}
			j++
		}
		out = append(out, p.wrapElem(nodes[i:last+1]))
		// trailing padding is re-examined at list level
		i = last + 1
	}
	return out
}

func (p *parser) wrapElem(run []syntax.Node) syntax.Node {
	if len(run) == 1 {
		return run[0]
	}
	span, ok := syntax.SpanAll(run)
	if !ok {
		span = source.NewRange(p.buf.ID(), 0, 0)
	}
	elems := make([]syntax.Node, len(run))
	copy(elems, run)
	return syntax.NewExpr(elems, span)
}

func spaceClass(text string) syntax.SepClass {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			return syntax.SepNewline
		}
	}
	return syntax.SepSpace
}

func isCloser(g *lang.Grammar, b byte) bool {
	for _, c := range g.Brackets {
		if c == b {
			return true
		}
	}
	return false
}
