// Package syntax defines the generic node envelope shared by every target
// language. Each language keeps its own concrete grammar; substitution and
// printing only ever see this closed set of variants.
package syntax

import (
	"fmt"
	"strconv"

	"github.com/dutchcyberguy/semgrep/autofix/source"
)

// Kind tags the closed set of node variants.
type Kind int

const (
	KindToken    Kind = iota // leaf token
	KindExpr                 // composite expression / statement
	KindList                 // delimited sequence with a separator convention
	KindMetaVar              // :[name] reference, resolved by substitution
	KindEllipsis             // :[name...] reference, resolved by substitution
	KindSequence             // expanded ellipsis splice, exists only after substitution
)

func (k Kind) String() string {
	switch k {
	case KindToken:
		return "token"
	case KindExpr:
		return "expr"
	case KindList:
		return "list"
	case KindMetaVar:
		return "metavar"
	case KindEllipsis:
		return "ellipsis"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Node is the envelope every variant implements. A node with a nil origin
// is synthesized: it exists only because the printer must emit connective
// punctuation for it.
type Node interface {
	Kind() Kind
	Origin() *source.Range
	String() string
}

var (
	_ Node = (*Token)(nil)
	_ Node = (*Expr)(nil)
	_ Node = (*List)(nil)
	_ Node = (*MetaVar)(nil)
	_ Node = (*Ellipsis)(nil)
	_ Node = (*Sequence)(nil)
)

// Token is a leaf. Lifted tokens carry the verbatim text and an origin; a
// synthesized separator carries only its SepClass and no origin.
type Token struct {
	Text   string
	Sep    SepClass // SepNone for ordinary tokens
	origin *source.Range
}

// NewToken creates a lifted token whose text came from origin.
func NewToken(text string, origin source.Range) *Token {
	return &Token{Text: text, origin: &origin}
}

// NewSepToken creates a lifted token that serves as a structural separator
// (a comma or whitespace run that was present in the parsed text).
func NewSepToken(text string, sep SepClass, origin source.Range) *Token {
	return &Token{Text: text, Sep: sep, origin: &origin}
}

// Synthesize creates an origin-less separator token. Its text is taken from
// the canonical separator table at print time.
func Synthesize(sep SepClass) *Token {
	return &Token{Sep: sep}
}

func (t *Token) Kind() Kind             { return KindToken }
func (t *Token) Origin() *source.Range  { return t.origin }
func (t *Token) IsSeparator() bool      { return t.Sep != SepNone }
func (t *Token) String() string {
	if t.origin == nil {
		return fmt.Sprintf("Sep(%s)", t.Sep)
	}
	return fmt.Sprintf("Token(%s)", strconv.Quote(t.Text))
}

// Expr is a composite node covering a contiguous run of children.
// Substitution drops the origin when any descendant changes, which forces
// the printer to recurse instead of lifting stale text.
type Expr struct {
	Children []Node
	origin   *source.Range
}

// NewExpr creates a composite with the origin spanning all children.
func NewExpr(children []Node, origin source.Range) *Expr {
	return &Expr{Children: children, origin: &origin}
}

// Rebuild creates a substituted copy of the composite with no origin.
func (e *Expr) Rebuild(children []Node) *Expr {
	return &Expr{Children: children}
}

func (e *Expr) Kind() Kind            { return KindExpr }
func (e *Expr) Origin() *source.Range { return e.origin }
func (e *Expr) String() string        { return fmt.Sprintf("Expr(%d children)", len(e.Children)) }

// ListKind selects the separator convention of a list.
type ListKind int

const (
	ListArgs  ListKind = iota // argument lists: comma-space
	ListStmts                 // statement blocks: newline
)

// Sep returns the separator class synthesized between spliced elements of
// this list kind.
func (k ListKind) Sep() SepClass {
	if k == ListStmts {
		return SepNewline
	}
	return SepCommaSpace
}

func (k ListKind) String() string {
	if k == ListStmts {
		return "stmts"
	}
	return "args"
}

// List is a delimited sequence. Elems holds the element nodes interleaved
// with the separator tokens that were present in the parsed text, in
// original order.
type List struct {
	ListKind ListKind
	Elems    []Node
	origin   *source.Range
}

// NewList creates a list with the origin spanning its content.
func NewList(kind ListKind, elems []Node, origin source.Range) *List {
	return &List{ListKind: kind, Elems: elems, origin: &origin}
}

// Rebuild creates a substituted copy of the list with no origin.
func (l *List) Rebuild(elems []Node) *List {
	return &List{ListKind: l.ListKind, Elems: elems}
}

func (l *List) Kind() Kind            { return KindList }
func (l *List) Origin() *source.Range { return l.origin }
func (l *List) String() string {
	return fmt.Sprintf("List(%s, %d elems)", l.ListKind, len(l.Elems))
}

// MetaVar is a scalar placeholder reference inside a pattern or template.
type MetaVar struct {
	Name   string
	origin *source.Range
}

func NewMetaVar(name string, origin source.Range) *MetaVar {
	return &MetaVar{Name: name, origin: &origin}
}

func (m *MetaVar) Kind() Kind            { return KindMetaVar }
func (m *MetaVar) Origin() *source.Range { return m.origin }
func (m *MetaVar) String() string        { return fmt.Sprintf("MetaVar(%s)", m.Name) }

// Ellipsis is a variable-length placeholder reference.
type Ellipsis struct {
	Name   string
	origin *source.Range
}

func NewEllipsis(name string, origin source.Range) *Ellipsis {
	return &Ellipsis{Name: name, origin: &origin}
}

func (e *Ellipsis) Kind() Kind            { return KindEllipsis }
func (e *Ellipsis) Origin() *source.Range { return e.origin }
func (e *Ellipsis) String() string        { return fmt.Sprintf("Ellipsis(%s)", e.Name) }

// Sequence is an expanded ellipsis binding spliced into a surrounding list:
// the bound subtrees interleaved with synthesized separators. It never has
// an origin of its own.
type Sequence struct {
	Elems []Node
}

func (s *Sequence) Kind() Kind            { return KindSequence }
func (s *Sequence) Origin() *source.Range { return nil }
func (s *Sequence) String() string        { return fmt.Sprintf("Sequence(%d elems)", len(s.Elems)) }

// SpanAll computes the union of the spans of a run of sibling nodes.
func SpanAll(nodes []Node) (source.Range, bool) {
	var span source.Range
	found := false
	for _, n := range nodes {
		r, ok := Span(n)
		if !ok {
			continue
		}
		if !found {
			span = r
			found = true
			continue
		}
		if r.Buf != span.Buf {
			return source.Range{}, false
		}
		if r.Start < span.Start {
			span.Start = r.Start
		}
		if r.End > span.End {
			span.End = r.End
		}
	}
	return span, found
}

// Span computes the source range covered by a node: its own origin if it
// has one, otherwise the union of its descendants' origins. The second
// return is false for fully synthesized nodes.
func Span(n Node) (source.Range, bool) {
	if r := n.Origin(); r != nil {
		return *r, true
	}
	var children []Node
	switch t := n.(type) {
	case *Expr:
		children = t.Children
	case *List:
		children = t.Elems
	case *Sequence:
		children = t.Elems
	default:
		return source.Range{}, false
	}
	return SpanAll(children)
}
