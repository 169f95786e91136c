package source

import (
	"errors"
	"fmt"
)

// ErrOffsetMismatch reports a range that does not fit the buffer it was
// applied to: wrong buffer identity or offsets past the end. This is an
// internal invariant violation, not user input; callers escalate it
// instead of downgrading it to a skipped fix.
var ErrOffsetMismatch = errors.New("range does not fit buffer")

// Buffer is an immutable piece of source text with a stable identity.
// The target file and the fix-template text of a rule each get one.
type Buffer struct {
	id   ID
	name string
	text string
}

// NewBuffer wraps text in a buffer. The text is never mutated afterwards,
// so a buffer may be read concurrently by any number of printers.
func NewBuffer(id ID, name, text string) *Buffer {
	return &Buffer{id: id, name: name, text: text}
}

// ID returns the buffer identity.
func (b *Buffer) ID() ID { return b.id }

// Name returns the display name (file path for target buffers, rule id for
// template buffers).
func (b *Buffer) Name() string { return b.name }

// Len returns the byte length of the buffer.
func (b *Buffer) Len() int { return len(b.text) }

// Text returns the full buffer content.
func (b *Buffer) Text() string { return b.text }

// Slice returns the verbatim text covered by r. Constant time.
// A range pointing at a different buffer or outside the content is an
// ErrOffsetMismatch.
func (b *Buffer) Slice(r Range) (string, error) {
	if r.Buf != b.id {
		return "", fmt.Errorf("%w: %s range sliced from %s buffer %q", ErrOffsetMismatch, r.Buf, b.id, b.name)
	}
	if !r.Valid() || r.End > len(b.text) {
		return "", fmt.Errorf("%w: %s exceeds %q (len %d)", ErrOffsetMismatch, r, b.name, len(b.text))
	}
	return b.text[r.Start:r.End], nil
}

// Splice replaces the text covered by r with repl and returns the result.
// Text strictly before r.Start and strictly after r.End is untouched.
func (b *Buffer) Splice(r Range, repl string) (string, error) {
	if _, err := b.Slice(r); err != nil {
		return "", err
	}
	return b.text[:r.Start] + repl + b.text[r.End:], nil
}

// LineCol converts a byte offset into 1-based line and column numbers
// for reporting.
func (b *Buffer) LineCol(offset int) (line, col int) {
	line, col = 1, 1
	if offset > len(b.text) {
		offset = len(b.text)
	}
	for i := 0; i < offset; i++ {
		if b.text[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
