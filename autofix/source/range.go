package source

import "fmt"

// ID identifies which buffer a range points into. Ranges from different
// buffers are never interchangeable.
type ID int

const (
	// Target is the file being scanned and fixed.
	Target ID = iota
	// Template is the fix-template text of a rule.
	Template
)

func (id ID) String() string {
	switch id {
	case Target:
		return "target"
	case Template:
		return "template"
	default:
		return "unknown"
	}
}

// Range is a half-open byte interval [Start, End) inside one buffer.
// Offsets are byte offsets, fixed when the buffer is lexed; every producer
// and consumer of a range shares that unit.
type Range struct {
	Buf   ID
	Start int
	End   int
}

// NewRange creates a range into the given buffer.
func NewRange(buf ID, start, end int) Range {
	return Range{Buf: buf, Start: start, End: end}
}

// Len returns the byte length of the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Valid reports whether the offsets are ordered and non-negative.
// Bounds against a concrete buffer are checked by Buffer.Slice.
func (r Range) Valid() bool {
	return 0 <= r.Start && r.Start <= r.End
}

// Overlaps reports whether two ranges in the same buffer share any byte.
func (r Range) Overlaps(o Range) bool {
	return r.Buf == o.Buf && r.Start < o.End && o.Start < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("%s[%d:%d]", r.Buf, r.Start, r.End)
}
