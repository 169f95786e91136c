package syntax

// SepClass is the closed set of connective tokens the printer may
// synthesize. Anything outside this table must be lifted from a buffer.
type SepClass int

const (
	SepNone       SepClass = iota // not a separator
	SepCommaSpace                 // between argument-list elements
	SepNewline                    // between statement-list elements
	SepSpace                      // between elements outside any list
)

var sepText = map[SepClass]string{
	SepCommaSpace: ", ",
	SepNewline:    "\n",
	SepSpace:      " ",
}

// CanonicalText returns the canonical form of a synthesizable separator.
// The second return is false for SepNone and unknown classes.
func (s SepClass) CanonicalText() (string, bool) {
	text, ok := sepText[s]
	return text, ok
}

func (s SepClass) String() string {
	switch s {
	case SepNone:
		return "none"
	case SepCommaSpace:
		return "comma-space"
	case SepNewline:
		return "newline"
	case SepSpace:
		return "space"
	default:
		return "unknown"
	}
}
