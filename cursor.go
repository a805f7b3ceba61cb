package parsekit

import "strings"

// Cursor is an immutable position inside an input text. Every parse step
// returns a new Cursor; the original is never mutated. The invariant
// 0 <= Offset() <= len(Text()) always holds.
type Cursor struct {
	text string
	off  int
}

// NewCursor returns a cursor at the start of text.
func NewCursor(text string) Cursor { return Cursor{text: text} }

// Text returns the full input the cursor points into.
func (c Cursor) Text() string { return c.text }

// Offset returns the current byte offset.
func (c Cursor) Offset() int { return c.off }

// AtEnd reports whether the cursor has consumed all input.
func (c Cursor) AtEnd() bool { return c.off >= len(c.text) }

// Rest returns the unconsumed remainder of the input.
func (c Cursor) Rest() string { return c.text[c.off:] }

// Advance returns a cursor moved n bytes forward, clamped to the end of
// input. Negative n is ignored.
func (c Cursor) Advance(n int) Cursor {
	if n <= 0 {
		return c
	}
	off := c.off + n
	if off > len(c.text) {
		off = len(c.text)
	}
	return Cursor{text: c.text, off: off}
}

// LineColumn returns the 1-based line and column of the cursor position.
func (c Cursor) LineColumn() (line, column int) {
	return lineColumn(c.text, c.off)
}

func lineColumn(text string, off int) (line, column int) {
	if off < 0 {
		off = 0
	}
	if off > len(text) {
		off = len(text)
	}
	line = strings.Count(text[:off], "\n") + 1
	last := strings.LastIndex(text[:off], "\n")
	if last == -1 {
		column = off + 1
	} else {
		column = off - last
	}
	if column <= 0 {
		column = 1
	}
	return line, column
}
