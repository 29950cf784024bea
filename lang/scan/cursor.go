package scan

import "unicode/utf8"

// Cursor is an immutable position within a source text.
//
// Advancing a Cursor returns a new value; the receiver is never modified, so
// any parser can hold on to its starting Cursor and report or retry from it.
type Cursor struct {
	text   string
	offset int
}

// New returns a Cursor positioned at the start of text.
func New(text string) Cursor {
	return Cursor{text: text}
}

// Text returns the complete source text the Cursor walks over.
func (c Cursor) Text() string { return c.text }

// Offset returns the byte offset of the Cursor within its text.
func (c Cursor) Offset() int { return c.offset }

// EOF reports whether the Cursor is at the end of its text.
func (c Cursor) EOF() bool { return c.offset >= len(c.text) }

// Rest returns the unconsumed remainder of the text.
func (c Cursor) Rest() string {
	if c.EOF() {
		return ""
	}

	return c.text[c.offset:]
}

// Peek decodes the rune at the Cursor and returns it with its encoded width.
// The width is 0 at end of text.
func (c Cursor) Peek() (rune, int) {
	if c.EOF() {
		return utf8.RuneError, 0
	}

	return utf8.DecodeRuneInString(c.text[c.offset:])
}

// Advance returns a Cursor n bytes further into the text, clamped to its end.
func (c Cursor) Advance(n int) Cursor {
	off := c.offset + n
	if off > len(c.text) {
		off = len(c.text)
	}

	if off < 0 {
		off = 0
	}

	return Cursor{text: c.text, offset: off}
}

// Next returns a Cursor advanced past the rune at c.
func (c Cursor) Next() Cursor {
	_, size := c.Peek()

	return c.Advance(size)
}

// Between returns the text consumed from c up to end.
func (c Cursor) Between(end Cursor) string {
	if end.offset <= c.offset {
		return ""
	}

	return c.text[c.offset:end.offset]
}
