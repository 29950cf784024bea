package lang

import (
	"errors"
	"testing"
	"unicode/utf8"
)

// FuzzParse checks that parsing never panics, that failures are always
// located parse errors, and that printing a tree yields source that parses
// to the same printed form.
func FuzzParse(f *testing.F) {
	f.Add("+ 1 2")
	f.Add("+ 1 * 3 2")
	f.Add("(+ 1 (* 3 (- 8 2)))")
	f.Add(`"a \"quoted\" word"`)
	f.Add("if (> hp 0) 'alive 'dead")
	f.Add("let 'x 5 --overwrite")
	f.Add("# comment\nrange _ 5")
	f.Add("12ab")
	f.Add("(unclosed")
	f.Add("'")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		e, err := Parse(t.Context(), input)
		if err != nil {
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not *ParseError", err)
			}

			if pe.Span.Offset < 0 || pe.Span.End() > len(input) {
				t.Fatalf("span %+v outside input of length %d", pe.Span, len(input))
			}

			return
		}

		printed := e.String()

		again, err := Parse(t.Context(), printed)
		if err != nil {
			t.Fatalf("reparse of %q failed: %v", printed, err)
		}

		if again.String() != printed {
			t.Fatalf("reprint %q != %q", again.String(), printed)
		}
	})
}
