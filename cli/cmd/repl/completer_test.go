package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/actlang/lang/stdlib"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"operator", "+ 1 2", 1, "+", 0, 1},
		{"after_space", "+ 1 fo", 6, "fo", 4, 6},
		{"after_paren", "(dou", 4, "dou", 1, 4},
		{"before_paren", "abs)", 3, "abs", 0, 3},
		{"after_quote", "def 'tw", 7, "tw", 5, 7},
		{"empty_at_boundary", "+ 1 ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		// Punctuation is part of identifiers.
		{"symbolic", "<= $hp", 6, "$hp", 3, 6},
		{"hyphenated", "draw-card", 9, "draw-card", 0, 9},
		{"option", "let 'x 1 --over", 15, "--over", 9, 15},
		{"cursor_past_end", "ab", 10, "ab", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestComputeMatches(t *testing.T) {
	env := stdlib.New()

	tests := []struct {
		name  string
		mode  inputMode
		input string
		want  string // expected best match, empty for none
	}{
		{"method", modeEval, "repe", "repeat"},
		{"fuzzy", modeEval, "cnct", "concat"},
		{"empty", modeEval, "+ 1 ", ""},
		{"option", modeEval, "let 'x 1 --ov", ""},
		{"command", modeCtrl, "qu", "quit"},
		{"no_match", modeEval, "zzzzzz", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t.Context(), env, nil, NewHistory(""), testLogger)
			m = m.switchToMode(tt.mode)
			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, _, _ := m.computeMatches()

			if tt.want == "" {
				if len(matches) != 0 {
					t.Errorf("matches = %v, want none", matches)
				}

				return
			}

			if len(matches) == 0 {
				t.Fatalf("no matches for %q, want %q", tt.input, tt.want)
			}

			if matches[0].Str != tt.want {
				t.Errorf("best match = %q, want %q", matches[0].Str, tt.want)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	env := stdlib.New()

	m, ok := env.LookupMethod("if")
	if !ok {
		t.Fatal("if is not defined")
	}

	if got := preview(m); got != "if a b c" {
		t.Errorf("preview(if) = %q", got)
	}

	long := preview(slices.Repeat([]any{1}, 40))
	if n := len([]rune(long)); n != 40 {
		t.Errorf("preview length = %d, want 40", n)
	}
}
