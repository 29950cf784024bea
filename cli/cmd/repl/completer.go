package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/actlang/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "edit", "clear", "quit"}

// isWordBoundary reports whether r ends a completion word. Identifiers may
// contain most punctuation (+, -, $, and so on), so only whitespace, block
// delimiters, and the quote characters separate words.
func isWordBoundary(r rune) bool {
	switch r {
	case '(', ')', '\'', '"', '#':
		return true
	}

	return unicode.IsSpace(r)
}

// wordBounds returns the word under the cursor and its byte boundaries
// within input. The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// isOptionWord reports whether the word is an option name ("--flag"), which
// is never completed against bindings.
func isOptionWord(word string) bool {
	return strings.HasPrefix(word, "--")
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor, ranked best first, along with the word boundaries. An empty word
// has no matches, leaving room for the hint line.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	word, wordStart, wordEnd := wordBounds(m.input.Value(), m.input.Position())

	if word == "" || isOptionWord(word) {
		return nil, wordStart, wordEnd
	}

	var candidates []string

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		candidates = m.env.Names()
	}

	if len(candidates) == 0 {
		return nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate (when tabbing) uses the selected style.
func renderCandidateBar(
	env *lang.Environment,
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(env, match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// highlighted. Methods that take arguments carry a trailing "…" marker.
func renderCandidate(env *lang.Environment, match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if env != nil {
		if m, ok := env.LookupMethod(match.Str); ok && (m.Arity() > 0 || m.Rest()) {
			b.WriteString(baseStyle.Render("…"))
		}
	}

	return b.String()
}

// preview renders a short description of a binding for the list command.
func preview(v any) string {
	const maxPreview = 40

	var s string

	if m, ok := v.(lang.Method); ok {
		s = lang.Signature(m)
	} else {
		s = lang.FormatResult(v)
	}

	if utf8.RuneCountInString(s) > maxPreview {
		s = string([]rune(s)[:maxPreview-3]) + "..."
	}

	return s
}
