package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/actlang/lang"
)

// Signature hint styles.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// pendingCall is a method call still collecting arguments at the cursor.
type pendingCall struct {
	method   lang.Method
	argIndex int // index of the argument the cursor is on
	inCall   bool
}

type tokenKind int

const (
	tokenOpen tokenKind = iota
	tokenClose
	tokenWord
	tokenValue
	tokenOption
)

type token struct {
	kind tokenKind
	text string
}

// tokenize splits input into the coarse tokens needed to track pending
// calls. Text literals and quoted atoms are values; comments are dropped.
// An unterminated text literal ends the input.
func tokenize(input string) []token {
	var toks []token

	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])

		switch {
		case unicode.IsSpace(r):
			i += size

		case r == '#':
			nl := strings.IndexByte(input[i:], '\n')
			if nl < 0 {
				return toks
			}

			i += nl + 1

		case r == '(':
			toks = append(toks, token{kind: tokenOpen})
			i += size

		case r == ')':
			toks = append(toks, token{kind: tokenClose})
			i += size

		case r == '"':
			j := i + 1
			for j < len(input) && input[j] != '"' {
				if input[j] == '\\' {
					j++
				}

				j++
			}

			if j >= len(input) {
				return toks
			}

			toks = append(toks, token{kind: tokenValue, text: input[i : j+1]})
			i = j + 1

		case r == '\'':
			// A quoted block is still a block for bracket matching; a quoted
			// atom is a plain value.
			i += size
			if i < len(input) && input[i] != '(' {
				word, _, end := wordBounds(input, i)
				toks = append(toks, token{kind: tokenValue, text: "'" + word})
				i = max(end, i+1)
			}

		default:
			word, _, end := wordBounds(input, i)

			kind := tokenWord
			if isOptionWord(word) {
				kind = tokenOption
			}

			toks = append(toks, token{kind: kind, text: word})
			i = max(end, i+size)
		}
	}

	return toks
}

// detectCall finds the innermost method call that is still collecting
// arguments at the cursor, simulating how the evaluator consumes arguments
// from a chain. Words that name methods open calls; every other word, text,
// quoted atom, and closed block is one argument to the innermost open call.
func detectCall(env *lang.Environment, input string, cursor int) pendingCall {
	if env == nil {
		return pendingCall{}
	}

	cursor = min(max(cursor, 0), len(input))

	type call struct {
		method lang.Method
		args   int
	}

	// frames holds one stack of open calls per open block.
	frames := [][]call{nil}

	deliver := func() {
		top := &frames[len(frames)-1]

		for len(*top) > 0 {
			c := &(*top)[len(*top)-1]
			c.args++

			if c.method.Rest() || c.args < c.method.Arity() {
				return
			}

			*top = (*top)[:len(*top)-1]
		}
	}

	toks := tokenize(input[:cursor])

	// A word still being typed at the cursor is not yet an argument.
	if n := len(toks); n > 0 && cursor > 0 {
		r, _ := utf8.DecodeLastRuneInString(input[:cursor])
		if !isWordBoundary(r) {
			toks = toks[:n-1]
		}
	}

	for _, tok := range toks {
		switch tok.kind {
		case tokenOpen:
			frames = append(frames, nil)

		case tokenClose:
			if len(frames) > 1 {
				frames = frames[:len(frames)-1]
				deliver()
			}

		case tokenOption:
			// Options do not count toward arity.

		case tokenWord:
			m, ok := env.LookupMethod(tok.text)
			if !ok {
				deliver()

				continue
			}

			top := &frames[len(frames)-1]
			*top = append(*top, call{method: m})

			if m.Arity() == 0 && !m.Rest() {
				*top = (*top)[:len(*top)-1]
				deliver()
			}

		case tokenValue:
			deliver()
		}
	}

	calls := frames[len(frames)-1]
	if len(calls) == 0 {
		return pendingCall{}
	}

	last := calls[len(calls)-1]

	return pendingCall{method: last.method, argIndex: last.args, inCall: true}
}

// renderSignatureHint renders the method's signature with the parameter at
// argIndex highlighted. The rest marker stays highlighted once reached.
func renderSignatureHint(m lang.Method, argIndex int) string {
	fields := strings.Fields(lang.Signature(m))
	if len(fields) == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(fields[0]))

	for i, param := range fields[1:] {
		b.WriteString(" ")

		current := i == argIndex
		if param == "..." {
			current = argIndex >= i
		}

		if current {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	return b.String()
}
