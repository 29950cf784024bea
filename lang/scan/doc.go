// Package scan provides the text cursor and parser combinators the action
// language grammar is assembled from.
//
// Every [Parser] is a pure function of a [Cursor]. A failed match never
// consumes input, so alternation with [Alt] is ordered and needs no
// backtracking bookkeeping. Productions that match a prefix and then find
// input that can never be valid return a non-nil error instead, which aborts
// the whole parse with a precise location.
package scan
