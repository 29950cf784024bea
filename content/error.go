package content

import (
	"fmt"
	"strings"

	"github.com/ardnew/actlang/lang"
)

// Predefined errors (sentinel values).
var (
	ErrLoad            = lang.NewError("failed to load content")
	ErrDuplicateEntity = lang.NewError("duplicate entity")
	ErrUnknownEntity   = lang.NewError("unknown entity")
	ErrUnknownTrigger  = lang.NewError("unknown trigger")
)

// Diagnostic is a problem found in one action of one entity.
type Diagnostic struct {
	Path    string
	Entity  *Entity
	Trigger string
	Err     error
}

// Error implements the error interface. The message starts with the
// location of the action, followed by the diagnostic of the parser.
func (d Diagnostic) Error() string {
	var b strings.Builder

	if d.Path != "" {
		b.WriteString(d.Path)
		b.WriteString(": ")
	}

	fmt.Fprintf(&b, "%s %q action %q: %v", d.Entity.Kind, d.Entity.Name, d.Trigger, d.Err)

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (d Diagnostic) Unwrap() error { return d.Err }
