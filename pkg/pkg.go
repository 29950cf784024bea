//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// version is the semantic version of the module embedded at build time.
//
//go:embed VERSION
var version string

// Version returns the semantic version of the module, as printed by
// "actlang --version".
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the command name. It also names the per-user configuration
	// and cache directories.
	Name = "actlang"
	// Description is the one-line summary shown in help output.
	Description = "Action language for data-driven game content"
)

// AuthorInfo is one author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// String formats the author as "Name <Email>", omitting an empty part.
func (a AuthorInfo) String() string {
	switch {
	case a.Email == "":
		return a.Name
	case a.Name == "":
		return "<" + a.Email + ">"
	default:
		return a.Name + " <" + a.Email + ">"
	}
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}

// About returns the help text header: the description followed by the
// authors.
func About() string {
	names := make([]string, len(Author))
	for i, a := range Author {
		names[i] = a.String()
	}

	return Description + "\n\nAuthors: " + strings.Join(names, ", ")
}
