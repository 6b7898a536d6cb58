//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of phoenix embedded at build time. It is
// reported by --version and by $Phoenix.version inside scripts.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name. It appears in help text and in the default
	// configuration and cache paths.
	Name = "phoenix"
	// Description is a short summary used in help output.
	Description = "Build configuration language interpreter"
)

// AuthorInfo is an author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary authors.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
