package transfer

import (
	"errors"
	"path"

	"goemon/internal/taskfmt"
	"goemon/internal/workspace"
)

var (
	// ErrNothingSelected is returned when no property was chosen.
	ErrNothingSelected = errors.New("no files specified")

	// ErrStdioTwice is returned when more than one property uses "-".
	ErrStdioTwice = errors.New(`"-" cannot be set more than once`)

	// ErrFilesStdio is returned when the files directory is "-".
	ErrFilesStdio = errors.New(`files cannot be read from or written to "-"`)
)

// Selection chooses which parts of a task an operation touches and where
// they live, relative to the workspace.
type Selection struct {
	// All selects every property; unset paths use the default layout.
	All bool

	// Paths holds explicit locations per property.
	Paths map[taskfmt.Property]string

	// Files is the explicit files directory.
	Files string
}

// PathFor returns the location of p, or "" when p is not selected.
func (s Selection) PathFor(p taskfmt.Property) string {
	if v := s.Paths[p]; v != "" {
		return v
	}
	if s.All {
		return p.DefaultPath()
	}
	return ""
}

// FilesDir returns the files directory, or "" when files are not selected.
func (s Selection) FilesDir() string {
	if s.Files != "" {
		return path.Clean(s.Files)
	}
	if s.All {
		return taskfmt.FilesDir
	}
	return ""
}

// UsesStdio reports whether any property is routed to a standard stream.
func (s Selection) UsesStdio() bool {
	for _, p := range taskfmt.Properties {
		if s.PathFor(p) == workspace.Stdio {
			return true
		}
	}
	return false
}

// Validate checks the selection before any network access.
func (s Selection) Validate() error {
	if s.Files == workspace.Stdio {
		return ErrFilesStdio
	}

	selected, stdio := 0, 0
	for _, p := range taskfmt.Properties {
		switch s.PathFor(p) {
		case "":
		case workspace.Stdio:
			selected++
			stdio++
		default:
			selected++
		}
	}
	if s.FilesDir() != "" {
		selected++
	}

	if selected == 0 {
		return ErrNothingSelected
	}
	if stdio > 1 {
		return ErrStdioTwice
	}
	return nil
}
