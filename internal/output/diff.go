// Package output renders the export change report.
package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
)

// diffContext is the number of unchanged lines shown around a change.
const diffContext = 3

const noNewline = "\n\\ No newline at end of file\n"

// Text writes a unified diff of oldText and newText labelled
// a/<name> and b/<name>. Nothing is written when they are equal.
func Text(w io.Writer, name, oldText, newText string) error {
	if oldText == newText {
		return nil
	}
	return difflib.WriteUnifiedDiff(w, difflib.UnifiedDiff{
		A:        splitLines(oldText),
		B:        splitLines(newText),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  diffContext,
	})
}

// File writes the change report for one attached file. Text content gets a
// unified diff; anything that is not valid UTF-8 is reported as binary.
func File(w io.Writer, name string, oldData, newData []byte) error {
	if IsBinary(oldData) || IsBinary(newData) {
		if string(oldData) == string(newData) {
			return nil
		}
		_, err := fmt.Fprintf(w, "Binary files changed - a/%s, b/%s\n", name, name)
		return err
	}
	return Text(w, name, string(oldData), string(newData))
}

// NewFile reports a file present locally but not remotely.
func NewFile(w io.Writer, name string) error {
	_, err := fmt.Fprintf(w, "New file - b/%s\n", name)
	return err
}

// DeletedFile reports a file present remotely but not locally.
func DeletedFile(w io.Writer, name string) error {
	_, err := fmt.Fprintf(w, "Deleted file - a/%s\n", name)
	return err
}

// IsBinary reports whether data cannot be shown as text.
func IsBinary(data []byte) bool {
	return !utf8.Valid(data)
}

// splitLines splits s after each newline. A final line without a newline
// carries a marker so that it differs from the same line with one.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		return lines[:len(lines)-1]
	}
	lines[len(lines)-1] += noNewline
	return lines
}
