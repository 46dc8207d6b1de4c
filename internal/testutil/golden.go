package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// UpdateEnv names the environment variable that rewrites golden files.
const UpdateEnv = "GOLDEN_UPDATE"

// GoldenPath returns the location of the golden file for name.
func GoldenPath(name string) string {
	return filepath.Join("testdata", name+".golden")
}

// Golden compares got with testdata/<name>.golden and reports a unified
// diff on mismatch. Golden files checked out with CRLF line endings compare
// equal to LF output. With UpdateEnv set the file is rewritten instead.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()
	goldenPath := GoldenPath(name)

	if os.Getenv(UpdateEnv) != "" {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
			t.Fatalf("create %s: %v", filepath.Dir(goldenPath), err)
		}
		if err := os.WriteFile(goldenPath, got, 0o644); err != nil {
			t.Fatalf("update %s: %v", goldenPath, err)
		}
		return
	}

	raw, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("read %s: %v (set %s=1 to create it)\ngot:\n%s", goldenPath, err, UpdateEnv, got)
	}
	if diff := GoldenDiff(goldenPath, string(raw), string(got)); diff != "" {
		t.Errorf("output mismatch for %s\n%s", name, diff)
	}
}

// GoldenString is like Golden but takes a string.
func GoldenString(t *testing.T, name string, got string) {
	t.Helper()
	Golden(t, name, []byte(got))
}

// GoldenDiff returns a unified diff from want to got, or "" when they match
// after line-ending normalization.
func GoldenDiff(label, want, got string) string {
	want = strings.ReplaceAll(want, "\r\n", "\n")
	if want == got {
		return ""
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: label,
		ToFile:   "got",
		Context:  2,
	})
	return diff
}
