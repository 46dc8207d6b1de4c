package testutil

import (
	"strings"
	"testing"
)

func TestGolden_Match(t *testing.T) {
	GoldenString(t, "sample", "first\nsecond\n")
}

func TestGoldenDiff_CRLF(t *testing.T) {
	if diff := GoldenDiff("x", "first\r\nsecond\r\n", "first\nsecond\n"); diff != "" {
		t.Errorf("expected no diff, got:\n%s", diff)
	}
}

func TestGoldenDiff_Mismatch(t *testing.T) {
	diff := GoldenDiff("testdata/sample.golden", "first\nsecond\n", "first\nthird\n")

	for _, want := range []string{"--- testdata/sample.golden\n", "+++ got\n", "-second\n", "+third\n"} {
		if !strings.Contains(diff, want) {
			t.Errorf("expected diff to contain %q, got:\n%s", want, diff)
		}
	}
}
