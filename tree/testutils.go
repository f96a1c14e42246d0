package tree

import (
	"testing"

	"github.com/wkalt/dircloud/report"
)

// MustBuild builds a tree from report lines or fails the test.
func MustBuild(t *testing.T, lines ...string) *Tree {
	t.Helper()
	b := NewBuilder()
	for _, line := range lines {
		rec, err := report.ParseLine(line, 1)
		if err != nil {
			t.Fatalf("failed to parse %q: %s", line, err)
		}
		b.Add(rec)
	}
	tr, err := b.Finish()
	if err != nil {
		t.Fatalf("failed to build tree: %s", err)
	}
	return tr
}
