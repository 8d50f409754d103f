package version

import (
	"strings"
	"testing"
)

func TestGetUsesInjectedValues(t *testing.T) {
	oldV, oldC := Version, Commit
	t.Cleanup(func() { Version, Commit = oldV, oldC })
	Version, Commit = "1.2.3", "abc123"

	got := Get().String()
	if !strings.HasPrefix(got, "pipelint 1.2.3 (commit abc123,") {
		t.Fatalf("version string=%q", got)
	}
}
