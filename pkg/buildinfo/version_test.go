package buildinfo

import (
	"strings"
	"testing"
)

func TestStampedValuesWin(t *testing.T) {
	saved := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = saved[0], saved[1], saved[2] })

	Version, Commit, Date = "v0.3.0", "abc1234", "2026-02-03T12:00:00Z"
	fill()

	if got := Current(); got != "v0.3.0" {
		t.Errorf("Current() = %q", got)
	}
	if got := Creator(); got != "BridgeGAD v0.3.0" {
		t.Errorf("Creator() = %q", got)
	}
	tmpl := Template()
	for _, want := range []string{"{{.Name}} v0.3.0", "commit abc1234", "built 2026-02-03T12:00:00Z"} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("Template() = %q, missing %q", tmpl, want)
		}
	}
}
