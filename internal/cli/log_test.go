package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)

	l.Debug("layout details", "piers", 2)
	if buf.Len() != 0 {
		t.Fatalf("debug line written at info level: %q", buf.String())
	}

	l.Info("generated drawing", "spans", 3)
	out := buf.String()
	if !strings.Contains(out, "generated drawing") || !strings.Contains(out, "spans=3") {
		t.Errorf("info line = %q", out)
	}
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(out) {
		t.Errorf("line should start with a %s timestamp: %q", logTimeFormat, out)
	}

	buf.Reset()
	l.SetLevel(log.DebugLevel)
	l.Debug("layout details")
	if buf.Len() == 0 {
		t.Error("debug line missing after raising the level")
	}
}

func TestLogStylesCoverLevels(t *testing.T) {
	s := logStyles()
	for _, level := range []log.Level{log.DebugLevel, log.InfoLevel, log.WarnLevel, log.ErrorLevel} {
		if _, ok := s.Levels[level]; !ok {
			t.Errorf("no style for %s", level)
		}
	}
}

func TestTimed(t *testing.T) {
	var buf bytes.Buffer
	done := timed(newLogger(&buf, log.InfoLevel))

	done("read parameters", "file", "bridge.xlsx", "count", 37)

	out := buf.String()
	for _, want := range []string{"read parameters", "file=bridge.xlsx", "count=37", "took="} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("a bare context should yield the default logger")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), l)
	if loggerFromContext(ctx) != l {
		t.Fatal("loggerFromContext did not return the stored logger")
	}

	loggerFromContext(ctx).Info("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("stored logger did not write: %q", buf.String())
	}
}

func TestRootCommandStoresLogger(t *testing.T) {
	isolate(t)
	var buf syncBuffer
	c := New(&buf, LogInfo)
	root := c.RootCommand()

	var got *log.Logger
	root.AddCommand(&cobra.Command{
		Use: "probe",
		Run: func(cmd *cobra.Command, args []string) { got = loggerFromContext(cmd.Context()) },
	})
	root.SetArgs([]string{"probe"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got != c.Logger {
		t.Error("commands should find the CLI logger in their context")
	}
}
