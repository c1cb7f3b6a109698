// Package cli implements the bridgegad command-line interface.
//
// The commands read bridge parameter files, draw general arrangement
// drawings through the pipeline package and keep a local history of what
// was drawn. The CLI is built on cobra; output styling uses lipgloss and
// logging uses charmbracelet/log.
//
// # Commands
//
//   - generate: draw a GAD as DXF, SVG, PDF or JSON
//   - validate: check a parameter file without drawing
//   - template, export: write parameter workbooks
//   - schema: list parameters with ranges and defaults
//   - history: browse drawings recorded in the SQLite history
//   - serve: run the HTTP API
//   - cache: manage the on-disk drawing cache
//
// # Logging
//
// Every command accepts --verbose (-v) for debug output. The logger travels
// in the command's context.Context so helpers can log without a CLI handle.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const logTimeFormat = "15:04:05.00"

// newLogger returns a leveled logger writing timestamped lines to w in the
// CLI palette.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
	l.SetStyles(logStyles())
	return l
}

func logStyles() *log.Styles {
	s := log.DefaultStyles()
	levels := map[log.Level]lipgloss.Color{
		log.DebugLevel: colorFaint,
		log.InfoLevel:  colorAccent,
		log.WarnLevel:  colorWarn,
		log.ErrorLevel: colorFault,
	}
	for level, color := range levels {
		s.Levels[level] = s.Levels[level].Foreground(color)
	}
	s.Timestamp = styleFaint
	return s
}

// timed starts a clock and returns a func that logs msg at info level with
// keyvals and the elapsed time under "took":
//
//	done := timed(logger)
//	raw, err := pkgio.Import(path)
//	done("read parameters", "file", path, "count", len(raw))
func timed(l *log.Logger) func(msg string, keyvals ...any) {
	start := time.Now()
	return func(msg string, keyvals ...any) {
		l.Info(msg, append(keyvals, "took", time.Since(start).Round(time.Millisecond))...)
	}
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger stored by withLogger, or
// log.Default() for contexts that never went through the root command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
