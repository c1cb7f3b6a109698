package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bridgegad/bridgegad/pkg/archive"
	"github.com/bridgegad/bridgegad/pkg/params"
)

// ANSI 256 palette. Chosen to stay legible on dark and light terminals.
var (
	colorAccent = lipgloss.Color("37")
	colorOK     = lipgloss.Color("71")
	colorWarn   = lipgloss.Color("214")
	colorFault  = lipgloss.Color("167")
	colorLink   = lipgloss.Color("75")
	colorText   = lipgloss.Color("254")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	styleHeading  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleLink     = lipgloss.NewStyle().Underline(true).Foreground(colorLink)
	styleFaint    = lipgloss.NewStyle().Foreground(colorFaint)
	styleText     = lipgloss.NewStyle().Foreground(colorText)
	styleWarnText = lipgloss.NewStyle().Foreground(colorWarn)
	styleSpinner  = lipgloss.NewStyle().Foreground(colorAccent)
	styleKey      = lipgloss.NewStyle().Width(12).Foreground(colorMuted)
	styleCommand  = lipgloss.NewStyle().Foreground(colorLink)

	styleHeader    = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(colorMuted)
	styleCell      = lipgloss.NewStyle().Padding(0, 1)
	styleCellError = styleCell.Foreground(colorFault)
)

const (
	iconArrow  = "→"
	iconCached = "cached"
	iconFresh  = "fresh"
)

// =============================================================================
// Status lines
// =============================================================================

type status int

const (
	statusOK status = iota
	statusFail
	statusWarn
	statusNote
)

var marks = [...]struct {
	glyph string
	color lipgloss.Color
}{
	statusOK:   {"✓", colorOK},
	statusFail: {"✗", colorFault},
	statusWarn: {"!", colorWarn},
	statusNote: {"›", colorMuted},
}

// statusLine renders one status message behind its colored mark. Warning
// text is colored as well so it stands out in long output.
func statusLine(st status, msg string) string {
	m := marks[st]
	if st == statusWarn {
		msg = styleWarnText.Render(msg)
	}
	return lipgloss.NewStyle().Foreground(m.color).Render(m.glyph) + " " + msg
}

func printSuccess(format string, args ...any) {
	fmt.Println(statusLine(statusOK, fmt.Sprintf(format, args...)))
}

func printError(format string, args ...any) {
	fmt.Println(statusLine(statusFail, fmt.Sprintf(format, args...)))
}

func printWarning(format string, args ...any) {
	fmt.Println(statusLine(statusWarn, fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(statusLine(statusNote, fmt.Sprintf(format, args...)))
}

// printDetail prints a faint indented line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + styleFaint.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Println("  " + styleFaint.Render(iconArrow) + " " + styleText.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + styleText.Render(value))
}

// printNextStep suggests a command to run next.
func printNextStep(description, cmd string) {
	fmt.Println(styleFaint.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { fmt.Println() }

// printDrawingStats prints "  3 spans · 75.00 m · 412 primitives · cached".
func printDrawingStats(spans int, length float64, primitives int, cached bool) {
	fmt.Println(drawingStats(spans, length, primitives, cached))
}

func drawingStats(spans int, length float64, primitives int, cached bool) string {
	state := lipgloss.NewStyle().Foreground(colorMuted).Render(iconFresh)
	if cached {
		state = lipgloss.NewStyle().Foreground(colorOK).Render(iconCached)
	}
	parts := []string{
		styleFaint.Render(pluralize(spans, "span")),
		styleFaint.Render(fmt.Sprintf("%.2f m", length)),
		styleFaint.Render(pluralize(primitives, "primitive")),
		state,
	}
	return "  " + strings.Join(parts, styleFaint.Render(" · "))
}

// =============================================================================
// Tables
// =============================================================================

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleFaint).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		})
}

// printViolations prints every rejected parameter.
func printViolations(verr *params.ValidationError) {
	printError("%s failed validation", pluralize(len(verr.Violations), "parameter"))
	fmt.Println(violationsTable(verr.Violations))
}

func violationsTable(vs []params.Violation) string {
	t := newTable("Parameter", "Value", "Constraint").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col == 2:
				return styleCellError
			}
			return styleCell
		})
	for _, v := range vs {
		t.Row(v.Key, fmt.Sprint(v.Value), v.Constraint)
	}
	return t.Render()
}

// printParameterValues prints the resolved set grouped by category.
func printParameterValues(s *params.Set) {
	t := newTable("Parameter", "Value", "Unit", "Category")
	for _, cat := range params.Categories() {
		for _, r := range params.ByCategory(cat) {
			t.Row(r.Key, params.FormatValue(r.Name, s.Get(r.Name)), r.Unit, string(cat))
		}
	}
	fmt.Println(t.Render())
}

func schemaTable(rules []params.Rule) string {
	t := newTable("Parameter", "Type", "Range", "Default", "Unit", "Description")
	for _, r := range rules {
		t.Row(
			r.Key,
			string(r.Kind),
			params.FormatValue(r.Name, r.Min)+" to "+params.FormatValue(r.Name, r.Max),
			params.FormatValue(r.Name, r.Default),
			r.Unit,
			r.Description,
		)
	}
	return t.Render()
}

func historyTable(recs []archive.Record) string {
	t := newTable("ID", "Created", "Project", "Title", "Spans", "Length", "Formats")
	for _, r := range recs {
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		t.Row(
			id,
			r.CreatedAt.Local().Format(time.DateTime),
			r.Project,
			r.Title,
			fmt.Sprint(r.Spans),
			fmt.Sprintf("%.2f m", r.Length),
			strings.Join(r.Formats, ","),
		)
	}
	return t.Render()
}

func recordParamsTable(values map[string]float64) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	order := func(k string) int {
		if n, ok := params.ParseName(k); ok {
			return int(n)
		}
		return len(keys) + 1000
	}
	sort.Slice(keys, func(i, j int) bool { return order(keys[i]) < order(keys[j]) })

	t := newTable("Parameter", "Value")
	for _, k := range keys {
		v := fmt.Sprint(values[k])
		if n, ok := params.ParseName(k); ok {
			v = params.FormatValue(n, values[k])
		}
		t.Row(k, v)
	}
	return t.Render()
}
