// Package pipeline turns raw bridge parameters into drawing files.
//
// Both the CLI and the HTTP API go through [Runner], so caching, logging
// and archiving behave the same from either side. A run has three stages:
//
//  1. Validate: check raw values against the parameter schema and fill in
//     defaults ([params.Validate])
//  2. Layout: build the drawing document ([layout.Generate])
//  3. Render: write the document as DXF, SVG, PDF or JSON
//
// Documents and rendered artifacts are cached separately, so a new output
// format for a known bridge skips the layout. A finished run is recorded
// in an [archive.Store] when one is configured.
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Params:  raw,
//	    Formats: []string{pipeline.FormatDXF, pipeline.FormatPDF},
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("gad.dxf", res.Artifacts[pipeline.FormatDXF], 0o644)
//
// The stages are also callable one by one with [Runner.Validate],
// [Runner.Layout] and [Runner.Render].
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bridgegad/bridgegad/pkg/archive"
	"github.com/bridgegad/bridgegad/pkg/cache"
	"github.com/bridgegad/bridgegad/pkg/drawing"
	"github.com/bridgegad/bridgegad/pkg/errors"
	"github.com/bridgegad/bridgegad/pkg/layout"
	"github.com/bridgegad/bridgegad/pkg/params"
)

// =============================================================================
// Formats
// =============================================================================

// Output formats.
const (
	FormatDXF  = "dxf"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// DefaultFormat is produced when no format is requested.
const DefaultFormat = FormatDXF

// ValidFormats holds every format name Render accepts.
var ValidFormats = map[string]bool{
	FormatDXF:  true,
	FormatSVG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

var contentTypes = map[string]string{
	FormatDXF:  "application/dxf",
	FormatSVG:  "image/svg+xml",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// FormatNames returns the supported formats in a stable order.
func FormatNames() []string {
	return []string{FormatDXF, FormatSVG, FormatPDF, FormatJSON}
}

// =============================================================================
// Options and results
// =============================================================================

// Options configures one run. It is also the JSON body of a drawing
// request to the HTTP API.
type Options struct {
	Params params.Raw `json:"params"`
	Strict bool       `json:"strict,omitempty"` // Reject unknown parameter names

	Layout layout.Options `json:"options"`

	Formats  []string `json:"formats,omitempty"`
	Schedule bool     `json:"schedule,omitempty"` // PDF only: add a parameter schedule page

	Refresh   bool        `json:"refresh,omitempty"` // Ignore cached entries, still write new ones
	NoArchive bool        `json:"no_archive,omitempty"`
	Logger    *log.Logger `json:"-"`

	normalized bool
}

// Result is everything a run produced.
type Result struct {
	Params     *params.Set
	ParamsHash string // SHA-256 of the validated values, also the archive key
	Warnings   []params.Warning

	Document  *drawing.Document
	Artifacts map[string][]byte // Keyed by format

	// Record is the archive entry, nil when archiving is off or failed.
	Record *archive.Record

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats reports the size of the drawing and the time spent per stage.
type Stats struct {
	Spans        int
	Primitives   int
	ValidateTime time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo says which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // Every requested format was cached
}

// =============================================================================
// Formats
// =============================================================================

// ValidateFormat returns an INVALID_FORMAT error for unknown names.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats returns the error for the first unknown name.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated list such as "dxf,pdf", lower-cases
// and de-duplicates it, and validates every entry.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Normalize fills defaults and checks the layout options and formats.
// Loggers default to a discarding logger. Calling it again is a no-op.
func (o *Options) Normalize() error {
	if o.normalized {
		return nil
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Layout.Logger == nil {
		o.Layout.Logger = o.Logger
	}
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	if err := o.normalizeFormats(); err != nil {
		return err
	}
	o.normalized = true
	return nil
}

// normalizeFormats defaults an empty list to [DefaultFormat].
func (o *Options) normalizeFormats() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	return ValidateFormats(o.Formats)
}

// ValidationOptions returns the parameter validation policy.
func (o *Options) ValidationOptions() params.Options {
	if o.Strict {
		return params.Options{Unknown: params.UnknownReport}
	}
	return params.Options{Unknown: params.UnknownIgnore}
}

// DocumentKeyOpts lists the layout options that change a document. The
// date is included at day resolution; the document ID and the exact time
// are not.
func (o *Options) DocumentKeyOpts() cache.DocumentKeyOpts {
	l := o.Layout
	return cache.DocumentKeyOpts{
		Scale:         l.Scale,
		Project:       l.Project,
		Title:         l.Title,
		PreparedBy:    l.PreparedBy,
		Number:        l.Number,
		Date:          l.Time.Format(time.DateOnly),
		NoDimensions:  l.NoDimensions,
		NoAnnotations: l.NoAnnotations,
		NoTitleBlock:  l.NoTitleBlock,
		NoPlan:        l.NoPlan,
		Grid:          l.Grid,
		GridStep:      l.GridStep,
	}
}

// ArtifactKeyOpts lists the render options that change the bytes of
// format. The schedule page exists only in PDF output.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Schedule: o.Schedule && format == FormatPDF,
	}
}
