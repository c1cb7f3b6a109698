package pipeline

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bridgegad/bridgegad/pkg/archive"
	"github.com/bridgegad/bridgegad/pkg/cache"
	"github.com/bridgegad/bridgegad/pkg/errors"
	"github.com/bridgegad/bridgegad/pkg/layout"
	"github.com/bridgegad/bridgegad/pkg/observability"
	"github.com/bridgegad/bridgegad/pkg/params"
)

var testTime = time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dxf", false},
		{"svg", false},
		{"pdf", false},
		{"json", false},
		{"png", true},
		{"DXF", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"dxf", "pdf"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"dxf", []string{"dxf"}, false},
		{"DXF, pdf", []string{"dxf", "pdf"}, false},
		{"svg,svg,json", []string{"svg", "json"}, false},
		{"", nil, false},
		{"dxf,png", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormats(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormats(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseFormats(%q)[%d] = %s, want %s", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.Normalize(); err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("Formats = %v, want [%s]", opts.Formats, DefaultFormat)
	}
	if opts.Layout.Scale != layout.DefaultScale {
		t.Errorf("Layout.Scale = %q, want %q", opts.Layout.Scale, layout.DefaultScale)
	}
	if opts.Logger == nil || opts.Layout.Logger == nil {
		t.Error("loggers should default")
	}
	if got := opts.ValidationOptions().Unknown; got != params.UnknownIgnore {
		t.Errorf("Unknown policy = %v, want ignore", got)
	}

	strict := Options{Strict: true}
	if got := strict.ValidationOptions().Unknown; got != params.UnknownReport {
		t.Errorf("strict Unknown policy = %v, want report", got)
	}
}

func TestArtifactKeyOptsScheduleOnlyForPDF(t *testing.T) {
	opts := Options{Schedule: true}
	if !opts.ArtifactKeyOpts(FormatPDF).Schedule {
		t.Error("pdf key should carry the schedule flag")
	}
	if opts.ArtifactKeyOpts(FormatDXF).Schedule {
		t.Error("dxf key should ignore the schedule flag")
	}
}

func TestContentType(t *testing.T) {
	if got := ContentType(FormatPDF); got != "application/pdf" {
		t.Errorf("ContentType(pdf) = %s", got)
	}
	if got := ContentType("zip"); got != "application/octet-stream" {
		t.Errorf("ContentType(zip) = %s", got)
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), Options{
		Params:  params.Raw{"NSPAN": 2, "SPAN1": 25, "LBRIDGE": 50},
		Layout:  layout.Options{Time: testTime},
		Formats: FormatNames(),
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	for _, f := range FormatNames() {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("artifact %s missing", f)
		}
	}
	if res.Stats.Spans != 2 {
		t.Errorf("Stats.Spans = %d, want 2", res.Stats.Spans)
	}
	if res.Stats.Primitives != len(res.Document.Primitives) {
		t.Errorf("Stats.Primitives = %d, want %d", res.Stats.Primitives, len(res.Document.Primitives))
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
	if res.ParamsHash == "" {
		t.Error("ParamsHash should be set")
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Error("null cache must never hit")
	}
	if res.Record != nil {
		t.Error("no archive configured, record should be nil")
	}
}

func TestExecuteWarnings(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), Options{
		Params: params.Raw{"NSPAN": 2, "SPAN1": 25, "LBRIDGE": 80},
		Layout: layout.Options{Time: testTime},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(res.Warnings) == 0 {
		t.Error("length mismatch should warn")
	}
}

func TestExecuteCaching(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, quietLogger())
	defer r.Close()

	opts := Options{
		Params:  params.Raw{"SKEW": 10},
		Layout:  layout.Options{Time: testTime, Project: "Cached"},
		Formats: []string{FormatDXF, FormatSVG},
	}
	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute() error: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Fatal("first run should miss")
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run should reuse the document")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should reuse the artifacts")
	}
	if second.Document.ID != first.Document.ID {
		t.Error("cached document should keep its ID")
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached SVG differs")
	}

	opts.Refresh = true
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("refresh Execute() error: %v", err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestExecuteValidationError(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	_, err := r.Execute(context.Background(), Options{
		Params: params.Raw{"SPAN1": 1, "BRIDGEW": 100},
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	verr, ok := err.(*params.ValidationError)
	if !ok {
		t.Fatalf("error type = %T, want *params.ValidationError", err)
	}
	if len(verr.Violations) != 2 {
		t.Errorf("violations = %d, want 2", len(verr.Violations))
	}
	if !errors.Is(err, errors.ErrCodeInvalidParameter) {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidParameter)
	}
}

func TestExecuteStrict(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	raw := params.Raw{"SPAN1": 20, "COLOUR": "red"}

	if _, err := r.Execute(context.Background(), Options{Params: raw}); err != nil {
		t.Errorf("unknown names should be ignored by default: %v", err)
	}
	if _, err := r.Execute(context.Background(), Options{Params: raw, Strict: true}); err == nil {
		t.Error("strict mode should reject unknown names")
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	tests := []struct {
		name string
		opts Options
	}{
		{"format", Options{Formats: []string{"png"}}},
		{"scale", Options{Layout: layout.Options{Scale: "100"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Execute(context.Background(), tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExecuteArchive(t *testing.T) {
	store := archive.NewMemoryStore()
	r := NewRunner(nil, nil, quietLogger())
	r.Archive = store
	ctx := context.Background()

	res, err := r.Execute(ctx, Options{Layout: layout.Options{Time: testTime}})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.Record == nil {
		t.Fatal("record should be set")
	}
	if res.Record.DocumentID != res.Document.ID {
		t.Error("record should reference the document")
	}

	if _, err := r.Execute(ctx, Options{NoArchive: true}); err != nil {
		t.Fatalf("Execute(NoArchive) error: %v", err)
	}
	recs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Errorf("archived %d records, want 1", len(recs))
	}
}

func TestRenderSchedule(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	set := params.Defaults()
	doc, _, err := r.Layout(context.Background(), set, Options{Layout: layout.Options{Time: testTime}})
	if err != nil {
		t.Fatal(err)
	}

	plain, err := Render(doc, set, Options{Formats: []string{FormatPDF}})
	if err != nil {
		t.Fatal(err)
	}
	withSchedule, err := Render(doc, set, Options{Formats: []string{FormatPDF}, Schedule: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(withSchedule[FormatPDF]) <= len(plain[FormatPDF]) {
		t.Error("schedule page should add content")
	}
}

type countingHooks struct {
	observability.NoopPipelineHooks
	validate, layouts, renders int
	primitives, bytes          int
}

func (h *countingHooks) OnValidate(context.Context, observability.ValidateEvent) { h.validate++ }

func (h *countingHooks) OnLayout(_ context.Context, ev observability.LayoutEvent) {
	h.layouts++
	h.primitives = ev.Primitives
}

func (h *countingHooks) OnRender(_ context.Context, ev observability.RenderEvent) {
	h.renders++
	h.bytes = ev.Bytes
}

func TestExecuteHooks(t *testing.T) {
	h := &countingHooks{}
	observability.SetPipelineHooks(h)
	t.Cleanup(observability.Reset)

	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if h.validate != 1 || h.layouts != 1 || h.renders != 1 {
		t.Errorf("hooks called validate=%d layout=%d render=%d, want 1 each", h.validate, h.layouts, h.renders)
	}
	if h.primitives != len(res.Document.Primitives) {
		t.Errorf("layout event primitives = %d, want %d", h.primitives, len(res.Document.Primitives))
	}
	total := 0
	for _, data := range res.Artifacts {
		total += len(data)
	}
	if h.bytes != total {
		t.Errorf("render event bytes = %d, want %d", h.bytes, total)
	}
}
