// Package observability exposes hooks for metrics and tracing.
//
// The pipeline, the caches and the HTTP server report what they did through
// three hook sets. The defaults do nothing; a binary that wants metrics
// registers its own implementation once at startup:
//
//	observability.SetPipelineHooks(promHooks{})
//
// Libraries never import a metrics backend, so bridgegad builds without
// one and a deployment can pick Prometheus, OpenTelemetry or plain logs.
//
// Events carry the outcome of a stage rather than a start/stop pair, which
// keeps implementations stateless:
//
//	observability.Pipeline().OnLayout(ctx, observability.LayoutEvent{
//	    Spans:      set.Spans(),
//	    Primitives: len(doc.Primitives),
//	    Duration:   time.Since(start),
//	})
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Events
// =============================================================================

// ValidateEvent describes one parameter validation.
type ValidateEvent struct {
	Violations int
	Warnings   int
	Duration   time.Duration
	Err        error
}

// LayoutEvent describes one drawing layout. Cached documents do not emit
// it.
type LayoutEvent struct {
	Spans      int
	Primitives int
	Notes      int // Clearance clamps applied
	Duration   time.Duration
	Err        error
}

// RenderEvent describes one render of a document into Formats. Bytes is the
// total size of the artifacts.
type RenderEvent struct {
	Formats  []string
	Bytes    int
	Duration time.Duration
	Err      error
}

// CacheKind names what a cache entry holds.
type CacheKind string

const (
	CacheDocument CacheKind = "document"
	CacheArtifact CacheKind = "artifact"
)

// =============================================================================
// Hook interfaces
// =============================================================================

// PipelineHooks receives the outcome of each pipeline stage.
type PipelineHooks interface {
	OnValidate(ctx context.Context, ev ValidateEvent)
	OnLayout(ctx context.Context, ev LayoutEvent)
	OnRender(ctx context.Context, ev RenderEvent)

	// OnArchive reports a drawing record write. id is empty on failure.
	OnArchive(ctx context.Context, id string, err error)
}

// CacheHooks receives cache lookups and writes.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind CacheKind)
	OnCacheMiss(ctx context.Context, kind CacheKind)
	OnCacheSet(ctx context.Context, kind CacheKind, size int)
}

// HTTPHooks receives API traffic. route is the matched chi pattern such as
// "/api/v1/drawings/{format}", never the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, route string, status int, d time.Duration)
	OnRateLimited(ctx context.Context, client string)
}

// =============================================================================
// No-op implementations
// =============================================================================

// NoopPipelineHooks ignores every event. Embed it to implement only some
// methods.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnValidate(context.Context, ValidateEvent) {}
func (NoopPipelineHooks) OnLayout(context.Context, LayoutEvent)     {}
func (NoopPipelineHooks) OnRender(context.Context, RenderEvent)     {}
func (NoopPipelineHooks) OnArchive(context.Context, string, error)  {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, CacheKind)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, CacheKind)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, CacheKind, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnRateLimited(context.Context, string)                          {}

// =============================================================================
// Registry
// =============================================================================

// registry is replaced as a whole on every Set call so readers never take
// a lock on the hot path.
type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var current atomic.Pointer[registry]

func init() {
	Reset()
}

func update(fn func(r *registry)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return current.Load().http }

// Reset restores the no-op hooks.
func Reset() {
	current.Store(&registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	})
}
