package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"

	"github.com/bridgegad/bridgegad/pkg/archive"
	"github.com/bridgegad/bridgegad/pkg/cache"
	"github.com/bridgegad/bridgegad/pkg/drawing"
	"github.com/bridgegad/bridgegad/pkg/layout"
	"github.com/bridgegad/bridgegad/pkg/observability"
	"github.com/bridgegad/bridgegad/pkg/params"
)

// Runner runs the pipeline against a cache and an optional archive. It keeps
// no per-run state, so the HTTP server shares one Runner across requests.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Archive archive.Store // nil disables archiving
	Logger  *log.Logger
}

// NewRunner returns a Runner. A nil cache disables caching, a nil keyer
// means [cache.DefaultKeyer] and a nil logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	r := &Runner{Cache: c, Keyer: keyer, Logger: logger}
	if r.Cache == nil {
		r.Cache = cache.NewNullCache()
	}
	if r.Keyer == nil {
		r.Keyer = cache.NewDefaultKeyer()
	}
	if r.Logger == nil {
		r.Logger = log.Default()
	}
	return r
}

// lap returns the time elapsed since start and a new start.
func lap(start time.Time) (time.Duration, time.Time) {
	now := time.Now()
	return now.Sub(start), now
}

// Execute validates opts.Params, lays out the drawing, renders every
// requested format and, unless opts.NoArchive is set, records the run.
// An archive failure is logged and never fails the run.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	res := &Result{}
	clock := time.Now()

	set, err := r.Validate(ctx, opts)
	if err != nil {
		return nil, err
	}
	res.Params, res.Warnings = set, set.Warnings()
	res.Stats.ValidateTime, clock = lap(clock)
	res.Stats.Spans = set.Spans()
	for _, w := range res.Warnings {
		r.Logger.Warn(w.Message, "parameter", w.Name)
	}
	if res.ParamsHash, err = paramsHash(set); err != nil {
		return nil, err
	}
	r.Logger.Debug("validated parameters", "spans", set.Spans(), "warnings", len(res.Warnings), "took", res.Stats.ValidateTime)

	doc, hit, err := r.Layout(ctx, set, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	res.Document = doc
	res.CacheInfo.LayoutHit = hit
	res.Stats.LayoutTime, clock = lap(clock)
	res.Stats.Primitives = len(doc.Primitives)
	r.Logger.Info("laid out drawing", "id", doc.ID, "primitives", len(doc.Primitives), "cached", hit, "took", res.Stats.LayoutTime)

	artifacts, hit, err := r.Render(ctx, doc, set, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Artifacts = artifacts
	res.CacheInfo.RenderHit = hit
	res.Stats.RenderTime, _ = lap(clock)
	r.Logger.Info("rendered drawing", "formats", opts.Formats, "cached", hit, "took", res.Stats.RenderTime)

	if r.Archive != nil && !opts.NoArchive {
		res.Record = r.archive(ctx, archive.NewRecord(doc, set, res.ParamsHash, opts.Formats))
	}
	return res, nil
}

func (r *Runner) archive(ctx context.Context, rec *archive.Record) *archive.Record {
	if err := r.Archive.Save(ctx, rec); err != nil {
		r.Logger.Warn("could not archive drawing", "err", err)
		observability.Pipeline().OnArchive(ctx, "", err)
		return nil
	}
	observability.Pipeline().OnArchive(ctx, rec.ID, nil)
	return rec
}

// Validate checks opts.Params against the parameter schema.
func (r *Runner) Validate(ctx context.Context, opts Options) (*params.Set, error) {
	start := time.Now()
	set, err := params.Validate(opts.Params, opts.ValidationOptions())

	ev := observability.ValidateEvent{Duration: time.Since(start), Err: err}
	var verr *params.ValidationError
	if errors.As(err, &verr) {
		ev.Violations = len(verr.Violations)
	}
	if set != nil {
		ev.Warnings = len(set.Warnings())
	}
	observability.Pipeline().OnValidate(ctx, ev)
	return set, err
}

// Layout returns the drawing for set. A cached document for the same
// parameters and layout options is reused unless opts.Refresh is set; hit
// reports whether that happened.
func (r *Runner) Layout(ctx context.Context, set *params.Set, opts Options) (doc *drawing.Document, hit bool, err error) {
	if err := r.prepare(&opts); err != nil {
		return nil, false, err
	}
	hash, err := paramsHash(set)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.DocumentKey(hash, opts.DocumentKeyOpts())

	if !opts.Refresh {
		if doc := r.cachedDocument(ctx, key); doc != nil {
			observability.Cache().OnCacheHit(ctx, observability.CacheDocument)
			return doc, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, observability.CacheDocument)
	}

	start := time.Now()
	doc, err = layout.Generate(set, opts.Layout)
	ev := observability.LayoutEvent{Spans: set.Spans(), Duration: time.Since(start), Err: err}
	if doc != nil {
		ev.Primitives = len(doc.Primitives)
		ev.Notes = len(doc.Notes)
	}
	observability.Pipeline().OnLayout(ctx, ev)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(doc); err == nil {
		r.store(ctx, observability.CacheDocument, key, data, cache.TTLDocument)
	}
	return doc, false, nil
}

// cachedDocument returns nil on a miss, a read error or an entry that no
// longer decodes; each of these means laying the document out again.
func (r *Runner) cachedDocument(ctx context.Context, key string) *drawing.Document {
	data, ok, err := r.Cache.Get(ctx, key)
	if err != nil || !ok {
		return nil
	}
	var doc drawing.Document
	if json.Unmarshal(data, &doc) != nil {
		return nil
	}
	return &doc
}

// Render returns the artifacts for doc in opts.Formats. The cache counts as
// a hit only when every format is cached; otherwise all formats are
// rendered again in one pass.
func (r *Runner) Render(ctx context.Context, doc *drawing.Document, set *params.Set, opts Options) (map[string][]byte, bool, error) {
	if err := opts.normalizeFormats(); err != nil {
		return nil, false, err
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, false, fmt.Errorf("encode document for cache key: %w", err)
	}
	docHash := cache.Hash(docJSON)
	keys := make(map[string]string, len(opts.Formats))
	for _, f := range opts.Formats {
		keys[f] = r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(f))
	}

	if !opts.Refresh {
		if artifacts := r.cachedArtifacts(ctx, keys); artifacts != nil {
			observability.Cache().OnCacheHit(ctx, observability.CacheArtifact)
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, observability.CacheArtifact)
	}

	start := time.Now()
	rendered, err := Render(doc, set, opts)
	ev := observability.RenderEvent{Formats: opts.Formats, Duration: time.Since(start), Err: err}
	for _, data := range rendered {
		ev.Bytes += len(data)
	}
	observability.Pipeline().OnRender(ctx, ev)
	if err != nil {
		return nil, false, err
	}

	for f, data := range rendered {
		r.store(ctx, observability.CacheArtifact, keys[f], data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

func (r *Runner) cachedArtifacts(ctx context.Context, keys map[string]string) map[string][]byte {
	out := make(map[string][]byte, len(keys))
	for f, key := range keys {
		data, ok, err := r.Cache.Get(ctx, key)
		if err != nil || !ok {
			return nil
		}
		out[f] = data
	}
	return out
}

// store writes a cache entry. A failed write only costs a later miss.
func (r *Runner) store(ctx context.Context, kind observability.CacheKind, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "kind", kind, "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

// Close closes the cache and the archive.
func (r *Runner) Close() error {
	var errs *multierror.Error
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	if r.Archive != nil {
		if err := r.Archive.Close(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("close archive: %w", err))
		}
	}
	return errs.ErrorOrNil()
}

// prepare fills opts.Logger from the runner and normalizes opts.
func (r *Runner) prepare(opts *Options) error {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	return opts.Normalize()
}

func paramsHash(set *params.Set) (string, error) {
	h, err := cache.HashJSON(set.Map())
	if err != nil {
		return "", fmt.Errorf("hash parameters: %w", err)
	}
	return h, nil
}
