package layout

import (
	"fmt"
	"sort"

	"github.com/bridgegad/bridgegad/pkg/drawing"
	"github.com/bridgegad/bridgegad/pkg/params"
)

// Text heights per metre of model scale.
const (
	textPerScale  = 1.25
	titlePerScale = 2.5
)

// Generate lays out the general arrangement for set.
//
// The result depends only on set and opts: identical input yields an
// identical primitive sequence, apart from the date in the title block
// which comes from opts.Time. Primitives are ordered by layer, then left
// to right, then by emission order.
func Generate(set *params.Set, opts Options) (*drawing.Document, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Number == "" {
		opts.Number = DrawingNumber(set)
	}
	return build(geometryFrom(set), opts)
}

func build(g geometry, opts Options) (*drawing.Document, error) {
	if err := g.check(); err != nil {
		return nil, err
	}

	b := &builder{geo: g, opts: opts}
	b.elevation()
	if !opts.NoPlan {
		b.plan()
	}
	if !opts.NoDimensions {
		b.dimensions()
	}
	if !opts.NoAnnotations {
		b.annotations()
	}
	if opts.Grid {
		b.grid()
	}
	if !opts.NoTitleBlock {
		b.titleBlock()
	}

	prims, err := b.ordered()
	if err != nil {
		return nil, err
	}

	doc := &drawing.Document{
		ID: opts.ID,
		Meta: drawing.Metadata{
			Title:      opts.Title,
			Project:    opts.Project,
			PreparedBy: opts.PreparedBy,
			Number:     opts.Number,
			Scale:      opts.Scale,
			ModelScale: g.scale,
			Generated:  opts.Time,
			Spans:      g.spans,
			Length:     g.length(),
		},
		Layers:     drawing.UsedLayers(prims),
		Primitives: prims,
		Notes:      b.notes,
	}

	opts.Logger.Debug("layout complete",
		"spans", g.spans,
		"piers", g.spans-1,
		"primitives", len(prims),
		"layers", len(doc.Layers),
		"notes", len(b.notes))
	return doc, nil
}

// =============================================================================
// builder
// =============================================================================

type entry struct {
	prim    drawing.Primitive
	element string
	seq     int
}

type builder struct {
	geo     geometry
	opts    Options
	entries []entry
	notes   []string

	// planY is the model y of the plan view centre line.
	planY float64
}

// x maps a chainage to model x.
func (b *builder) x(chainage float64) float64 {
	return chainage * b.geo.scale
}

// y maps a level to model y, the datum being 0.
func (b *builder) y(level float64) float64 {
	return (level - b.geo.datum) * b.geo.scale
}

// at maps a (chainage, level) pair of the elevation to model space.
func (b *builder) at(chainage, level float64) drawing.Point {
	return drawing.Pt(b.x(chainage), b.y(level))
}

// m converts a length in metres to model units.
func (b *builder) m(metres float64) float64 {
	return metres * b.geo.scale
}

func (b *builder) textHeight() float64  { return textPerScale * b.geo.scale }
func (b *builder) titleHeight() float64 { return titlePerScale * b.geo.scale }

// add records primitives for the named structural element; element is
// reported when a primitive fails its check.
func (b *builder) add(element string, prims ...drawing.Primitive) {
	for _, p := range prims {
		b.entries = append(b.entries, entry{prim: p, element: element, seq: len(b.entries)})
	}
}

// clamp limits half to limit and records a note when it had to.
func (b *builder) clamp(element string, half, limit float64) float64 {
	if half <= limit {
		return half
	}
	b.notes = append(b.notes, fmt.Sprintf("%s width clamped from %.3f m to %.3f m", element, 2*half, 2*limit))
	return limit
}

// extent returns the bounds of everything added so far.
func (b *builder) extent() drawing.Rect {
	r := drawing.EmptyRect()
	for _, e := range b.entries {
		r = r.Union(e.prim.Bounds())
	}
	return r
}

// ordered checks every primitive and sorts by layer, leftmost x, then
// emission order.
func (b *builder) ordered() ([]drawing.Primitive, error) {
	type keyed struct {
		entry
		layer int
		minX  float64
	}
	ks := make([]keyed, len(b.entries))
	for i, e := range b.entries {
		if err := e.prim.Check(); err != nil {
			return nil, &GeometryError{Element: e.element, Reason: err.Error()}
		}
		l, ok := drawing.LayerByName(e.prim.Layer)
		if !ok {
			return nil, geometryErrorf(e.element, "unknown layer %q", e.prim.Layer)
		}
		ks[i] = keyed{entry: e, layer: l.Order, minX: e.prim.Bounds().MinX}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].layer != ks[j].layer {
			return ks[i].layer < ks[j].layer
		}
		if ks[i].minX != ks[j].minX {
			return ks[i].minX < ks[j].minX
		}
		return ks[i].seq < ks[j].seq
	})
	out := make([]drawing.Primitive, len(ks))
	for i, k := range ks {
		out[i] = k.prim
	}
	return out, nil
}
