package layout

import (
	"math"

	"github.com/bridgegad/bridgegad/pkg/params"
)

// geometry is the parameter set reduced to the quantities the generator
// draws, in metres and degrees.
type geometry struct {
	spans int
	span  float64
	start float64 // chainage of the left abutment face
	width float64
	skew  float64

	rtl   float64
	datum float64
	deckT float64

	capTop    float64
	capBottom float64
	capW      float64
	shaftTopW float64
	batter    float64
	pierPlanW float64

	footTop   float64
	footDepth float64
	footW     float64

	abutH     float64
	abutW     float64
	abutFootL float64
	abutFootT float64

	approachL float64
	approachT float64

	scale float64
}

func geometryFrom(s *params.Set) geometry {
	return geometry{
		spans:     s.Spans(),
		span:      s.Get(params.Span1),
		start:     s.Get(params.ABTL),
		width:     s.Get(params.BridgeW),
		skew:      s.Get(params.Skew),
		rtl:       s.Get(params.RTL),
		datum:     s.Get(params.Datum),
		deckT:     s.Get(params.DeckT),
		capTop:    s.Get(params.CapT),
		capBottom: s.Get(params.CapB),
		capW:      s.Get(params.CapW),
		shaftTopW: s.Get(params.PierTW),
		batter:    s.Get(params.Battr),
		pierPlanW: s.Get(params.PierWidth),
		footTop:   s.Get(params.FutRL),
		footDepth: s.Get(params.FutD),
		footW:     s.Get(params.FutW),
		abutH:     s.Get(params.AbutHeight),
		abutW:     s.Get(params.AbutWidth),
		abutFootL: s.Get(params.FootLength),
		abutFootT: s.Get(params.FootThick),
		approachL: s.Get(params.ApprLength),
		approachT: s.Get(params.ApprThick),
		scale:     s.ScaleFactor(),
	}
}

func (g geometry) end() float64 {
	return g.start + float64(g.spans)*g.span
}

func (g geometry) length() float64 {
	return float64(g.spans) * g.span
}

// support returns the chainage of support i, 0 being the left abutment
// face and spans the right one.
func (g geometry) support(i int) float64 {
	return g.start + float64(i)*g.span
}

// halfLimit is the widest half width an element centred on a support may
// have.
func (g geometry) halfLimit() float64 {
	return ClearanceRatio * g.span
}

// lowestLevel is the deepest level drawn in elevation.
func (g geometry) lowestLevel() float64 {
	low := g.rtl - g.abutH - g.abutFootT
	if g.spans > 1 {
		low = math.Min(low, g.footTop-g.footDepth)
	}
	return low
}

// check rejects physical dimensions that cannot be drawn.
func (g geometry) check() error {
	if g.spans < 1 {
		return dimensionError("bridge", "span count", float64(g.spans), "span count %d is less than 1", g.spans)
	}
	positive := []struct {
		element string
		what    string
		value   float64
	}{
		{"deck", "span length", g.span},
		{"deck", "thickness", g.deckT},
		{"deck", "width", g.width},
		{"abutment", "height", g.abutH},
		{"abutment", "stem width", g.abutW},
		{"abutment", "footing length", g.abutFootL},
		{"abutment", "footing thickness", g.abutFootT},
		{"approach slab", "length", g.approachL},
		{"approach slab", "thickness", g.approachT},
		{"drawing", "scale factor", g.scale},
	}
	if g.spans > 1 {
		positive = append(positive, []struct {
			element string
			what    string
			value   float64
		}{
			{"pier", "cap depth", g.capTop - g.capBottom},
			{"pier", "cap width", g.capW},
			{"pier", "shaft top width", g.shaftTopW},
			{"pier", "shaft height", g.capBottom - g.footTop},
			{"pier", "batter ratio", g.batter},
			{"pier", "plan width", g.pierPlanW},
			{"pier footing", "depth", g.footDepth},
			{"pier footing", "width", g.footW},
		}...)
	}
	for _, p := range positive {
		if math.IsNaN(p.value) || math.IsInf(p.value, 0) {
			return dimensionError(p.element, p.what, p.value, "%s is not finite", p.what)
		}
		if p.value <= 0 {
			return dimensionError(p.element, p.what, p.value, "%s %.3f is not positive", p.what, p.value)
		}
	}
	for _, v := range []struct {
		what  string
		value float64
	}{
		{"start chainage", g.start},
		{"road top level", g.rtl},
		{"datum", g.datum},
		{"skew", g.skew},
		{"cap top level", g.capTop},
		{"footing top level", g.footTop},
	} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return dimensionError("bridge", v.what, v.value, "non-finite %s", v.what)
		}
	}
	if g.skew < 0 || g.skew >= 90 {
		return dimensionError("plan", "skew", g.skew, "skew %.3f degrees is outside [0, 90)", g.skew)
	}
	return nil
}
