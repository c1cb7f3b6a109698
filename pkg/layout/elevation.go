package layout

import (
	"fmt"
	"math"

	"github.com/bridgegad/bridgegad/pkg/drawing"
)

// elevation draws the longitudinal section: deck panels, piers with their
// footings, abutments with their footings, and approach slabs.
func (b *builder) elevation() {
	g := b.geo

	for i := 0; i < g.spans; i++ {
		b.add("deck", drawing.Rectangle(drawing.LayerDeck,
			b.at(g.support(i), g.rtl),
			b.at(g.support(i+1), g.rtl-g.deckT)))
	}

	for i := 1; i < g.spans; i++ {
		b.pier(i)
	}

	b.abutment(true)
	b.abutment(false)
}

// pier draws pier i as one outline (cap and battered shaft), a footing and
// a centre line.
func (b *builder) pier(i int) {
	g := b.geo
	name := fmt.Sprintf("pier P%d", i)
	c := g.support(i)
	limit := g.halfLimit()

	capHalf := b.clamp(name+" cap", g.capW/2, limit)
	topHalf := b.clamp(name+" shaft", g.shaftTopW/2, limit)
	footHalf := b.clamp(name+" footing", g.footW/2, limit)

	// The shaft widens by height/batter on each side, but never past the
	// footing it stands on.
	bottomHalf := topHalf + (g.capBottom-g.footTop)/g.batter
	if bottomHalf > footHalf {
		b.notes = append(b.notes, fmt.Sprintf("%s shaft base clamped to footing width %.3f m", name, 2*footHalf))
		bottomHalf = footHalf
	}

	b.add(name, drawing.Polyline(drawing.LayerPier, true,
		b.at(c-capHalf, g.capTop),
		b.at(c+capHalf, g.capTop),
		b.at(c+capHalf, g.capBottom),
		b.at(c+topHalf, g.capBottom),
		b.at(c+bottomHalf, g.footTop),
		b.at(c-bottomHalf, g.footTop),
		b.at(c-topHalf, g.capBottom),
		b.at(c-capHalf, g.capBottom),
	))

	b.add(name+" footing", drawing.Rectangle(drawing.LayerFoundation,
		b.at(c-footHalf, g.footTop),
		b.at(c+footHalf, g.footTop-g.footDepth)))

	overrun := math.Min(1, g.span*(0.5-ClearanceRatio))
	b.add(name, drawing.Line(drawing.LayerCenterlines,
		b.at(c, g.capTop+overrun),
		b.at(c, g.footTop-g.footDepth-overrun)))
}

// abutment draws the stem, footing and approach slab at one end. The stem
// stands outside the spans; the footing is centred under the stem but its
// toe reaches at most ClearanceRatio*span into the first span.
func (b *builder) abutment(left bool) {
	g := b.geo
	name, face, dir := "abutment A1", g.start, -1.0
	if !left {
		name, face, dir = "abutment A2", g.end(), 1.0
	}

	back := face + dir*g.abutW
	stemBottom := g.rtl - g.abutH
	b.add(name, drawing.Rectangle(drawing.LayerAbutment,
		b.at(math.Min(face, back), g.rtl),
		b.at(math.Max(face, back), stemBottom)))

	centre := face + dir*g.abutW/2
	heel := centre + dir*g.abutFootL/2
	toe := centre - dir*g.abutFootL/2
	maxReach := g.halfLimit()
	if reach := (toe - face) * -dir; reach > maxReach {
		b.notes = append(b.notes, fmt.Sprintf("%s footing toe clamped from %.3f m to %.3f m into the span", name, reach, maxReach))
		toe = face - dir*maxReach
	}
	b.add(name+" footing", drawing.Rectangle(drawing.LayerFoundation,
		b.at(math.Min(heel, toe), stemBottom),
		b.at(math.Max(heel, toe), stemBottom-g.abutFootT)))

	slabNear := back
	slabFar := back + dir*g.approachL
	b.add("approach slab", drawing.Rectangle(drawing.LayerApproach,
		b.at(math.Min(slabNear, slabFar), g.rtl),
		b.at(math.Max(slabNear, slabFar), g.rtl-g.approachT)))
}
