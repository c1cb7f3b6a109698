package layout

import (
	"fmt"
	"math"

	"github.com/bridgegad/bridgegad/pkg/drawing"
)

// Dimension placement below the lowest elevation level, in metres.
const (
	spanDimGap    = 5.0
	overallDimGap = 5.0
)

// dimensions adds span dimensions, the overall length, deck thickness,
// abutment height and, with a plan, the deck width.
func (b *builder) dimensions() {
	g := b.geo
	base := g.lowestLevel()
	L := drawing.LayerDimensions

	for i := 0; i < g.spans; i++ {
		b.add("span dimension", drawing.Dimension(L,
			b.at(g.support(i), base),
			b.at(g.support(i+1), base),
			drawing.Horizontal, -b.m(spanDimGap), g.span, formatMetres(g.span)))
	}
	if g.spans > 1 {
		b.add("overall dimension", drawing.Dimension(L,
			b.at(g.start, base),
			b.at(g.end(), base),
			drawing.Horizontal, -b.m(spanDimGap+overallDimGap), g.length(), formatMetres(g.length())))
	}

	right := g.end() + g.abutW + g.approachL
	b.add("deck thickness dimension", drawing.Dimension(L,
		b.at(g.end(), g.rtl),
		b.at(g.end(), g.rtl-g.deckT),
		drawing.Vertical, b.m(right-g.end()+3), g.deckT, formatMetres(g.deckT)))
	b.add("abutment height dimension", drawing.Dimension(L,
		b.at(g.end()+g.abutW, g.rtl),
		b.at(g.end()+g.abutW, g.rtl-g.abutH),
		drawing.Vertical, b.m(right-g.end()-g.abutW+8), g.abutH, formatMetres(g.abutH)))

	if !b.opts.NoPlan {
		half := g.width / 2
		d := b.skewOffset(half)
		b.add("width dimension", drawing.Dimension(L,
			b.plan2model(g.start-d, -half),
			b.plan2model(g.start+d, half),
			drawing.Vertical, -b.m(g.abutW+3), g.width, formatMetres(g.width)))
	}
}

// annotations adds view titles, level tags, support labels and a north
// arrow.
func (b *builder) annotations() {
	g := b.geo
	L := drawing.LayerAnnotations
	th := b.textHeight()
	mid := (g.start + g.end()) / 2

	b.add("elevation title", drawing.Text(L, b.at(mid, g.rtl+4), b.titleHeight(), drawing.AlignCenter, "ELEVATION"))

	tagX := g.start - g.abutW - g.approachL - 1
	b.add("level tag", drawing.Text(L, b.at(tagX, g.rtl), th, drawing.AlignRight, "RTL "+formatLevel(g.rtl)))
	b.add("level tag", drawing.Text(L, b.at(tagX, g.datum), th, drawing.AlignRight, "DATUM "+formatLevel(g.datum)))
	if g.spans > 1 {
		b.add("level tag", drawing.Text(L, b.at(tagX, g.footTop), th, drawing.AlignRight, "FOUNDATION "+formatLevel(g.footTop)))
	}

	if b.opts.NoPlan {
		return
	}

	half := g.width / 2
	b.add("plan title", drawing.Text(L, b.plan2model(mid, half+3), b.titleHeight(), drawing.AlignCenter, "PLAN"))

	labelAt := half + 1
	for i := 1; i < g.spans; i++ {
		c := g.support(i) + b.skewOffset(labelAt)
		b.add("pier label", drawing.Text(L, b.plan2model(c, labelAt), th, drawing.AlignCenter, fmt.Sprintf("P%d", i)))
	}
	b.add("abutment label", drawing.Text(L, b.plan2model(g.start-g.abutW/2+b.skewOffset(labelAt), labelAt), th, drawing.AlignCenter, "A1"))
	b.add("abutment label", drawing.Text(L, b.plan2model(g.end()+g.abutW/2+b.skewOffset(labelAt), labelAt), th, drawing.AlignCenter, "A2"))

	// North arrow to the right of the plan.
	nx := g.end() + g.abutW + g.approachL + 5
	size := 3.0
	b.add("north arrow", drawing.Polyline(L, true,
		b.plan2model(nx, size),
		b.plan2model(nx+size/3, -size/2),
		b.plan2model(nx, -size/4),
		b.plan2model(nx-size/3, -size/2),
	))
	b.add("north arrow", drawing.Text(L, b.plan2model(nx, size+0.5), th, drawing.AlignCenter, "N"))
}

// grid draws level lines every GridStep metres and chainage lines at each
// support, labelled on the left.
func (b *builder) grid() {
	g := b.geo
	L := drawing.LayerGrid
	step := gridStep(g.lowestLevel(), g.rtl, b.opts.GridStep)
	left := g.start - g.abutW - g.approachL
	right := g.end() + g.abutW + g.approachL
	bottom := math.Floor(g.lowestLevel()/step) * step
	top := math.Ceil(g.rtl/step) * step

	for level := bottom; level <= top+1e-9; level += step {
		b.add("grid", drawing.Line(L, b.at(left, level), b.at(right, level)))
		b.add("grid", drawing.Text(L, b.at(left-0.5, level), b.textHeight()*0.8, drawing.AlignRight, formatLevel(level)))
	}
	for i := 0; i <= g.spans; i++ {
		c := g.support(i)
		b.add("grid", drawing.Line(L, b.at(c, bottom), b.at(c, top)))
	}
}

// gridStep returns step, or the smallest whole multiple of it that keeps
// the levels from low to high within MaxGridLevels lines.
func gridStep(low, high, step float64) float64 {
	lines := math.Ceil((high-low)/step) + 2
	if lines <= MaxGridLevels {
		return step
	}
	return step * math.Ceil(lines/MaxGridLevels)
}

// formatMetres renders a length the way dimension labels show it.
func formatMetres(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

func formatLevel(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
