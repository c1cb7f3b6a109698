package layout

import (
	"fmt"
	"math"

	"github.com/bridgegad/bridgegad/pkg/drawing"
)

// planGap is the clear distance between elevation and plan, in metres.
const planGap = 15.0

// plan draws the deck outline as seen from above, skewed supports, and the
// centre line. The plan sits below the elevation and its dimensions.
func (b *builder) plan() {
	g := b.geo
	half := g.width / 2
	b.planY = b.y(g.lowestLevel()) - b.m(planGap+half)
	if !b.opts.NoDimensions {
		b.planY -= b.m(spanDimGap + overallDimGap)
	}

	b.add("deck plan", b.skewed(drawing.LayerPlan, g.start, g.end(), half))

	limit := g.halfLimit()
	for i := 1; i < g.spans; i++ {
		name := fmt.Sprintf("pier P%d", i)
		c := g.support(i)
		pw := b.clamp(name+" plan", g.pierPlanW/2, limit)
		b.add(name, b.skewed(drawing.LayerPlan, c-pw, c+pw, half+0.5))
	}
	b.add("abutment A1", b.skewed(drawing.LayerPlan, g.start-g.abutW, g.start, half+0.5))
	b.add("abutment A2", b.skewed(drawing.LayerPlan, g.end(), g.end()+g.abutW, half+0.5))

	overrun := g.abutW + 2
	b.add("centre line", drawing.Line(drawing.LayerCenterlines,
		b.plan2model(g.start-overrun, 0),
		b.plan2model(g.end()+overrun, 0)))
}

// skewOffset is the chainage shift of a support line at a transverse
// offset of across metres from the centre line.
func (b *builder) skewOffset(across float64) float64 {
	return across * math.Tan(b.geo.skew*math.Pi/180)
}

// plan2model maps a chainage and a transverse offset (positive to the
// left of the direction of chainage) to model space.
func (b *builder) plan2model(chainage, across float64) drawing.Point {
	return drawing.Pt(b.x(chainage), b.planY+b.m(across))
}

// skewed returns the parallelogram between chainages from and to, half
// metres either side of the centre line, with edges parallel to the
// skewed supports.
func (b *builder) skewed(l drawing.Layer, from, to, half float64) drawing.Primitive {
	d := b.skewOffset(half)
	return drawing.Polyline(l, true,
		b.plan2model(from-d, -half),
		b.plan2model(to-d, -half),
		b.plan2model(to+d, half),
		b.plan2model(from+d, half),
	)
}
