package sink

import (
	"math"

	"github.com/bridgegad/bridgegad/pkg/drawing"
)

// segment is a straight stroke produced when a dimension is exploded.
type segment struct{ a, b drawing.Point }

// label is a text item produced when a dimension is exploded.
type label struct {
	at     drawing.Point
	height float64
	align  drawing.Align
	text   string
}

// dimTextHeight is the label height for dimensions in model units.
func dimTextHeight(doc *drawing.Document) float64 {
	if doc.Meta.ModelScale > 0 {
		return doc.Meta.ModelScale
	}
	return 2.5
}

// explodeDimension lowers a dimension to plain strokes: two extension
// lines, the dimension line, oblique ticks at both ends, and the label.
// Horizontal labels sit centred above the line; vertical labels sit to its
// right, unrotated, so every target can draw them.
func explodeDimension(p drawing.Primitive, h float64) ([]segment, label) {
	a, b := p.Points[0], p.Points[1]
	da, db := p.DimensionLine()
	ext := h * 0.5
	tick := h * 0.4

	var segs []segment
	var lbl label
	if p.Orientation == drawing.Vertical {
		dir := math.Copysign(1, da.X-a.X)
		segs = append(segs,
			segment{a, drawing.Pt(da.X+dir*ext, a.Y)},
			segment{b, drawing.Pt(db.X+dir*ext, b.Y)},
		)
		lbl = label{
			at:     drawing.Pt(da.X+h*0.5, (da.Y+db.Y)/2-h/2),
			height: h,
			align:  drawing.AlignLeft,
			text:   p.Text,
		}
	} else {
		dir := math.Copysign(1, da.Y-a.Y)
		segs = append(segs,
			segment{a, drawing.Pt(a.X, da.Y+dir*ext)},
			segment{b, drawing.Pt(b.X, db.Y+dir*ext)},
		)
		lbl = label{
			at:     drawing.Pt((da.X+db.X)/2, da.Y+h*0.4),
			height: h,
			align:  drawing.AlignCenter,
			text:   p.Text,
		}
	}
	segs = append(segs, segment{da, db})
	for _, q := range []drawing.Point{da, db} {
		segs = append(segs, segment{
			drawing.Pt(q.X-tick, q.Y-tick),
			drawing.Pt(q.X+tick, q.Y+tick),
		})
	}
	return segs, lbl
}

// textLeft returns the left edge of a text whose anchor is at x.
func textLeft(x, width float64, align drawing.Align) float64 {
	switch align {
	case drawing.AlignCenter:
		return x - width/2
	case drawing.AlignRight:
		return x - width
	default:
		return x
	}
}
