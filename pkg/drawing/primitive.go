package drawing

import (
	"fmt"
	"math"
)

// Kind is the type of a primitive.
type Kind string

const (
	KindLine      Kind = "line"
	KindPolyline  Kind = "polyline"
	KindText      Kind = "text"
	KindDimension Kind = "dimension"
)

// Align is the horizontal anchor of a text primitive.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Orientation is the measuring direction of a dimension.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// textAspect approximates glyph width as a fraction of text height.
const textAspect = 0.7

// Point is a position in model space.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Primitive is one drawing entity. Which fields are meaningful depends on
// Kind:
//
//   - line: Points[0] to Points[1]
//   - polyline: Points, Closed
//   - text: Points[0] is the insertion point; Text, Height, Align
//   - dimension: Points[0] and Points[1] are the measured points; the
//     dimension line sits Offset away from them (below/left when
//     negative); Measurement is the value in metres and Text its label
type Primitive struct {
	Kind        Kind        `json:"kind" bson:"kind"`
	Layer       string      `json:"layer" bson:"layer"`
	Color       int         `json:"color" bson:"color"`
	Points      []Point     `json:"points" bson:"points"`
	Closed      bool        `json:"closed,omitempty" bson:"closed,omitempty"`
	Text        string      `json:"text,omitempty" bson:"text,omitempty"`
	Height      float64     `json:"height,omitempty" bson:"height,omitempty"`
	Align       Align       `json:"align,omitempty" bson:"align,omitempty"`
	Orientation Orientation `json:"orientation,omitempty" bson:"orientation,omitempty"`
	Offset      float64     `json:"offset,omitempty" bson:"offset,omitempty"`
	Measurement float64     `json:"measurement,omitempty" bson:"measurement,omitempty"`
}

// Line creates a line primitive on l.
func Line(l Layer, a, b Point) Primitive {
	return Primitive{Kind: KindLine, Layer: l.Name, Color: l.Color, Points: []Point{a, b}}
}

// Polyline creates an open or closed polyline on l.
func Polyline(l Layer, closed bool, pts ...Point) Primitive {
	return Primitive{Kind: KindPolyline, Layer: l.Name, Color: l.Color, Points: pts, Closed: closed}
}

// Rectangle creates a closed rectangle spanning two opposite corners.
func Rectangle(l Layer, a, b Point) Primitive {
	return Polyline(l, true, a, Pt(b.X, a.Y), b, Pt(a.X, b.Y))
}

// Text creates a text primitive anchored at p.
func Text(l Layer, p Point, height float64, align Align, s string) Primitive {
	return Primitive{Kind: KindText, Layer: l.Name, Color: l.Color, Points: []Point{p}, Text: s, Height: height, Align: align}
}

// Dimension creates a linear dimension between a and b.
func Dimension(l Layer, a, b Point, o Orientation, offset, measurement float64, label string) Primitive {
	return Primitive{
		Kind:        KindDimension,
		Layer:       l.Name,
		Color:       l.Color,
		Points:      []Point{a, b},
		Orientation: o,
		Offset:      offset,
		Measurement: measurement,
		Text:        label,
	}
}

// DimensionLine returns the two end points of the dimension line.
func (p Primitive) DimensionLine() (Point, Point) {
	a, b := p.Points[0], p.Points[1]
	if p.Orientation == Vertical {
		x := math.Min(a.X, b.X) + p.Offset
		if p.Offset > 0 {
			x = math.Max(a.X, b.X) + p.Offset
		}
		return Pt(x, a.Y), Pt(x, b.Y)
	}
	y := math.Min(a.Y, b.Y) + p.Offset
	if p.Offset > 0 {
		y = math.Max(a.Y, b.Y) + p.Offset
	}
	return Pt(a.X, y), Pt(b.X, y)
}

// TextWidth estimates the rendered width of a text primitive.
func (p Primitive) TextWidth() float64 {
	return float64(len([]rune(p.Text))) * p.Height * textAspect
}

// Bounds returns the axis-aligned extent of the primitive.
func (p Primitive) Bounds() Rect {
	r := EmptyRect()
	for _, pt := range p.Points {
		r = r.Extend(pt)
	}
	switch p.Kind {
	case KindText:
		w := p.TextWidth()
		x := p.Points[0].X
		switch p.Align {
		case AlignCenter:
			x -= w / 2
		case AlignRight:
			x -= w
		}
		r = r.Extend(Pt(x, p.Points[0].Y)).Extend(Pt(x+w, p.Points[0].Y+p.Height))
	case KindDimension:
		a, b := p.DimensionLine()
		r = r.Extend(a).Extend(b)
	}
	return r
}

// Check reports the first structural defect of p: missing points,
// non-finite coordinates, degenerate outlines or empty text.
func (p Primitive) Check() error {
	want := map[Kind]int{KindLine: 2, KindText: 1, KindDimension: 2}
	if n, ok := want[p.Kind]; ok && len(p.Points) != n {
		return fmt.Errorf("%s needs %d points, has %d", p.Kind, n, len(p.Points))
	}
	if p.Kind == KindPolyline && len(p.Points) < 2 {
		return fmt.Errorf("polyline needs at least 2 points, has %d", len(p.Points))
	}
	for _, pt := range p.Points {
		if !finite(pt.X) || !finite(pt.Y) {
			return fmt.Errorf("non-finite coordinate (%v, %v)", pt.X, pt.Y)
		}
	}
	switch p.Kind {
	case KindPolyline:
		if b := p.Bounds(); p.Closed && (b.Width() <= 0 || b.Height() <= 0) {
			return fmt.Errorf("closed outline has zero width or height (%.3f x %.3f)", b.Width(), b.Height())
		}
	case KindText:
		if p.Text == "" {
			return fmt.Errorf("empty text")
		}
		if !(p.Height > 0) {
			return fmt.Errorf("text height %v is not positive", p.Height)
		}
	case KindDimension:
		if !(p.Measurement > 0) || !finite(p.Measurement) {
			return fmt.Errorf("dimension measures %v", p.Measurement)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
