package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/bridgegad/bridgegad/pkg/drawing"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	margin     float64
	background string
	strokeMM   float64
}

// WithSVGMargin sets the white space around the drawing in model units.
func WithSVGMargin(m float64) SVGOption { return func(r *svgRenderer) { r.margin = m } }

// WithSVGBackground fills the canvas with the given CSS colour.
func WithSVGBackground(c string) SVGOption { return func(r *svgRenderer) { r.background = c } }

// WithSVGStroke sets the stroke width in model units.
func WithSVGStroke(w float64) SVGOption { return func(r *svgRenderer) { r.strokeMM = w } }

// RenderSVG draws doc as a standalone SVG document. Model y grows upwards,
// so coordinates are flipped about the drawing extent. Each layer becomes a
// <g> element carrying the layer colour.
func RenderSVG(doc *drawing.Document, opts ...SVGOption) []byte {
	r := svgRenderer{margin: 10, background: "white"}
	for _, opt := range opts {
		opt(&r)
	}

	ext := doc.Bounds()
	if ext.IsEmpty() {
		ext = drawing.Rect{MaxX: 1, MaxY: 1}
	}
	if r.strokeMM <= 0 {
		r.strokeMM = dimTextHeight(doc) * 0.1
	}
	w := ext.Width() + 2*r.margin
	h := ext.Height() + 2*r.margin
	tx := func(x float64) float64 { return x - ext.MinX + r.margin }
	ty := func(y float64) float64 { return ext.MaxY - y + r.margin }

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, "  <title>%s</title>\n", escape(doc.Meta.Title))
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}

	dimHeight := dimTextHeight(doc)
	for _, l := range doc.Layers {
		prims := doc.OnLayer(l.Name)
		if len(prims) == 0 {
			continue
		}
		c := aciToRGB(l.Color).hex()
		fmt.Fprintf(&buf, `  <g id="layer-%s" stroke="%s" fill="none" stroke-width="%.3f" font-family="Helvetica, Arial, sans-serif">`+"\n",
			strings.ToLower(l.Name), c, r.strokeMM)
		for _, p := range prims {
			switch p.Kind {
			case drawing.KindLine:
				writeSVGLine(&buf, tx(p.Points[0].X), ty(p.Points[0].Y), tx(p.Points[1].X), ty(p.Points[1].Y))
			case drawing.KindPolyline:
				tag := "polyline"
				if p.Closed {
					tag = "polygon"
				}
				fmt.Fprintf(&buf, `    <%s points="`, tag)
				for i, pt := range p.Points {
					if i > 0 {
						buf.WriteByte(' ')
					}
					fmt.Fprintf(&buf, "%.3f,%.3f", tx(pt.X), ty(pt.Y))
				}
				buf.WriteString(`"/>` + "\n")
			case drawing.KindText:
				writeSVGText(&buf, c, tx(p.Points[0].X), ty(p.Points[0].Y), p.Height, p.Align, p.Text)
			case drawing.KindDimension:
				segs, lbl := explodeDimension(p, dimHeight)
				for _, s := range segs {
					writeSVGLine(&buf, tx(s.a.X), ty(s.a.Y), tx(s.b.X), ty(s.b.Y))
				}
				writeSVGText(&buf, c, tx(lbl.at.X), ty(lbl.at.Y), lbl.height, lbl.align, lbl.text)
			}
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeSVGLine(buf *bytes.Buffer, x1, y1, x2, y2 float64) {
	fmt.Fprintf(buf, `    <line x1="%.3f" y1="%.3f" x2="%.3f" y2="%.3f"/>`+"\n", x1, y1, x2, y2)
}

func writeSVGText(buf *bytes.Buffer, fill string, x, y, size float64, align drawing.Align, s string) {
	anchor := "start"
	switch align {
	case drawing.AlignCenter:
		anchor = "middle"
	case drawing.AlignRight:
		anchor = "end"
	}
	fmt.Fprintf(buf, `    <text x="%.3f" y="%.3f" font-size="%.3f" text-anchor="%s" fill="%s" stroke="none">%s</text>`+"\n",
		x, y, size, anchor, fill, escape(s))
}

func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
