package sink

import (
	"bytes"
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	dxfdrawing "github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"

	"github.com/bridgegad/bridgegad/pkg/drawing"
)

// minDXFSize is the smallest byte count a DXF with a header and an
// ENTITIES section can have.
const minDXFSize = 100

// RenderDXF serializes doc as an AC1015 (AutoCAD 2000) DXF drawing and
// returns the file bytes.
//
// Layers are declared in table order with their colours. Lines, polylines
// and text map to LINE, LWPOLYLINE and TEXT entities; dimensions are
// exploded into lines and a text label so that any reader shows them
// without a dimension style.
func RenderDXF(doc *drawing.Document) ([]byte, error) {
	d := dxf.NewDrawing()
	for _, l := range doc.Layers {
		lt := dxf.DefaultLineType
		if l.Name == drawing.LayerCenterlines.Name || l.Name == drawing.LayerGrid.Name {
			lt = table.LT_HIDDEN
		}
		if _, err := d.AddLayer(l.Name, color.ColorNumber(l.Color), lt, false); err != nil {
			return nil, fmt.Errorf("add layer %s: %w", l.Name, err)
		}
	}

	dimHeight := dimTextHeight(doc)
	current := ""
	for i, p := range doc.Primitives {
		if p.Layer != current {
			if err := d.ChangeLayer(p.Layer); err != nil {
				return nil, fmt.Errorf("primitive %d: %w", i, err)
			}
			current = p.Layer
		}
		if err := writeDXFPrimitive(d, p, dimHeight); err != nil {
			return nil, fmt.Errorf("primitive %d (%s on %s): %w", i, p.Kind, p.Layer, err)
		}
	}

	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write dxf: %w", err)
	}
	if err := ValidateDXF(buf.Bytes()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeDXFPrimitive(d *dxfdrawing.Drawing, p drawing.Primitive, dimHeight float64) error {
	switch p.Kind {
	case drawing.KindLine:
		a, b := p.Points[0], p.Points[1]
		_, err := d.Line(a.X, a.Y, 0, b.X, b.Y, 0)
		return err
	case drawing.KindPolyline:
		vs := make([][]float64, len(p.Points))
		for i, pt := range p.Points {
			vs[i] = []float64{pt.X, pt.Y}
		}
		_, err := d.LwPolyline(p.Closed, vs...)
		return err
	case drawing.KindText:
		at := p.Points[0]
		x := textLeft(at.X, p.TextWidth(), p.Align)
		_, err := d.Text(p.Text, x, at.Y, 0, p.Height)
		return err
	case drawing.KindDimension:
		segs, lbl := explodeDimension(p, dimHeight)
		for _, s := range segs {
			if _, err := d.Line(s.a.X, s.a.Y, 0, s.b.X, s.b.Y, 0); err != nil {
				return err
			}
		}
		w := drawing.Text(drawing.LayerDimensions, lbl.at, lbl.height, lbl.align, lbl.text).TextWidth()
		_, err := d.Text(lbl.text, textLeft(lbl.at.X, w, lbl.align), lbl.at.Y, 0, lbl.height)
		return err
	default:
		return fmt.Errorf("unsupported primitive kind %q", p.Kind)
	}
}

// ValidateDXF performs a cheap structural check of DXF bytes: the content
// must be at least minDXFSize bytes and contain SECTION and ENTITIES
// markers.
func ValidateDXF(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("dxf is empty")
	}
	if len(data) < minDXFSize {
		return fmt.Errorf("dxf too small (%d bytes)", len(data))
	}
	for _, marker := range []string{"SECTION", "ENTITIES"} {
		if !bytes.Contains(data, []byte(marker)) {
			return fmt.Errorf("dxf has no %s marker", marker)
		}
	}
	return nil
}
