package drawing

import (
	"math"
	"strings"
	"testing"
)

func TestLayerTable(t *testing.T) {
	ls := Layers()
	seen := map[string]bool{}
	for i, l := range ls {
		if l.Order != i {
			t.Errorf("layer %s has Order %d at index %d", l.Name, l.Order, i)
		}
		if seen[l.Name] {
			t.Errorf("duplicate layer %s", l.Name)
		}
		seen[l.Name] = true
		if l.Color < 1 || l.Color > 255 {
			t.Errorf("layer %s has colour %d outside ACI range", l.Name, l.Color)
		}
		got, ok := LayerByName(l.Name)
		if !ok || got != l {
			t.Errorf("LayerByName(%q) = %v, %v", l.Name, got, ok)
		}
	}
	if _, ok := LayerByName("HATCHING"); ok {
		t.Error("LayerByName should not find layers outside the table")
	}
}

func TestPrimitiveCheck(t *testing.T) {
	tests := []struct {
		name    string
		p       Primitive
		wantErr string
	}{
		{"line", Line(LayerDeck, Pt(0, 0), Pt(1, 0)), ""},
		{"rectangle", Rectangle(LayerPier, Pt(0, 0), Pt(2, 3)), ""},
		{"open polyline may be flat", Polyline(LayerGrid, false, Pt(0, 0), Pt(5, 0)), ""},
		{"text", Text(LayerTitle, Pt(0, 0), 2.5, AlignLeft, "PLAN"), ""},
		{"dimension", Dimension(LayerDimensions, Pt(0, 0), Pt(30, 0), Horizontal, -5, 30, "30.000"), ""},

		{"flat rectangle", Rectangle(LayerPier, Pt(0, 0), Pt(0, 3)), "zero width"},
		{"NaN", Line(LayerDeck, Pt(math.NaN(), 0), Pt(1, 0)), "non-finite"},
		{"empty text", Text(LayerTitle, Pt(0, 0), 2.5, AlignLeft, ""), "empty text"},
		{"zero text height", Text(LayerTitle, Pt(0, 0), 0, AlignLeft, "x"), "not positive"},
		{"zero dimension", Dimension(LayerDimensions, Pt(0, 0), Pt(0, 0), Horizontal, -5, 0, "0"), "measures"},
		{"short line", Primitive{Kind: KindLine, Points: []Point{{}}}, "needs 2 points"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Check()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Check() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Check() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestPrimitiveColorFollowsLayer(t *testing.T) {
	p := Line(LayerDimensions, Pt(0, 0), Pt(1, 1))
	if p.Layer != "DIMENSIONS" || p.Color != 6 {
		t.Errorf("Line on DIMENSIONS = %s/%d", p.Layer, p.Color)
	}
}

func TestDimensionLine(t *testing.T) {
	h := Dimension(LayerDimensions, Pt(0, 10), Pt(30, 12), Horizontal, -5, 15, "15")
	a, b := h.DimensionLine()
	if a != Pt(0, 5) || b != Pt(30, 5) {
		t.Errorf("horizontal dimension line = %v, %v", a, b)
	}

	v := Dimension(LayerDimensions, Pt(10, 0), Pt(12, 8), Vertical, 4, 8, "8")
	a, b = v.DimensionLine()
	if a != Pt(16, 0) || b != Pt(16, 8) {
		t.Errorf("vertical dimension line = %v, %v", a, b)
	}
}

func TestBounds(t *testing.T) {
	r := Rectangle(LayerDeck, Pt(2, 1), Pt(8, 4)).Bounds()
	if r.MinX != 2 || r.MinY != 1 || r.Width() != 6 || r.Height() != 3 {
		t.Errorf("rectangle bounds = %+v", r)
	}

	txt := Text(LayerTitle, Pt(10, 0), 2, AlignCenter, "ABCD").Bounds()
	if w := txt.Width(); math.Abs(w-4*2*textAspect) > 1e-9 {
		t.Errorf("text width = %v", w)
	}
	if txt.MinX >= 10 || txt.MaxX <= 10 {
		t.Errorf("centred text should straddle its anchor: %+v", txt)
	}

	if !EmptyRect().IsEmpty() {
		t.Error("EmptyRect should be empty")
	}
	if EmptyRect().Width() != 0 {
		t.Error("empty rect width should be 0")
	}
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 2}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"inside", Rect{MinX: 0.5, MinY: 0.5, MaxX: 1, MaxY: 1}, true},
		{"crossing", Rect{MinX: 1, MinY: 1, MaxX: 3, MaxY: 3}, true},
		{"touching edge", Rect{MinX: 2, MinY: 0, MaxX: 4, MaxY: 2}, false},
		{"apart", Rect{MinX: 5, MinY: 5, MaxX: 6, MaxY: 6}, false},
	}
	for _, tt := range tests {
		if got := a.Overlaps(tt.b); got != tt.want {
			t.Errorf("%s: Overlaps = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDocumentQueries(t *testing.T) {
	prims := []Primitive{
		Rectangle(LayerDeck, Pt(0, 0), Pt(10, 1)),
		Rectangle(LayerPier, Pt(4, -5), Pt(6, 0)),
		Rectangle(LayerDeck, Pt(10, 0), Pt(20, 1)),
	}
	d := &Document{Primitives: prims, Layers: UsedLayers(prims)}

	if d.Count("DECK") != 2 || len(d.OnLayer("PIER")) != 1 {
		t.Errorf("Count(DECK)=%d OnLayer(PIER)=%d", d.Count("DECK"), len(d.OnLayer("PIER")))
	}
	if len(d.Layers) != 2 || d.Layers[0].Name != "DECK" || d.Layers[1].Name != "PIER" {
		t.Errorf("UsedLayers = %v", d.Layers)
	}
	b := d.Bounds()
	if b.MinX != 0 || b.MaxX != 20 || b.MinY != -5 || b.MaxY != 1 {
		t.Errorf("Bounds = %+v", b)
	}
}
