package drawing

import "time"

// Metadata describes a drawing for the title block and for archiving.
type Metadata struct {
	Title      string    `json:"title" bson:"title"`
	Project    string    `json:"project" bson:"project"`
	PreparedBy string    `json:"prepared_by,omitempty" bson:"prepared_by,omitempty"`
	Number     string    `json:"number" bson:"number"`           // Drawing number in the title block
	Scale      string    `json:"scale" bson:"scale"`             // Sheet scale, e.g. "1:100"
	ModelScale float64   `json:"model_scale" bson:"model_scale"` // Model units per metre
	Generated  time.Time `json:"generated" bson:"generated"`
	Spans      int       `json:"spans" bson:"spans"`
	Length     float64   `json:"length" bson:"length"` // Abutment to abutment, metres
}

// Document is the in-memory drawing: an ordered primitive sequence plus
// the layers it uses and its metadata. It is produced once and then only
// read by serializers.
type Document struct {
	ID         string      `json:"id" bson:"_id"`
	Meta       Metadata    `json:"meta" bson:"meta"`
	Layers     []Layer     `json:"layers" bson:"layers"`
	Primitives []Primitive `json:"primitives" bson:"primitives"`
	Notes      []string    `json:"notes,omitempty" bson:"notes,omitempty"`
}

// OnLayer returns the primitives on the named layer, in document order.
func (d *Document) OnLayer(name string) []Primitive {
	var out []Primitive
	for _, p := range d.Primitives {
		if p.Layer == name {
			out = append(out, p)
		}
	}
	return out
}

// Count returns the number of primitives on the named layer.
func (d *Document) Count(name string) int {
	n := 0
	for _, p := range d.Primitives {
		if p.Layer == name {
			n++
		}
	}
	return n
}

// Bounds returns the extent of all primitives.
func (d *Document) Bounds() Rect {
	r := EmptyRect()
	for _, p := range d.Primitives {
		r = r.Union(p.Bounds())
	}
	return r
}

// UsedLayers returns the layers of the table that hold at least one
// primitive, in table order.
func UsedLayers(prims []Primitive) []Layer {
	used := make(map[string]bool)
	for _, p := range prims {
		used[p.Layer] = true
	}
	var out []Layer
	for _, l := range layers {
		if used[l.Name] {
			out = append(out, l)
		}
	}
	return out
}
