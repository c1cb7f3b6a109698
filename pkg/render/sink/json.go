package sink

import (
	"encoding/json"

	"github.com/bridgegad/bridgegad/pkg/drawing"
	"github.com/bridgegad/bridgegad/pkg/params"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	params *params.Set
	bounds bool
}

// WithJSONParameters embeds the parameter values the drawing was built
// from, keyed by parameter name.
func WithJSONParameters(s *params.Set) JSONOption { return func(r *jsonRenderer) { r.params = s } }

// WithJSONBounds records the drawing extent.
func WithJSONBounds() JSONOption { return func(r *jsonRenderer) { r.bounds = true } }

type jsonOutput struct {
	ID         string              `json:"id"`
	Meta       drawing.Metadata    `json:"meta"`
	Bounds     *drawing.Rect       `json:"bounds,omitempty"`
	Layers     []jsonLayer         `json:"layers"`
	Primitives []drawing.Primitive `json:"primitives"`
	Notes      []string            `json:"notes,omitempty"`
	Parameters map[string]float64  `json:"parameters,omitempty"`
}

type jsonLayer struct {
	Name        string `json:"name"`
	Color       int    `json:"color"`
	Description string `json:"description,omitempty"`
	Count       int    `json:"count"`
}

// RenderJSON serializes doc as indented JSON. Primitives keep document
// order so that the output is a faithful dump of the drawing model.
func RenderJSON(doc *drawing.Document, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		ID:         doc.ID,
		Meta:       doc.Meta,
		Primitives: doc.Primitives,
		Notes:      doc.Notes,
	}
	if out.Primitives == nil {
		out.Primitives = []drawing.Primitive{}
	}
	for _, l := range doc.Layers {
		out.Layers = append(out.Layers, jsonLayer{
			Name:        l.Name,
			Color:       l.Color,
			Description: l.Description,
			Count:       doc.Count(l.Name),
		})
	}
	if b := doc.Bounds(); r.bounds && !b.IsEmpty() {
		out.Bounds = &b
	}
	if r.params != nil {
		out.Parameters = r.params.Map()
	}
	return json.MarshalIndent(out, "", "  ")
}
