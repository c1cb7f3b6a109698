package drawing

// Layer is a named, colour-coded group of primitives. The layer table is
// fixed; callers pick from the exported values below.
type Layer struct {
	Name        string `json:"name" bson:"name"`
	Color       int    `json:"color" bson:"color"` // AutoCAD colour index
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Order       int    `json:"-" bson:"-"`
}

// Layer table, in emission order.
var (
	LayerGrid        = Layer{Name: "GRID", Color: 8, Description: "Level and chainage grid", Order: 0}
	LayerDeck        = Layer{Name: "DECK", Color: 1, Description: "Deck outline", Order: 1}
	LayerApproach    = Layer{Name: "APPROACH", Color: 2, Description: "Approach slabs", Order: 2}
	LayerPier        = Layer{Name: "PIER", Color: 5, Description: "Pier caps and shafts", Order: 3}
	LayerAbutment    = Layer{Name: "ABUTMENT", Color: 30, Description: "Abutment stems", Order: 4}
	LayerFoundation  = Layer{Name: "FOUNDATION", Color: 9, Description: "Pier and abutment footings", Order: 5}
	LayerPlan        = Layer{Name: "PLAN", Color: 7, Description: "Plan view outlines", Order: 6}
	LayerCenterlines = Layer{Name: "CENTERLINES", Color: 4, Description: "Centre lines", Order: 7}
	LayerDimensions  = Layer{Name: "DIMENSIONS", Color: 6, Description: "Dimensions", Order: 8}
	LayerAnnotations = Layer{Name: "ANNOTATIONS", Color: 3, Description: "Labels and level tags", Order: 9}
	LayerTitle       = Layer{Name: "TITLE", Color: 7, Description: "Title block", Order: 10}
)

var layers = []Layer{
	LayerGrid,
	LayerDeck,
	LayerApproach,
	LayerPier,
	LayerAbutment,
	LayerFoundation,
	LayerPlan,
	LayerCenterlines,
	LayerDimensions,
	LayerAnnotations,
	LayerTitle,
}

// Layers returns the full layer table in emission order.
func Layers() []Layer {
	return append([]Layer(nil), layers...)
}

// LayerByName looks up a layer of the table.
func LayerByName(name string) (Layer, bool) {
	for _, l := range layers {
		if l.Name == name {
			return l, true
		}
	}
	return Layer{}, false
}
