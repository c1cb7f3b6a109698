package sink

import "fmt"

// rgb is an 8-bit colour.
type rgb struct{ r, g, b int }

func (c rgb) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
}

// aciColors maps the AutoCAD colour indices used by the layer table to
// print colours. Index 7 is "white on dark, black on light" and prints
// black.
var aciColors = map[int]rgb{
	1:  {255, 0, 0},
	2:  {200, 160, 0},
	3:  {0, 150, 0},
	4:  {0, 160, 200},
	5:  {0, 0, 255},
	6:  {200, 0, 200},
	7:  {0, 0, 0},
	8:  {128, 128, 128},
	9:  {160, 160, 160},
	30: {255, 127, 0},
}

// aciToRGB returns the print colour for an AutoCAD colour index, black for
// indices outside the table.
func aciToRGB(index int) rgb {
	if c, ok := aciColors[index]; ok {
		return c
	}
	return rgb{0, 0, 0}
}
