package pipeline_test

import (
	"fmt"

	"github.com/bridgegad/bridgegad/pkg/pipeline"
)

func ExampleParseFormats() {
	formats, err := pipeline.ParseFormats(" SVG,dxf,svg")
	fmt.Println(formats, err)

	_, err = pipeline.ParseFormats("dxf,png")
	fmt.Println(err)
	// Output:
	// [svg dxf] <nil>
	// INVALID_FORMAT: invalid format: "png" (must be one of: dxf, svg, pdf, json)
}
