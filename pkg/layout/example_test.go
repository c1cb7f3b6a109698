package layout_test

import (
	"fmt"
	"time"

	"github.com/bridgegad/bridgegad/pkg/layout"
	"github.com/bridgegad/bridgegad/pkg/params"
)

func ExampleGenerate() {
	doc, err := layout.Generate(params.Defaults(), layout.Options{
		Project: "Example Crossing",
		Time:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		panic(err)
	}
	for _, l := range doc.Layers {
		fmt.Println(l.Name, doc.Count(l.Name))
	}
	// Output:
	// DECK 3
	// APPROACH 2
	// PIER 2
	// ABUTMENT 2
	// FOUNDATION 4
	// PLAN 5
	// CENTERLINES 3
	// DIMENSIONS 7
	// ANNOTATIONS 11
	// TITLE 8
}
