package sink_test

import (
	"fmt"

	"github.com/bridgegad/bridgegad/pkg/render/sink"
)

func ExampleValidateDXF() {
	fmt.Println(sink.ValidateDXF(nil))
	fmt.Println(sink.ValidateDXF([]byte("0\nSECTION")))
	// Output:
	// dxf is empty
	// dxf too small (9 bytes)
}
