package cache_test

import (
	"fmt"
	"strings"

	"github.com/bridgegad/bridgegad/pkg/cache"
)

func ExampleHash() {
	fmt.Println(cache.Hash([]byte("abc")))
	// Output: ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad
}

func ExampleNewScopedKeyer() {
	keyer := cache.NewScopedKeyer(nil, "staging:")
	key := keyer.ArtifactKey("0f3a", cache.ArtifactKeyOpts{Format: "dxf"})
	fmt.Println(strings.HasPrefix(key, "staging:artifact:"), len(key))
	// Output: true 84
}
