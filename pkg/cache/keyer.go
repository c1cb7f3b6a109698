package cache

import "fmt"

// DocumentKeyOpts holds every layout option that changes a document.
// Options that only label a run (document ID, wall-clock time) are left out;
// the title block date is carried as Date.
type DocumentKeyOpts struct {
	Scale         string  `json:"scale"`
	Project       string  `json:"project"`
	Title         string  `json:"title"`
	PreparedBy    string  `json:"prepared_by"`
	Number        string  `json:"number"`
	Date          string  `json:"date"`
	NoDimensions  bool    `json:"no_dimensions"`
	NoAnnotations bool    `json:"no_annotations"`
	NoTitleBlock  bool    `json:"no_title_block"`
	NoPlan        bool    `json:"no_plan"`
	Grid          bool    `json:"grid"`
	GridStep      float64 `json:"grid_step"`
}

// ArtifactKeyOpts holds the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Schedule bool   `json:"schedule"`
}

// Keyer builds cache keys.
type Keyer interface {
	// DocumentKey keys a laid-out document by parameter hash and options.
	DocumentKey(paramsHash string, opts DocumentKeyOpts) string

	// ArtifactKey keys rendered bytes by document hash and options.
	ArtifactKey(documentHash string, opts ArtifactKeyOpts) string
}

// layoutRevision is part of every key. Bump it when a change to the layout
// or a renderer alters output for the same inputs, so stale entries in a
// shared Redis stop matching.
const layoutRevision = 2

// DefaultKeyer keys entries as "<kind>:r<revision>:<sha256>", hashing the
// input hash together with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) DocumentKey(paramsHash string, opts DocumentKeyOpts) string {
	return digestKey("document", paramsHash, opts)
}

func (DefaultKeyer) ArtifactKey(documentHash string, opts ArtifactKeyOpts) string {
	return digestKey("artifact", documentHash, opts)
}

// digestKey hashes input and opts. Both option structs are plain JSON
// values, so encoding cannot fail.
func digestKey(kind, input string, opts any) string {
	sum, _ := HashJSON(struct {
		Input string `json:"input"`
		Opts  any    `json:"opts"`
	}{input, opts})
	return fmt.Sprintf("%s:r%d:%s", kind, layoutRevision, sum)
}

var _ Keyer = DefaultKeyer{}
