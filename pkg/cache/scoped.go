package cache

// ScopedKeyer prefixes every key of an inner Keyer, letting several
// deployments share one Redis database:
//
//	staging := NewScopedKeyer(nil, "staging:")
type ScopedKeyer struct {
	Inner  Keyer
	Prefix string
}

// NewScopedKeyer returns a ScopedKeyer. A nil inner means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{Inner: inner, Prefix: prefix}
}

func (k ScopedKeyer) DocumentKey(paramsHash string, opts DocumentKeyOpts) string {
	return k.Prefix + k.Inner.DocumentKey(paramsHash, opts)
}

func (k ScopedKeyer) ArtifactKey(documentHash string, opts ArtifactKeyOpts) string {
	return k.Prefix + k.Inner.ArtifactKey(documentHash, opts)
}
