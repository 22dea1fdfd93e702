package cache

// ScopedKeyer wraps a Keyer with a prefix so several viewers can share one
// backend without colliding.
//
//	// Server-wide keys in a shared Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "actionviz:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(payloadHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(payloadHash, opts)
}

// ElementsKey generates a prefixed key for element caching.
func (k *ScopedKeyer) ElementsKey(payloadHash string) string {
	return k.prefix + k.inner.ElementsKey(payloadHash)
}
