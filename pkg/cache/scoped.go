package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Several deployments sharing one Redis instance, or builds of different
// versions sharing a cache directory, keep their entries apart this way.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "nodegraph:v1.2.0:")
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

// RenderKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) RenderKey(docHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(docHash, opts)
}
