package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when one Redis instance is shared between deployments
// or API versions that must not see each other's entries.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1:")
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

// CanonicalKey generates a prefixed key for canonical SMILES results.
func (k *ScopedKeyer) CanonicalKey(input string, opts CanonicalKeyOpts) string {
	return k.prefix + k.inner.CanonicalKey(input, opts)
}

// RenderKey generates a prefixed key for rendered depictions.
func (k *ScopedKeyer) RenderKey(canonical string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(canonical, opts)
}
