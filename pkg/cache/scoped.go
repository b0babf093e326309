package cache

// ScopedKeyer wraps a Keyer with a prefix. The CLI scopes keys by program
// version so markers written by an older formatter are never trusted.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "kmonadfmt:v1.2.0:")
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

// FormatKey generates a prefixed format key.
func (k *ScopedKeyer) FormatKey(contentHash string, opts FormatKeyOpts) string {
	return k.prefix + k.inner.FormatKey(contentHash, opts)
}
