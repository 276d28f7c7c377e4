package cache

// ScopedKeyer wraps a Keyer with a prefix, giving separate namespaces to
// reports that share a cache backend. With a shared Redis instance this
// keeps one report's rasters from being evicted or deleted by another.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "report:quarterly:")
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

// RasterKey generates a prefixed key for a rendered PDF page.
func (k *ScopedKeyer) RasterKey(fingerprint string, opts RasterKeyOpts) string {
	return k.prefix + k.inner.RasterKey(fingerprint, opts)
}

// ProbeKey generates a prefixed key for cached image dimensions.
func (k *ScopedKeyer) ProbeKey(fingerprint string) string {
	return k.prefix + k.inner.ProbeKey(fingerprint)
}
