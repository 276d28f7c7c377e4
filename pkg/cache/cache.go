// Package cache provides byte caches for expensive render artifacts.
//
// The main consumer is PDF page rasterization: rendering a page at high DPI
// is slow, so rasters are cached keyed by the source file's fingerprint,
// page number and DPI. Backends exist for the local filesystem, Redis and a
// no-op null cache.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with optional expiry.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// RasterKeyOpts carries the parameters that make two rasters of the same
// document distinct.
type RasterKeyOpts struct {
	Page int
	DPI  float64
}

// Keyer generates cache keys for the artifact types the engine caches.
type Keyer interface {
	// RasterKey generates a key for a rendered PDF page. The fingerprint
	// identifies the source file contents, so edits invalidate old entries.
	RasterKey(fingerprint string, opts RasterKeyOpts) string

	// ProbeKey generates a key for cached image dimensions.
	ProbeKey(fingerprint string) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// RasterKey generates a key for a rendered PDF page.
func (k *DefaultKeyer) RasterKey(fingerprint string, opts RasterKeyOpts) string {
	return hashKey("raster", fingerprint, opts.Page, opts.DPI)
}

// ProbeKey generates a key for cached image dimensions.
func (k *DefaultKeyer) ProbeKey(fingerprint string) string {
	return hashKey("probe", fingerprint)
}
