// Package cache provides pluggable byte caching for layout results.
//
// The layout engine keeps a per-view, in-memory signature memo for the
// common case (see pkg/layout). This package covers the second tier: a
// persistent cache that lets a fresh process reuse solver outputs computed
// in an earlier session, keyed by layout signature.
//
// # Backends
//
//   - FileCache: on-disk cache for CLI usage
//   - MemoryCache: process-local cache for tests and the API server
//   - RedisCache: shared cache for multi-instance deployments
//   - NullCache: caching disabled
//
// All backends implement [Cache] and are safe for concurrent use.
package cache

import (
	"context"
	"time"
)

// TTLs for cached artifacts.
const (
	// TTLLayout is how long solver outputs stay valid. Layout results are
	// content-addressed by signature, so staleness is only a disk-usage
	// concern, not a correctness one.
	TTLLayout = 30 * 24 * time.Hour

	// TTLModel is how long API-uploaded models are retained in cache-backed
	// stores.
	TTLModel = 7 * 24 * time.Hour
)

// Cache is the minimal byte-cache interface used across the application.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// =============================================================================
// Keyer - Cache Key Construction
// =============================================================================

// LayoutKeyOpts carries the option values that distinguish layout cache
// entries beyond the graph signature itself.
type LayoutKeyOpts struct {
	Mode      string // "flat" or "hierarchical"
	Algorithm string // solver algorithm name
}

// Keyer builds namespaced cache keys. Implementations must be deterministic:
// equal inputs always produce equal keys.
type Keyer interface {
	// LayoutKey generates a key for a solver output, addressed by the
	// layout signature of the run that produced it.
	LayoutKey(signature string, opts LayoutKeyOpts) string

	// ModelKey generates a key for a stored model document.
	ModelKey(modelID string) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for a layout result.
func (k *DefaultKeyer) LayoutKey(signature string, opts LayoutKeyOpts) string {
	return hashKey("layout", signature, opts)
}

// ModelKey generates a key for a model document.
func (k *DefaultKeyer) ModelKey(modelID string) string {
	return "model:" + modelID
}
