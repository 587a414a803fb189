// Package cache provides pluggable caching backends for canonicalization
// and rendering results.
//
// Three backends are provided:
//   - FileCache: file-based cache for CLI usage
//   - RedisCache: shared cache for the HTTP service
//   - NullCache: no-op cache for tests and --no-cache runs
//
// Keys are derived from the raw SMILES input and the operation options via
// a Keyer, so identical requests hit the same entry regardless of backend.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is the interface implemented by all cache backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry;
	// a negative TTL stores an entry that is already expired.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// CanonicalKeyOpts are the options that affect canonicalization output
// and therefore must be part of the cache key.
type CanonicalKeyOpts struct {
	Kekulize bool
	Isomeric bool
}

// RenderKeyOpts are the options that affect rendered output.
type RenderKeyOpts struct {
	Format string
	Layout string
}

// Keyer generates cache keys for the different operation kinds.
type Keyer interface {
	// CanonicalKey generates a key for canonical SMILES results.
	CanonicalKey(input string, opts CanonicalKeyOpts) string

	// RenderKey generates a key for rendered depictions.
	RenderKey(canonical string, opts RenderKeyOpts) string
}

// DefaultKeyer generates keys by hashing the input together with the
// options, namespaced per operation.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// CanonicalKey generates a key for canonical SMILES results.
func (k *DefaultKeyer) CanonicalKey(input string, opts CanonicalKeyOpts) string {
	return hashKey("canon", input, opts.Kekulize, opts.Isomeric)
}

// RenderKey generates a key for rendered depictions.
func (k *DefaultKeyer) RenderKey(canonical string, opts RenderKeyOpts) string {
	return hashKey(fmt.Sprintf("render:%s", opts.Format), canonical, opts.Layout)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
