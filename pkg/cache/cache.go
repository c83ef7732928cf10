// Package cache stores rendered artifacts keyed by document content.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory, for CLI usage
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [None]: never stores anything
//
// All backends implement [Cache] and are safe for concurrent use.
//
// # Keys
//
// A [Keyer] derives cache keys from a document hash and the options that
// affect the output, so changing any option produces a new key:
//
//	k := cache.NewDefaultKeyer()
//	key := k.RenderKey(io.Hash(doc), cache.RenderKeyOpts{Format: "svg", Compact: true})
package cache

import (
	"context"
	"time"
)

// TTLRender is the default lifetime of a rendered artifact. Keys are derived
// from document content, so entries never go stale; the TTL only bounds size.
const TTLRender = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is reported
	// as a miss (false) without an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// RenderKey generates a key for a rendered artifact of a document.
	RenderKey(docHash string, opts RenderKeyOpts) string
}

// RenderKeyOpts holds every option that changes a rendered artifact.
type RenderKeyOpts struct {
	Group    string
	Compact  bool
	Format   string
	Detailed bool
	Clusters bool
	Scale    float64
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RenderKey returns "render:" followed by a hash of the document hash and opts.
func (DefaultKeyer) RenderKey(docHash string, opts RenderKeyOpts) string {
	return keyHash("render", append([]string{"doc=" + docHash}, opts.fields()...)...)
}
