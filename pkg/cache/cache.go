// Package cache stores rendered documents so repeated conversions of the
// same input with the same settings skip parsing and layout.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: shared entries in Redis, for the HTTP server
//
// # Keys
//
// Keys are built by a [Keyer] from the SHA-256 of the input and a hash of
// every setting that changes the output. [ScopedKeyer] prefixes keys so
// several deployments can share one Redis database.
package cache

import (
	"context"
	"time"
)

// TTLDocument is how long a rendered document stays cached.
const TTLDocument = 7 * 24 * time.Hour

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

// DocumentKeyOpts lists every setting that changes a rendered document.
type DocumentKeyOpts struct {
	Kind   string `json:"kind"`   // "dependency" or "constituency"
	Format string `json:"format"` // "graphml" or "svg"
	Config any    `json:"config"` // layout settings, hashed as JSON
	Skip   bool   `json:"skip"`   // malformed sentences were skipped
}

// Keyer builds cache keys.
type Keyer interface {
	DocumentKey(inputHash string, opts DocumentKeyOpts) string
}

// DefaultKeyer builds unprefixed keys of the form "doc:<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DocumentKey implements [Keyer].
func (DefaultKeyer) DocumentKey(inputHash string, opts DocumentKeyOpts) string {
	return hashKey("doc:"+opts.Kind, inputHash, opts)
}
