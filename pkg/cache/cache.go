// Package cache stores rendered artifacts so unchanged graphs are not laid
// out twice.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for the viewer server
//   - [NullCache]: disables caching
//
// Keys come from a [Keyer]. Artifact keys hash the payload bytes together
// with everything that changes the output (engine, layout, format, theme),
// so a key never maps to two different artifacts.
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(cache.Hash(payload), cache.ArtifactKeyOpts{
//	    Engine: "graphviz", Layout: "dagre", Format: "svg",
//	})
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data
//	}
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey returns the key of a rendered artifact.
	ArtifactKey(payloadHash string, opts ArtifactKeyOpts) string

	// ElementsKey returns the key of a normalized element collection.
	ElementsKey(payloadHash string) string
}

// ArtifactKeyOpts are the inputs besides the payload that shape an artifact.
type ArtifactKeyOpts struct {
	Engine string `json:"engine"`
	Layout string `json:"layout"`
	Format string `json:"format"`
	Theme  string `json:"theme,omitempty"` // hash of the theme file, empty for the default table
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(payloadHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", payloadHash, opts)
}

// ElementsKey implements Keyer.
func (DefaultKeyer) ElementsKey(payloadHash string) string {
	return "elements:" + payloadHash
}

// Default expiry of cached entries.
const (
	ArtifactTTL = 7 * 24 * time.Hour
	ElementsTTL = 24 * time.Hour
)
