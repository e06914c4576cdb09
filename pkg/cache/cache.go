// Package cache stores rendered artifacts between runs.
//
// Rendering a cycle diagram through Graphviz is the slowest step of the CLI,
// and its output depends only on the DOT source. The CLI keys rendered SVG
// documents by a hash of that source and keeps them in a FileCache under
// the user cache directory. NullCache disables caching.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found and not expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Removing a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key builds a cache key "kind:sha256(parts)".
func Key(kind string, parts ...string) string {
	return kind + ":" + Hash([]byte(strings.Join(parts, "\x00")))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
