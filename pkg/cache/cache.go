// Package cache stores generated diagrams and rendered artifacts between runs.
//
// A [Cache] is a byte store with per-entry expiry. [FileCache] keeps entries
// under a local directory for the CLI, [RedisCache] shares them between
// server instances and [NullCache] disables caching. Keys come from a
// [Keyer] so that callers never build key strings by hand; [ScopedKeyer]
// namespaces them.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store keyed by string.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// A missing or expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes the entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the underlying resources.
	Close() error
}

// Entry lifetimes.
const (
	// TTLDiagram applies to generated diagram documents. Generation is
	// deterministic, so entries only age out to bound disk use.
	TTLDiagram = 7 * 24 * time.Hour
	// TTLArtifact applies to rendered SVG and PNG output.
	TTLArtifact = 24 * time.Hour
)
