// Package cache provides byte caches for rendered asset output.
//
// Resolution itself is memoized inside the registries; this package covers
// the layer above it: sharing rendered tag blocks between processes (dev
// server instances behind a load balancer) or between CLI runs. Keys are
// structural - profile plus the canonical requested handle list - hashed
// with SHA-256.
//
// Implementations: [Memory] for a single process, [File] for CLI runs,
// [Redis] for multi-instance deployments, [Null] to disable caching.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache stores rendered output by key. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get retrieves the value for key. The bool reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the cache.
	Close() error
}

// TagKey builds the cache key for a rendered tag block: the deployment
// profile and the requested handles, in request order. Equal requests
// share an entry; request order is part of the identity because it can
// change the output order of independent subgraphs.
func TagKey(profile string, handles []string) string {
	return "tags:" + Hash([]byte(profile+"\x00"+strings.Join(handles, ",")))
}

// Hash returns the SHA-256 hash of data as a 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
