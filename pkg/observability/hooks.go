// Package observability provides hooks for instrumenting cache behavior.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about cache operations on rendered output.
//
// The package uses a simple hooks pattern:
//   - Define a hook interface for cache events
//   - Provide a no-op default implementation
//   - Allow registration of a custom implementation at startup
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
package observability

import (
	"context"
	"sync"
)

// CacheHooks receives events from rendered-output caches.
type CacheHooks interface {
	// OnHit is called when a lookup returns cached data.
	OnHit(ctx context.Context, key string)
	// OnMiss is called when a lookup finds nothing.
	OnMiss(ctx context.Context, key string)
	// OnError is called when a cache operation fails. op is "get" or "set".
	OnError(ctx context.Context, op, key string, err error)
}

// NopCacheHooks is a CacheHooks implementation that does nothing.
type NopCacheHooks struct{}

func (NopCacheHooks) OnHit(context.Context, string)                  {}
func (NopCacheHooks) OnMiss(context.Context, string)                 {}
func (NopCacheHooks) OnError(context.Context, string, string, error) {}

var (
	mu         sync.RWMutex
	cacheHooks CacheHooks = NopCacheHooks{}
)

// SetCacheHooks registers the cache hooks. Call once at startup, before
// serving traffic; a nil value restores the no-op default.
func SetCacheHooks(h CacheHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NopCacheHooks{}
	}
	cacheHooks = h
}

// Cache returns the registered cache hooks, never nil.
func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}
