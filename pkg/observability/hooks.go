// Package observability provides instrumentation hooks for layout runs and
// cache operations.
//
// The core libraries stay free of metrics and tracing dependencies: they
// emit events through small hook interfaces with no-op defaults, and the
// application registers concrete implementations (Prometheus,
// OpenTelemetry, plain logging, ...) once at startup. Registration happens
// in main, never in libraries, so there are no import cycles.
//
// # Usage
//
//	func main() {
//	    observability.SetLayoutHooks(&promLayoutHooks{})
//	    // ... run application
//	}
//
// Emitting side:
//
//	observability.Layout().OnSolveStart(ctx, viewID, mode, algorithm)
//	// ... invoke solver ...
//	observability.Layout().OnSolveComplete(ctx, viewID, mode, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// LayoutHooks receives events from the auto-layout pipeline.
type LayoutHooks interface {
	// OnExtract fires after graph extraction with the graph size.
	OnExtract(ctx context.Context, viewID string, nodeCount, edgeCount int)

	// OnSolveStart and OnSolveComplete bracket one solver invocation.
	OnSolveStart(ctx context.Context, viewID, mode, algorithm string)
	OnSolveComplete(ctx context.Context, viewID, mode string, duration time.Duration, err error)

	// OnCommit fires after the commit stage. skipped is true when the
	// diff found nothing to change.
	OnCommit(ctx context.Context, viewID string, changed int, skipped bool)
}

// CacheHooks receives cache hit/miss/write events.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopLayoutHooks ignores all layout events.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnExtract(context.Context, string, int, int)                           {}
func (NoopLayoutHooks) OnSolveStart(context.Context, string, string, string)                  {}
func (NoopLayoutHooks) OnSolveComplete(context.Context, string, string, time.Duration, error) {}
func (NoopLayoutHooks) OnCommit(context.Context, string, int, bool)                           {}

// NoopCacheHooks ignores all cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// registry is the process-wide hook registration.
var registry = struct {
	sync.RWMutex
	layout LayoutHooks
	cache  CacheHooks
}{
	layout: NoopLayoutHooks{},
	cache:  NoopCacheHooks{},
}

// SetLayoutHooks registers layout hooks. Call once at startup, before any
// layout runs; a nil argument is ignored.
func SetLayoutHooks(h LayoutHooks) {
	if h == nil {
		return
	}
	registry.Lock()
	registry.layout = h
	registry.Unlock()
}

// SetCacheHooks registers cache hooks. Call once at startup, before any
// cache operations; a nil argument is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	registry.Lock()
	registry.cache = h
	registry.Unlock()
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	registry.RLock()
	defer registry.RUnlock()
	return registry.layout
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	registry.RLock()
	defer registry.RUnlock()
	return registry.cache
}

// Reset restores the no-op defaults. Primarily for tests.
func Reset() {
	registry.Lock()
	registry.layout = NoopLayoutHooks{}
	registry.cache = NoopCacheHooks{}
	registry.Unlock()
}
