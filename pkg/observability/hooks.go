// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout passes, gestures, state storage and API calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The layout engine itself never calls hooks; package grid, package store
// and the HTTP API do.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Callers emit events around the work they do:
//
//	observability.Layout().OnLayoutStart(ctx, gridID, width)
//	res, err := layout.Build(specs, width, prior)
//	observability.Layout().OnLayoutComplete(ctx, gridID, len(res.Leaves), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from layout passes.
type LayoutHooks interface {
	OnLayoutStart(ctx context.Context, gridID string, containerWidth float64)
	OnLayoutComplete(ctx context.Context, gridID string, leafCount int, duration time.Duration, err error)

	// OnLayoutSkipped records a container resize dropped during a gesture.
	OnLayoutSkipped(ctx context.Context, gridID string, containerWidth float64)

	// OnWarning records degraded input found by a pass.
	OnWarning(ctx context.Context, gridID, code, key string)
}

// =============================================================================
// Gesture Hooks
// =============================================================================

// GestureHooks receives events from resize and reorder sessions.
type GestureHooks interface {
	OnGestureStart(ctx context.Context, gridID, kind string)
	OnGestureCommit(ctx context.Context, gridID, kind string, duration time.Duration)
	OnGestureCancel(ctx context.Context, gridID, kind string)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from state storage operations.
type StoreHooks interface {
	// OnStoreHit records a snapshot found in the store.
	OnStoreHit(ctx context.Context, backend string)

	// OnStoreMiss records a missing or expired snapshot.
	OnStoreMiss(ctx context.Context, backend string)

	// OnStoreSet records a snapshot write.
	OnStoreSet(ctx context.Context, backend string, size int)

	// OnStoreError records a backend failure.
	OnStoreError(ctx context.Context, backend, op string, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response to a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, string, float64)                    {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, string, int, time.Duration, error) {}
func (NoopLayoutHooks) OnLayoutSkipped(context.Context, string, float64)                  {}
func (NoopLayoutHooks) OnWarning(context.Context, string, string, string)                 {}

// NoopGestureHooks is a no-op implementation of GestureHooks.
type NoopGestureHooks struct{}

func (NoopGestureHooks) OnGestureStart(context.Context, string, string)                 {}
func (NoopGestureHooks) OnGestureCommit(context.Context, string, string, time.Duration) {}
func (NoopGestureHooks) OnGestureCancel(context.Context, string, string)                {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnStoreHit(context.Context, string)                   {}
func (NoopStoreHooks) OnStoreMiss(context.Context, string)                  {}
func (NoopStoreHooks) OnStoreSet(context.Context, string, int)              {}
func (NoopStoreHooks) OnStoreError(context.Context, string, string, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                         {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks  LayoutHooks  = NoopLayoutHooks{}
	gestureHooks GestureHooks = NoopGestureHooks{}
	storeHooks   StoreHooks   = NoopStoreHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout passes.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetGestureHooks registers custom gesture hooks.
func SetGestureHooks(h GestureHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		gestureHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Gesture returns the registered gesture hooks.
func Gesture() GestureHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return gestureHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	gestureHooks = NoopGestureHooks{}
	storeHooks = NoopStoreHooks{}
	httpHooks = NoopHTTPHooks{}
}
