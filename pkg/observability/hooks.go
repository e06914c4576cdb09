// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about image I/O and table convergence.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetConvergenceHooks(&myConvergenceHooks{})
//	    observability.SetImageHooks(&myImageHooks{})
//	    // ... run application
//	}
//
// Callers emit events around the operations they drive:
//
//	done, next := shuffle.UnscrambleRandom(canonical, derived, rng)
//	observability.Convergence().OnStep(ctx, "random", len(shuffle.Mismatches(canonical, next)), done)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Convergence Hooks
// =============================================================================

// ConvergenceHooks receives events from code driving the convergence engine.
type ConvergenceHooks interface {
	// OnStep records one strategy call and the mismatches left after it.
	OnStep(ctx context.Context, strategy string, mismatches int, done bool)

	// OnPhase records an animation phase change.
	OnPhase(ctx context.Context, from, to string)
}

// =============================================================================
// Image Hooks
// =============================================================================

// ImageHooks receives events from image decoding and encoding.
type ImageHooks interface {
	// OnOpen records an image decode and slice.
	OnOpen(ctx context.Context, path string, blocks int, duration time.Duration, err error)

	// OnSave records an image encode.
	OnSave(ctx context.Context, path string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopConvergenceHooks is a no-op implementation of ConvergenceHooks.
type NoopConvergenceHooks struct{}

func (NoopConvergenceHooks) OnStep(context.Context, string, int, bool) {}
func (NoopConvergenceHooks) OnPhase(context.Context, string, string)  {}

// NoopImageHooks is a no-op implementation of ImageHooks.
type NoopImageHooks struct{}

func (NoopImageHooks) OnOpen(context.Context, string, int, time.Duration, error) {}
func (NoopImageHooks) OnSave(context.Context, string, time.Duration, error)      {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	convergenceHooks ConvergenceHooks = NoopConvergenceHooks{}
	imageHooks       ImageHooks       = NoopImageHooks{}
	hooksMu          sync.RWMutex
)

// SetConvergenceHooks registers custom convergence hooks.
// This should be called once at application startup.
func SetConvergenceHooks(h ConvergenceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		convergenceHooks = h
	}
}

// SetImageHooks registers custom image hooks.
// This should be called once at application startup.
func SetImageHooks(h ImageHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		imageHooks = h
	}
}

// Convergence returns the registered convergence hooks.
func Convergence() ConvergenceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return convergenceHooks
}

// Image returns the registered image hooks.
func Image() ImageHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return imageHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	convergenceHooks = NoopConvergenceHooks{}
	imageHooks = NoopImageHooks{}
}
