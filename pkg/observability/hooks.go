// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about bound computations, store operations, and relaxation
// solves.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetBoundsHooks(&myBoundsHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Bounds().OnComputeStart(ctx, graphID, numVerts)
//	// ... run the bound engine ...
//	observability.Bounds().OnComputeComplete(ctx, graphID, dLo, dHi, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Bounds Hooks
// =============================================================================

// BoundsHooks receives events from the bound-computation engine.
type BoundsHooks interface {
	// Top-level compute events
	OnComputeStart(ctx context.Context, graphID string, numVerts int)
	OnComputeComplete(ctx context.Context, graphID string, dLo, dHi int, duration time.Duration, err error)

	// Strategy events (one pair per strategy invocation at any depth)
	OnStrategyStart(ctx context.Context, strategy string, depth int)
	OnStrategyComplete(ctx context.Context, strategy string, depth int, tightened bool)

	// OnDepthExceeded records a recursion-budget overflow (recoverable).
	OnDepthExceeded(ctx context.Context, depth, maxDepth int)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from bound-store operations.
type StoreHooks interface {
	// OnHit records a store hit.
	OnHit(ctx context.Context, key string)

	// OnMiss records a store miss.
	OnMiss(ctx context.Context, key string)

	// OnSave records a store write that tightened the persisted window.
	OnSave(ctx context.Context, key string, dLo, dHi int)
}

// =============================================================================
// Solver Hooks
// =============================================================================

// SolverHooks receives events from the relaxation oracle.
type SolverHooks interface {
	// OnSolve records a completed relaxation solve.
	OnSolve(ctx context.Context, numVerts, rank int, duration time.Duration)

	// OnUnstable records a solve whose solution failed its sanity check.
	OnUnstable(ctx context.Context, numVerts int, norm float64)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopBoundsHooks is a no-op implementation of BoundsHooks.
type NoopBoundsHooks struct{}

func (NoopBoundsHooks) OnComputeStart(context.Context, string, int)                               {}
func (NoopBoundsHooks) OnComputeComplete(context.Context, string, int, int, time.Duration, error) {}
func (NoopBoundsHooks) OnStrategyStart(context.Context, string, int)                              {}
func (NoopBoundsHooks) OnStrategyComplete(context.Context, string, int, bool)                     {}
func (NoopBoundsHooks) OnDepthExceeded(context.Context, int, int)                                 {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnHit(context.Context, string)            {}
func (NoopStoreHooks) OnMiss(context.Context, string)           {}
func (NoopStoreHooks) OnSave(context.Context, string, int, int) {}

// NoopSolverHooks is a no-op implementation of SolverHooks.
type NoopSolverHooks struct{}

func (NoopSolverHooks) OnSolve(context.Context, int, int, time.Duration) {}
func (NoopSolverHooks) OnUnstable(context.Context, int, float64)         {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	boundsHooks BoundsHooks = NoopBoundsHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	solverHooks SolverHooks = NoopSolverHooks{}
	hooksMu     sync.RWMutex
)

// SetBoundsHooks registers custom bounds hooks.
// This should be called once at application startup before any computations.
func SetBoundsHooks(h BoundsHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		boundsHooks = h
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

// SetSolverHooks registers custom solver hooks.
// This should be called once at application startup before any solves.
func SetSolverHooks(h SolverHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		solverHooks = h
	}
}

// Bounds returns the registered bounds hooks.
func Bounds() BoundsHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return boundsHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Solver returns the registered solver hooks.
func Solver() SolverHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return solverHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	boundsHooks = NoopBoundsHooks{}
	storeHooks = NoopStoreHooks{}
	solverHooks = NoopSolverHooks{}
}
