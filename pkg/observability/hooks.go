// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional: libraries emit events through the registered
// hooks, and main decides what receives them. The defaults are no-ops.
//
// # Usage
//
// Install hooks for the duration of a command:
//
//	restore := observability.Install(observability.All(observability.NewLogHooks(logger)))
//	defer restore()
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnLoadStart(ctx, loader.Name())
//	doc, err := loader.Load(ctx)
//	observability.Pipeline().OnLoadComplete(ctx, loader.Name(), len(doc.Positions), time.Since(start), err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the hierarchy pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, positions int, duration time.Duration, err error)

	// Build events
	OnBuildStart(ctx context.Context, positions, relationships int)
	OnBuildComplete(ctx context.Context, nodes, diagnostics int, duration time.Duration)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// Registry
// =============================================================================

// Hooks bundles one receiver per event family. Nil fields fall back to
// [Noop].
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

// All uses h for every event family.
func All(h interface {
	PipelineHooks
	CacheHooks
	HTTPHooks
}) Hooks {
	return Hooks{Pipeline: h, Cache: h, HTTP: h}
}

func (h Hooks) withDefaults() *Hooks {
	if h.Pipeline == nil {
		h.Pipeline = Noop{}
	}
	if h.Cache == nil {
		h.Cache = Noop{}
	}
	if h.HTTP == nil {
		h.HTTP = Noop{}
	}
	return &h
}

var installed atomic.Pointer[Hooks]

func current() *Hooks {
	if h := installed.Load(); h != nil {
		return h
	}
	return &noopHooks
}

var noopHooks = Hooks{Pipeline: Noop{}, Cache: Noop{}, HTTP: Noop{}}

// Install replaces the process-wide hooks and returns a func restoring the
// previous ones.
func Install(h Hooks) (restore func()) {
	prev := installed.Swap(h.withDefaults())
	return func() { installed.Store(prev) }
}

// Reset restores the no-op hooks.
func Reset() { installed.Store(nil) }

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return current().Pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current().Cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return current().HTTP }

// =============================================================================
// Noop
// =============================================================================

// Noop discards every event.
type Noop struct{}

func (Noop) OnLoadStart(context.Context, string)                               {}
func (Noop) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (Noop) OnBuildStart(context.Context, int, int)                            {}
func (Noop) OnBuildComplete(context.Context, int, int, time.Duration)          {}
func (Noop) OnRenderStart(context.Context, []string)                           {}
func (Noop) OnRenderComplete(context.Context, []string, time.Duration, error)  {}

func (Noop) OnCacheHit(context.Context, string)      {}
func (Noop) OnCacheMiss(context.Context, string)     {}
func (Noop) OnCacheSet(context.Context, string, int) {}

func (Noop) OnRequest(context.Context, string, string, string)                      {}
func (Noop) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (Noop) OnError(context.Context, string, string, string, error)                 {}
