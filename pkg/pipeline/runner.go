package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgtree/pkg/cache"
	"github.com/matzehuels/orgtree/pkg/graph"
	"github.com/matzehuels/orgtree/pkg/hierarchy"
	"github.com/matzehuels/orgtree/pkg/observability"
	"github.com/matzehuels/orgtree/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so that caching behaves the same everywhere.
//
// The Runner holds no per-run state, so multiple goroutines can share one.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL bounds how long built trees and artifacts stay cached.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DefaultTTL,
	}
}

// Execute runs the complete load → build → render pipeline.
func (r *Runner) Execute(ctx context.Context, loader source.Loader, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	// Stage 1: Load
	loadStart := time.Now()
	doc, err := r.Load(ctx, loader)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result := &Result{Source: loader.Name()}
	result.Timing.Load = time.Since(loadStart)

	opts.Logger.Info("loaded organization",
		"source", loader.Name(),
		"positions", len(doc.Positions),
		"relationships", len(doc.Relationships),
		"duration", result.Timing.Load)

	// Stage 2: Build
	buildStart := time.Now()
	res, hash, hit := r.BuildWithCacheInfo(ctx, doc, opts)
	result.Result = res
	result.InputHash = hash
	result.Timing.Build = time.Since(buildStart)
	result.CacheInfo.BuildHit = hit

	opts.Logger.Info("built hierarchy",
		"nodes", res.Stats.Nodes,
		"roots", res.Stats.Roots,
		"cached", hit,
		"duration", result.Timing.Build)
	LogDiagnostics(opts.Logger, res)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, treeHash, renderHit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.TreeHash = treeHash
	result.Timing.Render = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Timing.Render)

	return result, nil
}

// Load fetches a document and reports the load through the pipeline hooks.
func (r *Runner) Load(ctx context.Context, loader source.Loader) (graph.Document, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, loader.Name())
	start := time.Now()

	doc, err := loader.Load(ctx)
	hooks.OnLoadComplete(ctx, loader.Name(), len(doc.Positions), time.Since(start), err)
	return doc, err
}

// BuildWithCacheInfo builds the hierarchy for doc, reusing a cached build of
// identical content. It returns the result, the document's content hash,
// and whether the result came from cache. Building cannot fail; cache
// errors only cost a rebuild.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, doc graph.Document, opts Options) (hierarchy.Result, string, bool) {
	r.applyLogger(&opts)

	docHash := cache.Hash(doc.Canonical())
	cacheKey := r.Keyer.TreeKey(docHash, opts.IncludeInactive)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if res, err := graph.UnmarshalResult(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "tree")
				return res, docHash, true
			}
			// A corrupt entry falls through to a rebuild that overwrites it.
		} else if err != nil {
			opts.Logger.Debug("cache read failed", "key", cacheKey, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "tree")
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(doc.Positions), len(doc.Relationships))
	start := time.Now()
	res := doc.Build(opts.IncludeInactive)
	hooks.OnBuildComplete(ctx, res.Stats.Nodes, len(res.Diagnostics), time.Since(start))

	if data, err := graph.MarshalResult(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.TTL); err != nil {
			opts.Logger.Debug("cache write failed", "key", cacheKey, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "tree", len(data))
		}
	}
	return res, docHash, false
}

// Build is a convenience wrapper that discards the hash and cache info.
func (r *Runner) Build(ctx context.Context, doc graph.Document, opts Options) hierarchy.Result {
	res, _, _ := r.BuildWithCacheInfo(ctx, doc, opts)
	return res
}

// RenderWithCacheInfo renders every requested format, serving SVG, PDF and
// PNG from cache when possible. It returns the artifacts, the tree's content
// hash, and whether every cacheable artifact was a cache hit.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res hierarchy.Result, opts Options) (map[string][]byte, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, "", false, err
	}

	treeData, err := graph.MarshalTree(res.Tree)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize tree for cache key: %w", err)
	}
	treeHash := cache.Hash(treeData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	allCached := true

	for _, format := range opts.Formats {
		if !cacheable(format) || opts.Refresh {
			missing = append(missing, format)
			if cacheable(format) {
				allCached = false
			}
			continue
		}
		key := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
		allCached = false
	}

	if len(missing) > 0 {
		rendered, err := Render(ctx, res, missing, opts.Detailed)
		if err != nil {
			return nil, "", false, err
		}
		for format, data := range rendered {
			artifacts[format] = data
			if !cacheable(format) {
				continue
			}
			key := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format))
			if err := r.Cache.Set(ctx, key, data, r.TTL); err == nil {
				observability.Cache().OnCacheSet(ctx, "artifact", len(data))
			}
		}
	}

	return artifacts, treeHash, allCached, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
