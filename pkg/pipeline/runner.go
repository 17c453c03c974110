package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treeviz/pkg/cache"
	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/observability"
	"github.com/matzehuels/treeviz/pkg/render/sink"
	"github.com/matzehuels/treeviz/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a null cache is used (caching disabled).
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
		TTL:    cache.TTLDraw,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Parse
	parseStart := time.Now()
	t, err := Parse(opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Tree = t
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = t.Len()

	r.Logger.Info("parsed tree",
		"nodes", t.Len(),
		"depth", t.MaxDepth(),
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	cmds, hit, err := r.ComputeLayoutWithCacheInfo(ctx, t, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Commands = cmds
	result.TreeHash, _ = TreeHash(t)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.CommandCount = len(cmds)
	result.CacheInfo.LayoutHit = hit

	_, resolved, err := ResolveSettings(opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Settings = resolved
	opts.Settings = resolved

	r.Logger.Info("computed layout",
		"layout", opts.Layout,
		"commands", len(cmds),
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, cmds, t, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComputeLayoutWithCacheInfo produces the draw list for t, consulting the
// cache first, and reports whether it was a cache hit. The key covers the
// tree content, the layout, the resolved settings and the palette options.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, t *tree.Tree, opts Options) ([]draw.Command, bool, error) {
	r.applyLogger(&opts)
	opts.SetLayoutDefaults()
	_, resolved, err := ResolveSettings(opts)
	if err != nil {
		return nil, false, err
	}

	treeHash, err := TreeHash(t)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.DrawKey(treeHash, opts.DrawKeyOpts(resolved))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if doc, err := decodeDrawList(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "draw")
				return doc.Commands, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "key", cacheKey, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "draw")
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Layout, t.Len())
	start := time.Now()
	cmds, _, err := GenerateLayout(t, opts)
	hooks.OnLayoutComplete(ctx, opts.Layout, len(cmds), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := sink.RenderJSON(cmds, sink.WithJSONLayout(opts.Layout), sink.WithJSONSettings(resolved)); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.TTL); err != nil {
			opts.Logger.Warn("cache write failed", "key", cacheKey, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "draw", len(data))
		}
	}

	return cmds, false, nil
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, t *tree.Tree, opts Options) ([]draw.Command, error) {
	cmds, _, err := r.ComputeLayoutWithCacheInfo(ctx, t, opts)
	return cmds, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, cmds []draw.Command, t *tree.Tree, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	drawHash := draw.Fingerprint(cmds)
	var treeHash string
	if t != nil {
		treeHash, _ = TreeHash(t)
	}

	// Try to get all formats from cache
	allCached := !opts.Refresh
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		if !allCached {
			break
		}
		cacheKey := r.Keyer.ArtifactKey(drawHash, opts.ArtifactKeyOpts(format, treeHash))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, cmds, t, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(drawHash, opts.ArtifactKeyOpts(format, treeHash))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, cmds []draw.Command, t *tree.Tree, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, cmds, t, opts)
	return artifacts, err
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

func decodeDrawList(data []byte) (*sink.Document, error) {
	doc, err := sink.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse draw list: %w", err)
	}
	return doc, nil
}
