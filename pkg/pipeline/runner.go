package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rajeshg/openchem/pkg/cache"
	"github.com/rajeshg/openchem/pkg/canon"
	"github.com/rajeshg/openchem/pkg/mol"
	"github.com/rajeshg/openchem/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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
	}
}

// Execute runs the complete parse → canonicalize → render pipeline with caching.
// Rendering only runs when opts.Formats is non-empty.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		InputHash: cache.Hash([]byte(opts.Input)),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	m, err := Parse(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Molecule = m
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.AtomCount = m.NumAtoms()
	result.Stats.BondCount = m.NumBonds()

	r.Logger.Info("parsed molecule",
		"atoms", m.NumAtoms(),
		"bonds", m.NumBonds(),
		"duration", result.Stats.ParseTime)

	// Stage 2: Canonicalize
	canonStart := time.Now()
	canonical, canonHit, err := r.canonicalize(ctx, m, opts)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	result.Canonical = canonical
	result.Stats.CanonTime = time.Since(canonStart)
	result.CacheInfo.CanonHit = canonHit

	r.Logger.Info("canonicalized",
		"output", canonical,
		"cached", canonHit,
		"duration", result.Stats.CanonTime)

	// Stage 3: Render (optional)
	if len(opts.Formats) > 0 {
		renderStart := time.Now()
		artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, m, canonical, opts)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		result.Artifacts = artifacts
		result.Stats.RenderTime = time.Since(renderStart)
		result.CacheInfo.RenderHit = renderHit

		r.Logger.Info("rendered outputs",
			"formats", opts.Formats,
			"duration", result.Stats.RenderTime)
	}

	return result, nil
}

// CanonicalizeWithCacheInfo parses and canonicalizes with caching and
// returns cache hit info.
func (r *Runner) CanonicalizeWithCacheInfo(ctx context.Context, opts Options) (string, bool, error) {
	if err := opts.ValidateForParse(); err != nil {
		return "", false, err
	}
	r.applyLogger(&opts)

	// Try cache before parsing: the key depends only on input and options
	cacheKey := r.Keyer.CanonicalKey(opts.Input, opts.CanonicalKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "canon")
			return string(data), true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "canon")
	}

	m, err := Parse(ctx, opts)
	if err != nil {
		return "", false, err
	}

	canonical, err := r.runCanonical(ctx, m)
	if err != nil {
		return "", false, err
	}

	_ = r.Cache.Set(ctx, cacheKey, []byte(canonical), TTLCanonical)
	observability.Cache().OnCacheSet(ctx, "canon", len(canonical))

	return canonical, false, nil
}

// Canonicalize is a convenience wrapper that discards the cache hit info.
func (r *Runner) Canonicalize(ctx context.Context, opts Options) (string, error) {
	canonical, _, err := r.CanonicalizeWithCacheInfo(ctx, opts)
	return canonical, err
}

// Parse resolves a SMILES input into a molecular graph.
func (r *Runner) Parse(ctx context.Context, opts Options) (*mol.Molecule, error) {
	r.applyLogger(&opts)
	return Parse(ctx, opts)
}

// canonicalize produces the canonical string for an already-parsed
// molecule, consulting the cache keyed on the raw input.
func (r *Runner) canonicalize(ctx context.Context, m *mol.Molecule, opts Options) (string, bool, error) {
	cacheKey := r.Keyer.CanonicalKey(opts.Input, opts.CanonicalKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "canon")
			return string(data), true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "canon")
	}

	canonical, err := r.runCanonical(ctx, m)
	if err != nil {
		return "", false, err
	}

	_ = r.Cache.Set(ctx, cacheKey, []byte(canonical), TTLCanonical)
	observability.Cache().OnCacheSet(ctx, "canon", len(canonical))

	return canonical, false, nil
}

// runCanonical invokes the encoder, converting its structural panics
// into errors at the pipeline boundary.
func (r *Runner) runCanonical(ctx context.Context, m *mol.Molecule) (canonical string, err error) {
	observability.Pipeline().OnCanonicalStart(ctx, m.NumAtoms())
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("canonical encoding: %v", rec)
		}
		observability.Pipeline().OnCanonicalComplete(ctx, canonical, time.Since(start), err)
	}()

	canonical = canon.Canonical(m)
	return canonical, nil
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
