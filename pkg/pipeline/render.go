package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/rajeshg/openchem/pkg/mol"
	"github.com/rajeshg/openchem/pkg/molfmt"
	"github.com/rajeshg/openchem/pkg/observability"
	"github.com/rajeshg/openchem/pkg/render"
)

// RenderWithCacheInfo generates depictions with caching and returns cache
// hit info. The canonical string keys the cache: two inputs describing the
// same molecule share rendered artifacts.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, m *mol.Molecule, canonical string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.RenderKey(canonical, opts.RenderKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "render")
			artifacts[format] = data
		} else {
			observability.Cache().OnCacheMiss(ctx, "render")
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := r.renderFormat(ctx, m, format, opts)
		if err != nil {
			return nil, false, err
		}
		rendered[format] = data
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.RenderKey(canonical, opts.RenderKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, TTLRender)
		observability.Cache().OnCacheSet(ctx, "render", len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, m *mol.Molecule, canonical string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, m, canonical, opts)
	return artifacts, err
}

func (r *Runner) renderFormat(ctx context.Context, m *mol.Molecule, format string, opts Options) (data []byte, err error) {
	observability.Pipeline().OnRenderStart(ctx, format)
	start := time.Now()
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	}()

	switch format {
	case FormatDOT:
		return []byte(render.ToDOT(m, r.renderOptions(opts))), nil
	case FormatSVG:
		return render.SVG(ctx, render.ToDOT(m, r.renderOptions(opts)))
	case FormatPNG:
		return render.PNG(ctx, render.ToDOT(m, r.renderOptions(opts)))
	case FormatJSON:
		var buf bytes.Buffer
		if err := molfmt.WriteJSON(m, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("invalid format: %q", format)
}

func (r *Runner) renderOptions(opts Options) render.Options {
	return render.Options{
		ShowIDs: opts.ShowIDs,
		Layout:  opts.Layout,
	}
}
