// Package pipeline provides the core canonicalization pipeline for openchem.
//
// This package implements the complete parse → canonicalize → render
// pipeline that can be used by CLI and API components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Read a SMILES string into a molecular graph and perceive
//     aromaticity and stereo validity
//  2. Canonicalize: Produce the canonical SMILES string
//  3. Render: Generate a depiction in various formats (SVG, PNG, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "OCC",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Canonical)
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Parse only
//	m, err := runner.Parse(ctx, opts)
//
//	// Canonicalize with caching
//	canonical, err := runner.Canonicalize(ctx, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rajeshg/openchem/pkg/cache"
	"github.com/rajeshg/openchem/pkg/mol"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// DefaultLayout is the default Graphviz layout engine for depictions.
const DefaultLayout = "neato"

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidLayouts is the set of supported Graphviz layout engines.
var ValidLayouts = map[string]bool{
	"neato": true,
	"dot":   true,
	"fdp":   true,
	"circo": true,
}

// Cache TTLs per artifact kind. Canonical results are pure functions of
// their input so they never go stale; depictions keep a shorter TTL so
// styling changes propagate.
const (
	TTLCanonical = 0
	TTLRender    = 30 * 24 * time.Hour
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the canonicalization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Input    string `json:"input"`
	Kekulize bool   `json:"kekulize,omitempty"`  // Emit kekulized output (localized double bonds)
	Plain    bool   `json:"plain,omitempty"`     // Strip stereo descriptors before canonicalization
	Refresh  bool   `json:"refresh,omitempty"`   // Bypass the cache and recompute

	// Render options
	Formats []string `json:"formats,omitempty"`
	Layout  string   `json:"layout,omitempty"`
	ShowIDs bool     `json:"show_ids,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Molecule is the parsed molecular graph.
	Molecule *mol.Molecule

	// Canonical is the canonical SMILES string.
	Canonical string

	// InputHash is the content hash of the raw input.
	InputHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	AtomCount  int
	BondCount  int
	ParseTime  time.Duration
	CanonTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	CanonHit  bool // Whether the canonical string came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateLayout checks that a Graphviz layout engine is valid.
func ValidateLayout(layout string) error {
	if !ValidLayouts[layout] {
		return fmt.Errorf("invalid layout: %q (must be one of: neato, dot, fdp, circo)", layout)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if o.Input == "" {
		return fmt.Errorf("input is required")
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.Layout == "" {
		o.Layout = DefaultLayout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateLayout(o.Layout)
}

// Isomeric reports whether stereo descriptors are kept in the output.
func (o *Options) Isomeric() bool {
	return !o.Plain
}

// CanonicalKeyOpts returns cache key options for canonicalization.
func (o *Options) CanonicalKeyOpts() cache.CanonicalKeyOpts {
	return cache.CanonicalKeyOpts{
		Kekulize: o.Kekulize,
		Isomeric: o.Isomeric(),
	}
}

// RenderKeyOpts returns cache key options for one rendered format.
func (o *Options) RenderKeyOpts(format string) cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Format: format,
		Layout: o.Layout,
	}
}
