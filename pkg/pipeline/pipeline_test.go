package pipeline

import (
	"context"
	"testing"

	"github.com/rajeshg/openchem/pkg/cache"
	"github.com/rajeshg/openchem/pkg/mol"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"dot", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateLayout(t *testing.T) {
	tests := []struct {
		layout  string
		wantErr bool
	}{
		{"neato", false},
		{"dot", false},
		{"fdp", false},
		{"circo", false},
		{"invalid", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateLayout(tt.layout)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateLayout(%q) error = %v, wantErr %v", tt.layout, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Input: "CCO"}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("Valid options should pass: %v", err)
	}

	// Check defaults were set
	if opts.Layout != DefaultLayout {
		t.Errorf("Layout should be %q, got %q", DefaultLayout, opts.Layout)
	}
	if opts.Logger == nil {
		t.Error("Logger default should be set")
	}
	if !opts.Isomeric() {
		t.Error("Isomeric should default to true")
	}
}

func TestOptionsMissingInput(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForParse(); err == nil {
		t.Error("Missing input should fail validation")
	}
}

func TestRunnerCanonicalize(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	got, err := r.Canonicalize(ctx, Options{Input: "OCC"})
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if got != "CCO" {
		t.Errorf("Canonicalize(OCC) = %q, want %q", got, "CCO")
	}
}

func TestRunnerCanonicalizeCaching(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	opts := Options{Input: "c1ccccc1"}

	got, hit, err := r.CanonicalizeWithCacheInfo(ctx, opts)
	if err != nil {
		t.Fatalf("CanonicalizeWithCacheInfo: %v", err)
	}
	if hit {
		t.Error("first run should miss the cache")
	}
	if got != "c1ccccc1" {
		t.Errorf("canonical = %q, want %q", got, "c1ccccc1")
	}

	got2, hit2, err := r.CanonicalizeWithCacheInfo(ctx, opts)
	if err != nil {
		t.Fatalf("CanonicalizeWithCacheInfo: %v", err)
	}
	if !hit2 {
		t.Error("second run should hit the cache")
	}
	if got2 != got {
		t.Errorf("cached canonical = %q, want %q", got2, got)
	}

	// Refresh bypasses the cache
	_, hit3, err := r.CanonicalizeWithCacheInfo(ctx, Options{Input: "c1ccccc1", Refresh: true})
	if err != nil {
		t.Fatalf("CanonicalizeWithCacheInfo: %v", err)
	}
	if hit3 {
		t.Error("refresh run should bypass the cache")
	}
}

func TestRunnerCanonicalizeOptionsKeySeparation(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	// Same input, different options must not share entries
	iso, err := r.Canonicalize(ctx, Options{Input: "F/C=C/F"})
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	plain, err := r.Canonicalize(ctx, Options{Input: "F/C=C/F", Plain: true})
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if iso == plain {
		t.Errorf("isomeric and plain outputs should differ: %q", iso)
	}
	if plain != "C(=CF)F" {
		t.Errorf("plain canonical = %q, want %q", plain, "C(=CF)F")
	}
}

func TestRunnerParseInvalid(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	if _, err := r.Parse(ctx, Options{Input: "C(C"}); err == nil {
		t.Error("unbalanced branch should fail")
	}
	if _, err := r.Parse(ctx, Options{Input: "C C"}); err == nil {
		t.Error("whitespace should fail validation")
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	result, err := r.Execute(ctx, Options{Input: "OCC", Formats: []string{"dot", "json"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Canonical != "CCO" {
		t.Errorf("Canonical = %q, want %q", result.Canonical, "CCO")
	}
	if result.Stats.AtomCount != 3 {
		t.Errorf("AtomCount = %d, want 3", result.Stats.AtomCount)
	}
	if result.Stats.BondCount != 2 {
		t.Errorf("BondCount = %d, want 2", result.Stats.BondCount)
	}
	if len(result.Artifacts["dot"]) == 0 {
		t.Error("dot artifact should be rendered")
	}
	if len(result.Artifacts["json"]) == 0 {
		t.Error("json artifact should be rendered")
	}
	if result.InputHash == "" {
		t.Error("InputHash should be set")
	}
}

func TestRunnerExecuteKekulize(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	result, err := r.Execute(ctx, Options{Input: "c1ccccc1", Kekulize: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Canonical == "c1ccccc1" {
		t.Errorf("kekulized output should show localized bonds, got %q", result.Canonical)
	}
	for _, b := range result.Molecule.Bonds() {
		if b.Order == mol.BondAromatic {
			t.Fatal("kekulized molecule should carry no aromatic bonds")
		}
	}
}

func TestStripStereo(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	m, err := r.Parse(ctx, Options{Input: "C[C@H](N)O", Plain: true})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, a := range m.Atoms() {
		if a.Chirality != mol.ChiralityNone {
			t.Errorf("atom %d should carry no chirality", a.ID)
		}
	}
}
