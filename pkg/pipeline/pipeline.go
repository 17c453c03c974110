// Package pipeline provides the tree → layout → render pipeline for treeviz.
//
// This package implements the complete parse → layout → render pipeline used
// by the CLI and the HTTP API. By centralizing this logic, both entry points
// resolve settings, cache draw lists and name artifacts the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Read a JSON tree from a file or request body and apply selection
//  2. Layout: Run a layout algorithm to produce a draw command sequence
//  3. Render: Write the sequence (or the tree) to output formats
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "tree.json",
//	    Layout:  "sunburst",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	t, err := pipeline.Parse(opts)
//	cmds, err := runner.ComputeLayout(ctx, t, opts)
//	artifacts, err := runner.Render(ctx, cmds, t, opts)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treeviz/pkg/cache"
	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/layout"
	"github.com/matzehuels/treeviz/pkg/palette"
	"github.com/matzehuels/treeviz/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultLayout is the layout used when none is given.
	DefaultLayout = "sunburst"

	// DefaultWidth is the default output width in pixels.
	DefaultWidth = draw.LogicalWidth

	// DefaultHeight is the default output height in pixels.
	DefaultHeight = draw.LogicalHeight

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 1.0
)

// Format constants for output formats.
const (
	FormatJSON     = "json"
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatDOT      = "dot"
	FormatNodelink = "nodelink"
)

// Formats lists the supported output formats in display order.
var Formats = []string{FormatJSON, FormatSVG, FormatPNG, FormatDOT, FormatNodelink}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:     true,
	FormatSVG:      true,
	FormatPNG:      true,
	FormatDOT:      true,
	FormatNodelink: true,
}

// treeFormats are rendered from the tree instead of the draw list.
var treeFormats = map[string]bool{
	FormatDOT:      true,
	FormatNodelink: true,
}

// FormatExtension returns the file extension for a format.
func FormatExtension(format string) string {
	if format == FormatNodelink {
		return "nodelink.svg"
	}
	return format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Input  string   `json:"input,omitempty"`  // Path to a JSON tree
	Tree   []byte   `json:"-"`                // Raw JSON tree (takes precedence over Input)
	Select []string `json:"select,omitempty"` // Node ids to mark selected

	// Layout options
	Layout   string          `json:"layout,omitempty"`
	Settings layout.Settings `json:"settings,omitempty"`
	Palette  palette.Options `json:"palette"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Width      int      `json:"width,omitempty"`
	Height     int      `json:"height,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Background string   `json:"background,omitempty"` // CSS color, empty for transparent
	Detailed   bool     `json:"detailed,omitempty"`   // Node-link labels and SVG outlines
	Refresh    bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the parsed tree.
	Tree *tree.Tree

	// TreeHash is the content hash of the tree.
	TreeHash string

	// Commands is the draw command sequence produced by the layout.
	Commands []draw.Command

	// Settings are the resolved layout settings.
	Settings layout.Settings

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	CommandCount int
	ParseTime    time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the draw list came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
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

// ValidateLayout checks that a layout name is registered.
func ValidateLayout(name string) error {
	_, err := layout.Get(name)
	return err
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
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks that a tree source is given.
func (o *Options) ValidateForParse() error {
	if len(o.Tree) == 0 && o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "tree input is required")
	}
	o.setLogger()
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Layout == "" {
		o.Layout = DefaultLayout
	}
	switch {
	case o.Palette == palette.Options{}:
		o.Palette = palette.DefaultOptions()
	case o.Palette.Name == "":
		o.Palette.Name = palette.DefaultOptions().Name
	}
	o.setLogger()
}

// ValidateForLayout validates the layout name and its settings.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	l, err := layout.Get(o.Layout)
	if err != nil {
		return err
	}
	return l.Schema().Validate(o.Settings)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if o.Width < 0 || o.Height < 0 || o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid output size %dx%d at scale %v", o.Width, o.Height, o.Scale)
	}
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// NeedsDrawList reports whether any requested format renders the draw list.
func (o *Options) NeedsDrawList() bool {
	return slices.ContainsFunc(o.Formats, func(f string) bool { return !treeFormats[f] })
}

// DrawKeyOpts returns cache key options for draw list computation.
// Settings must already be resolved so that defaults and explicit values
// share a key.
func (o *Options) DrawKeyOpts(resolved layout.Settings) cache.DrawKeyOpts {
	return cache.DrawKeyOpts{
		Layout:   o.Layout,
		Settings: resolved,
		Palette:  o.Palette,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format, treeHash string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:     format,
		Width:      o.Width,
		Height:     o.Height,
		Background: o.Background,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	if format == FormatSVG {
		k.Detailed = o.Detailed
	}
	if treeFormats[format] {
		k.TreeHash = treeHash
		k.Detailed = o.Detailed
	}
	return k
}

// TreeHash computes the content hash of a tree.
func TreeHash(t *tree.Tree) (string, error) {
	var b strings.Builder
	if err := tree.WriteJSON(t, &b); err != nil {
		return "", fmt.Errorf("serialize tree: %w", err)
	}
	return cache.Hash([]byte(b.String())), nil
}
