// Package pipeline provides the load → build → render pipeline behind the
// orgtree CLI and HTTP API.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: fetch positions and relationships from a [source.Loader]
//  2. Build: assemble the single-rooted tree with [hierarchy.Build]
//  3. Render: produce artifacts (JSON, DOT, SVG, PDF, PNG, text outline)
//
// Built trees are cached by the content hash of the loaded document, and
// expensive artifacts by the hash of the built tree, so re-running against
// unchanged data only pays for the load.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, file.New("org.json"), pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// Build data-quality findings (dangling references, cycles, multiple
// managers) never fail the pipeline; they are logged as warnings and
// returned in [Result].Diagnostics.
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgtree/pkg/cache"
	"github.com/matzehuels/orgtree/pkg/errors"
	"github.com/matzehuels/orgtree/pkg/hierarchy"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatText = "text"
)

// ValidFormats lists the supported output formats in display order.
var ValidFormats = []string{FormatText, FormatJSON, FormatDOT, FormatSVG, FormatPDF, FormatPNG}

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatJSON

// PNGScale is the resolution multiplier for PNG export.
const PNGScale = 2.0

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format %q (must be one of: %s)", format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, trimming blanks and
// dropping duplicates.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// IncludeInactive keeps inactive positions and relationships.
	IncludeInactive bool `json:"include_inactive,omitempty"`

	// Formats to render. Empty means [DefaultFormat].
	Formats []string `json:"formats,omitempty"`

	// Detailed adds ids and attributes to DOT, SVG and text output.
	Detailed bool `json:"detailed,omitempty"`

	// Refresh bypasses cached trees and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults applies defaults and rejects unknown formats.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return ValidateFormats(o.Formats)
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Detailed: o.Detailed}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	hierarchy.Result

	// Source names the loader that produced the input.
	Source string

	// InputHash is the content hash of the loaded document.
	InputHash string

	// TreeHash is the content hash of the built tree.
	TreeHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Timing    Timing
	CacheInfo CacheInfo
}

// Timing records how long each stage took.
type Timing struct {
	Load   time.Duration
	Build  time.Duration
	Render time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the built tree came from cache
	RenderHit bool // Whether all cacheable artifacts came from cache
}

// cacheable reports whether a format is worth caching. JSON, DOT and text
// are cheap to regenerate from the tree.
func cacheable(format string) bool {
	switch format {
	case FormatSVG, FormatPDF, FormatPNG:
		return true
	}
	return false
}
