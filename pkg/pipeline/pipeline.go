// Package pipeline runs node graph documents through compaction and rendering.
//
// This package implements the build → compact → render pipeline used by both
// the CLI and the HTTP API. By centralizing this logic, both entry points
// validate documents, log, cache and report errors the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Validate a [io.Document] and construct the live graph
//  2. Compact: Collapse each top-level group of the selected container into
//     one synthetic leaf (optional for rendering)
//  3. Render: Draw the container as DOT, SVG, PNG or PDF
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//
//	res, err := runner.Compact(ctx, doc, pipeline.CompactOptions{Group: "voice"})
//	fmt.Println(res.Stats.LinksDropped)
//
//	out, err := runner.Render(ctx, doc, pipeline.Options{Compact: true, Format: "svg"})
//	os.WriteFile("graph.svg", out.Artifact, 0o644)
//
// Rendered artifacts are cached under a key derived from the document hash
// and every option that affects the output.
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodegraph/pkg/cache"
	nerrors "github.com/matzehuels/nodegraph/pkg/errors"
	"github.com/matzehuels/nodegraph/pkg/graph/compact"
	"github.com/matzehuels/nodegraph/pkg/graph/topology"
	nio "github.com/matzehuels/nodegraph/pkg/io"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultScale is the PNG scale factor.
const DefaultScale = 2.0

// Format constants for output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// DefaultFormat is the default render format.
const DefaultFormat = FormatSVG

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// ContentTypes maps output formats to MIME types.
var ContentTypes = map[string]string{
	FormatDOT: "text/vnd.graphviz",
	FormatSVG: "image/svg+xml",
	FormatPNG: "image/png",
	FormatPDF: "application/pdf",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// CompactOptions configures a compaction run.
type CompactOptions struct {
	// Group selects the container to compact. Empty means the whole graph.
	Group string `json:"group,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Options configures a render run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Group selects the container to render. Empty means the whole graph.
	Group string `json:"group,omitempty"`
	// Compact collapses each top-level group of the container before rendering.
	Compact bool `json:"compact,omitempty"`

	Format   string  `json:"format,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
	Clusters bool    `json:"clusters,omitempty"`
	Scale    float64 `json:"scale,omitempty"` // PNG only
	Refresh  bool    `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// CompactResult contains the outputs of a compaction run.
type CompactResult struct {
	// Model is the graph built from the input document.
	Model *nio.Model

	// Compacter holds the compacted graph and the lookup tables between it
	// and Model.
	Compacter *compact.Compacter

	// Document is the compacted graph as a document.
	Document nio.Document

	// Groups maps each synthetic leaf ID in Document to the ID of the
	// group it replaces.
	Groups map[string]string

	Stats    compact.Stats
	Topology topology.Report
	Duration time.Duration
}

// Result contains the outputs of a render run.
type Result struct {
	// Artifact is the rendered output in Format.
	Artifact []byte
	Format   string

	// DocumentHash is the content hash of the input document.
	DocumentHash string

	// Compaction is set when Options.Compact was requested and the artifact
	// was not served from cache.
	Compaction *CompactResult

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains render execution statistics.
type Stats struct {
	Leaves     int
	Links      int
	RenderTime time.Duration
}

// CacheInfo tracks cache use of a render run.
type CacheInfo struct {
	Key string
	Hit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return nerrors.New(nerrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateGroup checks a group selector. Empty selects the whole graph.
func ValidateGroup(group string) error {
	if group == "" {
		return nil
	}
	return nerrors.ValidateID(group)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		return nerrors.New(nerrors.ErrCodeInvalidInput, "scale must be a positive finite number, got %v", o.Scale)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if err := ValidateGroup(o.Group); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// RenderKeyOpts returns cache key options for the rendered artifact.
func (o *Options) RenderKeyOpts() cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Group:    o.Group,
		Compact:  o.Compact,
		Format:   o.Format,
		Detailed: o.Detailed,
		Clusters: o.Clusters,
		Scale:    o.Scale,
	}
}

// ContentType returns the MIME type for the configured format.
func (o *Options) ContentType() string {
	return ContentTypes[o.Format]
}
