// Package pipeline runs the load → layout → render pipeline for skilltree.
//
// The CLI and the HTTP server share this package so that records, layouts
// and artifacts are produced the same way everywhere.
//
// # Stages
//
//  1. Load: read records from a file or take them from the request
//  2. Layout: build the tree and place it ([tree.Engine]), serialized as a
//     [graph.Layout]
//  3. Render: produce SVG, PDF, PNG, DOT or JSON from the layout
//
// Layouts and artifacts are cached by content hash through a [cache.Cache],
// and every stage reports to the [observability] hooks.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "skills.yaml",
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"encoding/json"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skilltree/pkg/cache"
	"github.com/matzehuels/skilltree/pkg/config"
	"github.com/matzehuels/skilltree/pkg/connector"
	"github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/graph"
	"github.com/matzehuels/skilltree/pkg/render"
	"github.com/matzehuels/skilltree/pkg/tree"
	"github.com/matzehuels/skilltree/pkg/viewport"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = graph.VizTypeTree

// DefaultPNGScale renders PNGs at 2x.
const DefaultPNGScale = 2.0

// Output formats.
const (
	FormatSVG  = render.FormatSVG
	FormatPNG  = render.FormatPNG
	FormatPDF  = render.FormatPDF
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	graph.VizTypeTree:     true,
	graph.VizTypeNodelink: true,
}

// Options contains all configuration for one pipeline run.
// It supports JSON for API requests.
type Options struct {
	// Input
	Records  []tree.Record `json:"records,omitempty"`
	Input    string        `json:"-"`
	Category string        `json:"category,omitempty"`

	// Layout options
	VizType  string      `json:"viz_type,omitempty"`
	Strategy string      `json:"strategy,omitempty"`
	Layout   tree.Config `json:"layout,omitempty"`

	// Render options
	Formats   []string          `json:"formats,omitempty"`
	Connector connector.Config  `json:"connector,omitempty"`
	States    map[string]string `json:"states,omitempty"`
	Width     float64           `json:"width,omitempty"`
	Height    float64           `json:"height,omitempty"`
	Padding   float64           `json:"padding,omitempty"`
	Viewport  *viewport.State   `json:"viewport,omitempty"`
	Highlight string            `json:"highlight,omitempty"`
	Popups    bool              `json:"popups,omitempty"`
	Detailed  bool              `json:"detailed,omitempty"`
	Scale     float64           `json:"scale,omitempty"`
	Refresh   bool              `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger         *log.Logger     `json:"-"`
	ViewportConfig viewport.Config `json:"-"`
	Debug          tree.Debug      `json:"-"`
}

// FromConfig returns Options seeded from a loaded config file.
func FromConfig(c config.Config) Options {
	return Options{
		Strategy:       c.Strategy,
		Layout:         c.Layout,
		Connector:      c.Connector,
		Width:          c.Canvas.Width,
		Height:         c.Canvas.Height,
		Padding:        c.Canvas.Padding,
		ViewportConfig: c.Viewport,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Records are the loaded input records.
	Records []tree.Record

	// RecordsHash is the content hash of Records.
	RecordsHash string

	// Layout is the serialized layout.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Dangling   int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
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

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid viz_type: %q (must be one of: tree, nodelink)", vizType)
	}
	return nil
}

// ValidateStrategy checks that a layout strategy is registered.
func ValidateStrategy(name string) error {
	if _, err := tree.StrategyByName(name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidStrategy, err, "invalid strategy")
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Strategy == "" {
		o.Strategy = tree.DefaultStrategy
	}
	o.Strategy = strings.ToLower(o.Strategy)
	o.Layout = o.Layout.WithDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateStrategy(o.Strategy); err != nil {
		return err
	}
	return errors.ValidateCategory(o.Category)
}

// SetRenderDefaults sets default values for rendering. The connector node
// size follows the layout node size.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = render.DefaultWidth
	}
	if o.Height == 0 {
		o.Height = render.DefaultHeight
	}
	if o.Padding == 0 {
		o.Padding = render.DefaultPadding
	}
	if o.Scale == 0 {
		o.Scale = DefaultPNGScale
	}
	o.Layout = o.Layout.WithDefaults()
	if o.Connector.NodeWidth == 0 {
		o.Connector.NodeWidth = o.Layout.NodeWidth
	}
	if o.Connector.NodeHeight == 0 {
		o.Connector.NodeHeight = o.Layout.NodeHeight
	}
	o.Connector = o.Connector.WithDefaults()
	o.ViewportConfig = o.ViewportConfig.WithDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// UseLayoutNodeSize makes node boxes and connector anchors follow the node
// size stored in l. Layouts without a stored size keep the options.
func (o *Options) UseLayoutNodeSize(l graph.Layout) {
	if l.NodeWidth > 0 {
		o.Layout.NodeWidth = l.NodeWidth
		o.Connector.NodeWidth = l.NodeWidth
	}
	if l.NodeHeight > 0 {
		o.Layout.NodeHeight = l.NodeHeight
		o.Connector.NodeHeight = l.NodeHeight
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if _, err := connector.PathFor(o.Connector.Path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPathStyle, err, "invalid path style")
	}
	if o.Highlight != "" {
		if err := errors.ValidateNodeID(o.Highlight); err != nil {
			return err
		}
	}
	if o.Width < 0 || o.Height < 0 || o.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas size and padding must not be negative")
	}
	return nil
}

// ValidateAndSetDefaults prepares options for a full run.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool { return o.VizType == graph.VizTypeNodelink }

// StateFunc returns the state classifier for rendering. Per-node overrides
// in States win over Record.State.
func (o *Options) StateFunc() connector.StateFunc {
	if len(o.States) == 0 {
		return connector.RecordState
	}
	return func(n *tree.Node) connector.State {
		if n != nil {
			if s, ok := o.States[n.ID]; ok {
				return connector.ParseState(s)
			}
		}
		return connector.RecordState(n)
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Strategy:       o.Strategy,
		Category:       o.Category,
		NodeWidth:      o.Layout.NodeWidth,
		NodeHeight:     o.Layout.NodeHeight,
		LevelHeight:    o.Layout.LevelHeight,
		SiblingSpacing: o.Layout.SiblingSpacing,
		SubtreeSpacing: o.Layout.SubtreeSpacing,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:  format,
		Path:    string(o.Connector.Path),
		Padding: o.Padding,
		Popups:  o.Popups,
		Styling: o.stylingHash(),
	}
}

// stylingHash covers every render input not named in ArtifactKeyOpts.
func (o *Options) stylingHash() string {
	states := make([]string, 0, len(o.States))
	for id, s := range o.States {
		states = append(states, id+"="+s)
	}
	slices.Sort(states)
	data, _ := json.Marshal(struct {
		Connector connector.Config `json:"connector"`
		States    []string         `json:"states"`
		Width     float64          `json:"width"`
		Height    float64          `json:"height"`
		Viewport  *viewport.State  `json:"viewport"`
		Limits    viewport.Config  `json:"limits"`
		Highlight string           `json:"highlight"`
		Detailed  bool             `json:"detailed"`
		Scale     float64          `json:"scale"`
	}{o.Connector, states, o.Width, o.Height, o.Viewport, o.ViewportConfig, o.Highlight, o.Detailed, o.Scale})
	return cache.Hash(data)
}
