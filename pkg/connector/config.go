package connector

import "github.com/matzehuels/skilltree/pkg/tree"

// Config holds the connector styling constants. NodeWidth and NodeHeight
// must match the layout's so that anchors sit on node edges.
type Config struct {
	Path             PathStyle `json:"path" toml:"path" yaml:"path" validate:"omitempty,oneof=straight step bezier"`
	NodeWidth        float64   `json:"nodeWidth" toml:"node_width" yaml:"node_width" validate:"gte=0"`
	NodeHeight       float64   `json:"nodeHeight" toml:"node_height" yaml:"node_height" validate:"gte=0"`
	StrokeWidth      float64   `json:"strokeWidth" toml:"stroke_width" yaml:"stroke_width" validate:"gte=0"`
	HighlightWidth   float64   `json:"highlightWidth" toml:"highlight_width" yaml:"highlight_width" validate:"gte=0"`
	SecondaryOpacity float64   `json:"secondaryOpacity" toml:"secondary_opacity" yaml:"secondary_opacity" validate:"gte=0,lte=1"`
	LockedOpacity    float64   `json:"lockedOpacity" toml:"locked_opacity" yaml:"locked_opacity" validate:"gte=0,lte=1"`
	DashArray        string    `json:"dashArray" toml:"dash_array" yaml:"dash_array"`
	Palette          Palette   `json:"palette,omitempty" toml:"palette" yaml:"palette,omitempty"`
}

// DefaultConfig returns the built-in connector styling.
func DefaultConfig() Config {
	return Config{
		Path:             DefaultPathStyle,
		NodeWidth:        tree.DefaultNodeWidth,
		NodeHeight:       tree.DefaultNodeHeight,
		StrokeWidth:      2,
		HighlightWidth:   4,
		SecondaryOpacity: 0.5,
		LockedOpacity:    0.35,
		DashArray:        "6 4",
		Palette:          DefaultPalette(),
	}
}

// WithDefaults fills zero-valued fields from DefaultConfig. Palette entries
// missing from c are taken from the default palette.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Path == "" {
		c.Path = d.Path
	}
	if c.NodeWidth == 0 {
		c.NodeWidth = d.NodeWidth
	}
	if c.NodeHeight == 0 {
		c.NodeHeight = d.NodeHeight
	}
	if c.StrokeWidth == 0 {
		c.StrokeWidth = d.StrokeWidth
	}
	if c.HighlightWidth == 0 {
		c.HighlightWidth = d.HighlightWidth
	}
	if c.SecondaryOpacity == 0 {
		c.SecondaryOpacity = d.SecondaryOpacity
	}
	if c.LockedOpacity == 0 {
		c.LockedOpacity = d.LockedOpacity
	}
	if c.DashArray == "" {
		c.DashArray = d.DashArray
	}
	merged := make(Palette, len(d.Palette))
	for s, col := range d.Palette {
		merged[s] = col
	}
	for s, col := range c.Palette {
		if col != "" {
			merged[s] = col
		}
	}
	c.Palette = merged
	return c
}

// Debug carries per-renderer diagnostics.
type Debug struct {
	// ShowAnchors draws a small circle at every connection endpoint.
	ShowAnchors bool
}
