package tree

// Default layout constants, in layout units.
const (
	DefaultNodeWidth      = 80.0
	DefaultNodeHeight     = 80.0
	DefaultLevelHeight    = 140.0
	DefaultSiblingSpacing = 40.0
	DefaultSubtreeSpacing = 60.0
)

// Config holds the numeric layout constants.
type Config struct {
	NodeWidth      float64 `json:"nodeWidth" toml:"node_width" yaml:"node_width" validate:"gt=0"`
	NodeHeight     float64 `json:"nodeHeight" toml:"node_height" yaml:"node_height" validate:"gt=0"`
	LevelHeight    float64 `json:"levelHeight" toml:"level_height" yaml:"level_height" validate:"gt=0"`
	SiblingSpacing float64 `json:"siblingSpacing" toml:"sibling_spacing" yaml:"sibling_spacing" validate:"gte=0"`
	SubtreeSpacing float64 `json:"subtreeSpacing" toml:"subtree_spacing" yaml:"subtree_spacing" validate:"gte=0"`
}

// DefaultConfig returns the production layout constants.
func DefaultConfig() Config {
	return Config{
		NodeWidth:      DefaultNodeWidth,
		NodeHeight:     DefaultNodeHeight,
		LevelHeight:    DefaultLevelHeight,
		SiblingSpacing: DefaultSiblingSpacing,
		SubtreeSpacing: DefaultSubtreeSpacing,
	}
}

// WithDefaults fills zero-valued fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.NodeWidth == 0 {
		c.NodeWidth = d.NodeWidth
	}
	if c.NodeHeight == 0 {
		c.NodeHeight = d.NodeHeight
	}
	if c.LevelHeight == 0 {
		c.LevelHeight = d.LevelHeight
	}
	if c.SiblingSpacing == 0 {
		c.SiblingSpacing = d.SiblingSpacing
	}
	if c.SubtreeSpacing == 0 {
		c.SubtreeSpacing = d.SubtreeSpacing
	}
	return c
}

// siblingStep is the minimum center distance between adjacent siblings.
func (c Config) siblingStep() float64 { return c.NodeWidth + c.SiblingSpacing }

// subtreeStep is the minimum center distance between nodes of neighbouring
// subtrees below the sibling level. It never drops under siblingStep.
func (c Config) subtreeStep() float64 {
	return c.NodeWidth + max(c.SiblingSpacing, c.SubtreeSpacing)
}

// Debug carries per-engine diagnostics. It replaces process-wide tuning
// hooks: each Engine gets its own copy at construction.
type Debug struct {
	// Trace logs every placed node at debug level.
	Trace bool
	// OnPlace is called for every real node after placement.
	OnPlace func(n *Node)
	// OnDangling is called for every requirement that does not resolve.
	OnDangling func(nodeID, requirementID string)
}
