package cache

// LayoutKeyOpts are the inputs that change a layout besides the records.
type LayoutKeyOpts struct {
	Strategy       string  `json:"strategy"`
	Category       string  `json:"category,omitempty"`
	NodeWidth      float64 `json:"node_width"`
	NodeHeight     float64 `json:"node_height"`
	LevelHeight    float64 `json:"level_height"`
	SiblingSpacing float64 `json:"sibling_spacing"`
	SubtreeSpacing float64 `json:"subtree_spacing"`
}

// ArtifactKeyOpts are the inputs that change a rendered artifact besides
// the layout.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Path    string  `json:"path,omitempty"`
	Padding float64 `json:"padding,omitempty"`
	Popups  bool    `json:"popups,omitempty"`
	// Styling is a hash of palette, states and viewport, computed by the caller.
	Styling string `json:"styling,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey returns the key for a layout of the records hashed as recordsHash.
	LayoutKey(recordsHash string, opts LayoutKeyOpts) string

	// ArtifactKey returns the key for an artifact rendered from layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey hashes the records hash together with the layout options.
func (DefaultKeyer) LayoutKey(recordsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", recordsHash, opts)
}

// ArtifactKey hashes the layout hash together with the render options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = DefaultKeyer{}
