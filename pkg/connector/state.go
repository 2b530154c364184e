package connector

import (
	"strings"

	"github.com/matzehuels/skilltree/pkg/tree"
)

// State is the host-assigned status of a node. Only the child's state
// affects a connection's styling.
type State string

const (
	Locked     State = "locked"
	Learnable  State = "learnable"
	Owned      State = "owned"
	Equipped   State = "equipped"
	Upgradable State = "upgradable"
	MaxLevel   State = "maxlevel"
	Default    State = "default"
)

// States lists every state in marker registration order.
var States = []State{Locked, Learnable, Owned, Equipped, Upgradable, MaxLevel, Default}

// ParseState maps s to a known State. Unknown values map to Default.
func ParseState(s string) State {
	st := State(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range States {
		if st == known {
			return st
		}
	}
	return Default
}

// Palette maps states to stroke colours.
type Palette map[State]string

// DefaultPalette returns the built-in colours.
func DefaultPalette() Palette {
	return Palette{
		Locked:     "#6b7280",
		Learnable:  "#3b82f6",
		Owned:      "#22c55e",
		Equipped:   "#f59e0b",
		Upgradable: "#a855f7",
		MaxLevel:   "#eab308",
		Default:    "#9ca3af",
	}
}

// Color returns the colour for s, falling back to the Default entry and then
// to the built-in default colour.
func (p Palette) Color(s State) string {
	if c, ok := p[s]; ok && c != "" {
		return c
	}
	if c, ok := p[Default]; ok && c != "" {
		return c
	}
	return DefaultPalette()[Default]
}

// StateFunc classifies a node.
type StateFunc func(n *tree.Node) State

// RecordState reads the State field of the node's record.
func RecordState(n *tree.Node) State {
	if n == nil || n.Record == nil {
		return Default
	}
	return ParseState(n.Record.State)
}

// StaticStates returns a StateFunc backed by a map of node ID to state.
// Nodes missing from m are Default.
func StaticStates(m map[string]State) StateFunc {
	return func(n *tree.Node) State {
		if s, ok := m[n.ID]; ok {
			return s
		}
		return Default
	}
}
