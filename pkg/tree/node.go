package tree

import "github.com/matzehuels/skilltree/pkg/geom"

// VirtualRootID is the ID given to the synthetic node that groups several
// roots. It never appears in a [Result].
const VirtualRootID = "__root__"

// Node is a positioned record.
//
// Parent and Children reflect the structural edge only. Requirements keeps
// every requirement ID, including the ones that did not become the parent.
type Node struct {
	ID           string
	Record       *Record
	X, Y         float64
	Parent       *Node
	Children     []*Node
	Column       int
	Depth        int
	Requirements []string

	virtual bool
	prelim  float64
	mod     float64
}

// IsVirtual reports whether n is the synthetic grouping root.
func (n *Node) IsVirtual() bool { return n.virtual }

// IsLeaf reports whether n has no structural children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Center returns the node's position as a point.
func (n *Node) Center() geom.Point { return geom.Point{X: n.X, Y: n.Y} }

// ParentID returns the structural parent's ID, or "" for roots.
func (n *Node) ParentID() string {
	if n.Parent == nil {
		return ""
	}
	return n.Parent.ID
}

// Prerequisites returns every requirement ID of n in declaration order,
// regardless of which one was chosen as structural parent.
func Prerequisites(n *Node) []string {
	if n == nil || len(n.Requirements) == 0 {
		return nil
	}
	out := make([]string, len(n.Requirements))
	copy(out, n.Requirements)
	return out
}

// EdgeKind distinguishes layout-driving edges from rendering-only ones.
type EdgeKind int

const (
	// StructuralEdge links a node to its single layout parent.
	StructuralEdge EdgeKind = iota
	// InformationalEdge links a node to an additional prerequisite.
	InformationalEdge
)

// String returns "structural" or "informational".
func (k EdgeKind) String() string {
	if k == InformationalEdge {
		return "informational"
	}
	return "structural"
}

// Edge is a directed relationship from a prerequisite to its dependent.
type Edge struct {
	From string
	To   string
	Kind EdgeKind
}

// Edges derives the tagged edge set for nodes. Informational edges are only
// produced for prerequisites present in nodes; duplicates are dropped.
func Edges(nodes []*Node) []Edge {
	present := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		present[n.ID] = struct{}{}
	}

	type key struct{ from, to string }
	seen := make(map[key]struct{})
	var edges []Edge
	for _, n := range nodes {
		parentID := n.ParentID()
		if parentID != "" {
			if _, ok := present[parentID]; ok {
				seen[key{parentID, n.ID}] = struct{}{}
				edges = append(edges, Edge{From: parentID, To: n.ID, Kind: StructuralEdge})
			}
		}
		for _, req := range n.Requirements {
			if req == n.ID {
				continue
			}
			if _, ok := present[req]; !ok {
				continue
			}
			k := key{req, n.ID}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			edges = append(edges, Edge{From: req, To: n.ID, Kind: InformationalEdge})
		}
	}
	return edges
}

// walk visits n and its descendants in pre-order.
func walk(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		walk(c, fn)
	}
}
