package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/skilltree/pkg/geom"
	"github.com/matzehuels/skilltree/pkg/tree"
)

// Visualization types.
const (
	VizTypeTree     = "tree"
	VizTypeNodelink = "nodelink"
)

// Edge kinds as serialized.
const (
	EdgeStructural    = "structural"
	EdgeInformational = "informational"
)

// Layout is the serialization format for a positioned skill tree.
//
// Tree layouts carry Nodes, Edges and Bounds. Nodelink layouts additionally
// carry the Graphviz DOT source and engine used to render them.
type Layout struct {
	VizType  string `json:"viz_type" bson:"viz_type"`
	Strategy string `json:"strategy,omitempty" bson:"strategy,omitempty"`
	Category string `json:"category,omitempty" bson:"category,omitempty"`

	NodeWidth  float64     `json:"node_width" bson:"node_width"`
	NodeHeight float64     `json:"node_height" bson:"node_height"`
	Bounds     geom.Bounds `json:"bounds" bson:"bounds"`

	Nodes []Node `json:"nodes,omitempty" bson:"nodes,omitempty"`
	Edges []Edge `json:"edges,omitempty" bson:"edges,omitempty"`

	// Nodelink-specific
	DOT    string `json:"dot,omitempty" bson:"dot,omitempty"`
	Engine string `json:"engine,omitempty" bson:"engine,omitempty"`
}

// Node is a positioned node. X and Y are the node center.
type Node struct {
	ID           string         `json:"id" bson:"id"`
	X            float64        `json:"x" bson:"x"`
	Y            float64        `json:"y" bson:"y"`
	Depth        int            `json:"depth,omitempty" bson:"depth,omitempty"`
	Column       int            `json:"column,omitempty" bson:"column,omitempty"`
	Parent       string         `json:"parent,omitempty" bson:"parent,omitempty"`
	Requirements []string       `json:"requirements,omitempty" bson:"requirements,omitempty"`
	Category     string         `json:"category,omitempty" bson:"category,omitempty"`
	State        string         `json:"state,omitempty" bson:"state,omitempty"`
	Payload      map[string]any `json:"payload,omitempty" bson:"payload,omitempty"`
}

// Edge is a directed prerequisite relationship.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
	Kind string `json:"kind" bson:"kind"`
}

// Meta describes how a layout was produced.
type Meta struct {
	Strategy string
	Category string
	Config   tree.Config
}

// IsTree returns true if this is a tree layout.
func (l *Layout) IsTree() bool { return l.VizType == VizTypeTree }

// IsNodelink returns true if this is a nodelink layout.
func (l *Layout) IsNodelink() bool { return l.VizType == VizTypeNodelink }

// Empty reports whether the layout has no nodes.
func (l *Layout) Empty() bool { return len(l.Nodes) == 0 }

// FromResult converts a layout run into its serialized form.
func FromResult(res tree.Result, meta Meta) Layout {
	cfg := meta.Config.WithDefaults()
	l := Layout{
		VizType:    VizTypeTree,
		Strategy:   meta.Strategy,
		Category:   meta.Category,
		NodeWidth:  cfg.NodeWidth,
		NodeHeight: cfg.NodeHeight,
		Bounds:     res.Bounds,
	}
	if res.Empty() {
		l.Bounds = geom.Bounds{}
		return l
	}

	l.Nodes = make([]Node, 0, len(res.Nodes))
	for _, n := range res.Nodes {
		out := Node{
			ID:           n.ID,
			X:            n.X,
			Y:            n.Y,
			Depth:        n.Depth,
			Column:       n.Column,
			Parent:       n.ParentID(),
			Requirements: tree.Prerequisites(n),
		}
		if n.Record != nil {
			out.Category = n.Record.Category
			out.State = n.Record.State
			out.Payload = n.Record.Payload
		}
		l.Nodes = append(l.Nodes, out)
	}

	l.Edges = make([]Edge, 0, len(res.Edges))
	for _, e := range res.Edges {
		l.Edges = append(l.Edges, Edge{From: e.From, To: e.To, Kind: e.Kind.String()})
	}
	return l
}

// TreeNodes rebuilds linked tree nodes from the serialized positions.
// Parent and Children links follow the Parent field; node order is preserved.
func (l Layout) TreeNodes() []*tree.Node {
	if len(l.Nodes) == 0 {
		return nil
	}
	nodes := make([]*tree.Node, 0, len(l.Nodes))
	byID := make(map[string]*tree.Node, len(l.Nodes))
	for _, sn := range l.Nodes {
		rec := &tree.Record{
			ID:       sn.ID,
			Category: sn.Category,
			State:    sn.State,
			Payload:  sn.Payload,
		}
		for _, req := range sn.Requirements {
			rec.Requirements = append(rec.Requirements, tree.Requirement{ID: req})
		}
		n := &tree.Node{
			ID:           sn.ID,
			Record:       rec,
			X:            sn.X,
			Y:            sn.Y,
			Depth:        sn.Depth,
			Column:       sn.Column,
			Requirements: append([]string(nil), sn.Requirements...),
		}
		nodes = append(nodes, n)
		byID[n.ID] = n
	}
	for i, sn := range l.Nodes {
		if sn.Parent == "" {
			continue
		}
		if p, ok := byID[sn.Parent]; ok {
			nodes[i].Parent = p
			p.Children = append(p.Children, nodes[i])
		}
	}
	return nodes
}

// Result converts the layout back into a [tree.Result].
func (l Layout) Result() tree.Result {
	nodes := l.TreeNodes()
	if len(nodes) == 0 {
		return tree.Result{}
	}
	return tree.Result{Nodes: nodes, Bounds: l.Bounds, Edges: tree.Edges(nodes)}
}

// ParseEdgeKind maps a serialized kind back to a [tree.EdgeKind].
func ParseEdgeKind(s string) (tree.EdgeKind, error) {
	switch s {
	case EdgeStructural, "":
		return tree.StructuralEdge, nil
	case EdgeInformational:
		return tree.InformationalEdge, nil
	default:
		return 0, fmt.Errorf("unknown edge kind %q", s)
	}
}

// Validate checks that edges and parents reference known nodes.
func (l Layout) Validate() error {
	if l.IsNodelink() && l.DOT == "" {
		return fmt.Errorf("nodelink layout must contain DOT string")
	}
	ids := make(map[string]struct{}, len(l.Nodes))
	for _, n := range l.Nodes {
		if n.ID == "" {
			return fmt.Errorf("layout node without id")
		}
		if _, dup := ids[n.ID]; dup {
			return fmt.Errorf("duplicate layout node %q", n.ID)
		}
		ids[n.ID] = struct{}{}
	}
	for _, n := range l.Nodes {
		if n.Parent == "" {
			continue
		}
		if _, ok := ids[n.Parent]; !ok {
			return fmt.Errorf("node %q: unknown parent %q", n.ID, n.Parent)
		}
	}
	for _, e := range l.Edges {
		if _, err := ParseEdgeKind(e.Kind); err != nil {
			return err
		}
		if _, ok := ids[e.From]; !ok {
			return fmt.Errorf("edge %s->%s: unknown node %q", e.From, e.To, e.From)
		}
		if _, ok := ids[e.To]; !ok {
			return fmt.Errorf("edge %s->%s: unknown node %q", e.From, e.To, e.To)
		}
	}
	return nil
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and validates it.
// A missing viz_type defaults to "tree".
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.VizType == "" {
		l.VizType = VizTypeTree
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayout writes a Layout as JSON to w.
func WriteLayout(l Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
