package tree

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skilltree/pkg/geom"
)

// Result is the output of a layout run.
type Result struct {
	// Nodes lists every real node in pre-order. The virtual root is omitted.
	Nodes []*Node
	// Bounds covers all nodes inflated by half the node size.
	Bounds geom.Bounds
	// Edges is the tagged edge set over Nodes.
	Edges []Edge
}

// Empty reports whether the result contains no nodes.
func (r Result) Empty() bool { return len(r.Nodes) == 0 }

// Node returns the positioned node with the given ID.
func (r Result) Node(id string) (*Node, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig sets the layout constants. Zero fields fall back to defaults.
func WithConfig(cfg Config) Option { return func(e *Engine) { e.cfg = cfg.WithDefaults() } }

// WithStrategy selects the placement algorithm.
func WithStrategy(s Strategy) Option {
	return func(e *Engine) {
		if s != nil {
			e.strategy = s
		}
	}
}

// WithLogger sets the logger used for warnings and traces.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDebug installs diagnostics for this engine only.
func WithDebug(d Debug) Option { return func(e *Engine) { e.debug = d } }

// Engine builds trees from records and positions them.
// An Engine holds no per-run state and may be reused.
type Engine struct {
	cfg      Config
	strategy Strategy
	logger   *log.Logger
	debug    Debug
}

// New creates an Engine with the default config and the Columns strategy.
func New(opts ...Option) *Engine {
	e := &Engine{
		cfg:      DefaultConfig(),
		strategy: Columns{},
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine's layout constants.
func (e *Engine) Config() Config { return e.cfg }

// Strategy returns the configured placement algorithm.
func (e *Engine) Strategy() Strategy { return e.strategy }

// Layout builds the tree for the filtered records and places it with the
// configured strategy.
func (e *Engine) Layout(records []Record, filter Filter) Result {
	return e.place(e.BuildTree(records, filter), e.strategy)
}

// CalculateLayout places an already built tree with the Reingold–Tilford
// walk, independent of the configured strategy.
func (e *Engine) CalculateLayout(root *Node) Result {
	return e.place(root, Tidy{})
}

// SimpleLayout builds and places the filtered records with column centering,
// independent of the configured strategy.
func (e *Engine) SimpleLayout(records []Record, filter Filter) Result {
	return e.place(e.BuildTree(records, filter), Columns{})
}

// BuildTree groups the filtered records into a tree. Each node's parent is
// its first requirement that resolves inside the filtered set; requirements
// that do not resolve are skipped with a warning, and a node without any
// resolvable requirement becomes a root. Several roots are wrapped in a
// virtual root. BuildTree returns nil when no record passes the filter.
func (e *Engine) BuildTree(records []Record, filter Filter) *Node {
	var nodes []*Node
	byID := make(map[string]*Node)
	for i := range records {
		r := &records[i]
		if filter != nil && !filter(*r) {
			continue
		}
		if r.ID == "" {
			e.logger.Warn("skipping record without id", "index", i)
			continue
		}
		if _, dup := byID[r.ID]; dup {
			e.logger.Warn("skipping duplicate record", "id", r.ID)
			continue
		}
		n := &Node{ID: r.ID, Record: r, Requirements: r.RequirementIDs()}
		byID[n.ID] = n
		nodes = append(nodes, n)
	}
	if len(nodes) == 0 {
		return nil
	}

	var roots []*Node
	for _, n := range nodes {
		parent := e.structuralParent(n, byID)
		if parent == nil {
			roots = append(roots, n)
			continue
		}
		n.Parent = parent
		parent.Children = append(parent.Children, n)
	}

	if len(roots) == 1 {
		return roots[0]
	}
	return &Node{ID: VirtualRootID, Children: roots, virtual: true}
}

// structuralParent resolves the first requirement of n. A first requirement
// that is missing or closes a cycle leaves n a root; later requirements only
// ever produce informational edges. Every unresolved requirement is reported.
func (e *Engine) structuralParent(n *Node, byID map[string]*Node) *Node {
	for _, req := range n.Requirements {
		if _, ok := byID[req]; !ok {
			e.dangling(n.ID, req)
		}
	}
	if len(n.Requirements) == 0 {
		return nil
	}
	req := n.Requirements[0]
	p, ok := byID[req]
	if !ok {
		return nil
	}
	if p == n || isAncestor(n, p) {
		e.logger.Warn("requirement would close a cycle; treating node as root", "id", n.ID, "requirement", req)
		return nil
	}
	return p
}

func (e *Engine) dangling(nodeID, req string) {
	e.logger.Warn("unresolved requirement ignored", "id", nodeID, "requirement", req)
	if e.debug.OnDangling != nil {
		e.debug.OnDangling(nodeID, req)
	}
}

// isAncestor reports whether a is on p's parent chain (p included).
func isAncestor(a, p *Node) bool {
	for cur := p; cur != nil; cur = cur.Parent {
		if cur == a {
			return true
		}
	}
	return false
}

func (e *Engine) place(root *Node, s Strategy) Result {
	if root == nil {
		return Result{}
	}
	s.Place(root, e.cfg)

	var nodes []*Node
	bounds := geom.EmptyBounds()
	walk(root, func(n *Node) {
		if n.virtual {
			return
		}
		nodes = append(nodes, n)
		bounds = bounds.Extend(n.Center(), e.cfg.NodeWidth, e.cfg.NodeHeight)
		if e.debug.Trace {
			e.logger.Debug("placed node", "strategy", s.Name(), "id", n.ID, "x", n.X, "y", n.Y, "depth", n.Depth, "column", n.Column)
		}
		if e.debug.OnPlace != nil {
			e.debug.OnPlace(n)
		}
	})

	return Result{Nodes: nodes, Bounds: bounds, Edges: Edges(nodes)}
}
