package connector

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skilltree/pkg/geom"
	"github.com/matzehuels/skilltree/pkg/tree"
)

// Marker is an arrowhead definition registered for one state.
type Marker struct {
	ID    string
	State State
	Color string
}

// Connection is one drawn edge.
type Connection struct {
	From, To    string
	Kind        tree.EdgeKind
	State       State
	Start, End  geom.Point
	D           string
	Color       string
	Dashed      bool
	Opacity     float64
	Highlighted bool
}

// ID returns the element ID used in SVG output. Node ids are escaped so that
// "-" only ever separates the two ends.
func (c Connection) ID() string {
	return "edge-" + idEscaper.Replace(c.From) + "-" + idEscaper.Replace(c.To)
}

var idEscaper = strings.NewReplacer("_", "__", "-", "_d")

// Primary reports whether c is the structural edge of its child.
func (c Connection) Primary() bool { return c.Kind == tree.StructuralEdge }

// Option configures a Renderer.
type Option func(*Renderer)

// WithConfig sets the styling constants. Zero fields fall back to defaults.
func WithConfig(cfg Config) Option { return func(r *Renderer) { r.cfg = cfg } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithDebug installs diagnostics for this renderer only.
func WithDebug(d Debug) Option { return func(r *Renderer) { r.debug = d } }

type edgeKey struct{ from, to string }

// Renderer owns the connector layer of one surface. It is not safe for
// concurrent use.
type Renderer struct {
	cfg     Config
	path    PathFunc
	logger  *log.Logger
	debug   Debug
	markers []Marker

	conns    []Connection
	index    map[edgeKey]int
	incoming map[string][]int

	viewBox    geom.Bounds
	hasViewBox bool
}

// NewRenderer creates a renderer and registers one arrowhead marker per
// state. It fails only for an unknown path style.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg:    DefaultConfig(),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.cfg = r.cfg.WithDefaults()

	path, err := PathFor(r.cfg.Path)
	if err != nil {
		return nil, err
	}
	r.path = path

	for _, s := range States {
		r.markers = append(r.markers, Marker{ID: markerID(s), State: s, Color: r.cfg.Palette.Color(s)})
	}
	r.reset()
	return r, nil
}

func markerID(s State) string { return "arrow-" + string(s) }

// Config returns the effective styling constants.
func (r *Renderer) Config() Config { return r.cfg }

// Markers returns the registered arrowhead markers.
func (r *Renderer) Markers() []Marker {
	out := make([]Marker, len(r.markers))
	copy(out, r.markers)
	return out
}

// Connections returns the drawn connections, primary edges in node order
// followed by their secondary edges.
func (r *Renderer) Connections() []Connection {
	out := make([]Connection, len(r.conns))
	copy(out, r.conns)
	return out
}

// Connection returns the connection from one node to another.
func (r *Renderer) Connection(from, to string) (Connection, bool) {
	i, ok := r.index[edgeKey{from, to}]
	if !ok {
		return Connection{}, false
	}
	return r.conns[i], true
}

// Draw replaces all connections with the edges of nodes. A nil state
// classifier uses [RecordState]. It returns the number of connections drawn.
func (r *Renderer) Draw(nodes []*tree.Node, state StateFunc) int {
	r.reset()
	if state == nil {
		state = RecordState
	}

	byID := make(map[string]*tree.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	for _, e := range tree.Edges(nodes) {
		from, to := byID[e.From], byID[e.To]
		r.add(from, to, e.Kind, state(to))
	}

	for _, n := range nodes {
		for _, req := range tree.Prerequisites(n) {
			if _, ok := byID[req]; !ok {
				r.logger.Debug("skipping connector to absent prerequisite", "id", n.ID, "requirement", req)
			}
		}
	}
	return len(r.conns)
}

func (r *Renderer) add(from, to *tree.Node, kind tree.EdgeKind, st State) {
	half := r.cfg.NodeHeight / 2
	start := geom.Point{X: from.X, Y: from.Y + half}
	end := geom.Point{X: to.X, Y: to.Y - half}

	c := Connection{
		From:    from.ID,
		To:      to.ID,
		Kind:    kind,
		State:   st,
		Start:   start,
		End:     end,
		D:       r.path(start, end),
		Color:   r.cfg.Palette.Color(st),
		Opacity: 1,
	}
	if kind == tree.InformationalEdge {
		c.Dashed = true
		c.Opacity = r.cfg.SecondaryOpacity
	}
	if st == Locked {
		c.Dashed = true
		c.Opacity = min(c.Opacity, r.cfg.LockedOpacity)
	}

	r.index[edgeKey{c.From, c.To}] = len(r.conns)
	r.incoming[c.To] = append(r.incoming[c.To], len(r.conns))
	r.conns = append(r.conns, c)
}

// HighlightConnection marks the connection from one node to another.
func (r *Renderer) HighlightConnection(from, to string) bool {
	i, ok := r.index[edgeKey{from, to}]
	if !ok {
		return false
	}
	r.conns[i].Highlighted = true
	return true
}

// ClearHighlights unmarks every connection.
func (r *Renderer) ClearHighlights() {
	for i := range r.conns {
		r.conns[i].Highlighted = false
	}
}

// HighlightPathTo marks every connection on the way from id back to the
// roots, following structural and prerequisite edges alike. It returns the
// number of connections marked.
func (r *Renderer) HighlightPathTo(id string) int {
	visited := map[string]bool{id: true}
	queue := []string{id}
	marked := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, i := range r.incoming[cur] {
			if !r.conns[i].Highlighted {
				r.conns[i].Highlighted = true
				marked++
			}
			from := r.conns[i].From
			if !visited[from] {
				visited[from] = true
				queue = append(queue, from)
			}
		}
	}
	return marked
}

// Highlighted returns the connections currently marked.
func (r *Renderer) Highlighted() []Connection {
	var out []Connection
	for _, c := range r.conns {
		if c.Highlighted {
			out = append(out, c)
		}
	}
	return out
}

// UpdateViewBox aligns the drawing surface with the layout bounds grown by
// padding, and returns the resulting box. Empty bounds leave the view box
// unchanged.
func (r *Renderer) UpdateViewBox(b geom.Bounds, padding float64) geom.Bounds {
	if b.IsEmpty() || !geom.Finite(b.MinX, b.MaxX, b.MinY, b.MaxY, padding) {
		return r.viewBox
	}
	r.viewBox = b.Pad(padding)
	r.hasViewBox = true
	return r.viewBox
}

// ViewBox returns the current view box and whether one was set.
func (r *Renderer) ViewBox() (geom.Bounds, bool) { return r.viewBox, r.hasViewBox }

// SurfacePoint maps a layout point to surface-local pixels, with the
// surface's top-left corner at the view box minimum.
func (r *Renderer) SurfacePoint(p geom.Point) geom.Point {
	if !r.hasViewBox {
		return p
	}
	return geom.Point{X: p.X - r.viewBox.MinX, Y: p.Y - r.viewBox.MinY}
}

// NodeOrigin returns the surface-local top-left corner for the widget of a
// node centered at p.
func (r *Renderer) NodeOrigin(p geom.Point) geom.Point {
	s := r.SurfacePoint(p)
	return geom.Point{X: s.X - r.cfg.NodeWidth/2, Y: s.Y - r.cfg.NodeHeight/2}
}

// Clear removes every connection. Markers and the view box are kept.
func (r *Renderer) Clear() { r.reset() }

func (r *Renderer) reset() {
	r.conns = nil
	r.index = make(map[edgeKey]int)
	r.incoming = make(map[string][]int)
}
