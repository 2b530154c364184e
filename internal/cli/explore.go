package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skilltree/pkg/connector"
	"github.com/matzehuels/skilltree/pkg/errors"
	"github.com/matzehuels/skilltree/pkg/geom"
	"github.com/matzehuels/skilltree/pkg/graph"
	"github.com/matzehuels/skilltree/pkg/pipeline"
	"github.com/matzehuels/skilltree/pkg/viewport"
)

// One terminal cell covers cellWidth x cellHeight layout pixels at scale 1.
const (
	cellWidth  = 10.0
	cellHeight = 20.0

	panStep   = 40.0
	frameRate = time.Second / 60
)

func (c *CLI) exploreCommand() *cobra.Command {
	var lf layoutFlags
	var states []string

	cmd := &cobra.Command{
		Use:   "explore [records.yaml | layout.json]",
		Short: "Pan and zoom a skill tree in the terminal",
		Long: `Open an interactive view of a records file or a computed layout.json.

Keys: +/- zoom, arrows or hjkl pan, 0 reset, f fit, tab cycles nodes,
esc clears the selection, q quits. The mouse wheel zooms at the pointer,
dragging pans and clicking a node selects it.`,
		Example: `  skilltree explore skills.yaml
  skilltree explore skills.layout.json --state cleave=owned`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.baseOptions()
			if err != nil {
				return err
			}
			opts.Input = args[0]
			lf.apply(cmd, &opts)
			overrides, err := parseStates(states)
			if err != nil {
				return err
			}
			opts.States = overrides

			l, err := c.exploreLayout(cmd, opts, lf.noCache)
			if err != nil {
				return err
			}
			m := newExploreModel(l, opts)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	lf.bind(cmd)
	cmd.Flags().StringArrayVar(&states, "state", nil, "override a node state as id=state (repeatable)")
	return cmd
}

// exploreLayout reads a layout.json as-is and lays records files out
// through the cached pipeline.
func (c *CLI) exploreLayout(cmd *cobra.Command, opts pipeline.Options, noCache bool) (graph.Layout, error) {
	var l graph.Layout
	if strings.HasSuffix(opts.Input, ".layout.json") {
		var err error
		if l, err = readLayout(opts.Input); err != nil {
			return l, err
		}
	} else {
		records, err := pipeline.LoadRecords(opts)
		if err != nil {
			return l, err
		}
		runner, err := c.newRunner(noCache)
		if err != nil {
			return l, err
		}
		defer runner.Close()
		if l, err = runner.Layout(cmd.Context(), records, opts); err != nil {
			return l, err
		}
	}
	if !l.IsTree() {
		return l, errors.New(errors.ErrCodeUnsupported, "explore needs a tree layout, got %q", l.VizType)
	}
	return l, nil
}

type exploreKeys struct {
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Reset   key.Binding
	Fit     key.Binding
	Next    key.Binding
	Prev    key.Binding
	Clear   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k exploreKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.ZoomIn, k.ZoomOut, k.Fit, k.Next, k.Help, k.Quit}
}

func (k exploreKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ZoomIn, k.ZoomOut, k.Reset, k.Fit},
		{k.Up, k.Down, k.Left, k.Right},
		{k.Next, k.Prev, k.Clear},
		{k.Help, k.Quit},
	}
}

var defaultExploreKeys = exploreKeys{
	ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	ZoomOut: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "pan up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "pan down")),
	Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "pan left")),
	Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "pan right")),
	Reset:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset")),
	Fit:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fit")),
	Next:    key.NewBinding(key.WithKeys("tab", "n"), key.WithHelp("tab", "next node")),
	Prev:    key.NewBinding(key.WithKeys("shift+tab", "p"), key.WithHelp("shift+tab", "prev node")),
	Clear:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type frameMsg time.Time

func frameCmd() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// exploreModel is the bubbletea model behind "skilltree explore". The
// terminal is a surface of width*cellWidth by rows*cellHeight pixels driven
// by a viewport.Controller.
type exploreModel struct {
	layout  graph.Layout
	ctrl    *viewport.Controller
	view    viewport.State
	palette connector.Palette
	states  map[string]connector.State
	index   map[string]int
	padding float64

	keys exploreKeys
	help help.Model

	width, height int
	sized         bool
	selected      int
	ticking       bool
	last          time.Time
}

func newExploreModel(l graph.Layout, opts pipeline.Options) *exploreModel {
	stateFn := opts.StateFunc()
	states := make(map[string]connector.State, len(l.Nodes))
	index := make(map[string]int, len(l.Nodes))
	for i, n := range l.TreeNodes() {
		states[n.ID] = stateFn(n)
		index[n.ID] = i
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = cellHeight
	}
	ctrl := viewport.NewController(geom.Size{}, viewport.WithConfig(opts.ViewportConfig), viewport.WithLogger(opts.Logger))
	return &exploreModel{
		layout:   l,
		ctrl:     ctrl,
		view:     ctrl.State(),
		palette:  opts.Connector.WithDefaults().Palette,
		states:   states,
		index:    index,
		padding:  padding,
		keys:     defaultExploreKeys,
		help:     help.New(),
		selected: -1,
	}
}

func (m *exploreModel) Init() tea.Cmd { return nil }

// rows is the number of terminal rows used for the tree. The last two rows
// hold the status and help lines.
func (m *exploreModel) rows() int {
	return max(m.height-2, 1)
}

func (m *exploreModel) surface() geom.Size {
	return geom.Size{Width: float64(m.width) * cellWidth, Height: float64(m.rows()) * cellHeight}
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.ctrl.SetViewportSize(m.surface())
		if !m.sized {
			m.sized = true
			m.ctrl.FitToScreen(m.layout.Bounds, m.padding)
			m.settle()
		}
		return m, nil

	case frameMsg:
		t := time.Time(msg)
		m.view = m.ctrl.Frame(t.Sub(m.last))
		m.last = t
		if m.ctrl.Animating() {
			return m, frameCmd()
		}
		m.ticking = false
		m.view = m.ctrl.State()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}
	return m, nil
}

func (m *exploreModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, m.keys.ZoomIn):
		return m.changed(m.ctrl.ZoomIn())
	case key.Matches(msg, m.keys.ZoomOut):
		return m.changed(m.ctrl.ZoomOut())
	case key.Matches(msg, m.keys.Up):
		return m.changed(m.pan(0, panStep))
	case key.Matches(msg, m.keys.Down):
		return m.changed(m.pan(0, -panStep))
	case key.Matches(msg, m.keys.Left):
		return m.changed(m.pan(panStep, 0))
	case key.Matches(msg, m.keys.Right):
		return m.changed(m.pan(-panStep, 0))
	case key.Matches(msg, m.keys.Reset):
		return m.changed(m.ctrl.ResetView())
	case key.Matches(msg, m.keys.Fit):
		return m.changed(m.ctrl.FitToScreen(m.layout.Bounds, m.padding))
	case key.Matches(msg, m.keys.Next):
		return m.selectNode(m.selected + 1)
	case key.Matches(msg, m.keys.Prev):
		if m.selected < 0 {
			return m.selectNode(len(m.layout.Nodes) - 1)
		}
		return m.selectNode(m.selected - 1)
	case key.Matches(msg, m.keys.Clear):
		m.selected = -1
	}
	return nil
}

func (m *exploreModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	x := (float64(msg.X) + 0.5) * cellWidth
	y := (float64(msg.Y) + 0.5) * cellHeight

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		return m.changed(m.ctrl.Wheel(viewport.WheelEvent{ClientX: x, ClientY: y, DeltaY: -1}))
	case msg.Button == tea.MouseButtonWheelDown:
		return m.changed(m.ctrl.Wheel(viewport.WheelEvent{ClientX: x, ClientY: y, DeltaY: 1}))
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if i := m.nodeAt(msg.X, msg.Y); i >= 0 {
			m.ctrl.PointerDown(viewport.PointerEvent{ClientX: x, ClientY: y, Target: viewport.TargetNode})
			m.selected = i
			return nil
		}
		m.ctrl.PointerDown(viewport.PointerEvent{ClientX: x, ClientY: y, Target: viewport.TargetCanvas})
	case msg.Action == tea.MouseActionMotion:
		return m.changed(m.ctrl.PointerMove(viewport.PointerEvent{ClientX: x, ClientY: y}))
	case msg.Action == tea.MouseActionRelease:
		m.ctrl.PointerUp()
	}
	return nil
}

// pan shifts the view by dx, dy screen pixels with a synthetic drag.
func (m *exploreModel) pan(dx, dy float64) bool {
	c := m.ctrl.Size().Center()
	m.ctrl.PointerDown(viewport.PointerEvent{ClientX: c.X, ClientY: c.Y})
	changed := m.ctrl.PointerMove(viewport.PointerEvent{ClientX: c.X + dx, ClientY: c.Y + dy})
	m.ctrl.PointerUp()
	return changed
}

// selectNode selects the node at index i (wrapping) and centers it at the
// current scale.
func (m *exploreModel) selectNode(i int) tea.Cmd {
	n := len(m.layout.Nodes)
	if n == 0 {
		return nil
	}
	m.selected = ((i % n) + n) % n
	node := m.layout.Nodes[m.selected]
	return m.changed(m.ctrl.CenterOnNode(geom.Point{X: node.X, Y: node.Y}, m.ctrl.State().Scale, geom.Point{}))
}

// changed syncs the displayed state after a controller call and starts the
// frame loop when a transition began.
func (m *exploreModel) changed(ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	if !m.ctrl.Animating() {
		m.view = m.ctrl.State()
		return nil
	}
	if m.ticking {
		return nil
	}
	m.ticking = true
	m.last = time.Now()
	return frameCmd()
}

// settle finishes any running transition immediately.
func (m *exploreModel) settle() {
	for m.ctrl.Animating() {
		m.ctrl.Frame(m.ctrl.Config().TransitionDuration)
	}
	m.view = m.ctrl.State()
}

// cellOf maps a layout point to a terminal cell under the displayed state.
func (m *exploreModel) cellOf(p geom.Point) (col, row int) {
	s := m.view.ToScreen(p)
	return int(math.Floor(s.X / cellWidth)), int(math.Floor(s.Y / cellHeight))
}

// nodeAt returns the index of the node whose label covers the cell, or -1.
func (m *exploreModel) nodeAt(col, row int) int {
	for i, n := range m.layout.Nodes {
		c, r := m.cellOf(geom.Point{X: n.X, Y: n.Y})
		if r != row {
			continue
		}
		w := len([]rune(m.label(n)))
		start := c - w/2
		if col >= start && col < start+w {
			return i
		}
	}
	return -1
}

// label truncates the node's display name to its on-screen width.
func (m *exploreModel) label(n graph.Node) string {
	name := n.ID
	for _, k := range []string{"name", "label"} {
		if s, ok := n.Payload[k].(string); ok && s != "" {
			name = s
			break
		}
	}
	w := max(int(m.layout.NodeWidth*m.view.Scale/cellWidth), 1)
	r := []rune(name)
	if len(r) <= w {
		return name
	}
	if w == 1 {
		return string(r[:1])
	}
	return string(r[:w-1]) + "…"
}

type cell struct {
	ch        rune
	state     connector.State
	node      bool
	highlight bool
	selected  bool
}

func (m *exploreModel) View() string {
	if !m.sized {
		return "loading..."
	}
	grid := m.draw()
	var b strings.Builder
	for _, row := range grid {
		b.WriteString(m.renderRow(row))
		b.WriteByte('\n')
	}
	b.WriteString(m.status())
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// draw rasterizes edges first and node labels on top.
func (m *exploreModel) draw() [][]cell {
	rows := m.rows()
	grid := make([][]cell, rows)
	for i := range grid {
		grid[i] = make([]cell, m.width)
	}
	path := m.highlightedPath()

	pos := make(map[string]geom.Point, len(m.layout.Nodes))
	for _, n := range m.layout.Nodes {
		pos[n.ID] = geom.Point{X: n.X, Y: n.Y}
	}
	for _, e := range m.layout.Edges {
		from, ok1 := pos[e.From]
		to, ok2 := pos[e.To]
		if !ok1 || !ok2 {
			continue
		}
		c0, r0 := m.cellOf(from)
		c1, r1 := m.cellOf(to)
		ch := edgeRune(c1-c0, r1-r0, e.Kind == graph.EdgeStructural)
		hl := path[e.To] == e.From
		plot(c0, r0, c1, r1, func(c, r int) {
			if r < 0 || r >= rows || c < 0 || c >= m.width {
				return
			}
			grid[r][c] = cell{ch: ch, state: m.states[e.To], highlight: hl}
		})
	}

	for i, n := range m.layout.Nodes {
		c, r := m.cellOf(geom.Point{X: n.X, Y: n.Y})
		if r < 0 || r >= rows {
			continue
		}
		label := []rune(m.label(n))
		start := c - len(label)/2
		for j, ch := range label {
			col := start + j
			if col < 0 || col >= m.width {
				continue
			}
			grid[r][col] = cell{ch: ch, state: m.states[n.ID], node: true, selected: i == m.selected}
		}
	}
	return grid
}

// highlightedPath maps each node on the root path of the selection to its
// parent.
func (m *exploreModel) highlightedPath() map[string]string {
	path := make(map[string]string)
	if m.selected < 0 || m.selected >= len(m.layout.Nodes) {
		return path
	}
	id := m.layout.Nodes[m.selected].ID
	for range m.layout.Nodes {
		i, ok := m.index[id]
		if !ok {
			break
		}
		parent := m.layout.Nodes[i].Parent
		if parent == "" {
			break
		}
		path[id] = parent
		id = parent
	}
	return path
}

func (m *exploreModel) renderRow(row []cell) string {
	var b strings.Builder
	for i := 0; i < len(row); {
		j := i + 1
		for j < len(row) && sameStyle(row[i], row[j]) {
			j++
		}
		var run strings.Builder
		for _, c := range row[i:j] {
			if c.ch == 0 {
				run.WriteByte(' ')
			} else {
				run.WriteRune(c.ch)
			}
		}
		if row[i].ch == 0 {
			b.WriteString(run.String())
		} else {
			b.WriteString(m.cellStyle(row[i]).Render(run.String()))
		}
		i = j
	}
	return b.String()
}

func sameStyle(a, b cell) bool {
	if (a.ch == 0) != (b.ch == 0) {
		return false
	}
	return a.state == b.state && a.node == b.node && a.highlight == b.highlight && a.selected == b.selected
}

func (m *exploreModel) cellStyle(c cell) lipgloss.Style {
	st := stateStyle(m.palette, c.state)
	switch {
	case c.selected:
		st = st.Reverse(true).Bold(true)
	case c.node, c.highlight:
		st = st.Bold(true)
	default:
		st = st.Faint(true)
	}
	return st
}

func (m *exploreModel) status() string {
	parts := []string{
		StyleNumber.Render(fmt.Sprintf("%d%%", m.view.Percent())),
		StyleDim.Render(fmt.Sprintf("x %.0f y %.0f", m.view.TranslateX, m.view.TranslateY)),
		StyleDim.Render(fmt.Sprintf("%d nodes", len(m.layout.Nodes))),
	}
	if m.selected >= 0 && m.selected < len(m.layout.Nodes) {
		n := m.layout.Nodes[m.selected]
		st := m.states[n.ID]
		parts = append(parts, StyleValue.Render(n.ID)+" "+stateStyle(m.palette, st).Render(string(st)))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

func edgeRune(dx, dy int, structural bool) rune {
	if !structural {
		return '·'
	}
	switch {
	case dx == 0:
		return '│'
	case dy == 0:
		return '─'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// plot walks the cells of the line from (c0, r0) to (c1, r1) with
// Bresenham's algorithm.
func plot(c0, r0, c1, r1 int, fn func(c, r int)) {
	dx := abs(c1 - c0)
	dy := -abs(r1 - r0)
	sx, sy := 1, 1
	if c0 > c1 {
		sx = -1
	}
	if r0 > r1 {
		sy = -1
	}
	e := dx + dy
	for {
		fn(c0, r0)
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			c0 += sx
		}
		if e2 <= dx {
			e += dx
			r0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
