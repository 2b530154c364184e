package viewport

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skilltree/pkg/geom"
)

// Option configures a Controller.
type Option func(*Controller)

// WithConfig sets the viewport constants. Zero fields fall back to defaults.
func WithConfig(cfg Config) Option { return func(c *Controller) { c.cfg = cfg.WithDefaults() } }

// WithOnChange registers the callback fired after every state change.
func WithOnChange(fn func(State)) Option { return func(c *Controller) { c.onChange = fn } }

// WithLogger sets the logger used for dropped input.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithOrigin sets the client position of the surface's top-left corner.
// Event client coordinates are made relative to it.
func WithOrigin(p geom.Point) Option { return func(c *Controller) { c.origin = p } }

// WithState sets the initial state. Invalid states are ignored.
func WithState(s State) Option {
	return func(c *Controller) {
		if s.Valid() {
			c.initial = &s
		}
	}
}

// WithClock sets the time source used to expire transitions.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller is the pan/zoom state machine for one surface. It is not safe
// for concurrent use.
type Controller struct {
	cfg      Config
	state    State
	size     geom.Size
	origin   geom.Point
	onChange func(State)
	logger   *log.Logger
	initial  *State

	dragging      bool
	dragStart     geom.Point
	dragTranslate geom.Point

	touches   []Touch
	pinchDist float64
	panLast   geom.Point

	prev       State
	transition *Transition
	now        func() time.Time
}

// NewController creates a controller for a surface of the given size.
func NewController(size geom.Size, opts ...Option) *Controller {
	c := &Controller{
		cfg:    DefaultConfig(),
		state:  Identity,
		size:   size,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.initial != nil {
		c.state = *c.initial
		c.state.Scale = c.cfg.Clamp(c.state.Scale)
		c.initial = nil
	}
	return c
}

// State returns the current transform.
func (c *Controller) State() State { return c.state }

// Config returns the viewport constants.
func (c *Controller) Config() Config { return c.cfg }

// Size returns the surface size.
func (c *Controller) Size() geom.Size { return c.size }

// Dragging reports whether a mouse drag is in progress.
func (c *Controller) Dragging() bool { return c.dragging }

// Pinching reports whether two touches are active.
func (c *Controller) Pinching() bool { return len(c.touches) >= 2 }

// SetViewportSize updates the surface size used by center-based operations.
func (c *Controller) SetViewportSize(size geom.Size) bool {
	if !geom.Finite(size.Width, size.Height) || size.Width < 0 || size.Height < 0 {
		c.drop("viewport size")
		return false
	}
	c.size = size
	return true
}

// SetOrigin updates the client position of the surface's top-left corner.
func (c *Controller) SetOrigin(p geom.Point) bool {
	if !p.Finite() {
		c.drop("origin")
		return false
	}
	c.origin = p
	return true
}

// Wheel zooms by one notch anchored at the pointer.
func (c *Controller) Wheel(ev WheelEvent) bool {
	if !geom.Finite(ev.ClientX, ev.ClientY, ev.DeltaY) {
		c.drop("wheel")
		return false
	}
	var factor float64
	switch {
	case ev.DeltaY > 0:
		factor = WheelZoomOut
	case ev.DeltaY < 0:
		factor = WheelZoomIn
	default:
		return false
	}
	return c.zoomAt(c.local(ev.ClientX, ev.ClientY), factor)
}

// PointerDown starts a drag unless the press landed on a node or control.
func (c *Controller) PointerDown(ev PointerEvent) bool {
	if ev.Target != TargetCanvas {
		return false
	}
	if !geom.Finite(ev.ClientX, ev.ClientY) {
		c.drop("pointer down")
		return false
	}
	c.stopTransition()
	c.dragging = true
	c.dragStart = geom.Point{X: ev.ClientX, Y: ev.ClientY}
	c.dragTranslate = c.state.Translate()
	return true
}

// PointerMove pans while a drag is in progress.
func (c *Controller) PointerMove(ev PointerEvent) bool {
	if !c.dragging {
		return false
	}
	if !geom.Finite(ev.ClientX, ev.ClientY) {
		c.drop("pointer move")
		return false
	}
	t := c.dragTranslate.Add(geom.Point{X: ev.ClientX, Y: ev.ClientY}.Sub(c.dragStart))
	return c.set(State{Scale: c.state.Scale, TranslateX: t.X, TranslateY: t.Y})
}

// PointerUp ends a drag.
func (c *Controller) PointerUp() {
	c.dragging = false
}

// TouchStart records the active touches. Two touches start a pinch, one
// touch starts a pan.
func (c *Controller) TouchStart(ev TouchEvent) bool {
	if !ev.finite() {
		c.drop("touch start")
		return false
	}
	c.stopTransition()
	c.dragging = false
	c.track(ev.Touches)
	return len(c.touches) > 0
}

// TouchMove pinches with two touches and pans with one.
func (c *Controller) TouchMove(ev TouchEvent) bool {
	if !ev.finite() {
		c.drop("touch move")
		return false
	}
	switch {
	case len(ev.Touches) >= 2:
		a, b := ev.Touches[0].point(), ev.Touches[1].point()
		dist := a.Dist(b)
		prev := c.pinchDist
		c.touches = append(c.touches[:0], ev.Touches...)
		c.pinchDist = dist
		if prev <= 0 || dist <= 0 {
			return false
		}
		mid := a.Mid(b)
		return c.zoomAt(c.local(mid.X, mid.Y), dist/prev)
	case len(ev.Touches) == 1:
		p := ev.Touches[0].point()
		if len(c.touches) != 1 {
			c.track(ev.Touches)
			return false
		}
		delta := p.Sub(c.panLast)
		c.panLast = p
		c.touches[0] = ev.Touches[0]
		t := c.state.Translate().Add(delta)
		return c.set(State{Scale: c.state.Scale, TranslateX: t.X, TranslateY: t.Y})
	}
	return false
}

// TouchEnd updates the active touches after one or more were lifted.
func (c *Controller) TouchEnd(ev TouchEvent) {
	if !ev.finite() {
		c.touches = c.touches[:0]
		c.pinchDist = 0
		return
	}
	c.track(ev.Touches)
}

func (c *Controller) track(touches []Touch) {
	c.touches = append(c.touches[:0], touches...)
	c.pinchDist = 0
	switch len(touches) {
	case 0:
	case 1:
		c.panLast = touches[0].point()
	default:
		c.pinchDist = touches[0].point().Dist(touches[1].point())
	}
}

// ZoomIn zooms by 1+ZoomStep around the viewport center.
func (c *Controller) ZoomIn() bool { return c.animate(c.zoomAt(c.size.Center(), 1+c.cfg.ZoomStep)) }

// ZoomOut zooms by 1-ZoomStep around the viewport center.
func (c *Controller) ZoomOut() bool { return c.animate(c.zoomAt(c.size.Center(), 1-c.cfg.ZoomStep)) }

// ZoomTo sets the scale around the viewport center.
func (c *Controller) ZoomTo(scale float64) bool {
	if !geom.Finite(scale) || scale <= 0 {
		c.drop("zoom scale")
		return false
	}
	return c.animate(c.zoomAt(c.size.Center(), scale/c.state.Scale))
}

// ResetView returns to scale 1 with no translation.
func (c *Controller) ResetView() bool {
	return c.animate(c.set(State{Scale: c.cfg.Clamp(1)}))
}

// CenterOnNode moves the layout point p to the viewport center at
// targetScale, then shifts by offset screen pixels.
func (c *Controller) CenterOnNode(p geom.Point, targetScale float64, offset geom.Point) bool {
	if !p.Finite() || !offset.Finite() || !geom.Finite(targetScale) || targetScale <= 0 {
		c.drop("center on node")
		return false
	}
	s := c.cfg.Clamp(targetScale)
	center := c.size.Center()
	return c.animate(c.set(State{
		Scale:      s,
		TranslateX: center.X - p.X*s + offset.X,
		TranslateY: center.Y - p.Y*s + offset.Y,
	}))
}

// FitToScreen scales the content box to fit inside the viewport minus
// padding on every side and centers it. Empty or zero-sized content, or a
// viewport smaller than twice the padding, leaves the state unchanged.
func (c *Controller) FitToScreen(b geom.Bounds, padding float64) bool {
	if !geom.Finite(b.MinX, b.MaxX, b.MinY, b.MaxY, padding) || b.IsEmpty() {
		c.drop("fit bounds")
		return false
	}
	w, h := b.Width(), b.Height()
	if w <= 0 || h <= 0 {
		return false
	}
	availW := c.size.Width - 2*padding
	availH := c.size.Height - 2*padding
	if availW <= 0 || availH <= 0 {
		return false
	}
	s := c.cfg.Clamp(math.Min(availW/w, availH/h))
	center := c.size.Center()
	mid := b.Center()
	return c.animate(c.set(State{
		Scale:      s,
		TranslateX: center.X - mid.X*s,
		TranslateY: center.Y - mid.Y*s,
	}))
}

// Restore applies a previously saved state. The scale is clamped.
func (c *Controller) Restore(s State) bool {
	if !s.Valid() {
		c.drop("restore")
		return false
	}
	s.Scale = c.cfg.Clamp(s.Scale)
	return c.set(s)
}

// Animating reports whether a transition is still running. A transition
// ends once TransitionDuration has passed even if no frames were drawn.
func (c *Controller) Animating() bool { return c.running() }

// Frame advances the running transition by dt and returns the state to
// display. Without a transition it returns State().
func (c *Controller) Frame(dt time.Duration) State {
	if !c.running() {
		c.transition = nil
		return c.state
	}
	s := c.transition.Update(dt)
	if c.transition.Done() {
		c.transition = nil
	}
	return s
}

// zoomAt scales by factor keeping the screen point a fixed.
func (c *Controller) zoomAt(a geom.Point, factor float64) bool {
	if !a.Finite() || !geom.Finite(factor) || factor <= 0 {
		c.drop("zoom")
		return false
	}
	next := c.cfg.Clamp(c.state.Scale * factor)
	if next == c.state.Scale {
		return false
	}
	canvas := c.state.ToCanvas(a)
	return c.set(State{
		Scale:      next,
		TranslateX: a.X - canvas.X*next,
		TranslateY: a.Y - canvas.Y*next,
	})
}

// set is the only writer of c.state.
func (c *Controller) set(s State) bool {
	if !s.Valid() {
		c.drop("state")
		return false
	}
	s.Scale = c.cfg.Clamp(s.Scale)
	if s == c.state {
		return false
	}
	c.prev = c.visible()
	c.transition = nil
	c.state = s
	if c.onChange != nil {
		c.onChange(s)
	}
	return true
}

// animate starts a transition from the state visible before the last change
// when changed is true.
func (c *Controller) animate(changed bool) bool {
	if !changed || c.cfg.TransitionDuration <= 0 {
		return changed
	}
	c.transition = newTransition(c.prev, c.state, c.cfg.TransitionDuration, c.now())
	return true
}

func (c *Controller) running() bool {
	return c.transition != nil && !c.transition.Done() && !c.transition.Expired(c.now())
}

func (c *Controller) stopTransition() { c.transition = nil }

// visible is the state currently on screen, which lags State() while a
// transition runs.
func (c *Controller) visible() State {
	if c.running() {
		return c.transition.Current()
	}
	return c.state
}

func (c *Controller) local(x, y float64) geom.Point {
	return geom.Point{X: x - c.origin.X, Y: y - c.origin.Y}
}

func (c *Controller) drop(what string) {
	c.logger.Debug("ignoring non-finite viewport input", "input", what)
}
