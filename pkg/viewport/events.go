package viewport

import "github.com/matzehuels/skilltree/pkg/geom"

// Target classifies the element a pointer press landed on.
type Target int

const (
	// TargetCanvas is the empty surface; presses here start a drag.
	TargetCanvas Target = iota
	// TargetNode is a node widget; presses select rather than pan.
	TargetNode
	// TargetControl is a UI control such as a zoom button.
	TargetControl
)

// WheelEvent is a wheel notch at a client position. Positive DeltaY scrolls
// down and zooms out.
type WheelEvent struct {
	ClientX, ClientY float64
	DeltaY           float64
}

// PointerEvent is a mouse or pen event at a client position.
type PointerEvent struct {
	ClientX, ClientY float64
	Target           Target
}

// Touch is one active contact point.
type Touch struct {
	ID               int
	ClientX, ClientY float64
}

func (t Touch) point() geom.Point { return geom.Point{X: t.ClientX, Y: t.ClientY} }

// TouchEvent carries every touch still in contact with the surface.
type TouchEvent struct {
	Touches []Touch
}

func (e TouchEvent) finite() bool {
	for _, t := range e.Touches {
		if !geom.Finite(t.ClientX, t.ClientY) {
			return false
		}
	}
	return true
}
