// Package viewport owns the pan and zoom state of a rendering surface.
//
// A [Controller] holds a [State] (scale plus a screen-space translation) and
// turns wheel, pointer and touch events into state updates. Every zoom keeps
// one screen point fixed: the point under the cursor for wheel zoom, the
// midpoint of two fingers for pinch zoom, the viewport center for
// [Controller.ZoomIn] and [Controller.ZoomOut].
//
// # Coordinates
//
// Layout space is where the tree engine places nodes. Screen space is the
// pixel space of the host surface, with its origin at the surface's top-left
// corner. A layout point p maps to screen as p*Scale + Translate, which is the
// CSS transform "translate(tx, ty) scale(s)". The order matters: translate is
// applied in screen pixels and scale in layout units. [State.Transform]
// produces that string.
//
// # Guarding
//
// The scale is clamped to [Config.MinScale, Config.MaxScale] before every
// assignment. Non-finite event coordinates are dropped at the call boundary
// and leave the state untouched. Operations report whether they changed the
// state; OnChange fires only when they did.
//
// # Transitions
//
// Programmatic camera moves update the state immediately. When
// Config.TransitionDuration is positive they also start a [Transition] that a
// host may sample frame by frame to animate towards the new state.
package viewport
