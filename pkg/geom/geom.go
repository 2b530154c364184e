// Package geom holds the value types shared by the layout engine, the
// viewport controller and the connector renderer.
//
// All coordinates are float64 user units. Layout space has its origin at the
// horizontal center of the tree's first row; screen space is the pixel space
// of the host's rendering surface.
package geom

import "math"

// Point is a 2-D coordinate.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Mid returns the midpoint between p and q.
func (p Point) Mid(q Point) Point { return Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2} }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(q.X-p.X, q.Y-p.Y) }

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool { return Finite(p.X, p.Y) }

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Center returns the center of a rectangle of this size anchored at the origin.
func (s Size) Center() Point { return Point{X: s.Width / 2, Y: s.Height / 2} }

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX float64 `json:"minX" bson:"min_x"`
	MaxX float64 `json:"maxX" bson:"max_x"`
	MinY float64 `json:"minY" bson:"min_y"`
	MaxY float64 `json:"maxY" bson:"max_y"`
}

// EmptyBounds returns an inverted box that any Extend call will replace.
func EmptyBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinY: math.Inf(1), MaxY: math.Inf(-1),
	}
}

// IsEmpty reports whether the box contains no area and no point.
func (b Bounds) IsEmpty() bool { return b.MinX > b.MaxX || b.MinY > b.MaxY }

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint of the box.
func (b Bounds) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Extend grows the box to cover a rectangle of size (w, h) centered at p.
func (b Bounds) Extend(p Point, w, h float64) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, p.X-w/2),
		MaxX: math.Max(b.MaxX, p.X+w/2),
		MinY: math.Min(b.MinY, p.Y-h/2),
		MaxY: math.Max(b.MaxY, p.Y+h/2),
	}
}

// Pad returns the box grown by padding on every side.
func (b Bounds) Pad(padding float64) Bounds {
	return Bounds{
		MinX: b.MinX - padding, MaxX: b.MaxX + padding,
		MinY: b.MinY - padding, MaxY: b.MaxY + padding,
	}
}

// Contains reports whether p lies inside the box, edges included.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Finite reports whether every value is a finite number.
func Finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
