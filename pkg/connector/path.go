package connector

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/skilltree/pkg/geom"
)

// PathStyle names a path generator.
type PathStyle string

const (
	Straight PathStyle = "straight"
	Step     PathStyle = "step"
	Bezier   PathStyle = "bezier"
)

// DefaultPathStyle is used when Config.Path is empty.
const DefaultPathStyle = Bezier

// PathFunc returns SVG path data from one anchor to another.
type PathFunc func(from, to geom.Point) string

var pathFuncs = map[PathStyle]PathFunc{
	Straight: StraightPath,
	Step:     StepPath,
	Bezier:   BezierPath,
}

// PathFor returns the generator for style. An empty style selects the default.
func PathFor(style PathStyle) (PathFunc, error) {
	if style == "" {
		style = DefaultPathStyle
	}
	fn, ok := pathFuncs[PathStyle(strings.ToLower(string(style)))]
	if !ok {
		return nil, fmt.Errorf("unknown path style %q (must be one of: %s)", style, strings.Join(PathStyles(), ", "))
	}
	return fn, nil
}

// PathStyles lists the supported style names, sorted.
func PathStyles() []string {
	names := make([]string, 0, len(pathFuncs))
	for s := range pathFuncs {
		names = append(names, string(s))
	}
	slices.Sort(names)
	return names
}

// StraightPath is a direct line.
func StraightPath(a, b geom.Point) string {
	return fmt.Sprintf("M %.1f %.1f L %.1f %.1f", a.X, a.Y, b.X, b.Y)
}

// StepPath goes down to the midpoint height, across, then down.
func StepPath(a, b geom.Point) string {
	midY := (a.Y + b.Y) / 2
	return fmt.Sprintf("M %.1f %.1f V %.1f H %.1f V %.1f", a.X, a.Y, midY, b.X, b.Y)
}

// BezierPath is a cubic S-curve with both control points at the midpoint
// height, directly below a and above b.
func BezierPath(a, b geom.Point) string {
	midY := (a.Y + b.Y) / 2
	return fmt.Sprintf("M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f", a.X, a.Y, a.X, midY, b.X, midY, b.X, b.Y)
}
