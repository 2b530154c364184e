package viewport

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/skilltree/pkg/geom"
)

// State is the viewport transform mapping layout space to screen space.
type State struct {
	Scale      float64 `json:"scale" bson:"scale"`
	TranslateX float64 `json:"translateX" bson:"translate_x"`
	TranslateY float64 `json:"translateY" bson:"translate_y"`
}

// Identity is the untransformed view.
var Identity = State{Scale: 1}

// Translate returns the translation as a point.
func (s State) Translate() geom.Point { return geom.Point{X: s.TranslateX, Y: s.TranslateY} }

// ToScreen maps a layout point to screen space.
func (s State) ToScreen(p geom.Point) geom.Point {
	return geom.Point{X: p.X*s.Scale + s.TranslateX, Y: p.Y*s.Scale + s.TranslateY}
}

// ToCanvas maps a screen point to layout space.
func (s State) ToCanvas(p geom.Point) geom.Point {
	return geom.Point{X: (p.X - s.TranslateX) / s.Scale, Y: (p.Y - s.TranslateY) / s.Scale}
}

// Transform returns the CSS transform for s: translation first, then scale.
func (s State) Transform() string {
	return fmt.Sprintf("translate(%spx, %spx) scale(%s)", num(s.TranslateX), num(s.TranslateY), num(s.Scale))
}

// SVGTransform returns the equivalent SVG transform attribute value.
func (s State) SVGTransform() string {
	return fmt.Sprintf("translate(%s %s) scale(%s)", num(s.TranslateX), num(s.TranslateY), num(s.Scale))
}

// Percent returns the scale as a rounded percentage, as shown in zoom readouts.
func (s State) Percent() int { return int(s.Scale*100 + 0.5) }

// Valid reports whether every field is finite and the scale is positive.
func (s State) Valid() bool {
	return geom.Finite(s.Scale, s.TranslateX, s.TranslateY) && s.Scale > 0
}

// num formats v for transform strings, rounded to 1/1000 of a unit.
func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
