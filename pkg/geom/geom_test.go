package geom

import (
	"math"
	"testing"
)

func TestBoundsExtend(t *testing.T) {
	b := EmptyBounds()
	if !b.IsEmpty() {
		t.Fatal("EmptyBounds() should be empty")
	}

	b = b.Extend(Point{X: 0, Y: 0}, 10, 20)
	b = b.Extend(Point{X: 100, Y: 50}, 10, 20)

	want := Bounds{MinX: -5, MaxX: 105, MinY: -10, MaxY: 60}
	if b != want {
		t.Errorf("Extend() = %+v, want %+v", b, want)
	}
	if got := b.Width(); got != 110 {
		t.Errorf("Width() = %v, want 110", got)
	}
	if got := b.Height(); got != 70 {
		t.Errorf("Height() = %v, want 70", got)
	}
	if got := b.Center(); got != (Point{X: 50, Y: 25}) {
		t.Errorf("Center() = %+v, want (50,25)", got)
	}
}

func TestBoundsPadContains(t *testing.T) {
	b := Bounds{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10}.Pad(5)
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"inside", Point{X: 5, Y: 5}, true},
		{"padded edge", Point{X: -5, Y: 15}, true},
		{"outside", Point{X: -6, Y: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestFinite(t *testing.T) {
	if !Finite(1, 2, -3) {
		t.Error("Finite(1,2,-3) = false")
	}
	if Finite(1, math.NaN()) {
		t.Error("Finite(NaN) = true")
	}
	if Finite(math.Inf(-1)) {
		t.Error("Finite(-Inf) = true")
	}
	if (Point{X: math.Inf(1)}).Finite() {
		t.Error("Point{Inf}.Finite() = true")
	}
}

func TestPointDist(t *testing.T) {
	if got := (Point{X: 0, Y: 0}).Dist(Point{X: 3, Y: 4}); got != 5 {
		t.Errorf("Dist() = %v, want 5", got)
	}
	if got := (Point{X: 2, Y: 2}).Mid(Point{X: 4, Y: 6}); got != (Point{X: 3, Y: 4}) {
		t.Errorf("Mid() = %+v, want (3,4)", got)
	}
}
