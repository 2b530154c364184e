package viewport

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Transition interpolates the visible transform between two states. It
// never changes the controller's real state, which is already at To.
type Transition struct {
	From, To State

	// Deadline is when the transition counts as finished without frames.
	Deadline time.Time

	scale, tx, ty *gween.Tween
	current       State
	done          bool
}

func newTransition(from, to State, d time.Duration, start time.Time) *Transition {
	secs := float32(d.Seconds())
	return &Transition{
		From:     from,
		To:       to,
		Deadline: start.Add(d),
		scale:    gween.New(float32(from.Scale), float32(to.Scale), secs, ease.OutCubic),
		tx:       gween.New(float32(from.TranslateX), float32(to.TranslateX), secs, ease.OutCubic),
		ty:       gween.New(float32(from.TranslateY), float32(to.TranslateY), secs, ease.OutCubic),
		current:  from,
	}
}

// Update advances the transition by dt and returns the state to display.
// Once finished it returns To exactly.
func (t *Transition) Update(dt time.Duration) State {
	if t.done {
		return t.To
	}
	step := float32(dt.Seconds())
	s, d1 := t.scale.Update(step)
	x, d2 := t.tx.Update(step)
	y, d3 := t.ty.Update(step)
	t.current = State{Scale: float64(s), TranslateX: float64(x), TranslateY: float64(y)}
	if d1 && d2 && d3 {
		t.done = true
		t.current = t.To
	}
	return t.current
}

// Current returns the last displayed state.
func (t *Transition) Current() State { return t.current }

// Done reports whether the transition reached To.
func (t *Transition) Done() bool { return t.done }

// Expired reports whether now is at or past the deadline.
func (t *Transition) Expired(now time.Time) bool { return !now.Before(t.Deadline) }
