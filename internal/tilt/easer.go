package tilt

import "github.com/decker502/halabi/pkg/utils/easing"

// Easer animates the displayed state towards the latest target. It only
// affects presentation: Glow.State always holds the exact computed value.
type Easer struct {
	duration float64
	ease     func(float64) float64

	from, to, cur State
	elapsed       float64
}

// NewEaser creates an easer that reaches each new target after durationMs.
// ease defaults to easing.OutCubic.
func NewEaser(durationMs float64, ease func(float64) float64) *Easer {
	if ease == nil {
		ease = easing.OutCubic
	}
	return &Easer{duration: durationMs, ease: ease}
}

// Target starts a transition from the current displayed state to s.
func (e *Easer) Target(s State) {
	if s == e.to {
		return
	}
	e.from = e.cur
	e.to = s
	e.elapsed = 0
	if e.duration <= 0 {
		e.cur = s
	}
}

// Advance moves the transition forward by dtMs and returns the displayed state.
func (e *Easer) Advance(dtMs float64) State {
	if e.Settled() {
		e.cur = e.to
		return e.cur
	}
	e.elapsed += dtMs
	t := e.elapsed / e.duration
	if t >= 1 {
		e.cur = e.to
		return e.cur
	}
	k := e.ease(t)
	e.cur = State{
		RotateX:     easing.Lerp(e.from.RotateX, e.to.RotateX, k),
		RotateY:     easing.Lerp(e.from.RotateY, e.to.RotateY, k),
		GlowX:       easing.Lerp(e.from.GlowX, e.to.GlowX, k),
		GlowY:       easing.Lerp(e.from.GlowY, e.to.GlowY, k),
		GlowOpacity: easing.Lerp(e.from.GlowOpacity, e.to.GlowOpacity, k),
		Active:      e.to.Active,
	}
	return e.cur
}

// Current returns the displayed state.
func (e *Easer) Current() State {
	return e.cur
}

// Settled reports whether the displayed state has reached the target.
func (e *Easer) Settled() bool {
	return e.duration <= 0 || e.elapsed >= e.duration || e.cur == e.to
}
