// Package tilt computes the 3D tilt and glow highlight of a card that follows
// the pointer.
//
// The computation is pure. Renderers receive State values through an apply
// callback and decide how to draw them (projected quad, CSS-like transform,
// terminal shading).
package tilt

import (
	"github.com/decker502/halabi/internal/host"
	"github.com/decker502/halabi/internal/pointer"
)

// DefaultMaxTilt is the reference maximum rotation in degrees.
const DefaultMaxTilt = 10.0

// State is the presentation state of one card.
type State struct {
	RotateX float64 // degrees, positive tips the top edge away
	RotateY float64 // degrees, positive tips the right edge away
	GlowX   float64 // percent of width
	GlowY   float64 // percent of height
	// GlowOpacity is 1 while the pointer is over the card and 0 at rest.
	GlowOpacity float64
	Active      bool
}

// Rest is the state of a card with no pointer over it.
var Rest = State{}

// Compute maps a position local to box into a tilt state.
// A box without area yields Rest.
func Compute(local pointer.Point, box host.Rect, maxTilt float64) State {
	if box.Empty() {
		return Rest
	}
	halfW, halfH := box.W/2, box.H/2
	return State{
		RotateX:     ((local.Y - halfH) / halfH) * -maxTilt,
		RotateY:     ((local.X - halfW) / halfW) * maxTilt,
		GlowX:       local.X / box.W * 100,
		GlowY:       local.Y / box.H * 100,
		GlowOpacity: 1,
		Active:      true,
	}
}

// Glow tracks the tilt state of one card.
type Glow struct {
	maxTilt float64
	state   State
}

// New creates a Glow. A non-positive maxTilt selects DefaultMaxTilt.
func New(maxTilt float64) *Glow {
	if maxTilt <= 0 {
		maxTilt = DefaultMaxTilt
	}
	return &Glow{maxTilt: maxTilt}
}

// MaxTilt returns the configured maximum rotation.
func (g *Glow) MaxTilt() float64 {
	return g.maxTilt
}

// OnPointerMove updates the state from a pointer sample. The sample's box is
// the one queried for this event.
func (g *Glow) OnPointerMove(s pointer.Sample) State {
	g.state = Compute(s.Local, s.Box, g.maxTilt)
	return g.state
}

// OnPointerLeave resets rotation and glow.
func (g *Glow) OnPointerLeave() State {
	g.state = Rest
	return g.state
}

// State returns the last computed state.
func (g *Glow) State() State {
	return g.state
}

// Bind feeds tracker samples into g and hands every new state to apply.
// The returned function detaches both subscriptions; it does not close the
// tracker. On a disabled tracker nothing is bound and apply is never called.
func Bind(tr *pointer.Tracker, g *Glow, apply func(State)) (unbind func()) {
	if apply == nil {
		apply = func(State) {}
	}
	offSample := tr.OnSample(func(s pointer.Sample) { apply(g.OnPointerMove(s)) })
	offLeave := tr.OnLeave(func() { apply(g.OnPointerLeave()) })
	return func() {
		offSample()
		offLeave()
	}
}
