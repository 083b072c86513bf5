package particle

import (
	"github.com/decker502/halabi/internal/frame"
	"github.com/decker502/halabi/internal/host"
)

// Animator runs a Field on a frame loop and reseeds it on resize.
type Animator struct {
	field   *Field
	surface Surface
	sched   *frame.Scheduler

	target   host.EventTarget
	resizeID host.ListenerID
	listened bool
	frames   uint64
}

// NewAnimator wires field to the host. target may be nil when no resize
// notifications are available; req may be nil for a headless host.
func NewAnimator(field *Field, surface Surface, req host.FrameRequester, target host.EventTarget) *Animator {
	a := &Animator{
		field:   field,
		surface: surface,
		sched:   frame.New(req),
		target:  target,
	}
	if target != nil {
		a.resizeID = target.AddListener(host.EventResize, func(ev host.Event) {
			a.field.Init(ev.Width, ev.Height, ev.Width)
		})
		a.listened = true
	}
	return a
}

// Start begins animating.
func (a *Animator) Start() {
	a.sched.Start(a.step)
}

func (a *Animator) step(elapsedMs float64) {
	a.field.Tick(elapsedMs)
	if a.surface != nil {
		a.field.Render(a.surface)
	}
	a.frames++
}

// Frames returns the number of frames rendered.
func (a *Animator) Frames() uint64 {
	return a.frames
}

// Running reports whether the frame loop is active.
func (a *Animator) Running() bool {
	return a.sched.Running()
}

// Field returns the animated field.
func (a *Animator) Field() *Field {
	return a.field
}

// Close stops the frame loop and removes the resize listener. Idempotent.
func (a *Animator) Close() {
	a.sched.Stop()
	if a.listened {
		a.target.RemoveListener(a.resizeID)
		a.listened = false
	}
}

// Resize reseeds the field for a new surface size.
func (a *Animator) Resize(w, h, vw float64) {
	a.field.Init(w, h, vw)
}
