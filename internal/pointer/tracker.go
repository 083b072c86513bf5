// Package pointer normalizes mouse and touch input into samples relative to a
// target region.
package pointer

import "github.com/decker502/halabi/internal/host"

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// Sample is one pointer position relative to the tracked region.
type Sample struct {
	// Local is the position relative to the box origin.
	Local Point
	// Normalized is Local divided by the box size, clamped to [0,1].
	Normalized Point
	// Box is the bounding box queried for this sample.
	Box host.Rect
}

// Tracker turns host events into Samples for one region.
//
// The region's bounding box is queried through the bounds function on every
// event and never cached, so scrolling or resizing between events cannot
// produce stale coordinates. A tracker created for a device without a fine
// pointer is disabled: it registers nothing on the host and never emits.
type Tracker struct {
	target host.EventTarget
	bounds func() host.Rect

	disabled bool
	closed   bool
	inside   bool

	// touching is set while the first contact of a touch sequence is down;
	// touchID identifies it.
	touching bool
	touchID  int

	ids    []host.ListenerID
	subs   []*subscription
	nextID int
}

type subscription struct {
	id     int
	sample func(Sample)
	leave  func()
}

// New creates a tracker. bounds returns the current bounding box of the
// region; caps is consulted once, here.
func New(target host.EventTarget, bounds func() host.Rect, caps host.Capabilities) *Tracker {
	t := &Tracker{
		target: target,
		bounds: bounds,
	}
	if caps != nil && !caps.FinePointer() {
		t.disabled = true
		return t
	}
	if target == nil || bounds == nil {
		return t
	}

	t.listen(host.EventPointerMove, func(ev host.Event) { t.move(ev.X, ev.Y) })
	t.listen(host.EventPointerLeave, func(host.Event) { t.leave() })
	t.listen(host.EventBlur, func(host.Event) { t.leave() })
	t.listen(host.EventTouchStart, t.touchStart)
	t.listen(host.EventTouchMove, t.touchMove)
	t.listen(host.EventTouchEnd, t.touchEnd)
	t.listen(host.EventTouchCancel, t.touchEnd)
	return t
}

// Disabled reports whether the device lacks a fine pointer. Callers render a
// static fallback instead of the pointer effect.
func (t *Tracker) Disabled() bool {
	return t.disabled
}

// Inside reports whether the last sample was inside the region.
func (t *Tracker) Inside() bool {
	return t.inside
}

// OnSample registers fn for every in-region pointer position.
// The returned function removes the subscription.
func (t *Tracker) OnSample(fn func(Sample)) func() {
	return t.subscribe(&subscription{sample: fn})
}

// OnLeave registers fn for the pointer leaving the region (or the window).
func (t *Tracker) OnLeave(fn func()) func() {
	return t.subscribe(&subscription{leave: fn})
}

// Close deregisters every host listener and drops all subscriptions.
// It is idempotent.
func (t *Tracker) Close() {
	if t.closed {
		return
	}
	t.closed = true
	for _, id := range t.ids {
		t.target.RemoveListener(id)
	}
	t.ids = nil
	t.subs = nil
	t.inside = false
	t.touching = false
}

func (t *Tracker) listen(typ host.EventType, fn host.Listener) {
	t.ids = append(t.ids, t.target.AddListener(typ, fn))
}

func (t *Tracker) subscribe(s *subscription) func() {
	if t.disabled || t.closed {
		return func() {}
	}
	t.nextID++
	s.id = t.nextID
	t.subs = append(t.subs, s)
	return func() {
		for i, v := range t.subs {
			if v.id == s.id {
				t.subs = append(t.subs[:i], t.subs[i+1:]...)
				return
			}
		}
	}
}

// touchStart latches onto the first contact. Later fingers joining the
// sequence are ignored.
func (t *Tracker) touchStart(ev host.Event) {
	if t.touching {
		t.touchMove(ev)
		return
	}
	if len(ev.Touches) == 0 {
		return
	}
	first := ev.Touches[0]
	t.touching, t.touchID = true, first.ID
	t.move(first.X, first.Y)
}

func (t *Tracker) touchMove(ev host.Event) {
	if !t.touching {
		return
	}
	if tp, ok := ev.Touch(t.touchID); ok {
		t.move(tp.X, tp.Y)
	}
}

// touchEnd reports a leave only once the first contact is no longer active.
func (t *Tracker) touchEnd(ev host.Event) {
	if t.touching {
		if _, ok := ev.Touch(t.touchID); ok {
			return
		}
	}
	t.touching = false
	t.leave()
}

func (t *Tracker) move(x, y float64) {
	box := t.bounds()
	if box.Empty() || !box.Contains(x, y) {
		t.leave()
		return
	}
	t.inside = true
	s := MakeSample(x, y, box)
	for _, sub := range append([]*subscription(nil), t.subs...) {
		if sub.sample != nil {
			sub.sample(s)
		}
	}
}

func (t *Tracker) leave() {
	if !t.inside {
		return
	}
	t.inside = false
	for _, sub := range append([]*subscription(nil), t.subs...) {
		if sub.leave != nil {
			sub.leave()
		}
	}
}

// MakeSample computes a sample for a client position against box.
// box must be non-empty.
func MakeSample(x, y float64, box host.Rect) Sample {
	local := Point{X: x - box.X, Y: y - box.Y}
	return Sample{
		Local: local,
		Normalized: Point{
			X: clamp01(local.X / box.W),
			Y: clamp01(local.Y / box.H),
		},
		Box: box,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
