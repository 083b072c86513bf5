// Package compare implements the before/after comparison slider: one image is
// clipped to a percentage of the container width driven by a drag gesture.
package compare

import (
	"math"

	"github.com/decker502/halabi/internal/host"
)

// DefaultSplit is the initial split percentage.
const DefaultSplit = 50.0

// Slider holds the split position and the drag gesture state.
//
// Drag-end listeners on the window exist only while a gesture is active: they
// are attached by OnDragStart and removed by OnDragEnd, so an idle slider holds
// no window-level registrations.
type Slider struct {
	window host.EventTarget

	split    float64
	dragging bool

	// touching is set when the gesture was started by a touch; touchID is
	// the contact that drives it.
	touching bool
	touchID  int

	gestureIDs []host.ListenerID
	onChange   func(split float64)
}

// New creates a slider. window receives the drag-end listeners during a
// gesture; it may be nil, in which case gestures end only through OnDragEnd.
func New(window host.EventTarget, initial float64) *Slider {
	return &Slider{window: window, split: clampPercent(initial)}
}

// Split returns the current split percentage in [0, 100].
func (s *Slider) Split() float64 {
	return s.split
}

// SetSplit moves the split directly, e.g. from keyboard input.
func (s *Slider) SetSplit(v float64) {
	s.set(clampPercent(v))
}

// Dragging reports whether a gesture is active.
func (s *Slider) Dragging() bool {
	return s.dragging
}

// OnChange registers fn to be called with every new split value.
func (s *Slider) OnChange(fn func(split float64)) {
	s.onChange = fn
}

// OnDragStart begins a gesture. Calling it during a gesture is a no-op.
func (s *Slider) OnDragStart() {
	if s.dragging {
		return
	}
	s.dragging = true
	if s.window == nil {
		return
	}
	end := func(host.Event) { s.OnDragEnd() }
	for _, t := range []host.EventType{host.EventPointerUp, host.EventBlur} {
		s.gestureIDs = append(s.gestureIDs, s.window.AddListener(t, end))
	}
	for _, t := range []host.EventType{host.EventTouchEnd, host.EventTouchCancel} {
		s.gestureIDs = append(s.gestureIDs, s.window.AddListener(t, s.touchEnd))
	}
}

// OnDragMove updates the split from a pointer x position while dragging.
// box is the container's current bounding box; an empty box leaves the split
// unchanged.
func (s *Slider) OnDragMove(pointerX float64, box host.Rect) float64 {
	if !s.dragging {
		return s.split
	}
	if v, ok := SplitAt(pointerX, box); ok {
		s.set(v)
	}
	return s.split
}

// OnDragEnd finishes the gesture and detaches the window listeners.
// The split stays where the pointer left it.
func (s *Slider) OnDragEnd() {
	s.dragging = false
	s.touching = false
	for _, id := range s.gestureIDs {
		s.window.RemoveListener(id)
	}
	s.gestureIDs = nil
}

// touchEnd ends the gesture once its driving contact has lifted. Another
// finger lifting leaves the gesture running.
func (s *Slider) touchEnd(ev host.Event) {
	if s.touching {
		if _, ok := ev.Touch(s.touchID); ok {
			return
		}
	}
	s.OnDragEnd()
}

// Close ends any gesture in progress.
func (s *Slider) Close() {
	s.OnDragEnd()
}

func (s *Slider) set(v float64) {
	if v == s.split {
		return
	}
	s.split = v
	if s.onChange != nil {
		s.onChange(v)
	}
}

// Bind connects the slider to the container's events on target. A press
// (pointer or first touch) inside box starts a gesture and moves the split to
// the press position; moves update it while the gesture lasts. A touch gesture
// follows its first contact only. box is queried on every event. The returned
// function removes the container listeners and ends any gesture.
func (s *Slider) Bind(target host.EventTarget, box func() host.Rect) (unbind func()) {
	press := func(x, y float64) {
		b := box()
		if !b.Contains(x, y) {
			return
		}
		s.OnDragStart()
		s.OnDragMove(x, b)
	}
	move := func(x float64) {
		if s.dragging {
			s.OnDragMove(x, box())
		}
	}

	ids := []host.ListenerID{
		target.AddListener(host.EventPointerDown, func(ev host.Event) { press(ev.X, ev.Y) }),
		target.AddListener(host.EventPointerMove, func(ev host.Event) { move(ev.X) }),
		target.AddListener(host.EventTouchStart, func(ev host.Event) {
			if s.dragging || len(ev.Touches) == 0 {
				return
			}
			first := ev.Touches[0]
			press(first.X, first.Y)
			if s.dragging {
				s.touching, s.touchID = true, first.ID
			}
		}),
		target.AddListener(host.EventTouchMove, func(ev host.Event) {
			if !s.touching {
				return
			}
			if tp, ok := ev.Touch(s.touchID); ok {
				move(tp.X)
			}
		}),
	}
	return func() {
		for _, id := range ids {
			target.RemoveListener(id)
		}
		ids = nil
		s.OnDragEnd()
	}
}

// SplitAt converts a pointer x position into a split percentage for box.
// ok is false when box has no width.
func SplitAt(pointerX float64, box host.Rect) (split float64, ok bool) {
	if box.W <= 0 {
		return 0, false
	}
	return clampPercent((pointerX - box.X) / box.W * 100), true
}

// Layout returns the visible region of the "before" layer (clipped from the
// left edge) and the x position of the divider handle.
func Layout(box host.Rect, split float64) (before host.Rect, handleX float64) {
	split = clampPercent(split)
	w := box.W * split / 100
	return host.Rect{X: box.X, Y: box.Y, W: w, H: box.H}, box.X + w
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultSplit
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
