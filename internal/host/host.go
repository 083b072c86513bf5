// Package host describes the environment that the pointer-reactive effects run in.
//
// Effects never talk to a window system directly. They register listeners on an
// EventTarget, ask a FrameRequester for the next display frame and query
// Capabilities once at construction. The Ebitengine input pump, the terminal
// preview and the unit tests all drive the same Registry implementation.
package host

// Rect is a bounding box in surface coordinates (origin top-left).
type Rect struct {
	X, Y float64
	W, H float64
}

// Empty reports whether the box has no area, i.e. the element is not laid out yet.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether (x, y) lies inside the box, edges included.
func (r Rect) Contains(x, y float64) bool {
	if r.Empty() {
		return false
	}
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// EventType enumerates the input events a host can emit.
type EventType int

const (
	EventPointerMove EventType = iota
	EventPointerDown
	EventPointerUp
	EventPointerEnter
	EventPointerLeave
	EventTouchStart
	EventTouchMove
	EventTouchEnd
	EventTouchCancel
	// EventBlur is emitted when the host window loses focus; a drag in progress
	// must end because the matching release may never be delivered.
	EventBlur
	EventResize
)

var eventTypeNames = [...]string{
	"pointermove", "pointerdown", "pointerup", "pointerenter", "pointerleave",
	"touchstart", "touchmove", "touchend", "touchcancel", "blur", "resize",
}

func (t EventType) String() string {
	if t < 0 || int(t) >= len(eventTypeNames) {
		return "unknown"
	}
	return eventTypeNames[t]
}

// Touch is one contact point of a touch event.
type Touch struct {
	ID   int
	X, Y float64
}

// Event is a single input or environment notification.
//
// Pointer events carry X/Y in surface coordinates. Touch events carry the
// active contacts in Touches (X/Y mirror the first contact). Resize events carry
// the new surface size in Width/Height.
type Event struct {
	Type    EventType
	X, Y    float64
	Touches []Touch
	Width   float64
	Height  float64
}

// Touch returns the active contact with the given id.
func (e Event) Touch(id int) (Touch, bool) {
	for _, t := range e.Touches {
		if t.ID == id {
			return t, true
		}
	}
	return Touch{}, false
}

// Listener receives dispatched events.
type Listener func(Event)

// ListenerID identifies a registration so it can be removed later.
type ListenerID uint64

// EventTarget is anything listeners can be attached to (a window, an element).
type EventTarget interface {
	AddListener(t EventType, fn Listener) ListenerID
	RemoveListener(id ListenerID)
}

// FrameCallback is invoked once per display frame with the host timestamp in milliseconds.
type FrameCallback func(nowMs float64)

// FrameID identifies an outstanding frame request.
type FrameID uint64

// FrameRequester is the host's "call me on the next frame" primitive.
type FrameRequester interface {
	RequestFrame(cb FrameCallback) FrameID
	CancelFrame(id FrameID)
}

// Capabilities answers device-class questions.
type Capabilities interface {
	// FinePointer reports whether the device has a hover-capable pointer (mouse, pen).
	FinePointer() bool
}

// DeviceClass is a fixed Capabilities answer.
type DeviceClass int

const (
	DeviceFinePointer DeviceClass = iota
	DeviceTouchOnly
)

// FinePointer implements Capabilities.
func (d DeviceClass) FinePointer() bool {
	return d == DeviceFinePointer
}
