package host

// Registry is a single-threaded EventTarget and FrameRequester.
//
// It keeps listeners in registration order and frame callbacks in request
// order. Callbacks requested while RunFrames is executing are deferred to the
// next RunFrames call, which matches how a browser schedules
// requestAnimationFrame from inside a frame callback.
//
// Registry is not safe for concurrent use; hosts call it from their frame loop.
type Registry struct {
	nextListener ListenerID
	listeners    map[ListenerID]registration
	order        []ListenerID

	nextFrame  FrameID
	frames     map[FrameID]FrameCallback
	frameOrder []FrameID
}

type registration struct {
	typ EventType
	fn  Listener
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		listeners: make(map[ListenerID]registration),
		frames:    make(map[FrameID]FrameCallback),
	}
}

// AddListener implements EventTarget.
func (r *Registry) AddListener(t EventType, fn Listener) ListenerID {
	r.nextListener++
	id := r.nextListener
	r.listeners[id] = registration{typ: t, fn: fn}
	r.order = append(r.order, id)
	return id
}

// RemoveListener implements EventTarget. Unknown ids are ignored.
func (r *Registry) RemoveListener(id ListenerID) {
	if _, ok := r.listeners[id]; !ok {
		return
	}
	delete(r.listeners, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Dispatch delivers ev to every listener registered for its type.
// Listeners added during dispatch do not see the current event; listeners
// removed during dispatch are skipped.
func (r *Registry) Dispatch(ev Event) {
	if len(r.order) == 0 {
		return
	}
	snapshot := make([]ListenerID, len(r.order))
	copy(snapshot, r.order)
	for _, id := range snapshot {
		reg, ok := r.listeners[id]
		if !ok || reg.typ != ev.Type {
			continue
		}
		reg.fn(ev)
	}
}

// ListenerCount returns the number of live registrations.
func (r *Registry) ListenerCount() int {
	return len(r.listeners)
}

// ListenerCountFor returns the number of live registrations of one event type.
func (r *Registry) ListenerCountFor(t EventType) int {
	n := 0
	for _, reg := range r.listeners {
		if reg.typ == t {
			n++
		}
	}
	return n
}

// RequestFrame implements FrameRequester.
func (r *Registry) RequestFrame(cb FrameCallback) FrameID {
	r.nextFrame++
	id := r.nextFrame
	r.frames[id] = cb
	r.frameOrder = append(r.frameOrder, id)
	return id
}

// CancelFrame implements FrameRequester. Unknown or already-run ids are ignored.
func (r *Registry) CancelFrame(id FrameID) {
	delete(r.frames, id)
}

// RunFrames invokes every callback that was pending when the call started.
func (r *Registry) RunFrames(nowMs float64) {
	pending := r.frameOrder
	r.frameOrder = nil
	for _, id := range pending {
		cb, ok := r.frames[id]
		if !ok {
			continue
		}
		delete(r.frames, id)
		cb(nowMs)
	}
}

// PendingFrames returns the number of outstanding frame requests.
func (r *Registry) PendingFrames() int {
	return len(r.frames)
}
