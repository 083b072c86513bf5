package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_DispatchOrderAndType(t *testing.T) {
	r := NewRegistry()
	var got []string

	r.AddListener(EventPointerMove, func(Event) { got = append(got, "move-1") })
	r.AddListener(EventPointerDown, func(Event) { got = append(got, "down") })
	r.AddListener(EventPointerMove, func(Event) { got = append(got, "move-2") })

	r.Dispatch(Event{Type: EventPointerMove})

	assert.Equal(t, []string{"move-1", "move-2"}, got)
	assert.Equal(t, 3, r.ListenerCount())
	assert.Equal(t, 2, r.ListenerCountFor(EventPointerMove))
}

func TestRegistry_RemoveDuringDispatch(t *testing.T) {
	r := NewRegistry()
	calls := 0
	var second ListenerID

	r.AddListener(EventPointerUp, func(Event) {
		calls++
		r.RemoveListener(second)
	})
	second = r.AddListener(EventPointerUp, func(Event) { calls += 10 })

	r.Dispatch(Event{Type: EventPointerUp})

	assert.Equal(t, 1, calls, "listener removed mid-dispatch must not run")
	assert.Equal(t, 1, r.ListenerCount())
}

func TestRegistry_RemoveUnknownIsNoop(t *testing.T) {
	r := NewRegistry()
	r.RemoveListener(42)
	r.CancelFrame(7)
	assert.Equal(t, 0, r.ListenerCount())
	assert.Equal(t, 0, r.PendingFrames())
}

func TestRegistry_FramesRequestedDuringRunAreDeferred(t *testing.T) {
	r := NewRegistry()
	var stamps []float64

	var tick FrameCallback
	tick = func(now float64) {
		stamps = append(stamps, now)
		r.RequestFrame(tick)
	}
	r.RequestFrame(tick)

	r.RunFrames(16)
	require.Equal(t, []float64{16}, stamps)
	assert.Equal(t, 1, r.PendingFrames())

	r.RunFrames(32)
	assert.Equal(t, []float64{16, 32}, stamps)
}

func TestRegistry_CancelFrame(t *testing.T) {
	r := NewRegistry()
	ran := false
	id := r.RequestFrame(func(float64) { ran = true })
	r.CancelFrame(id)
	r.RunFrames(1)
	assert.False(t, ran)
	assert.Equal(t, 0, r.PendingFrames())
}

func TestRect(t *testing.T) {
	tests := []struct {
		name     string
		rect     Rect
		x, y     float64
		empty    bool
		contains bool
	}{
		{"内部", Rect{X: 10, Y: 10, W: 100, H: 50}, 50, 30, false, true},
		{"左上角", Rect{X: 10, Y: 10, W: 100, H: 50}, 10, 10, false, true},
		{"外部", Rect{X: 10, Y: 10, W: 100, H: 50}, 111, 30, false, false},
		{"零宽度", Rect{X: 10, Y: 10, W: 0, H: 50}, 10, 30, true, false},
		{"零高度", Rect{X: 10, Y: 10, W: 10, H: 0}, 10, 10, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.empty, tt.rect.Empty())
			assert.Equal(t, tt.contains, tt.rect.Contains(tt.x, tt.y))
		})
	}
}

func TestDeviceClass(t *testing.T) {
	assert.True(t, DeviceFinePointer.FinePointer())
	assert.False(t, DeviceTouchOnly.FinePointer())
	assert.Equal(t, "pointerup", EventPointerUp.String())
	assert.Equal(t, "unknown", EventType(99).String())
}

func TestEvent_TouchByID(t *testing.T) {
	ev := Event{Type: EventTouchMove, Touches: []Touch{{ID: 3, X: 1, Y: 2}, {ID: 7, X: 5, Y: 6}}}

	got, ok := ev.Touch(7)
	require.True(t, ok)
	assert.Equal(t, Touch{ID: 7, X: 5, Y: 6}, got)

	_, ok = ev.Touch(1)
	assert.False(t, ok)
	_, ok = Event{Type: EventTouchEnd}.Touch(3)
	assert.False(t, ok)
}
