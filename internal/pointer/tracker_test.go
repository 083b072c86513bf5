package pointer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/halabi/internal/host"
)

func fixedBox(r host.Rect) func() host.Rect {
	return func() host.Rect { return r }
}

func TestTracker_SampleRelativeToBox(t *testing.T) {
	reg := host.NewRegistry()
	tr := New(reg, fixedBox(host.Rect{X: 100, Y: 50, W: 200, H: 100}), host.DeviceFinePointer)
	defer tr.Close()

	var got []Sample
	tr.OnSample(func(s Sample) { got = append(got, s) })

	reg.Dispatch(host.Event{Type: host.EventPointerMove, X: 150, Y: 75})

	require.Len(t, got, 1)
	want := Sample{
		Local:      Point{X: 50, Y: 25},
		Normalized: Point{X: 0.25, Y: 0.25},
		Box:        host.Rect{X: 100, Y: 50, W: 200, H: 100},
	}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("sample mismatch (-want +got):\n%s", diff)
	}
}

func TestTracker_BoundsQueriedPerEvent(t *testing.T) {
	reg := host.NewRegistry()
	box := host.Rect{X: 0, Y: 0, W: 100, H: 100}
	queries := 0
	tr := New(reg, func() host.Rect { queries++; return box }, host.DeviceFinePointer)
	defer tr.Close()

	var last Sample
	tr.OnSample(func(s Sample) { last = s })

	reg.Dispatch(host.Event{Type: host.EventPointerMove, X: 50, Y: 50})
	box.X = 40 // 模拟滚动后布局移动
	reg.Dispatch(host.Event{Type: host.EventPointerMove, X: 50, Y: 50})

	assert.Equal(t, 2, queries)
	assert.Equal(t, 10.0, last.Local.X)
}

func TestTracker_LeaveWhenExitingBox(t *testing.T) {
	reg := host.NewRegistry()
	tr := New(reg, fixedBox(host.Rect{W: 100, H: 100}), host.DeviceFinePointer)
	defer tr.Close()

	leaves := 0
	tr.OnLeave(func() { leaves++ })

	reg.Dispatch(host.Event{Type: host.EventPointerMove, X: 10, Y: 10})
	reg.Dispatch(host.Event{Type: host.EventPointerMove, X: 200, Y: 10})
	reg.Dispatch(host.Event{Type: host.EventPointerMove, X: 300, Y: 10})

	assert.Equal(t, 1, leaves, "leave fires once per exit")
	assert.False(t, tr.Inside())

	reg.Dispatch(host.Event{Type: host.EventPointerMove, X: 10, Y: 10})
	reg.Dispatch(host.Event{Type: host.EventPointerLeave})
	assert.Equal(t, 2, leaves)
}

func TestTracker_EmptyBoxIsInactive(t *testing.T) {
	reg := host.NewRegistry()
	tr := New(reg, fixedBox(host.Rect{X: 10, Y: 10}), host.DeviceFinePointer)
	defer tr.Close()

	tr.OnSample(func(Sample) { t.Fatal("no sample expected before layout") })
	reg.Dispatch(host.Event{Type: host.EventPointerMove, X: 10, Y: 10})
	assert.False(t, tr.Inside())
}

func TestTracker_FirstTouchOnly(t *testing.T) {
	reg := host.NewRegistry()
	tr := New(reg, fixedBox(host.Rect{W: 100, H: 100}), host.DeviceFinePointer)
	defer tr.Close()

	var got []Point
	tr.OnSample(func(s Sample) { got = append(got, s.Local) })

	reg.Dispatch(host.Event{Type: host.EventTouchStart, Touches: []host.Touch{
		{ID: 1, X: 20, Y: 30},
		{ID: 2, X: 80, Y: 90},
	}})

	assert.Equal(t, []Point{{X: 20, Y: 30}}, got)
}

func TestTracker_SecondFingerDoesNotEndFirstContact(t *testing.T) {
	reg := host.NewRegistry()
	tr := New(reg, fixedBox(host.Rect{W: 100, H: 100}), host.DeviceFinePointer)
	defer tr.Close()

	var got []Point
	leaves := 0
	tr.OnSample(func(s Sample) { got = append(got, s.Local) })
	tr.OnLeave(func() { leaves++ })

	first := host.Touch{ID: 1, X: 20, Y: 30}
	second := host.Touch{ID: 2, X: 80, Y: 90}
	reg.Dispatch(host.Event{Type: host.EventTouchStart, Touches: []host.Touch{first}})
	reg.Dispatch(host.Event{Type: host.EventTouchStart, Touches: []host.Touch{first, second}})
	reg.Dispatch(host.Event{Type: host.EventTouchEnd, Touches: []host.Touch{first}})
	assert.True(t, tr.Inside(), "lifting the second finger keeps the first contact")
	assert.Equal(t, 0, leaves)

	reg.Dispatch(host.Event{Type: host.EventTouchMove, Touches: []host.Touch{{ID: 1, X: 60, Y: 40}}})
	assert.Equal(t, []Point{{X: 20, Y: 30}, {X: 20, Y: 30}, {X: 60, Y: 40}}, got)

	// 第一根手指抬起后不再跟随剩下的触点
	reg.Dispatch(host.Event{Type: host.EventTouchStart, Touches: []host.Touch{{ID: 1, X: 60, Y: 40}, second}})
	reg.Dispatch(host.Event{Type: host.EventTouchEnd, Touches: []host.Touch{second}})
	assert.Equal(t, 1, leaves)
	assert.False(t, tr.Inside())

	n := len(got)
	reg.Dispatch(host.Event{Type: host.EventTouchMove, Touches: []host.Touch{{ID: 2, X: 50, Y: 50}}})
	assert.Len(t, got, n)
}

func TestTracker_DisabledOnTouchOnlyDevice(t *testing.T) {
	reg := host.NewRegistry()
	tr := New(reg, fixedBox(host.Rect{W: 100, H: 100}), host.DeviceTouchOnly)

	assert.True(t, tr.Disabled())
	assert.Equal(t, 0, reg.ListenerCount(), "disabled tracker must not register listeners")

	called := false
	tr.OnSample(func(Sample) { called = true })
	for _, typ := range []host.EventType{host.EventPointerMove, host.EventTouchStart, host.EventTouchMove} {
		reg.Dispatch(host.Event{Type: typ, X: 50, Y: 50, Touches: []host.Touch{{X: 50, Y: 50}}})
	}
	assert.False(t, called)
	tr.Close()
}

func TestTracker_Unsubscribe(t *testing.T) {
	reg := host.NewRegistry()
	tr := New(reg, fixedBox(host.Rect{W: 100, H: 100}), host.DeviceFinePointer)
	defer tr.Close()

	n := 0
	off := tr.OnSample(func(Sample) { n++ })
	reg.Dispatch(host.Event{Type: host.EventPointerMove, X: 1, Y: 1})
	off()
	reg.Dispatch(host.Event{Type: host.EventPointerMove, X: 2, Y: 2})
	assert.Equal(t, 1, n)
}

func TestMakeSample_Clamp(t *testing.T) {
	s := MakeSample(250, -10, host.Rect{W: 200, H: 100})
	assert.Equal(t, Point{X: 1, Y: 0}, s.Normalized)
	assert.Equal(t, Point{X: 250, Y: -10}, s.Local)
}
