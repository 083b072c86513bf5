package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/halabi/internal/host"
)

var container = host.Rect{X: 100, Y: 0, W: 400, H: 300}

func TestSlider_Clamp(t *testing.T) {
	tests := []struct {
		name     string
		pointerX float64
		want     float64
	}{
		{"容器左侧之外", 20, 0},
		{"左边缘", 100, 0},
		{"正中", 300, 50},
		{"四分之三", 400, 75},
		{"右边缘", 500, 100},
		{"容器右侧之外", 900, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(nil, DefaultSplit)
			s.OnDragStart()
			assert.Equal(t, tt.want, s.OnDragMove(tt.pointerX, container))
		})
	}
}

func TestSlider_MoveIgnoredWhenIdle(t *testing.T) {
	s := New(nil, DefaultSplit)
	assert.Equal(t, 50.0, s.OnDragMove(400, container))
}

func TestSlider_EmptyBoxKeepsSplit(t *testing.T) {
	s := New(nil, 30)
	s.OnDragStart()
	assert.Equal(t, 30.0, s.OnDragMove(400, host.Rect{X: 100}))
}

func TestSlider_NoSnapBack(t *testing.T) {
	reg := host.NewRegistry()
	s := New(reg, DefaultSplit)
	s.OnDragStart()
	s.OnDragMove(180, container)
	reg.Dispatch(host.Event{Type: host.EventPointerUp})

	assert.False(t, s.Dragging())
	assert.Equal(t, 20.0, s.Split())
}

func TestSlider_GestureScopedWindowListeners(t *testing.T) {
	reg := host.NewRegistry()
	s := New(reg, DefaultSplit)
	assert.Equal(t, 0, reg.ListenerCount(), "idle slider holds no window listeners")

	s.OnDragStart()
	assert.Equal(t, 4, reg.ListenerCount())
	s.OnDragStart()
	assert.Equal(t, 4, reg.ListenerCount(), "second start does not stack listeners")

	// 在容器外松开也要结束拖动
	reg.Dispatch(host.Event{Type: host.EventPointerUp, X: -50, Y: -50})
	assert.False(t, s.Dragging())
	assert.Equal(t, 0, reg.ListenerCount())
}

func TestSlider_EndEvents(t *testing.T) {
	for _, typ := range []host.EventType{host.EventPointerUp, host.EventTouchEnd, host.EventTouchCancel, host.EventBlur} {
		t.Run(typ.String(), func(t *testing.T) {
			reg := host.NewRegistry()
			s := New(reg, DefaultSplit)
			s.OnDragStart()
			reg.Dispatch(host.Event{Type: typ})
			assert.False(t, s.Dragging())
			assert.Equal(t, 0, reg.ListenerCount())
		})
	}
}

func TestSlider_Bind(t *testing.T) {
	reg := host.NewRegistry()
	s := New(reg, DefaultSplit)
	box := container
	unbind := s.Bind(reg, func() host.Rect { return box })
	require.Equal(t, 4, reg.ListenerCount())

	var changes []float64
	s.OnChange(func(v float64) { changes = append(changes, v) })

	// 容器外按下不开始拖动
	reg.Dispatch(host.Event{Type: host.EventPointerDown, X: 50, Y: 10})
	assert.False(t, s.Dragging())

	reg.Dispatch(host.Event{Type: host.EventPointerDown, X: 200, Y: 10})
	assert.True(t, s.Dragging())
	assert.Equal(t, 25.0, s.Split())

	// 拖动中容器发生位移，坐标按最新包围盒计算
	box.X = 0
	reg.Dispatch(host.Event{Type: host.EventPointerMove, X: 200, Y: 10})
	assert.Equal(t, 50.0, s.Split())

	reg.Dispatch(host.Event{Type: host.EventPointerMove, X: 1000, Y: 10})
	assert.Equal(t, 100.0, s.Split())

	reg.Dispatch(host.Event{Type: host.EventPointerUp})
	reg.Dispatch(host.Event{Type: host.EventPointerMove, X: 100, Y: 10})
	assert.Equal(t, 100.0, s.Split())
	assert.Equal(t, []float64{25, 50, 100}, changes)

	unbind()
	assert.Equal(t, 0, reg.ListenerCount())
}

func TestSlider_BindTouchFirstContact(t *testing.T) {
	reg := host.NewRegistry()
	s := New(reg, DefaultSplit)
	unbind := s.Bind(reg, func() host.Rect { return container })
	defer unbind()

	reg.Dispatch(host.Event{Type: host.EventTouchStart, Touches: []host.Touch{{X: 140, Y: 5}, {X: 480, Y: 5}}})
	assert.Equal(t, 10.0, s.Split())
	reg.Dispatch(host.Event{Type: host.EventTouchMove, Touches: []host.Touch{{X: 460, Y: 5}}})
	assert.Equal(t, 90.0, s.Split())
	reg.Dispatch(host.Event{Type: host.EventTouchEnd})
	assert.False(t, s.Dragging())
}

func TestSlider_BindSecondFingerKeepsGesture(t *testing.T) {
	reg := host.NewRegistry()
	s := New(reg, DefaultSplit)
	unbind := s.Bind(reg, func() host.Rect { return container })
	defer unbind()

	first := host.Touch{ID: 1, X: 140, Y: 5}
	second := host.Touch{ID: 2, X: 480, Y: 5}
	reg.Dispatch(host.Event{Type: host.EventTouchStart, Touches: []host.Touch{first}})
	reg.Dispatch(host.Event{Type: host.EventTouchStart, Touches: []host.Touch{first, second}})
	reg.Dispatch(host.Event{Type: host.EventTouchEnd, Touches: []host.Touch{first}})
	require.True(t, s.Dragging())
	assert.Equal(t, 10.0, s.Split())

	reg.Dispatch(host.Event{Type: host.EventTouchMove, Touches: []host.Touch{{ID: 1, X: 460, Y: 5}}})
	assert.Equal(t, 90.0, s.Split())

	// 只有第一个触点抬起才结束拖动，之后的其它触点不再驱动分割线
	reg.Dispatch(host.Event{Type: host.EventTouchStart, Touches: []host.Touch{{ID: 1, X: 460, Y: 5}, second}})
	reg.Dispatch(host.Event{Type: host.EventTouchEnd, Touches: []host.Touch{second}})
	assert.False(t, s.Dragging())
	reg.Dispatch(host.Event{Type: host.EventTouchMove, Touches: []host.Touch{{ID: 2, X: 300, Y: 5}}})
	assert.Equal(t, 90.0, s.Split())
}

func TestSlider_UnbindDuringGesture(t *testing.T) {
	reg := host.NewRegistry()
	s := New(reg, DefaultSplit)
	unbind := s.Bind(reg, func() host.Rect { return container })
	reg.Dispatch(host.Event{Type: host.EventPointerDown, X: 300, Y: 10})
	require.True(t, s.Dragging())

	unbind()
	assert.False(t, s.Dragging())
	assert.Equal(t, 0, reg.ListenerCount())
}

func TestLayout(t *testing.T) {
	before, handle := Layout(container, 25)
	assert.Equal(t, host.Rect{X: 100, Y: 0, W: 100, H: 300}, before)
	assert.Equal(t, 200.0, handle)

	before, handle = Layout(container, 150)
	assert.Equal(t, 400.0, before.W)
	assert.Equal(t, 500.0, handle)
}

func TestNew_ClampsInitial(t *testing.T) {
	assert.Equal(t, 0.0, New(nil, -5).Split())
	assert.Equal(t, 100.0, New(nil, 130).Split())
}
