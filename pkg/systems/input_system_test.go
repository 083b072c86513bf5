package systems

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/decker502/halabi/internal/host"
	"github.com/decker502/halabi/pkg/utils"
)

// scriptedSource 按顺序返回预设的指针状态
type scriptedSource struct {
	frames []utils.PointerSnapshot
	i      int
}

func (s *scriptedSource) Snapshot() utils.PointerSnapshot {
	if s.i >= len(s.frames) {
		return s.frames[len(s.frames)-1]
	}
	f := s.frames[s.i]
	s.i++
	return f
}

// recordEvents 在注册表上记录所有事件类型
func recordEvents(reg *host.Registry) *[]host.Event {
	var got []host.Event
	for t := host.EventPointerMove; t <= host.EventResize; t++ {
		reg.AddListener(t, func(ev host.Event) { got = append(got, ev) })
	}
	return &got
}

func eventTypes(evs []host.Event) []string {
	out := make([]string, len(evs))
	for i, ev := range evs {
		out[i] = ev.Type.String()
	}
	return out
}

func mouse(x, y int, pressed bool) utils.PointerSnapshot {
	return utils.PointerSnapshot{X: x, Y: y, MousePressed: pressed, Focused: true}
}

func touches(tps ...utils.TouchPoint) utils.PointerSnapshot {
	return utils.PointerSnapshot{Touches: tps, Focused: true}
}

func TestInputSystem_EventSequences(t *testing.T) {
	tests := []struct {
		name   string
		frames []utils.PointerSnapshot
		want   []string
	}{
		{
			name:   "首帧进入并移动",
			frames: []utils.PointerSnapshot{mouse(10, 10, false)},
			want:   []string{"pointerenter", "pointermove"},
		},
		{
			name:   "静止不派发",
			frames: []utils.PointerSnapshot{mouse(10, 10, false), mouse(10, 10, false)},
			want:   []string{"pointerenter", "pointermove"},
		},
		{
			name:   "按下拖动释放",
			frames: []utils.PointerSnapshot{mouse(10, 10, false), mouse(10, 10, true), mouse(30, 10, true), mouse(30, 10, false)},
			want:   []string{"pointerenter", "pointermove", "pointerdown", "pointermove", "pointerup"},
		},
		{
			name:   "移出窗口",
			frames: []utils.PointerSnapshot{mouse(10, 10, false), mouse(900, 10, false), mouse(950, 10, false)},
			want:   []string{"pointerenter", "pointermove", "pointerleave"},
		},
		{
			name: "失去焦点",
			frames: []utils.PointerSnapshot{
				mouse(10, 10, true),
				{X: 10, Y: 10, MousePressed: true, Focused: false},
			},
			want: []string{"pointerenter", "pointermove", "pointerdown", "blur"},
		},
		{
			name: "单指触摸",
			frames: []utils.PointerSnapshot{
				touches(utils.TouchPoint{ID: 1, X: 5, Y: 5}),
				touches(utils.TouchPoint{ID: 1, X: 8, Y: 5}),
				touches(),
			},
			want: []string{"touchstart", "touchmove", "touchend"},
		},
		{
			name: "第二个触点加入",
			frames: []utils.PointerSnapshot{
				touches(utils.TouchPoint{ID: 1, X: 5, Y: 5}),
				touches(utils.TouchPoint{ID: 1, X: 5, Y: 5}, utils.TouchPoint{ID: 2, X: 50, Y: 50}),
			},
			want: []string{"touchstart", "touchstart"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := host.NewRegistry()
			got := recordEvents(reg)
			in := NewInputSystem(&scriptedSource{frames: tt.frames}, reg)
			in.width, in.height = 800, 600

			for i := range tt.frames {
				in.Update(float64(i) * 16)
			}
			if diff := cmp.Diff(tt.want, eventTypes(*got)); diff != "" {
				t.Errorf("event sequence mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInputSystem_TouchEndCarriesLastPosition(t *testing.T) {
	reg := host.NewRegistry()
	var end host.Event
	reg.AddListener(host.EventTouchEnd, func(ev host.Event) { end = ev })

	in := NewInputSystem(&scriptedSource{frames: []utils.PointerSnapshot{
		touches(utils.TouchPoint{ID: 3, X: 40, Y: 60}),
		touches(),
	}}, reg)
	in.Update(0)
	in.Update(16)

	if end.X != 40 || end.Y != 60 {
		t.Errorf("touchend at (%v,%v), want (40,60)", end.X, end.Y)
	}
	if len(end.Touches) != 0 {
		t.Errorf("touchend should carry remaining contacts only, got %v", end.Touches)
	}
}

func TestInputSystem_ResizeDispatchesOnChange(t *testing.T) {
	reg := host.NewRegistry()
	got := recordEvents(reg)
	in := NewInputSystem(&scriptedSource{frames: []utils.PointerSnapshot{mouse(0, 0, false)}}, reg)

	in.Resize(1280, 800)
	in.Resize(1280, 800)
	in.Resize(375, 812)

	want := []host.Event{
		{Type: host.EventResize, Width: 1280, Height: 800},
		{Type: host.EventResize, Width: 375, Height: 812},
	}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("resize events mismatch (-want +got):\n%s", diff)
	}
}

func TestInputSystem_RunsFrameCallbacks(t *testing.T) {
	reg := host.NewRegistry()
	in := NewInputSystem(&scriptedSource{frames: []utils.PointerSnapshot{mouse(0, 0, false)}}, reg)

	var stamps []float64
	reg.RequestFrame(func(now float64) { stamps = append(stamps, now) })
	in.Update(16)
	in.Update(32)

	if diff := cmp.Diff([]float64{16}, stamps); diff != "" {
		t.Errorf("frame callbacks mismatch (-want +got):\n%s", diff)
	}
	if in.Registry() != reg {
		t.Error("Registry() should return the pump's registry")
	}
}
