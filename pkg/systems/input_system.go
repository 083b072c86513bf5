package systems

import (
	"github.com/decker502/halabi/internal/host"
	"github.com/decker502/halabi/pkg/utils"
)

// InputSystem 输入泵
// 每帧读取一次指针状态，与上一帧比较后向宿主注册表派发事件，
// 然后运行本帧的帧回调。
//
// 职责：
//   - 鼠标移动、按下、释放，离开窗口时派发 PointerLeave
//   - 触摸开始、移动、结束（事件携带全部活动触点）
//   - 窗口失去焦点时派发 Blur
//   - 窗口尺寸变化时派发 Resize
type InputSystem struct {
	source   utils.PointerSource
	registry *host.Registry

	prev     utils.PointerSnapshot
	started  bool
	inWindow bool

	width, height float64
}

// NewInputSystem 创建输入泵
// source 为 nil 时使用 ebiten 输入
func NewInputSystem(source utils.PointerSource, registry *host.Registry) *InputSystem {
	if source == nil {
		source = utils.NewEbitenPointerSource()
	}
	return &InputSystem{
		source:   source,
		registry: registry,
	}
}

// Registry 返回事件注册表
func (s *InputSystem) Registry() *host.Registry {
	return s.registry
}

// Resize 更新窗口尺寸，尺寸变化时派发 Resize 事件
func (s *InputSystem) Resize(width, height int) {
	w, h := float64(width), float64(height)
	if w == s.width && h == s.height {
		return
	}
	s.width, s.height = w, h
	s.registry.Dispatch(host.Event{Type: host.EventResize, Width: w, Height: h})
}

// Update 派发本帧输入事件并运行帧回调
// nowMs 为宿主时间戳（毫秒）
func (s *InputSystem) Update(nowMs float64) {
	cur := s.source.Snapshot()
	prev := s.prev
	if !s.started {
		prev = utils.PointerSnapshot{X: cur.X, Y: cur.Y, Focused: true}
	}

	if len(cur.Touches) > 0 || len(prev.Touches) > 0 {
		s.dispatchTouches(prev, cur)
	} else {
		s.dispatchMouse(prev, cur, !s.started)
	}

	if prev.Focused && !cur.Focused {
		s.registry.Dispatch(host.Event{Type: host.EventBlur})
	}

	s.prev = cur
	s.started = true
	s.registry.RunFrames(nowMs)
}

func (s *InputSystem) dispatchMouse(prev, cur utils.PointerSnapshot, first bool) {
	x, y := float64(cur.X), float64(cur.Y)
	moved := first || cur.X != prev.X || cur.Y != prev.Y
	inside := s.contains(x, y)

	if moved {
		switch {
		case inside:
			if !s.inWindow {
				s.registry.Dispatch(host.Event{Type: host.EventPointerEnter, X: x, Y: y})
			}
			s.registry.Dispatch(host.Event{Type: host.EventPointerMove, X: x, Y: y})
		case s.inWindow:
			s.registry.Dispatch(host.Event{Type: host.EventPointerLeave, X: x, Y: y})
		}
		s.inWindow = inside
	}

	if cur.MousePressed && !prev.MousePressed {
		s.registry.Dispatch(host.Event{Type: host.EventPointerDown, X: x, Y: y})
	}
	if !cur.MousePressed && prev.MousePressed {
		s.registry.Dispatch(host.Event{Type: host.EventPointerUp, X: x, Y: y})
	}
}

// dispatchTouches 按开始、移动、结束的顺序派发触摸事件
// 事件的 X/Y 为第一个活动触点；结束事件的 X/Y 为抬起触点的最后位置
func (s *InputSystem) dispatchTouches(prev, cur utils.PointerSnapshot) {
	active := toHostTouches(cur.Touches)
	var first host.Touch
	if len(active) > 0 {
		first = active[0]
	}

	started, moved := false, false
	for _, tp := range cur.Touches {
		old, ok := findTouch(prev.Touches, tp.ID)
		if !ok {
			started = true
		} else if old.X != tp.X || old.Y != tp.Y {
			moved = true
		}
	}
	if started {
		s.registry.Dispatch(host.Event{Type: host.EventTouchStart, X: first.X, Y: first.Y, Touches: active})
	}
	if moved {
		s.registry.Dispatch(host.Event{Type: host.EventTouchMove, X: first.X, Y: first.Y, Touches: active})
	}
	for _, tp := range prev.Touches {
		if cur.HasTouch(tp.ID) {
			continue
		}
		s.registry.Dispatch(host.Event{Type: host.EventTouchEnd, X: float64(tp.X), Y: float64(tp.Y), Touches: active})
	}
	s.inWindow = len(cur.Touches) > 0
}

// contains 判断位置是否在窗口内；尺寸未知时视为在窗口内
func (s *InputSystem) contains(x, y float64) bool {
	if s.width <= 0 || s.height <= 0 {
		return true
	}
	return x >= 0 && y >= 0 && x < s.width && y < s.height
}

func toHostTouches(tps []utils.TouchPoint) []host.Touch {
	if len(tps) == 0 {
		return nil
	}
	out := make([]host.Touch, len(tps))
	for i, tp := range tps {
		out[i] = host.Touch{ID: tp.ID, X: float64(tp.X), Y: float64(tp.Y)}
	}
	return out
}

func findTouch(tps []utils.TouchPoint, id int) (utils.TouchPoint, bool) {
	for _, tp := range tps {
		if tp.ID == id {
			return tp, true
		}
	}
	return utils.TouchPoint{}, false
}
