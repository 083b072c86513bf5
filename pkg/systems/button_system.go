package systems

import (
	"github.com/decker502/halabi/internal/host"
	"github.com/decker502/halabi/pkg/components"
	"github.com/decker502/halabi/pkg/ecs"
)

// ButtonSystem 按钮交互系统
// 负责处理按钮和可点击组件的悬停、按下和点击
//
// 职责：
//   - 指针移动时更新按钮状态（UIHovered / UINormal）
//   - 按下和释放都落在同一个组件上时触发 OnClick
//   - 重叠时只有 ZIndex 最大的组件响应
//   - 根据 Enabled 状态决定是否响应交互
type ButtonSystem struct {
	entityManager *ecs.EntityManager
	target        host.EventTarget
	ids           []host.ListenerID

	pressed    ecs.EntityID
	hasPressed bool
	clicks     int
}

// NewButtonSystem 创建按钮交互系统并注册宿主监听
func NewButtonSystem(em *ecs.EntityManager, target host.EventTarget) *ButtonSystem {
	s := &ButtonSystem{entityManager: em, target: target}
	if target == nil {
		return s
	}
	s.ids = []host.ListenerID{
		target.AddListener(host.EventPointerMove, func(ev host.Event) { s.hover(ev.X, ev.Y) }),
		target.AddListener(host.EventPointerLeave, func(host.Event) { s.hover(-1, -1) }),
		target.AddListener(host.EventPointerDown, func(ev host.Event) { s.press(ev.X, ev.Y) }),
		target.AddListener(host.EventPointerUp, func(ev host.Event) { s.release(ev.X, ev.Y) }),
		target.AddListener(host.EventTouchStart, func(ev host.Event) {
			if len(ev.Touches) == 1 {
				s.press(ev.X, ev.Y)
			}
		}),
		target.AddListener(host.EventTouchEnd, func(ev host.Event) { s.release(ev.X, ev.Y) }),
		target.AddListener(host.EventBlur, func(host.Event) { s.cancel() }),
	}
	return s
}

// Clicks 返回已触发的点击次数
func (s *ButtonSystem) Clicks() int {
	return s.clicks
}

// Update 同步禁用状态
func (s *ButtonSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.ButtonComponent](s.entityManager) {
		button, _ := ecs.GetComponent[*components.ButtonComponent](s.entityManager, id)
		if !button.Enabled {
			button.State = components.UIDisabled
		} else if button.State == components.UIDisabled {
			button.State = components.UINormal
		}
	}
}

// hitTest 返回位置上最上层的可交互实体
func (s *ButtonSystem) hitTest(x, y float64) (ecs.EntityID, bool) {
	var (
		best  ecs.EntityID
		bestZ int
		found bool
	)
	for _, id := range ecs.GetEntitiesWith1[*components.BoundsComponent](s.entityManager) {
		if !s.enabled(id) {
			continue
		}
		b, _ := ecs.GetComponent[*components.BoundsComponent](s.entityManager, id)
		if !b.Rect.Contains(x, y) {
			continue
		}
		z := 0
		if zi, ok := ecs.GetComponent[*components.ZIndexComponent](s.entityManager, id); ok {
			z = zi.Z
		}
		if !found || z >= bestZ {
			best, bestZ, found = id, z, true
		}
	}
	return best, found
}

func (s *ButtonSystem) enabled(id ecs.EntityID) bool {
	if button, ok := ecs.GetComponent[*components.ButtonComponent](s.entityManager, id); ok {
		return button.Enabled
	}
	if c, ok := ecs.GetComponent[*components.ClickableComponent](s.entityManager, id); ok {
		return c.IsEnabled
	}
	// 可见面板遮挡下面的组件
	if p, ok := ecs.GetComponent[*components.PanelComponent](s.entityManager, id); ok {
		return p.Visible
	}
	return false
}

func (s *ButtonSystem) hover(x, y float64) {
	hit, found := s.hitTest(x, y)
	for _, id := range ecs.GetEntitiesWith1[*components.ButtonComponent](s.entityManager) {
		button, _ := ecs.GetComponent[*components.ButtonComponent](s.entityManager, id)
		if !button.Enabled {
			continue
		}
		switch {
		case found && id == hit && s.hasPressed && s.pressed == id:
			button.State = components.UIClicked
		case found && id == hit:
			button.State = components.UIHovered
		default:
			button.State = components.UINormal
		}
	}
}

func (s *ButtonSystem) press(x, y float64) {
	id, ok := s.hitTest(x, y)
	s.pressed, s.hasPressed = id, ok
	if !ok {
		return
	}
	if button, ok := ecs.GetComponent[*components.ButtonComponent](s.entityManager, id); ok {
		button.State = components.UIClicked
	}
}

func (s *ButtonSystem) release(x, y float64) {
	if !s.hasPressed {
		return
	}
	pressed := s.pressed
	s.hasPressed = false

	id, ok := s.hitTest(x, y)
	if button, isButton := ecs.GetComponent[*components.ButtonComponent](s.entityManager, pressed); isButton && button.Enabled {
		button.State = components.UINormal
		if ok && id == pressed {
			button.State = components.UIHovered
		}
	}
	if !ok || id != pressed {
		return
	}
	s.fire(id)
}

func (s *ButtonSystem) cancel() {
	s.hasPressed = false
	s.hover(-1, -1)
}

func (s *ButtonSystem) fire(id ecs.EntityID) {
	var onClick func()
	if button, ok := ecs.GetComponent[*components.ButtonComponent](s.entityManager, id); ok {
		onClick = button.OnClick
	} else if c, ok := ecs.GetComponent[*components.ClickableComponent](s.entityManager, id); ok {
		onClick = c.OnClick
	}
	s.clicks++
	if onClick != nil {
		onClick()
	}
}

// Close 移除宿主监听
func (s *ButtonSystem) Close() {
	for _, id := range s.ids {
		s.target.RemoveListener(id)
	}
	s.ids = nil
}
