package systems

import (
	"github.com/charmbracelet/harmonica"

	"github.com/decker502/halabi/internal/host"
	"github.com/decker502/halabi/internal/pointer"
	"github.com/decker502/halabi/pkg/components"
	"github.com/decker502/halabi/pkg/config"
	"github.com/decker502/halabi/pkg/ecs"
	"github.com/decker502/halabi/pkg/utils/easing"
)

const (
	// ringFrequencyScale 把 RingFollow 换算为弹簧角频率
	ringFrequencyScale = 40.0
	// ringDamping 临界阻尼，光环不会越过光点
	ringDamping = 1.0
)

// CursorSystem 自定义光标系统
//
// 职责：
//   - 光点 1:1 跟随整个窗口的指针追踪器
//   - 光环通过弹簧跟随光点
//   - 指针位于按钮、卡片或对比滑块上时放大光环
//   - 没有精确指针的设备上整体禁用
type CursorSystem struct {
	entityManager *ecs.EntityManager
	target        host.EventTarget
	tracker       *pointer.Tracker
	cfg           config.CursorConfig
	spring        harmonica.Spring

	unsubs []func()
	ids    []host.ListenerID
}

// NewCursorSystem 创建光标系统
// window 返回整个窗口的区域
func NewCursorSystem(em *ecs.EntityManager, target host.EventTarget, window func() host.Rect, caps host.Capabilities, cfg config.CursorConfig) *CursorSystem {
	s := &CursorSystem{
		entityManager: em,
		target:        target,
		tracker:       pointer.New(target, window, caps),
	}
	s.SetConfig(cfg)
	if s.tracker.Disabled() {
		return s
	}

	s.unsubs = append(s.unsubs,
		s.tracker.OnSample(func(sm pointer.Sample) {
			s.each(func(c *components.CursorComponent) {
				c.DotX = sm.Box.X + sm.Local.X
				c.DotY = sm.Box.Y + sm.Local.Y
				c.Visible = true
				if !c.Placed {
					c.RingX, c.RingY = c.DotX, c.DotY
					c.Placed = true
				}
			})
		}),
		s.tracker.OnLeave(func() {
			s.each(func(c *components.CursorComponent) { c.Visible = false })
		}),
	)
	if target != nil {
		s.ids = append(s.ids,
			target.AddListener(host.EventPointerDown, func(host.Event) {
				s.each(func(c *components.CursorComponent) { c.Pressed = true })
			}),
			target.AddListener(host.EventPointerUp, func(host.Event) {
				s.each(func(c *components.CursorComponent) { c.Pressed = false })
			}),
		)
	}
	return s
}

// SetConfig 更新光标参数（配置热加载）
func (s *CursorSystem) SetConfig(cfg config.CursorConfig) {
	s.cfg = cfg
	s.spring = harmonica.NewSpring(harmonica.FPS(60), cfg.RingFollow*ringFrequencyScale, ringDamping)
}

// Disabled 报告设备是否没有精确指针
func (s *CursorSystem) Disabled() bool {
	return s.tracker.Disabled()
}

func (s *CursorSystem) each(fn func(c *components.CursorComponent)) {
	for _, id := range ecs.GetEntitiesWith1[*components.CursorComponent](s.entityManager) {
		c, _ := ecs.GetComponent[*components.CursorComponent](s.entityManager, id)
		fn(c)
	}
}

// Update 推进光环弹簧和半径
func (s *CursorSystem) Update(deltaTime float64) {
	disabled := s.tracker.Disabled()
	s.each(func(c *components.CursorComponent) {
		c.Disabled = disabled
		if disabled || !c.Placed {
			return
		}
		c.Hovering = c.Visible && s.overClickable(c.DotX, c.DotY)

		c.RingX, c.RingVX = s.spring.Update(c.RingX, c.RingVX, c.DotX)
		c.RingY, c.RingVY = s.spring.Update(c.RingY, c.RingVY, c.DotY)

		target := s.cfg.RingRadius
		if c.Hovering {
			target = s.cfg.RingHoverRadius
		}
		if c.RingRadius == 0 {
			c.RingRadius = target
		}
		c.RingRadius = easing.Approach(c.RingRadius, target, s.cfg.RingFollow)
	})
}

// overClickable 判断位置是否在可点击组件上
func (s *CursorSystem) overClickable(x, y float64) bool {
	for _, id := range ecs.GetEntitiesWith1[*components.BoundsComponent](s.entityManager) {
		if !ecs.HasComponent[*components.ButtonComponent](s.entityManager, id) &&
			!ecs.HasComponent[*components.CardComponent](s.entityManager, id) &&
			!ecs.HasComponent[*components.CompareComponent](s.entityManager, id) {
			continue
		}
		b, _ := ecs.GetComponent[*components.BoundsComponent](s.entityManager, id)
		if b.Rect.Contains(x, y) {
			return true
		}
	}
	return false
}

// Close 释放追踪器和宿主监听
func (s *CursorSystem) Close() {
	for _, off := range s.unsubs {
		off()
	}
	s.unsubs = nil
	for _, id := range s.ids {
		s.target.RemoveListener(id)
	}
	s.ids = nil
	s.tracker.Close()
}
