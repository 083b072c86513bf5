package systems

import (
	"math"

	"github.com/decker502/halabi/pkg/components"
	"github.com/decker502/halabi/pkg/ecs"
	"github.com/decker502/halabi/pkg/utils/easing"
)

// scaleFollow 卡片缩放每帧向目标靠近的比例
const scaleFollow = 0.25

// TiltSystem 卡片倾斜系统
//
// Glow 在指针事件中同步计算精确状态，本系统只推进显示用的缓动：
// 每帧把 Glow 的状态交给 Easer 并读取缓动后的 Displayed。
type TiltSystem struct {
	entityManager *ecs.EntityManager
	hoverScale    float64
}

// NewTiltSystem 创建倾斜系统
// hoverScale 为悬停时的缩放，非正数表示不缩放
func NewTiltSystem(em *ecs.EntityManager, hoverScale float64) *TiltSystem {
	if hoverScale <= 0 {
		hoverScale = 1
	}
	return &TiltSystem{entityManager: em, hoverScale: hoverScale}
}

// SetHoverScale 更新悬停缩放（配置热加载）
func (s *TiltSystem) SetHoverScale(scale float64) {
	if scale > 0 {
		s.hoverScale = scale
	}
}

// Update 推进所有卡片的缓动
// deltaTime 单位为秒
func (s *TiltSystem) Update(deltaTime float64) {
	dtMs := deltaTime * 1000
	for _, id := range ecs.GetEntitiesWith1[*components.CardComponent](s.entityManager) {
		card, _ := ecs.GetComponent[*components.CardComponent](s.entityManager, id)
		if card.Glow == nil {
			continue
		}
		state := card.Glow.State()
		card.Hovered = state.Active

		if card.Easer != nil {
			card.Easer.Target(state)
			card.Displayed = card.Easer.Advance(dtMs)
		} else {
			card.Displayed = state
		}

		target := 1.0
		if card.Hovered {
			target = s.hoverScale
		}
		if card.Scale == 0 {
			card.Scale = 1
		}
		card.Scale = easing.Approach(card.Scale, target, scaleFollow)
		if math.Abs(card.Scale-target) < 1e-3 {
			card.Scale = target
		}
	}
}
