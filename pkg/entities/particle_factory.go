package entities

import (
	"math/rand"

	"github.com/decker502/halabi/internal/host"
	"github.com/decker502/halabi/internal/particle"
	"github.com/decker502/halabi/pkg/components"
	"github.com/decker502/halabi/pkg/ecs"
	"github.com/decker502/halabi/pkg/utils"
)

// FieldHost 粒子场需要的宿主能力：帧请求和 Resize 事件
type FieldHost interface {
	host.FrameRequester
	host.EventTarget
}

// NewParticleField 创建背景粒子场实体并开始动画
//
// 参数：
//   - em: 实体管理器
//   - h: 宿主（帧请求 + Resize 事件）
//   - cfg: 粒子场参数
//   - palette: 初始调色板
//   - width, height: 初始表面尺寸，同时作为视口宽度
//   - rng: 随机源，nil 时使用默认随机源
func NewParticleField(em *ecs.EntityManager, h FieldHost, cfg particle.Config, palette particle.Palette, width, height int, rng *rand.Rand) ecs.EntityID {
	entity := em.CreateEntity()

	surface := utils.NewImageSurface(width, height)
	field := particle.NewField(cfg, rng)
	field.SetPalette(palette)
	field.Init(float64(width), float64(height), float64(width))

	animator := particle.NewAnimator(field, surface, h, h)
	animator.Start()

	ecs.AddComponent(em, entity, &components.ParticleFieldComponent{
		Animator: animator,
		Surface:  surface,
	})
	return entity
}
