package systems

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/halabi/internal/particle"
	"github.com/decker502/halabi/pkg/components"
	"github.com/decker502/halabi/pkg/ecs"
)

// ParticleSystem 背景粒子场系统
//
// 粒子的移动和渲染由 particle.Animator 在帧回调中完成，
// 本系统负责主题切换、尺寸变化和把离屏图层合成到屏幕。
type ParticleSystem struct {
	entityManager *ecs.EntityManager
}

// NewParticleSystem 创建粒子场系统
func NewParticleSystem(em *ecs.EntityManager) *ParticleSystem {
	return &ParticleSystem{entityManager: em}
}

// ApplyPalette 将调色板应用到所有粒子场，不重新生成粒子
func (s *ParticleSystem) ApplyPalette(p particle.Palette) {
	for _, id := range ecs.GetEntitiesWith1[*components.ParticleFieldComponent](s.entityManager) {
		field, _ := ecs.GetComponent[*components.ParticleFieldComponent](s.entityManager, id)
		field.Animator.Field().SetPalette(p)
	}
}

// Count 返回所有粒子场的粒子总数
func (s *ParticleSystem) Count() int {
	n := 0
	for _, id := range ecs.GetEntitiesWith1[*components.ParticleFieldComponent](s.entityManager) {
		field, _ := ecs.GetComponent[*components.ParticleFieldComponent](s.entityManager, id)
		n += field.Animator.Field().Count()
	}
	return n
}

// Draw 把粒子图层绘制到屏幕
func (s *ParticleSystem) Draw(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith1[*components.ParticleFieldComponent](s.entityManager) {
		field, _ := ecs.GetComponent[*components.ParticleFieldComponent](s.entityManager, id)
		if field.Surface == nil {
			continue
		}
		screen.DrawImage(field.Surface.Image(), &ebiten.DrawImageOptions{})
	}
}

// Resize 调整所有粒子场的离屏表面
// 粒子的重新生成由 Animator 的 Resize 事件监听完成
func (s *ParticleSystem) Resize(width, height int) {
	for _, id := range ecs.GetEntitiesWith1[*components.ParticleFieldComponent](s.entityManager) {
		field, _ := ecs.GetComponent[*components.ParticleFieldComponent](s.entityManager, id)
		if field.Surface != nil {
			field.Surface.Resize(width, height)
		}
	}
}

// Close 停止所有粒子场的帧循环并释放宿主监听
func (s *ParticleSystem) Close() {
	for _, id := range ecs.GetEntitiesWith1[*components.ParticleFieldComponent](s.entityManager) {
		field, _ := ecs.GetComponent[*components.ParticleFieldComponent](s.entityManager, id)
		field.Animator.Close()
	}
}
