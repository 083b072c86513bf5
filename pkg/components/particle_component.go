package components

import (
	"github.com/decker502/halabi/internal/particle"
	"github.com/decker502/halabi/pkg/utils"
)

// ParticleFieldComponent 背景粒子场组件
//
// Animator 通过宿主的帧请求驱动粒子场，每帧渲染到 Surface。
// 渲染系统只负责把 Surface 的图像绘制到屏幕。
type ParticleFieldComponent struct {
	Animator *particle.Animator
	// Surface 粒子场的离屏表面，与屏幕同尺寸
	Surface *utils.ImageSurface
}
