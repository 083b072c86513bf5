package entities

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/halabi/internal/compare"
	"github.com/decker502/halabi/internal/host"
	"github.com/decker502/halabi/pkg/components"
	"github.com/decker502/halabi/pkg/config"
	"github.com/decker502/halabi/pkg/ecs"
	"github.com/decker502/halabi/pkg/utils"
)

// NewCompareSlider 创建前后对比滑块实体
//
// 参数：
//   - em: 实体管理器
//   - target: 宿主事件源，同时作为拖拽结束监听的窗口
//   - after: "之后" 图层，"之前" 图层为它的灰度版本
//   - afterPNG: "之后" 图层的 PNG 编码
//   - cfg: 对比滑块配置
func NewCompareSlider(em *ecs.EntityManager, target host.EventTarget, after *ebiten.Image, afterPNG []byte, cfg config.CompareConfig) ecs.EntityID {
	entity := em.CreateEntity()

	bounds := &components.BoundsComponent{}
	initial := cfg.Initial
	if initial == 0 {
		initial = compare.DefaultSplit
	}
	slider := compare.New(target, initial)

	cmp := &components.CompareComponent{
		Slider:      slider,
		Before:      utils.Grayscale(after),
		After:       after,
		AfterPNG:    afterPNG,
		BeforeLabel: cfg.BeforeLabel,
		AfterLabel:  cfg.AfterLabel,
	}
	if target != nil {
		cmp.Unbind = slider.Bind(target, bounds.Box)
	}

	ecs.AddComponent(em, entity, bounds)
	ecs.AddComponent(em, entity, cmp)
	ecs.AddComponent(em, entity, &components.UIComponent{State: components.UINormal})
	return entity
}

// ReplaceCompareImages 用 AI 编辑结果替换图层
// 原 "之后" 图层成为新的 "之前" 图层
func ReplaceCompareImages(c *components.CompareComponent, edited *ebiten.Image, editedPNG []byte) {
	if edited == nil {
		return
	}
	if c.Before != nil && c.Before != c.After {
		c.Before.Deallocate()
	}
	c.Before = c.After
	c.After = edited
	c.AfterPNG = editedPNG
}

// DestroyCompareSlider 解除滑块绑定并销毁实体
func DestroyCompareSlider(em *ecs.EntityManager, id ecs.EntityID) {
	if c, ok := ecs.GetComponent[*components.CompareComponent](em, id); ok {
		if c.Unbind != nil {
			c.Unbind()
		}
		c.Slider.Close()
	}
	em.DestroyEntity(id)
}
