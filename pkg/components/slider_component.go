package components

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/halabi/internal/compare"
)

// CompareComponent 前后对比滑块组件（试衣间）
//
// "之后" 图层完整绘制，"之前" 图层按 Slider.Split 从左侧裁剪后覆盖在上面。
type CompareComponent struct {
	// Slider 分割位置和拖拽状态
	Slider *compare.Slider
	// Unbind 解除滑块与宿主事件的绑定
	Unbind func()

	// 图层
	Before *ebiten.Image
	After  *ebiten.Image
	// AfterPNG "之后" 图层的 PNG 编码，AI 编辑时作为输入
	AfterPNG []byte

	// 标签文字
	BeforeLabel string
	AfterLabel  string

	// IsHovered 指针是否在滑块区域内
	IsHovered bool
	// Editing AI 编辑请求进行中
	Editing bool
}
