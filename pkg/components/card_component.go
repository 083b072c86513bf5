package components

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/halabi/internal/pointer"
	"github.com/decker502/halabi/internal/tilt"
)

// CardKind 卡片类别
type CardKind int

const (
	// CardService 服务卡片，点击下单
	CardService CardKind = iota
	// CardPortfolio 作品集卡片，点击订购类似作品
	CardPortfolio
)

// CardComponent 倾斜卡片组件（服务卡片与作品集卡片共用）
//
// 卡片跟随指针倾斜并在指针位置显示光晕。
// Glow 保存精确计算的状态，Easer 负责显示用的缓动，
// 渲染系统只读取 Displayed。
type CardComponent struct {
	Kind CardKind
	// ItemID 服务或作品的 ID
	ItemID string

	// 展示信息（来自站点配置）
	Title       string
	Category    string
	Description string
	Price       string
	Icon        string
	Badge       string
	// Rating 平均评分，没有评价时为 0
	Rating  float64
	Reviews int

	// 指针效果
	Tracker *pointer.Tracker
	Glow    *tilt.Glow
	Easer   *tilt.Easer
	// Unbind 解除 Glow 与 Tracker 的绑定
	Unbind func()

	// Displayed 当前帧显示的倾斜状态
	Displayed tilt.State
	// Hovered 指针是否在卡片上
	Hovered bool
	// Scale 当前缩放，悬停时趋近配置的 hoverScale
	Scale float64

	// Face 离屏绘制的卡片正面，尺寸变化时重建
	Face *ebiten.Image
	// Composite 每帧合成 Face 和光晕的图像，随后投影到屏幕
	Composite *ebiten.Image
	// Dirty 卡片内容或主题变化，需要重绘 Face
	Dirty bool
}
