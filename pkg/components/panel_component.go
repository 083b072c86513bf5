package components

import "github.com/hajimehoshi/ebiten/v2"

// PanelKind 面板类型
type PanelKind int

const (
	// PanelStudio AI 工作室结果面板
	PanelStudio PanelKind = iota
	// PanelChat 智能客服对话面板
	PanelChat
	// PanelToast 短暂提示
	PanelToast
)

// PanelComponent 文本面板组件
//
// 用于 AI 工作室结果、对话窗口和提示信息。
// Loading 期间循环显示 Steps 中的处理步骤。
type PanelComponent struct {
	Kind    PanelKind
	Title   string
	Lines   []string
	Visible bool

	// Image 生成的广告图片（可选）
	Image *ebiten.Image

	// 加载状态
	Loading     bool
	Steps       []string
	StepIndex   int
	StepElapsed float64 // 当前步骤已显示时间（秒）

	// Error 失败提示，非空时替代 Lines 显示
	Error string

	// Input 对话输入框内容
	Input string

	// TTL 剩余显示时间（秒），0 表示常驻
	TTL float64
}
