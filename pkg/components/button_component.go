package components

// ButtonComponent 按钮组件（ECS 架构）
// 包含按钮的文字、状态和点击回调
//
// 设计原则：
//   - 纯数据组件，不包含任何方法
//   - 位置和尺寸由 BoundsComponent 提供
//   - 按下和释放都在按钮区域内才触发 OnClick
type ButtonComponent struct {
	// Label 按钮文字
	Label string
	// Hint 快捷键提示（例如 "T"），绘制在文字右侧
	Hint string
	// Primary 是否使用强调色绘制
	Primary bool

	// State 当前交互状态（Normal/Hover/Clicked/Disabled）
	State UIState
	// Enabled 是否启用（禁用时不响应点击）
	Enabled bool

	// OnClick 点击回调函数
	OnClick func()
}
