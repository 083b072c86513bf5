package components

// ClickableComponent 标记实体可以被点击
// 点击区域由 BoundsComponent 提供
type ClickableComponent struct {
	IsEnabled bool   // 是否可以被点击
	OnClick   func() // 点击回调
}
