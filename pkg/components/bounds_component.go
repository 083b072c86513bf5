package components

import "github.com/decker502/halabi/internal/host"

// BoundsComponent 组件在逻辑屏幕上的矩形区域
//
// 由场景布局时写入。指针追踪器和滑块通过 Box 在每个事件上重新读取，
// 因此布局变化后不会使用过期坐标。
type BoundsComponent struct {
	Rect host.Rect
}

// Box 返回当前区域
func (b *BoundsComponent) Box() host.Rect {
	return b.Rect
}

// ZIndexComponent 绘制顺序，数值小的先绘制
type ZIndexComponent struct {
	Z int
}
