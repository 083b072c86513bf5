package components

// CursorComponent 自定义光标组件
//
// 光点 1:1 跟随指针，光环以弹簧运动落后于光点。
// 触屏设备上 Disabled 为 true，不绘制也不追踪。
type CursorComponent struct {
	// 光点位置
	DotX, DotY float64

	// 光环位置和速度（弹簧积分状态）
	RingX, RingY   float64
	RingVX, RingVY float64
	// RingRadius 当前光环半径，悬停可点击组件时放大
	RingRadius float64

	// Visible 指针在窗口内
	Visible bool
	// Hovering 指针在可点击组件上
	Hovering bool
	// Pressed 鼠标按下
	Pressed bool
	// Disabled 设备没有精确指针
	Disabled bool
	// Placed 光环已初始化到首个指针位置
	Placed bool
}
