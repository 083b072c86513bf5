// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// TouchPoint 单个触摸点
type TouchPoint struct {
	ID   int
	X, Y int
}

// PointerSnapshot 某一帧的指针状态
// 统一记录鼠标和触摸输入，由输入泵与上一帧比较后生成宿主事件
type PointerSnapshot struct {
	// 鼠标位置（屏幕坐标）
	X, Y int
	// 鼠标左键是否按下
	MousePressed bool
	// 当前活动的触摸点，按 ebiten 报告顺序
	Touches []TouchPoint
	// 窗口是否拥有焦点
	Focused bool
}

// HasTouch 检查指定 ID 的触摸是否仍然活动
func (s PointerSnapshot) HasTouch(id int) bool {
	for _, tp := range s.Touches {
		if tp.ID == id {
			return true
		}
	}
	return false
}

// PointerSource 指针状态来源
// 生产环境使用 EbitenPointerSource，测试中注入模拟实现
type PointerSource interface {
	Snapshot() PointerSnapshot
}

// EbitenPointerSource 从 ebiten 读取当前帧的鼠标和触摸状态
type EbitenPointerSource struct {
	touchIDs []ebiten.TouchID
}

// NewEbitenPointerSource 创建 ebiten 指针来源
func NewEbitenPointerSource() *EbitenPointerSource {
	return &EbitenPointerSource{}
}

// Snapshot 实现 PointerSource
// 必须在 ebiten 的 Update 中调用
func (e *EbitenPointerSource) Snapshot() PointerSnapshot {
	s := PointerSnapshot{
		MousePressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Focused:      ebiten.IsFocused(),
	}
	s.X, s.Y = ebiten.CursorPosition()

	e.touchIDs = ebiten.AppendTouchIDs(e.touchIDs[:0])
	if len(e.touchIDs) > 0 {
		s.Touches = make([]TouchPoint, 0, len(e.touchIDs))
		for _, id := range e.touchIDs {
			x, y := ebiten.TouchPosition(id)
			s.Touches = append(s.Touches, TouchPoint{ID: int(id), X: x, Y: y})
		}
	}
	return s
}
