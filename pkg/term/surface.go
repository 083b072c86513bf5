// Package term 提供终端预览：用 tcell 屏幕作为宿主表面和事件源
//
// 终端没有像素，表面坐标使用 "虚拟像素"：每个字符格对应 CellWidth x CellHeight
// 个虚拟像素。粒子场、对比滑块和指针事件都在虚拟像素坐标中工作，
// 与 Ebitengine 窗口使用同一套效果代码。
package term

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
)

// 每个字符格对应的虚拟像素尺寸（字符格大约是 1:2 的竖长方形）
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

// 粒子字形，按半径从小到大
var glyphs = []rune{'·', '•', '●'}

// Surface 把粒子场画到 tcell 屏幕上
// 实现 particle.Surface 接口
type Surface struct {
	screen     tcell.Screen
	background color.RGBA
	fill       color.RGBA
}

// NewSurface 创建终端表面
func NewSurface(screen tcell.Screen, background color.RGBA) *Surface {
	return &Surface{screen: screen, background: background}
}

// SetBackground 设置清屏颜色
func (s *Surface) SetBackground(c color.RGBA) {
	s.background = c
}

// Size 返回表面的虚拟像素尺寸
func (s *Surface) Size() (w, h float64) {
	cols, rows := s.screen.Size()
	return float64(cols) * CellWidth, float64(rows) * CellHeight
}

// Clear 用背景色填充整个屏幕
func (s *Surface) Clear() {
	s.screen.Fill(' ', s.baseStyle())
}

// SetFill 设置后续粒子的颜色
func (s *Surface) SetFill(c color.RGBA) {
	s.fill = c
}

// FillCircle 在圆心所在的字符格绘制一个粒子
// 颜色按 alpha 与背景混合，字形按半径选择
func (s *Surface) FillCircle(x, y, r, alpha float64) {
	col, row := CellAt(x, y)
	cols, rows := s.screen.Size()
	if col < 0 || row < 0 || col >= cols || row >= rows || alpha <= 0 {
		return
	}
	fg := blend(s.background, s.fill, alpha)
	s.screen.SetContent(col, row, glyphFor(r), nil, s.baseStyle().Foreground(fg))
}

// Text 在指定字符格写入一行文本，超出屏幕的部分被截断
func (s *Surface) Text(col, row int, text string, fg color.RGBA) {
	cols, rows := s.screen.Size()
	if row < 0 || row >= rows {
		return
	}
	style := s.baseStyle().Foreground(rgb(fg))
	for _, r := range text {
		if col >= cols {
			return
		}
		if col >= 0 {
			s.screen.SetContent(col, row, r, nil, style)
		}
		col++
	}
}

// Cell 写入单个字符格
func (s *Surface) Cell(col, row int, r rune, fg, bg color.RGBA) {
	s.screen.SetContent(col, row, r, nil, tcell.StyleDefault.Foreground(rgb(fg)).Background(rgb(bg)))
}

func (s *Surface) baseStyle() tcell.Style {
	return tcell.StyleDefault.Background(rgb(s.background))
}

// CellAt 把虚拟像素坐标转换为字符格坐标
func CellAt(x, y float64) (col, row int) {
	return int(math.Floor(x / CellWidth)), int(math.Floor(y / CellHeight))
}

// CellCenter 返回字符格中心的虚拟像素坐标
func CellCenter(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * CellWidth, (float64(row) + 0.5) * CellHeight
}

func glyphFor(r float64) rune {
	switch {
	case r < 1:
		return glyphs[0]
	case r < 1.6:
		return glyphs[1]
	default:
		return glyphs[2]
	}
}

// blend 按 alpha 把 fg 混合到 bg 上
func blend(bg, fg color.RGBA, alpha float64) tcell.Color {
	alpha = math.Max(0, math.Min(1, alpha))
	mix := func(a, b uint8) int32 {
		return int32(math.Round(float64(a)*(1-alpha) + float64(b)*alpha))
	}
	return tcell.NewRGBColor(mix(bg.R, fg.R), mix(bg.G, fg.G), mix(bg.B, fg.B))
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
