// Package easing 提供缓动曲线、插值与钳制函数
//
// 本包只依赖标准库，不引入 ebiten，倾斜核心等与界面框架无关的包可直接导入。
//
// 所有函数接受进度 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
// 超出区间的输入先被钳制，避免动画越界。
//
// 参考：https://easings.net/
package easing

import (
	"image/color"
	"math"
)

// Linear 线性缓动（无缓动）
func Linear(t float64) float64 {
	return Clamp01(t)
}

// OutCubic 三次方缓出
// 开始快，结束慢；卡片倾斜回正和光标圆环使用此曲线
// 公式：f(t) = 1 - (1-t)³
func OutCubic(t float64) float64 {
	t = Clamp01(t)
	return 1 - math.Pow(1-t, 3)
}

// InOutCubic 三次方缓入缓出
//
//	t < 0.5: f(t) = 4t³
//	t >= 0.5: f(t) = 1 - (-2t + 2)³ / 2
func InOutCubic(t float64) float64 {
	t = Clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// OutQuad 二次方缓出，比 Cubic 更柔和
func OutQuad(t float64) float64 {
	t = Clamp01(t)
	return 1 - (1-t)*(1-t)
}

// Lerp 线性插值，t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Approach 按固定比例向目标逼近一步
// 光标圆环每帧调用一次，factor ∈ (0, 1]，1 表示立即到达
func Approach(current, target, factor float64) float64 {
	if factor >= 1 {
		return target
	}
	if factor <= 0 {
		return current
	}
	return current + (target-current)*factor
}

// Clamp 将 v 限制在 [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 将 v 限制在 [0, 1]
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// LerpColor 在两种颜色之间插值（主题切换过渡）
func LerpColor(a, b color.RGBA, t float64) color.RGBA {
	t = Clamp01(t)
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(Lerp(float64(x), float64(y), t)))
	}
	return color.RGBA{
		R: mix(a.R, b.R),
		G: mix(a.G, b.G),
		B: mix(a.B, b.B),
		A: mix(a.A, b.A),
	}
}

// WithAlpha 返回按 alpha ∈ [0, 1] 缩放后的预乘颜色
func WithAlpha(c color.RGBA, alpha float64) color.RGBA {
	alpha = Clamp01(alpha)
	scale := func(v uint8) uint8 {
		return uint8(math.Round(float64(v) * alpha))
	}
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: scale(c.A)}
}
