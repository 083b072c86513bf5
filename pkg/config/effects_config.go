package config

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/decker502/halabi/internal/particle"
)

// ErrInvalidRange 配置值超出允许范围
var ErrInvalidRange = errors.New("config value out of range")

// 主题名称
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// EffectsConfig 视觉效果配置
//
// 包含窗口尺寸、卡片倾斜、粒子场、主题配色和自定义光标的调优参数。
//
// 配置文件位置: data/effects.yaml
type EffectsConfig struct {
	Window    WindowConfig           `yaml:"window"`
	Tilt      TiltConfig             `yaml:"tilt"`
	Particles particle.Config        `yaml:"particles"`
	Themes    map[string]ThemeConfig `yaml:"themes"`
	Cursor    CursorConfig           `yaml:"cursor"`
}

// WindowConfig 窗口配置（逻辑分辨率）
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// TiltConfig 服务卡片倾斜配置
type TiltConfig struct {
	// MaxTilt 最大旋转角度（度）
	MaxTilt float64 `yaml:"maxTilt"`
	// Perspective 透视距离（像素）
	Perspective float64 `yaml:"perspective"`
	// HoverScale 悬停时的缩放
	HoverScale float64 `yaml:"hoverScale"`
	// EaseMs 回到静止状态的缓动时长（毫秒）
	EaseMs float64 `yaml:"easeMs"`
}

// ThemeConfig 单个主题的配色
type ThemeConfig struct {
	Background Color `yaml:"background"`
	Surface    Color `yaml:"surface"`
	Text       Color `yaml:"text"`
	Muted      Color `yaml:"muted"`
	Accent     Color `yaml:"accent"`

	// Particle 粒子颜色
	Particle Color `yaml:"particle"`
	// FieldOpacity 整个粒子场的不透明度
	FieldOpacity float64 `yaml:"fieldOpacity"`
}

// Palette 返回粒子场使用的调色板
func (t ThemeConfig) Palette() particle.Palette {
	return particle.Palette{Color: t.Particle.RGBA(), Opacity: t.FieldOpacity}
}

// CursorConfig 自定义光标配置
type CursorConfig struct {
	DotRadius       float64 `yaml:"dotRadius"`
	RingRadius      float64 `yaml:"ringRadius"`
	RingHoverRadius float64 `yaml:"ringHoverRadius"`
	// RingFollow 光环每帧向光点靠近的比例（0-1）
	RingFollow float64 `yaml:"ringFollow"`
}

// Color 十六进制颜色（"#fbbf24" 或 "#fbbf24cc"）
type Color color.RGBA

// RGBA 返回标准库颜色
func (c Color) RGBA() color.RGBA {
	return color.RGBA(c)
}

// UnmarshalYAML 解析十六进制颜色字符串
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseHexColor(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = parsed
	return nil
}

// ParseHexColor 解析 "#rrggbb" 或 "#rrggbbaa"
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b, a uint8 = 0, 0, 0, 0xff
	var err error
	switch len(s) {
	case 6:
		_, err = fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b)
	case 8:
		_, err = fmt.Sscanf(s, "%02x%02x%02x%02x", &r, &g, &b, &a)
	default:
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{R: r, G: g, B: b, A: a}, nil
}

// DefaultEffectsConfig 返回内置默认值
func DefaultEffectsConfig() *EffectsConfig {
	return &EffectsConfig{
		Window: WindowConfig{Width: 1280, Height: 800, Title: "Halabi Services"},
		Tilt: TiltConfig{
			MaxTilt:     10,
			Perspective: 1000,
			HoverScale:  1.02,
			EaseMs:      200,
		},
		Particles: particle.DefaultConfig(),
		Themes: map[string]ThemeConfig{
			ThemeDark: {
				Background:   Color{R: 5, G: 5, B: 5, A: 255},
				Surface:      Color{R: 23, G: 23, B: 23, A: 255},
				Text:         Color{R: 255, G: 255, B: 255, A: 255},
				Muted:        Color{R: 156, G: 163, B: 175, A: 255},
				Accent:       Color{R: 245, G: 158, B: 11, A: 255},
				Particle:     Color{R: 251, G: 191, B: 36, A: 255},
				FieldOpacity: 0.6,
			},
			ThemeLight: {
				Background:   Color{R: 250, G: 250, B: 249, A: 255},
				Surface:      Color{R: 255, G: 255, B: 255, A: 255},
				Text:         Color{R: 23, G: 23, B: 23, A: 255},
				Muted:        Color{R: 75, G: 85, B: 99, A: 255},
				Accent:       Color{R: 217, G: 119, B: 6, A: 255},
				Particle:     Color{R: 180, G: 83, B: 9, A: 255},
				FieldOpacity: 0.4,
			},
		},
		Cursor: CursorConfig{DotRadius: 4, RingRadius: 16, RingHoverRadius: 28, RingFollow: 0.15},
	}
}

// ParseEffectsConfig 解析效果配置，缺失的字段保留默认值
func ParseEffectsConfig(data []byte) (*EffectsConfig, error) {
	cfg := DefaultEffectsConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse effects config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid effects config: %w", err)
	}
	return cfg, nil
}

// Validate 验证配置的有效性
func (c *EffectsConfig) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidRange, c.Window.Width, c.Window.Height)
	}
	if c.Tilt.MaxTilt <= 0 || c.Tilt.MaxTilt > 90 {
		return fmt.Errorf("%w: maxTilt %v must be in (0, 90]", ErrInvalidRange, c.Tilt.MaxTilt)
	}
	if c.Tilt.Perspective <= 0 {
		return fmt.Errorf("%w: perspective %v must be positive", ErrInvalidRange, c.Tilt.Perspective)
	}
	if c.Particles.DividerWide <= 0 || c.Particles.DividerNarrow <= 0 {
		return fmt.Errorf("%w: particle density dividers must be positive", ErrInvalidRange)
	}
	for name, theme := range c.Themes {
		if theme.FieldOpacity < 0 || theme.FieldOpacity > 1 {
			return fmt.Errorf("%w: theme %s fieldOpacity %v", ErrInvalidRange, name, theme.FieldOpacity)
		}
	}
	if c.Cursor.RingFollow < 0 || c.Cursor.RingFollow > 1 {
		return fmt.Errorf("%w: cursor ringFollow %v", ErrInvalidRange, c.Cursor.RingFollow)
	}
	for _, name := range []string{ThemeDark, ThemeLight} {
		if _, ok := c.Themes[name]; !ok {
			return fmt.Errorf("missing theme %q", name)
		}
	}
	return nil
}

// Theme 返回指定主题，未知名称回退到深色主题
func (c *EffectsConfig) Theme(name string) ThemeConfig {
	if t, ok := c.Themes[name]; ok {
		return t
	}
	return c.Themes[ThemeDark]
}
