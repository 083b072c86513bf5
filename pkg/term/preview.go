package term

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/decker502/halabi/internal/compare"
	"github.com/decker502/halabi/internal/host"
	"github.com/decker502/halabi/internal/particle"
	"github.com/decker502/halabi/pkg/config"
)

// DefaultTickInterval 终端预览的帧间隔（约 30 FPS，终端刷新比窗口慢）
const DefaultTickInterval = 33 * time.Millisecond

// splitStep 方向键每次移动对比滑块的百分比
const splitStep = 5.0

// Options 终端预览参数
type Options struct {
	Effects *config.EffectsConfig
	// Theme 初始主题，为空时使用深色主题
	Theme string
	// Rand 粒子随机源，为空时使用时间种子
	Rand *rand.Rand
	// TickInterval 帧间隔，为零时使用 DefaultTickInterval
	TickInterval time.Duration
}

// Preview 在终端中运行粒子场和对比滑块
//
// tcell 事件被转换为宿主事件后分发到 host.Registry，
// 效果代码与窗口版本完全相同。
type Preview struct {
	screen   tcell.Screen
	registry *host.Registry
	surface  *Surface
	animator *particle.Animator
	slider   *compare.Slider
	unbind   func()

	effects  *config.EffectsConfig
	theme    string
	buttons  tcell.ButtonMask
	interval time.Duration
	start    time.Time
	closed   bool
	log      *zap.Logger
}

// New 初始化 screen 并创建预览
// screen 由预览接管，Close 时调用 Fini
func New(screen tcell.Screen, opts Options) (*Preview, error) {
	if opts.Effects == nil {
		opts.Effects = config.DefaultEffectsConfig()
	}
	if opts.Theme == "" {
		opts.Theme = config.ThemeDark
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}

	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()

	theme := opts.Effects.Theme(opts.Theme)
	p := &Preview{
		screen:   screen,
		registry: host.NewRegistry(),
		surface:  NewSurface(screen, theme.Background.RGBA()),
		effects:  opts.Effects,
		theme:    opts.Theme,
		interval: opts.TickInterval,
		start:    time.Now(),
		log:      zap.L().Named("term"),
	}

	field := particle.NewField(opts.Effects.Particles, opts.Rand)
	field.SetPalette(theme.Palette())
	w, h := p.surface.Size()
	field.Init(w, h, w)

	p.animator = particle.NewAnimator(field, p.surface, p.registry, p.registry)
	p.animator.Start()

	p.slider = compare.New(p.registry, compare.DefaultSplit)
	p.unbind = p.slider.Bind(p.registry, p.CompareBox)

	p.log.Debug("terminal preview ready",
		zap.Float64("width", w),
		zap.Float64("height", h),
		zap.Int("particles", field.Count()))
	return p, nil
}

// Registry 返回预览的事件注册表
func (p *Preview) Registry() *host.Registry {
	return p.registry
}

// Field 返回粒子场
func (p *Preview) Field() *particle.Field {
	return p.animator.Field()
}

// Slider 返回对比滑块
func (p *Preview) Slider() *compare.Slider {
	return p.slider
}

// Theme 返回当前主题名称
func (p *Preview) Theme() string {
	return p.theme
}

// CompareBox 返回对比滑块在虚拟像素坐标中的区域
// 屏幕太小时返回空区域
func (p *Preview) CompareBox() host.Rect {
	cols, rows := p.screen.Size()
	if cols < 12 || rows < 10 {
		return host.Rect{}
	}
	return host.Rect{
		X: 2 * CellWidth,
		Y: float64(rows-6) * CellHeight,
		W: float64(cols-4) * CellWidth,
		H: 4 * CellHeight,
	}
}

// Handle 处理一个 tcell 事件
// 返回 false 表示用户请求退出
func (p *Preview) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return p.handleKey(ev)

	case *tcell.EventMouse:
		col, row := ev.Position()
		x, y := CellCenter(col, row)
		buttons := ev.Buttons() & tcell.Button1
		pressed := buttons != 0 && p.buttons == 0
		released := buttons == 0 && p.buttons != 0
		p.buttons = buttons

		p.registry.Dispatch(host.Event{Type: host.EventPointerMove, X: x, Y: y})
		switch {
		case pressed:
			p.registry.Dispatch(host.Event{Type: host.EventPointerDown, X: x, Y: y})
		case released:
			p.registry.Dispatch(host.Event{Type: host.EventPointerUp, X: x, Y: y})
		}

	case *tcell.EventFocus:
		if !ev.Focused {
			p.buttons = 0
			p.registry.Dispatch(host.Event{Type: host.EventBlur})
		}

	case *tcell.EventResize:
		p.screen.Sync()
		w, h := p.surface.Size()
		p.registry.Dispatch(host.Event{Type: host.EventResize, Width: w, Height: h})
	}
	return true
}

func (p *Preview) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		p.slider.SetSplit(p.slider.Split() - splitStep)
	case tcell.KeyRight:
		p.slider.SetSplit(p.slider.Split() + splitStep)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 't':
			p.toggleTheme()
		}
	}
	return true
}

// toggleTheme 切换主题，粒子只换颜色不重新生成
func (p *Preview) toggleTheme() {
	if p.theme == config.ThemeDark {
		p.theme = config.ThemeLight
	} else {
		p.theme = config.ThemeDark
	}
	theme := p.effects.Theme(p.theme)
	p.surface.SetBackground(theme.Background.RGBA())
	p.animator.Field().SetPalette(theme.Palette())
}

// Step 推进一帧并刷新屏幕
func (p *Preview) Step(nowMs float64) {
	p.registry.RunFrames(nowMs)
	p.drawCompare()
	p.drawStatus()
	p.screen.Show()
}

// drawCompare 用字符块绘制对比滑块："之前" 在左、"之后" 在右、分隔线在中间
func (p *Preview) drawCompare() {
	box := p.CompareBox()
	if box.Empty() {
		return
	}
	theme := p.effects.Theme(p.theme)
	_, handleX := compare.Layout(box, p.slider.Split())
	c0, r0 := CellAt(box.X, box.Y)
	c1, r1 := CellAt(box.Right(), box.Bottom())
	handleCol, _ := CellAt(handleX, box.Y)

	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			switch {
			case col == handleCol:
				p.surface.Cell(col, row, '┃', theme.Accent.RGBA(), theme.Surface.RGBA())
			case col < handleCol:
				p.surface.Cell(col, row, '░', theme.Muted.RGBA(), theme.Surface.RGBA())
			default:
				p.surface.Cell(col, row, '▓', theme.Accent.RGBA(), theme.Surface.RGBA())
			}
		}
	}
	p.surface.Text(c0, r0-1, "BEFORE", theme.Muted.RGBA())
	p.surface.Text(c1-5, r0-1, "AFTER", theme.Accent.RGBA())
}

func (p *Preview) drawStatus() {
	theme := p.effects.Theme(p.theme)
	status := fmt.Sprintf(" split %3.0f%%  theme %s  particles %d  ←/→ move  t theme  q quit",
		math.Round(p.slider.Split()), p.theme, p.animator.Field().Count())
	p.surface.Text(0, 0, status, theme.Text.RGBA())
}

// Run 运行事件循环，直到用户退出或 ctx 取消
func (p *Preview) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.screen.ChannelEvents(events, quit)
	}()
	defer func() {
		close(quit)
		<-done
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !p.Handle(ev) {
				return nil
			}
		case now := <-ticker.C:
			p.Step(float64(now.Sub(p.start).Microseconds()) / 1000)
		}
	}
}

// Close 停止动画、移除监听并还原终端。可重复调用。
func (p *Preview) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.unbind()
	p.slider.Close()
	p.animator.Close()
	p.screen.Fini()
}
