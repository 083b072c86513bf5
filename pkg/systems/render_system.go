package systems

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/decker502/halabi/internal/compare"
	"github.com/decker502/halabi/internal/host"
	"github.com/decker502/halabi/internal/pointer"
	"github.com/decker502/halabi/internal/tilt"
	"github.com/decker502/halabi/pkg/components"
	"github.com/decker502/halabi/pkg/config"
	"github.com/decker502/halabi/pkg/ecs"
	"github.com/decker502/halabi/pkg/utils"
	"github.com/decker502/halabi/pkg/utils/easing"
)

// TextStyle 文字样式
type TextStyle int

const (
	StyleTitle TextStyle = iota
	StyleHeading
	StyleBody
	StyleSmall
)

// 卡片内边距和光晕参数
const (
	cardPadding     = 16.0
	glowTextureSize = 256
	glowStrength    = 0.35
	lineSpacing     = 1.35
)

// portfolioAction 作品集卡片底部的行动提示
const portfolioAction = "Make one like this →"

// RenderSystem 渲染系统
// 负责绘制卡片、对比滑块、按钮、面板和自定义光标
//
// 职责：
//   - 卡片正面离屏绘制，每帧叠加光晕后按倾斜状态透视投影到屏幕
//   - 对比滑块 "之前" 图层按分割位置裁剪
//   - 按钮和面板的文字排版（text/v2 + Go 字体）
//   - 光标最后绘制，位于最上层
type RenderSystem struct {
	entityManager *ecs.EntityManager
	theme         config.ThemeConfig
	perspective   float64

	faces map[TextStyle]*text.GoTextFace
	glow  *ebiten.Image
	white *ebiten.Image
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem(em *ecs.EntityManager, theme config.ThemeConfig, perspective float64) (*RenderSystem, error) {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load regular font: %w", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load bold font: %w", err)
	}
	if perspective <= 0 {
		perspective = tilt.DefaultPerspective
	}

	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)

	return &RenderSystem{
		entityManager: em,
		theme:         theme,
		perspective:   perspective,
		faces: map[TextStyle]*text.GoTextFace{
			StyleTitle:   {Source: bold, Size: 28},
			StyleHeading: {Source: bold, Size: 17},
			StyleBody:    {Source: regular, Size: 14},
			StyleSmall:   {Source: regular, Size: 12},
		},
		glow:  ebiten.NewImageFromImage(radialGlow(glowTextureSize)),
		white: white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}, nil
}

// SetTheme 切换配色并标记所有卡片需要重绘
func (s *RenderSystem) SetTheme(theme config.ThemeConfig) {
	s.theme = theme
	for _, id := range ecs.GetEntitiesWith1[*components.CardComponent](s.entityManager) {
		card, _ := ecs.GetComponent[*components.CardComponent](s.entityManager, id)
		card.Dirty = true
	}
}

// SetPerspective 更新透视距离（配置热加载）
func (s *RenderSystem) SetPerspective(p float64) {
	if p > 0 {
		s.perspective = p
	}
}

// Theme 返回当前配色
func (s *RenderSystem) Theme() config.ThemeConfig {
	return s.theme
}

// Face 返回指定样式的字体
func (s *RenderSystem) Face(style TextStyle) text.Face {
	return s.faces[style]
}

// DrawText 在 (x, y) 绘制单行文字，y 为行顶部
func (s *RenderSystem) DrawText(screen *ebiten.Image, str string, style TextStyle, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, str, s.faces[style], op)
}

// DrawTextCentered 以 centerX 为中心绘制单行文字
func (s *RenderSystem) DrawTextCentered(screen *ebiten.Image, str string, style TextStyle, centerX, y float64, clr color.Color) {
	w, _ := text.Measure(str, s.faces[style], 0)
	s.DrawText(screen, str, style, centerX-w/2, y, clr)
}

// DrawWrapped 在 maxWidth 内换行绘制，返回绘制后的下一行 y
func (s *RenderSystem) DrawWrapped(screen *ebiten.Image, str string, style TextStyle, x, y, maxWidth float64, clr color.Color) float64 {
	face := s.faces[style]
	step := face.Size * lineSpacing
	for _, line := range utils.WrapText(str, face, maxWidth) {
		s.DrawText(screen, line, style, x, y, clr)
		y += step
	}
	return y
}

// MeasureText 返回单行文字的宽度
func (s *RenderSystem) MeasureText(str string, style TextStyle) float64 {
	w, _ := text.Measure(str, s.faces[style], 0)
	return w
}

// LineHeight 返回样式的行高
func (s *RenderSystem) LineHeight(style TextStyle) float64 {
	return s.faces[style].Size * lineSpacing
}

// Draw 绘制所有组件（粒子场除外）
func (s *RenderSystem) Draw(screen *ebiten.Image) {
	s.DrawCards(screen)
	s.DrawCompare(screen)
	s.DrawButtons(screen)
	s.DrawPanels(screen)
	s.DrawCursor(screen)
}

// DrawCards 绘制所有已布局的卡片，悬停的卡片最后绘制
func (s *RenderSystem) DrawCards(screen *ebiten.Image) {
	ids := ecs.GetEntitiesWith2[*components.CardComponent, *components.BoundsComponent](s.entityManager)
	sort.SliceStable(ids, func(i, j int) bool {
		a, _ := ecs.GetComponent[*components.CardComponent](s.entityManager, ids[i])
		b, _ := ecs.GetComponent[*components.CardComponent](s.entityManager, ids[j])
		return !a.Hovered && b.Hovered
	})
	for _, id := range ids {
		card, _ := ecs.GetComponent[*components.CardComponent](s.entityManager, id)
		bounds, _ := ecs.GetComponent[*components.BoundsComponent](s.entityManager, id)
		if bounds.Rect.Empty() {
			continue
		}
		s.drawCard(screen, card, bounds.Rect)
	}
}

func (s *RenderSystem) drawCard(screen *ebiten.Image, card *components.CardComponent, box host.Rect) {
	w, h := int(math.Ceil(box.W)), int(math.Ceil(box.H))
	if card.Face == nil || card.Face.Bounds().Dx() != w || card.Face.Bounds().Dy() != h {
		if card.Face != nil {
			card.Face.Deallocate()
			card.Composite.Deallocate()
		}
		card.Face = ebiten.NewImage(w, h)
		card.Composite = ebiten.NewImage(w, h)
		card.Dirty = true
	}
	if card.Dirty {
		s.paintCardFace(card, float64(w), float64(h))
		card.Dirty = false
	}

	// 合成正面和光晕
	state := card.Displayed
	card.Composite.Clear()
	card.Composite.DrawImage(card.Face, nil)
	if state.GlowOpacity > 0 {
		d := math.Max(box.W, box.H) * 1.2
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(d/glowTextureSize, d/glowTextureSize)
		op.GeoM.Translate(state.GlowX/100*box.W-d/2, state.GlowY/100*box.H-d/2)
		op.ColorScale.ScaleWithColor(s.theme.Accent.RGBA())
		op.ColorScale.ScaleAlpha(float32(state.GlowOpacity * glowStrength))
		op.Blend = ebiten.BlendSourceAtop
		card.Composite.DrawImage(s.glow, op)
	}

	scale := card.Scale
	if scale <= 0 {
		scale = 1
	}
	corners := tilt.Project(box, state, s.perspective, scale)
	s.drawQuad(screen, card.Composite, corners)
}

// drawQuad 把 src 贴到四个角点（左上、右上、右下、左下）构成的四边形上
func (s *RenderSystem) drawQuad(screen, src *ebiten.Image, corners [4]pointer.Point) {
	b := src.Bounds()
	sx0, sy0 := float32(b.Min.X), float32(b.Min.Y)
	sx1, sy1 := float32(b.Max.X), float32(b.Max.Y)
	srcs := [4][2]float32{{sx0, sy0}, {sx1, sy0}, {sx1, sy1}, {sx0, sy1}}

	vertices := make([]ebiten.Vertex, 4)
	for i, c := range corners {
		vertices[i] = ebiten.Vertex{
			DstX:   float32(c.X),
			DstY:   float32(c.Y),
			SrcX:   srcs[i][0],
			SrcY:   srcs[i][1],
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: 1,
		}
	}
	op := &ebiten.DrawTrianglesOptions{}
	op.Filter = ebiten.FilterLinear
	screen.DrawTriangles(vertices, []uint16{0, 1, 2, 0, 2, 3}, src, op)
}

// paintCardFace 绘制卡片静态内容
func (s *RenderSystem) paintCardFace(card *components.CardComponent, w, h float64) {
	face := card.Face
	face.Clear()
	t := s.theme

	vector.DrawFilledRect(face, 0, 0, float32(w), float32(h), t.Surface.RGBA(), true)
	vector.StrokeRect(face, 0.5, 0.5, float32(w-1), float32(h-1), 1, easing.WithAlpha(t.Accent.RGBA(), 0.35), true)

	x, y := cardPadding, cardPadding
	maxW := w - 2*cardPadding

	if card.Badge != "" {
		bw, _ := text.Measure(card.Badge, s.faces[StyleSmall], 0)
		vector.DrawFilledRect(face, float32(w-cardPadding-bw-12), float32(y-2), float32(bw+12), float32(s.LineHeight(StyleSmall)+2), easing.WithAlpha(t.Accent.RGBA(), 0.9), true)
		s.DrawText(face, card.Badge, StyleSmall, w-cardPadding-bw-6, y, t.Background.RGBA())
	}
	s.DrawText(face, card.Category, StyleSmall, x, y, t.Muted.RGBA())
	y += s.LineHeight(StyleSmall) + 8

	y = s.DrawWrapped(face, card.Title, StyleHeading, x, y, maxW, t.Text.RGBA())
	y += 4
	s.DrawWrapped(face, card.Description, StyleBody, x, y, maxW, t.Muted.RGBA())

	bottom := h - cardPadding - s.LineHeight(StyleBody)
	if card.Kind == components.CardPortfolio {
		s.DrawText(face, portfolioAction, StyleBody, x, bottom, t.Accent.RGBA())
		return
	}
	s.DrawText(face, card.Price, StyleBody, x, bottom, t.Accent.RGBA())
	if card.Reviews > 0 {
		rating := fmt.Sprintf("%.1f / 5 (%d)", card.Rating, card.Reviews)
		rw, _ := text.Measure(rating, s.faces[StyleSmall], 0)
		s.DrawText(face, rating, StyleSmall, w-cardPadding-rw, bottom+2, t.Muted.RGBA())
	}
}

// DrawCompare 绘制对比滑块
func (s *RenderSystem) DrawCompare(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith2[*components.CompareComponent, *components.BoundsComponent](s.entityManager) {
		c, _ := ecs.GetComponent[*components.CompareComponent](s.entityManager, id)
		bounds, _ := ecs.GetComponent[*components.BoundsComponent](s.entityManager, id)
		box := bounds.Rect
		if box.Empty() || c.After == nil {
			continue
		}
		t := s.theme

		drawFitted(screen, c.After, box)
		before, handleX := compare.Layout(box, c.Slider.Split())
		if !before.Empty() && c.Before != nil {
			clip := screen.SubImage(image.Rect(int(before.X), int(before.Y), int(math.Ceil(before.Right())), int(math.Ceil(before.Bottom())))).(*ebiten.Image)
			drawFitted(clip, c.Before, box)
		}

		vector.StrokeLine(screen, float32(handleX), float32(box.Y), float32(handleX), float32(box.Bottom()), 2, t.Text.RGBA(), true)
		knobY := float32(box.Y + box.H/2)
		vector.DrawFilledCircle(screen, float32(handleX), knobY, 16, t.Surface.RGBA(), true)
		vector.StrokeCircle(screen, float32(handleX), knobY, 16, 2, t.Accent.RGBA(), true)
		s.DrawTextCentered(screen, "< >", StyleSmall, handleX, float64(knobY)-8, t.Text.RGBA())

		s.drawTag(screen, c.BeforeLabel, box.X+10, box.Y+10)
		if c.AfterLabel != "" {
			aw, _ := text.Measure(c.AfterLabel, s.faces[StyleSmall], 0)
			s.drawTag(screen, c.AfterLabel, box.Right()-aw-22, box.Y+10)
		}
		if c.Editing {
			vector.DrawFilledRect(screen, float32(box.X), float32(box.Y), float32(box.W), float32(box.H), color.RGBA{A: 140}, false)
			s.DrawTextCentered(screen, "Editing with AI...", StyleHeading, box.X+box.W/2, box.Y+box.H/2-10, t.Accent.RGBA())
		}
	}
}

func (s *RenderSystem) drawTag(screen *ebiten.Image, label string, x, y float64) {
	if label == "" {
		return
	}
	w, _ := text.Measure(label, s.faces[StyleSmall], 0)
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w+12), float32(s.LineHeight(StyleSmall)+4), color.RGBA{A: 160}, true)
	s.DrawText(screen, label, StyleSmall, x+6, y+2, color.White)
}

// drawFitted 把 img 拉伸到 box
func drawFitted(dst, img *ebiten.Image, box host.Rect) {
	b := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(box.W/float64(b.Dx()), box.H/float64(b.Dy()))
	op.GeoM.Translate(box.X, box.Y)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(img, op)
}

// DrawButtons 绘制所有按钮
func (s *RenderSystem) DrawButtons(screen *ebiten.Image) {
	t := s.theme
	for _, id := range ecs.GetEntitiesWith2[*components.ButtonComponent, *components.BoundsComponent](s.entityManager) {
		button, _ := ecs.GetComponent[*components.ButtonComponent](s.entityManager, id)
		bounds, _ := ecs.GetComponent[*components.BoundsComponent](s.entityManager, id)
		r := bounds.Rect
		if r.Empty() {
			continue
		}

		fill, label := t.Surface.RGBA(), t.Text.RGBA()
		if button.Primary {
			fill, label = t.Accent.RGBA(), t.Background.RGBA()
		}
		switch button.State {
		case components.UIHovered:
			fill = easing.LerpColor(fill, t.Text.RGBA(), 0.12)
		case components.UIClicked:
			fill = easing.LerpColor(fill, t.Background.RGBA(), 0.25)
		case components.UIDisabled:
			fill = easing.WithAlpha(fill, 0.4)
		}

		vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), fill, true)
		vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1, easing.WithAlpha(t.Accent.RGBA(), 0.5), true)

		str := button.Label
		if button.Hint != "" {
			str = fmt.Sprintf("%s  [%s]", button.Label, button.Hint)
		}
		ty := r.Y + (r.H-s.faces[StyleBody].Size)/2 - 2
		s.DrawTextCentered(screen, str, StyleBody, r.X+r.W/2, ty, label)
	}
}

// DrawPanels 绘制所有可见面板
func (s *RenderSystem) DrawPanels(screen *ebiten.Image) {
	t := s.theme
	for _, id := range ecs.GetEntitiesWith2[*components.PanelComponent, *components.BoundsComponent](s.entityManager) {
		panel, _ := ecs.GetComponent[*components.PanelComponent](s.entityManager, id)
		bounds, _ := ecs.GetComponent[*components.BoundsComponent](s.entityManager, id)
		r := bounds.Rect
		if !panel.Visible || r.Empty() {
			continue
		}

		vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), easing.WithAlpha(t.Surface.RGBA(), 0.95), true)
		vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1, t.Accent.RGBA(), true)

		x, y := r.X+cardPadding, r.Y+cardPadding
		maxW := r.W - 2*cardPadding
		if panel.Image != nil {
			maxW = r.W*0.55 - cardPadding
		}
		if panel.Title != "" {
			y = s.DrawWrapped(screen, panel.Title, StyleHeading, x, y, maxW, t.Accent.RGBA()) + 6
		}

		switch {
		case panel.Loading:
			s.DrawText(screen, CurrentStep(panel)+loadingDots(panel.StepElapsed), StyleBody, x, y, t.Text.RGBA())
		case panel.Error != "":
			s.DrawWrapped(screen, panel.Error, StyleBody, x, y, maxW, color.RGBA{R: 248, G: 113, B: 113, A: 255})
		default:
			s.drawPanelLines(screen, panel, x, y, maxW, r.Bottom()-cardPadding)
		}

		if panel.Image != nil {
			area := host.Rect{X: r.X + r.W*0.55, Y: r.Y + cardPadding, W: r.W*0.45 - cardPadding, H: r.H - 2*cardPadding}
			drawContained(screen, panel.Image, area)
		}
	}
}

// drawPanelLines 绘制面板正文；超出底部时只显示最后几行（对话面板滚动到底）
func (s *RenderSystem) drawPanelLines(screen *ebiten.Image, panel *components.PanelComponent, x, y, maxW, bottom float64) {
	t := s.theme
	step := s.LineHeight(StyleBody)

	var lines []string
	for _, l := range panel.Lines {
		lines = append(lines, utils.WrapText(l, s.faces[StyleBody], maxW)...)
	}
	if panel.Kind == components.PanelChat {
		bottom -= step + 6
	}
	if avail := int((bottom - y) / step); avail >= 0 && len(lines) > avail {
		lines = lines[len(lines)-avail:]
	}
	for _, l := range lines {
		s.DrawText(screen, l, StyleBody, x, y, t.Text.RGBA())
		y += step
	}

	if panel.Kind == components.PanelChat {
		iy := bottom + 6
		vector.StrokeLine(screen, float32(x), float32(iy-3), float32(x+maxW), float32(iy-3), 1, easing.WithAlpha(t.Muted.RGBA(), 0.5), true)
		s.DrawText(screen, "> "+panel.Input+"_", StyleBody, x, iy, t.Accent.RGBA())
	}
}

// drawContained 等比缩放 img 放入 area 并居中
func drawContained(dst, img *ebiten.Image, area host.Rect) {
	b := img.Bounds()
	k := math.Min(area.W/float64(b.Dx()), area.H/float64(b.Dy()))
	w, h := float64(b.Dx())*k, float64(b.Dy())*k
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(k, k)
	op.GeoM.Translate(area.X+(area.W-w)/2, area.Y+(area.H-h)/2)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(img, op)
}

func loadingDots(elapsed float64) string {
	n := int(elapsed*2) % 4
	return [...]string{"", ".", "..", "..."}[n]
}

// DrawCursor 绘制自定义光标
func (s *RenderSystem) DrawCursor(screen *ebiten.Image) {
	t := s.theme
	for _, id := range ecs.GetEntitiesWith1[*components.CursorComponent](s.entityManager) {
		c, _ := ecs.GetComponent[*components.CursorComponent](s.entityManager, id)
		if c.Disabled || !c.Visible || !c.Placed {
			continue
		}
		accent := t.Accent.RGBA()
		if c.Hovering {
			vector.DrawFilledCircle(screen, float32(c.RingX), float32(c.RingY), float32(c.RingRadius), easing.WithAlpha(accent, 0.15), true)
		}
		vector.StrokeCircle(screen, float32(c.RingX), float32(c.RingY), float32(c.RingRadius), 1.5, easing.WithAlpha(accent, 0.8), true)

		dot := 4.0
		if c.Pressed {
			dot *= 0.6
		}
		vector.DrawFilledCircle(screen, float32(c.DotX), float32(c.DotY), float32(dot), accent, true)
	}
}

// radialGlow 生成中心白色、边缘透明的径向渐变（预乘 alpha）
func radialGlow(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c) / c
			a := uint8(255 * easing.OutQuad(easing.Clamp01(1-d)))
			img.SetRGBA(x, y, color.RGBA{R: a, G: a, B: a, A: a})
		}
	}
	return img
}
