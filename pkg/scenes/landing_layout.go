package scenes

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/halabi/internal/host"
	"github.com/decker502/halabi/pkg/components"
	"github.com/decker502/halabi/pkg/ecs"
	"github.com/decker502/halabi/pkg/entities"
	"github.com/decker502/halabi/pkg/systems"
	"github.com/decker502/halabi/pkg/utils/easing"
)

// 布局常量（逻辑像素）
const (
	margin          = 24.0
	gap             = 16.0
	headerHeight    = 72.0
	filterBarHeight = 36.0
	buttonHeight    = 32.0
	cardMinWidth    = 260.0
	cardHeight      = 200.0
	// narrowBreakpoint 窄屏下对比滑块放在卡片网格上方
	narrowBreakpoint = 768
	narrowCompareH   = 220.0
	toastWidth       = 360.0
	toastHeight      = 56.0
)

// gridLayout 把 n 张卡片排入 area，返回每张卡片的区域
// scrollRow 之前的行和超出 area 底部的行得到空区域（隐藏）
func gridLayout(area host.Rect, n, scrollRow int) []host.Rect {
	rects := make([]host.Rect, n)
	if area.Empty() || n == 0 {
		return rects
	}
	cols := int(math.Max(1, math.Floor((area.W+gap)/(cardMinWidth+gap))))
	w := (area.W - gap*float64(cols-1)) / float64(cols)
	for i := 0; i < n; i++ {
		row := i/cols - scrollRow
		if row < 0 {
			continue
		}
		y := area.Y + float64(row)*(cardHeight+gap)
		if y+cardHeight > area.Bottom() {
			continue
		}
		col := i % cols
		rects[i] = host.Rect{X: area.X + float64(col)*(w+gap), Y: y, W: w, H: cardHeight}
	}
	return rects
}

// gridRows 返回 n 张卡片在 area 中需要的总行数和可见行数
func gridRows(area host.Rect, n int) (total, visible int) {
	if area.Empty() || n == 0 {
		return 0, 0
	}
	cols := int(math.Max(1, math.Floor((area.W+gap)/(cardMinWidth+gap))))
	total = (n + cols - 1) / cols
	visible = int(math.Max(1, math.Floor((area.H+gap)/(cardHeight+gap))))
	return total, visible
}

// splitAreas 计算卡片网格和对比滑块的区域
func splitAreas(width, height int) (grid, compare host.Rect) {
	w, h := float64(width), float64(height)
	top := headerHeight + filterBarHeight + gap
	if width < narrowBreakpoint {
		compare = host.Rect{X: margin, Y: top, W: w - 2*margin, H: narrowCompareH}
		gridTop := compare.Bottom() + gap
		grid = host.Rect{X: margin, Y: gridTop, W: w - 2*margin, H: h - gridTop - margin}
		return clampRect(grid), clampRect(compare)
	}
	gridW := math.Floor((w - 2*margin - gap) * 0.62)
	grid = host.Rect{X: margin, Y: top, W: gridW, H: h - top - margin}
	compare = host.Rect{X: grid.Right() + gap, Y: top, W: w - 2*margin - gap - gridW, H: math.Min(h-top-margin, 420)}
	return clampRect(grid), clampRect(compare)
}

func clampRect(r host.Rect) host.Rect {
	if r.W < 0 || r.H < 0 {
		return host.Rect{}
	}
	return r
}

// showcase 卡片网格当前展示的内容
type showcase int

const (
	showServices showcase = iota
	showPortfolio
)

// gridCards 返回当前网格中按布局顺序排列的卡片
// 服务受分类筛选影响，作品集始终全部展示
func (s *LandingScene) gridCards() []ecs.EntityID {
	if s.showcase == showPortfolio {
		return s.portfolio
	}
	var out []ecs.EntityID
	for _, idx := range s.visibleIndices() {
		if idx < len(s.cards) {
			out = append(out, s.cards[idx])
		}
	}
	return out
}

// visibleIndices 返回当前筛选下可见的服务下标
func (s *LandingScene) visibleIndices() []int {
	cat := s.category()
	var out []int
	for i, svc := range s.deps.Site.Services {
		if cat == "" || svc.Category == cat {
			out = append(out, i)
		}
	}
	return out
}

// layout 按窗口尺寸、筛选和滚动位置重新计算所有组件区域
// 指针追踪器每次事件都重新查询区域，布局变化后不会使用过期坐标
func (s *LandingScene) layout() {
	grid, compare := splitAreas(s.width, s.height)
	s.gridArea = grid

	visible := s.gridCards()
	total, rows := gridRows(grid, len(visible))
	if maxScroll := total - rows; s.scrollRow > maxScroll {
		s.scrollRow = max(0, maxScroll)
	}
	rects := gridLayout(grid, len(visible), s.scrollRow)

	for _, id := range s.cards {
		setBounds(s.entityManager, id, host.Rect{})
	}
	for _, id := range s.portfolio {
		setBounds(s.entityManager, id, host.Rect{})
	}
	for i, id := range visible {
		setBounds(s.entityManager, id, rects[i])
	}
	setBounds(s.entityManager, s.compareEntity, compare)

	s.layoutButtons()
	s.layoutPanels()
}

func setBounds(em *ecs.EntityManager, id ecs.EntityID, r host.Rect) {
	if b, ok := ecs.GetComponent[*components.BoundsComponent](em, id); ok {
		b.Rect = r
	}
}

func (s *LandingScene) layoutButtons() {
	w := float64(s.width)
	x := w - margin
	for _, id := range []ecs.EntityID{s.themeButton, s.chatButton, s.studioButton, s.portfolioButton} {
		bw := s.buttonWidth(id)
		x -= bw
		setBounds(s.entityManager, id, host.Rect{X: x, Y: (headerHeight - buttonHeight) / 2, W: bw, H: buttonHeight})
		x -= gap / 2
	}

	x = margin
	y := headerHeight
	for _, id := range s.filterButtons {
		bw := s.buttonWidth(id)
		if s.showcase == showPortfolio || x+bw > w-margin {
			setBounds(s.entityManager, id, host.Rect{})
			continue
		}
		setBounds(s.entityManager, id, host.Rect{X: x, Y: y, W: bw, H: buttonHeight - 4})
		x += bw + gap/2
	}
}

func (s *LandingScene) buttonWidth(id ecs.EntityID) float64 {
	b, ok := ecs.GetComponent[*components.ButtonComponent](s.entityManager, id)
	if !ok {
		return 0
	}
	label := b.Label
	if b.Hint != "" {
		label = fmt.Sprintf("%s  [%s]", b.Label, b.Hint)
	}
	return s.renderSystem.MeasureText(label, systems.StyleBody) + 24
}

func (s *LandingScene) layoutPanels() {
	w, h := float64(s.width), float64(s.height)

	studio := host.Rect{X: margin, Y: h - margin - 260, W: math.Min(w-2*margin, 720), H: 260}
	if s.width < narrowBreakpoint {
		studio = host.Rect{X: margin / 2, Y: h / 3, W: w - margin, H: h*2/3 - margin/2}
	}
	setBounds(s.entityManager, s.studioPanel, clampRect(studio))

	chatW := math.Min(w-2*margin, 380)
	chat := host.Rect{X: w - margin - chatW, Y: headerHeight + gap, W: chatW, H: math.Min(h-headerHeight-2*gap, 480)}
	setBounds(s.entityManager, s.chatPanel, clampRect(chat))

	tw := math.Min(toastWidth, w-2*margin)
	setBounds(s.entityManager, s.toastPanel, clampRect(host.Rect{X: (w - tw) / 2, Y: h - margin - toastHeight, W: tw, H: toastHeight}))
}

// initButtons 创建顶部操作按钮和分类筛选按钮
func (s *LandingScene) initButtons() {
	em := s.entityManager
	s.themeButton = entities.NewButton(em, "Theme", "T", host.Rect{}, false, s.toggleTheme)
	s.chatButton = entities.NewButton(em, "Chat", "H", host.Rect{}, false, func() { s.toggleChat("") })
	s.studioButton = entities.NewButton(em, "AI Campaign", "C", host.Rect{}, true, s.runCampaign)
	s.portfolioButton = entities.NewButton(em, "Portfolio", "P", host.Rect{}, false, s.toggleShowcase)

	labels := append([]string{"All"}, s.categories...)
	for i, label := range labels {
		hint := ""
		if i < 10 {
			hint = fmt.Sprint(i)
		}
		s.filterButtons = append(s.filterButtons, entities.NewButton(em, label, hint, host.Rect{}, i == 0, func() { s.setFilter(i) }))
	}
}

// setFilter 切换分类筛选并回到顶部
// 作品集展示时筛选栏隐藏，筛选不生效
func (s *LandingScene) setFilter(i int) {
	if s.showcase == showPortfolio || i < 0 || i > len(s.categories) || i == s.filter {
		return
	}
	s.filter = i
	s.scrollRow = 0
	s.layout()
	s.resample()
}

// scroll 按行滚动卡片网格
func (s *LandingScene) scroll(rows int) {
	total, visible := gridRows(s.gridArea, len(s.gridCards()))
	next := max(0, min(s.scrollRow+rows, total-visible))
	if next == s.scrollRow {
		return
	}
	s.scrollRow = next
	s.layout()
	s.resample()
}

// toggleShowcase 在服务和作品集之间切换卡片网格
func (s *LandingScene) toggleShowcase() {
	if s.showcase == showPortfolio {
		s.showcase = showServices
	} else {
		s.showcase = showPortfolio
	}
	s.scrollRow = 0
	s.layout()
	s.resample()
}

// resample 布局变化后在光标当前位置补发一次移动事件
// 光标不在窗口内时不需要补发
func (s *LandingScene) resample() {
	if c, ok := s.cursor(); ok && c.Visible {
		resampleCards(s.entityManager, s.registry, c.DotX, c.DotY)
	}
}

// resampleCards 在 (x, y) 派发移动事件并立即同步卡片的悬停状态
// 被移走或隐藏的卡片因此收到离开，倾斜和光晕复位，不必等指针再次移动
func resampleCards(em *ecs.EntityManager, target *host.Registry, x, y float64) {
	target.Dispatch(host.Event{Type: host.EventPointerMove, X: x, Y: y})
	for _, id := range ecs.GetEntitiesWith1[*components.CardComponent](em) {
		card, _ := ecs.GetComponent[*components.CardComponent](em, id)
		if card.Glow != nil {
			card.Hovered = card.Glow.State().Active
		}
	}
}

// drawHeader 绘制商户名称和标语
func (s *LandingScene) drawHeader(screen *ebiten.Image) {
	theme := s.renderSystem.Theme()
	s.renderSystem.DrawText(screen, s.deps.Site.BusinessName, systems.StyleTitle, margin, 12, theme.Accent.RGBA())
	s.renderSystem.DrawText(screen, s.deps.Site.Tagline, systems.StyleSmall, margin, 48, theme.Muted.RGBA())

	if total, visible := gridRows(s.gridArea, len(s.gridCards())); total > visible {
		hint := fmt.Sprintf("Rows %d-%d of %d · scroll for more", s.scrollRow+1, min(s.scrollRow+visible, total), total)
		s.renderSystem.DrawText(screen, hint, systems.StyleSmall, s.gridArea.X, s.gridArea.Bottom()+4, theme.Muted.RGBA())
	}
	s.drawScrollProgress(screen)
}

// drawScrollProgress 在网格左侧绘制滚动进度条，窄屏不显示
func (s *LandingScene) drawScrollProgress(screen *ebiten.Image) {
	if s.width < narrowBreakpoint || s.gridArea.Empty() {
		return
	}
	total, visible := gridRows(s.gridArea, len(s.gridCards()))
	theme := s.renderSystem.Theme()
	x := float32(margin / 2)
	top, h := float32(s.gridArea.Y), float32(s.gridArea.H)
	vector.StrokeLine(screen, x, top, x, top+h, 1, easing.WithAlpha(theme.Text.RGBA(), 0.05), true)

	filled := h * float32(scrollProgress(s.scrollRow, total, visible))
	if filled <= 0 {
		return
	}
	vector.StrokeLine(screen, x, top, x, top+filled, 1, theme.Accent.RGBA(), true)
	vector.DrawFilledCircle(screen, x, top+filled, 3, theme.Accent.RGBA(), true)
}

// scrollProgress 返回网格滚动进度 ∈ [0, 1]
// 所有行都可见时没有可滚动的距离，进度为 0
func scrollProgress(row, total, visible int) float64 {
	span := total - visible
	if span <= 0 {
		return 0
	}
	return easing.Clamp01(float64(row) / float64(span))
}
