package scenes

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"

	"github.com/decker502/halabi/internal/host"
	"github.com/decker502/halabi/pkg/components"
	"github.com/decker502/halabi/pkg/config"
	"github.com/decker502/halabi/pkg/ecs"
	"github.com/decker502/halabi/pkg/entities"
	"github.com/decker502/halabi/pkg/genai"
	"github.com/decker502/halabi/pkg/leads"
	"github.com/decker502/halabi/pkg/site"
	"github.com/decker502/halabi/pkg/systems"
	"github.com/decker502/halabi/pkg/utils"
)

// Deps 着陆页场景的依赖
type Deps struct {
	Site     *config.SiteConfig
	Effects  *config.EffectsConfig
	Settings *site.SettingsManager
	Audio    *site.AudioManager
	Gateway  *genai.Gateway
	Leads    *leads.Dispatcher

	// Caps 设备能力，nil 时按平台检测
	Caps host.Capabilities
	// Input 指针输入源，nil 时使用 ebiten 输入
	Input utils.PointerSource
	// Updates 效果配置热加载通道，可为 nil
	Updates <-chan *config.EffectsConfig
	// Rand 粒子随机源，nil 时使用默认随机源
	Rand *rand.Rand
}

// LandingScene 服务展示着陆页
//
// 组成：
//   - 背景粒子场
//   - 服务卡片网格（指针倾斜 + 光晕，点击下单），可切换为作品集网格
//   - 前后对比滑块（试衣间，可用 AI 编辑）
//   - AI 工作室面板、智能客服面板和提示条
//   - 自定义光标
//
// 所有组件通过宿主注册表接收输入；异步 AI 请求的结果经由 results 通道回到帧循环。
type LandingScene struct {
	deps Deps
	log  *zap.Logger

	entityManager *ecs.EntityManager
	registry      *host.Registry
	caps          host.Capabilities

	inputSystem    *systems.InputSystem
	tiltSystem     *systems.TiltSystem
	buttonSystem   *systems.ButtonSystem
	cursorSystem   *systems.CursorSystem
	particleSystem *systems.ParticleSystem
	panelSystem    *systems.PanelSystem
	renderSystem   *systems.RenderSystem

	width, height int
	nowMs         float64

	// 服务卡片和作品集卡片，按站点配置顺序
	cards      []ecs.EntityID
	portfolio  []ecs.EntityID
	showcase   showcase
	categories []string
	filter     int // 0 表示全部，i 表示 categories[i-1]
	scrollRow  int
	gridArea   host.Rect

	filterButtons   []ecs.EntityID
	themeButton     ecs.EntityID
	chatButton      ecs.EntityID
	studioButton    ecs.EntityID
	portfolioButton ecs.EntityID

	compareEntity ecs.EntityID
	studioPanel   ecs.EntityID
	chatPanel     ecs.EntityID
	toastPanel    ecs.EntityID

	chat *site.ChatSession

	ctx        context.Context
	cancel     context.CancelFunc
	results    chan func()
	wg         sync.WaitGroup
	studioBusy bool
	editBusy   bool
}

// NewLandingScene 创建着陆页场景
func NewLandingScene(deps Deps) (*LandingScene, error) {
	if deps.Site == nil || deps.Effects == nil {
		return nil, fmt.Errorf("landing scene requires site and effects config")
	}
	if deps.Settings == nil {
		deps.Settings = site.NewSettingsManager(nil)
	}
	if deps.Audio == nil {
		deps.Audio = site.NewAudioManager(nil, deps.Settings)
	}
	if deps.Gateway == nil {
		deps.Gateway = genai.New(nil, deps.Site.Studio.Models)
	}
	if deps.Leads == nil {
		deps.Leads = leads.NewDispatcher(deps.Site.Phone, leads.SystemOpener{})
	}
	caps := deps.Caps
	if caps == nil {
		caps = utils.DeviceClass()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &LandingScene{
		deps:          deps,
		log:           zap.L().Named("landing"),
		entityManager: ecs.NewEntityManager(),
		registry:      host.NewRegistry(),
		caps:          caps,
		width:         deps.Effects.Window.Width,
		height:        deps.Effects.Window.Height,
		categories:    deps.Site.UsedCategories(),
		chat:          site.NewChatSession(deps.Gateway, deps.Site.Chat),
		ctx:           ctx,
		cancel:        cancel,
		results:       make(chan func(), 8),
	}

	theme := s.theme()
	render, err := systems.NewRenderSystem(s.entityManager, theme, deps.Effects.Tilt.Perspective)
	if err != nil {
		cancel()
		return nil, err
	}
	s.renderSystem = render
	s.inputSystem = systems.NewInputSystem(deps.Input, s.registry)
	s.tiltSystem = systems.NewTiltSystem(s.entityManager, deps.Effects.Tilt.HoverScale)
	s.buttonSystem = systems.NewButtonSystem(s.entityManager, s.registry)
	s.cursorSystem = systems.NewCursorSystem(s.entityManager, s.registry, s.window, caps, deps.Effects.Cursor)
	s.particleSystem = systems.NewParticleSystem(s.entityManager)
	s.panelSystem = systems.NewPanelSystem(s.entityManager)

	entities.NewParticleField(s.entityManager, s.registry, deps.Effects.Particles, theme.Palette(), s.width, s.height, deps.Rand)
	entities.NewCursor(s.entityManager)

	if err := s.initCompare(); err != nil {
		s.Close()
		return nil, err
	}
	s.buildCards()
	s.initButtons()
	s.initPanels()
	s.layout()

	if !s.cursorSystem.Disabled() {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	}
	s.log.Info("landing scene ready",
		zap.Int("services", len(deps.Site.Services)),
		zap.Bool("gateway", deps.Gateway.Enabled()),
		zap.Bool("finePointer", caps.FinePointer()))
	return s, nil
}

func (s *LandingScene) theme() config.ThemeConfig {
	return s.deps.Effects.Theme(s.deps.Settings.Theme())
}

func (s *LandingScene) window() host.Rect {
	return host.Rect{W: float64(s.width), H: float64(s.height)}
}

// initCompare 创建对比滑块
// 没有配置图片时使用程序生成的图片
func (s *LandingScene) initCompare() error {
	cfg := s.deps.Site.Compare
	var (
		after *ebiten.Image
		src   image.Image
		err   error
	)
	if cfg.Image != "" {
		after, src, err = ebitenutil.NewImageFromFile(cfg.Image)
		if err != nil {
			return fmt.Errorf("failed to load compare image %s: %w", cfg.Image, err)
		}
	} else {
		src = utils.ProceduralPhoto(640, 480)
		after = ebiten.NewImageFromImage(src)
	}
	png, err := utils.EncodePNG(src)
	if err != nil {
		return err
	}
	s.compareEntity = entities.NewCompareSlider(s.entityManager, s.registry, after, png, cfg)
	return nil
}

// buildCards 为站点配置中的每个服务和作品创建卡片
func (s *LandingScene) buildCards() {
	s.cards = s.cards[:0]
	for _, svc := range s.deps.Site.Services {
		id := entities.NewServiceCard(s.entityManager, s.registry, s.caps, svc, s.deps.Effects.Tilt, s.orderService)
		s.cards = append(s.cards, id)
	}
	s.portfolio = s.portfolio[:0]
	for _, item := range s.deps.Site.Portfolio {
		id := entities.NewPortfolioCard(s.entityManager, s.registry, s.caps, item, s.deps.Effects.Tilt, s.orderPortfolio)
		s.portfolio = append(s.portfolio, id)
	}
}

func (s *LandingScene) destroyCards() {
	for _, id := range s.cards {
		entities.DestroyCard(s.entityManager, id)
	}
	for _, id := range s.portfolio {
		entities.DestroyCard(s.entityManager, id)
	}
	s.cards = nil
	s.portfolio = nil
	s.entityManager.RemoveMarkedEntities()
}

func (s *LandingScene) initPanels() {
	steps := s.deps.Site.Studio.ProcessingSteps
	s.studioPanel = entities.NewPanel(s.entityManager, components.PanelStudio, "AI Studio", host.Rect{}, steps)
	s.chatPanel = entities.NewPanel(s.entityManager, components.PanelChat, "Assistant", host.Rect{}, nil)
	s.toastPanel = entities.NewPanel(s.entityManager, components.PanelToast, "", host.Rect{}, nil)
}

// Update 更新场景
func (s *LandingScene) Update(deltaTime float64) {
	s.nowMs += deltaTime * 1000

	s.drainResults()
	s.drainConfig()
	s.handleKeys()

	s.inputSystem.Update(s.nowMs)
	s.buttonSystem.Update(deltaTime)
	s.tiltSystem.Update(deltaTime)
	s.cursorSystem.Update(deltaTime)
	s.panelSystem.Update(deltaTime)
	s.syncWidgets()
}

// syncWidgets 把场景状态反映到组件上
func (s *LandingScene) syncWidgets() {
	for i, id := range s.filterButtons {
		if b, ok := ecs.GetComponent[*components.ButtonComponent](s.entityManager, id); ok {
			b.Primary = i == s.filter
		}
	}
	if b, ok := ecs.GetComponent[*components.ButtonComponent](s.entityManager, s.studioButton); ok {
		b.Enabled = !s.studioBusy
	}
	if b, ok := ecs.GetComponent[*components.ButtonComponent](s.entityManager, s.portfolioButton); ok {
		b.Primary = s.showcase == showPortfolio
	}
	if c, ok := ecs.GetComponent[*components.CompareComponent](s.entityManager, s.compareEntity); ok {
		c.Editing = s.editBusy
		if b, ok := ecs.GetComponent[*components.BoundsComponent](s.entityManager, s.compareEntity); ok {
			c.IsHovered = c.Slider.Dragging() || b.Rect.Contains(s.pointer())
		}
	}
	if s.chat.IsOpen() {
		s.refreshChatPanel()
	}
}

// Draw 绘制场景
func (s *LandingScene) Draw(screen *ebiten.Image) {
	theme := s.renderSystem.Theme()
	screen.Fill(theme.Background.RGBA())
	s.particleSystem.Draw(screen)
	s.drawHeader(screen)
	s.renderSystem.Draw(screen)
}

// Resize 窗口尺寸变化时重新布局
// 粒子场通过宿主的 Resize 事件重新生成
func (s *LandingScene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
	s.particleSystem.Resize(width, height)
	s.inputSystem.Resize(width, height)
	s.layout()
}

// Close 取消进行中的请求并释放所有宿主监听
func (s *LandingScene) Close() {
	s.cancel()
	s.wg.Wait()

	s.destroyCards()
	if s.compareEntity != 0 {
		entities.DestroyCompareSlider(s.entityManager, s.compareEntity)
		s.compareEntity = 0
	}
	s.particleSystem.Close()
	s.cursorSystem.Close()
	s.buttonSystem.Close()
	s.deps.Audio.Stop()
	s.entityManager.RemoveMarkedEntities()

	if !s.cursorSystem.Disabled() {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	}
	s.log.Debug("landing scene closed", zap.Int("listeners", s.registry.ListenerCount()))
}

// Registry 返回场景的宿主注册表
func (s *LandingScene) Registry() *host.Registry {
	return s.registry
}

func (s *LandingScene) toggleTheme() {
	s.deps.Settings.ToggleTheme()
	s.applyTheme()
	if err := s.deps.Settings.Save(); err != nil {
		s.log.Warn("failed to save theme", zap.Error(err))
	}
}

func (s *LandingScene) applyTheme() {
	theme := s.theme()
	s.renderSystem.SetTheme(theme)
	s.particleSystem.ApplyPalette(theme.Palette())
	s.log.Debug("theme applied", zap.String("theme", s.deps.Settings.Theme()))
}

// drainConfig 应用热加载的效果配置
func (s *LandingScene) drainConfig() {
	if s.deps.Updates == nil {
		return
	}
	for {
		select {
		case cfg, ok := <-s.deps.Updates:
			if !ok {
				s.deps.Updates = nil
				return
			}
			s.applyEffects(cfg)
		default:
			return
		}
	}
}

// applyEffects 应用新的效果配置
// 卡片重建以使用新的最大倾斜角；粒子场只更新调色板
func (s *LandingScene) applyEffects(cfg *config.EffectsConfig) {
	if cfg == nil {
		return
	}
	s.deps.Effects = cfg
	s.tiltSystem.SetHoverScale(cfg.Tilt.HoverScale)
	s.renderSystem.SetPerspective(cfg.Tilt.Perspective)
	s.cursorSystem.SetConfig(cfg.Cursor)
	s.destroyCards()
	s.buildCards()
	s.layout()
	s.applyTheme()
	s.log.Info("effects config reloaded")
}

// pointer 返回当前指针位置（屏幕坐标）
func (s *LandingScene) pointer() (float64, float64) {
	if c, ok := s.cursor(); ok && c.Visible {
		return c.DotX, c.DotY
	}
	x, y := ebiten.CursorPosition()
	return float64(x), float64(y)
}

func (s *LandingScene) cursor() (*components.CursorComponent, bool) {
	for _, id := range ecs.GetEntitiesWith1[*components.CursorComponent](s.entityManager) {
		return ecs.GetComponent[*components.CursorComponent](s.entityManager, id)
	}
	return nil, false
}

// hoveredService 返回指针所在卡片的服务
func (s *LandingScene) hoveredService() (config.ServiceConfig, bool) {
	for _, id := range s.cards {
		card, ok := ecs.GetComponent[*components.CardComponent](s.entityManager, id)
		if ok && card.Hovered {
			return s.deps.Site.Service(card.ItemID)
		}
	}
	return config.ServiceConfig{}, false
}

// focusService 返回悬停的服务，没有悬停时返回当前筛选下的第一个服务
func (s *LandingScene) focusService() (config.ServiceConfig, bool) {
	if svc, ok := s.hoveredService(); ok {
		return svc, true
	}
	visible := s.deps.Site.ServicesIn(s.category())
	if len(visible) == 0 {
		return config.ServiceConfig{}, false
	}
	return visible[0], true
}

// category 返回当前筛选的分类，全部时为空
func (s *LandingScene) category() string {
	if s.filter <= 0 || s.filter > len(s.categories) {
		return ""
	}
	return s.categories[s.filter-1]
}
