// Package app 提供应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/decker502/halabi/pkg/config"
	"github.com/decker502/halabi/pkg/genai"
	"github.com/decker502/halabi/pkg/leads"
	"github.com/decker502/halabi/pkg/scenes"
	"github.com/decker502/halabi/pkg/site"
)

// Config 定义应用启动配置
type Config struct {
	// ConfigDir 配置覆盖目录，为空时只使用嵌入配置
	ConfigDir string
	// Theme 启动主题（dark / light），为空时使用已保存的设置
	Theme string
	// Watch 监听 ConfigDir 中 effects.yaml 的变化并热加载
	Watch bool
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *site.SceneManager
	settings     *site.SettingsManager
	effects      *config.EffectsConfig
	watcher      *config.Watcher
	cancel       context.CancelFunc
	log          *zap.Logger

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	log := zap.L().Named("app")

	loader := config.NewLoader(cfg.ConfigDir)
	effects, err := loader.LoadEffects()
	if err != nil {
		return nil, fmt.Errorf("效果配置加载失败: %w", err)
	}
	siteCfg, err := loader.LoadSite()
	if err != nil {
		return nil, fmt.Errorf("站点配置加载失败: %w", err)
	}

	// 存储不可用时以内存模式运行
	storage, err := site.OpenStorage(site.AppName)
	if err != nil {
		log.Warn("settings will not persist", zap.Error(err))
	}
	settings := site.NewSettingsManager(storage)
	if cfg.Theme != "" && !settings.SetTheme(cfg.Theme) {
		log.Warn("unknown theme ignored", zap.String("theme", cfg.Theme))
	}

	audioContext := audio.NewContext(site.ContextSampleRate)
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		sceneManager: site.NewSceneManager(),
		settings:     settings,
		effects:      effects,
		cancel:       cancel,
		log:          log,
	}

	deps := scenes.Deps{
		Site:     siteCfg,
		Effects:  effects,
		Settings: settings,
		Audio:    site.NewAudioManager(audioContext, settings),
		Gateway:  genai.NewFromConfig(ctx, siteCfg, config.APIKey()),
		Leads:    leads.NewDispatcher(siteCfg.Phone, leads.SystemOpener{}),
	}

	if cfg.Watch && cfg.ConfigDir != "" {
		w, err := config.NewWatcher(cfg.ConfigDir)
		if err == nil {
			err = w.Start(ctx)
		}
		if err != nil {
			log.Warn("config hot reload disabled", zap.Error(err))
		} else {
			a.watcher = w
			deps.Updates = w.Updates()
		}
	}

	landing, err := scenes.NewLandingScene(deps)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("场景初始化失败: %w", err)
	}
	a.sceneManager.SwitchTo(landing)

	ebiten.SetWindowSize(effects.Window.Width, effects.Window.Height)
	ebiten.SetWindowTitle(effects.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	log.Info("app initialized",
		zap.String("theme", settings.Theme()),
		zap.Bool("persistent", settings.Persistent()),
		zap.Bool("hotReload", a.watcher != nil))
	return a, nil
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.effects.Window.Width, a.effects.Window.Height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	a.sceneManager.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		a.settings.SetFullscreen(false)
	} else {
		ebiten.SetFullscreen(true)
		a.settings.SetFullscreen(true)
	}
	if err := a.settings.Save(); err != nil {
		a.log.Warn("failed to save settings", zap.Error(err))
	}
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// Layout 返回逻辑屏幕尺寸
// 逻辑尺寸跟随窗口尺寸，尺寸变化会转发给当前场景（粒子场重新生成、网格重新布局）
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.sceneManager.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Close 关闭场景、停止配置监听并保存设置
func (a *App) Close() {
	a.sceneManager.Close()
	if a.watcher != nil {
		a.watcher.Stop()
		a.watcher = nil
	}
	a.cancel()
	if err := a.settings.Save(); err != nil {
		a.log.Warn("failed to save settings", zap.Error(err))
	}
}
