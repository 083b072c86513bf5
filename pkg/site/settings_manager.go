package site

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/decker502/halabi/pkg/config"
	"github.com/decker502/halabi/pkg/utils"
	"github.com/decker502/halabi/pkg/utils/easing"
)

// AppName gdata 存储目录名
const AppName = "halabi"

// Settings 用户设置
// 全局设置，不区分用户
type Settings struct {
	Theme        string  `yaml:"theme"`        // dark / light
	SpeechMuted  bool    `yaml:"speechMuted"`  // 语音播放开关
	SpeechVolume float64 `yaml:"speechVolume"` // 语音音量 0.0 ~ 1.0
	Fullscreen   bool    `yaml:"fullscreen"`   // 启动时是否全屏
}

// DefaultSettings 返回默认设置
func DefaultSettings() *Settings {
	return &Settings{
		Theme:        config.ThemeDark,
		SpeechVolume: 0.8,
	}
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// OpenStorage 打开 gdata 存储
// 失败时返回 nil 管理器和错误，调用方可以继续以降级模式运行
func OpenStorage(appName string) (*gdata.Manager, error) {
	dir, err := utils.EnsureStorageDir()
	if err != nil {
		return nil, fmt.Errorf("failed to prepare storage: %w", err)
	}
	if dir != "" {
		zap.L().Named("settings").Debug("storage ready", zap.String("dir", dir))
	}
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return m, nil
}

// SettingsManager 设置管理器
// 负责设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存设置）
	settings     *Settings
	log          *zap.Logger
}

// NewSettingsManager 创建设置管理器并尝试加载已保存的设置
// 加载失败不是致命错误，使用默认设置
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
		log:          zap.L().Named("settings"),
	}
	if err := sm.Load(); err != nil {
		sm.log.Warn("failed to load settings, using defaults", zap.Error(err))
	}
	return sm
}

// Persistent 报告设置是否会写入磁盘
func (sm *SettingsManager) Persistent() bool {
	return sm.gdataManager != nil
}

// Load 从 gdata 加载设置
// gdataManager 为 nil 或文件不存在时使用默认设置
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil || !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if loaded.Theme != config.ThemeDark && loaded.Theme != config.ThemeLight {
		loaded.Theme = config.ThemeDark
	}
	loaded.SpeechVolume = easing.Clamp01(loaded.SpeechVolume)

	sm.settings = loaded
	sm.log.Debug("settings loaded", zap.String("theme", loaded.Theme))
	return nil
}

// Save 保存设置到 gdata
// 降级模式下不报错
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	sm.log.Debug("settings saved")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *Settings {
	return sm.settings
}

// Theme 当前主题
func (sm *SettingsManager) Theme() string {
	return sm.settings.Theme
}

// SetTheme 设置主题，未知主题被忽略
// 仅修改内存中的设置，需调用 Save() 持久化
func (sm *SettingsManager) SetTheme(theme string) bool {
	if theme != config.ThemeDark && theme != config.ThemeLight {
		return false
	}
	sm.settings.Theme = theme
	return true
}

// ToggleTheme 在深色和浅色之间切换，返回新主题
func (sm *SettingsManager) ToggleTheme() string {
	if sm.settings.Theme == config.ThemeLight {
		sm.settings.Theme = config.ThemeDark
	} else {
		sm.settings.Theme = config.ThemeLight
	}
	return sm.settings.Theme
}

// SetSpeechMuted 设置语音静音
func (sm *SettingsManager) SetSpeechMuted(muted bool) {
	sm.settings.SpeechMuted = muted
}

// SetSpeechVolume 设置语音音量，限制在 0.0 ~ 1.0
func (sm *SettingsManager) SetSpeechVolume(volume float64) {
	sm.settings.SpeechVolume = easing.Clamp01(volume)
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}
