package site

import (
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Scene 场景接口
type Scene interface {
	// Update 更新场景，deltaTime 为距上一帧的秒数
	Update(deltaTime float64)
	// Draw 绘制场景
	Draw(screen *ebiten.Image)
}

// Resizer 需要感知窗口尺寸的场景
type Resizer interface {
	Resize(width, height int)
}

// Closer 切换离开时需要释放宿主监听的场景
type Closer interface {
	Close()
}

// SceneManager 管理当前活动的场景
// 任一时刻只有一个场景的 Update 和 Draw 被调用
type SceneManager struct {
	currentScene  Scene
	width, height int
	log           *zap.Logger
}

// NewSceneManager 创建场景管理器，初始没有活动场景
func NewSceneManager() *SceneManager {
	return &SceneManager{log: zap.L().Named("scene")}
}

// SwitchTo 切换到新场景
// 旧场景如果实现了 Closer 会先被关闭；新场景如果实现了 Resizer 会立即收到当前尺寸
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.currentScene == scene {
		return
	}
	if c, ok := sm.currentScene.(Closer); ok {
		c.Close()
	}
	sm.currentScene = scene
	if r, ok := scene.(Resizer); ok && sm.width > 0 && sm.height > 0 {
		r.Resize(sm.width, sm.height)
	}
	sm.log.Debug("scene switched")
}

// GetCurrentScene 返回当前活动的场景
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// Resize 记录窗口尺寸并转发给当前场景，尺寸未变化时不转发
func (sm *SceneManager) Resize(width, height int) {
	if width == sm.width && height == sm.height {
		return
	}
	sm.width, sm.height = width, height
	if r, ok := sm.currentScene.(Resizer); ok {
		r.Resize(width, height)
	}
}

// Size 返回最近一次的窗口尺寸
func (sm *SceneManager) Size() (int, int) {
	return sm.width, sm.height
}

// Update 更新当前场景
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制当前场景
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}

// Close 关闭当前场景
func (sm *SceneManager) Close() {
	if c, ok := sm.currentScene.(Closer); ok {
		c.Close()
	}
	sm.currentScene = nil
}
