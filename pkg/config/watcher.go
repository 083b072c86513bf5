package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher 监听覆盖目录中的 effects.yaml，文件变化后重新解析并发布新配置
//
// 连续的保存操作会被合并（去抖），解析失败的内容只记录日志，不会发布。
// Updates 通道只保留最新的一份配置。
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	pending  map[string]time.Time
	updates  chan *EffectsConfig
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	closed   bool
	logger   *zap.Logger
}

// NewWatcher 创建监听 dir 的 Watcher
func NewWatcher(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fw,
		dir:      dir,
		debounce: 300 * time.Millisecond,
		pending:  make(map[string]time.Time),
		updates:  make(chan *EffectsConfig, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		logger:   zap.L().Named("config"),
	}, nil
}

// SetDebounce 设置去抖时长，必须在 Start 之前调用
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Updates 返回配置更新通道
func (w *Watcher) Updates() <-chan *EffectsConfig {
	return w.updates
}

// Start 开始监听（非阻塞）
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running || w.closed {
		return nil
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	w.running = true
	w.logger.Debug("watching config directory", zap.String("dir", w.dir))
	go w.run(ctx)
	return nil
}

// Stop 停止监听并等待后台 goroutine 退出，可重复调用
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("failed to close watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounce / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		case now := <-ticker.C:
			w.flush(now)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != EffectsFile {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	w.pending[event.Name] = time.Now()
}

func (w *Watcher) flush(now time.Time) {
	for path, at := range w.pending {
		if now.Sub(at) < w.debounce {
			continue
		}
		delete(w.pending, path)
		w.reload(path)
	}
}

func (w *Watcher) reload(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn("failed to read changed config", zap.String("path", path), zap.Error(err))
		return
	}
	cfg, err := ParseEffectsConfig(data)
	if err != nil {
		w.logger.Warn("ignoring invalid config change", zap.String("path", path), zap.Error(err))
		return
	}
	w.logger.Info("effects config reloaded", zap.String("path", path))

	// 只保留最新配置
	select {
	case w.updates <- cfg:
	default:
		select {
		case <-w.updates:
		default:
		}
		w.updates <- cfg
	}
}
