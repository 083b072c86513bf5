// Package logging 构建全局 zap 日志器
//
// 各子系统通过 Named("particle")、Named("genai") 等获取带前缀的日志器，
// 在 Init 之前调用时得到的是 zap 默认的空日志器，不会输出任何内容。
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New 创建日志器
//
// 非 verbose 模式使用 JSON 格式的生产配置（Info 及以上），
// verbose 模式使用开发配置（控制台格式，Debug 级别）。
func New(verbose bool) (*zap.Logger, error) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Init 创建日志器并替换全局日志器
// 返回的函数会刷新缓冲并恢复之前的全局日志器
func Init(verbose bool) (func(), error) {
	logger, err := New(verbose)
	if err != nil {
		return nil, err
	}
	restore := zap.ReplaceGlobals(logger)
	return func() {
		_ = logger.Sync()
		restore()
	}, nil
}

// Named 返回全局日志器的子日志器
func Named(name string) *zap.Logger {
	return zap.L().Named(name)
}
