//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
// 移动端是纯触摸设备：光标、卡片倾斜和悬停光晕都不会启用。
//
// 此文件仅在使用 -tags mobile 构建时编译。
// go:embed 不能引用上级目录，构建前先把 data/ 复制到 mobile/data：
//
//	# Android
//	cp -r data mobile/ && ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.halabi -o build/android/halabi.aar -v ./mobile
//
//	# iOS (仅 macOS)
//	cp -r data mobile/ && ebitenmobile bind -target ios -tags mobile -o build/ios/Halabi.xcframework -v ./mobile
package mobile

import (
	"github.com/hajimehoshi/ebiten/v2/mobile"
	"go.uber.org/zap"

	"github.com/decker502/halabi/pkg/app"
	"github.com/decker502/halabi/pkg/embedded"
	"github.com/decker502/halabi/pkg/logging"
)

func init() {
	// 移动端没有命令行参数，默认输出详细日志便于调试
	if _, err := logging.Init(true); err != nil {
		panic(err)
	}

	// 初始化嵌入资源
	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	showcase, err := app.NewApp(app.Config{})
	if err != nil {
		zap.L().Fatal("app initialization failed", zap.Error(err))
	}

	// 注册到 ebitenmobile
	mobile.SetGame(showcase)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
