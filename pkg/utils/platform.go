//go:build !mobile

package utils

import (
	"os"

	"github.com/decker502/halabi/internal/host"
)

// MobileEmulateEnv 强制移动模式的环境变量
const MobileEmulateEnv = "HALABI_MOBILE_EMULATE"

// IsMobile 检测当前是否在移动设备上运行
// 桌面端编译时返回 false
// 可以通过设置环境变量 HALABI_MOBILE_EMULATE=1 强制启用移动模式（用于本地调试）
func IsMobile() bool {
	return os.Getenv(MobileEmulateEnv) == "1"
}

// DeviceClass 返回当前设备的指针能力
// 移动模式下没有可悬停的精细指针，光标和卡片倾斜效果会被禁用
func DeviceClass() host.DeviceClass {
	if IsMobile() {
		return host.DeviceTouchOnly
	}
	return host.DeviceFinePointer
}
