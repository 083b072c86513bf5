//go:build mobile

package utils

import "github.com/decker502/halabi/internal/host"

// IsMobile 检测当前是否在移动设备上运行
// 移动端编译时返回 true
func IsMobile() bool {
	return true
}

// DeviceClass 移动端只有触摸输入
func DeviceClass() host.DeviceClass {
	return host.DeviceTouchOnly
}
