//go:build !mobile

// 桌面构建时 mobile 包只保留 Dummy，ebitenmobile 入口见 mobile.go
package mobile

// Dummy 让 ./... 在不带 mobile 标签时也能编译本包
func Dummy() {}
