//go:build !android

package utils

// EnsureStorageDir 桌面端由 gdata 自行创建存储目录，返回空路径
func EnsureStorageDir() (string, error) {
	return "", nil
}
