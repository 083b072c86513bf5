package utils

import (
	"bytes"
	"strings"
)

// processName 取出 /proc/self/cmdline 中的第一个参数
// Android 应用进程的第一个参数就是包名，后面用 NUL 填充
func processName(cmdline []byte) string {
	name, _, _ := bytes.Cut(cmdline, []byte{0})
	return strings.TrimSpace(string(name))
}
