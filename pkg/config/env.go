package config

import (
	"os"
	"strings"
)

// 环境变量
const (
	// EnvAPIKey Gemini API 密钥
	EnvAPIKey = "GEMINI_API_KEY"
	// EnvAPIKeyFallback 兼容的旧变量名
	EnvAPIKeyFallback = "API_KEY"
)

// APIKey 返回 Gemini API 密钥，优先读取 GEMINI_API_KEY
func APIKey() string {
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv(EnvAPIKeyFallback))
}
