package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/decker502/halabi/pkg/embedded"
)

// 配置文件名
const (
	EffectsFile = "effects.yaml"
	SiteFile    = "site.yaml"
)

// Loader 加载配置文件
//
// 如果设置了覆盖目录且目录中存在同名文件，优先使用覆盖文件；
// 否则读取嵌入资源 data/<name>。覆盖文件整体替换嵌入文件，不做字段合并。
type Loader struct {
	dir      string
	fallback func(name string) ([]byte, error)
}

// NewLoader 创建使用嵌入资源作为后备的加载器
// dir 为空表示不使用覆盖目录
func NewLoader(dir string) *Loader {
	return &Loader{
		dir: dir,
		fallback: func(name string) ([]byte, error) {
			return embedded.ReadFile("data/" + name)
		},
	}
}

// NewLoaderFS 创建使用 fsys 作为后备的加载器（fsys 根目录即配置目录）
func NewLoaderFS(dir string, fsys fs.FS) *Loader {
	return &Loader{
		dir: dir,
		fallback: func(name string) ([]byte, error) {
			return fs.ReadFile(fsys, name)
		},
	}
}

// Dir 返回覆盖目录
func (l *Loader) Dir() string {
	return l.dir
}

// ReadFile 读取配置文件内容
func (l *Loader) ReadFile(name string) ([]byte, error) {
	if l.dir != "" {
		data, err := os.ReadFile(filepath.Join(l.dir, name))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read override %s: %w", name, err)
		}
	}
	data, err := l.fallback(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// LoadEffects 加载效果配置
func (l *Loader) LoadEffects() (*EffectsConfig, error) {
	data, err := l.ReadFile(EffectsFile)
	if err != nil {
		return nil, err
	}
	return ParseEffectsConfig(data)
}

// LoadSite 加载站点配置
func (l *Loader) LoadSite() (*SiteConfig, error) {
	data, err := l.ReadFile(SiteFile)
	if err != nil {
		return nil, err
	}
	return ParseSiteConfig(data)
}
