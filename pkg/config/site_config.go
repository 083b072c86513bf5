package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// SiteConfig 站点内容配置
//
// 包含商户信息、服务列表、作品集、套餐、城市和 AI 工作室的默认参数。
//
// 配置文件位置: data/site.yaml
type SiteConfig struct {
	BusinessName string `yaml:"businessName"`
	Tagline      string `yaml:"tagline"`
	// Phone WhatsApp 号码（国际格式，不含 "+"）
	Phone string `yaml:"phone"`

	Categories []string        `yaml:"categories"`
	Services   []ServiceConfig   `yaml:"services"`
	Portfolio  []PortfolioConfig `yaml:"portfolio"`
	Packages   []PackageConfig   `yaml:"packages"`
	Cities     []CityConfig      `yaml:"cities"`

	Compare CompareConfig `yaml:"compare"`
	Studio  StudioConfig  `yaml:"studio"`
	Chat    ChatConfig    `yaml:"chat"`
}

// ServiceConfig 单个服务
type ServiceConfig struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Category    string         `yaml:"category"`
	Description string         `yaml:"description"`
	Price       string         `yaml:"price"`
	Icon        string         `yaml:"icon"`
	Badge       string         `yaml:"badge"`
	Reviews     []ReviewConfig `yaml:"reviews"`
}

// ReviewConfig 服务评价
type ReviewConfig struct {
	ID       string `yaml:"id"`
	UserName string `yaml:"userName"`
	Rating   int    `yaml:"rating"`
	Comment  string `yaml:"comment"`
	Date     string `yaml:"date"`
}

// PortfolioConfig 作品集中的一个作品
// 点击作品卡片会发送 “做一个类似的” 订单
type PortfolioConfig struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
	// Image 作品图片的地址，仅用于分享和订单消息
	Image string `yaml:"image"`
}

// PackageConfig 套餐
type PackageConfig struct {
	Name        string   `yaml:"name"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Price       string   `yaml:"price"`
	Features    []string `yaml:"features"`
	Popular     bool     `yaml:"popular"`
}

// CityConfig 服务城市
type CityConfig struct {
	Name     string `yaml:"name"`
	Nickname string `yaml:"nickname"`
}

// CompareConfig 前后对比滑块（试衣间）配置
type CompareConfig struct {
	// Image 对比图片的磁盘路径，为空时使用程序生成的图片
	// "之前" 图层由它的灰度版本生成
	Image       string  `yaml:"image"`
	BeforeLabel string  `yaml:"beforeLabel"`
	AfterLabel  string  `yaml:"afterLabel"`
	Initial     float64 `yaml:"initial"`
	// EditPrompt AI 编辑 "之后" 图片时使用的默认指令
	EditPrompt string `yaml:"editPrompt"`
}

// StudioConfig AI 工作室配置
type StudioConfig struct {
	Platforms       []string     `yaml:"platforms"`
	Tones           []string     `yaml:"tones"`
	DefaultPlatform string       `yaml:"defaultPlatform"`
	DefaultTone     string       `yaml:"defaultTone"`
	Models          ModelsConfig `yaml:"models"`
	// TimeoutSeconds 单次网关调用的超时，保证界面不会无限停留在加载状态
	TimeoutSeconds int `yaml:"timeoutSeconds"`
	// ProcessingSteps 加载期间循环显示的步骤文本
	ProcessingSteps []string `yaml:"processingSteps"`
}

// Timeout 返回单次调用超时
func (s StudioConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 90 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// ModelsConfig 各操作使用的模型
type ModelsConfig struct {
	Copy   string `yaml:"copy"`
	Fast   string `yaml:"fast"`
	Search string `yaml:"search"`
	Image  string `yaml:"image"`
	Speech string `yaml:"speech"`
	Chat   string `yaml:"chat"`
	Vision string `yaml:"vision"`
}

// ChatConfig 智能客服配置
type ChatConfig struct {
	FreeLimit int    `yaml:"freeLimit"`
	Greeting  string `yaml:"greeting"`
}

// DefaultModels 返回默认模型
func DefaultModels() ModelsConfig {
	return ModelsConfig{
		Copy:   "gemini-3-pro-preview",
		Fast:   "gemini-flash-lite-latest",
		Search: "gemini-3-flash-preview",
		Image:  "gemini-2.5-flash-image",
		Speech: "gemini-2.5-flash-preview-tts",
		Chat:   "gemini-3-flash-preview",
		Vision: "gemini-3-pro-preview",
	}
}

// ParseSiteConfig 解析站点配置
func ParseSiteConfig(data []byte) (*SiteConfig, error) {
	var cfg SiteConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse site config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid site config: %w", err)
	}
	return &cfg, nil
}

func (c *SiteConfig) applyDefaults() {
	defaults := DefaultModels()
	m := &c.Studio.Models
	for _, f := range []struct {
		dst *string
		def string
	}{
		{&m.Copy, defaults.Copy},
		{&m.Fast, defaults.Fast},
		{&m.Search, defaults.Search},
		{&m.Image, defaults.Image},
		{&m.Speech, defaults.Speech},
		{&m.Chat, defaults.Chat},
		{&m.Vision, defaults.Vision},
	} {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
	if c.Studio.DefaultPlatform == "" && len(c.Studio.Platforms) > 0 {
		c.Studio.DefaultPlatform = c.Studio.Platforms[0]
	}
	if c.Studio.DefaultTone == "" && len(c.Studio.Tones) > 0 {
		c.Studio.DefaultTone = c.Studio.Tones[0]
	}
	if c.Chat.FreeLimit <= 0 {
		c.Chat.FreeLimit = 2
	}
	if c.Compare.Initial == 0 {
		c.Compare.Initial = 50
	}
}

// Validate 验证配置的有效性
func (c *SiteConfig) Validate() error {
	if c.BusinessName == "" {
		return fmt.Errorf("businessName is required")
	}
	if c.Phone == "" {
		return fmt.Errorf("phone is required")
	}
	seen := make(map[string]bool, len(c.Services))
	for i, s := range c.Services {
		if s.ID == "" {
			return fmt.Errorf("service %d: id is required", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("service %d: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = true
		for _, r := range s.Reviews {
			if r.Rating < 1 || r.Rating > 5 {
				return fmt.Errorf("%w: service %s review %s rating %d", ErrInvalidRange, s.ID, r.ID, r.Rating)
			}
		}
	}
	seen = make(map[string]bool, len(c.Portfolio))
	for i, p := range c.Portfolio {
		if p.ID == "" {
			return fmt.Errorf("portfolio %d: id is required", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("portfolio %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = true
	}
	if c.Compare.Initial < 0 || c.Compare.Initial > 100 {
		return fmt.Errorf("%w: compare initial %v", ErrInvalidRange, c.Compare.Initial)
	}
	return nil
}

// Service 按 ID 查找服务
func (c *SiteConfig) Service(id string) (ServiceConfig, bool) {
	for _, s := range c.Services {
		if s.ID == id {
			return s, true
		}
	}
	return ServiceConfig{}, false
}

// PortfolioItem 按 ID 查找作品
func (c *SiteConfig) PortfolioItem(id string) (PortfolioConfig, bool) {
	for _, p := range c.Portfolio {
		if p.ID == id {
			return p, true
		}
	}
	return PortfolioConfig{}, false
}

// ServicesIn 返回指定分类下的服务，分类为空时返回全部
func (c *SiteConfig) ServicesIn(category string) []ServiceConfig {
	if category == "" {
		return c.Services
	}
	var out []ServiceConfig
	for _, s := range c.Services {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

// UsedCategories 返回服务实际使用的分类（按首次出现顺序）
func (c *SiteConfig) UsedCategories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range c.Services {
		if !seen[s.Category] {
			seen[s.Category] = true
			out = append(out, s.Category)
		}
	}
	return out
}
