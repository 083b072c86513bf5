// Package genai 是生成式 AI 服务的请求/响应门面
//
// 每个操作都是尽力而为：失败时记录日志并返回 nil 结果和错误，
// 调用方只需显示“请重试”之类的提示。网关不做重试、退避或排队。
package genai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	gemini "google.golang.org/genai"

	"github.com/decker502/halabi/pkg/config"
)

var (
	// ErrNoAPIKey 未配置 API 密钥，网关处于禁用模式
	ErrNoAPIKey = errors.New("genai: no API key configured")
	// ErrEmptyResponse 模型返回了空内容
	ErrEmptyResponse = errors.New("genai: empty response")
)

// FallbackReply 对话失败时返回给用户的文本
const FallbackReply = "Sorry, a small technical error occurred. Please try again."

// FallbackAnalysis 设计分析失败时返回给用户的文本
const FallbackAnalysis = "Sorry, something went wrong while analyzing the image. Please try again."

// Client 生成内容的最小接口
// *genai.Models 满足此接口，测试中注入假实现
type Client interface {
	GenerateContent(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error)
}

// NewClient 使用 API 密钥创建 Gemini 客户端
func NewClient(ctx context.Context, apiKey string) (Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	c, err := gemini.NewClient(ctx, &gemini.ClientConfig{
		APIKey:  apiKey,
		Backend: gemini.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return c.Models, nil
}

// Gateway 生成式 AI 网关
type Gateway struct {
	client       Client
	models       config.ModelsConfig
	businessName string
	timeout      time.Duration
	log          *zap.Logger
}

// Option 网关选项
type Option func(*Gateway)

// WithBusinessName 设置提示词中使用的商家名称
func WithBusinessName(name string) Option {
	return func(g *Gateway) {
		if name != "" {
			g.businessName = name
		}
	}
}

// WithTimeout 设置单次请求超时，0 表示不限制
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

// WithLogger 替换日志记录器
func WithLogger(l *zap.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.log = l
		}
	}
}

// New 创建网关。client 为 nil 时网关处于禁用模式，所有操作立即返回 ErrNoAPIKey。
func New(client Client, models config.ModelsConfig, opts ...Option) *Gateway {
	g := &Gateway{
		client:       client,
		models:       fillModels(models),
		businessName: "Halabi Services",
		log:          zap.L().Named("genai"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewFromConfig 按站点配置和环境变量创建网关
// 没有 API 密钥时返回禁用模式的网关，而不是错误
func NewFromConfig(ctx context.Context, site *config.SiteConfig, apiKey string) *Gateway {
	opts := []Option{
		WithBusinessName(site.BusinessName),
		WithTimeout(site.Studio.Timeout()),
	}
	client, err := NewClient(ctx, apiKey)
	if err != nil {
		zap.L().Named("genai").Warn("gateway disabled", zap.Error(err))
		return New(nil, site.Studio.Models, opts...)
	}
	return New(client, site.Studio.Models, opts...)
}

// Enabled 报告网关是否可以发出请求
func (g *Gateway) Enabled() bool {
	return g.client != nil
}

// Models 返回使用的模型
func (g *Gateway) Models() config.ModelsConfig {
	return g.models
}

func fillModels(m config.ModelsConfig) config.ModelsConfig {
	def := config.DefaultModels()
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return config.ModelsConfig{
		Copy:   pick(m.Copy, def.Copy),
		Fast:   pick(m.Fast, def.Fast),
		Search: pick(m.Search, def.Search),
		Image:  pick(m.Image, def.Image),
		Speech: pick(m.Speech, def.Speech),
		Chat:   pick(m.Chat, def.Chat),
		Vision: pick(m.Vision, def.Vision),
	}
}

// generate 发出一次请求，统一处理禁用模式、超时和日志
func (g *Gateway) generate(ctx context.Context, op, model string, contents []*gemini.Content, cfg *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
	if g.client == nil {
		g.log.Debug("request skipped", zap.String("op", op), zap.Error(ErrNoAPIKey))
		return nil, ErrNoAPIKey
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	reqID := uuid.NewString()
	start := time.Now()
	log := g.log.With(zap.String("op", op), zap.String("model", model), zap.String("request_id", reqID))
	log.Debug("request started")

	resp, err := g.client.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		log.Error("request failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		log.Error("request returned no candidates", zap.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}
	log.Debug("request finished", zap.Duration("elapsed", time.Since(start)))
	return resp, nil
}

// fail 记录解析阶段的失败
func (g *Gateway) fail(op string, err error) error {
	g.log.Error("response rejected", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}

// responseText 拼接第一个候选的文本部分，跳过思考内容
func responseText(resp *gemini.GenerateContentResponse) string {
	var out string
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		out += p.Text
	}
	return out
}

// inlineData 返回第一个内联数据部分
func inlineData(resp *gemini.GenerateContentResponse) *gemini.Blob {
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && p.InlineData != nil && len(p.InlineData.Data) > 0 {
			return p.InlineData
		}
	}
	return nil
}

func userText(text string) []*gemini.Content {
	return []*gemini.Content{gemini.NewContentFromText(text, gemini.RoleUser)}
}

func userParts(parts ...*gemini.Part) []*gemini.Content {
	return []*gemini.Content{gemini.NewContentFromParts(parts, gemini.RoleUser)}
}
