package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	gemini "google.golang.org/genai"
)

const (
	copyThinkingBudget = 32768
	chatTemperature    = 0.7
	analyzeTemperature = 1.0
	speechVoice        = "Kore"
)

var adSchema = &gemini.Schema{
	Type: gemini.TypeObject,
	Properties: map[string]*gemini.Schema{
		"headline": {Type: gemini.TypeString, Description: "Catchy ad headline"},
		"body":     {Type: gemini.TypeString, Description: "Suggested ad copy"},
		"cta":      {Type: gemini.TypeString, Description: "Call to action"},
	},
	Required: []string{"headline", "body", "cta"},
}

// MarketingCopy 生成结构化营销文案
func (g *Gateway) MarketingCopy(ctx context.Context, serviceName, businessName, platform, tone string) (*AdSuggestion, error) {
	const op = "marketing copy"
	if businessName == "" {
		businessName = g.businessName
	}
	if platform == "" {
		platform = "Story"
	}
	if tone == "" {
		tone = ToneLuxurious
	}

	resp, err := g.generate(ctx, op, g.models.Copy, userText(copyPrompt(serviceName, businessName, platform, tone)), &gemini.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   adSchema,
		ThinkingConfig:   &gemini.ThinkingConfig{ThinkingBudget: gemini.Ptr[int32](copyThinkingBudget)},
	})
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		return nil, g.fail(op, ErrEmptyResponse)
	}
	var ad AdSuggestion
	if err := json.Unmarshal([]byte(text), &ad); err != nil {
		return nil, g.fail(op, fmt.Errorf("failed to decode ad JSON: %w", err))
	}
	if ad.Headline == "" && ad.Body == "" {
		return nil, g.fail(op, ErrEmptyResponse)
	}
	ad.Platform = platform
	return &ad, nil
}

// AdImage 生成竖版 (9:16) 广告图
func (g *Gateway) AdImage(ctx context.Context, serviceName, headline, tone string) (*Image, error) {
	const op = "ad image"
	resp, err := g.generate(ctx, op, g.models.Image, userText(adImagePrompt(serviceName, headline, tone)), &gemini.GenerateContentConfig{
		ImageConfig: &gemini.ImageConfig{AspectRatio: "9:16"},
	})
	if err != nil {
		return nil, err
	}
	return g.image(op, resp)
}

// EditImage 按指令编辑图片，输出 1:1
func (g *Gateway) EditImage(ctx context.Context, data []byte, mimeType, instruction string) (*Image, error) {
	const op = "edit image"
	if len(data) == 0 {
		return nil, g.fail(op, fmt.Errorf("no source image"))
	}
	contents := userParts(
		gemini.NewPartFromBytes(data, mimeType),
		gemini.NewPartFromText(editPrompt(g.businessName, instruction)),
	)
	resp, err := g.generate(ctx, op, g.models.Image, contents, &gemini.GenerateContentConfig{
		ImageConfig: &gemini.ImageConfig{AspectRatio: "1:1"},
	})
	if err != nil {
		return nil, err
	}
	return g.image(op, resp)
}

func (g *Gateway) image(op string, resp *gemini.GenerateContentResponse) (*Image, error) {
	blob := inlineData(resp)
	if blob == nil {
		return nil, g.fail(op, ErrEmptyResponse)
	}
	mime := blob.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return &Image{Data: blob.Data, MIMEType: mime}, nil
}

// Speech 合成语音
func (g *Gateway) Speech(ctx context.Context, text string) (*Audio, error) {
	const op = "speech"
	if strings.TrimSpace(text) == "" {
		return nil, g.fail(op, fmt.Errorf("nothing to speak"))
	}
	resp, err := g.generate(ctx, op, g.models.Speech, userText(speechPrompt(text)), &gemini.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &gemini.SpeechConfig{
			VoiceConfig: &gemini.VoiceConfig{
				PrebuiltVoiceConfig: &gemini.PrebuiltVoiceConfig{VoiceName: speechVoice},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	blob := inlineData(resp)
	if blob == nil {
		return nil, g.fail(op, ErrEmptyResponse)
	}
	return &Audio{Data: blob.Data, MIMEType: blob.MIMEType}, nil
}

// MarketTrends 使用 Google 搜索获取行业趋势
func (g *Gateway) MarketTrends(ctx context.Context, category string) (*Trends, error) {
	const op = "market trends"
	resp, err := g.generate(ctx, op, g.models.Search, userText(trendsPrompt(category)), &gemini.GenerateContentConfig{
		Tools: []*gemini.Tool{{GoogleSearch: &gemini.GoogleSearch{}}},
	})
	if err != nil {
		return nil, err
	}
	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return nil, g.fail(op, ErrEmptyResponse)
	}
	return &Trends{Text: text, Sources: groundingSources(resp)}, nil
}

// groundingSources 提取去重后的来源链接
func groundingSources(resp *gemini.GenerateContentResponse) []string {
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return nil
	}
	seen := make(map[string]bool)
	var sources []string
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		if seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true
		sources = append(sources, chunk.Web.URI)
	}
	return sources
}

// Chat 继续一段对话，失败时返回 FallbackReply
func (g *Gateway) Chat(ctx context.Context, history []ChatTurn, message string) string {
	const op = "chat"
	contents := make([]*gemini.Content, 0, len(history)+1)
	for _, turn := range history {
		var role gemini.Role = gemini.RoleUser
		if turn.Role == ChatRoleModel {
			role = gemini.RoleModel
		}
		contents = append(contents, gemini.NewContentFromText(turn.Text, role))
	}
	contents = append(contents, gemini.NewContentFromText(message, gemini.RoleUser))

	resp, err := g.generate(ctx, op, g.models.Chat, contents, &gemini.GenerateContentConfig{
		SystemInstruction: &gemini.Content{Parts: []*gemini.Part{gemini.NewPartFromText(fmt.Sprintf(chatSystemInstruction, g.businessName))}},
		Temperature:       gemini.Ptr[float32](chatTemperature),
	})
	if err != nil {
		return FallbackReply
	}
	reply := strings.TrimSpace(responseText(resp))
	if reply == "" {
		g.fail(op, ErrEmptyResponse)
		return FallbackReply
	}
	return reply
}

// QuickDescription 用轻量模型生成服务简介
func (g *Gateway) QuickDescription(ctx context.Context, serviceName, category string) (string, error) {
	const op = "quick description"
	resp, err := g.generate(ctx, op, g.models.Fast, userText(quickDescriptionPrompt(serviceName, category)), nil)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		return "", g.fail(op, ErrEmptyResponse)
	}
	return text, nil
}

// AnalyzeDesign 分析设计图，失败时返回 FallbackAnalysis
func (g *Gateway) AnalyzeDesign(ctx context.Context, data []byte, mimeType string) string {
	const op = "analyze design"
	if len(data) == 0 {
		g.fail(op, fmt.Errorf("no image"))
		return FallbackAnalysis
	}
	contents := userParts(
		gemini.NewPartFromText(analyzePrompt(g.businessName)),
		gemini.NewPartFromBytes(data, mimeType),
	)
	resp, err := g.generate(ctx, op, g.models.Vision, contents, &gemini.GenerateContentConfig{
		ThinkingConfig: &gemini.ThinkingConfig{ThinkingBudget: gemini.Ptr[int32](copyThinkingBudget)},
		Temperature:    gemini.Ptr[float32](analyzeTemperature),
	})
	if err != nil {
		return FallbackAnalysis
	}
	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		g.fail(op, ErrEmptyResponse)
		return FallbackAnalysis
	}
	return text
}

// Campaign 先生成文案，再并发生成配图和语音
// 文案失败时返回错误；配图或语音失败时返回部分结果和第一个错误
func (g *Gateway) Campaign(ctx context.Context, req CampaignRequest) (*Campaign, error) {
	ad, err := g.MarketingCopy(ctx, req.ServiceName, req.BusinessName, req.Platform, req.Tone)
	if err != nil {
		return nil, err
	}
	c := &Campaign{Copy: ad}

	var eg errgroup.Group
	eg.Go(func() error {
		img, err := g.AdImage(ctx, req.ServiceName, ad.Headline, req.Tone)
		c.Image = img
		return err
	})
	if req.Speak {
		eg.Go(func() error {
			audio, err := g.Speech(ctx, ad.Headline+". "+ad.Body)
			c.Speech = audio
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		g.log.Warn("campaign incomplete", zap.String("service", req.ServiceName), zap.Error(err))
		return c, err
	}
	return c, nil
}
