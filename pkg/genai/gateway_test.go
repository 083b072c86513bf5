package genai

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gemini "google.golang.org/genai"

	"github.com/decker502/halabi/pkg/config"
)

// fakeClient 按模型返回预设响应并记录请求
type fakeClient struct {
	mu       sync.Mutex
	byModel  map[string]*gemini.GenerateContentResponse
	errModel map[string]error
	calls    []fakeCall
}

type fakeCall struct {
	model    string
	contents []*gemini.Content
	config   *gemini.GenerateContentConfig
	deadline bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		byModel:  make(map[string]*gemini.GenerateContentResponse),
		errModel: make(map[string]error),
	}
}

func (f *fakeClient) GenerateContent(ctx context.Context, model string, contents []*gemini.Content, cfg *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, hasDeadline := ctx.Deadline()
	f.calls = append(f.calls, fakeCall{model: model, contents: contents, config: cfg, deadline: hasDeadline})
	if err := f.errModel[model]; err != nil {
		return nil, err
	}
	return f.byModel[model], nil
}

func (f *fakeClient) lastCall(t *testing.T) fakeCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

func textResponse(text string) *gemini.GenerateContentResponse {
	return &gemini.GenerateContentResponse{
		Candidates: []*gemini.Candidate{{
			Content: &gemini.Content{Parts: []*gemini.Part{{Text: text}}},
		}},
	}
}

func blobResponse(data []byte, mime string) *gemini.GenerateContentResponse {
	return &gemini.GenerateContentResponse{
		Candidates: []*gemini.Candidate{{
			Content: &gemini.Content{Parts: []*gemini.Part{
				{Text: "here you go"},
				{InlineData: &gemini.Blob{Data: data, MIMEType: mime}},
			}},
		}},
	}
}

func newTestGateway(client Client) *Gateway {
	return New(client, config.DefaultModels(), WithLogger(zap.NewNop()), WithBusinessName("Halabi Services"))
}

func TestGateway_DisabledWithoutClient(t *testing.T) {
	g := newTestGateway(nil)
	ctx := context.Background()

	assert.False(t, g.Enabled())

	ad, err := g.MarketingCopy(ctx, "Design", "", "", "")
	assert.Nil(t, ad)
	assert.ErrorIs(t, err, ErrNoAPIKey)

	img, err := g.AdImage(ctx, "Design", "Headline", ToneLuxurious)
	assert.Nil(t, img)
	assert.ErrorIs(t, err, ErrNoAPIKey)

	audio, err := g.Speech(ctx, "hello")
	assert.Nil(t, audio)
	assert.ErrorIs(t, err, ErrNoAPIKey)

	trends, err := g.MarketTrends(ctx, "Design")
	assert.Nil(t, trends)
	assert.ErrorIs(t, err, ErrNoAPIKey)

	assert.Equal(t, FallbackReply, g.Chat(ctx, nil, "hi"))
	assert.Equal(t, FallbackAnalysis, g.AnalyzeDesign(ctx, []byte{1}, "image/png"))
}

func TestNewClient_RequiresKey(t *testing.T) {
	c, err := NewClient(context.Background(), "")
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestMarketingCopy_DecodesSchemaJSON(t *testing.T) {
	fc := newFakeClient()
	models := config.DefaultModels()
	fc.byModel[models.Copy] = textResponse(`{"headline":"Shine","body":"Book today","cta":"Message us"}`)
	g := newTestGateway(fc)

	ad, err := g.MarketingCopy(context.Background(), "Cleaning", "", "Reels", ToneYouthful)
	require.NoError(t, err)
	assert.Equal(t, &AdSuggestion{Headline: "Shine", Body: "Book today", CTA: "Message us", Platform: "Reels"}, ad)

	call := fc.lastCall(t)
	assert.Equal(t, models.Copy, call.model)
	require.NotNil(t, call.config)
	assert.Equal(t, "application/json", call.config.ResponseMIMEType)
	assert.ElementsMatch(t, []string{"headline", "body", "cta"}, call.config.ResponseSchema.Required)
	require.NotNil(t, call.config.ThinkingConfig.ThinkingBudget)
	assert.EqualValues(t, copyThinkingBudget, *call.config.ThinkingConfig.ThinkingBudget)
}

func TestMarketingCopy_Failures(t *testing.T) {
	models := config.DefaultModels()
	tests := []struct {
		name string
		resp *gemini.GenerateContentResponse
		err  error
	}{
		{"传输错误", nil, errors.New("boom")},
		{"无候选", &gemini.GenerateContentResponse{}, nil},
		{"空文本", textResponse("  "), nil},
		{"非法JSON", textResponse("not json"), nil},
		{"空字段", textResponse(`{"cta":"x"}`), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := newFakeClient()
			fc.byModel[models.Copy] = tt.resp
			if tt.err != nil {
				fc.errModel[models.Copy] = tt.err
			}
			ad, err := newTestGateway(fc).MarketingCopy(context.Background(), "Cleaning", "", "", "")
			assert.Nil(t, ad)
			assert.Error(t, err)
		})
	}
}

func TestAdImage_AspectAndStyle(t *testing.T) {
	fc := newFakeClient()
	models := config.DefaultModels()
	fc.byModel[models.Image] = blobResponse([]byte{0x89, 'P', 'N', 'G'}, "")
	g := newTestGateway(fc)

	img, err := g.AdImage(context.Background(), "Cleaning", "Shine", ToneProfessional)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType, "missing MIME type defaults to PNG")
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, img.Data)

	call := fc.lastCall(t)
	assert.Equal(t, "9:16", call.config.ImageConfig.AspectRatio)
	assert.Contains(t, call.contents[0].Parts[0].Text, VisualStyle(ToneProfessional))
}

func TestVisualStyle(t *testing.T) {
	assert.Contains(t, VisualStyle(ToneLuxurious), "gold")
	assert.Contains(t, VisualStyle(ToneYouthful), "neon")
	assert.Contains(t, VisualStyle(ToneProfessional), "minimalist")
	assert.Equal(t, VisualStyle(ToneLuxurious), VisualStyle("unknown"))
}

func TestEditImage(t *testing.T) {
	fc := newFakeClient()
	models := config.DefaultModels()
	fc.byModel[models.Image] = blobResponse([]byte("edited"), "image/jpeg")
	g := newTestGateway(fc)

	img, err := g.EditImage(context.Background(), []byte("src"), "image/png", "warmer light")
	require.NoError(t, err)
	assert.Equal(t, &Image{Data: []byte("edited"), MIMEType: "image/jpeg"}, img)

	call := fc.lastCall(t)
	assert.Equal(t, "1:1", call.config.ImageConfig.AspectRatio)
	parts := call.contents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, []byte("src"), parts[0].InlineData.Data)
	assert.Contains(t, parts[1].Text, "warmer light")

	_, err = g.EditImage(context.Background(), nil, "image/png", "x")
	assert.Error(t, err, "empty source image is rejected before any request")
}

func TestEditImage_NoImageInResponse(t *testing.T) {
	fc := newFakeClient()
	fc.byModel[config.DefaultModels().Image] = textResponse("I cannot do that")
	img, err := newTestGateway(fc).EditImage(context.Background(), []byte("src"), "image/png", "x")
	assert.Nil(t, img)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestSpeech(t *testing.T) {
	fc := newFakeClient()
	models := config.DefaultModels()
	fc.byModel[models.Speech] = &gemini.GenerateContentResponse{
		Candidates: []*gemini.Candidate{{
			Content: &gemini.Content{Parts: []*gemini.Part{
				{InlineData: &gemini.Blob{Data: []byte{1, 0, 2, 0}, MIMEType: "audio/L16;codec=pcm;rate=24000"}},
			}},
		}},
	}
	g := newTestGateway(fc)

	audio, err := g.Speech(context.Background(), "Welcome")
	require.NoError(t, err)
	assert.Equal(t, "audio/L16;codec=pcm;rate=24000", audio.MIMEType)

	call := fc.lastCall(t)
	assert.Equal(t, []string{"AUDIO"}, call.config.ResponseModalities)
	assert.Equal(t, speechVoice, call.config.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)

	_, err = g.Speech(context.Background(), "   ")
	assert.Error(t, err)
}

func TestMarketTrends_DedupesSources(t *testing.T) {
	fc := newFakeClient()
	models := config.DefaultModels()
	resp := textResponse("1. More demand\n2. Faster delivery")
	resp.Candidates[0].GroundingMetadata = &gemini.GroundingMetadata{
		GroundingChunks: []*gemini.GroundingChunk{
			{Web: &gemini.GroundingChunkWeb{URI: "https://a.example"}},
			{Web: &gemini.GroundingChunkWeb{URI: "https://b.example"}},
			{Web: &gemini.GroundingChunkWeb{URI: "https://a.example"}},
			{Web: &gemini.GroundingChunkWeb{URI: ""}},
			{},
		},
	}
	fc.byModel[models.Search] = resp
	g := newTestGateway(fc)

	trends, err := g.MarketTrends(context.Background(), "Design")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, trends.Sources)
	assert.Contains(t, trends.Text, "More demand")

	call := fc.lastCall(t)
	require.Len(t, call.config.Tools, 1)
	assert.NotNil(t, call.config.Tools[0].GoogleSearch)
}

func TestChat_HistoryAndFallback(t *testing.T) {
	fc := newFakeClient()
	models := config.DefaultModels()
	fc.byModel[models.Chat] = textResponse("We can help with that.")
	g := newTestGateway(fc)

	history := []ChatTurn{
		{Role: ChatRoleUser, Text: "Hello"},
		{Role: ChatRoleModel, Text: "Welcome!"},
	}
	reply := g.Chat(context.Background(), history, "Do you renew passports?")
	assert.Equal(t, "We can help with that.", reply)

	call := fc.lastCall(t)
	require.Len(t, call.contents, 3)
	assert.EqualValues(t, gemini.RoleModel, call.contents[1].Role)
	assert.EqualValues(t, gemini.RoleUser, call.contents[2].Role)
	assert.Contains(t, call.config.SystemInstruction.Parts[0].Text, "Halabi Services")
	require.NotNil(t, call.config.Temperature)
	assert.InDelta(t, chatTemperature, *call.config.Temperature, 1e-6)

	fc.errModel[models.Chat] = errors.New("quota")
	assert.Equal(t, FallbackReply, g.Chat(context.Background(), history, "again"))
}

func TestQuickDescriptionAndAnalyze(t *testing.T) {
	fc := newFakeClient()
	models := config.DefaultModels()
	fc.byModel[models.Fast] = textResponse(" Fast and friendly. ")
	fc.byModel[models.Vision] = textResponse("Strong contrast.")
	g := newTestGateway(fc)

	desc, err := g.QuickDescription(context.Background(), "Cleaning", "Home")
	require.NoError(t, err)
	assert.Equal(t, "Fast and friendly.", desc)

	assert.Equal(t, "Strong contrast.", g.AnalyzeDesign(context.Background(), []byte("img"), "image/png"))
	assert.Equal(t, FallbackAnalysis, g.AnalyzeDesign(context.Background(), nil, "image/png"))
}

func TestGateway_AppliesTimeout(t *testing.T) {
	fc := newFakeClient()
	fc.byModel[config.DefaultModels().Fast] = textResponse("ok")

	g := New(fc, config.ModelsConfig{}, WithLogger(zap.NewNop()), WithTimeout(time.Second))
	_, err := g.QuickDescription(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.True(t, fc.lastCall(t).deadline)

	g = New(fc, config.ModelsConfig{}, WithLogger(zap.NewNop()))
	_, err = g.QuickDescription(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.False(t, fc.lastCall(t).deadline)
}

func TestCampaign(t *testing.T) {
	models := config.DefaultModels()
	copyResp := textResponse(`{"headline":"Shine","body":"Book today","cta":"Message us"}`)

	t.Run("完整结果", func(t *testing.T) {
		fc := newFakeClient()
		fc.byModel[models.Copy] = copyResp
		fc.byModel[models.Image] = blobResponse([]byte("img"), "image/png")
		fc.byModel[models.Speech] = blobResponse([]byte{0, 0}, "audio/L16;rate=24000")

		c, err := newTestGateway(fc).Campaign(context.Background(), CampaignRequest{ServiceName: "Cleaning", Tone: ToneLuxurious, Speak: true})
		require.NoError(t, err)
		assert.Equal(t, "Shine", c.Copy.Headline)
		assert.NotNil(t, c.Image)
		assert.NotNil(t, c.Speech)
	})

	t.Run("配图失败返回部分结果", func(t *testing.T) {
		fc := newFakeClient()
		fc.byModel[models.Copy] = copyResp
		fc.errModel[models.Image] = errors.New("blocked")

		c, err := newTestGateway(fc).Campaign(context.Background(), CampaignRequest{ServiceName: "Cleaning"})
		assert.Error(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "Shine", c.Copy.Headline)
		assert.Nil(t, c.Image)
		assert.Nil(t, c.Speech, "speech not requested")
	})

	t.Run("文案失败", func(t *testing.T) {
		fc := newFakeClient()
		fc.errModel[models.Copy] = errors.New("down")
		c, err := newTestGateway(fc).Campaign(context.Background(), CampaignRequest{ServiceName: "Cleaning"})
		assert.Nil(t, c)
		assert.Error(t, err)
	})
}

func TestNewFromConfig_DisabledWithoutKey(t *testing.T) {
	site := &config.SiteConfig{BusinessName: "Halabi Services"}
	g := NewFromConfig(context.Background(), site, "")
	assert.False(t, g.Enabled())
	assert.Equal(t, config.DefaultModels(), g.Models())
}
