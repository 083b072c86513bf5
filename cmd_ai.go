package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/decker502/halabi/internal/audio"
	"github.com/decker502/halabi/pkg/config"
	"github.com/decker502/halabi/pkg/genai"
	"github.com/decker502/halabi/pkg/site"
)

// ai 子命令参数
var (
	aiPlatform string
	aiTone     string
	aiHeadline string
	aiCategory string
	aiPrompt   string
	aiNoSpeech bool

	imageOut    string
	editOut     string
	speechOut   string
	campaignDir string
)

// aiCmd AI 工作室命令组
var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "Run the AI studio from the command line",
	Long: `Calls the Gemini-backed AI studio directly.

Available subcommands:
  copy      - Marketing copy for a service
  image     - Ad image for a service
  edit      - Edit an image with an instruction
  speak     - Synthesize speech to a WAV file
  trends    - Search-grounded market trends for a category
  describe  - One-line service description
  analyze   - Analyze a design image
  chat      - Chat with the assistant
  campaign  - Copy, image and speech in one go

Requires GEMINI_API_KEY (or API_KEY).`,
}

var aiCopyCmd = &cobra.Command{
	Use:   "copy [service]",
	Short: "Generate marketing copy for a service (id or free text)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAICopy,
}

var aiImageCmd = &cobra.Command{
	Use:   "image [service]",
	Short: "Generate an ad image for a service",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAIImage,
}

var aiEditCmd = &cobra.Command{
	Use:   "edit [image]",
	Short: "Edit an image with an instruction",
	Args:  cobra.ExactArgs(1),
	RunE:  runAIEdit,
}

var aiSpeakCmd = &cobra.Command{
	Use:   "speak [text]",
	Short: "Synthesize speech and save it as WAV",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAISpeak,
}

var aiTrendsCmd = &cobra.Command{
	Use:   "trends [category]",
	Short: "Show market trends for a category",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAITrends,
}

var aiDescribeCmd = &cobra.Command{
	Use:   "describe [service]",
	Short: "Write a one-line description of a service",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAIDescribe,
}

var aiAnalyzeCmd = &cobra.Command{
	Use:   "analyze [image]",
	Short: "Analyze a design image",
	Args:  cobra.ExactArgs(1),
	RunE:  runAIAnalyze,
}

var aiChatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant (/unlock, /quit)",
	Args:  cobra.NoArgs,
	RunE:  runAIChat,
}

var aiCampaignCmd = &cobra.Command{
	Use:   "campaign [service]",
	Short: "Generate copy, image and speech for a service",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAICampaign,
}

func init() {
	for _, c := range []*cobra.Command{aiCopyCmd, aiImageCmd, aiCampaignCmd} {
		c.Flags().StringVar(&aiTone, "tone", "", "Tone (default from site config)")
	}
	for _, c := range []*cobra.Command{aiCopyCmd, aiCampaignCmd} {
		c.Flags().StringVar(&aiPlatform, "platform", "", "Target platform (default from site config)")
	}
	aiImageCmd.Flags().StringVar(&aiHeadline, "headline", "", "Headline to illustrate")
	aiImageCmd.Flags().StringVarP(&imageOut, "out", "o", "ad.png", "Output file")
	aiEditCmd.Flags().StringVarP(&aiPrompt, "prompt", "p", "", "Edit instruction (default from site config)")
	aiEditCmd.Flags().StringVarP(&editOut, "out", "o", "edited.png", "Output file")
	aiSpeakCmd.Flags().StringVarP(&speechOut, "out", "o", "speech.wav", "Output WAV file")
	aiDescribeCmd.Flags().StringVar(&aiCategory, "category", "", "Service category")
	aiCampaignCmd.Flags().StringVarP(&campaignDir, "out", "o", ".", "Output directory for the image and speech")
	aiCampaignCmd.Flags().BoolVar(&aiNoSpeech, "no-speech", false, "Skip speech synthesis")

	aiCmd.AddCommand(aiCopyCmd)
	aiCmd.AddCommand(aiImageCmd)
	aiCmd.AddCommand(aiEditCmd)
	aiCmd.AddCommand(aiSpeakCmd)
	aiCmd.AddCommand(aiTrendsCmd)
	aiCmd.AddCommand(aiDescribeCmd)
	aiCmd.AddCommand(aiAnalyzeCmd)
	aiCmd.AddCommand(aiChatCmd)
	aiCmd.AddCommand(aiCampaignCmd)
}

// studio 一次 ai 命令的运行环境
type studio struct {
	site    *config.SiteConfig
	gateway *genai.Gateway
	ctx     context.Context
	cancel  context.CancelFunc
}

// newStudio 加载站点配置并创建网关
// withTimeout 为 true 时整个命令受工作室超时限制
func newStudio(withTimeout bool) (*studio, error) {
	siteCfg, err := config.NewLoader(configDir).LoadSite()
	if err != nil {
		return nil, err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cancel := stop
	if withTimeout {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, siteCfg.Studio.Timeout())
		cancel = func() {
			cancelTimeout()
			stop()
		}
	}
	return &studio{
		site:    siteCfg,
		gateway: genai.NewFromConfig(ctx, siteCfg, config.APIKey()),
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// serviceName 参数可以是服务 id，也可以是任意服务名称
func (s *studio) serviceName(args []string) (name, category string) {
	arg := strings.Join(args, " ")
	if svc, ok := s.site.Service(arg); ok {
		return svc.Title, svc.Category
	}
	return arg, ""
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

// friendlyError 把网关错误转换为命令行提示
func friendlyError(err error) error {
	if errors.Is(err, genai.ErrNoAPIKey) {
		return errors.New("AI features need GEMINI_API_KEY to be set")
	}
	return err
}

func runAICopy(cmd *cobra.Command, args []string) error {
	s, err := newStudio(true)
	if err != nil {
		return err
	}
	defer s.cancel()

	name, _ := s.serviceName(args)
	ad, err := s.gateway.MarketingCopy(s.ctx, name, s.site.BusinessName,
		orDefault(aiPlatform, s.site.Studio.DefaultPlatform), orDefault(aiTone, s.site.Studio.DefaultTone))
	if err != nil {
		return friendlyError(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatAd(ad))
	return nil
}

func runAIImage(cmd *cobra.Command, args []string) error {
	s, err := newStudio(true)
	if err != nil {
		return err
	}
	defer s.cancel()

	name, _ := s.serviceName(args)
	img, err := s.gateway.AdImage(s.ctx, name, orDefault(aiHeadline, name), orDefault(aiTone, s.site.Studio.DefaultTone))
	if err != nil {
		return friendlyError(err)
	}
	return writeOutput(cmd.OutOrStdout(), imageOut, img.Data, img.MIMEType)
}

func runAIEdit(cmd *cobra.Command, args []string) error {
	data, mimeType, err := readImage(args[0])
	if err != nil {
		return err
	}
	s, err := newStudio(true)
	if err != nil {
		return err
	}
	defer s.cancel()

	img, err := s.gateway.EditImage(s.ctx, data, mimeType, orDefault(aiPrompt, s.site.Compare.EditPrompt))
	if err != nil {
		return friendlyError(err)
	}
	return writeOutput(cmd.OutOrStdout(), editOut, img.Data, img.MIMEType)
}

func runAISpeak(cmd *cobra.Command, args []string) error {
	s, err := newStudio(true)
	if err != nil {
		return err
	}
	defer s.cancel()

	speech, err := s.gateway.Speech(s.ctx, strings.Join(args, " "))
	if err != nil {
		return friendlyError(err)
	}
	return writeSpeech(cmd.OutOrStdout(), speechOut, speech)
}

func runAITrends(cmd *cobra.Command, args []string) error {
	s, err := newStudio(true)
	if err != nil {
		return err
	}
	defer s.cancel()

	category := strings.Join(args, " ")
	t, err := s.gateway.MarketTrends(s.ctx, category)
	if err != nil {
		return friendlyError(err)
	}
	fmt.Fprint(cmd.OutOrStdout(), renderMarkdown(trendsMarkdown(category, t)))
	return nil
}

func runAIDescribe(cmd *cobra.Command, args []string) error {
	s, err := newStudio(true)
	if err != nil {
		return err
	}
	defer s.cancel()

	name, category := s.serviceName(args)
	text, err := s.gateway.QuickDescription(s.ctx, name, orDefault(aiCategory, category))
	if err != nil {
		return friendlyError(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render(name))
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func runAIAnalyze(cmd *cobra.Command, args []string) error {
	data, mimeType, err := readImage(args[0])
	if err != nil {
		return err
	}
	s, err := newStudio(true)
	if err != nil {
		return err
	}
	defer s.cancel()

	if !s.gateway.Enabled() {
		return friendlyError(genai.ErrNoAPIKey)
	}
	fmt.Fprint(cmd.OutOrStdout(), renderMarkdown(s.gateway.AnalyzeDesign(s.ctx, data, mimeType)))
	return nil
}

func runAIChat(cmd *cobra.Command, args []string) error {
	s, err := newStudio(false)
	if err != nil {
		return err
	}
	defer s.cancel()

	if !s.gateway.Enabled() {
		printMuted(cmd.ErrOrStderr(), "GEMINI_API_KEY is not set; replies will be canned.")
	}
	session := site.NewChatSession(s.gateway, s.site.Chat)
	return chatLoop(s.ctx, cmd.InOrStdin(), cmd.OutOrStdout(), session, s.site.Studio.Timeout())
}

// chatLoop 逐行读取输入并打印回复，直到 EOF 或 /quit
func chatLoop(ctx context.Context, in io.Reader, out io.Writer, session *site.ChatSession, timeout time.Duration) error {
	session.Open()
	for _, m := range session.Messages() {
		fmt.Fprintln(out, titleStyle.Render("Assistant: ")+m.Text)
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, mutedStyle.Render("> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/unlock":
			session.Unlock()
			msgs := session.Messages()
			fmt.Fprintln(out, titleStyle.Render("Assistant: ")+msgs[len(msgs)-1].Text)
			continue
		}

		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		reply, err := session.Send(reqCtx, line)
		cancel()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, titleStyle.Render("Assistant: ")+reply.Text)
		if n := session.Remaining(); n >= 0 {
			printMuted(out, "%d free questions left", n)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func runAICampaign(cmd *cobra.Command, args []string) error {
	s, err := newStudio(true)
	if err != nil {
		return err
	}
	defer s.cancel()

	name, _ := s.serviceName(args)
	c, err := s.gateway.Campaign(s.ctx, genai.CampaignRequest{
		ServiceName:  name,
		BusinessName: s.site.BusinessName,
		Platform:     orDefault(aiPlatform, s.site.Studio.DefaultPlatform),
		Tone:         orDefault(aiTone, s.site.Studio.DefaultTone),
		Speak:        !aiNoSpeech,
	})
	if c == nil || c.Copy == nil {
		return friendlyError(err)
	}
	out := cmd.OutOrStdout()
	printHeading(out, "Campaign: "+name)
	fmt.Fprintln(out, formatAd(c.Copy))
	if err != nil {
		zap.L().Warn("campaign partially failed", zap.Error(err))
		printMuted(out, "Part of the campaign could not be generated.")
	}

	if err := os.MkdirAll(campaignDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if c.Image != nil {
		if err := writeOutput(out, filepath.Join(campaignDir, "campaign"+imageExt(c.Image.MIMEType)), c.Image.Data, c.Image.MIMEType); err != nil {
			return err
		}
	}
	if c.Speech != nil {
		if err := writeSpeech(out, filepath.Join(campaignDir, "campaign.wav"), c.Speech); err != nil {
			return err
		}
	}
	return nil
}

// readImage 读取图片并推断 MIME 类型
func readImage(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", fmt.Errorf("%s is not an image (%s)", path, mimeType)
	}
	return data, mimeType, nil
}

// imageExt 返回 MIME 类型对应的扩展名，未知类型使用 .png
func imageExt(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

func writeOutput(w io.Writer, path string, data []byte, mimeType string) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	printMuted(w, "Saved %s (%s, %d bytes)", path, mimeType, len(data))
	return nil
}

// writeSpeech 把合成的 PCM 语音转换为 WAV 文件
func writeSpeech(w io.Writer, path string, speech *genai.Audio) error {
	dec, err := audio.Decode(speech.Data, speech.MIMEType)
	if err != nil {
		return fmt.Errorf("failed to decode speech: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := audio.EncodeWAV(f, dec); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	printMuted(w, "Saved %s (%.1fs)", path, dec.Duration())
	return nil
}
