package scenes

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/decker502/halabi/pkg/components"
	"github.com/decker502/halabi/pkg/config"
	"github.com/decker502/halabi/pkg/ecs"
	"github.com/decker502/halabi/pkg/entities"
	"github.com/decker502/halabi/pkg/genai"
	"github.com/decker502/halabi/pkg/leads"
	"github.com/decker502/halabi/pkg/systems"
	"github.com/decker502/halabi/pkg/utils"
)

// 提示文本
const (
	tryAgainMessage = "Something went wrong. Please try again."
	noKeyMessage    = "AI features need GEMINI_API_KEY to be set."
	toastSeconds    = 3.0
)

// async 在后台运行 op，op 返回的函数在帧循环中执行
// 每次调用都受工作室超时限制，场景关闭时取消
func (s *LandingScene) async(op func(ctx context.Context) func()) {
	ctx, cancel := context.WithTimeout(s.ctx, s.deps.Site.Studio.Timeout())
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		apply := op(ctx)
		if apply == nil {
			return
		}
		select {
		case s.results <- apply:
		case <-s.ctx.Done():
		}
	}()
}

// drainResults 在帧循环中应用已完成的请求结果
func (s *LandingScene) drainResults() {
	for {
		select {
		case apply := <-s.results:
			apply()
		default:
			return
		}
	}
}

func (s *LandingScene) panel(id ecs.EntityID) *components.PanelComponent {
	p, _ := ecs.GetComponent[*components.PanelComponent](s.entityManager, id)
	return p
}

func (s *LandingScene) toast(lines ...string) {
	if p := s.panel(s.toastPanel); p != nil {
		systems.ShowToast(p, toastSeconds, lines...)
	}
}

// failureMessage 把网关错误转换为用户可见的提示
func failureMessage(err error) string {
	if errors.Is(err, genai.ErrNoAPIKey) {
		return noKeyMessage
	}
	return tryAgainMessage
}

// orderService 点击服务卡片：通过 WhatsApp 深链接下单
func (s *LandingScene) orderService(svc config.ServiceConfig) {
	s.log.Info("service order", zap.String("service", svc.ID))
	s.sendLead(leads.ServiceOrder(svc.Title), svc.Title)
}

// orderPortfolio 点击作品集卡片：订购类似的作品
func (s *LandingScene) orderPortfolio(item config.PortfolioConfig) {
	s.log.Info("portfolio order", zap.String("item", item.ID))
	s.sendLead(leads.PortfolioOrder(item.Title), item.Title)
}

// sendLead 在后台发送订单消息，完成后用提示条告知结果
func (s *LandingScene) sendLead(message, title string) {
	s.async(func(context.Context) func() {
		res, err := s.deps.Leads.Send(message)
		return func() {
			switch {
			case err != nil:
				s.log.Warn("lead dispatch failed", zap.Error(err))
				s.toast(tryAgainMessage)
			case res.Opened:
				s.toast("Opening WhatsApp…", title)
			default:
				s.toast("Link copied to clipboard", title)
			}
		}
	})
}

// generateCopy 为悬停（或第一个可见）服务生成营销文案
func (s *LandingScene) generateCopy() {
	svc, ok := s.focusService()
	if !ok || s.studioBusy {
		return
	}
	studio := s.deps.Site.Studio
	p := s.panel(s.studioPanel)
	systems.StartLoading(p, "AI copy · "+svc.Title)
	s.studioBusy = true

	s.async(func(ctx context.Context) func() {
		ad, err := s.deps.Gateway.MarketingCopy(ctx, svc.Title, s.deps.Site.BusinessName, studio.DefaultPlatform, studio.DefaultTone)
		return func() {
			s.studioBusy = false
			if err != nil {
				systems.ShowError(p, failureMessage(err))
				return
			}
			systems.ShowResult(p, adLines(ad)...)
		}
	})
}

// runCampaign 生成完整营销活动：文案、配图和语音
func (s *LandingScene) runCampaign() {
	svc, ok := s.focusService()
	if !ok || s.studioBusy {
		return
	}
	studio := s.deps.Site.Studio
	p := s.panel(s.studioPanel)
	systems.StartLoading(p, "Campaign · "+svc.Title)
	s.studioBusy = true

	s.async(func(ctx context.Context) func() {
		c, err := s.deps.Gateway.Campaign(ctx, genai.CampaignRequest{
			ServiceName:  svc.Title,
			BusinessName: s.deps.Site.BusinessName,
			Platform:     studio.DefaultPlatform,
			Tone:         studio.DefaultTone,
			Speak:        true,
		})
		var img image.Image
		if c != nil && c.Image != nil {
			decoded, derr := utils.DecodeImage(c.Image.Data)
			if derr != nil {
				s.log.Warn("failed to decode ad image", zap.Error(derr))
			}
			img = decoded
		}
		return func() {
			s.studioBusy = false
			if c == nil || c.Copy == nil {
				systems.ShowError(p, failureMessage(err))
				return
			}
			lines := adLines(c.Copy)
			if err != nil {
				lines = append(lines, "", "Part of the campaign could not be generated.")
			}
			systems.ShowResult(p, lines...)
			if img != nil {
				p.Image = ebiten.NewImageFromImage(img)
			}
			if c.Speech != nil {
				if _, err := s.deps.Audio.PlaySpeech(c.Speech.Data, c.Speech.MIMEType); err != nil {
					s.log.Warn("speech playback failed", zap.Error(err))
				}
			}
		}
	})
}

// showTrends 显示当前分类的市场趋势
func (s *LandingScene) showTrends() {
	if s.studioBusy {
		return
	}
	category := s.category()
	if category == "" && len(s.categories) > 0 {
		category = s.categories[0]
	}
	p := s.panel(s.studioPanel)
	systems.StartLoading(p, "Market trends · "+category)
	s.studioBusy = true

	s.async(func(ctx context.Context) func() {
		t, err := s.deps.Gateway.MarketTrends(ctx, category)
		return func() {
			s.studioBusy = false
			if err != nil {
				systems.ShowError(p, failureMessage(err))
				return
			}
			lines := strings.Split(t.Text, "\n")
			if len(t.Sources) > 0 {
				lines = append(lines, "", "Sources:")
				lines = append(lines, t.Sources...)
			}
			systems.ShowResult(p, lines...)
		}
	})
}

// editCompare 用 AI 编辑对比滑块的 "之后" 图片
// 成功后原 "之后" 图片成为 "之前" 图片
func (s *LandingScene) editCompare() {
	c, ok := ecs.GetComponent[*components.CompareComponent](s.entityManager, s.compareEntity)
	if !ok || s.editBusy || len(c.AfterPNG) == 0 {
		return
	}
	s.editBusy = true
	data := c.AfterPNG
	prompt := s.deps.Site.Compare.EditPrompt

	s.async(func(ctx context.Context) func() {
		img, err := s.deps.Gateway.EditImage(ctx, data, "image/png", prompt)
		var (
			decoded   image.Image
			editedPNG []byte
		)
		if err == nil {
			var derr error
			decoded, derr = utils.DecodeImage(img.Data)
			if derr == nil {
				editedPNG, derr = utils.EncodePNG(decoded)
			}
			if derr != nil {
				err = fmt.Errorf("failed to decode edited image: %w", derr)
			}
		}
		return func() {
			s.editBusy = false
			if err != nil {
				s.log.Warn("compare edit failed", zap.Error(err))
				s.toast(failureMessage(err))
				return
			}
			if c, ok := ecs.GetComponent[*components.CompareComponent](s.entityManager, s.compareEntity); ok {
				entities.ReplaceCompareImages(c, ebiten.NewImageFromImage(decoded), editedPNG)
			}
			s.toast("Fitting room updated")
		}
	})
}

// describeService 用快速模型生成一句服务简介，显示在提示条中
func (s *LandingScene) describeService() {
	svc, ok := s.focusService()
	if !ok {
		return
	}
	s.async(func(ctx context.Context) func() {
		text, err := s.deps.Gateway.QuickDescription(ctx, svc.Title, svc.Category)
		return func() {
			if err != nil {
				s.toast(failureMessage(err))
				return
			}
			s.toast(text)
		}
	})
}

func adLines(ad *genai.AdSuggestion) []string {
	lines := []string{ad.Headline, "", ad.Body}
	if ad.CTA != "" {
		lines = append(lines, "", "→ "+ad.CTA)
	}
	if ad.Platform != "" {
		lines = append(lines, "", "Platform: "+ad.Platform)
	}
	return lines
}
