package scenes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/decker502/halabi/pkg/components"
	"github.com/decker502/halabi/pkg/ecs"
	"github.com/decker502/halabi/pkg/genai"
	"github.com/decker502/halabi/pkg/site"
)

// splitStep 方向键每次移动对比滑块的百分比
const splitStep = 5.0

// volumeStep -/= 每次调整语音音量的幅度
const volumeStep = 0.1

// maxChatInput 对话输入框的最大字符数
const maxChatInput = 280

// handleKeys 处理键盘快捷键
// 对话面板打开时所有字符输入都进入输入框
func (s *LandingScene) handleKeys() {
	if s.chat.IsOpen() {
		s.handleChatKeys()
		return
	}

	if _, dy := ebiten.Wheel(); dy != 0 {
		if dy > 0 {
			s.scroll(-1)
		} else {
			s.scroll(1)
		}
	}

	for key := ebiten.Key0; key <= ebiten.Key9; key++ {
		if inpututil.IsKeyJustPressed(key) {
			s.setFilter(int(key - ebiten.Key0))
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		s.toggleTheme()
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		s.generateCopy()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		s.runCampaign()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		s.showTrends()
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		s.describeService()
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		s.editCompare()
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		hint := ""
		if svc, ok := s.hoveredService(); ok {
			hint = "You are asking about: " + svc.Title
		}
		s.toggleChat(hint)
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		s.toggleShowcase()
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		s.toggleSpeechMute()
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		s.adjustSpeechVolume(-volumeStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		s.adjustSpeechVolume(volumeStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		s.scroll(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		s.scroll(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		if p := s.panel(s.studioPanel); p != nil && !p.Loading {
			p.Visible = false
		}
	}

	if c, ok := ecs.GetComponent[*components.CompareComponent](s.entityManager, s.compareEntity); ok {
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
			c.Slider.SetSplit(c.Slider.Split() - splitStep)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
			c.Slider.SetSplit(c.Slider.Split() + splitStep)
		}
	}
}

func (s *LandingScene) toggleSpeechMute() {
	muted := !s.deps.Settings.GetSettings().SpeechMuted
	s.deps.Settings.SetSpeechMuted(muted)
	s.saveSpeechSettings()
	if muted {
		s.toast("Speech muted")
	} else {
		s.toast("Speech on")
	}
}

func (s *LandingScene) adjustSpeechVolume(delta float64) {
	settings := s.deps.Settings.GetSettings()
	s.deps.Settings.SetSpeechVolume(settings.SpeechVolume + delta)
	s.saveSpeechSettings()
	s.toast(fmt.Sprintf("Speech volume %.0f%%", settings.SpeechVolume*100))
}

// saveSpeechSettings 应用到正在播放的语音并持久化
func (s *LandingScene) saveSpeechSettings() {
	s.deps.Audio.ApplySettings()
	if err := s.deps.Settings.Save(); err != nil {
		s.log.Warn("failed to save speech settings", zap.Error(err))
	}
}

// toggleChat 打开或关闭对话面板
// hint 非空时作为上下文提示加入对话
func (s *LandingScene) toggleChat(hint string) {
	p := s.panel(s.chatPanel)
	if s.chat.IsOpen() {
		s.chat.Close()
		p.Visible = false
		return
	}
	if hint != "" {
		s.chat.OpenWithContext(hint)
	} else {
		s.chat.Open()
	}
	p.Visible = true
	p.Input = ""
	s.refreshChatPanel()
}

func (s *LandingScene) handleChatKeys() {
	p := s.panel(s.chatPanel)

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		s.toggleChat("")
		return
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) && inpututil.IsKeyJustPressed(ebiten.KeyU) {
		s.chat.Unlock()
		return
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		if utf8.RuneCountInString(p.Input) < maxChatInput {
			p.Input += string(r)
		}
	}
	if repeatPressed(ebiten.KeyBackspace) && p.Input != "" {
		_, size := utf8.DecodeLastRuneInString(p.Input)
		p.Input = p.Input[:len(p.Input)-size]
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		s.sendChat(p.Input)
	}
}

// repeatPressed 按住时以固定间隔重复触发
func repeatPressed(key ebiten.Key) bool {
	const (
		delay    = 30
		interval = 3
	)
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return d >= delay && (d-delay)%interval == 0
}

// sendChat 在后台发送对话消息
func (s *LandingScene) sendChat(text string) {
	if strings.TrimSpace(text) == "" || s.chat.Busy() {
		return
	}
	p := s.panel(s.chatPanel)
	p.Input = ""

	s.async(func(ctx context.Context) func() {
		_, err := s.chat.Send(ctx, text)
		if err != nil && !errors.Is(err, site.ErrChatBusy) {
			s.log.Warn("chat send failed", zap.Error(err))
		}
		return s.refreshChatPanel
	})
}

// refreshChatPanel 把对话记录同步到面板
func (s *LandingScene) refreshChatPanel() {
	p := s.panel(s.chatPanel)
	if p == nil {
		return
	}
	msgs := s.chat.Messages()
	lines := make([]string, 0, len(msgs)*2+1)
	for _, m := range msgs {
		who := "Assistant"
		if m.Role == genai.ChatRoleUser {
			who = "You"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", who, m.Text), "")
	}
	if s.chat.Busy() {
		lines = append(lines, "Assistant is typing…")
	}
	if s.chat.Locked() {
		lines = append(lines, "Press Ctrl+U to unlock unlimited chat.")
	}
	p.Lines = lines

	switch n := s.chat.Remaining(); {
	case n < 0:
		p.Title = "Assistant · Premium"
	default:
		p.Title = fmt.Sprintf("Assistant · %d free left", n)
	}
}
