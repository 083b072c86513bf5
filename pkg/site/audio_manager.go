package site

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"go.uber.org/zap"

	pcm "github.com/decker502/halabi/internal/audio"
)

// ContextSampleRate ebiten 音频上下文采样率
const ContextSampleRate = 48000

// ErrNoAudioContext 没有音频设备（无头模式或测试）
var ErrNoAudioContext = errors.New("site: no audio context")

// AudioManager 语音播放管理器
// 职责：
//   - 解码模型返回的裸 PCM 并重采样到上下文采样率
//   - 应用设置中的静音和音量
//   - 同一时间只播放一段语音，新语音打断旧语音
type AudioManager struct {
	ctx      *audio.Context
	settings *SettingsManager
	current  *audio.Player
	log      *zap.Logger
}

// NewAudioManager 创建音频管理器
// ctx 为 nil 时所有播放请求返回 ErrNoAudioContext；settings 可为 nil
func NewAudioManager(ctx *audio.Context, settings *SettingsManager) *AudioManager {
	return &AudioManager{
		ctx:      ctx,
		settings: settings,
		log:      zap.L().Named("audio"),
	}
}

// PrepareSpeech 将语音负载解码为 targetRate 采样率的立体声流
// 返回流、字节长度和播放时长
func PrepareSpeech(data []byte, mimeType string, targetRate int) (io.ReadSeeker, int64, time.Duration, error) {
	dec, err := pcm.Decode(data, mimeType)
	if err != nil {
		return nil, 0, 0, err
	}
	duration := time.Duration(dec.Duration() * float64(time.Second))
	if int(dec.SampleRate()) == targetRate {
		return dec, dec.Length(), duration, nil
	}
	size := dec.Length() * int64(targetRate) / dec.SampleRate()
	size -= size % 4
	return audio.Resample(dec, dec.Length(), int(dec.SampleRate()), targetRate), size, duration, nil
}

// PlaySpeech 播放一段语音
// 静音时返回 false 和 nil 错误
func (am *AudioManager) PlaySpeech(data []byte, mimeType string) (bool, error) {
	if am.settings != nil && am.settings.GetSettings().SpeechMuted {
		return false, nil
	}
	if am.ctx == nil {
		return false, ErrNoAudioContext
	}

	stream, _, duration, err := PrepareSpeech(data, mimeType, am.ctx.SampleRate())
	if err != nil {
		return false, fmt.Errorf("failed to decode speech: %w", err)
	}

	am.Stop()
	player, err := am.ctx.NewPlayer(stream)
	if err != nil {
		return false, fmt.Errorf("failed to create speech player: %w", err)
	}
	player.SetVolume(am.volume())
	player.Play()
	am.current = player

	am.log.Debug("speech playing", zap.Duration("duration", duration))
	return true, nil
}

// Stop 停止当前语音
func (am *AudioManager) Stop() {
	if am.current == nil {
		return
	}
	am.current.Pause()
	if err := am.current.Close(); err != nil {
		am.log.Warn("failed to close speech player", zap.Error(err))
	}
	am.current = nil
}

// IsPlaying 报告是否正在播放
func (am *AudioManager) IsPlaying() bool {
	return am.current != nil && am.current.IsPlaying()
}

// ApplySettings 将当前设置应用到正在播放的语音
func (am *AudioManager) ApplySettings() {
	if am.current == nil {
		return
	}
	if am.settings != nil && am.settings.GetSettings().SpeechMuted {
		am.Stop()
		return
	}
	am.current.SetVolume(am.volume())
}

func (am *AudioManager) volume() float64 {
	if am.settings == nil {
		return DefaultSettings().SpeechVolume
	}
	return am.settings.GetSettings().SpeechVolume
}
