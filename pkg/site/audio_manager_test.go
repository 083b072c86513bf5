package site

import (
	"encoding/binary"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monoPCM 生成 n 个 16 位单声道样本
func monoPCM(n int) []byte {
	buf := make([]byte, 2*n)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(int16(i%100*100)))
	}
	return buf
}

func TestPrepareSpeech_SameRate(t *testing.T) {
	stream, size, duration, err := PrepareSpeech(monoPCM(24000), "audio/L16;codec=pcm;rate=24000", 24000)
	require.NoError(t, err)

	// 单声道被复制为立体声
	assert.EqualValues(t, 24000*4, size)
	assert.Equal(t, time.Second, duration)

	data, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Len(t, data, 24000*4)
}

func TestPrepareSpeech_Resamples(t *testing.T) {
	stream, size, duration, err := PrepareSpeech(monoPCM(12000), "audio/L16;rate=24000", ContextSampleRate)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, duration)
	assert.EqualValues(t, 12000*4*2, size)
	assert.NotNil(t, stream)
}

func TestPrepareSpeech_Invalid(t *testing.T) {
	_, _, _, err := PrepareSpeech([]byte{1, 2, 3}, "audio/L16;rate=24000", ContextSampleRate)
	assert.Error(t, err)

	_, _, _, err = PrepareSpeech(monoPCM(10), "audio/mpeg", ContextSampleRate)
	assert.Error(t, err)
}

func TestAudioManager_Headless(t *testing.T) {
	am := NewAudioManager(nil, nil)
	played, err := am.PlaySpeech(monoPCM(10), "audio/L16;rate=24000")
	assert.False(t, played)
	assert.ErrorIs(t, err, ErrNoAudioContext)
	assert.False(t, am.IsPlaying())
	am.Stop()
	am.ApplySettings()
}

func TestAudioManager_MutedSkipsPlayback(t *testing.T) {
	sm := NewSettingsManager(nil)
	sm.SetSpeechMuted(true)
	am := NewAudioManager(nil, sm)

	played, err := am.PlaySpeech(monoPCM(10), "audio/L16;rate=24000")
	assert.False(t, played)
	assert.NoError(t, err, "muted playback is not an error")
}
