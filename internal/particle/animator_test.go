package particle

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/halabi/internal/host"
)

func TestAnimator_RendersEveryFrame(t *testing.T) {
	reg := host.NewRegistry()
	f := NewField(DefaultConfig(), rand.New(rand.NewSource(7)))
	f.Init(300, 200, 1024)
	s := &recordingSurface{}

	a := NewAnimator(f, s, reg, reg)
	defer a.Close()
	a.Start()

	for i := 0; i < 3; i++ {
		reg.RunFrames(float64(i) * 16)
	}
	assert.Equal(t, uint64(3), a.Frames())
	assert.Equal(t, 3, s.clears)
}

func TestAnimator_ResizeReseeds(t *testing.T) {
	reg := host.NewRegistry()
	f := NewField(DefaultConfig(), nil)
	f.Init(100, 100, 1024)

	a := NewAnimator(f, nil, reg, reg)
	defer a.Close()

	reg.Dispatch(host.Event{Type: host.EventResize, Width: 1920, Height: 1080})
	assert.Equal(t, 207, f.Count())

	reg.Dispatch(host.Event{Type: host.EventResize, Width: 700, Height: 1080})
	assert.Equal(t, 50, f.Count())
}

func TestAnimator_CloseReleasesHost(t *testing.T) {
	reg := host.NewRegistry()
	a := NewAnimator(NewField(DefaultConfig(), nil), nil, reg, reg)
	a.Start()
	require.Equal(t, 1, reg.PendingFrames())
	require.Equal(t, 1, reg.ListenerCount())

	a.Close()
	a.Close()
	assert.Equal(t, 0, reg.PendingFrames())
	assert.Equal(t, 0, reg.ListenerCount())
	assert.False(t, a.Running())
}

func TestAnimator_Headless(t *testing.T) {
	a := NewAnimator(NewField(DefaultConfig(), nil), nil, nil, nil)
	a.Start()
	assert.False(t, a.Running())
	a.Close()
}
