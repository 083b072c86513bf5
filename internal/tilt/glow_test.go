package tilt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/halabi/internal/host"
	"github.com/decker502/halabi/internal/pointer"
)

func sampleAt(x, y float64, box host.Rect) pointer.Sample {
	return pointer.MakeSample(box.X+x, box.Y+y, box)
}

func TestCompute_CenterAndCorners(t *testing.T) {
	box := host.Rect{X: 40, Y: 80, W: 200, H: 100}
	g := New(DefaultMaxTilt)

	tests := []struct {
		name   string
		x, y   float64
		wantRX float64
		wantRY float64
		wantGX float64
		wantGY float64
	}{
		{"中心", 100, 50, 0, 0, 50, 50},
		{"左上角", 0, 0, 10, -10, 0, 0},
		{"右上角", 200, 0, 10, 10, 100, 0},
		{"左下角", 0, 100, -10, -10, 0, 100},
		{"右下角", 200, 100, -10, 10, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := g.OnPointerMove(sampleAt(tt.x, tt.y, box))
			assert.InDelta(t, tt.wantRX, s.RotateX, 1e-9)
			assert.InDelta(t, tt.wantRY, s.RotateY, 1e-9)
			assert.InDelta(t, tt.wantGX, s.GlowX, 1e-9)
			assert.InDelta(t, tt.wantGY, s.GlowY, 1e-9)
			assert.Equal(t, 1.0, s.GlowOpacity)
			assert.True(t, s.Active)
		})
	}
}

func TestCompute_BoundsWithinBox(t *testing.T) {
	box := host.Rect{W: 317, H: 211}
	g := New(DefaultMaxTilt)
	for x := 0.0; x <= box.W; x += 3.7 {
		for y := 0.0; y <= box.H; y += 2.9 {
			s := g.OnPointerMove(sampleAt(x, y, box))
			require.LessOrEqual(t, math.Abs(s.RotateX), DefaultMaxTilt+1e-9)
			require.LessOrEqual(t, math.Abs(s.RotateY), DefaultMaxTilt+1e-9)
		}
	}
}

func TestGlow_LeaveResetsExactly(t *testing.T) {
	g := New(DefaultMaxTilt)
	box := host.Rect{W: 120, H: 80}
	g.OnPointerMove(sampleAt(3, 77, box))

	s := g.OnPointerLeave()
	assert.Equal(t, 0.0, s.RotateX)
	assert.Equal(t, 0.0, s.RotateY)
	assert.Equal(t, 0.0, s.GlowOpacity)
	assert.False(t, s.Active)
	assert.Equal(t, Rest, g.State())
}

func TestCompute_ZeroBoxInactive(t *testing.T) {
	for _, box := range []host.Rect{{}, {W: 100}, {H: 100}} {
		s := Compute(pointer.Point{X: 10, Y: 10}, box, DefaultMaxTilt)
		assert.Equal(t, Rest, s)
		assert.False(t, math.IsNaN(s.RotateX))
	}
}

func TestNew_DefaultMaxTilt(t *testing.T) {
	assert.Equal(t, DefaultMaxTilt, New(0).MaxTilt())
	assert.Equal(t, 15.0, New(15).MaxTilt())
}

func TestBind_AppliesTrackerSamples(t *testing.T) {
	reg := host.NewRegistry()
	box := host.Rect{X: 10, Y: 10, W: 100, H: 100}
	tr := pointer.New(reg, func() host.Rect { return box }, host.DeviceFinePointer)
	defer tr.Close()

	var applied []State
	unbind := Bind(tr, New(DefaultMaxTilt), func(s State) { applied = append(applied, s) })

	reg.Dispatch(host.Event{Type: host.EventPointerMove, X: 10, Y: 10})
	reg.Dispatch(host.Event{Type: host.EventPointerLeave})
	require.Len(t, applied, 2)
	assert.Equal(t, 10.0, applied[0].RotateX)
	assert.Equal(t, Rest, applied[1])

	unbind()
	reg.Dispatch(host.Event{Type: host.EventPointerMove, X: 60, Y: 60})
	assert.Len(t, applied, 2)
}

func TestBind_DisabledTrackerNeverApplies(t *testing.T) {
	reg := host.NewRegistry()
	tr := pointer.New(reg, func() host.Rect { return host.Rect{W: 100, H: 100} }, host.DeviceTouchOnly)

	called := false
	unbind := Bind(tr, New(DefaultMaxTilt), func(State) { called = true })
	reg.Dispatch(host.Event{Type: host.EventPointerMove, X: 50, Y: 50})
	unbind()

	assert.False(t, called)
}
