package tilt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/decker502/halabi/pkg/utils/easing"
)

func TestEaser_ReachesTarget(t *testing.T) {
	e := NewEaser(200, nil)
	target := State{RotateX: 10, RotateY: -10, GlowX: 0, GlowY: 0, GlowOpacity: 1, Active: true}
	e.Target(target)
	assert.False(t, e.Settled())

	mid := e.Advance(100)
	k := easing.OutCubic(0.5)
	assert.InDelta(t, 10*k, mid.RotateX, 1e-9)
	assert.InDelta(t, -10*k, mid.RotateY, 1e-9)

	end := e.Advance(150)
	assert.Equal(t, target, end)
	assert.True(t, e.Settled())
}

func TestEaser_RetargetStartsFromDisplayed(t *testing.T) {
	e := NewEaser(100, easing.Linear)
	e.Target(State{RotateX: 10, GlowOpacity: 1, Active: true})
	e.Advance(50)

	e.Target(Rest)
	s := e.Advance(50)
	assert.InDelta(t, 2.5, s.RotateX, 1e-9)
	assert.False(t, s.Active)

	assert.Equal(t, Rest, e.Advance(100))
}

func TestEaser_ZeroDurationIsImmediate(t *testing.T) {
	e := NewEaser(0, nil)
	target := State{RotateY: 4, Active: true}
	e.Target(target)
	assert.Equal(t, target, e.Current())
	assert.Equal(t, target, e.Advance(16))
}
