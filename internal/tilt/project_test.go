package tilt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/decker502/halabi/internal/host"
	"github.com/decker502/halabi/internal/pointer"
)

func TestProject_RestIsBox(t *testing.T) {
	box := host.Rect{X: 10, Y: 20, W: 100, H: 50}
	got := Project(box, Rest, DefaultPerspective, 1)

	want := [4]pointer.Point{{X: 10, Y: 20}, {X: 110, Y: 20}, {X: 110, Y: 70}, {X: 10, Y: 70}}
	for i := range want {
		assert.InDelta(t, want[i].X, got[i].X, 1e-9)
		assert.InDelta(t, want[i].Y, got[i].Y, 1e-9)
	}
}

func TestProject_ScaleAroundCenter(t *testing.T) {
	box := host.Rect{W: 100, H: 100}
	got := Project(box, Rest, DefaultPerspective, 1.02)
	assert.InDelta(t, -1.0, got[0].X, 1e-9)
	assert.InDelta(t, 101.0, got[2].Y, 1e-9)
}

func TestProject_TopTipsAway(t *testing.T) {
	box := host.Rect{W: 200, H: 200}
	got := Project(box, State{RotateX: 10}, DefaultPerspective, 1)

	topWidth := got[1].X - got[0].X
	bottomWidth := got[2].X - got[3].X
	assert.Less(t, topWidth, bottomWidth, "top edge recedes under positive rotateX")
}

func TestProject_RightTipsAway(t *testing.T) {
	box := host.Rect{W: 200, H: 200}
	got := Project(box, State{RotateY: 10}, DefaultPerspective, 1)

	leftHeight := got[3].Y - got[0].Y
	rightHeight := got[2].Y - got[1].Y
	assert.Less(t, rightHeight, leftHeight)
}
