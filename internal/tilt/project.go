package tilt

import (
	"math"

	"github.com/decker502/halabi/internal/host"
	"github.com/decker502/halabi/internal/pointer"
)

// DefaultPerspective is the viewer distance in pixels.
const DefaultPerspective = 1000.0

// Project returns the screen positions of box's corners (top-left, top-right,
// bottom-right, bottom-left) after applying scale, rotateY, rotateX and a
// perspective of the given distance around the box center.
func Project(box host.Rect, s State, perspective, scale float64) [4]pointer.Point {
	cx, cy := box.X+box.W/2, box.Y+box.H/2
	hw, hh := box.W/2*scale, box.H/2*scale

	ry := s.RotateY * math.Pi / 180
	rx := s.RotateX * math.Pi / 180
	sinY, cosY := math.Sincos(ry)
	sinX, cosX := math.Sincos(rx)

	corners := [4][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	var out [4]pointer.Point
	for i, c := range corners {
		x, y, z := c[0], c[1], 0.0

		// rotateY
		x, z = x*cosY+z*sinY, -x*sinY+z*cosY
		// rotateX, y axis points down
		y, z = y*cosX-z*sinX, y*sinX+z*cosX

		f := 1.0
		if perspective > 0 {
			f = perspective / (perspective - z)
		}
		out[i] = pointer.Point{X: cx + x*f, Y: cy + y*f}
	}
	return out
}
