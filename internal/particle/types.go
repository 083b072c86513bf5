// Package particle implements the ambient particle field: a fixed population
// of drifting, twinkling points over a 2D surface.
//
// The field owns its particles exclusively. Particle count is derived from the
// surface area and the viewport width class, and is recomputed only when the
// field is (re)initialized on resize.
package particle

import "image/color"

// Particle is a single drifting point.
//
// Velocity, size, base opacity and phase are drawn once when the particle is
// created and never change afterwards.
type Particle struct {
	X, Y   float64 // surface coordinates, wrapped to [0,width]x[0,height]
	VX, VY float64 // displacement per tick

	Size        float64 // circle radius
	BaseOpacity float64
	Phase       float64 // twinkle phase offset in radians

	// Opacity is the twinkle opacity computed by the last Tick.
	Opacity float64
}

// Config holds the tuning values of a field.
//
// Range fields accept the value syntax used by the effect configuration:
// a fixed number ("1.5") or a uniform range ("[0.5 2.0]").
type Config struct {
	// DividerWide is the surface area per particle on wide viewports.
	DividerWide float64 `yaml:"densityDividerWide"`
	// DividerNarrow is the surface area per particle on narrow viewports (sparser).
	DividerNarrow float64 `yaml:"densityDividerNarrow"`
	// NarrowBreakpoint is the viewport width below which the narrow divider applies.
	NarrowBreakpoint float64 `yaml:"narrowBreakpoint"`

	Size    Range `yaml:"size"`
	Speed   Range `yaml:"speed"`
	Opacity Range `yaml:"opacity"`

	TwinkleAmplitude float64 `yaml:"twinkleAmplitude"`
	// TwinkleFrequency is in radians per millisecond.
	TwinkleFrequency float64 `yaml:"twinkleFrequency"`
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		DividerWide:      10000,
		DividerNarrow:    15000,
		NarrowBreakpoint: 768,
		Size:             Range{Min: 0.5, Max: 2.0},
		Speed:            Range{Min: -0.1, Max: 0.1},
		Opacity:          Range{Min: 0.1, Max: 0.6},
		TwinkleAmplitude: 0.1,
		TwinkleFrequency: 0.001,
	}
}

// Palette is the per-theme appearance of the whole field.
type Palette struct {
	Color color.RGBA
	// Opacity scales every particle, like the opacity of the canvas element.
	Opacity float64
}

// Surface is the drawable region the field renders to.
type Surface interface {
	// Clear erases the entire surface.
	Clear()
	// SetFill sets the fill color for subsequent circles.
	SetFill(c color.RGBA)
	// FillCircle draws a filled circle with the current fill at the given alpha (0-1).
	FillCircle(x, y, r, alpha float64)
}
