package particle

import (
	"math"
	"math/rand"
)

// Field is the particle population of one surface.
//
// Motion is frame-coupled: every Tick advances each particle by exactly its
// velocity, regardless of how much wall time passed. A display refreshing at
// 120Hz therefore drifts twice as fast as one at 60Hz, which matches the
// reference look the tuning values were chosen for.
type Field struct {
	cfg     Config
	rng     *rand.Rand
	palette Palette

	width, height float64
	particles     []Particle
}

// NewField creates an empty field. rng may be nil, in which case a
// time-independent default source is used.
func NewField(cfg Config, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Field{cfg: cfg, rng: rng}
}

// Count returns the particle count for a surface of w×h at viewport width vw.
func (c Config) Count(w, h, vw float64) int {
	if w <= 0 || h <= 0 {
		return 0
	}
	divider := c.DividerWide
	if vw < c.NarrowBreakpoint {
		divider = c.DividerNarrow
	}
	if divider <= 0 {
		return 0
	}
	return int(math.Floor(w * h / divider))
}

// Init discards the current population and seeds a new one for a surface of
// w×h. vw is the viewport width and selects the density class.
func (f *Field) Init(w, h, vw float64) {
	f.width, f.height = w, h
	n := f.cfg.Count(w, h, vw)
	f.particles = make([]Particle, n)
	for i := range f.particles {
		f.particles[i] = f.spawn()
	}
}

func (f *Field) spawn() Particle {
	base := f.cfg.Opacity.Sample(f.rng)
	return Particle{
		X:           f.rng.Float64() * f.width,
		Y:           f.rng.Float64() * f.height,
		VX:          f.cfg.Speed.Sample(f.rng),
		VY:          f.cfg.Speed.Sample(f.rng),
		Size:        f.cfg.Size.Sample(f.rng),
		BaseOpacity: base,
		Phase:       f.rng.Float64() * 2 * math.Pi,
		Opacity:     base,
	}
}

// Tick advances every particle by one step. elapsedMs drives the twinkle.
func (f *Field) Tick(elapsedMs float64) {
	for i := range f.particles {
		p := &f.particles[i]
		p.X = wrap(p.X+p.VX, f.width)
		p.Y = wrap(p.Y+p.VY, f.height)
		p.Opacity = p.BaseOpacity + f.cfg.TwinkleAmplitude*math.Sin(elapsedMs*f.cfg.TwinkleFrequency+p.Phase)
	}
}

// Render clears s and draws every particle in the current palette.
func (f *Field) Render(s Surface) {
	s.Clear()
	s.SetFill(f.palette.Color)
	for _, p := range f.particles {
		s.FillCircle(p.X, p.Y, p.Size, clamp01(p.Opacity)*f.palette.Opacity)
	}
}

// SetPalette swaps the colors used by Render. The population is untouched.
func (f *Field) SetPalette(p Palette) {
	f.palette = p
}

// Palette returns the current palette.
func (f *Field) Palette() Palette {
	return f.palette
}

// Count returns the current population size.
func (f *Field) Count() int {
	return len(f.particles)
}

// Size returns the surface size the field was last initialized for.
func (f *Field) Size() (w, h float64) {
	return f.width, f.height
}

// Particles returns the live population. Callers must not modify it.
func (f *Field) Particles() []Particle {
	return f.particles
}

// wrap folds v into [0, max], carrying the overshoot to the opposite edge.
func wrap(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	if v > max {
		return math.Mod(v, max)
	}
	if v < 0 {
		return math.Mod(v, max) + max
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
