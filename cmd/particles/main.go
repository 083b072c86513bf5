// Package main provides a particle field tuning tool: it runs the ambient
// particle field full-screen and lets you adjust its density, speed and twinkle
// live, then dump the result as an effects.yaml "particles" block.
//
// Usage:
//
//	go run ./cmd/particles [flags]
//
// Flags:
//
//	--config <dir>    Directory with an effects.yaml override
//	--load <file>     Start from a particle block saved with S
//	--theme <name>    Start with the dark or light palette
//	--seed <n>        Random seed (0 = time based)
//	--verbose         Enable verbose logging (default off)
//
// Controls:
//
//	Up/Down           - Denser/sparser field (density divider ÷/× 1.25)
//	Left/Right        - Slower/faster drift (speed range ÷/× 1.25)
//	[ / ]             - Decrease/increase twinkle amplitude by 0.05
//	R                 - Reseed the field
//	T                 - Toggle theme (palette only, particles are kept)
//	P or Space        - Toggle pause
//	S                 - Print the current particle block as YAML (paste under "particles:")
//	Q/Escape          - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/decker502/halabi/internal/host"
	"github.com/decker502/halabi/internal/particle"
	"github.com/decker502/halabi/pkg/config"
	"github.com/decker502/halabi/pkg/logging"
	"github.com/decker502/halabi/pkg/utils"
)

const (
	screenWidth  = 1280
	screenHeight = 800

	scaleStep   = 1.25
	twinkleStep = 0.05
)

var (
	configFlag  = flag.String("config", "", "Directory with an effects.yaml override")
	loadFlag    = flag.String("load", "", "Particle block saved with S")
	themeFlag   = flag.String("theme", config.ThemeDark, "Initial theme (dark|light)")
	seedFlag    = flag.Int64("seed", 0, "Random seed (0 = time based)")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

var errQuit = errors.New("quit requested")

// FieldViewer implements ebiten.Game for the particle tuning tool
type FieldViewer struct {
	effects  *config.EffectsConfig
	cfg      particle.Config
	theme    string
	seed     int64
	registry *host.Registry
	surface  *utils.ImageSurface
	animator *particle.Animator

	width, height int
	start         time.Time
	paused        bool

	statusMessage string
	log           *zap.Logger
}

// NewFieldViewer creates the viewer with the given effects config
func NewFieldViewer(effects *config.EffectsConfig, theme string, seed int64) *FieldViewer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	v := &FieldViewer{
		effects:  effects,
		cfg:      effects.Particles,
		theme:    theme,
		seed:     seed,
		registry: host.NewRegistry(),
		surface:  utils.NewImageSurface(screenWidth, screenHeight),
		width:    screenWidth,
		height:   screenHeight,
		start:    time.Now(),
		log:      zap.L().Named("particles"),
	}
	v.rebuild()
	v.statusMessage = fmt.Sprintf("Seed %d", seed)
	return v
}

// rebuild replaces the field with one built from the current tuning
func (v *FieldViewer) rebuild() {
	if v.animator != nil {
		v.animator.Close()
	}
	field := particle.NewField(v.cfg, rand.New(rand.NewSource(v.seed)))
	field.SetPalette(v.effects.Theme(v.theme).Palette())
	field.Init(float64(v.width), float64(v.height), float64(v.width))

	v.animator = particle.NewAnimator(field, v.surface, v.registry, v.registry)
	v.animator.Start()
	v.log.Debug("field rebuilt",
		zap.Int("particles", field.Count()),
		zap.Float64("dividerWide", v.cfg.DividerWide),
		zap.String("speed", v.cfg.Speed.String()))
}

// Update handles tuning keys and advances the frame loop
func (v *FieldViewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		v.cfg.DividerWide /= scaleStep
		v.cfg.DividerNarrow /= scaleStep
		v.retune("Denser")
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		v.cfg.DividerWide *= scaleStep
		v.cfg.DividerNarrow *= scaleStep
		v.retune("Sparser")
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		v.cfg.Speed = particle.Range{Min: v.cfg.Speed.Min * scaleStep, Max: v.cfg.Speed.Max * scaleStep}
		v.retune("Faster")
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		v.cfg.Speed = particle.Range{Min: v.cfg.Speed.Min / scaleStep, Max: v.cfg.Speed.Max / scaleStep}
		v.retune("Slower")
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		v.cfg.TwinkleAmplitude = math.Min(1, v.cfg.TwinkleAmplitude+twinkleStep)
		v.retune("More twinkle")
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		v.cfg.TwinkleAmplitude = math.Max(0, v.cfg.TwinkleAmplitude-twinkleStep)
		v.retune("Less twinkle")
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		v.seed++
		v.retune(fmt.Sprintf("Reseeded (%d)", v.seed))
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		v.toggleTheme()
	case inpututil.IsKeyJustPressed(ebiten.KeyP), inpututil.IsKeyJustPressed(ebiten.KeySpace):
		v.paused = !v.paused
		if v.paused {
			v.statusMessage = "⏸ PAUSED"
		} else {
			v.statusMessage = "▶ Resumed"
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		v.dumpConfig()
	}

	if !v.paused {
		v.registry.RunFrames(float64(time.Since(v.start).Microseconds()) / 1000)
	}
	return nil
}

func (v *FieldViewer) retune(msg string) {
	v.rebuild()
	v.statusMessage = msg
}

func (v *FieldViewer) toggleTheme() {
	if v.theme == config.ThemeDark {
		v.theme = config.ThemeLight
	} else {
		v.theme = config.ThemeDark
	}
	v.animator.Field().SetPalette(v.effects.Theme(v.theme).Palette())
	v.statusMessage = "Theme: " + v.theme
}

// dumpConfig prints the tuning as a particle block; --load reads it back
func (v *FieldViewer) dumpConfig() {
	out, err := yaml.Marshal(v.cfg)
	if err != nil {
		v.log.Warn("failed to marshal particle config", zap.Error(err))
		v.statusMessage = "Dump failed"
		return
	}
	fmt.Print(string(out))
	v.statusMessage = "Config printed to stdout"
}

// Draw renders the field and the tuning overlay
func (v *FieldViewer) Draw(screen *ebiten.Image) {
	theme := v.effects.Theme(v.theme)
	screen.Fill(theme.Background.RGBA())
	screen.DrawImage(v.surface.Image(), nil)

	field := v.animator.Field()
	info := fmt.Sprintf(
		"Particles: %d  (%dx%d)\nDivider wide/narrow: %.0f / %.0f\nSpeed: %s\nSize: %s  Opacity: %s\nTwinkle: %.2f @ %.4f rad/ms\nTheme: %s  Seed: %d\nFPS: %.0f\n\n%s",
		field.Count(), v.width, v.height,
		v.cfg.DividerWide, v.cfg.DividerNarrow,
		v.cfg.Speed, v.cfg.Size, v.cfg.Opacity,
		v.cfg.TwinkleAmplitude, v.cfg.TwinkleFrequency,
		v.theme, v.seed, ebiten.ActualFPS(),
		v.statusMessage,
	)
	ebitenutil.DebugPrintAt(screen, info, 10, 10)
	ebitenutil.DebugPrintAt(screen, "↑/↓ density  ←/→ speed  [/] twinkle  R reseed  T theme  P pause  S dump  Q quit", 10, v.height-20)
}

// Layout follows the window size and reseeds the field on change
func (v *FieldViewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != v.width || outsideHeight != v.height {
		v.width, v.height = outsideWidth, outsideHeight
		v.surface.Resize(outsideWidth, outsideHeight)
		v.registry.Dispatch(host.Event{Type: host.EventResize, Width: float64(outsideWidth), Height: float64(outsideHeight)})
	}
	return outsideWidth, outsideHeight
}

func main() {
	flag.Parse()

	restore, err := logging.Init(*verboseFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer restore()

	effects, err := loadEffects(*configFlag)
	if err != nil {
		zap.L().Fatal("failed to load effects config", zap.Error(err))
	}

	if *loadFlag != "" {
		data, err := os.ReadFile(*loadFlag)
		if err != nil {
			zap.L().Fatal("failed to read particle block", zap.Error(err))
		}
		if effects.Particles, err = particle.ParseConfig(data); err != nil {
			zap.L().Fatal("invalid particle block", zap.String("file", *loadFlag), zap.Error(err))
		}
	}

	viewer := NewFieldViewer(effects, *themeFlag, *seedFlag)

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Halabi Particle Field Tuner")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(viewer); err != nil && !errors.Is(err, errQuit) {
		zap.L().Fatal("viewer exited", zap.Error(err))
	}
	viewer.animator.Close()
}

// loadEffects reads effects.yaml from dir, or returns the built-in defaults.
// The tool does not embed data/, so there is no embedded fallback.
func loadEffects(dir string) (*config.EffectsConfig, error) {
	if dir == "" {
		return config.DefaultEffectsConfig(), nil
	}
	return config.NewLoaderFS(dir, os.DirFS(dir)).LoadEffects()
}
