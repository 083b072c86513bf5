package term

import (
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func TestSurface_FillCircleUsesCellAndBlend(t *testing.T) {
	screen := newSimScreen(t, 10, 5)
	s := NewSurface(screen, color.RGBA{A: 255})
	s.Clear()
	s.SetFill(color.RGBA{R: 200, G: 100, B: 50, A: 255})

	s.FillCircle(20, 20, 2, 0.5)

	r, _, style, _ := screen.GetContent(2, 1)
	assert.Equal(t, '●', r)
	fg, _, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(100, 50, 25), fg)
}

func TestSurface_GlyphBySize(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		want   rune
	}{
		{"小粒子", 0.5, '·'},
		{"中粒子", 1.2, '•'},
		{"大粒子", 2.0, '●'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, glyphFor(tt.radius))
		})
	}
}

func TestSurface_IgnoresOffscreenAndTransparent(t *testing.T) {
	screen := newSimScreen(t, 4, 2)
	s := NewSurface(screen, color.RGBA{A: 255})
	s.Clear()
	s.SetFill(color.RGBA{R: 255, A: 255})

	assert.NotPanics(t, func() {
		s.FillCircle(-8, 4, 2, 1)
		s.FillCircle(4*CellWidth, 4, 2, 1)
		s.FillCircle(4, 2*CellHeight, 2, 1)
	})
	s.FillCircle(4, 4, 2, 0)

	for row := 0; row < 2; row++ {
		for col := 0; col < 4; col++ {
			r, _, _, _ := screen.GetContent(col, row)
			assert.Equal(t, ' ', r, "cell %d,%d", col, row)
		}
	}
}

func TestSurface_TextTruncates(t *testing.T) {
	screen := newSimScreen(t, 5, 1)
	s := NewSurface(screen, color.RGBA{A: 255})
	s.Clear()

	s.Text(2, 0, "hello", color.RGBA{R: 255, G: 255, B: 255, A: 255})

	var got []rune
	for col := 0; col < 5; col++ {
		r, _, _, _ := screen.GetContent(col, 0)
		got = append(got, r)
	}
	assert.Equal(t, "  hel", string(got))
}

func TestCellCoordinates(t *testing.T) {
	col, row := CellAt(17, 33)
	assert.Equal(t, 2, col)
	assert.Equal(t, 2, row)

	x, y := CellCenter(2, 2)
	assert.Equal(t, 20.0, x)
	assert.Equal(t, 40.0, y)

	col, row = CellAt(-1, -1)
	assert.Equal(t, -1, col)
	assert.Equal(t, -1, row)
}

func TestSurface_Size(t *testing.T) {
	screen := newSimScreen(t, 80, 24)
	w, h := NewSurface(screen, color.RGBA{}).Size()
	assert.Equal(t, 640.0, w)
	assert.Equal(t, 384.0, h)
}
