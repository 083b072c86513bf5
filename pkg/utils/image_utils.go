package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // decoder registration for generated images
	"image/png"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/colorm"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/halabi/pkg/utils/easing"
)

// ImageSurface is an offscreen image that particles are drawn onto.
// It satisfies the particle field's Surface interface.
type ImageSurface struct {
	img  *ebiten.Image
	fill color.RGBA
}

// NewImageSurface creates a surface of the given size.
func NewImageSurface(width, height int) *ImageSurface {
	s := &ImageSurface{}
	s.Resize(width, height)
	return s
}

// Image returns the backing image. It changes after Resize.
func (s *ImageSurface) Image() *ebiten.Image {
	return s.img
}

// Resize reallocates the backing image when the size changes.
func (s *ImageSurface) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if s.img != nil {
		b := s.img.Bounds()
		if b.Dx() == width && b.Dy() == height {
			return
		}
		s.img.Deallocate()
	}
	s.img = ebiten.NewImage(width, height)
}

// Clear erases the surface.
func (s *ImageSurface) Clear() {
	s.img.Clear()
}

// SetFill sets the color of subsequent circles.
func (s *ImageSurface) SetFill(c color.RGBA) {
	s.fill = c
}

// FillCircle draws an antialiased circle with the current fill.
func (s *ImageSurface) FillCircle(x, y, r, alpha float64) {
	if alpha <= 0 || r <= 0 {
		return
	}
	vector.DrawFilledCircle(s.img, float32(x), float32(y), float32(r), easing.WithAlpha(s.fill, alpha), true)
}

// Grayscale returns a desaturated copy of src.
//
// Usage Example (compare slider "before" layer):
//
//	before := utils.Grayscale(after)
func Grayscale(src *ebiten.Image) *ebiten.Image {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	dst := ebiten.NewImage(b.Dx(), b.Dy())
	var cm colorm.ColorM
	cm.ChangeHSV(0, 0, 1)
	colorm.DrawImage(dst, src, cm, &colorm.DrawImageOptions{})
	return dst
}

// ProceduralPhoto renders a warm studio-like gradient with a soft spotlight.
// It stands in for the fitting room photo when none is configured.
func ProceduralPhoto(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	top := color.RGBA{R: 120, G: 53, B: 15, A: 255}
	bottom := color.RGBA{R: 251, G: 191, B: 36, A: 255}
	cx, cy := float64(width)*0.6, float64(height)*0.35
	radius := math.Hypot(float64(width), float64(height)) / 2

	for y := 0; y < height; y++ {
		row := easing.LerpColor(top, bottom, float64(y)/float64(max(height-1, 1)))
		for x := 0; x < width; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy) / radius
			light := easing.Clamp01(1-d) * 0.6
			img.SetRGBA(x, y, easing.LerpColor(row, color.RGBA{R: 255, G: 250, B: 235, A: 255}, light))
		}
	}
	return img
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeImage decodes PNG or JPEG bytes.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
