package utils

import (
	"image/color"
	"testing"
)

func TestProceduralPhoto(t *testing.T) {
	img := ProceduralPhoto(64, 32)
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Fatalf("bounds = %v, want 64x32", b)
	}
	for _, p := range [][2]int{{0, 0}, {63, 31}, {38, 11}} {
		if a := img.RGBAAt(p[0], p[1]).A; a != 255 {
			t.Errorf("pixel %v alpha = %d, want opaque", p, a)
		}
	}
	// 顶部比底部暗
	top, bottom := img.RGBAAt(0, 0), img.RGBAAt(0, 31)
	if top.G >= bottom.G {
		t.Errorf("gradient should brighten downwards: top=%v bottom=%v", top, bottom)
	}
}

func TestEncodeDecodePNG(t *testing.T) {
	src := ProceduralPhoto(8, 8)
	data, err := EncodePNG(src)
	if err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	got, err := DecodeImage(data)
	if err != nil {
		t.Fatalf("DecodeImage() error = %v", err)
	}
	r, g, b, a := got.At(3, 3).RGBA()
	want := src.RGBAAt(3, 3)
	if c := (color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}); c != want {
		t.Errorf("pixel = %v, want %v", c, want)
	}
}

func TestDecodeImage_Invalid(t *testing.T) {
	if _, err := DecodeImage([]byte("not an image")); err == nil {
		t.Error("expected error for invalid data")
	}
}
