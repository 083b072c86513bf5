package utils

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// monoMeasure 每个字符 10 像素
func monoMeasure(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * 10
}

func TestWrapWith(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth float64
		want     []string
	}{
		{"不需要换行", "short", 100, []string{"short"}},
		{"按单词换行", "book a vip consultation", 120, []string{"book a vip", "consultation"}},
		{"超长单词强制断行", "abcdefghijkl", 50, []string{"abcde", "fghij", "kl"}},
		{"保留显式换行", "line one\nline two", 200, []string{"line one", "line two"}},
		{"空段落", "a\n\nb", 100, []string{"a", "", "b"}},
		{"空字符串", "", 100, []string{""}},
		{"非正宽度", "hello world", 0, []string{"hello world"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapWith(tt.input, monoMeasure, tt.maxWidth)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("WrapWith(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestWrapText_GoFont(t *testing.T) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		t.Fatalf("failed to load font: %v", err)
	}
	face := &text.GoTextFace{Source: src, Size: 16}

	input := "Professional home cleaning with eco friendly products and trained staff"
	const maxWidth = 160.0
	lines := WrapText(input, face, maxWidth)

	if len(lines) < 2 {
		t.Fatalf("expected the text to wrap, got %d line(s)", len(lines))
	}
	for _, line := range lines {
		if w, _ := text.Measure(line, face, 0); w > maxWidth {
			t.Errorf("line %q is %.1fpx wide, exceeds %.0f", line, w, maxWidth)
		}
	}
	if got := strings.Join(lines, " "); got != input {
		t.Errorf("rejoined text = %q, want %q", got, input)
	}
}

func TestWrapText_NilFace(t *testing.T) {
	got := WrapText("anything", nil, 10)
	if len(got) != 1 || got[0] != "anything" {
		t.Errorf("WrapText with nil face = %v, want the input unchanged", got)
	}
}
