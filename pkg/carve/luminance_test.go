package carve

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLuminance(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    int
	}{
		{"black", 0, 0, 0, 0},
		{"white", 255, 255, 255, 255},
		{"gray", 100, 100, 100, 100},
		{"red", 255, 0, 0, 87},
		{"green", 0, 255, 0, 127},
		{"blue", 0, 0, 255, 39},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Luminance(tt.r, tt.g, tt.b))
		})
	}
}

func TestLuminanceAtIgnoresAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 200, B: 200, A: 10})

	assert.Equal(t, 200, LuminanceAt(img, 0, 0))
	assert.Equal(t, LuminanceAt(img, 0, 0), LuminanceAt(img, 1, 0))
}
