package carve

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Transpose reflects img across its anti-diagonal: pixel (x, y) of a W×H image
// moves to (H-1-y, W-1-x). Applying it twice restores the original pixels exactly.
func Transpose(img image.Image) *image.NRGBA {
	return imaging.Transverse(img)
}

// normalize returns img as an NRGBA image anchored at the origin.
// NRGBA input already at the origin is returned as is; carving never writes to it.
func normalize(img image.Image) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidDimensions)
	}
	b := img.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, b.Dx(), b.Dy())
	}
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n, nil
	}
	return imaging.Clone(img), nil
}
