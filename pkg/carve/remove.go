package carve

import (
	"fmt"
	"image"
)

// RemoveSeam returns a copy of img one column narrower, without the pixel seam[y] of each row y.
func RemoveSeam(img image.Image, seam Seam) (*image.NRGBA, error) {
	src, err := normalize(img)
	if err != nil {
		return nil, err
	}
	return removeSeam(src, seam)
}

func removeSeam(src *image.NRGBA, seam Seam) (*image.NRGBA, error) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if w < 2 {
		return nil, fmt.Errorf("%w: cannot remove a seam from a %dx%d image", ErrInvalidDimensions, w, h)
	}
	if err := seam.Validate(w, h); err != nil {
		return nil, err
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w-1, h))
	for y := 0; y < h; y++ {
		in := src.Pix[y*src.Stride : y*src.Stride+w*4]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+(w-1)*4]
		cut := seam[y] * 4
		copy(out[:cut], in[:cut])
		copy(out[cut:], in[cut+4:])
	}
	return dst, nil
}
