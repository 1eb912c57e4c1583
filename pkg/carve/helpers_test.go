package carve

import (
	"image"
	"image/color"
)

// grayImage builds an opaque NRGBA image whose luminance matches rows exactly.
func grayImage(rows [][]uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, row := range rows {
		for x, v := range row {
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// patternImage builds a deterministic colour image with plenty of texture.
func patternImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x*37 + y*11) % 256),
				G: uint8((x*x + y*53) % 256),
				B: uint8((x*y*7 + 13) % 256),
				A: uint8(255 - (x+y)%3),
			})
		}
	}
	return img
}

func column(img *image.NRGBA, x int) []color.NRGBA {
	out := make([]color.NRGBA, img.Rect.Dy())
	for y := range out {
		out[y] = img.NRGBAAt(x, y)
	}
	return out
}
