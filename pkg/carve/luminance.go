package carve

import "image"

// Luminance returns the perceptual gray value of an RGB triple in [0,255].
// Alpha does not contribute.
func Luminance(r, g, b uint8) int {
	return (int(r)*11 + int(g)*16 + int(b)*5) / 32
}

// LuminanceAt returns the luminance of the pixel at (x, y).
func LuminanceAt(img *image.NRGBA, x, y int) int {
	i := img.PixOffset(x, y)
	return Luminance(img.Pix[i], img.Pix[i+1], img.Pix[i+2])
}

// luminanceGrid returns the row-major luminance of every pixel.
func luminanceGrid(img *image.NRGBA) []int {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	lum := make([]int, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			lum[y*w+x] = Luminance(row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	return lum
}
