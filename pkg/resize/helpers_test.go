package resize

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/stretchr/testify/mock"
)

func createTestImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x*29 + y*7) % 256),
				G: uint8((x*y + 3*y) % 256),
				B: uint8((x*x*5 + y) % 256),
				A: 255,
			})
		}
	}
	return img
}

func createSolidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

// MockFaceDetector implements FaceDetector for testing
type MockFaceDetector struct {
	mock.Mock
}

func (m *MockFaceDetector) DetectFaces(img image.Image) []image.Rectangle {
	args := m.Called(img)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]image.Rectangle)
}
