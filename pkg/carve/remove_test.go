package carve

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveSeam(t *testing.T) {
	src := patternImage(4, 3)
	seam := Seam{3, 2, 1}

	out, err := RemoveSeam(src, seam)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 3), out.Bounds())

	for y := 0; y < 3; y++ {
		nx := 0
		for x := 0; x < 4; x++ {
			if x == seam[y] {
				continue
			}
			assert.Equal(t, src.NRGBAAt(x, y), out.NRGBAAt(nx, y), "row %d col %d", y, x)
			nx++
		}
	}
}

func TestRemoveSeamLeavesInputUntouched(t *testing.T) {
	src := patternImage(5, 5)
	before := append([]uint8(nil), src.Pix...)

	_, err := RemoveSeam(src, Seam{0, 1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, before, src.Pix)
}

func TestRemoveSeamErrors(t *testing.T) {
	_, err := RemoveSeam(patternImage(1, 3), Seam{0, 0, 0})
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	_, err = RemoveSeam(patternImage(3, 3), Seam{0, 0})
	assert.ErrorIs(t, err, ErrInvalidSeam)

	_, err = RemoveSeam(patternImage(3, 2), Seam{0, 2})
	assert.ErrorIs(t, err, ErrInvalidSeam)

	_, err = RemoveSeam(image.NewNRGBA(image.Rect(0, 0, 0, 0)), nil)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}
