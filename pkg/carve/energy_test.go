package carve

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvolutionEnergyStep(t *testing.T) {
	// A single row with a step from 0 to 255 on the last pixel.
	img := grayImage([][]uint8{{0, 0, 255}})

	tests := []struct {
		op   Operator
		want []int
	}{
		{Sobel, []int{0, 510, 510}},
		{Prewitt, []int{0, 382, 382}},
		{Scharr, []int{0, 2040, 2040}},
		{Roberts, []int{0, 255, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			field, err := ComputeEnergy(img, tt.op)
			require.NoError(t, err)
			assert.Equal(t, 3, field.Width)
			assert.Equal(t, 1, field.Height)
			assert.Equal(t, tt.want, field.Values)
			assert.Equal(t, 0, field.Min)
		})
	}
}

func TestFlatImageHasNoEnergy(t *testing.T) {
	img := grayImage([][]uint8{
		{100, 100, 100},
		{100, 100, 100},
		{100, 100, 100},
	})

	for _, op := range Operators() {
		t.Run(op.String(), func(t *testing.T) {
			field, err := ComputeEnergy(img, op)
			require.NoError(t, err)
			assert.Equal(t, make([]int, 9), field.Values)
			assert.Equal(t, 0, field.Min)
			assert.Equal(t, 0, field.Max)
		})
	}
}

func TestForwardEnergy(t *testing.T) {
	img := grayImage([][]uint8{
		{10, 10, 10, 200, 10},
		{10, 200, 10, 10, 10},
	})

	field, err := ComputeEnergy(img, Forward)
	require.NoError(t, err)

	// Row 0 uses itself as the row above; row 1 looks at row 0.
	// (2,0): cT=|10-200|=190, cL=0+190, cR=190+190 -> 190
	// (0,1): cT=|10-200|=190, cL=0+190, cR=190+190 -> 190
	// (3,1): cT=|10-10|=0, cL=|200-10|+0, cR=|200-10|+0 -> 0
	assert.Equal(t, []int{
		0, 0, 190, 0, 190,
		190, 0, 190, 0, 0,
	}, field.Values)
	assert.Equal(t, 0, field.Min)
	assert.Equal(t, 190, field.Max)
}

func TestComputeEnergyErrors(t *testing.T) {
	_, err := ComputeEnergy(image.NewNRGBA(image.Rect(0, 0, 0, 3)), Sobel)
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	_, err = ComputeEnergy(nil, Sobel)
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	_, err = ComputeEnergy(grayImage([][]uint8{{1, 2}}), Operator(-1))
	assert.ErrorIs(t, err, ErrUnsupportedOperator)
}

func TestComputeEnergyAcceptsAnyImage(t *testing.T) {
	src := patternImage(6, 4)
	gray := image.NewGray(src.Bounds())
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			gray.Set(x, y, src.At(x, y))
		}
	}

	// Offset bounds must not change the result.
	sub := src.SubImage(image.Rect(1, 1, 5, 4))
	field, err := ComputeEnergy(sub, Sobel)
	require.NoError(t, err)
	assert.Equal(t, 4, field.Width)
	assert.Equal(t, 3, field.Height)

	_, err = ComputeEnergy(gray, Prewitt)
	assert.NoError(t, err)
}

func TestVisualize(t *testing.T) {
	img := patternImage(9, 7)

	for _, op := range Operators() {
		t.Run(op.String(), func(t *testing.T) {
			field, err := ComputeEnergy(img, op)
			require.NoError(t, err)
			require.Greater(t, field.Max, field.Min)

			vis := field.Visualize()
			assert.Equal(t, image.Rect(0, 0, 9, 7), vis.Bounds())

			for y := 0; y < field.Height; y++ {
				for x := 0; x < field.Width; x++ {
					v := vis.GrayAt(x, y).Y
					switch field.At(x, y) {
					case field.Min:
						assert.Equal(t, uint8(0), v)
					case field.Max:
						assert.Equal(t, uint8(255), v)
					}
				}
			}
		})
	}
}

func TestVisualizeZeroRange(t *testing.T) {
	field := EnergyField{Width: 2, Height: 1, Values: []int{7, 7}, Min: 7, Max: 7}
	vis := field.Visualize()
	assert.Equal(t, []uint8{0, 0}, vis.Pix)
}

func TestEnergyFieldTranspose(t *testing.T) {
	field, err := ComputeEnergy(patternImage(5, 3), Scharr)
	require.NoError(t, err)

	tr := field.Transpose()
	assert.Equal(t, 3, tr.Width)
	assert.Equal(t, 5, tr.Height)
	for y := 0; y < field.Height; y++ {
		for x := 0; x < field.Width; x++ {
			assert.Equal(t, field.At(x, y), tr.At(field.Height-1-y, field.Width-1-x))
		}
	}
	assert.Equal(t, field, tr.Transpose())
}

func TestEnergyImage(t *testing.T) {
	vis, err := EnergyImage(grayImage([][]uint8{{0, 0, 255}}), Sobel)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 255, 255}, vis.Pix)
}
