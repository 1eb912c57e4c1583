package carve

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// EnergyField is a row-major grid of non-negative per-pixel energies.
type EnergyField struct {
	Width  int
	Height int
	Values []int
	Min    int
	Max    int
}

func newEnergyField(w, h int) EnergyField {
	return EnergyField{
		Width:  w,
		Height: h,
		Values: make([]int, w*h),
		Min:    math.MaxInt,
		Max:    0,
	}
}

// At returns the energy at (x, y).
func (f EnergyField) At(x, y int) int {
	return f.Values[y*f.Width+x]
}

func (f *EnergyField) set(x, y, v int) {
	f.Values[y*f.Width+x] = v
	if v < f.Min {
		f.Min = v
	}
	if v > f.Max {
		f.Max = v
	}
}

// Transpose returns a copy of the field reflected across its anti-diagonal,
// matching the pixel layout of Transpose on the image it was measured from.
func (f EnergyField) Transpose() EnergyField {
	t := EnergyField{
		Width:  f.Height,
		Height: f.Width,
		Values: make([]int, len(f.Values)),
		Min:    f.Min,
		Max:    f.Max,
	}
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			t.Values[(f.Width-1-x)*t.Width+(f.Height-1-y)] = f.Values[y*f.Width+x]
		}
	}
	return t
}

// Visualize rescales the field linearly onto [0,255]: the minimum maps to 0 and the maximum to 255.
func (f EnergyField) Visualize() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	span := f.Max - f.Min
	if span < 1 {
		span = 1
	}
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			g := (f.At(x, y) - f.Min) * 255 / span
			out.SetGray(x, y, color.Gray{Y: uint8(g)})
		}
	}
	return out
}

// ComputeEnergy measures the energy of every pixel of img with the given operator.
func ComputeEnergy(img image.Image, op Operator) (EnergyField, error) {
	src, err := normalize(img)
	if err != nil {
		return EnergyField{}, err
	}
	return computeEnergy(src, op)
}

// EnergyImage returns the grayscale visualization of img's energy.
func EnergyImage(img image.Image, op Operator) (*image.Gray, error) {
	field, err := ComputeEnergy(img, op)
	if err != nil {
		return nil, err
	}
	return field.Visualize(), nil
}

func computeEnergy(src *image.NRGBA, op Operator) (EnergyField, error) {
	if op == Forward {
		return forwardEnergy(src), nil
	}
	kernels, ok := op.Kernels()
	if !ok {
		return EnergyField{}, fmt.Errorf("%w: %v", ErrUnsupportedOperator, op)
	}
	return convolutionEnergy(src, kernels), nil
}

// convolutionEnergy computes (|gx| + |gy|) / 2 over a 3x3 neighbourhood with replicated borders.
func convolutionEnergy(src *image.NRGBA, kernels KernelPair) EnergyField {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	lum := luminanceGrid(src)
	field := newEnergyField(w, h)

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			gx, gy := 0, 0
			for k := 0; k < 3; k++ {
				nx := clamp(x+k-1, 0, w-1)
				for l := 0; l < 3; l++ {
					ny := clamp(y+l-1, 0, h-1)
					p := lum[ny*w+nx]
					gx += p * kernels.X[k][l]
					gy += p * kernels.Y[k][l]
				}
			}
			field.set(x, y, (abs(gx)+abs(gy))/2)
		}
	}
	return field
}

// forwardEnergy estimates the discontinuity a removal at (x, y) would introduce.
func forwardEnergy(src *image.NRGBA) EnergyField {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	lum := luminanceGrid(src)
	field := newEnergyField(w, h)

	for y := 0; y < h; y++ {
		top := clamp(y-1, 0, h-1)
		for x := 0; x < w; x++ {
			left := clamp(x-1, 0, w-1)
			right := clamp(x+1, 0, w-1)

			l := lum[y*w+left]
			r := lum[y*w+right]
			t := lum[top*w+x]

			cT := abs(l - r)
			cL := abs(t-l) + cT
			cR := abs(t-r) + cT
			field.set(x, y, min(cT, cL, cR))
		}
	}
	return field
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
