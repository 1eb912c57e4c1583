// Package carve implements content-aware image reduction by seam carving.
//
// Every call removes exactly one seam: it measures the energy of the current
// image, finds the cheapest connected path across it and returns a new image
// without that path. Inputs are never modified, so callers carve N seams by
// feeding each result into the next call.
package carve

import (
	"fmt"
	"image"
)

// Result is the outcome of removing one seam.
type Result struct {
	// Image is the carved image, one column (vertical) or one row (horizontal) smaller.
	Image *image.NRGBA
	// Energy visualizes the energy field the seam was chosen from, in the input's orientation.
	Energy *image.Gray
	// Seam is the removed path. For horizontal carves it holds one row index per column.
	Seam Seam
	// Cost is the total energy along Seam.
	Cost int
}

// Carve removes one seam from img in the given direction using op to measure energy.
func Carve(img image.Image, op Operator, dir Direction) (Result, error) {
	switch dir {
	case Vertical:
		return CarveVertical(img, op)
	case Horizontal:
		return CarveHorizontal(img, op)
	default:
		return Result{}, fmt.Errorf("%w: %v", ErrUnsupportedDirection, dir)
	}
}

// CarveVertical removes one top-to-bottom seam, narrowing img by one column.
func CarveVertical(img image.Image, op Operator) (Result, error) {
	src, err := normalize(img)
	if err != nil {
		return Result{}, err
	}
	if src.Rect.Dx() < 2 {
		return Result{}, fmt.Errorf("%w: vertical carve needs width >= 2, got %d", ErrInvalidDimensions, src.Rect.Dx())
	}

	out, field, seam, cost, err := carveColumn(src, op)
	if err != nil {
		return Result{}, err
	}
	return Result{Image: out, Energy: field.Visualize(), Seam: seam, Cost: cost}, nil
}

// CarveVerticalForward removes one vertical seam chosen with forward energy.
func CarveVerticalForward(img image.Image) (Result, error) {
	return CarveVertical(img, Forward)
}

// CarveHorizontal removes one left-to-right seam, shortening img by one row.
// It carves the transposed image and transposes the result back.
func CarveHorizontal(img image.Image, op Operator) (Result, error) {
	src, err := normalize(img)
	if err != nil {
		return Result{}, err
	}
	if src.Rect.Dy() < 2 {
		return Result{}, fmt.Errorf("%w: horizontal carve needs height >= 2, got %d", ErrInvalidDimensions, src.Rect.Dy())
	}

	out, field, seam, cost, err := carveColumn(Transpose(src), op)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Image:  Transpose(out),
		Energy: field.Transpose().Visualize(),
		Seam:   untransposeSeam(seam, src.Rect.Dy()),
		Cost:   cost,
	}, nil
}

// CarveHorizontalForward removes one horizontal seam chosen with forward energy.
func CarveHorizontalForward(img image.Image) (Result, error) {
	return CarveHorizontal(img, Forward)
}

// untransposeSeam maps a vertical seam found on the transposed image back to
// one row index per column of the original image of the given height.
func untransposeSeam(seam Seam, height int) Seam {
	w := len(seam)
	out := make(Seam, w)
	for x := range out {
		out[x] = height - 1 - seam[w-1-x]
	}
	return out
}

// carveColumn runs energy, seam search and removal on an already normalized image.
func carveColumn(src *image.NRGBA, op Operator) (*image.NRGBA, EnergyField, Seam, int, error) {
	field, err := computeEnergy(src, op)
	if err != nil {
		return nil, EnergyField{}, nil, 0, err
	}
	seam, cost, err := FindSeam(field)
	if err != nil {
		return nil, EnergyField{}, nil, 0, err
	}
	out, err := removeSeam(src, seam)
	if err != nil {
		return nil, EnergyField{}, nil, 0, err
	}
	return out, field, seam, cost, nil
}
