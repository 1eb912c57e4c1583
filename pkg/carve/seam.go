package carve

import (
	"fmt"
	"math"
)

// Seam holds one column index per row of the image it was found in.
type Seam []int

// FindSeam returns the connected top-to-bottom path of minimum total energy and that total.
// Ties prefer the straight-down predecessor, then the one to the left, then the right;
// among equal end points the leftmost column wins.
func FindSeam(field EnergyField) (Seam, int, error) {
	w, h := field.Width, field.Height
	if w < 1 || h < 1 || len(field.Values) != w*h {
		return nil, 0, fmt.Errorf("%w: %dx%d energy field", ErrInvalidDimensions, w, h)
	}

	cost := make([]int, w*h)
	from := make([]int, w*h)
	for x := 0; x < w; x++ {
		cost[x] = field.Values[x]
		from[x] = x
	}

	for y := 1; y < h; y++ {
		prev := cost[(y-1)*w : y*w]
		for x := 0; x < w; x++ {
			best, bestX := prev[x], x
			if x > 0 && prev[x-1] < best {
				best, bestX = prev[x-1], x-1
			}
			if x < w-1 && prev[x+1] < best {
				best, bestX = prev[x+1], x+1
			}
			cost[y*w+x] = best + field.Values[y*w+x]
			from[y*w+x] = bestX
		}
	}

	last := cost[(h-1)*w:]
	end, total := 0, math.MaxInt
	for x, c := range last {
		if c < total {
			end, total = x, c
		}
	}

	seam := make(Seam, h)
	seam[h-1] = end
	for y := h - 2; y >= 0; y-- {
		seam[y] = from[(y+1)*w+seam[y+1]]
	}
	return seam, total, nil
}

// Validate checks that s has one entry per row of a width x height image,
// every entry is a valid column and consecutive entries are at most one apart.
func (s Seam) Validate(width, height int) error {
	if len(s) != height {
		return fmt.Errorf("%w: length %d for height %d", ErrInvalidSeam, len(s), height)
	}
	for y, x := range s {
		if x < 0 || x >= width {
			return fmt.Errorf("%w: column %d out of range at row %d", ErrInvalidSeam, x, y)
		}
		if y > 0 && abs(x-s[y-1]) > 1 {
			return fmt.Errorf("%w: jump from %d to %d at row %d", ErrInvalidSeam, s[y-1], x, y)
		}
	}
	return nil
}
