package resize

import (
	"context"
	"fmt"
	"image"

	"github.com/dixieflatline76/Carve/pkg/carve"
	"github.com/dixieflatline76/Carve/util/log"
)

// ProgressFunc is called after every removed seam with the running and total seam counts.
type ProgressFunc func(done, total int)

// Outcome is the result of a multi-seam reduction.
type Outcome struct {
	Image *image.NRGBA
	// Energy is the energy visualization of Image, set when requested.
	Energy *image.Gray
	// Removed counts the seams actually removed; it is short of the target when the run was interrupted.
	Removed int
}

// Resizer drives the carve engine one seam at a time.
type Resizer struct{}

// NewResizer creates a new Resizer.
func NewResizer() *Resizer {
	return &Resizer{}
}

// Carve removes the seams described by req from img.
// The context is checked between seams; on cancellation or failure the partially
// reduced image is returned together with the error.
func (r *Resizer) Carve(ctx context.Context, img image.Image, req Request, progress ProgressFunc) (Outcome, error) {
	if err := req.Validate(); err != nil {
		return Outcome{}, err
	}
	if img == nil {
		return Outcome{}, fmt.Errorf("%w: nil image", carve.ErrInvalidDimensions)
	}

	b := img.Bounds()
	dim := b.Dx()
	if req.Direction == carve.Horizontal {
		dim = b.Dy()
	}
	total, err := SeamCount(req.Unit, req.Amount, dim)
	if err != nil {
		return Outcome{}, err
	}

	log.Debugf("Carving %d %s seams from %dx%d with %v", total, req.Direction, b.Dx(), b.Dy(), req.Operator)
	out, err := r.run(ctx, toNRGBA(img), []step{{req.Direction, total}}, req.Operator, progress)
	if err != nil {
		return out, err
	}

	if req.Energy {
		out.Energy, err = carve.EnergyImage(out.Image, req.Operator)
		if err != nil {
			return out, fmt.Errorf("computing energy: %w", err)
		}
	}
	return out, nil
}

// CarveTo reduces img to exactly width x height, removing vertical seams first.
func (r *Resizer) CarveTo(ctx context.Context, img image.Image, width, height int, op carve.Operator, progress ProgressFunc) (Outcome, error) {
	if img == nil {
		return Outcome{}, fmt.Errorf("%w: nil image", carve.ErrInvalidDimensions)
	}
	if !op.Valid() {
		return Outcome{}, fmt.Errorf("%w: %v", carve.ErrUnsupportedOperator, op)
	}
	b := img.Bounds()
	if width < 1 || height < 1 {
		return Outcome{}, fmt.Errorf("%w: target %dx%d", carve.ErrInvalidDimensions, width, height)
	}
	if width > b.Dx() || height > b.Dy() {
		return Outcome{}, fmt.Errorf("%w: %dx%d to %dx%d", ErrEnlargement, b.Dx(), b.Dy(), width, height)
	}

	steps := []step{
		{carve.Vertical, b.Dx() - width},
		{carve.Horizontal, b.Dy() - height},
	}
	log.Debugf("Carving %dx%d to %dx%d with %v", b.Dx(), b.Dy(), width, height, op)
	return r.run(ctx, toNRGBA(img), steps, op, progress)
}

type step struct {
	dir   carve.Direction
	seams int
}

func (r *Resizer) run(ctx context.Context, img *image.NRGBA, steps []step, op carve.Operator, progress ProgressFunc) (Outcome, error) {
	total := 0
	for _, s := range steps {
		total += s.seams
	}

	out := Outcome{Image: img}
	for _, s := range steps {
		for i := 0; i < s.seams; i++ {
			if err := checkContext(ctx); err != nil {
				log.Printf("Carve interrupted after %d of %d seams: %v", out.Removed, total, err)
				return out, err
			}

			res, err := carve.Carve(out.Image, op, s.dir)
			if err != nil {
				return out, fmt.Errorf("removing seam %d of %d: %w", out.Removed+1, total, err)
			}
			out.Image = res.Image
			out.Removed++

			if progress != nil {
				progress(out.Removed, total)
			}
		}
	}
	return out, nil
}

// toNRGBA returns an NRGBA copy of img anchored at the origin.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return cloneNRGBA(img)
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
