package resize

import (
	"errors"
	"fmt"
	"math"

	"github.com/dixieflatline76/Carve/pkg/carve"
)

// Unit says how a Request's Amount is measured.
type Unit int

const (
	// Pixels removes Amount seams.
	Pixels Unit = iota
	// Percent removes Amount percent of the current width or height.
	Percent
)

func (u Unit) String() string {
	switch u {
	case Pixels:
		return "px"
	case Percent:
		return "%"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// ParseUnit accepts "px", "pixels", "%", "percent" and the empty string (pixels).
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "", "px", "pixels":
		return Pixels, nil
	case "%", "pct", "percent":
		return Percent, nil
	}
	return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidAmount, s)
}

var (
	// ErrInvalidAmount is returned for negative, fractional pixel or out of range percent amounts.
	ErrInvalidAmount = errors.New("invalid reduction amount")
	// ErrEnlargement is returned when a target size is larger than the source; seams are never inserted.
	ErrEnlargement = errors.New("target is larger than source")
)

// Request describes one reduction: how many seams to remove in which direction.
type Request struct {
	Operator  carve.Operator
	Direction carve.Direction
	Amount    float64
	Unit      Unit
	// Energy asks for the energy visualization of the final image.
	Energy bool
}

// Validate checks the request without looking at an image.
func (r Request) Validate() error {
	if !r.Operator.Valid() {
		return fmt.Errorf("%w: %v", carve.ErrUnsupportedOperator, r.Operator)
	}
	if r.Direction != carve.Vertical && r.Direction != carve.Horizontal {
		return fmt.Errorf("%w: %v", carve.ErrUnsupportedDirection, r.Direction)
	}
	if r.Amount < 0 || math.IsNaN(r.Amount) {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, r.Amount)
	}
	switch r.Unit {
	case Pixels:
		if r.Amount != math.Trunc(r.Amount) {
			return fmt.Errorf("%w: %v is not a whole number of pixels", ErrInvalidAmount, r.Amount)
		}
	case Percent:
		if r.Amount > 100 {
			return fmt.Errorf("%w: %v%% exceeds 100%%", ErrInvalidAmount, r.Amount)
		}
	default:
		return fmt.Errorf("%w: %v", ErrInvalidAmount, r.Unit)
	}
	return nil
}

// SeamCount resolves amount to a number of seams for a dimension of the given size.
// Percentages round to the nearest pixel. The result never exceeds dimension-1,
// since at least one row or column must survive.
func SeamCount(unit Unit, amount float64, dimension int) (int, error) {
	if dimension < 1 {
		return 0, fmt.Errorf("%w: dimension %d", carve.ErrInvalidDimensions, dimension)
	}
	if amount < 0 || math.IsNaN(amount) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	var n float64
	switch unit {
	case Pixels:
		n = math.Trunc(amount)
	case Percent:
		n = math.Round(amount / 100 * float64(dimension))
	default:
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, unit)
	}

	// Clamped before the int conversion.
	if n > float64(dimension-1) {
		return dimension - 1, nil
	}
	return int(n), nil
}
