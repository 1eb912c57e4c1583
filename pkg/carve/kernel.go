package carve

import (
	"fmt"
	"strings"
)

// Kernel is a 3x3 convolution matrix indexed as kernel[dx+1][dy+1].
type Kernel [3][3]int

// KernelPair holds the two gradient kernels of a convolution operator.
type KernelPair struct {
	X Kernel
	Y Kernel
}

// Built-in gradient kernels.
var (
	SobelX   = Kernel{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	SobelY   = Kernel{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}
	PrewittX = Kernel{{-1, 0, 1}, {-1, 0, 1}, {-1, 0, 1}}
	PrewittY = Kernel{{-1, -1, -1}, {0, 0, 0}, {1, 1, 1}}
	ScharrX  = Kernel{{-3, 0, 3}, {-10, 0, 10}, {-3, 0, 3}}
	ScharrY  = Kernel{{-3, -10, -3}, {0, 0, 0}, {3, 10, 3}}
	RobertsX = Kernel{{0, 0, 0}, {0, 1, 0}, {0, 0, -1}}
	RobertsY = Kernel{{0, 0, 0}, {0, 0, 1}, {0, -1, 0}}
)

// Operator selects how the energy of a pixel is measured.
type Operator int

const (
	Sobel Operator = iota
	Prewitt
	Scharr
	Roberts
	Forward
)

var operatorNames = [...]string{
	Sobel:   "Sobel",
	Prewitt: "Prewitt",
	Scharr:  "Scharr",
	Roberts: "Roberts",
	Forward: "Forward",
}

// Operators returns every supported operator in display order.
func Operators() []Operator {
	return []Operator{Sobel, Prewitt, Scharr, Roberts, Forward}
}

func (o Operator) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Operator(%d)", int(o))
	}
	return operatorNames[o]
}

// Valid reports whether o is one of the known operators.
func (o Operator) Valid() bool {
	return o >= Sobel && o <= Forward
}

// Kernels returns the gradient kernel pair of a convolution operator.
// The second result is false for Forward, which has no kernels.
func (o Operator) Kernels() (KernelPair, bool) {
	switch o {
	case Sobel:
		return KernelPair{X: SobelX, Y: SobelY}, true
	case Prewitt:
		return KernelPair{X: PrewittX, Y: PrewittY}, true
	case Scharr:
		return KernelPair{X: ScharrX, Y: ScharrY}, true
	case Roberts:
		return KernelPair{X: RobertsX, Y: RobertsY}, true
	default:
		return KernelPair{}, false
	}
}

// ParseOperator resolves an operator by name, ignoring case.
func ParseOperator(name string) (Operator, error) {
	for _, op := range Operators() {
		if strings.EqualFold(name, op.String()) {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedOperator, name)
}

// MarshalText implements encoding.TextMarshaler.
func (o Operator) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedOperator, int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Operator) UnmarshalText(text []byte) error {
	op, err := ParseOperator(string(text))
	if err != nil {
		return err
	}
	*o = op
	return nil
}

// Direction is the axis a seam runs along. A vertical seam removes one column.
type Direction int

const (
	Vertical Direction = iota
	Horizontal
)

func (d Direction) String() string {
	switch d {
	case Vertical:
		return "Vertical"
	case Horizontal:
		return "Horizontal"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection resolves a direction by name, ignoring case.
func ParseDirection(name string) (Direction, error) {
	switch strings.ToLower(name) {
	case "vertical", "v":
		return Vertical, nil
	case "horizontal", "h":
		return Horizontal, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedDirection, name)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if d != Vertical && d != Horizontal {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedDirection, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	dir, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = dir
	return nil
}
