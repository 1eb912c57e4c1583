package resize

import (
	"errors"
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
)

// ErrInvalidModel is returned for a face model that cannot be unpacked.
var ErrInvalidModel = errors.New("invalid face model")

// FaceDetector finds faces in an image.
type FaceDetector interface {
	DetectFaces(img image.Image) []image.Rectangle
}

// FaceTuning holds the cascade parameters of the pigo detector.
type FaceTuning struct {
	Confidence   float64 `json:"confidence"`    // Minimum detection score
	IoUThreshold float64 `json:"iou_threshold"` // Cluster overlap threshold
	ScaleFactor  float64 `json:"scale_factor"`
	ShiftFactor  float64 `json:"shift_factor"`
	MinSizePct   int     `json:"min_size_pct"` // Smallest face as a percentage of the short side
}

// DefaultFaceTuning returns the detector defaults.
func DefaultFaceTuning() FaceTuning {
	return FaceTuning{
		Confidence:   10.0,
		IoUThreshold: 0.2,
		ScaleFactor:  1.1,
		ShiftFactor:  0.1,
		MinSizePct:   5,
	}
}

// PigoDetector is a FaceDetector backed by a pigo cascade classifier.
type PigoDetector struct {
	classifier *pigo.Pigo
	tuning     FaceTuning
}

// NewPigoDetector unpacks a pigo cascade model.
func NewPigoDetector(model []byte, tuning FaceTuning) (*PigoDetector, error) {
	// The cascade header alone is 12 bytes; Unpack indexes into it unchecked.
	if len(model) < 16 {
		return nil, fmt.Errorf("%w: face model is %d bytes", ErrInvalidModel, len(model))
	}
	p := pigo.NewPigo()
	classifier, err := p.Unpack(model)
	if err != nil {
		return nil, fmt.Errorf("unpacking face model: %w", err)
	}
	return &PigoDetector{classifier: classifier, tuning: tuning}, nil
}

// LoadPigoDetector reads a cascade model from disk.
func LoadPigoDetector(path string, tuning FaceTuning) (*PigoDetector, error) {
	model, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading face model: %w", err)
	}
	return NewPigoDetector(model, tuning)
}

// DetectFaces returns the bounding boxes of faces scoring above the configured confidence.
func (d *PigoDetector) DetectFaces(img image.Image) []image.Rectangle {
	b := img.Bounds()
	cols, rows := b.Dx(), b.Dy()
	short := min(cols, rows)

	minSize := short * d.tuning.MinSizePct / 100
	if minSize < 20 {
		minSize = 20
	}

	params := pigo.CascadeParams{
		MinSize:     minSize,
		MaxSize:     short,
		ShiftFactor: d.tuning.ShiftFactor,
		ScaleFactor: d.tuning.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(cloneNRGBA(img)),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, d.tuning.IoUThreshold)

	var faces []image.Rectangle
	for _, det := range dets {
		if float64(det.Q) < d.tuning.Confidence {
			continue
		}
		half := det.Scale / 2
		faces = append(faces, image.Rect(det.Col-half, det.Row-half, det.Col+half, det.Row+half).Intersect(image.Rect(0, 0, cols, rows)))
	}
	return faces
}
