package resize

import (
	"context"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/dixieflatline76/Carve/pkg/carve"
	"github.com/dixieflatline76/Carve/util/log"
	"github.com/muesli/smartcrop"
)

// Strategy selects how an image is brought to a target size.
type Strategy int

const (
	// StrategyAuto carves unless faces are found or the aspect change is too drastic, then crops.
	StrategyAuto Strategy = iota
	// StrategyCarve scales to cover the target and carves away the excess.
	StrategyCarve
	// StrategyCrop finds the most interesting crop with smartcrop and scales it.
	StrategyCrop
	// StrategyScale scales uniformly, ignoring the aspect ratio.
	StrategyScale
)

var strategyNames = map[Strategy]string{
	StrategyAuto:  "auto",
	StrategyCarve: "carve",
	StrategyCrop:  "crop",
	StrategyScale: "scale",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy resolves a strategy by name.
func ParseStrategy(name string) (Strategy, error) {
	for s, n := range strategyNames {
		if strings.EqualFold(name, n) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown fit strategy %q", name)
}

// FitTuning holds the thresholds of the fitter.
type FitTuning struct {
	// AspectThreshold is the largest aspect ratio difference StrategyAuto will carve.
	AspectThreshold float64 `json:"aspect_threshold"`
}

// DefaultFitTuning returns the fitter defaults.
func DefaultFitTuning() FitTuning {
	return FitTuning{AspectThreshold: 0.9}
}

// FitResult describes a fitted image and how it was produced.
type FitResult struct {
	Image    *image.NRGBA
	Strategy Strategy // The strategy actually applied
	Faces    int      // Faces seen by the detector, if one ran
	Removed  int      // Seams removed when carving
}

// Fitter fits images to an exact size.
type Fitter struct {
	resizer   *Resizer
	detector  FaceDetector
	operator  carve.Operator
	tuning    FitTuning
	resampler imaging.ResampleFilter
}

// NewFitter creates a Fitter carving with op. detector may be nil to disable the face guard.
func NewFitter(op carve.Operator, detector FaceDetector, tuning FitTuning) *Fitter {
	return &Fitter{
		resizer:   NewResizer(),
		detector:  detector,
		operator:  op,
		tuning:    tuning,
		resampler: imaging.Lanczos,
	}
}

// CheckCompatibility reports whether an imgW x imgH image can be fitted to w x h without enlargement.
func (f *Fitter) CheckCompatibility(imgW, imgH, w, h int) error {
	if w < 1 || h < 1 || imgW < 1 || imgH < 1 {
		return fmt.Errorf("%w: %dx%d to %dx%d", carve.ErrInvalidDimensions, imgW, imgH, w, h)
	}
	if imgW < w || imgH < h {
		return fmt.Errorf("%w: %dx%d to %dx%d", ErrEnlargement, imgW, imgH, w, h)
	}
	return nil
}

// FitImage brings img to exactly w x h using the given strategy.
func (f *Fitter) FitImage(ctx context.Context, img image.Image, w, h int, strategy Strategy, progress ProgressFunc) (FitResult, error) {
	if img == nil {
		return FitResult{}, fmt.Errorf("%w: nil image", carve.ErrInvalidDimensions)
	}
	b := img.Bounds()
	if err := f.CheckCompatibility(b.Dx(), b.Dy(), w, h); err != nil {
		return FitResult{}, err
	}
	if err := checkContext(ctx); err != nil {
		return FitResult{}, err
	}

	res := FitResult{Strategy: strategy}
	if strategy == StrategyAuto {
		res.Strategy, res.Faces = f.chooseStrategy(img, w, h)
	}

	switch res.Strategy {
	case StrategyScale:
		res.Image = imaging.Resize(img, w, h, f.resampler)
	case StrategyCrop:
		cropped, err := f.cropImage(ctx, img, w, h)
		if err != nil {
			return FitResult{}, fmt.Errorf("cropping image: %w", err)
		}
		res.Image = cropped
	case StrategyCarve:
		out, err := f.carveImage(ctx, img, w, h, progress)
		res.Image, res.Removed = out.Image, out.Removed
		if err != nil {
			return res, fmt.Errorf("carving image: %w", err)
		}
	default:
		return FitResult{}, fmt.Errorf("unknown fit strategy %v", res.Strategy)
	}
	return res, nil
}

// chooseStrategy picks crop over carve when carving would distort faces or
// remove too much of one dimension.
func (f *Fitter) chooseStrategy(img image.Image, w, h int) (Strategy, int) {
	b := img.Bounds()
	if f.detector != nil {
		if faces := f.detector.DetectFaces(img); len(faces) > 0 {
			log.Debugf("Fit: %d face(s) found, cropping instead of carving", len(faces))
			return StrategyCrop, len(faces)
		}
	}

	imageAspect := float64(b.Dx()) / float64(b.Dy())
	targetAspect := float64(w) / float64(h)
	if diff := math.Abs(imageAspect - targetAspect); diff > f.tuning.AspectThreshold {
		log.Debugf("Fit: aspect difference %.3f exceeds %.3f, cropping", diff, f.tuning.AspectThreshold)
		return StrategyCrop, 0
	}
	return StrategyCarve, 0
}

// carveImage scales img down until it just covers w x h, then carves the excess.
func (f *Fitter) carveImage(ctx context.Context, img image.Image, w, h int, progress ProgressFunc) (Outcome, error) {
	b := img.Bounds()
	scale := math.Max(float64(w)/float64(b.Dx()), float64(h)/float64(b.Dy()))
	coverW := max(w, int(math.Round(float64(b.Dx())*scale)))
	coverH := max(h, int(math.Round(float64(b.Dy())*scale)))

	if coverW != b.Dx() || coverH != b.Dy() {
		img = imaging.Resize(img, coverW, coverH, f.resampler)
	}
	return f.resizer.CarveTo(ctx, img, w, h, f.operator, progress)
}

// cropImage crops the best w:h region found by smartcrop and scales it to w x h.
func (f *Fitter) cropImage(ctx context.Context, img image.Image, w, h int) (*image.NRGBA, error) {
	analyzer := smartcrop.NewAnalyzer(&smartcropResizer{resampler: f.resampler})

	type cropResult struct {
		crop image.Rectangle
		err  error
	}
	resultChan := make(chan cropResult, 1)

	go func() {
		crop, err := analyzer.FindBestCrop(img, w, h)
		resultChan <- cropResult{crop: crop, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-resultChan:
		if result.err != nil {
			return nil, fmt.Errorf("finding best crop: %w", result.err)
		}
		return imaging.Resize(imaging.Crop(img, result.crop), w, h, f.resampler), nil
	}
}

// smartcropResizer implements the smartcrop Resizer interface with imaging.
type smartcropResizer struct {
	resampler imaging.ResampleFilter
}

func (r *smartcropResizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.resampler)
}
