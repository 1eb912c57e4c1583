package main

import (
	"context"
	"flag"
	"fmt"
	"html"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dixieflatline76/Carve/config"
	"github.com/dixieflatline76/Carve/pkg/carve"
	"github.com/dixieflatline76/Carve/pkg/resize"
	"github.com/dixieflatline76/Carve/util/log"
)

type testImage struct {
	Name string
	Path string
}

type variant struct {
	Name  string
	Run   func(ctx context.Context, img image.Image) (image.Image, error)
	Notes string
}

func main() {
	sourceDir := flag.String("src", filepath.Join("test_assets", "carve_images"), "directory of source images")
	outputDir := flag.String("out", "report_output", "report output directory")
	percent := flag.Float64("percent", 20, "width reduction in percent")
	faceModel := flag.String("face-model", "", "pigo cascade for the crop comparison (optional)")
	flag.Parse()

	log.Println("Starting Carve Report Generator...")

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output dir: %v", err)
	}

	var detector resize.FaceDetector
	if *faceModel != "" {
		d, err := resize.LoadPigoDetector(*faceModel, resize.DefaultFaceTuning())
		if err != nil {
			log.Printf("Warning: %v. Face guard will be disabled.", err)
		} else {
			detector = d
			log.Println("Face Detection Model Loaded.")
		}
	}

	testImages, err := scan(*sourceDir)
	if err != nil {
		log.Fatalf("Failed to read source directory %s: %v", *sourceDir, err)
	}
	if len(testImages) == 0 {
		log.Fatalf("No images found in %s", *sourceDir)
	}

	resizer := resize.NewResizer()
	fitter := resize.NewFitter(carve.Sobel, detector, resize.FitTuning{AspectThreshold: config.GetConfig().Fit.AspectThreshold})
	ctx := context.Background()

	// HTML Report Buffer
	var b strings.Builder
	b.WriteString(`<html><head><style>
		body { font-family: sans-serif; background: #222; color: #eee; padding: 20px; }
		.test-case { margin-bottom: 50px; border-bottom: 1px solid #444; padding-bottom: 20px; }
		h2 { color: #f0a500; }
		.grid { display: grid; grid-template-columns: repeat(4, 1fr); gap: 10px; }
		.cell { text-align: center; }
		img { max-width: 100%; height: auto; border: 2px solid #555; }
		.label { margin-top: 5px; font-size: 0.9em; color: #aaa; }
		.meta { font-size: 0.8em; color: #777; }
	</style></head><body>`)
	fmt.Fprintf(&b, `<h1>Carve Report (%.0f%% narrower)</h1>`, *percent)

	for _, ti := range testImages {
		log.Printf("Processing %s...", ti.Name)
		fmt.Fprintf(&b, `<div class="test-case"><h2>%s</h2><div class="grid">`, html.EscapeString(ti.Name))

		srcImg, err := resize.Open(ti.Path)
		if err != nil {
			log.Printf("Failed to open %s: %v", ti.Path, err)
			continue
		}
		sb := srcImg.Bounds()
		targetW := sb.Dx() - mustSeams(*percent, sb.Dx())

		origName := ti.Name + "_original.png"
		if err := resize.Save(srcImg, filepath.Join(*outputDir, origName), 0); err != nil {
			log.Printf("Failed to save %s: %v", origName, err)
		}
		writeCell(&b, origName, "Original", fmt.Sprintf("%dx%d", sb.Dx(), sb.Dy()))

		for _, v := range variants(resizer, fitter, *percent, targetW, sb.Dy()) {
			start := time.Now()
			resImg, err := v.Run(ctx, srcImg)
			elapsed := time.Since(start).Round(time.Millisecond)

			if err != nil {
				log.Printf("Error processing %s [%s]: %v", ti.Name, v.Name, err)
				fmt.Fprintf(&b, `<div class="cell" style="color:#ff6b6b">%s: %s</div>`, v.Name, html.EscapeString(err.Error()))
				continue
			}

			filename := fmt.Sprintf("%s_%s.png", ti.Name, sanitize(v.Name))
			if err := resize.Save(resImg, filepath.Join(*outputDir, filename), 0); err != nil {
				log.Printf("Error saving %s: %v", filename, err)
			}
			rb := resImg.Bounds()
			writeCell(&b, filename, v.Name, fmt.Sprintf("%dx%d<br>%v<br>%s", rb.Dx(), rb.Dy(), elapsed, v.Notes))
		}

		b.WriteString(`</div></div>`)
	}

	b.WriteString(`</body></html>`)

	reportPath := filepath.Join(*outputDir, "report.html")
	if err := os.WriteFile(reportPath, []byte(b.String()), 0644); err != nil {
		log.Fatalf("Failed to save report: %v", err)
	}
	log.Printf("Report generated successfully at %s", reportPath)
}

// variants lists the reductions compared for every image.
func variants(resizer *resize.Resizer, fitter *resize.Fitter, percent float64, w, h int) []variant {
	var out []variant
	out = append(out, variant{
		Name: "Energy (Sobel)",
		Run: func(_ context.Context, img image.Image) (image.Image, error) {
			return carve.EnergyImage(img, carve.Sobel)
		},
	})
	for _, op := range carve.Operators() {
		out = append(out, variant{
			Name: "Carve " + op.String(),
			Run: func(ctx context.Context, img image.Image) (image.Image, error) {
				res, err := resizer.Carve(ctx, img, resize.Request{
					Operator:  op,
					Direction: carve.Vertical,
					Amount:    percent,
					Unit:      resize.Percent,
				}, nil)
				return res.Image, err
			},
		})
	}
	for _, s := range []resize.Strategy{resize.StrategyCrop, resize.StrategyScale, resize.StrategyAuto} {
		out = append(out, variant{
			Name:  "Fit " + s.String(),
			Notes: "exact target",
			Run: func(ctx context.Context, img image.Image) (image.Image, error) {
				res, err := fitter.FitImage(ctx, img, w, h, s, nil)
				if err != nil {
					return nil, err
				}
				return res.Image, nil
			},
		})
	}
	return out
}

func scan(dir string) ([]testImage, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var images []testImage
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if _, err := resize.FormatFromPath(f.Name()); err != nil {
			continue
		}
		images = append(images, testImage{
			Name: strings.TrimSuffix(f.Name(), filepath.Ext(f.Name())),
			Path: filepath.Join(dir, f.Name()),
		})
	}
	return images, nil
}

func mustSeams(percent float64, dim int) int {
	n, err := resize.SeamCount(resize.Percent, percent, dim)
	if err != nil {
		log.Fatalf("Invalid reduction: %v", err)
	}
	return n
}

func writeCell(b *strings.Builder, src, label, meta string) {
	fmt.Fprintf(b, `
			<div class="cell">
				<img src="%s" />
				<div class="label">%s</div>
				<div class="meta">%s</div>
			</div>`, src, html.EscapeString(label), meta)
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	return s
}
