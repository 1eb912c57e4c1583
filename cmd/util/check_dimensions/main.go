package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/dixieflatline76/Carve/config"
	"github.com/dixieflatline76/Carve/pkg/resize"
	_ "golang.org/x/image/webp"
)

func main() {
	percent := flag.Float64("percent", 10, "reduction to resolve into seam counts")
	targetW := flag.Int("width", 1920, "fit target width")
	targetH := flag.Int("height", 1080, "fit target height")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: check_dimensions [-percent p] [-width w -height h] <image>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		fmt.Printf("Error opening file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		fmt.Printf("Error decoding config: %v\n", err)
		os.Exit(1)
	}

	imgW, imgH := cfg.Width, cfg.Height
	imageAspect := float64(imgW) / float64(imgH)
	targetAspect := float64(*targetW) / float64(*targetH)
	aspectDiff := math.Abs(targetAspect - imageAspect)
	threshold := config.GetConfig().Fit.AspectThreshold

	vertical, err := resize.SeamCount(resize.Percent, *percent, imgW)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	horizontal, _ := resize.SeamCount(resize.Percent, *percent, imgH)

	fmt.Printf("File: %s (%s)\n", path, format)
	fmt.Printf("Dimensions: %dx%d\n", imgW, imgH)
	fmt.Printf("%.1f%% reduction: %d vertical seams -> %dx%d, %d horizontal seams -> %dx%d\n",
		*percent, vertical, imgW-vertical, imgH, horizontal, imgW, imgH-horizontal)
	fmt.Printf("Image Aspect: %.6f\n", imageAspect)
	fmt.Printf("Target Aspect: %.6f (%dx%d)\n", targetAspect, *targetW, *targetH)
	fmt.Printf("Diff: %.6f\n", aspectDiff)
	fmt.Printf("Threshold: %.6f\n", threshold)

	switch {
	case imgW < *targetW || imgH < *targetH:
		fmt.Println("Result: TOO SMALL -> cannot fit without enlarging")
	case aspectDiff > threshold:
		fmt.Println("Result: DRASTIC -> auto fit crops")
	default:
		fmt.Println("Result: SAFE -> auto fit carves (unless faces are found)")
	}
}
