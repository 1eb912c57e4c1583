package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dixieflatline76/Carve/config"
	"github.com/dixieflatline76/Carve/pkg/api"
	"github.com/dixieflatline76/Carve/pkg/carve"
	"github.com/dixieflatline76/Carve/pkg/resize"
	"github.com/dixieflatline76/Carve/pkg/sysinfo"
	"github.com/dixieflatline76/Carve/util"
	"github.com/dixieflatline76/Carve/util/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// options are the parsed command line settings shared by every input file.
type options struct {
	request    resize.Request
	width      int
	height     int
	strategy   resize.Strategy
	outDir     string
	energy     bool
	quality    int
	workers    int
	resultsDir string
}

func main() {
	var (
		opName      = flag.String("op", "", "energy operator: sobel, prewitt, scharr, roberts or forward")
		dirName     = flag.String("dir", "", "seam direction: vertical (narrower) or horizontal (shorter)")
		seams       = flag.Int("n", 0, "number of seams to remove")
		percent     = flag.Float64("percent", 0, "percentage of the width or height to remove")
		width       = flag.Int("width", 0, "carve or fit to this width")
		height      = flag.Int("height", 0, "carve or fit to this height")
		screen      = flag.Bool("screen", false, "fit to the primary display resolution")
		strategy    = flag.String("strategy", "", "fit strategy with -width/-height: auto, carve, crop or scale")
		energy      = flag.Bool("energy", false, "also write the energy visualization of each result")
		outDir      = flag.String("out", "", "output directory (default: next to the input)")
		workers     = flag.Int("workers", 0, "images processed concurrently")
		serve       = flag.Bool("serve", false, "run the local HTTP service")
		resultsDir  = flag.String("results", "", "with -serve, also store results here")
		cfgPath     = flag.String("config", "", "config file (default: "+config.GetFilename()+")")
		checkUpdate = flag.Bool("check-update", false, "check GitHub for a newer release")
		version     = flag.Bool("version", false, "print the version and exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] image...\n       %s -serve\n\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Printf("%s %s\n", config.AppName, config.AppVersion)
		return
	}

	cfg := config.GetConfig()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *checkUpdate {
		if err := reportUpdate(ctx); err != nil {
			log.Fatalf("Update check failed: %v", err)
		}
		return
	}

	if *screen {
		w, h, err := sysinfo.GetScreenDimensions()
		if err != nil {
			log.Fatalf("Failed to read screen size: %v", err)
		}
		log.Printf("Fitting to screen %dx%d", w, h)
		*width, *height = w, h
	}

	opts, err := buildOptions(cfg, *opName, *dirName, *seams, *percent, *width, *height, *strategy)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}
	opts.outDir, opts.energy, opts.resultsDir = *outDir, *energy, *resultsDir
	if *workers > 0 {
		opts.workers = *workers
	}

	if *serve {
		if err := runServer(ctx, cfg, opts); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if err := runBatch(ctx, cfg, opts, flag.Args()); err != nil {
		log.Fatalf("%v", err)
	}
}

// buildOptions merges flags over the config defaults and validates the result.
func buildOptions(cfg *config.Config, opName, dirName string, seams int, percent float64, width, height int, strategy string) (options, error) {
	opts := options{
		request: resize.Request{Operator: cfg.Operator, Direction: cfg.Direction},
		width:   width,
		height:  height,
		quality: cfg.EncodingQuality,
		workers: cfg.Workers,
	}

	if opName != "" {
		op, err := carve.ParseOperator(opName)
		if err != nil {
			return opts, err
		}
		opts.request.Operator = op
	}
	if dirName != "" {
		dir, err := carve.ParseDirection(dirName)
		if err != nil {
			return opts, err
		}
		opts.request.Direction = dir
	}

	name := cfg.Fit.Strategy
	if strategy != "" {
		name = strategy
	}
	s, err := resize.ParseStrategy(name)
	if err != nil {
		return opts, err
	}
	opts.strategy = s

	switch {
	case seams > 0 && percent > 0:
		return opts, errors.New("-n and -percent are mutually exclusive")
	case percent > 0:
		opts.request.Amount, opts.request.Unit = percent, resize.Percent
	default:
		opts.request.Amount, opts.request.Unit = float64(seams), resize.Pixels
	}
	if width < 0 || height < 0 {
		return opts, fmt.Errorf("%w: negative target size", carve.ErrInvalidDimensions)
	}
	return opts, opts.request.Validate()
}

// runBatch processes every input concurrently, bounded by opts.workers.
func runBatch(ctx context.Context, cfg *config.Config, opts options, inputs []string) error {
	fitter := resize.NewFitter(opts.request.Operator, loadDetector(cfg), resize.FitTuning{AspectThreshold: cfg.Fit.AspectThreshold})
	resizer := resize.NewResizer()
	fetcher := resize.NewFetcher(config.AppName+"/"+config.AppVersion, nil, cfg.Server.MaxUploadMB<<20)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.workers))

	for _, in := range inputs {
		g.Go(func() error {
			start := time.Now()
			out, err := processFile(ctx, resizer, fitter, fetcher, opts, in)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			log.Printf("%s -> %s (%v)", in, out, time.Since(start).Round(time.Millisecond))
			return nil
		})
	}
	return g.Wait()
}

func processFile(ctx context.Context, resizer *resize.Resizer, fitter *resize.Fitter, fetcher *resize.Fetcher, opts options, in string) (string, error) {
	img, name, err := openInput(ctx, fetcher, in)
	if err != nil {
		return "", err
	}

	progress := func(done, total int) {
		log.Debugf("%s: seam %d/%d", in, done, total)
	}

	var result resize.Outcome
	if opts.width > 0 || opts.height > 0 {
		b := img.Bounds()
		w, h := opts.width, opts.height
		if w == 0 {
			w = b.Dx()
		}
		if h == 0 {
			h = b.Dy()
		}
		fit, err := fitter.FitImage(ctx, img, w, h, opts.strategy, progress)
		if err != nil {
			return "", err
		}
		log.Debugf("%s: fitted with %v (%d faces, %d seams)", in, fit.Strategy, fit.Faces, fit.Removed)
		result = resize.Outcome{Image: fit.Image, Removed: fit.Removed}
	} else {
		if result, err = resizer.Carve(ctx, img, opts.request, progress); err != nil {
			return "", err
		}
	}

	out, err := outputPath(name, opts.outDir, "_carved")
	if err != nil {
		return "", err
	}
	if err := resize.Save(result.Image, out, opts.quality); err != nil {
		return "", err
	}

	if opts.energy {
		visual, err := carve.EnergyImage(result.Image, opts.request.Operator)
		if err != nil {
			return "", err
		}
		energyOut, err := outputPath(name, opts.outDir, "_energy")
		if err != nil {
			return "", err
		}
		energyOut = strings.TrimSuffix(energyOut, filepath.Ext(energyOut)) + ".png"
		if err := resize.Save(visual, energyOut, 0); err != nil {
			return "", err
		}
	}
	return out, nil
}

// openInput loads a local file, or downloads in when it is a URL. The
// returned name is what output paths are derived from; downloads are
// named after the URL and land in the working directory unless -out is set.
func openInput(ctx context.Context, fetcher *resize.Fetcher, in string) (image.Image, string, error) {
	if !resize.IsRemote(in) {
		img, err := resize.Open(in)
		return img, in, err
	}
	img, name, err := fetcher.Fetch(ctx, in)
	if err != nil {
		return nil, "", err
	}
	return img, name, nil
}

// outputPath derives <name><suffix>.<ext> for in, inside outDir when set.
// Inputs in a format that cannot be written (WebP) are saved as PNG.
func outputPath(in, outDir, suffix string) (string, error) {
	ext := filepath.Ext(in)
	if !resize.IsWritable(in) {
		ext = ".png"
	}
	name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + suffix + ext

	dir := filepath.Dir(in)
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
		dir = outDir
	}
	return filepath.Join(dir, name), nil
}

func loadDetector(cfg *config.Config) resize.FaceDetector {
	if cfg.Fit.FaceModel == "" {
		return nil
	}
	tuning := resize.FaceTuning{
		Confidence:   cfg.Fit.Face.Confidence,
		IoUThreshold: cfg.Fit.Face.IoUThreshold,
		ScaleFactor:  cfg.Fit.Face.ScaleFactor,
		ShiftFactor:  cfg.Fit.Face.ShiftFactor,
		MinSizePct:   cfg.Fit.Face.MinSizePct,
	}
	d, err := resize.LoadPigoDetector(cfg.Fit.FaceModel, tuning)
	if err != nil {
		log.Printf("Warning: %v. Face guard disabled.", err)
		return nil
	}
	return d
}

func runServer(ctx context.Context, cfg *config.Config, opts options) error {
	lockName := strings.NewReplacer(":", "_", ".", "_", "[", "", "]", "").Replace(cfg.Server.Addr)
	ok, err := acquireLock(lockName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("another %s server is already running on %s", config.AppName, cfg.Server.Addr)
	}
	defer releaseLock()

	s := api.NewServer(api.Options{
		Addr:           cfg.Server.Addr,
		Version:        config.AppVersion,
		Operator:       opts.request.Operator,
		Quality:        opts.quality,
		MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
		RateLimit:      rate.Limit(cfg.Server.RateLimit),
		Burst:          cfg.Server.Burst,
		ResultsDir:     opts.resultsDir,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	}
}

func reportUpdate(ctx context.Context) error {
	res, err := util.CheckForUpdates(ctx, nil)
	if err != nil {
		return err
	}
	if !res.UpdateAvailable {
		fmt.Printf("%s %s is up to date.\n", config.AppName, res.CurrentVersion)
		return nil
	}
	fmt.Printf("%s %s is available (you have %s): %s\n", config.AppName, res.LatestVersion, res.CurrentVersion, res.ReleaseURL)
	return nil
}
