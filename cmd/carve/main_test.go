package main

import (
	"context"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/dixieflatline76/Carve/config"
	"github.com/dixieflatline76/Carve/pkg/carve"
	"github.com/dixieflatline76/Carve/pkg/resize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestImage(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 17), G: uint8(y * 29), B: uint8(x ^ y), A: 255})
		}
	}
	require.NoError(t, resize.Save(img, path, 0))
}

func TestBuildOptions(t *testing.T) {
	cfg := config.Default()

	t.Run("Defaults", func(t *testing.T) {
		opts, err := buildOptions(cfg, "", "", 5, 0, 0, 0, "")
		require.NoError(t, err)
		assert.Equal(t, cfg.Operator, opts.request.Operator)
		assert.Equal(t, cfg.Direction, opts.request.Direction)
		assert.Equal(t, float64(5), opts.request.Amount)
		assert.Equal(t, resize.Pixels, opts.request.Unit)
		assert.Equal(t, resize.StrategyAuto, opts.strategy)
		assert.Equal(t, cfg.Workers, opts.workers)
	})

	t.Run("Overrides", func(t *testing.T) {
		opts, err := buildOptions(cfg, "Forward", "h", 0, 25, 0, 0, "crop")
		require.NoError(t, err)
		assert.Equal(t, carve.Forward, opts.request.Operator)
		assert.Equal(t, carve.Horizontal, opts.request.Direction)
		assert.Equal(t, resize.Percent, opts.request.Unit)
		assert.Equal(t, float64(25), opts.request.Amount)
		assert.Equal(t, resize.StrategyCrop, opts.strategy)
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := buildOptions(cfg, "canny", "", 1, 0, 0, 0, "")
		assert.ErrorIs(t, err, carve.ErrUnsupportedOperator)

		_, err = buildOptions(cfg, "", "sideways", 1, 0, 0, 0, "")
		assert.ErrorIs(t, err, carve.ErrUnsupportedDirection)

		_, err = buildOptions(cfg, "", "", 1, 10, 0, 0, "")
		assert.Error(t, err)

		_, err = buildOptions(cfg, "", "", 0, 120, 0, 0, "")
		assert.ErrorIs(t, err, resize.ErrInvalidAmount)

		_, err = buildOptions(cfg, "", "", 0, 0, -1, 0, "")
		assert.ErrorIs(t, err, carve.ErrInvalidDimensions)

		_, err = buildOptions(cfg, "", "", 0, 0, 0, 0, "stretch")
		assert.Error(t, err)
	})
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()

	got, err := outputPath(filepath.Join("photos", "beach.jpg"), "", "_carved")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("photos", "beach_carved.jpg"), got)

	got, err = outputPath(filepath.Join("photos", "beach.webp"), dir, "_carved")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "beach_carved.png"), got)
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	inputs := []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png")}
	for _, in := range inputs {
		writeTestImage(t, in, 12, 8)
	}

	cfg := config.Default()

	t.Run("Seams", func(t *testing.T) {
		opts, err := buildOptions(cfg, "sobel", "v", 3, 0, 0, 0, "")
		require.NoError(t, err)
		opts.outDir, opts.energy = outDir, true

		require.NoError(t, runBatch(context.Background(), cfg, opts, inputs))

		for _, name := range []string{"a", "b"} {
			img, err := resize.Open(filepath.Join(outDir, name+"_carved.png"))
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 9, 8), img.Bounds())

			energy, err := resize.Open(filepath.Join(outDir, name+"_energy.png"))
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 9, 8), energy.Bounds())
		}
	})

	t.Run("Fit", func(t *testing.T) {
		opts, err := buildOptions(cfg, "", "", 0, 0, 10, 0, "carve")
		require.NoError(t, err)
		opts.outDir = filepath.Join(dir, "fit")

		require.NoError(t, runBatch(context.Background(), cfg, opts, inputs[:1]))

		img, err := resize.Open(filepath.Join(opts.outDir, "a_carved.png"))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 10, 8), img.Bounds())
	})

	t.Run("Remote", func(t *testing.T) {
		srv := httptest.NewServer(http.FileServer(http.Dir(dir)))
		defer srv.Close()

		opts, err := buildOptions(cfg, "", "", 2, 0, 0, 0, "")
		require.NoError(t, err)
		opts.outDir = filepath.Join(dir, "remote")

		require.NoError(t, runBatch(context.Background(), cfg, opts, []string{srv.URL + "/a.png"}))

		img, err := resize.Open(filepath.Join(opts.outDir, "a_carved.png"))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 10, 8), img.Bounds())
	})

	t.Run("MissingInput", func(t *testing.T) {
		opts, err := buildOptions(cfg, "", "", 1, 0, 0, 0, "")
		require.NoError(t, err)
		err = runBatch(context.Background(), cfg, opts, []string{filepath.Join(dir, "missing.png")})
		assert.Error(t, err)
	})
}
