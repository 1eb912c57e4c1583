// Package sysinfo reports the primary display resolution, used to fit images to the screen.
package sysinfo

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoDisplay is returned when no display resolution can be determined.
var ErrNoDisplay = errors.New("no display found")

var (
	// resolutionRegex matches strings like "3456 x 2234", "1920x1080" or "1710 x 1107 @ 60.00Hz"
	resolutionRegex = regexp.MustCompile(`(\d+)\s*x\s*(\d+)`)
)

// systemProfilerOutput represents the nested structure of system_profiler -json
type systemProfilerOutput struct {
	Displays []gpuInfo `json:"SPDisplaysDataType"`
}

type gpuInfo struct {
	NDRVs []displayInfo `json:"spdisplays_ndrvs"`
}

type displayInfo struct {
	PixelResolution string `json:"spdisplays_pixelresolution"` // Physical pixels (e.g. "2880x1864Retina")
	Resolution      string `json:"_spdisplays_pixels"`         // Actual resolution (e.g. "3420 x 2214")
	Main            string `json:"spdisplays_main"`            // "spdisplays_yes"
}

// parseJSONResolution picks the main display from system_profiler output.
func parseJSONResolution(data []byte) (int, int, error) {
	var profiler systemProfilerOutput
	if err := json.Unmarshal(data, &profiler); err != nil {
		return 0, 0, fmt.Errorf("decoding system_profiler JSON: %w", err)
	}

	for _, gpu := range profiler.Displays {
		for _, display := range gpu.NDRVs {
			if display.Main == "spdisplays_yes" {
				return parseResolutionString(display.Resolution)
			}
		}
	}

	// Fallback: the first display of the first GPU
	if len(profiler.Displays) > 0 && len(profiler.Displays[0].NDRVs) > 0 {
		return parseResolutionString(profiler.Displays[0].NDRVs[0].Resolution)
	}

	return 0, 0, fmt.Errorf("%w in system_profiler output", ErrNoDisplay)
}

// parseXdpyinfo finds "dimensions:    1920x1080 pixels (508x285 millimeters)".
func parseXdpyinfo(out string) (int, int, error) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "dimensions:") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) >= 2 {
			return parseResolutionString(parts[1])
		}
	}
	return 0, 0, fmt.Errorf("%w in xdpyinfo output", ErrNoDisplay)
}

func parseResolutionString(s string) (int, int, error) {
	matches := resolutionRegex.FindStringSubmatch(s)
	if len(matches) < 3 {
		return 0, 0, fmt.Errorf("failed to parse resolution from string: %q", s)
	}

	width, errW := strconv.Atoi(matches[1])
	height, errH := strconv.Atoi(matches[2])
	if errW != nil || errH != nil {
		return 0, 0, fmt.Errorf("failed to convert dimensions: %v, %v", errW, errH)
	}
	if width == 0 || height == 0 {
		return 0, 0, fmt.Errorf("%w: zero resolution %q", ErrNoDisplay, s)
	}

	return width, height, nil
}
