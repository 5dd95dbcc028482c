// Package sysinfo reads the primary display size from platform tools. It is
// the fallback when the screen APIs report no displays.
package sysinfo

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"regexp"
	"strconv"
	"strings"
)

// resolutionRegex matches "3456 x 2234", "2880x1864 Retina" and "1710 x 1107 @ 60.00Hz".
var resolutionRegex = regexp.MustCompile(`(\d+)\s*x\s*(\d+)`)

// PrimaryBounds returns the primary display as a rectangle at the origin.
func PrimaryBounds() (image.Rectangle, error) {
	w, h, err := screenDimensions()
	if err != nil {
		return image.Rectangle{}, err
	}
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, fmt.Errorf("invalid primary display size %dx%d", w, h)
	}
	return image.Rect(0, 0, w, h), nil
}

// parseXdpyinfo finds the "dimensions:    1920x1080 pixels (508x285 millimeters)" line.
func parseXdpyinfo(out []byte) (int, int, error) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "dimensions:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			break
		}
		return parseResolutionString(fields[1])
	}
	return 0, 0, fmt.Errorf("no dimensions line in xdpyinfo output")
}

type systemProfilerOutput struct {
	Displays []struct {
		NDRVs []struct {
			Resolution string `json:"_spdisplays_pixels"` // "3420 x 2214"
			Main       string `json:"spdisplays_main"`    // "spdisplays_yes"
		} `json:"spdisplays_ndrvs"`
	} `json:"SPDisplaysDataType"`
}

// parseSystemProfiler picks the main display from `system_profiler
// SPDisplaysDataType -json`, or the first display when none is marked main.
func parseSystemProfiler(data []byte) (int, int, error) {
	var out systemProfilerOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return 0, 0, fmt.Errorf("decoding system_profiler JSON: %w", err)
	}

	first := ""
	for _, gpu := range out.Displays {
		for _, d := range gpu.NDRVs {
			if d.Main == "spdisplays_yes" {
				return parseResolutionString(d.Resolution)
			}
			if first == "" {
				first = d.Resolution
			}
		}
	}
	if first == "" {
		return 0, 0, fmt.Errorf("no displays found in system_profiler output")
	}
	return parseResolutionString(first)
}

func parseResolutionString(s string) (int, int, error) {
	m := resolutionRegex.FindStringSubmatch(s)
	if len(m) < 3 {
		return 0, 0, fmt.Errorf("failed to parse resolution from %q", s)
	}
	w, errW := strconv.Atoi(m[1])
	h, errH := strconv.Atoi(m[2])
	if errW != nil || errH != nil {
		return 0, 0, fmt.Errorf("failed to convert dimensions in %q", s)
	}
	return w, h, nil
}
