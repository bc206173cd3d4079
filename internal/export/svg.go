// Package export renders stored runs to files outside the terminal.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/motion/internal/sim"
)

// KeyColor picks a distinct stroke colour for the i-th of n keys.
func KeyColor(i, n int) string {
	if n < 1 {
		n = 1
	}
	return colorful.Hsv(360*float64(i)/float64(n), 0.7, 0.95).Hex()
}

// RunToSVG plots every key of a run against time, one path per key, on a
// shared value axis.
func RunToSVG(w io.Writer, result *sim.Result, width, height int) error {
	if len(result.Frames) < 2 || len(result.Keys) == 0 {
		return fmt.Errorf("need at least two frames, got %d", len(result.Frames))
	}

	minT, maxT := result.Times[0], result.Times[len(result.Times)-1]
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, f := range result.Frames {
		for _, k := range result.Keys {
			minY = math.Min(minY, f[k])
			maxY = math.Max(maxY, f[k])
		}
	}

	rangeT := maxT - minT
	rangeY := maxY - minY
	if rangeT == 0 {
		rangeT = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, k := range result.Keys {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" data-key="%s" d="`, KeyColor(i, len(result.Keys)), k))
		for j, f := range result.Frames {
			x := (result.Times[j] - minT) / rangeT * float64(width)
			y := float64(height) - (f[k]-minY)/rangeY*float64(height)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
