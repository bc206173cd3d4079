package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/motion/internal/sim"
)

const (
	PlotHeight = 10
	PlotWidth  = 80
)

// PlotKey draws one key of a run. It returns "" for an empty run.
func PlotKey(result *sim.Result, key string) string {
	data := result.Series(key)
	if len(data) == 0 {
		return ""
	}
	caption := fmt.Sprintf("%s (%d frames, %.2fs)", key, len(data), result.Times[len(result.Times)-1])
	return asciigraph.Plot(data,
		asciigraph.Height(PlotHeight),
		asciigraph.Width(PlotWidth),
		asciigraph.Caption(caption),
	)
}

// PlotAgainst overlays a reference curve on a recorded series.
func PlotAgainst(series, reference []float64, caption string) string {
	if len(series) == 0 || len(reference) == 0 {
		return ""
	}
	return asciigraph.PlotMany([][]float64{series, reference},
		asciigraph.Height(PlotHeight),
		asciigraph.Width(PlotWidth),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Red),
	)
}
