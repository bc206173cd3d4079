// Package analysis compares recorded spring motion against easing curves.
//
// A spring has no fixed duration, so a run is normalised to [0, 1] over its
// recorded time span and compared with an easing function over the same
// span:
//
//	c, err := analysis.CompareEasing(times, values, 0, 100, ease.OutCubic)
//	fmt.Printf("rms %.3f max %.3f\n", c.RMS, c.MaxDeviation)
//
// [BestFit] ranks every named easing by RMS deviation.
package analysis
