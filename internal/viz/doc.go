// Package viz renders spring motion in the terminal.
//
// [PlotKey] and [PlotAgainst] draw recorded runs with asciigraph. [Live] is
// a Bubble Tea model that hosts a motion.Driver on a frame.Queue flushed by
// tea ticks, so the terminal refresh is the display clock.
//
// # Key Bindings
//
//	Arrows - Move the target
//	P      - Cycle spring presets
//	T      - Teleport (plain target at the current goal)
//	C      - Centre
//	S      - Cycle colour themes
//	Q      - Quit
package viz
