package viz

import "strings"

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a grid of braille cells addressed in sub-pixels; its resolution
// is (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, grid: make([][]rune, h)}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.Width*2 || y >= c.Height*4 {
		return
	}
	c.grid[y/4][x/2] |= pixelMap[y%4][x%2]
}

func (c *Canvas) Clear() {
	for _, row := range c.grid {
		for j := range row {
			row[j] = brailleBlank
		}
	}
}

// Plot maps (u, v) in [0, 1] x [0, 1] to a sub-pixel, v growing upwards.
func (c *Canvas) Plot(u, v float64) (int, int) {
	x := int(u * float64(c.Width*2-1))
	y := int((1 - v) * float64(c.Height*4-1))
	return x, y
}

// Dot sets a 2x2 block at (u, v).
func (c *Canvas) Dot(u, v float64) {
	x, y := c.Plot(u, v)
	c.Set(x, y)
	c.Set(x+1, y)
	c.Set(x, y+1)
	c.Set(x+1, y+1)
}

// Cross marks (u, v) with a small plus.
func (c *Canvas) Cross(u, v float64) {
	x, y := c.Plot(u, v)
	for d := -2; d <= 2; d++ {
		c.Set(x+d, y)
		c.Set(x, y+d)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.grid {
		b.WriteString(string(row))
		if i < len(c.grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
