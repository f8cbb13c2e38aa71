// Package render draws the display image: background grid and the canvas
// composited through the current view.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"LocalCanvas/internal/view"
)

// DefaultGridColor is the light gray used for grid lines.
var DefaultGridColor = color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}

// Grid is the alignment grid drawn behind the canvas.
type Grid struct {
	CellSize float64 // canvas units between lines
	Enabled  bool
	Color    color.RGBA
}

// Render draws 1px lines every CellSize*Zoom screen pixels. Lines are
// anchored to canvas space: each one passes through a canvas coordinate
// that is a multiple of CellSize, whatever the pan and zoom.
func (g Grid) Render(dst *image.RGBA, v view.State) {
	if !g.Enabled || g.CellSize <= 0 {
		return
	}
	step := g.CellSize * v.Zoom
	if step < 1 {
		return
	}
	b := dst.Bounds()
	ink := image.NewUniform(g.Color)

	for _, x := range lineOffsets(v.PanX, step, b.Dx()) {
		line := image.Rect(b.Min.X+x, b.Min.Y, b.Min.X+x+1, b.Max.Y)
		draw.Draw(dst, line, ink, image.Point{}, draw.Src)
	}
	for _, y := range lineOffsets(v.PanY, step, b.Dy()) {
		line := image.Rect(b.Min.X, b.Min.Y+y, b.Max.X, b.Min.Y+y+1)
		draw.Draw(dst, line, ink, image.Point{}, draw.Src)
	}
}

// Phase returns pan mod step in [0, step).
func Phase(pan, step float64) float64 {
	p := math.Mod(pan, step)
	if p < 0 {
		p += step
	}
	return p
}

// lineOffsets lists the pixel columns (or rows) in [0, size) that carry a line.
func lineOffsets(pan, step float64, size int) []int {
	phase := Phase(pan, step)
	var out []int
	for k := 0; ; k++ {
		px := int(math.Floor(phase + float64(k)*step))
		if px >= size {
			break
		}
		if len(out) > 0 && out[len(out)-1] == px {
			continue
		}
		out = append(out, px)
	}
	return out
}
