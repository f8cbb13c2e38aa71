package render

import (
	"image"
	"image/color"
	"image/draw"

	"LocalCanvas/internal/view"

	xdraw "golang.org/x/image/draw"
)

// Background is painted under the grid on every redraw.
var Background = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Compose draws canvas over dst through the canvas-to-screen transform of v.
func Compose(dst *image.RGBA, canvas image.Image, v view.State) {
	if v.Zoom == 1 && v.PanX == float64(int(v.PanX)) && v.PanY == float64(int(v.PanY)) {
		sp := image.Pt(-int(v.PanX), -int(v.PanY))
		draw.Draw(dst, dst.Bounds(), canvas, canvas.Bounds().Min.Add(sp), draw.Over)
		return
	}
	xdraw.ApproxBiLinear.Transform(dst, v.Affine(), canvas, canvas.Bounds(), xdraw.Over, nil)
}

// Frame renders a full display image of the given size: background, grid,
// then the canvas content on top.
func Frame(width, height int, canvas image.Image, g Grid, v view.State) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: Background}, image.Point{}, draw.Src)
	g.Render(dst, v)
	Compose(dst, canvas, v)
	return dst
}
