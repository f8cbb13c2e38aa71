package stroke

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"LocalCanvas/internal/state"

	"github.com/gogpu/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/spatial/r2"
)

// Engine renders gestures into a canvas buffer. It is Idle until Begin
// starts a mark and returns to Idle on End.
//
// While a mark is active the buffer always equals the pixels captured at
// Begin with the whole mark composited on top. The ink layer holds the
// mark's coverage: a freehand path adds only its newest segment to it, so
// the cost of a move does not grow with the length of the stroke.
type Engine struct {
	buf   *image.RGBA
	ink   *gg.Context
	mask  *image.RGBA // view of the ink pixmap, no copy
	face  font.Face
	base  []byte
	mark  *Mark
	dirty image.Rectangle // buffer area composited by the last whole redraw
	inked image.Rectangle // ink area holding coverage
}

// NewEngine creates an engine drawing into buf. buf's origin must be (0,0).
func NewEngine(buf *image.RGBA) *Engine {
	b := buf.Bounds()
	pm := gg.NewPixmap(b.Dx(), b.Dy())
	return &Engine{
		buf:  buf,
		ink:  gg.NewContext(b.Dx(), b.Dy(), gg.WithPixmap(pm)),
		mask: &image.RGBA{Pix: pm.Data(), Stride: 4 * b.Dx(), Rect: image.Rect(0, 0, b.Dx(), b.Dy())},
		face: basicfont.Face7x13,
	}
}

// Active reports whether a gesture is in progress.
func (e *Engine) Active() bool {
	return e.mark != nil
}

// Begin starts a mark at canvas point p using the tool, color and width in
// ts. It reports false, leaving the engine Idle, when the tool does not draw
// (Pan), when Text has no content, or when a mark is already active.
func (e *Engine) Begin(ts state.ToolState, p r2.Vec, text string) (bool, error) {
	if e.mark != nil {
		return false, nil
	}
	m, ok := newMark(ts, p, text)
	if !ok {
		return false, nil
	}
	e.base = append(e.base[:0], e.buf.Pix...)
	e.mark = m
	e.dirty = image.Rectangle{}
	e.clearInk()
	if err := e.render(); err != nil {
		return false, err
	}
	return true, nil
}

// Extend moves the active mark to canvas point p and redraws it.
// It is a no-op while Idle.
func (e *Engine) Extend(p r2.Vec) error {
	if e.mark == nil {
		return nil
	}
	e.mark.extend(p)
	return e.render()
}

// End finishes the active mark. The pixels already in the buffer are the
// final result; nothing is rolled back. It reports false while Idle.
func (e *Engine) End() (Mark, bool) {
	if e.mark == nil {
		return Mark{}, false
	}
	m := *e.mark
	e.mark = nil
	e.dirty = image.Rectangle{}
	return m, true
}

// render brings the buffer up to date with the mark. A freehand path past
// its first point only composites the area of its newest segment; every
// other mark is redrawn whole over the gesture base. On failure the base is
// restored and the gesture is dropped.
func (e *Engine) render() error {
	m := e.mark
	var (
		area image.Rectangle
		mask image.Image
		err  error
	)
	segment := m.Kind == KindPath && len(m.Points) > 1
	if segment {
		area, err = e.inkSegment(m)
		if err == nil && area.Empty() {
			return nil
		}
		mask = e.mask
	} else {
		area, mask, err = e.coverage(m)
	}
	if err != nil {
		e.restore(e.buf.Bounds())
		e.mark = nil
		e.dirty = image.Rectangle{}
		return fmt.Errorf("stroke: render %s: %w", m.Kind, err)
	}
	e.restore(e.dirty.Union(area))
	composite(e.buf, area, mask, m)
	if segment {
		e.dirty = image.Rectangle{}
	} else {
		e.dirty = area
	}
	return nil
}

// restore copies the gesture base back into r.
func (e *Engine) restore(r image.Rectangle) {
	r = r.Intersect(e.buf.Bounds())
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := e.buf.PixOffset(r.Min.X, y)
		j := e.buf.PixOffset(r.Max.X, y)
		copy(e.buf.Pix[i:j], e.base[i:j])
	}
}

// clearInk zeroes the part of the ink layer that holds coverage.
func (e *Engine) clearInk() {
	r := e.inked.Intersect(e.mask.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := e.mask.PixOffset(r.Min.X, y)
		j := e.mask.PixOffset(r.Max.X, y)
		clear(e.mask.Pix[i:j])
	}
	e.inked = image.Rectangle{}
}

func (e *Engine) pen(width float64) *gg.Context {
	dc := e.ink
	dc.SetColor(color.White)
	dc.SetLineWidth(width)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	return dc
}

// inkSegment adds the path's newest segment to the ink layer and returns
// the buffer area it covers. A repeated point adds nothing.
func (e *Engine) inkSegment(m *Mark) (image.Rectangle, error) {
	n := len(m.Points)
	a, b := m.Points[n-2], m.Points[n-1]
	if a == b {
		return image.Rectangle{}, nil
	}
	dc := e.pen(m.Width)
	dc.MoveTo(a.X, a.Y)
	dc.LineTo(b.X, b.Y)
	if err := dc.Stroke(); err != nil {
		return image.Rectangle{}, err
	}
	area := pointBounds(m.Points[n-2:], m.Width).Intersect(e.buf.Bounds())
	e.inked = e.inked.Union(area)
	return area, nil
}

// coverage redraws the whole mark as an alpha mask and returns the buffer
// area it covers.
func (e *Engine) coverage(m *Mark) (image.Rectangle, image.Image, error) {
	if m.Kind == KindText {
		area, mask := e.textMask(m)
		return area, mask, nil
	}

	e.clearInk()
	dc := e.pen(m.Width)
	area := m.bounds().Intersect(e.buf.Bounds())
	e.inked = area

	if m.isDot() {
		p := m.start()
		dc.DrawCircle(p.X, p.Y, m.Width/2)
		if err := dc.Fill(); err != nil {
			return image.Rectangle{}, nil, err
		}
		return area, e.mask, nil
	}

	switch m.Kind {
	case KindRect:
		minP, maxP := m.box()
		dc.DrawRectangle(minP.X, minP.Y, maxP.X-minP.X, maxP.Y-minP.Y)
	case KindEllipse:
		minP, maxP := m.box()
		c := r2.Scale(0.5, r2.Add(minP, maxP))
		dc.DrawEllipse(c.X, c.Y, (maxP.X-minP.X)/2, (maxP.Y-minP.Y)/2)
	}
	if err := dc.Stroke(); err != nil {
		return image.Rectangle{}, nil, err
	}
	return area, e.mask, nil
}

// textMask draws the mark's text with its top-left corner at the press
// point. Newlines start a new line.
func (e *Engine) textMask(m *Mark) (image.Rectangle, image.Image) {
	p := m.start()
	x, y := int(math.Floor(p.X)), int(math.Floor(p.Y))
	metrics := e.face.Metrics()
	lines := strings.Split(m.Text, "\n")

	w := 0
	for _, line := range lines {
		w = max(w, font.MeasureString(e.face, line).Ceil())
	}
	area := image.Rect(x, y, x+w, y+len(lines)*metrics.Height.Ceil()).Intersect(e.buf.Bounds())

	mask := image.NewAlpha(area)
	d := &font.Drawer{Dst: mask, Src: image.Opaque, Face: e.face}
	baseline := y + metrics.Ascent.Ceil()
	for _, line := range lines {
		d.Dot = fixed.P(x, baseline)
		d.DrawString(line)
		baseline += metrics.Height.Ceil()
	}
	return area, mask
}

// composite applies the mask to dst within r according to the mark's mode.
func composite(dst *image.RGBA, r image.Rectangle, mask image.Image, m *Mark) {
	if r.Empty() {
		return
	}
	switch m.Mode {
	case ModeErase:
		// destination-out: dst keeps (1 - coverage) of its content
		draw.DrawMask(dst, r, image.Transparent, image.Point{}, mask, r.Min, draw.Src)
	default:
		draw.DrawMask(dst, r, image.NewUniform(m.Color), image.Point{}, mask, r.Min, draw.Over)
	}
}
