// Package stroke turns pointer gestures into pixels on the canvas buffer.
package stroke

import (
	"image"
	"image/color"
	"math"

	"LocalCanvas/internal/state"

	"gonum.org/v1/gonum/spatial/r2"
)

// Kind is the primitive a mark renders.
type Kind int

const (
	KindPath Kind = iota
	KindRect
	KindEllipse
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindRect:
		return "rect"
	case KindEllipse:
		return "ellipse"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Mode selects how a mark is composited onto existing pixels.
type Mode int

const (
	// ModePaint draws source-over.
	ModePaint Mode = iota
	// ModeErase clears destination pixels under the mark's coverage.
	ModeErase
)

// Mark is one gesture's worth of drawing. Color and Width are fixed when
// the gesture starts.
type Mark struct {
	Kind   Kind
	Mode   Mode
	Color  color.NRGBA
	Width  float64
	Points []r2.Vec // freehand path, or [start, current] for shapes and text
	Text   string
}

type markKind struct {
	kind Kind
	mode Mode
}

// toolMarks maps every drawing tool to the mark it produces. Tools absent
// from the table (Pan) never start a mark.
var toolMarks = map[state.Tool]markKind{
	state.ToolPen:       {KindPath, ModePaint},
	state.ToolEraser:    {KindPath, ModeErase},
	state.ToolRectangle: {KindRect, ModePaint},
	state.ToolCircle:    {KindEllipse, ModePaint},
	state.ToolText:      {KindText, ModePaint},
}

// Draws reports whether the tool produces marks.
func Draws(t state.Tool) bool {
	_, ok := toolMarks[t]
	return ok
}

func newMark(ts state.ToolState, p r2.Vec, text string) (*Mark, bool) {
	mk, ok := toolMarks[ts.Tool]
	if !ok {
		return nil, false
	}
	if mk.kind == KindText && text == "" {
		return nil, false
	}
	return &Mark{
		Kind:   mk.kind,
		Mode:   mk.mode,
		Color:  ts.Color,
		Width:  state.ClampStrokeWidth(ts.StrokeWidth),
		Points: []r2.Vec{p},
		Text:   text,
	}, true
}

// extend moves the mark's leading edge to p.
func (m *Mark) extend(p r2.Vec) {
	if m.Kind == KindPath {
		m.Points = append(m.Points, p)
		return
	}
	m.Points = append(m.Points[:1], p)
}

func (m *Mark) start() r2.Vec { return m.Points[0] }
func (m *Mark) end() r2.Vec   { return m.Points[len(m.Points)-1] }

// isDot reports whether every point coincides with the first one.
func (m *Mark) isDot() bool {
	for _, p := range m.Points[1:] {
		if p != m.Points[0] {
			return false
		}
	}
	return true
}

// box returns the normalized rectangle spanned by start and end.
func (m *Mark) box() (minP, maxP r2.Vec) {
	a, b := m.start(), m.end()
	minP = r2.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
	maxP = r2.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
	return minP, maxP
}

// bounds is the pixel area the mark can touch, before clipping.
func (m *Mark) bounds() image.Rectangle {
	return pointBounds(m.Points, m.Width)
}

// pointBounds is the pixel area a stroke of the given width through pts
// can touch.
func pointBounds(pts []r2.Vec, width float64) image.Rectangle {
	minP, maxP := pts[0], pts[0]
	for _, p := range pts[1:] {
		minP.X, minP.Y = math.Min(minP.X, p.X), math.Min(minP.Y, p.Y)
		maxP.X, maxP.Y = math.Max(maxP.X, p.X), math.Max(maxP.Y, p.Y)
	}
	pad := width/2 + 2
	return image.Rect(
		int(math.Floor(minP.X-pad)), int(math.Floor(minP.Y-pad)),
		int(math.Ceil(maxP.X+pad)), int(math.Ceil(maxP.Y+pad)),
	)
}
