package state

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/gogpu/gg"
)

// Tool is the single active drawing tool.
type Tool int

const (
	ToolPen Tool = iota
	ToolEraser
	ToolRectangle
	ToolCircle
	ToolText
	ToolPan
)

// Tools lists every tool in toolbar order.
var Tools = []Tool{ToolPen, ToolEraser, ToolRectangle, ToolCircle, ToolText, ToolPan}

func (t Tool) String() string {
	switch t {
	case ToolPen:
		return "Pen"
	case ToolEraser:
		return "Eraser"
	case ToolRectangle:
		return "Rectangle"
	case ToolCircle:
		return "Circle"
	case ToolText:
		return "Text"
	case ToolPan:
		return "Pan"
	default:
		return "Unknown"
	}
}

// ParseTool resolves a tool by its case-insensitive name.
func ParseTool(name string) (Tool, error) {
	for _, t := range Tools {
		if strings.EqualFold(t.String(), name) {
			return t, nil
		}
	}
	return ToolPen, fmt.Errorf("unknown tool %q", name)
}

const (
	MinStrokeWidth = 1.0
	MaxStrokeWidth = 50.0
)

// ToolState is what the stroke engine reads at the start of a gesture.
type ToolState struct {
	Tool        Tool
	Color       color.NRGBA
	StrokeWidth float64
}

// DefaultToolState is a 2px black pen.
func DefaultToolState() ToolState {
	return ToolState{
		Tool:        ToolPen,
		Color:       color.NRGBA{A: 255},
		StrokeWidth: 2,
	}
}

// ClampStrokeWidth limits w to [MinStrokeWidth, MaxStrokeWidth].
func ClampStrokeWidth(w float64) float64 {
	if w < MinStrokeWidth {
		return MinStrokeWidth
	}
	if w > MaxStrokeWidth {
		return MaxStrokeWidth
	}
	return w
}

// Palette is the default set of swatches offered by the toolbar.
var Palette = []string{
	"#000000", "#ff6b6b", "#4ecdc4", "#45b7d1",
	"#96ceb4", "#ffeaa7", "#dda0dd", "#98d8c8",
}

// ParseColor reads "#rgb", "#rgba", "#rrggbb" or "#rrggbbaa".
func ParseColor(hex string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q", hex)
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return color.NRGBA{}, fmt.Errorf("invalid color %q", hex)
		}
	}
	c := gg.Hex(s)
	return color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: channel(c.A)}, nil
}

func channel(v float64) uint8 {
	return uint8(math.Round(v * 255))
}

// ToNRGBA converts any color to non-premultiplied 8-bit RGBA.
func ToNRGBA(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

// HexColor formats c as "#rrggbb", or "#rrggbbaa" when it is not opaque.
func HexColor(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
