package ui

import (
	"fmt"
	"image/color"

	"LocalCanvas/internal/state"
	"LocalCanvas/internal/view"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// Toolbar holds the controls whose state follows the board.
type Toolbar struct {
	board *BoardWidget

	tools   *widget.RadioGroup
	undo    *widget.Button
	redo    *widget.Button
	zoom    *widget.Label
	content fyne.CanvasObject
}

// --- The Main Toolbar ---
func NewToolbar(board *BoardWidget, win fyne.Window) *Toolbar {
	tb := &Toolbar{board: board}
	ts := board.surface.ToolState()

	// --- Tools ---
	labels := make([]string, len(state.Tools))
	for i, t := range state.Tools {
		labels[i] = t.String()
	}
	tb.tools = widget.NewRadioGroup(labels, func(selected string) {
		if t, err := state.ParseTool(selected); err == nil {
			board.SetTool(t)
		}
	})
	tb.tools.Horizontal = true
	tb.tools.Required = true
	tb.tools.SetSelected(ts.Tool.String())

	// --- Color Palette ---
	colorBox := container.NewHBox()
	for _, hex := range state.Palette {
		c, err := state.ParseColor(hex)
		if err != nil {
			continue
		}
		colorBox.Add(newColorSwatch(c, board.SetColor))
	}

	// --- Stroke Width Slider ---
	strokeSlider := widget.NewSlider(state.MinStrokeWidth, state.MaxStrokeWidth)
	strokeSlider.SetValue(ts.StrokeWidth)
	strokeSlider.OnChanged = board.SetStroke
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), strokeSlider)

	textEntry := widget.NewEntry()
	textEntry.SetPlaceHolder("Text")
	textEntry.OnChanged = board.SetText
	textContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(140, 35)), textEntry)

	// --- History ---
	tb.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), board.Undo)
	tb.redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), board.Redo)
	tb.setHistory(board.surface.CanUndo(), board.surface.CanRedo())
	board.OnHistoryChange = tb.setHistory

	actions := widget.NewToolbar(
		widget.NewToolbarAction(theme.DeleteIcon(), board.ClearPaths),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() { showExportPNG(win, board) }),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), func() { showExportPDF(win, board) }),
	)

	// --- View ---
	grid := widget.NewCheck("Grid", board.ToggleGrid)
	grid.SetChecked(board.surface.GridEnabled())

	tb.zoom = widget.NewLabel("")
	tb.setZoom(board.surface.ViewState())
	board.OnViewChange = tb.setZoom
	zoomBox := container.NewHBox(
		widget.NewButtonWithIcon("", theme.ZoomOutIcon(), board.ZoomOut),
		tb.zoom,
		widget.NewButtonWithIcon("", theme.ZoomInIcon(), board.ZoomIn),
		widget.NewButtonWithIcon("", theme.ZoomFitIcon(), board.ResetView),
	)

	// --- Assemble everything ---
	tb.content = container.NewVBox(
		container.NewHBox(
			widget.NewLabel("Tool:"),
			tb.tools,
			layout.NewSpacer(),
			tb.undo,
			tb.redo,
			actions,
		),
		container.NewHBox(
			widget.NewLabel("Color:"),
			colorBox,
			widget.NewSeparator(),
			widget.NewLabel("Size:"),
			sliderContainer,
			textContainer,
			layout.NewSpacer(),
			grid,
			zoomBox,
		),
	)
	return tb
}

func (tb *Toolbar) Content() fyne.CanvasObject { return tb.content }

func (tb *Toolbar) setHistory(canUndo, canRedo bool) {
	setEnabled(tb.undo, canUndo)
	setEnabled(tb.redo, canRedo)
}

func (tb *Toolbar) setZoom(v view.State) {
	tb.zoom.SetText(fmt.Sprintf("%d%%", zoomPercent(v.Zoom)))
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}
