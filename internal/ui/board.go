package ui

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"math"

	"LocalCanvas/internal/state"
	"LocalCanvas/internal/surface"
	"LocalCanvas/internal/view"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"gonum.org/v1/gonum/spatial/r2"
)

// BoardWidget shows the drawing surface and feeds pointer input into it.
type BoardWidget struct {
	widget.BaseWidget
	surface   *surface.Controller
	statusBar *widget.Label

	OnHistoryChange func(canUndo, canRedo bool)
	OnViewChange    func(v view.State)
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(s *surface.Controller) *BoardWidget {
	b := &BoardWidget{
		surface:   s,
		statusBar: widget.NewLabel("Ready"),
	}
	s.OnHistoryChange(func(canUndo, canRedo bool) {
		if b.OnHistoryChange != nil {
			b.OnHistoryChange(canUndo, canRedo)
		}
	})
	b.ExtendBaseWidget(b)
	b.updateStatus()
	return b
}

// StatusBar is the label the board reports into.
func (b *BoardWidget) StatusBar() *widget.Label { return b.statusBar }

func (b *BoardWidget) SetStatus(text string) {
	b.statusBar.SetText(text)
}

func (b *BoardWidget) updateStatus() {
	ts := b.surface.ToolState()
	v := b.surface.ViewState()
	b.SetStatus(fmt.Sprintf("%s | %s | %.0fpx | %d%%", ts.Tool, state.HexColor(ts.Color), ts.StrokeWidth, zoomPercent(v.Zoom)))
}

func zoomPercent(z float64) int {
	return int(math.Round(z * 100))
}

// pixelScale converts widget coordinates to the raster's pixel grid.
func (b *BoardWidget) pixelScale() float32 {
	if app := fyne.CurrentApp(); app != nil {
		if c := app.Driver().CanvasForObject(b); c != nil {
			return c.Scale()
		}
	}
	return 1
}

func (b *BoardWidget) toScreen(pos fyne.Position) r2.Vec {
	s := b.pixelScale()
	return r2.Vec{X: float64(pos.X * s), Y: float64(pos.Y * s)}
}

// report logs a failed surface call and shows it in the status bar.
func (b *BoardWidget) report(what string, err error) {
	if err == nil {
		return
	}
	log.Printf("[UI] %s: %v", what, err)
	b.SetStatus(fmt.Sprintf("%s failed: %v", what, err))
}

func (b *BoardWidget) viewChanged() {
	b.Refresh()
	b.updateStatus()
	if b.OnViewChange != nil {
		b.OnViewChange(b.surface.ViewState())
	}
}

func (b *BoardWidget) SetTool(t state.Tool) {
	b.surface.SetTool(t)
	b.updateStatus()
}

func (b *BoardWidget) SetColor(c color.Color) {
	b.surface.SetColor(c)
	b.updateStatus()
}

func (b *BoardWidget) SetStroke(w float64) {
	b.surface.SetStrokeWidth(w)
	b.updateStatus()
}

func (b *BoardWidget) SetText(s string) {
	b.surface.SetText(s)
}

func (b *BoardWidget) ToggleGrid(enabled bool) {
	b.surface.ToggleGrid(enabled)
	b.Refresh()
}

func (b *BoardWidget) ZoomIn() {
	b.surface.ZoomBy(view.ZoomStep)
	b.viewChanged()
}

func (b *BoardWidget) ZoomOut() {
	b.surface.ZoomBy(-view.ZoomStep)
	b.viewChanged()
}

func (b *BoardWidget) ResetView() {
	b.surface.ResetView()
	b.viewChanged()
}

func (b *BoardWidget) Undo() {
	ok, err := b.surface.Undo()
	if err != nil {
		b.report("Undo", err)
	} else if !ok {
		b.SetStatus("Nothing to undo")
	}
	b.Refresh()
}

func (b *BoardWidget) Redo() {
	ok, err := b.surface.Redo()
	if err != nil {
		b.report("Redo", err)
	} else if !ok {
		b.SetStatus("Nothing to redo")
	}
	b.Refresh()
}

// ClearPaths wipes the canvas. The clear is itself undoable.
func (b *BoardWidget) ClearPaths() {
	b.report("Clear", b.surface.Clear())
	b.Refresh()
}

// SaveToFile writes the canvas through encode and closes writer.
func (b *BoardWidget) SaveToFile(writer fyne.URIWriteCloser, format string, encode func(io.Writer) error) {
	defer func() {
		if err := writer.Close(); err != nil {
			log.Printf("[UI] Error closing %s: %v", writer.URI(), err)
		}
	}()
	if err := encode(writer); err != nil {
		b.report("Export "+format, err)
		return
	}
	log.Printf("[UI] Exported %s to %s", format, writer.URI())
	b.SetStatus(fmt.Sprintf("Saved %s", writer.URI().Name()))
}

// ExportPNG and ExportPDF write the flattened canvas; the view and grid are
// not part of the output.
func (b *BoardWidget) ExportPNG(w io.Writer) error {
	data, err := b.surface.ExportImage()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (b *BoardWidget) ExportPDF(w io.Writer) error {
	return b.surface.ExportPDF(w)
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.report("Draw", b.surface.PointerDown(b.toScreen(e.Position)))
	b.Refresh()
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.pointerUp()
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.pointerMove(e.Position)
}

func (b *BoardWidget) DragEnd() {
	b.pointerUp()
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	b.pointerMove(e.Position)
}

func (b *BoardWidget) MouseOut() {
	b.report("Draw", b.surface.PointerLeave())
	b.Refresh()
}

func (b *BoardWidget) pointerMove(pos fyne.Position) {
	before := b.surface.ViewState()
	b.report("Draw", b.surface.PointerMove(b.toScreen(pos)))
	if b.surface.ViewState() != before {
		b.viewChanged()
		return
	}
	if b.surface.Drawing() {
		b.Refresh()
	}
}

func (b *BoardWidget) pointerUp() {
	b.report("Draw", b.surface.PointerUp())
	b.Refresh()
}

func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	if e.Scrolled.DY > 0 {
		b.ZoomIn()
	} else if e.Scrolled.DY < 0 {
		b.ZoomOut()
	}
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.raster = canvas.NewRaster(func(w, h int) image.Image {
		return b.surface.Render(w, h)
	})
	return r
}

type boardWidgetRenderer struct {
	board  *BoardWidget
	raster *canvas.Raster
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.raster}
}

func (r *boardWidgetRenderer) Refresh() {
	r.raster.Refresh()
}

func (r *boardWidgetRenderer) Destroy() {}
func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.raster.Resize(size)
}
func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}
