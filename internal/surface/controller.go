// Package surface owns one editing session: the canvas buffer, the view,
// the tool state, the stroke engine and the undo history.
package surface

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"sync"

	"LocalCanvas/internal/config"
	"LocalCanvas/internal/export"
	"LocalCanvas/internal/render"
	"LocalCanvas/internal/state"
	"LocalCanvas/internal/stroke"
	"LocalCanvas/internal/view"

	"gonum.org/v1/gonum/spatial/r2"
)

// gesture tracks a pan drag. Drawing gestures live in the stroke engine.
type gesture struct {
	panning bool
	last    r2.Vec
}

// Controller routes input to the transform, the stroke engine and the
// history. Every method holds one lock for its whole duration, so a
// snapshot restore always completes before the next pointer event is seen.
type Controller struct {
	mu sync.Mutex

	id      string
	buf     *image.RGBA
	view    view.State
	tools   state.ToolState
	grid    render.Grid
	text    string
	engine  *stroke.Engine
	history *state.HistoryLog
	gesture gesture

	onHistory func(canUndo, canRedo bool)
}

// New creates a controller with a blank canvas and a history seeded with it.
func New(cfg config.Config) *Controller {
	buf := image.NewRGBA(image.Rect(0, 0, cfg.Canvas.Width, cfg.Canvas.Height))
	gridColor := render.DefaultGridColor
	if c, err := state.ParseColor(cfg.Grid.Color); err == nil {
		gridColor = color.RGBAModel.Convert(c).(color.RGBA)
	}
	c := &Controller{
		id:     state.SessionID(),
		buf:    buf,
		view:   view.Identity(),
		tools:  cfg.ToolState(),
		grid:   render.Grid{CellSize: cfg.Grid.CellSize, Enabled: cfg.Grid.Enabled, Color: gridColor},
		engine: stroke.NewEngine(buf),
	}
	c.history = state.NewHistoryLog(state.Capture(buf), cfg.History.Limit)
	log.Printf("[SURFACE] Session %s started with a %dx%d canvas", c.id, cfg.Canvas.Width, cfg.Canvas.Height)
	return c
}

// ID identifies the session.
func (c *Controller) ID() string { return c.id }

// OnHistoryChange registers fn to be called after every commit, undo, redo
// and clear. fn runs without the controller lock held.
func (c *Controller) OnHistoryChange(fn func(canUndo, canRedo bool)) {
	c.mu.Lock()
	c.onHistory = fn
	c.mu.Unlock()
}

func (c *Controller) ToolState() state.ToolState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tools
}

func (c *Controller) ViewState() view.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *Controller) GridEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grid.Enabled
}

func (c *Controller) CanUndo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.CanUndo()
}

func (c *Controller) CanRedo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.CanRedo()
}

// Drawing reports whether a drawing gesture is in progress.
func (c *Controller) Drawing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Active()
}

// SetTool selects the active tool. A gesture already in progress keeps the
// tool it started with.
func (c *Controller) SetTool(t state.Tool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tools.Tool = t
}

func (c *Controller) SetColor(col color.Color) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tools.Color = state.ToNRGBA(col)
}

// SetStrokeWidth clamps w to [1, 50].
func (c *Controller) SetStrokeWidth(w float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tools.StrokeWidth = state.ClampStrokeWidth(w)
}

// SetText supplies the content placed by the Text tool.
func (c *Controller) SetText(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = s
}

func (c *Controller) ToggleGrid(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.grid.Enabled = enabled
}

// ZoomBy changes the zoom factor, clamped to [0.1, 3.0].
func (c *Controller) ZoomBy(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.ZoomBy(delta)
}

// PanBy shifts the view by d screen pixels.
func (c *Controller) PanBy(d r2.Vec) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.PanBy(d)
}

// ResetView restores zero pan and a zoom of 1.
func (c *Controller) ResetView() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = view.Identity()
}

// PointerDown starts a gesture at screen point p. With the Pan tool it
// starts a pan drag; otherwise p is mapped to canvas space and handed to
// the stroke engine.
func (c *Controller) PointerDown(p r2.Vec) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.engine.Active() || c.gesture.panning {
		return nil
	}
	if c.tools.Tool == state.ToolPan {
		c.gesture = gesture{panning: true, last: p}
		return nil
	}
	if _, err := c.engine.Begin(c.tools, view.ToCanvasSpace(p, c.view), c.text); err != nil {
		return fmt.Errorf("surface: pointer down: %w", err)
	}
	return nil
}

// PointerMove continues the current gesture. Without one it does nothing.
func (c *Controller) PointerMove(p r2.Vec) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gesture.panning {
		c.view.PanBy(r2.Sub(p, c.gesture.last))
		c.gesture.last = p
		return nil
	}
	if err := c.engine.Extend(view.ToCanvasSpace(p, c.view)); err != nil {
		return fmt.Errorf("surface: pointer move: %w", err)
	}
	return nil
}

// PointerUp ends the current gesture, committing a snapshot if anything
// was drawn.
func (c *Controller) PointerUp() error {
	c.mu.Lock()
	committed := c.endGestureLocked()
	notify := c.historyNotifierLocked(committed)
	c.mu.Unlock()
	notify()
	return nil
}

// PointerLeave is handled exactly like PointerUp: whatever was drawn so
// far is committed.
func (c *Controller) PointerLeave() error {
	return c.PointerUp()
}

// endGestureLocked finishes any gesture and reports whether a snapshot was
// committed.
func (c *Controller) endGestureLocked() bool {
	c.gesture = gesture{}
	m, ok := c.engine.End()
	if !ok {
		return false
	}
	snap := state.Capture(c.buf)
	c.history.Commit(snap)
	log.Printf("[HISTORY] Committed %s (%s, %d points) at %d/%d", snap.ID, m.Kind, len(m.Points), c.history.Cursor(), c.history.Len()-1)
	return true
}

// Undo restores the previous snapshot. It reports false when there is
// nothing to undo.
func (c *Controller) Undo() (bool, error) {
	return c.step("undo", (*state.HistoryLog).Undo, (*state.HistoryLog).Redo)
}

// Redo restores the next snapshot. It reports false when there is nothing
// to redo.
func (c *Controller) Redo() (bool, error) {
	return c.step("redo", (*state.HistoryLog).Redo, (*state.HistoryLog).Undo)
}

// step moves the history cursor with move and restores the entry it lands
// on. If the restore fails the cursor is put back with back, leaving both
// the buffer and the log at their last good state.
func (c *Controller) step(name string, move, back func(*state.HistoryLog) (state.Snapshot, bool)) (bool, error) {
	c.mu.Lock()
	committed := c.endGestureLocked()
	snap, ok := move(c.history)
	var err error
	if ok {
		if err = snap.RestoreInto(c.buf); err != nil {
			back(c.history)
			log.Printf("[HISTORY] %s to %s failed: %v", name, snap.ID, err)
			err = fmt.Errorf("surface: %s: %w", name, err)
			ok = false
		} else {
			log.Printf("[HISTORY] %s to %s at %d/%d", name, snap.ID, c.history.Cursor(), c.history.Len()-1)
		}
	}
	notify := c.historyNotifierLocked(ok || committed)
	c.mu.Unlock()
	notify()
	return ok, err
}

// Clear blanks the canvas and commits the blank state, so it can be undone.
func (c *Controller) Clear() error {
	c.mu.Lock()
	c.endGestureLocked()
	for i := range c.buf.Pix {
		c.buf.Pix[i] = 0
	}
	snap := state.Capture(c.buf)
	c.history.Commit(snap)
	log.Printf("[HISTORY] Cleared canvas as %s", snap.ID)
	notify := c.historyNotifierLocked(true)
	c.mu.Unlock()
	notify()
	return nil
}

// ExportImage encodes the current canvas as PNG. It does not touch history.
func (c *Controller) ExportImage() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := export.EncodePNG(c.buf)
	if err != nil {
		return nil, err
	}
	log.Printf("[EXPORT] PNG %d bytes", len(data))
	return data, nil
}

// ExportPDF writes the current canvas as a single-page PDF.
func (c *Controller) ExportPDF(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := export.WritePDF(w, c.buf); err != nil {
		return err
	}
	log.Printf("[EXPORT] PDF written")
	return nil
}

// Snapshot returns a copy of the current canvas pixels.
func (c *Controller) Snapshot() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := image.NewRGBA(c.buf.Bounds())
	copy(out.Pix, c.buf.Pix)
	return out
}

// Render draws the visible surface of the given size: background, grid,
// then the canvas through the current view.
func (c *Controller) Render(width, height int) *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return render.Frame(width, height, c.buf, c.grid, c.view)
}

// historyNotifierLocked captures the callback and the availability flags
// under the lock so they can be delivered after it is released.
func (c *Controller) historyNotifierLocked(changed bool) func() {
	fn := c.onHistory
	if !changed || fn == nil {
		return func() {}
	}
	canUndo, canRedo := c.history.CanUndo(), c.history.CanRedo()
	return func() { fn(canUndo, canRedo) }
}
