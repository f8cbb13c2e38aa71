package surface

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"LocalCanvas/internal/config"
	"LocalCanvas/internal/state"
	"LocalCanvas/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	cfg := config.Default()
	cfg.Canvas.Width, cfg.Canvas.Height = 120, 80
	c := New(cfg)
	c.SetStrokeWidth(10)
	return c
}

func drag(t *testing.T, c *Controller, pts ...r2.Vec) {
	t.Helper()
	require.NoError(t, c.PointerDown(pts[0]))
	for _, p := range pts[1:] {
		require.NoError(t, c.PointerMove(p))
	}
	require.NoError(t, c.PointerUp())
}

func alphaAt(img *image.RGBA, x, y int) uint8 {
	return img.RGBAAt(x, y).A
}

func TestNewControllerStartsBlank(t *testing.T) {
	c := newTestController(t)
	assert.False(t, c.CanUndo())
	assert.False(t, c.CanRedo())
	assert.Equal(t, view.Identity(), c.ViewState())
	assert.Equal(t, state.ToolPen, c.ToolState().Tool)
	assert.True(t, c.GridEnabled())
	assert.NotEmpty(t, c.ID())

	snap := c.Snapshot()
	assert.Equal(t, image.Rect(0, 0, 120, 80), snap.Bounds())
	assert.Equal(t, make([]byte, len(snap.Pix)), snap.Pix)
}

func TestZeroMovementGestureCommitsDot(t *testing.T) {
	c := newTestController(t)
	drag(t, c, r2.Vec{X: 30, Y: 30})

	assert.True(t, c.CanUndo())
	assert.NotZero(t, alphaAt(c.Snapshot(), 30, 30))
}

func TestPointerMappedThroughView(t *testing.T) {
	c := newTestController(t)
	c.ZoomBy(1)
	c.PanBy(r2.Vec{X: 10, Y: 10})

	// screen (50,50) is canvas (20,20) at zoom 2 with pan 10
	drag(t, c, r2.Vec{X: 50, Y: 50})
	snap := c.Snapshot()
	assert.NotZero(t, alphaAt(snap, 20, 20))
	assert.Zero(t, alphaAt(snap, 50, 50))
}

func TestZoomClamps(t *testing.T) {
	c := newTestController(t)
	c.ZoomBy(-10)
	assert.InDelta(t, view.MinZoom, c.ViewState().Zoom, 1e-9)
	c.ZoomBy(10)
	assert.InDelta(t, view.MaxZoom, c.ViewState().Zoom, 1e-9)
	c.ResetView()
	assert.Equal(t, view.Identity(), c.ViewState())
}

func TestStrokeWidthClamped(t *testing.T) {
	c := newTestController(t)
	c.SetStrokeWidth(0)
	assert.Equal(t, state.MinStrokeWidth, c.ToolState().StrokeWidth)
	c.SetStrokeWidth(500)
	assert.Equal(t, state.MaxStrokeWidth, c.ToolState().StrokeWidth)
}

func TestClearThenUndoRestoresExactly(t *testing.T) {
	c := newTestController(t)
	drag(t, c, r2.Vec{X: 10, Y: 10}, r2.Vec{X: 100, Y: 60})
	before := c.Snapshot()

	require.NoError(t, c.Clear())
	assert.Equal(t, make([]byte, len(before.Pix)), c.Snapshot().Pix)

	ok, err := c.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, before.Pix, c.Snapshot().Pix)
}

func TestEraserOnlyTouchesStrokedArea(t *testing.T) {
	c := newTestController(t)
	c.SetColor(color.NRGBA{R: 255, A: 255})
	drag(t, c, r2.Vec{X: 0, Y: 40}, r2.Vec{X: 119, Y: 40})
	before := c.Snapshot()
	require.NotZero(t, alphaAt(before, 60, 40))

	c.SetTool(state.ToolEraser)
	drag(t, c, r2.Vec{X: 60, Y: 0}, r2.Vec{X: 60, Y: 79})
	after := c.Snapshot()

	assert.Zero(t, alphaAt(after, 60, 40))
	for y := 0; y < 80; y++ {
		for x := 0; x < 120; x++ {
			if x >= 50 && x <= 70 {
				continue
			}
			require.Equal(t, before.RGBAAt(x, y), after.RGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	c := newTestController(t)
	blank := c.Snapshot()

	const n = 4
	for i := 0; i < n; i++ {
		y := float64(10 + i*15)
		drag(t, c, r2.Vec{X: 10, Y: y}, r2.Vec{X: 110, Y: y})
	}
	final := c.Snapshot()

	for i := 0; i < n; i++ {
		ok, err := c.Undo()
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.Equal(t, blank.Pix, c.Snapshot().Pix)
	ok, err := c.Undo()
	require.NoError(t, err)
	assert.False(t, ok)

	for i := 0; i < n; i++ {
		ok, err := c.Redo()
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.Equal(t, final.Pix, c.Snapshot().Pix)
	ok, err = c.Redo()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCommitAfterUndoDiscardsRedo(t *testing.T) {
	c := newTestController(t)
	drag(t, c, r2.Vec{X: 10, Y: 10})
	drag(t, c, r2.Vec{X: 40, Y: 40})

	_, err := c.Undo()
	require.NoError(t, err)
	assert.True(t, c.CanRedo())

	drag(t, c, r2.Vec{X: 90, Y: 60})
	assert.False(t, c.CanRedo())
	snap := c.Snapshot()
	assert.Zero(t, alphaAt(snap, 40, 40))
	assert.NotZero(t, alphaAt(snap, 90, 60))
}

func TestUndoDuringGestureCommitsItFirst(t *testing.T) {
	c := newTestController(t)
	require.NoError(t, c.PointerDown(r2.Vec{X: 20, Y: 20}))
	require.NoError(t, c.PointerMove(r2.Vec{X: 80, Y: 20}))
	assert.True(t, c.Drawing())

	ok, err := c.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, c.Drawing())
	assert.True(t, c.CanRedo())
	assert.Zero(t, alphaAt(c.Snapshot(), 50, 20))

	// the gesture is over, so further moves draw nothing
	require.NoError(t, c.PointerMove(r2.Vec{X: 50, Y: 60}))
	assert.Zero(t, alphaAt(c.Snapshot(), 50, 60))
}

func TestPointerLeaveCommits(t *testing.T) {
	c := newTestController(t)
	require.NoError(t, c.PointerDown(r2.Vec{X: 20, Y: 20}))
	require.NoError(t, c.PointerMove(r2.Vec{X: 60, Y: 20}))
	require.NoError(t, c.PointerLeave())
	assert.True(t, c.CanUndo())
	assert.False(t, c.Drawing())
}

func TestPanToolMovesViewWithoutHistory(t *testing.T) {
	c := newTestController(t)
	c.SetTool(state.ToolPan)
	drag(t, c, r2.Vec{X: 10, Y: 10}, r2.Vec{X: 20, Y: 15}, r2.Vec{X: 30, Y: 25})

	assert.Equal(t, r2.Vec{X: 20, Y: 15}, c.ViewState().Pan())
	assert.False(t, c.CanUndo())
	assert.Equal(t, make([]byte, 120*80*4), c.Snapshot().Pix)
}

func TestTextToolNeedsContent(t *testing.T) {
	c := newTestController(t)
	c.SetTool(state.ToolText)
	drag(t, c, r2.Vec{X: 10, Y: 10})
	assert.False(t, c.CanUndo())

	c.SetText("hello")
	drag(t, c, r2.Vec{X: 10, Y: 10})
	assert.True(t, c.CanUndo())
}

func TestHistoryCallback(t *testing.T) {
	c := newTestController(t)
	var calls [][2]bool
	c.OnHistoryChange(func(canUndo, canRedo bool) {
		// the lock is released before the callback runs
		_ = c.CanUndo()
		calls = append(calls, [2]bool{canUndo, canRedo})
	})

	drag(t, c, r2.Vec{X: 10, Y: 10})
	_, err := c.Undo()
	require.NoError(t, err)
	_, err = c.Redo()
	require.NoError(t, err)
	require.NoError(t, c.Clear())

	assert.Equal(t, [][2]bool{
		{true, false},
		{false, true},
		{true, false},
		{true, false},
	}, calls)
}

func TestRenderFrame(t *testing.T) {
	c := newTestController(t)
	frame := c.Render(200, 100)
	assert.Equal(t, image.Rect(0, 0, 200, 100), frame.Bounds())
	// grid line at x=0 with the default grid color
	assert.Equal(t, color.RGBA{0xe0, 0xe0, 0xe0, 0xff}, frame.RGBAAt(0, 5))

	c.ToggleGrid(false)
	assert.False(t, c.GridEnabled())
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, c.Render(200, 100).RGBAAt(0, 5))
}

func TestExportLeavesHistoryAlone(t *testing.T) {
	c := newTestController(t)
	drag(t, c, r2.Vec{X: 10, Y: 10})

	data, err := c.ExportImage()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 120, 80), img.Bounds())

	var pdf bytes.Buffer
	require.NoError(t, c.ExportPDF(&pdf))
	assert.True(t, bytes.HasPrefix(pdf.Bytes(), []byte("%PDF-")))

	assert.True(t, c.CanUndo())
	assert.False(t, c.CanRedo())
}

func TestFailedRestoreKeepsBufferAndCursor(t *testing.T) {
	c := newTestController(t)
	drag(t, c, r2.Vec{X: 10, Y: 10})
	drag(t, c, r2.Vec{X: 40, Y: 40})
	drag(t, c, r2.Vec{X: 70, Y: 60})
	_, err := c.Undo()
	require.NoError(t, err)

	// a buffer the stored snapshots no longer fit
	c.buf = image.NewRGBA(image.Rect(0, 0, 10, 10))
	c.buf.Pix[0] = 7
	before := append([]byte(nil), c.buf.Pix...)
	cursor := c.history.Cursor()

	calls := 0
	c.OnHistoryChange(func(bool, bool) { calls++ })

	ok, err := c.Undo()
	assert.False(t, ok)
	assert.ErrorIs(t, err, state.ErrSnapshotMismatch)
	assert.Equal(t, cursor, c.history.Cursor())
	assert.True(t, c.CanUndo())
	assert.True(t, c.CanRedo())
	assert.Equal(t, before, c.buf.Pix)

	ok, err = c.Redo()
	assert.False(t, ok)
	assert.ErrorIs(t, err, state.ErrSnapshotMismatch)
	assert.Equal(t, cursor, c.history.Cursor())
	assert.Equal(t, before, c.buf.Pix)

	assert.Zero(t, calls, "no history change is reported")
}

func TestHistoryLimitFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Canvas.Width, cfg.Canvas.Height = 120, 80
	cfg.History.Limit = 3
	c := New(cfg)

	for i := 0; i < 5; i++ {
		drag(t, c, r2.Vec{X: float64(10 + i*20), Y: 40})
	}
	undone := 0
	for {
		ok, err := c.Undo()
		require.NoError(t, err)
		if !ok {
			break
		}
		undone++
	}
	assert.Equal(t, 2, undone, "only the newest entries are kept")
	assert.NotZero(t, alphaAt(c.Snapshot(), 50, 40), "oldest kept entry still has earlier strokes")
}
