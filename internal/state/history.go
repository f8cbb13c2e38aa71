package state

import (
	"errors"
	"fmt"
	"image"
	"log"
)

// ErrSnapshotMismatch is returned when a snapshot cannot be restored into a
// buffer because its geometry or pixel data does not match.
var ErrSnapshotMismatch = errors.New("snapshot does not match canvas")

// Snapshot is an immutable copy of the drawn pixel content.
// It never contains the grid or any view information.
type Snapshot struct {
	ID     string
	Seq    uint64
	Width  int
	Height int
	Pix    []byte
}

// Capture copies the pixels of img into a new snapshot.
func Capture(img *image.RGBA) Snapshot {
	b := img.Bounds()
	s := Snapshot{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    make([]byte, b.Dx()*b.Dy()*4),
	}
	rowLen := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+rowLen]
		copy(s.Pix[y*rowLen:(y+1)*rowLen], src)
	}
	stamp(&s)
	return s
}

// RestoreInto replaces every pixel of dst with the snapshot content.
// dst is left untouched when the snapshot does not fit it.
func (s Snapshot) RestoreInto(dst *image.RGBA) error {
	b := dst.Bounds()
	if s.Width != b.Dx() || s.Height != b.Dy() {
		return fmt.Errorf("%w: snapshot %dx%d, canvas %dx%d", ErrSnapshotMismatch, s.Width, s.Height, b.Dx(), b.Dy())
	}
	if len(s.Pix) != s.Width*s.Height*4 {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrSnapshotMismatch, len(s.Pix), s.Width, s.Height)
	}
	rowLen := s.Width * 4
	for y := 0; y < s.Height; y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowLen], s.Pix[y*rowLen:(y+1)*rowLen])
	}
	return nil
}

// HistoryLog is a linear undo/redo log of canvas snapshots.
// The cursor always satisfies 0 <= cursor < Len().
type HistoryLog struct {
	entries []Snapshot
	cursor  int
	limit   int
}

// NewHistoryLog creates a log seeded with the initial canvas. A positive
// limit caps the number of retained entries, dropping the oldest first.
func NewHistoryLog(seed Snapshot, limit int) *HistoryLog {
	return &HistoryLog{
		entries: []Snapshot{seed},
		limit:   limit,
	}
}

// Commit discards every entry after the cursor, appends s and moves the
// cursor onto it.
func (h *HistoryLog) Commit(s Snapshot) {
	for i := h.cursor + 1; i < len(h.entries); i++ {
		h.entries[i] = Snapshot{}
	}
	dropped := len(h.entries) - h.cursor - 1
	h.entries = append(h.entries[:h.cursor+1], s)
	h.cursor = len(h.entries) - 1

	if h.limit > 0 && len(h.entries) > h.limit {
		n := len(h.entries) - h.limit
		for i := 0; i < n; i++ {
			h.entries[i] = Snapshot{}
		}
		h.entries = append(h.entries[:0], h.entries[n:]...)
		h.cursor -= n
	}

	if dropped > 0 {
		log.Printf("[HISTORY] Commit %s discarded %d redo entries", s.ID, dropped)
	}
}

// Undo steps the cursor back and returns the entry it now points to.
// It reports false and leaves the log unchanged at the oldest entry.
func (h *HistoryLog) Undo() (Snapshot, bool) {
	if h.cursor == 0 {
		return Snapshot{}, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Redo steps the cursor forward and returns the entry it now points to.
// It reports false and leaves the log unchanged at the newest entry.
func (h *HistoryLog) Redo() (Snapshot, bool) {
	if h.cursor >= len(h.entries)-1 {
		return Snapshot{}, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// Current returns the entry under the cursor.
func (h *HistoryLog) Current() Snapshot {
	return h.entries[h.cursor]
}

func (h *HistoryLog) Cursor() int { return h.cursor }
func (h *HistoryLog) Len() int    { return len(h.entries) }

// CanUndo reports whether Undo would move the cursor.
func (h *HistoryLog) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo reports whether Redo would move the cursor.
func (h *HistoryLog) CanRedo() bool {
	return h.cursor < len(h.entries)-1
}
