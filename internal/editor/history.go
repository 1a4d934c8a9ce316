package editor

import "image"

// HistoryCapacity bounds the undo log; the oldest snapshot is evicted once
// the bound is exceeded.
const HistoryCapacity = 20

// Snapshot is a complete, self-sufficient record of editor state. Applying
// Params to Base reproduces the visual state at the time of capture.
type Snapshot struct {
	Base   image.Image
	Params Params
}

// History is a bounded, linear undo/redo log of snapshots plus a cursor.
// It follows the standard linear-undo model: committing while the cursor is
// not at the end discards the undone future, never branches.
type History struct {
	stack []Snapshot
	index int
}

// NewHistory seeds the log with the session's initial snapshot at index 0.
func NewHistory(initial Snapshot) *History {
	return &History{stack: []Snapshot{initial}}
}

// Commit truncates everything past the cursor, appends the snapshot, and
// moves the cursor to it. When the bound is exceeded the front entry is
// evicted and the cursor adjusted so it still addresses the new snapshot.
func (h *History) Commit(s Snapshot) {
	h.stack = append(h.stack[:h.index+1], s)
	h.index = len(h.stack) - 1
	if len(h.stack) > HistoryCapacity {
		h.stack = h.stack[1:]
		h.index--
	}
}

// Undo steps the cursor back and returns the snapshot now at the cursor for
// the caller to restore. It reports false at the start of history.
func (h *History) Undo() (Snapshot, bool) {
	if h.index == 0 {
		return Snapshot{}, false
	}
	h.index--
	return h.stack[h.index], true
}

// Redo steps the cursor forward and returns that snapshot. It reports false
// at the end of history.
func (h *History) Redo() (Snapshot, bool) {
	if h.index >= len(h.stack)-1 {
		return Snapshot{}, false
	}
	h.index++
	return h.stack[h.index], true
}

// Current returns the snapshot at the cursor.
func (h *History) Current() Snapshot {
	return h.stack[h.index]
}

// Len returns the number of snapshots held.
func (h *History) Len() int { return len(h.stack) }

// Index returns the cursor position.
func (h *History) Index() int { return h.index }

// CanUndo reports whether an earlier snapshot exists.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether an undone snapshot is still reachable.
func (h *History) CanRedo() bool { return h.index < len(h.stack)-1 }
