package editor

import (
	"image/color"
	"testing"
)

func snapshotWithBrightness(b int) Snapshot {
	p := Neutral()
	p.Brightness = b
	return Snapshot{Base: makeSolidNRGBA(1, 1, color.NRGBA{A: 255}), Params: p}
}

func TestHistoryStartsWithSeedSnapshot(t *testing.T) {
	h := NewHistory(snapshotWithBrightness(100))
	if h.Len() != 1 || h.Index() != 0 {
		t.Fatalf("fresh history len=%d index=%d, want 1/0", h.Len(), h.Index())
	}
	if h.CanUndo() || h.CanRedo() {
		t.Fatalf("fresh history should have nothing to undo or redo")
	}
}

func TestHistoryBoundAfterManyCommits(t *testing.T) {
	h := NewHistory(snapshotWithBrightness(0))
	for i := 1; i <= 25; i++ {
		h.Commit(snapshotWithBrightness(i))
	}
	if h.Len() != HistoryCapacity {
		t.Fatalf("history len = %d, want %d", h.Len(), HistoryCapacity)
	}
	if h.Index() != HistoryCapacity-1 {
		t.Fatalf("history index = %d, want %d", h.Index(), HistoryCapacity-1)
	}
	if got := h.Current().Params.Brightness; got != 25 {
		t.Fatalf("current snapshot brightness = %d, want 25", got)
	}
}

func TestHistoryEvictsOldestAtCapacity(t *testing.T) {
	h := NewHistory(snapshotWithBrightness(0))
	for i := 1; i < HistoryCapacity; i++ {
		h.Commit(snapshotWithBrightness(i))
	}
	if h.Len() != HistoryCapacity {
		t.Fatalf("history len = %d, want full %d", h.Len(), HistoryCapacity)
	}
	// The 21st snapshot pushes out the seed.
	h.Commit(snapshotWithBrightness(HistoryCapacity))
	if h.Len() != HistoryCapacity {
		t.Fatalf("history len after overflow = %d, want %d", h.Len(), HistoryCapacity)
	}
	if h.Index() != HistoryCapacity-1 {
		t.Fatalf("cursor = %d, want newest entry %d", h.Index(), HistoryCapacity-1)
	}
	// Walk all the way back: the oldest reachable snapshot is now 1, not 0.
	var last Snapshot
	for {
		snap, ok := h.Undo()
		if !ok {
			break
		}
		last = snap
	}
	if last.Params.Brightness != 1 {
		t.Fatalf("oldest snapshot brightness = %d, want 1 (seed evicted)", last.Params.Brightness)
	}
}

func TestHistoryUndoRedoRoundTrip(t *testing.T) {
	h := NewHistory(snapshotWithBrightness(100))
	h.Commit(snapshotWithBrightness(120))
	h.Commit(snapshotWithBrightness(140))

	before := h.Current()
	if _, ok := h.Undo(); !ok {
		t.Fatalf("undo failed")
	}
	redone, ok := h.Redo()
	if !ok {
		t.Fatalf("redo failed")
	}
	if redone.Params != before.Params {
		t.Fatalf("round trip params = %+v, want %+v", redone.Params, before.Params)
	}
}

func TestHistoryUndoAtStartIsNoop(t *testing.T) {
	h := NewHistory(snapshotWithBrightness(100))
	if _, ok := h.Undo(); ok {
		t.Fatalf("undo at start of history should be a no-op")
	}
	if _, ok := h.Redo(); ok {
		t.Fatalf("redo at end of history should be a no-op")
	}
}

func TestHistoryCommitAfterUndoTruncatesFuture(t *testing.T) {
	h := NewHistory(snapshotWithBrightness(0)) // S0
	h.Commit(snapshotWithBrightness(1))        // S1
	h.Commit(snapshotWithBrightness(2))        // S2
	if _, ok := h.Undo(); !ok {                // cursor at S1
		t.Fatalf("undo failed")
	}
	h.Commit(snapshotWithBrightness(3)) // S3 replaces S2's branch

	if h.Len() != 3 {
		t.Fatalf("history len = %d, want 3 (S0,S1,S3)", h.Len())
	}
	if h.Index() != 2 {
		t.Fatalf("cursor = %d, want 2", h.Index())
	}
	if got := h.Current().Params.Brightness; got != 3 {
		t.Fatalf("current brightness = %d, want 3", got)
	}
	if _, ok := h.Redo(); ok {
		t.Fatalf("S2 must be unreachable after truncation")
	}
	snap, ok := h.Undo()
	if !ok || snap.Params.Brightness != 1 {
		t.Fatalf("undo after truncation = %+v ok=%v, want S1", snap.Params, ok)
	}
}
