package ui

import (
	"testing"

	"github.com/crlotwhite/pianoroll/core/timing"
)

func down(wx, wy float64) PointerEvent {
	return PointerEvent{Kind: PointerDown, WorldX: wx, WorldY: wy}
}

func move(wx, wy float64) PointerEvent {
	return PointerEvent{Kind: PointerMove, WorldX: wx, WorldY: wy}
}

func up(wx, wy float64) PointerEvent {
	return PointerEvent{Kind: PointerUp, WorldX: wx, WorldY: wy}
}

func TestDrawCreatesSnappedNote(t *testing.T) {
	store := newTestStore()
	c := newTestController(store)
	c.SetMode(ModeDraw)
	v := testViewport()
	v.Snap = "1/8"

	// Pointer at x=100 inside the 80..120 cell: the note starts at the cell
	// boundary under the pointer, one cell long.
	c.PointerDown(down(100, v.YForPitch(60)+5), "", v)
	c.PointerUp(up(100, 0), v)

	notes := store.Notes()
	if len(notes) != 1 {
		t.Fatalf("store has %d notes, want 1", len(notes))
	}
	n := notes[0]
	if n.Start != 80 || n.Duration != 40 {
		t.Fatalf("created note start=%v dur=%v, want 80/40", n.Start, n.Duration)
	}
	if n.Pitch != 60 {
		t.Fatalf("created note pitch=%d, want 60", n.Pitch)
	}
	if !store.IsSelected(n.ID) {
		t.Fatal("created note not selected")
	}
}

func TestCreateThenResizeToNearestCell(t *testing.T) {
	store := newTestStore()
	c := newTestController(store)
	c.SetMode(ModeDraw)
	v := testViewport()
	v.Snap = "1/8"

	c.PointerDown(down(100, v.YForPitch(60)+5), "", v)
	if !c.Mouse().IsCreatingNote || !c.Mouse().IsResizing {
		t.Fatalf("after draw-down mouse state = %+v, want creating+resizing", c.Mouse())
	}

	// Dragging to x=300 puts the raw duration at 220, which snaps up to 240.
	c.PointerMove(move(300, v.YForPitch(60)+5), "", v)
	c.PointerUp(up(300, 0), v)

	n := store.Notes()[0]
	if n.Duration != 240 {
		t.Fatalf("resized duration = %v, want 240", n.Duration)
	}
	if c.Mouse() != (MouseState{}) {
		t.Fatalf("mouse state not reset: %+v", c.Mouse())
	}
}

func TestUndersizedCreateDiscarded(t *testing.T) {
	store := newTestStore()
	c := newTestController(store)
	c.SetMode(ModeDraw)
	v := testViewport()
	v.Snap = "1/4"

	c.PointerDown(down(100, v.YForPitch(60)+5), "", v)
	// Shrink below half a cell (cell=80, min=40) before releasing.
	c.PointerMove(move(c.Mouse().ResizeAnchor+3, v.YForPitch(60)+5), "", v)
	c.PointerUp(up(0, 0), v)

	if store.Len() != 0 {
		t.Fatalf("store has %d notes, want 0 (undersized create discarded)", store.Len())
	}
}

func TestEraseRemovesNote(t *testing.T) {
	store := newTestStore()
	c := newTestController(store)
	v := testViewport()
	n := addNote(store, 80, 80, 60, v)

	c.SetMode(ModeErase)
	c.PointerDown(down(100, v.YForPitch(60)+5), n.ID, v)

	if store.Len() != 0 {
		t.Fatal("erased note still present")
	}
	if store.IsSelected(n.ID) {
		t.Fatal("erased note still selected")
	}
}

func TestEmptyClickClearsSelectionUnlessShift(t *testing.T) {
	store := newTestStore()
	c := newTestController(store)
	v := testViewport()
	n := addNote(store, 80, 80, 60, v)
	store.SelectOnly(n.ID)

	shifted := down(400, 400)
	shifted.Shift = true
	c.PointerDown(shifted, "", v)
	if !store.IsSelected(n.ID) {
		t.Fatal("shift-click on empty space cleared selection")
	}

	c.PointerDown(down(400, 400), "", v)
	if store.IsSelected(n.ID) {
		t.Fatal("plain click on empty space kept selection")
	}
}

func TestShiftClickExtendsSelection(t *testing.T) {
	store := newTestStore()
	c := newTestController(store)
	v := testViewport()
	a := addNote(store, 0, 80, 60, v)
	b := addNote(store, 160, 80, 64, v)
	store.SelectOnly(a.ID)

	ev := down(170, v.YForPitch(64)+5)
	ev.Shift = true
	c.PointerDown(ev, b.ID, v)
	c.PointerUp(up(170, 0), v)

	if !store.IsSelected(a.ID) || !store.IsSelected(b.ID) {
		t.Fatalf("selection = %v, want both notes", store.Selection())
	}
}

func TestDragMovesSelectionPreservingDuration(t *testing.T) {
	store := newTestStore()
	c := newTestController(store)
	v := testViewport()
	dragged := addNote(store, 80, 160, 60, v)
	other := addNote(store, 400, 80, 64, v)
	store.SelectOnly(dragged.ID)

	// Grab the note 10px in from its start so the grab offset is preserved.
	c.PointerDown(down(90, v.YForPitch(60)+5), dragged.ID, v)
	if !c.Mouse().IsDragging {
		t.Fatalf("mouse state = %+v, want dragging", c.Mouse())
	}
	// Pointer to 250: start snaps to round((250-10)/80)*80 = 240.
	c.PointerMove(move(250, v.YForPitch(62)+5), dragged.ID, v)
	c.PointerUp(up(250, 0), v)

	got, _ := store.Get(dragged.ID)
	if got.Start != 240 {
		t.Fatalf("dragged start = %v, want 240", got.Start)
	}
	if got.Duration != 160 {
		t.Fatalf("drag changed duration: %v, want 160", got.Duration)
	}
	if got.Pitch != 62 {
		t.Fatalf("dragged pitch = %d, want 62", got.Pitch)
	}
	o, _ := store.Get(other.ID)
	if o.Start != 400 || o.Pitch != 64 || o.Duration != 80 {
		t.Fatalf("unselected note moved: %+v", o)
	}
}

func TestDragClampsStartAndPitch(t *testing.T) {
	store := newTestStore()
	c := newTestController(store)
	v := testViewport()
	n := addNote(store, 80, 80, 1, v)
	store.SelectOnly(n.ID)

	c.PointerDown(down(100, v.YForPitch(1)+5), n.ID, v)
	// Far off the bottom-left of the grid.
	c.PointerMove(move(-500, v.YForPitch(0)+500), n.ID, v)
	c.PointerUp(up(0, 0), v)

	got, _ := store.Get(n.ID)
	if got.Start != 0 {
		t.Fatalf("start = %v, want clamped to 0", got.Start)
	}
	if got.Pitch != 0 {
		t.Fatalf("pitch = %d, want clamped to 0", got.Pitch)
	}
}

func TestResizeExistingNoteFromEdge(t *testing.T) {
	store := newTestStore()
	c := newTestController(store)
	v := testViewport()
	n := addNote(store, 80, 80, 60, v)

	// ppb=80 puts the edge threshold at 10px; x=155 is within it.
	c.PointerDown(down(155, v.YForPitch(60)+5), n.ID, v)
	if !c.Mouse().IsResizing || c.Mouse().IsCreatingNote {
		t.Fatalf("mouse state = %+v, want plain resize", c.Mouse())
	}
	// Raw duration 10 floors at one cell.
	c.PointerMove(move(90, v.YForPitch(60)+5), n.ID, v)
	c.PointerUp(up(90, 0), v)

	got, _ := store.Get(n.ID)
	if got.Duration != 80 {
		t.Fatalf("duration = %v, want one-cell floor of 80", got.Duration)
	}
	if store.Len() != 1 {
		t.Fatal("plain resize must never discard the note")
	}
}

func TestEdgeThresholdClamp(t *testing.T) {
	cases := []struct {
		ppb  float64
		want float64
	}{
		{16, 5},   // 2 clamps up
		{40, 5},   // boundary
		{80, 10},  // within range
		{120, 15}, // boundary
		{200, 15}, // 25 clamps down
	}
	for _, c := range cases {
		if got := EdgeThreshold(c.ppb); got != c.want {
			t.Errorf("EdgeThreshold(%v) = %v, want %v", c.ppb, got, c.want)
		}
	}
}

func TestHoverNearEdgeFlag(t *testing.T) {
	store := newTestStore()
	c := newTestController(store)
	v := testViewport()
	n := addNote(store, 80, 80, 60, v)

	redraws := 0
	c.OnRedraw = func() { redraws++ }

	c.PointerMove(move(155, v.YForPitch(60)+5), n.ID, v)
	if !c.Mouse().NearEdge {
		t.Fatal("NearEdge not set near the trailing edge")
	}
	if redraws != 1 {
		t.Fatalf("redraws = %d, want 1", redraws)
	}
	// Same zone again: no redundant redraw.
	c.PointerMove(move(156, v.YForPitch(60)+5), n.ID, v)
	if redraws != 1 {
		t.Fatalf("redraws after repeat hover = %d, want 1", redraws)
	}
	c.PointerMove(move(100, v.YForPitch(60)+5), n.ID, v)
	if c.Mouse().NearEdge {
		t.Fatal("NearEdge still set away from the edge")
	}
}

func TestPositionInfoCallback(t *testing.T) {
	store := newTestStore()
	c := newTestController(store)
	v := testViewport()

	var gotMeasure, gotBeat, gotPitch int
	var gotName string
	c.OnPositionInfo = func(info timing.MeasureInfo, pitch int, name string) {
		gotMeasure, gotBeat = info.Measure, info.Beat
		gotPitch, gotName = pitch, name
	}

	c.PointerMove(move(160, v.YForPitch(60)+5), "", v)
	if gotMeasure != 1 || gotBeat != 3 {
		t.Fatalf("measure/beat = %d/%d, want 1/3", gotMeasure, gotBeat)
	}
	if gotPitch != 60 || gotName != "C4" {
		t.Fatalf("pitch/name = %d/%s, want 60/C4", gotPitch, gotName)
	}
}

func TestDoubleClickOpensLyricEdit(t *testing.T) {
	store := newTestStore()
	c := newTestController(store)
	v := testViewport()
	n := addNote(store, 80, 80, 60, v)
	n.Lyric = "la"

	var gotID, gotLyric string
	c.OnLyricEdit = func(id, lyric string) { gotID, gotLyric = id, lyric }

	c.DoubleClick(n.ID)
	if gotID != n.ID || gotLyric != "la" {
		t.Fatalf("lyric edit opened with %q/%q", gotID, gotLyric)
	}
}

func TestSetLyric(t *testing.T) {
	store := newTestStore()
	c := newTestController(store)
	v := testViewport()
	n := addNote(store, 80, 80, 60, v)

	changed := 0
	c.OnNotesChanged = func() { changed++ }
	c.SetLyric(n.ID, "doo")

	got, _ := store.Get(n.ID)
	if got.Lyric != "doo" {
		t.Fatalf("lyric = %q, want doo", got.Lyric)
	}
	if changed != 1 {
		t.Fatalf("OnNotesChanged fired %d times, want 1", changed)
	}
}

func TestModeChangeResetsMouseState(t *testing.T) {
	store := newTestStore()
	c := newTestController(store)
	v := testViewport()
	n := addNote(store, 80, 80, 60, v)
	store.SelectOnly(n.ID)

	c.PointerDown(down(100, v.YForPitch(60)+5), n.ID, v)
	if !c.Mouse().IsDragging {
		t.Fatal("expected drag in progress")
	}
	c.SetMode(ModeErase)
	if c.Mouse() != (MouseState{}) {
		t.Fatalf("mouse state survived mode change: %+v", c.Mouse())
	}
}
