package ui

import (
	"image/color"
	"testing"

	"github.com/crlotwhite/pianoroll/core/quantize"
	"github.com/crlotwhite/pianoroll/core/timing"
)

func TestGridRenderDrawsLattice(t *testing.T) {
	rec, restore := stubDraw()
	defer restore()

	g := NewGridLayer(quantize.New(testLogger()))
	ctx := &RenderContext{View: testViewport(), Alpha: 1}
	g.Render(ctx)

	if rec.fills == 0 {
		t.Fatal("no background or row fills drawn")
	}
	if rec.lines == 0 {
		t.Fatal("no grid lines drawn")
	}
	if rec.labels == 0 {
		t.Fatal("no measure numbers drawn")
	}
}

func TestGridCellLinesFollowSnap(t *testing.T) {
	g := NewGridLayer(quantize.New(testLogger()))

	count := func(v Viewport) int {
		rec, restore := stubDraw()
		defer restore()
		g.Render(&RenderContext{View: v, Alpha: 1})
		return rec.lines
	}

	v := testViewport()
	v.Snap = "1/16" // 20px cells add verticals between beats
	fine := count(v)
	v.Snap = quantize.SnapNone // no snap, no cell verticals
	coarse := count(v)
	if fine <= coarse {
		t.Fatalf("1/16 grid drew %d lines, none-snap drew %d; want more with finer snap", fine, coarse)
	}
}

func TestGridNeverHits(t *testing.T) {
	g := NewGridLayer(quantize.New(testLogger()))
	if _, ok := g.HitTest(100, 100, testViewport()); ok {
		t.Fatal("grid layer claimed a hit")
	}
	if g.HandleEvent(PointerEvent{Kind: PointerDown}, testViewport()) {
		t.Fatal("grid layer consumed an event")
	}
}

func TestNotesRenderCullsOffscreen(t *testing.T) {
	v := testViewport()
	store := newTestStore()
	c := newTestController(store)
	addNote(store, 100, 80, 60, v)    // visible
	addNote(store, 5000, 80, 60, v)   // right of the viewport
	v.ScrollY = v.YForPitch(60) - 100 // keep pitch 60 on screen

	rec, restore := stubDraw()
	defer restore()

	l := NewNotesLayer(store, c)
	l.Render(&RenderContext{View: v, Alpha: 1, Notes: store.Notes(), Selection: store.Selection()})

	if rec.fills != 1 {
		t.Fatalf("drew %d note rects, want 1 (offscreen note culled)", rec.fills)
	}
}

func TestNotesRenderMarksSelectionAndLyric(t *testing.T) {
	v := testViewport()
	store := newTestStore()
	c := newTestController(store)
	n := addNote(store, 100, 80, 60, v)
	n.Lyric = "la"
	store.SelectOnly(n.ID)

	rec, restore := stubDraw()
	defer restore()

	l := NewNotesLayer(store, c)
	l.Render(&RenderContext{View: v, Alpha: 1, Notes: store.Notes(), Selection: store.Selection()})

	if rec.strokes != 1 {
		t.Fatalf("drew %d borders, want 1", rec.strokes)
	}
	if rec.labels != 1 {
		t.Fatalf("drew %d lyric labels, want 1", rec.labels)
	}
}

func TestNotesHitTest(t *testing.T) {
	v := testViewport()
	store := newTestStore()
	c := newTestController(store)
	n := addNote(store, 80, 80, 60, v)
	l := NewNotesLayer(store, c)

	y := v.YForPitch(60) + 5

	res, ok := l.HitTest(100, y, v)
	if !ok || res.ElementID != n.ID || res.ElementType != "note" || res.Cursor != CursorPointer {
		t.Fatalf("body hit = %+v ok=%v", res, ok)
	}

	// Inside the 10px edge threshold of the trailing end.
	res, ok = l.HitTest(155, y, v)
	if !ok || res.ElementType != "note-edge" || res.Cursor != CursorResizeH {
		t.Fatalf("edge hit = %+v ok=%v", res, ok)
	}

	if _, ok := l.HitTest(100, v.YForPitch(61)+5, v); ok {
		t.Fatal("hit on the wrong pitch row")
	}
	if _, ok := l.HitTest(300, y, v); ok {
		t.Fatal("hit past the note end")
	}
}

func TestNotesHitTestDeterministic(t *testing.T) {
	v := testViewport()
	store := newTestStore()
	c := newTestController(store)
	// Overlapping notes: the later insertion wins.
	addNote(store, 80, 160, 60, v)
	top := addNote(store, 120, 160, 60, v)
	l := NewNotesLayer(store, c)

	y := v.YForPitch(60) + 5
	first, ok := l.HitTest(130, y, v)
	if !ok || first.ElementID != top.ID {
		t.Fatalf("overlap hit = %+v, want most recent note", first)
	}
	for i := 0; i < 10; i++ {
		again, ok := l.HitTest(130, y, v)
		if !ok || again != first {
			t.Fatalf("hit test not deterministic: %+v vs %+v", again, first)
		}
	}
}

func TestWaveformCacheInvalidation(t *testing.T) {
	rec, restore := stubDraw()
	defer restore()

	l := NewWaveformLayer()
	samples := make([]float64, 44100)
	for i := range samples {
		samples[i] = 0.5
	}
	l.SetBuffer(samples, 44100, 1)

	v := testViewport()
	ctx := &RenderContext{View: v, Alpha: 1}
	l.Render(ctx)
	l.Render(ctx)
	if rec.uploads != 1 {
		t.Fatalf("uploads = %d, want 1 (second render served from cache)", rec.uploads)
	}
	if rec.images != 2 {
		t.Fatalf("draws = %d, want 2", rec.images)
	}

	ctx.View.ScrollX = 40
	l.Render(ctx)
	if rec.uploads != 2 {
		t.Fatalf("uploads after scroll = %d, want 2", rec.uploads)
	}

	l.SetBuffer(samples, 44100, 2)
	l.Render(ctx)
	if rec.uploads != 3 {
		t.Fatalf("uploads after new buffer = %d, want 3", rec.uploads)
	}
}

func TestWaveformIgnoresStaleBuffer(t *testing.T) {
	l := NewWaveformLayer()
	l.SetBuffer([]float64{0.5}, 44100, 5)
	l.SetBuffer([]float64{0.9, 0.9}, 44100, 3) // stale
	if len(l.samples) != 1 {
		t.Fatalf("stale buffer replaced a newer one")
	}
}

func TestWaveformEmptyBufferRendersNothing(t *testing.T) {
	rec, restore := stubDraw()
	defer restore()

	l := NewWaveformLayer()
	l.Render(&RenderContext{View: testViewport(), Alpha: 1})
	if rec.uploads != 0 || rec.images != 0 {
		t.Fatal("empty waveform still drew")
	}
}

func TestLineLayerCacheAndInvalidation(t *testing.T) {
	rec, restore := stubDraw()
	defer restore()

	series := LineSeries{
		Name:  "f0",
		Color: color.RGBA{0xff, 0x80, 0x00, 0xff},
		YMin:  0,
		YMax:  800,
		Points: []LinePoint{
			{X: 0, Y: 220}, {X: 100, Y: 440}, {X: 200, Y: 330},
		},
	}
	l := NewLineLayer("line-f0", series, 20)

	ctx := &RenderContext{View: testViewport(), Alpha: 1}
	l.Render(ctx)
	l.Render(ctx)
	if rec.uploads != 1 {
		t.Fatalf("uploads = %d, want 1", rec.uploads)
	}

	series.Points = append(series.Points, LinePoint{X: 300, Y: 550})
	l.SetSeries(series)
	l.Render(ctx)
	if rec.uploads != 2 {
		t.Fatalf("uploads after SetSeries = %d, want 2", rec.uploads)
	}
}

func TestLineLayerNeedsTwoPoints(t *testing.T) {
	rec, restore := stubDraw()
	defer restore()

	l := NewLineLayer("line-x", LineSeries{Points: []LinePoint{{X: 0, Y: 1}}}, 20)
	l.Render(&RenderContext{View: testViewport(), Alpha: 1})
	if rec.uploads != 0 {
		t.Fatal("single-point series still rastered")
	}
}

func TestPlayheadVisibility(t *testing.T) {
	l := NewPlayheadLayer()

	count := func(v Viewport) int {
		rec, restore := stubDraw()
		defer restore()
		l.Render(&RenderContext{View: v, Alpha: 1})
		return rec.lines
	}

	v := testViewport()
	// Half a second at 120 BPM is one beat: x=80, on screen.
	v.PlayheadFlicks = timing.FlicksPerSecond / 2
	if got := count(v); got != 1 {
		t.Fatalf("on-screen playhead drew %d lines, want 1", got)
	}

	v.ScrollX = 1000 // playhead scrolled off the left edge
	if got := count(v); got != 0 {
		t.Fatalf("off-screen playhead drew %d lines, want 0", got)
	}
}
