package model

import (
	"math"
	"strings"
	"testing"
)

func TestLoadDocumentRecomputesDerived(t *testing.T) {
	// startSeconds lies on purpose: derived fields in the wire shape are not
	// authoritative and must be recomputed from start/duration.
	data := []byte(`{
		"notes": [
			{"id": "n1", "start": 160, "duration": 80, "pitch": 60, "velocity": 100, "startSeconds": 42.0},
			{"start": 0, "duration": 40, "pitch": 64, "velocity": 90, "lyric": "la"}
		],
		"tempo": 120,
		"timeSignature": {"numerator": 4, "denominator": 4},
		"editMode": "select",
		"snapSetting": "1/8",
		"pixelsPerBeat": 80
	}`)
	d, err := LoadDocument(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Notes) != 2 {
		t.Fatalf("notes=%d want 2", len(d.Notes))
	}
	n := d.Notes[0]
	if math.Abs(n.StartSeconds-1.0) > 1e-9 {
		t.Fatalf("StartSeconds=%v want recomputed 1.0", n.StartSeconds)
	}
	if d.Notes[1].ID == "" {
		t.Fatal("missing id should be generated")
	}
	if d.Notes[1].Lyric != "la" {
		t.Fatalf("lyric=%q want la", d.Notes[1].Lyric)
	}
	if d.SampleRate != 44100 || d.PPQN != 480 {
		t.Fatalf("defaults not applied: sr=%d ppqn=%d", d.SampleRate, d.PPQN)
	}
}

func TestLoadDocumentRejectsDegenerateNote(t *testing.T) {
	data := []byte(`{"notes": [{"id": "bad", "start": 0, "duration": 0, "pitch": 60, "velocity": 100}], "tempo": 120}`)
	if _, err := LoadDocument(data); err == nil {
		t.Fatal("expected error for zero-duration note")
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	tc := DefaultTimingContext()
	n, _ := NewNote(80, 40, 72, 110, tc)
	n.Lyric = "do"
	d := &Document{
		Notes:         []Note{*n},
		Tempo:         120,
		TimeSignature: TimeSignature{4, 4},
		EditMode:      "draw",
		SnapSetting:   "1/8",
		PixelsPerBeat: 80,
		SampleRate:    44100,
		PPQN:          480,
	}
	data, err := d.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"startFlicks"`, `"endSeconds"`, `"durationTicks"`, `"lyric"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("marshaled document missing %s", field)
		}
	}

	back, err := LoadDocument(data)
	if err != nil {
		t.Fatal(err)
	}
	got := back.Notes[0]
	if got.ID != n.ID || got.Start != n.Start || got.Duration != n.Duration || got.Pitch != n.Pitch {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, n)
	}
	if math.Abs(got.StartFlicks-n.StartFlicks) > 1 {
		t.Fatalf("derived flicks diverged: %v vs %v", got.StartFlicks, n.StartFlicks)
	}
	if back.EditMode != "draw" || back.SnapSetting != "1/8" {
		t.Fatalf("header mismatch: %+v", back)
	}
}

func TestLoadDocumentClampsPitch(t *testing.T) {
	data := []byte(`{"notes": [{"id": "n", "start": 0, "duration": 40, "pitch": 300, "velocity": -4}], "tempo": 120}`)
	d, err := LoadDocument(data)
	if err != nil {
		t.Fatal(err)
	}
	if d.Notes[0].Pitch != 127 || d.Notes[0].Velocity != 0 {
		t.Fatalf("pitch/velocity not clamped: %d/%d", d.Notes[0].Pitch, d.Notes[0].Velocity)
	}
}
