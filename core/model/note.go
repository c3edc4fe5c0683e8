package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/crlotwhite/pianoroll/core/timing"
)

// TimingContext carries the musical parameters every derived note field is a
// function of.
type TimingContext struct {
	PixelsPerBeat float64
	Tempo         float64
	SampleRate    int
	PPQN          int
}

// DefaultTimingContext returns the editor defaults (80 px/beat, 120 BPM,
// 44.1 kHz, 480 PPQN).
func DefaultTimingContext() TimingContext {
	return TimingContext{
		PixelsPerBeat: timing.DefaultPixelsPerBeat,
		Tempo:         timing.DefaultTempo,
		SampleRate:    timing.DefaultSampleRate,
		PPQN:          timing.DefaultPPQN,
	}
}

// Note is a timed musical event. Start and Duration in pixels at the current
// zoom are the authoritative coordinates; every other timing field is derived
// from them through Refresh and must never be mutated independently.
type Note struct {
	ID       string
	Start    float64 // pixels
	Duration float64 // pixels
	Pitch    int     // MIDI pitch 0..127
	Velocity int     // 0..127
	Lyric    string
	Phoneme  string

	// Derived timing, recomputed on every position/size/zoom/tempo change.
	StartFlicks     float64
	DurationFlicks  float64
	StartSeconds    float64
	DurationSeconds float64
	EndSeconds      float64
	StartBeats      float64
	DurationBeats   float64
	StartTicks      int
	DurationTicks   int
	StartSample     int
	DurationSamples int
}

// NewNoteID returns a fresh opaque note ID. IDs embed a millisecond
// timestamp plus a random fragment and are never reused.
func NewNoteID() string {
	return "note-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + uuid.NewString()[:5]
}

// NewNote builds a note at the given pixel position with all derived fields
// populated for tc.
func NewNote(start, duration float64, pitch, velocity int, tc TimingContext) (*Note, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("note duration must be positive, got %v", duration)
	}
	n := &Note{
		ID:       NewNoteID(),
		Start:    start,
		Duration: duration,
		Pitch:    clampMIDI(pitch),
		Velocity: clampMIDI(velocity),
	}
	n.Refresh(tc)
	return n, nil
}

// Refresh recomputes every derived timing field from the authoritative pixel
// fields. Both start and duration go through the same all-representations
// calculation so the five units stay mutually consistent.
func (n *Note) Refresh(tc TimingContext) {
	st := timing.Calculate(n.Start, tc.PixelsPerBeat, tc.Tempo, tc.SampleRate, tc.PPQN)
	du := timing.Calculate(n.Duration, tc.PixelsPerBeat, tc.Tempo, tc.SampleRate, tc.PPQN)

	n.StartFlicks = st.Flicks
	n.StartSeconds = st.Seconds
	n.StartBeats = st.Beats
	n.StartTicks = st.Ticks
	n.StartSample = st.Samples

	n.DurationFlicks = du.Flicks
	n.DurationSeconds = du.Seconds
	n.DurationBeats = du.Beats
	n.DurationTicks = du.Ticks
	n.DurationSamples = du.Samples

	n.EndSeconds = n.StartSeconds + n.DurationSeconds
}

func clampMIDI(v int) int {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return v
}

// ClampPitch bounds a pitch to the MIDI range 0..127.
func ClampPitch(p int) int { return clampMIDI(p) }
