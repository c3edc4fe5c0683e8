package model

import (
	"encoding/json"
	"fmt"

	"github.com/crlotwhite/pianoroll/core/timing"
)

// TimeSignature is the musical meter carried by a document.
type TimeSignature struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

// Document is the wire shape of a whole piano-roll state as exchanged with a
// host. Note derived-timing fields in the JSON are informational only: they
// are always recomputed from start/duration on load, whether present or not.
type Document struct {
	Notes         []Note
	Tempo         float64
	TimeSignature TimeSignature
	EditMode      string
	SnapSetting   string
	PixelsPerBeat float64
	SampleRate    int
	PPQN          int
}

// TimingContext derives the conversion parameters from the document header.
func (d *Document) TimingContext() TimingContext {
	return TimingContext{
		PixelsPerBeat: d.PixelsPerBeat,
		Tempo:         d.Tempo,
		SampleRate:    d.SampleRate,
		PPQN:          d.PPQN,
	}
}

type noteJSON struct {
	ID       string  `json:"id"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Pitch    int     `json:"pitch"`
	Velocity int     `json:"velocity"`

	StartFlicks     *float64 `json:"startFlicks,omitempty"`
	DurationFlicks  *float64 `json:"durationFlicks,omitempty"`
	StartSeconds    *float64 `json:"startSeconds,omitempty"`
	DurationSeconds *float64 `json:"durationSeconds,omitempty"`
	EndSeconds      *float64 `json:"endSeconds,omitempty"`
	StartBeats      *float64 `json:"startBeats,omitempty"`
	DurationBeats   *float64 `json:"durationBeats,omitempty"`
	StartTicks      *int     `json:"startTicks,omitempty"`
	DurationTicks   *int     `json:"durationTicks,omitempty"`
	StartSample     *int     `json:"startSample,omitempty"`
	DurationSamples *int     `json:"durationSamples,omitempty"`

	Lyric   string `json:"lyric,omitempty"`
	Phoneme string `json:"phoneme,omitempty"`
}

type documentJSON struct {
	Notes         []noteJSON    `json:"notes"`
	Tempo         float64       `json:"tempo"`
	TimeSignature TimeSignature `json:"timeSignature"`
	EditMode      string        `json:"editMode"`
	SnapSetting   string        `json:"snapSetting"`
	PixelsPerBeat float64       `json:"pixelsPerBeat,omitempty"`
	SampleRate    int           `json:"sampleRate,omitempty"`
	PPQN          int           `json:"ppqn,omitempty"`
}

// Marshal serializes the document, emitting every derived timing field.
func (d *Document) Marshal() ([]byte, error) {
	out := documentJSON{
		Notes:         make([]noteJSON, 0, len(d.Notes)),
		Tempo:         d.Tempo,
		TimeSignature: d.TimeSignature,
		EditMode:      d.EditMode,
		SnapSetting:   d.SnapSetting,
		PixelsPerBeat: d.PixelsPerBeat,
		SampleRate:    d.SampleRate,
		PPQN:          d.PPQN,
	}
	for i := range d.Notes {
		n := &d.Notes[i]
		out.Notes = append(out.Notes, noteJSON{
			ID:              n.ID,
			Start:           n.Start,
			Duration:        n.Duration,
			Pitch:           n.Pitch,
			Velocity:        n.Velocity,
			StartFlicks:     &n.StartFlicks,
			DurationFlicks:  &n.DurationFlicks,
			StartSeconds:    &n.StartSeconds,
			DurationSeconds: &n.DurationSeconds,
			EndSeconds:      &n.EndSeconds,
			StartBeats:      &n.StartBeats,
			DurationBeats:   &n.DurationBeats,
			StartTicks:      &n.StartTicks,
			DurationTicks:   &n.DurationTicks,
			StartSample:     &n.StartSample,
			DurationSamples: &n.DurationSamples,
			Lyric:           n.Lyric,
			Phoneme:         n.Phoneme,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// LoadDocument parses a document, filling missing header fields with the
// editor defaults and recomputing every note's derived timing from its pixel
// position. Notes without an id are assigned a fresh one; notes with a
// non-positive duration are rejected.
func LoadDocument(data []byte) (*Document, error) {
	var in documentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parsing piano roll document: %w", err)
	}
	d := &Document{
		Tempo:         in.Tempo,
		TimeSignature: in.TimeSignature,
		EditMode:      in.EditMode,
		SnapSetting:   in.SnapSetting,
		PixelsPerBeat: in.PixelsPerBeat,
		SampleRate:    in.SampleRate,
		PPQN:          in.PPQN,
	}
	if d.Tempo <= 0 {
		d.Tempo = timing.DefaultTempo
	}
	if d.TimeSignature.Numerator <= 0 || d.TimeSignature.Denominator <= 0 {
		d.TimeSignature = TimeSignature{Numerator: 4, Denominator: 4}
	}
	if d.SnapSetting == "" {
		d.SnapSetting = "1/4"
	}
	if d.EditMode == "" {
		d.EditMode = "select"
	}
	if d.PixelsPerBeat <= 0 {
		d.PixelsPerBeat = timing.DefaultPixelsPerBeat
	}
	if d.SampleRate <= 0 {
		d.SampleRate = timing.DefaultSampleRate
	}
	if d.PPQN <= 0 {
		d.PPQN = timing.DefaultPPQN
	}

	tc := d.TimingContext()
	for i, nj := range in.Notes {
		if nj.Duration <= 0 {
			return nil, fmt.Errorf("note %d (%q): non-positive duration %v", i, nj.ID, nj.Duration)
		}
		n := Note{
			ID:       nj.ID,
			Start:    nj.Start,
			Duration: nj.Duration,
			Pitch:    clampMIDI(nj.Pitch),
			Velocity: clampMIDI(nj.Velocity),
			Lyric:    nj.Lyric,
			Phoneme:  nj.Phoneme,
		}
		if n.ID == "" {
			n.ID = NewNoteID()
		}
		n.Refresh(tc)
		d.Notes = append(d.Notes, n)
	}
	return d, nil
}
