package ui

import (
	"math"

	"github.com/crlotwhite/pianoroll/core/model"
	"github.com/crlotwhite/pianoroll/core/quantize"
	"github.com/crlotwhite/pianoroll/core/timing"
)

// Viewport is the read-only snapshot of the visible editor window passed to
// every render and hit-test call. It is owned by the Editor; layers never
// mutate it.
type Viewport struct {
	W, H             int
	ScrollX, ScrollY float64 // world px scrolled off the left/top edge
	PixelsPerBeat    float64
	Tempo            float64
	TimeSignature    model.TimeSignature
	PlayheadFlicks   float64
	Playing          bool
	Snap             quantize.Setting
	SampleRate       int
	PPQN             int
}

// ScreenToWorld converts screen coordinates to world coordinates. Zoom is
// baked into the pixel unit itself, so the transform is a pure scroll offset.
func (v Viewport) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	return sx + v.ScrollX, sy + v.ScrollY
}

// WorldToScreen converts world coordinates to screen coordinates.
func (v Viewport) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return wx - v.ScrollX, wy - v.ScrollY
}

// PitchAtY returns the MIDI pitch of the row containing world Y. Pitch 127
// occupies the topmost row.
func (v Viewport) PitchAtY(wy float64) int {
	p := timing.TotalPitches - 1 - int(math.Floor(wy/timing.NoteHeight))
	return model.ClampPitch(p)
}

// YForPitch returns the world Y of the top of the given pitch row.
func (v Viewport) YForPitch(pitch int) float64 {
	return float64(timing.TotalPitches-1-model.ClampPitch(pitch)) * timing.NoteHeight
}

// VisibleWorldX returns the world X range covered by the viewport.
func (v Viewport) VisibleWorldX() (minX, maxX float64) {
	return v.ScrollX, v.ScrollX + float64(v.W)
}

// TimingContext bundles the viewport's conversion parameters.
func (v Viewport) TimingContext() model.TimingContext {
	return model.TimingContext{
		PixelsPerBeat: v.PixelsPerBeat,
		Tempo:         v.Tempo,
		SampleRate:    v.SampleRate,
		PPQN:          v.PPQN,
	}
}

// PlayheadX returns the playhead position in world pixels.
func (v Viewport) PlayheadX() float64 {
	return timing.FlicksToPixels(v.PlayheadFlicks, v.PixelsPerBeat, v.Tempo)
}
