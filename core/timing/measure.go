package timing

import (
	"math"
	"strconv"
)

// MeasureParams describes the musical grid an X position is read against.
type MeasureParams struct {
	PixelsPerBeat   float64
	BeatsPerMeasure int
	PPQN            int
}

// MeasureInfo is a 1-based measure/beat position plus the tick remainder
// within the beat.
type MeasureInfo struct {
	Measure int
	Beat    int
	Tick    int
}

// XToMeasureInfo resolves a pixel X position into measure, beat and tick.
// Measures and beats are 1-based, matching what a musician reads off a
// timeline ruler.
func XToMeasureInfo(x float64, p MeasureParams) MeasureInfo {
	ppqn := p.PPQN
	if ppqn <= 0 {
		ppqn = DefaultPPQN
	}
	beatsPerMeasure := p.BeatsPerMeasure
	if beatsPerMeasure <= 0 {
		beatsPerMeasure = 4
	}
	beats := PixelsToBeats(x, p.PixelsPerBeat)
	if beats < 0 {
		beats = 0
	}
	whole := math.Floor(beats)
	return MeasureInfo{
		Measure: int(whole)/beatsPerMeasure + 1,
		Beat:    int(whole)%beatsPerMeasure + 1,
		Tick:    int(math.Round((beats - whole) * float64(ppqn))),
	}
}

var pitchNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName renders a MIDI pitch as scientific pitch notation, with middle C
// (pitch 60) as C4. Out-of-range pitches return the empty string.
func NoteName(pitch int) string {
	if pitch < 0 || pitch >= TotalPitches {
		return ""
	}
	octave := pitch/12 - 1
	return pitchNames[pitch%12] + strconv.Itoa(octave)
}
