// Package timing converts scalar positions between the parallel time
// representations used by the piano roll: screen pixels, musical beats,
// wall-clock seconds, MIDI ticks, audio samples and flicks.
//
// Pixels are the authoritative coordinate; every other unit is derived from
// pixels given the current zoom (pixels per beat) and tempo. All conversions
// are linear and exact inverses of each other up to floating-point rounding.
package timing

import "math"

// PixelsToBeats converts a pixel distance to beats at the given zoom.
func PixelsToBeats(px, pixelsPerBeat float64) float64 {
	return px / pixelsPerBeat
}

// BeatsToPixels converts beats to a pixel distance at the given zoom.
func BeatsToPixels(beats, pixelsPerBeat float64) float64 {
	return beats * pixelsPerBeat
}

// PixelsToSeconds converts a pixel distance to seconds.
func PixelsToSeconds(px, pixelsPerBeat, tempo float64) float64 {
	return px / pixelsPerBeat * 60.0 / tempo
}

// SecondsToPixels converts seconds to a pixel distance.
func SecondsToPixels(sec, pixelsPerBeat, tempo float64) float64 {
	return sec * tempo / 60.0 * pixelsPerBeat
}

// PixelsToFlicks converts a pixel distance to flicks. The formula is a single
// multiplicative expression rather than pixels->seconds->flicks so no
// intermediate rounding is introduced; flicks carry sub-sample precision.
func PixelsToFlicks(px, pixelsPerBeat, tempo float64) float64 {
	return px * 60.0 * FlicksPerSecond / (pixelsPerBeat * tempo)
}

// FlicksToPixels converts flicks to a pixel distance.
func FlicksToPixels(flicks, pixelsPerBeat, tempo float64) float64 {
	return flicks * pixelsPerBeat * tempo / (60.0 * FlicksPerSecond)
}

// PixelsToTicks converts a pixel distance to MIDI ticks at the given
// resolution. Ticks are rounded to the nearest pulse.
func PixelsToTicks(px, pixelsPerBeat float64, ppqn int) int {
	return int(math.Round(px / pixelsPerBeat * float64(ppqn)))
}

// TicksToPixels converts MIDI ticks to a pixel distance.
func TicksToPixels(ticks int, pixelsPerBeat float64, ppqn int) float64 {
	return float64(ticks) / float64(ppqn) * pixelsPerBeat
}

// PixelsToSamples converts a pixel distance to an audio sample count.
func PixelsToSamples(px, pixelsPerBeat, tempo float64, sampleRate int) int {
	return int(math.Round(px / pixelsPerBeat * 60.0 / tempo * float64(sampleRate)))
}

// SamplesToPixels converts an audio sample count to a pixel distance.
func SamplesToPixels(samples int, pixelsPerBeat, tempo float64, sampleRate int) float64 {
	return float64(samples) / float64(sampleRate) * tempo / 60.0 * pixelsPerBeat
}

// Times bundles every derived representation of one pixel value.
type Times struct {
	Seconds float64
	Beats   float64
	Flicks  float64
	Ticks   int
	Samples int
}

// Calculate returns all derived representations of px at once. This is the
// canonical way note timing fields are populated: deriving the five values
// from the same pixel input keeps them mutually consistent for the current
// zoom and tempo.
func Calculate(px, pixelsPerBeat, tempo float64, sampleRate, ppqn int) Times {
	return Times{
		Seconds: PixelsToSeconds(px, pixelsPerBeat, tempo),
		Beats:   PixelsToBeats(px, pixelsPerBeat),
		Flicks:  PixelsToFlicks(px, pixelsPerBeat, tempo),
		Ticks:   PixelsToTicks(px, pixelsPerBeat, ppqn),
		Samples: PixelsToSamples(px, pixelsPerBeat, tempo, sampleRate),
	}
}
