// Package audio is the editor's boundary to audio rendering and playback.
// The editor core only depends on the Engine interface; rendering happens
// off the pointer-handling path and results come back as immutable buffers
// tagged with a generation so stale renders can be discarded.
package audio

import (
	"context"
	"time"

	"github.com/crlotwhite/pianoroll/core/model"
	"github.com/crlotwhite/pianoroll/core/timing"
)

// Engine renders a note set to audio and plays rendered buffers back,
// reporting the playhead position in flicks.
type Engine interface {
	// RenderOffline produces a buffer for the given notes. It may take a
	// while; callers must not block pointer handling on it.
	RenderOffline(ctx context.Context, notes []model.Note, tc model.TimingContext) (*Buffer, error)

	// Play starts playback of a rendered buffer from its beginning.
	Play(b *Buffer) error
	Stop()

	// PositionFlicks is the current playback position in flicks.
	PositionFlicks() float64
	IsPlaying() bool

	Close() error
}

// Buffer is an immutable mono audio rendering, samples in [-1,1].
type Buffer struct {
	Samples    []float64
	SampleRate int
	Generation uint64
}

// Duration is the buffer's wall-clock length.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / float64(b.SampleRate) * float64(time.Second))
}

// DurationFlicks is the buffer's length in flicks.
func (b *Buffer) DurationFlicks() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate) * timing.FlicksPerSecond
}

// MinMax is one waveform peak column.
type MinMax struct {
	Lo, Hi float64
}

// Peaks downsamples the buffer into the given number of min/max columns for
// waveform display.
func (b *Buffer) Peaks(columns int) []MinMax {
	if columns <= 0 || len(b.Samples) == 0 {
		return nil
	}
	out := make([]MinMax, columns)
	per := float64(len(b.Samples)) / float64(columns)
	for i := 0; i < columns; i++ {
		s0 := int(float64(i) * per)
		s1 := int(float64(i+1) * per)
		if s1 <= s0 {
			s1 = s0 + 1
		}
		if s1 > len(b.Samples) {
			s1 = len(b.Samples)
		}
		var m MinMax
		for _, v := range b.Samples[s0:s1] {
			if v < m.Lo {
				m.Lo = v
			}
			if v > m.Hi {
				m.Hi = v
			}
		}
		out[i] = m
	}
	return out
}
