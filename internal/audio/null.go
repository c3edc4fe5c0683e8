package audio

import (
	"context"
	"time"

	"github.com/crlotwhite/pianoroll/core/model"
	"github.com/crlotwhite/pianoroll/core/timing"
)

// NullEngine renders silence-free buffers but plays nothing: playback is a
// wall-clock position over a mute buffer. It is the fallback when no audio
// device is available, keeping the editor fully interactive.
type NullEngine struct {
	now       func() time.Time
	playing   bool
	startedAt time.Time
	length    time.Duration
}

func NewNullEngine() *NullEngine {
	return &NullEngine{now: time.Now}
}

func (e *NullEngine) RenderOffline(ctx context.Context, notes []model.Note, tc model.TimingContext) (*Buffer, error) {
	samples, err := renderSine(ctx, notes, tc.SampleRate)
	if err != nil {
		return nil, err
	}
	return &Buffer{Samples: samples, SampleRate: tc.SampleRate}, nil
}

func (e *NullEngine) Play(b *Buffer) error {
	e.playing = true
	e.startedAt = e.now()
	e.length = b.Duration()
	return nil
}

func (e *NullEngine) Stop() { e.playing = false }

func (e *NullEngine) PositionFlicks() float64 {
	if !e.playing {
		return 0
	}
	elapsed := e.now().Sub(e.startedAt)
	if elapsed >= e.length {
		e.playing = false
		return 0
	}
	return elapsed.Seconds() * timing.FlicksPerSecond
}

func (e *NullEngine) IsPlaying() bool {
	// Position drives the playing flag so a finished buffer reads as stopped.
	e.PositionFlicks()
	return e.playing
}

func (e *NullEngine) Close() error { return nil }
