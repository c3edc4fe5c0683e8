package audio

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/crlotwhite/pianoroll/core/model"
	"github.com/crlotwhite/pianoroll/core/timing"
	game_log "github.com/crlotwhite/pianoroll/internal/log"
)

// OtoEngine plays rendered buffers through the system audio device. The oto
// context is created lazily on first Play; a context whose sample rate was
// fixed by the first buffer rejects buffers at other rates.
type OtoEngine struct {
	logger *game_log.Logger
	now    func() time.Time

	octx    *oto.Context
	ctxRate int
	player  *oto.Player
	playing bool
	started time.Time
	length  time.Duration
}

func NewOtoEngine(logger *game_log.Logger) *OtoEngine {
	return &OtoEngine{logger: logger, now: time.Now}
}

func (e *OtoEngine) RenderOffline(ctx context.Context, notes []model.Note, tc model.TimingContext) (*Buffer, error) {
	samples, err := renderSine(ctx, notes, tc.SampleRate)
	if err != nil {
		return nil, err
	}
	e.logger.Debugf("[AUDIO] Rendered %d samples for %d notes", len(samples), len(notes))
	return &Buffer{Samples: samples, SampleRate: tc.SampleRate}, nil
}

func (e *OtoEngine) ensureContext(sampleRate int) error {
	if e.octx != nil {
		if e.ctxRate != sampleRate {
			return fmt.Errorf("audio context runs at %d Hz, buffer is %d Hz", e.ctxRate, sampleRate)
		}
		return nil
	}
	octx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}
	<-ready
	e.octx = octx
	e.ctxRate = sampleRate
	return nil
}

func (e *OtoEngine) Play(b *Buffer) error {
	if err := e.ensureContext(b.SampleRate); err != nil {
		return err
	}
	e.Stop()

	pcm := make([]byte, 2*len(b.Samples))
	for i, v := range b.Samples {
		s := int16(v * 32767)
		pcm[2*i] = byte(s)
		pcm[2*i+1] = byte(s >> 8)
	}
	e.player = e.octx.NewPlayer(bytes.NewReader(pcm))
	e.player.Play()
	e.playing = true
	e.started = e.now()
	e.length = b.Duration()
	e.logger.Infof("[AUDIO] Playback started: %v", e.length)
	return nil
}

func (e *OtoEngine) Stop() {
	if e.player != nil {
		e.player.Close()
		e.player = nil
	}
	e.playing = false
}

func (e *OtoEngine) PositionFlicks() float64 {
	if !e.playing {
		return 0
	}
	elapsed := e.now().Sub(e.started)
	if elapsed >= e.length {
		e.Stop()
		return 0
	}
	return elapsed.Seconds() * timing.FlicksPerSecond
}

func (e *OtoEngine) IsPlaying() bool {
	e.PositionFlicks()
	return e.playing
}

func (e *OtoEngine) Close() error {
	e.Stop()
	return nil
}
