package ui

import (
	"image"

	"github.com/fogleman/gg"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/crlotwhite/pianoroll/core/timing"
)

// WaveformLayer paints min/max peak columns of the most recently rendered
// audio buffer behind the notes. The raster is built CPU-side with gg and
// cached; it is rebuilt only when the scroll, zoom, size or buffer
// generation changes. The layer never hit-tests.
type WaveformLayer struct {
	baseLayer

	samples    []float64
	sampleRate int
	generation uint64

	cache    *ebiten.Image
	cacheKey waveformKey
}

type waveformKey struct {
	scrollX, ppb, tempo float64
	w, h                int
	generation          uint64
}

func NewWaveformLayer() *WaveformLayer {
	return &WaveformLayer{baseLayer: newBaseLayer("waveform", 10)}
}

// SetBuffer swaps in a newly rendered audio buffer. Buffers arrive with a
// monotonically increasing generation; an older generation than the current
// one is stale and ignored.
func (l *WaveformLayer) SetBuffer(samples []float64, sampleRate int, generation uint64) {
	if generation < l.generation {
		return
	}
	l.samples = samples
	l.sampleRate = sampleRate
	l.generation = generation
	l.cache = nil
}

func (l *WaveformLayer) Render(ctx *RenderContext) {
	if len(l.samples) == 0 || l.sampleRate <= 0 {
		return
	}
	v := ctx.View
	key := waveformKey{
		scrollX:    v.ScrollX,
		ppb:        v.PixelsPerBeat,
		tempo:      v.Tempo,
		w:          v.W,
		h:          v.H,
		generation: l.generation,
	}
	if l.cache == nil || key != l.cacheKey {
		l.cache = newImageFromImage(l.raster(v))
		l.cacheKey = key
	}
	if l.cache != nil {
		drawImage(ctx.Dst, l.cache, 0, 0, ctx.Alpha)
	}
}

// raster draws one min/max column per screen pixel, centered vertically.
func (l *WaveformLayer) raster(v Viewport) image.Image {
	dc := gg.NewContext(v.W, v.H)
	mid := float64(v.H) / 2
	amp := float64(v.H) / 2
	dc.SetColor(colWaveform)
	dc.SetLineWidth(1)
	for x := 0; x < v.W; x++ {
		worldX := v.ScrollX + float64(x)
		if worldX < 0 {
			continue
		}
		s0 := timing.PixelsToSamples(worldX, v.PixelsPerBeat, v.Tempo, l.sampleRate)
		s1 := timing.PixelsToSamples(worldX+1, v.PixelsPerBeat, v.Tempo, l.sampleRate)
		if s0 >= len(l.samples) {
			break
		}
		if s1 <= s0 {
			s1 = s0 + 1
		}
		if s1 > len(l.samples) {
			s1 = len(l.samples)
		}
		lo, hi := peak(l.samples[s0:s1])
		dc.DrawLine(float64(x), mid-hi*amp, float64(x), mid-lo*amp)
		dc.Stroke()
	}
	return dc.Image()
}

func peak(s []float64) (lo, hi float64) {
	for _, v := range s {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo < -1 {
		lo = -1
	}
	if hi > 1 {
		hi = 1
	}
	return lo, hi
}

func (l *WaveformLayer) HitTest(worldX, worldY float64, v Viewport) (HitResult, bool) {
	return HitResult{}, false
}

func (l *WaveformLayer) HandleEvent(ev PointerEvent, v Viewport) bool { return false }
