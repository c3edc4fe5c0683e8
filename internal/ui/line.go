package ui

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/hajimehoshi/ebiten/v2"
)

// LinePoint is one sample of an externally supplied data series, with X in
// world pixels and Y in the series' own unit.
type LinePoint struct {
	X, Y float64
}

// LineSeries describes one auxiliary curve (f0, loudness, ...) overlaid on
// the roll. YMin/YMax map the series' value range onto the full viewport
// height.
type LineSeries struct {
	Name   string
	Color  color.RGBA
	Width  float64
	YMin   float64
	YMax   float64
	Points []LinePoint
}

// LineLayer renders one data series. It is the generic "series" layer
// variant: one instance per externally supplied curve, all sharing this
// implementation instead of stringly-typed layer kinds. Never hit-tests.
type LineLayer struct {
	baseLayer

	series   LineSeries
	cache    *ebiten.Image
	cacheKey lineKey
	dirty    bool
}

type lineKey struct {
	scrollX float64
	w, h    int
}

func NewLineLayer(id string, series LineSeries, z int) *LineLayer {
	return &LineLayer{baseLayer: newBaseLayer(id, z), series: series, dirty: true}
}

// SetSeries replaces the curve data and invalidates the cache.
func (l *LineLayer) SetSeries(s LineSeries) {
	l.series = s
	l.dirty = true
	l.cache = nil
}

func (l *LineLayer) Series() LineSeries { return l.series }

func (l *LineLayer) Render(ctx *RenderContext) {
	if len(l.series.Points) < 2 {
		return
	}
	v := ctx.View
	key := lineKey{scrollX: v.ScrollX, w: v.W, h: v.H}
	if l.cache == nil || l.dirty || key != l.cacheKey {
		l.cache = newImageFromImage(l.raster(v))
		l.cacheKey = key
		l.dirty = false
	}
	if l.cache != nil {
		drawImage(ctx.Dst, l.cache, 0, 0, ctx.Alpha)
	}
}

func (l *LineLayer) raster(v Viewport) image.Image {
	dc := gg.NewContext(v.W, v.H)
	dc.SetColor(l.series.Color)
	width := l.series.Width
	if width <= 0 {
		width = 2
	}
	dc.SetLineWidth(width)

	span := l.series.YMax - l.series.YMin
	if span <= 0 {
		span = 1
	}
	first := true
	for _, p := range l.series.Points {
		sx := p.X - v.ScrollX
		sy := float64(v.H) * (1 - (p.Y-l.series.YMin)/span)
		if first {
			dc.MoveTo(sx, sy)
			first = false
		} else {
			dc.LineTo(sx, sy)
		}
	}
	dc.Stroke()
	return dc.Image()
}

func (l *LineLayer) HitTest(worldX, worldY float64, v Viewport) (HitResult, bool) {
	return HitResult{}, false
}

func (l *LineLayer) HandleEvent(ev PointerEvent, v Viewport) bool { return false }
