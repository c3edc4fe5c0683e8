package ui

import (
	"image/color"
	"math"
	"strconv"

	"github.com/crlotwhite/pianoroll/core/quantize"
	"github.com/crlotwhite/pianoroll/core/timing"
)

// GridLayer paints the background lattice: shaded black-key rows, pitch row
// dividers, snap-cell and beat verticals, bar lines and measure numbers.
// It never participates in hit testing; pointer events fall through it.
type GridLayer struct {
	baseLayer
	quant *quantize.Quantizer
}

func NewGridLayer(quant *quantize.Quantizer) *GridLayer {
	return &GridLayer{baseLayer: newBaseLayer("grid", 0), quant: quant}
}

// blackKey reports whether a pitch class is a black key, for row shading.
func blackKey(pitch int) bool {
	switch pitch % 12 {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}

func (g *GridLayer) Render(ctx *RenderContext) {
	v := ctx.View
	w, h := float64(v.W), float64(v.H)

	fillRect(ctx.Dst, 0, 0, w, h, colBG, ctx.Alpha)

	// pitch rows
	firstPitch := v.PitchAtY(v.ScrollY)
	lastPitch := v.PitchAtY(v.ScrollY + h)
	for p := lastPitch; p <= firstPitch; p++ {
		sy := v.YForPitch(p) - v.ScrollY
		if blackKey(p) {
			fillRect(ctx.Dst, 0, sy, w, timing.NoteHeight, colRowShade, ctx.Alpha)
		}
		strokeLine(ctx.Dst, 0, sy, w, sy, 1, colRowDivider, ctx.Alpha)
	}

	// verticals: snap cells, then beats, then bar lines on top
	minX, maxX := v.VisibleWorldX()
	cell := g.quant.CellPixels(v.Snap, v.PixelsPerBeat)
	if v.Snap != quantize.SnapNone && cell >= 4 && cell < v.PixelsPerBeat {
		g.verticals(ctx, cell, minX, maxX, h, colGridCell, 1)
	}
	g.verticals(ctx, v.PixelsPerBeat, minX, maxX, h, colGridBeat, 1)

	beatsPerBar := v.TimeSignature.Numerator
	if beatsPerBar <= 0 {
		beatsPerBar = 4
	}
	barStep := v.PixelsPerBeat * float64(beatsPerBar)
	g.verticals(ctx, barStep, minX, maxX, h, colGridBar, 2)

	// measure numbers along the top edge
	startBar := int(math.Floor(minX / barStep))
	if startBar < 0 {
		startBar = 0
	}
	endBar := int(math.Ceil(maxX / barStep))
	for b := startBar; b <= endBar; b++ {
		sx := float64(b)*barStep - v.ScrollX
		drawLabel(ctx.Dst, strconv.Itoa(b+1), int(sx)+3, 12, colGridLabel, ctx.Alpha)
	}
}

func (g *GridLayer) verticals(ctx *RenderContext, step, minX, maxX, h float64, c color.Color, width float32) {
	if step <= 0 {
		return
	}
	start := math.Floor(minX / step)
	if start < 0 {
		start = 0
	}
	for x := start * step; x <= maxX; x += step {
		sx := x - ctx.View.ScrollX
		strokeLine(ctx.Dst, sx, 0, sx, h, width, c, ctx.Alpha)
	}
}

func (g *GridLayer) HitTest(worldX, worldY float64, v Viewport) (HitResult, bool) {
	return HitResult{}, false
}

func (g *GridLayer) HandleEvent(ev PointerEvent, v Viewport) bool { return false }
