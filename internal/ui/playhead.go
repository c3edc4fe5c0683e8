package ui

// PlayheadLayer draws the playback position as a vertical line. It sits on
// top of everything and is redrawn every frame while playback is active.
type PlayheadLayer struct {
	baseLayer
}

func NewPlayheadLayer() *PlayheadLayer {
	return &PlayheadLayer{baseLayer: newBaseLayer("playhead", 40)}
}

func (l *PlayheadLayer) Render(ctx *RenderContext) {
	v := ctx.View
	sx := v.PlayheadX() - v.ScrollX
	if sx < 0 || sx > float64(v.W) {
		return
	}
	strokeLine(ctx.Dst, sx, 0, sx, float64(v.H), 2, colPlayhead, ctx.Alpha)
}

func (l *PlayheadLayer) HitTest(worldX, worldY float64, v Viewport) (HitResult, bool) {
	return HitResult{}, false
}

func (l *PlayheadLayer) HandleEvent(ev PointerEvent, v Viewport) bool { return false }
