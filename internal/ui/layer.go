package ui

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/crlotwhite/pianoroll/core/model"
)

// RenderContext is the per-frame input to every layer's Render call. Layers
// treat everything here as read-only except their own cached buffers.
type RenderContext struct {
	Dst       *ebiten.Image
	View      Viewport
	Alpha     float32 // the layer's opacity, applied by the draw helpers
	Notes     []model.Note
	Selection map[string]struct{}
}

// HitResult identifies what a hit-test found under the pointer.
type HitResult struct {
	LayerID     string
	ElementID   string
	ElementType string
	Cursor      CursorHint
}

// Layer is one drawable surface in the compositing stack.
//
// Render must not mutate shared state other than the layer's own caches.
// HitTest is side-effect free. HandleEvent may mutate the layer's model and
// reports whether it consumed the event.
type Layer interface {
	ID() string
	Visible() bool
	SetVisible(bool)
	Opacity() float64
	SetOpacity(float64)
	ZIndex() int

	Render(ctx *RenderContext)
	HitTest(worldX, worldY float64, v Viewport) (HitResult, bool)
	HandleEvent(ev PointerEvent, v Viewport) bool
}

// baseLayer carries the bookkeeping every layer shares. Z-index changes go
// through the manager so paint order can be re-sorted lazily.
type baseLayer struct {
	id      string
	visible bool
	opacity float64
	z       int
}

func newBaseLayer(id string, z int) baseLayer {
	return baseLayer{id: id, visible: true, opacity: 1.0, z: z}
}

func (b *baseLayer) ID() string        { return b.id }
func (b *baseLayer) Visible() bool     { return b.visible }
func (b *baseLayer) SetVisible(v bool) { b.visible = v }
func (b *baseLayer) Opacity() float64  { return b.opacity }
func (b *baseLayer) SetOpacity(o float64) {
	if o < 0 {
		o = 0
	}
	if o > 1 {
		o = 1
	}
	b.opacity = o
}
func (b *baseLayer) ZIndex() int { return b.z }
func (b *baseLayer) setZ(z int)  { b.z = z }

// zSetter is implemented by every layer via baseLayer; the manager uses it
// so z changes always pass through its lazy re-sort bookkeeping.
type zSetter interface{ setZ(int) }
