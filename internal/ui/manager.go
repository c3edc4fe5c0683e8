package ui

import (
	"sort"

	game_log "github.com/crlotwhite/pianoroll/internal/log"
)

// LayerManager owns the ordered layer stack. Painting walks layers ascending
// by z-index (back to front); pointer dispatch walks descending (topmost
// first), so what the user sees on top receives the click first.
type LayerManager struct {
	layers []Layer // insertion order, ties broken by it
	sorted []Layer // ascending z, rebuilt lazily
	dirty  bool
	logger *game_log.Logger
}

func NewLayerManager(logger *game_log.Logger) *LayerManager {
	return &LayerManager{logger: logger}
}

func (m *LayerManager) Add(l Layer) {
	m.layers = append(m.layers, l)
	m.dirty = true
	m.logger.Debugf("[LAYERS] Added layer %s (z=%d)", l.ID(), l.ZIndex())
}

func (m *LayerManager) Remove(id string) {
	for i, l := range m.layers {
		if l.ID() == id {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			m.dirty = true
			m.logger.Debugf("[LAYERS] Removed layer %s", id)
			return
		}
	}
}

func (m *LayerManager) Get(id string) (Layer, bool) {
	for _, l := range m.layers {
		if l.ID() == id {
			return l, true
		}
	}
	return nil, false
}

func (m *LayerManager) Len() int { return len(m.layers) }

// SetZIndex changes a layer's z and invalidates the paint order.
func (m *LayerManager) SetZIndex(id string, z int) {
	l, ok := m.Get(id)
	if !ok {
		return
	}
	if zs, ok := l.(zSetter); ok {
		zs.setZ(z)
		m.dirty = true
	}
}

// ascending returns the paint-ordered layers, re-sorting only after an
// order-affecting mutation.
func (m *LayerManager) ascending() []Layer {
	if m.dirty || m.sorted == nil {
		m.sorted = append(m.sorted[:0], m.layers...)
		sort.SliceStable(m.sorted, func(i, j int) bool {
			return m.sorted[i].ZIndex() < m.sorted[j].ZIndex()
		})
		m.dirty = false
	}
	return m.sorted
}

// Render composites all visible layers back to front. Each layer's opacity
// rides along in the context as a global paint multiplier, and a panic in
// one layer is logged without aborting the rest of the frame.
func (m *LayerManager) Render(ctx *RenderContext) {
	for _, l := range m.ascending() {
		if !l.Visible() {
			continue
		}
		ctx.Alpha = float32(l.Opacity())
		m.renderOne(l, ctx)
	}
	ctx.Alpha = 1
}

func (m *LayerManager) renderOne(l Layer, ctx *RenderContext) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Errorf("[LAYERS] Layer %s panicked during render: %v", l.ID(), r)
		}
	}()
	l.Render(ctx)
}

// HandleEvent dispatches a pointer event front to back. The first layer
// whose hit test succeeds and whose HandleEvent consumes the event
// short-circuits the chain; at most one layer handles a given event.
func (m *LayerManager) HandleEvent(ev PointerEvent, v Viewport) bool {
	asc := m.ascending()
	for i := len(asc) - 1; i >= 0; i-- {
		l := asc[i]
		if !l.Visible() {
			continue
		}
		if _, ok := m.hitOne(l, ev.WorldX, ev.WorldY, v); !ok {
			continue
		}
		if l.HandleEvent(ev, v) {
			return true
		}
	}
	return false
}

// HitAt runs the same front-to-back hit search as HandleEvent but without
// dispatching; used for cursor feedback.
func (m *LayerManager) HitAt(worldX, worldY float64, v Viewport) (HitResult, bool) {
	asc := m.ascending()
	for i := len(asc) - 1; i >= 0; i-- {
		l := asc[i]
		if !l.Visible() {
			continue
		}
		if res, ok := m.hitOne(l, worldX, worldY, v); ok {
			return res, true
		}
	}
	return HitResult{}, false
}

func (m *LayerManager) hitOne(l Layer, wx, wy float64, v Viewport) (res HitResult, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Errorf("[LAYERS] Layer %s panicked during hit test: %v", l.ID(), r)
			ok = false
		}
	}()
	return l.HitTest(wx, wy, v)
}
