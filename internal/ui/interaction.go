package ui

import (
	"github.com/crlotwhite/pianoroll/core/model"
	"github.com/crlotwhite/pianoroll/core/quantize"
	"github.com/crlotwhite/pianoroll/core/timing"
	game_log "github.com/crlotwhite/pianoroll/internal/log"
)

// MouseState is the interaction controller's working memory for one
// pointer-down/up cycle. It is reset to the zero value on pointer-up.
type MouseState struct {
	IsDragging     bool
	IsResizing     bool
	IsCreatingNote bool
	DraggedNoteID  string
	ResizedNoteID  string
	ResizeAnchor   float64 // resized note's start, world px
	OffsetX        float64 // pointer-to-note-origin, world px
	OffsetPitch    int     // pointer-to-note-origin, semitones
	NearEdge       bool    // hover feedback only
}

// Controller turns raw pointer events into note create/select/drag/resize/
// erase operations. It is the single writer of the note store; everything it
// mutates is re-read by layers as per-frame snapshots.
//
// Mutations fire OnNotesChanged; hover and selection feedback fire OnRedraw.
// The two are distinct so a cursor change never triggers the costlier
// downstream work (audio re-render) a note mutation does.
type Controller struct {
	store  *model.Store
	quant  *quantize.Quantizer
	logger *game_log.Logger

	mode  EditMode
	mouse MouseState

	OnNotesChanged func()
	OnRedraw       func()
	OnPositionInfo func(info timing.MeasureInfo, pitch int, noteName string)
	OnLyricEdit    func(noteID, lyric string)
}

func NewController(store *model.Store, quant *quantize.Quantizer, logger *game_log.Logger) *Controller {
	return &Controller{store: store, quant: quant, logger: logger, mode: ModeSelect}
}

func (c *Controller) Mode() EditMode { return c.mode }

func (c *Controller) SetMode(m EditMode) {
	if m == c.mode {
		return
	}
	c.logger.Debugf("[INTERACT] Edit mode %s -> %s", c.mode, m)
	c.mode = m
	c.mouse = MouseState{}
	c.redraw()
}

// Mouse returns a copy of the current interaction state, for cursor feedback
// and tests.
func (c *Controller) Mouse() MouseState { return c.mouse }

// EdgeThreshold is the pixel tolerance for treating a pointer position as
// "near" a note's trailing edge, scaled with zoom and clamped to [5,15].
func EdgeThreshold(pixelsPerBeat float64) float64 {
	th := pixelsPerBeat / 8
	if th < 5 {
		return 5
	}
	if th > 15 {
		return 15
	}
	return th
}

func nearTrailingEdge(n *model.Note, worldX, pixelsPerBeat float64) bool {
	end := n.Start + n.Duration
	th := EdgeThreshold(pixelsPerBeat)
	return worldX >= end-th && worldX <= end+th
}

func (c *Controller) notesChanged() {
	if c.OnNotesChanged != nil {
		c.OnNotesChanged()
	}
}

func (c *Controller) redraw() {
	if c.OnRedraw != nil {
		c.OnRedraw()
	}
}

// PointerDown processes a press given the hit-test result for the pointer
// position (hitID empty when the press landed on empty space).
func (c *Controller) PointerDown(ev PointerEvent, hitID string, v Viewport) {
	switch c.mode {
	case ModeDraw:
		if hitID == "" {
			c.createNote(ev, v)
		}
	case ModeErase:
		if hitID != "" {
			c.logger.Debugf("[INTERACT] Erasing note %s", hitID)
			c.store.Remove(hitID)
			c.notesChanged()
		}
	case ModeSelect:
		c.selectDown(ev, hitID, v)
	}
}

func (c *Controller) createNote(ev PointerEvent, v Viewport) {
	start := c.quant.SnapDown(ev.WorldX, v.Snap, v.PixelsPerBeat)
	if start < 0 {
		start = 0
	}
	duration := c.quant.InitialNoteDuration(v.Snap, v.PixelsPerBeat)
	pitch := v.PitchAtY(ev.WorldY)

	n, err := model.NewNote(start, duration, pitch, timing.DefaultVelocity, v.TimingContext())
	if err != nil {
		c.logger.Errorf("[INTERACT] Creating note: %v", err)
		return
	}
	if err := c.store.Add(n); err != nil {
		c.logger.Errorf("[INTERACT] Adding note: %v", err)
		return
	}
	c.store.SelectOnly(n.ID)

	// A freshly drawn note is immediately sizable by dragging its edge.
	c.mouse.IsCreatingNote = true
	c.mouse.IsResizing = true
	c.mouse.ResizedNoteID = n.ID
	c.mouse.ResizeAnchor = n.Start
	c.logger.Debugf("[INTERACT] Created note %s at start=%.1f pitch=%d", n.ID, n.Start, n.Pitch)
	c.notesChanged()
}

func (c *Controller) selectDown(ev PointerEvent, hitID string, v Viewport) {
	if hitID == "" {
		// Clicking empty space clears the selection unless shift extends it.
		if !ev.Shift && len(c.store.Selection()) > 0 {
			c.store.ClearSelection()
			c.redraw()
		}
		return
	}
	n, ok := c.store.Get(hitID)
	if !ok {
		return
	}
	if nearTrailingEdge(n, ev.WorldX, v.PixelsPerBeat) {
		c.mouse.IsResizing = true
		c.mouse.ResizedNoteID = n.ID
		c.mouse.ResizeAnchor = n.Start
		c.logger.Debugf("[INTERACT] Resizing note %s from dur=%.1f", n.ID, n.Duration)
		return
	}
	if ev.Shift {
		c.store.Select(n.ID)
	} else if !c.store.IsSelected(n.ID) {
		c.store.SelectOnly(n.ID)
	}
	c.mouse.IsDragging = true
	c.mouse.DraggedNoteID = n.ID
	c.mouse.OffsetX = n.Start - ev.WorldX
	c.mouse.OffsetPitch = n.Pitch - v.PitchAtY(ev.WorldY)
	c.redraw()
}

// PointerMove advances an in-flight drag or resize, or updates hover
// feedback when idle. hitID is the current hit-test result under the
// pointer.
func (c *Controller) PointerMove(ev PointerEvent, hitID string, v Viewport) {
	switch {
	case c.mouse.IsResizing:
		c.resizeMove(ev, v)
	case c.mouse.IsDragging:
		c.dragMove(ev, v)
	default:
		if c.mode == ModeSelect {
			c.hoverMove(ev, hitID, v)
		}
	}
	if c.OnPositionInfo != nil {
		pitch := v.PitchAtY(ev.WorldY)
		info := timing.XToMeasureInfo(ev.WorldX, timing.MeasureParams{
			PixelsPerBeat:   v.PixelsPerBeat,
			BeatsPerMeasure: v.TimeSignature.Numerator,
			PPQN:            v.PPQN,
		})
		c.OnPositionInfo(info, pitch, timing.NoteName(pitch))
	}
}

func (c *Controller) resizeMove(ev PointerEvent, v Viewport) {
	n, ok := c.store.Get(c.mouse.ResizedNoteID)
	if !ok {
		c.mouse = MouseState{}
		return
	}
	raw := ev.WorldX - c.mouse.ResizeAnchor
	var dur float64
	if c.mouse.IsCreatingNote {
		// While still in the creation gesture the one-cell floor is relaxed
		// to the fine cell, so releasing a shrunken note can discard it as an
		// accidental click.
		dur = c.quant.Snap(raw, v.Snap, v.PixelsPerBeat)
		fine := c.quant.CellPixels(quantize.SnapNone, v.PixelsPerBeat)
		if dur < fine {
			dur = fine
		}
	} else {
		dur = c.quant.SnapDuration(raw, v.Snap, v.PixelsPerBeat)
	}
	if dur == n.Duration {
		return
	}
	n.Duration = dur
	n.Refresh(v.TimingContext())
	c.notesChanged()
}

func (c *Controller) dragMove(ev PointerEvent, v Viewport) {
	anchor, ok := c.store.Get(c.mouse.DraggedNoteID)
	if !ok {
		c.mouse = MouseState{}
		return
	}
	newStart := c.quant.Snap(ev.WorldX+c.mouse.OffsetX, v.Snap, v.PixelsPerBeat)
	if newStart < 0 {
		newStart = 0
	}
	newPitch := model.ClampPitch(v.PitchAtY(ev.WorldY) + c.mouse.OffsetPitch)

	deltaX := newStart - anchor.Start
	deltaP := newPitch - anchor.Pitch
	if deltaX == 0 && deltaP == 0 {
		return
	}
	tc := v.TimingContext()
	for _, n := range c.store.SelectedNotes() {
		n.Start += deltaX
		if n.Start < 0 {
			n.Start = 0
		}
		n.Pitch = model.ClampPitch(n.Pitch + deltaP)
		n.Refresh(tc)
	}
	c.notesChanged()
}

func (c *Controller) hoverMove(ev PointerEvent, hitID string, v Viewport) {
	near := false
	if hitID != "" {
		if n, ok := c.store.Get(hitID); ok {
			near = nearTrailingEdge(n, ev.WorldX, v.PixelsPerBeat)
		}
	}
	if near != c.mouse.NearEdge {
		c.mouse.NearEdge = near
		c.redraw()
	}
}

// PointerUp ends the cycle: a created note that never reached the minimum
// size is treated as an accidental click and discarded, and all mode flags
// reset to idle.
func (c *Controller) PointerUp(ev PointerEvent, v Viewport) {
	if c.mouse.IsCreatingNote {
		if n, ok := c.store.Get(c.mouse.ResizedNoteID); ok {
			min := c.quant.MinNotePixels(v.Snap, v.PixelsPerBeat)
			if n.Duration < min {
				c.logger.Debugf("[INTERACT] Discarding undersized note %s (dur=%.1f < %.1f)", n.ID, n.Duration, min)
				c.store.Remove(n.ID)
				c.notesChanged()
			}
		}
	}
	if c.mouse != (MouseState{}) {
		c.mouse = MouseState{}
		c.redraw()
	}
}

// DoubleClick opens the note for lyric editing; the editing itself is
// delegated to the host.
func (c *Controller) DoubleClick(hitID string) {
	if hitID == "" || c.OnLyricEdit == nil {
		return
	}
	if n, ok := c.store.Get(hitID); ok {
		c.OnLyricEdit(n.ID, n.Lyric)
	}
}

// SetLyric applies host-edited lyric text to a note. Text-only change, so
// derived timing is untouched.
func (c *Controller) SetLyric(noteID, lyric string) {
	n, ok := c.store.Get(noteID)
	if !ok {
		return
	}
	n.Lyric = lyric
	c.notesChanged()
}
