package ui

import (
	"image/color"

	"github.com/crlotwhite/pianoroll/core/model"
	"github.com/crlotwhite/pianoroll/core/timing"
)

// NotesLayer draws the note rectangles and is the only layer that answers
// hit tests. Pointer events it consumes are forwarded to the interaction
// controller, which owns all mutation.
type NotesLayer struct {
	baseLayer
	store      *model.Store
	controller *Controller
}

func NewNotesLayer(store *model.Store, controller *Controller) *NotesLayer {
	return &NotesLayer{
		baseLayer:  newBaseLayer("notes", 30),
		store:      store,
		controller: controller,
	}
}

func (l *NotesLayer) Render(ctx *RenderContext) {
	v := ctx.View
	minX, maxX := v.VisibleWorldX()
	for i := range ctx.Notes {
		n := &ctx.Notes[i]
		if n.Start+n.Duration < minX || n.Start > maxX {
			continue
		}
		sx, sy := v.WorldToScreen(n.Start, v.YForPitch(n.Pitch))
		fill := velocityShade(colNote, n.Velocity)
		border := color.Color(colNoteBorder)
		if _, sel := ctx.Selection[n.ID]; sel {
			border = colNoteSelected
		}
		fillRect(ctx.Dst, sx, sy+1, n.Duration, timing.NoteHeight-2, fill, ctx.Alpha)
		strokeRect(ctx.Dst, sx, sy+1, n.Duration, timing.NoteHeight-2, 1, border, ctx.Alpha)
		if n.Lyric != "" {
			drawLabel(ctx.Dst, n.Lyric, int(sx)+2, int(sy)+timing.NoteHeight-5, colNoteLyric, ctx.Alpha)
		}
	}
}

// velocityShade scales the note fill by velocity so quiet notes read dimmer.
func velocityShade(c color.RGBA, velocity int) color.RGBA {
	f := 0.4 + 0.6*float64(velocity)/127.0
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: c.A,
	}
}

// HitTest finds the topmost note under the pointer. Points within the edge
// threshold of a note's trailing end report as "note-edge" with a horizontal
// resize cursor.
func (l *NotesLayer) HitTest(worldX, worldY float64, v Viewport) (HitResult, bool) {
	notes := l.store.Notes()
	for i := len(notes) - 1; i >= 0; i-- {
		n := &notes[i]
		top := v.YForPitch(n.Pitch)
		if worldY < top || worldY >= top+timing.NoteHeight {
			continue
		}
		th := EdgeThreshold(v.PixelsPerBeat)
		end := n.Start + n.Duration
		if worldX >= n.Start && worldX < end {
			res := HitResult{LayerID: l.id, ElementID: n.ID, ElementType: "note", Cursor: CursorPointer}
			if worldX >= end-th {
				res.ElementType = "note-edge"
				res.Cursor = CursorResizeH
			}
			return res, true
		}
	}
	return HitResult{}, false
}

func (l *NotesLayer) HandleEvent(ev PointerEvent, v Viewport) bool {
	res, ok := l.HitTest(ev.WorldX, ev.WorldY, v)
	if !ok {
		return false
	}
	switch ev.Kind {
	case PointerDown:
		l.controller.PointerDown(ev, res.ElementID, v)
	case PointerDoubleClick:
		l.controller.DoubleClick(res.ElementID)
	default:
		return false
	}
	return true
}
