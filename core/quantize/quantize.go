// Package quantize derives grid-cell geometry from a snap setting and zoom
// level, and snaps raw pixel positions and durations onto that grid.
package quantize

import (
	"math"

	game_log "github.com/crlotwhite/pianoroll/internal/log"
)

// Setting is the quantization grid expressed as a fraction of a whole note
// ("1/4", "1/8", ...) or the sentinel "none" for free positioning.
type Setting string

const (
	SnapNone Setting = "none"

	// fineControlDiv is the granularity used when snapping is off. It only
	// bounds minimum note sizes; it is never a snap target.
	fineControlDiv = 32

	// minCreateFraction of a grid cell is the size below which a note
	// released right after creation is treated as an accidental click.
	minCreateFraction = 0.5

	beatsPerWholeNote = 4.0
)

// divisions maps each recognized snap setting to its note-fraction
// denominator.
var divisions = map[Setting]int{
	"1/1":  1,
	"1/2":  2,
	"1/4":  4,
	"1/8":  8,
	"1/16": 16,
	"1/32": 32,
}

// ValidSettings lists the recognized snap settings in coarse-to-fine order.
var ValidSettings = []Setting{"1/1", "1/2", "1/4", "1/8", "1/16", "1/32", SnapNone}

// Quantizer converts snap settings into pixel geometry. Unrecognized
// settings fall back to quarter-note granularity; the bad value is logged
// once so a misconfigured host is diagnosable without spamming every frame.
type Quantizer struct {
	logger *game_log.Logger
	warned map[Setting]bool
}

func New(logger *game_log.Logger) *Quantizer {
	return &Quantizer{logger: logger, warned: map[Setting]bool{}}
}

func (q *Quantizer) division(s Setting) int {
	if div, ok := divisions[s]; ok {
		return div
	}
	if !q.warned[s] {
		q.warned[s] = true
		q.logger.Warnf("[QUANTIZE] Unknown snap setting %q, falling back to 1/4", s)
	}
	return 4
}

// CellPixels returns the grid cell size in pixels for the given snap setting
// and zoom. With snapping off it returns the fine-control cell, which is
// only meaningful as a minimum-size granularity.
func (q *Quantizer) CellPixels(s Setting, pixelsPerBeat float64) float64 {
	if s == SnapNone {
		return pixelsPerBeat / fineControlDiv
	}
	return pixelsPerBeat * beatsPerWholeNote / float64(q.division(s))
}

// Snap rounds v to the nearest grid cell multiple. Identity when snapping is
// off.
func (q *Quantizer) Snap(v float64, s Setting, pixelsPerBeat float64) float64 {
	if s == SnapNone {
		return v
	}
	cell := q.CellPixels(s, pixelsPerBeat)
	if cell <= 0 {
		return v
	}
	return math.Round(v/cell) * cell
}

// SnapDown floors v to the start of the grid cell containing it. Note
// creation uses this so a new note begins at the cell under the pointer
// instead of jumping to the nearest boundary. Identity when snapping is off.
func (q *Quantizer) SnapDown(v float64, s Setting, pixelsPerBeat float64) float64 {
	if s == SnapNone {
		return v
	}
	cell := q.CellPixels(s, pixelsPerBeat)
	if cell <= 0 {
		return v
	}
	return math.Floor(v/cell) * cell
}

// SnapDuration snaps a duration like Snap but never returns less than one
// grid cell: a note cannot be created shorter than one grid unit.
func (q *Quantizer) SnapDuration(v float64, s Setting, pixelsPerBeat float64) float64 {
	cell := q.CellPixels(s, pixelsPerBeat)
	if s == SnapNone {
		if v < cell {
			return cell
		}
		return v
	}
	snapped := q.Snap(v, s, pixelsPerBeat)
	if snapped < cell {
		return cell
	}
	return snapped
}

// InitialNoteDuration is the duration given to a freshly drawn note: one
// grid cell, or one beat with snapping off.
func (q *Quantizer) InitialNoteDuration(s Setting, pixelsPerBeat float64) float64 {
	if s == SnapNone {
		return pixelsPerBeat
	}
	return q.CellPixels(s, pixelsPerBeat)
}

// MinNotePixels is the size below which a just-created note is discarded at
// pointer-up: half a grid cell, or the fine-control cell with snapping off.
func (q *Quantizer) MinNotePixels(s Setting, pixelsPerBeat float64) float64 {
	cell := q.CellPixels(s, pixelsPerBeat)
	if s == SnapNone {
		return cell
	}
	return cell * minCreateFraction
}
