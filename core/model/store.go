package model

import (
	"fmt"
	"sort"

	game_log "github.com/crlotwhite/pianoroll/internal/log"
)

// Store is the in-memory note collection plus the current selection set.
// It has exactly one writer (the interaction controller); rendering code only
// ever sees the snapshots returned by Notes and Selection.
type Store struct {
	notes  map[string]*Note
	order  []string // insertion order, for stable iteration
	sel    map[string]struct{}
	logger *game_log.Logger
}

func NewStore(logger *game_log.Logger) *Store {
	return &Store{
		notes:  map[string]*Note{},
		sel:    map[string]struct{}{},
		logger: logger,
	}
}

// Add inserts a note. Notes with non-positive durations are rejected here so
// no renderer ever sees a degenerate rect.
func (s *Store) Add(n *Note) error {
	if n.Duration <= 0 {
		return fmt.Errorf("rejecting note %s with non-positive duration %v", n.ID, n.Duration)
	}
	if _, exists := s.notes[n.ID]; !exists {
		s.order = append(s.order, n.ID)
	}
	s.notes[n.ID] = n
	s.logger.Debugf("[STORE] Added note %s: start=%.1f dur=%.1f pitch=%d", n.ID, n.Start, n.Duration, n.Pitch)
	return nil
}

// Remove deletes a note and drops it from the selection.
func (s *Store) Remove(id string) {
	if _, ok := s.notes[id]; !ok {
		return
	}
	delete(s.notes, id)
	delete(s.sel, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.logger.Debugf("[STORE] Removed note %s", id)
}

// Get returns the live note for id. Callers other than the interaction
// controller must not mutate it.
func (s *Store) Get(id string) (*Note, bool) {
	n, ok := s.notes[id]
	return n, ok
}

func (s *Store) Len() int { return len(s.notes) }

// Notes returns a copy of every note in insertion order. The copies are the
// per-frame read-only view handed to layers and host events.
func (s *Store) Notes() []Note {
	out := make([]Note, 0, len(s.order))
	for _, id := range s.order {
		if n, ok := s.notes[id]; ok {
			out = append(out, *n)
		}
	}
	return out
}

// NotesByStart returns the notes sorted by start position, then pitch.
func (s *Store) NotesByStart() []Note {
	out := s.Notes()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].Pitch < out[j].Pitch
	})
	return out
}

// RefreshAll recomputes every note's derived fields. Called when zoom or
// tempo changes; pixel fields stay authoritative.
func (s *Store) RefreshAll(tc TimingContext) {
	for _, n := range s.notes {
		n.Refresh(tc)
	}
	s.logger.Debugf("[STORE] Refreshed %d notes: ppb=%.0f tempo=%.0f", len(s.notes), tc.PixelsPerBeat, tc.Tempo)
}

// Rescale multiplies every note's pixel position by factor, refreshing the
// derived fields. Used when the zoom level changes so notes keep their
// musical position.
func (s *Store) Rescale(factor float64, tc TimingContext) {
	for _, n := range s.notes {
		n.Start *= factor
		n.Duration *= factor
		n.Refresh(tc)
	}
	s.logger.Debugf("[STORE] Rescaled %d notes by %.3f", len(s.notes), factor)
}

func (s *Store) Select(id string) {
	if _, ok := s.notes[id]; !ok {
		return
	}
	s.sel[id] = struct{}{}
}

func (s *Store) Deselect(id string) { delete(s.sel, id) }

// ToggleSelect flips the selection state of a note.
func (s *Store) ToggleSelect(id string) {
	if s.IsSelected(id) {
		s.Deselect(id)
		return
	}
	s.Select(id)
}

// SelectOnly collapses the selection to the single given note.
func (s *Store) SelectOnly(id string) {
	for k := range s.sel {
		delete(s.sel, k)
	}
	s.Select(id)
}

func (s *Store) ClearSelection() {
	for k := range s.sel {
		delete(s.sel, k)
	}
}

func (s *Store) IsSelected(id string) bool {
	_, ok := s.sel[id]
	return ok
}

// Selection returns a copy of the selected id set.
func (s *Store) Selection() map[string]struct{} {
	out := make(map[string]struct{}, len(s.sel))
	for id := range s.sel {
		out[id] = struct{}{}
	}
	return out
}

// SelectedNotes returns the live notes currently selected, in insertion
// order. Owned by the interaction controller; not a snapshot.
func (s *Store) SelectedNotes() []*Note {
	out := make([]*Note, 0, len(s.sel))
	for _, id := range s.order {
		if _, ok := s.sel[id]; ok {
			out = append(out, s.notes[id])
		}
	}
	return out
}
