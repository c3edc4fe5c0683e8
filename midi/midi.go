// Package midi converts between the editor's note model and Standard MIDI
// Files. Ticks are the shared currency: notes already carry tick positions
// derived from their pixel coordinates, and imports come back as pixels
// through the same conversion.
package midi

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/crlotwhite/pianoroll/core/model"
	"github.com/crlotwhite/pianoroll/core/timing"
)

const exportChannel = 0

// Export builds a two-track SMF: a tempo/meter track and one note track.
// Note on/off events come from the notes' tick fields, so the file reflects
// exactly what the editor displays at the current tempo.
func Export(notes []model.Note, tempo float64, timeSig model.TimeSignature, ppqn int) (*smf.SMF, error) {
	if tempo <= 0 {
		return nil, fmt.Errorf("tempo must be positive, got %v", tempo)
	}
	if ppqn <= 0 {
		ppqn = timing.DefaultPPQN
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ppqn)

	num, den := uint8(4), uint8(4)
	if timeSig.Numerator > 0 && timeSig.Denominator > 0 {
		num, den = uint8(timeSig.Numerator), uint8(timeSig.Denominator)
	}

	var meta smf.Track
	meta.Add(0, smf.MetaMeter(num, den))
	meta.Add(0, smf.MetaTempo(tempo))
	meta.Close(0)
	if err := s.Add(meta); err != nil {
		return nil, fmt.Errorf("adding tempo track: %w", err)
	}

	track, err := noteTrack(notes)
	if err != nil {
		return nil, err
	}
	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("adding note track: %w", err)
	}
	return s, nil
}

// timedMessage is one absolute-tick event, flattened so overlapping notes
// interleave correctly before the delta conversion.
type timedMessage struct {
	tick int
	off  bool // note-offs sort before note-ons at the same tick
	msg  smf.Message
}

func noteTrack(notes []model.Note) (smf.Track, error) {
	events := make([]timedMessage, 0, 2*len(notes))
	for i := range notes {
		n := &notes[i]
		if n.DurationTicks <= 0 {
			return nil, fmt.Errorf("note %s has non-positive tick duration %d", n.ID, n.DurationTicks)
		}
		if n.Lyric != "" {
			events = append(events, timedMessage{
				tick: n.StartTicks,
				msg:  smf.Message(smf.MetaLyric(n.Lyric)),
			})
		}
		events = append(events, timedMessage{
			tick: n.StartTicks,
			msg:  smf.Message(gomidi.NoteOn(exportChannel, uint8(n.Pitch), uint8(n.Velocity))),
		})
		events = append(events, timedMessage{
			tick: n.StartTicks + n.DurationTicks,
			off:  true,
			msg:  smf.Message(gomidi.NoteOff(exportChannel, uint8(n.Pitch))),
		})
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var track smf.Track
	prev := 0
	for _, ev := range events {
		track.Add(uint32(ev.tick-prev), ev.msg)
		prev = ev.tick
	}
	track.Close(0)
	return track, nil
}

// Import converts an SMF back into editor notes. Pixel positions are derived
// from absolute ticks at the given zoom; the file's own PPQN is honored when
// it carries a metric time format. Unterminated notes are dropped.
func Import(s *smf.SMF, tc model.TimingContext) []model.Note {
	ppqn := tc.PPQN
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		ppqn = int(mt.Resolution())
	}
	if ppqn <= 0 {
		ppqn = timing.DefaultPPQN
	}

	type open struct {
		tick     int
		velocity uint8
		lyric    string
	}

	var notes []model.Note
	for _, track := range s.Tracks {
		pressed := map[uint8]open{}
		pendingLyric := ""
		absTicks := 0
		for _, event := range track {
			absTicks += int(event.Delta)
			var channel, key, velocity uint8
			var text string
			switch {
			case event.Message.GetMetaLyric(&text):
				pendingLyric = text
			case event.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0:
				pressed[key] = open{tick: absTicks, velocity: velocity, lyric: pendingLyric}
				pendingLyric = ""
			case event.Message.GetNoteOff(&channel, &key, &velocity),
				event.Message.GetNoteOn(&channel, &key, &velocity): // running-status off
				on, ok := pressed[key]
				if !ok || absTicks <= on.tick {
					continue
				}
				delete(pressed, key)
				start := timing.TicksToPixels(on.tick, tc.PixelsPerBeat, ppqn)
				dur := timing.TicksToPixels(absTicks-on.tick, tc.PixelsPerBeat, ppqn)
				n, err := model.NewNote(start, dur, int(key), int(on.velocity), tc)
				if err != nil {
					continue
				}
				n.Lyric = on.lyric
				notes = append(notes, *n)
			}
		}
	}
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Start != notes[j].Start {
			return notes[i].Start < notes[j].Start
		}
		return notes[i].Pitch < notes[j].Pitch
	})
	return notes
}

// Tempo returns the file's initial tempo, or the editor default when the
// file carries none.
func Tempo(s *smf.SMF) float64 {
	changes := s.TempoChanges()
	if len(changes) > 0 && changes[0].BPM > 0 {
		return changes[0].BPM
	}
	return timing.DefaultTempo
}

// WriteFile exports notes straight to a .mid file.
func WriteFile(path string, notes []model.Note, tempo float64, timeSig model.TimeSignature, ppqn int) error {
	s, err := Export(notes, tempo, timeSig, ppqn)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return fmt.Errorf("encoding midi: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ReadFile parses a .mid file. The smf parser panics on some malformed
// inputs, so the panic is converted to an error here.
func ReadFile(path string) (s *smf.SMF, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parsing midi file: %v", r)
		}
	}()

	dat, readErr := os.ReadFile(path)
	if readErr != nil {
		return nil, fmt.Errorf("reading midi file: %w", readErr)
	}
	return Read(bytes.NewReader(dat))
}

// Read parses SMF data from r, converting parser panics to errors.
func Read(r io.Reader) (s *smf.SMF, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("parsing midi data: %v", rec)
		}
	}()

	s, err = smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("parsing midi data: %w", err)
	}
	return s, nil
}
