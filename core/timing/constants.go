package timing

// Shared editor constants. These mirror the values the audio side and any
// host document loader assume, so they live in one place.
const (
	// FlicksPerSecond is the fixed flicks resolution: 1/705,600,000 of a
	// second. The unit divides evenly into common audio sample rates and
	// video frame rates, which is why it is not configurable.
	FlicksPerSecond = 705_600_000

	// DefaultPPQN is the MIDI tick resolution (pulses per quarter note).
	DefaultPPQN = 480

	// DefaultSampleRate is the audio sample rate in Hz.
	DefaultSampleRate = 44100

	DefaultTempo         = 120.0
	DefaultPixelsPerBeat = 80.0
	MinPixelsPerBeat     = 40.0
	MaxPixelsPerBeat     = 200.0
	ZoomStep             = 20.0

	// NoteHeight is the height of one pitch row in pixels.
	NoteHeight = 20

	// TotalPitches covers the full MIDI pitch range 0..127.
	TotalPitches = 128

	DefaultVelocity = 100
)
