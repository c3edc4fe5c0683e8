package audio

import (
	"context"
	"math"

	"github.com/crlotwhite/pianoroll/core/model"
)

const (
	attackSeconds  = 0.005
	releaseSeconds = 0.02
	tailSeconds    = 0.1 // silence appended after the last note
)

// renderSine mixes one sine voice per note into a mono buffer. Enough to
// exercise the render boundary and feed the waveform display; synthesis
// quality is explicitly not a goal.
func renderSine(ctx context.Context, notes []model.Note, sampleRate int) ([]float64, error) {
	var endSec float64
	for i := range notes {
		if notes[i].EndSeconds > endSec {
			endSec = notes[i].EndSeconds
		}
	}
	if endSec <= 0 {
		return nil, nil
	}
	total := int((endSec + tailSeconds) * float64(sampleRate))
	out := make([]float64, total)

	for i := range notes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := &notes[i]
		freq := 440 * math.Pow(2, float64(n.Pitch-69)/12)
		amp := 0.25 * float64(n.Velocity) / 127
		s0 := int(n.StartSeconds * float64(sampleRate))
		s1 := int(n.EndSeconds * float64(sampleRate))
		if s1 > total {
			s1 = total
		}
		attack := int(attackSeconds * float64(sampleRate))
		release := int(releaseSeconds * float64(sampleRate))
		for s := s0; s < s1; s++ {
			env := 1.0
			if s-s0 < attack {
				env = float64(s-s0) / float64(attack)
			}
			if s1-s < release {
				env = math.Min(env, float64(s1-s)/float64(release))
			}
			t := float64(s) / float64(sampleRate)
			out[s] += amp * env * math.Sin(2*math.Pi*freq*t)
		}
	}
	for i, v := range out {
		if v > 1 {
			out[i] = 1
		} else if v < -1 {
			out[i] = -1
		}
	}
	return out, nil
}
