package audio

import (
	"context"
	"sync"
	"time"

	"github.com/bep/debounce"

	"github.com/crlotwhite/pianoroll/core/model"
	game_log "github.com/crlotwhite/pianoroll/internal/log"
)

// RenderQueue debounces note-change bursts into offline render requests and
// keeps only the newest completed buffer. A render that finishes after a
// newer one has already been accepted is stale and dropped; the queue never
// hands out a buffer older than one it already delivered.
type RenderQueue struct {
	engine Engine
	logger *game_log.Logger
	fire   func(func())

	mu        sync.Mutex
	gen       uint64 // last generation handed to a render
	delivered uint64 // newest generation made available
	latest    *Buffer
}

func NewRenderQueue(engine Engine, wait time.Duration, logger *game_log.Logger) *RenderQueue {
	return &RenderQueue{
		engine: engine,
		logger: logger,
		fire:   debounce.New(wait),
	}
}

// Trigger schedules a render for the given note snapshot. Rapid successive
// triggers collapse into one render of the last snapshot.
func (q *RenderQueue) Trigger(notes []model.Note, tc model.TimingContext) {
	q.fire(func() {
		q.mu.Lock()
		q.gen++
		gen := q.gen
		q.mu.Unlock()

		buf, err := q.engine.RenderOffline(context.Background(), notes, tc)
		if err != nil {
			q.logger.Errorf("[AUDIO] Offline render failed: %v", err)
			return
		}
		if buf == nil {
			return
		}
		buf.Generation = gen

		q.mu.Lock()
		defer q.mu.Unlock()
		if gen <= q.delivered {
			q.logger.Debugf("[AUDIO] Dropping stale render generation %d (have %d)", gen, q.delivered)
			return
		}
		q.delivered = gen
		q.latest = buf
	})
}

// Consume returns the newest completed buffer not yet consumed, if any.
// Polled by the editor once per frame.
func (q *RenderQueue) Consume() (*Buffer, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.latest == nil {
		return nil, false
	}
	b := q.latest
	q.latest = nil
	return b, true
}

// accept is the stale-discard rule in isolation, used by tests.
func (q *RenderQueue) accept(b *Buffer) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if b.Generation <= q.delivered {
		return false
	}
	q.delivered = b.Generation
	q.latest = b
	return true
}
