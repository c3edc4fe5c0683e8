package ui

import (
	"image"
	"image/color"
	"io"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/crlotwhite/pianoroll/core/model"
	"github.com/crlotwhite/pianoroll/core/quantize"
	game_log "github.com/crlotwhite/pianoroll/internal/log"
)

func testLogger() *game_log.Logger {
	return game_log.New(io.Discard, game_log.LevelDebug)
}

func testViewport() Viewport {
	return Viewport{
		W:             800,
		H:             600,
		PixelsPerBeat: 80,
		Tempo:         120,
		TimeSignature: model.TimeSignature{Numerator: 4, Denominator: 4},
		Snap:          "1/4",
		SampleRate:    44100,
		PPQN:          480,
	}
}

// drawRecorder counts calls to the draw primitives so render paths can be
// exercised without a graphics context.
type drawRecorder struct {
	fills   int
	strokes int
	lines   int
	labels  int
	images  int
	uploads int
}

// stubDraw swaps the draw primitives for counting stubs and returns the
// recorder alongside a restore function.
func stubDraw() (*drawRecorder, func()) {
	rec := &drawRecorder{}
	oldFill, oldStroke, oldLine := fillRect, strokeRect, strokeLine
	oldLabel, oldImage, oldUpload := drawLabel, drawImage, newImageFromImage

	fillRect = func(dst *ebiten.Image, x, y, w, h float64, c color.Color, alpha float32) {
		rec.fills++
	}
	strokeRect = func(dst *ebiten.Image, x, y, w, h float64, width float32, c color.Color, alpha float32) {
		rec.strokes++
	}
	strokeLine = func(dst *ebiten.Image, x1, y1, x2, y2 float64, width float32, c color.Color, alpha float32) {
		rec.lines++
	}
	drawLabel = func(dst *ebiten.Image, s string, x, y int, c color.Color, alpha float32) {
		rec.labels++
	}
	drawImage = func(dst, src *ebiten.Image, x, y float64, alpha float32) {
		rec.images++
	}
	newImageFromImage = func(img image.Image) *ebiten.Image {
		rec.uploads++
		return new(ebiten.Image) // never drawn; drawImage is stubbed too
	}

	return rec, func() {
		fillRect, strokeRect, strokeLine = oldFill, oldStroke, oldLine
		drawLabel, drawImage, newImageFromImage = oldLabel, oldImage, oldUpload
	}
}

func newTestStore() *model.Store {
	return model.NewStore(testLogger())
}

func newTestController(store *model.Store) *Controller {
	return NewController(store, quantize.New(testLogger()), testLogger())
}

// addNote inserts a note directly, bypassing the pointer state machine.
func addNote(store *model.Store, start, duration float64, pitch int, v Viewport) *model.Note {
	n, err := model.NewNote(start, duration, pitch, 100, v.TimingContext())
	if err != nil {
		panic(err)
	}
	if err := store.Add(n); err != nil {
		panic(err)
	}
	return n
}
