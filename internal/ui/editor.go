package ui

import (
	"context"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/crlotwhite/pianoroll/core/model"
	"github.com/crlotwhite/pianoroll/core/quantize"
	"github.com/crlotwhite/pianoroll/core/timing"
	"github.com/crlotwhite/pianoroll/internal/audio"
	game_log "github.com/crlotwhite/pianoroll/internal/log"
)

const (
	doubleClickFrames = 20 // max frames between clicks
	doubleClickSlopPx = 4
	renderDebounce    = 150 * time.Millisecond
)

// HostEvents are the callbacks the editor surfaces to its embedding host.
// All are optional.
type HostEvents struct {
	NoteChange   func(notes []model.Note)
	Scroll       func(horizontal, vertical float64)
	LyricInput   func(noteID, lyric string)
	PositionInfo func(info timing.MeasureInfo, pitch int, noteName string)
}

// Editor is the interactive piano roll: note store, layer stack, pointer
// state machine and playback glue, run as an Ebiten game. The audio engine
// is constructed by the host and handed in; its lifetime is tied to this
// editor instance.
type Editor struct {
	store      *model.Store
	quant      *quantize.Quantizer
	controller *Controller
	layers     *LayerManager
	waveform   *WaveformLayer
	engine     audio.Engine
	queue      *audio.RenderQueue
	logger     *game_log.Logger

	Host HostEvents

	// viewport state
	winW, winH       int
	scrollX, scrollY float64
	pixelsPerBeat    float64
	tempo            float64
	timeSig          model.TimeSignature
	snap             quantize.Setting
	sampleRate, ppqn int

	// playback state
	playing    bool
	playBuffer *audio.Buffer

	// input edge tracking
	frame       int64
	leftPrev    bool
	spacePrev   bool
	lastClickAt int64
	lastClickX  int
	lastClickY  int

	lineZ int // next z for dynamic line layers
}

func NewEditor(engine audio.Engine, logger *game_log.Logger) *Editor {
	store := model.NewStore(logger)
	quant := quantize.New(logger)
	e := &Editor{
		store:         store,
		quant:         quant,
		controller:    NewController(store, quant, logger),
		layers:        NewLayerManager(logger),
		waveform:      NewWaveformLayer(),
		engine:        engine,
		queue:         audio.NewRenderQueue(engine, renderDebounce, logger),
		logger:        logger,
		winW:          1000,
		winH:          600,
		scrollY:       (timing.TotalPitches - 1 - 72) * timing.NoteHeight, // C5 near the top
		pixelsPerBeat: timing.DefaultPixelsPerBeat,
		tempo:         timing.DefaultTempo,
		timeSig:       model.TimeSignature{Numerator: 4, Denominator: 4},
		snap:          "1/4",
		sampleRate:    timing.DefaultSampleRate,
		ppqn:          timing.DefaultPPQN,
		lineZ:         20,
	}

	e.layers.Add(NewGridLayer(quant))
	e.layers.Add(e.waveform)
	e.layers.Add(NewNotesLayer(store, e.controller))
	e.layers.Add(NewPlayheadLayer())

	e.controller.OnNotesChanged = e.notesChanged
	e.controller.OnRedraw = func() {}
	e.controller.OnPositionInfo = func(info timing.MeasureInfo, pitch int, name string) {
		if e.Host.PositionInfo != nil {
			e.Host.PositionInfo(info, pitch, name)
		}
	}
	e.controller.OnLyricEdit = func(noteID, lyric string) {
		if e.Host.LyricInput != nil {
			e.Host.LyricInput(noteID, lyric)
		}
	}
	return e
}

func (e *Editor) Store() *model.Store        { return e.store }
func (e *Editor) Controller() *Controller    { return e.controller }
func (e *Editor) Layers() *LayerManager      { return e.layers }
func (e *Editor) SetSnap(s quantize.Setting) { e.snap = s }
func (e *Editor) Snap() quantize.Setting     { return e.snap }
func (e *Editor) SetMode(m EditMode)         { e.controller.SetMode(m) }

// SetTempo changes the tempo and recomputes every note's derived timing
// from its authoritative pixel fields.
func (e *Editor) SetTempo(tempo float64) {
	if tempo <= 0 || tempo == e.tempo {
		return
	}
	e.tempo = tempo
	e.store.RefreshAll(e.timingContext())
	e.notesChanged()
}

// SetZoom changes pixels-per-beat, rescaling note pixel positions so their
// musical position is preserved.
func (e *Editor) SetZoom(pixelsPerBeat float64) {
	if pixelsPerBeat < timing.MinPixelsPerBeat {
		pixelsPerBeat = timing.MinPixelsPerBeat
	}
	if pixelsPerBeat > timing.MaxPixelsPerBeat {
		pixelsPerBeat = timing.MaxPixelsPerBeat
	}
	if pixelsPerBeat == e.pixelsPerBeat {
		return
	}
	factor := pixelsPerBeat / e.pixelsPerBeat
	e.pixelsPerBeat = pixelsPerBeat
	e.scrollX *= factor
	e.store.Rescale(factor, e.timingContext())
	e.logger.Debugf("[EDITOR] Zoom: ppb=%.0f", pixelsPerBeat)
	e.notesChanged()
}

// AddLineSeries overlays an external data series (f0 curve, loudness, ...)
// as its own layer and returns the layer id.
func (e *Editor) AddLineSeries(series LineSeries) string {
	id := "line-" + series.Name
	e.layers.Add(NewLineLayer(id, series, e.lineZ))
	e.lineZ++
	return id
}

func (e *Editor) RemoveLineSeries(id string) { e.layers.Remove(id) }

// LoadDocument replaces the editor state with a host-supplied document.
func (e *Editor) LoadDocument(d *model.Document) {
	e.tempo = d.Tempo
	e.timeSig = d.TimeSignature
	e.snap = quantize.Setting(d.SnapSetting)
	e.pixelsPerBeat = d.PixelsPerBeat
	e.sampleRate = d.SampleRate
	e.ppqn = d.PPQN
	e.controller.SetMode(ParseEditMode(d.EditMode))

	for _, n := range e.store.Notes() {
		e.store.Remove(n.ID)
	}
	for i := range d.Notes {
		n := d.Notes[i]
		if err := e.store.Add(&n); err != nil {
			e.logger.Warnf("[EDITOR] Skipping note from document: %v", err)
		}
	}
	e.notesChanged()
}

// Document snapshots the current editor state in the wire shape.
func (e *Editor) Document() *model.Document {
	return &model.Document{
		Notes:         e.store.Notes(),
		Tempo:         e.tempo,
		TimeSignature: e.timeSig,
		EditMode:      e.controller.Mode().String(),
		SnapSetting:   string(e.snap),
		PixelsPerBeat: e.pixelsPerBeat,
		SampleRate:    e.sampleRate,
		PPQN:          e.ppqn,
	}
}

func (e *Editor) timingContext() model.TimingContext {
	return model.TimingContext{
		PixelsPerBeat: e.pixelsPerBeat,
		Tempo:         e.tempo,
		SampleRate:    e.sampleRate,
		PPQN:          e.ppqn,
	}
}

func (e *Editor) viewport() Viewport {
	var flicks float64
	if e.playing {
		flicks = e.engine.PositionFlicks()
	}
	return Viewport{
		W:              e.winW,
		H:              e.winH,
		ScrollX:        e.scrollX,
		ScrollY:        e.scrollY,
		PixelsPerBeat:  e.pixelsPerBeat,
		Tempo:          e.tempo,
		TimeSignature:  e.timeSig,
		PlayheadFlicks: flicks,
		Playing:        e.playing,
		Snap:           e.snap,
		SampleRate:     e.sampleRate,
		PPQN:           e.ppqn,
	}
}

// notesChanged fans a note mutation out to the host and the audio
// re-render queue. Hover-only redraws deliberately do not come through
// here.
func (e *Editor) notesChanged() {
	if e.Host.NoteChange != nil {
		e.Host.NoteChange(e.store.Notes())
	}
	e.queue.Trigger(e.store.Notes(), e.timingContext())
}

// Play starts playback of the newest rendered buffer. With nothing rendered
// yet it renders synchronously once. Engine failures fall back to the silent
// engine so the editor stays interactive.
func (e *Editor) Play() {
	if e.playBuffer == nil {
		buf, err := e.engine.RenderOffline(context.Background(), e.store.Notes(), e.timingContext())
		if err != nil || buf == nil {
			e.logger.Warnf("[EDITOR] Nothing to play: render failed or empty (%v)", err)
			return
		}
		e.playBuffer = buf
		e.waveform.SetBuffer(buf.Samples, buf.SampleRate, buf.Generation)
	}
	if err := e.engine.Play(e.playBuffer); err != nil {
		e.logger.Errorf("[EDITOR] Playback failed, falling back to silent engine: %v", err)
		e.engine = audio.NewNullEngine()
		if err := e.engine.Play(e.playBuffer); err != nil {
			return
		}
	}
	e.playing = true
}

func (e *Editor) Stop() {
	e.engine.Stop()
	e.playing = false
}

func (e *Editor) IsPlaying() bool { return e.playing }

func (e *Editor) Layout(w, h int) (int, int) {
	e.winW, e.winH = w, h
	return w, h
}

func (e *Editor) Update() error {
	e.frame++
	v := e.viewport()

	e.handleWheel(v)
	e.handleKeys()
	e.handlePointer(v)

	// Deliver the newest offline render to playback and the waveform layer.
	if buf, ok := e.queue.Consume(); ok {
		e.playBuffer = buf
		e.waveform.SetBuffer(buf.Samples, buf.SampleRate, buf.Generation)
	}

	if e.playing {
		if !e.engine.IsPlaying() {
			e.playing = false
		} else {
			e.followPlayhead()
		}
	}
	return nil
}

func (e *Editor) Draw(screen *ebiten.Image) {
	ctx := &RenderContext{
		Dst:       screen,
		View:      e.viewport(),
		Notes:     e.store.Notes(),
		Selection: e.store.Selection(),
	}
	e.layers.Render(ctx)
}

func (e *Editor) handleWheel(v Viewport) {
	wx, wy := wheel()
	if wx == 0 && wy == 0 {
		return
	}
	if isKeyPressed(ebiten.KeyControlLeft) || isKeyPressed(ebiten.KeyControlRight) {
		if wy > 0 {
			e.SetZoom(e.pixelsPerBeat + timing.ZoomStep)
		} else if wy < 0 {
			e.SetZoom(e.pixelsPerBeat - timing.ZoomStep)
		}
		return
	}
	const wheelScrollPx = 20
	e.scrollX -= wx * wheelScrollPx
	e.scrollY -= wy * wheelScrollPx
	e.clampScroll()
	if e.Host.Scroll != nil {
		e.Host.Scroll(e.scrollX, e.scrollY)
	}
}

func (e *Editor) clampScroll() {
	if e.scrollX < 0 {
		e.scrollX = 0
	}
	maxY := float64(timing.TotalPitches*timing.NoteHeight - e.winH)
	if maxY < 0 {
		maxY = 0
	}
	if e.scrollY < 0 {
		e.scrollY = 0
	}
	if e.scrollY > maxY {
		e.scrollY = maxY
	}
}

func (e *Editor) handleKeys() {
	switch {
	case isKeyPressed(ebiten.KeyS):
		e.controller.SetMode(ModeSelect)
	case isKeyPressed(ebiten.KeyD):
		e.controller.SetMode(ModeDraw)
	case isKeyPressed(ebiten.KeyE):
		e.controller.SetMode(ModeErase)
	}

	space := isKeyPressed(ebiten.KeySpace)
	if space && !e.spacePrev {
		if e.playing {
			e.Stop()
		} else {
			e.Play()
		}
	}
	e.spacePrev = space
}

func (e *Editor) handlePointer(v Viewport) {
	x, y := cursorPosition()
	left := isMouseButtonPressed(ebiten.MouseButtonLeft)
	shift := isKeyPressed(ebiten.KeyShiftLeft) || isKeyPressed(ebiten.KeyShiftRight)

	wxf, wyf := v.ScreenToWorld(float64(x), float64(y))
	ev := PointerEvent{X: float64(x), Y: float64(y), WorldX: wxf, WorldY: wyf, Shift: shift}

	switch {
	case left && !e.leftPrev:
		if e.frame-e.lastClickAt <= doubleClickFrames &&
			abs(x-e.lastClickX) <= doubleClickSlopPx && abs(y-e.lastClickY) <= doubleClickSlopPx {
			ev.Kind = PointerDoubleClick
			e.layers.HandleEvent(ev, v)
			e.lastClickAt = 0
		} else {
			ev.Kind = PointerDown
			if !e.layers.HandleEvent(ev, v) {
				// Empty space: create (draw mode) or clear selection.
				e.controller.PointerDown(ev, "", v)
			}
			e.lastClickAt = e.frame
			e.lastClickX, e.lastClickY = x, y
		}
	case !left && e.leftPrev:
		ev.Kind = PointerUp
		e.controller.PointerUp(ev, v)
	default:
		ev.Kind = PointerMove
		hitID := ""
		res, ok := e.layers.HitAt(wxf, wyf, v)
		if ok {
			hitID = res.ElementID
		}
		e.controller.PointerMove(ev, hitID, v)
		e.updateCursor(res, ok)
	}
	e.leftPrev = left
}

func (e *Editor) updateCursor(res HitResult, hit bool) {
	shape := ebiten.CursorShapeDefault
	if hit {
		switch res.Cursor {
		case CursorResizeH:
			shape = ebiten.CursorShapeEWResize
		case CursorPointer:
			shape = ebiten.CursorShapePointer
		}
	}
	setCursorShape(shape)
}

// followPlayhead keeps the playhead inside the viewport while playing.
func (e *Editor) followPlayhead() {
	px := timing.FlicksToPixels(e.engine.PositionFlicks(), e.pixelsPerBeat, e.tempo)
	right := e.scrollX + float64(e.winW)
	if px > right-float64(e.winW)/5 {
		e.scrollX = px - float64(e.winW)/5
		if e.Host.Scroll != nil {
			e.Host.Scroll(e.scrollX, e.scrollY)
		}
	}
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
