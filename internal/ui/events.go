package ui

// EditMode gates which pointer transitions are legal.
type EditMode int

const (
	ModeSelect EditMode = iota
	ModeDraw
	ModeErase
)

func (m EditMode) String() string {
	switch m {
	case ModeSelect:
		return "select"
	case ModeDraw:
		return "draw"
	case ModeErase:
		return "erase"
	default:
		return "unknown"
	}
}

// ParseEditMode maps the wire strings to an EditMode, defaulting to select.
func ParseEditMode(s string) EditMode {
	switch s {
	case "draw":
		return ModeDraw
	case "erase":
		return ModeErase
	default:
		return ModeSelect
	}
}

// PointerKind distinguishes the raw pointer transitions.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerDoubleClick
)

// PointerEvent is one raw pointer transition with both screen and world
// coordinates attached. World coordinates are filled in by the Editor before
// dispatch.
type PointerEvent struct {
	Kind           PointerKind
	X, Y           float64 // screen px
	WorldX, WorldY float64
	Shift          bool
}

// CursorHint tells the host which cursor shape fits what is under the
// pointer.
type CursorHint int

const (
	CursorDefault CursorHint = iota
	CursorPointer
	CursorResizeH
)
