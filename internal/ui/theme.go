package ui

import "image/color"

var (
	colBG         = color.RGBA{24, 24, 32, 255}
	colRowShade   = color.RGBA{30, 30, 40, 255} // black-key pitch rows
	colGridBeat   = color.RGBA{70, 70, 80, 255}
	colGridCell   = color.RGBA{45, 45, 55, 255}
	colGridBar    = color.RGBA{110, 110, 125, 255}
	colGridLabel  = color.RGBA{160, 160, 170, 255}
	colRowDivider = color.RGBA{38, 38, 48, 255}

	colNote         = color.RGBA{90, 160, 255, 255}
	colNoteBorder   = color.RGBA{30, 70, 140, 255}
	colNoteSelected = color.RGBA{255, 200, 60, 255}
	colNoteLyric    = color.RGBA{240, 240, 240, 255}

	colWaveform = color.RGBA{80, 200, 140, 200}
	colPlayhead = color.RGBA{255, 80, 80, 255}
)
