package ui

import (
	"image"
	"image/color"

	"github.com/golang/freetype/truetype"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Draw primitives are variables so tests can override them to capture calls
// without a display. Every primitive takes the layer alpha so a layer's
// opacity applies as a global paint multiplier.

var fillRect = func(dst *ebiten.Image, x, y, w, h float64, c color.Color, alpha float32) {
	vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(h), scaleAlpha(c, alpha), false)
}

var strokeRect = func(dst *ebiten.Image, x, y, w, h float64, width float32, c color.Color, alpha float32) {
	vector.StrokeRect(dst, float32(x), float32(y), float32(w), float32(h), width, scaleAlpha(c, alpha), false)
}

var strokeLine = func(dst *ebiten.Image, x1, y1, x2, y2 float64, width float32, c color.Color, alpha float32) {
	vector.StrokeLine(dst, float32(x1), float32(y1), float32(x2), float32(y2), width, scaleAlpha(c, alpha), false)
}

var drawImage = func(dst, src *ebiten.Image, x, y float64, alpha float32) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleAlpha(alpha)
	dst.DrawImage(src, op)
}

var drawLabel = func(dst *ebiten.Image, s string, x, y int, c color.Color, alpha float32) {
	text.Draw(dst, s, labelFace, x, y, scaleAlpha(c, alpha))
}

// newImageFromImage uploads a CPU-side raster to the GPU. Overridden in
// tests, which have no graphics context.
var newImageFromImage = func(img image.Image) *ebiten.Image {
	return ebiten.NewImageFromImage(img)
}

var labelFace font.Face

func init() {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
	labelFace = truetype.NewFace(f, &truetype.Options{Size: 11})
}

// scaleAlpha multiplies a color's premultiplied components by alpha.
func scaleAlpha(c color.Color, a float32) color.Color {
	if a >= 1 {
		return c
	}
	r, g, b, al := c.RGBA()
	return color.RGBA64{
		R: uint16(float32(r) * a),
		G: uint16(float32(g) * a),
		B: uint16(float32(b) * a),
		A: uint16(float32(al) * a),
	}
}
