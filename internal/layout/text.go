// Package layout positions and draws text runs: per-glyph advances, optional
// horizontal scaling, anchor alignment and multi-segment fields.
package layout

import (
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/youruser/ticketapp/internal/fonts"
)

// Anchor is a two-letter alignment code such as "la", "ma" or "ra". Only the
// horizontal (first) letter affects layout.
type Anchor string

// Offset returns how far left of the declared x a run of width starts.
func (a Anchor) Offset(width float64) float64 {
	switch {
	case strings.HasPrefix(string(a), "r"):
		return width
	case strings.HasPrefix(string(a), "m"):
		return width / 2
	}
	return 0
}

// Measure returns the width of text drawn glyph by glyph: the sum of the
// scaled advances plus spacing between glyphs, with no trailing spacing.
func Measure(face *fonts.Face, text string, spacing, scaleX float64) float64 {
	var w float64
	n := 0
	for _, c := range text {
		w += face.Advance(c)*scaleX + spacing
		n++
	}
	if n == 0 {
		return 0
	}
	return w - spacing
}

// DrawText draws text with y as the top of the line and returns the run's
// width and height. With scaleX other than 1 every glyph is rendered on its own
// and stretched horizontally, since faces have no horizontal-scale option.
func DrawText(dc *gg.Context, text string, x, y float64, face *fonts.Face, fill color.Color, anchor Anchor, spacing, scaleX float64) (float64, float64) {
	width := Measure(face, text, spacing, scaleX)
	x -= anchor.Offset(width)

	dc.SetFontFace(face.Face())
	dc.SetColor(fill)
	baseline := y + face.Ascent()
	for _, c := range text {
		if scaleX == 1 {
			dc.DrawString(string(c), x, baseline)
		} else {
			dc.DrawImage(stretchGlyph(c, face, fill, scaleX), int(x), int(y))
		}
		x += face.Advance(c)*scaleX + spacing
	}
	return width, face.Size()
}

// stretchGlyph renders c into a transparent buffer sized to its metrics and
// resizes it along x only.
func stretchGlyph(c rune, face *fonts.Face, fill color.Color, scaleX float64) image.Image {
	w := int(face.Advance(c)) + 4
	h := int(face.Size()) + 4
	tmp := gg.NewContext(w, h)
	tmp.SetFontFace(face.Face())
	tmp.SetColor(fill)
	tmp.DrawString(string(c), 0, face.Ascent())
	return imaging.Resize(tmp.Image(), max(int(float64(w)*scaleX), 1), h, imaging.CatmullRom)
}
