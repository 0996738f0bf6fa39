package imagepkg

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/youruser/ticketapp/internal/fonts"
	"github.com/youruser/ticketapp/internal/layout"
)

// DefaultDashLength is used when a dashed rectangle declares no dash length.
const DefaultDashLength = 5

// DefaultCirclePadding is added to half the glyph box to get the automatic
// circle radius. It is a style constant, not a geometric property.
const DefaultCirclePadding = 4

// Direction of a half arrow.
type Direction string

const (
	Right Direction = "right"
	Left  Direction = "left"
	Up    Direction = "up"
	Down  Direction = "down"
)

// DashedRect strokes the four edges of rect (x0, y0, x1, y1) as dashes of
// dash length separated by equal gaps. Each edge starts its own dash at its
// first corner.
func DashedRect(dc *gg.Context, rect [4]float64, dash float64, fill color.Color, width float64) {
	if dash <= 0 {
		dash = DefaultDashLength
	}
	x0, y0, x1, y1 := rect[0], rect[1], rect[2], rect[3]
	for x := x0; x < x1; x += 2 * dash {
		end := math.Min(x+dash, x1)
		dc.DrawLine(x, y0, end, y0)
		dc.DrawLine(x, y1, end, y1)
	}
	for y := y0; y < y1; y += 2 * dash {
		end := math.Min(y+dash, y1)
		dc.DrawLine(x0, y, x0, end)
		dc.DrawLine(x1, y, x1, end)
	}
	dc.SetColor(fill)
	dc.SetLineWidth(width)
	dc.SetLineCapButt()
	dc.Stroke()
}

// HalfArrow fills a triangle of the given length along direction and height
// across it. Unknown directions draw nothing.
func HalfArrow(dc *gg.Context, x, y, length, height float64, dir Direction, fill color.Color) {
	var pts [3]gg.Point
	switch dir {
	case Right:
		pts = [3]gg.Point{{X: x, Y: y}, {X: x + length, Y: y - height/2}, {X: x + length, Y: y + height/2}}
	case Left:
		pts = [3]gg.Point{{X: x + length, Y: y}, {X: x, Y: y - height/2}, {X: x, Y: y + height/2}}
	case Up:
		pts = [3]gg.Point{{X: x, Y: y + length}, {X: x - height/2, Y: y}, {X: x + height/2, Y: y}}
	case Down:
		pts = [3]gg.Point{{X: x, Y: y}, {X: x - height/2, Y: y + length}, {X: x + height/2, Y: y + length}}
	default:
		return
	}
	dc.NewSubPath()
	dc.MoveTo(pts[0].X, pts[0].Y)
	dc.LineTo(pts[1].X, pts[1].Y)
	dc.LineTo(pts[2].X, pts[2].Y)
	dc.ClosePath()
	dc.SetColor(fill)
	dc.Fill()
}

// Line strokes a straight line from start to end.
func Line(dc *gg.Context, start, end [2]float64, fill color.Color, width float64) {
	dc.DrawLine(start[0], start[1], end[0], end[1])
	dc.SetColor(fill)
	dc.SetLineWidth(width)
	dc.SetLineCapButt()
	dc.Stroke()
}

// CircleStyle configures a circled-glyph cluster.
type CircleStyle struct {
	Fill       color.Color
	CircleFill color.Color // nil leaves the circle unfilled
	Spacing    float64
	Radius     float64 // 0 picks a radius per glyph
	Width      float64
	Anchor     layout.Anchor
}

// CircleRadius returns the radius used for c.
func CircleRadius(face *fonts.Face, c rune, explicit float64) float64 {
	if explicit > 0 {
		return explicit
	}
	return float64(int(math.Max(face.Advance(c), face.Size())/2 + DefaultCirclePadding))
}

// CircleCluster draws each character of text centered in its own circle. The
// circles run left to right, style.Spacing apart, and the group is aligned on
// x by style.Anchor. It returns the group's width.
func CircleCluster(dc *gg.Context, x, y float64, text string, face *fonts.Face, style CircleStyle) float64 {
	if text == "" {
		return 0
	}
	chars := []rune(text)
	radii := make([]float64, len(chars))
	var total float64
	for i, c := range chars {
		radii[i] = CircleRadius(face, c, style.Radius)
		total += 2*radii[i] + style.Spacing
	}
	total -= style.Spacing

	cx := x - style.Anchor.Offset(total)
	dc.SetFontFace(face.Face())
	for i, c := range chars {
		r := radii[i]
		center := cx + r
		// The outline sits inside the circle's bounding box.
		dc.DrawCircle(center, y, math.Max(r-style.Width/2, 0))
		if style.CircleFill != nil {
			dc.SetColor(style.CircleFill)
			dc.FillPreserve()
		}
		dc.SetColor(style.Fill)
		dc.SetLineWidth(style.Width)
		dc.Stroke()

		w := face.Advance(c)
		dc.DrawString(string(c), center-w/2, y-face.Size()/2+face.Ascent())
		cx += 2*r + style.Spacing
	}
	return total
}
