package ticket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/youruser/ticketapp/internal/errors"
	imagepkg "github.com/youruser/ticketapp/internal/image"
	"github.com/youruser/ticketapp/internal/layout"
)

// Template is a decoded ticket template. Fields keep their declaration order,
// which is also their stacking order.
type Template struct {
	Background string
	ApplyStamp bool
	StampScale float64
	ApplyArrow bool
	ArrowX     int
	ArrowY     int
	ArrowScale float64
	Fields     []Field
}

// Field is one drawable element of a template. The set of implementations is
// closed: PlainText, SegmentedText, DashedRect, Arrow, Line, CircleText,
// QRCode and Barcode.
type Field interface {
	Name() string
	isField()
}

type base struct{ Key string }

func (b base) Name() string { return b.Key }
func (base) isField()       {}

// PlainText draws the user value stored under the field's own key.
type PlainText struct {
	base
	X, Y          float64
	FontPath      string
	Size          float64
	Fill          string
	Anchor        layout.Anchor
	LetterSpacing float64
}

// SegmentedText draws contiguous styled segments.
type SegmentedText struct {
	base
	X, Y     float64
	Anchor   layout.Anchor
	Segments []layout.Segment
}

type DashedRect struct {
	base
	Rect       [4]float64
	DashLength float64
	Fill       string
	Width      float64
}

type Arrow struct {
	base
	X, Y      float64
	Length    float64
	Height    float64
	Direction imagepkg.Direction
	Fill      string
}

type Line struct {
	base
	Start, End [2]float64
	Fill       string
	Width      float64
}

// CircleText draws the ticket kind as circled glyphs. InheritedStyle marks a
// field routed here by DecodeOptions.CircleTextKeys whose missing style was
// taken from its first segment.
type CircleText struct {
	base
	X, Y           float64
	FontPath       string
	Size           float64
	Fill           string
	CircleFill     string
	Spacing        float64
	Radius         float64
	Width          float64
	Anchor         layout.Anchor
	InheritedStyle bool
}

// QRCode draws the encoded ticket payload centered on (X, Y).
type QRCode struct {
	base
	X, Y float64
	Size int
}

// Barcode draws the decorative barcode with its top-left at (X, Y).
type Barcode struct {
	base
	X, Y          float64
	Width, Height int
}

// DecodeOptions controls template decoding.
type DecodeOptions struct {
	// CircleTextKeys lists field keys rendered as circle text even when the
	// template gives them no type. Older templates relied on this.
	CircleTextKeys []string
}

// DefaultDecodeOptions keeps older templates rendering as they always have.
var DefaultDecodeOptions = DecodeOptions{
	CircleTextKeys: []string{KeyTicketKindLegacy, KeyTicketKind},
}

func (o DecodeOptions) circleKey(key string) bool {
	for _, k := range o.CircleTextKeys {
		if k == key {
			return true
		}
	}
	return false
}

type rawTemplate struct {
	Canvas *struct {
		Background string `json:"background"`
	} `json:"canvas"`
	ApplyStamp bool            `json:"apply_$"`
	StampScale *float64        `json:"apply_$scale"`
	ApplyArrow bool            `json:"apply_arrow"`
	ArrowX     float64         `json:"arrow_x"`
	ArrowY     float64         `json:"arrow_y"`
	ArrowScale *float64        `json:"arrow_scale"`
	Fields     json.RawMessage `json:"fields"`
}

type rawField struct {
	Type          string            `json:"type"`
	X             *float64          `json:"x"`
	Y             *float64          `json:"y"`
	XY            []float64         `json:"xy"`
	Start         []float64         `json:"start"`
	End           []float64         `json:"end"`
	FontPath      string            `json:"font_path"`
	Size          *float64          `json:"size"`
	Fill          *string           `json:"fill"`
	FillCircle    *string           `json:"fill_circle"`
	Anchor        string            `json:"anchor"`
	LetterSpacing float64           `json:"letter_spacing"`
	Spacing       *float64          `json:"spacing"`
	Radius        *float64          `json:"radius"`
	Width         *float64          `json:"width"`
	Height        *float64          `json:"height"`
	Length        *float64          `json:"length"`
	Direction     string            `json:"direction"`
	DashLength    *float64          `json:"dash_length"`
	Segments      []json.RawMessage `json:"segments"`
}

// segmentStyle is the part of a segment a legacy circle field may inherit.
type segmentStyle struct {
	FontPath      string   `json:"font_path"`
	Size          *float64 `json:"size"`
	Fill          *string  `json:"fill"`
	LetterSpacing *float64 `json:"letter_spacing"`
}

// LoadTemplate reads and decodes the template at path.
func LoadTemplate(path string, opts DecodeOptions) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeAssetNotFound, err, "reading template %s", path)
	}
	t, err := DecodeTemplate(data, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "decoding template %s", path)
	}
	return t, nil
}

// DecodeTemplate decodes template JSON.
func DecodeTemplate(data []byte, opts DecodeOptions) (*Template, error) {
	var raw rawTemplate
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Canvas == nil || raw.Canvas.Background == "" {
		return nil, fmt.Errorf("canvas.background is required")
	}
	if len(raw.Fields) == 0 {
		return nil, fmt.Errorf("fields is required")
	}
	t := &Template{
		Background: raw.Canvas.Background,
		ApplyStamp: raw.ApplyStamp,
		StampScale: floatOr(raw.StampScale, 1),
		ApplyArrow: raw.ApplyArrow,
		ArrowX:     int(raw.ArrowX),
		ArrowY:     int(raw.ArrowY),
		ArrowScale: floatOr(raw.ArrowScale, 1),
	}

	entries, err := orderedObject(raw.Fields)
	if err != nil {
		return nil, fmt.Errorf("fields: %w", err)
	}
	for _, e := range entries {
		f, err := decodeField(e.key, e.value, opts)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", e.key, err)
		}
		t.Fields = append(t.Fields, f)
	}
	return t, nil
}

type entry struct {
	key   string
	value json.RawMessage
}

// orderedObject splits a JSON object into its members in document order and
// rejects duplicate keys.
func orderedObject(data []byte) ([]entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected an object")
	}
	var out []entry
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := tok.(string)
		if seen[key] {
			return nil, fmt.Errorf("duplicate key %q", key)
		}
		seen[key] = true
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, entry{key, v})
	}
	return out, nil
}

func decodeField(key string, data json.RawMessage, opts DecodeOptions) (Field, error) {
	var rf rawField
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, err
	}
	b := base{Key: key}
	fill := stringOr(rf.Fill, "#000000")

	switch rf.Type {
	case "dashed_rect":
		if len(rf.XY) != 4 {
			return nil, fmt.Errorf("dashed_rect needs xy with 4 numbers")
		}
		return &DashedRect{
			base:       b,
			Rect:       [4]float64{rf.XY[0], rf.XY[1], rf.XY[2], rf.XY[3]},
			DashLength: floatOr(rf.DashLength, imagepkg.DefaultDashLength),
			Fill:       fill,
			Width:      floatOr(rf.Width, 1),
		}, nil
	case "arrow":
		x, y, err := position(rf)
		if err != nil {
			return nil, err
		}
		dir := imagepkg.Direction(rf.Direction)
		if dir == "" {
			dir = imagepkg.Right
		}
		return &Arrow{
			base:      b,
			X:         x,
			Y:         y,
			Length:    floatOr(rf.Length, 20),
			Height:    floatOr(rf.Height, 10),
			Direction: dir,
			Fill:      fill,
		}, nil
	case "line":
		if len(rf.Start) != 2 || len(rf.End) != 2 {
			return nil, fmt.Errorf("line needs start and end with 2 numbers each")
		}
		return &Line{
			base:  b,
			Start: [2]float64{rf.Start[0], rf.Start[1]},
			End:   [2]float64{rf.End[0], rf.End[1]},
			Fill:  fill,
			Width: floatOr(rf.Width, 1),
		}, nil
	case "circle_text":
		return circleText(b, rf, false)
	}

	if opts.circleKey(key) {
		return circleText(b, rf, true)
	}

	switch key {
	case KeyQRCode:
		x, y, err := position(rf)
		if err != nil {
			return nil, err
		}
		return &QRCode{base: b, X: x, Y: y, Size: int(floatOr(rf.Size, imagepkg.DefaultQRSize))}, nil
	case KeyBarcode:
		x, y, err := position(rf)
		if err != nil {
			return nil, err
		}
		if rf.Width == nil || rf.Height == nil {
			return nil, fmt.Errorf("barcode needs width and height")
		}
		return &Barcode{base: b, X: x, Y: y, Width: int(*rf.Width), Height: int(*rf.Height)}, nil
	}

	x, y, err := position(rf)
	if err != nil {
		return nil, err
	}
	anchor := layout.Anchor(rf.Anchor)
	if anchor == "" {
		anchor = "la"
	}
	if rf.Segments != nil {
		segs := make([]layout.Segment, len(rf.Segments))
		for i, s := range rf.Segments {
			if err := json.Unmarshal(s, &segs[i]); err != nil {
				return nil, fmt.Errorf("segment %d: %w", i, err)
			}
		}
		return &SegmentedText{base: b, X: x, Y: y, Anchor: anchor, Segments: segs}, nil
	}
	return &PlainText{
		base:          b,
		X:             x,
		Y:             y,
		FontPath:      rf.FontPath,
		Size:          floatOr(rf.Size, 24),
		Fill:          fill,
		Anchor:        anchor,
		LetterSpacing: rf.LetterSpacing,
	}, nil
}

// circleText builds a CircleText. With inherit set, a missing font, size or
// spacing is taken from the first segment, along with its fill when the field
// left fill at the default.
func circleText(b base, rf rawField, inherit bool) (Field, error) {
	x, y, err := position(rf)
	if err != nil {
		return nil, err
	}
	fontPath, size, spacing := rf.FontPath, rf.Size, rf.Spacing
	fill := stringOr(rf.Fill, "#000000")
	inherited := false

	if inherit && (fontPath == "" || size == nil || *size == 0 || spacing == nil) && len(rf.Segments) > 0 {
		var seg0 segmentStyle
		if err := json.Unmarshal(rf.Segments[0], &seg0); err != nil {
			return nil, fmt.Errorf("segment 0: %w", err)
		}
		inherited = true
		if fontPath == "" {
			fontPath = seg0.FontPath
		}
		if size == nil || *size == 0 {
			size = seg0.Size
		}
		if spacing == nil {
			spacing = seg0.LetterSpacing
		}
		if fill == "#000000" {
			fill = stringOr(seg0.Fill, "#000000")
		}
	}

	anchor := layout.Anchor(rf.Anchor)
	if anchor == "" {
		anchor = "ma"
	}
	sz := floatOr(size, 50)
	if sz == 0 {
		sz = 50
	}
	return &CircleText{
		base:           b,
		X:              x,
		Y:              y,
		FontPath:       fontPath,
		Size:           sz,
		Fill:           fill,
		CircleFill:     stringOr(rf.FillCircle, ""),
		Spacing:        floatOr(spacing, 10),
		Radius:         floatOr(rf.Radius, 0),
		Width:          floatOr(rf.Width, 3),
		Anchor:         anchor,
		InheritedStyle: inherited,
	}, nil
}

func position(rf rawField) (float64, float64, error) {
	if rf.X == nil || rf.Y == nil {
		return 0, 0, fmt.Errorf("x and y are required")
	}
	return *rf.X, *rf.Y, nil
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}
