package layout

import (
	"encoding/json"
	"image/color"
	"strconv"
	"strings"

	"github.com/fogleman/gg"

	"github.com/youruser/ticketapp/internal/fonts"
)

// AsteriskCountKey names the user field that overrides the length of a
// segment made only of asterisks. Older templates used literal "****" runs
// for variable-length redacted data.
const AsteriskCountKey = "星号个数"

// Values is the read side of user data.
type Values interface {
	Lookup(key string) (string, bool)
}

// Get collapses a missing key to "".
func Get(v Values, key string) string {
	s, _ := v.Lookup(key)
	return s
}

// Segment is one styled run of a multi-part text field.
type Segment struct {
	Text           string  `json:"text"`
	FontPath       string  `json:"font_path"`
	Size           float64 `json:"size"`
	Fill           string  `json:"fill"`
	YOffset        float64 `json:"y_offset"`
	LetterSpacing  float64 `json:"letter_spacing"`
	ScaleX         float64 `json:"scale_x"`
	RepeatChar     *string `json:"repeat_char"`
	RepeatCountKey string  `json:"repeat_count_key"`
}

// UnmarshalJSON applies the segment defaults before decoding.
func (s *Segment) UnmarshalJSON(data []byte) error {
	type plain Segment
	p := plain{Size: 24, Fill: "#000000", ScaleX: 1}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Segment(p)
	return nil
}

// Format substitutes {key} placeholders from v. Unknown keys become "",
// "{{" and "}}" are literal braces, and an unterminated "{" is kept as is.
// Conversion and format suffixes ("{key!r}", "{key:>4}") are ignored.
func Format(text string, v Values) string {
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '{' && i+1 < len(text) && text[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(text) && text[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				b.WriteString(text[i:])
				return b.String()
			}
			key := text[i+1 : i+1+end]
			if j := strings.IndexAny(key, "!:"); j >= 0 {
				key = key[:j]
			}
			b.WriteString(Get(v, strings.TrimSpace(key)))
			i += end + 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// atoiOr parses an integer user value, returning def when absent or invalid.
func atoiOr(v Values, key string, def int) int {
	s, ok := v.Lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// ResolveSegment returns the text a segment draws. A repeat rule wins; then
// placeholders are substituted; then an all-asterisk result takes its length
// from AsteriskCountKey when that field holds an integer.
func ResolveSegment(seg Segment, v Values) string {
	if seg.RepeatChar != nil && seg.RepeatCountKey != "" {
		n := 0
		if s, ok := v.Lookup(seg.RepeatCountKey); ok {
			n, _ = strconv.Atoi(strings.TrimSpace(s))
		}
		return strings.Repeat(*seg.RepeatChar, max(n, 0))
	}
	raw := Format(seg.Text, v)
	if raw != "" && strings.Trim(raw, "*") == "" {
		n := atoiOr(v, AsteriskCountKey, len(raw))
		return strings.Repeat("*", max(n, 0))
	}
	return raw
}

// FaceSource hands out faces. A *fonts.FaceSet is the usual implementation.
type FaceSource interface {
	Face(path string, size float64) *fonts.Face
}

// Run is a resolved, positioned segment.
type Run struct {
	Text    string
	Face    *fonts.Face
	Fill    color.Color
	X, Y    float64
	Width   float64
	Spacing float64
	ScaleX  float64
}

// LayoutSegments resolves segs and places them contiguously. The anchor is
// applied once to the total width; each run keeps its own y offset from y.
// It returns the runs and the total width.
func LayoutSegments(segs []Segment, v Values, faces FaceSource, x, y float64, anchor Anchor) ([]Run, float64) {
	runs := make([]Run, 0, len(segs))
	var total float64
	for _, seg := range segs {
		face := faces.Face(seg.FontPath, seg.Size)
		text := ResolveSegment(seg, v)
		w := Measure(face, text, seg.LetterSpacing, seg.ScaleX)
		runs = append(runs, Run{
			Text:    text,
			Face:    face,
			Fill:    ColorOr(seg.Fill, color.Black),
			Y:       y + seg.YOffset,
			Width:   w,
			Spacing: seg.LetterSpacing,
			ScaleX:  seg.ScaleX,
		})
		total += w
	}
	cursor := x - anchor.Offset(total)
	for i := range runs {
		runs[i].X = cursor
		cursor += runs[i].Width
	}
	return runs, total
}

// DrawRuns draws runs produced by LayoutSegments.
func DrawRuns(dc *gg.Context, runs []Run) {
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		DrawText(dc, r.Text, r.X, r.Y, r.Face, r.Fill, "la", r.Spacing, r.ScaleX)
	}
}

// Placeholders returns the keys referenced by text, in order of appearance,
// following the same rules as Format.
func Placeholders(text string) []string {
	var keys []string
	for i := 0; i < len(text); i++ {
		switch {
		case strings.HasPrefix(text[i:], "{{"), strings.HasPrefix(text[i:], "}}"):
			i++
		case text[i] == '{':
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return keys
			}
			key := text[i+1 : i+1+end]
			if j := strings.IndexAny(key, "!:"); j >= 0 {
				key = key[:j]
			}
			if key = strings.TrimSpace(key); key != "" {
				keys = append(keys, key)
			}
			i += end + 1
		}
	}
	return keys
}
