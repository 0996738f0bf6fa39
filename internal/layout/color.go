package layout

import (
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

var (
	rgbFunc  = regexp.MustCompile(`^rgb\(\s*(\d+)(%?)\s*,\s*(\d+)(%?)\s*,\s*(\d+)(%?)\s*\)$`)
	rgbaFunc = regexp.MustCompile(`^rgba\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*\)$`)
)

// ParseColor parses "#rgb", "#rrggbb", "#rrggbbaa", "rgb(r, g, b)" with
// integer or percentage channels, "rgba(r, g, b, a)" with 0-255 channels, or
// an SVG/CSS color name.
func ParseColor(s string) (color.Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBAModel.Convert(c).(color.NRGBA), true
	}
	if m := rgbFunc.FindStringSubmatch(s); m != nil {
		var ch [3]uint8
		for i := range ch {
			v, ok := channel(m[1+2*i], m[2+2*i] == "%")
			if !ok {
				return nil, false
			}
			ch[i] = v
		}
		return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}, true
	}
	if m := rgbaFunc.FindStringSubmatch(s); m != nil {
		var ch [4]uint8
		for i := range ch {
			v, ok := channel(m[1+i], false)
			if !ok {
				return nil, false
			}
			ch[i] = v
		}
		return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, true
	}

	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return nil, false
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return nil, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, false
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true
}

// channel parses one functional-notation channel. Percentages scale to 255
// and round to nearest.
func channel(s string, percent bool) (uint8, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	if percent {
		if n > 100 {
			return 0, false
		}
		return uint8((n*255 + 50) / 100), true
	}
	if n > 255 {
		return 0, false
	}
	return uint8(n), true
}

// ColorOr parses s, returning def when s is empty or invalid.
func ColorOr(s string, def color.Color) color.Color {
	if c, ok := ParseColor(s); ok {
		return c
	}
	return def
}
