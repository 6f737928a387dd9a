package ui

import (
	"image/color"
	"strings"
)

var namedColors = map[string]color.NRGBA{
	"black":       {A: 255},
	"white":       {R: 255, G: 255, B: 255, A: 255},
	"gray":        {R: 128, G: 128, B: 128, A: 255},
	"grey":        {R: 128, G: 128, B: 128, A: 255},
	"red":         {R: 255, A: 255},
	"green":       {G: 128, A: 255},
	"blue":        {B: 255, A: 255},
	"transparent": {},
}

// parseColor reads a #rgb, #rgba, #rrggbb or #rrggbbaa value or one of a
// few color names. It reports false for anything else.
func parseColor(s string) (color.NRGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.NRGBA{}, false
	}
	for i := 0; i < len(hex); i++ {
		if _, ok := hexDigit(hex[i]); !ok {
			return color.NRGBA{}, false
		}
	}

	d := func(i int) uint8 {
		v, _ := hexDigit(hex[i])
		return v
	}
	switch len(hex) {
	case 3:
		return color.NRGBA{R: d(0) * 17, G: d(1) * 17, B: d(2) * 17, A: 255}, true
	case 4:
		return color.NRGBA{R: d(0) * 17, G: d(1) * 17, B: d(2) * 17, A: d(3) * 17}, true
	case 6:
		return color.NRGBA{R: d(0)<<4 | d(1), G: d(2)<<4 | d(3), B: d(4)<<4 | d(5), A: 255}, true
	case 8:
		return color.NRGBA{R: d(0)<<4 | d(1), G: d(2)<<4 | d(3), B: d(4)<<4 | d(5), A: d(6)<<4 | d(7)}, true
	}
	return color.NRGBA{}, false
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}

// colorOr parses s, falling back to def for invalid values.
func colorOr(s string, def color.NRGBA) color.NRGBA {
	if c, ok := parseColor(s); ok {
		return c
	}
	return def
}
