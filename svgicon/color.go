package svgicon

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/benoitkugler/pathedit/svgpath"
	"golang.org/x/image/colornames"
)

// ParseColor resolves an SVG paint value to a plain color.
// It supports #rgb, #rrggbb, rgb(r, g, b) with integers or
// percentages, and the SVG named colors. The boolean is false for
// "none", "transparent", "currentColor", paint servers (url(...))
// and invalid values.
func ParseColor(s string) (color.RGBA, bool) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return color.RGBA{}, false
	case s[0] == '#':
		return parseHexColor(s[1:])
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseRGBFunc(s[len("rgb(") : len(s)-1])
	}
	c, ok := colornames.Map[strings.ToLower(s)]
	return c, ok
}

func parseHexColor(hex string) (color.RGBA, bool) {
	var r, g, b uint64
	var err error
	switch len(hex) {
	case 3:
		var v uint64
		v, err = strconv.ParseUint(hex, 16, 16)
		r, g, b = (v>>8&0xf)*0x11, (v>>4&0xf)*0x11, (v&0xf)*0x11
	case 6:
		var v uint64
		v, err = strconv.ParseUint(hex, 16, 32)
		r, g, b = v>>16&0xff, v>>8&0xff, v&0xff
	default:
		return color.RGBA{}, false
	}
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{uint8(r), uint8(g), uint8(b), 0xff}, true
}

func parseRGBFunc(args string) (color.RGBA, bool) {
	parts := strings.Split(args, ",")
	if len(parts) != 3 {
		parts = strings.Fields(args)
	}
	if len(parts) != 3 {
		return color.RGBA{}, false
	}
	var out [3]uint8
	for i, part := range parts {
		part = strings.TrimSpace(part)
		percent := strings.HasSuffix(part, "%")
		f, err := svgpath.ParseNumber(strings.TrimSuffix(part, "%"))
		if err != nil {
			return color.RGBA{}, false
		}
		if percent {
			f = f * 255 / 100
		}
		out[i] = uint8(max(0, min(255, f+0.5)))
	}
	return color.RGBA{out[0], out[1], out[2], 0xff}, true
}
