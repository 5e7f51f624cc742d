package styling

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor converts a CSS colour value into a non-premultiplied colour.
// Supported forms are named colours, "transparent", #rgb, #rrggbb,
// #rrggbbaa, rgb(r, g, b) and rgba(r, g, b, a).
func ParseColor(css string) (color.NRGBA, error) {
	s := strings.ToLower(strings.TrimSpace(css))

	switch {
	case s == "":
		return color.NRGBA{}, fmt.Errorf("empty colour")
	case s == "transparent":
		return color.NRGBA{}, nil
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasPrefix(s, "rgb"):
		return parseFunctional(s)
	}

	if named, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: named.R, G: named.G, B: named.B, A: named.A}, nil
	}
	return color.NRGBA{}, fmt.Errorf("unknown colour %q", css)
}

// MustParseColor is ParseColor for literals known to be valid.
func MustParseColor(css string) color.NRGBA {
	c, err := ParseColor(css)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHex(s string) (color.NRGBA, error) {
	alpha := uint8(255)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

func parseFunctional(s string) (color.NRGBA, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return color.NRGBA{}, fmt.Errorf("malformed colour %q", s)
	}

	fields := strings.FieldsFunc(s[open+1:len(s)-1], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	if len(fields) != 3 && len(fields) != 4 {
		return color.NRGBA{}, fmt.Errorf("colour %q needs 3 or 4 components", s)
	}

	var channels [3]uint8
	for i := 0; i < 3; i++ {
		v, err := parseComponent(fields[i], 255)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("colour %q: %w", s, err)
		}
		channels[i] = uint8(math.Round(v))
	}

	alpha := uint8(255)
	if len(fields) == 4 {
		a, err := parseComponent(fields[3], 1)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("colour %q: %w", s, err)
		}
		alpha = uint8(math.Round(a * 255))
	}

	return color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: alpha}, nil
}

// parseComponent reads a number or percentage and clamps it to [0, max].
func parseComponent(field string, max float64) (float64, error) {
	percent := strings.HasSuffix(field, "%")
	field = strings.TrimSuffix(field, "%")
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid component %q", field)
	}
	// multiply first: max/100 is inexact and 50% would land below the .5
	if percent {
		v = v * max / 100
	}
	return math.Max(0, math.Min(max, v)), nil
}

// Blend mixes two colours in RGB space; t=0 yields a, t=1 yields b. Alpha
// is interpolated linearly.
func Blend(a, b color.NRGBA, t float64) color.NRGBA {
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	r, g, bl := ca.BlendRgb(cb, t).Clamped().RGB255()
	alpha := float64(a.A) + (float64(b.A)-float64(a.A))*t
	return color.NRGBA{R: r, G: g, B: bl, A: uint8(math.Round(alpha))}
}
