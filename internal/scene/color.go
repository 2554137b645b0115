package scene

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor reads the color forms items carry: #rgb, #rrggbb, #rrggbbaa and
// rgb()/rgba(). "none" and "transparent" are fully transparent.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case s == "none" || s == "transparent":
		return color.NRGBA{}, nil
	case strings.HasPrefix(s, "rgb"):
		return parseFunc(s)
	case len(s) == 9 && s[0] == '#':
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
		}
		c, err := ParseColor(s[:7])
		c.A = uint8(a)
		return c, err
	case len(s) != 4 && len(s) != 7:
		// colorful.Hex ignores anything after the digits.
		return color.NRGBA{}, fmt.Errorf("color %q: not a hex color", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func parseFunc(s string) (color.NRGBA, error) {
	var args string
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		args = s[len("rgba(") : len(s)-1]
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		args = s[len("rgb(") : len(s)-1]
	default:
		return color.NRGBA{}, fmt.Errorf("color %q: malformed", s)
	}
	parts := strings.Split(args, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, fmt.Errorf("color %q: want 3 or 4 components", s)
	}
	var v [4]float64
	v[3] = 1
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return color.NRGBA{}, fmt.Errorf("color %q: bad component %q", s, p)
		}
		v[i] = f
	}
	clamp := func(f, hi float64) uint8 {
		return uint8(min(max(f, 0), hi) * 255 / hi)
	}
	return color.NRGBA{R: clamp(v[0], 255), G: clamp(v[1], 255), B: clamp(v[2], 255), A: clamp(v[3], 1)}, nil
}

// validColor returns s when it parses, fallback otherwise.
func validColor(s, fallback string) string {
	if _, err := ParseColor(s); err != nil {
		return fallback
	}
	return s
}
