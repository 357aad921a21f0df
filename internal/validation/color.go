package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

type rgb struct{ r, g, b float64 }

var rgbFunc = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})`)

var namedColors = map[string]rgb{
	"white": {255, 255, 255},
	"black": {0, 0, 0},
	"red":   {255, 0, 0},
	"green": {0, 128, 0},
	"blue":  {0, 0, 255},
}

// parseColor understands #rgb, #rrggbb, rgb()/rgba() and a few names.
func parseColor(s string) (rgb, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return rgb{}, false
	}
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return rgb{}, false
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return rgb{}, false
		}
		return rgb{float64(v >> 16 & 0xff), float64(v >> 8 & 0xff), float64(v & 0xff)}, true
	}
	if m := rgbFunc.FindStringSubmatch(s); m != nil {
		var c [3]float64
		for i := range c {
			n, _ := strconv.Atoi(m[i+1])
			c[i] = math.Min(255, float64(n))
		}
		return rgb{c[0], c[1], c[2]}, true
	}
	c, ok := namedColors[s]
	return c, ok
}

func luminance(c rgb) float64 {
	ch := func(v float64) float64 {
		s := v / 255
		if s <= 0.03928 {
			return s / 12.92
		}
		return math.Pow((s+0.055)/1.055, 2.4)
	}
	return 0.2126*ch(c.r) + 0.7152*ch(c.g) + 0.0722*ch(c.b)
}

// contrastRatio is the WCAG 2.1 ratio of two colors. Unparseable input yields
// ok=false.
func contrastRatio(a, b string) (float64, bool) {
	ca, ok := parseColor(a)
	if !ok {
		return 0, false
	}
	cb, ok := parseColor(b)
	if !ok {
		return 0, false
	}
	la, lb := luminance(ca), luminance(cb)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05), true
}

// largeText follows the WCAG definition: 18px, or 14px when bold.
func largeText(fontSize float64, weight string) bool {
	if fontSize >= 18 {
		return true
	}
	if fontSize < 14 {
		return false
	}
	w := strings.ToLower(strings.TrimSpace(weight))
	if w == "bold" || w == "bolder" {
		return true
	}
	n, err := strconv.Atoi(w)
	return err == nil && n >= 700
}
