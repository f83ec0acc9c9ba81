package ir

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Color is an opaque RGB color with channels in 0..1. Alpha is carried
// separately wherever it matters (paints, strokes, shadows) so alpha-free
// comparisons stay trivial.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// channel clamps and quantizes one 0..1 channel to 0..255.
func channel(v float64) int {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return int(math.Round(v * 255))
}

// Hex returns the lowercase #rrggbb form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

// RGBA returns the rgba(r,g,b,a) form with the given alpha.
func (c Color) RGBA(alpha float64) string {
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", channel(c.R), channel(c.G), channel(c.B), formatAlpha(alpha))
}

// Hex8 returns the 8-digit #rrggbbaa form with the given alpha.
func (c Color) Hex8(alpha float64) string {
	return fmt.Sprintf("%s%02x", c.Hex(), channel(alpha))
}

// IsOpaqueBlack reports whether the color is pure black at full alpha.
func (c Color) IsOpaqueBlack(alpha float64) bool {
	return channel(c.R) == 0 && channel(c.G) == 0 && channel(c.B) == 0 && alpha >= 0.999
}

// CSSValue returns the canonical token value for the color at the given
// alpha: bare hex when opaque, rgba form otherwise.
func (c Color) CSSValue(alpha float64) string {
	if alpha >= 0.999 {
		return c.Hex()
	}
	return c.RGBA(alpha)
}

// formatAlpha trims trailing zeros so 0.50 and 0.5 compare equal at the
// token level.
func formatAlpha(a float64) string {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	s := strconv.FormatFloat(a, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" {
		s = "0"
	}
	return s
}

var (
	hex6Re  = regexp.MustCompile(`^#([0-9a-fA-F]{6})$`)
	hex8Re  = regexp.MustCompile(`^#([0-9a-fA-F]{6})([0-9a-fA-F]{2})$`)
	slashRe = regexp.MustCompile(`^#([0-9a-fA-F]{6})/(\d{1,3})$`)
	rgbaRe  = regexp.MustCompile(`^rgba\((\d{1,3}),\s*(\d{1,3}),\s*(\d{1,3}),\s*([0-9.]+)\)$`)
)

// NormalizeColorValue reduces any of the accepted color encodings (#rrggbb,
// #rrggbbaa, #rrggbb/NN percent opacity, rgba(...)) to a canonical
// "rrggbb@aaa" comparison key, where aaa is the alpha quantized to 0..255.
// Returns false for values that are not colors (gradients, keywords).
func NormalizeColorValue(v string) (string, bool) {
	v = strings.TrimSpace(strings.ToLower(v))

	if m := hex8Re.FindStringSubmatch(v); m != nil {
		a, _ := strconv.ParseUint(m[2], 16, 8)
		return m[1] + "@" + strconv.Itoa(int(a)), true
	}
	if m := hex6Re.FindStringSubmatch(v); m != nil {
		return m[1] + "@255", true
	}
	if m := slashRe.FindStringSubmatch(v); m != nil {
		pct, _ := strconv.Atoi(m[2])
		if pct > 100 {
			return "", false
		}
		return m[1] + "@" + strconv.Itoa(int(math.Round(float64(pct)/100*255))), true
	}
	if m := rgbaRe.FindStringSubmatch(v); m != nil {
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		b, _ := strconv.Atoi(m[3])
		a, err := strconv.ParseFloat(m[4], 64)
		if err != nil || r > 255 || g > 255 || b > 255 || a < 0 || a > 1 {
			return "", false
		}
		return fmt.Sprintf("%02x%02x%02x@%d", r, g, b, int(math.Round(a*255))), true
	}
	return "", false
}

// ColorsEquivalent reports whether two color encodings denote the same
// color, tolerating the different alpha encodings.
func ColorsEquivalent(a, b string) bool {
	na, oka := NormalizeColorValue(a)
	nb, okb := NormalizeColorValue(b)
	if !oka || !okb {
		return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	}
	return na == nb
}
