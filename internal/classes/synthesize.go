// Package classes turns IR nodes into ordered, deduplicated utility class
// tokens. Rule order is fixed; identical IR input always yields a
// byte-identical token list.
package classes

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/figgo/figgo/internal/ir"
)

// Recognized axis alignment mappings. Unrecognized design values emit no
// token at all rather than guessing.
var (
	alignItemsTokens = map[string]string{
		"flex-start": "items-start",
		"center":     "items-center",
		"flex-end":   "items-end",
		"baseline":   "items-baseline",
		"stretch":    "items-stretch",
	}
	justifyTokens = map[string]string{
		"flex-start":    "justify-start",
		"center":        "justify-center",
		"flex-end":      "justify-end",
		"space-between": "justify-between",
	}
)

// Synthesize produces the ordered token list for one IR node.
func Synthesize(n *ir.Node) []string {
	var tokens []string

	// Size.
	tokens = append(tokens, SizeTokens(n.Bounds)...)

	// Position.
	if n.AbsolutePos {
		tokens = append(tokens,
			"absolute",
			fmt.Sprintf("left-[%spx]", px(n.RelBounds.X)),
			fmt.Sprintf("top-[%spx]", px(n.RelBounds.Y)),
		)
	} else {
		tokens = append(tokens, "relative")
	}

	// Overflow.
	if n.Clips {
		tokens = append(tokens, "overflow-hidden")
	}

	// Flex container.
	tokens = append(tokens, layoutTokens(n.Layout)...)

	// Color: text color for TEXT nodes, background otherwise.
	if n.Kind == ir.KindText {
		tokens = append(tokens, textTokens(n)...)
	} else if n.Background != nil {
		tokens = append(tokens, fmt.Sprintf("bg-[%s]", n.Background.Value()))
	}

	// Border.
	if n.Stroke != nil && n.Stroke.Weight > 0 && n.Stroke.Alpha > 0 {
		if math.Round(n.Stroke.Weight) == 1 {
			tokens = append(tokens, "border")
		} else {
			tokens = append(tokens, fmt.Sprintf("border-[%spx]", px(n.Stroke.Weight)))
		}
		tokens = append(tokens, fmt.Sprintf("border-[%s]", n.Stroke.Color.CSSValue(n.Stroke.Alpha)))
	}

	// Corner radii.
	tokens = append(tokens, radiusTokens(n.Radii)...)

	// Shadows.
	for _, s := range n.Shadows {
		tokens = append(tokens, shadowToken(s))
	}

	// Opacity.
	if n.Opacity < 1 {
		tokens = append(tokens, fmt.Sprintf("opacity-[%s]", trimFloat(n.Opacity)))
	}

	// Rotation.
	if n.Rotation != 0 {
		tokens = append(tokens, fmt.Sprintf("rotate-[%sdeg]", trimFloat(n.Rotation)))
	}

	// Z-index.
	if n.ZIndex > 0 {
		tokens = append(tokens, fmt.Sprintf("z-[%d]", n.ZIndex))
	}

	return resolveConflicts(dedupe(tokens))
}

// SizeTokens returns the width/height tokens for a bounds rect, quantized to
// whole pixels.
func SizeTokens(b ir.Rect) []string {
	return []string{
		fmt.Sprintf("w-[%spx]", px(b.W)),
		fmt.Sprintf("h-[%spx]", px(b.H)),
	}
}

func layoutTokens(l ir.Layout) []string {
	if l.Mode == ir.LayoutNone {
		return nil
	}
	tokens := []string{"flex"}
	if l.Mode == ir.LayoutColumn {
		tokens = append(tokens, "flex-col")
	}
	if l.Wrap {
		tokens = append(tokens, "flex-wrap")
	}
	if l.Gap > 0 {
		tokens = append(tokens, fmt.Sprintf("gap-[%spx]", px(l.Gap)))
	}
	for _, p := range []struct {
		v    float64
		name string
	}{
		{l.PadTop, "pt"},
		{l.PadRight, "pr"},
		{l.PadBottom, "pb"},
		{l.PadLeft, "pl"},
	} {
		if p.v > 0 {
			tokens = append(tokens, fmt.Sprintf("%s-[%spx]", p.name, px(p.v)))
		}
	}
	if t, ok := alignItemsTokens[l.AlignItems]; ok {
		tokens = append(tokens, t)
	}
	if t, ok := justifyTokens[l.JustifyContent]; ok {
		tokens = append(tokens, t)
	}
	return tokens
}

func textTokens(n *ir.Node) []string {
	if n.Text == nil {
		return nil
	}
	st := n.Text.Style
	var tokens []string
	if st.HasColor {
		tokens = append(tokens, fmt.Sprintf("text-[%s]", st.Color.CSSValue(st.Alpha)))
	}
	if st.Size > 0 {
		tokens = append(tokens, fmt.Sprintf("text-[%spx]", px(st.Size)))
	}
	if st.Family != "" {
		tokens = append(tokens, FontFamilyToken(st.Family))
	}
	if st.Weight > 0 {
		tokens = append(tokens, fmt.Sprintf("font-[%d]", st.Weight))
	}
	if st.LineHeight > 0 {
		tokens = append(tokens, fmt.Sprintf("leading-[%spx]", px(st.LineHeight)))
	}
	if math.Abs(st.LetterSpacing) > 0.05 {
		tokens = append(tokens, fmt.Sprintf("tracking-[%spx]", trimFloat(st.LetterSpacing)))
	}
	switch st.Align {
	case "center":
		tokens = append(tokens, "text-center")
	case "right":
		tokens = append(tokens, "text-right")
	case "justify":
		tokens = append(tokens, "text-justify")
	}
	switch st.Decoration {
	case "underline":
		tokens = append(tokens, "underline")
	case "line-through":
		tokens = append(tokens, "line-through")
	}
	switch st.Transform {
	case "uppercase", "lowercase", "capitalize":
		tokens = append(tokens, st.Transform)
	}
	return tokens
}

// FontFamilyToken formats a font-family utility token. Spaces inside the
// quoted family collapse to underscores so the token stays atomic.
func FontFamilyToken(family string) string {
	return fmt.Sprintf("font-['%s']", strings.ReplaceAll(family, " ", "_"))
}

func radiusTokens(r ir.CornerRadii) []string {
	if r.IsZero() {
		return nil
	}
	if r.Uniform() {
		return []string{fmt.Sprintf("rounded-[%spx]", px(r.TL))}
	}
	var tokens []string
	for _, c := range []struct {
		v    float64
		name string
	}{
		{r.TL, "rounded-tl"},
		{r.TR, "rounded-tr"},
		{r.BR, "rounded-br"},
		{r.BL, "rounded-bl"},
	} {
		if c.v > 0 {
			tokens = append(tokens, fmt.Sprintf("%s-[%spx]", c.name, px(c.v)))
		}
	}
	return tokens
}

// ShadowValue renders the CSS box-shadow expression for one shadow, with
// underscores in place of spaces so it survives as a single token.
func ShadowValue(s ir.Shadow) string {
	parts := []string{
		px(s.OffsetX) + "px",
		px(s.OffsetY) + "px",
		px(s.Radius) + "px",
		px(s.Spread) + "px",
		s.Color.RGBA(s.Alpha),
	}
	v := strings.Join(parts, "_")
	if s.Inset {
		v = "inset_" + v
	}
	return v
}

func shadowToken(s ir.Shadow) string {
	return fmt.Sprintf("shadow-[%s]", ShadowValue(s))
}

// px quantizes a pixel value to a whole number string.
func px(v float64) string {
	return strconv.Itoa(int(math.Round(v)))
}

// trimFloat formats a float with up to two decimals, trailing zeros removed.
func trimFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		s = "0"
	}
	return s
}

// dedupe removes duplicate tokens keeping the first occurrence.
func dedupe(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// resolveConflicts drops tokens that contradict a stronger token in the same
// list: "relative" loses to "absolute", the bare "border" keyword loses to
// an explicit border width.
func resolveConflicts(tokens []string) []string {
	hasAbsolute := false
	hasBorderWidth := false
	for _, t := range tokens {
		if t == "absolute" {
			hasAbsolute = true
		}
		if strings.HasPrefix(t, "border-[") && strings.HasSuffix(t, "px]") {
			hasBorderWidth = true
		}
	}
	out := tokens[:0]
	for _, t := range tokens {
		if t == "relative" && hasAbsolute {
			continue
		}
		if t == "border" && hasBorderWidth {
			continue
		}
		out = append(out, t)
	}
	return out
}
