package builder

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/figgo/figgo/internal/design"
	"github.com/figgo/figgo/internal/ir"
)

// Style-name fragments to inferred CSS weights, checked in order so
// "SemiBold" wins over "Bold" and "ExtraLight" over "Light".
var weightNames = []struct {
	name   string
	weight int
}{
	{"thin", 100},
	{"hairline", 100},
	{"extralight", 200},
	{"ultralight", 200},
	{"semibold", 600},
	{"demibold", 600},
	{"extrabold", 800},
	{"ultrabold", 800},
	{"light", 300},
	{"medium", 500},
	{"bold", 700},
	{"black", 900},
	{"heavy", 900},
	{"regular", 400},
	{"normal", 400},
}

// buildText canonicalizes a TEXT node's content and style.
func buildText(raw *design.Node) *ir.Text {
	content := CanonicalText(raw.Characters)
	return &ir.Text{
		Content: content,
		Lines:   splitLines(raw.Characters),
		Style:   buildTextStyle(raw),
	}
}

// CanonicalText normalizes design text: NFC normalization, non-breaking
// spaces to regular spaces, whitespace runs collapsed, ends trimmed.
func CanonicalText(s string) string {
	s = norm.NFC.String(s)
	s = strings.NewReplacer(" ", " ", " ", " ", " ", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// splitLines splits text into logical lines at newline and bullet
// boundaries, each line canonicalized; empty lines are dropped.
func splitLines(s string) []string {
	s = norm.NFC.String(s)
	s = strings.NewReplacer(" ", " ", " ", " ", " ", " ").Replace(s)
	s = strings.ReplaceAll(s, "•", "\n") // bullets start a new line
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func buildTextStyle(raw *design.Node) ir.TextStyle {
	var st ir.TextStyle
	if raw.Style != nil {
		s := raw.Style
		st.Family = s.FontFamily
		st.Size = nonNegative(s.FontSize)
		st.Weight = resolveWeight(s)
		st.LineHeight = nonNegative(s.LineHeightPx)
		st.LetterSpacing = s.LetterSpacing
		if math.IsNaN(st.LetterSpacing) {
			st.LetterSpacing = 0
		}
		st.Align = mapAlign(s.TextAlignHorizontal)
		st.Decoration = mapDecoration(s.TextDecoration)
		st.Transform = mapTransform(s.TextCase)
	}

	// Glyph color: first visible solid fill, alpha-combined.
	for i := range raw.Fills {
		p := &raw.Fills[i]
		if !p.IsVisible() || p.Type != "SOLID" || p.Color == nil {
			continue
		}
		st.Color = ir.Color{R: p.Color.R, G: p.Color.G, B: p.Color.B}
		st.Alpha = p.Color.A * p.EffectiveOpacity()
		st.HasColor = true
		break
	}
	return st
}

// resolveWeight uses the explicit numeric weight when present and infers
// from the style name otherwise.
func resolveWeight(s *design.TypeStyle) int {
	if s.FontWeight > 0 {
		return int(s.FontWeight)
	}
	style := strings.ToLower(strings.ReplaceAll(s.FontStyle, " ", ""))
	for _, w := range weightNames {
		if strings.Contains(style, w.name) {
			return w.weight
		}
	}
	if s.FontStyle != "" || s.FontFamily != "" {
		return 400
	}
	return 0
}

func mapAlign(v string) string {
	switch v {
	case "CENTER":
		return "center"
	case "RIGHT":
		return "right"
	case "JUSTIFIED":
		return "justify"
	default:
		return "left"
	}
}

func mapDecoration(v string) string {
	switch v {
	case "UNDERLINE":
		return "underline"
	case "STRIKETHROUGH":
		return "line-through"
	default:
		return ""
	}
}

func mapTransform(v string) string {
	switch v {
	case "UPPER":
		return "uppercase"
	case "LOWER":
		return "lowercase"
	case "TITLE":
		return "capitalize"
	default:
		return ""
	}
}
