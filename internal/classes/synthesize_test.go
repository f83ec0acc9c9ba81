package classes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/figgo/figgo/internal/ir"
)

func baseNode() *ir.Node {
	return &ir.Node{
		Kind:    ir.KindContainer,
		Bounds:  ir.Rect{W: 200, H: 100},
		Opacity: 1,
	}
}

// ---------------------------------------------------------------------------
// Token ordering and determinism
// ---------------------------------------------------------------------------

func TestSynthesizeFixedOrder(t *testing.T) {
	n := baseNode()
	n.AbsolutePos = true
	n.RelBounds = ir.Rect{X: 12, Y: 34}
	n.Clips = true
	n.Background = &ir.Background{Kind: ir.BackgroundSolid, Color: ir.Color{R: 1, G: 1, B: 1}, Alpha: 1}
	n.Stroke = &ir.Stroke{Color: ir.Color{}, Alpha: 1, Weight: 2}
	n.Radii = ir.CornerRadii{TL: 8, TR: 8, BR: 8, BL: 8}

	assert.Equal(t, []string{
		"w-[200px]", "h-[100px]",
		"absolute", "left-[12px]", "top-[34px]",
		"overflow-hidden",
		"bg-[#ffffff]",
		"border-[2px]", "border-[#000000]",
		"rounded-[8px]",
	}, Synthesize(n))
}

func TestSynthesizeDeterministic(t *testing.T) {
	n := baseNode()
	n.Layout = ir.Layout{
		Mode: ir.LayoutRow, Gap: 8, PadTop: 4, PadLeft: 4,
		AlignItems: "center", JustifyContent: "space-between",
	}
	first := Synthesize(n)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Synthesize(n))
	}
}

func TestLayoutTokens(t *testing.T) {
	n := baseNode()
	n.Layout = ir.Layout{
		Mode: ir.LayoutColumn, Gap: 16, Wrap: true,
		PadTop: 10, PadRight: 20, PadBottom: 10, PadLeft: 20,
		AlignItems: "center", JustifyContent: "flex-end",
	}
	got := Synthesize(n)
	assert.Equal(t, []string{
		"w-[200px]", "h-[100px]", "relative",
		"flex", "flex-col", "flex-wrap", "gap-[16px]",
		"pt-[10px]", "pr-[20px]", "pb-[10px]", "pl-[20px]",
		"items-center", "justify-end",
	}, got)
}

func TestUnrecognizedAlignmentEmitsNothing(t *testing.T) {
	n := baseNode()
	n.Layout = ir.Layout{Mode: ir.LayoutRow, AlignItems: "weird", JustifyContent: "also-weird"}
	got := Synthesize(n)
	for _, tok := range got {
		assert.NotContains(t, tok, "items-")
		assert.NotContains(t, tok, "justify-")
	}
}

// ---------------------------------------------------------------------------
// Text, border, shadow specifics
// ---------------------------------------------------------------------------

func TestTextTokens(t *testing.T) {
	n := baseNode()
	n.Kind = ir.KindText
	n.Text = &ir.Text{
		Content: "Hello",
		Style: ir.TextStyle{
			Family: "Inter Tight", Size: 14, Weight: 600,
			LineHeight: 20, LetterSpacing: 0.5,
			Align: "center", Decoration: "underline", Transform: "uppercase",
			Color: ir.Color{R: 1, G: 1, B: 1}, Alpha: 1, HasColor: true,
		},
	}
	got := Synthesize(n)
	assert.Equal(t, []string{
		"w-[200px]", "h-[100px]", "relative",
		"text-[#ffffff]", "text-[14px]",
		"font-['Inter_Tight']", "font-[600]",
		"leading-[20px]", "tracking-[0.5px]",
		"text-center", "underline", "uppercase",
	}, got)
}

func TestTinyLetterSpacingDropped(t *testing.T) {
	n := baseNode()
	n.Kind = ir.KindText
	n.Text = &ir.Text{Style: ir.TextStyle{LetterSpacing: 0.02}}
	for _, tok := range Synthesize(n) {
		assert.NotContains(t, tok, "tracking")
	}
}

func TestHairlineBorderUsesKeyword(t *testing.T) {
	n := baseNode()
	n.Stroke = &ir.Stroke{Color: ir.Color{R: 1}, Alpha: 1, Weight: 1}
	got := Synthesize(n)
	assert.Contains(t, got, "border")
	assert.Contains(t, got, "border-[#ff0000]")
	assert.NotContains(t, got, "border-[1px]")
}

func TestShadowValueUnderscored(t *testing.T) {
	s := ir.Shadow{OffsetX: 0, OffsetY: 4, Radius: 8, Spread: 0, Color: ir.Color{}, Alpha: 0.25}
	assert.Equal(t, "0px_4px_8px_0px_rgba(0,0,0,0.25)", ShadowValue(s))

	s.Inset = true
	assert.Equal(t, "inset_0px_4px_8px_0px_rgba(0,0,0,0.25)", ShadowValue(s))
}

func TestOpacityRotationZIndex(t *testing.T) {
	n := baseNode()
	n.Opacity = 0.5
	n.Rotation = 45
	n.ZIndex = 3
	got := Synthesize(n)
	assert.Contains(t, got, "opacity-[0.5]")
	assert.Contains(t, got, "rotate-[45deg]")
	assert.Contains(t, got, "z-[3]")
}

// ---------------------------------------------------------------------------
// Dedupe and conflict resolution
// ---------------------------------------------------------------------------

func TestConflictAbsoluteBeatsRelative(t *testing.T) {
	got := resolveConflicts([]string{"absolute", "relative", "w-[10px]"})
	assert.Equal(t, []string{"absolute", "w-[10px]"}, got)
}

func TestConflictBorderWidthBeatsKeyword(t *testing.T) {
	got := resolveConflicts([]string{"border", "border-[3px]", "border-[#000000]"})
	assert.Equal(t, []string{"border-[3px]", "border-[#000000]"}, got)
}

func TestDedupeKeepsFirst(t *testing.T) {
	got := dedupe([]string{"flex", "gap-[8px]", "flex", "gap-[8px]"})
	assert.Equal(t, []string{"flex", "gap-[8px]"}, got)
}

func TestPxRounds(t *testing.T) {
	assert.Equal(t, "13", px(12.6))
	assert.Equal(t, "12", px(12.4))
	assert.Equal(t, "0", px(0))
}
