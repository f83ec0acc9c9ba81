package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figgo/figgo/internal/config"
	"github.com/figgo/figgo/internal/design"
	"github.com/figgo/figgo/internal/ir"
)

func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }

func box(x, y, w, h float64) *design.Rect {
	return &design.Rect{X: x, Y: y, Width: w, Height: h}
}

func solid(r, g, b, a float64) design.Paint {
	return design.Paint{Type: "SOLID", Color: &design.Color{R: r, G: g, B: b, A: a}}
}

func docWith(root *design.Node) *design.Document {
	return &design.Document{Name: "fixture", Root: root}
}

func mustBuild(t *testing.T, doc *design.Document, target string) *ir.Node {
	t.Helper()
	root, err := Build(doc, target, config.Default())
	require.NoError(t, err)
	return root
}

// ---------------------------------------------------------------------------
// Target resolution and input errors
// ---------------------------------------------------------------------------

func TestBuildRequiresRoot(t *testing.T) {
	_, err := Build(nil, "1:1", config.Default())
	require.Error(t, err)
	assert.True(t, IsInputError(err))
	assert.False(t, IsNotFound(err))
}

func TestBuildTargetNotFound(t *testing.T) {
	doc := docWith(&design.Node{ID: "0:0", Type: "DOCUMENT"})
	_, err := Build(doc, "9:9", config.Default())
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestBuildFindsNestedTarget(t *testing.T) {
	doc := docWith(&design.Node{
		ID: "0:0", Type: "DOCUMENT",
		Children: []*design.Node{
			{ID: "1:1", Type: "CANVAS", Children: []*design.Node{
				{ID: "1:2", Name: "Card", Type: "FRAME", AbsoluteBoundingBox: box(100, 50, 200, 100)},
			}},
		},
	})
	root := mustBuild(t, doc, "1:2")
	assert.Equal(t, "1:2", root.ID)
	assert.True(t, root.IsRoot)
	assert.False(t, root.AbsolutePos)
}

// ---------------------------------------------------------------------------
// Coordinates and positioning
// ---------------------------------------------------------------------------

func TestBoundsRebasedToRootOrigin(t *testing.T) {
	doc := docWith(&design.Node{
		ID: "1:2", Type: "FRAME", AbsoluteBoundingBox: box(100, 50, 400, 300),
		Children: []*design.Node{
			{ID: "1:3", Type: "RECTANGLE", AbsoluteBoundingBox: box(120, 80, 40, 40)},
		},
	})
	root := mustBuild(t, doc, "1:2")

	assert.Equal(t, ir.Rect{X: 0, Y: 0, W: 400, H: 300}, root.RelBounds)
	child := root.Children[0]
	assert.Equal(t, ir.Rect{X: 20, Y: 30, W: 40, H: 40}, child.RelBounds)

	// Freeform parent puts children in absolute position.
	assert.True(t, child.AbsolutePos)
	assert.Contains(t, child.Classes, "absolute")
	assert.Contains(t, child.Classes, "left-[20px]")
	assert.Contains(t, child.Classes, "top-[30px]")
}

func TestOverlappingAbsoluteSiblingsStack(t *testing.T) {
	doc := docWith(&design.Node{
		ID: "1:2", Name: "Canvas", Type: "FRAME",
		AbsoluteBoundingBox: box(0, 0, 200, 200),
		Children: []*design.Node{
			{ID: "1:3", Type: "FRAME", AbsoluteBoundingBox: box(10, 10, 100, 100)},
			{ID: "1:4", Type: "FRAME", AbsoluteBoundingBox: box(50, 50, 100, 100)},
			{ID: "1:5", Type: "FRAME", AbsoluteBoundingBox: box(160, 160, 30, 30)},
		},
	})
	root := mustBuild(t, doc, "1:2")

	// Paint order decides stacking: the later of two overlapping absolute
	// siblings gets the explicit level.
	assert.Equal(t, 0, root.Children[0].ZIndex)
	assert.Equal(t, 1, root.Children[1].ZIndex)
	assert.Contains(t, root.Children[1].Classes, "z-[1]")

	// A sibling that overlaps nothing keeps the default stacking context.
	assert.Equal(t, 0, root.Children[2].ZIndex)
	assert.NotContains(t, root.Children[2].Classes, "z-[1]")
}

func TestAutoLayoutChildrenFlow(t *testing.T) {
	doc := docWith(&design.Node{
		ID: "1:2", Type: "FRAME", LayoutMode: "VERTICAL", ItemSpacing: 8,
		AbsoluteBoundingBox: box(0, 0, 100, 100),
		Children: []*design.Node{
			{ID: "1:3", Type: "RECTANGLE", AbsoluteBoundingBox: box(0, 0, 100, 40)},
			{ID: "1:4", Type: "RECTANGLE", AbsoluteBoundingBox: box(0, 48, 100, 40), LayoutPositioning: "ABSOLUTE"},
		},
	})
	root := mustBuild(t, doc, "1:2")

	assert.Contains(t, root.Classes, "flex")
	assert.Contains(t, root.Classes, "flex-col")
	assert.Contains(t, root.Classes, "gap-[8px]")

	// Auto child flows, explicitly absolute child does not.
	assert.False(t, root.Children[0].AbsolutePos)
	assert.True(t, root.Children[1].AbsolutePos)
}

// ---------------------------------------------------------------------------
// Visibility and clipping
// ---------------------------------------------------------------------------

func TestVisibilityPropagates(t *testing.T) {
	doc := docWith(&design.Node{
		ID: "1:2", Type: "FRAME", AbsoluteBoundingBox: box(0, 0, 100, 100),
		Children: []*design.Node{
			{ID: "1:3", Type: "FRAME", Visible: boolPtr(false), AbsoluteBoundingBox: box(0, 0, 50, 50),
				Children: []*design.Node{
					{ID: "1:4", Type: "RECTANGLE", AbsoluteBoundingBox: box(0, 0, 10, 10)},
				}},
		},
	})
	root := mustBuild(t, doc, "1:2")

	hidden := root.Children[0]
	assert.False(t, hidden.VisibleEffective)
	// The child is visible by its own flag but hidden by its ancestor.
	assert.True(t, hidden.Children[0].OwnVisible)
	assert.False(t, hidden.Children[0].VisibleEffective)
}

func TestNearZeroOpacityHides(t *testing.T) {
	doc := docWith(&design.Node{
		ID: "1:2", Type: "FRAME", AbsoluteBoundingBox: box(0, 0, 100, 100),
		Children: []*design.Node{
			{ID: "1:3", Type: "RECTANGLE", Opacity: floatPtr(0.005), AbsoluteBoundingBox: box(0, 0, 10, 10)},
		},
	})
	root := mustBuild(t, doc, "1:2")
	assert.False(t, root.Children[0].VisibleEffective)
}

func TestClipCullsOutsideChildren(t *testing.T) {
	doc := docWith(&design.Node{
		ID: "1:2", Type: "FRAME", ClipsContent: true, AbsoluteBoundingBox: box(0, 0, 100, 100),
		Children: []*design.Node{
			{ID: "in", Type: "RECTANGLE", AbsoluteBoundingBox: box(10, 10, 20, 20)},
			{ID: "out", Type: "RECTANGLE", AbsoluteBoundingBox: box(200, 200, 20, 20)},
			{ID: "straddle", Type: "RECTANGLE", AbsoluteBoundingBox: box(90, 90, 40, 40)},
		},
	})
	root := mustBuild(t, doc, "1:2")

	assert.Contains(t, root.Classes, "overflow-hidden")
	assert.True(t, root.Children[0].VisibleEffective)
	assert.False(t, root.Children[1].VisibleEffective)
	// Partial overlap still renders.
	assert.True(t, root.Children[2].VisibleEffective)
}

func TestNestedClipsIntersect(t *testing.T) {
	doc := docWith(&design.Node{
		ID: "1:2", Type: "FRAME", ClipsContent: true, AbsoluteBoundingBox: box(0, 0, 100, 100),
		Children: []*design.Node{
			{ID: "1:3", Type: "FRAME", ClipsContent: true, AbsoluteBoundingBox: box(50, 0, 100, 100),
				Children: []*design.Node{
					// Inside the inner frame but outside the outer clip.
					{ID: "1:4", Type: "RECTANGLE", AbsoluteBoundingBox: box(110, 10, 20, 20)},
					// Inside the intersection of both clips.
					{ID: "1:5", Type: "RECTANGLE", AbsoluteBoundingBox: box(60, 10, 20, 20)},
				}},
		},
	})
	root := mustBuild(t, doc, "1:2")

	inner := root.Children[0]
	assert.False(t, inner.Children[0].VisibleEffective)
	assert.True(t, inner.Children[1].VisibleEffective)
}

// ---------------------------------------------------------------------------
// Paints and backgrounds
// ---------------------------------------------------------------------------

func TestTopmostFillWinsBackground(t *testing.T) {
	doc := docWith(&design.Node{
		ID: "1:2", Type: "FRAME", AbsoluteBoundingBox: box(0, 0, 100, 100),
		Fills: []design.Paint{
			solid(1, 0, 0, 1),
			solid(0, 0, 1, 1), // painted on top
		},
	})
	root := mustBuild(t, doc, "1:2")

	require.NotNil(t, root.Background)
	assert.Equal(t, "#0000ff", root.Background.Value())
	assert.Contains(t, root.Classes, "bg-[#0000ff]")
}

func TestInvisibleAndTransparentFillsSkipped(t *testing.T) {
	invisible := solid(1, 0, 0, 1)
	invisible.Visible = boolPtr(false)
	doc := docWith(&design.Node{
		ID: "1:2", Type: "FRAME", AbsoluteBoundingBox: box(0, 0, 100, 100),
		Fills: []design.Paint{
			solid(0, 1, 0, 1),
			solid(0, 0, 1, 0), // fully transparent, not a background
			invisible,
		},
	})
	root := mustBuild(t, doc, "1:2")

	require.NotNil(t, root.Background)
	assert.Equal(t, "#00ff00", root.Background.Value())
}

func TestGroupFillsFlowToChildren(t *testing.T) {
	doc := docWith(&design.Node{
		ID: "1:2", Type: "GROUP", AbsoluteBoundingBox: box(0, 0, 100, 100),
		Fills: []design.Paint{solid(1, 0, 0, 1)},
		Children: []*design.Node{
			{ID: "1:3", Type: "FRAME", ClipsContent: true, AbsoluteBoundingBox: box(0, 0, 100, 100)},
		},
	})
	root := mustBuild(t, doc, "1:2")

	// The group renders no background of its own.
	assert.Nil(t, root.Background)

	child := root.Children[0]
	require.NotNil(t, child.Background)
	assert.Equal(t, "#ff0000", child.Background.Value())
	require.Len(t, child.Fills, 1)
	assert.True(t, child.Fills[0].Inherited)
}

func TestInheritedOpaqueBlackSuppressedOnWrappers(t *testing.T) {
	doc := docWith(&design.Node{
		ID: "1:2", Type: "GROUP", AbsoluteBoundingBox: box(0, 0, 100, 100),
		Fills: []design.Paint{solid(0, 0, 0, 1)},
		Children: []*design.Node{
			// Non-clipping wrapper: opaque black treated as accidental.
			{ID: "wrapper", Type: "FRAME", AbsoluteBoundingBox: box(0, 0, 100, 100)},
			// Clipping container: inherited fill honored fully.
			{ID: "clipper", Type: "FRAME", ClipsContent: true, AbsoluteBoundingBox: box(0, 0, 100, 100)},
		},
	})
	root := mustBuild(t, doc, "1:2")

	assert.Nil(t, root.Children[0].Background)
	require.NotNil(t, root.Children[1].Background)
	assert.Equal(t, "#000000", root.Children[1].Background.Value())
}

func TestOwnFillBeatsInherited(t *testing.T) {
	doc := docWith(&design.Node{
		ID: "1:2", Type: "GROUP", AbsoluteBoundingBox: box(0, 0, 100, 100),
		Fills: []design.Paint{solid(1, 0, 0, 1)},
		Children: []*design.Node{
			{ID: "1:3", Type: "FRAME", AbsoluteBoundingBox: box(0, 0, 100, 100),
				Fills: []design.Paint{solid(0, 0, 1, 1)}},
		},
	})
	root := mustBuild(t, doc, "1:2")
	assert.Equal(t, "#0000ff", root.Children[0].Background.Value())
}

func TestTextFillIsNeverBackground(t *testing.T) {
	doc := docWith(&design.Node{
		ID: "1:2", Type: "TEXT", Characters: "Hi", AbsoluteBoundingBox: box(0, 0, 40, 20),
		Fills: []design.Paint{solid(1, 1, 1, 1)},
	})
	root := mustBuild(t, doc, "1:2")

	assert.Nil(t, root.Background)
	require.NotNil(t, root.Text)
	assert.True(t, root.Text.Style.HasColor)
	assert.Equal(t, "#ffffff", root.Text.Style.Color.Hex())
}

func TestGradientBackground(t *testing.T) {
	doc := docWith(&design.Node{
		ID: "1:2", Type: "FRAME", AbsoluteBoundingBox: box(0, 0, 100, 100),
		Fills: []design.Paint{{
			Type: "GRADIENT_LINEAR",
			GradientStops: []design.GradientStop{
				{Position: 0, Color: design.Color{A: 1}},
				{Position: 1, Color: design.Color{R: 1, G: 1, B: 1, A: 1}},
			},
		}},
	})
	root := mustBuild(t, doc, "1:2")

	require.NotNil(t, root.Background)
	assert.Equal(t, ir.BackgroundGradient, root.Background.Kind)
	assert.Equal(t, "linear-gradient(180deg,#000000_0%,#ffffff_100%)", root.Background.Value())
}

// ---------------------------------------------------------------------------
// Text canonicalization
// ---------------------------------------------------------------------------

func TestCanonicalText(t *testing.T) {
	assert.Equal(t, "Hello World", CanonicalText("  Hello   World \n"))
	assert.Equal(t, "a b", CanonicalText("a\t\tb"))
	assert.Equal(t, "", CanonicalText("   "))
}

func TestSplitLinesBullets(t *testing.T) {
	lines := splitLines("First\nSecond • Third")
	assert.Equal(t, []string{"First", "Second", "Third"}, lines)
}

func TestWeightInference(t *testing.T) {
	cases := []struct {
		style  string
		weight int
	}{
		{"SemiBold", 600},
		{"Bold", 700},
		{"Extra Light", 200},
		{"Light Italic", 300},
		{"Regular", 400},
		{"Black", 900},
	}
	for _, tc := range cases {
		got := resolveWeight(&design.TypeStyle{FontStyle: tc.style})
		assert.Equal(t, tc.weight, got, "style %q", tc.style)
	}

	// Explicit numeric weight wins over the name.
	assert.Equal(t, 500, resolveWeight(&design.TypeStyle{FontStyle: "Bold", FontWeight: 500}))
}

// ---------------------------------------------------------------------------
// Icon classification
// ---------------------------------------------------------------------------

func TestVectorLeafIsIcon(t *testing.T) {
	doc := docWith(&design.Node{
		ID: "1:2", Type: "FRAME", AbsoluteBoundingBox: box(0, 0, 100, 100),
		Children: []*design.Node{
			{ID: "icon", Type: "VECTOR", AbsoluteBoundingBox: box(0, 0, 24, 24),
				Fills: []design.Paint{solid(0.2, 0.2, 0.2, 1)}},
		},
	})
	root := mustBuild(t, doc, "1:2")

	hint := root.Children[0].Icon
	assert.True(t, hint.IsIcon)
	assert.True(t, hint.Tintable)
	require.NotNil(t, hint.DominantColor)
	assert.Equal(t, "#333333", hint.DominantColor.Hex())
}

func TestOversizedVectorIsNotIcon(t *testing.T) {
	doc := docWith(&design.Node{
		ID: "1:2", Type: "FRAME", AbsoluteBoundingBox: box(0, 0, 500, 500),
		Children: []*design.Node{
			{ID: "big", Type: "VECTOR", AbsoluteBoundingBox: box(0, 0, 200, 200)},
			{ID: "tiny", Type: "VECTOR", AbsoluteBoundingBox: box(0, 0, 4, 4)},
			{ID: "stretched", Type: "VECTOR", AbsoluteBoundingBox: box(0, 0, 90, 20)},
		},
	})
	root := mustBuild(t, doc, "1:2")

	for _, c := range root.Children {
		assert.False(t, c.Icon.IsIcon, "node %s", c.ID)
	}
}

func TestContainerIconWithVectorLeaves(t *testing.T) {
	doc := docWith(&design.Node{
		ID: "icon", Type: "FRAME", AbsoluteBoundingBox: box(0, 0, 32, 32),
		Children: []*design.Node{
			{ID: "p1", Type: "VECTOR", AbsoluteBoundingBox: box(2, 2, 28, 28)},
			{ID: "p2", Type: "ELLIPSE", AbsoluteBoundingBox: box(8, 8, 16, 16)},
		},
	})
	root := mustBuild(t, doc, "icon")
	assert.True(t, root.Icon.IsIcon)
}

func TestContainerWithTextIsNotIcon(t *testing.T) {
	doc := docWith(&design.Node{
		ID: "badge", Type: "FRAME", AbsoluteBoundingBox: box(0, 0, 32, 32),
		Children: []*design.Node{
			{ID: "p1", Type: "VECTOR", AbsoluteBoundingBox: box(2, 2, 28, 28)},
			{ID: "t1", Type: "TEXT", Characters: "3", AbsoluteBoundingBox: box(10, 10, 10, 10)},
		},
	})
	root := mustBuild(t, doc, "badge")
	assert.False(t, root.Icon.IsIcon)
}

// ---------------------------------------------------------------------------
// Visibility filter
// ---------------------------------------------------------------------------

func TestFilterVisibleDropsEmptyHiddenLeaves(t *testing.T) {
	doc := docWith(&design.Node{
		ID: "1:2", Type: "FRAME", AbsoluteBoundingBox: box(0, 0, 100, 100),
		Children: []*design.Node{
			{ID: "ghost", Type: "FRAME", Visible: boolPtr(false), AbsoluteBoundingBox: box(0, 0, 10, 10)},
			{ID: "real", Type: "RECTANGLE", AbsoluteBoundingBox: box(0, 0, 10, 10),
				Fills: []design.Paint{solid(1, 0, 0, 1)}},
		},
	})
	root := FilterVisible(mustBuild(t, doc, "1:2"))

	require.Len(t, root.Children, 1)
	assert.Equal(t, "real", root.Children[0].ID)
	assert.Equal(t, 0, root.Children[0].Index)
}

// ---------------------------------------------------------------------------
// Determinism
// ---------------------------------------------------------------------------

func TestBuildDeterministic(t *testing.T) {
	doc := docWith(&design.Node{
		ID: "1:2", Type: "FRAME", LayoutMode: "HORIZONTAL", AbsoluteBoundingBox: box(0, 0, 300, 80),
		Fills: []design.Paint{solid(0.1, 0.2, 0.3, 1)},
		Children: []*design.Node{
			{ID: "1:3", Type: "TEXT", Characters: "Title", AbsoluteBoundingBox: box(10, 10, 100, 20)},
			{ID: "1:4", Type: "VECTOR", AbsoluteBoundingBox: box(260, 28, 24, 24)},
		},
	})
	first := mustBuild(t, doc, "1:2")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, mustBuild(t, doc, "1:2"))
	}
}
