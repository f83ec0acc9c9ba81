package ir

import "sort"

// NodeKind classifies IR nodes by rendering behavior.
type NodeKind string

const (
	KindContainer NodeKind = "container" // frame-like, may clip and carry layout
	KindText      NodeKind = "text"
	KindVector    NodeKind = "vector" // vector leaf (icon candidate)
	KindGroup     NodeKind = "group"  // group/instance/component wrapper
)

// LayoutMode is the auto-layout direction of a container.
type LayoutMode string

const (
	LayoutNone   LayoutMode = "none"
	LayoutRow    LayoutMode = "row"
	LayoutColumn LayoutMode = "column"
)

// Layout captures canonicalized auto-layout properties.
type Layout struct {
	Mode           LayoutMode `json:"mode"`
	Gap            float64    `json:"gap,omitempty"`
	PadTop         float64    `json:"padTop,omitempty"`
	PadRight       float64    `json:"padRight,omitempty"`
	PadBottom      float64    `json:"padBottom,omitempty"`
	PadLeft        float64    `json:"padLeft,omitempty"`
	Wrap           bool       `json:"wrap,omitempty"`
	AlignItems     string     `json:"alignItems,omitempty"`     // flex-style keyword
	JustifyContent string     `json:"justifyContent,omitempty"` // flex-style keyword
}

// BackgroundKind discriminates the derived background union.
type BackgroundKind string

const (
	BackgroundSolid    BackgroundKind = "solid"
	BackgroundGradient BackgroundKind = "gradient"
)

// Background is the single canonical background derived from effective
// fills. Nil on a node means no background.
type Background struct {
	Kind  BackgroundKind `json:"kind"`
	Color Color          `json:"color,omitempty"`
	Alpha float64        `json:"alpha,omitempty"`
	CSS   string         `json:"css,omitempty"` // raw gradient expression for gradient kind
}

// Value returns the token value for the background (hex, rgba or gradient
// expression).
func (b *Background) Value() string {
	if b.Kind == BackgroundGradient {
		return b.CSS
	}
	return b.Color.CSSValue(b.Alpha)
}

// Paint is one resolved paint entry of a node's effective fill list.
type Paint struct {
	Kind  BackgroundKind `json:"kind"`
	Color Color          `json:"color,omitempty"`
	Alpha float64        `json:"alpha,omitempty"`
	CSS   string         `json:"css,omitempty"`
	// Inherited marks paints honored from an ancestor's background list
	// rather than the node's own paint list.
	Inherited bool `json:"inherited,omitempty"`
}

// Stroke is the resolved border of a node: first visible solid stroke wins.
type Stroke struct {
	Color  Color   `json:"color"`
	Alpha  float64 `json:"alpha"`
	Weight float64 `json:"weight"`
}

// CornerRadii holds per-corner radii in clockwise order from top-left.
type CornerRadii struct {
	TL float64 `json:"tl"`
	TR float64 `json:"tr"`
	BR float64 `json:"br"`
	BL float64 `json:"bl"`
}

// Uniform reports whether all four corners share one radius.
func (c CornerRadii) Uniform() bool {
	return c.TL == c.TR && c.TR == c.BR && c.BR == c.BL
}

// IsZero reports whether no corner is rounded.
func (c CornerRadii) IsZero() bool {
	return c.TL == 0 && c.TR == 0 && c.BR == 0 && c.BL == 0
}

// Shadow is one resolved shadow effect.
type Shadow struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Radius  float64 `json:"radius"`
	Spread  float64 `json:"spread"`
	Color   Color   `json:"color"`
	Alpha   float64 `json:"alpha"`
	Inset   bool    `json:"inset,omitempty"`
}

// TextStyle is the canonicalized style of a TEXT node.
type TextStyle struct {
	Family        string  `json:"family,omitempty"`
	Size          float64 `json:"size,omitempty"`
	Weight        int     `json:"weight,omitempty"`
	LineHeight    float64 `json:"lineHeight,omitempty"`
	LetterSpacing float64 `json:"letterSpacing,omitempty"`
	Align         string  `json:"align,omitempty"`      // left | center | right | justify
	Decoration    string  `json:"decoration,omitempty"` // underline | line-through
	Transform     string  `json:"transform,omitempty"`  // uppercase | lowercase | capitalize
	Color         Color   `json:"color"`
	Alpha         float64 `json:"alpha"`
	HasColor      bool    `json:"hasColor,omitempty"`
}

// Text is the canonicalized text payload of a TEXT node.
type Text struct {
	Content string    `json:"content"`
	Lines   []string  `json:"lines,omitempty"`
	Style   TextStyle `json:"style"`
}

// IconHint is the icon classification result for a node.
type IconHint struct {
	IsIcon        bool   `json:"isIcon"`
	Tintable      bool   `json:"tintable,omitempty"`
	DominantColor *Color `json:"dominantColor,omitempty"`
}

// Node is one node of the canonical IR tree. Built once per request, then
// read-only for all downstream stages.
type Node struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Type string   `json:"type"` // raw design type
	Kind NodeKind `json:"kind"`

	OwnVisible       bool `json:"ownVisible"`
	VisibleEffective bool `json:"visibleEffective"`

	Bounds    Rect `json:"bounds"`    // absolute canvas coordinates
	RelBounds Rect `json:"relBounds"` // relative to the root origin

	Layout      Layout `json:"layout"`
	AbsolutePos bool   `json:"absolutePos"`

	Fills      []Paint     `json:"fills,omitempty"`
	Background *Background `json:"background,omitempty"`
	Stroke     *Stroke     `json:"stroke,omitempty"`
	Radii      CornerRadii `json:"radii"`
	Shadows    []Shadow    `json:"shadows,omitempty"`

	Opacity  float64 `json:"opacity"`
	Clips    bool    `json:"clips"`
	Rotation float64 `json:"rotation,omitempty"`
	ZIndex   int     `json:"zIndex,omitempty"`
	Index    int     `json:"index"`
	IsRoot   bool    `json:"isRoot,omitempty"`

	Text *Text    `json:"text,omitempty"`
	Icon IconHint `json:"icon"`

	Classes []string `json:"classes,omitempty"`

	Children []*Node `json:"children,omitempty"`
}

// Walk visits n and every descendant pre-order. Returning false from fn
// prunes the subtree.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Reindex renumbers children 0..n-1 in their current order. Called after any
// pruning so indices stay dense.
func Reindex(children []*Node) {
	for i, c := range children {
		c.Index = i
	}
}

// SortSiblings re-sorts children deterministically by (y, x, original
// index), then renumbers. Used when sibling order has to be rebuilt rather
// than preserved.
func SortSiblings(children []*Node) {
	sort.SliceStable(children, func(i, j int) bool {
		a, b := children[i], children[j]
		if a.Bounds.Y != b.Bounds.Y {
			return a.Bounds.Y < b.Bounds.Y
		}
		if a.Bounds.X != b.Bounds.X {
			return a.Bounds.X < b.Bounds.X
		}
		return a.Index < b.Index
	})
	Reindex(children)
}

// HasVisibleFill reports whether any effective fill would paint pixels.
func (n *Node) HasVisibleFill() bool {
	for _, f := range n.Fills {
		if f.Kind == BackgroundGradient || f.Alpha > 0 {
			return true
		}
	}
	return false
}

// LayoutOnly reports whether the node is a pure structural wrapper: not
// text, not clipping, no text payload, no visible effect, and no visually
// contributing fill or stroke. A node with a derived background is never
// layout-only.
func (n *Node) LayoutOnly() bool {
	if n.Kind == KindText || n.Clips || n.Text != nil {
		return false
	}
	if n.Background != nil {
		return false
	}
	if len(n.Shadows) > 0 {
		return false
	}
	if n.Stroke != nil && n.Stroke.Weight > 0 && n.Stroke.Alpha > 0 {
		return false
	}
	return !n.HasVisibleFill()
}
