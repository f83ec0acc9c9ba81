package design

// Node types that can carry children and inherit their paints downward.
var containerTypes = map[string]bool{
	"FRAME":     true,
	"COMPONENT": true,
	"INSTANCE":  true,
	"GROUP":     true,
	"SECTION":   true,
}

// Vector leaf kinds eligible for icon classification.
var vectorTypes = map[string]bool{
	"VECTOR":            true,
	"BOOLEAN_OPERATION": true,
	"STAR":              true,
	"LINE":              true,
	"ELLIPSE":           true,
	"REGULAR_POLYGON":   true,
	"RECTANGLE":         true,
}

// Document is the decoded design file payload for one fetch.
type Document struct {
	Name string `json:"name"`
	Root *Node  `json:"document"`
}

// Node is one raw node in the design graph. Optional fields use pointers so
// absent values can be distinguished from zero values; accessors apply the
// documented defaults (visible=true, opacity=1).
type Node struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`

	Visible *bool    `json:"visible,omitempty"`
	Opacity *float64 `json:"opacity,omitempty"`

	AbsoluteBoundingBox *Rect `json:"absoluteBoundingBox,omitempty"`

	Fills        []Paint   `json:"fills,omitempty"`
	Strokes      []Paint   `json:"strokes,omitempty"`
	StrokeWeight float64   `json:"strokeWeight,omitempty"`
	Effects      []Effect  `json:"effects,omitempty"`

	CornerRadius         float64   `json:"cornerRadius,omitempty"`
	RectangleCornerRadii []float64 `json:"rectangleCornerRadii,omitempty"`

	ClipsContent bool `json:"clipsContent,omitempty"`

	LayoutMode            string  `json:"layoutMode,omitempty"` // NONE | HORIZONTAL | VERTICAL
	ItemSpacing           float64 `json:"itemSpacing,omitempty"`
	PaddingLeft           float64 `json:"paddingLeft,omitempty"`
	PaddingRight          float64 `json:"paddingRight,omitempty"`
	PaddingTop            float64 `json:"paddingTop,omitempty"`
	PaddingBottom         float64 `json:"paddingBottom,omitempty"`
	LayoutWrap            string  `json:"layoutWrap,omitempty"` // NO_WRAP | WRAP
	PrimaryAxisAlignItems string  `json:"primaryAxisAlignItems,omitempty"`
	CounterAxisAlignItems string  `json:"counterAxisAlignItems,omitempty"`
	LayoutPositioning     string  `json:"layoutPositioning,omitempty"` // AUTO | ABSOLUTE

	Characters string     `json:"characters,omitempty"`
	Style      *TypeStyle `json:"style,omitempty"`

	Rotation float64 `json:"rotation,omitempty"`

	Children []*Node `json:"children,omitempty"`
}

// Rect is an absolute bounding box in canvas coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Paint is a fill or stroke entry.
type Paint struct {
	Type    string   `json:"type"` // SOLID | GRADIENT_LINEAR | GRADIENT_RADIAL | GRADIENT_ANGULAR | IMAGE
	Visible *bool    `json:"visible,omitempty"`
	Opacity *float64 `json:"opacity,omitempty"`
	Color   *Color   `json:"color,omitempty"`

	GradientStops           []GradientStop `json:"gradientStops,omitempty"`
	GradientHandlePositions []Vec          `json:"gradientHandlePositions,omitempty"`
}

// Color is an RGBA color with channels in 0..1.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// GradientStop is one stop of a gradient paint.
type GradientStop struct {
	Position float64 `json:"position"`
	Color    Color   `json:"color"`
}

// Vec is a 2D point, used for gradient handles and effect offsets.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Effect is a visual effect entry (shadows are the only kind the compiler
// renders).
type Effect struct {
	Type    string  `json:"type"` // DROP_SHADOW | INNER_SHADOW | LAYER_BLUR | BACKGROUND_BLUR
	Visible *bool   `json:"visible,omitempty"`
	Offset  Vec     `json:"offset"`
	Radius  float64 `json:"radius"`
	Spread  float64 `json:"spread,omitempty"`
	Color   Color   `json:"color"`
}

// TypeStyle is the text style block attached to TEXT nodes.
type TypeStyle struct {
	FontFamily          string  `json:"fontFamily,omitempty"`
	FontPostScriptName  string  `json:"fontPostScriptName,omitempty"`
	FontStyle           string  `json:"fontStyle,omitempty"`
	FontWeight          float64 `json:"fontWeight,omitempty"`
	FontSize            float64 `json:"fontSize,omitempty"`
	LineHeightPx        float64 `json:"lineHeightPx,omitempty"`
	LetterSpacing       float64 `json:"letterSpacing,omitempty"`
	TextAlignHorizontal string  `json:"textAlignHorizontal,omitempty"` // LEFT | CENTER | RIGHT | JUSTIFIED
	TextDecoration      string  `json:"textDecoration,omitempty"`      // NONE | UNDERLINE | STRIKETHROUGH
	TextCase            string  `json:"textCase,omitempty"`            // ORIGINAL | UPPER | LOWER | TITLE
}

// IsVisible reports the node's own raw visibility flag (default true).
func (n *Node) IsVisible() bool {
	return n.Visible == nil || *n.Visible
}

// EffectiveOpacity returns the node's own opacity (default 1).
func (n *Node) EffectiveOpacity() float64 {
	if n.Opacity == nil {
		return 1
	}
	return *n.Opacity
}

// Bounds returns the node's absolute bounding box. Malformed or absent
// geometry defaults to the zero rect rather than failing the tree.
func (n *Node) Bounds() Rect {
	if n.AbsoluteBoundingBox == nil {
		return Rect{}
	}
	return *n.AbsoluteBoundingBox
}

// IsContainer reports whether the node type carries children and may inherit
// background paints downward.
func (n *Node) IsContainer() bool {
	return containerTypes[n.Type]
}

// IsVector reports whether the node type is a vector leaf kind.
func (n *Node) IsVector() bool {
	return vectorTypes[n.Type]
}

// IsText reports whether the node is a TEXT node.
func (n *Node) IsText() bool {
	return n.Type == "TEXT"
}

// IsVisible reports the paint's own visibility flag (default true).
func (p *Paint) IsVisible() bool {
	return p.Visible == nil || *p.Visible
}

// EffectiveOpacity returns the paint's opacity (default 1).
func (p *Paint) EffectiveOpacity() float64 {
	if p.Opacity == nil {
		return 1
	}
	return *p.Opacity
}

// IsVisible reports the effect's own visibility flag (default true).
func (e *Effect) IsVisible() bool {
	return e.Visible == nil || *e.Visible
}

// IsShadow reports whether the effect renders as a box shadow.
func (e *Effect) IsShadow() bool {
	return e.Type == "DROP_SHADOW" || e.Type == "INNER_SHADOW"
}
