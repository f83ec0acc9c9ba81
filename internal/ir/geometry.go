package ir

import "math"

// Rect is an axis-aligned rectangle in pixels.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// IsZero reports whether the rect is the zero value.
func (r Rect) IsZero() bool {
	return r.X == 0 && r.Y == 0 && r.W == 0 && r.H == 0
}

// Intersects reports whether r and o overlap by any positive area.
// Degenerate (zero-sized) rects never intersect anything.
func (r Rect) Intersects(o Rect) bool {
	if r.W <= 0 || r.H <= 0 || o.W <= 0 || o.H <= 0 {
		return false
	}
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Intersect returns the overlapping region of r and o, or the zero rect when
// they do not overlap.
func Intersect(r, o Rect) Rect {
	x1 := math.Max(r.X, o.X)
	y1 := math.Max(r.Y, o.Y)
	x2 := math.Min(r.X+r.W, o.X+o.W)
	y2 := math.Min(r.Y+r.H, o.Y+o.H)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Translate returns r shifted by (-dx, -dy). Used to rebase absolute bounds
// onto the root origin.
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X - dx, Y: r.Y - dy, W: r.W, H: r.H}
}

// AspectRatio returns the width/height ratio, with the larger dimension on
// top so the result is always >= 1. Zero-sized rects return +Inf.
func (r Rect) AspectRatio() float64 {
	if r.W <= 0 || r.H <= 0 {
		return math.Inf(1)
	}
	if r.W >= r.H {
		return r.W / r.H
	}
	return r.H / r.W
}
