package ir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 100, H: 100}

	assert.True(t, a.Intersects(Rect{X: 50, Y: 50, W: 100, H: 100}))
	assert.True(t, a.Intersects(Rect{X: 10, Y: 10, W: 10, H: 10}))

	// Edge-touching rects share no positive area.
	assert.False(t, a.Intersects(Rect{X: 100, Y: 0, W: 50, H: 50}))
	assert.False(t, a.Intersects(Rect{X: 200, Y: 200, W: 10, H: 10}))

	// Degenerate rects never intersect.
	assert.False(t, a.Intersects(Rect{X: 50, Y: 50, W: 0, H: 10}))
	assert.False(t, Rect{}.Intersects(a))
}

func TestIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 100, H: 100}
	b := Rect{X: 50, Y: 60, W: 100, H: 100}

	assert.Equal(t, Rect{X: 50, Y: 60, W: 50, H: 40}, Intersect(a, b))
	assert.Equal(t, Rect{}, Intersect(a, Rect{X: 200, Y: 0, W: 10, H: 10}))

	// Containment returns the inner rect.
	inner := Rect{X: 10, Y: 10, W: 20, H: 20}
	assert.Equal(t, inner, Intersect(a, inner))
}

func TestTranslate(t *testing.T) {
	r := Rect{X: 120, Y: 80, W: 30, H: 40}
	assert.Equal(t, Rect{X: 20, Y: 30, W: 30, H: 40}, r.Translate(100, 50))
}

func TestAspectRatio(t *testing.T) {
	assert.Equal(t, 1.0, Rect{W: 24, H: 24}.AspectRatio())
	assert.Equal(t, 2.0, Rect{W: 48, H: 24}.AspectRatio())

	// Always >= 1 regardless of orientation.
	assert.Equal(t, 2.0, Rect{W: 24, H: 48}.AspectRatio())

	assert.True(t, math.IsInf(Rect{W: 10, H: 0}.AspectRatio(), 1))
}
