package ggview

import (
	"math"

	"github.com/gogpu/gg"
)

// Vec2 is a 2D vector used for both screen-space and world-space positions
// and displacements. Which frame a value lives in is a property of the API
// that produced it, not of the type.
type Vec2 struct {
	X, Y float64
}

// V2 is a convenience function to create a Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns the sum of two vectors.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns the difference of two vectors.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{X: v.X - w.X, Y: v.Y - w.Y}
}

// Mul returns the vector scaled by a scalar.
func (v Vec2) Mul(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Div returns the vector divided by a scalar.
func (v Vec2) Div(s float64) Vec2 {
	return Vec2{X: v.X / s, Y: v.Y / s}
}

// Length returns the magnitude of the vector.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// IsZero returns true if both components are exactly zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// IsFinite reports whether neither component is NaN or infinite.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Approx reports whether v and w are equal within epsilon per component.
func (v Vec2) Approx(w Vec2, epsilon float64) bool {
	return math.Abs(v.X-w.X) <= epsilon && math.Abs(v.Y-w.Y) <= epsilon
}

// Point converts the vector to a gg.Point.
func (v Vec2) Point() gg.Point {
	return gg.Pt(v.X, v.Y)
}

// FromPoint converts a gg.Point to a Vec2.
func FromPoint(p gg.Point) Vec2 {
	return Vec2{X: p.X, Y: p.Y}
}
