package geometry

import (
	"errors"
	"math"
)

// ErrEmptyInput is returned by Union when it is given no rectangles.
var ErrEmptyInput = errors.New("geometry: union of empty rect set")

// Point is a position in scene units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FromCorners builds a rect spanning two arbitrary corner points.
func FromCorners(a, b Point) Rect {
	minX, maxX := min(a.X, b.X), max(a.X, b.X)
	minY, maxY := min(a.Y, b.Y), max(a.Y, b.Y)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func (r Rect) Left() float64    { return r.X }
func (r Rect) Right() float64   { return r.X + r.Width }
func (r Rect) Top() float64     { return r.Y }
func (r Rect) Bottom() float64  { return r.Y + r.Height }
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Center returns the center point of the rect.
func (r Rect) Center() Point {
	return Point{X: r.CenterX(), Y: r.CenterY()}
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Translate returns the rect moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	minX := min(r.X, other.X)
	minY := min(r.Y, other.Y)
	maxX := max(r.Right(), other.Right())
	maxY := max(r.Bottom(), other.Bottom())

	return Rect{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// Union returns the smallest axis-aligned rect containing every input rect.
// Zero-area inputs still count: a degenerate rect contributes its position.
func Union(rects ...Rect) (Rect, error) {
	if len(rects) == 0 {
		return Rect{}, ErrEmptyInput
	}
	result := rects[0]
	for _, r := range rects[1:] {
		result = result.Union(r)
	}
	return result, nil
}

// ContainsFully reports whether inner lies entirely within outer. Shared edges count
// as inside.
func ContainsFully(outer, inner Rect) bool {
	return inner.X >= outer.X &&
		inner.Y >= outer.Y &&
		inner.Right() <= outer.Right() &&
		inner.Bottom() <= outer.Bottom()
}

// ScaleWithin maps p's relative position inside original to the same relative
// position inside next. original must have positive width and height.
func ScaleWithin(original, next Rect, p Point) Point {
	fx := (p.X - original.X) / original.Width
	fy := (p.Y - original.Y) / original.Height
	return Point{
		X: next.X + fx*next.Width,
		Y: next.Y + fy*next.Height,
	}
}

// ScaleRect redistributes r from original into next by mapping both of its corners
// through ScaleWithin.
func ScaleRect(original, next, r Rect) Rect {
	tl := ScaleWithin(original, next, Point{X: r.X, Y: r.Y})
	br := ScaleWithin(original, next, Point{X: r.Right(), Y: r.Bottom()})
	return FromCorners(tl, br)
}

// ApproxEqual compares two rects component-wise within eps.
func ApproxEqual(a, b Rect, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps &&
		math.Abs(a.Y-b.Y) <= eps &&
		math.Abs(a.Width-b.Width) <= eps &&
		math.Abs(a.Height-b.Height) <= eps
}
