package geometry

import "math"

// Matrix2D is an affine transform stored as [a, b, c, d, e, f]:
//
//	| a  c  e |
//	| b  d  f |
//	| 0  0  1 |
type Matrix2D [6]float64

// RotateAbout returns the rotation by degrees (clockwise on a y-down canvas) around
// pivot. Rotating by -degrees about the same pivot is its inverse.
func RotateAbout(pivot Point, degrees float64) Matrix2D {
	rad := degrees * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return Matrix2D{
		cos, sin,
		-sin, cos,
		pivot.X - cos*pivot.X + sin*pivot.Y,
		pivot.Y - sin*pivot.X - cos*pivot.Y,
	}
}

// TransformPoint applies the matrix to p.
func (m Matrix2D) TransformPoint(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// ToSlice returns the matrix in canvas setTransform order.
func (m Matrix2D) ToSlice() []float64 {
	return m[:]
}

// IsIdentity reports whether the matrix leaves every point in place.
func (m Matrix2D) IsIdentity() bool {
	const eps = 1e-10
	return math.Abs(m[0]-1) < eps &&
		math.Abs(m[1]) < eps &&
		math.Abs(m[2]) < eps &&
		math.Abs(m[3]-1) < eps &&
		math.Abs(m[4]) < eps &&
		math.Abs(m[5]) < eps
}
