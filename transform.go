package mapkit

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeLocalTransform computes the surface's matrix relative to its
// display parent. Returns [a, b, c, d, tx, ty].
//
// A surface is offset by (left, top) and scaled about its own top-left:
//
//	Scale(s) -> Translate(left, top)
func computeLocalTransform(s *Surface) [6]float64 {
	sc := s.Scale()
	return [6]float64{sc, 0, 0, sc, s.Left(), s.Top()}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, p Point) Point {
	return Point{X: m[0]*p.X + m[2]*p.Y + m[4], Y: m[1]*p.X + m[3]*p.Y + m[5]}
}

// worldTransform walks the display tree from the root down and returns the
// surface's accumulated global matrix. Computed live on every call so that
// geometry read back after a style write is never stale.
func worldTransform(s *Surface) [6]float64 {
	m := computeLocalTransform(s)
	for p := s.parent; p != nil; p = p.parent {
		m = multiplyAffine(computeLocalTransform(p), m)
	}
	return m
}

// transformAABB computes the axis-aligned bounding box of r transformed by m.
func transformAABB(m [6]float64, r Rect) Rect {
	p0 := transformPoint(m, Point{X: r.X, Y: r.Y})
	p1 := transformPoint(m, Point{X: r.X + r.Width, Y: r.Y})
	p2 := transformPoint(m, Point{X: r.X + r.Width, Y: r.Y + r.Height})
	p3 := transformPoint(m, Point{X: r.X, Y: r.Y + r.Height})

	minX := math.Min(math.Min(p0.X, p1.X), math.Min(p2.X, p3.X))
	minY := math.Min(math.Min(p0.Y, p1.Y), math.Min(p2.Y, p3.Y))
	maxX := math.Max(math.Max(p0.X, p1.X), math.Max(p2.X, p3.X))
	maxY := math.Max(math.Max(p0.Y, p1.Y), math.Max(p2.Y, p3.Y))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// --- Coordinate conversion ---

// GlobalToLocal converts a global point into the surface's unscaled local frame.
func (s *Surface) GlobalToLocal(p Point) Point {
	return transformPoint(invertAffine(worldTransform(s)), p)
}

// LocalToGlobal converts a point in the surface's unscaled local frame to global.
func (s *Surface) LocalToGlobal(p Point) Point {
	return transformPoint(worldTransform(s), p)
}

// Bounds returns the surface's live global bounding box: its local box
// pushed through every display ancestor's offset and scale.
func (s *Surface) Bounds() Rect {
	return transformAABB(worldTransform(s), s.box)
}
