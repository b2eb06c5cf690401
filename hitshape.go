package mapkit

// HitShape is a custom hit-testing region in a surface's local frame.
type HitShape interface {
	Contains(p Point) bool
}

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether p lies inside the rectangle.
func (r HitRect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	Center Point
	Radius float64
}

// Contains reports whether p lies inside or on the circle.
func (c HitCircle) Contains(p Point) bool {
	d := Delta(c.Center, p)
	return d.X*d.X+d.Y*d.Y <= c.Radius*c.Radius
}

// HitPolygon is a simple polygon hit area in local coordinates. Concave
// outlines are supported; either winding order works.
type HitPolygon struct {
	Points []Point
}

// Contains reports whether p lies inside the polygon using the even-odd rule.
// Points exactly on an edge count as inside.
func (h HitPolygon) Contains(p Point) bool {
	n := len(h.Points)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a := h.Points[i]
		b := h.Points[j]
		if onSegment(a, b, p) {
			return true
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

func onSegment(a, b, p Point) bool {
	cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
	if cross > 1e-9 || cross < -1e-9 {
		return false
	}
	return p.X >= min(a.X, b.X) && p.X <= max(a.X, b.X) &&
		p.Y >= min(a.Y, b.Y) && p.Y <= max(a.Y, b.Y)
}
