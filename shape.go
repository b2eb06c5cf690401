package mapkit

import (
	"encoding/xml"
	"math"
)

// MinShapeSize is the smallest radius, width or height a resize or edge
// move can produce.
const MinShapeSize = 10

// ShapeKind tags the geometry variant a Shape carries.
type ShapeKind uint8

const (
	// ShapeBox is a positioned element: its geometry is its surface's
	// offset and box. Markers are boxes.
	ShapeBox ShapeKind = iota
	ShapeCircle
	ShapeRect
	ShapePolygon
)

var shapeKindNames = [...]string{"box", "circle", "rect", "polygon"}

func (k ShapeKind) String() string {
	if int(k) < len(shapeKindNames) {
		return shapeKindNames[k]
	}
	return "unknown"
}

// Shape is an overlay element on the map. Only the fields belonging to Kind
// are meaningful. The Surface is its rendering proxy: it takes part in hit
// testing and bounding-box queries and is kept in sync with the geometry by
// Sync.
type Shape struct {
	Kind    ShapeKind
	Surface *Surface

	Center Point   // circle
	Radius float64 // circle
	Rect   Rect    // rect
	Points []Point // polygon

	// Selected mirrors the editor's selection decoration.
	Selected bool
	// Attrs holds markup attributes other than geometry, written back on save.
	Attrs []xml.Attr
}

func newShape(kind ShapeKind, name string) *Shape {
	sh := &Shape{Kind: kind, Surface: NewSurface(name)}
	sh.Surface.UserData = sh
	return sh
}

// NewCircleShape creates a circle shape.
func NewCircleShape(center Point, radius float64) *Shape {
	sh := newShape(ShapeCircle, "circle")
	sh.Center = center
	sh.Radius = radius
	sh.Sync()
	return sh
}

// NewRectShape creates a rectangle shape.
func NewRectShape(r Rect) *Shape {
	sh := newShape(ShapeRect, "rect")
	sh.Rect = r
	sh.Sync()
	return sh
}

// NewPolygonShape creates a polygon shape. The points slice is copied.
func NewPolygonShape(points []Point) *Shape {
	sh := newShape(ShapePolygon, "polygon")
	sh.Points = append([]Point(nil), points...)
	sh.Sync()
	return sh
}

// NewBoxShape creates a positioned box at pos with the given size.
func NewBoxShape(name string, pos, size Point) *Shape {
	sh := newShape(ShapeBox, name)
	sh.Surface.SetPosition(pos)
	sh.Surface.SetSize(size.X, size.Y)
	return sh
}

// ShapeOf returns the shape a surface is the proxy of, or nil.
func ShapeOf(s *Surface) *Shape {
	if s == nil {
		return nil
	}
	sh, _ := s.UserData.(*Shape)
	return sh
}

// Sync pushes the geometry onto the proxy surface: its box becomes the
// geometry's bounding box and its hit region the exact outline.
func (sh *Shape) Sync() {
	switch sh.Kind {
	case ShapeBox:
		sh.Surface.HitShape = nil
	case ShapeCircle:
		sh.Surface.SetBox(sh.Bounds())
		sh.Surface.HitShape = HitCircle{Center: sh.Center, Radius: sh.Radius}
	case ShapeRect:
		sh.Surface.SetBox(sh.Rect)
		sh.Surface.HitShape = HitRect(sh.Rect)
	case ShapePolygon:
		sh.Surface.SetBox(sh.Bounds())
		sh.Surface.HitShape = HitPolygon{Points: sh.Points}
	}
}

// Bounds returns the shape's bounding box in its own coordinate frame
// (the layer it lives in).
func (sh *Shape) Bounds() Rect {
	switch sh.Kind {
	case ShapeBox:
		b := sh.Surface.Box()
		return Rect{X: sh.Surface.Left(), Y: sh.Surface.Top(), Width: b.Width, Height: b.Height}
	case ShapeCircle:
		return Rect{X: sh.Center.X - sh.Radius, Y: sh.Center.Y - sh.Radius, Width: 2 * sh.Radius, Height: 2 * sh.Radius}
	case ShapeRect:
		return sh.Rect
	case ShapePolygon:
		return polygonBounds(sh.Points)
	}
	return Rect{}
}

func polygonBounds(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Move translates the shape by delta.
func (sh *Shape) Move(delta Point) {
	switch sh.Kind {
	case ShapeBox:
		sh.Surface.SetPosition(sh.Surface.Position().Add(delta))
	case ShapeCircle:
		sh.Center = sh.Center.Add(delta)
	case ShapeRect:
		sh.Rect.X += delta.X
		sh.Rect.Y += delta.Y
	case ShapePolygon:
		for i := range sh.Points {
			sh.Points[i] = sh.Points[i].Add(delta)
		}
	}
	sh.Sync()
}

// Resize grows or shrinks the shape by delta.X. Circles change radius.
// Rects and polygons keep their aspect ratio and their center; a change
// that would leave either dimension untouched is dropped. Boxes do not
// resize.
func (sh *Shape) Resize(delta Point) {
	switch sh.Kind {
	case ShapeBox:
		return
	case ShapeCircle:
		sh.Radius = math.Max(MinShapeSize, sh.Radius+delta.X)
	case ShapeRect:
		w, h := sh.Rect.Width, sh.Rect.Height
		nw, nh := proportionateSize(delta.X, w, h)
		if nw == w || nh == h {
			return
		}
		sh.Rect.Width, sh.Rect.Height = nw, nh
		sh.Rect.X -= (nw - w) / 2
		sh.Rect.Y -= (nh - h) / 2
	case ShapePolygon:
		b := polygonBounds(sh.Points)
		w, h := b.Width, b.Height
		if w == 0 || h == 0 {
			return
		}
		nw, nh := proportionateSize(delta.X*2, w, h)
		if nw == w || nh == h {
			return
		}
		for i, p := range sh.Points {
			rx := (p.X - b.X) / w
			ry := (p.Y - b.Y) / h
			sh.Points[i] = Point{
				X: b.X + rx*nw - (nw-w)/2,
				Y: b.Y + ry*nh - (nh-h)/2,
			}
		}
	}
	sh.Sync()
}

// proportionateSize grows the shorter side by delta, floored at
// MinShapeSize, and derives the other side from the aspect ratio.
func proportionateSize(delta, w, h float64) (nw, nh float64) {
	ratio := w / h
	if w < h {
		nw = math.Max(MinShapeSize, w+delta)
		return nw, nw / ratio
	}
	nh = math.Max(MinShapeSize, h+delta)
	return ratio * nh, nh
}

// Edge names a side of a rect shape.
type Edge uint8

const (
	EdgeLeft Edge = iota + 1
	EdgeTop
	EdgeRight
	EdgeBottom
)

// MoveEdge drags one side of a rect shape by delta, keeping the opposite
// side fixed; width and height never drop below MinShapeSize. Other kinds
// are unaffected.
func (sh *Shape) MoveEdge(delta Point, edge Edge) {
	if sh.Kind != ShapeRect {
		return
	}
	r := &sh.Rect
	switch edge {
	case EdgeLeft:
		nw := math.Max(MinShapeSize, r.Width-delta.X)
		r.X -= nw - r.Width
		r.Width = nw
	case EdgeTop:
		nh := math.Max(MinShapeSize, r.Height-delta.Y)
		r.Y -= nh - r.Height
		r.Height = nh
	case EdgeRight:
		r.Width = math.Max(MinShapeSize, r.Width+delta.X)
	case EdgeBottom:
		r.Height = math.Max(MinShapeSize, r.Height+delta.Y)
	default:
		return
	}
	sh.Sync()
}

// MoveVertex moves vertex i of a polygon shape by delta. Other kinds and
// out-of-range indices are unaffected.
func (sh *Shape) MoveVertex(delta Point, i int) {
	if sh.Kind != ShapePolygon || i < 0 || i >= len(sh.Points) {
		return
	}
	sh.Points[i] = sh.Points[i].Add(delta)
	sh.Sync()
}
