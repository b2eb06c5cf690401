package mapkit

// Point is a 2D point or vector. It is a value type: every operation returns
// a new Point and never modifies its receiver.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Min returns the top-left corner.
func (r Rect) Min() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the width and height as a Point.
func (r Rect) Size() Point {
	return Point{X: r.Width, Y: r.Height}
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// AffineView is the child surface's transform relative to its container:
// a uniform scale applied about the child's top-left, then a translation.
type AffineView struct {
	Scale float64
	Point Point
}

// EventType identifies a kind of raw input event.
type EventType uint8

const (
	EventPointerDown   EventType = iota // a pointer became active (button pressed, finger down)
	EventPointerMove                    // an active or hovering pointer moved
	EventPointerUp                      // a pointer was released
	EventPointerCancel                  // the platform abandoned a pointer (focus loss, palm rejection)
	EventWheel                          // the wheel scrolled
	EventContextMenu                    // the platform asked for a context menu
	EventResize                         // the scene's size changed (window listeners only)
	eventTypeCount
)

// PointerType identifies the device that produced a pointer event.
type PointerType uint8

const (
	PointerUnknown PointerType = iota // tracked like any other pointer
	PointerMouse                      // pointer 0
	PointerTouch                      // pointers 1-9
	PointerPen
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
	MouseButtonRight                     // secondary (right) mouse button
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)
