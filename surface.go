package mapkit

import "strings"

// surfaceIDCounter is a plain counter (mapkit is single-threaded).
var surfaceIDCounter uint32

func nextSurfaceID() uint32 {
	surfaceIDCounter++
	return surfaceIDCounter
}

// Surface is a rendering element that takes part in coordinate conversion and
// event dispatch: the map container, the zoomed map child, overlay layers,
// shapes, markers and editor handles are all surfaces.
//
// A surface's geometry is its local offset (left, top), a uniform scale
// applied about its own top-left corner, and an unscaled local box. Offsets
// and scale are sanitized on write so that NaN never reaches geometry.
type Surface struct {
	// Identity
	ID   uint32
	Name string

	// Display tree
	parent   *Surface
	children []*Surface
	scene    *Scene // set on the scene root only

	// Style
	left, top float64
	scale     float64
	box       Rect

	// Visibility & interaction
	Visible      bool
	Interactable bool
	HitShape     HitShape

	// Metadata
	UserData any

	listeners listenerRegistry
}

// NewSurface creates a visible, interactable surface with an empty box.
func NewSurface(name string) *Surface {
	return &Surface{
		ID:           nextSurfaceID(),
		Name:         name,
		scale:        1,
		Visible:      true,
		Interactable: true,
	}
}

// --- Display tree ---

// Parent returns the display parent, or nil for a detached surface.
func (s *Surface) Parent() *Surface {
	return s.parent
}

// Children returns the child list in painter order. The returned slice MUST
// NOT be mutated.
func (s *Surface) Children() []*Surface {
	return s.children
}

// AddChild appends child on top of s's existing children, detaching it from
// any previous parent first. Appending a surface that is already the last
// child leaves the order unchanged.
func (s *Surface) AddChild(child *Surface) {
	if child == s || child.Contains(s) {
		panic("mapkit: AddChild would create a display cycle")
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = s
	s.children = append(s.children, child)
}

// RemoveChild detaches child from s. No-op if child is not a child of s.
func (s *Surface) RemoveChild(child *Surface) {
	for i, c := range s.children {
		if c == child {
			copy(s.children[i:], s.children[i+1:])
			s.children[len(s.children)-1] = nil
			s.children = s.children[:len(s.children)-1]
			child.parent = nil
			return
		}
	}
}

// Remove detaches s from its display parent.
func (s *Surface) Remove() {
	if s.parent != nil {
		s.parent.RemoveChild(s)
	}
}

// BringToFront moves s to the top of its siblings.
func (s *Surface) BringToFront() {
	if p := s.parent; p != nil {
		p.AddChild(s)
	}
}

// Contains reports whether other is s or one of its display descendants.
func (s *Surface) Contains(other *Surface) bool {
	for n := other; n != nil; n = n.parent {
		if n == s {
			return true
		}
	}
	return false
}

// Attached reports whether s is part of a scene's display tree.
func (s *Surface) Attached() bool {
	return s.Scene() != nil
}

// Scene returns the scene whose root is s's topmost ancestor, or nil.
func (s *Surface) Scene() *Scene {
	n := s
	for n.parent != nil {
		n = n.parent
	}
	return n.scene
}

// --- Style ---

// Left returns the local x offset.
func (s *Surface) Left() float64 { return s.left }

// Top returns the local y offset.
func (s *Surface) Top() float64 { return s.top }

// Position returns the local offset as a Point.
func (s *Surface) Position() Point {
	return Point{X: s.left, Y: s.top}
}

// Scale returns the surface's scale factor.
func (s *Surface) Scale() float64 { return s.scale }

// SetLeft sets the local x offset. Non-finite values are stored as 0.
func (s *Surface) SetLeft(v float64) { s.left = finiteOr(v, 0) }

// SetTop sets the local y offset. Non-finite values are stored as 0.
func (s *Surface) SetTop(v float64) { s.top = finiteOr(v, 0) }

// SetPosition sets both local offsets.
func (s *Surface) SetPosition(p Point) {
	s.SetLeft(p.X)
	s.SetTop(p.Y)
}

// SetScale sets the scale factor. Non-finite values are stored as 1.
func (s *Surface) SetScale(v float64) { s.scale = finiteOr(v, 1) }

// SetStyle sets a style property from its textual form. Recognized
// properties are "left" and "top" (lengths such as "12px"; malformed values
// become 0) and "transform" ("scale(s)"; missing or malformed becomes 1).
// Unknown properties are ignored.
func (s *Surface) SetStyle(prop, value string) {
	switch strings.ToLower(strings.TrimSpace(prop)) {
	case "left":
		s.SetLeft(ParseFloat(value, 0))
	case "top":
		s.SetTop(ParseFloat(value, 0))
	case "transform":
		s.SetScale(ParseScale(value))
	}
}

// Style returns the textual form of a style property, or "" if unknown.
func (s *Surface) Style(prop string) string {
	switch strings.ToLower(strings.TrimSpace(prop)) {
	case "left":
		return formatPx(s.left)
	case "top":
		return formatPx(s.top)
	case "transform":
		return "scale(" + formatNumber(s.scale) + ")"
	}
	return ""
}

// SetStyleText applies a declaration list such as "left:10px; top:4px".
func (s *Surface) SetStyleText(text string) {
	for _, decl := range strings.Split(text, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if ok {
			s.SetStyle(prop, value)
		}
	}
}

// --- Size ---

// SetSize sets the unscaled local box to (0, 0, w, h).
func (s *Surface) SetSize(w, h float64) {
	s.box = Rect{Width: finiteOr(w, 0), Height: finiteOr(h, 0)}
}

// SetBox sets the unscaled local box. Shapes whose content does not start at
// their origin use this to report their true extent.
func (s *Surface) SetBox(r Rect) {
	s.box = Rect{
		X:      finiteOr(r.X, 0),
		Y:      finiteOr(r.Y, 0),
		Width:  finiteOr(r.Width, 0),
		Height: finiteOr(r.Height, 0),
	}
}

// Box returns the unscaled local box.
func (s *Surface) Box() Rect {
	return s.box
}

// Width returns the unscaled local width.
func (s *Surface) Width() float64 { return s.box.Width }

// Height returns the unscaled local height.
func (s *Surface) Height() float64 { return s.box.Height }

// containsLocal tests whether a local point falls inside the surface's hit
// region: HitShape if set, otherwise the local box. Surfaces with an empty
// box and no HitShape are not hit-testable.
func (s *Surface) containsLocal(p Point) bool {
	if s.HitShape != nil {
		return s.HitShape.Contains(p)
	}
	if s.box.Width == 0 && s.box.Height == 0 {
		return false
	}
	return s.box.Contains(p)
}

// --- Listeners ---

// AddListener registers fn for events of type t that reach this surface,
// either as their target or while bubbling up from a descendant.
func (s *Surface) AddListener(t EventType, fn func(*PointerEvent)) ListenerHandle {
	return s.listeners.add(t, fn)
}

// ListenerCount returns the number of live listeners attached to s.
func (s *Surface) ListenerCount() int {
	return s.listeners.count()
}
