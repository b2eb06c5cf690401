package mapkit

import "github.com/hajimehoshi/ebiten/v2"

// Scene is the top-level object that owns the display tree, the scene-level
// (window) listeners, pointer capture and the input state polled from
// Ebitengine. It plays the role of the global frame: its root surface sits
// at the origin with scale 1.
type Scene struct {
	root      *Surface
	listeners listenerRegistry
	debug     bool

	width, height float64

	// Input state
	captured     map[int]pointerCapture
	hitBuf       []*Surface
	mouse        mouseState
	pointers     [maxPointers]touchState
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
	focused      bool
	injectQueue  []PointerEvent
	script       *InputScript
}

// NewScene creates a new scene with a pre-created root surface.
func NewScene() *Scene {
	s := &Scene{
		captured: make(map[int]pointerCapture),
		focused:  true,
	}
	s.root = NewSurface("root")
	s.root.scene = s
	return s
}

// Root returns the scene's root surface.
func (s *Scene) Root() *Surface {
	return s.root
}

// Size returns the scene's current width and height.
func (s *Scene) Size() (w, h float64) {
	return s.width, s.height
}

// SetSize resizes the scene (the window). When the size changes the root
// box follows and EventResize is dispatched to scene-level listeners.
func (s *Scene) SetSize(w, h float64) {
	if w == s.width && h == s.height {
		return
	}
	s.width, s.height = w, h
	s.root.SetSize(w, h)
	ev := &PointerEvent{Type: EventResize, scene: s}
	s.debugLogEvent(ev)
	s.listeners.fire(ev)
}

// AddListener registers a scene-level listener. Scene-level listeners see
// every event after it has bubbled through its target's ancestors, unless a
// surface stopped propagation.
func (s *Scene) AddListener(t EventType, fn func(*PointerEvent)) ListenerHandle {
	return s.listeners.add(t, fn)
}

// OnResize registers a callback fired after the scene size changes.
func (s *Scene) OnResize(fn func(w, h float64)) ListenerHandle {
	return s.listeners.add(EventResize, func(*PointerEvent) {
		fn(s.width, s.height)
	})
}

// ListenerCount returns the number of live scene-level listeners.
func (s *Scene) ListenerCount() int {
	return s.listeners.count()
}

// pointerCapture is a captured pointer. The mouse shares one pointer id
// across its buttons, so only an up of button releases it.
type pointerCapture struct {
	target *Surface
	button MouseButton
}

// CapturePointer routes all events for pointerID to the given surface until
// the primary button (or the touch) is released or the pointer is cancelled.
func (s *Scene) CapturePointer(pointerID int, target *Surface) {
	s.capturePointer(pointerID, target, MouseButtonLeft)
}

func (s *Scene) capturePointer(pointerID int, target *Surface, button MouseButton) {
	s.captured[pointerID] = pointerCapture{target: target, button: button}
}

// ReleasePointer stops routing events for pointerID to a captured surface.
func (s *Scene) ReleasePointer(pointerID int) {
	delete(s.captured, pointerID)
}

// Captured returns the surface capturing pointerID, or nil.
func (s *Scene) Captured(pointerID int) *Surface {
	return s.captured[pointerID].target
}

// SetDebugMode enables or disables debug mode. When enabled, every dispatched
// event is logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// --- Hit testing ---

// collectHittable walks the tree in painter order (DFS, children above their
// parent, later siblings above earlier ones), appending visible interactable
// surfaces to buf. Invisible subtrees are skipped entirely; a
// non-interactable surface is skipped but its children are still visited.
func collectHittable(n *Surface, buf []*Surface) []*Surface {
	if !n.Visible {
		return buf
	}
	if n.Interactable {
		buf = append(buf, n)
	}
	for _, child := range n.children {
		buf = collectHittable(child, buf)
	}
	return buf
}

// HitTest finds the topmost interactable surface at the global point p.
// Returns nil if nothing is hit.
func (s *Scene) HitTest(p Point) *Surface {
	s.hitBuf = collectHittable(s.root, s.hitBuf[:0])
	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		n := s.hitBuf[i]
		if n.containsLocal(n.GlobalToLocal(p)) {
			return n
		}
	}
	return nil
}

// --- Dispatch ---

// Dispatch delivers ev. Unless ev.Target is already set, the target is the
// surface capturing the pointer or else the topmost hit surface. Listeners
// run on the target, then on each display ancestor, then at scene level.
// Pointer capture is released automatically after a cancel, or an up of the
// button that took it.
func (s *Scene) Dispatch(ev *PointerEvent) {
	ev.scene = s
	if ev.Type == EventResize {
		s.listeners.fire(ev)
		return
	}
	if ev.Target == nil {
		if c := s.captured[ev.PointerID].target; c != nil {
			ev.Target = c
		} else if ev.Type != EventPointerCancel {
			ev.Target = s.HitTest(ev.Global)
		}
	}
	s.debugLogEvent(ev)

	for n := ev.Target; n != nil && !ev.stopped; n = n.parent {
		ev.CurrentTarget = n
		n.listeners.fire(ev)
	}
	if !ev.stopped {
		ev.CurrentTarget = nil
		s.listeners.fire(ev)
	}

	switch ev.Type {
	case EventPointerCancel:
		s.ReleasePointer(ev.PointerID)
	case EventPointerUp:
		if c, ok := s.captured[ev.PointerID]; ok && c.button == ev.Button {
			s.ReleasePointer(ev.PointerID)
		}
	}
}
