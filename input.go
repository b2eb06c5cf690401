package mapkit

import "github.com/hajimehoshi/ebiten/v2"

// --- Constants ---

const (
	maxPointers      = 10  // pointer 0 = mouse, 1-9 = touch
	wheelLineDelta   = 100 // WheelDelta units per wheel notch
	mousePointerID   = 0
	mouseButtonCount = 3
)

// --- Per-pointer state ---

type mouseState struct {
	known   bool
	last    Point
	pressed [mouseButtonCount]bool
}

type touchState struct {
	down bool
	last Point
}

var ebitenButtons = [mouseButtonCount]ebiten.MouseButton{
	MouseButtonLeft:   ebiten.MouseButtonLeft,
	MouseButtonMiddle: ebiten.MouseButtonMiddle,
	MouseButtonRight:  ebiten.MouseButtonRight,
}

// Update processes one frame of input: either the next injected event, or
// the real mouse, wheel and touch state polled from Ebitengine, converted
// into dispatched pointer events.
func (s *Scene) Update() {
	if s.script != nil {
		s.script.step(s)
	}
	s.processInput()
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// processInput is called from Scene.Update to handle all mouse and touch input.
func (s *Scene) processInput() {
	if s.processInjectedInput() {
		return
	}
	mods := readModifiers()
	if !s.processFocus(ebiten.IsFocused(), mods) {
		return
	}
	s.processMousePointer(mods)
	s.processWheel(mods)
	s.processTouchPointers(mods)
}

// processFocus cancels every held pointer when the window loses focus, since
// the matching release will never be observed. Returns false while unfocused.
func (s *Scene) processFocus(focused bool, mods KeyModifiers) bool {
	if focused {
		s.focused = true
		return true
	}
	if !s.focused {
		return false
	}
	s.focused = false
	if s.mouse.pressed != [mouseButtonCount]bool{} {
		s.mouse.pressed = [mouseButtonCount]bool{}
		s.Dispatch(&PointerEvent{
			Type: EventPointerCancel, PointerID: mousePointerID, PointerType: PointerMouse,
			Global: s.mouse.last, Modifiers: mods,
		})
	}
	for i := 1; i < maxPointers; i++ {
		if s.pointers[i].down {
			s.Dispatch(&PointerEvent{
				Type: EventPointerCancel, PointerID: i, PointerType: PointerTouch,
				Global: s.pointers[i].last, Modifiers: mods,
			})
		}
		s.pointers[i] = touchState{}
		s.touchUsed[i] = false
	}
	return false
}

// processMousePointer handles mouse input (pointer 0): one move event when
// the cursor changed position, then one down/up event per button edge.
func (s *Scene) processMousePointer(mods KeyModifiers) {
	mx, my := ebiten.CursorPosition()
	p := Point{X: float64(mx), Y: float64(my)}

	if s.mouse.known && p != s.mouse.last {
		s.Dispatch(&PointerEvent{
			Type: EventPointerMove, PointerID: mousePointerID, PointerType: PointerMouse,
			Button: s.heldButton(), Global: p, Modifiers: mods,
		})
	}
	s.mouse.known = true
	s.mouse.last = p

	for b := MouseButton(0); b < mouseButtonCount; b++ {
		pressed := ebiten.IsMouseButtonPressed(ebitenButtons[b])
		if pressed == s.mouse.pressed[b] {
			continue
		}
		s.mouse.pressed[b] = pressed
		typ := EventPointerUp
		if pressed {
			typ = EventPointerDown
		}
		s.Dispatch(&PointerEvent{
			Type: typ, PointerID: mousePointerID, PointerType: PointerMouse,
			Button: b, Global: p, Modifiers: mods,
		})
		if pressed && b == MouseButtonRight {
			s.Dispatch(&PointerEvent{
				Type: EventContextMenu, PointerID: mousePointerID, PointerType: PointerMouse,
				Button: b, Global: p, Modifiers: mods,
			})
		}
	}
}

// heldButton returns the first held mouse button, left when none is held.
func (s *Scene) heldButton() MouseButton {
	for b := MouseButton(0); b < mouseButtonCount; b++ {
		if s.mouse.pressed[b] {
			return b
		}
	}
	return MouseButtonLeft
}

// processWheel converts vertical wheel offsets into wheel events. Ebitengine
// reports a positive offset when scrolling up; WheelDelta follows the
// positive-is-down convention.
func (s *Scene) processWheel(mods KeyModifiers) {
	_, wy := ebiten.Wheel()
	if wy == 0 {
		return
	}
	s.Dispatch(&PointerEvent{
		Type: EventWheel, PointerID: mousePointerID, PointerType: PointerMouse,
		Global: s.mouse.last, WheelDelta: -wy * wheelLineDelta, Modifiers: mods,
	})
}

// processTouchPointers handles touch input (pointers 1-9).
func (s *Scene) processTouchPointers(mods KeyModifiers) {
	touchIDs := ebiten.AppendTouchIDs(s.prevTouchIDs[:0])
	s.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := s.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		s.processTouch(slot, Point{X: float64(tx), Y: float64(ty)}, true, mods)
	}

	// Release any touch slots that are no longer active.
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && !activeSlots[i] {
			s.processTouch(i, s.pointers[i].last, false, mods)
			s.touchUsed[i] = false
			s.touchMap[i] = 0
		}
	}
}

// processTouch runs the down/move/up edge detection for one touch slot.
func (s *Scene) processTouch(slot int, p Point, pressed bool, mods KeyModifiers) {
	ts := &s.pointers[slot]
	ev := PointerEvent{PointerID: slot, PointerType: PointerTouch, Global: p, Modifiers: mods}
	switch {
	case pressed && !ts.down:
		ev.Type = EventPointerDown
	case pressed && p != ts.last:
		ev.Type = EventPointerMove
	case !pressed && ts.down:
		ev.Type = EventPointerUp
	default:
		return
	}
	ts.down = pressed
	ts.last = p
	s.Dispatch(&ev)
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (s *Scene) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && s.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !s.touchUsed[i] {
			s.touchUsed[i] = true
			s.touchMap[i] = tid
			return i
		}
	}
	return -1
}
