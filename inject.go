package mapkit

// Injected events use global coordinates and pass through the same hit
// testing, capture and dispatch as real input. Each Update consumes one
// queued event instead of polling Ebitengine.

// InjectPress queues a left-button mouse press at (x, y).
func (s *Scene) InjectPress(x, y float64) {
	s.inject(PointerEvent{Type: EventPointerDown, PointerType: PointerMouse, Global: Pt(x, y)})
}

// InjectMove queues a mouse move to (x, y). Use this between InjectPress
// and InjectRelease to simulate a drag.
func (s *Scene) InjectMove(x, y float64) {
	s.inject(PointerEvent{Type: EventPointerMove, PointerType: PointerMouse, Global: Pt(x, y)})
}

// InjectRelease queues a left-button mouse release at (x, y).
func (s *Scene) InjectRelease(x, y float64) {
	s.inject(PointerEvent{Type: EventPointerUp, PointerType: PointerMouse, Global: Pt(x, y)})
}

// InjectButton queues a press or release of any mouse button at (x, y).
// A right-button press is followed by a context-menu event, as with real
// input.
func (s *Scene) InjectButton(button MouseButton, pressed bool, x, y float64) {
	typ := EventPointerUp
	if pressed {
		typ = EventPointerDown
	}
	s.inject(PointerEvent{Type: typ, PointerType: PointerMouse, Button: button, Global: Pt(x, y)})
	if pressed && button == MouseButtonRight {
		s.inject(PointerEvent{Type: EventContextMenu, PointerType: PointerMouse, Button: button, Global: Pt(x, y)})
	}
}

// InjectClick is a convenience that queues a press followed by a release
// at the same coordinates. Consumes two frames.
func (s *Scene) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (s *Scene) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// InjectWheel queues a wheel event at (x, y). Negative delta scrolls up.
func (s *Scene) InjectWheel(x, y, delta float64) {
	s.inject(PointerEvent{Type: EventWheel, PointerType: PointerMouse, Global: Pt(x, y), WheelDelta: delta})
}

// InjectTouch queues a touch event of the given type for touch id.
func (s *Scene) InjectTouch(typ EventType, id int, x, y float64) {
	s.inject(PointerEvent{Type: typ, PointerID: id, PointerType: PointerTouch, Global: Pt(x, y)})
}

// InjectCancel queues a pointer-cancel for pointer id.
func (s *Scene) InjectCancel(id int) {
	s.inject(PointerEvent{Type: EventPointerCancel, PointerID: id})
}

// InjectPending returns the number of queued injected events.
func (s *Scene) InjectPending() int {
	return len(s.injectQueue)
}

// DrainInjected dispatches every queued event immediately and returns how
// many were dispatched.
func (s *Scene) DrainInjected() int {
	n := 0
	for s.processInjectedInput() {
		n++
	}
	return n
}

func (s *Scene) inject(ev PointerEvent) {
	s.injectQueue = append(s.injectQueue, ev)
}

// processInjectedInput pops one event from the inject queue and dispatches
// it. Returns true if an event was consumed (real input is skipped for that
// frame).
func (s *Scene) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	ev := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	s.Dispatch(&ev)
	return true
}
