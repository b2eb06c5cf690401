package mapkit

// GestureListeners are the callbacks a Recognizer reports to. Any callback
// left nil is skipped.
type GestureListeners struct {
	// OnContextMenu fires for context-menu events on the target; call
	// ev.PreventDefault to suppress the native menu.
	OnContextMenu func(ev *PointerEvent)
	// OnClick fires on release of a single pointer that never dragged, when
	// the release lands on the target.
	OnClick func(ev *PointerEvent, p Point)
	// OnDrag fires for every move of a single pointer with the delta since
	// the previous reported position.
	OnDrag func(ev *PointerEvent, delta Point)
	// OnPinch fires for every move while two pointers are down with the
	// change in their distance since the previous move, and their midpoint.
	OnPinch func(ev *PointerEvent, delta float64, center Point)
	// OnScroll fires for every wheel event on the target.
	OnScroll func(ev *PointerEvent, delta float64, p Point)

	OnPointerDown func(ev *PointerEvent, p Point)
	OnPointerUp   func(ev *PointerEvent, p Point)
	OnMiddleDown  func(ev *PointerEvent, p Point)
	OnMiddleUp    func(ev *PointerEvent, p Point)
	OnRightDown   func(ev *PointerEvent, p Point)
	OnRightUp     func(ev *PointerEvent, p Point)
}

// GestureState is the recognizer's pointer-count state.
type GestureState uint8

const (
	GestureIdle   GestureState = iota // no pointers tracked
	GestureSingle                     // one pointer: click or drag
	GestureMulti                      // two pointers: pinch
	GestureCrowd                      // more than two pointers: tracked, nothing reported
)

// Recognizer turns the raw pointer stream of one target surface into
// click, drag, pinch, scroll and auxiliary-button callbacks.
//
// While idle it listens only on the target (pointer-down, wheel,
// context-menu). Entering a tracking state attaches that state's listeners,
// mostly at scene level so that moves and releases are seen even when the
// pointer leaves the target; leaving the state detaches exactly those.
type Recognizer struct {
	scene     *Scene
	target    *Surface
	listeners GestureListeners

	state     GestureState
	ids       []int
	positions map[int]Point

	// Gesture session, reset on every state entry.
	dragOrigin Point
	dragLast   Point
	dragging   bool
	clickArmed bool
	pinchLast  float64

	dragThreshold float64

	idle     []ListenerHandle
	session  []ListenerHandle
	auxUp    [mouseButtonCount]ListenerHandle
	auxArmed [mouseButtonCount]bool
	disposed bool
}

// NewRecognizer attaches a recognizer to target. Global listeners are
// registered on scene. Call Dispose to detach everything.
func NewRecognizer(scene *Scene, target *Surface, listeners GestureListeners) *Recognizer {
	r := &Recognizer{
		scene:     scene,
		target:    target,
		listeners: listeners,
		positions: make(map[int]Point),
	}
	r.idle = []ListenerHandle{
		target.AddListener(EventPointerDown, r.downHandler),
		target.AddListener(EventWheel, r.scrollHandler),
		target.AddListener(EventContextMenu, r.contextMenuHandler),
	}
	return r
}

// SetupGestures attaches a recognizer to target and returns its disposal
// function.
func SetupGestures(scene *Scene, target *Surface, listeners GestureListeners) (dispose func()) {
	return NewRecognizer(scene, target, listeners).Dispose
}

// SetDragThreshold sets how far (in global pixels) a single pointer must
// travel from where it went down before moves are reported as drags. Until
// then the gesture can still end as a click. The default of 0 reports every
// move as a drag.
func (r *Recognizer) SetDragThreshold(pixels float64) {
	r.dragThreshold = max(pixels, 0)
}

// State returns the current pointer-count state.
func (r *Recognizer) State() GestureState {
	return r.state
}

// Tracked returns the number of pointers in the pointer table.
func (r *Recognizer) Tracked() int {
	return len(r.ids)
}

// Dispose removes every listener this recognizer attached, whatever state
// it is in, and clears the pointer table. Safe to call more than once.
func (r *Recognizer) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	r.exit()
	r.state = GestureIdle
	r.ids = nil
	clear(r.positions)
	for _, h := range r.idle {
		h.Remove()
	}
	r.idle = nil
	for b := range r.auxUp {
		r.auxUp[b].Remove()
		r.auxArmed[b] = false
	}
}

// --- State machine ---

func stateForCount(n int) GestureState {
	switch {
	case n == 0:
		return GestureIdle
	case n == 1:
		return GestureSingle
	case n == 2:
		return GestureMulti
	default:
		return GestureCrowd
	}
}

func (r *Recognizer) transition(next GestureState) {
	r.exit()
	r.state = next
	r.enter()
}

// enter attaches the listeners valid for the current state and starts a new
// gesture session.
func (r *Recognizer) enter() {
	switch r.state {
	case GestureIdle:
		return
	case GestureSingle:
		r.dragOrigin = r.positions[r.ids[0]]
		r.dragLast = r.dragOrigin
		r.dragging = false
		r.clickArmed = true
		r.session = append(r.session,
			r.target.AddListener(EventPointerUp, r.clickHandler),
			r.scene.AddListener(EventPointerMove, r.dragHandler),
		)
	case GestureMulti:
		r.pinchLast = r.pinchDistance()
		r.session = append(r.session,
			r.scene.AddListener(EventPointerMove, r.pinchHandler),
		)
	}
	r.session = append(r.session,
		r.scene.AddListener(EventPointerUp, r.upHandler),
		r.scene.AddListener(EventPointerCancel, r.cancelHandler),
	)
}

// exit detaches every listener attached by enter.
func (r *Recognizer) exit() {
	for _, h := range r.session {
		h.Remove()
	}
	r.session = r.session[:0]
	r.clickArmed = false
}

// clearPointers empties the pointer table and returns to idle.
func (r *Recognizer) clearPointers() {
	r.ids = r.ids[:0]
	clear(r.positions)
	r.transition(GestureIdle)
}

func (r *Recognizer) tracked(id int) bool {
	_, ok := r.positions[id]
	return ok
}

func (r *Recognizer) pinchPair() (Point, Point) {
	return r.positions[r.ids[0]], r.positions[r.ids[1]]
}

func (r *Recognizer) pinchDistance() float64 {
	a, b := r.pinchPair()
	return Distance(a, b)
}

func isAuxButton(ev *PointerEvent) bool {
	return ev.PointerType == PointerMouse && (ev.Button == MouseButtonMiddle || ev.Button == MouseButtonRight)
}

// --- Handlers ---

func (r *Recognizer) downHandler(ev *PointerEvent) {
	if isAuxButton(ev) {
		r.auxDown(ev)
		return
	}
	if !r.tracked(ev.PointerID) {
		r.ids = append(r.ids, ev.PointerID)
	}
	r.positions[ev.PointerID] = ev.Global
	r.transition(stateForCount(len(r.ids)))
	if fn := r.listeners.OnPointerDown; fn != nil {
		fn(ev, ev.Global)
	}
}

func (r *Recognizer) clickHandler(ev *PointerEvent) {
	if r.state != GestureSingle || !r.clickArmed || !r.tracked(ev.PointerID) || isAuxButton(ev) {
		return
	}
	if fn := r.listeners.OnClick; fn != nil {
		fn(ev, ev.Global)
	}
	r.finish(ev)
}

func (r *Recognizer) upHandler(ev *PointerEvent) {
	if !r.tracked(ev.PointerID) || isAuxButton(ev) {
		return
	}
	r.finish(ev)
}

// finish ends the gesture for a released pointer: it reports the release
// and drops to idle, since any release takes the count below the number
// that started the current gesture.
func (r *Recognizer) finish(ev *PointerEvent) {
	r.clearPointers()
	if fn := r.listeners.OnPointerUp; fn != nil {
		fn(ev, ev.Global)
	}
}

func (r *Recognizer) cancelHandler(*PointerEvent) {
	r.clearPointers()
}

func (r *Recognizer) dragHandler(ev *PointerEvent) {
	if r.state != GestureSingle || !r.tracked(ev.PointerID) {
		return
	}
	r.positions[ev.PointerID] = ev.Global
	if !r.dragging && r.dragThreshold > 0 && Distance(r.dragOrigin, ev.Global) <= r.dragThreshold {
		return
	}
	r.dragging = true
	r.clickArmed = false
	ev.CapturePointer()

	delta := Delta(r.dragLast, ev.Global)
	r.dragLast = ev.Global
	if fn := r.listeners.OnDrag; fn != nil {
		fn(ev, delta)
	}
}

func (r *Recognizer) pinchHandler(ev *PointerEvent) {
	if r.state != GestureMulti || !r.tracked(ev.PointerID) {
		return
	}
	r.positions[ev.PointerID] = ev.Global
	dist := r.pinchDistance()
	delta := dist - r.pinchLast
	r.pinchLast = dist
	if fn := r.listeners.OnPinch; fn != nil {
		a, b := r.pinchPair()
		fn(ev, delta, Midpoint(a, b))
	}
}

func (r *Recognizer) scrollHandler(ev *PointerEvent) {
	if fn := r.listeners.OnScroll; fn != nil {
		fn(ev, ev.WheelDelta, ev.Global)
	}
}

func (r *Recognizer) contextMenuHandler(ev *PointerEvent) {
	if fn := r.listeners.OnContextMenu; fn != nil {
		fn(ev)
	}
}

// auxDown reports a middle or right press and arms a one-shot scene-level
// listener for the matching release. Auxiliary buttons never enter the
// pointer table.
func (r *Recognizer) auxDown(ev *PointerEvent) {
	b := ev.Button
	switch b {
	case MouseButtonMiddle:
		if fn := r.listeners.OnMiddleDown; fn != nil {
			fn(ev, ev.Global)
		}
	case MouseButtonRight:
		if fn := r.listeners.OnRightDown; fn != nil {
			fn(ev, ev.Global)
		}
	}
	if r.auxArmed[b] || r.disposed {
		return
	}
	r.auxArmed[b] = true
	r.auxUp[b] = r.scene.AddListener(EventPointerUp, func(up *PointerEvent) {
		if up.PointerType != PointerMouse || up.Button != b {
			return
		}
		r.auxUp[b].Remove()
		r.auxArmed[b] = false
		var fn func(*PointerEvent, Point)
		if b == MouseButtonMiddle {
			fn = r.listeners.OnMiddleUp
		} else {
			fn = r.listeners.OnRightUp
		}
		if fn != nil {
			fn(up, up.Global)
		}
	})
}
