package mapkit

// PointerEvent is one raw input event travelling through a Scene. The same
// value is handed to every listener along its dispatch path.
type PointerEvent struct {
	Type        EventType
	PointerID   int
	PointerType PointerType
	Button      MouseButton
	// Global is the event position in the global (screen) frame.
	Global Point
	// WheelDelta is the signed vertical scroll amount for EventWheel;
	// positive scrolls down (away from the user).
	WheelDelta float64
	Modifiers  KeyModifiers

	// Target is the innermost surface the event was dispatched to: the
	// pointer's capture surface, or the topmost hit surface.
	Target *Surface
	// CurrentTarget is the surface whose listeners are running, or nil
	// while scene-level (window) listeners run.
	CurrentTarget *Surface

	scene     *Scene
	stopped   bool
	prevented bool
}

// StopPropagation prevents the event from reaching further surfaces on its
// dispatch path. Remaining listeners on the current surface still run.
func (e *PointerEvent) StopPropagation() {
	e.stopped = true
}

// PropagationStopped reports whether StopPropagation was called.
func (e *PointerEvent) PropagationStopped() bool {
	return e.stopped
}

// PreventDefault marks the platform default action (such as a native
// context menu) as suppressed.
func (e *PointerEvent) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *PointerEvent) DefaultPrevented() bool {
	return e.prevented
}

// CapturePointer routes subsequent events of this pointer to the event's
// target until this event's button is released or the pointer is cancelled.
func (e *PointerEvent) CapturePointer() {
	if e.scene != nil && e.Target != nil {
		e.scene.capturePointer(e.PointerID, e.Target, e.Button)
	}
}

// --- Listener registry ---

type listener struct {
	id      uint32
	fn      func(*PointerEvent)
	removed bool
}

type listenerRegistry struct {
	byType [eventTypeCount][]*listener
	nextID uint32
}

// ListenerHandle allows removing a registered listener.
type ListenerHandle struct {
	id    uint32
	reg   *listenerRegistry
	event EventType
}

// Remove unregisters this listener so it no longer fires, including later in
// a dispatch that is already in progress. Removing twice is a no-op.
func (h ListenerHandle) Remove() {
	if h.reg == nil || h.event >= eventTypeCount {
		return
	}
	s := h.reg.byType[h.event]
	for i := range s {
		if s[i].id == h.id {
			s[i].removed = true
			copy(s[i:], s[i+1:])
			s[len(s)-1] = nil
			h.reg.byType[h.event] = s[:len(s)-1]
			return
		}
	}
}

func (r *listenerRegistry) add(t EventType, fn func(*PointerEvent)) ListenerHandle {
	if t >= eventTypeCount || fn == nil {
		return ListenerHandle{}
	}
	r.nextID++
	l := &listener{id: r.nextID, fn: fn}
	r.byType[t] = append(r.byType[t], l)
	return ListenerHandle{id: l.id, reg: r, event: t}
}

func (r *listenerRegistry) count() int {
	n := 0
	for _, s := range r.byType {
		n += len(s)
	}
	return n
}

// fire runs the listeners registered for e.Type. The list is snapshotted so
// listeners added during dispatch wait for the next event, while listeners
// removed during dispatch are skipped.
func (r *listenerRegistry) fire(e *PointerEvent) {
	s := r.byType[e.Type]
	if len(s) == 0 {
		return
	}
	snapshot := make([]*listener, len(s))
	copy(snapshot, s)
	for _, l := range snapshot {
		if !l.removed {
			l.fn(e)
		}
	}
}
