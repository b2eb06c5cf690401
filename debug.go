package mapkit

import (
	"fmt"
	"os"
)

var eventTypeNames = [eventTypeCount]string{
	EventPointerDown:   "pointerdown",
	EventPointerMove:   "pointermove",
	EventPointerUp:     "pointerup",
	EventPointerCancel: "pointercancel",
	EventWheel:         "wheel",
	EventContextMenu:   "contextmenu",
	EventResize:        "resize",
}

// String returns the DOM-style name of the event type.
func (t EventType) String() string {
	if t < eventTypeCount {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", t)
}

// debugLogEvent prints a dispatched event to stderr when debug mode is on.
func (s *Scene) debugLogEvent(ev *PointerEvent) {
	if !s.debug {
		return
	}
	if ev.Type == EventResize {
		_, _ = fmt.Fprintf(os.Stderr, "[mapkit] %s %gx%g\n", ev.Type, s.width, s.height)
		return
	}
	target := "<none>"
	if ev.Target != nil {
		target = fmt.Sprintf("%q#%d", ev.Target.Name, ev.Target.ID)
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[mapkit] %s pointer=%d button=%d at (%g,%g) wheel=%g target=%s\n",
		ev.Type, ev.PointerID, ev.Button, ev.Global.X, ev.Global.Y, ev.WheelDelta, target)
}
