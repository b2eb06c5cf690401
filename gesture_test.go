package mapkit

import "testing"

type gestureLog struct {
	clicks   []Point
	drags    []Point
	pinches  []float64
	centers  []Point
	scrolls  []float64
	downs    int
	ups      int
	middle   []string
	right    []string
	contexts int
	order    []string
}

func (g *gestureLog) listeners() GestureListeners {
	return GestureListeners{
		OnClick: func(_ *PointerEvent, p Point) {
			g.clicks = append(g.clicks, p)
			g.order = append(g.order, "click")
		},
		OnDrag: func(_ *PointerEvent, d Point) { g.drags = append(g.drags, d) },
		OnPinch: func(_ *PointerEvent, d float64, c Point) {
			g.pinches = append(g.pinches, d)
			g.centers = append(g.centers, c)
		},
		OnScroll:      func(_ *PointerEvent, d float64, _ Point) { g.scrolls = append(g.scrolls, d) },
		OnPointerDown: func(*PointerEvent, Point) { g.downs++ },
		OnPointerUp: func(*PointerEvent, Point) {
			g.ups++
			g.order = append(g.order, "up")
		},
		OnMiddleDown:  func(*PointerEvent, Point) { g.middle = append(g.middle, "down") },
		OnMiddleUp:    func(*PointerEvent, Point) { g.middle = append(g.middle, "up") },
		OnRightDown:   func(*PointerEvent, Point) { g.right = append(g.right, "down") },
		OnRightUp:     func(*PointerEvent, Point) { g.right = append(g.right, "up") },
		OnContextMenu: func(ev *PointerEvent) { g.contexts++; ev.PreventDefault() },
	}
}

// newGestureScene returns an 800×600 scene with a 400×400 target at (100,100).
func newGestureScene() (*Scene, *Surface) {
	s := NewScene()
	s.SetSize(800, 600)
	target := newBox("target", 100, 100, 400, 400)
	s.Root().AddChild(target)
	return s, target
}

func newRecorded(t *testing.T) (*Scene, *Surface, *Recognizer, *gestureLog) {
	t.Helper()
	s, target := newGestureScene()
	g := &gestureLog{}
	r := NewRecognizer(s, target, g.listeners())
	return s, target, r, g
}

func TestTapIsClick(t *testing.T) {
	s, _, r, g := newRecorded(t)

	s.InjectClick(200, 200)
	s.DrainInjected()

	if len(g.clicks) != 1 {
		t.Fatalf("clicks = %d, want 1", len(g.clicks))
	}
	assertPoint(t, "click point", g.clicks[0], Pt(200, 200))
	if len(g.drags) != 0 {
		t.Errorf("drags = %d, want 0", len(g.drags))
	}
	if g.downs != 1 || g.ups != 1 {
		t.Errorf("downs=%d ups=%d, want 1 and 1", g.downs, g.ups)
	}
	if len(g.order) != 2 || g.order[0] != "click" || g.order[1] != "up" {
		t.Errorf("order = %v, want [click up]", g.order)
	}
	if r.State() != GestureIdle || r.Tracked() != 0 {
		t.Errorf("state=%d tracked=%d after tap", r.State(), r.Tracked())
	}
}

func TestDragSequence(t *testing.T) {
	s, _, r, g := newRecorded(t)

	s.InjectPress(200, 200)
	s.InjectMove(210, 205)
	s.InjectMove(230, 200)
	s.InjectRelease(230, 200)

	s.DrainInjected()

	if len(g.drags) != 2 {
		t.Fatalf("drags = %d, want 2", len(g.drags))
	}
	assertPoint(t, "first delta", g.drags[0], Pt(10, 5))
	assertPoint(t, "second delta", g.drags[1], Pt(20, -5))
	if len(g.clicks) != 0 {
		t.Errorf("clicks = %d, want 0 after drag", len(g.clicks))
	}
	if g.ups != 1 {
		t.Errorf("ups = %d, want 1", g.ups)
	}
	if r.State() != GestureIdle {
		t.Errorf("state = %d, want idle", r.State())
	}
	if s.Captured(0) != nil {
		t.Error("capture should be released after the drag")
	}
}

func TestDragCapturesPointer(t *testing.T) {
	s, target, _, g := newRecorded(t)

	s.InjectPress(200, 200)
	s.InjectMove(250, 200)
	s.DrainInjected()
	if s.Captured(0) != target {
		t.Fatal("dragging should capture the pointer to the target")
	}

	// Moves outside the target still drag.
	s.InjectMove(700, 550)
	s.DrainInjected()
	if len(g.drags) != 2 {
		t.Errorf("drags = %d, want 2", len(g.drags))
	}
}

func TestReleaseOutsideTargetIsNotClick(t *testing.T) {
	s, _, r, g := newRecorded(t)
	r.SetDragThreshold(1000)

	s.InjectPress(200, 200)
	s.InjectRelease(700, 550)
	s.DrainInjected()

	if len(g.clicks) != 0 {
		t.Errorf("clicks = %d, want 0", len(g.clicks))
	}
	if g.ups != 1 {
		t.Errorf("ups = %d, want 1", g.ups)
	}
	if r.State() != GestureIdle {
		t.Errorf("state = %d, want idle", r.State())
	}
}

func TestPinchDeltas(t *testing.T) {
	s, _, r, g := newRecorded(t)

	s.InjectTouch(EventPointerDown, 1, 200, 200)
	s.InjectTouch(EventPointerDown, 2, 210, 200)
	s.DrainInjected()
	if r.State() != GestureMulti {
		t.Fatalf("state = %d, want multi", r.State())
	}

	s.InjectTouch(EventPointerMove, 2, 220, 200)
	s.InjectTouch(EventPointerMove, 2, 215, 200)
	s.DrainInjected()

	if len(g.pinches) != 2 {
		t.Fatalf("pinches = %d, want 2", len(g.pinches))
	}
	assertNear(t, "grow", g.pinches[0], 10)
	assertNear(t, "shrink", g.pinches[1], -5)
	assertPoint(t, "center", g.centers[0], Pt(210, 200))
	if len(g.drags) != 0 {
		t.Errorf("drags during pinch = %d", len(g.drags))
	}

	s.InjectTouch(EventPointerUp, 1, 200, 200)
	s.DrainInjected()
	if r.State() != GestureIdle || r.Tracked() != 0 {
		t.Errorf("state=%d tracked=%d after release", r.State(), r.Tracked())
	}
	if len(g.clicks) != 0 {
		t.Error("a pinch release must not click")
	}
}

func TestPinchFromOrigin(t *testing.T) {
	s := NewScene()
	s.SetSize(800, 600)
	target := newBox("target", 0, 0, 400, 400)
	s.Root().AddChild(target)
	g := &gestureLog{}
	NewRecognizer(s, target, g.listeners())

	s.InjectTouch(EventPointerDown, 1, 0, 0)
	s.InjectTouch(EventPointerDown, 2, 10, 0)
	s.InjectTouch(EventPointerMove, 2, 20, 0)
	s.InjectTouch(EventPointerMove, 2, 15, 0)
	s.DrainInjected()

	if len(g.pinches) != 2 {
		t.Fatalf("pinches = %d, want 2", len(g.pinches))
	}
	assertNear(t, "0,0 to 20,0", g.pinches[0], 10)
	assertNear(t, "0,0 to 15,0", g.pinches[1], -5)
	assertPoint(t, "first center", g.centers[0], Pt(10, 0))
	assertPoint(t, "second center", g.centers[1], Pt(7.5, 0))
}

func TestAuxButtonKeepsDragCapture(t *testing.T) {
	s, target, r, g := newRecorded(t)

	s.InjectPress(200, 200)
	s.InjectMove(250, 200)
	s.InjectButton(MouseButtonRight, true, 250, 200)
	s.InjectButton(MouseButtonRight, false, 250, 200)
	s.DrainInjected()
	if s.Captured(0) != target {
		t.Fatal("a right-button up must not release the left drag's capture")
	}

	s.InjectMove(700, 550)
	s.InjectRelease(700, 550)
	s.DrainInjected()
	if len(g.drags) != 2 {
		t.Errorf("drags = %d, want 2", len(g.drags))
	}
	if s.Captured(0) != nil || r.State() != GestureIdle {
		t.Errorf("captured=%v state=%d after the left release", s.Captured(0), r.State())
	}
}

func TestCrowdIsSilent(t *testing.T) {
	s, _, r, g := newRecorded(t)

	for id := 1; id <= 3; id++ {
		s.InjectTouch(EventPointerDown, id, 150+float64(id)*10, 200)
	}
	s.InjectTouch(EventPointerMove, 1, 300, 300)
	s.InjectTouch(EventPointerMove, 3, 100, 100)
	s.DrainInjected()

	if r.State() != GestureCrowd || r.Tracked() != 3 {
		t.Fatalf("state=%d tracked=%d, want crowd with 3", r.State(), r.Tracked())
	}
	if len(g.drags)+len(g.pinches)+len(g.clicks) != 0 {
		t.Errorf("crowd reported drags=%d pinches=%d clicks=%d", len(g.drags), len(g.pinches), len(g.clicks))
	}
}

func TestCancelFiresNothing(t *testing.T) {
	s, _, r, g := newRecorded(t)

	s.InjectPress(200, 200)
	s.InjectMove(220, 200)
	s.InjectCancel(0)
	s.DrainInjected()

	if r.State() != GestureIdle || r.Tracked() != 0 {
		t.Fatalf("state=%d tracked=%d after cancel", r.State(), r.Tracked())
	}
	drags := len(g.drags)

	s.InjectMove(300, 300)
	s.InjectRelease(300, 300)
	s.DrainInjected()

	if len(g.drags) != drags {
		t.Error("moves after cancel must not drag")
	}
	if g.ups != 0 || len(g.clicks) != 0 {
		t.Errorf("ups=%d clicks=%d after cancel, want 0", g.ups, len(g.clicks))
	}
}

func TestDragThreshold(t *testing.T) {
	s, _, r, g := newRecorded(t)
	r.SetDragThreshold(5)

	s.InjectPress(200, 200)
	s.InjectMove(203, 200)
	s.InjectRelease(203, 200)
	s.DrainInjected()

	if len(g.drags) != 0 {
		t.Errorf("drags = %d under threshold", len(g.drags))
	}
	if len(g.clicks) != 1 {
		t.Errorf("clicks = %d, want 1 under threshold", len(g.clicks))
	}

	s.InjectPress(200, 200)
	s.InjectMove(203, 200)
	s.InjectMove(210, 200)
	s.InjectRelease(210, 200)
	s.DrainInjected()

	if len(g.drags) != 1 {
		t.Fatalf("drags = %d, want 1 past threshold", len(g.drags))
	}
	assertPoint(t, "delta from origin", g.drags[0], Pt(10, 0))
	if len(g.clicks) != 1 {
		t.Errorf("clicks = %d, the drag must not click", len(g.clicks))
	}

	r.SetDragThreshold(-3)
	if r.dragThreshold != 0 {
		t.Errorf("negative threshold = %v, want 0", r.dragThreshold)
	}
}

func TestAuxButtons(t *testing.T) {
	s, _, r, g := newRecorded(t)

	s.InjectButton(MouseButtonMiddle, true, 200, 200)
	s.InjectButton(MouseButtonMiddle, false, 700, 500)
	s.InjectButton(MouseButtonMiddle, false, 700, 500)
	s.DrainInjected()

	if len(g.middle) != 2 || g.middle[0] != "down" || g.middle[1] != "up" {
		t.Errorf("middle = %v, want [down up]", g.middle)
	}

	s.InjectButton(MouseButtonRight, true, 200, 200)
	s.InjectButton(MouseButtonRight, false, 200, 200)
	s.DrainInjected()

	if len(g.right) != 2 || g.right[0] != "down" || g.right[1] != "up" {
		t.Errorf("right = %v, want [down up]", g.right)
	}
	if g.contexts != 1 {
		t.Errorf("context menus = %d, want 1", g.contexts)
	}
	if g.downs != 0 || g.ups != 0 || len(g.clicks) != 0 {
		t.Errorf("aux buttons reached the pointer table: downs=%d ups=%d clicks=%d", g.downs, g.ups, len(g.clicks))
	}
	if r.State() != GestureIdle {
		t.Errorf("state = %d, want idle", r.State())
	}
}

func TestContextMenuPreventDefault(t *testing.T) {
	s, _, _, g := newRecorded(t)
	ev := &PointerEvent{Type: EventContextMenu, PointerType: PointerMouse, Button: MouseButtonRight, Global: Pt(200, 200)}
	s.Dispatch(ev)
	if g.contexts != 1 || !ev.DefaultPrevented() {
		t.Errorf("contexts=%d prevented=%v", g.contexts, ev.DefaultPrevented())
	}
}

func TestScroll(t *testing.T) {
	s, _, _, g := newRecorded(t)

	s.InjectWheel(200, 200, -120)
	s.InjectWheel(700, 550, 50) // outside the target
	s.DrainInjected()

	if len(g.scrolls) != 1 || g.scrolls[0] != -120 {
		t.Errorf("scrolls = %v, want [-120]", g.scrolls)
	}
}

func TestDisposeRemovesEveryListener(t *testing.T) {
	cases := []struct {
		name  string
		setup func(s *Scene)
	}{
		{"idle", func(*Scene) {}},
		{"single", func(s *Scene) { s.InjectPress(200, 200); s.InjectMove(210, 200) }},
		{"multi", func(s *Scene) {
			s.InjectTouch(EventPointerDown, 1, 200, 200)
			s.InjectTouch(EventPointerDown, 2, 220, 200)
		}},
		{"crowd", func(s *Scene) {
			for id := 1; id <= 3; id++ {
				s.InjectTouch(EventPointerDown, id, 200, 200)
			}
		}},
		{"aux armed", func(s *Scene) {
			s.InjectButton(MouseButtonMiddle, true, 200, 200)
			s.InjectButton(MouseButtonRight, true, 200, 200)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, target, r, g := newRecorded(t)
			tc.setup(s)
			s.DrainInjected()

			r.Dispose()
			r.Dispose()

			if n := s.ListenerCount(); n != 0 {
				t.Errorf("scene listeners = %d, want 0", n)
			}
			if n := target.ListenerCount(); n != 0 {
				t.Errorf("target listeners = %d, want 0", n)
			}
			if r.Tracked() != 0 || r.State() != GestureIdle {
				t.Errorf("state=%d tracked=%d after dispose", r.State(), r.Tracked())
			}

			before := len(g.clicks) + len(g.drags) + g.ups + len(g.middle)
			s.InjectClick(200, 200)
			s.InjectButton(MouseButtonMiddle, false, 200, 200)
			s.DrainInjected()
			if after := len(g.clicks) + len(g.drags) + g.ups + len(g.middle); after != before {
				t.Error("callbacks fired after dispose")
			}
		})
	}
}

func TestSetupGesturesDispose(t *testing.T) {
	s, target := newGestureScene()
	dispose := SetupGestures(s, target, GestureListeners{})
	if target.ListenerCount() == 0 {
		t.Fatal("no listeners attached")
	}
	dispose()
	if target.ListenerCount() != 0 || s.ListenerCount() != 0 {
		t.Error("listeners left after dispose")
	}
}

func TestNilListenersSkipped(t *testing.T) {
	s, target := newGestureScene()
	NewRecognizer(s, target, GestureListeners{})

	s.InjectClick(200, 200)
	s.InjectDrag(200, 200, 300, 300, 5)
	s.InjectWheel(200, 200, 10)
	s.InjectButton(MouseButtonRight, true, 200, 200)
	s.InjectButton(MouseButtonRight, false, 200, 200)
	s.DrainInjected()
}
