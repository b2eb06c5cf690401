package mapkit

import (
	"math"
	"testing"
)

func TestNewSurfaceDefaults(t *testing.T) {
	s := NewSurface("s")
	if !s.Visible || !s.Interactable {
		t.Error("new surfaces are visible and interactable")
	}
	if s.Scale() != 1 || s.Position() != (Point{}) {
		t.Errorf("scale %v position %v", s.Scale(), s.Position())
	}
	if s.Attached() {
		t.Error("detached surface reports attached")
	}
	if NewSurface("t").ID == s.ID {
		t.Error("IDs must be unique")
	}
}

func TestSetStyle(t *testing.T) {
	tests := []struct {
		prop, value string
		wantPos     Point
		wantScale   float64
	}{
		{"left", "12px", Pt(12, 0), 1},
		{"top", "-4.5px", Pt(0, -4.5), 1},
		{"left", "", Pt(0, 0), 1},
		{"left", "abc", Pt(0, 0), 1},
		{"transform", "scale(0.5)", Pt(0, 0), 0.5},
		{"transform", "scale( 2 )", Pt(0, 0), 2},
		{"transform", "", Pt(0, 0), 1},
		{"transform", "scale(NaN)", Pt(0, 0), 1},
		{"transform", "rotate(45deg)", Pt(0, 0), 1},
		{"color", "red", Pt(0, 0), 1},
	}
	for _, tt := range tests {
		s := NewSurface("s")
		s.SetStyle(tt.prop, tt.value)
		if s.Position() != tt.wantPos || s.Scale() != tt.wantScale {
			t.Errorf("SetStyle(%q, %q): pos %v scale %v, want %v %v",
				tt.prop, tt.value, s.Position(), s.Scale(), tt.wantPos, tt.wantScale)
		}
	}
}

func TestSetStyleText(t *testing.T) {
	s := NewSurface("s")
	s.SetStyleText("left: 10px; top:20px;transform: scale(0.25)")
	if s.Position() != Pt(10, 20) || s.Scale() != 0.25 {
		t.Errorf("pos %v scale %v", s.Position(), s.Scale())
	}
	if s.Style("left") != "10px" || s.Style("top") != "20px" || s.Style("transform") != "scale(0.25)" {
		t.Errorf("Style round trip: %q %q %q", s.Style("left"), s.Style("top"), s.Style("transform"))
	}
	if s.Style("color") != "" {
		t.Error("unknown property should read as empty")
	}
}

func TestNonFiniteGeometrySanitized(t *testing.T) {
	s := NewSurface("s")
	s.SetPosition(Pt(math.NaN(), math.Inf(1)))
	s.SetScale(math.Inf(-1))
	s.SetBox(Rect{X: math.NaN(), Width: math.Inf(1), Height: 5})
	if s.Position() != (Point{}) || s.Scale() != 1 {
		t.Errorf("pos %v scale %v", s.Position(), s.Scale())
	}
	if s.Box() != (Rect{Height: 5}) {
		t.Errorf("box %v", s.Box())
	}
}

func TestAddChildReparents(t *testing.T) {
	a := NewSurface("a")
	b := NewSurface("b")
	c := NewSurface("c")
	a.AddChild(c)
	b.AddChild(c)
	if c.Parent() != b || len(a.Children()) != 0 || len(b.Children()) != 1 {
		t.Error("AddChild should detach from the previous parent")
	}
	c.Remove()
	if c.Parent() != nil || len(b.Children()) != 0 {
		t.Error("Remove should detach")
	}
	c.Remove()
}

func TestAddChildCyclePanics(t *testing.T) {
	a := NewSurface("a")
	b := NewSurface("b")
	a.AddChild(b)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for display cycle")
		}
	}()
	b.AddChild(a)
}

func TestContains(t *testing.T) {
	a := NewSurface("a")
	b := NewSurface("b")
	c := NewSurface("c")
	a.AddChild(b)
	b.AddChild(c)
	if !a.Contains(c) || !a.Contains(a) || c.Contains(a) {
		t.Error("Contains is descendant-or-self")
	}
}

func TestSurfaceListenerCount(t *testing.T) {
	s := NewSurface("s")
	h := s.AddListener(EventPointerDown, func(*PointerEvent) {})
	s.AddListener(EventWheel, func(*PointerEvent) {})
	s.AddListener(EventWheel, nil) // ignored
	if s.ListenerCount() != 2 {
		t.Errorf("ListenerCount = %d, want 2", s.ListenerCount())
	}
	h.Remove()
	if s.ListenerCount() != 1 {
		t.Errorf("ListenerCount = %d, want 1", s.ListenerCount())
	}
}

func TestHitShapes(t *testing.T) {
	r := HitRect{X: 10, Y: 20, Width: 100, Height: 50}
	if !r.Contains(Pt(10, 20)) || !r.Contains(Pt(110, 70)) || r.Contains(Pt(5, 40)) {
		t.Error("HitRect edges")
	}

	c := HitCircle{Center: Pt(50, 50), Radius: 25}
	if !c.Contains(Pt(75, 50)) || c.Contains(Pt(70, 70)) {
		t.Error("HitCircle")
	}

	// Concave "L" shape.
	p := HitPolygon{Points: []Point{{0, 0}, {100, 0}, {100, 40}, {40, 40}, {40, 100}, {0, 100}}}
	tests := []struct {
		p    Point
		want bool
	}{
		{Pt(20, 20), true},
		{Pt(20, 80), true},
		{Pt(80, 80), false},
		{Pt(100, 20), true}, // on edge
		{Pt(-1, 50), false},
	}
	for _, tt := range tests {
		if got := p.Contains(tt.p); got != tt.want {
			t.Errorf("HitPolygon.Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if (HitPolygon{Points: []Point{{0, 0}, {1, 1}}}).Contains(Pt(0, 0)) {
		t.Error("degenerate polygon should contain nothing")
	}
}
