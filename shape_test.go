package mapkit

import "testing"

func assertRect(t *testing.T, label string, got, want Rect) {
	t.Helper()
	assertNear(t, label+".X", got.X, want.X)
	assertNear(t, label+".Y", got.Y, want.Y)
	assertNear(t, label+".Width", got.Width, want.Width)
	assertNear(t, label+".Height", got.Height, want.Height)
}

func TestShapeKindString(t *testing.T) {
	tests := []struct {
		kind ShapeKind
		want string
	}{
		{ShapeBox, "box"},
		{ShapeCircle, "circle"},
		{ShapeRect, "rect"},
		{ShapePolygon, "polygon"},
		{ShapeKind(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ShapeKind(%d) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestShapeSyncsProxy(t *testing.T) {
	c := NewCircleShape(Pt(100, 50), 20)
	assertRect(t, "circle box", c.Surface.Box(), Rect{X: 80, Y: 30, Width: 40, Height: 40})
	if ShapeOf(c.Surface) != c {
		t.Error("ShapeOf does not find the circle")
	}
	if c.Surface.HitShape.Contains(Pt(82, 32)) {
		t.Error("circle hit region includes its bounding-box corner")
	}

	p := NewPolygonShape([]Point{{0, 0}, {40, 0}, {0, 40}})
	assertRect(t, "polygon box", p.Surface.Box(), Rect{Width: 40, Height: 40})
	if p.Surface.HitShape.Contains(Pt(35, 35)) {
		t.Error("triangle hit region includes the far corner")
	}

	if ShapeOf(nil) != nil || ShapeOf(NewSurface("plain")) != nil {
		t.Error("ShapeOf of a non-shape surface")
	}
}

func TestPolygonCopiesPoints(t *testing.T) {
	pts := []Point{{0, 0}, {10, 0}, {0, 10}}
	sh := NewPolygonShape(pts)
	pts[0] = Pt(99, 99)
	if sh.Points[0] != Pt(0, 0) {
		t.Error("polygon aliases the caller's slice")
	}
}

func TestShapeMove(t *testing.T) {
	d := Pt(5, -3)

	c := NewCircleShape(Pt(10, 10), 5)
	c.Move(d)
	assertPoint(t, "circle", c.Center, Pt(15, 7))

	r := NewRectShape(Rect{X: 1, Y: 2, Width: 30, Height: 40})
	r.Move(d)
	assertRect(t, "rect", r.Rect, Rect{X: 6, Y: -1, Width: 30, Height: 40})
	assertRect(t, "rect proxy", r.Surface.Box(), r.Rect)

	p := NewPolygonShape([]Point{{0, 0}, {10, 0}, {0, 10}})
	p.Move(d)
	assertPoint(t, "polygon v2", p.Points[2], Pt(5, 7))

	b := NewBoxShape("marker", Pt(100, 100), Pt(32, 32))
	b.Move(d)
	assertRect(t, "box bounds", b.Bounds(), Rect{X: 105, Y: 97, Width: 32, Height: 32})
}

func TestCircleResizeFloor(t *testing.T) {
	c := NewCircleShape(Pt(0, 0), 30)
	c.Resize(Pt(15, 0))
	assertNear(t, "grow", c.Radius, 45)
	c.Resize(Pt(-1000, 0))
	if c.Radius != MinShapeSize {
		t.Errorf("radius = %v, want exactly %v", c.Radius, MinShapeSize)
	}
	assertRect(t, "proxy", c.Surface.Box(), Rect{X: -10, Y: -10, Width: 20, Height: 20})
}

func TestRectResizeKeepsCenterAndAspect(t *testing.T) {
	r := NewRectShape(Rect{X: 100, Y: 100, Width: 40, Height: 20})
	center := r.Rect.Center()

	r.Resize(Pt(10, 0))
	assertRect(t, "grow", r.Rect, Rect{X: 90, Y: 95, Width: 60, Height: 30})
	assertPoint(t, "center", r.Rect.Center(), center)

	r.Resize(Pt(-1000, 0))
	if r.Rect.Height != MinShapeSize {
		t.Errorf("height = %v, want exactly %v", r.Rect.Height, MinShapeSize)
	}
	assertNear(t, "width keeps aspect", r.Rect.Width, 20)
	assertPoint(t, "center after floor", r.Rect.Center(), center)

	before := r.Rect
	r.Resize(Pt(-5, 0))
	if r.Rect != before {
		t.Errorf("resize at the floor changed the rect: %+v", r.Rect)
	}
}

func TestRectResizeTallUsesWidth(t *testing.T) {
	r := NewRectShape(Rect{Width: 20, Height: 80})
	r.Resize(Pt(-100, 0))
	if r.Rect.Width != MinShapeSize {
		t.Errorf("width = %v, want %v", r.Rect.Width, MinShapeSize)
	}
	assertNear(t, "height", r.Rect.Height, 40)
}

func TestPolygonResize(t *testing.T) {
	p := NewPolygonShape([]Point{{0, 0}, {100, 0}, {0, 50}})
	p.Resize(Pt(10, 0))

	want := []Point{{-20, -10}, {120, -10}, {-20, 60}}
	for i := range want {
		assertPoint(t, "vertex", p.Points[i], want[i])
	}
	assertPoint(t, "center", p.Bounds().Center(), Pt(50, 25))

	flat := NewPolygonShape([]Point{{0, 0}, {10, 0}})
	flat.Resize(Pt(10, 0))
	assertPoint(t, "degenerate untouched", flat.Points[1], Pt(10, 0))
}

func TestBoxDoesNotResize(t *testing.T) {
	b := NewBoxShape("marker", Pt(0, 0), Pt(32, 32))
	b.Resize(Pt(100, 0))
	assertRect(t, "box", b.Bounds(), Rect{Width: 32, Height: 32})
}

func TestMoveEdge(t *testing.T) {
	tests := []struct {
		name  string
		edge  Edge
		delta Point
		want  Rect
	}{
		{"left in", EdgeLeft, Pt(50, 0), Rect{X: 150, Y: 100, Width: 150, Height: 100}},
		{"left floor", EdgeLeft, Pt(1000, 0), Rect{X: 290, Y: 100, Width: 10, Height: 100}},
		{"top out", EdgeTop, Pt(0, -20), Rect{X: 100, Y: 80, Width: 200, Height: 120}},
		{"top floor", EdgeTop, Pt(0, 500), Rect{X: 100, Y: 190, Width: 200, Height: 10}},
		{"right", EdgeRight, Pt(30, 99), Rect{X: 100, Y: 100, Width: 230, Height: 100}},
		{"right floor", EdgeRight, Pt(-500, 0), Rect{X: 100, Y: 100, Width: 10, Height: 100}},
		{"bottom", EdgeBottom, Pt(99, -40), Rect{X: 100, Y: 100, Width: 200, Height: 60}},
		{"bottom floor", EdgeBottom, Pt(0, -500), Rect{X: 100, Y: 100, Width: 200, Height: 10}},
		{"no edge", Edge(0), Pt(10, 10), Rect{X: 100, Y: 100, Width: 200, Height: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRectShape(Rect{X: 100, Y: 100, Width: 200, Height: 100})
			r.MoveEdge(tt.delta, tt.edge)
			assertRect(t, "rect", r.Rect, tt.want)
			assertRect(t, "proxy", r.Surface.Box(), tt.want)
		})
	}

	c := NewCircleShape(Pt(0, 0), 20)
	c.MoveEdge(Pt(10, 0), EdgeRight)
	assertNear(t, "circle untouched", c.Radius, 20)
}

func TestMoveVertex(t *testing.T) {
	p := NewPolygonShape([]Point{{0, 0}, {10, 0}, {0, 10}})
	p.MoveVertex(Pt(5, 5), 1)
	assertPoint(t, "moved", p.Points[1], Pt(15, 5))
	assertRect(t, "proxy", p.Surface.Box(), Rect{Width: 15, Height: 10})

	p.MoveVertex(Pt(5, 5), 3)
	p.MoveVertex(Pt(5, 5), -1)
	assertPoint(t, "others untouched", p.Points[0], Pt(0, 0))

	r := NewRectShape(Rect{Width: 10, Height: 10})
	r.MoveVertex(Pt(5, 5), 0)
	assertRect(t, "rect untouched", r.Rect, Rect{Width: 10, Height: 10})
}
