package mapkit

import (
	"fmt"
	"math"
	"testing"
)

// newMapTree builds root > container(offset) > child, with the container
// sized cw×ch and the child sized w×h.
func newMapTree(containerPos Point, cw, ch, w, h float64) (*Scene, *Surface, *Surface) {
	scene := NewScene()
	container := NewSurface("container")
	container.SetPosition(containerPos)
	container.SetSize(cw, ch)
	scene.Root().AddChild(container)
	child := NewSurface("child")
	child.SetSize(w, h)
	container.AddChild(child)
	return scene, container, child
}

func TestContainerGlobalInverse(t *testing.T) {
	_, container, _ := newMapTree(Pt(37, 91), 800, 600, 1000, 1000)
	cs := NewCoordinateSpace(container)

	for _, p := range []Point{{0, 0}, {-120.25, 33}, {800, 600}, {1e6, -1e6}} {
		assertPoint(t, "g->c->g", cs.ContainerPointToGlobalPoint(cs.GlobalPointToContainerPoint(p)), p)
		assertPoint(t, "c->g->c", cs.GlobalPointToContainerPoint(cs.ContainerPointToGlobalPoint(p)), p)
	}
	assertPoint(t, "origin", cs.ContainerPointToGlobalPoint(Pt(0, 0)), Pt(37, 91))
}

func TestContainerOriginReadLive(t *testing.T) {
	_, container, _ := newMapTree(Pt(10, 10), 800, 600, 100, 100)
	cs := NewCoordinateSpace(container)
	container.SetPosition(Pt(50, 60))
	assertPoint(t, "after move", cs.GlobalPointToContainerPoint(Pt(50, 60)), Pt(0, 0))
}

func TestChildPointConversions(t *testing.T) {
	_, container, child := newMapTree(Pt(20, 30), 800, 600, 1000, 1000)
	child.SetPosition(Pt(-100, 40))
	cs := NewCoordinateSpace(container)

	assertPoint(t, "child->container", cs.ChildPointToContainerPoint(child, Pt(5, 5)), Pt(-95, 45))
	assertPoint(t, "container->child", cs.ContainerPointToChildPoint(child, Pt(-95, 45)), Pt(5, 5))
	assertPoint(t, "child->global", cs.ChildPointToGlobalPoint(child, Pt(5, 5)), Pt(-75, 75))

	for _, p := range []Point{{0, 0}, {13, -7.5}, {999, 999}} {
		assertPoint(t, "child roundtrip", cs.GlobalPointToChildPoint(child, cs.ChildPointToGlobalPoint(child, p)), p)
	}
}

func TestParentChainAccumulatesOffsets(t *testing.T) {
	_, container, child := newMapTree(Pt(0, 0), 800, 600, 1000, 1000)
	child.SetPosition(Pt(100, 200))
	layer := NewSurface("layer")
	layer.SetPosition(Pt(10, 20))
	shape := NewSurface("shape")
	shape.SetPosition(Pt(1, 2))

	cs := NewCoordinateSpace(container)
	cs.AddChild(layer, child)
	cs.AddChild(shape, layer)

	chain := cs.ParentChain(shape)
	if len(chain) != 2 || chain[0] != layer || chain[1] != child {
		t.Fatalf("ParentChain = %v, want [layer child]", chain)
	}
	assertPoint(t, "shape->container", cs.ChildPointToContainerPoint(shape, Pt(0, 0)), Pt(111, 222))
}

func TestAddChildFirstWriteWins(t *testing.T) {
	cs := NewCoordinateSpace(NewSurface("container"))
	a, b, c := NewSurface("a"), NewSurface("b"), NewSurface("c")
	cs.AddChild(c, a)
	cs.AddChild(c, b)
	if cs.Parent(c) != a {
		t.Error("second registration must not overwrite the first")
	}
	cs.AddChild(b, nil)
	if cs.Parent(b) != nil {
		t.Error("nil parent registers nothing")
	}
}

func TestRegistryNeverCycles(t *testing.T) {
	cs := NewCoordinateSpace(NewSurface("container"))
	a, b, c := NewSurface("a"), NewSurface("b"), NewSurface("c")

	cs.AddChild(a, a)
	if cs.Parent(a) != nil {
		t.Error("self edge accepted")
	}

	cs.AddChild(b, a)
	cs.AddChild(c, b)
	cs.AddChild(a, c) // would close a→c→b→a
	if cs.Parent(a) != nil {
		t.Error("cycle-closing edge accepted")
	}
	for _, s := range []*Surface{a, b, c} {
		if n := len(cs.ParentChain(s)); n > 2 {
			t.Errorf("chain of %s has %d entries", s.Name, n)
		}
	}
}

func TestPercentages(t *testing.T) {
	_, container, child := newMapTree(Pt(0, 0), 800, 600, 1000, 500)
	child.SetScale(0.5)
	cs := NewCoordinateSpace(container)

	assertPoint(t, "child pct->pt", cs.ChildPercentagesToChildPoint(child, Pt(0.5, 1)), Pt(250, 250))
	assertPoint(t, "child pt->pct", cs.ChildPointToChildPercentages(child, Pt(250, 250)), Pt(0.5, 1))
	assertPoint(t, "container pct->pt", cs.ContainerPercentagesToContainerPoint(Pt(0.25, 0.5)), Pt(200, 300))
	assertPoint(t, "container pt->pct", cs.ContainerPointToContainerPercentages(Pt(200, 300)), Pt(0.25, 0.5))
}

func TestPercentagesZeroSizeNotRecovered(t *testing.T) {
	_, container, child := newMapTree(Pt(0, 0), 800, 600, 0, 0)
	cs := NewCoordinateSpace(container)
	got := cs.ChildPointToChildPercentages(child, Pt(1, 1))
	if !math.IsInf(got.X, 1) || !math.IsInf(got.Y, 1) {
		t.Errorf("zero-size child = %v, want +Inf", got)
	}
}

func TestDeltas(t *testing.T) {
	_, container, child := newMapTree(Pt(100, 50), 800, 600, 1000, 1000)
	child.SetScale(0.1)
	cs := NewCoordinateSpace(container)

	// Rendered child is 100×100 at (0,0); its center (50,50) must move to (400,300).
	assertPoint(t, "child center", cs.DeltaChildCenterToContainerCenter(child), Pt(350, 250))
	assertPoint(t, "child point", cs.DeltaChildPointToContainerCenter(child, Pt(0, 0)), Pt(400, 300))
	assertPoint(t, "global point", cs.DeltaGlobalPointToContainerCenter(Pt(100, 50)), Pt(400, 300))
	assertPoint(t, "global to container point", cs.DeltaGlobalPointToContainerPoint(Pt(100, 50), Pt(10, 20)), Pt(10, 20))
}

func TestParentChainDeepAndLooping(t *testing.T) {
	cs := NewCoordinateSpace(NewSurface("container"))
	surfaces := make([]*Surface, 2000)
	for i := range surfaces {
		surfaces[i] = NewSurface(fmt.Sprintf("s%d", i))
		if i > 0 {
			cs.AddChild(surfaces[i], surfaces[i-1])
		}
	}
	if got := len(cs.ParentChain(surfaces[len(surfaces)-1])); got != len(surfaces)-1 {
		t.Fatalf("deep chain length = %d, want %d", got, len(surfaces)-1)
	}

	a, b := NewSurface("a"), NewSurface("b")
	looped := NewCoordinateSpace(NewSurface("container"))
	looped.parents[a] = b
	looped.parents[b] = a
	defer func() {
		if recover() == nil {
			t.Error("a looping registry should panic instead of walking forever")
		}
	}()
	looped.ParentChain(a)
}
