package mapkit

import "fmt"

// CoordinateSpace converts points between three frames: a child surface's
// local offset frame, the container's local frame, and the global frame.
//
// A child point is measured from the child's origin in container pixels. The
// container point of a child point adds the child's own offset plus the
// offset of every ancestor registered with AddChild. The registry is separate
// from the display tree: it records only which offsets accumulate.
//
// All conversions read live surface geometry and never mutate anything.
type CoordinateSpace struct {
	container *Surface
	parents   map[*Surface]*Surface
}

// NewCoordinateSpace creates a coordinate space for container.
func NewCoordinateSpace(container *Surface) *CoordinateSpace {
	return &CoordinateSpace{
		container: container,
		parents:   make(map[*Surface]*Surface),
	}
}

// Container returns the container surface.
func (cs *CoordinateSpace) Container() *Surface {
	return cs.container
}

// AddChild registers parent as child's ancestor. The first registration
// wins: a child that already has a parent keeps it. A nil parent, a
// self-edge, or an edge that would close a loop is ignored, so the registry
// always stays a forest.
func (cs *CoordinateSpace) AddChild(child, parent *Surface) {
	if child == nil || parent == nil || child == parent {
		return
	}
	if _, ok := cs.parents[child]; ok {
		return
	}
	for p := parent; p != nil; p = cs.parents[p] {
		if p == child {
			return
		}
	}
	cs.parents[child] = parent
}

// Parent returns child's registered parent, or nil.
func (cs *CoordinateSpace) Parent(child *Surface) *Surface {
	return cs.parents[child]
}

// ParentChain returns child's registered ancestors, nearest first. It
// panics if the registry holds a loop, which AddChild never creates.
func (cs *CoordinateSpace) ParentChain(child *Surface) []*Surface {
	var chain []*Surface
	for p := cs.parents[child]; p != nil; p = cs.parents[p] {
		chain = append(chain, p)
		if len(chain) > len(cs.parents) {
			panic(fmt.Sprintf("mapkit: parent chain of %q does not terminate", child.Name))
		}
	}
	return chain
}

// chainOffset sums the local offsets of child and all its registered ancestors.
func (cs *CoordinateSpace) chainOffset(child *Surface) Point {
	offset := child.Position()
	for _, p := range cs.ParentChain(child) {
		offset = offset.Add(p.Position())
	}
	return offset
}

// --- Child frame ---

// ChildPointToContainerPoint adds child's offset and every registered
// ancestor's offset to p.
func (cs *CoordinateSpace) ChildPointToContainerPoint(child *Surface, p Point) Point {
	return p.Add(cs.chainOffset(child))
}

// ContainerPointToChildPoint is the inverse of ChildPointToContainerPoint.
func (cs *CoordinateSpace) ContainerPointToChildPoint(child *Surface, p Point) Point {
	return p.Sub(cs.chainOffset(child))
}

// ChildPointToGlobalPoint composes ChildPointToContainerPoint and
// ContainerPointToGlobalPoint.
func (cs *CoordinateSpace) ChildPointToGlobalPoint(child *Surface, p Point) Point {
	return cs.ContainerPointToGlobalPoint(cs.ChildPointToContainerPoint(child, p))
}

// GlobalPointToChildPoint composes GlobalPointToContainerPoint and
// ContainerPointToChildPoint; it is the exact inverse of
// ChildPointToGlobalPoint.
func (cs *CoordinateSpace) GlobalPointToChildPoint(child *Surface, p Point) Point {
	return cs.ContainerPointToChildPoint(child, cs.GlobalPointToContainerPoint(p))
}

// ChildPercentagesToChildPoint scales a [0,1]×[0,1] fraction by the child's
// rendered size. The child must be laid out (non-zero size).
func (cs *CoordinateSpace) ChildPercentagesToChildPoint(child *Surface, pct Point) Point {
	b := child.Bounds()
	return Point{X: pct.X * b.Width, Y: pct.Y * b.Height}
}

// ChildPointToChildPercentages divides p by the child's rendered size. A
// zero-size child yields non-finite components.
func (cs *CoordinateSpace) ChildPointToChildPercentages(child *Surface, p Point) Point {
	b := child.Bounds()
	return Point{X: p.X / b.Width, Y: p.Y / b.Height}
}

// --- Container frame ---

// ContainerPointToGlobalPoint adds the container's current global origin.
func (cs *CoordinateSpace) ContainerPointToGlobalPoint(p Point) Point {
	return p.Add(cs.container.Bounds().Min())
}

// GlobalPointToContainerPoint subtracts the container's current global
// origin. For the same container geometry it is the exact inverse of
// ContainerPointToGlobalPoint.
func (cs *CoordinateSpace) GlobalPointToContainerPoint(p Point) Point {
	return p.Sub(cs.container.Bounds().Min())
}

// ContainerPercentagesToContainerPoint scales a fraction by the container's
// rendered size.
func (cs *CoordinateSpace) ContainerPercentagesToContainerPoint(pct Point) Point {
	b := cs.container.Bounds()
	return Point{X: pct.X * b.Width, Y: pct.Y * b.Height}
}

// ContainerPointToContainerPercentages divides p by the container's
// rendered size.
func (cs *CoordinateSpace) ContainerPointToContainerPercentages(p Point) Point {
	b := cs.container.Bounds()
	return Point{X: p.X / b.Width, Y: p.Y / b.Height}
}

// --- Deltas ---

func (cs *CoordinateSpace) containerCenter() Point {
	return cs.ContainerPercentagesToContainerPoint(Pt(0.5, 0.5))
}

// DeltaChildCenterToContainerCenter returns the translation that would move
// the child's rendered center onto the container's center.
func (cs *CoordinateSpace) DeltaChildCenterToContainerCenter(child *Surface) Point {
	center := cs.ChildPercentagesToChildPoint(child, Pt(0.5, 0.5))
	return Delta(cs.ChildPointToContainerPoint(child, center), cs.containerCenter())
}

// DeltaChildPointToContainerCenter returns the translation that would move
// the child point p onto the container's center.
func (cs *CoordinateSpace) DeltaChildPointToContainerCenter(child *Surface, p Point) Point {
	return Delta(cs.ChildPointToContainerPoint(child, p), cs.containerCenter())
}

// DeltaGlobalPointToContainerCenter returns the translation that would move
// the global point p onto the container's center.
func (cs *CoordinateSpace) DeltaGlobalPointToContainerCenter(p Point) Point {
	return cs.DeltaGlobalPointToContainerPoint(p, cs.containerCenter())
}

// DeltaGlobalPointToContainerPoint returns the translation from the global
// point g to the container point c.
func (cs *CoordinateSpace) DeltaGlobalPointToContainerPoint(g, c Point) Point {
	return Delta(g, cs.ContainerPointToGlobalPoint(c))
}
