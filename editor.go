package mapkit

// HandleSize is the side length of an editor handle in container pixels.
const HandleSize = 30

// Handle is a draggable square the editor shows around the selected shape.
// It owns a gesture recognizer while shown; pointer-downs on it stop
// propagating so the map underneath does not pan.
type Handle struct {
	Surface *Surface

	scene   *Scene
	layer   *Surface
	dispose func()
}

func newHandle(scene *Scene, layer *Surface) *Handle {
	s := NewSurface("handle")
	s.SetSize(HandleSize, HandleSize)
	return &Handle{Surface: s, scene: scene, layer: layer}
}

// Shown reports whether the handle is attached to its layer.
func (h *Handle) Shown() bool {
	return h.dispose != nil
}

// Position returns the handle's top-left in container coordinates.
func (h *Handle) Position() Point {
	return h.Surface.Position()
}

func (h *Handle) show(onDrag func(delta Point)) {
	h.hide()
	h.layer.AddChild(h.Surface)
	h.dispose = SetupGestures(h.scene, h.Surface, GestureListeners{
		OnPointerDown: func(ev *PointerEvent, _ Point) {
			ev.StopPropagation()
		},
		OnDrag: func(ev *PointerEvent, delta Point) {
			ev.StopPropagation()
			onDrag(delta)
		},
	})
}

func (h *Handle) hide() {
	h.Surface.Remove()
	if h.dispose != nil {
		h.dispose()
		h.dispose = nil
	}
}

func (h *Handle) place(p Point) {
	h.Surface.SetPosition(p)
}

// Editor is the admin editing mode: it keeps at most one selected shape and
// turns screen-space handle drags into edits of that shape's geometry.
//
// Handle 0 moves boxes and resizes every other kind. Rects get one handle
// per edge (1 left, 2 top, 3 right, 4 bottom); polygons one per vertex
// (1..n). Handles live in container coordinates on handleLayer; shapes live
// in the element layer, whose coordinate space maps between the two.
type Editor struct {
	scene        *Scene
	handleLayer  *Surface
	elementLayer *Surface
	space        *CoordinateSpace

	active    *Shape
	handles   []*Handle
	viewScale float64
}

// NewEditor creates an editor. A nil space creates one rooted at
// elementLayer.
func NewEditor(scene *Scene, handleLayer, elementLayer *Surface, space *CoordinateSpace) *Editor {
	if space == nil {
		space = NewCoordinateSpace(elementLayer)
	}
	e := &Editor{
		scene:        scene,
		handleLayer:  handleLayer,
		elementLayer: elementLayer,
		space:        space,
		viewScale:    1,
	}
	e.handles = append(e.handles, newHandle(scene, handleLayer))
	return e
}

// SetViewScale tells the editor the map's current scale so that screen
// deltas can be converted to shape units.
func (e *Editor) SetViewScale(scale float64) {
	if finite(scale) && scale > 0 {
		e.viewScale = scale
	}
}

// ViewScale returns the last scale passed to SetViewScale.
func (e *Editor) ViewScale() float64 {
	return e.viewScale
}

// Selected returns the selected shape, or nil.
func (e *Editor) Selected() *Shape {
	return e.active
}

// IsSelected reports whether sh is the selected shape.
func (e *Editor) IsSelected(sh *Shape) bool {
	return sh != nil && e.active == sh
}

// SelectedBounds returns the global bounding box of the selected shape.
func (e *Editor) SelectedBounds() (Rect, bool) {
	if e.active == nil {
		return Rect{}, false
	}
	return e.active.Surface.Bounds(), true
}

// Deselect clears the selection, hides all handles and returns the
// previously selected shape.
func (e *Editor) Deselect() *Shape {
	prev := e.active
	if prev != nil {
		prev.Selected = false
	}
	e.active = nil
	for _, h := range e.handles {
		h.hide()
	}
	return prev
}

// Select makes sh the selected shape, raises it above its siblings and shows
// its handles. Selecting the selected shape again deselects it.
func (e *Editor) Select(sh *Shape) {
	if e.Deselect() == sh || sh == nil {
		return
	}
	e.active = sh
	e.space.AddChild(sh.Surface, e.elementLayer)
	sh.Selected = true
	sh.Surface.BringToFront()
	e.showHandles()
}

// Handles returns the handles currently shown.
func (e *Editor) Handles() []*Handle {
	var shown []*Handle
	for _, h := range e.handles {
		if h.Shown() {
			shown = append(shown, h)
		}
	}
	return shown
}

func (e *Editor) ensureHandles(n int) {
	for len(e.handles) < n {
		e.handles = append(e.handles, newHandle(e.scene, e.handleLayer))
	}
}

func (e *Editor) showHandles() {
	sh := e.active
	switch sh.Kind {
	case ShapeBox:
		e.handles[0].show(e.MoveSelectedBy)
	case ShapeCircle:
		e.handles[0].show(e.ResizeSelectedBy)
	case ShapeRect:
		e.handles[0].show(e.ResizeSelectedBy)
		e.ensureHandles(5)
		for i := 1; i <= 4; i++ {
			edge := Edge(i)
			e.handles[i].show(func(delta Point) { e.MoveEdgeBy(delta, edge) })
		}
	case ShapePolygon:
		e.handles[0].show(e.ResizeSelectedBy)
		e.ensureHandles(1 + len(sh.Points))
		for i := range sh.Points {
			vertex := i
			e.handles[1+i].show(func(delta Point) { e.MoveVertexBy(delta, vertex) })
		}
	}
	e.UpdateHandles()
}

// toShapeUnits converts a screen delta into the selected shape's units.
func (e *Editor) toShapeUnits(delta Point) Point {
	return delta.Scale(1 / e.viewScale)
}

// MoveSelectedBy translates the selected shape by a screen delta.
func (e *Editor) MoveSelectedBy(delta Point) {
	if e.active == nil {
		return
	}
	e.active.Move(e.toShapeUnits(delta))
	e.UpdateHandles()
}

// ResizeSelectedBy resizes the selected shape by a screen delta.
func (e *Editor) ResizeSelectedBy(delta Point) {
	if e.active == nil {
		return
	}
	e.active.Resize(e.toShapeUnits(delta))
	e.UpdateHandles()
}

// MoveEdgeBy drags one edge of the selected rect by a screen delta.
func (e *Editor) MoveEdgeBy(delta Point, edge Edge) {
	if e.active == nil {
		return
	}
	e.active.MoveEdge(e.toShapeUnits(delta), edge)
	e.UpdateHandles()
}

// MoveVertexBy drags vertex i of the selected polygon by a screen delta.
func (e *Editor) MoveVertexBy(delta Point, i int) {
	if e.active == nil {
		return
	}
	e.active.MoveVertex(e.toShapeUnits(delta), i)
	e.UpdateHandles()
}

// UpdateHandles repositions the shown handles to follow the selected
// shape's current geometry and the view.
func (e *Editor) UpdateHandles() {
	sh := e.active
	if sh == nil {
		return
	}
	e.updateSizeHandle()

	const half = HandleSize / 2.0
	switch sh.Kind {
	case ShapeRect:
		p := e.space.ChildPointToContainerPoint(sh.Surface, sh.Rect.Min().Scale(e.viewScale))
		size := sh.Rect.Size().Scale(e.viewScale)
		e.handles[1].place(Pt(p.X-half, p.Y+(size.Y-HandleSize)/2))
		e.handles[2].place(Pt(p.X+(size.X-HandleSize)/2, p.Y-half))
		e.handles[3].place(Pt(p.X+size.X-half, p.Y+(size.Y-HandleSize)/2))
		e.handles[4].place(Pt(p.X+(size.X-HandleSize)/2, p.Y+size.Y-half))
	case ShapePolygon:
		for i, v := range sh.Points {
			p := e.space.ChildPointToContainerPoint(sh.Surface, v.Scale(e.viewScale))
			e.handles[1+i].place(Pt(p.X-half, p.Y-half))
		}
	}
}

// updateSizeHandle parks handle 0 one handle-width to the right of the
// selected shape, vertically centered.
func (e *Editor) updateSizeHandle() {
	r, ok := e.SelectedBounds()
	if !ok {
		return
	}
	g := Pt(r.X+r.Width+HandleSize, r.Y+r.Height/2-HandleSize/2.0)
	e.handles[0].place(e.space.GlobalPointToContainerPoint(g))
}
