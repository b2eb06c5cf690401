package mapkit

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultZoomDelta is the ZoomIn/ZoomOut step when neither ZoomDelta nor
// ZoomDeltaFunc is set.
const DefaultZoomDelta = 0.5

// ZoomOptions configures a ZoomController. Zero values select the defaults
// noted on each field.
type ZoomOptions struct {
	// EnableEdgeClamping keeps the scaled child from exposing empty space
	// inside the container. Default false.
	EnableEdgeClamping bool
	// ZoomMin is the lowest scale zoom operations produce. Default 0.1.
	ZoomMin float64
	// ZoomMax is the highest scale zoom operations produce. Default 2.
	ZoomMax float64
	// ZoomDelta is the scale step of one ZoomIn or ZoomOut. Default 0.5.
	ZoomDelta float64
	// ZoomDeltaFunc, when set, overrides ZoomDelta with a step computed
	// from the current scale.
	ZoomDeltaFunc func(scale float64) float64
}

func (o ZoomOptions) withDefaults() ZoomOptions {
	if o.ZoomMin <= 0 {
		o.ZoomMin = 0.1
	}
	if o.ZoomMax <= 0 {
		o.ZoomMax = 2
	}
	if o.ZoomMax < o.ZoomMin {
		o.ZoomMax = o.ZoomMin
	}
	if o.ZoomDelta == 0 {
		o.ZoomDelta = DefaultZoomDelta
	}
	return o
}

// ZoomCurve parameterizes ExponentialZoomCurve.
type ZoomCurve struct {
	Base      float64 `yaml:"base"`
	InputMin  float64 `yaml:"input_min"`
	InputMax  float64 `yaml:"input_max"`
	OutputMin float64 `yaml:"output_min"`
	OutputMax float64 `yaml:"output_max"`
}

// DefaultZoomCurve steps by 0.01 at scale 0.1, growing to 0.5 at scale 2,
// so each step changes the apparent size by a similar proportion.
func DefaultZoomCurve() ZoomCurve {
	return ZoomCurve{Base: 0.5, InputMin: 0.1, InputMax: 2, OutputMin: 0.01, OutputMax: 0.5}
}

// ExponentialZoomCurve returns a ZoomDeltaFunc that maps base^scale
// linearly from [base^InputMin, base^InputMax] onto [OutputMin, OutputMax],
// never returning less than OutputMin.
func ExponentialZoomCurve(c ZoomCurve) func(scale float64) float64 {
	lo := math.Pow(c.Base, c.InputMin)
	hi := math.Pow(c.Base, c.InputMax)
	span := hi - lo
	return func(scale float64) float64 {
		if span == 0 {
			return c.OutputMin
		}
		step := c.OutputMin + (c.OutputMax-c.OutputMin)*(math.Pow(c.Base, scale)-lo)/span
		return finiteOr(math.Max(c.OutputMin, step), c.OutputMin)
	}
}

// ClickFunc receives clicks on the container. Calling consume marks the
// click as handled.
type ClickFunc func(ev *PointerEvent, p Point, consume func())

// DragFunc receives drags on the container. Calling consume suppresses the
// controller's default pan for this delta.
type DragFunc func(ev *PointerEvent, delta Point, consume func())

// TransformFunc receives every view change with the clamped values that
// were applied.
type TransformFunc func(scale float64, p Point)

// zoomAnim holds active tweens for an AnimateTo.
type zoomAnim struct {
	scale, x, y *gween.Tween
}

// ZoomController owns the view transform of one child surface inside its
// container: pan, zoom about an anchor, clamping and resize recentering.
// The child's style (left, top, scale) is the single source of truth; every
// change goes through SetTransform.
type ZoomController struct {
	scene     *Scene
	container *Surface
	child     *Surface
	space     *CoordinateSpace
	opts      ZoomOptions

	// childSize is the child's unscaled extent, used for clamping.
	childSize Point
	// containerSize is the last observed container size, used to recenter
	// on resize.
	containerSize Point

	onClick     ClickFunc
	onDrag      DragFunc
	onTransform TransformFunc
	store       EventStore

	inTransform bool
	pending     *AffineView

	anim *zoomAnim

	clearGestures func()
	resizeHandle  ListenerHandle
}

// NewZoomController creates a controller for child inside container, with a
// new coordinate space rooted at the container, and starts tracking scene
// resizes. The child's box must already be sized.
func NewZoomController(scene *Scene, container, child *Surface, opts ZoomOptions) *ZoomController {
	z := &ZoomController{
		scene:     scene,
		container: container,
		child:     child,
		space:     NewCoordinateSpace(container),
		opts:      opts.withDefaults(),
	}
	z.childSize = child.Box().Size()
	z.containerSize = container.Bounds().Size()
	z.resizeHandle = scene.OnResize(func(float64, float64) {
		z.ContainerResized()
	})
	return z
}

// CoordinateSpace returns the controller's coordinate space.
func (z *ZoomController) CoordinateSpace() *CoordinateSpace {
	return z.space
}

// Options returns the effective options.
func (z *ZoomController) Options() ZoomOptions {
	return z.opts
}

// Container returns the container surface.
func (z *ZoomController) Container() *Surface { return z.container }

// Child returns the zoomed child surface.
func (z *ZoomController) Child() *Surface { return z.child }

// SetClickListener sets the click listener. Pass nil to clear.
func (z *ZoomController) SetClickListener(fn ClickFunc) { z.onClick = fn }

// SetDragListener sets the drag listener. Pass nil to clear.
func (z *ZoomController) SetDragListener(fn DragFunc) { z.onDrag = fn }

// SetTransformListener sets the transform-changed listener. Pass nil to clear.
func (z *ZoomController) SetTransformListener(fn TransformFunc) { z.onTransform = fn }

// SetEventStore routes interaction events to store. Pass nil to stop.
func (z *ZoomController) SetEventStore(store EventStore) { z.store = store }

func (z *ZoomController) publish(ev MapEvent) {
	if z.store != nil {
		z.store.Publish(ev)
	}
}

// --- Reading the view ---

// Scale returns the child's current scale.
func (z *ZoomController) Scale() float64 {
	return z.child.Scale()
}

// Position returns the child's current offset in the container.
func (z *ZoomController) Position() Point {
	return z.child.Position()
}

// Transform returns the current view.
func (z *ZoomController) Transform() AffineView {
	return AffineView{Scale: z.Scale(), Point: z.Position()}
}

func (z *ZoomController) clampScale(scale float64) float64 {
	return clamp(finiteOr(scale, z.opts.ZoomMin), z.opts.ZoomMin, z.opts.ZoomMax)
}

// ClampCoordinates applies the edge-clamping policy to an offset for the
// given scale. With clamping disabled p is returned unchanged. Otherwise,
// per axis, a child larger than the container is kept within
// [container-child, 0] and a smaller child is centered.
func (z *ZoomController) ClampCoordinates(scale float64, p Point) Point {
	if !z.opts.EnableEdgeClamping {
		return p
	}
	c := z.container.Bounds()
	return Point{
		X: clampAxis(p.X, c.Width, z.childSize.X*scale),
		Y: clampAxis(p.Y, c.Height, z.childSize.Y*scale),
	}
}

func clampAxis(offset, container, child float64) float64 {
	if child > container {
		return math.Min(0, math.Max(offset, container-child))
	}
	return 0.5 * (container - child)
}

// --- Mutation ---

// SetTransform clamps p, writes the result and scale onto the child, and
// notifies the transform listener with the applied values. A scale that is
// not a positive finite number is ignored in favor of the current one, and
// non-finite coordinates become 0. Calls made from
// inside the listener are applied after it returns, last one winning.
func (z *ZoomController) SetTransform(scale float64, p Point) {
	if z.inTransform {
		z.pending = &AffineView{Scale: scale, Point: p}
		return
	}
	next := &AffineView{Scale: scale, Point: p}
	for next != nil {
		z.pending = nil
		z.applyTransform(next.Scale, next.Point)
		next = z.pending
	}
}

func (z *ZoomController) applyTransform(scale float64, p Point) {
	if !finite(scale) || scale <= 0 {
		scale = z.Scale()
		if !finite(scale) || scale <= 0 {
			scale = 1
		}
	}
	p = Point{X: finiteOr(p.X, 0), Y: finiteOr(p.Y, 0)}
	p = z.ClampCoordinates(scale, p)
	z.child.SetPosition(p)
	z.child.SetScale(scale)

	z.publish(MapEvent{Kind: MapTransform, Point: p, Scale: scale})
	if z.onTransform == nil {
		return
	}
	z.inTransform = true
	defer func() { z.inTransform = false }()
	z.onTransform(scale, p)
}

// ZoomTo changes the scale to newScale, clamped to the zoom bounds, while
// keeping the content under the global point anchor fixed on screen.
func (z *ZoomController) ZoomTo(newScale float64, anchor Point) {
	scale := z.Scale()
	pos := z.Position()
	newScale = z.clampScale(newScale)

	childPoint := z.space.GlobalPointToChildPoint(z.child, anchor)
	scaled := childPoint.Scale(newScale / scale)
	moved := z.space.ChildPointToGlobalPoint(z.child, scaled)

	z.SetTransform(newScale, pos.Add(Delta(moved, anchor)))
}

func (z *ZoomController) zoomStep() float64 {
	if z.opts.ZoomDeltaFunc != nil {
		return z.opts.ZoomDeltaFunc(z.Scale())
	}
	return z.opts.ZoomDelta
}

// ZoomIn zooms in one step about anchor.
func (z *ZoomController) ZoomIn(anchor Point) {
	z.ZoomTo(z.clampScale(z.Scale()+z.zoomStep()), anchor)
}

// ZoomOut zooms out one step about anchor.
func (z *ZoomController) ZoomOut(anchor Point) {
	z.ZoomTo(z.clampScale(z.Scale()-z.zoomStep()), anchor)
}

// MoveDelta translates the view by delta.
func (z *ZoomController) MoveDelta(delta Point) {
	z.SetTransform(z.Scale(), z.Position().Add(delta))
}

// MoveTo sets the view offset to p.
func (z *ZoomController) MoveTo(p Point) {
	z.SetTransform(z.Scale(), p)
}

// SetPosition is an alias of MoveTo.
func (z *ZoomController) SetPosition(p Point) {
	z.MoveTo(p)
}

// SetScale sets the scale, clamped to the zoom bounds, keeping the offset.
func (z *ZoomController) SetScale(scale float64) {
	z.SetTransform(z.clampScale(scale), z.Position())
}

// CenterChild translates the view so the child's rendered center sits at
// the container's center.
func (z *ZoomController) CenterChild() {
	z.MoveDelta(z.space.DeltaChildCenterToContainerCenter(z.child))
}

// ContainerResized recenters the view by half the change in container size
// since the last call, so the visual center stays fixed. The controller
// calls it on every scene resize; call it directly after resizing the
// container any other way.
func (z *ZoomController) ContainerResized() {
	size := z.container.Bounds().Size()
	if size == z.containerSize {
		return
	}
	oldCenter := z.containerSize.Scale(0.5)
	z.containerSize = size
	z.MoveDelta(Delta(oldCenter, size.Scale(0.5)))
}

// Restore applies saved settings, or the default view (minimum scale,
// centered) when s is nil.
func (z *ZoomController) Restore(s *Settings) {
	if s == nil {
		z.SetScale(z.opts.ZoomMin)
		z.CenterChild()
		return
	}
	z.SetTransform(z.clampScale(s.Scale), s.Point)
}

// Settings returns the current view as a persistable value.
func (z *ZoomController) Settings() Settings {
	return Settings{Scale: z.Scale(), Point: z.Position()}
}

// --- Animation ---

// AnimateTo tweens the view to scale and p over duration seconds. Each
// Update step goes through SetTransform. A nil easing function is linear.
// User pans and zooms cancel the animation.
func (z *ZoomController) AnimateTo(scale float64, p Point, duration float32, fn ease.TweenFunc) {
	if fn == nil {
		fn = ease.Linear
	}
	scale = z.clampScale(scale)
	if duration <= 0 {
		z.SetTransform(scale, p)
		return
	}
	cur := z.Transform()
	z.anim = &zoomAnim{
		scale: gween.New(float32(cur.Scale), float32(scale), duration, fn),
		x:     gween.New(float32(cur.Point.X), float32(p.X), duration, fn),
		y:     gween.New(float32(cur.Point.Y), float32(p.Y), duration, fn),
	}
}

// Animating reports whether an AnimateTo is in progress.
func (z *ZoomController) Animating() bool {
	return z.anim != nil
}

// StopAnimation cancels an AnimateTo, leaving the view where it is.
func (z *ZoomController) StopAnimation() {
	z.anim = nil
}

// Update advances any running animation by dt seconds.
func (z *ZoomController) Update(dt float32) {
	a := z.anim
	if a == nil {
		return
	}
	s, doneS := a.scale.Update(dt)
	x, doneX := a.x.Update(dt)
	y, doneY := a.y.Update(dt)
	if doneS && doneX && doneY {
		z.anim = nil
	}
	z.SetTransform(float64(s), Pt(float64(x), float64(y)))
}

// --- Events ---

// SetupEvents attaches a gesture recognizer to the container and wires it
// to the controller's default behavior. Calling it again replaces the
// previous wiring.
func (z *ZoomController) SetupEvents() {
	z.ClearEvents()
	z.clearGestures = SetupGestures(z.scene, z.container, GestureListeners{
		OnClick:       z.handleClick,
		OnContextMenu: func(ev *PointerEvent) { ev.PreventDefault() },
		OnDrag:        z.handleDrag,
		OnMiddleDown:  z.handleMiddleDown,
		OnPinch:       z.handlePinch,
		OnScroll:      z.handleScroll,
	})
}

// ClearEvents detaches the wiring made by SetupEvents.
func (z *ZoomController) ClearEvents() {
	if z.clearGestures != nil {
		z.clearGestures()
		z.clearGestures = nil
	}
}

// Dispose detaches all event wiring, including the resize listener.
func (z *ZoomController) Dispose() {
	z.ClearEvents()
	z.resizeHandle.Remove()
	z.anim = nil
}

func (z *ZoomController) handleClick(ev *PointerEvent, p Point) {
	z.publish(MapEvent{Kind: MapClick, Point: p, Target: ev.Target, Scale: z.Scale()})
	if z.onClick != nil {
		z.onClick(ev, p, func() {})
	}
}

func (z *ZoomController) handleDrag(ev *PointerEvent, delta Point) {
	ev.PreventDefault()
	z.publish(MapEvent{Kind: MapDrag, Point: ev.Global, Delta: delta, Target: ev.Target, Scale: z.Scale()})
	consumed := false
	if z.onDrag != nil {
		z.onDrag(ev, delta, func() { consumed = true })
	}
	if !consumed {
		z.StopAnimation()
		z.MoveDelta(delta)
	}
}

func (z *ZoomController) handleMiddleDown(ev *PointerEvent, p Point) {
	ev.PreventDefault()
	z.StopAnimation()
	z.MoveDelta(z.space.DeltaGlobalPointToContainerCenter(p))
}

func (z *ZoomController) handlePinch(ev *PointerEvent, delta float64, center Point) {
	ev.PreventDefault()
	z.publish(MapEvent{Kind: MapPinch, Point: center, Amount: delta, Target: ev.Target, Scale: z.Scale()})
	if delta < -1 || delta > 1 {
		z.StopAnimation()
		z.ZoomTo(z.Scale()+delta/500, center)
	}
}

func (z *ZoomController) handleScroll(ev *PointerEvent, delta float64, p Point) {
	ev.PreventDefault()
	z.publish(MapEvent{Kind: MapScroll, Point: p, Amount: delta, Target: ev.Target, Scale: z.Scale()})
	switch {
	case delta < 0:
		z.StopAnimation()
		z.ZoomIn(p)
	case delta > 0:
		z.StopAnimation()
		z.ZoomOut(p)
	}
}
