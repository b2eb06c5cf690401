package mapkit

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Tooltip sizing, in map units.
const (
	tooltipPadding    = 8
	tooltipLineHeight = 16
	tooltipCharWidth  = 6
	tooltipMinWidth   = 120
)

// ViewerOptions configures a Viewer.
type ViewerOptions struct {
	// Admin enables the shape editor and saving.
	Admin bool
	// Width and Height are the initial window size.
	Width, Height int
	// MapSize is the unscaled size of the map.
	MapSize Point
	// MapImage is drawn as the map background when set; otherwise a grid is
	// drawn.
	MapImage *ebiten.Image
	// InitialScale is the scale of the default view, used when Settings is
	// nil. Zero means Zoom.ZoomMin.
	InitialScale float64
	Zoom         ZoomOptions
	// RulerThickness is the unscaled thickness of the ruler strips.
	RulerThickness float64
	// Settings is the last saved view, or nil.
	Settings *Settings
	// OnSettingsChanged receives every view change for persistence.
	OnSettingsChanged func(Settings)
	// OnSave is called in admin mode when the user saves (Ctrl+S) with the
	// highlight markup and marker listing.
	OnSave func(highlights string, markers []byte) error
	// ScreenshotDir receives screenshots taken with F12.
	ScreenshotDir string
	// EventStore, when set, receives map interaction events.
	EventStore EventStore
	// ShowStatus draws the scale and FPS in the bottom-left corner.
	ShowStatus bool
	Logger     *slog.Logger
}

// Viewer is an interactive map: a zoomable map surface with highlight and
// marker overlays, rulers and, in admin mode, the shape editor. It
// implements ebiten.Game.
type Viewer struct {
	opts ViewerOptions
	log  *slog.Logger

	scene          *Scene
	container      *Surface
	child          *Surface
	highlightLayer *Surface
	markerLayer    *Surface
	tooltipLayer   *Surface
	handleLayer    *Surface

	zoom     *ZoomController
	overlays *Overlays
	editor   *Editor
	layout   Layout

	tooltips map[*Marker]*Surface

	screenshotQueue []string
	render          renderState
}

// NewViewer builds the surface tree, the zoom controller and, in admin
// mode, the editor, then restores the saved view.
func NewViewer(opts ViewerOptions) *Viewer {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ScreenshotDir == "" {
		opts.ScreenshotDir = "screenshots"
	}
	v := &Viewer{
		opts:     opts,
		log:      opts.Logger,
		scene:    NewScene(),
		tooltips: make(map[*Marker]*Surface),
	}

	v.container = NewSurface("zoom-container")
	v.container.SetSize(float64(opts.Width), float64(opts.Height))
	v.scene.Root().AddChild(v.container)
	v.scene.SetSize(float64(opts.Width), float64(opts.Height))

	v.child = NewSurface("zoom-child")
	v.child.SetSize(opts.MapSize.X, opts.MapSize.Y)
	v.container.AddChild(v.child)

	v.highlightLayer = newLayer("highlights")
	v.markerLayer = newLayer("markers")
	v.tooltipLayer = newLayer("tooltips")
	v.child.AddChild(v.highlightLayer)
	v.child.AddChild(v.markerLayer)
	v.child.AddChild(v.tooltipLayer)

	v.handleLayer = newLayer("handles")
	v.container.AddChild(v.handleLayer)

	v.overlays = NewOverlays(v.highlightLayer, v.markerLayer)
	v.zoom = NewZoomController(v.scene, v.container, v.child, opts.Zoom)
	v.zoom.SetEventStore(opts.EventStore)
	if opts.Admin {
		v.editor = NewEditor(v.scene, v.handleLayer, v.child, v.zoom.CoordinateSpace())
		v.zoom.SetClickListener(v.adminClick)
		v.zoom.SetDragListener(v.adminDrag)
	} else {
		v.zoom.SetClickListener(v.publicClick)
	}
	v.zoom.SetTransformListener(v.transformChanged)
	v.zoom.SetupEvents()

	if opts.Settings != nil {
		v.zoom.Restore(opts.Settings)
	} else {
		scale := opts.InitialScale
		if scale <= 0 {
			scale = v.zoom.Options().ZoomMin
		}
		v.zoom.SetScale(scale)
		v.zoom.CenterChild()
	}
	return v
}

func newLayer(name string) *Surface {
	s := NewSurface(name)
	s.Interactable = false
	return s
}

// Scene returns the viewer's scene.
func (v *Viewer) Scene() *Scene { return v.scene }

// Zoom returns the viewer's zoom controller.
func (v *Viewer) Zoom() *ZoomController { return v.zoom }

// Overlays returns the viewer's overlays.
func (v *Viewer) Overlays() *Overlays { return v.overlays }

// Editor returns the editor, or nil outside admin mode.
func (v *Viewer) Editor() *Editor { return v.editor }

// CurrentLayout returns the ruler and panel layout for the current view.
func (v *Viewer) CurrentLayout() Layout { return v.layout }

// LoadOverlays loads highlight markup and a marker listing. Either may be
// empty. Errors are logged and returned; whatever parsed is kept.
func (v *Viewer) LoadOverlays(highlights string, markers []byte) error {
	var errs []error
	if strings.TrimSpace(highlights) != "" {
		if err := v.overlays.LoadHighlights(highlights); err != nil {
			v.log.Warn("highlights", "error", err)
			errs = append(errs, err)
		}
	}
	if len(markers) > 0 {
		if err := v.overlays.LoadMarkers(markers); err != nil {
			v.log.Warn("markers", "error", err)
			errs = append(errs, err)
		}
	}
	v.log.Info("overlays loaded", "shapes", len(v.overlays.Shapes()), "markers", len(v.overlays.Markers()))
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// Save serializes the overlays and hands them to OnSave.
func (v *Viewer) Save() error {
	if v.opts.OnSave == nil {
		return nil
	}
	markers, err := v.overlays.SaveMarkers()
	if err != nil {
		return err
	}
	if err := v.opts.OnSave(v.overlays.SaveHighlights(), markers); err != nil {
		return fmt.Errorf("save overlays: %w", err)
	}
	v.log.Info("overlays saved", "shapes", len(v.overlays.Shapes()), "markers", len(v.overlays.Markers()))
	return nil
}

// Screenshot queues a labeled screenshot of the next drawn frame.
func (v *Viewer) Screenshot(label string) {
	v.screenshotQueue = append(v.screenshotQueue, label)
}

// --- Listeners ---

func (v *Viewer) publicClick(ev *PointerEvent, _ Point, _ func()) {
	if m := v.tooltipOwner(ev.Target); m != nil {
		v.CloseTooltip(m)
		return
	}
	if m := v.overlays.Marker(ev.Target); m != nil && !m.Open {
		v.OpenTooltip(m)
	}
}

func (v *Viewer) adminClick(ev *PointerEvent, _ Point, _ func()) {
	if sh := v.overlays.Shape(ev.Target); sh != nil {
		v.editor.Select(sh)
		return
	}
	v.editor.Deselect()
}

func (v *Viewer) adminDrag(ev *PointerEvent, delta Point, consume func()) {
	if sh := v.overlays.Shape(ev.Target); sh != nil && v.editor.IsSelected(sh) {
		consume()
		v.editor.MoveSelectedBy(delta)
	}
}

func (v *Viewer) transformChanged(scale float64, p Point) {
	v.layout = ComputeLayout(scale, p, v.zoom.CoordinateSpace().ContainerPointToGlobalPoint(Point{}), v.opts.RulerThickness)
	if v.editor != nil {
		v.editor.SetViewScale(scale)
		v.editor.UpdateHandles()
	}
	if v.opts.OnSettingsChanged != nil {
		v.opts.OnSettingsChanged(Settings{Scale: scale, Point: p})
	}
}

// --- Tooltips ---

// OpenTooltip shows m's tooltip above it.
func (v *Viewer) OpenTooltip(m *Marker) {
	if m.Open {
		return
	}
	m.Open = true
	t := NewSurface("tooltip")
	t.UserData = m
	chars := max(len(m.Title), len(m.Description))
	size := Pt(
		max(tooltipMinWidth, float64(chars*tooltipCharWidth+2*tooltipPadding)),
		2*tooltipLineHeight+2*tooltipPadding,
	)
	t.SetSize(size.X, size.Y)
	t.SetPosition(TooltipPlacement(m, size, m.Surface.Box().Size()))
	v.tooltipLayer.AddChild(t)
	v.tooltips[m] = t
}

// CloseTooltip hides m's tooltip.
func (v *Viewer) CloseTooltip(m *Marker) {
	if t, ok := v.tooltips[m]; ok {
		t.Remove()
		delete(v.tooltips, m)
	}
	m.Open = false
}

func (v *Viewer) tooltipOwner(s *Surface) *Marker {
	if s == nil || s.Parent() != v.tooltipLayer {
		return nil
	}
	m, _ := s.UserData.(*Marker)
	return m
}

// --- ebiten.Game ---

// Update processes one frame of input and advances view animation.
func (v *Viewer) Update() error {
	v.scene.Update()
	v.zoom.Update(1 / float32(ebiten.TPS()))
	v.handleKeys()
	return nil
}

func (v *Viewer) handleKeys() {
	center := v.zoom.CoordinateSpace().ContainerPercentagesToContainerPoint(Pt(0.5, 0.5))
	center = v.zoom.CoordinateSpace().ContainerPointToGlobalPoint(center)
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		v.zoom.ZoomIn(center)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		v.zoom.ZoomOut(center)
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		v.zoom.SetScale(v.zoom.Options().ZoomMin)
		v.zoom.CenterChild()
	case inpututil.IsKeyJustPressed(ebiten.KeyF12):
		v.Screenshot("map")
	}
	if v.editor == nil {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		v.editor.Deselect()
	}
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	if ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := v.Save(); err != nil {
			v.log.Error("save failed", "error", err)
		}
	}
}

// Draw renders the map, overlays, handles and rulers.
func (v *Viewer) Draw(screen *ebiten.Image) {
	v.draw(screen)
	v.flushScreenshots(screen)
}

// Layout resizes the container to the window. A size change recenters the
// view through the zoom controller.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.Resize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// Resize sets the window size.
func (v *Viewer) Resize(w, h float64) {
	v.container.SetSize(w, h)
	v.scene.SetSize(w, h)
	v.zoom.ContainerResized()
}

// RunConfig configures Run.
type RunConfig struct {
	Title         string
	Width, Height int
}

// Run opens a resizable window and runs game until it is closed. game is
// usually a *Viewer or a type embedding one.
func Run(game ebiten.Game, cfg RunConfig) error {
	if cfg.Title == "" {
		cfg.Title = "Map"
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 1280, 720
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(game)
}
