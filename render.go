package mapkit

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Palette.
var (
	backdropColor        = color.RGBA{0x1b, 0x1e, 0x24, 0xff}
	mapColor             = color.RGBA{0x2b, 0x33, 0x3d, 0xff}
	gridColor            = color.RGBA{0x3a, 0x44, 0x50, 0xff}
	highlightFillColor   = color.RGBA{0xf2, 0xb1, 0x34, 0x48}
	highlightStrokeColor = color.RGBA{0xf2, 0xb1, 0x34, 0xc0}
	selectedStrokeColor  = color.RGBA{0x4f, 0xc3, 0xf7, 0xff}
	markerColor          = color.RGBA{0xe5, 0x39, 0x35, 0xff}
	markerOutlineColor   = color.RGBA{0xff, 0xff, 0xff, 0xc8}
	tooltipColor         = color.RGBA{0x10, 0x12, 0x16, 0xe6}
	handleFillColor      = color.RGBA{0xff, 0xff, 0xff, 0x60}
	handleStrokeColor    = color.RGBA{0xff, 0xff, 0xff, 0xe0}
	rulerColor           = color.RGBA{0x12, 0x14, 0x18, 0xd0}
	rulerTickColor       = color.RGBA{0xc8, 0xc8, 0xc8, 0xff}
	panelColor           = color.RGBA{0x12, 0x14, 0x18, 0xb0}
)

const (
	gridSpacing      = 100 // map units between grid lines and ruler ticks
	minTickSpacing   = 8   // screen pixels; denser ticks are thinned
	labelTickSpacing = 40  // screen pixels needed to label a tick
	debugCharWidth   = 6
	debugLineHeight  = 16
)

// renderState holds GPU resources created on first draw.
type renderState struct {
	white *ebiten.Image
}

// whiteSubImage returns a 1x1 white source for DrawTriangles, cut from the
// middle of a 3x3 image so edge sampling stays white.
func (r *renderState) whiteSubImage() *ebiten.Image {
	if r.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		r.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return r.white
}

func (v *Viewer) draw(screen *ebiten.Image) {
	screen.Fill(backdropColor)
	v.drawMap(screen)
	v.drawHighlights(screen)
	v.drawMarkers(screen)
	v.drawTooltips(screen)
	v.drawHandles(screen)
	v.drawRulers(screen)
	v.drawPanels(screen)
	if v.opts.ShowStatus {
		v.drawStatus(screen)
	}
}

func (v *Viewer) drawMap(screen *ebiten.Image) {
	m := worldTransform(v.child)
	if img := v.opts.MapImage; img != nil {
		b := img.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(v.opts.MapSize.X/float64(b.Dx()), v.opts.MapSize.Y/float64(b.Dy()))
		op.GeoM.Scale(m[0], m[3])
		op.GeoM.Translate(m[4], m[5])
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(img, op)
		return
	}

	r := v.child.Bounds()
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), mapColor, false)
	step := gridSpacing * m[0]
	if step < minTickSpacing {
		return
	}
	for x := r.X; x <= r.X+r.Width; x += step {
		vector.StrokeLine(screen, float32(x), float32(r.Y), float32(x), float32(r.Y+r.Height), 1, gridColor, false)
	}
	for y := r.Y; y <= r.Y+r.Height; y += step {
		vector.StrokeLine(screen, float32(r.X), float32(y), float32(r.X+r.Width), float32(y), 1, gridColor, false)
	}
}

func (v *Viewer) drawHighlights(screen *ebiten.Image) {
	m := worldTransform(v.highlightLayer)
	// Painter order follows the display tree so a selected shape, raised by
	// the editor, draws on top.
	for _, s := range v.highlightLayer.Children() {
		sh := v.overlays.Shape(s)
		if sh == nil || !s.Visible {
			continue
		}
		stroke, width := highlightStrokeColor, float32(1.5)
		if sh.Selected {
			stroke, width = selectedStrokeColor, 3
		}
		switch sh.Kind {
		case ShapeCircle:
			c := transformPoint(m, sh.Center)
			r := float32(sh.Radius * m[0])
			vector.DrawFilledCircle(screen, float32(c.X), float32(c.Y), r, highlightFillColor, true)
			vector.StrokeCircle(screen, float32(c.X), float32(c.Y), r, width, stroke, true)
		case ShapeRect:
			b := transformAABB(m, sh.Rect)
			vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), highlightFillColor, true)
			vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), width, stroke, true)
		case ShapePolygon:
			v.drawPolygon(screen, m, sh.Points, width, stroke)
		}
	}
}

func (v *Viewer) drawPolygon(screen *ebiten.Image, m [6]float64, pts []Point, width float32, stroke color.RGBA) {
	if len(pts) < 3 {
		return
	}
	var path vector.Path
	for i, p := range pts {
		g := transformPoint(m, p)
		if i == 0 {
			path.MoveTo(float32(g.X), float32(g.Y))
		} else {
			path.LineTo(float32(g.X), float32(g.Y))
		}
	}
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	setVertexColor(vs, highlightFillColor)
	screen.DrawTriangles(vs, is, v.render.whiteSubImage(), &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
		FillRule:  ebiten.FillRuleEvenOdd,
	})

	vs, is = path.AppendVerticesAndIndicesForStroke(nil, nil, &vector.StrokeOptions{
		Width:    width,
		LineJoin: vector.LineJoinRound,
	})
	setVertexColor(vs, stroke)
	screen.DrawTriangles(vs, is, v.render.whiteSubImage(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func setVertexColor(vs []ebiten.Vertex, c color.RGBA) {
	r, g, b, a := float32(c.R)/0xff, float32(c.G)/0xff, float32(c.B)/0xff, float32(c.A)/0xff
	for i := range vs {
		vs[i].ColorR = r
		vs[i].ColorG = g
		vs[i].ColorB = b
		vs[i].ColorA = a
	}
}

func (v *Viewer) drawMarkers(screen *ebiten.Image) {
	scale := v.zoom.Scale()
	for _, s := range v.markerLayer.Children() {
		mk := v.overlays.Marker(s)
		if mk == nil || !s.Visible {
			continue
		}
		b := s.Bounds()
		c := b.Center()
		r := float32(math.Min(b.Width, b.Height) / 2)
		vector.DrawFilledCircle(screen, float32(c.X), float32(c.Y), r+1, markerOutlineColor, true)
		vector.DrawFilledCircle(screen, float32(c.X), float32(c.Y), r, markerColor, true)
		if mk.Selected {
			vector.StrokeCircle(screen, float32(c.X), float32(c.Y), r+3, 2, selectedStrokeColor, true)
		}
		if scale > 0.5 && mk.Title != "" {
			ebitenutil.DebugPrintAt(screen, mk.Title, int(c.X)-len(mk.Title)*debugCharWidth/2, int(b.Y)-debugLineHeight)
		}
	}
}

func (v *Viewer) drawTooltips(screen *ebiten.Image) {
	for mk, t := range v.tooltips {
		b := t.Bounds()
		vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), tooltipColor, false)
		vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), 1, handleStrokeColor, false)
		x, y := int(b.X)+tooltipPadding, int(b.Y)+tooltipPadding/2
		ebitenutil.DebugPrintAt(screen, mk.Title, x, y)
		ebitenutil.DebugPrintAt(screen, mk.Description, x, y+debugLineHeight)
		ebitenutil.DebugPrintAt(screen, "x", int(b.X+b.Width)-debugCharWidth-tooltipPadding/2, y)
	}
}

func (v *Viewer) drawHandles(screen *ebiten.Image) {
	if v.editor == nil {
		return
	}
	for _, h := range v.editor.Handles() {
		b := h.Surface.Bounds()
		vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), handleFillColor, false)
		vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), 1, handleStrokeColor, false)
	}
}

// drawRulers draws a tick every gridSpacing map units along the top and
// left container edges, following the layout's ruler transforms.
func (v *Viewer) drawRulers(screen *ebiten.Image) {
	l := v.layout
	if v.opts.RulerThickness <= 0 {
		return
	}
	origin := v.container.Bounds()
	hh, vw := float32(l.RulerHHeight), float32(l.RulerVWidth)
	vector.DrawFilledRect(screen, float32(origin.X), float32(origin.Y), float32(origin.Width), hh, rulerColor, false)
	vector.DrawFilledRect(screen, float32(origin.X), float32(origin.Y), vw, float32(origin.Height), rulerColor, false)

	step := gridSpacing * l.RulerH.ScaleX
	if step >= minTickSpacing {
		start := origin.X + l.RulerH.Offset
		for i := 0; ; i++ {
			x := start + float64(i)*step
			if x > origin.X+origin.Width || float64(i)*gridSpacing > v.opts.MapSize.X {
				break
			}
			if x < origin.X {
				continue
			}
			vector.StrokeLine(screen, float32(x), float32(origin.Y)+hh/2, float32(x), float32(origin.Y)+hh, 1, rulerTickColor, false)
			if step >= labelTickSpacing {
				ebitenutil.DebugPrintAt(screen, fmt.Sprint(i*gridSpacing), int(x)+2, int(origin.Y))
			}
		}
	}

	step = gridSpacing * l.RulerV.ScaleY
	if step >= minTickSpacing {
		start := origin.Y + l.RulerV.Offset
		for i := 0; ; i++ {
			y := start + float64(i)*step
			if y > origin.Y+origin.Height || float64(i)*gridSpacing > v.opts.MapSize.Y {
				break
			}
			if y < origin.Y {
				continue
			}
			vector.StrokeLine(screen, float32(origin.X)+vw/2, float32(y), float32(origin.X)+vw, float32(y), 1, rulerTickColor, false)
		}
	}
}

// drawPanels draws the briefing and legend panels at their layout anchors.
func (v *Viewer) drawPanels(screen *ebiten.Image) {
	l := v.layout
	lines := []string{"drag: pan", "wheel/pinch: zoom", "middle click: center"}
	if v.editor != nil {
		lines = append(lines, "click: select", "ctrl+s: save")
	}
	drawPanel(screen, l.Briefing, lines)

	legend := []string{
		fmt.Sprintf("highlights: %d", len(v.overlays.Shapes())),
		fmt.Sprintf("markers: %d", len(v.overlays.Markers())),
	}
	w, _ := v.scene.Size()
	drawPanel(screen, Pt(w-panelWidth(legend)-panelMargin, l.LegendTop), legend)
}

func panelWidth(lines []string) float64 {
	n := 0
	for _, s := range lines {
		n = max(n, len(s))
	}
	return float64(n*debugCharWidth + 2*tooltipPadding)
}

func drawPanel(screen *ebiten.Image, at Point, lines []string) {
	w := panelWidth(lines)
	h := float64(len(lines)*debugLineHeight + tooltipPadding)
	vector.DrawFilledRect(screen, float32(at.X), float32(at.Y), float32(w), float32(h), panelColor, false)
	for i, s := range lines {
		ebitenutil.DebugPrintAt(screen, s, int(at.X)+tooltipPadding, int(at.Y)+tooltipPadding/2+i*debugLineHeight)
	}
}

func (v *Viewer) drawStatus(screen *ebiten.Image) {
	_, h := v.scene.Size()
	status := fmt.Sprintf("scale %.3f  FPS %.1f  TPS %.1f", v.zoom.Scale(), ebiten.ActualFPS(), ebiten.ActualTPS())
	ebitenutil.DebugPrintAt(screen, status, panelMargin, int(h)-debugLineHeight-panelMargin)
}
