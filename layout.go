package mapkit

import "math"

// panelMargin separates the briefing and legend panels from the rulers.
const panelMargin = 10

// maxRulerThicknessScale caps how thick the rulers get when zoomed in.
const maxRulerThicknessScale = 0.5

// RulerTransform places one ruler strip. The strip follows the map along
// its length (Offset and the matching scale) while its thickness scales by
// at most maxRulerThicknessScale.
type RulerTransform struct {
	Offset         float64
	ScaleX, ScaleY float64
}

// Layout is the screen furniture that tracks the view: the two rulers and
// the anchors of the briefing and legend panels.
type Layout struct {
	RulerH RulerTransform
	RulerV RulerTransform
	// RulerHHeight and RulerVWidth are the rendered ruler thicknesses.
	RulerHHeight float64
	RulerVWidth  float64
	// Briefing is the top-left of the briefing panel in global coordinates.
	Briefing Point
	// LegendTop is the global y of the legend panel's top edge.
	LegendTop float64
}

// ComputeLayout derives the layout for a view. point is the map offset in
// its container, containerOrigin the container's global top-left and
// rulerThickness the unscaled ruler strip thickness.
func ComputeLayout(scale float64, point, containerOrigin Point, rulerThickness float64) Layout {
	secondary := math.Min(scale, maxRulerThicknessScale)
	l := Layout{
		RulerH:       RulerTransform{Offset: point.X, ScaleX: scale, ScaleY: secondary},
		RulerV:       RulerTransform{Offset: point.Y, ScaleX: secondary, ScaleY: scale},
		RulerHHeight: rulerThickness * secondary,
		RulerVWidth:  rulerThickness * secondary,
	}
	l.Briefing = Pt(
		panelMargin+containerOrigin.X+l.RulerVWidth,
		panelMargin+containerOrigin.Y+l.RulerHHeight,
	)
	l.LegendTop = panelMargin + containerOrigin.Y + l.RulerHHeight
	return l
}
