package mapkit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/tidwall/gjson"
)

// DefaultMarkerSize is the unscaled size of a marker icon.
var DefaultMarkerSize = Pt(32, 32)

// tooltipGap is the space between a marker and its tooltip, in map units.
const tooltipGap = 10

// ErrInvalidListing is returned when a marker listing is not a JSON array.
var ErrInvalidListing = errors.New("mapkit: marker listing is not a JSON array")

// Marker is a point of interest: a box shape plus its text.
type Marker struct {
	*Shape
	Title       string
	Description string
	// Open reports whether the marker's tooltip is showing.
	Open bool
	// Extra holds listing fields the viewer does not use, written back
	// unchanged on save.
	Extra map[string]json.RawMessage
}

// MarkerRecord is the persisted form of a marker.
type MarkerRecord struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	// Extra is every other field of the listing entry, as raw JSON.
	Extra map[string]json.RawMessage `json:"-"`
}

// markerFields are the listing fields MarkerRecord reads itself.
var markerFields = map[string]bool{"title": true, "description": true, "x": true, "y": true}

// MarshalJSON writes the known fields followed by Extra in key order.
func (r MarkerRecord) MarshalJSON() ([]byte, error) {
	type plain MarkerRecord
	data, err := json.Marshal(plain(r))
	if err != nil || len(r.Extra) == 0 {
		return data, err
	}
	var buf bytes.Buffer
	buf.Write(data[:len(data)-1])
	for _, k := range slices.Sorted(maps.Keys(r.Extra)) {
		if markerFields[k] {
			continue
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(r.Extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NewMarker creates a marker of the given size at the record's position.
func NewMarker(rec MarkerRecord, size Point) *Marker {
	return &Marker{
		Shape:       NewBoxShape("marker", Pt(rec.X, rec.Y), size),
		Title:       rec.Title,
		Description: rec.Description,
		Extra:       rec.Extra,
	}
}

// Record returns the marker's persisted form at its current position.
func (m *Marker) Record() MarkerRecord {
	p := m.Surface.Position()
	return MarkerRecord{Title: m.Title, Description: m.Description, X: p.X, Y: p.Y, Extra: m.Extra}
}

// TooltipPlacement returns where a tooltip of tooltipSize goes for m:
// horizontally centered over the marker and tooltipGap above it. Sizes are
// in map units.
func TooltipPlacement(m *Marker, tooltipSize, markerSize Point) Point {
	p := m.Surface.Position()
	return Point{
		X: p.X - (tooltipSize.X-markerSize.X)/2,
		Y: p.Y - tooltipSize.Y - tooltipGap,
	}
}

// Overlays owns the map's highlight shapes and markers and converts them to
// and from their persisted forms.
type Overlays struct {
	// MarkerSize is the size given to markers created by LoadMarkers.
	MarkerSize Point

	highlightLayer *Surface
	markerLayer    *Surface

	shapes  []*Shape
	markers []*Marker
	members map[*Surface]*Shape
	byProxy map[*Surface]*Marker
}

// NewOverlays creates an empty overlay set drawing into the given layers.
func NewOverlays(highlightLayer, markerLayer *Surface) *Overlays {
	return &Overlays{
		MarkerSize:     DefaultMarkerSize,
		highlightLayer: highlightLayer,
		markerLayer:    markerLayer,
		members:        make(map[*Surface]*Shape),
		byProxy:        make(map[*Surface]*Marker),
	}
}

// HighlightLayer returns the layer highlight shapes are attached to.
func (o *Overlays) HighlightLayer() *Surface { return o.highlightLayer }

// MarkerLayer returns the layer markers are attached to.
func (o *Overlays) MarkerLayer() *Surface { return o.markerLayer }

// AddShape attaches a highlight shape.
func (o *Overlays) AddShape(sh *Shape) {
	o.highlightLayer.AddChild(sh.Surface)
	o.shapes = append(o.shapes, sh)
	o.members[sh.Surface] = sh
}

// AddMarker attaches a marker.
func (o *Overlays) AddMarker(m *Marker) {
	o.markerLayer.AddChild(m.Surface)
	o.markers = append(o.markers, m)
	o.members[m.Surface] = m.Shape
	o.byProxy[m.Surface] = m
}

// Clear detaches and forgets every shape and marker.
func (o *Overlays) Clear() {
	for s := range o.members {
		s.Remove()
	}
	o.shapes = nil
	o.markers = nil
	clear(o.members)
	clear(o.byProxy)
}

// Shape returns the overlay shape whose proxy is s, or nil when s is not an
// overlay element. Markers count as overlay elements.
func (o *Overlays) Shape(s *Surface) *Shape {
	return o.members[s]
}

// Marker returns the marker whose proxy is s, or nil.
func (o *Overlays) Marker(s *Surface) *Marker {
	return o.byProxy[s]
}

// Shapes returns the highlight shapes in load order.
func (o *Overlays) Shapes() []*Shape {
	return o.shapes
}

// Markers returns the markers in load order.
func (o *Overlays) Markers() []*Marker {
	return o.markers
}

// LoadHighlights parses a markup fragment and adds its shapes. Shapes that
// parse are kept even when an error is returned.
func (o *Overlays) LoadHighlights(markup string) error {
	shapes, err := ParseHighlights(markup)
	for _, sh := range shapes {
		o.AddShape(sh)
	}
	if err != nil {
		return fmt.Errorf("load highlights: %w", err)
	}
	return nil
}

// SaveHighlights renders the highlight shapes as a markup fragment with
// selection decoration stripped.
func (o *Overlays) SaveHighlights() string {
	return FormatHighlights(o.shapes)
}

// LoadMarkers parses a marker listing, a JSON array of
// {title, description, x, y}, and adds its markers. Missing or
// non-numeric coordinates read as 0. Other fields are kept in Extra.
func (o *Overlays) LoadMarkers(listing []byte) error {
	recs, err := ParseMarkerListing(listing)
	if err != nil {
		return fmt.Errorf("load markers: %w", err)
	}
	for _, rec := range recs {
		o.AddMarker(NewMarker(rec, o.MarkerSize))
	}
	return nil
}

// SaveMarkers renders the markers as a JSON listing.
func (o *Overlays) SaveMarkers() ([]byte, error) {
	recs := make([]MarkerRecord, 0, len(o.markers))
	for _, m := range o.markers {
		recs = append(recs, m.Record())
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("save markers: %w", err)
	}
	return data, nil
}

// ParseMarkerListing reads a JSON array of marker records tolerantly.
func ParseMarkerListing(listing []byte) ([]MarkerRecord, error) {
	if !gjson.ValidBytes(listing) {
		return nil, ErrInvalidListing
	}
	root := gjson.ParseBytes(listing)
	if !root.IsArray() {
		return nil, ErrInvalidListing
	}
	var recs []MarkerRecord
	root.ForEach(func(_, v gjson.Result) bool {
		rec := MarkerRecord{
			Title:       v.Get("title").String(),
			Description: v.Get("description").String(),
			X:           finiteOr(v.Get("x").Float(), 0),
			Y:           finiteOr(v.Get("y").Float(), 0),
		}
		v.ForEach(func(key, field gjson.Result) bool {
			if v.IsObject() && !markerFields[key.String()] {
				if rec.Extra == nil {
					rec.Extra = make(map[string]json.RawMessage)
				}
				rec.Extra[key.String()] = json.RawMessage(field.Raw)
			}
			return true
		})
		recs = append(recs, rec)
		return true
	})
	return recs, nil
}
