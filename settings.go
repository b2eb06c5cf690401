package mapkit

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Settings is the persisted view: the last applied scale and offset.
type Settings struct {
	Scale float64 `json:"scale"`
	Point Point   `json:"point"`
}

// ErrInvalidSettings is returned by ParseSettings for values that cannot
// describe a view.
var ErrInvalidSettings = errors.New("mapkit: invalid settings")

// ParseSettings decodes a settings blob. Empty input yields (nil, nil): no
// saved view, so the caller should fall back to the default view.
func ParseSettings(data []byte) (*Settings, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	if !finite(s.Scale) || s.Scale <= 0 || !finite(s.Point.X) || !finite(s.Point.Y) {
		return nil, fmt.Errorf("parse settings: scale %v: %w", s.Scale, ErrInvalidSettings)
	}
	return &s, nil
}

// Encode returns the JSON form of s.
func (s Settings) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// MapEventKind identifies a MapEvent.
type MapEventKind uint8

const (
	MapClick MapEventKind = iota
	MapDrag
	MapPinch
	MapScroll
	MapTransform
)

var mapEventKindNames = [...]string{"click", "drag", "pinch", "scroll", "transform"}

// String returns the lower-case event name.
func (k MapEventKind) String() string {
	if int(k) < len(mapEventKindNames) {
		return mapEventKindNames[k]
	}
	return fmt.Sprintf("MapEventKind(%d)", k)
}

// MapEvent is a summary of one map interaction, published to an EventStore.
type MapEvent struct {
	Kind MapEventKind
	// Point is the global point of the interaction, or the applied offset
	// for MapTransform.
	Point Point
	// Delta is the drag delta.
	Delta Point
	// Amount is the pinch or scroll delta.
	Amount float64
	// Scale is the view scale when the event happened.
	Scale float64
	// Target is the surface the pointer event was dispatched to, if any.
	Target *Surface
}

// EventStore receives map interaction events.
type EventStore interface {
	Publish(ev MapEvent)
}
