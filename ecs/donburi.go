package ecs

import (
	"github.com/phanxgames/mapkit"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// MapEventType is the Donburi event type for map interaction events.
// Subscribe to this in your ECS systems to receive clicks, drags, pinches,
// scrolls and view changes.
var MapEventType = events.NewEventType[mapkit.MapEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventStore backed by a Donburi world.
// Map events are published to MapEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) mapkit.EventStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) Publish(ev mapkit.MapEvent) {
	MapEventType.Publish(s.world, ev)
}
