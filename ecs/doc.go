// Package ecs provides ECS adapters for mapkit's map interaction events.
//
// The primary adapter is [NewDonburiStore], which bridges map events
// (click, drag, pinch, scroll, transform) into a [Donburi] world as typed
// events. Subscribe to [MapEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	zoom.SetEventStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
