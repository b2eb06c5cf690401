// Package mapkit is an interactive, pannable and zoomable map surface for
// [Ebitengine], with highlight and marker overlays and an admin editing
// mode.
//
// # Quick start
//
// The simplest way to get started is [Run], which opens a window and runs a
// [Viewer]:
//
//	v := mapkit.NewViewer(mapkit.ViewerOptions{
//		Width: 1280, Height: 720,
//		MapSize: mapkit.Pt(4096, 4096),
//	})
//	mapkit.Run(v, mapkit.RunConfig{Title: "Map", Width: 1280, Height: 720})
//
// # Surfaces and the scene
//
// Every element taking part in geometry or input is a [Surface]: a local
// offset, a uniform scale about its own top-left, and an unscaled box.
// Surfaces form a tree rooted at [Scene.Root]. The scene polls Ebitengine
// input in [Scene.Update] and dispatches [PointerEvent] values to the hit
// surface, its ancestors, then scene-level listeners. Synthetic input can be
// queued with [Scene.InjectPress], [Scene.InjectDrag] and friends.
//
// # Geometry and gestures
//
// [CoordinateSpace] converts points between a child's frame, its
// container's frame and the global frame. A [Recognizer] turns the raw
// pointer stream of one surface into click, drag, pinch, scroll and
// auxiliary-button callbacks.
//
// # Zoom and pan
//
// [ZoomController] owns the child's view transform. Every change goes
// through [ZoomController.SetTransform], which clamps, writes the child's
// style and notifies. [ZoomController.AnimateTo] tweens the view (via
// [gween]).
//
// # Editing
//
// [Editor] selects [Shape] values and shows drag handles that move, resize,
// and reshape them. [Overlays] loads and saves the highlight markup and the
// marker listing.
//
// # ECS integration
//
// Map interaction events can be routed into a [Donburi] world with the
// adapter in mapkit/ecs; see [EventStore].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package mapkit
