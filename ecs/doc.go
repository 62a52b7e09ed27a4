// Package ecs provides ECS adapters for gesture lifecycle events.
//
// The primary adapter is [NewDonburiSink], which mirrors gesture starts,
// ends, and cancellations into a [Donburi] world as typed events. Subscribe
// to [GestureEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	surface := gesture.NewSurface(w, h, gesture.Options{Sink: sink})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
