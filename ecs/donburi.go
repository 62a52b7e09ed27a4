package ecs

import (
	"time"

	"github.com/phanxgames/gesture"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// GestureEvent is a lifecycle event flattened for ECS systems. EntityID is
// the target element's EntityID, zero when the element is not bound to an
// entity.
type GestureEvent struct {
	Kind     gesture.LifecycleKind
	Gesture  string
	Target   string
	EntityID uint32
	Pointers []gesture.PointerID
	At       time.Time
}

// GestureEventType is the Donburi event type for gesture lifecycle events.
var GestureEventType = events.NewEventType[GestureEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates a gesture.Sink backed by a Donburi world. Events
// are queued on GestureEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) gesture.Sink {
	return &donburiSink{world: world}
}

func (s *donburiSink) Emit(ev gesture.LifecycleEvent) {
	out := GestureEvent{
		Kind:     ev.Kind,
		Gesture:  ev.Gesture,
		Pointers: ev.Pointers,
		At:       ev.At,
	}
	if ev.Target != nil {
		out.Target = ev.Target.Name
		out.EntityID = ev.Target.EntityID
	}
	GestureEventType.Publish(s.world, out)
}
