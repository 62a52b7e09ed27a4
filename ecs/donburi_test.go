package ecs

import (
	"testing"
	"time"

	"github.com/phanxgames/gesture"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewDonburiSink(t *testing.T) {
	if NewDonburiSink(donburi.NewWorld()) == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_Emit(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []GestureEvent
	GestureEventType.Subscribe(world, func(w donburi.World, e GestureEvent) {
		received = append(received, e)
	})

	card := gesture.NewElement("card", 10, 10)
	card.EntityID = 42
	touch := gesture.PointerID{Type: gesture.PointerTouch, NativeID: 1}
	sink.Emit(gesture.LifecycleEvent{
		Kind:     gesture.LifecycleStarted,
		Gesture:  "drag",
		Target:   card,
		Pointers: []gesture.PointerID{touch},
		At:       t0,
	})
	sink.Emit(gesture.LifecycleEvent{Kind: gesture.LifecycleCancelled, Gesture: "drag"})

	if len(received) != 0 {
		t.Fatal("events should be queued until processed")
	}
	GestureEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	e0 := received[0]
	if e0.Kind != gesture.LifecycleStarted || e0.Gesture != "drag" || e0.Target != "card" || e0.EntityID != 42 {
		t.Errorf("event 0: %+v", e0)
	}
	if len(e0.Pointers) != 1 || e0.Pointers[0] != touch || !e0.At.Equal(t0) {
		t.Errorf("event 0 pointers/time: %+v", e0)
	}
	if e1 := received[1]; e1.Kind != gesture.LifecycleCancelled || e1.EntityID != 0 || e1.Target != "" {
		t.Errorf("event 1: %+v", e1)
	}
}

func TestDonburiSink_FromSurface(t *testing.T) {
	world := donburi.NewWorld()
	clock := gesture.NewVirtualClock(t0)
	s := gesture.NewSurface(100, 100, gesture.Options{Clock: clock, Sink: NewDonburiSink(world)})
	pad := gesture.NewElement("pad", 50, 50)
	pad.EntityID = 7
	s.Root().AddChild(pad)
	if err := s.Engine().Add(gesture.New("tap", pad).SetPointerType("touch")); err != nil {
		t.Fatal(err)
	}

	var kinds []gesture.LifecycleKind
	GestureEventType.Subscribe(world, func(w donburi.World, e GestureEvent) {
		if e.EntityID == 7 {
			kinds = append(kinds, e.Kind)
		}
	})
	touch := gesture.PointerID{Type: gesture.PointerTouch, NativeID: 1}
	s.InjectTap(touch, 10, 10, 20*time.Millisecond)
	s.Update()
	clock.Advance(20 * time.Millisecond)
	s.Update()
	events.ProcessAllEvents(world)

	if len(kinds) != 2 || kinds[0] != gesture.LifecycleStarted || kinds[1] != gesture.LifecycleEnded {
		t.Errorf("kinds = %v", kinds)
	}
}
