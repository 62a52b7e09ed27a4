package gesture

import "time"

// LifecycleKind identifies a gesture lifecycle transition.
type LifecycleKind uint8

const (
	LifecycleStarted LifecycleKind = iota
	LifecycleEnded
	LifecycleCancelled
)

func (k LifecycleKind) String() string {
	switch k {
	case LifecycleStarted:
		return "started"
	case LifecycleEnded:
		return "ended"
	case LifecycleCancelled:
		return "cancelled"
	}
	return "unknown"
}

// LifecycleEvent reports a gesture transition. It is emitted before the
// gesture's own handler runs.
type LifecycleEvent struct {
	Kind     LifecycleKind
	Gesture  string
	Target   *Element
	Pointers []PointerID
	At       time.Time
}

// Sink receives lifecycle events, for example to mirror them into an ECS
// world or an event log.
type Sink interface {
	Emit(LifecycleEvent)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(LifecycleEvent)

// Emit calls f(ev).
func (f SinkFunc) Emit(ev LifecycleEvent) { f(ev) }
