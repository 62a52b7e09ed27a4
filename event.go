package gesture

// Event is the object handed to element listeners during dispatch. It wraps
// the host PointerEvent; listeners may stop propagation but never see the
// engine's internal bookkeeping.
type Event struct {
	PointerEvent

	// Target is the element the event was dispatched to.
	Target *Element
	// CurrentTarget is the element whose listeners are running.
	CurrentTarget *Element
	// Redispatch is non-nil when the engine replayed this event.
	Redispatch *Redispatch

	stopped          bool
	stoppedImmediate bool
}

// StopPropagation keeps the event from bubbling to ancestors. Remaining
// listeners on the current element still run.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// StopImmediatePropagation also skips the remaining listeners on the current
// element.
func (e *Event) StopImmediatePropagation() {
	e.stopped = true
	e.stoppedImmediate = true
}

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool { return e.stopped }

// ImmediatePropagationStopped reports whether StopImmediatePropagation was called.
func (e *Event) ImmediatePropagationStopped() bool { return e.stoppedImmediate }

// Listener handles events delivered to an element.
type Listener func(*Event)

// --- Listener registry ---

const allKinds = uint16(1<<numEventKinds) - 1

func kindMask(k EventKind) uint16 { return 1 << k }

type listenerEntry struct {
	id   uint32
	mask uint16
	fn   Listener
}

type listenerRegistry struct {
	entries []listenerEntry
	nextID  uint32
}

// ListenerHandle allows removing a registered listener.
type ListenerHandle struct {
	id uint32
	el *Element
}

// Remove unregisters the listener so it no longer fires. A listener removed
// during dispatch still completes the dispatch in progress.
func (h ListenerHandle) Remove() {
	if h.el == nil {
		return
	}
	h.el.listeners.remove(h.id)
}

func (r *listenerRegistry) add(el *Element, mask uint16, fn Listener) ListenerHandle {
	r.nextID++
	r.entries = append(r.entries, listenerEntry{id: r.nextID, mask: mask, fn: fn})
	return ListenerHandle{id: r.nextID, el: el}
}

// addFront registers fn ahead of every existing listener.
func (r *listenerRegistry) addFront(el *Element, mask uint16, fn Listener) ListenerHandle {
	r.nextID++
	entries := make([]listenerEntry, 0, len(r.entries)+1)
	entries = append(entries, listenerEntry{id: r.nextID, mask: mask, fn: fn})
	r.entries = append(entries, r.entries...)
	return ListenerHandle{id: r.nextID, el: el}
}

// remove builds a fresh slice so a dispatch iterating the old one is not
// disturbed.
func (r *listenerRegistry) remove(id uint32) {
	for i := range r.entries {
		if r.entries[i].id == id {
			next := make([]listenerEntry, 0, len(r.entries)-1)
			next = append(next, r.entries[:i]...)
			r.entries = append(next, r.entries[i+1:]...)
			return
		}
	}
}

func (r *listenerRegistry) len() int { return len(r.entries) }

// dispatch runs the listeners registered for ev's kind until one stops
// immediate propagation.
func (r *listenerRegistry) dispatch(ev *Event) {
	entries := r.entries
	m := kindMask(ev.Kind)
	for i := range entries {
		if entries[i].mask&m == 0 {
			continue
		}
		entries[i].fn(ev)
		if ev.stoppedImmediate {
			return
		}
	}
}
