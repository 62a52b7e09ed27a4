package gesture

import (
	"log/slog"
	"time"
)

// pointerSets holds a target's active contacts. Only addPointer and
// removePointer mutate it.
type pointerSets struct {
	down  map[PointerID]*envelope
	hover map[PointerID]*envelope
	move  map[PointerID]*envelope
	first map[PointerID]time.Time
	order []PointerID // first-contact order
}

func newPointerSets() pointerSets {
	return pointerSets{
		down:  make(map[PointerID]*envelope),
		hover: make(map[PointerID]*envelope),
		move:  make(map[PointerID]*envelope),
		first: make(map[PointerID]time.Time),
	}
}

func (s *pointerSets) has(id PointerID) bool {
	_, ok := s.first[id]
	return ok
}

func (s *pointerSets) isDown(id PointerID) bool {
	_, ok := s.down[id]
	return ok
}

func (s *pointerSets) isHover(id PointerID) bool {
	_, ok := s.hover[id]
	return ok
}

func (s *pointerSets) empty() bool { return len(s.order) == 0 }

// kindOf returns the contact kind: PointerHover for hovering pointers, the
// device type otherwise.
func (s *pointerSets) kindOf(id PointerID) PointerType {
	if s.isHover(id) {
		return PointerHover
	}
	return id.Type
}

func (s *pointerSets) counts() contactCounts {
	var c contactCounts
	for _, id := range s.order {
		c[s.kindOf(id)]++
	}
	return c
}

// contacts returns the active pointers and their kinds in first-contact order.
func (s *pointerSets) contacts() ([]PointerID, []PointerType) {
	ids := make([]PointerID, len(s.order))
	kinds := make([]PointerType, len(s.order))
	for i, id := range s.order {
		ids[i] = id
		kinds[i] = s.kindOf(id)
	}
	return ids, kinds
}

// earliest returns the oldest first-contact time among active contacts.
func (s *pointerSets) earliest() time.Time {
	var t time.Time
	for _, id := range s.order {
		if f := s.first[id]; t.IsZero() || f.Before(t) {
			t = f
		}
	}
	return t
}

func (s *pointerSets) remove(id PointerID) {
	delete(s.down, id)
	delete(s.hover, id)
	delete(s.move, id)
	delete(s.first, id)
	for i, p := range s.order {
		if p == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
}

// targetState is the per-target recognition state, created lazily on the
// first contact.
type targetState struct {
	target         *Element
	acquiring      bool
	acquire        timerSlot
	acquireStart   time.Time
	recognitionRan bool
	downgrade      timerSlot
	sets           pointerSets
	queue          eventQueue
}

// TargetStatus is a read-only snapshot of a target's recognition state.
type TargetStatus struct {
	Acquiring          bool
	AwaitingCompletion bool
	RecognitionRan     bool
	Down               int
	Hover              int
	Postponed          int
}

func (e *Engine) state(target *Element) *targetState {
	ts, ok := e.states[target]
	if !ok {
		ts = &targetState{target: target, sets: newPointerSets()}
		e.states[target] = ts
	}
	return ts
}

// TargetStatus reports the recognition state of target.
func (e *Engine) TargetStatus(target *Element) TargetStatus {
	ts, ok := e.states[target]
	if !ok {
		return TargetStatus{}
	}
	return TargetStatus{
		Acquiring:          ts.acquiring,
		AwaitingCompletion: e.awaitingCompletion(ts),
		RecognitionRan:     ts.recognitionRan,
		Down:               len(ts.sets.down),
		Hover:              len(ts.sets.hover),
		Postponed:          ts.queue.len(),
	}
}

// --- Add / remove ---

// addPointer records a down or hover-start. A pointer still down on another
// target is taken from it first.
func (e *Engine) addPointer(ts *targetState, env *envelope) {
	id := env.pointer()
	if env.kind() == EventDown {
		if prev, ok := e.downOn[id]; ok && prev != ts.target {
			e.transfer(prev, id)
		}
		e.downOn[id] = ts.target
	}
	s := &ts.sets
	if !s.has(id) {
		s.first[id] = env.at
		s.order = append(s.order, id)
	}
	switch env.kind() {
	case EventDown:
		delete(s.hover, id)
		s.down[id] = env
	case EventHoverStart:
		s.hover[id] = env
	}
	e.capture.touch(id, env.at)
}

// transfer drops id from the target it was down on. Gestures using it there
// are cancelled.
func (e *Engine) transfer(from *Element, id PointerID) {
	ts, ok := e.states[from]
	if !ok || !ts.sets.has(id) {
		delete(e.downOn, id)
		return
	}
	e.log.Debug("pointer transferred",
		slog.String("pointer", id.String()),
		slog.String("from", from.Name))
	e.removePointer(ts, &envelope{
		event:  PointerEvent{Kind: EventCancel, Pointer: id},
		target: from,
		at:     e.clock.Now(),
	})
}

// removePointer clears id from every set of the target. Each gesture using it
// ends, or takes its cancel path for a cancel event, an incomplete
// completion window, or an earlier cancellation.
func (e *Engine) removePointer(ts *targetState, env *envelope) {
	id := env.pointer()
	if !ts.sets.has(id) {
		return
	}
	for _, g := range e.catalog.forTarget(ts.target) {
		if !g.usesPointer(id) {
			continue
		}
		switch {
		case g.cancelled:
			e.finish(g)
		case env.kind() == EventCancel:
			e.cancel(g, "pointer cancelled")
			e.finish(g)
		case g.completion.pending():
			if e.completes(ts, g, env) {
				e.end(ts, g, env)
				ts.queue.clear()
			} else {
				e.cancel(g, "incomplete")
				e.finish(g)
				e.flush(ts, e.propagates(ts))
			}
		default:
			e.end(ts, g, env)
		}
	}

	ts.sets.remove(id)
	if e.downOn[id] == ts.target {
		delete(e.downOn, id)
	}
	e.capture.forget(id)

	if ts.sets.empty() {
		e.settle(ts)
	}
}

// settle resets a target whose last contact lifted.
func (e *Engine) settle(ts *targetState) {
	ts.acquire.stop()
	ts.acquiring = false
	if !e.awaitingCompletion(ts) {
		e.stats.Discarded += ts.queue.clear()
	}
	for _, g := range e.catalog.forTarget(ts.target) {
		g.repeatTimedOut = false
	}
	if !e.catalog.hasListener(ts.target) && !ts.downgrade.pending() {
		delete(e.states, ts.target)
	}
}

// dropTarget discards the state of a target that lost its last gesture.
func (e *Engine) dropTarget(target *Element) {
	ts, ok := e.states[target]
	if !ok {
		return
	}
	ts.acquire.stop()
	ts.downgrade.stop()
	ts.queue.clear()
	for id, t := range e.downOn {
		if t == target {
			delete(e.downOn, id)
		}
	}
	delete(e.states, target)
}

// --- Lookups ---

// DownEvent returns the event that put id in contact with target.
func (e *Engine) DownEvent(id PointerID, target *Element) (PointerEvent, bool) {
	ts, ok := e.states[target]
	if !ok {
		return PointerEvent{}, false
	}
	if env, ok := ts.sets.down[id]; ok {
		return env.event, true
	}
	if env, ok := ts.sets.hover[id]; ok {
		return env.event, true
	}
	return PointerEvent{}, false
}

// DownEventOfType returns the down event of the most recent contact of kind
// t on target.
func (e *Engine) DownEventOfType(t PointerType, target *Element) (PointerEvent, bool) {
	ts, ok := e.states[target]
	if !ok {
		return PointerEvent{}, false
	}
	id, ok := ts.latestOfKind(t)
	if !ok {
		return PointerEvent{}, false
	}
	return e.DownEvent(id, target)
}

// LatestMove returns the most recent move of id on target.
func (e *Engine) LatestMove(id PointerID, target *Element) (PointerEvent, bool) {
	ts, ok := e.states[target]
	if !ok {
		return PointerEvent{}, false
	}
	if env, ok := ts.sets.move[id]; ok {
		return env.event, true
	}
	return PointerEvent{}, false
}

// LatestMoveOfType returns the latest move of the most recent contact of
// kind t on target.
func (e *Engine) LatestMoveOfType(t PointerType, target *Element) (PointerEvent, bool) {
	ts, ok := e.states[target]
	if !ok {
		return PointerEvent{}, false
	}
	id, ok := ts.latestOfKind(t)
	if !ok {
		return PointerEvent{}, false
	}
	return e.LatestMove(id, target)
}

// ActivePointers returns the contacts on target in first-contact order.
func (e *Engine) ActivePointers(target *Element) []PointerID {
	ts, ok := e.states[target]
	if !ok {
		return nil
	}
	ids, _ := ts.sets.contacts()
	return ids
}

func (ts *targetState) latestOfKind(t PointerType) (PointerID, bool) {
	for i := len(ts.sets.order) - 1; i >= 0; i-- {
		id := ts.sets.order[i]
		if ts.sets.kindOf(id) == t || id.Type == t {
			return id, true
		}
	}
	return PointerID{}, false
}
