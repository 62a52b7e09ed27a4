package gesture

import (
	"time"
)

// PointerSource feeds raw pointer events into a surface once per frame.
type PointerSource interface {
	Poll(s *Surface)
}

// --- Per-pointer state ---

type surfacePointer struct {
	down bool
	over *Element // deepest element under the pointer, for enter/leave
	last Vec2
}

// Surface is a retained element tree that routes pointer events: hit testing,
// pointer capture, enter/leave chains, and bubbling listener dispatch. It
// implements Host for its own Engine.
type Surface struct {
	root   *Element
	engine *Engine
	clock  Clock
	source PointerSource

	pointers map[PointerID]*surfacePointer
	captured map[PointerID]*Element

	injectQueue []injectedEvent
	injectAt    time.Time
}

// NewSurface creates a surface whose root covers width x height, with an
// engine configured by opts.
func NewSurface(width, height float64, opts Options) *Surface {
	s := &Surface{
		root:     NewElement("root", width, height),
		pointers: make(map[PointerID]*surfacePointer),
		captured: make(map[PointerID]*Element),
	}
	s.engine = NewEngine(s, opts)
	s.clock = s.engine.Clock()
	return s
}

// Root returns the root element.
func (s *Surface) Root() *Element { return s.root }

// Engine returns the surface's recognition engine.
func (s *Surface) Engine() *Engine { return s.engine }

// Find returns the first element named name, or nil.
func (s *Surface) Find(name string) *Element { return s.root.Find(name) }

// SetSource attaches a pointer source polled by Update.
func (s *Surface) SetSource(src PointerSource) { s.source = src }

// CapturedBy returns the element id is captured to, or nil.
func (s *Surface) CapturedBy(id PointerID) *Element { return s.captured[id] }

// Update polls the pointer source, then runs due timers and due injected
// events in time order. Call it once per frame.
func (s *Surface) Update() {
	if s.source != nil {
		s.source.Poll(s)
	}
	now := s.clock.Now()
	for {
		deadline, hasTimer := s.engine.sched.NextDeadline()
		hasTimer = hasTimer && !deadline.After(now)
		hasEvent := len(s.injectQueue) > 0 && !s.injectQueue[0].at.After(now)
		switch {
		case hasTimer && (!hasEvent || !deadline.After(s.injectQueue[0].at)):
			s.engine.sched.runNext(now)
		case hasEvent:
			next := s.injectQueue[0]
			s.injectQueue = s.injectQueue[1:]
			s.HandlePointer(next.ev)
		default:
			return
		}
	}
}

// HandlePointer routes one raw pointer event. Enter and Leave here mean the
// pointer entered or left the surface itself.
func (s *Surface) HandlePointer(ev PointerEvent) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = s.clock.Now()
	}
	id := ev.Pointer
	ps, ok := s.pointers[id]
	if !ok {
		ps = &surfacePointer{}
		s.pointers[id] = ps
	}

	target := s.captured[id]
	if target == nil {
		target = s.hit(ev.X, ev.Y)
		if ev.Kind != EventLeave {
			s.updateOver(ps, ev, target)
		}
	}

	switch ev.Kind {
	case EventDown:
		ps.down = true
		s.dispatch(target, ev, nil, true)
	case EventMove:
		if ev.X == ps.last.X && ev.Y == ps.last.Y && ps.down {
			return
		}
		s.dispatch(target, ev, nil, true)
	case EventUp, EventCancel:
		s.dispatch(target, ev, nil, true)
		delete(s.captured, id)
		ps.down = false
		if id.Type == PointerTouch || ev.Kind == EventCancel {
			s.updateOver(ps, ev, nil)
			delete(s.pointers, id)
			return
		}
	case EventEnter:
		// Chain already updated.
	case EventLeave:
		if ps.down {
			s.dispatch(target, PointerEvent{
				Kind: EventUp, Pointer: id, Buttons: ev.Buttons,
				X: ev.X, Y: ev.Y, Timestamp: ev.Timestamp,
			}, nil, true)
			delete(s.captured, id)
		}
		s.updateOver(ps, ev, nil)
		delete(s.pointers, id)
		return
	}
	ps.last = ev.Pos()
}

// hit returns the topmost interactable element at (x, y), falling back to
// the root.
func (s *Surface) hit(x, y float64) *Element {
	e := hitTest(s.root, x, y)
	if e == nil {
		return s.root
	}
	return e
}

// updateOver fires Leave on elements the pointer left, deepest first, and
// Enter on elements it entered, outermost first. Neither bubbles.
func (s *Surface) updateOver(ps *surfacePointer, ev PointerEvent, over *Element) {
	if ps.over == over {
		return
	}
	prev := ps.over
	ps.over = over
	for el := prev; el != nil; el = el.Parent {
		if over != nil && isAncestor(el, over) {
			break
		}
		leave := ev
		leave.Kind = EventLeave
		s.dispatch(el, leave, nil, false)
	}
	var entered []*Element
	for el := over; el != nil; el = el.Parent {
		if prev != nil && isAncestor(el, prev) {
			break
		}
		entered = append(entered, el)
	}
	for i := len(entered) - 1; i >= 0; i-- {
		enter := ev
		enter.Kind = EventEnter
		s.dispatch(entered[i], enter, nil, false)
	}
}

// dispatch delivers ev to target's listeners and, when bubble is set, to
// each ancestor until a listener stops propagation.
func (s *Surface) dispatch(target *Element, ev PointerEvent, r *Redispatch, bubble bool) {
	if target == nil || target.disposed {
		return
	}
	event := &Event{PointerEvent: ev, Target: target, Redispatch: r}
	for el := target; el != nil; el = el.Parent {
		event.CurrentTarget = el
		el.listeners.dispatch(event)
		if event.stopped || !bubble {
			return
		}
	}
}

// --- Host ---

// Parent returns e's parent, or nil at the root.
func (s *Surface) Parent(e *Element) *Element {
	if e == s.root {
		return nil
	}
	return e.Parent
}

// CapturePointer routes all further events of id to e.
func (s *Surface) CapturePointer(e *Element, id PointerID) {
	s.captured[id] = e
}

// ReleasePointer stops routing id to e. A capture already moved to another
// element is left alone.
func (s *Surface) ReleasePointer(e *Element, id PointerID) {
	if s.captured[id] == e {
		delete(s.captured, id)
	}
}

// Redispatch delivers a replayed event to e and bubbles it from there.
func (s *Surface) Redispatch(e *Element, ev PointerEvent, r Redispatch) {
	s.dispatch(e, ev, &r, true)
}

// Listen installs fn on e ahead of user listeners.
func (s *Surface) Listen(e *Element, fn Listener) ListenerHandle {
	return e.listeners.addFront(e, allKinds, fn)
}
