package gesture

import (
	"testing"
	"time"
)

var (
	t0     = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	touch1 = PointerID{Type: PointerTouch, NativeID: 1}
	touch2 = PointerID{Type: PointerTouch, NativeID: 2}
	touch3 = PointerID{Type: PointerTouch, NativeID: 3}
	pen1   = PointerID{Type: PointerPen, NativeID: 1}
	mouse0 = PointerID{Type: PointerMouse}
)

// rig is a surface with one 200x200 element "pad" at the origin of a
// 400x400 root, driven by a virtual clock.
type rig struct {
	t      *testing.T
	clock  *VirtualClock
	s      *Surface
	e      *Engine
	pad    *Element
	events []string
}

func newRig(t *testing.T) *rig {
	return newRigWith(t, Options{})
}

func newRigWith(t *testing.T, opts Options) *rig {
	t.Helper()
	clock := NewVirtualClock(t0)
	opts.Clock = clock
	s := NewSurface(400, 400, opts)
	pad := NewElement("pad", 200, 200)
	s.Root().AddChild(pad)
	return &rig{t: t, clock: clock, s: s, e: s.Engine(), pad: pad}
}

// add registers g with handlers that log "name:started" and so on.
func (r *rig) add(g *Gesture) *Gesture {
	r.t.Helper()
	g.OnStarted(func(g *Gesture) { r.events = append(r.events, g.Name()+":started") })
	g.OnEnded(func(g *Gesture) { r.events = append(r.events, g.Name()+":ended") })
	g.OnCancelled(func(g *Gesture) { r.events = append(r.events, g.Name()+":cancelled") })
	if err := r.e.Add(g); err != nil {
		r.t.Fatalf("Add(%s): %v", g.Name(), err)
	}
	return g
}

func (r *rig) count(event string) int {
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func (r *rig) down(id PointerID, x, y float64) {
	r.s.HandlePointer(PointerEvent{Kind: EventDown, Pointer: id, Buttons: ButtonPrimary, X: x, Y: y})
}

func (r *rig) move(id PointerID, x, y float64) {
	r.s.HandlePointer(PointerEvent{Kind: EventMove, Pointer: id, Buttons: ButtonPrimary, X: x, Y: y})
}

func (r *rig) up(id PointerID, x, y float64) {
	r.s.HandlePointer(PointerEvent{Kind: EventUp, Pointer: id, X: x, Y: y})
}

func (r *rig) cancel(id PointerID) {
	r.s.HandlePointer(PointerEvent{Kind: EventCancel, Pointer: id})
}

// advance moves the clock forward and runs whatever became due.
func (r *rig) advance(d time.Duration) {
	r.clock.Advance(d)
	r.s.Update()
}

// replayed records events redispatched to el.
func replayed(el *Element) *[]PointerEvent {
	var got []PointerEvent
	el.OnAny(func(ev *Event) {
		if ev.Redispatch != nil {
			got = append(got, ev.PointerEvent)
		}
	})
	return &got
}

// --- Fake host ---

// fakeHost drives an Engine without a Surface and records what the engine
// asks of the host.
type fakeHost struct {
	listeners    map[*Element]Listener
	captures     []string
	releases     []string
	redispatched []PointerEvent
	injected     []PointerEvent
}

func newFakeHost() *fakeHost {
	return &fakeHost{listeners: make(map[*Element]Listener)}
}

func (h *fakeHost) Parent(e *Element) *Element { return e.Parent }

func (h *fakeHost) CapturePointer(e *Element, id PointerID) {
	h.captures = append(h.captures, e.Name+"/"+id.String())
}

func (h *fakeHost) ReleasePointer(e *Element, id PointerID) {
	h.releases = append(h.releases, e.Name+"/"+id.String())
}

func (h *fakeHost) Redispatch(e *Element, ev PointerEvent, r Redispatch) {
	h.redispatched = append(h.redispatched, ev)
}

func (h *fakeHost) Listen(e *Element, fn Listener) ListenerHandle {
	h.listeners[e] = fn
	return e.listeners.addFront(e, allKinds, fn)
}

func (h *fakeHost) Inject(ev PointerEvent) {
	h.injected = append(h.injected, ev)
}

// send delivers ev to the engine listener installed on e.
func (h *fakeHost) send(e *Element, kind EventKind, id PointerID, x, y float64) *Event {
	ev := &Event{
		PointerEvent:  PointerEvent{Kind: kind, Pointer: id, X: x, Y: y},
		Target:        e,
		CurrentTarget: e,
	}
	if kind == EventDown || kind == EventMove {
		ev.Buttons = ButtonPrimary
	}
	if fn := h.listeners[e]; fn != nil {
		fn(ev)
	}
	return ev
}
