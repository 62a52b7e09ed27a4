package gesture

import (
	"slices"
	"testing"
)

func group(name string) *Element { return NewElement(name, 0, 0) }

// --- Tree ---

func TestNewElementDefaults(t *testing.T) {
	e := NewElement("card", 20, 10)
	if e.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if e.Name != "card" || e.Width != 20 || e.Height != 10 {
		t.Errorf("got %q %vx%v", e.Name, e.Width, e.Height)
	}
	if !e.Visible || !e.Interactable {
		t.Error("Visible and Interactable should default to true")
	}
	if group("a").ID == group("b").ID {
		t.Error("IDs should be unique")
	}
}

func TestAddChildReparents(t *testing.T) {
	a, b, c := group("a"), group("b"), group("c")
	a.AddChild(c)
	b.AddChild(c)
	if c.Parent != b {
		t.Error("child should be reparented to b")
	}
	if len(a.Children()) != 0 || len(b.Children()) != 1 {
		t.Errorf("children: a=%d b=%d", len(a.Children()), len(b.Children()))
	}
}

func TestAddChildPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"nil child", func() { group("a").AddChild(nil) }},
		{"self", func() {
			a := group("a")
			a.AddChild(a)
		}},
		{"cycle", func() {
			a, b := group("a"), group("b")
			a.AddChild(b)
			b.AddChild(a)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestFindAndRemoveFromParent(t *testing.T) {
	root, a, b, c := group("root"), group("a"), group("b"), group("c")
	root.AddChild(a)
	root.AddChild(b)
	root.AddChild(c)
	deep := group("deep")
	b.AddChild(deep)
	if root.Find("deep") != deep {
		t.Error("Find should locate nested element")
	}
	if root.Find("missing") != nil {
		t.Error("Find should return nil for unknown name")
	}
	b.RemoveFromParent()
	if b.Parent != nil || !slices.Equal(root.Children(), []*Element{a, c}) {
		t.Errorf("children = %v", root.Children())
	}
	if root.Find("deep") != nil {
		t.Error("detached subtree should not be found")
	}
	b.RemoveFromParent()
}

func TestWorldToLocal(t *testing.T) {
	root, mid := group("root"), group("mid")
	mid.X, mid.Y = 10, 20
	leaf := NewElement("leaf", 5, 5)
	leaf.X, leaf.Y = 1, 2
	root.AddChild(mid)
	mid.AddChild(leaf)
	lx, ly := leaf.WorldToLocal(12, 23)
	if lx != 1 || ly != 1 {
		t.Errorf("WorldToLocal = (%v, %v), want (1, 1)", lx, ly)
	}
}

func TestDispose(t *testing.T) {
	root, a, b := group("root"), group("a"), group("b")
	root.AddChild(a)
	a.AddChild(b)
	b.On(EventDown, func(*Event) {})
	a.Dispose()
	if !a.IsDisposed() || !b.IsDisposed() {
		t.Error("Dispose should mark the subtree")
	}
	if len(root.Children()) != 0 || a.Parent != nil {
		t.Error("Dispose should detach the element")
	}
	if b.listeners.len() != 0 {
		t.Error("Dispose should drop listeners in the subtree")
	}
	a.Dispose()
}

// --- Hit testing ---

func TestHitShapes(t *testing.T) {
	// An L-shaped polygon: the notch at (8, 8) is outside.
	ell := HitPolygon{{0, 0}, {10, 0}, {10, 5}, {5, 5}, {5, 10}, {0, 10}}
	tests := []struct {
		name  string
		shape HitShape
		x, y  float64
		want  bool
	}{
		{"circle inside", HitCircle{Center: Vec2{5, 5}, Radius: 5}, 8, 8, true},
		{"circle edge", HitCircle{Center: Vec2{5, 5}, Radius: 5}, 10, 5, true},
		{"circle outside", HitCircle{Center: Vec2{5, 5}, Radius: 5}, 9, 9, false},
		{"triangle inside", HitPolygon{{0, 0}, {10, 0}, {0, 10}}, 2, 2, true},
		{"triangle outside", HitPolygon{{0, 0}, {10, 0}, {0, 10}}, 8, 8, false},
		{"concave arm", ell, 8, 2, true},
		{"concave notch", ell, 8, 8, false},
		{"degenerate polygon", HitPolygon{{0, 0}, {10, 0}}, 1, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.shape.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestHitTestTopmost(t *testing.T) {
	root := NewElement("root", 100, 100)
	low := NewElement("low", 50, 50)
	high := NewElement("high", 50, 50)
	root.AddChild(high)
	root.AddChild(low)

	if got := hitTest(root, 10, 10); got != low {
		t.Errorf("hit = %v, want the later sibling", got.Name)
	}
	high.ZIndex = 1
	if got := hitTest(root, 10, 10); got != high {
		t.Errorf("hit = %v, want high", got.Name)
	}
	high.Interactable = false
	if got := hitTest(root, 10, 10); got != low {
		t.Errorf("hit = %v, want low", got.Name)
	}
	if got := hitTest(root, 80, 80); got != root {
		t.Errorf("hit = %v, want root", got.Name)
	}
	ring := group("ring")
	root.AddChild(ring)
	ring.HitShape = HitCircle{Center: Vec2{90, 90}, Radius: 5}
	if got := hitTest(root, 90, 90); got != ring {
		t.Errorf("hit = %v, want ring", got.Name)
	}
	if hitTest(root, 200, 200) != nil {
		t.Error("point outside the root should miss")
	}
}

func TestHitSlop(t *testing.T) {
	root := NewElement("root", 100, 100)
	btn := NewElement("btn", 10, 10)
	btn.X, btn.Y = 40, 40
	root.AddChild(btn)
	if got := hitTest(root, 53, 45); got != root {
		t.Errorf("hit = %v, want root without slop", got.Name)
	}
	btn.HitSlop = 4
	if got := hitTest(root, 53, 45); got != btn {
		t.Errorf("hit = %v, want btn within slop", got.Name)
	}
	if got := hitTest(root, 55, 45); got != root {
		t.Errorf("hit = %v, want root beyond slop", got.Name)
	}
}

// --- Listeners ---

func TestListenerOrderAndStopImmediate(t *testing.T) {
	el := NewElement("el", 10, 10)
	var calls []string
	el.On(EventDown, func(ev *Event) { calls = append(calls, "first") })
	el.On(EventDown, func(ev *Event) {
		calls = append(calls, "second")
		ev.StopImmediatePropagation()
	})
	el.On(EventDown, func(ev *Event) { calls = append(calls, "third") })
	el.On(EventUp, func(ev *Event) { calls = append(calls, "up") })
	el.listeners.addFront(el, allKinds, func(ev *Event) { calls = append(calls, "front") })

	ev := &Event{PointerEvent: PointerEvent{Kind: EventDown}}
	el.listeners.dispatch(ev)
	if want := []string{"front", "first", "second"}; !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
	if !ev.PropagationStopped() || !ev.ImmediatePropagationStopped() {
		t.Error("StopImmediatePropagation should stop both")
	}
}

func TestListenerHandleRemoveDuringDispatch(t *testing.T) {
	el := NewElement("el", 10, 10)
	var calls []string
	var second ListenerHandle
	el.On(EventMove, func(ev *Event) {
		calls = append(calls, "first")
		second.Remove()
	})
	second = el.On(EventMove, func(ev *Event) { calls = append(calls, "second") })

	el.listeners.dispatch(&Event{PointerEvent: PointerEvent{Kind: EventMove}})
	el.listeners.dispatch(&Event{PointerEvent: PointerEvent{Kind: EventMove}})
	if want := []string{"first", "second", "first"}; !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
	ListenerHandle{}.Remove()
}
