package gesture

import "sync/atomic"

var elementIDs atomic.Uint32

// Element is a node of the host element tree: a gesture target, a hit-test
// region, and a listener list. Position is relative to the parent.
type Element struct {
	ID       uint32
	Name     string
	Parent   *Element
	children []*Element

	// Local geometry. The hit region is the Width x Height box grown by
	// HitSlop on every side, unless HitShape is set.
	X, Y          float64
	Width, Height float64
	HitSlop       float64
	HitShape      HitShape

	// Hidden or non-interactable elements and their subtrees are skipped by
	// hit testing. Among siblings, higher ZIndex is hit first; at equal
	// ZIndex the later child wins.
	Visible      bool
	Interactable bool
	ZIndex       int

	UserData any
	// EntityID binds the element to an ECS entity; zero when unbound.
	EntityID uint32

	listeners listenerRegistry
	disposed  bool
}

// NewElement creates a visible, interactable element with the given size.
// A zero-sized element only groups children unless given a HitShape.
func NewElement(name string, width, height float64) *Element {
	return &Element{
		ID:           elementIDs.Add(1),
		Name:         name,
		Width:        width,
		Height:       height,
		Visible:      true,
		Interactable: true,
	}
}

// AddChild appends child, detaching it from any previous parent. Panics on a
// nil child or when child is e or one of its ancestors.
func (e *Element) AddChild(child *Element) {
	if child == nil {
		panic("gesture: cannot add nil child")
	}
	if isAncestor(child, e) {
		panic("gesture: adding child would create a cycle")
	}
	child.RemoveFromParent()
	child.Parent = e
	e.children = append(e.children, child)
}

// RemoveFromParent detaches e. No-op for a detached element.
func (e *Element) RemoveFromParent() {
	p := e.Parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == e {
			p.children = append(p.children[:i:i], p.children[i+1:]...)
			break
		}
	}
	e.Parent = nil
}

// Children returns the child list. Callers must not modify it.
func (e *Element) Children() []*Element { return e.children }

// Find returns the first element named name in depth-first order, or nil.
func (e *Element) Find(name string) *Element {
	if e.Name == name {
		return e
	}
	for _, c := range e.children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// WorldPosition returns the element origin in surface coordinates.
func (e *Element) WorldPosition() Vec2 {
	var p Vec2
	for n := e; n != nil; n = n.Parent {
		p.X += n.X
		p.Y += n.Y
	}
	return p
}

// WorldToLocal converts surface coordinates into this element's space.
func (e *Element) WorldToLocal(x, y float64) (float64, float64) {
	o := e.WorldPosition()
	return x - o.X, y - o.Y
}

// On registers fn for events of kind delivered to this element, after any
// existing listeners.
func (e *Element) On(kind EventKind, fn Listener) ListenerHandle {
	return e.listeners.add(e, kindMask(kind), fn)
}

// OnAny registers fn for every event kind.
func (e *Element) OnAny(fn Listener) ListenerHandle {
	return e.listeners.add(e, allKinds, fn)
}

// Dispose detaches e and drops the listeners of its whole subtree. A disposed
// element receives no further events.
func (e *Element) Dispose() {
	if e.disposed {
		return
	}
	e.RemoveFromParent()
	e.walk(func(n *Element) {
		n.disposed = true
		n.listeners = listenerRegistry{}
		n.UserData = nil
	})
}

// IsDisposed reports whether Dispose was called on e or an ancestor.
func (e *Element) IsDisposed() bool { return e.disposed }

func (e *Element) walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.children {
		c.walk(fn)
	}
}

// isAncestor reports whether candidate is el or one of its ancestors.
func isAncestor(candidate, el *Element) bool {
	for p := el; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}
