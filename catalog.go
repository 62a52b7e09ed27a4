package gesture

import (
	"fmt"
	"log/slog"
)

// Catalog is the ordered registry of gestures. Insertion order is match
// order: the first fully qualifying gesture on a target wins, so register
// repeating and more specific gestures first.
type Catalog struct {
	engine         *Engine
	gestures       []*Gesture
	byName         map[string]*Gesture
	listeners      map[*Element]ListenerHandle
	disabledGroups map[string]struct{}
}

func newCatalog(e *Engine) *Catalog {
	return &Catalog{
		engine:         e,
		byName:         make(map[string]*Gesture),
		listeners:      make(map[*Element]ListenerHandle),
		disabledGroups: make(map[string]struct{}),
	}
}

// Add validates and registers g. The first gesture on a target installs the
// ingestion listener on it.
func (c *Catalog) Add(g *Gesture) error {
	if err := c.validate(g); err != nil {
		return err
	}
	if _, dup := c.byName[g.name]; dup {
		return fmt.Errorf("gesture: add %q: %w", g.name, ErrDuplicateName)
	}
	c.insert(g)
	return nil
}

// Replace registers gs in order, first removing any registered gesture that
// shares a name with one of them. All of gs is validated before the catalog
// changes: on error nothing is removed or added.
func (c *Catalog) Replace(gs ...*Gesture) error {
	names := make(map[string]struct{}, len(gs))
	for _, g := range gs {
		if err := c.validate(g); err != nil {
			return err
		}
		if _, dup := names[g.name]; dup {
			return fmt.Errorf("gesture: add %q: %w", g.name, ErrDuplicateName)
		}
		names[g.name] = struct{}{}
	}
	for _, g := range gs {
		c.Remove(g.name)
		c.insert(g)
	}
	return nil
}

func (c *Catalog) insert(g *Gesture) {
	g.engine = c.engine
	c.gestures = append(c.gestures, g)
	c.byName[g.name] = g
	if _, ok := c.listeners[g.target]; !ok {
		c.listeners[g.target] = c.engine.host.Listen(g.target, c.engine.listenerFor(g.target))
	}
	c.engine.log.Debug("gesture added",
		slog.String("gesture", g.name),
		slog.String("pointerType", g.spec.Source()),
		slog.String("target", g.target.Name))
}

// validate checks g on its own; name clashes are left to the caller.
func (c *Catalog) validate(g *Gesture) error {
	if g == nil || g.name == "" {
		return fmt.Errorf("gesture: add: %w", ErrMissingName)
	}
	if g.target == nil {
		return fmt.Errorf("gesture: add %q: %w", g.name, ErrMissingTarget)
	}
	if g.parseErr != nil {
		return fmt.Errorf("gesture: add %q: %w", g.name, g.parseErr)
	}
	if g.spec.IsZero() {
		return fmt.Errorf("gesture: add %q: %w", g.name, ErrMissingPointerType)
	}
	if g.spec.MaxPointers() > 1 && g.recognitionTimeout <= 0 {
		return fmt.Errorf("gesture: add %q: %w", g.name, ErrZeroTimeout)
	}
	if g.repeatCount > 1 && g.repeatTimeout <= 0 {
		return fmt.Errorf("gesture: add %q: %w", g.name, ErrZeroRepeatTimeout)
	}
	return nil
}

// Remove unregisters the named gesture, cancelling it if active. It reports
// whether the gesture existed.
func (c *Catalog) Remove(name string) bool {
	g, ok := c.byName[name]
	if !ok {
		return false
	}
	c.engine.retire(g)
	delete(c.byName, name)
	for i, x := range c.gestures {
		if x == g {
			c.gestures = append(c.gestures[:i:i], c.gestures[i+1:]...)
			break
		}
	}
	c.uninstallIfUnused(g.target)
	return true
}

// RemoveTarget unregisters every gesture on target and returns how many were
// removed.
func (c *Catalog) RemoveTarget(target *Element) int {
	n := 0
	for _, g := range c.forTarget(target) {
		if c.Remove(g.name) {
			n++
		}
	}
	c.uninstallIfUnused(target)
	return n
}

func (c *Catalog) uninstallIfUnused(target *Element) {
	if len(c.forTarget(target)) > 0 {
		return
	}
	if h, ok := c.listeners[target]; ok {
		h.Remove()
		delete(c.listeners, target)
	}
	c.engine.dropTarget(target)
}

// Get returns the named gesture, or nil.
func (c *Catalog) Get(name string) *Gesture {
	return c.byName[name]
}

// All returns every gesture in match order.
func (c *Catalog) All() []*Gesture {
	out := make([]*Gesture, len(c.gestures))
	copy(out, c.gestures)
	return out
}

// Len returns the number of registered gestures.
func (c *Catalog) Len() int { return len(c.gestures) }

// forTarget returns the gestures on target in match order.
func (c *Catalog) forTarget(target *Element) []*Gesture {
	var out []*Gesture
	for _, g := range c.gestures {
		if g.target == target {
			out = append(out, g)
		}
	}
	return out
}

// hasListener reports whether target carries the ingestion listener.
func (c *Catalog) hasListener(target *Element) bool {
	_, ok := c.listeners[target]
	return ok
}

// --- Enable / disable ---

// Enable enables the named gesture. It reports whether the gesture exists.
func (c *Catalog) Enable(name string) bool {
	return c.setEnabled(name, true)
}

// Disable disables the named gesture. An active gesture keeps running until
// its pointers lift; it is only skipped by future recognitions.
func (c *Catalog) Disable(name string) bool {
	return c.setEnabled(name, false)
}

func (c *Catalog) setEnabled(name string, v bool) bool {
	g, ok := c.byName[name]
	if !ok {
		return false
	}
	g.enabled = v
	return true
}

// EnableGroup re-enables every gesture in group.
func (c *Catalog) EnableGroup(group string) {
	delete(c.disabledGroups, group)
}

// DisableGroup disables every gesture in group, including gestures added to
// the group later.
func (c *Catalog) DisableGroup(group string) {
	c.disabledGroups[group] = struct{}{}
}

// GroupEnabled reports whether group is enabled.
func (c *Catalog) GroupEnabled(group string) bool {
	_, off := c.disabledGroups[group]
	return !off
}

// IsEnabled reports whether g takes part in recognition: its own flag is set
// and its group, if any, is not disabled.
func (c *Catalog) IsEnabled(g *Gesture) bool {
	if !g.enabled {
		return false
	}
	if g.group == "" {
		return true
	}
	return c.GroupEnabled(g.group)
}

// usesKind reports whether any enabled gesture on target involves kind k.
func (c *Catalog) usesKind(target *Element, k PointerType) bool {
	for _, g := range c.gestures {
		if g.target == target && c.IsEnabled(g) && g.spec.Uses(k) {
			return true
		}
	}
	return false
}
