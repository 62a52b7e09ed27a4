package gesture

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// CaptureManager routes an active gesture's pointers to its target. Holder
// counts per (target, pointer) let an overlapping gesture re-capture a pointer
// that is already captured; native capture is released when the last holder
// lets go.
type CaptureManager struct {
	host      Host
	held      map[*Element]map[PointerID]int
	byGesture map[*Gesture][]PointerID
	lastSeen  map[PointerID]time.Time
}

func newCaptureManager(host Host) *CaptureManager {
	return &CaptureManager{
		host:      host,
		held:      make(map[*Element]map[PointerID]int),
		byGesture: make(map[*Gesture][]PointerID),
		lastSeen:  make(map[PointerID]time.Time),
	}
}

// Capture captures every active pointer of g on its target, if g captures
// pointers. Hovering pointers are left alone. It returns how many pointers g
// newly holds.
func (c *CaptureManager) Capture(g *Gesture) int {
	if !g.capturesPointers || !g.IsActive() {
		return 0
	}
	pointers := c.held[g.target]
	if pointers == nil {
		pointers = make(map[PointerID]int)
		c.held[g.target] = pointers
	}
	n := 0
	for i, id := range g.active {
		if i < len(g.kinds) && g.kinds[i] == PointerHover {
			continue
		}
		if containsPointer(c.byGesture[g], id) {
			continue
		}
		pointers[id]++
		if pointers[id] == 1 {
			c.host.CapturePointer(g.target, id)
		}
		c.byGesture[g] = append(c.byGesture[g], id)
		n++
	}
	return n
}

// Release releases what g captured. Releasing a gesture that captured
// nothing, or a pair no longer held, returns an error wrapping
// ErrNotCaptured.
func (c *CaptureManager) Release(g *Gesture) error {
	ids, ok := c.byGesture[g]
	if !ok {
		return fmt.Errorf("gesture: release %q: %w", g.name, ErrNotCaptured)
	}
	delete(c.byGesture, g)
	var errs []error
	pointers := c.held[g.target]
	for _, id := range ids {
		if pointers[id] == 0 {
			errs = append(errs, fmt.Errorf("gesture: release %q on %q: %s: %w",
				g.name, g.target.Name, id, ErrNotCaptured))
			continue
		}
		pointers[id]--
		if pointers[id] == 0 {
			delete(pointers, id)
			c.host.ReleasePointer(g.target, id)
		}
	}
	if len(pointers) == 0 {
		delete(c.held, g.target)
	}
	return errors.Join(errs...)
}

// Holds reports whether g currently holds a capture.
func (c *CaptureManager) Holds(g *Gesture) bool {
	_, ok := c.byGesture[g]
	return ok
}

// IsCaptured reports whether id is captured to target.
func (c *CaptureManager) IsCaptured(target *Element, id PointerID) bool {
	return c.held[target][id] > 0
}

// Holders returns how many gestures hold id on target.
func (c *CaptureManager) Holders(target *Element, id PointerID) int {
	return c.held[target][id]
}

// Len returns the number of captured (target, pointer) pairs.
func (c *CaptureManager) Len() int {
	n := 0
	for _, pointers := range c.held {
		n += len(pointers)
	}
	return n
}

// dropTarget forgets every capture on target without notifying the host.
func (c *CaptureManager) dropTarget(target *Element) {
	delete(c.held, target)
	for g := range c.byGesture {
		if g.target == target {
			delete(c.byGesture, g)
		}
	}
}

func (c *CaptureManager) touch(id PointerID, at time.Time) {
	c.lastSeen[id] = at
}

func (c *CaptureManager) forget(id PointerID) {
	delete(c.lastSeen, id)
}

func containsPointer(ids []PointerID, id PointerID) bool {
	for _, p := range ids {
		if p == id {
			return true
		}
	}
	return false
}

// --- Watchdog ---

// Watchdog recovers pointers that stay captured but silent, as left behind by
// platforms that drop the final pointer-up.
type Watchdog struct {
	// Interval between scans. Default 1s.
	Interval time.Duration
	// Silence after which a captured pointer counts as stuck. Default 5s.
	Silence time.Duration
	// Recover handles a stuck pointer. Default: inject a pointer-up at the
	// pointer's last known position through the host.
	Recover func(target *Element, id PointerID)
}

const (
	defaultWatchdogInterval = time.Second
	defaultWatchdogSilence  = 5 * time.Second
)

// armWatchdog schedules the next scan while anything is captured.
func (e *Engine) armWatchdog() {
	if e.watchdog == nil || e.watchdogTimer.pending() || e.capture.Len() == 0 {
		return
	}
	e.watchdogTimer.arm(e.sched, e.watchdog.Interval, "watchdog", e.scanStuck)
}

func (e *Engine) scanStuck() {
	now := e.clock.Now()
	for target, pointers := range e.capture.held {
		for id := range pointers {
			seen, ok := e.capture.lastSeen[id]
			if ok && now.Sub(seen) < e.watchdog.Silence {
				continue
			}
			e.stats.Recovered++
			e.log.Warn("recovering stuck pointer",
				slog.String("pointer", id.String()),
				slog.String("target", target.Name),
				slog.Duration("silent", now.Sub(seen)))
			e.capture.touch(id, now)
			e.watchdog.Recover(target, id)
		}
	}
	e.armWatchdog()
}

// injectUp is the default watchdog recovery.
func (e *Engine) injectUp(target *Element, id PointerID) {
	ev := PointerEvent{Kind: EventUp, Pointer: id, Timestamp: e.clock.Now()}
	if mv, ok := e.LatestMove(id, target); ok {
		ev.X, ev.Y = mv.X, mv.Y
	} else if dn, ok := e.DownEvent(id, target); ok {
		ev.X, ev.Y = dn.X, dn.Y
	}
	e.host.Inject(ev)
}
