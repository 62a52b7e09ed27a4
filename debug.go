package gesture

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Stats counts recognition outcomes since the engine was created or since
// the last ResetStats.
type Stats struct {
	Acquisitions int // acquisition windows opened
	Recognized   int // gestures started
	Misses       int // recognitions that matched nothing
	Replayed     int // postponed events redispatched to an ancestor
	Discarded    int // postponed events dropped
	Cancelled    int // gestures cancelled
	Recovered    int // stuck pointers recovered by the watchdog
}

// Stats returns the current counters.
func (e *Engine) Stats() Stats { return e.stats }

// ResetStats zeroes the counters.
func (e *Engine) ResetStats() { e.stats = Stats{} }

// SetDebugMode enables per-event debug logging. Off by default because it
// logs on every pointer event.
func (e *Engine) SetDebugMode(enabled bool) { e.debug = enabled }

// DumpState writes a human-readable snapshot of every target with state:
// contacts, pending timers, queue length, and active gestures.
func (e *Engine) DumpState(w io.Writer) {
	targets := make([]*targetState, 0, len(e.states))
	for _, ts := range e.states {
		targets = append(targets, ts)
	}
	sort.Slice(targets, func(i, j int) bool {
		return targets[i].target.ID < targets[j].target.ID
	})

	s := e.stats
	_, _ = fmt.Fprintf(w, "[gesture] acquisitions: %d | recognized: %d | misses: %d | cancelled: %d\n",
		s.Acquisitions, s.Recognized, s.Misses, s.Cancelled)
	_, _ = fmt.Fprintf(w, "[gesture] replayed: %d | discarded: %d | recovered: %d | timers: %d | captured: %d\n",
		s.Replayed, s.Discarded, s.Recovered, e.sched.Pending(), e.capture.Len())

	for _, ts := range targets {
		ids, kinds := ts.sets.contacts()
		contacts := make([]string, len(ids))
		for i, id := range ids {
			contacts[i] = id.String()
			if kinds[i] == PointerHover {
				contacts[i] += "(hover)"
			}
		}
		_, _ = fmt.Fprintf(w, "target %q #%d: acquiring=%t awaiting=%t queued=%d contacts=[%s]\n",
			ts.target.Name, ts.target.ID, ts.acquiring, e.awaitingCompletion(ts),
			ts.queue.len(), strings.Join(contacts, " "))
		for _, g := range e.catalog.forTarget(ts.target) {
			if !g.IsActive() && g.repeatOccurrences == 0 {
				continue
			}
			_, _ = fmt.Fprintf(w, "  %s: active=%v cancelled=%t repeat=%d/%d\n",
				g.name, g.active, g.cancelled, g.repeatOccurrences, g.repeatCount)
		}
	}
}
