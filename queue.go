package gesture

import "log/slog"

// eventQueue holds events withheld from propagation while a target acquires
// pointers or awaits a gesture's completion. A non-empty queue always starts
// with a down or hover-start.
type eventQueue struct {
	events []*envelope
}

// push appends env. It refuses an event that would start the queue with
// anything but a down or hover-start.
func (q *eventQueue) push(env *envelope) bool {
	if len(q.events) == 0 && env.kind() != EventDown && env.kind() != EventHoverStart {
		return false
	}
	q.events = append(q.events, env)
	return true
}

func (q *eventQueue) len() int { return len(q.events) }

// take empties the queue and returns what it held. Replay works on the
// returned snapshot because a replayed down may reach a listener that queues
// again.
func (q *eventQueue) take() []*envelope {
	out := q.events
	q.events = nil
	return out
}

func (q *eventQueue) clear() int {
	n := len(q.events)
	q.events = nil
	return n
}

func (q *eventQueue) hasHoverStart() bool {
	for _, env := range q.events {
		if env.kind() == EventHoverStart {
			return true
		}
	}
	return false
}

// --- Engine side ---

// postpone withholds ev and queues it. A move during a completion window only
// stops bubbling, so other listeners on the target keep receiving moves;
// everything else is stopped outright. It reports whether ev was queued.
func (e *Engine) postpone(ts *targetState, env *envelope, ev *Event) bool {
	if !ts.queue.push(env) {
		e.log.Debug("event not postponed: queue must start with down",
			slog.String("event", env.kind().String()),
			slog.String("pointer", env.pointer().String()),
			slog.String("target", ts.target.Name))
		return false
	}
	if ev == nil {
		return true
	}
	if env.kind() == EventMove && !ts.acquiring && e.awaitingCompletion(ts) {
		ev.StopPropagation()
	} else {
		ev.StopImmediatePropagation()
	}
	return true
}

// propagates reports whether a failed recognition on ts may replay its
// events. Any enabled gesture on the target can veto.
func (e *Engine) propagates(ts *targetState) bool {
	for _, g := range e.catalog.forTarget(ts.target) {
		if e.catalog.IsEnabled(g) && !g.allowPropagation {
			return false
		}
	}
	return true
}

// flush empties the queue, replaying its events to the parent when
// propagate is set. At the root, events go back to the target itself, where
// the engine's own listener ignores them and user listeners see them.
// Queues holding a hover-start are discarded: hover does not propagate.
func (e *Engine) flush(ts *targetState, propagate bool) {
	if ts.queue.len() == 0 {
		return
	}
	if !propagate || ts.queue.hasHoverStart() {
		n := ts.queue.clear()
		e.stats.Discarded += n
		e.log.Debug("postponed events discarded",
			slog.Int("count", n),
			slog.String("target", ts.target.Name))
		return
	}
	snapshot := ts.queue.take()
	dest := e.host.Parent(ts.target)
	if dest == nil {
		dest = ts.target
	}
	e.stats.Replayed += len(snapshot)
	e.log.Debug("postponed events replayed",
		slog.Int("count", len(snapshot)),
		slog.String("from", ts.target.Name),
		slog.String("to", dest.Name))
	for i, env := range snapshot {
		e.host.Redispatch(dest, env.event, Redispatch{Origin: ts.target, Seq: i})
	}
}
