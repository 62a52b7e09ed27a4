package gesture

import (
	"log/slog"
	"time"
)

// --- Acquisition ---

// beginAcquisition starts or extends the acquisition window after a contact
// arrives. The wait is measured from the first contact of the window and is
// the longest recognition timeout among gestures the current contacts could
// still grow into; a zero wait recognizes on the spot.
func (e *Engine) beginAcquisition(ts *targetState, trigger *envelope) {
	now := e.clock.Now()
	if !ts.acquiring {
		ts.acquiring = true
		ts.acquireStart = now
		ts.recognitionRan = false
		e.stats.Acquisitions++
	}
	wait := e.acquisitionWait(ts)
	remaining := wait - now.Sub(ts.acquireStart)
	if wait <= 0 || remaining <= 0 {
		e.recognize(ts, trigger)
		return
	}
	e.log.Debug("acquiring pointers",
		slog.String("target", ts.target.Name),
		slog.Duration("wait", remaining))
	ts.acquire.arm(e.sched, remaining, "acquire:"+ts.target.Name, func() {
		e.recognize(ts, nil)
	})
}

// acquisitionWait walks the target's gestures in match order. The walk ends
// at a gesture that already matches exactly and is certain to pass its
// remaining checks; one with a conditional, a repeat count, or an exclusivity
// block may still fail, so the gestures after it keep extending the wait.
func (e *Engine) acquisitionWait(ts *targetState) time.Duration {
	counts := ts.sets.counts()
	var wait time.Duration
	for _, g := range e.catalog.forTarget(ts.target) {
		if !e.catalog.IsEnabled(g) || g.IsActive() || g.repeatTimedOut {
			continue
		}
		if !g.spec.satisfiable(counts) {
			continue
		}
		if g.recognitionTimeout > wait {
			wait = g.recognitionTimeout
		}
		if _, exact := g.spec.match(counts); exact && e.certain(ts, g) {
			break
		}
	}
	return wait
}

// certain reports whether an exactly matching g would be recognized with no
// further checks.
func (e *Engine) certain(ts *targetState, g *Gesture) bool {
	if g.conditional != nil || g.repeatCount > 1 {
		return false
	}
	return !g.exclusive || !e.otherActive(ts.target, g)
}

// --- Recognition ---

// recognize ends acquisition and matches the target's contacts against the
// catalog. trigger is the event that forced recognition, nil when a timer did.
// On a miss the postponed events are replayed or discarded.
func (e *Engine) recognize(ts *targetState, trigger *envelope) *Gesture {
	ts.acquire.stop()
	ts.acquiring = false
	ts.recognitionRan = true

	g, perm, propagate := e.match(ts, trigger)
	if g == nil {
		e.stats.Misses++
		e.log.Debug("no gesture recognized",
			slog.String("target", ts.target.Name),
			slog.Bool("propagate", propagate))
		if !e.awaitingCompletion(ts) {
			e.flush(ts, propagate)
		}
		return nil
	}
	e.start(ts, g, perm, trigger)
	if !e.awaitingCompletion(ts) {
		ts.queue.clear()
	}
	return g
}

// match returns the first gesture whose checks all pass, with the matched
// permutation and whether a miss may propagate. A repeating gesture that has
// made partial progress halts the search and suppresses propagation.
func (e *Engine) match(ts *targetState, trigger *envelope) (*Gesture, Permutation, bool) {
	counts := ts.sets.counts()
	propagate := true
	now := e.clock.Now()
	var winner *Gesture
	var winnerPerm Permutation
	for _, g := range e.catalog.forTarget(ts.target) {
		if !e.catalog.IsEnabled(g) {
			continue
		}
		if !g.allowPropagation {
			propagate = false
		}
		if winner != nil || g.IsActive() || g.repeatTimedOut {
			continue
		}
		perm, ok := g.spec.match(counts)
		if !ok {
			continue
		}
		m := e.newMatch(ts, g, perm, trigger)
		if trigger.isRelease() && g.completionTimeout > 0 && m.Elapsed >= g.completionTimeout {
			continue
		}
		if g.conditional != nil && !g.conditional(m) {
			continue
		}
		if g.exclusive && e.otherActive(ts.target, g) {
			continue
		}
		if g.repeatCount > 1 {
			if !g.lastRepeatAt.IsZero() && now.Sub(g.lastRepeatAt) > g.repeatTimeout {
				g.repeatOccurrences = 0
			}
			g.repeatOccurrences++
			g.lastRepeatAt = now
			if g.repeatOccurrences < g.repeatCount {
				e.log.Debug("repeat pending",
					slog.String("gesture", g.name),
					slog.Int("occurrences", g.repeatOccurrences),
					slog.Int("of", g.repeatCount))
				g.repeat.arm(e.sched, g.repeatTimeout, "repeat:"+g.name, func() {
					e.repeatExpired(g)
				})
				return nil, Permutation{}, false
			}
			g.repeat.stop()
			g.repeatOccurrences = 0
			g.lastRepeatAt = time.Time{}
		}
		winner, winnerPerm = g, perm
	}
	return winner, winnerPerm, propagate
}

func (e *Engine) newMatch(ts *targetState, g *Gesture, perm Permutation, trigger *envelope) Match {
	ids, _ := ts.sets.contacts()
	m := Match{
		Gesture:     g,
		Target:      ts.target,
		Pointers:    ids,
		Permutation: perm,
		Elapsed:     e.clock.Now().Sub(ts.sets.earliest()),
		engine:      e,
	}
	if trigger != nil {
		ev := trigger.event
		m.Trigger = &ev
	}
	return m
}

// otherActive reports whether a gesture other than g is active and not
// cancelled on target.
func (e *Engine) otherActive(target *Element, g *Gesture) bool {
	for _, o := range e.catalog.forTarget(target) {
		if o != g && o.IsActive() && !o.cancelled {
			return true
		}
	}
	return false
}

func (e *Engine) awaitingCompletion(ts *targetState) bool {
	for _, g := range e.catalog.forTarget(ts.target) {
		if g.IsActive() && !g.cancelled && g.completion.pending() {
			return true
		}
	}
	return false
}

// --- Start / end / cancel ---

// start activates g with every contact on the target. Active gestures whose
// pointers are all part of the new set are superseded. Capture follows the
// Started handler so the handler may still change hit testing, and is skipped
// when a release triggered recognition.
func (e *Engine) start(ts *targetState, g *Gesture, perm Permutation, trigger *envelope) {
	ids, kinds := ts.sets.contacts()
	for _, o := range e.catalog.forTarget(ts.target) {
		if o != g && o.IsActive() && !o.cancelled && subsetOf(o.active, ids) {
			e.cancel(o, "superseded by "+g.name)
		}
	}

	now := e.clock.Now()
	g.active = ids
	g.kinds = kinds
	g.perm = perm
	g.ordinals = assignOrdinals(perm, ids, kinds)
	g.startedAt = now
	g.endedAt = time.Time{}
	g.cancelled = false
	e.stats.Recognized++
	e.log.Debug("gesture started",
		slog.String("gesture", g.name),
		slog.String("permutation", perm.String()),
		slog.String("target", ts.target.Name))

	e.emit(LifecycleStarted, g, now)
	if g.onStarted != nil {
		g.onStarted(g)
	}
	if !g.IsActive() || g.cancelled {
		return
	}

	released := trigger.isRelease()
	if !released && e.capture.Capture(g) > 0 {
		e.armWatchdog()
	}
	if g.completionTimeout > 0 && !released {
		remaining := g.completionTimeout - now.Sub(ts.sets.earliest())
		g.completion.arm(e.sched, remaining, "completion:"+g.name, func() {
			e.completionExpired(g)
		})
	}
	if g.ink != nil {
		g.ink.Start(g.active[0])
	}
}

// completes reports whether a release inside g's completion window finishes
// it: the window has not run out and the predicate holds for the release.
func (e *Engine) completes(ts *targetState, g *Gesture, release *envelope) bool {
	m := e.newMatch(ts, g, g.perm, release)
	if m.Elapsed >= g.completionTimeout {
		return false
	}
	return g.conditional == nil || g.conditional(m)
}

// end fires Ended for g after one of its pointers lifted.
func (e *Engine) end(ts *targetState, g *Gesture, env *envelope) {
	g.completion.stop()
	e.releaseCapture(g)
	if g.ink != nil {
		g.ink.OnPointerUp(env.event)
	}
	now := e.clock.Now()
	g.endedAt = now
	e.log.Debug("gesture ended", slog.String("gesture", g.name))
	e.emit(LifecycleEnded, g, now)
	if g.onEnded != nil {
		g.onEnded(g)
	}
	g.resetRuntime()

	if g.downgrade {
		ts.downgrade.arm(e.sched, e.downgradeDelay, "downgrade:"+ts.target.Name, func() {
			e.downgradeExpired(ts)
		})
	}
}

// cancel fires Cancelled for g. The gesture keeps its pointers until they
// lift so nothing else claims them mid-stroke.
func (e *Engine) cancel(g *Gesture, reason string) {
	if !g.IsActive() || g.cancelled {
		return
	}
	g.cancelled = true
	g.completion.stop()
	e.releaseCapture(g)
	if g.ink != nil {
		g.ink.Cancel()
	}
	now := e.clock.Now()
	g.endedAt = now
	e.stats.Cancelled++
	e.log.Debug("gesture cancelled",
		slog.String("gesture", g.name),
		slog.String("reason", reason))
	e.emit(LifecycleCancelled, g, now)
	if g.onCancelled != nil {
		g.onCancelled(g)
	}
}

// finish clears a cancelled gesture once its pointers are gone.
func (e *Engine) finish(g *Gesture) {
	e.releaseCapture(g)
	g.resetRuntime()
}

func (e *Engine) releaseCapture(g *Gesture) {
	if !e.capture.Holds(g) {
		return
	}
	if err := e.capture.Release(g); err != nil {
		e.log.Error("pointer capture out of sync",
			slog.String("gesture", g.name),
			slog.Any("error", err))
	}
}

// --- Timer expiry ---

// completionExpired cancels a gesture that outlived its completion window
// and lets the remaining contacts try a simpler gesture.
func (e *Engine) completionExpired(g *Gesture) {
	if !g.IsActive() || g.cancelled {
		return
	}
	ts, ok := e.states[g.target]
	if !ok {
		return
	}
	e.cancel(g, "completion timeout")
	if ts.sets.empty() || ts.acquiring {
		e.flush(ts, e.propagates(ts))
		return
	}
	e.recognize(ts, nil)
}

// repeatExpired resets a repeating gesture whose occurrence gap ran out.
// Contacts still down are re-recognized without it.
func (e *Engine) repeatExpired(g *Gesture) {
	g.repeatOccurrences = 0
	g.lastRepeatAt = time.Time{}
	ts, ok := e.states[g.target]
	if !ok || ts.sets.empty() || g.IsActive() {
		return
	}
	g.repeatTimedOut = true
	if !ts.acquiring {
		e.recognize(ts, nil)
	}
}

func (e *Engine) downgradeExpired(ts *targetState) {
	if ts.sets.empty() || ts.acquiring {
		if ts.sets.empty() && !e.catalog.hasListener(ts.target) {
			delete(e.states, ts.target)
		}
		return
	}
	e.recognize(ts, nil)
}

// --- Helpers ---

func subsetOf(sub, set []PointerID) bool {
	for _, id := range sub {
		if !containsPointer(set, id) {
			return false
		}
	}
	return true
}

func (e *Engine) emit(kind LifecycleKind, g *Gesture, at time.Time) {
	if e.sink == nil {
		return
	}
	pointers := make([]PointerID, len(g.active))
	copy(pointers, g.active)
	e.sink.Emit(LifecycleEvent{
		Kind:     kind,
		Gesture:  g.name,
		Target:   g.target,
		Pointers: pointers,
		At:       at,
	})
}
