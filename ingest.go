package gesture

import "log/slog"

// ingest is the entry point for every event reaching a target that carries
// gestures. It wraps the host event in an envelope stamped with the engine
// clock and routes it by kind.
func (e *Engine) ingest(target *Element, ev *Event) {
	env := &envelope{
		event:      ev.PointerEvent,
		target:     target,
		at:         e.clock.Now(),
		redispatch: ev.Redispatch,
	}
	if e.debug {
		e.log.Debug("ingest",
			slog.String("event", ev.Kind.String()),
			slog.String("pointer", ev.Pointer.String()),
			slog.String("target", target.Name),
			slog.Bool("replayed", ev.Redispatch != nil))
	}

	switch ev.Kind {
	case EventDown:
		e.onContact(target, env, ev, env.pointer().Type)
	case EventEnter:
		if ev.Buttons != 0 || (ev.Pointer.Type != PointerPen && ev.Pointer.Type != PointerMouse) {
			return
		}
		env.event.Kind = EventHoverStart
		e.onContact(target, env, ev, PointerHover)
	case EventHoverStart:
		e.onContact(target, env, ev, PointerHover)
	case EventMove:
		e.onMove(target, env, ev)
	case EventUp:
		e.onRelease(target, env, ev)
	case EventLeave:
		e.onRelease(target, env, ev)
	case EventCancel:
		e.onCancel(target, env)
	}
}

// onContact handles a down or hover-start. Kinds no enabled gesture on the
// target uses pass through untouched.
func (e *Engine) onContact(target *Element, env *envelope, ev *Event, kind PointerType) {
	if !e.catalog.usesKind(target, kind) {
		return
	}
	ts := e.state(target)
	id := env.pointer()
	if ts.sets.isDown(id) || (kind == PointerHover && ts.sets.has(id)) {
		return
	}
	ts.downgrade.stop()
	e.addPointer(ts, env)
	e.postpone(ts, env, ev)
	e.beginAcquisition(ts, env)
}

// onMove records the latest position, feeds inking, and withholds the move
// while recognition is pending.
func (e *Engine) onMove(target *Element, env *envelope, ev *Event) {
	ts, ok := e.states[target]
	id := env.pointer()
	if !ok || !ts.sets.has(id) {
		return
	}
	ts.sets.move[id] = env
	e.capture.touch(id, env.at)
	for _, g := range e.catalog.forTarget(target) {
		if g.ink != nil && !g.cancelled && g.usesPointer(id) {
			g.ink.OnPointerMove(env.event)
		}
	}
	if ts.acquiring || e.awaitingCompletion(ts) {
		e.postpone(ts, env, ev)
	}
}

// onRelease handles an up, or a leave of a tracked pointer. A release during
// acquisition recognizes on the spot with the release as trigger.
func (e *Engine) onRelease(target *Element, env *envelope, ev *Event) {
	ts, ok := e.states[target]
	if !ok || !ts.sets.has(env.pointer()) {
		return
	}
	if env.kind() == EventUp && !ts.sets.isDown(env.pointer()) {
		return
	}
	e.capture.touch(env.pointer(), env.at)
	switch {
	case ts.acquiring:
		e.postpone(ts, env, ev)
		e.recognize(ts, env)
	case e.awaitingCompletion(ts):
		e.postpone(ts, env, ev)
	}
	e.removePointer(ts, env)
}

// onCancel drops a pointer the platform took away. Gestures using it are
// cancelled rather than ended.
func (e *Engine) onCancel(target *Element, env *envelope) {
	ts, ok := e.states[target]
	if !ok || !ts.sets.has(env.pointer()) {
		return
	}
	e.removePointer(ts, env)
}
