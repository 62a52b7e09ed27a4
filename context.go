package gesture

import (
	"log/slog"
	"time"
)

// Host is the element system the engine runs against: it resolves parents,
// routes pointers, delivers replayed events, and installs listeners.
// Surface is the bundled implementation.
type Host interface {
	// Parent returns the element events propagate to from e, or nil at the root.
	Parent(e *Element) *Element
	// CapturePointer routes all further events of id to e.
	CapturePointer(e *Element, id PointerID)
	// ReleasePointer undoes CapturePointer.
	ReleasePointer(e *Element, id PointerID)
	// Redispatch delivers a replayed event to e and lets it bubble from there.
	Redispatch(e *Element, ev PointerEvent, r Redispatch)
	// Listen installs the engine's listener on e ahead of user listeners.
	Listen(e *Element, fn Listener) ListenerHandle
	// Inject feeds a synthetic event through normal routing.
	Inject(ev PointerEvent)
}

// Options configures an Engine. The zero value is usable.
type Options struct {
	// Clock defaults to SystemClock.
	Clock Clock
	// Logger receives engine diagnostics. Nil discards them.
	Logger *slog.Logger
	// Watchdog enables stuck-pointer recovery when non-nil.
	Watchdog *Watchdog
	// DowngradeDelay is the pause before re-recognition after a gesture that
	// opted into downgrading ends. Default 200ms.
	DowngradeDelay time.Duration
	// Sink receives lifecycle events when non-nil.
	Sink Sink
}

const defaultDowngradeDelay = 200 * time.Millisecond

// Engine is one recognition context: the catalog, pointer state, queues, and
// capture table of a single root surface. Engines share nothing, so several
// surfaces can run side by side. An Engine is not safe for concurrent use;
// drive it from one goroutine.
type Engine struct {
	host    Host
	clock   Clock
	sched   *Scheduler
	log     *slog.Logger
	catalog *Catalog
	capture *CaptureManager
	sink    Sink

	states map[*Element]*targetState
	downOn map[PointerID]*Element

	downgradeDelay time.Duration
	watchdog       *Watchdog
	watchdogTimer  timerSlot

	stats Stats
	debug bool
}

// NewEngine creates an engine bound to host.
func NewEngine(host Host, opts Options) *Engine {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock
	}
	e := &Engine{
		host:           host,
		clock:          clock,
		sched:          NewScheduler(clock),
		log:            resolveLogger(opts.Logger),
		capture:        newCaptureManager(host),
		sink:           opts.Sink,
		states:         make(map[*Element]*targetState),
		downOn:         make(map[PointerID]*Element),
		downgradeDelay: opts.DowngradeDelay,
	}
	if e.downgradeDelay <= 0 {
		e.downgradeDelay = defaultDowngradeDelay
	}
	if opts.Watchdog != nil {
		wd := *opts.Watchdog
		if wd.Interval <= 0 {
			wd.Interval = defaultWatchdogInterval
		}
		if wd.Silence <= 0 {
			wd.Silence = defaultWatchdogSilence
		}
		if wd.Recover == nil {
			wd.Recover = e.injectUp
		}
		e.watchdog = &wd
	}
	e.catalog = newCatalog(e)
	return e
}

// Add registers g with the engine's catalog.
func (e *Engine) Add(g *Gesture) error { return e.catalog.Add(g) }

// Catalog returns the gesture registry.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Captures returns the pointer capture table.
func (e *Engine) Captures() *CaptureManager { return e.capture }

// Scheduler returns the engine's timer queue. The host must call RunDue
// regularly; Surface.Update does.
func (e *Engine) Scheduler() *Scheduler { return e.sched }

// Clock returns the engine clock.
func (e *Engine) Clock() Clock { return e.clock }

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger { return e.log }

// Close cancels every active gesture, releases captures, and removes all
// gestures and listeners.
func (e *Engine) Close() {
	for _, g := range e.catalog.All() {
		e.catalog.Remove(g.name)
	}
	e.watchdogTimer.stop()
}

// retire takes g out of play before it leaves the catalog.
func (e *Engine) retire(g *Gesture) {
	if g.IsActive() {
		e.cancel(g, "removed")
		e.finish(g)
	}
	g.repeat.stop()
	g.repeatOccurrences = 0
	g.lastRepeatAt = time.Time{}
	g.engine = nil
}

// listenerFor returns the ingestion listener installed on target. Events the
// target itself replayed are left to user listeners.
func (e *Engine) listenerFor(target *Element) Listener {
	return func(ev *Event) {
		if ev.Redispatch != nil && ev.Redispatch.Origin == target {
			return
		}
		e.ingest(target, ev)
	}
}
