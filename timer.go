package gesture

import "time"

// Clock supplies the engine's notion of now. Native event timestamps are not
// used for timing decisions.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// VirtualClock is a manually advanced clock for deterministic tests and
// scripted playback.
type VirtualClock struct {
	now time.Time
}

// NewVirtualClock returns a clock frozen at start.
func NewVirtualClock(start time.Time) *VirtualClock {
	return &VirtualClock{now: start}
}

// Now returns the current virtual time.
func (c *VirtualClock) Now() time.Time { return c.now }

// Advance moves the clock forward by d. Negative durations are ignored.
func (c *VirtualClock) Advance(d time.Duration) {
	if d > 0 {
		c.now = c.now.Add(d)
	}
}

// --- Scheduler ---

// Timer is a cancellable handle returned by Scheduler.Schedule.
type Timer struct {
	label    string
	deadline time.Time
	seq      uint64
	fn       func()
	pending  bool
}

// Stop cancels the timer. It reports whether the timer was still pending.
func (t *Timer) Stop() bool {
	if t == nil || !t.pending {
		return false
	}
	t.pending = false
	return true
}

// Pending reports whether the timer has neither fired nor been stopped.
func (t *Timer) Pending() bool { return t != nil && t.pending }

// Label returns the diagnostic label given at scheduling time.
func (t *Timer) Label() string { return t.label }

// Deadline returns the time the timer is due.
func (t *Timer) Deadline() time.Time { return t.deadline }

// Scheduler is a cooperative timer queue. Nothing fires on its own: the host
// calls RunDue from its event loop, so callbacks run on the same goroutine as
// pointer handling.
type Scheduler struct {
	clock  Clock
	timers []*Timer
	seq    uint64
}

// NewScheduler creates a scheduler reading time from clock.
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock
	}
	return &Scheduler{clock: clock}
}

// Schedule arranges for fn to run once delay has elapsed.
func (s *Scheduler) Schedule(delay time.Duration, label string, fn func()) *Timer {
	if delay < 0 {
		delay = 0
	}
	s.seq++
	t := &Timer{
		label:    label,
		deadline: s.clock.Now().Add(delay),
		seq:      s.seq,
		fn:       fn,
		pending:  true,
	}
	s.timers = append(s.timers, t)
	return t
}

// Pending returns the number of timers that have not fired or been stopped.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if t.pending {
			n++
		}
	}
	return n
}

// NextDeadline returns the earliest pending deadline.
func (s *Scheduler) NextDeadline() (time.Time, bool) {
	next := s.next()
	if next == nil {
		return time.Time{}, false
	}
	return next.deadline, true
}

// RunDue fires every timer whose deadline has passed, earliest first and in
// scheduling order for equal deadlines. Timers scheduled by callbacks fire in
// the same call if they are already due. Returns the number fired.
func (s *Scheduler) RunDue() int {
	fired := 0
	for s.runNext(s.clock.Now()) {
		fired++
	}
	return fired
}

// runNext fires the earliest timer due at or before now.
func (s *Scheduler) runNext(now time.Time) bool {
	s.compact()
	t := s.next()
	if t == nil || t.deadline.After(now) {
		return false
	}
	t.pending = false
	t.fn()
	return true
}

func (s *Scheduler) next() *Timer {
	var best *Timer
	for _, t := range s.timers {
		if !t.pending {
			continue
		}
		if best == nil || t.deadline.Before(best.deadline) ||
			(t.deadline.Equal(best.deadline) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

// compact drops fired and stopped timers.
func (s *Scheduler) compact() {
	n := 0
	for _, t := range s.timers {
		if t.pending {
			s.timers[n] = t
			n++
		}
	}
	for i := n; i < len(s.timers); i++ {
		s.timers[i] = nil
	}
	s.timers = s.timers[:n]
}

// --- Keyed slots ---

// timerSlot holds at most one timer. Arming a slot stops whatever it held, so
// timers of one class never stack for the same key.
type timerSlot struct {
	t *Timer
}

func (ts *timerSlot) arm(s *Scheduler, delay time.Duration, label string, fn func()) {
	ts.stop()
	ts.t = s.Schedule(delay, label, fn)
}

func (ts *timerSlot) stop() bool {
	if ts.t == nil {
		return false
	}
	stopped := ts.t.Stop()
	ts.t = nil
	return stopped
}

func (ts *timerSlot) pending() bool {
	return ts.t.Pending()
}
