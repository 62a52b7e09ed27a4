package gesture

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Gesture is a named pattern of one or more concurrent pointers on a target
// element. Configure it with the chained setters, then register it with
// Engine.Add. Identity (name and target) is fixed at construction.
type Gesture struct {
	name   string
	target *Element

	spec     PointerSpec
	parseErr error

	conditional        func(Match) bool
	exclusive          bool
	enabled            bool
	group              string
	recognitionTimeout time.Duration
	completionTimeout  time.Duration
	repeatCount        int
	repeatTimeout      time.Duration
	capturesPointers   bool
	allowPropagation   bool
	downgrade          bool
	ink                Ink

	onStarted   func(*Gesture)
	onEnded     func(*Gesture)
	onCancelled func(*Gesture)

	engine *Engine

	// Runtime; reset on every end, cancel, and timeout.
	active            []PointerID
	kinds             []PointerType // contact kind of active[i]
	ordinals          []PointerID   // {P1}..{Pn} in permutation term order
	perm              Permutation
	startedAt         time.Time
	endedAt           time.Time
	cancelled         bool
	repeatOccurrences int
	lastRepeatAt      time.Time
	repeatTimedOut    bool
	completion        timerSlot
	repeat            timerSlot
}

// New creates an enabled gesture that captures its pointers and allows
// propagation of events it does not claim.
func New(name string, target *Element) *Gesture {
	return &Gesture{
		name:             name,
		target:           target,
		enabled:          true,
		repeatCount:      1,
		capturesPointers: true,
		allowPropagation: true,
	}
}

// --- Configuration ---

// SetPointerType parses and sets the pointer-type expression, for example
// "touch:2" or "pen|touch+mouse". Parse errors surface from Engine.Add.
func (g *Gesture) SetPointerType(expr string) *Gesture {
	g.spec, g.parseErr = ParsePointerType(expr)
	return g
}

// SetConditional sets a predicate evaluated against each candidate match.
func (g *Gesture) SetConditional(fn func(Match) bool) *Gesture {
	g.conditional = fn
	return g
}

// SetRecognitionTimeout sets how long to wait for further pointers before
// recognizing. Multi-pointer gestures require a non-zero value.
func (g *Gesture) SetRecognitionTimeout(d time.Duration) *Gesture {
	g.recognitionTimeout = d
	return g
}

// SetCompletionTimeout bounds how long the gesture may stay active before it
// is cancelled. A release inside the window completes it.
func (g *Gesture) SetCompletionTimeout(d time.Duration) *Gesture {
	g.completionTimeout = d
	return g
}

// SetRepeatCount sets how many occurrences within the repeat timeout are
// needed to recognize (2 for a double tap).
func (g *Gesture) SetRepeatCount(n int) *Gesture {
	if n < 1 {
		n = 1
	}
	g.repeatCount = n
	return g
}

// SetRepeatTimeout sets the maximum gap between occurrences.
func (g *Gesture) SetRepeatTimeout(d time.Duration) *Gesture {
	g.repeatTimeout = d
	return g
}

// OnStarted sets the handler run when the gesture is recognized.
func (g *Gesture) OnStarted(fn func(*Gesture)) *Gesture {
	g.onStarted = fn
	return g
}

// OnEnded sets the handler run when the gesture's pointers lift normally.
func (g *Gesture) OnEnded(fn func(*Gesture)) *Gesture {
	g.onEnded = fn
	return g
}

// OnCancelled sets the handler run when an activation is cancelled,
// superseded, or timed out.
func (g *Gesture) OnCancelled(fn func(*Gesture)) *Gesture {
	g.onCancelled = fn
	return g
}

// SetExclusive makes the gesture recognizable only while no other gesture on
// its target is active.
func (g *Gesture) SetExclusive(v bool) *Gesture {
	g.exclusive = v
	return g
}

// SetCapturesPointers controls whether the gesture's pointers are captured to
// its target while it is active.
func (g *Gesture) SetCapturesPointers(v bool) *Gesture {
	g.capturesPointers = v
	return g
}

// SetGroup assigns the gesture to a group for Catalog.EnableGroup/DisableGroup.
func (g *Gesture) SetGroup(name string) *Gesture {
	g.group = name
	return g
}

// SetAllowPropagation controls whether a failed recognition on the target may
// replay postponed events to the parent. One gesture disallowing it vetoes
// propagation for the whole target.
func (g *Gesture) SetAllowPropagation(v bool) *Gesture {
	g.allowPropagation = v
	return g
}

// SetDowngrade opts the gesture into re-recognition shortly after it ends, so
// the remaining pointers can start a simpler gesture.
func (g *Gesture) SetDowngrade(v bool) *Gesture {
	g.downgrade = v
	return g
}

// SetInk attaches an inking collaborator fed with the gesture's pointer stream.
func (g *Gesture) SetInk(ink Ink) *Gesture {
	g.ink = ink
	return g
}

// SetEnabled enables or disables the gesture.
func (g *Gesture) SetEnabled(v bool) *Gesture {
	g.enabled = v
	return g
}

// --- Getters ---

// Name returns the gesture's unique name.
func (g *Gesture) Name() string { return g.name }

// Target returns the element the gesture is defined on.
func (g *Gesture) Target() *Element { return g.target }

// PointerType returns the parsed pointer-type expression.
func (g *Gesture) PointerType() PointerSpec { return g.spec }

// Conditional returns the match predicate, nil when none is set.
func (g *Gesture) Conditional() func(Match) bool { return g.conditional }

// RecognitionTimeout returns how long acquisition may wait for this gesture.
func (g *Gesture) RecognitionTimeout() time.Duration { return g.recognitionTimeout }

// CompletionTimeout returns the window in which the pointers must lift.
func (g *Gesture) CompletionTimeout() time.Duration { return g.completionTimeout }

// RepeatCount returns the occurrences needed for recognition.
func (g *Gesture) RepeatCount() int { return g.repeatCount }

// RepeatTimeout returns the longest pause allowed between occurrences.
func (g *Gesture) RepeatTimeout() time.Duration { return g.repeatTimeout }

// IsExclusive reports whether the gesture refuses to start beside others.
func (g *Gesture) IsExclusive() bool { return g.exclusive }

// CapturesPointers reports whether the gesture captures its pointers.
func (g *Gesture) CapturesPointers() bool { return g.capturesPointers }

// Group returns the gesture's group, empty when ungrouped.
func (g *Gesture) Group() string { return g.group }

// AllowsPropagation reports whether a miss may replay events to the parent.
func (g *Gesture) AllowsPropagation() bool { return g.allowPropagation }

// Downgrades reports whether the gesture re-recognizes after it ends.
func (g *Gesture) Downgrades() bool { return g.downgrade }

// Ink returns the inking collaborator, nil when none is attached.
func (g *Gesture) Ink() Ink { return g.ink }

// IsEnabled reports the gesture's own flag. A gesture in a disabled group is
// still skipped by recognition; see Catalog.IsEnabled.
func (g *Gesture) IsEnabled() bool { return g.enabled }

// --- Lifecycle queries ---

// IsActive reports whether the gesture holds pointers. A cancelled gesture
// stays active until its pointers lift.
func (g *Gesture) IsActive() bool { return len(g.active) > 0 }

// IsCancelled reports whether the current activation was cancelled.
func (g *Gesture) IsCancelled() bool { return g.cancelled }

// ActivePointers returns the pointers the gesture holds in first-contact
// order. The slice MUST NOT be mutated.
func (g *Gesture) ActivePointers() []PointerID { return g.active }

// Permutation returns the permutation the active gesture was recognized with.
func (g *Gesture) Permutation() Permutation { return g.perm }

// StartedAt returns when the latest activation started.
func (g *Gesture) StartedAt() time.Time { return g.startedAt }

// EndedAt returns when the latest activation ended or was cancelled.
func (g *Gesture) EndedAt() time.Time { return g.endedAt }

// RepeatOccurrences returns the occurrences counted toward RepeatCount so far.
func (g *Gesture) RepeatOccurrences() int { return g.repeatOccurrences }

// PointerID resolves an ordinal expression against the active gesture.
// "{P2}" is the second pointer in permutation term order; "touch:2" is the
// second touch pointer.
func (g *Gesture) PointerID(expr string) (PointerID, error) {
	if !g.IsActive() {
		return PointerID{}, fmt.Errorf("gesture: %q: %w", g.name, ErrNotActive)
	}
	s := strings.ToLower(strings.TrimSpace(expr))
	if strings.HasPrefix(s, "{p") && strings.HasSuffix(s, "}") {
		n, err := strconv.Atoi(s[2 : len(s)-1])
		if err != nil || n < 1 || n > len(g.ordinals) {
			return PointerID{}, fmt.Errorf("gesture: %q: %w %q", g.name, ErrBadOrdinal, expr)
		}
		return g.ordinals[n-1], nil
	}
	name, num, ok := strings.Cut(s, ":")
	kind, known := parsePointerKind(name)
	n, err := strconv.Atoi(num)
	if !ok || !known || err != nil || n < 1 {
		return PointerID{}, fmt.Errorf("gesture: %q: %w %q", g.name, ErrBadOrdinal, expr)
	}
	seen := 0
	for i, id := range g.ordinals {
		if g.ordinalKind(i) != kind {
			continue
		}
		seen++
		if seen == n {
			return id, nil
		}
	}
	return PointerID{}, fmt.Errorf("gesture: %q: %w %q", g.name, ErrBadOrdinal, expr)
}

// Cancel cancels the active gesture. Its pointers stay with it until they
// lift, so no other gesture claims them in the meantime.
func (g *Gesture) Cancel() error {
	if !g.IsActive() || g.engine == nil {
		return fmt.Errorf("gesture: cancel %q: %w", g.name, ErrNotActive)
	}
	g.engine.cancel(g, "explicit")
	return nil
}

// String renders the gesture as Gesture(name, pointer type).
func (g *Gesture) String() string {
	return fmt.Sprintf("Gesture(%s, %s)", g.name, g.spec.Source())
}

// --- Runtime helpers ---

func (g *Gesture) usesPointer(id PointerID) bool {
	for _, p := range g.active {
		if p == id {
			return true
		}
	}
	return false
}

// ordinalKind returns the contact kind the permutation assigned to ordinal i.
func (g *Gesture) ordinalKind(i int) PointerType {
	for _, t := range g.perm.Terms {
		if i < t.Count {
			return t.Kind
		}
		i -= t.Count
	}
	return PointerUnknown
}

// assignOrdinals numbers contacts by the permutation's written term order,
// taking pointers of each kind in first-contact order.
func assignOrdinals(perm Permutation, ids []PointerID, kinds []PointerType) []PointerID {
	var next [numPointerKinds]int
	out := make([]PointerID, 0, len(ids))
	for _, t := range perm.Terms {
		for c := 0; c < t.Count; c++ {
			for next[t.Kind] < len(ids) && kinds[next[t.Kind]] != t.Kind {
				next[t.Kind]++
			}
			if next[t.Kind] == len(ids) {
				break
			}
			out = append(out, ids[next[t.Kind]])
			next[t.Kind]++
		}
	}
	return out
}

func (g *Gesture) resetRuntime() {
	g.completion.stop()
	g.active = nil
	g.kinds = nil
	g.ordinals = nil
	g.perm = Permutation{}
	g.cancelled = false
}

// --- Match ---

// Match describes a candidate recognition handed to a Conditional. Lookups
// see the target's contacts at the time of the check.
type Match struct {
	Gesture     *Gesture
	Target      *Element
	Pointers    []PointerID // contacts in first-contact order
	Permutation Permutation
	Trigger     *PointerEvent // event that caused the check; nil for timer-driven checks
	Elapsed     time.Duration // since the earliest first contact

	engine *Engine
}

// DownEvent returns the event that put id in contact.
func (m Match) DownEvent(id PointerID) (PointerEvent, bool) {
	return m.engine.DownEvent(id, m.Target)
}

// LatestMove returns the most recent move of id.
func (m Match) LatestMove(id PointerID) (PointerEvent, bool) {
	return m.engine.LatestMove(id, m.Target)
}

// Position returns the current position of id: the trigger if it belongs to
// id, else the latest move, else the down position.
func (m Match) Position(id PointerID) (Vec2, bool) {
	if m.Trigger != nil && m.Trigger.Pointer == id {
		return m.Trigger.Pos(), true
	}
	if ev, ok := m.LatestMove(id); ok {
		return ev.Pos(), true
	}
	if ev, ok := m.DownEvent(id); ok {
		return ev.Pos(), true
	}
	return Vec2{}, false
}

// Distance returns how far id has travelled from its down position.
func (m Match) Distance(id PointerID) float64 {
	down, ok := m.DownEvent(id)
	if !ok {
		return 0
	}
	p, _ := m.Position(id)
	return math.Hypot(p.X-down.X, p.Y-down.Y)
}

// MaxDistance returns the largest Distance over all contacts.
func (m Match) MaxDistance() float64 {
	most := 0.0
	for _, id := range m.Pointers {
		if d := m.Distance(id); d > most {
			most = d
		}
	}
	return most
}
