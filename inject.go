package gesture

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// injectedEvent is a synthetic pointer event due at a point on the engine
// clock. Update consumes due events in order, interleaved with due timers.
type injectedEvent struct {
	ev PointerEvent
	at time.Time
}

// Inject queues ev for the next Update. Events already scheduled ahead keep
// their place: ev runs after them.
func (s *Surface) Inject(ev PointerEvent) {
	s.enqueue(ev, s.cursor())
}

// InjectWait advances the injection timeline by d, so the next injected
// event is due d after the previous one.
func (s *Surface) InjectWait(d time.Duration) {
	s.injectAt = s.cursor().Add(d)
}

// InjectDown queues a contact for id at (x, y).
func (s *Surface) InjectDown(id PointerID, x, y float64) {
	s.Inject(PointerEvent{Kind: EventDown, Pointer: id, Buttons: ButtonPrimary, X: x, Y: y})
}

// InjectMove queues a move of id to (x, y) with the primary button held.
func (s *Surface) InjectMove(id PointerID, x, y float64) {
	s.Inject(PointerEvent{Kind: EventMove, Pointer: id, Buttons: ButtonPrimary, X: x, Y: y})
}

// InjectHover queues a move of id to (x, y) with no button held.
func (s *Surface) InjectHover(id PointerID, x, y float64) {
	s.Inject(PointerEvent{Kind: EventMove, Pointer: id, X: x, Y: y})
}

// InjectUp queues the release of id at (x, y).
func (s *Surface) InjectUp(id PointerID, x, y float64) {
	s.Inject(PointerEvent{Kind: EventUp, Pointer: id, X: x, Y: y})
}

// InjectCancel queues a platform cancel of id.
func (s *Surface) InjectCancel(id PointerID) {
	s.Inject(PointerEvent{Kind: EventCancel, Pointer: id})
}

// InjectTap queues a down at (x, y) and an up hold later at the same spot.
func (s *Surface) InjectTap(id PointerID, x, y float64, hold time.Duration) {
	s.InjectDown(id, x, y)
	s.InjectWait(hold)
	s.InjectUp(id, x, y)
}

// InjectDrag queues a full drag of id: a down at (fromX, fromY), steps moves
// spread over d along the easing curve, and an up at (toX, toY). A nil easing
// is linear.
func (s *Surface) InjectDrag(id PointerID, fromX, fromY, toX, toY float64, d time.Duration, steps int, easing ease.TweenFunc) {
	if steps < 1 {
		steps = 1
	}
	if easing == nil {
		easing = ease.Linear
	}
	secs := float32(d.Seconds())
	tx := gween.New(float32(fromX), float32(toX), secs, easing)
	ty := gween.New(float32(fromY), float32(toY), secs, easing)
	dt := d / time.Duration(steps)

	s.InjectDown(id, fromX, fromY)
	for i := 1; i <= steps; i++ {
		s.InjectWait(dt)
		x, _ := tx.Update(float32(dt.Seconds()))
		y, _ := ty.Update(float32(dt.Seconds()))
		if i == steps {
			s.InjectMove(id, toX, toY)
			break
		}
		s.InjectMove(id, float64(x), float64(y))
	}
	s.InjectUp(id, toX, toY)
}

// PendingInjected returns the number of injected events not yet delivered.
func (s *Surface) PendingInjected() int {
	return len(s.injectQueue)
}

// cursor is the due time of the next injected event: never in the past.
func (s *Surface) cursor() time.Time {
	now := s.clock.Now()
	if s.injectAt.Before(now) {
		return now
	}
	return s.injectAt
}

func (s *Surface) enqueue(ev PointerEvent, at time.Time) {
	s.injectAt = at
	i := len(s.injectQueue)
	for i > 0 && s.injectQueue[i-1].at.After(at) {
		i--
	}
	s.injectQueue = append(s.injectQueue, injectedEvent{})
	copy(s.injectQueue[i+1:], s.injectQueue[i:])
	s.injectQueue[i] = injectedEvent{ev: ev, at: at}
}
