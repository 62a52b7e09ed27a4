package config

import (
	"errors"
	"fmt"

	"github.com/phanxgames/gesture"
)

var (
	ErrUnknownTarget  = errors.New("unknown target element")
	ErrUnknownHandler = errors.New("unknown handler")
)

// HandlerSet is the code side of a definition: what runs on each lifecycle
// transition. Any field may be nil.
type HandlerSet struct {
	Started   func(*gesture.Gesture)
	Ended     func(*gesture.Gesture)
	Cancelled func(*gesture.Gesture)
}

// Handlers maps handler names to handler sets. A definition uses the set
// named by its handler field, or the set under its own name.
type Handlers map[string]HandlerSet

func (h Handlers) lookup(d Definition) (HandlerSet, error) {
	if d.Handler == "" {
		return h[d.Name], nil
	}
	set, ok := h[d.Handler]
	if !ok {
		return HandlerSet{}, fmt.Errorf("gesture %q: %w %q", d.Name, ErrUnknownHandler, d.Handler)
	}
	return set, nil
}

// Build creates the gesture d describes on target. The gesture is not
// registered anywhere.
func (d Definition) Build(target *gesture.Element, h Handlers) (*gesture.Gesture, error) {
	if target == nil {
		return nil, fmt.Errorf("gesture %q: %w %q", d.Name, ErrUnknownTarget, d.Target)
	}
	set, err := h.lookup(d)
	if err != nil {
		return nil, err
	}
	g := gesture.New(d.Name, target).
		SetPointerType(d.PointerType).
		SetRecognitionTimeout(ms(d.RecognitionTimeoutMs)).
		SetCompletionTimeout(ms(d.CompletionTimeoutMs)).
		SetRepeatCount(d.RepeatCount).
		SetRepeatTimeout(ms(d.RepeatTimeoutMs)).
		SetExclusive(d.Exclusive).
		SetGroup(d.Group).
		SetDowngrade(d.Downgrade).
		SetEnabled(!d.Disabled)
	if d.CapturesPointers != nil {
		g.SetCapturesPointers(*d.CapturesPointers)
	}
	if d.AllowPropagation != nil {
		g.SetAllowPropagation(*d.AllowPropagation)
	}
	if d.When != "" {
		program, err := compileWhen(d.When)
		if err != nil {
			return nil, fmt.Errorf("gesture %q: %w", d.Name, err)
		}
		g.SetConditional(conditional(program))
	}
	if set.Started != nil {
		g.OnStarted(set.Started)
	}
	if set.Ended != nil {
		g.OnEnded(set.Ended)
	}
	if set.Cancelled != nil {
		g.OnCancelled(set.Cancelled)
	}
	return g, nil
}

// Apply validates f, builds every definition against the surface's elements,
// found by name, and registers them in file order. Gestures already
// registered under the same names are replaced, so applying a reloaded file
// updates it in place. On any error the catalog is left untouched.
func Apply(s *gesture.Surface, f *File, h Handlers) ([]*gesture.Gesture, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	built := make([]*gesture.Gesture, 0, len(f.Gestures))
	for _, d := range f.Gestures {
		g, err := d.Build(s.Find(d.Target), h)
		if err != nil {
			return nil, err
		}
		built = append(built, g)
	}
	if err := s.Engine().Catalog().Replace(built...); err != nil {
		return nil, err
	}
	return built, nil
}
