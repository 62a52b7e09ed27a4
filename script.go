package gesture

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tanema/gween/ease"
)

// scriptStep is a single action in a pointer script.
type scriptStep struct {
	Action  string  `json:"action"`
	Pointer string  `json:"pointer,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	FromX   float64 `json:"fromX,omitempty"`
	FromY   float64 `json:"fromY,omitempty"`
	ToX     float64 `json:"toX,omitempty"`
	ToY     float64 `json:"toY,omitempty"`
	Ms      int     `json:"ms,omitempty"`
	Steps   int     `json:"steps,omitempty"`
	Ease    string  `json:"ease,omitempty"`

	id PointerID
}

// script is the top-level JSON structure of a pointer script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

var easings = map[string]ease.TweenFunc{
	"":          ease.Linear,
	"linear":    ease.Linear,
	"inQuad":    ease.InQuad,
	"outQuad":   ease.OutQuad,
	"inOutQuad": ease.InOutQuad,
	"inCubic":   ease.InCubic,
	"outCubic":  ease.OutCubic,
	"inOutSine": ease.InOutSine,
}

// ScriptRunner plays a scripted pointer scenario against a surface.
//
//	{"steps": [
//	  {"action": "down", "pointer": "touch:1", "x": 10, "y": 10},
//	  {"action": "wait", "ms": 50},
//	  {"action": "up", "pointer": "touch:1", "x": 11, "y": 11}
//	]}
//
// Actions: down, move, hover, up, cancel, tap (ms = hold), drag (fromX..toY,
// ms, steps, ease), wait (ms).
type ScriptRunner struct {
	steps []scriptStep
}

// LoadScript parses and validates a JSON pointer script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("parse pointer script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse pointer script: no steps")
	}
	for i := range sc.Steps {
		st := &sc.Steps[i]
		switch st.Action {
		case "wait":
			continue
		case "down", "move", "hover", "up", "cancel", "tap", "drag":
		default:
			return nil, fmt.Errorf("parse pointer script: step %d: unknown action %q", i, st.Action)
		}
		id, err := ParsePointerID(st.Pointer)
		if err != nil {
			return nil, fmt.Errorf("parse pointer script: step %d: %w", i, err)
		}
		st.id = id
		if _, ok := easings[st.Ease]; !ok {
			return nil, fmt.Errorf("parse pointer script: step %d: unknown ease %q", i, st.Ease)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

// Len returns the number of steps.
func (r *ScriptRunner) Len() int { return len(r.steps) }

// Schedule queues every step on the surface's injection timeline. Nothing is
// delivered until Update runs with the clock past each event.
func (r *ScriptRunner) Schedule(s *Surface) {
	for _, st := range r.steps {
		ms := time.Duration(st.Ms) * time.Millisecond
		switch st.Action {
		case "wait":
			s.InjectWait(ms)
		case "down":
			s.InjectDown(st.id, st.X, st.Y)
		case "move":
			s.InjectMove(st.id, st.X, st.Y)
		case "hover":
			s.InjectHover(st.id, st.X, st.Y)
		case "up":
			s.InjectUp(st.id, st.X, st.Y)
		case "cancel":
			s.InjectCancel(st.id)
		case "tap":
			s.InjectTap(st.id, st.X, st.Y, ms)
		case "drag":
			s.InjectDrag(st.id, st.FromX, st.FromY, st.ToX, st.ToY, ms, st.Steps, easings[st.Ease])
		}
	}
}

// Play schedules the script and runs it to completion on a virtual clock:
// the clock jumps to each injected event or timer in turn until neither is
// left. It returns how far the clock advanced.
func (r *ScriptRunner) Play(s *Surface, clock *VirtualClock) time.Duration {
	start := clock.Now()
	r.Schedule(s)
	for {
		s.Update()
		next, ok := s.nextDue()
		if !ok {
			break
		}
		clock.Advance(next.Sub(clock.Now()))
	}
	return clock.Now().Sub(start)
}

// nextDue returns the earliest pending injected event or timer.
func (s *Surface) nextDue() (time.Time, bool) {
	next, ok := s.engine.sched.NextDeadline()
	if len(s.injectQueue) > 0 && (!ok || s.injectQueue[0].at.Before(next)) {
		next, ok = s.injectQueue[0].at, true
	}
	return next, ok
}
