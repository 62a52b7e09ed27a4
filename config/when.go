package config

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/phanxgames/gesture"
)

// Env is what a `when` expression sees. Times are in milliseconds and
// distances in surface units.
//
//	when = "Pointers == 2 && MaxDistance > 20"
//	when = "Trigger == 'up' && Elapsed < 120"
type Env struct {
	Pointers    int     // active contacts
	Touch       int     // touch contacts
	Pen         int     // pen contacts
	Mouse       int     // mouse contacts
	Hover       int     // hovering contacts
	Elapsed     float64 // since the earliest first contact
	MaxDistance float64 // largest travel of any contact
	Trigger     string  // event kind that forced the check; "" for a timer
	X, Y        float64 // trigger position, or the first contact's position
}

func compileWhen(src string) (*vm.Program, error) {
	program, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("bad expression: %w", err)
	}
	return program, nil
}

func envOf(m gesture.Match) Env {
	env := Env{
		Pointers:    len(m.Pointers),
		Touch:       m.Permutation.Count(gesture.PointerTouch),
		Pen:         m.Permutation.Count(gesture.PointerPen),
		Mouse:       m.Permutation.Count(gesture.PointerMouse),
		Hover:       m.Permutation.Count(gesture.PointerHover),
		Elapsed:     float64(m.Elapsed.Microseconds()) / 1000,
		MaxDistance: m.MaxDistance(),
	}
	if m.Trigger != nil {
		env.Trigger = m.Trigger.Kind.String()
		env.X, env.Y = m.Trigger.X, m.Trigger.Y
	} else if len(m.Pointers) > 0 {
		if p, ok := m.Position(m.Pointers[0]); ok {
			env.X, env.Y = p.X, p.Y
		}
	}
	return env
}

// conditional wraps a compiled expression as a gesture conditional. A
// runtime error rejects the match.
func conditional(program *vm.Program) func(gesture.Match) bool {
	return func(m gesture.Match) bool {
		out, err := expr.Run(program, envOf(m))
		if err != nil {
			return false
		}
		ok, _ := out.(bool)
		return ok
	}
}
