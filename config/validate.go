package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/phanxgames/gesture"
)

// ValidationError is a problem with one field of a definition file.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in a file.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the whole file and reports every problem at once. Element
// names are not checked here; Apply resolves them against a surface.
func (f *File) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if f.Version < 1 || f.Version > Version {
		add("version", "unsupported version %d", f.Version)
	}
	if _, err := f.Logging.Logger(io.Discard); err != nil {
		add("logging", "%v", err)
	}
	if f.Engine.DowngradeDelayMs < 0 {
		add("engine.downgrade_delay_ms", "must not be negative")
	}
	if wd := f.Engine.Watchdog; wd != nil && (wd.IntervalMs < 0 || wd.SilenceMs < 0) {
		add("engine.watchdog", "durations must not be negative")
	}

	seen := make(map[string]bool, len(f.Gestures))
	for i, d := range f.Gestures {
		field := fmt.Sprintf("gesture[%d]", i)
		if d.Name != "" {
			field = fmt.Sprintf("gesture %q", d.Name)
		}
		switch {
		case d.Name == "":
			add(field, "missing name")
		case seen[d.Name]:
			add(field, "duplicate name")
		}
		seen[d.Name] = true
		if d.Target == "" {
			add(field, "missing target")
		}
		spec, err := gesture.ParsePointerType(d.PointerType)
		if err != nil {
			add(field, "%v", err)
		} else if spec.MaxPointers() > 1 && d.RecognitionTimeoutMs <= 0 {
			add(field, "%v", gesture.ErrZeroTimeout)
		}
		if d.RecognitionTimeoutMs < 0 || d.CompletionTimeoutMs < 0 || d.RepeatTimeoutMs < 0 {
			add(field, "timeouts must not be negative")
		}
		if d.RepeatCount > 1 && d.RepeatTimeoutMs <= 0 {
			add(field, "%v", gesture.ErrZeroRepeatTimeout)
		}
		if d.When != "" {
			if _, err := compileWhen(d.When); err != nil {
				add(field, "when: %v", err)
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
