// Package config loads declarative gesture definitions from TOML, YAML, or
// JSON files and applies them to a gesture surface.
//
// A TOML file looks like:
//
//	version = 1
//
//	[logging]
//	level = "debug"
//
//	[[gesture]]
//	name = "tap"
//	target = "canvas"
//	pointer_type = "touch|mouse"
//	completion_timeout_ms = 150
//	when = "MaxDistance <= 5"
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/gesture"
)

// Version is the current definition file format version.
const Version = 1

// File is a gesture definition file.
type File struct {
	Version  int           `toml:"version" json:"version" yaml:"version"`
	Logging  LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`
	Engine   EngineConfig  `toml:"engine" json:"engine" yaml:"engine"`
	Gestures []Definition  `toml:"gesture" json:"gestures" yaml:"gestures"`
}

// LoggingConfig selects the engine logger.
type LoggingConfig struct {
	Level  string `toml:"level" json:"level" yaml:"level"`    // debug, info, warn, error
	Format string `toml:"format" json:"format" yaml:"format"` // text or json
}

// EngineConfig holds engine-wide settings.
type EngineConfig struct {
	DowngradeDelayMs int             `toml:"downgrade_delay_ms" json:"downgrade_delay_ms" yaml:"downgrade_delay_ms"`
	Watchdog         *WatchdogConfig `toml:"watchdog" json:"watchdog,omitempty" yaml:"watchdog,omitempty"`
}

// WatchdogConfig enables stuck-pointer recovery.
type WatchdogConfig struct {
	IntervalMs int `toml:"interval_ms" json:"interval_ms" yaml:"interval_ms"`
	SilenceMs  int `toml:"silence_ms" json:"silence_ms" yaml:"silence_ms"`
}

// Definition declares one gesture. Timeouts are in milliseconds. Pointer
// capture and propagation default to on; the pointer fields let a file turn
// them off.
type Definition struct {
	Name                 string `toml:"name" json:"name" yaml:"name"`
	Target               string `toml:"target" json:"target" yaml:"target"`
	PointerType          string `toml:"pointer_type" json:"pointer_type" yaml:"pointer_type"`
	When                 string `toml:"when" json:"when,omitempty" yaml:"when,omitempty"`
	RecognitionTimeoutMs int    `toml:"recognition_timeout_ms" json:"recognition_timeout_ms,omitempty" yaml:"recognition_timeout_ms,omitempty"`
	CompletionTimeoutMs  int    `toml:"completion_timeout_ms" json:"completion_timeout_ms,omitempty" yaml:"completion_timeout_ms,omitempty"`
	RepeatCount          int    `toml:"repeat_count" json:"repeat_count,omitempty" yaml:"repeat_count,omitempty"`
	RepeatTimeoutMs      int    `toml:"repeat_timeout_ms" json:"repeat_timeout_ms,omitempty" yaml:"repeat_timeout_ms,omitempty"`
	Exclusive            bool   `toml:"exclusive" json:"exclusive,omitempty" yaml:"exclusive,omitempty"`
	CapturesPointers     *bool  `toml:"captures_pointers" json:"captures_pointers,omitempty" yaml:"captures_pointers,omitempty"`
	AllowPropagation     *bool  `toml:"allow_propagation" json:"allow_propagation,omitempty" yaml:"allow_propagation,omitempty"`
	Group                string `toml:"group" json:"group,omitempty" yaml:"group,omitempty"`
	Downgrade            bool   `toml:"downgrade" json:"downgrade,omitempty" yaml:"downgrade,omitempty"`
	Disabled             bool   `toml:"disabled" json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Handler              string `toml:"handler" json:"handler,omitempty" yaml:"handler,omitempty"`
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// Load reads and validates a definition file. The format follows the
// extension: .toml, .yaml/.yml, or .json.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	f, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates definitions in the format named by ext.
func Parse(data []byte, ext string) (*File, error) {
	f := &File{Version: Version}
	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.Decode(string(data), f); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, f); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, f); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported definition format %q", ext)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Logger builds the logger the file asks for, writing to w. An empty level
// means no logging and returns nil.
func (l LoggingConfig) Logger(w io.Writer) (*slog.Logger, error) {
	if l.Level == "" {
		return nil, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return nil, fmt.Errorf("logging level %q: %w", l.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch l.Format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("logging format %q: want text or json", l.Format)
}

// Options converts the engine and logging sections into engine options.
// Clock and sink are left for the caller.
func (f *File) Options(logOut io.Writer) (gesture.Options, error) {
	logger, err := f.Logging.Logger(logOut)
	if err != nil {
		return gesture.Options{}, err
	}
	opts := gesture.Options{
		Logger:         logger,
		DowngradeDelay: ms(f.Engine.DowngradeDelayMs),
	}
	if wd := f.Engine.Watchdog; wd != nil {
		opts.Watchdog = &gesture.Watchdog{
			Interval: ms(wd.IntervalMs),
			Silence:  ms(wd.SilenceMs),
		}
	}
	return opts, nil
}
