package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/gesture"
)

const tomlDefs = `
version = 1

[logging]
level = "debug"
format = "json"

[engine]
downgrade_delay_ms = 250

[engine.watchdog]
interval_ms = 500
silence_ms = 3000

[[gesture]]
name = "tap"
target = "canvas"
pointer_type = "touch|mouse"
completion_timeout_ms = 150
when = "MaxDistance <= 5"

[[gesture]]
name = "pinch"
target = "canvas"
pointer_type = "touch:2"
recognition_timeout_ms = 120
exclusive = true
captures_pointers = false
group = "zoom"
handler = "zoomer"
`

const yamlDefs = `
version: 1
logging:
  level: debug
  format: json
engine:
  downgrade_delay_ms: 250
  watchdog:
    interval_ms: 500
    silence_ms: 3000
gestures:
  - name: tap
    target: canvas
    pointer_type: touch|mouse
    completion_timeout_ms: 150
    when: MaxDistance <= 5
  - name: pinch
    target: canvas
    pointer_type: touch:2
    recognition_timeout_ms: 120
    exclusive: true
    captures_pointers: false
    group: zoom
    handler: zoomer
`

const jsonDefs = `{
  "version": 1,
  "logging": {"level": "debug", "format": "json"},
  "engine": {"downgrade_delay_ms": 250, "watchdog": {"interval_ms": 500, "silence_ms": 3000}},
  "gestures": [
    {"name": "tap", "target": "canvas", "pointer_type": "touch|mouse",
     "completion_timeout_ms": 150, "when": "MaxDistance <= 5"},
    {"name": "pinch", "target": "canvas", "pointer_type": "touch:2",
     "recognition_timeout_ms": 120, "exclusive": true, "captures_pointers": false,
     "group": "zoom", "handler": "zoomer"}
  ]
}`

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFormatsAgree(t *testing.T) {
	fromTOML, err := Load(writeFile(t, "gestures.toml", tomlDefs))
	require.NoError(t, err)
	fromYAML, err := Load(writeFile(t, "gestures.yaml", yamlDefs))
	require.NoError(t, err)
	fromJSON, err := Load(writeFile(t, "gestures.json", jsonDefs))
	require.NoError(t, err)

	assert.Equal(t, fromTOML, fromYAML)
	assert.Equal(t, fromTOML, fromJSON)

	require.Len(t, fromTOML.Gestures, 2)
	pinch := fromTOML.Gestures[1]
	assert.Equal(t, "touch:2", pinch.PointerType)
	assert.Equal(t, 120, pinch.RecognitionTimeoutMs)
	require.NotNil(t, pinch.CapturesPointers)
	assert.False(t, *pinch.CapturesPointers)
	assert.Nil(t, pinch.AllowPropagation)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "gestures.ini", "name = tap"))
	assert.ErrorContains(t, err, "unsupported definition format")

	_, err = Load(writeFile(t, "gestures.toml", "[[gesture]\nname ="))
	assert.ErrorContains(t, err, "decode TOML")
}

func TestValidateReportsEveryProblem(t *testing.T) {
	f := &File{
		Version: 2,
		Logging: LoggingConfig{Level: "loud"},
		Gestures: []Definition{
			{Target: "a", PointerType: "touch"},
			{Name: "dup", Target: "a", PointerType: "touch"},
			{Name: "dup", Target: "a", PointerType: "touch"},
			{Name: "claw", Target: "a", PointerType: "claw"},
			{Name: "pair", Target: "a", PointerType: "touch:2"},
			{Name: "double", Target: "a", PointerType: "touch", RepeatCount: 2},
			{Name: "bad-when", Target: "a", PointerType: "touch", When: "Pointers +"},
			{Name: "typed-when", Target: "a", PointerType: "touch", When: "Pointers"},
			{Name: "no-target", PointerType: "touch"},
		},
	}
	err := f.Validate()
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := make([]string, len(verrs))
	for i, v := range verrs {
		fields[i] = v.Field
	}
	assert.Equal(t, []string{
		"version",
		"logging",
		"gesture[0]",
		`gesture "dup"`,
		`gesture "claw"`,
		`gesture "pair"`,
		`gesture "double"`,
		`gesture "bad-when"`,
		`gesture "typed-when"`,
		`gesture "no-target"`,
	}, fields)
}

func TestValidateAcceptsMinimalFile(t *testing.T) {
	f := &File{Version: 1, Gestures: []Definition{{Name: "tap", Target: "root", PointerType: "touch"}}}
	assert.NoError(t, f.Validate())
}

func TestBuild(t *testing.T) {
	el := gesture.NewElement("canvas", 100, 100)
	off := false
	var started int
	d := Definition{
		Name:                 "pan",
		Target:               "canvas",
		PointerType:          "pen|touch",
		RecognitionTimeoutMs: 50,
		CompletionTimeoutMs:  400,
		RepeatCount:          2,
		RepeatTimeoutMs:      300,
		Exclusive:            true,
		AllowPropagation:     &off,
		Group:                "nav",
		Downgrade:            true,
		Disabled:             true,
		Handler:              "mover",
	}
	g, err := d.Build(el, Handlers{"mover": {Started: func(*gesture.Gesture) { started++ }}})
	require.NoError(t, err)

	assert.Equal(t, "pan", g.Name())
	assert.Same(t, el, g.Target())
	assert.Equal(t, "pen|touch", g.PointerType().Source())
	assert.Equal(t, 50*time.Millisecond, g.RecognitionTimeout())
	assert.Equal(t, 400*time.Millisecond, g.CompletionTimeout())
	assert.Equal(t, 2, g.RepeatCount())
	assert.Equal(t, 300*time.Millisecond, g.RepeatTimeout())
	assert.True(t, g.IsExclusive())
	assert.True(t, g.CapturesPointers())
	assert.False(t, g.AllowsPropagation())
	assert.Equal(t, "nav", g.Group())
	assert.True(t, g.Downgrades())
	assert.False(t, g.IsEnabled())
	assert.Nil(t, g.Conditional())
}

func TestBuildErrors(t *testing.T) {
	d := Definition{Name: "tap", Target: "canvas", PointerType: "touch", Handler: "nope"}
	_, err := d.Build(gesture.NewElement("canvas", 1, 1), Handlers{})
	assert.ErrorIs(t, err, ErrUnknownHandler)

	_, err = d.Build(nil, nil)
	assert.ErrorIs(t, err, ErrUnknownTarget)
}

func newSurface(t *testing.T) (*gesture.Surface, *gesture.VirtualClock) {
	t.Helper()
	clock := gesture.NewVirtualClock(t0)
	s := gesture.NewSurface(400, 400, gesture.Options{Clock: clock})
	s.Root().AddChild(gesture.NewElement("canvas", 200, 200))
	return s, clock
}

func TestApplyWithWhenPredicate(t *testing.T) {
	f, err := Parse([]byte(tomlDefs), ".toml")
	require.NoError(t, err)

	tests := []struct {
		name      string
		upX, upY  float64
		wantEnded int
	}{
		{"small move", 11, 11, 1},
		{"large move", 30, 30, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, clock := newSurface(t)
			var ended, cancelled int
			gs, err := Apply(s, f, Handlers{
				"tap": {
					Ended:     func(*gesture.Gesture) { ended++ },
					Cancelled: func(*gesture.Gesture) { cancelled++ },
				},
				"zoomer": {},
			})
			require.NoError(t, err)
			require.Len(t, gs, 2)
			require.NotNil(t, gs[0].Conditional())

			touch := gesture.PointerID{Type: gesture.PointerTouch, NativeID: 1}
			s.InjectDown(touch, 10, 10)
			s.InjectWait(50 * time.Millisecond)
			s.InjectUp(touch, tt.upX, tt.upY)
			s.Update()
			clock.Advance(50 * time.Millisecond)
			s.Update()

			assert.Equal(t, tt.wantEnded, ended)
			assert.Equal(t, 1-tt.wantEnded, cancelled)
		})
	}
}

func TestApplyUnknownTargetRegistersNothing(t *testing.T) {
	s, _ := newSurface(t)
	f := &File{Version: 1, Gestures: []Definition{
		{Name: "ok", Target: "canvas", PointerType: "touch"},
		{Name: "lost", Target: "sidebar", PointerType: "touch"},
	}}
	_, err := Apply(s, f, nil)
	assert.ErrorIs(t, err, ErrUnknownTarget)
	assert.Equal(t, 0, s.Engine().Catalog().Len())
}

func TestApplyInvalidFileKeepsCatalog(t *testing.T) {
	s, _ := newSurface(t)
	_, err := Apply(s, &File{Version: 1, Gestures: []Definition{
		{Name: "pinch", Target: "canvas", PointerType: "touch:2", RecognitionTimeoutMs: 100},
	}}, nil)
	require.NoError(t, err)
	c := s.Engine().Catalog()
	pinch := c.Get("pinch")
	require.NotNil(t, pinch)

	_, err = Apply(s, &File{Version: 1, Gestures: []Definition{
		{Name: "tap", Target: "canvas", PointerType: "touch"},
		{Name: "pinch", Target: "canvas", PointerType: "touch:2"},
	}}, nil)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, `gesture "pinch"`, verrs[0].Field)

	assert.Equal(t, 1, c.Len())
	assert.Nil(t, c.Get("tap"))
	assert.Same(t, pinch, c.Get("pinch"))
}

func TestApplyReplacesByName(t *testing.T) {
	s, _ := newSurface(t)
	first := &File{Version: 1, Gestures: []Definition{
		{Name: "tap", Target: "canvas", PointerType: "touch"},
		{Name: "hover", Target: "root", PointerType: "hover", RecognitionTimeoutMs: 300},
	}}
	_, err := Apply(s, first, nil)
	require.NoError(t, err)

	second := &File{Version: 1, Gestures: []Definition{
		{Name: "tap", Target: "canvas", PointerType: "pen"},
	}}
	_, err = Apply(s, second, nil)
	require.NoError(t, err)

	c := s.Engine().Catalog()
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "pen", c.Get("tap").PointerType().Source())
	assert.Same(t, s.Root(), c.Get("hover").Target())
}

func TestOptions(t *testing.T) {
	f, err := Parse([]byte(tomlDefs), ".toml")
	require.NoError(t, err)

	var buf bytes.Buffer
	opts, err := f.Options(&buf)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, opts.DowngradeDelay)
	require.NotNil(t, opts.Watchdog)
	assert.Equal(t, 500*time.Millisecond, opts.Watchdog.Interval)
	assert.Equal(t, 3*time.Second, opts.Watchdog.Silence)

	require.NotNil(t, opts.Logger)
	opts.Logger.Debug("probe")
	assert.Contains(t, buf.String(), `"msg":"probe"`)

	quiet := &File{Version: 1}
	opts, err = quiet.Options(&buf)
	require.NoError(t, err)
	assert.Nil(t, opts.Logger)
	assert.Nil(t, opts.Watchdog)
}
