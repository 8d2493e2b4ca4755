package config

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/marquee/internal/engine"
	"github.com/roach88/marquee/internal/ir"
	"github.com/roach88/marquee/internal/resolve"
	"github.com/roach88/marquee/internal/testutil"
)

func quietOptions() CompileOptions {
	return CompileOptions{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func compileYAML(t *testing.T, src string) (*engine.Spec, []error) {
	t.Helper()
	doc, err := ParseYAML([]byte(src))
	require.NoError(t, err)
	return Compile(&Loaded{Doc: doc, Hash: "h"}, quietOptions())
}

func codes(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, ErrorCode(err))
	}
	return out
}

func TestCompile_Basic(t *testing.T) {
	spec, errs := compileYAML(t, basicYAML)
	require.Empty(t, errs)

	assert.Equal(t, "h", spec.Hash)
	require.Len(t, spec.Displays, 1)
	header := spec.Displays[0]
	assert.Equal(t, []string{"player", "conditional", "global"}, header.Chain.Names())
	assert.Equal(t, ir.Template{"default"}, header.Default)

	keyed, ok := header.Chain[0].(resolve.Keyed)
	require.True(t, ok)
	assert.Contains(t, keyed.Entries, "0f8fad5b-d9cb-469f-a165-70867728950e")

	static, ok := header.Chain[1].(resolve.Static)
	require.True(t, ok)
	cond, ok := static.Entries[0].(ir.Conditional)
	require.True(t, ok)
	assert.Equal(t, ir.Condition("%player_health% < 5"), cond.Condition)
	assert.Equal(t, 15, cond.Priority)

	global := header.Chain[2].(resolve.Static)
	_, layered := global.Entries[0].(ir.Layered)
	assert.True(t, layered)

	require.Len(t, spec.Animations, 1)
	assert.Equal(t, 250*time.Millisecond, spec.Animations[0].Interval)

	require.Len(t, spec.Rotations, 1)
	motd := spec.Rotations[0]
	assert.Equal(t, ir.StrategySequential, motd.Strategy)
	assert.True(t, motd.Entries[0].Enabled)
	assert.False(t, motd.Entries[1].Enabled)
	assert.Equal(t, ir.Template{"none"}, motd.Fallback)

	require.Len(t, spec.Conditionals, 1)
	assert.Equal(t, "rank", spec.Conditionals[0].ID)
}

func TestCompile_SortsIDs(t *testing.T) {
	spec, errs := compileYAML(t, "displays:\n  b:\n    default: b\n  a:\n    default: a\n  c:\n    default: c\n")
	require.Empty(t, errs)
	names := []string{spec.Displays[0].Name, spec.Displays[1].Name, spec.Displays[2].Name}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestCompile_Defaults(t *testing.T) {
	spec, errs := compileYAML(t, `
rotations:
  tips:
    candidates:
      - template: one
      - template: two
replacements:
  hp:
    placeholder: "%player_health%"
`)
	require.Empty(t, errs)

	tips := spec.Rotations[0]
	assert.Equal(t, ir.StrategyPriority, tips.Strategy)
	assert.Equal(t, "0", tips.Entries[0].Key)
	assert.Equal(t, "1", tips.Entries[1].Key)

	hp := spec.Replacements[0]
	assert.Equal(t, "player_health", hp.Placeholder)
	assert.Equal(t, "$original", hp.Format)
	assert.Equal(t, "17", hp.Apply("17"))
}

func TestCompile_TypedRotationConditions(t *testing.T) {
	spec, errs := compileYAML(t, `
rotations:
  tips:
    candidates:
      - key: night
        conditions: ["time:22:00-06:00", "player-count: >= 5", "permission:vip"]
        template: night
`)
	require.Empty(t, errs)
	assert.Len(t, spec.Rotations[0].Entries[0].Conditions, 3)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		code  string
		field string
	}{
		{
			name:  "unknown strategy",
			src:   "rotations:\n  r:\n    strategy: shuffle\n    candidates: []\n",
			code:  ErrCodeStrategy,
			field: "rotations.r.strategy",
		},
		{
			name:  "layer without name",
			src:   "displays:\n  h:\n    layers:\n      - entries: [{template: x}]\n",
			code:  ErrCodeLayer,
			field: "displays.h.layers[0].name",
		},
		{
			name:  "keyed without by",
			src:   "displays:\n  h:\n    layers:\n      - name: l\n        keyed:\n          a: [{template: x}]\n",
			code:  ErrCodeLayer,
			field: "displays.h.layers[0].keyed",
		},
		{
			name:  "keyed layer with entries",
			src:   "displays:\n  h:\n    layers:\n      - name: l\n        by: entity\n        entries: [{template: x}]\n",
			code:  ErrCodeLayer,
			field: "displays.h.layers[0].entries",
		},
		{
			name:  "negative interval",
			src:   "animations:\n  a:\n    frames: [x]\n    interval: -5\n",
			code:  ErrCodeInterval,
			field: "animations.a.interval",
		},
		{
			name:  "script syntax",
			src:   "scripts:\n  s:\n    source: 'out := ('\n",
			code:  ErrCodeScript,
			field: "scripts.s",
		},
		{
			name:  "script without source",
			src:   "scripts:\n  s:\n    inputs: [a]\n",
			code:  ErrCodeScript,
			field: "scripts.s",
		},
		{
			name:  "invalid placeholder id",
			src:   "conditionals:\n  'a b':\n    conditions: []\n",
			code:  ErrCodePlaceholder,
			field: "conditionals.a b",
		},
		{
			name:  "replacement without placeholder",
			src:   "replacements:\n  r:\n    default: x\n",
			code:  ErrCodeReplacement,
			field: "replacements.r.placeholder",
		},
		{
			name:  "inverted interval",
			src:   "replacements:\n  r:\n    placeholder: hp\n    intervals: [{min: 10, max: 1, output: x}]\n",
			code:  ErrCodeReplacement,
			field: "replacements.r.intervals[0]",
		},
		{
			name:  "empty display",
			src:   "displays:\n  h: {}\n",
			code:  ErrCodeEmptyDisplay,
			field: "displays.h",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, errs := compileYAML(t, tt.src)
			assert.Nil(t, spec)
			require.NotEmpty(t, errs)

			var le *LoadError
			require.ErrorAs(t, errs[0], &le)
			assert.Equal(t, tt.code, le.Code)
			assert.Equal(t, tt.field, le.Field)
		})
	}
}

func TestCompile_CollectsAllErrors(t *testing.T) {
	_, errs := compileYAML(t, `
displays:
  h:
    layers:
      - name: l
        entries:
          - condition: "%a% >"
            template: x
          - condition: "%b% =! 1"
            template: y
rotations:
  r:
    strategy: nope
    candidates: []
`)
	assert.Equal(t, []string{ErrCodeCondition, ErrCodeCondition, ErrCodeStrategy}, codes(errs))
}

const malformedYAML = `
displays:
  header:
    layers:
      - name: conditional
        entries:
          - condition: "%a% ~ 1"
            template: never
      - name: global
        entries:
          - template: "Hello %player_name%"
  footer:
    default: "World: %player_world%"
`

func TestCompile_MalformedConditionFailsClosed(t *testing.T) {
	doc, err := ParseYAML([]byte(malformedYAML))
	require.NoError(t, err)

	var logs bytes.Buffer
	spec, errs := Compile(&Loaded{Doc: doc, Hash: "h"}, CompileOptions{Logger: slog.New(slog.NewTextHandler(&logs, nil))})
	require.Empty(t, errs)
	require.NotNil(t, spec)
	assert.Contains(t, logs.String(), "malformed condition evaluates false")
	assert.Contains(t, logs.String(), "displays.header.layers[0].entries[0].condition")

	src := testutil.NewStaticSource(map[string]map[string]string{
		"steve": {"player_name": "Steve", "player_world": "nether", "a": "1"},
	})
	e := engine.New(src, engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	e.Reload(spec)
	assert.Equal(t, "Hello Steve", e.Render("header", "steve"))
	assert.Equal(t, "World: nether", e.Render("footer", "steve"))

	verrs := Validate(doc)
	require.Len(t, verrs, 1)
	var le *LoadError
	require.ErrorAs(t, verrs[0], &le)
	assert.Equal(t, ErrCodeCondition, le.Code)
	assert.Equal(t, "displays.header.layers[0].entries[0].condition", le.Field)
}

func TestValidate(t *testing.T) {
	doc, err := ParseYAML([]byte(basicYAML))
	require.NoError(t, err)
	assert.Empty(t, Validate(doc))
	assert.Empty(t, Validate(nil))
}

func TestCompile_RendersThroughEngine(t *testing.T) {
	spec, errs := compileYAML(t, basicYAML+`
scripts:
  kdr:
    inputs: [kills, deaths]
    source: |
      text := import("text")
      k := text.atoi(kills)
      d := text.atoi(deaths)
      out := d == 0 ? string(k) : string(k / d)
`)
	require.Empty(t, errs)

	src := testutil.NewStaticSource(map[string]map[string]string{
		"*":    {"player_health": "20"},
		"bob":  {"player_name": "Bob", "player_level": "12", "kills": "10", "deaths": "2"},
		"alex": {"player_name": "Alex", "player_health": "3"},
	})
	e := engine.New(src, engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), engine.WithClock(testutil.NewManualClock(time.Time{})))
	require.True(t, e.Reload(spec))

	assert.Equal(t, "Hi Steve", e.Render("header", "0f8fad5b-d9cb-469f-a165-70867728950e"))
	assert.Equal(t, "<red>Low HP\n3", e.Render("header", "alex"))
	assert.Equal(t, "Welcome Bob\nveteran", e.Render("header", "bob"))

	got, err := e.RenderE("header", "bob")
	require.NoError(t, err)
	assert.Equal(t, "Welcome Bob\nveteran", got)

	spec.Displays[0].Default = ir.Template{"%placeholder_kdr%"}
	spec.Displays[0].Chain = nil
	spec.Hash = "h2"
	require.True(t, e.Reload(spec))
	assert.Equal(t, "5", e.Render("header", "bob"))
}
