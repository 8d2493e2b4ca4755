package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var goldenScenarios = []string{"header_layers", "animation_wrap", "motd_rotation"}

func TestScenarios_Golden(t *testing.T) {
	for _, name := range goldenScenarios {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_Deterministic(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "motd_rotation.yaml"))
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	a, err := Snapshot(scenario.Name, first)
	require.NoError(t, err)
	b, err := Snapshot(scenario.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRun_ExpectMismatchFails(t *testing.T) {
	wrong := "nope"
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "expect mismatch",
		Config:      filepath.Join("testdata", "config"),
		Steps: []Step{
			{Frame: "wave", Expect: &wrong},
			{Rotate: "motd"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `expected "nope", got "~"`)
	assert.Len(t, result.Trace, 2)
}

func TestRun_ConfigErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := Run(&Scenario{Config: filepath.Join(t.TempDir(), "missing"), Steps: []Step{{Frame: "x"}}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load config")
	})

	t.Run("invalid", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"),
			[]byte("rotations:\n  r:\n    strategy: shuffle\n    candidates: []\n"), 0o644))
		_, err := Run(&Scenario{Config: dir, Steps: []Step{{Rotate: "r"}}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "E102")
	})
}

func TestRun_RandomPicksCycle(t *testing.T) {
	scenario := &Scenario{
		Name:        "random",
		Description: "random picks are k mod n",
		Config:      filepath.Join("testdata", "config"),
		Steps:       []Step{{Rotate: "tips"}, {Rotate: "tips"}, {Rotate: "tips"}, {Rotate: "tips"}},
	}
	result, err := Run(scenario)
	require.NoError(t, err)

	var keys []string
	for _, ev := range result.Trace {
		keys = append(keys, ev.Key)
	}
	assert.Equal(t, []string{"x", "y", "z", "x"}, keys)
}

func TestLoadScenario_ResolvesConfigRelativeToFile(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "header_layers.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "config"), scenario.Config)
	assert.Equal(t, "yes", scenario.Placeholders["vip"]["vera"])
}

func TestLoadScenario_Errors(t *testing.T) {
	configDir, err := filepath.Abs(filepath.Join("testdata", "config"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown field", "name: x\ndescription: d\nconfig: " + configDir + "\nstepz: []\n", "failed to parse YAML"},
		{"no name", "description: d\nconfig: " + configDir + "\nsteps: [{frame: wave}]\n", "name is required"},
		{"no description", "name: x\nconfig: " + configDir + "\nsteps: [{frame: wave}]\n", "description is required"},
		{"no config", "name: x\ndescription: d\nsteps: [{frame: wave}]\n", "config is required"},
		{"missing config", "name: x\ndescription: d\nconfig: /nonexistent/marquee\nsteps: [{frame: wave}]\n", "config not found"},
		{"no steps", "name: x\ndescription: d\nconfig: " + configDir + "\n", "steps list is required"},
		{"two actions", "name: x\ndescription: d\nconfig: " + configDir + "\nsteps: [{frame: wave, rotate: motd}]\n", "exactly one action"},
		{"empty step", "name: x\ndescription: d\nconfig: " + configDir + "\nsteps: [{expect: a}]\n", "exactly one action"},
		{"render without display", "name: x\ndescription: d\nconfig: " + configDir + "\nsteps: [{render: {entity: a}}]\n", "display is required"},
		{"bad advance", "name: x\ndescription: d\nconfig: " + configDir + "\nsteps: [{advance: soon}]\n", "steps[0].advance"},
		{"bad start", "name: x\ndescription: d\nconfig: " + configDir + "\nstart: noon\nsteps: [{frame: wave}]\n", "start"},
		{"unknown assertion", "name: x\ndescription: d\nconfig: " + configDir + "\nsteps: [{frame: wave}]\nassertions: [{type: final_state}]\n", "unknown assertion type"},
		{"order without outputs", "name: x\ndescription: d\nconfig: " + configDir + "\nsteps: [{frame: wave}]\nassertions: [{type: trace_order}]\n", "outputs list is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "s.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
