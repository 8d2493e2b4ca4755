package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_Fixture(t *testing.T) {
	out, _, err := execute(NewValidateCommand(testOptions("text")), fixtureConfig)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Config valid: 4 display(s), 1 animation(s), 3 rotation(s) in 2 file(s)")
}

func TestValidateCommand_DefaultsToConfigDir(t *testing.T) {
	out, _, err := execute(NewValidateCommand(testOptions("text")))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Config valid")
}

func TestValidateCommand_JSON(t *testing.T) {
	out, _, err := execute(NewValidateCommand(testOptions("json")), fixtureConfig)
	require.NoError(t, err)

	var result ValidationResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	assert.Equal(t, "1", result.Schema)
	assert.Len(t, result.Files, 2)
	assert.Len(t, result.Hash, 64)
	assert.Equal(t, 4, result.Displays)
}

func TestValidateCommand_ReportsAllErrors(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "display.yaml", `
displays:
  header:
    layers:
      - name: conditional
        entries:
          - condition: "%a% >"
            template: x
  empty: {}
rotations:
  motd:
    strategy: shuffle
    candidates:
      - template: a
`)

	out, _, err := execute(NewValidateCommand(testOptions("text")), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "E101")
	assert.Contains(t, out, "E102")
	assert.Contains(t, out, "E108")
	assert.Contains(t, out, "displays.header.layers[0].entries[0].condition")
}

func TestValidateCommand_ErrorsJSON(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "display.yaml", "animations:\n  wave:\n    frames: [a]\n    interval: -1s\n")

	out, _, err := execute(NewValidateCommand(testOptions("json")), dir)
	require.Error(t, err)

	var result ValidationResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E104", resp.Error.Code)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
}

func TestValidateCommand_LoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		code string
	}{
		{
			name: "missing path",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing") },
			code: "E005",
		},
		{
			name: "no config files",
			path: func(t *testing.T) string { return t.TempDir() },
			code: "E003",
		},
		{
			name: "parse error",
			path: func(t *testing.T) string {
				dir := t.TempDir()
				writeConfig(t, dir, "display.yaml", "displays: [\n")
				return dir
			},
			code: "E004",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(NewValidateCommand(testOptions("text")), tt.path(t))
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.code+"]")
		})
	}
}
