package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/marquee/internal/config"
	"github.com/roach88/marquee/internal/engine"
)

func TestRotateCommand_Sequential(t *testing.T) {
	out, _, err := execute(NewRotateCommand(testOptions("text")),
		fixtureConfig, "-r", "motd", "-n", "3", "--set", "server_online=42")
	require.NoError(t, err)
	// The disabled candidate never appears.
	assert.Equal(t, "A 42 online\nB\nA 42 online\n", out)
}

func TestRotateCommand_JSONKeys(t *testing.T) {
	out, _, err := execute(NewRotateCommand(testOptions("json")),
		fixtureConfig, "-r", "motd", "--count", "2")
	require.NoError(t, err)

	var picks []RotationPick
	resp := decodeResponse(t, out, &picks)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, picks, 2)
	assert.Equal(t, "a", picks[0].Key)
	assert.Equal(t, "b", picks[1].Key)
}

func TestRotateCommand_Schedule(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"fallback by day", []string{"--at", "2024-06-01T12:00:00Z"}, "Day\n"},
		{"time window", []string{"--at", "2024-06-01T23:30:00Z"}, "Night\n"},
		{"player count", []string{"--at", "2024-06-01T12:00:00Z", "--set", "server_online=150"}, "Busy\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{fixtureConfig, "-r", "night"}, tt.args...)
			out, _, err := execute(NewRotateCommand(testOptions("text")), args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRotateCommand_VerboseShowsFallback(t *testing.T) {
	opts := testOptions("text")
	opts.Verbose = true
	out, errOut, err := execute(NewRotateCommand(opts), fixtureConfig, "-r", "night", "--at", "2024-06-01T12:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "Day\n", out)
	assert.Contains(t, errOut, "[(fallback)]")
}

func TestRotateCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"unknown rotation", []string{fixtureConfig, "-r", "ads"}, string(engine.ErrCodeUnknownRotation)},
		{"bad count", []string{fixtureConfig, "-r", "motd", "-n", "0"}, config.ErrCodeGeneric},
		{"bad time", []string{fixtureConfig, "-r", "motd", "--at", "tonight"}, config.ErrCodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(NewRotateCommand(testOptions("json")), tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			resp := decodeResponse(t, out, nil)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}
