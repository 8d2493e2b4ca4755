package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplacement_Apply(t *testing.T) {
	r := Replacement{
		Placeholder: "player_health",
		Intervals: []Interval{
			{Min: 0, Max: 5, Output: "<red>critical"},
			{Min: 5, Max: 10, Output: "<yellow>hurt"},
		},
		Rules:   []Rule{{Find: "dead", Replace: "<gray>ghost"}},
		Format:  "HP $original",
		Default: "?",
	}

	testCases := []struct {
		in   string
		want string
	}{
		{"", "?"},
		{"   ", "?"},
		{"3", "<red>critical"},
		{"5", "<red>critical"},
		{"7.5", "<yellow>hurt"},
		{"20", "HP 20"},
		{"DEAD", "<gray>ghost"},
		{"alive", "HP alive"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, r.Apply(tc.in))
		})
	}
}

func TestReplacement_NoFormatKeepsValue(t *testing.T) {
	r := Replacement{Placeholder: "x"}
	assert.Equal(t, "value", r.Apply("value"))
	assert.Equal(t, "", r.Apply(""))
}
