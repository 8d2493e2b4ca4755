package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate_IsEmpty(t *testing.T) {
	testCases := []struct {
		name     string
		template Template
		want     bool
	}{
		{"nil", nil, true},
		{"no lines", Template{}, true},
		{"single empty line", Template{""}, true},
		{"several empty lines", Template{"", ""}, true},
		{"text", Template{"hello"}, false},
		{"whitespace is content", Template{" "}, false},
		{"mixed", Template{"", "footer"}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.template.IsEmpty())
		})
	}
}

func TestNewTemplate_SplitsLines(t *testing.T) {
	assert.Equal(t, Template{"a", "b"}, NewTemplate("a\nb"))
	assert.Equal(t, Template{}, NewTemplate(""))
	assert.Equal(t, "a\nb", NewTemplate("a\nb").String())
}

func TestCondition_IsEmpty(t *testing.T) {
	assert.True(t, Condition("").IsEmpty())
	assert.True(t, Condition("   ").IsEmpty())
	assert.False(t, Condition("1 > 0").IsEmpty())
}

func TestEntry_SealedVariants(t *testing.T) {
	entries := []Entry{
		Layered{Template: Template{"global"}, Priority: 1},
		Conditional{Condition: "%a% == b", Template: Template{"cond"}, Priority: 15},
	}

	for _, e := range entries {
		switch v := e.(type) {
		case Layered:
			assert.Equal(t, Condition(""), v.When())
			assert.Equal(t, 1, v.Rank())
		case Conditional:
			assert.Equal(t, Condition("%a% == b"), v.When())
			assert.Equal(t, 15, v.Rank())
			assert.Equal(t, Template{"cond"}, v.Payload())
		default:
			t.Fatalf("unexpected entry type %T", e)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	testCases := []struct {
		in   string
		want Strategy
	}{
		{"", StrategyPriority},
		{"priority", StrategyPriority},
		{"Sequential", StrategySequential},
		{" RANDOM ", StrategyRandom},
		{"timed", StrategyTimed},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseStrategy(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := ParseStrategy("round-robin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "round-robin")
}

func TestSourceFunc(t *testing.T) {
	src := SourceFunc(func(entity, token string) string {
		return entity + ":" + token
	})
	assert.Equal(t, "alice:rank", src.Lookup("alice", "rank"))
	assert.Equal(t, "", EmptySource{}.Lookup("alice", "rank"))
}

func TestMapSource(t *testing.T) {
	src := MapSource{
		"*":   {"server_online": "42", "player_name": "someone"},
		"bob": {"player_name": "Bob"},
	}
	assert.Equal(t, "Bob", src.Lookup("bob", "player_name"))
	assert.Equal(t, "someone", src.Lookup("alex", "player_name"))
	assert.Equal(t, "42", src.Lookup("bob", "server_online"))
	assert.Equal(t, "", src.Lookup("bob", "missing"))

	src.Set("alex", "player_name", "Alex")
	assert.Equal(t, "Alex", src.Lookup("alex", "player_name"))

	var empty MapSource
	assert.Equal(t, "", empty.Lookup("bob", "x"))
}
