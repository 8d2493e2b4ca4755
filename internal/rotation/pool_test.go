package rotation

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/marquee/internal/expr"
	"github.com/roach88/marquee/internal/ir"
	"github.com/roach88/marquee/internal/testutil"
)

func TestPool_FiltersByEnabledAndConditions(t *testing.T) {
	ev := expr.New(expr.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	src := testutil.NewStaticSource(map[string]map[string]string{
		"*": {"server_online": "60", "server_mode": "event"},
	})
	evening := time.Date(2024, 1, 6, 20, 0, 0, 0, time.UTC)

	pool := NewPool("motd", []Entry{
		{Key: "disabled", Enabled: false, Priority: 100, Template: ir.Template{"off"}},
		{Key: "busy", Enabled: true, Priority: 10, Conditions: []ir.Condition{"player-count: >50"}, Template: ir.Template{"busy"}},
		{Key: "night", Enabled: true, Priority: 20, Conditions: []ir.Condition{"time: 22:00-02:00"}, Template: ir.Template{"night"}},
		{Key: "event", Enabled: true, Priority: 5, Conditions: []ir.Condition{"%server_mode% == EVENT", "day: saturday"}, Template: ir.Template{"event"}},
		{Key: "base", Enabled: true, Template: ir.Template{"base"}},
	}, ir.Template{"fallback"}, nil)

	valid := pool.Valid(evening, ev, src)
	var keys []string
	for _, c := range valid {
		keys = append(keys, c.Key)
	}
	assert.Equal(t, []string{"busy", "event", "base"}, keys)

	chosen, ok := pool.Choose(evening, ev, src)
	assert.True(t, ok)
	assert.Equal(t, "busy", chosen.Key)
}

func TestPool_SequentialOverValid(t *testing.T) {
	pool := NewPool("motd", []Entry{
		{Key: "A", Enabled: true, Template: ir.Template{"A"}},
		{Key: "B", Enabled: true, Template: ir.Template{"B"}},
	}, nil, NewSelector(ir.StrategySequential))

	var got []string
	for i := 0; i < 3; i++ {
		c, _ := pool.Choose(testutil.Epoch, nil, nil)
		got = append(got, c.Key)
	}
	assert.Equal(t, []string{"A", "B", "A"}, got)
}

func TestPool_NothingValidUsesFallback(t *testing.T) {
	pool := NewPool("motd", []Entry{
		{Key: "never", Enabled: true, Conditions: []ir.Condition{"date: 02/30-02/30"}, Template: ir.Template{"x"}},
	}, ir.Template{"fallback"}, nil)

	c, ok := pool.Choose(testutil.Epoch, nil, nil)
	assert.False(t, ok)
	assert.Equal(t, ir.Template{"fallback"}, c.Template)
}

func TestPool_NilEvaluatorRejectsPlainConditions(t *testing.T) {
	pool := NewPool("motd", []Entry{
		{Key: "plain", Enabled: true, Conditions: []ir.Condition{"1 == 1"}, Template: ir.Template{"x"}},
	}, nil, nil)
	assert.Empty(t, pool.Valid(testutil.Epoch, nil, nil))
}
