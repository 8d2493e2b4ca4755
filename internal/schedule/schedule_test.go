package schedule

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

func at(month time.Month, day, hour, minute int) time.Time {
	return time.Date(2024, month, day, hour, minute, 30, 0, time.UTC)
}

func TestMatch_Time(t *testing.T) {
	testCases := []struct {
		name string
		cond ir.Condition
		now  time.Time
		want bool
	}{
		{"inside", "time: 18:00-23:59", at(1, 1, 20, 0), true},
		{"start inclusive", "time: 18:00-23:59", at(1, 1, 18, 0), true},
		{"end minute inclusive", "time: 18:00-23:59", at(1, 1, 23, 59), true},
		{"before", "time: 18:00-23:59", at(1, 1, 17, 59), false},
		{"overnight late", "time: 22:00-02:00", at(1, 1, 23, 0), true},
		{"overnight early", "time: 22:00-02:00", at(1, 1, 1, 0), true},
		{"overnight outside", "time: 22:00-02:00", at(1, 1, 12, 0), false},
		{"malformed", "time: 18:00", at(1, 1, 18, 0), false},
		{"bad clock", "time: 25:00-26:00", at(1, 1, 18, 0), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			matched, handled := Match(tc.cond, tc.now, nil, nil)
			assert.True(t, handled)
			assert.Equal(t, tc.want, matched)
		})
	}
}

func TestMatch_Day(t *testing.T) {
	saturday := at(1, 6, 12, 0) // 2024-01-06 is a Saturday

	matched, _ := Match("day: friday, Saturday", saturday, nil, nil)
	assert.True(t, matched)
	matched, _ = Match("day: monday", saturday, nil, nil)
	assert.False(t, matched)
}

func TestMatch_Date(t *testing.T) {
	testCases := []struct {
		name string
		cond ir.Condition
		now  time.Time
		want bool
	}{
		{"inside", "date: 12/20-12/31", at(12, 24, 0, 0), true},
		{"outside", "date: 12/20-12/31", at(11, 24, 0, 0), false},
		{"single day", "date: 07/04-07/04", at(7, 4, 12, 0), true},
		{"year wrap december", "date: 12/20-01/05", at(12, 31, 0, 0), true},
		{"year wrap january", "date: 12/20-01/05", at(1, 2, 0, 0), true},
		{"year wrap outside", "date: 12/20-01/05", at(6, 1, 0, 0), false},
		{"leap day exists in 2024", "date: 02/29-03/01", at(2, 29, 0, 0), true},
		{"invalid month", "date: 13/01-13/02", at(1, 1, 0, 0), false},
		{"malformed", "date: 12/20", at(12, 20, 0, 0), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			matched, handled := Match(tc.cond, tc.now, nil, nil)
			assert.True(t, handled)
			assert.Equal(t, tc.want, matched)
		})
	}
}

func TestMatch_PlayerCountAndPlaceholder(t *testing.T) {
	ev := expr.New(expr.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	src := testutil.NewStaticSource(map[string]map[string]string{
		"*": {"server_online": "55", "server_tps": "19.8"},
	})
	now := testutil.Epoch

	matched, handled := Match("player-count: >50", now, ev, src)
	assert.True(t, handled)
	assert.True(t, matched)

	matched, _ = Match("player-count: <=50", now, ev, src)
	assert.False(t, matched)

	matched, _ = Match("player-count:", now, ev, src)
	assert.False(t, matched)

	matched, _ = Match("placeholder: %server_tps% >= 19", now, ev, src)
	assert.True(t, matched)
}

func TestMatch_NoViewerPrefixesPass(t *testing.T) {
	for _, c := range []ir.Condition{"permission: marquee.vip", "world: nether"} {
		matched, handled := Match(c, testutil.Epoch, nil, nil)
		assert.True(t, handled)
		assert.True(t, matched)
	}
}

func TestIsTyped(t *testing.T) {
	assert.True(t, IsTyped("time: 00:00-01:00"))
	assert.True(t, IsTyped(" day: monday"))
	assert.False(t, IsTyped("%server_online% > 5"))
	assert.False(t, IsTyped(""))
}
