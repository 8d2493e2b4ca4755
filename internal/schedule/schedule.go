// Package schedule evaluates the typed conditions used by rotation pools:
//
//	time: 18:00-23:59        wall-clock window, inclusive, may wrap midnight
//	day: saturday,sunday     day of week list
//	date: 12/20-01/05        calendar window MM/DD, inclusive, may wrap the year
//	player-count: >=40       comparison against %server_online%
//	placeholder: <condition> ordinary condition against server-wide attributes
//	permission: <node>       always true, there is no viewer to check
//	world: <name>            always true, there is no viewer to check
//
// Anything without a known prefix is not handled here.
package schedule

import (
	"strconv"
	"strings"
	"time"

	"github.com/roach88/marquee/internal/expr"
	"github.com/roach88/marquee/internal/ir"
)

// Prefixes of typed conditions.
const (
	PrefixPlayerCount = "player-count:"
	PrefixTime        = "time:"
	PrefixDay         = "day:"
	PrefixDate        = "date:"
	PrefixPermission  = "permission:"
	PrefixPlaceholder = "placeholder:"
	PrefixWorld       = "world:"
)

// OnlineToken is the attribute holding the current player count.
const OnlineToken = "server_online"

// Match evaluates a typed condition at now. handled is false when cond has no
// typed prefix, in which case matched is meaningless. Conditions that need
// attributes are evaluated with ev against src for the empty entity.
func Match(cond ir.Condition, now time.Time, ev *expr.Evaluator, src ir.AttributeSource) (matched, handled bool) {
	c := strings.TrimSpace(string(cond))

	if rest, ok := strings.CutPrefix(c, PrefixPlayerCount); ok {
		rest = strings.TrimSpace(rest)
		if rest == "" || ev == nil {
			return false, true
		}
		return ev.Evaluate(ir.Condition("%"+OnlineToken+"% "+rest), src, ""), true
	}
	if rest, ok := strings.CutPrefix(c, PrefixTime); ok {
		return inTimeWindow(strings.TrimSpace(rest), now), true
	}
	if rest, ok := strings.CutPrefix(c, PrefixDay); ok {
		return onDay(rest, now), true
	}
	if rest, ok := strings.CutPrefix(c, PrefixDate); ok {
		return inDateWindow(strings.TrimSpace(rest), now), true
	}
	if rest, ok := strings.CutPrefix(c, PrefixPlaceholder); ok {
		if ev == nil {
			return false, true
		}
		return ev.Evaluate(ir.Condition(strings.TrimSpace(rest)), src, ""), true
	}
	if strings.HasPrefix(c, PrefixPermission) || strings.HasPrefix(c, PrefixWorld) {
		return true, true
	}
	return false, false
}

// IsTyped reports whether cond carries a typed prefix.
func IsTyped(cond ir.Condition) bool {
	_, handled := Match(cond, time.Time{}, nil, nil)
	return handled
}

// inTimeWindow checks "HH:MM-HH:MM" at minute precision. When start is not
// before end the window wraps past midnight.
func inTimeWindow(window string, now time.Time) bool {
	startText, endText, ok := splitRange(window)
	if !ok {
		return false
	}
	start, ok := parseClock(startText)
	if !ok {
		return false
	}
	end, ok := parseClock(endText)
	if !ok {
		return false
	}

	cur := now.Hour()*60 + now.Minute()
	if start < end {
		return cur >= start && cur <= end
	}
	return cur >= start || cur <= end
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// onDay checks a comma-separated list of lower- or mixed-case day names.
func onDay(days string, now time.Time) bool {
	today := strings.ToLower(now.Weekday().String())
	for _, d := range strings.Split(days, ",") {
		if strings.ToLower(strings.TrimSpace(d)) == today {
			return true
		}
	}
	return false
}

// inDateWindow checks "MM/DD-MM/DD" against now's calendar day. Dates are
// taken in now's year; a date that does not exist that year (02/29 outside
// a leap year) fails the window. When start is after end the window wraps
// past new year.
func inDateWindow(window string, now time.Time) bool {
	startText, endText, ok := splitRange(window)
	if !ok {
		return false
	}
	start, ok := parseMonthDay(startText, now.Year())
	if !ok {
		return false
	}
	end, ok := parseMonthDay(endText, now.Year())
	if !ok {
		return false
	}

	cur := int(now.Month())*100 + now.Day()
	if start <= end {
		return cur >= start && cur <= end
	}
	return cur >= start || cur <= end
}

// parseMonthDay parses "MM/DD" into month*100+day, validated for year.
func parseMonthDay(s string, year int) (int, bool) {
	m, d, ok := strings.Cut(s, "/")
	if !ok {
		return 0, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil {
		return 0, false
	}
	day, err := strconv.Atoi(strings.TrimSpace(d))
	if err != nil {
		return 0, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if int(t.Month()) != month || t.Day() != day {
		return 0, false
	}
	return month*100 + day, true
}

// splitRange splits "a-b" into exactly two trimmed parts.
func splitRange(s string) (string, string, bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}
