package scheduling

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidTimeFormat is returned when a time string is not a valid "HH:MM".
	ErrInvalidTimeFormat = errors.New("invalid time format")
	// ErrInvalidInterval is returned when an interval's start is not before its end.
	ErrInvalidInterval = errors.New("invalid interval")
)

// Weekday is a day name in the scheduling week. Sunday is deliberately
// excluded: sessions are never scheduled on Sundays.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
)

// Week is the fixed iteration order for all per-day output.
var Week = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekdayFromTime maps a calendar date to its scheduling weekday.
// The mapping goes through time.Weekday, so it is independent of
// locale and formatting. ok is false for Sundays.
func WeekdayFromTime(t time.Time) (Weekday, bool) {
	switch t.Weekday() {
	case time.Monday:
		return Monday, true
	case time.Tuesday:
		return Tuesday, true
	case time.Wednesday:
		return Wednesday, true
	case time.Thursday:
		return Thursday, true
	case time.Friday:
		return Friday, true
	case time.Saturday:
		return Saturday, true
	}
	return "", false
}

// Interval is a time range on a weekday, busy or free depending on context.
// Times are "HH:MM" in 24h format, matching how timetables store them.
type Interval struct {
	Day       Weekday `json:"day"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
}

// ToMinutes converts an "HH:MM" time string to minutes since midnight.
func ToMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	mins, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	if hours < 0 || hours > 23 || mins < 0 || mins > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	return hours*60 + mins, nil
}

// ToClockTime converts minutes since midnight back to "HH:MM".
// The input must be within a single day ([0, 1439]).
func ToClockTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Overlaps reports whether two intervals overlap. Intervals on different
// days never overlap. Intervals are half-open, so one ending exactly when
// the other starts does not count as an overlap (back-to-back sessions
// are allowed).
func Overlaps(a, b Interval) (bool, error) {
	if a.Day != b.Day {
		return false, nil
	}
	aStart, aEnd, err := intervalMinutes(a)
	if err != nil {
		return false, err
	}
	bStart, bEnd, err := intervalMinutes(b)
	if err != nil {
		return false, err
	}
	return aStart < bEnd && bStart < aEnd, nil
}

// FreeTime subtracts all busy intervals for the given day from the working
// window [windowStart, windowEnd) and returns the remaining free intervals.
// Busy intervals may overlap each other; the sweep merges them correctly.
// With no busy intervals the whole window is returned; a fully covered
// window yields an empty slice.
func FreeTime(busy []Interval, day Weekday, windowStart, windowEnd string) ([]Interval, error) {
	cursor, err := ToMinutes(windowStart)
	if err != nil {
		return nil, err
	}
	endOfDay, err := ToMinutes(windowEnd)
	if err != nil {
		return nil, err
	}
	if cursor >= endOfDay {
		return nil, nil
	}

	type span struct{ start, end int }
	var daySpans []span
	for _, b := range busy {
		if b.Day != day {
			continue
		}
		start, end, err := intervalMinutes(b)
		if err != nil {
			return nil, err
		}
		daySpans = append(daySpans, span{start, end})
	}

	sort.SliceStable(daySpans, func(i, j int) bool {
		return daySpans[i].start < daySpans[j].start
	})

	var free []Interval
	for _, s := range daySpans {
		if s.start > cursor {
			free = append(free, Interval{
				Day:       day,
				StartTime: ToClockTime(cursor),
				EndTime:   ToClockTime(minInt(s.start, endOfDay)),
			})
		}
		if s.end > cursor {
			cursor = s.end
		}
		if cursor >= endOfDay {
			return free, nil
		}
	}

	if cursor < endOfDay {
		free = append(free, Interval{
			Day:       day,
			StartTime: ToClockTime(cursor),
			EndTime:   ToClockTime(endOfDay),
		})
	}
	return free, nil
}

// intervalMinutes parses both endpoints and enforces start < end.
// A malformed interval is surfaced rather than dropped, since silently
// ignoring it would free up time that is actually busy.
func intervalMinutes(iv Interval) (int, int, error) {
	start, err := ToMinutes(iv.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err := ToMinutes(iv.EndTime)
	if err != nil {
		return 0, 0, err
	}
	if start >= end {
		return 0, 0, fmt.Errorf("%w: %s-%s", ErrInvalidInterval, iv.StartTime, iv.EndTime)
	}
	return start, end, nil
}
