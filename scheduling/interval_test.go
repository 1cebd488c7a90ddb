package scheduling

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestToMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"08:00", 480},
		{"09:30", 570},
		{"18:00", 1080},
		{"23:59", 1439},
	}
	for _, tc := range cases {
		got, err := ToMinutes(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestToMinutesInvalid(t *testing.T) {
	for _, in := range []string{"", "8", "08:00:00", "24:00", "12:60", "-1:30", "ab:cd", "12-30"} {
		_, err := ToMinutes(in)
		require.Error(t, err, in)
		assert.ErrorIs(t, err, ErrInvalidTimeFormat, in)
	}
}

func TestToClockTimePadding(t *testing.T) {
	assert.Equal(t, "08:05", ToClockTime(485))
	assert.Equal(t, "00:00", ToClockTime(0))
	assert.Equal(t, "23:59", ToClockTime(1439))
}

func TestOverlapsSymmetry(t *testing.T) {
	pairs := [][2]Interval{
		{{Monday, "09:00", "10:00"}, {Monday, "09:30", "11:00"}},
		{{Monday, "09:00", "10:00"}, {Monday, "10:00", "11:00"}},
		{{Monday, "08:00", "18:00"}, {Monday, "12:00", "12:30"}},
		{{Tuesday, "09:00", "10:00"}, {Monday, "09:00", "10:00"}},
	}
	for _, p := range pairs {
		ab, err := Overlaps(p[0], p[1])
		require.NoError(t, err)
		ba, err := Overlaps(p[1], p[0])
		require.NoError(t, err)
		assert.Equal(t, ab, ba)
	}
}

func TestOverlapsDifferentDays(t *testing.T) {
	got, err := Overlaps(
		Interval{Monday, "09:00", "10:00"},
		Interval{Tuesday, "09:00", "10:00"},
	)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestOverlapsTouchingEndpoints(t *testing.T) {
	// Back-to-back intervals do not overlap.
	got, err := Overlaps(
		Interval{Monday, "09:00", "10:00"},
		Interval{Monday, "10:00", "11:00"},
	)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = Overlaps(
		Interval{Monday, "09:00", "10:01"},
		Interval{Monday, "10:00", "11:00"},
	)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestOverlapsNested(t *testing.T) {
	got, err := Overlaps(
		Interval{Friday, "08:00", "18:00"},
		Interval{Friday, "11:00", "12:00"},
	)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestFreeTimeNoBusy(t *testing.T) {
	free, err := FreeTime(nil, Monday, "08:00", "18:00")
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, Interval{Monday, "08:00", "18:00"}, free[0])
}

func TestFreeTimeFullyBooked(t *testing.T) {
	busy := []Interval{{Monday, "08:00", "18:00"}}
	free, err := FreeTime(busy, Monday, "08:00", "18:00")
	require.NoError(t, err)
	assert.Empty(t, free)
}

func TestFreeTimeSingleGap(t *testing.T) {
	busy := []Interval{{Monday, "09:00", "10:00"}}
	free, err := FreeTime(busy, Monday, "08:00", "18:00")
	require.NoError(t, err)
	assert.Equal(t, []Interval{
		{Monday, "08:00", "09:00"},
		{Monday, "10:00", "18:00"},
	}, free)
}

func TestFreeTimeOverlappingBusy(t *testing.T) {
	// Overlapping and nested busy intervals must not double-free time.
	busy := []Interval{
		{Monday, "09:00", "11:00"},
		{Monday, "10:00", "12:00"},
		{Monday, "10:30", "10:45"},
	}
	free, err := FreeTime(busy, Monday, "08:00", "18:00")
	require.NoError(t, err)
	assert.Equal(t, []Interval{
		{Monday, "08:00", "09:00"},
		{Monday, "12:00", "18:00"},
	}, free)
}

func TestFreeTimeIgnoresOtherDays(t *testing.T) {
	busy := []Interval{
		{Tuesday, "08:00", "18:00"},
		{Monday, "13:00", "14:00"},
	}
	free, err := FreeTime(busy, Monday, "08:00", "18:00")
	require.NoError(t, err)
	assert.Equal(t, []Interval{
		{Monday, "08:00", "13:00"},
		{Monday, "14:00", "18:00"},
	}, free)
}

func TestFreeTimeBusyOutsideWindow(t *testing.T) {
	busy := []Interval{
		{Monday, "06:00", "07:00"},
		{Monday, "19:00", "20:00"},
	}
	free, err := FreeTime(busy, Monday, "08:00", "18:00")
	require.NoError(t, err)
	assert.Equal(t, []Interval{{Monday, "08:00", "18:00"}}, free)
}

func TestFreeTimeShuffleIdempotent(t *testing.T) {
	busy := []Interval{
		{Wednesday, "08:30", "09:30"},
		{Wednesday, "11:00", "12:30"},
		{Wednesday, "12:00", "13:00"},
		{Wednesday, "16:45", "17:15"},
	}
	want, err := FreeTime(busy, Wednesday, "08:00", "18:00")
	require.NoError(t, err)

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := make([]Interval, len(busy))
		copy(shuffled, busy)
		r.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got, err := FreeTime(shuffled, Wednesday, "08:00", "18:00")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

// Free time plus busy time, clipped to the window, must tile the window
// exactly: every minute is either free or busy, never both.
func TestFreeTimeCoverageInvariant(t *testing.T) {
	busy := []Interval{
		{Thursday, "07:00", "08:30"},
		{Thursday, "09:00", "10:00"},
		{Thursday, "09:30", "11:00"},
		{Thursday, "14:00", "15:00"},
		{Thursday, "17:30", "19:00"},
	}
	windowStart, windowEnd := 480, 1080 // 08:00-18:00

	free, err := FreeTime(busy, Thursday, "08:00", "18:00")
	require.NoError(t, err)

	covered := make([]bool, windowEnd-windowStart)
	mark := func(startTime, endTime string) {
		s, err := ToMinutes(startTime)
		require.NoError(t, err)
		e, err := ToMinutes(endTime)
		require.NoError(t, err)
		for m := maxInt(s, windowStart); m < minInt(e, windowEnd); m++ {
			require.False(t, covered[m-windowStart], "minute %s covered twice", ToClockTime(m))
			covered[m-windowStart] = true
		}
	}
	for _, f := range free {
		mark(f.StartTime, f.EndTime)
	}
	// Busy spans may overlap each other, so they get their own bitmap
	// instead of the double-coverage check above.
	busyCovered := make([]bool, windowEnd-windowStart)
	for _, b := range busy {
		s, _ := ToMinutes(b.StartTime)
		e, _ := ToMinutes(b.EndTime)
		for m := maxInt(s, windowStart); m < minInt(e, windowEnd); m++ {
			busyCovered[m-windowStart] = true
		}
	}
	for i := range covered {
		require.False(t, covered[i] && busyCovered[i], "minute %s both free and busy", ToClockTime(windowStart+i))
		require.True(t, covered[i] || busyCovered[i], "minute %s neither free nor busy", ToClockTime(windowStart+i))
	}
}

func TestFreeTimeInvalidInterval(t *testing.T) {
	busy := []Interval{{Monday, "10:00", "09:00"}}
	_, err := FreeTime(busy, Monday, "08:00", "18:00")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	busy = []Interval{{Monday, "10:00", "10:00"}}
	_, err = FreeTime(busy, Monday, "08:00", "18:00")
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestFreeTimeInvalidTimeFormat(t *testing.T) {
	busy := []Interval{{Monday, "ten", "11:00"}}
	_, err := FreeTime(busy, Monday, "08:00", "18:00")
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestWeekdayFromTime(t *testing.T) {
	// 2026-08-24 is a Monday.
	cases := []struct {
		day  int
		want Weekday
		ok   bool
	}{
		{24, Monday, true},
		{25, Tuesday, true},
		{26, Wednesday, true},
		{27, Thursday, true},
		{28, Friday, true},
		{29, Saturday, true},
		{30, "", false},
	}
	for _, tc := range cases {
		got, ok := WeekdayFromTime(date(2026, 8, tc.day))
		assert.Equal(t, tc.ok, ok)
		assert.Equal(t, tc.want, got)
	}
}
