package cron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhive/tutorhive-api/models"
)

var karachi = time.FixedZone("PKT", 5*60*60)

// Booking dates are written as UTC midnight of the calendar day. The
// reminder range must still catch them when the process clock runs in
// campus local time.
func TestReminderDayRangeCoversStoredDates(t *testing.T) {
	stored := time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		now  time.Time
	}{
		{"morning local", time.Date(2026, time.August, 28, 9, 0, 0, 0, karachi)},
		{"just after local midnight", time.Date(2026, time.August, 28, 0, 10, 0, 0, karachi)},
		{"late local evening", time.Date(2026, time.August, 28, 23, 30, 0, 0, karachi)},
		{"utc server", time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dayStart, dayEnd := reminderDayRange(tc.now)
			assert.False(t, stored.Before(dayStart), "stored date before range start")
			assert.True(t, stored.Before(dayEnd), "stored date past range end")
		})
	}
}

func TestReminderDayRangeExcludesOtherDays(t *testing.T) {
	now := time.Date(2026, time.August, 28, 9, 0, 0, 0, karachi)
	dayStart, dayEnd := reminderDayRange(now)

	yesterday := time.Date(2026, time.August, 27, 0, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC)
	assert.True(t, yesterday.Before(dayStart))
	assert.False(t, tomorrow.Before(dayEnd))
}

func TestSessionStartUsesCampusClock(t *testing.T) {
	booking := models.Booking{
		ScheduledDate: time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC),
		StartTime:     "14:30",
	}

	start, err := sessionStart(booking, karachi)
	require.NoError(t, err)

	want := time.Date(2026, time.August, 28, 14, 30, 0, 0, karachi)
	assert.True(t, start.Equal(want), "got %v, want %v", start, want)
}

func TestSessionStartRejectsBadTime(t *testing.T) {
	booking := models.Booking{
		ScheduledDate: time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC),
		StartTime:     "2:30 PM",
	}
	_, err := sessionStart(booking, time.UTC)
	assert.Error(t, err)
}
