package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMutualSlots_OffsetBusySchedules(t *testing.T) {
	// Requester busy Monday 09:00-10:00, provider busy Monday 09:30-11:00.
	// Their early free intervals (08:00-09:00 and 08:00-09:30) still fit
	// one 60-minute slot; then mutual free time reopens at 11:00.
	requester := []Interval{{Monday, "09:00", "10:00"}}
	provider := []Interval{{Monday, "09:30", "11:00"}}

	result, err := FindMutualSlots(DefaultConfig(), requester, provider, 60)
	require.NoError(t, err)
	require.Len(t, result, 6) // every day has slots; Monday is restricted

	require.Equal(t, Monday, result[0].Day)
	monday := result[0].Slots
	require.Len(t, monday, 14)
	assert.Equal(t, Slot{"08:00", "09:00"}, monday[0])
	assert.Equal(t, Slot{"11:00", "12:00"}, monday[1])
	assert.Equal(t, Slot{"11:30", "12:30"}, monday[2])
	assert.Equal(t, Slot{"17:00", "18:00"}, monday[13])

	for _, slot := range monday {
		start, err := ToMinutes(slot.StartTime)
		require.NoError(t, err)
		end, err := ToMinutes(slot.EndTime)
		require.NoError(t, err)
		assert.Equal(t, 60, end-start)
		// No candidate may touch either party's busy time.
		for _, b := range append(requester, provider...) {
			overlap, err := Overlaps(Interval{Monday, slot.StartTime, slot.EndTime}, b)
			require.NoError(t, err)
			assert.False(t, overlap, "slot %s-%s overlaps busy %s-%s", slot.StartTime, slot.EndTime, b.StartTime, b.EndTime)
		}
	}
}

func TestFindMutualSlots_BothFullyFree(t *testing.T) {
	// 90-minute sessions in a free 08:00-18:00 day: starts 08:00 through
	// 16:30 stepped by 30, 21 candidates, last one ending exactly at 18:00.
	result, err := FindMutualSlots(DefaultConfig(), nil, nil, 90)
	require.NoError(t, err)
	require.Len(t, result, len(Week))

	for i, day := range Week {
		assert.Equal(t, day, result[i].Day)
		require.Len(t, result[i].Slots, 21, day)
		assert.Equal(t, Slot{"08:00", "09:30"}, result[i].Slots[0])
		assert.Equal(t, Slot{"16:30", "18:00"}, result[i].Slots[20])
	}
}

func TestFindMutualSlots_NoMutualFreeTime(t *testing.T) {
	requester := []Interval{
		{Monday, "08:00", "13:00"},
		{Monday, "13:00", "18:00"},
	}
	provider := []Interval{{Monday, "08:00", "18:00"}}

	cfg := DefaultConfig()
	cfg.Days = []Weekday{Monday}
	result, err := FindMutualSlots(cfg, requester, provider, 30)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestFindMutualSlots_EmptyDaysOmitted(t *testing.T) {
	// Provider is fully booked every day except Friday afternoon.
	var provider []Interval
	for _, day := range Week {
		if day == Friday {
			provider = append(provider, Interval{day, "08:00", "14:00"})
			continue
		}
		provider = append(provider, Interval{day, "08:00", "18:00"})
	}

	result, err := FindMutualSlots(DefaultConfig(), nil, provider, 120)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, Friday, result[0].Day)
	assert.Equal(t, Slot{"14:00", "16:00"}, result[0].Slots[0])
	assert.Equal(t, Slot{"16:00", "18:00"}, result[0].Slots[len(result[0].Slots)-1])
}

func TestFindMutualSlots_Deduplication(t *testing.T) {
	// A mid-window commitment splits the requester's free time so candidates
	// come from several free-pair overlaps. Each wall-clock slot must appear
	// exactly once in the final list.
	requester := []Interval{{Monday, "12:00", "12:30"}}
	cfg := DefaultConfig()
	cfg.Days = []Weekday{Monday}

	result, err := FindMutualSlots(cfg, requester, nil, 30)
	require.NoError(t, err)
	require.Len(t, result, 1)

	seen := make(map[Slot]int)
	for _, slot := range result[0].Slots {
		seen[slot]++
	}
	for slot, n := range seen {
		assert.Equal(t, 1, n, "slot %s-%s duplicated", slot.StartTime, slot.EndTime)
	}
}

func TestFindMutualSlots_SortedAscending(t *testing.T) {
	requester := []Interval{{Tuesday, "10:00", "11:00"}}
	provider := []Interval{{Tuesday, "14:00", "15:00"}}
	cfg := DefaultConfig()
	cfg.Days = []Weekday{Tuesday}

	result, err := FindMutualSlots(cfg, requester, provider, 30)
	require.NoError(t, err)
	require.Len(t, result, 1)

	prev := -1
	for _, slot := range result[0].Slots {
		start, err := ToMinutes(slot.StartTime)
		require.NoError(t, err)
		assert.Greater(t, start, prev)
		prev = start
	}
}

// Every start feasible for a longer duration must also be feasible for a
// shorter one under the same step.
func TestFindMutualSlots_DurationMonotonicity(t *testing.T) {
	requester := []Interval{
		{Monday, "09:00", "10:30"},
		{Monday, "13:00", "14:00"},
	}
	provider := []Interval{
		{Monday, "08:00", "08:30"},
		{Monday, "15:30", "16:15"},
	}
	cfg := DefaultConfig()
	cfg.Days = []Weekday{Monday}

	durations := []int{30, 60, 90, 120}
	starts := make(map[int]map[string]bool)
	for _, d := range durations {
		result, err := FindMutualSlots(cfg, requester, provider, d)
		require.NoError(t, err)
		starts[d] = make(map[string]bool)
		for _, ds := range result {
			for _, slot := range ds.Slots {
				starts[d][slot.StartTime] = true
			}
		}
	}

	for i := 0; i < len(durations)-1; i++ {
		shorter, longer := durations[i], durations[i+1]
		for start := range starts[longer] {
			assert.True(t, starts[shorter][start],
				"start %s feasible for %d min but not for %d min", start, longer, shorter)
		}
	}
}

func TestFindMutualSlots_InvalidDuration(t *testing.T) {
	_, err := FindMutualSlots(DefaultConfig(), nil, nil, 0)
	require.Error(t, err)
	_, err = FindMutualSlots(DefaultConfig(), nil, nil, -30)
	require.Error(t, err)
}

// A non-positive step with both parties free would never advance the
// candidate loop, so it must be rejected up front.
func TestFindMutualSlots_InvalidStep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StepMinutes = 0
	_, err := FindMutualSlots(cfg, nil, nil, 60)
	require.Error(t, err)

	cfg.StepMinutes = -15
	_, err = FindMutualSlots(cfg, nil, nil, 60)
	require.Error(t, err)
}

func TestFindMutualSlots_PropagatesBadInput(t *testing.T) {
	bad := []Interval{{Monday, "09:00", "08:00"}}
	_, err := FindMutualSlots(DefaultConfig(), bad, nil, 60)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	unparsable := []Interval{{Monday, "9am", "10:00"}}
	_, err = FindMutualSlots(DefaultConfig(), nil, unparsable, 60)
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestFindMutualSlots_CustomPolicy(t *testing.T) {
	cfg := Config{
		DayStart:    "10:00",
		DayEnd:      "12:00",
		StepMinutes: 60,
		Days:        []Weekday{Saturday},
	}
	result, err := FindMutualSlots(cfg, nil, nil, 60)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, Saturday, result[0].Day)
	assert.Equal(t, []Slot{{"10:00", "11:00"}, {"11:00", "12:00"}}, result[0].Slots)
}

func TestFreeTimeForParty(t *testing.T) {
	busy := []Interval{
		{Monday, "08:00", "18:00"},
		{Wednesday, "09:00", "10:00"},
		{Wednesday, "12:00", "13:00"},
	}
	result, err := FreeTimeForParty(DefaultConfig(), busy)
	require.NoError(t, err)
	// Monday is fully booked and omitted; the other five days remain.
	require.Len(t, result, 5)

	assert.Equal(t, Tuesday, result[0].Day)
	assert.Equal(t, []Interval{{Tuesday, "08:00", "18:00"}}, result[0].Free)

	assert.Equal(t, Wednesday, result[1].Day)
	assert.Equal(t, []Interval{
		{Wednesday, "08:00", "09:00"},
		{Wednesday, "10:00", "12:00"},
		{Wednesday, "13:00", "18:00"},
	}, result[1].Free)
}

func TestFreeTimeForPartyDeterministic(t *testing.T) {
	busy := []Interval{
		{Friday, "10:00", "11:00"},
		{Tuesday, "08:00", "09:00"},
	}
	first, err := FreeTimeForParty(DefaultConfig(), busy)
	require.NoError(t, err)
	second, err := FreeTimeForParty(DefaultConfig(), busy)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestIsAllowedDuration(t *testing.T) {
	for _, d := range SessionDurations {
		assert.True(t, IsAllowedDuration(d))
	}
	assert.False(t, IsAllowedDuration(0))
	assert.False(t, IsAllowedDuration(45))
	assert.False(t, IsAllowedDuration(150))
}
