package scheduling

import (
	"fmt"
	"sort"
)

// SessionDurations are the booking lengths (in minutes) the business allows.
var SessionDurations = []int{30, 60, 90, 120}

// IsAllowedDuration reports whether d is one of the bookable session lengths.
func IsAllowedDuration(d int) bool {
	for _, allowed := range SessionDurations {
		if d == allowed {
			return true
		}
	}
	return false
}

// Config carries the business scheduling policy. It is passed explicitly so
// the matcher stays reusable and testable under different policies.
type Config struct {
	DayStart    string    // working window start, "HH:MM"
	DayEnd      string    // working window end, "HH:MM"
	StepMinutes int       // granularity of candidate start times
	Days        []Weekday // days considered, in output order
}

// DefaultConfig returns the campus policy: sessions between 08:00 and 18:00,
// candidate starts every 30 minutes, Monday through Saturday.
func DefaultConfig() Config {
	return Config{
		DayStart:    "08:00",
		DayEnd:      "18:00",
		StepMinutes: 30,
		Days:        Week,
	}
}

// Slot is a bookable start/end pair of exactly the requested duration.
type Slot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// DaySlots groups the candidate slots found for one weekday.
type DaySlots struct {
	Day   Weekday `json:"day"`
	Slots []Slot  `json:"slots"`
}

// DayFreeTime groups one party's free intervals for one weekday.
type DayFreeTime struct {
	Day  Weekday    `json:"day"`
	Free []Interval `json:"free"`
}

// FindMutualSlots returns, per weekday, every slot of durationMinutes that
// is free for both parties. For each day it subtracts each party's busy
// intervals from the working window, intersects the two free sets pairwise
// and steps candidate starts through every overlap wide enough to fit the
// duration. Days without candidates are omitted; slots are deduplicated
// and sorted by start time.
//
// Both free sets are disjoint after FreeTime, so the pairwise pass covers
// exactly the mutual free time without needing a merged interval structure.
func FindMutualSlots(cfg Config, requesterBusy, providerBusy []Interval, durationMinutes int) ([]DaySlots, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("session duration must be positive, got %d", durationMinutes)
	}
	if cfg.StepMinutes <= 0 {
		return nil, fmt.Errorf("step minutes must be positive, got %d", cfg.StepMinutes)
	}

	var result []DaySlots
	for _, day := range cfg.Days {
		requesterFree, err := FreeTime(requesterBusy, day, cfg.DayStart, cfg.DayEnd)
		if err != nil {
			return nil, err
		}
		providerFree, err := FreeTime(providerBusy, day, cfg.DayStart, cfg.DayEnd)
		if err != nil {
			return nil, err
		}

		seen := make(map[Slot]bool)
		var slots []Slot
		for _, r := range requesterFree {
			for _, p := range providerFree {
				// Endpoints came out of FreeTime, so they parse.
				rStart, _ := ToMinutes(r.StartTime)
				rEnd, _ := ToMinutes(r.EndTime)
				pStart, _ := ToMinutes(p.StartTime)
				pEnd, _ := ToMinutes(p.EndTime)

				overlapStart := maxInt(rStart, pStart)
				overlapEnd := minInt(rEnd, pEnd)
				if overlapEnd-overlapStart < durationMinutes {
					continue
				}

				for start := overlapStart; start+durationMinutes <= overlapEnd; start += cfg.StepMinutes {
					slot := Slot{
						StartTime: ToClockTime(start),
						EndTime:   ToClockTime(start + durationMinutes),
					}
					// The same wall-clock slot can emerge from multiple
					// free-interval pairings.
					if seen[slot] {
						continue
					}
					seen[slot] = true
					slots = append(slots, slot)
				}
			}
		}

		if len(slots) == 0 {
			continue
		}
		sort.Slice(slots, func(i, j int) bool {
			a, _ := ToMinutes(slots[i].StartTime)
			b, _ := ToMinutes(slots[j].StartTime)
			return a < b
		})
		result = append(result, DaySlots{Day: day, Slots: slots})
	}
	return result, nil
}

// FreeTimeForParty computes one party's free intervals for every weekday,
// in week order, omitting days with no free time. Used for the read-only
// mentor availability display, where no second party is involved.
func FreeTimeForParty(cfg Config, busy []Interval) ([]DayFreeTime, error) {
	var result []DayFreeTime
	for _, day := range cfg.Days {
		free, err := FreeTime(busy, day, cfg.DayStart, cfg.DayEnd)
		if err != nil {
			return nil, err
		}
		if len(free) == 0 {
			continue
		}
		result = append(result, DayFreeTime{Day: day, Free: free})
	}
	return result, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
