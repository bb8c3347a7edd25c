package service

import (
	"sort"

	"challenges-service/internal/calendar"
	"challenges-service/internal/domain/entity"
)

// CalculateStreaks folds a user's confirmation log into current/best streak
// metrics. The input may arrive in any order; unconfirmed rows are ignored.
// The fold is pure and has no side effects.
func CalculateStreaks(logs []*entity.Confirmation) entity.Streak {
	confirmed := make([]*entity.Confirmation, 0, len(logs))
	for _, l := range logs {
		if l.IsConfirmed() {
			confirmed = append(confirmed, l)
		}
	}
	if len(confirmed) == 0 {
		return entity.Streak{}
	}

	// Dates are unique per log, so the sort has no ties.
	sort.Slice(confirmed, func(i, j int) bool {
		return confirmed[i].Date < confirmed[j].Date
	})

	last := confirmed[len(confirmed)-1].Date

	return entity.Streak{
		Current:           currentStreak(confirmed, last),
		Best:              bestStreak(confirmed),
		LastConfirmedDate: last,
	}
}

// CalculateCheckInRun counts how many consecutive calendar days, ending at
// the last confirmed date, have a confirmed log at all — pass or fail. It
// measures showing up, not succeeding.
func CalculateCheckInRun(logs []*entity.Confirmation) int {
	byDate := make(map[string]struct{})
	last := ""
	for _, l := range logs {
		if !l.IsConfirmed() {
			continue
		}
		byDate[l.Date] = struct{}{}
		if l.Date > last {
			last = l.Date
		}
	}
	if last == "" {
		return 0
	}

	count := 0
	for day := last; ; {
		if _, ok := byDate[day]; !ok {
			break
		}
		count++

		prev, err := calendar.PreviousDate(day)
		if err != nil {
			break
		}
		day = prev
	}
	return count
}

// bestStreak walks the sorted log forward. A success extends the run only
// when its date is exactly one day after the previous successful date; any
// gap, including one left by an intervening failure day, restarts the run
// at 1. A failure resets the run to 0.
func bestStreak(sorted []*entity.Confirmation) int {
	best := 0
	run := 0
	prevSuccess := ""

	for _, l := range sorted {
		if l.Violated {
			run = 0
			continue
		}

		next := ""
		if prevSuccess != "" {
			next, _ = calendar.NextDate(prevSuccess)
		}
		if l.Date == next {
			run++
		} else {
			run = 1
		}
		prevSuccess = l.Date

		if run > best {
			best = run
		}
	}

	return best
}

// currentStreak walks backward from the last confirmed date: while a
// confirmed success exists for the day, count it and step one day back.
// The first missing day or failure ends the streak.
func currentStreak(confirmed []*entity.Confirmation, last string) int {
	byDate := make(map[string]*entity.Confirmation, len(confirmed))
	for _, l := range confirmed {
		byDate[l.Date] = l
	}

	count := 0
	for day := last; ; {
		l, ok := byDate[day]
		if !ok || l.Violated {
			break
		}
		count++

		prev, err := calendar.PreviousDate(day)
		if err != nil {
			break
		}
		day = prev
	}

	return count
}
