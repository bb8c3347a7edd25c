package service

import (
	"fmt"

	"challenges-service/internal/calendar"
	"challenges-service/internal/domain/entity"
)

// DetectPendingDays lists the calendar days a user must still confirm,
// resolved against "today" in the user's timezone. Pending days are a
// backfill obligation: until they are confirmed the computed streak cannot
// be trusted. startDate is the effective lower bound (challenge start or
// membership join date, whichever is later); empty means unbounded.
func DetectPendingDays(logs []*entity.Confirmation, timezone, startDate string) ([]string, error) {
	today, err := calendar.Today(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve today: %w", err)
	}
	return pendingDaysAsOf(logs, startDate, today)
}

func pendingDaysAsOf(logs []*entity.Confirmation, startDate, today string) ([]string, error) {
	lastConfirmed := ""
	confirmedDates := make(map[string]struct{})
	loggedDates := make(map[string]struct{})
	for _, l := range logs {
		loggedDates[l.Date] = struct{}{}
		if !l.IsConfirmed() {
			continue
		}
		confirmedDates[l.Date] = struct{}{}
		if l.Date > lastConfirmed {
			lastConfirmed = l.Date
		}
	}

	// Nothing confirmed yet: every day since the start date without any
	// log at all is pending. Without a start date there is no obligation.
	if lastConfirmed == "" {
		if startDate == "" || !calendar.IsBefore(startDate, today) {
			return []string{}, nil
		}
		days, err := calendar.DatesBetween(startDate, today)
		if err != nil {
			return nil, err
		}
		pending := make([]string, 0, len(days))
		for _, d := range days {
			if _, ok := loggedDates[d]; !ok {
				pending = append(pending, d)
			}
		}
		return pending, nil
	}

	// With confirmations the walk starts after the later of the start
	// date and the last confirmed date; an unconfirmed log still counts
	// as pending.
	effectiveStart := lastConfirmed
	if startDate != "" && calendar.IsBefore(effectiveStart, startDate) {
		effectiveStart = startDate
	}
	if !calendar.IsBefore(effectiveStart, today) {
		return []string{}, nil
	}

	from, err := calendar.NextDate(effectiveStart)
	if err != nil {
		return nil, err
	}
	days, err := calendar.DatesBetween(from, today)
	if err != nil {
		return nil, err
	}

	pending := make([]string, 0, len(days))
	for _, d := range days {
		if _, ok := confirmedDates[d]; !ok {
			pending = append(pending, d)
		}
	}
	return pending, nil
}
