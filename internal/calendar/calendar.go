package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the canonical calendar-date format used everywhere a date is
// stored or exchanged. Dates are timezone-naive strings; the timezone matters
// only when resolving "today".
const DateLayout = "2006-01-02"

// Parse validates and parses a canonical "YYYY-MM-DD" date string.
func Parse(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// Format renders a time as a canonical date string, dropping the time part.
func Format(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the current calendar date in the given IANA timezone.
func Today(timezone string) (string, error) {
	return DateOf(time.Now().UTC(), timezone)
}

// DateOf returns the calendar date of an instant as observed in the given
// IANA timezone.
func DateOf(t time.Time, timezone string) (string, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return t.In(loc).Format(DateLayout), nil
}

// IsBefore reports whether d1 is strictly before d2. Canonical date strings
// are zero-padded, so lexicographic order is chronological order.
func IsBefore(d1, d2 string) bool {
	return d1 < d2
}

// NextDate returns the calendar day after the given date.
func NextDate(date string) (string, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	return Format(t.AddDate(0, 0, 1)), nil
}

// PreviousDate returns the calendar day before the given date.
func PreviousDate(date string) (string, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	return Format(t.AddDate(0, 0, -1)), nil
}

// DatesBetween returns every date in [start, end], inclusive on both ends,
// in ascending order. An empty slice is returned when start is after end.
func DatesBetween(start, end string) ([]string, error) {
	startT, err := Parse(start)
	if err != nil {
		return nil, err
	}
	endT, err := Parse(end)
	if err != nil {
		return nil, err
	}

	var dates []string
	for t := startT; !t.After(endT); t = t.AddDate(0, 0, 1) {
		dates = append(dates, Format(t))
	}
	return dates, nil
}
