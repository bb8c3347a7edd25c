package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RejectsMalformedDates(t *testing.T) {
	for _, bad := range []string{"", "2024-13-01", "2024-01-32", "01-02-2024", "2024/01/02", "not-a-date"} {
		if _, err := Parse(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestNextAndPreviousDate(t *testing.T) {
	next, err := NextDate("2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", next)

	prev, err := PreviousDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", prev) // 2024 is a leap year

	prev, err = PreviousDate("2023-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2023-02-28", prev)
}

func TestDatesBetween(t *testing.T) {
	dates, err := DatesBetween("2024-01-30", "2024-02-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-30", "2024-01-31", "2024-02-01", "2024-02-02"}, dates)

	single, err := DatesBetween("2024-01-01", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01"}, single)

	empty, err := DatesBetween("2024-01-02", "2024-01-01")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestIsBefore(t *testing.T) {
	assert.True(t, IsBefore("2024-01-01", "2024-01-02"))
	assert.True(t, IsBefore("2023-12-31", "2024-01-01"))
	assert.False(t, IsBefore("2024-01-02", "2024-01-02"))
	assert.False(t, IsBefore("2024-01-03", "2024-01-02"))
}

func TestDateOf_RespectsTimezone(t *testing.T) {
	// 2024-01-01 02:00 UTC is still 2023-12-31 in Los Angeles.
	instant, err := Parse("2024-01-01")
	require.NoError(t, err)
	instant = instant.Add(2 * time.Hour)

	la, err := DateOf(instant, "America/Los_Angeles")
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31", la)

	utc, err := DateOf(instant, "UTC")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", utc)

	_, err = DateOf(instant, "Not/AZone")
	assert.Error(t, err)
}
