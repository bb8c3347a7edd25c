package service

import (
	"testing"

	"challenges-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingDays_NoLogsNoStartDate(t *testing.T) {
	pending, err := pendingDaysAsOf(nil, "", "2024-06-10")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPendingDays_StartDateNotBeforeToday(t *testing.T) {
	pending, err := pendingDaysAsOf(nil, "2024-01-01", "2024-01-01")
	require.NoError(t, err)
	assert.Empty(t, pending)

	pending, err = pendingDaysAsOf(nil, "2024-01-02", "2024-01-01")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPendingDays_NoConfirmedLogs_WholeRangeWithoutAnyLog(t *testing.T) {
	// An unconfirmed row still counts as "a log exists" while nothing has
	// been confirmed yet.
	logs := []*entity.Confirmation{unconfirmed("2024-06-02")}
	pending, err := pendingDaysAsOf(logs, "2024-06-01", "2024-06-04")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-01", "2024-06-03", "2024-06-04"}, pending)
}

func TestPendingDays_WithConfirmations_WalksFromLastConfirmed(t *testing.T) {
	logs := []*entity.Confirmation{
		confirmed("2024-06-01", false),
		confirmed("2024-06-02", false),
	}
	pending, err := pendingDaysAsOf(logs, "2024-06-01", "2024-06-05")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-03", "2024-06-04", "2024-06-05"}, pending)
}

func TestPendingDays_UnconfirmedLogStillPending(t *testing.T) {
	// Once something is confirmed, an unconfirmed row no longer shields
	// its day.
	logs := []*entity.Confirmation{
		confirmed("2024-06-01", false),
		unconfirmed("2024-06-02"),
	}
	pending, err := pendingDaysAsOf(logs, "2024-06-01", "2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-02", "2024-06-03"}, pending)
}

func TestPendingDays_StartDateAfterLastConfirmed(t *testing.T) {
	// Joining a challenge later than the old confirmations: the join date
	// wins as the effective lower bound.
	logs := []*entity.Confirmation{confirmed("2024-05-01", false)}
	pending, err := pendingDaysAsOf(logs, "2024-06-01", "2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-02", "2024-06-03"}, pending)
}

func TestPendingDays_UpToDate(t *testing.T) {
	logs := []*entity.Confirmation{
		confirmed("2024-06-01", false),
		confirmed("2024-06-02", false),
		confirmed("2024-06-03", true),
	}
	pending, err := pendingDaysAsOf(logs, "2024-06-01", "2024-06-03")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPendingDays_Idempotent(t *testing.T) {
	logs := []*entity.Confirmation{
		confirmed("2024-06-01", false),
		unconfirmed("2024-06-03"),
	}
	first, err := pendingDaysAsOf(logs, "2024-06-01", "2024-06-05")
	require.NoError(t, err)
	second, err := pendingDaysAsOf(logs, "2024-06-01", "2024-06-05")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPendingDays_FailureDayCountsAsConfirmed(t *testing.T) {
	logs := []*entity.Confirmation{
		confirmed("2024-06-01", false),
		confirmed("2024-06-02", true),
	}
	pending, err := pendingDaysAsOf(logs, "2024-06-01", "2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-03"}, pending)
}
