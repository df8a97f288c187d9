//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"service-rider-notify/internal/domain"
	"service-rider-notify/internal/repository"
)

func insertAssignment(ctx context.Context, t *testing.T, id, rider string, eventDate time.Time, status domain.AssignmentStatus) {
	t.Helper()
	_, err := tcPool.Exec(ctx, `
		INSERT INTO assignments (id, request_id, rider_name, event_date, start_time, status)
		VALUES ($1, $2, $3, $4, '10:00 AM', $5)
	`, id, "REQ-"+id, rider, eventDate, string(status))
	require.NoError(t, err)
}

func TestAssignmentRepo_GetAndMissing(t *testing.T) {
	ctx := context.Background()
	truncateAll(ctx, t)
	repo := repository.NewAssignmentRepo(tcPool)

	day := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	insertAssignment(ctx, t, "ASG-001", "Sam Ortiz", day, domain.StatusAssigned)

	got, err := repo.Get(ctx, "ASG-001")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Sam Ortiz", got.RiderName)
	require.Equal(t, domain.StatusAssigned, got.Status)
	require.Nil(t, got.SMSSentAt)

	missing, err := repo.Get(ctx, "ASG-404")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestAssignmentRepo_ListPendingFilter(t *testing.T) {
	ctx := context.Background()
	truncateAll(ctx, t)
	repo := repository.NewAssignmentRepo(tcPool)

	day := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	insertAssignment(ctx, t, "ASG-001", "Sam Ortiz", day, domain.StatusAssigned)
	insertAssignment(ctx, t, "ASG-002", "", day, domain.StatusAssigned)                 // no rider
	insertAssignment(ctx, t, "ASG-003", "Lee Park", day, domain.StatusCancelled)       // terminal
	insertAssignment(ctx, t, "ASG-004", "Rosa Ng", day.AddDate(0, 0, 1), domain.StatusConfirmed)

	// ASG-004 already notified over sms
	ok, err := repo.SetSentAt(ctx, "ASG-004", domain.ChannelSMS, time.Now().UTC())
	require.NoError(t, err)
	require.True(t, ok)

	pending, err := repo.List(ctx, repository.ListFilter{Pending: true})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "ASG-001", pending[0].ID)

	active, err := repo.List(ctx, repository.ListFilter{Active: true})
	require.NoError(t, err)
	require.Len(t, active, 2)
	require.Equal(t, "ASG-001", active[0].ID)
	require.Equal(t, "ASG-004", active[1].ID)
}

func TestAssignmentRepo_SetSentAtSetsNotifiedOnce(t *testing.T) {
	ctx := context.Background()
	truncateAll(ctx, t)
	repo := repository.NewAssignmentRepo(tcPool)

	day := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	insertAssignment(ctx, t, "ASG-001", "Sam Ortiz", day, domain.StatusAssigned)

	first := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	second := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	ok, err := repo.SetSentAt(ctx, "ASG-001", domain.ChannelSMS, first)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.SetSentAt(ctx, "ASG-001", domain.ChannelEmail, second)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.Get(ctx, "ASG-001")
	require.NoError(t, err)
	require.NotNil(t, got.SMSSentAt)
	require.NotNil(t, got.EmailSentAt)
	// notified_at keeps the timestamp of the first successful channel
	require.True(t, got.NotifiedAt.Equal(first))

	ok, err = repo.SetSentAt(ctx, "ASG-404", domain.ChannelSMS, first)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAssignmentRepo_SetStatusCompareAndSet(t *testing.T) {
	ctx := context.Background()
	truncateAll(ctx, t)
	repo := repository.NewAssignmentRepo(tcPool)

	day := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	insertAssignment(ctx, t, "ASG-001", "Sam Ortiz", day, domain.StatusAssigned)

	ok, err := repo.SetStatus(ctx, "ASG-001", domain.StatusAssigned, domain.StatusConfirmed)
	require.NoError(t, err)
	require.True(t, ok)

	// повторный переход из того же состояния уже не срабатывает
	ok, err = repo.SetStatus(ctx, "ASG-001", domain.StatusAssigned, domain.StatusConfirmed)
	require.NoError(t, err)
	require.False(t, ok)

	got, err := repo.Get(ctx, "ASG-001")
	require.NoError(t, err)
	require.Equal(t, domain.StatusConfirmed, got.Status)
}

func TestAssignmentRepo_Stats(t *testing.T) {
	ctx := context.Background()
	truncateAll(ctx, t)
	repo := repository.NewAssignmentRepo(tcPool)

	now := time.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	insertAssignment(ctx, t, "ASG-001", "Sam Ortiz", day, domain.StatusAssigned)
	insertAssignment(ctx, t, "ASG-002", "Lee Park", day, domain.StatusAssigned)
	insertAssignment(ctx, t, "ASG-003", "Rosa Ng", day, domain.StatusCompleted)

	ok, err := repo.SetSentAt(ctx, "ASG-001", domain.ChannelSMS, now)
	require.NoError(t, err)
	require.True(t, ok)

	stats, err := repo.Stats(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalEligible)
	require.Equal(t, 1, stats.Pending)
	require.Equal(t, 1, stats.SentTodaySMS)
	require.Equal(t, 0, stats.SentTodayEmail)
}
