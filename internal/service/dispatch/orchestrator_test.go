package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"service-rider-notify/internal/apperr"
	"service-rider-notify/internal/compose"
	"service-rider-notify/internal/config"
	"service-rider-notify/internal/domain"
	"service-rider-notify/internal/gateway/sms"
	"service-rider-notify/internal/metrics"
	"service-rider-notify/internal/repository"
	testlog "service-rider-notify/internal/testutil"
)

type fakeAssignments struct {
	byID  map[string]domain.Assignment
	list  []domain.Assignment
	stats domain.NotificationStats

	lastFilter repository.ListFilter
	statsCalls int
}

func (f *fakeAssignments) Get(_ context.Context, id string) (*domain.Assignment, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (f *fakeAssignments) List(_ context.Context, filter repository.ListFilter) ([]domain.Assignment, error) {
	f.lastFilter = filter
	return f.list, nil
}

func (f *fakeAssignments) Stats(context.Context, time.Time) (domain.NotificationStats, error) {
	f.statsCalls++
	return f.stats, nil
}

type fakeRiders struct{ byName map[string]domain.Rider }

func (f *fakeRiders) FindByName(_ context.Context, name string) (*domain.Rider, error) {
	r, ok := f.byName[name]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

type fakeRequests struct{}

func (fakeRequests) Get(context.Context, string) (*domain.RequestDetails, error) {
	return nil, nil
}

type fakeSMS struct {
	calls     []string
	failPhone map[string]error
}

func (f *fakeSMS) Send(_ context.Context, to, _ string) (*sms.SendResult, error) {
	f.calls = append(f.calls, to)
	if err, ok := f.failPhone[to]; ok {
		return nil, err
	}
	return &sms.SendResult{ExternalID: "SM" + strconv.Itoa(len(f.calls))}, nil
}

type fakeEmail struct {
	calls []string
	err   error
}

func (f *fakeEmail) Send(to, _, _ string) error {
	f.calls = append(f.calls, to)
	return f.err
}

type fakeTracker struct{ rows []domain.OutboundMessage }

func (f *fakeTracker) InsertOutbound(_ context.Context, m domain.OutboundMessage) error {
	f.rows = append(f.rows, m)
	return nil
}

type fakeRecorder struct{ calls []domain.Channel }

func (f *fakeRecorder) RecordSent(_ context.Context, _ string, ch domain.Channel, _ time.Time) error {
	f.calls = append(f.calls, ch)
	return nil
}

type fakeStatsCache struct {
	stored   *domain.NotificationStats
	sets     int
	getCalls int
}

func (f *fakeStatsCache) Get(context.Context) (*domain.NotificationStats, error) {
	f.getCalls++
	return f.stored, nil
}

func (f *fakeStatsCache) Set(_ context.Context, s domain.NotificationStats) error {
	f.sets++
	f.stored = &s
	return nil
}

type env struct {
	assignments *fakeAssignments
	riders      *fakeRiders
	sms         *fakeSMS
	email       *fakeEmail
	tracker     *fakeTracker
	recorder    *fakeRecorder
	cache       *fakeStatsCache
	sleeps      []time.Duration
	orch        *Orchestrator
}

func newEnv(t *testing.T, cfg config.Dispatch) *env {
	t.Helper()
	e := &env{
		assignments: &fakeAssignments{byID: map[string]domain.Assignment{}},
		riders:      &fakeRiders{byName: map[string]domain.Rider{}},
		sms:         &fakeSMS{failPhone: map[string]error{}},
		email:       &fakeEmail{},
		tracker:     &fakeTracker{},
		recorder:    &fakeRecorder{},
		cache:       &fakeStatsCache{},
	}
	e.orch = NewOrchestrator(Deps{
		Assignments: e.assignments,
		Riders:      e.riders,
		Requests:    fakeRequests{},
		SMS:         e.sms,
		Email:       e.email,
		Composer:    compose.New(""),
		Tracking:    e.tracker,
		Recorder:    e.recorder,
		Cache:       e.cache,
		SentTotal:   metrics.NewNotificationsSentTotal(),
		FailedTotal: metrics.NewNotificationsFailedTotal(),
	}, cfg, testlog.New().Logger())
	e.orch.sleep = func(d time.Duration) { e.sleeps = append(e.sleeps, d) }
	e.orch.newBatchID = func() string { return "batch-test" }
	return e
}

func assignment(id, rider string) domain.Assignment {
	return domain.Assignment{
		ID:        id,
		RequestID: "REQ-" + id,
		RiderName: rider,
		EventDate: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00 AM",
		Status:    domain.StatusAssigned,
	}
}

func TestSendOne_BothChannels(t *testing.T) {
	e := newEnv(t, config.DefaultDispatch())
	e.assignments.byID["ASG-001"] = assignment("ASG-001", "Sam Ortiz")
	e.riders.byName["Sam Ortiz"] = domain.Rider{Name: "Sam Ortiz", Phone: "5551234567", Email: "sam@example.org"}

	results, err := e.orch.SendOne(context.Background(), "ASG-001", domain.ChannelBoth)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.True(t, results[0].Success)
	require.True(t, results[1].Success)
	require.Equal(t, domain.ChannelSMS, results[0].Channel)
	require.Equal(t, domain.ChannelEmail, results[1].Channel)

	require.Equal(t, []string{"5551234567"}, e.sms.calls)
	require.Equal(t, []string{"sam@example.org"}, e.email.calls)
	require.Len(t, e.tracker.rows, 2)
	require.Equal(t, []domain.Channel{domain.ChannelSMS, domain.ChannelEmail}, e.recorder.calls)
}

func TestSendOne_UnknownAssignment(t *testing.T) {
	e := newEnv(t, config.DefaultDispatch())

	_, err := e.orch.SendOne(context.Background(), "ASG-404", domain.ChannelSMS)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSendOne_EmailFailureDoesNotHideSMSSuccess(t *testing.T) {
	e := newEnv(t, config.DefaultDispatch())
	e.assignments.byID["ASG-001"] = assignment("ASG-001", "Sam Ortiz")
	e.riders.byName["Sam Ortiz"] = domain.Rider{Name: "Sam Ortiz", Phone: "5551234567", Email: "sam@example.org"}
	e.email.err = errors.New("smtp connect refused")

	results, err := e.orch.SendOne(context.Background(), "ASG-001", domain.ChannelBoth)
	require.NoError(t, err)
	require.True(t, results[0].Success)
	require.False(t, results[1].Success)
	require.Contains(t, results[1].Error, "smtp connect refused")
	require.Equal(t, []domain.Channel{domain.ChannelSMS}, e.recorder.calls)
}

func TestSendBatch_PartialFailure(t *testing.T) {
	e := newEnv(t, config.DefaultDispatch())
	e.assignments.list = []domain.Assignment{
		assignment("ASG-001", "Sam Ortiz"),
		assignment("ASG-002", "Lee Park"),
		assignment("ASG-003", "Rosa Ng"),
	}
	e.riders.byName["Sam Ortiz"] = domain.Rider{Name: "Sam Ortiz", Phone: "5551234567"}
	e.riders.byName["Lee Park"] = domain.Rider{Name: "Lee Park", Phone: "555123"}
	e.riders.byName["Rosa Ng"] = domain.Rider{Name: "Rosa Ng", Phone: "5559876543"}
	e.sms.failPhone["555123"] = fmt.Errorf("invalid destination number: %w", apperr.ErrInvalid)

	batch, err := e.orch.SendBatch(context.Background(), Selection{}, domain.ChannelSMS, "morning run")
	require.NoError(t, err)
	require.Equal(t, 2, batch.Successful)
	require.Equal(t, 1, batch.Failed)
	require.Len(t, batch.Errors, 1)
	require.Contains(t, batch.Errors[0], "ASG-002")
	require.Len(t, e.tracker.rows, 3)
}

func TestSendBatch_MissingRiderCountsAsFailure(t *testing.T) {
	e := newEnv(t, config.DefaultDispatch())
	e.assignments.list = []domain.Assignment{assignment("ASG-001", "Nobody Known")}

	batch, err := e.orch.SendBatch(context.Background(), Selection{}, domain.ChannelSMS, "")
	require.NoError(t, err)
	require.Equal(t, 0, batch.Successful)
	require.Equal(t, 1, batch.Failed)
	require.Empty(t, e.sms.calls)
}

func TestSendBatch_PacesEveryNSends(t *testing.T) {
	cfg := config.DefaultDispatch()
	cfg.PaceEvery = 2
	cfg.PacePause = 2 * time.Second
	e := newEnv(t, cfg)

	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("ASG-%03d", i)
		rider := fmt.Sprintf("Rider %d", i)
		e.assignments.list = append(e.assignments.list, assignment(id, rider))
		e.riders.byName[rider] = domain.Rider{Name: rider, Phone: fmt.Sprintf("55500000%02d", i)}
	}

	batch, err := e.orch.SendBatch(context.Background(), Selection{}, domain.ChannelSMS, "")
	require.NoError(t, err)
	require.Equal(t, 5, batch.Successful)
	// пауза после каждой второй отправки, последняя не в счёт
	require.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, e.sleeps)
}

func TestSendBatch_AssignedPresetKeepsConfirmed(t *testing.T) {
	e := newEnv(t, config.DefaultDispatch())
	confirmed := assignment("ASG-001", "Sam Ortiz")
	confirmed.Status = domain.StatusConfirmed
	e.assignments.list = []domain.Assignment{confirmed}
	e.riders.byName["Sam Ortiz"] = domain.Rider{Name: "Sam Ortiz", Phone: "5551234567"}

	batch, err := e.orch.SendBatch(context.Background(), Selection{Preset: PresetAssigned}, domain.ChannelSMS, "")
	require.NoError(t, err)
	// подтверждённые остаются в выборке, фильтр только по активности
	require.Equal(t, 1, batch.Total())
	require.Equal(t, 1, batch.Successful)
	require.Equal(t, []string{"5551234567"}, e.sms.calls)
	require.Equal(t, repository.ListFilter{Active: true}, e.assignments.lastFilter)
}

func TestSendBatch_ErrorSampleIsCapped(t *testing.T) {
	e := newEnv(t, config.DefaultDispatch())
	for i := 1; i <= 15; i++ {
		e.assignments.list = append(e.assignments.list,
			assignment(fmt.Sprintf("ASG-%03d", i), "Nobody Known"))
	}

	batch, err := e.orch.SendBatch(context.Background(), Selection{}, domain.ChannelSMS, "")
	require.NoError(t, err)
	require.Equal(t, 15, batch.Failed)
	require.Len(t, batch.Errors, domain.MaxBatchErrors)
}

func TestStats_CacheHitSkipsRepo(t *testing.T) {
	e := newEnv(t, config.DefaultDispatch())
	cached := domain.NotificationStats{TotalEligible: 9}
	e.cache.stored = &cached

	s, err := e.orch.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, cached, s)
	require.Equal(t, 0, e.assignments.statsCalls)
}

func TestStats_CacheMissPopulates(t *testing.T) {
	e := newEnv(t, config.DefaultDispatch())
	e.assignments.stats = domain.NotificationStats{TotalEligible: 3, Pending: 2}

	s, err := e.orch.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, s.TotalEligible)
	require.Equal(t, 1, e.assignments.statsCalls)
	require.Equal(t, 1, e.cache.sets)
}
