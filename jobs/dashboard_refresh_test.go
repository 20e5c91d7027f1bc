package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-pos/atlas-pos/internal/dashboard"
)

type recordingSummaryRepo struct {
	days []time.Time
}

func (r *recordingSummaryRepo) DailySummary(ctx context.Context, day time.Time) (dashboard.Summary, error) {
	r.days = append(r.days, day)
	return dashboard.Summary{Day: day.Format("2006-01-02")}, nil
}

func newRefreshJob(t *testing.T) (*DashboardRefreshJob, *recordingSummaryRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &recordingSummaryRepo{}
	svc := dashboard.NewService(repo, dashboard.NewCache(client, time.Minute))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDashboardRefreshJob(svc, logger), repo
}

func TestHandleWarmsGivenDay(t *testing.T) {
	job, repo := newRefreshJob(t)

	task, err := NewDashboardRefreshTask(DashboardRefreshPayload{Day: "2026-08-30"})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Len(t, repo.days, 1)
	assert.Equal(t, "2026-08-30", repo.days[0].Format("2006-01-02"))
}

func TestHandleEmptyDayWarmsToday(t *testing.T) {
	job, repo := newRefreshJob(t)

	task, err := NewDashboardRefreshTask(DashboardRefreshPayload{})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Len(t, repo.days, 1)
	assert.Equal(t, time.Now().Format("2006-01-02"), repo.days[0].Format("2006-01-02"),
		"a payload without a day must resolve to the current day at run time")
}

func TestHandleSkipsRetryOnBadPayload(t *testing.T) {
	job, repo := newRefreshJob(t)

	err := job.Handle(context.Background(), asynq.NewTask(TaskDashboardRefresh, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)

	err = job.Handle(context.Background(), asynq.NewTask(TaskDashboardRefresh, []byte(`{"day":"yesterday"}`)))
	require.ErrorIs(t, err, asynq.SkipRetry)

	assert.Empty(t, repo.days)
}
