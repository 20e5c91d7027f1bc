package dashboard

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	summary Summary
	calls   int
}

func (m *mockRepo) DailySummary(ctx context.Context, day time.Time) (Summary, error) {
	m.calls++
	return m.summary, nil
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(repo, NewCache(client, time.Minute))
}

func TestSummaryIsCached(t *testing.T) {
	repo := &mockRepo{summary: Summary{
		Day:              "2026-08-30",
		TransactionCount: 3,
		Gross:            decimal.NewFromInt(100),
		Discount:         decimal.NewFromInt(10),
		Net:              decimal.NewFromInt(90),
	}}
	svc := newTestService(t, repo)
	ctx := context.Background()
	day := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	first, err := svc.Summary(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, int64(3), first.TransactionCount)
	assert.True(t, first.Net.Equal(decimal.NewFromInt(90)))

	_, err = svc.Summary(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls, "second read must come from cache")
}

func TestInvalidateBumpsVersion(t *testing.T) {
	repo := &mockRepo{summary: Summary{Day: "2026-08-30", TransactionCount: 1}}
	svc := newTestService(t, repo)
	ctx := context.Background()
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	_, err := svc.Summary(ctx, day)
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)

	require.NoError(t, svc.Invalidate(ctx))

	repo.summary.TransactionCount = 2
	updated, err := svc.Summary(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls, "bump must force a reload")
	assert.Equal(t, int64(2), updated.TransactionCount)
}

func TestWarmPopulatesCache(t *testing.T) {
	repo := &mockRepo{summary: Summary{Day: "2026-08-30"}}
	svc := newTestService(t, repo)
	ctx := context.Background()
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	require.NoError(t, svc.Warm(ctx, day))
	_, err := svc.Summary(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
}
