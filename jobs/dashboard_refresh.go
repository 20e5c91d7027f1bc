package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/atlas-pos/atlas-pos/internal/dashboard"
)

// DashboardRefreshJob recomputes the cached sales summary.
type DashboardRefreshJob struct {
	service *dashboard.Service
	logger  *slog.Logger
}

// NewDashboardRefreshJob constructs the job.
func NewDashboardRefreshJob(service *dashboard.Service, logger *slog.Logger) *DashboardRefreshJob {
	return &DashboardRefreshJob{service: service, logger: logger}
}

// Handle processes TaskDashboardRefresh tasks. An empty day means "today",
// which lets cron registrations use a static payload.
func (j *DashboardRefreshJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload DashboardRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	day := time.Now()
	if payload.Day != "" {
		parsed, err := time.Parse("2006-01-02", payload.Day)
		if err != nil {
			return asynq.SkipRetry
		}
		day = parsed
	}

	if err := j.service.Warm(ctx, day); err != nil {
		j.logger.Warn("dashboard refresh", slog.Any("error", err), slog.String("day", payload.Day))
		return err
	}
	return nil
}
