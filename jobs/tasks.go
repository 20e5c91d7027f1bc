package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDashboardRefresh re-warms the dashboard summary after sales activity.
	TaskDashboardRefresh = "dashboard:refresh"
)

// DashboardRefreshPayload names the day whose summary should be recomputed.
type DashboardRefreshPayload struct {
	Day string `json:"day"`
}

// NewDashboardRefreshTask constructs an Asynq task.
func NewDashboardRefreshTask(payload DashboardRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardRefresh, data), nil
}
