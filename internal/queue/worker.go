package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/cuneytcagriyilmaz/postdesk/internal/transfer"
	"github.com/hibiken/asynq"
)

// HandleDeadlineNotificationTask delivers one notification. Sink failures are
// logged and swallowed so asynq does not retry a fire-and-forget delivery.
func (q *Queue) HandleDeadlineNotificationTask(ctx context.Context, task *asynq.Task) error {
	var payload transfer.DeadlineNotification
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	if payload.CompanyName == "" {
		customer, err := q.directory.GetCustomer(ctx, payload.CustomerID)
		if err == nil {
			payload.CompanyName = customer.CompanyName
		}
	}

	if err := q.sink.Emit(ctx, &payload); err != nil {
		slog.Info("notification delivery failed",
			"deadline_id", payload.DeadlineID, "severity", payload.Severity, "error", err.Error())
	}

	return nil
}
