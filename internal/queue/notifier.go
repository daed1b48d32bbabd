package queue

import (
	"context"

	"github.com/cuneytcagriyilmaz/postdesk/internal/transfer"
	"github.com/hibiken/asynq"
)

// Notifier hands notifications to the asynq queue for asynchronous delivery.
type Notifier struct {
	client *asynq.Client
}

func NewNotifier(client *asynq.Client) *Notifier {
	return &Notifier{client: client}
}

func (n *Notifier) Notify(ctx context.Context, payload transfer.DeadlineNotification) error {
	return EnqueueNotification(n.client, payload)
}
