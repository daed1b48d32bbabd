package queue

import (
	"encoding/json"
	"log"

	"github.com/cuneytcagriyilmaz/postdesk/internal/transfer"
	"github.com/hibiken/asynq"
)

func EnqueueNotification(asynqClient *asynq.Client, payload transfer.DeadlineNotification) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeDeadlineNotification, taskPayload)

	_, err = asynqClient.Enqueue(task)
	if err != nil {
		return err
	}

	log.Printf("Notification task enqueued: deadline=%d severity=%s", payload.DeadlineID, payload.Severity)
	return nil
}
