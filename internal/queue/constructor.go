package queue

import (
	"github.com/cuneytcagriyilmaz/postdesk/internal/service"
)

type Queue struct {
	sink      service.NotificationSink
	directory service.CustomerDirectory
}

// NewQueue wires the notification worker. The directory is only used to enrich
// payloads with a company name, so callers should pass the fallback-wrapped
// client.
func NewQueue(sink service.NotificationSink, directory service.CustomerDirectory) *Queue {
	return &Queue{
		sink:      sink,
		directory: directory,
	}
}

const TaskTypeDeadlineNotification = "notify:deadline"
