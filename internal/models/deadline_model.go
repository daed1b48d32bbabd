package models

import "time"

type Deadline struct {
	ID                 int64      `db:"id" json:"id"`
	CustomerID         int64      `db:"customer_id" json:"customer_id"`
	PostID             *int64     `db:"post_id" json:"post_id,omitempty"`
	ScheduledDate      time.Time  `db:"scheduled_date" json:"scheduled_date"`
	Status             string     `db:"status" json:"status"` // not_started, in_progress, ready, sent, cancelled
	ContentReady       bool       `db:"content_ready" json:"content_ready"`
	PostContent        string     `db:"post_content" json:"post_content"`
	Platform           string     `db:"platform" json:"platform"`
	EventType          string     `db:"event_type" json:"event_type"`
	AutoCreated        bool       `db:"auto_created" json:"auto_created"`
	HolidayName        string     `db:"holiday_name" json:"holiday_name,omitempty"`
	HolidayType        string     `db:"holiday_type" json:"holiday_type,omitempty"`
	Deleted            bool       `db:"deleted" json:"-"`
	NotificationSent   bool       `db:"notification_sent" json:"notification_sent"`
	NotificationSentAt *time.Time `db:"notification_sent_at" json:"notification_sent_at,omitempty"`
	OverdueNotifiedAt  *time.Time `db:"overdue_notified_at" json:"overdue_notified_at,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`

	// Computed on every read, never stored.
	DaysRemaining int     `db:"-" json:"days_remaining"`
	Urgency       Urgency `db:"-" json:"urgency"`
}

const (
	DeadlineStatusNotStarted = "not_started"
	DeadlineStatusInProgress = "in_progress"
	DeadlineStatusReady      = "ready"
	DeadlineStatusSent       = "sent"
	DeadlineStatusCancelled  = "cancelled"
)

const (
	PlatformInstagram = "instagram"
	PlatformFacebook  = "facebook"
	PlatformTiktok    = "tiktok"
)

const (
	EventTypeFirstPost   = "first_post"
	EventTypeRegular     = "regular"
	EventTypeSpecialDate = "special_date"
)

// Terminal statuses admit no further transitions.
func IsTerminalStatus(status string) bool {
	return status == DeadlineStatusSent || status == DeadlineStatusCancelled
}

func IsValidStatus(status string) bool {
	switch status {
	case DeadlineStatusNotStarted, DeadlineStatusInProgress, DeadlineStatusReady,
		DeadlineStatusSent, DeadlineStatusCancelled:
		return true
	}
	return false
}

func IsValidPlatform(platform string) bool {
	switch platform {
	case "", PlatformInstagram, PlatformFacebook, PlatformTiktok:
		return true
	}
	return false
}

func IsValidEventType(eventType string) bool {
	switch eventType {
	case EventTypeFirstPost, EventTypeRegular, EventTypeSpecialDate:
		return true
	}
	return false
}
