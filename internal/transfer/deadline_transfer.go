package transfer

import "time"

type DeadlineCreation struct {
	CustomerID    int64      `json:"customer_id"`
	PostID        *int64     `json:"post_id,omitempty"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	Platform      string     `json:"platform,omitempty"`
	EventType     string     `json:"event_type,omitempty"`
	PostContent   string     `json:"post_content,omitempty"`
	AutoCreated   bool       `json:"auto_created,omitempty"`
	HolidayName   string     `json:"holiday_name,omitempty"`
	HolidayType   string     `json:"holiday_type,omitempty"`
}

// DeadlineUpdate carries patch semantics: nil fields are left untouched.
type DeadlineUpdate struct {
	PostID        *int64     `json:"post_id,omitempty"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	Status        *string    `json:"status,omitempty"`
	ContentReady  *bool      `json:"content_ready,omitempty"`
	PostContent   *string    `json:"post_content,omitempty"`
	Platform      *string    `json:"platform,omitempty"`
	EventType     *string    `json:"event_type,omitempty"`
	HolidayName   *string    `json:"holiday_name,omitempty"`
	HolidayType   *string    `json:"holiday_type,omitempty"`
}
