package transfer

import "time"

const (
	SeverityUrgent  = "URGENT"
	SeverityWarning = "WARNING"
	SeverityOverdue = "OVERDUE"
)

type DeadlineNotification struct {
	DeadlineID    int64     `json:"deadline_id"`
	CustomerID    int64     `json:"customer_id"`
	CompanyName   string    `json:"company_name,omitempty"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Platform      string    `json:"platform,omitempty"`
	Severity      string    `json:"severity"`
}
