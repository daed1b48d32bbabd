package models

import "time"

// DeadlineArchive is an append-only historical copy of a finalized deadline.
// Rows are never updated after insert.
type DeadlineArchive struct {
	ID                 int64     `db:"id" json:"id"`
	OriginalDeadlineID int64     `db:"original_deadline_id" json:"original_deadline_id"`
	CustomerID         int64     `db:"customer_id" json:"customer_id"`
	ScheduledDate      time.Time `db:"scheduled_date" json:"scheduled_date"`
	FinalStatus        string    `db:"final_status" json:"final_status"`
	ContentReady       bool      `db:"content_ready" json:"content_ready"`
	PostContent        string    `db:"post_content" json:"post_content"`
	Platform           string    `db:"platform" json:"platform"`
	ArchivedReason     string    `db:"archived_reason" json:"archived_reason"`
	ArchivedAt         time.Time `db:"archived_at" json:"archived_at"`
	OriginalCreatedAt  time.Time `db:"original_created_at" json:"original_created_at"`
	OriginalUpdatedAt  time.Time `db:"original_updated_at" json:"original_updated_at"`
}

const (
	ArchiveReasonExpired = "EXPIRED"
	ArchiveReasonManual  = "MANUAL"
)
