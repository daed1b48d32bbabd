package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/cuneytcagriyilmaz/postdesk/internal/models"
)

// Archive rows are insert-only; there is deliberately no Update or Remove here.
type DeadlineArchiveRepository interface {
	GetByID(ctx context.Context, id int64) (*models.DeadlineArchive, error)
	Create(ctx context.Context, tx *sql.Tx, a *models.DeadlineArchive) (int64, error)
	ListByCustomerID(ctx context.Context, customerID int64) ([]*models.DeadlineArchive, error)
}

type deadlineArchiveRepository struct {
	db *sql.DB
}

func NewDeadlineArchiveRepository(db *sql.DB) DeadlineArchiveRepository {
	return &deadlineArchiveRepository{db: db}
}

const archiveColumns = `id, original_deadline_id, customer_id, scheduled_date, final_status,
		content_ready, post_content, platform, archived_reason, archived_at,
		original_created_at, original_updated_at`

func scanArchive(row interface{ Scan(dest ...any) error }) (*models.DeadlineArchive, error) {
	var a models.DeadlineArchive
	err := row.Scan(&a.ID, &a.OriginalDeadlineID, &a.CustomerID, &a.ScheduledDate, &a.FinalStatus,
		&a.ContentReady, &a.PostContent, &a.Platform, &a.ArchivedReason, &a.ArchivedAt,
		&a.OriginalCreatedAt, &a.OriginalUpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *deadlineArchiveRepository) Create(ctx context.Context, tx *sql.Tx, a *models.DeadlineArchive) (int64, error) {
	query := `
		INSERT INTO post_deadline_archives (original_deadline_id, customer_id, scheduled_date,
			final_status, content_ready, post_content, platform, archived_reason, archived_at,
			original_created_at, original_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, a.OriginalDeadlineID, a.CustomerID, a.ScheduledDate,
			a.FinalStatus, a.ContentReady, a.PostContent, a.Platform, a.ArchivedReason, a.ArchivedAt,
			a.OriginalCreatedAt, a.OriginalUpdatedAt).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, a.OriginalDeadlineID, a.CustomerID, a.ScheduledDate,
			a.FinalStatus, a.ContentReady, a.PostContent, a.Platform, a.ArchivedReason, a.ArchivedAt,
			a.OriginalCreatedAt, a.OriginalUpdatedAt).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *deadlineArchiveRepository) GetByID(ctx context.Context, id int64) (*models.DeadlineArchive, error) {
	query := `SELECT ` + archiveColumns + ` FROM post_deadline_archives WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	a, err := scanArchive(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return a, nil
}

func (r *deadlineArchiveRepository) ListByCustomerID(ctx context.Context, customerID int64) ([]*models.DeadlineArchive, error) {
	query := `SELECT ` + archiveColumns + ` FROM post_deadline_archives WHERE customer_id = $1`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var archives []*models.DeadlineArchive
	for rows.Next() {
		a, err := scanArchive(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		archives = append(archives, a)
	}
	return archives, rows.Err()
}
