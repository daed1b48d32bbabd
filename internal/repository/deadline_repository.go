package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/cuneytcagriyilmaz/postdesk/internal/models"
)

type DeadlineRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Deadline, error)
	GetByIDIncludingDeleted(ctx context.Context, id int64) (*models.Deadline, error)
	Create(ctx context.Context, tx *sql.Tx, d *models.Deadline) (int64, error)
	ListByCustomerID(ctx context.Context, customerID int64) ([]*models.Deadline, error)
	ListDueUnnotified(ctx context.Context, date time.Time) ([]*models.Deadline, error)
	ListOverdue(ctx context.Context, today time.Time) ([]*models.Deadline, error)
	ListExpired(ctx context.Context, cutoff time.Time) ([]*models.Deadline, error)
	Update(ctx context.Context, tx *sql.Tx, d *models.Deadline) error
	MarkNotified(ctx context.Context, id int64, sentAt time.Time) error
	MarkOverdueNotified(ctx context.Context, id int64, notifiedAt time.Time) error
	RemoveIfUnchanged(ctx context.Context, tx *sql.Tx, id int64, updatedAt time.Time) (bool, error)
}

type deadlineRepository struct {
	db *sql.DB
}

func NewDeadlineRepository(db *sql.DB) DeadlineRepository {
	return &deadlineRepository{db: db}
}

const deadlineColumns = `id, customer_id, post_id, scheduled_date, status, content_ready,
		post_content, platform, event_type, auto_created, holiday_name, holiday_type,
		deleted, notification_sent, notification_sent_at, overdue_notified_at, created_at, updated_at`

func scanDeadline(row interface{ Scan(dest ...any) error }) (*models.Deadline, error) {
	var d models.Deadline
	err := row.Scan(&d.ID, &d.CustomerID, &d.PostID, &d.ScheduledDate, &d.Status, &d.ContentReady,
		&d.PostContent, &d.Platform, &d.EventType, &d.AutoCreated, &d.HolidayName, &d.HolidayType,
		&d.Deleted, &d.NotificationSent, &d.NotificationSentAt, &d.OverdueNotifiedAt, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *deadlineRepository) Create(ctx context.Context, tx *sql.Tx, d *models.Deadline) (int64, error) {
	query := `
		INSERT INTO post_deadlines (customer_id, post_id, scheduled_date, status, content_ready,
			post_content, platform, event_type, auto_created, holiday_name, holiday_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, d.CustomerID, d.PostID, d.ScheduledDate, d.Status, d.ContentReady,
			d.PostContent, d.Platform, d.EventType, d.AutoCreated, d.HolidayName, d.HolidayType, d.CreatedAt, d.UpdatedAt).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, d.CustomerID, d.PostID, d.ScheduledDate, d.Status, d.ContentReady,
			d.PostContent, d.Platform, d.EventType, d.AutoCreated, d.HolidayName, d.HolidayType, d.CreatedAt, d.UpdatedAt).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *deadlineRepository) GetByID(ctx context.Context, id int64) (*models.Deadline, error) {
	query := `SELECT ` + deadlineColumns + ` FROM post_deadlines WHERE id = $1 AND deleted = FALSE`
	row := r.db.QueryRowContext(ctx, query, id)

	d, err := scanDeadline(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return d, nil
}

func (r *deadlineRepository) GetByIDIncludingDeleted(ctx context.Context, id int64) (*models.Deadline, error) {
	query := `SELECT ` + deadlineColumns + ` FROM post_deadlines WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	d, err := scanDeadline(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return d, nil
}

func (r *deadlineRepository) ListByCustomerID(ctx context.Context, customerID int64) ([]*models.Deadline, error) {
	query := `SELECT ` + deadlineColumns + ` FROM post_deadlines WHERE customer_id = $1 AND deleted = FALSE`
	return r.list(ctx, query, customerID)
}

func (r *deadlineRepository) ListDueUnnotified(ctx context.Context, date time.Time) ([]*models.Deadline, error) {
	query := `SELECT ` + deadlineColumns + ` FROM post_deadlines
		WHERE scheduled_date = $1 AND notification_sent = FALSE AND deleted = FALSE`
	return r.list(ctx, query, date)
}

func (r *deadlineRepository) ListOverdue(ctx context.Context, today time.Time) ([]*models.Deadline, error) {
	query := `SELECT ` + deadlineColumns + ` FROM post_deadlines
		WHERE scheduled_date < $1 AND status NOT IN ($2, $3) AND deleted = FALSE`
	return r.list(ctx, query, today, models.DeadlineStatusSent, models.DeadlineStatusCancelled)
}

func (r *deadlineRepository) ListExpired(ctx context.Context, cutoff time.Time) ([]*models.Deadline, error) {
	query := `SELECT ` + deadlineColumns + ` FROM post_deadlines
		WHERE scheduled_date < $1 AND deleted = FALSE`
	return r.list(ctx, query, cutoff)
}

func (r *deadlineRepository) list(ctx context.Context, query string, args ...any) ([]*models.Deadline, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var deadlines []*models.Deadline
	for rows.Next() {
		d, err := scanDeadline(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		deadlines = append(deadlines, d)
	}
	return deadlines, rows.Err()
}

func (r *deadlineRepository) Update(ctx context.Context, tx *sql.Tx, d *models.Deadline) error {
	query := `
		UPDATE post_deadlines
		SET post_id = $1,
			scheduled_date = $2,
			status = $3,
			content_ready = $4,
			post_content = $5,
			platform = $6,
			event_type = $7,
			holiday_name = $8,
			holiday_type = $9,
			updated_at = $10
		WHERE id = $11 AND deleted = FALSE
	`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, d.PostID, d.ScheduledDate, d.Status, d.ContentReady,
			d.PostContent, d.Platform, d.EventType, d.HolidayName, d.HolidayType, d.UpdatedAt, d.ID)
	} else {
		_, err = r.db.ExecContext(ctx, query, d.PostID, d.ScheduledDate, d.Status, d.ContentReady,
			d.PostContent, d.Platform, d.EventType, d.HolidayName, d.HolidayType, d.UpdatedAt, d.ID)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *deadlineRepository) MarkNotified(ctx context.Context, id int64, sentAt time.Time) error {
	query := `
		UPDATE post_deadlines
		SET notification_sent = TRUE,
			notification_sent_at = $1,
			updated_at = $1
		WHERE id = $2 AND deleted = FALSE
	`
	_, err := r.db.ExecContext(ctx, query, sentAt, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *deadlineRepository) MarkOverdueNotified(ctx context.Context, id int64, notifiedAt time.Time) error {
	query := `
		UPDATE post_deadlines
		SET overdue_notified_at = $1,
			updated_at = $1
		WHERE id = $2 AND deleted = FALSE
	`
	_, err := r.db.ExecContext(ctx, query, notifiedAt, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// RemoveIfUnchanged soft-deletes the row only if nobody touched it since the
// caller read it. Returns false when a concurrent writer won.
func (r *deadlineRepository) RemoveIfUnchanged(ctx context.Context, tx *sql.Tx, id int64, updatedAt time.Time) (bool, error) {
	query := `UPDATE post_deadlines SET deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND updated_at = $2 AND deleted = FALSE`

	var res sql.Result
	var err error
	if tx != nil {
		res, err = tx.ExecContext(ctx, query, id, updatedAt)
	} else {
		res, err = r.db.ExecContext(ctx, query, id, updatedAt)
	}
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected == 1, nil
}
