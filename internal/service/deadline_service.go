package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuneytcagriyilmaz/postdesk/internal/models"
	"github.com/cuneytcagriyilmaz/postdesk/internal/repository"
	"github.com/cuneytcagriyilmaz/postdesk/internal/transfer"
)

type DeadlineService interface {
	Create(ctx context.Context, dc *transfer.DeadlineCreation) (int64, error)
	Get(ctx context.Context, id int64) (*models.Deadline, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*models.Deadline, error)
	Update(ctx context.Context, id int64, patch *transfer.DeadlineUpdate) error
	Cancel(ctx context.Context, id int64) error
	Archive(ctx context.Context, id int64, reason string) (int64, error)
	Restore(ctx context.Context, archiveID int64) (int64, error)
}

type deadlineService struct {
	inTx      TxRunner
	dr        repository.DeadlineRepository
	ar        repository.DeadlineArchiveRepository
	directory CustomerDirectory
	clock     Clock
}

func NewDeadlineService(
	inTx TxRunner,
	dr repository.DeadlineRepository,
	ar repository.DeadlineArchiveRepository,
	directory CustomerDirectory,
	clock Clock) DeadlineService {
	return &deadlineService{
		inTx:      inTx,
		dr:        dr,
		ar:        ar,
		directory: directory,
		clock:     clock,
	}
}

func (s *deadlineService) Create(ctx context.Context, dc *transfer.DeadlineCreation) (int64, error) {
	if dc == nil {
		return 0, fmt.Errorf("%w: creation data is nil", ErrValidation)
	}

	eventType := dc.EventType
	if eventType == "" {
		eventType = models.EventTypeRegular
	}
	if !models.IsValidEventType(eventType) {
		return 0, fmt.Errorf("%w: unknown event type %q", ErrValidation, eventType)
	}
	if !models.IsValidPlatform(dc.Platform) {
		return 0, fmt.Errorf("%w: unknown platform %q", ErrValidation, dc.Platform)
	}
	if dc.HolidayName != "" && eventType != models.EventTypeSpecialDate {
		return 0, fmt.Errorf("%w: holiday name only allowed for special date deadlines", ErrValidation)
	}
	if dc.ScheduledDate.Before(Today(s.clock)) {
		return 0, fmt.Errorf("%w: scheduled date is in the past", ErrValidation)
	}

	customer, err := s.directory.GetCustomer(ctx, dc.CustomerID)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	if customer.Status != models.CustomerStatusActive {
		return 0, fmt.Errorf("%w: customer %d has status %s", ErrCustomerNotActive, dc.CustomerID, customer.Status)
	}

	now := s.clock.Now()
	deadline := models.Deadline{
		CustomerID:    dc.CustomerID,
		PostID:        dc.PostID,
		ScheduledDate: dc.ScheduledDate,
		Status:        models.DeadlineStatusNotStarted,
		PostContent:   dc.PostContent,
		Platform:      dc.Platform,
		EventType:     eventType,
		AutoCreated:   dc.AutoCreated,
		HolidayName:   dc.HolidayName,
		HolidayType:   dc.HolidayType,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	id, err := s.dr.Create(ctx, nil, &deadline)
	if err != nil {
		return 0, fmt.Errorf("error creating deadline: %w", err)
	}

	return id, nil
}

func (s *deadlineService) Get(ctx context.Context, id int64) (*models.Deadline, error) {
	deadline, err := s.dr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if deadline == nil {
		return nil, ErrDeadlineNotFound
	}

	s.attachUrgency(deadline)
	return deadline, nil
}

func (s *deadlineService) ListByCustomer(ctx context.Context, customerID int64) ([]*models.Deadline, error) {
	deadlines, err := s.dr.ListByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	for _, d := range deadlines {
		s.attachUrgency(d)
	}
	return deadlines, nil
}

func (s *deadlineService) Update(ctx context.Context, id int64, patch *transfer.DeadlineUpdate) error {
	if patch == nil {
		return fmt.Errorf("%w: update data is nil", ErrValidation)
	}

	deadline, err := s.dr.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if deadline == nil {
		return ErrDeadlineNotFound
	}

	// Sent and cancelled deadlines are frozen.
	if models.IsTerminalStatus(deadline.Status) {
		return fmt.Errorf("%w: deadline is %s and can no longer be edited", ErrInvalidTransition, deadline.Status)
	}

	if patch.Status != nil {
		if !models.IsValidStatus(*patch.Status) {
			return fmt.Errorf("%w: unknown status %q", ErrValidation, *patch.Status)
		}
		if !canTransition(deadline.Status, *patch.Status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, deadline.Status, *patch.Status)
		}
		deadline.Status = *patch.Status
	}
	if patch.Platform != nil {
		if !models.IsValidPlatform(*patch.Platform) {
			return fmt.Errorf("%w: unknown platform %q", ErrValidation, *patch.Platform)
		}
		deadline.Platform = *patch.Platform
	}
	if patch.EventType != nil {
		if !models.IsValidEventType(*patch.EventType) {
			return fmt.Errorf("%w: unknown event type %q", ErrValidation, *patch.EventType)
		}
		deadline.EventType = *patch.EventType
	}
	if patch.PostID != nil {
		deadline.PostID = patch.PostID
	}
	if patch.ScheduledDate != nil {
		deadline.ScheduledDate = *patch.ScheduledDate
	}
	if patch.ContentReady != nil {
		deadline.ContentReady = *patch.ContentReady
	}
	if patch.PostContent != nil {
		deadline.PostContent = *patch.PostContent
	}
	if patch.HolidayName != nil {
		deadline.HolidayName = *patch.HolidayName
	}
	if patch.HolidayType != nil {
		deadline.HolidayType = *patch.HolidayType
	}
	if deadline.HolidayName != "" && deadline.EventType != models.EventTypeSpecialDate {
		return fmt.Errorf("%w: holiday name only allowed for special date deadlines", ErrValidation)
	}

	deadline.UpdatedAt = s.clock.Now()

	if err := s.dr.Update(ctx, nil, deadline); err != nil {
		return fmt.Errorf("error updating deadline: %w", err)
	}
	return nil
}

func (s *deadlineService) Cancel(ctx context.Context, id int64) error {
	deadline, err := s.dr.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if deadline == nil {
		return ErrDeadlineNotFound
	}

	// Cancelling twice is a no-op.
	if deadline.Status == models.DeadlineStatusCancelled {
		return nil
	}
	if deadline.Status == models.DeadlineStatusSent {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, deadline.Status, models.DeadlineStatusCancelled)
	}

	deadline.Status = models.DeadlineStatusCancelled
	deadline.UpdatedAt = s.clock.Now()

	if err := s.dr.Update(ctx, nil, deadline); err != nil {
		return fmt.Errorf("error cancelling deadline: %w", err)
	}
	return nil
}

func (s *deadlineService) Archive(ctx context.Context, id int64, reason string) (int64, error) {
	deadline, err := s.dr.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if deadline == nil {
		return 0, ErrDeadlineNotFound
	}
	if reason == "" {
		reason = models.ArchiveReasonManual
	}

	archive := archiveFromDeadline(deadline, reason, s.clock.Now())

	// The archive insert and the source removal must land together.
	var archiveID int64
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		var txErr error
		archiveID, txErr = s.ar.Create(ctx, tx, archive)
		if txErr != nil {
			return fmt.Errorf("%w: archive insert failed: %v", ErrArchiveConsistency, txErr)
		}

		removed, txErr := s.dr.RemoveIfUnchanged(ctx, tx, id, deadline.UpdatedAt)
		if txErr != nil {
			return fmt.Errorf("%w: source removal failed: %v", ErrArchiveConsistency, txErr)
		}
		if !removed {
			return fmt.Errorf("%w: deadline %d changed concurrently", ErrArchiveConsistency, id)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return archiveID, nil
}

func (s *deadlineService) Restore(ctx context.Context, archiveID int64) (int64, error) {
	archive, err := s.ar.GetByID(ctx, archiveID)
	if err != nil {
		return 0, err
	}
	if archive == nil {
		return 0, ErrArchiveNotFound
	}

	// The archive row stays behind untouched; history is append-only.
	deadline := deadlineFromArchive(archive, s.clock.Now())

	id, err := s.dr.Create(ctx, nil, deadline)
	if err != nil {
		return 0, fmt.Errorf("error restoring deadline: %w", err)
	}

	return id, nil
}

func (s *deadlineService) attachUrgency(d *models.Deadline) {
	d.DaysRemaining = models.DaysRemaining(d.ScheduledDate, s.clock.Now())
	d.Urgency = models.ClassifyUrgency(d.DaysRemaining)
}

var statusOrder = map[string]int{
	models.DeadlineStatusNotStarted: 0,
	models.DeadlineStatusInProgress: 1,
	models.DeadlineStatusReady:      2,
	models.DeadlineStatusSent:       3,
}

// canTransition permits forward movement along the workflow plus cancellation
// from any non-terminal state. Regressions and transitions out of a terminal
// state are rejected.
func canTransition(from, to string) bool {
	if from == to {
		return true
	}
	if models.IsTerminalStatus(from) {
		return false
	}
	if to == models.DeadlineStatusCancelled {
		return true
	}
	fromOrder, ok := statusOrder[from]
	if !ok {
		return false
	}
	toOrder, ok := statusOrder[to]
	if !ok {
		return false
	}
	return toOrder > fromOrder
}

func archiveFromDeadline(d *models.Deadline, reason string, archivedAt time.Time) *models.DeadlineArchive {
	return &models.DeadlineArchive{
		OriginalDeadlineID: d.ID,
		CustomerID:         d.CustomerID,
		ScheduledDate:      d.ScheduledDate,
		FinalStatus:        d.Status,
		ContentReady:       d.ContentReady,
		PostContent:        d.PostContent,
		Platform:           d.Platform,
		ArchivedReason:     reason,
		ArchivedAt:         archivedAt,
		OriginalCreatedAt:  d.CreatedAt,
		OriginalUpdatedAt:  d.UpdatedAt,
	}
}

func deadlineFromArchive(a *models.DeadlineArchive, restoredAt time.Time) *models.Deadline {
	return &models.Deadline{
		CustomerID:    a.CustomerID,
		ScheduledDate: a.ScheduledDate,
		Status:        a.FinalStatus,
		ContentReady:  a.ContentReady,
		PostContent:   a.PostContent,
		Platform:      a.Platform,
		EventType:     models.EventTypeRegular,
		CreatedAt:     restoredAt,
		UpdatedAt:     restoredAt,
	}
}
