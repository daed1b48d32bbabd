package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuneytcagriyilmaz/postdesk/internal/models"
	"github.com/cuneytcagriyilmaz/postdesk/internal/transfer"
)

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

type fakeDeadlineRepo struct {
	deadlines map[int64]*models.Deadline
	nextID    int64

	// invoked before RemoveIfUnchanged compares timestamps, to slip a
	// competing write in between read and removal
	beforeRemoveIfUnchanged func()
}

func newFakeDeadlineRepo() *fakeDeadlineRepo {
	return &fakeDeadlineRepo{deadlines: make(map[int64]*models.Deadline)}
}

func (r *fakeDeadlineRepo) GetByID(ctx context.Context, id int64) (*models.Deadline, error) {
	d, ok := r.deadlines[id]
	if !ok || d.Deleted {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDeadlineRepo) GetByIDIncludingDeleted(ctx context.Context, id int64) (*models.Deadline, error) {
	d, ok := r.deadlines[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDeadlineRepo) Create(ctx context.Context, tx *sql.Tx, d *models.Deadline) (int64, error) {
	r.nextID++
	cp := *d
	cp.ID = r.nextID
	r.deadlines[cp.ID] = &cp
	return cp.ID, nil
}

func (r *fakeDeadlineRepo) ListByCustomerID(ctx context.Context, customerID int64) ([]*models.Deadline, error) {
	var out []*models.Deadline
	for _, d := range r.deadlines {
		if d.CustomerID == customerID && !d.Deleted {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeDeadlineRepo) ListDueUnnotified(ctx context.Context, date time.Time) ([]*models.Deadline, error) {
	var out []*models.Deadline
	for _, d := range r.deadlines {
		if d.ScheduledDate.Equal(date) && !d.NotificationSent && !d.Deleted {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeDeadlineRepo) ListOverdue(ctx context.Context, today time.Time) ([]*models.Deadline, error) {
	var out []*models.Deadline
	for _, d := range r.deadlines {
		if d.ScheduledDate.Before(today) && !models.IsTerminalStatus(d.Status) && !d.Deleted {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeDeadlineRepo) ListExpired(ctx context.Context, cutoff time.Time) ([]*models.Deadline, error) {
	var out []*models.Deadline
	for _, d := range r.deadlines {
		if d.ScheduledDate.Before(cutoff) && !d.Deleted {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeDeadlineRepo) Update(ctx context.Context, tx *sql.Tx, d *models.Deadline) error {
	existing, ok := r.deadlines[d.ID]
	if !ok || existing.Deleted {
		return nil
	}
	cp := *d
	cp.CreatedAt = existing.CreatedAt
	r.deadlines[d.ID] = &cp
	return nil
}

func (r *fakeDeadlineRepo) MarkNotified(ctx context.Context, id int64, sentAt time.Time) error {
	if d, ok := r.deadlines[id]; ok {
		d.NotificationSent = true
		d.NotificationSentAt = &sentAt
	}
	return nil
}

func (r *fakeDeadlineRepo) MarkOverdueNotified(ctx context.Context, id int64, notifiedAt time.Time) error {
	if d, ok := r.deadlines[id]; ok {
		d.OverdueNotifiedAt = &notifiedAt
	}
	return nil
}

func (r *fakeDeadlineRepo) RemoveIfUnchanged(ctx context.Context, tx *sql.Tx, id int64, updatedAt time.Time) (bool, error) {
	if r.beforeRemoveIfUnchanged != nil {
		r.beforeRemoveIfUnchanged()
	}
	d, ok := r.deadlines[id]
	if !ok || d.Deleted || !d.UpdatedAt.Equal(updatedAt) {
		return false, nil
	}
	d.Deleted = true
	return true, nil
}

type fakeArchiveRepo struct {
	archives map[int64]*models.DeadlineArchive
	nextID   int64
}

func newFakeArchiveRepo() *fakeArchiveRepo {
	return &fakeArchiveRepo{archives: make(map[int64]*models.DeadlineArchive)}
}

func (r *fakeArchiveRepo) GetByID(ctx context.Context, id int64) (*models.DeadlineArchive, error) {
	a, ok := r.archives[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeArchiveRepo) Create(ctx context.Context, tx *sql.Tx, a *models.DeadlineArchive) (int64, error) {
	r.nextID++
	cp := *a
	cp.ID = r.nextID
	r.archives[cp.ID] = &cp
	return cp.ID, nil
}

func (r *fakeArchiveRepo) ListByCustomerID(ctx context.Context, customerID int64) ([]*models.DeadlineArchive, error) {
	var out []*models.DeadlineArchive
	for _, a := range r.archives {
		if a.CustomerID == customerID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeDirectory struct {
	customers map[int64]*models.Customer
	err       error
	deleted   map[int64]bool
	setErr    error
}

func newFakeDirectory(customers ...*models.Customer) *fakeDirectory {
	d := &fakeDirectory{customers: make(map[int64]*models.Customer), deleted: make(map[int64]bool)}
	for _, c := range customers {
		d.customers[c.ID] = c
	}
	return d
}

func (f *fakeDirectory) GetCustomer(ctx context.Context, customerID int64) (*models.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.customers[customerID]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeDirectory) SetDeleted(ctx context.Context, customerID int64, deleted bool) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.deleted[customerID] = deleted
	return nil
}

func passthroughTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

func testService(dr *fakeDeadlineRepo, ar *fakeArchiveRepo, dir *fakeDirectory, clock Clock) DeadlineService {
	return NewDeadlineService(passthroughTx, dr, ar, dir, clock)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var testNow = time.Date(2025, 6, 20, 9, 0, 0, 0, time.UTC)

func TestCreateRequiresActiveCustomer(t *testing.T) {
	tests := []struct {
		name   string
		status string
	}{
		{"passive customer", models.CustomerStatusPassive},
		{"cancelled customer", models.CustomerStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dr := newFakeDeadlineRepo()
			dir := newFakeDirectory(&models.Customer{ID: 7, CompanyName: "Cafe Sunshine", Status: tt.status})
			s := testService(dr, newFakeArchiveRepo(), dir, fixedClock{testNow})

			_, err := s.Create(context.Background(), &transfer.DeadlineCreation{
				CustomerID:    7,
				ScheduledDate: date(2025, 6, 25),
			})

			require.ErrorIs(t, err, ErrCustomerNotActive)
			assert.Empty(t, dr.deadlines, "no deadline may be persisted")
		})
	}
}

func TestCreateRejectsPastDate(t *testing.T) {
	dr := newFakeDeadlineRepo()
	dir := newFakeDirectory(&models.Customer{ID: 7, Status: models.CustomerStatusActive})
	s := testService(dr, newFakeArchiveRepo(), dir, fixedClock{testNow})

	_, err := s.Create(context.Background(), &transfer.DeadlineCreation{
		CustomerID:    7,
		ScheduledDate: date(2025, 6, 19),
	})

	require.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, dr.deadlines)
}

func TestCreateFailsWhenDirectoryUnavailable(t *testing.T) {
	dr := newFakeDeadlineRepo()
	dir := newFakeDirectory()
	dir.err = ErrServiceUnavailable
	s := testService(dr, newFakeArchiveRepo(), dir, fixedClock{testNow})

	_, err := s.Create(context.Background(), &transfer.DeadlineCreation{
		CustomerID:    7,
		ScheduledDate: date(2025, 6, 25),
	})

	require.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Empty(t, dr.deadlines)
}

func TestCreateDefaults(t *testing.T) {
	dr := newFakeDeadlineRepo()
	dir := newFakeDirectory(&models.Customer{ID: 7, Status: models.CustomerStatusActive})
	s := testService(dr, newFakeArchiveRepo(), dir, fixedClock{testNow})

	id, err := s.Create(context.Background(), &transfer.DeadlineCreation{
		CustomerID:    7,
		ScheduledDate: date(2025, 6, 25),
		Platform:      models.PlatformInstagram,
	})
	require.NoError(t, err)

	d := dr.deadlines[id]
	require.NotNil(t, d)
	assert.Equal(t, models.DeadlineStatusNotStarted, d.Status)
	assert.Equal(t, models.EventTypeRegular, d.EventType)
	assert.False(t, d.ContentReady)
	assert.False(t, d.NotificationSent)
	assert.Nil(t, d.NotificationSentAt)
	assert.Equal(t, testNow, d.CreatedAt)
	assert.Equal(t, testNow, d.UpdatedAt)
}

func TestCreateHolidayNameRequiresSpecialDate(t *testing.T) {
	dr := newFakeDeadlineRepo()
	dir := newFakeDirectory(&models.Customer{ID: 7, Status: models.CustomerStatusActive})
	s := testService(dr, newFakeArchiveRepo(), dir, fixedClock{testNow})

	_, err := s.Create(context.Background(), &transfer.DeadlineCreation{
		CustomerID:    7,
		ScheduledDate: date(2025, 6, 25),
		EventType:     models.EventTypeRegular,
		HolidayName:   "Republic Day",
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.Create(context.Background(), &transfer.DeadlineCreation{
		CustomerID:    7,
		ScheduledDate: date(2025, 6, 25),
		EventType:     models.EventTypeSpecialDate,
		HolidayName:   "Republic Day",
		HolidayType:   "national",
	})
	require.NoError(t, err)
}

func TestUpdatePatchSemantics(t *testing.T) {
	dr := newFakeDeadlineRepo()
	createdAt := testNow.AddDate(0, 0, -10)
	dr.deadlines[1] = &models.Deadline{
		ID:            1,
		CustomerID:    7,
		ScheduledDate: date(2025, 6, 25),
		Status:        models.DeadlineStatusNotStarted,
		PostContent:   "draft",
		Platform:      models.PlatformInstagram,
		EventType:     models.EventTypeRegular,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	dr.nextID = 1
	s := testService(dr, newFakeArchiveRepo(), newFakeDirectory(), fixedClock{testNow})

	ready := true
	content := "final copy"
	err := s.Update(context.Background(), 1, &transfer.DeadlineUpdate{
		ContentReady: &ready,
		PostContent:  &content,
	})
	require.NoError(t, err)

	d := dr.deadlines[1]
	assert.True(t, d.ContentReady)
	assert.Equal(t, "final copy", d.PostContent)
	assert.Equal(t, models.PlatformInstagram, d.Platform, "untouched field must survive")
	assert.Equal(t, models.DeadlineStatusNotStarted, d.Status, "untouched field must survive")
	assert.Equal(t, createdAt, d.CreatedAt, "created_at must never change")
	assert.Equal(t, testNow, d.UpdatedAt, "updated_at must refresh")
}

func TestUpdateNotFound(t *testing.T) {
	s := testService(newFakeDeadlineRepo(), newFakeArchiveRepo(), newFakeDirectory(), fixedClock{testNow})

	content := "x"
	err := s.Update(context.Background(), 42, &transfer.DeadlineUpdate{PostContent: &content})
	require.ErrorIs(t, err, ErrDeadlineNotFound)
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{models.DeadlineStatusNotStarted, models.DeadlineStatusInProgress, true},
		{models.DeadlineStatusNotStarted, models.DeadlineStatusReady, true},
		{models.DeadlineStatusInProgress, models.DeadlineStatusReady, true},
		{models.DeadlineStatusReady, models.DeadlineStatusSent, true},
		{models.DeadlineStatusInProgress, models.DeadlineStatusCancelled, true},
		{models.DeadlineStatusReady, models.DeadlineStatusReady, true},
		{models.DeadlineStatusReady, models.DeadlineStatusInProgress, false},
		{models.DeadlineStatusSent, models.DeadlineStatusInProgress, false},
		{models.DeadlineStatusSent, models.DeadlineStatusCancelled, false},
		{models.DeadlineStatusCancelled, models.DeadlineStatusInProgress, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.allowed, canTransition(tt.from, tt.to))
		})
	}
}

func TestUpdateRejectsIllegalTransition(t *testing.T) {
	dr := newFakeDeadlineRepo()
	dr.deadlines[1] = &models.Deadline{
		ID:            1,
		CustomerID:    7,
		ScheduledDate: date(2025, 6, 25),
		Status:        models.DeadlineStatusSent,
		EventType:     models.EventTypeRegular,
	}
	s := testService(dr, newFakeArchiveRepo(), newFakeDirectory(), fixedClock{testNow})

	status := models.DeadlineStatusInProgress
	err := s.Update(context.Background(), 1, &transfer.DeadlineUpdate{Status: &status})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateRejectsEditsOnTerminalDeadline(t *testing.T) {
	content := "late edit"
	newDate := date(2025, 7, 1)
	tests := []struct {
		name   string
		status string
		patch  *transfer.DeadlineUpdate
	}{
		{"content on sent", models.DeadlineStatusSent, &transfer.DeadlineUpdate{PostContent: &content}},
		{"date on sent", models.DeadlineStatusSent, &transfer.DeadlineUpdate{ScheduledDate: &newDate}},
		{"content on cancelled", models.DeadlineStatusCancelled, &transfer.DeadlineUpdate{PostContent: &content}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dr := newFakeDeadlineRepo()
			dr.deadlines[1] = &models.Deadline{
				ID:            1,
				CustomerID:    7,
				ScheduledDate: date(2025, 6, 25),
				Status:        tt.status,
				PostContent:   "original",
				EventType:     models.EventTypeRegular,
			}
			s := testService(dr, newFakeArchiveRepo(), newFakeDirectory(), fixedClock{testNow})

			err := s.Update(context.Background(), 1, tt.patch)
			require.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, "original", dr.deadlines[1].PostContent)
		})
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	dr := newFakeDeadlineRepo()
	dr.deadlines[1] = &models.Deadline{
		ID:            1,
		CustomerID:    7,
		ScheduledDate: date(2025, 6, 25),
		Status:        models.DeadlineStatusInProgress,
		EventType:     models.EventTypeRegular,
	}
	s := testService(dr, newFakeArchiveRepo(), newFakeDirectory(), fixedClock{testNow})

	require.NoError(t, s.Cancel(context.Background(), 1))
	assert.Equal(t, models.DeadlineStatusCancelled, dr.deadlines[1].Status)

	require.NoError(t, s.Cancel(context.Background(), 1), "second cancel must not error")
	assert.Equal(t, models.DeadlineStatusCancelled, dr.deadlines[1].Status)
}

func TestCancelSentDeadlineRejected(t *testing.T) {
	dr := newFakeDeadlineRepo()
	dr.deadlines[1] = &models.Deadline{ID: 1, Status: models.DeadlineStatusSent}
	s := testService(dr, newFakeArchiveRepo(), newFakeDirectory(), fixedClock{testNow})

	err := s.Cancel(context.Background(), 1)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestArchiveRestoreRoundtripMapping(t *testing.T) {
	original := &models.Deadline{
		ID:            5,
		CustomerID:    7,
		ScheduledDate: date(2025, 6, 25),
		Status:        models.DeadlineStatusReady,
		ContentReady:  true,
		PostContent:   "summer promo",
		Platform:      models.PlatformTiktok,
		EventType:     models.EventTypeRegular,
		CreatedAt:     testNow.AddDate(0, 0, -30),
		UpdatedAt:     testNow.AddDate(0, 0, -1),
	}

	archive := archiveFromDeadline(original, models.ArchiveReasonManual, testNow)
	assert.Equal(t, original.ID, archive.OriginalDeadlineID)
	assert.Equal(t, original.Status, archive.FinalStatus)
	assert.Equal(t, original.CreatedAt, archive.OriginalCreatedAt)
	assert.Equal(t, original.UpdatedAt, archive.OriginalUpdatedAt)

	restoredAt := testNow.AddDate(0, 1, 0)
	restored := deadlineFromArchive(archive, restoredAt)
	assert.Equal(t, original.CustomerID, restored.CustomerID)
	assert.Equal(t, original.ScheduledDate, restored.ScheduledDate)
	assert.Equal(t, original.Status, restored.Status)
	assert.Equal(t, original.ContentReady, restored.ContentReady)
	assert.Equal(t, original.PostContent, restored.PostContent)
	assert.Equal(t, original.Platform, restored.Platform)
	assert.Equal(t, restoredAt, restored.CreatedAt, "restored deadline gets a fresh created_at")
}

func TestArchiveRemovesDeadlineAndKeepsRecord(t *testing.T) {
	dr := newFakeDeadlineRepo()
	ar := newFakeArchiveRepo()
	created := testNow.AddDate(0, 0, -30)
	dr.deadlines[1] = &models.Deadline{
		ID:            1,
		CustomerID:    7,
		ScheduledDate: date(2025, 6, 25),
		Status:        models.DeadlineStatusReady,
		ContentReady:  true,
		PostContent:   "summer promo",
		Platform:      models.PlatformTiktok,
		EventType:     models.EventTypeRegular,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	dr.nextID = 1
	s := testService(dr, ar, newFakeDirectory(), fixedClock{testNow})

	archiveID, err := s.Archive(context.Background(), 1, "")
	require.NoError(t, err)

	_, err = s.Get(context.Background(), 1)
	require.ErrorIs(t, err, ErrDeadlineNotFound)
	assert.True(t, dr.deadlines[1].Deleted, "source row is soft deleted, not erased")

	archived := ar.archives[archiveID]
	require.NotNil(t, archived)
	assert.Equal(t, int64(1), archived.OriginalDeadlineID)
	assert.Equal(t, models.DeadlineStatusReady, archived.FinalStatus)
	assert.Equal(t, models.ArchiveReasonManual, archived.ArchivedReason, "empty reason defaults to manual")
	assert.Equal(t, testNow, archived.ArchivedAt)
	assert.Equal(t, created, archived.OriginalCreatedAt)

	restoredID, err := s.Restore(context.Background(), archiveID)
	require.NoError(t, err)

	restored := dr.deadlines[restoredID]
	require.NotNil(t, restored)
	assert.Equal(t, int64(7), restored.CustomerID)
	assert.Equal(t, models.DeadlineStatusReady, restored.Status)
	assert.Equal(t, "summer promo", restored.PostContent)
	assert.Equal(t, models.PlatformTiktok, restored.Platform)
}

func TestArchiveAbortsWhenDeadlineChangesConcurrently(t *testing.T) {
	dr := newFakeDeadlineRepo()
	ar := newFakeArchiveRepo()
	created := testNow.AddDate(0, 0, -30)
	dr.deadlines[1] = &models.Deadline{
		ID:            1,
		CustomerID:    7,
		ScheduledDate: date(2025, 6, 25),
		Status:        models.DeadlineStatusReady,
		EventType:     models.EventTypeRegular,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	dr.nextID = 1
	dr.beforeRemoveIfUnchanged = func() {
		dr.deadlines[1].UpdatedAt = testNow.Add(time.Minute)
	}
	s := testService(dr, ar, newFakeDirectory(), fixedClock{testNow})

	_, err := s.Archive(context.Background(), 1, models.ArchiveReasonManual)
	require.ErrorIs(t, err, ErrArchiveConsistency)

	d, err := s.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, d, "losing archive must leave the deadline in place")
}

func TestArchiveUnknownDeadline(t *testing.T) {
	s := testService(newFakeDeadlineRepo(), newFakeArchiveRepo(), newFakeDirectory(), fixedClock{testNow})

	_, err := s.Archive(context.Background(), 99, models.ArchiveReasonManual)
	require.ErrorIs(t, err, ErrDeadlineNotFound)
}

func TestRestoreLeavesArchiveUntouched(t *testing.T) {
	dr := newFakeDeadlineRepo()
	ar := newFakeArchiveRepo()
	ar.archives[3] = &models.DeadlineArchive{
		ID:                 3,
		OriginalDeadlineID: 5,
		CustomerID:         7,
		ScheduledDate:      date(2025, 6, 25),
		FinalStatus:        models.DeadlineStatusReady,
		ContentReady:       true,
		PostContent:        "summer promo",
		Platform:           models.PlatformTiktok,
		ArchivedReason:     models.ArchiveReasonExpired,
		ArchivedAt:         testNow.AddDate(0, 0, -2),
	}
	before := *ar.archives[3]
	s := testService(dr, ar, newFakeDirectory(), fixedClock{testNow})

	id, err := s.Restore(context.Background(), 3)
	require.NoError(t, err)

	restored := dr.deadlines[id]
	require.NotNil(t, restored)
	assert.Equal(t, int64(7), restored.CustomerID)
	assert.Equal(t, models.DeadlineStatusReady, restored.Status)
	assert.Equal(t, testNow, restored.CreatedAt)
	assert.Equal(t, before, *ar.archives[3], "archive record must stay untouched")
}

func TestRestoreUnknownArchive(t *testing.T) {
	s := testService(newFakeDeadlineRepo(), newFakeArchiveRepo(), newFakeDirectory(), fixedClock{testNow})

	_, err := s.Restore(context.Background(), 99)
	require.ErrorIs(t, err, ErrArchiveNotFound)
}

func TestGetComputesUrgencyOnRead(t *testing.T) {
	dr := newFakeDeadlineRepo()
	dr.deadlines[1] = &models.Deadline{
		ID:            1,
		CustomerID:    7,
		ScheduledDate: date(2025, 6, 15),
		Status:        models.DeadlineStatusInProgress,
		EventType:     models.EventTypeRegular,
	}
	s := testService(dr, newFakeArchiveRepo(), newFakeDirectory(), fixedClock{testNow})

	d, err := s.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, -5, d.DaysRemaining)
	assert.Equal(t, models.UrgencyOverdue, d.Urgency.Level)
}
