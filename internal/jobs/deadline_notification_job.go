package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	config "github.com/cuneytcagriyilmaz/postdesk/configs"
	"github.com/cuneytcagriyilmaz/postdesk/internal/models"
	"github.com/cuneytcagriyilmaz/postdesk/internal/repository"
	"github.com/cuneytcagriyilmaz/postdesk/internal/service"
	"github.com/cuneytcagriyilmaz/postdesk/internal/transfer"
)

// Notifier is the minimal delivery contract the jobs need. This keeps the job
// logic independent of the queue and easy to drive in tests.
type Notifier interface {
	Notify(ctx context.Context, payload transfer.DeadlineNotification) error
}

type DeadlineNotificationJob struct {
	dr       repository.DeadlineRepository
	notifier Notifier
	clock    service.Clock

	retentionDays int
	remindEvery   time.Duration

	dueMu     sync.Mutex
	overdueMu sync.Mutex
	archiveMu sync.Mutex
}

func NewDeadlineNotificationJob(
	cfg config.Config,
	dr repository.DeadlineRepository,
	notifier Notifier,
	clock service.Clock) *DeadlineNotificationJob {
	return &DeadlineNotificationJob{
		dr:            dr,
		notifier:      notifier,
		clock:         clock,
		retentionDays: cfg.ArchiveRetentionDays,
		remindEvery:   time.Duration(cfg.OverdueRemindHours) * time.Hour,
	}
}

// NotifyDueDeadlines notifies every deadline due today (URGENT) or tomorrow
// (WARNING) that has not been notified yet, and stamps notification_sent in
// the same pass so a re-run is a no-op.
func (j *DeadlineNotificationJob) NotifyDueDeadlines() (succeeded, failed int) {
	if !j.dueMu.TryLock() {
		slog.Info("due-notification job still running, skipping this tick")
		return 0, 0
	}
	defer j.dueMu.Unlock()

	ctx := context.Background()
	today := service.Today(j.clock)
	tomorrow := today.AddDate(0, 0, 1)

	for _, batch := range []struct {
		date     time.Time
		severity string
	}{
		{today, transfer.SeverityUrgent},
		{tomorrow, transfer.SeverityWarning},
	} {
		deadlines, err := j.dr.ListDueUnnotified(ctx, batch.date)
		if err != nil {
			slog.Info(err.Error())
			continue
		}

		for _, d := range deadlines {
			if err := j.notifier.Notify(ctx, notificationFor(d, batch.severity)); err != nil {
				slog.Info("due notification failed", "deadline_id", d.ID, "error", err.Error())
				failed++
				continue
			}
			if err := j.dr.MarkNotified(ctx, d.ID, j.clock.Now()); err != nil {
				slog.Info("marking deadline notified failed", "deadline_id", d.ID, "error", err.Error())
				failed++
				continue
			}
			succeeded++
		}
	}

	slog.Info("due-notification job finished", "succeeded", succeeded, "failed", failed)
	return succeeded, failed
}

// NotifyOverdue re-notifies overdue deadlines. Items reminded within the
// configured interval are skipped, so the reminder cadence is explicit instead
// of firing on every run.
func (j *DeadlineNotificationJob) NotifyOverdue() (notified, skipped, failed int) {
	if !j.overdueMu.TryLock() {
		slog.Info("overdue-check job still running, skipping this tick")
		return 0, 0, 0
	}
	defer j.overdueMu.Unlock()

	ctx := context.Background()
	now := j.clock.Now()

	deadlines, err := j.dr.ListOverdue(ctx, service.Today(j.clock))
	if err != nil {
		slog.Info(err.Error())
		return 0, 0, 1
	}

	for _, d := range deadlines {
		if d.OverdueNotifiedAt != nil && now.Sub(*d.OverdueNotifiedAt) < j.remindEvery {
			skipped++
			continue
		}

		if err := j.notifier.Notify(ctx, notificationFor(d, transfer.SeverityOverdue)); err != nil {
			slog.Info("overdue notification failed", "deadline_id", d.ID, "error", err.Error())
			failed++
			continue
		}
		if err := j.dr.MarkOverdueNotified(ctx, d.ID, now); err != nil {
			slog.Info("marking overdue notified failed", "deadline_id", d.ID, "error", err.Error())
			failed++
			continue
		}
		notified++
	}

	slog.Info("overdue-check job finished", "notified", notified, "skipped", skipped, "failed", failed)
	return notified, skipped, failed
}

// ReportArchiveCandidates lists deadlines older than the retention window.
// It archives nothing; the actual archive call stays a manual decision.
func (j *DeadlineNotificationJob) ReportArchiveCandidates() []*models.Deadline {
	if !j.archiveMu.TryLock() {
		slog.Info("archive-candidate job still running, skipping this tick")
		return nil
	}
	defer j.archiveMu.Unlock()

	ctx := context.Background()
	cutoff := service.Today(j.clock).AddDate(0, 0, -j.retentionDays)

	candidates, err := j.dr.ListExpired(ctx, cutoff)
	if err != nil {
		slog.Info(err.Error())
		return nil
	}

	for _, d := range candidates {
		slog.Info("archive candidate",
			"deadline_id", d.ID, "customer_id", d.CustomerID,
			"scheduled_date", d.ScheduledDate.Format("2006-01-02"), "status", d.Status)
	}
	slog.Info("archive-candidate job finished", "candidates", len(candidates), "cutoff", cutoff.Format("2006-01-02"))

	return candidates
}

func notificationFor(d *models.Deadline, severity string) transfer.DeadlineNotification {
	return transfer.DeadlineNotification{
		DeadlineID:    d.ID,
		CustomerID:    d.CustomerID,
		ScheduledDate: d.ScheduledDate,
		Platform:      d.Platform,
		Severity:      severity,
	}
}
