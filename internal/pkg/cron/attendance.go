package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/attendance"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/employee"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
)

type terminalSyncer interface {
	SyncAll(ctx context.Context) error
}

type dayReconciler interface {
	ReconcileDay(ctx context.Context, employeeID string, date localtime.Date) (attendance.Record, error)
}

type AttendanceJobs struct {
	syncer       terminalSyncer
	reconciler   dayReconciler
	employeeRepo employee.EmployeeRepository
	normalizer   *localtime.Normalizer
	syncInterval time.Duration
}

func NewAttendanceJobs(
	syncer terminalSyncer,
	reconciler dayReconciler,
	employeeRepo employee.EmployeeRepository,
	normalizer *localtime.Normalizer,
	syncInterval time.Duration,
) *AttendanceJobs {
	return &AttendanceJobs{
		syncer:       syncer,
		reconciler:   reconciler,
		employeeRepo: employeeRepo,
		normalizer:   normalizer,
		syncInterval: syncInterval,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("sync_terminals", j.syncInterval, j.SyncTerminals)
	scheduler.AddDailyJob("reconcile_previous_day",
		j.normalizer.WindowStartHour(), j.normalizer.Location(), j.ReconcilePreviousDay)
}

// SyncTerminals pulls new punches from every configured terminal.
func (j *AttendanceJobs) SyncTerminals(ctx context.Context) error {
	return j.syncer.SyncAll(ctx)
}

// ReconcilePreviousDay sweeps yesterday for every active employee so days
// with no punches at all still get a record. Scheduled daily at the hour
// the attendance window opens, when yesterday's window can no longer
// receive punches.
func (j *AttendanceJobs) ReconcilePreviousDay(ctx context.Context) error {
	now := time.Now().In(j.normalizer.Location())
	yesterday := j.normalizer.ToLocalDay(now).AddDays(-1)
	slog.Info("Cron: Starting previous-day reconcile sweep", "date", yesterday.String())

	employees, err := j.employeeRepo.ListActive(ctx)
	if err != nil {
		return err
	}

	reconciled := 0
	for _, emp := range employees {
		if _, err := j.reconciler.ReconcileDay(ctx, emp.ID, yesterday); err != nil {
			slog.Error("Cron: Failed to reconcile previous day",
				"employee_id", emp.ID,
				"date", yesterday.String(),
				"error", err)
			continue
		}
		reconciled++
	}

	slog.Info("Cron: Previous-day sweep completed", "date", yesterday.String(), "count", reconciled)
	return nil
}
