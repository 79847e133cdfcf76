package attendance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/attendance"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/employee"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/holiday"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/leave"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/punch"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/schedule"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/activity"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
)

// Service owns resolution, the reconciliation writer, and the read view.
type Service struct {
	attendance.AttendanceRepository
	punch.PunchRepository
	employee.EmployeeRepository
	schedule.ShiftRepository
	holiday.HolidayRepository
	leave.LeaveRepository
	normalizer *localtime.Normalizer
	recorder   *activity.Recorder
}

func NewService(
	attendanceRepo attendance.AttendanceRepository,
	punchRepo punch.PunchRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo schedule.ShiftRepository,
	holidayRepo holiday.HolidayRepository,
	leaveRepo leave.LeaveRepository,
	normalizer *localtime.Normalizer,
	recorder *activity.Recorder,
) *Service {
	return &Service{
		AttendanceRepository: attendanceRepo,
		PunchRepository:      punchRepo,
		EmployeeRepository:   employeeRepo,
		ShiftRepository:      shiftRepo,
		HolidayRepository:    holidayRepo,
		LeaveRepository:      leaveRepo,
		normalizer:           normalizer,
		recorder:             recorder,
	}
}

// Normalizer exposes the engine's time normalizer to collaborators so every
// component computes day boundaries identically.
func (s *Service) Normalizer() *localtime.Normalizer {
	return s.normalizer
}

// ResolveDay computes the canonical record for one employee-day without
// persisting it. Orphaned shift references degrade to "no shift assigned".
func (s *Service) ResolveDay(ctx context.Context, emp employee.Employee, date localtime.Date) (attendance.Record, error) {
	windowStart, windowEnd := s.normalizer.WindowBounds(date)

	punches, err := s.PunchRepository.ListForSubjectBetween(ctx, deviceSubject(emp), windowStart, windowEnd)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to list punches: %w", err)
	}
	session := DeriveSession(s.normalizer, date, punches)

	var shift *schedule.Shift
	if emp.ShiftID != nil {
		shift, err = s.ShiftRepository.GetByID(ctx, *emp.ShiftID)
		if err != nil {
			return attendance.Record{}, fmt.Errorf("failed to get shift: %w", err)
		}
	}

	onHoliday, err := s.coversHoliday(ctx, emp, date)
	if err != nil {
		return attendance.Record{}, err
	}

	approvedLeave, err := s.approvedLeaveOn(ctx, emp.ID, date)
	if err != nil {
		return attendance.Record{}, err
	}

	record := Resolve(s.normalizer, ResolveInput{
		EmployeeID: emp.ID,
		Date:       date,
		Session:    session,
		Shift:      shift,
		OnHoliday:  onHoliday,
		Leave:      approvedLeave,
	})
	return record, nil
}

// ReconcileDay resolves and persists one employee-day. Safe to re-run: the
// write is an upsert, presence is never downgraded, and operator-attested
// records stay as attested.
func (s *Service) ReconcileDay(ctx context.Context, employeeID string, date localtime.Date) (attendance.Record, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to get employee: %w", err)
	}

	record, err := s.ResolveDay(ctx, emp, date)
	if err != nil {
		return attendance.Record{}, err
	}

	written, err := s.Write(ctx, record, false)
	if err != nil {
		return attendance.Record{}, err
	}

	s.recorder.Record(activity.Event{
		Kind:       activity.KindDayReconciled,
		EmployeeID: employeeID,
		Date:       date.String(),
		Detail:     map[string]interface{}{"status": string(written.Status)},
	})
	return written, nil
}

// ReconcileKeys re-reconciles a set of employee-days, typically the days
// touched by an ingest batch. Independent keys are independent; a failure
// on one key is logged and does not stop the rest.
func (s *Service) ReconcileKeys(ctx context.Context, keys []attendance.DayKey) {
	for _, key := range keys {
		if _, err := s.ReconcileDay(ctx, key.EmployeeID, key.Date); err != nil {
			slog.Error("failed to reconcile day",
				"employee_id", key.EmployeeID,
				"date", key.Date.String(),
				"error", err)
		}
	}
}

// ReconcileRange sweeps every day in [from, to] for one employee.
func (s *Service) ReconcileRange(ctx context.Context, employeeID string, from, to localtime.Date) error {
	if to.Before(from) {
		return attendance.ErrInvalidRange
	}
	for _, date := range localtime.DatesBetween(from, to) {
		if _, err := s.ReconcileDay(ctx, employeeID, date); err != nil {
			return err
		}
	}
	return nil
}

// Write is the reconciliation writer: an upsert keyed by (employee, day)
// that refuses to downgrade a punch-derived record to a calendar-derived
// status, and refuses to replace an operator-attested record with anything
// device-derived. The guard lives here, not in the resolver, because the
// adjustment path and the sweep both enter through this method.
// operatorOverride marks an approved adjustment, which bypasses the guard:
// a human has attested the true punches.
func (s *Service) Write(ctx context.Context, record attendance.Record, operatorOverride bool) (attendance.Record, error) {
	existing, err := s.AttendanceRepository.GetByKey(ctx, record.Key())
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to get existing record: %w", err)
	}

	// An approved adjustment survives re-runs: late punches, sweeps, and
	// manual reconciles must not revert the attested times.
	if existing != nil && !operatorOverride && existing.Source == attendance.SourceOperator {
		slog.Debug("write skipped, operator-attested record is kept",
			"employee_id", record.EmployeeID,
			"date", record.Date.String(),
			"incoming", record.Status)
		return *existing, nil
	}

	if existing != nil && !operatorOverride &&
		existing.Status.PunchDerived() && !record.Status.PunchDerived() {
		slog.Debug("write skipped, presence wins over calendar status",
			"employee_id", record.EmployeeID,
			"date", record.Date.String(),
			"existing", existing.Status,
			"incoming", record.Status)
		return *existing, nil
	}

	if operatorOverride {
		record.Source = attendance.SourceOperator
	}

	written, err := s.AttendanceRepository.Upsert(ctx, record)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to upsert attendance record: %w", err)
	}
	return written, nil
}

// Range is the attendance read view: persisted records for the span plus
// lazily resolved records for days with no persisted row, with aggregate
// totals. Lazily resolved days are not written back.
func (s *Service) Range(ctx context.Context, query attendance.RangeQuery) (attendance.RangeResponse, error) {
	if err := query.Validate(); err != nil {
		return attendance.RangeResponse{}, err
	}
	from, to, err := query.ParseRange()
	if err != nil {
		return attendance.RangeResponse{}, err
	}
	if to.Before(from) {
		return attendance.RangeResponse{}, attendance.ErrInvalidRange
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, query.EmployeeID)
	if err != nil {
		return attendance.RangeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	persisted, err := s.AttendanceRepository.ListRange(ctx, emp.ID, from, to)
	if err != nil {
		return attendance.RangeResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	byKey := make(map[attendance.DayKey]attendance.Record, len(persisted))
	for _, record := range persisted {
		byKey[record.Key()] = record
	}

	response := attendance.RangeResponse{
		EmployeeID: emp.ID,
		From:       from.String(),
		To:         to.String(),
	}

	for _, date := range localtime.DatesBetween(from, to) {
		record, ok := byKey[attendance.DayKey{EmployeeID: emp.ID, Date: date}]
		if !ok {
			record, err = s.ResolveDay(ctx, emp, date)
			if err != nil {
				return attendance.RangeResponse{}, err
			}
		}
		response.Records = append(response.Records, attendance.NewRecordResponse(record))
		response.Totals.Add(record)
	}

	return response, nil
}

// coversHoliday reports whether the date is a holiday for this employee.
// Company-wide holidays apply to everyone; scoped ones only to employees of
// the owning company.
func (s *Service) coversHoliday(ctx context.Context, emp employee.Employee, date localtime.Date) (bool, error) {
	holidays, err := s.HolidayRepository.ListOverlapping(ctx, date, date)
	if err != nil {
		return false, fmt.Errorf("failed to list holidays: %w", err)
	}
	for _, h := range holidays {
		if !h.Covers(date) {
			continue
		}
		if h.AppliesToAll || h.CompanyID == emp.CompanyID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) approvedLeaveOn(ctx context.Context, employeeID string, date localtime.Date) (*leave.Request, error) {
	requests, err := s.LeaveRepository.ListApprovedOverlapping(ctx, employeeID, date, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}
	for i := range requests {
		if requests[i].Covers(date) {
			return &requests[i], nil
		}
	}
	return nil, nil
}

// deviceSubject returns the identifier punches carry for this employee.
// Employees without a linked terminal subject have no punches by
// definition.
func deviceSubject(emp employee.Employee) string {
	if emp.DeviceSubjectID != nil {
		return *emp.DeviceSubjectID
	}
	return emp.ID
}
