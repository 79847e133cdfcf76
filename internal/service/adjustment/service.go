package adjustment

import (
	"context"
	"fmt"
	"time"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/adjustment"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/attendance"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/employee"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/activity"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
	"github.com/google/uuid"
)

// RecordWriter is the reconciliation writer entry point. operatorOverride
// marks the record as operator-attested, bypassing the presence guard.
type RecordWriter interface {
	Write(ctx context.Context, record attendance.Record, operatorOverride bool) (attendance.Record, error)
}

// Service drives the adjustment request state machine:
// pending_manager_approval -> pending_hr_approval -> approved, with denial
// terminals at each review stage. Final approval overwrites the canonical
// attendance record with the proposed times.
type Service struct {
	adjustment.AdjustmentRepository
	attendance.AttendanceRepository
	employee.EmployeeRepository
	writer   RecordWriter
	recorder *activity.Recorder
}

func NewService(
	adjustmentRepo adjustment.AdjustmentRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	writer RecordWriter,
	recorder *activity.Recorder,
) *Service {
	return &Service{
		AdjustmentRepository: adjustmentRepo,
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		writer:               writer,
		recorder:             recorder,
	}
}

// Create opens a correction request for one employee-day. The current
// canonical times are snapshotted as the immutable "original" pair. Only
// one unresolved request may exist per employee-day.
func (s *Service) Create(ctx context.Context, actor employee.Actor, req adjustment.CreateRequest) (adjustment.Request, error) {
	if err := req.Validate(); err != nil {
		return adjustment.Request{}, err
	}
	if req.ProposedCheckIn == nil && req.ProposedCheckOut == nil {
		return adjustment.Request{}, adjustment.ErrNothingProposed
	}

	date, err := localtime.ParseDate(req.Date)
	if err != nil {
		return adjustment.Request{}, err
	}

	if actor.EmployeeID != req.EmployeeID && !actor.Role.CanActAsManager() {
		return adjustment.Request{}, adjustment.ErrNotAuthorized
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return adjustment.Request{}, fmt.Errorf("failed to get employee: %w", err)
	}

	unresolved, err := s.AdjustmentRepository.HasUnresolved(ctx, emp.ID, date)
	if err != nil {
		return adjustment.Request{}, fmt.Errorf("failed to check unresolved requests: %w", err)
	}
	if unresolved {
		return adjustment.Request{}, adjustment.ErrDuplicateRequest
	}

	manager, err := s.EmployeeRepository.FindManager(ctx, emp.ID)
	if err != nil {
		return adjustment.Request{}, fmt.Errorf("failed to find manager: %w", err)
	}

	var managerApproverID string
	switch {
	case manager != nil:
		managerApproverID = manager.ID
	case actor.Role == employee.RoleAdmin:
		// An administrator without a manager chain reviews the first stage
		// themselves.
		managerApproverID = actor.EmployeeID
	default:
		return adjustment.Request{}, adjustment.ErrMissingApprover
	}

	proposedIn, err := parseInstant(req.ProposedCheckIn)
	if err != nil {
		return adjustment.Request{}, err
	}
	proposedOut, err := parseInstant(req.ProposedCheckOut)
	if err != nil {
		return adjustment.Request{}, err
	}

	request := adjustment.Request{
		ID:                uuid.NewString(),
		EmployeeID:        emp.ID,
		Date:              date,
		ProposedCheckIn:   proposedIn,
		ProposedCheckOut:  proposedOut,
		Reason:            req.Reason,
		Status:            adjustment.StatusPendingManagerApproval,
		ManagerApproverID: &managerApproverID,
	}

	// Snapshot the canonical times at creation; they stay frozen even if
	// the record is re-reconciled while the request is in flight.
	current, err := s.AttendanceRepository.GetByKey(ctx, attendance.DayKey{EmployeeID: emp.ID, Date: date})
	if err != nil {
		return adjustment.Request{}, fmt.Errorf("failed to snapshot attendance record: %w", err)
	}
	if current != nil {
		request.OriginalCheckIn = current.CheckIn
		request.OriginalCheckOut = current.CheckOut
	}

	created, err := s.AdjustmentRepository.Create(ctx, request)
	if err != nil {
		return adjustment.Request{}, fmt.Errorf("failed to create adjustment request: %w", err)
	}

	s.recorder.Record(activity.Event{
		Kind:       activity.KindAdjustmentCreated,
		EmployeeID: emp.ID,
		ActorID:    actor.EmployeeID,
		Date:       date.String(),
		Detail:     map[string]interface{}{"request_id": created.ID},
	})
	return created, nil
}

// ManagerReview applies the first-stage decision. The reviewer must be the
// assigned approver or hold an HR/administrative role. Approval resolves
// the HR-stage approver and advances the request; denial terminates it.
func (s *Service) ManagerReview(ctx context.Context, actor employee.Actor, requestID string, review adjustment.ReviewRequest) (adjustment.Request, error) {
	if err := review.Validate(); err != nil {
		return adjustment.Request{}, err
	}

	request, err := s.AdjustmentRepository.GetByID(ctx, requestID)
	if err != nil {
		return adjustment.Request{}, err
	}

	if request.Status != adjustment.StatusPendingManagerApproval {
		return adjustment.Request{}, adjustment.ErrInvalidState
	}

	assigned := request.ManagerApproverID != nil && *request.ManagerApproverID == actor.EmployeeID
	if !assigned && !actor.Role.CanActAsHR() {
		return adjustment.Request{}, adjustment.ErrNotAuthorized
	}

	now := time.Now().UTC()
	request.ManagerApproverID = &actor.EmployeeID
	request.ManagerComment = review.Comment
	request.ManagerReviewedAt = &now

	if review.Decision == adjustment.DecisionDeny {
		request.Status = adjustment.StatusDeniedByManager
	} else {
		hrApprover, err := s.resolveHRApprover(ctx)
		if err != nil {
			return adjustment.Request{}, err
		}
		request.Status = adjustment.StatusPendingHRApproval
		request.HRApproverID = &hrApprover.ID
	}

	if err := s.AdjustmentRepository.Transition(ctx, request, adjustment.StatusPendingManagerApproval); err != nil {
		return adjustment.Request{}, err
	}

	s.recordTransition(request, actor, review.Comment)
	return request, nil
}

// HRReview applies the final decision. Approval first wins the state-guard
// compare-and-swap, then overwrites the canonical record with an
// operator-authored one built from the proposed times; this bypasses the
// resolver's precedence because a human has attested the true punches.
func (s *Service) HRReview(ctx context.Context, actor employee.Actor, requestID string, review adjustment.ReviewRequest) (adjustment.Request, error) {
	if err := review.Validate(); err != nil {
		return adjustment.Request{}, err
	}

	request, err := s.AdjustmentRepository.GetByID(ctx, requestID)
	if err != nil {
		return adjustment.Request{}, err
	}

	if request.Status != adjustment.StatusPendingHRApproval {
		return adjustment.Request{}, adjustment.ErrInvalidState
	}

	if !actor.Role.CanActAsHR() {
		return adjustment.Request{}, adjustment.ErrNotAuthorized
	}

	now := time.Now().UTC()
	request.HRApproverID = &actor.EmployeeID
	request.HRComment = review.Comment
	request.HRReviewedAt = &now

	if review.Decision == adjustment.DecisionDeny {
		request.Status = adjustment.StatusDeniedByHR
	} else {
		request.Status = adjustment.StatusApproved
	}

	if err := s.AdjustmentRepository.Transition(ctx, request, adjustment.StatusPendingHRApproval); err != nil {
		return adjustment.Request{}, err
	}

	if request.Status == adjustment.StatusApproved {
		if _, err := s.writer.Write(ctx, operatorRecord(request), true); err != nil {
			return adjustment.Request{}, fmt.Errorf("failed to write adjusted record: %w", err)
		}
	}

	s.recordTransition(request, actor, review.Comment)
	return request, nil
}

func (s *Service) Get(ctx context.Context, requestID string) (adjustment.Request, error) {
	return s.AdjustmentRepository.GetByID(ctx, requestID)
}

// List returns an employee's requests. Employees may only list their own;
// managers and HR may list anyone's.
func (s *Service) List(ctx context.Context, actor employee.Actor, employeeID string) ([]adjustment.Request, error) {
	if employeeID != actor.EmployeeID && !actor.Role.CanActAsManager() {
		return nil, adjustment.ErrNotAuthorized
	}
	return s.AdjustmentRepository.ListByEmployee(ctx, employeeID)
}

// resolveHRApprover picks the first available HR-role employee, falling
// back to an administrator.
func (s *Service) resolveHRApprover(ctx context.Context) (*employee.Employee, error) {
	hr, err := s.EmployeeRepository.FirstByRole(ctx, employee.RoleHR)
	if err != nil {
		return nil, fmt.Errorf("failed to find HR approver: %w", err)
	}
	if hr != nil {
		return hr, nil
	}
	admin, err := s.EmployeeRepository.FirstByRole(ctx, employee.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to find admin approver: %w", err)
	}
	if admin == nil {
		return nil, adjustment.ErrMissingApprover
	}
	return admin, nil
}

// operatorRecord builds the attendance record an approved adjustment
// writes: present when any proposed time is set, absent otherwise, with
// work minutes from the proposed pair. No lateness or overtime is derived;
// the operator attested the times as-is.
func operatorRecord(request adjustment.Request) attendance.Record {
	record := attendance.Record{
		EmployeeID: request.EmployeeID,
		Date:       request.Date,
		CheckIn:    request.ProposedCheckIn,
		CheckOut:   request.ProposedCheckOut,
		Status:     attendance.StatusAbsent,
		Source:     attendance.SourceOperator,
	}

	if request.ProposedCheckIn != nil || request.ProposedCheckOut != nil {
		record.Status = attendance.StatusPresent
	}

	if request.ProposedCheckIn != nil && request.ProposedCheckOut != nil {
		minutes := int(request.ProposedCheckOut.Sub(*request.ProposedCheckIn) / time.Minute)
		if minutes <= 0 {
			minutes += 24 * 60
		}
		record.WorkMinutes = minutes
	}
	return record
}

func (s *Service) recordTransition(request adjustment.Request, actor employee.Actor, comment *string) {
	detail := map[string]interface{}{
		"request_id": request.ID,
		"status":     string(request.Status),
	}
	if comment != nil {
		detail["comment"] = *comment
	}
	s.recorder.Record(activity.Event{
		Kind:       activity.KindAdjustmentTransition,
		EmployeeID: request.EmployeeID,
		ActorID:    actor.EmployeeID,
		Date:       request.Date.String(),
		Detail:     detail,
	})
}

func parseInstant(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", *s, err)
	}
	utc := t.UTC()
	return &utc, nil
}
