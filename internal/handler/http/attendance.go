package http

import (
	"context"
	"net/http"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/attendance"
	"github.com/developers-alawaf/hrms-app-sub000/internal/handler/http/middleware"
	"github.com/developers-alawaf/hrms-app-sub000/internal/handler/http/response"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
)

type AttendanceHandler interface {
	Range(w http.ResponseWriter, r *http.Request)
	Reconcile(w http.ResponseWriter, r *http.Request)
}

type AttendanceService interface {
	Range(ctx context.Context, query attendance.RangeQuery) (attendance.RangeResponse, error)
	ReconcileDay(ctx context.Context, employeeID string, date localtime.Date) (attendance.Record, error)
}

type attendanceHandlerImpl struct {
	attendanceService AttendanceService
}

func NewAttendanceHandler(attendanceService AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Range implements AttendanceHandler. Employees see their own records;
// managers and HR may query anyone by passing employee_id.
func (h *attendanceHandlerImpl) Range(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Missing access token")
		return
	}

	query := attendance.RangeQuery{
		EmployeeID: r.URL.Query().Get("employee_id"),
		From:       r.URL.Query().Get("from"),
		To:         r.URL.Query().Get("to"),
	}
	if query.EmployeeID == "" {
		query.EmployeeID = actor.EmployeeID
	}
	if query.EmployeeID != actor.EmployeeID && !actor.Role.CanActAsManager() {
		response.Forbidden(w, "Not authorized to view this employee's attendance")
		return
	}

	if err := query.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.Range(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Reconcile implements AttendanceHandler. Forces a recompute of one
// employee-day from canonical punches, for operators fixing a stale record.
func (h *attendanceHandlerImpl) Reconcile(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		response.BadRequest(w, "employee_id is required", nil)
		return
	}

	date, err := localtime.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.attendanceService.ReconcileDay(r.Context(), employeeID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Day reconciled", attendance.NewRecordResponse(record))
}
