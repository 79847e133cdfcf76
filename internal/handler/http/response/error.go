package response

import (
	"errors"
	"net/http"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/adjustment"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/attendance"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/employee"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/punch"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrUnknownSubject):
		NotFound(w, "No employee linked to this device subject")
	case errors.Is(err, employee.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")

	// Punch ingestion errors
	case errors.Is(err, punch.ErrDeviceNotFound):
		NotFound(w, "Device not found")
	case errors.Is(err, punch.ErrSyncInProgress):
		Conflict(w, "A sync is already running for this device")
	case errors.Is(err, punch.ErrTerminalUnavailable):
		ServiceUnavailable(w, "Terminal is unreachable")
	case errors.Is(err, punch.ErrInvalidPushKey):
		Unauthorized(w, "Invalid push key")

	// Attendance errors
	case errors.Is(err, attendance.ErrInvalidRange):
		BadRequest(w, "Invalid date range", nil)
	case errors.Is(err, localtime.ErrInvalidDateFormat):
		BadRequest(w, "Invalid date format, expected YYYY-MM-DD", nil)

	// Adjustment workflow errors
	case errors.Is(err, adjustment.ErrRequestNotFound):
		NotFound(w, "Adjustment request not found")
	case errors.Is(err, adjustment.ErrDuplicateRequest):
		Conflict(w, "An unresolved request already exists for this day")
	case errors.Is(err, adjustment.ErrInvalidState):
		Conflict(w, "Request is not in a reviewable state")
	case errors.Is(err, adjustment.ErrMissingApprover):
		BadRequest(w, "No approver available for this request", nil)
	case errors.Is(err, adjustment.ErrNotAuthorized):
		Forbidden(w, "Not authorized to act on this request")
	case errors.Is(err, adjustment.ErrNothingProposed):
		BadRequest(w, "At least one proposed time is required", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
