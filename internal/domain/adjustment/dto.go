package adjustment

import (
	"time"

	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/validator"
)

// CreateRequest is the employee-facing payload proposing a correction.
// Proposed times are absolute instants in RFC 3339.
type CreateRequest struct {
	EmployeeID       string  `json:"employee_id"`
	Date             string  `json:"date"`
	ProposedCheckIn  *string `json:"proposed_check_in"`
	ProposedCheckOut *string `json:"proposed_check_out"`
	Reason           string  `json:"reason"`
}

func (r CreateRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be YYYY-MM-DD"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}
	if r.ProposedCheckIn != nil && !isRFC3339(*r.ProposedCheckIn) {
		errs = append(errs, validator.ValidationError{Field: "proposed_check_in", Message: "must be an RFC 3339 timestamp"})
	}
	if r.ProposedCheckOut != nil && !isRFC3339(*r.ProposedCheckOut) {
		errs = append(errs, validator.ValidationError{Field: "proposed_check_out", Message: "must be an RFC 3339 timestamp"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ReviewRequest carries one reviewer decision (manager or HR stage).
type ReviewRequest struct {
	Decision Decision `json:"decision"`
	Comment  *string  `json:"comment"`
}

func (r ReviewRequest) Validate() error {
	if r.Decision != DecisionApprove && r.Decision != DecisionDeny {
		return validator.ValidationErrors{{Field: "decision", Message: "decision must be approve or deny"}}
	}
	return nil
}

// Response is the wire shape of an adjustment request.
type Response struct {
	ID                string  `json:"id"`
	EmployeeID        string  `json:"employee_id"`
	Date              string  `json:"date"`
	OriginalCheckIn   *string `json:"original_check_in,omitempty"`
	OriginalCheckOut  *string `json:"original_check_out,omitempty"`
	ProposedCheckIn   *string `json:"proposed_check_in,omitempty"`
	ProposedCheckOut  *string `json:"proposed_check_out,omitempty"`
	Reason            string  `json:"reason"`
	Status            Status  `json:"status"`
	ManagerApproverID *string `json:"manager_approver_id,omitempty"`
	ManagerComment    *string `json:"manager_comment,omitempty"`
	HRApproverID      *string `json:"hr_approver_id,omitempty"`
	HRComment         *string `json:"hr_comment,omitempty"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

// NewResponse maps a request onto its wire shape.
func NewResponse(req Request) Response {
	return Response{
		ID:                req.ID,
		EmployeeID:        req.EmployeeID,
		Date:              req.Date.String(),
		OriginalCheckIn:   formatInstant(req.OriginalCheckIn),
		OriginalCheckOut:  formatInstant(req.OriginalCheckOut),
		ProposedCheckIn:   formatInstant(req.ProposedCheckIn),
		ProposedCheckOut:  formatInstant(req.ProposedCheckOut),
		Reason:            req.Reason,
		Status:            req.Status,
		ManagerApproverID: req.ManagerApproverID,
		ManagerComment:    req.ManagerComment,
		HRApproverID:      req.HRApproverID,
		HRComment:         req.HRComment,
		CreatedAt:         req.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         req.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func isRFC3339(s string) bool {
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}
