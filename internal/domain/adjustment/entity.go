package adjustment

import (
	"time"

	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
)

type Status string

const (
	StatusPendingManagerApproval Status = "pending_manager_approval"
	StatusPendingHRApproval      Status = "pending_hr_approval"
	StatusApproved               Status = "approved"
	StatusDeniedByManager        Status = "denied_by_manager"
	StatusDeniedByHR             Status = "denied_by_hr"
)

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusDeniedByManager || s == StatusDeniedByHR
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionDeny    Decision = "deny"
)

// Request is a human-initiated correction to one day's canonical punches.
// Original times are snapshotted at creation and never change; approval
// moves the request through a manager stage then an HR stage, and final
// approval overwrites the canonical attendance record with the proposed
// times.
type Request struct {
	ID                string
	EmployeeID        string
	Date              localtime.Date
	OriginalCheckIn   *time.Time
	OriginalCheckOut  *time.Time
	ProposedCheckIn   *time.Time
	ProposedCheckOut  *time.Time
	Reason            string
	Status            Status
	ManagerApproverID *string
	ManagerComment    *string
	ManagerReviewedAt *time.Time
	HRApproverID      *string
	HRComment         *string
	HRReviewedAt      *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
