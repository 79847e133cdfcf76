package leave

import (
	"time"

	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
)

type Type string

const (
	TypeAnnual Type = "annual"
	TypeCasual Type = "casual"
	TypeSick   Type = "sick"
	// TypeRemote is the non-deducting work-from-home type; it resolves to a
	// "remote" attendance status instead of "leave".
	TypeRemote Type = "remote"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

// Request is an employee leave span. Only approved requests participate in
// attendance resolution; balance/entitlement validation belongs to the
// leave CRUD service, not this engine.
type Request struct {
	ID         string
	EmployeeID string
	Type       Type
	StartDate  localtime.Date
	EndDate    localtime.Date
	Status     Status
	Reason     *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Covers reports whether the date falls inside the leave span.
func (r Request) Covers(d localtime.Date) bool {
	return !d.Before(r.StartDate) && !d.After(r.EndDate)
}
