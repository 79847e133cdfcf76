package employee

import "time"

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

// CanActAsManager reports whether the role may review requests in the
// manager stage without being the assigned approver.
func (r Role) CanActAsManager() bool {
	return r == RoleManager || r == RoleHR || r == RoleAdmin
}

// CanActAsHR reports whether the role may review requests in the HR stage.
func (r Role) CanActAsHR() bool {
	return r == RoleHR || r == RoleAdmin
}

type Employee struct {
	ID              string
	CompanyID       string
	FullName        string
	Email           *string
	PasswordHash    *string // nil for employees without portal access
	DeviceSubjectID *string
	ShiftID         *string
	ManagerID       *string
	Role            Role
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
