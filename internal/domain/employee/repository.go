package employee

import "context"

// EmployeeRepository is the read-side directory the reconciliation engine
// consumes. Employee CRUD itself lives outside the engine.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByEmail looks an employee up by login email. Returns
	// ErrEmployeeNotFound when no employee carries the address.
	GetByEmail(ctx context.Context, email string) (Employee, error)

	// GetByDeviceSubject maps a biometric terminal subject onto an employee.
	// Returns ErrUnknownSubject when no employee carries the subject ID.
	GetByDeviceSubject(ctx context.Context, subjectID string) (Employee, error)

	// FindManager returns the assigned manager, or nil when the employee has
	// no manager on record.
	FindManager(ctx context.Context, employeeID string) (*Employee, error)

	// FirstByRole returns the first active employee holding the role, or nil
	// when the company has none. Used to resolve the HR-stage approver.
	FirstByRole(ctx context.Context, role Role) (*Employee, error)

	ListActive(ctx context.Context) ([]Employee, error)
}
