package leave

import (
	"context"

	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
)

type LeaveRepository interface {
	// ListApprovedOverlapping returns the employee's approved leave spans
	// intersecting [from, to] inclusive. Pending and denied requests never
	// reach the resolver.
	ListApprovedOverlapping(ctx context.Context, employeeID string, from, to localtime.Date) ([]Request, error)
}
