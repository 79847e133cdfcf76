package adjustment

import (
	"context"

	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
)

type AdjustmentRepository interface {
	Create(ctx context.Context, request Request) (Request, error)

	GetByID(ctx context.Context, id string) (Request, error)

	// HasUnresolved reports whether a non-terminal request exists for the
	// employee-day. Guards duplicate creation.
	HasUnresolved(ctx context.Context, employeeID string, date localtime.Date) (bool, error)

	// Transition persists the request's new state, comparing against the
	// expected current status in the same statement. Returns ErrInvalidState
	// when the stored status no longer matches, so two concurrent reviewers
	// cannot both win.
	Transition(ctx context.Context, request Request, expected Status) error

	ListByEmployee(ctx context.Context, employeeID string) ([]Request, error)
}
