package attendance

import (
	"context"

	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
)

type AttendanceRepository interface {
	// Upsert writes the record keyed by (employee_id, work_date). Repeated
	// writes for the same key overwrite derived fields, never duplicate.
	Upsert(ctx context.Context, record Record) (Record, error)

	// GetByKey returns nil when no record exists for the employee-day.
	GetByKey(ctx context.Context, key DayKey) (*Record, error)

	// ListRange returns persisted records for the employee with work_date in
	// [from, to] inclusive, ordered by date ascending.
	ListRange(ctx context.Context, employeeID string, from, to localtime.Date) ([]Record, error)
}
