package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/leave"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/database"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

// ListApprovedOverlapping implements leave.LeaveRepository. Only approved
// requests are visible to the resolver.
func (r *leaveRepository) ListApprovedOverlapping(ctx context.Context, employeeID string, from, to localtime.Date) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, type, start_date, end_date, status, reason,
		       created_at, updated_at
		FROM leave_requests
		WHERE employee_id = $1
		  AND status = $2
		  AND start_date <= $4
		  AND end_date >= $3
		ORDER BY start_date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, leave.StatusApproved, dateParam(from), dateParam(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		var req leave.Request
		var startDate, endDate time.Time
		if err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.Type, &startDate, &endDate,
			&req.Status, &req.Reason, &req.CreatedAt, &req.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		req.StartDate = dateValue(startDate)
		req.EndDate = dateValue(endDate)
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
