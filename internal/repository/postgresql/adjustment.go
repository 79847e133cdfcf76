package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/adjustment"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/database"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
	"github.com/jackc/pgx/v5"
)

type adjustmentRepository struct {
	db *database.DB
}

func NewAdjustmentRepository(db *database.DB) adjustment.AdjustmentRepository {
	return &adjustmentRepository{db: db}
}

const adjustmentColumns = `
	id, employee_id, work_date, original_check_in, original_check_out,
	proposed_check_in, proposed_check_out, reason, status,
	manager_approver_id, manager_comment, manager_reviewed_at,
	hr_approver_id, hr_comment, hr_reviewed_at, created_at, updated_at
`

// Create implements adjustment.AdjustmentRepository.
func (r *adjustmentRepository) Create(ctx context.Context, request adjustment.Request) (adjustment.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO adjustment_requests (
			id, employee_id, work_date, original_check_in, original_check_out,
			proposed_check_in, proposed_check_out, reason, status,
			manager_approver_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID,
		request.EmployeeID,
		dateParam(request.Date),
		request.OriginalCheckIn,
		request.OriginalCheckOut,
		request.ProposedCheckIn,
		request.ProposedCheckOut,
		request.Reason,
		request.Status,
		request.ManagerApproverID,
	).Scan(&request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		return adjustment.Request{}, fmt.Errorf("failed to create adjustment request: %w", err)
	}
	return request, nil
}

// GetByID implements adjustment.AdjustmentRepository.
func (r *adjustmentRepository) GetByID(ctx context.Context, id string) (adjustment.Request, error) {
	q := GetQuerier(ctx, r.db)

	request, err := scanAdjustment(q.QueryRow(ctx, `
		SELECT `+adjustmentColumns+` FROM adjustment_requests WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return adjustment.Request{}, adjustment.ErrRequestNotFound
		}
		return adjustment.Request{}, fmt.Errorf("failed to get adjustment request: %w", err)
	}
	return request, nil
}

// HasUnresolved implements adjustment.AdjustmentRepository.
func (r *adjustmentRepository) HasUnresolved(ctx context.Context, employeeID string, date localtime.Date) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM adjustment_requests
			WHERE employee_id = $1
			  AND work_date = $2
			  AND status IN ($3, $4)
		)
	`, employeeID, dateParam(date),
		adjustment.StatusPendingManagerApproval, adjustment.StatusPendingHRApproval,
	).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("failed to check unresolved requests: %w", err)
	}
	return exists, nil
}

// Transition implements adjustment.AdjustmentRepository. The WHERE clause
// compares the stored status against the expected one in the same
// statement, so of two concurrent reviewers exactly one sees a row update;
// the other gets ErrInvalidState.
func (r *adjustmentRepository) Transition(ctx context.Context, request adjustment.Request, expected adjustment.Status) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE adjustment_requests SET
			status = $1,
			manager_approver_id = $2,
			manager_comment = $3,
			manager_reviewed_at = $4,
			hr_approver_id = $5,
			hr_comment = $6,
			hr_reviewed_at = $7,
			updated_at = NOW()
		WHERE id = $8
		  AND status = $9
	`,
		request.Status,
		request.ManagerApproverID,
		request.ManagerComment,
		request.ManagerReviewedAt,
		request.HRApproverID,
		request.HRComment,
		request.HRReviewedAt,
		request.ID,
		expected,
	)
	if err != nil {
		return fmt.Errorf("failed to transition adjustment request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return adjustment.ErrInvalidState
	}
	return nil
}

// ListByEmployee implements adjustment.AdjustmentRepository.
func (r *adjustmentRepository) ListByEmployee(ctx context.Context, employeeID string) ([]adjustment.Request, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+adjustmentColumns+`
		FROM adjustment_requests
		WHERE employee_id = $1
		ORDER BY work_date DESC, created_at DESC
	`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjustment requests: %w", err)
	}
	defer rows.Close()

	var requests []adjustment.Request
	for rows.Next() {
		request, err := scanAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan adjustment request: %w", err)
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

func scanAdjustment(row pgx.Row) (adjustment.Request, error) {
	var request adjustment.Request
	var workDate time.Time
	err := row.Scan(
		&request.ID, &request.EmployeeID, &workDate,
		&request.OriginalCheckIn, &request.OriginalCheckOut,
		&request.ProposedCheckIn, &request.ProposedCheckOut,
		&request.Reason, &request.Status,
		&request.ManagerApproverID, &request.ManagerComment, &request.ManagerReviewedAt,
		&request.HRApproverID, &request.HRComment, &request.HRReviewedAt,
		&request.CreatedAt, &request.UpdatedAt,
	)
	if err != nil {
		return adjustment.Request{}, err
	}
	request.Date = dateValue(workDate)
	return request, nil
}
