package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/schedule"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) schedule.ShiftRepository {
	return &shiftRepository{db: db}
}

// GetByID implements schedule.ShiftRepository. A missing shift returns nil
// so resolution degrades to "no shift assigned" instead of failing.
func (r *shiftRepository) GetByID(ctx context.Context, id string) (*schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, kind, start_minute, end_minute,
		       grace_minutes, overtime_threshold_minutes, weekend_days,
		       created_at, updated_at
		FROM shifts
		WHERE id = $1
	`

	var shift schedule.Shift
	var weekendDays []int32
	err := q.QueryRow(ctx, query, id).Scan(
		&shift.ID, &shift.CompanyID, &shift.Name, &shift.Kind,
		&shift.StartMinute, &shift.EndMinute,
		&shift.GraceMinutes, &shift.OvertimeThresholdMinutes, &weekendDays,
		&shift.CreatedAt, &shift.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}

	for _, day := range weekendDays {
		shift.WeekendDays = append(shift.WeekendDays, time.Weekday(day))
	}
	return &shift, nil
}
