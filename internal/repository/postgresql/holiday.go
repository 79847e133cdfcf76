package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/holiday"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/database"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
)

type holidayRepository struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepository{db: db}
}

// ListOverlapping implements holiday.HolidayRepository.
func (r *holidayRepository) ListOverlapping(ctx context.Context, from, to localtime.Date) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, start_date, end_date, applies_to_all, created_at
		FROM holidays
		WHERE start_date <= $2
		  AND end_date >= $1
		ORDER BY start_date ASC
	`

	rows, err := q.Query(ctx, query, dateParam(from), dateParam(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []holiday.Holiday
	for rows.Next() {
		var h holiday.Holiday
		var startDate, endDate time.Time
		if err := rows.Scan(&h.ID, &h.CompanyID, &h.Name, &startDate, &endDate, &h.AppliesToAll, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		h.StartDate = dateValue(startDate)
		h.EndDate = dateValue(endDate)
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}
