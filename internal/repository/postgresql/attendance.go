package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/attendance"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/database"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Upsert implements attendance.AttendanceRepository. The unique constraint
// on (employee_id, work_date) serializes concurrent writes to one key and
// guarantees exactly one record per employee-day.
func (r *attendanceRepository) Upsert(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	query := `
		INSERT INTO attendance_records (
			id, employee_id, work_date, check_in, check_out, work_minutes,
			status, late_minutes, early_departure_minutes, overtime_minutes, source
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT (employee_id, work_date) DO UPDATE SET
			check_in = EXCLUDED.check_in,
			check_out = EXCLUDED.check_out,
			work_minutes = EXCLUDED.work_minutes,
			status = EXCLUDED.status,
			late_minutes = EXCLUDED.late_minutes,
			early_departure_minutes = EXCLUDED.early_departure_minutes,
			overtime_minutes = EXCLUDED.overtime_minutes,
			source = EXCLUDED.source,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID,
		record.EmployeeID,
		dateParam(record.Date),
		record.CheckIn,
		record.CheckOut,
		record.WorkMinutes,
		record.Status,
		record.LateMinutes,
		record.EarlyDepartureMinutes,
		record.OvertimeMinutes,
		record.Source,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to upsert attendance record: %w", err)
	}
	return record, nil
}

// GetByKey implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByKey(ctx context.Context, key attendance.DayKey) (*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, work_date, check_in, check_out, work_minutes,
		       status, late_minutes, early_departure_minutes, overtime_minutes,
		       source, created_at, updated_at
		FROM attendance_records
		WHERE employee_id = $1
		  AND work_date = $2
		LIMIT 1
	`

	record, err := scanRecord(q.QueryRow(ctx, query, key.EmployeeID, dateParam(key.Date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no record for this employee-day yet
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return &record, nil
}

// ListRange implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListRange(ctx context.Context, employeeID string, from, to localtime.Date) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, work_date, check_in, check_out, work_minutes,
		       status, late_minutes, early_departure_minutes, overtime_minutes,
		       source, created_at, updated_at
		FROM attendance_records
		WHERE employee_id = $1
		  AND work_date >= $2
		  AND work_date <= $3
		ORDER BY work_date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, dateParam(from), dateParam(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var record attendance.Record
	var workDate time.Time
	err := row.Scan(
		&record.ID, &record.EmployeeID, &workDate, &record.CheckIn, &record.CheckOut,
		&record.WorkMinutes, &record.Status, &record.LateMinutes,
		&record.EarlyDepartureMinutes, &record.OvertimeMinutes,
		&record.Source, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}
	record.Date = dateValue(workDate)
	return record, nil
}
