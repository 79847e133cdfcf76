package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/employee"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	id, company_id, full_name, email, password_hash, device_subject_id,
	shift_id, manager_id, role, is_active, created_at, updated_at
`

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	emp, err := scanEmployee(q.QueryRow(ctx, `
		SELECT `+employeeColumns+` FROM employees WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// GetByEmail implements employee.EmployeeRepository.
func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	emp, err := scanEmployee(q.QueryRow(ctx, `
		SELECT `+employeeColumns+` FROM employees WHERE email = $1
	`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by email: %w", err)
	}
	return emp, nil
}

// GetByDeviceSubject implements employee.EmployeeRepository.
func (r *employeeRepository) GetByDeviceSubject(ctx context.Context, subjectID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	emp, err := scanEmployee(q.QueryRow(ctx, `
		SELECT `+employeeColumns+` FROM employees WHERE device_subject_id = $1
	`, subjectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrUnknownSubject
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by device subject: %w", err)
	}
	return emp, nil
}

// FindManager implements employee.EmployeeRepository.
func (r *employeeRepository) FindManager(ctx context.Context, employeeID string) (*employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	emp, err := scanEmployee(q.QueryRow(ctx, `
		SELECT `+employeeColumns+`
		FROM employees
		WHERE id = (SELECT manager_id FROM employees WHERE id = $1)
		  AND is_active
	`, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no manager on record
		}
		return nil, fmt.Errorf("failed to find manager: %w", err)
	}
	return &emp, nil
}

// FirstByRole implements employee.EmployeeRepository.
func (r *employeeRepository) FirstByRole(ctx context.Context, role employee.Role) (*employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	emp, err := scanEmployee(q.QueryRow(ctx, `
		SELECT `+employeeColumns+`
		FROM employees
		WHERE role = $1 AND is_active
		ORDER BY created_at ASC
		LIMIT 1
	`, role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find employee by role: %w", err)
	}
	return &emp, nil
}

// ListActive implements employee.EmployeeRepository.
func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+employeeColumns+` FROM employees WHERE is_active ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.CompanyID, &emp.FullName, &emp.Email, &emp.PasswordHash,
		&emp.DeviceSubjectID, &emp.ShiftID, &emp.ManagerID, &emp.Role,
		&emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}
