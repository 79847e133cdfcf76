package attendance

import (
	"time"

	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/validator"
)

// RangeQuery selects an employee's records across an inclusive date span.
type RangeQuery struct {
	EmployeeID string
	From       string
	To         string
}

func (q RangeQuery) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(q.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if _, ok := validator.IsValidDate(q.From); !ok {
		errs = append(errs, validator.ValidationError{Field: "from", Message: "from must be YYYY-MM-DD"})
	}
	if _, ok := validator.IsValidDate(q.To); !ok {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "to must be YYYY-MM-DD"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Totals aggregates a range of records for the attendance view.
type Totals struct {
	PresentDays         int `json:"present_days"`
	IncompleteDays      int `json:"incomplete_days"`
	AbsentDays          int `json:"absent_days"`
	WeekendDays         int `json:"weekend_days"`
	HolidayDays         int `json:"holiday_days"`
	LeaveDays           int `json:"leave_days"`
	RemoteDays          int `json:"remote_days"`
	TotalWorkMinutes    int `json:"total_work_minutes"`
	TotalLateMinutes    int `json:"total_late_minutes"`
	TotalOvertimeMinutes int `json:"total_overtime_minutes"`
}

// Add folds one record into the totals.
func (t *Totals) Add(r Record) {
	switch r.Status {
	case StatusPresent:
		t.PresentDays++
	case StatusIncomplete:
		t.IncompleteDays++
	case StatusAbsent:
		t.AbsentDays++
	case StatusWeekend:
		t.WeekendDays++
	case StatusHoliday:
		t.HolidayDays++
	case StatusLeave:
		t.LeaveDays++
	case StatusRemote:
		t.RemoteDays++
	}
	t.TotalWorkMinutes += r.WorkMinutes
	t.TotalLateMinutes += r.LateMinutes
	t.TotalOvertimeMinutes += r.OvertimeMinutes
}

// RecordResponse is the wire shape of one reconciled day.
type RecordResponse struct {
	EmployeeID            string  `json:"employee_id"`
	Date                  string  `json:"date"`
	CheckIn               *string `json:"check_in,omitempty"`
	CheckOut              *string `json:"check_out,omitempty"`
	WorkMinutes           int     `json:"work_minutes"`
	Status                Status  `json:"status"`
	LateMinutes           int     `json:"late_minutes"`
	EarlyDepartureMinutes int     `json:"early_departure_minutes"`
	OvertimeMinutes       int     `json:"overtime_minutes"`
	Source                Source  `json:"source"`
}

// RangeResponse is the attendance view payload: records plus aggregates.
type RangeResponse struct {
	EmployeeID string           `json:"employee_id"`
	From       string           `json:"from"`
	To         string           `json:"to"`
	Records    []RecordResponse `json:"records"`
	Totals     Totals           `json:"totals"`
}

// NewRecordResponse maps a record onto its wire shape.
func NewRecordResponse(r Record) RecordResponse {
	return RecordResponse{
		EmployeeID:            r.EmployeeID,
		Date:                  r.Date.String(),
		CheckIn:               formatInstant(r.CheckIn),
		CheckOut:              formatInstant(r.CheckOut),
		WorkMinutes:           r.WorkMinutes,
		Status:                r.Status,
		LateMinutes:           r.LateMinutes,
		EarlyDepartureMinutes: r.EarlyDepartureMinutes,
		OvertimeMinutes:       r.OvertimeMinutes,
		Source:                r.Source,
	}
}

func formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// ParseRange parses the query's date strings. Call Validate first.
func (q RangeQuery) ParseRange() (localtime.Date, localtime.Date, error) {
	from, err := localtime.ParseDate(q.From)
	if err != nil {
		return localtime.Date{}, localtime.Date{}, err
	}
	to, err := localtime.ParseDate(q.To)
	if err != nil {
		return localtime.Date{}, localtime.Date{}, err
	}
	return from, to, nil
}
