package attendance

import (
	"time"

	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
)

type Status string

const (
	StatusPresent    Status = "present"
	StatusIncomplete Status = "incomplete"
	StatusAbsent     Status = "absent"
	StatusWeekend    Status = "weekend"
	StatusHoliday    Status = "holiday"
	StatusLeave      Status = "leave"
	StatusRemote     Status = "remote"
)

// PunchDerived reports whether the status was produced from an actual
// session rather than calendar data. The writer refuses to downgrade a
// punch-derived status to a calendar-derived one.
func (s Status) PunchDerived() bool {
	return s == StatusPresent || s == StatusIncomplete
}

// Source records which path authored the record.
type Source string

const (
	SourceDevice   Source = "device"   // derived from terminal punches
	SourceOperator Source = "operator" // written by an approved adjustment
)

// DayKey identifies one attendance record: one employee on one local day.
// It is a comparable value used directly as a map key.
type DayKey struct {
	EmployeeID string
	Date       localtime.Date
}

// Session is the attendance window derived from a day's punches: earliest
// punch is check-in, latest is check-out. A single punch yields check-in
// only.
type Session struct {
	CheckIn  *time.Time
	CheckOut *time.Time
}

// Complete reports whether the session has both ends.
func (s Session) Complete() bool {
	return s.CheckIn != nil && s.CheckOut != nil
}

// Empty reports a session with no punches at all.
func (s Session) Empty() bool {
	return s.CheckIn == nil && s.CheckOut == nil
}

// Record is the canonical reconciled attendance for one employee-day.
// Exactly one record exists per DayKey; writes are upserts.
type Record struct {
	ID                    string
	EmployeeID            string
	Date                  localtime.Date
	CheckIn               *time.Time
	CheckOut              *time.Time
	WorkMinutes           int
	Status                Status
	LateMinutes           int
	EarlyDepartureMinutes int
	OvertimeMinutes       int
	Source                Source
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Key returns the record's composite key.
func (r Record) Key() DayKey {
	return DayKey{EmployeeID: r.EmployeeID, Date: r.Date}
}
