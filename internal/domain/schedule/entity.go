package schedule

import "time"

// Kind distinguishes how a shift was authored. The resolver only consumes
// the common capability surface (start/end/grace/threshold/weekend), so new
// kinds do not change reconciliation.
type Kind string

const (
	KindFixed  Kind = "fixed"  // one company-wide daily shift
	KindRoster Kind = "roster" // per-employee rostered shift
)

// Shift is a work schedule definition. Start and end are minutes after
// local midnight; a shift with EndMinute <= StartMinute crosses midnight.
type Shift struct {
	ID                       string
	CompanyID                string
	Name                     string
	Kind                     Kind
	StartMinute              int
	EndMinute                int
	GraceMinutes             int
	OvertimeThresholdMinutes int
	WeekendDays              []time.Weekday
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// CrossesMidnight reports whether the scheduled end falls on the day after
// the scheduled start.
func (s Shift) CrossesMidnight() bool {
	return s.EndMinute <= s.StartMinute
}

// WorkingMinutes returns the scheduled span of the shift in minutes,
// overnight-aware.
func (s Shift) WorkingMinutes() int {
	minutes := s.EndMinute - s.StartMinute
	if minutes <= 0 {
		minutes += 24 * 60
	}
	return minutes
}

// IsWeekend reports whether the weekday is in the shift's weekend set.
func (s Shift) IsWeekend(day time.Weekday) bool {
	for _, w := range s.WeekendDays {
		if w == day {
			return true
		}
	}
	return false
}
