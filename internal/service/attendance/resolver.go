package attendance

import (
	"time"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/attendance"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/leave"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/schedule"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
)

// ResolveInput carries everything known about one employee-day. Shift and
// Leave are nil when absent or orphaned; resolution degrades instead of
// failing.
type ResolveInput struct {
	EmployeeID string
	Date       localtime.Date
	Session    attendance.Session
	Shift      *schedule.Shift
	OnHoliday  bool
	Leave      *leave.Request
}

// Resolve merges the day's session with shift, holiday and leave data into
// one canonical record. The precedence order is the core business rule:
// complete session, then partial session, then leave, then holiday, then
// weekend, then absent. Presence beats every calendar source.
func Resolve(n *localtime.Normalizer, in ResolveInput) attendance.Record {
	record := attendance.Record{
		EmployeeID: in.EmployeeID,
		Date:       in.Date,
		CheckIn:    in.Session.CheckIn,
		CheckOut:   in.Session.CheckOut,
		Source:     attendance.SourceDevice,
	}

	switch {
	case in.Session.Complete():
		record.Status = attendance.StatusPresent
	case in.Session.CheckIn != nil:
		record.Status = attendance.StatusIncomplete
	case in.Leave != nil:
		if in.Leave.Type == leave.TypeRemote {
			record.Status = attendance.StatusRemote
		} else {
			record.Status = attendance.StatusLeave
		}
	case in.OnHoliday:
		record.Status = attendance.StatusHoliday
	case in.Shift != nil && in.Shift.IsWeekend(in.Date.Weekday()):
		record.Status = attendance.StatusWeekend
	default:
		record.Status = attendance.StatusAbsent
	}

	if record.Status.PunchDerived() {
		applyMetrics(n, &record, in)
	}

	return record
}

// applyMetrics fills work/late/early/overtime minutes. All arithmetic is in
// whole minutes; durations are floored.
func applyMetrics(n *localtime.Normalizer, record *attendance.Record, in ResolveInput) {
	if in.Session.Complete() {
		record.WorkMinutes = workMinutes(*in.Session.CheckIn, *in.Session.CheckOut)
	}

	if in.Shift == nil {
		return
	}
	shift := *in.Shift

	scheduledStart := n.At(in.Date, shift.StartMinute)
	graceEnd := scheduledStart.Add(time.Duration(shift.GraceMinutes) * time.Minute)
	if late := minutesBetween(graceEnd, *in.Session.CheckIn); late > 0 {
		record.LateMinutes = late
	}

	if !in.Session.Complete() {
		return
	}

	scheduledEnd := n.At(in.Date, shift.EndMinute)
	if shift.CrossesMidnight() {
		scheduledEnd = n.At(in.Date.AddDays(1), shift.EndMinute)
	}
	if early := minutesBetween(*in.Session.CheckOut, scheduledEnd); early > 0 {
		record.EarlyDepartureMinutes = early
	}

	allowed := shift.WorkingMinutes() + shift.OvertimeThresholdMinutes
	if overtime := record.WorkMinutes - allowed; overtime > 0 {
		record.OvertimeMinutes = overtime
	}
}

// workMinutes is checkOut minus checkIn in whole minutes. A non-positive
// raw difference means the session crossed local midnight under the window
// convention, so a day is added back.
func workMinutes(checkIn, checkOut time.Time) int {
	minutes := minutesBetween(checkIn, checkOut)
	if minutes <= 0 {
		minutes += 24 * 60
	}
	return minutes
}

func minutesBetween(from, to time.Time) int {
	return int(to.Sub(from) / time.Minute)
}
