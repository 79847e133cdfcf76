// Package localtime is the single place where instants are converted to the
// business's local calendar. Every component that needs a day boundary, a
// weekday, or a "which attendance day does this punch belong to" answer goes
// through a Normalizer; nothing else in the codebase does day arithmetic.
package localtime

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")

const dateLayout = "2006-01-02"

// Date is a calendar date in the business's local timezone. It is a plain
// comparable value so it can key maps directly (no "id_date" string keys).
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) After(other Date) bool {
	return other.Before(d)
}

func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

// Normalizer converts between absolute instants and the configured local
// calendar. windowStart is the minute-of-day at which an attendance day
// begins (default 06:00); punches earlier than it belong to the previous
// day's window.
type Normalizer struct {
	loc         *time.Location
	windowStart int
}

func NewNormalizer(loc *time.Location, windowStartMinutes int) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc, windowStart: windowStartMinutes}
}

func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// ToLocalDay returns the calendar date of the instant in the local timezone.
func (n *Normalizer) ToLocalDay(instant time.Time) Date {
	local := instant.In(n.loc)
	return Date{Year: local.Year(), Month: local.Month(), Day: local.Day()}
}

// WindowDay returns the attendance day the instant belongs to: the local
// calendar day, shifted back by one when the instant falls before the
// window start. A 00:30 punch after a night shift reconciles against the
// shift that started the previous evening.
func (n *Normalizer) WindowDay(instant time.Time) Date {
	local := instant.In(n.loc)
	day := Date{Year: local.Year(), Month: local.Month(), Day: local.Day()}
	if local.Hour()*60+local.Minute() < n.windowStart {
		return day.AddDays(-1)
	}
	return day
}

// DayBounds returns the absolute [start, end) instants of the local calendar
// day. DST transitions are handled by time.Date in the configured location.
func (n *Normalizer) DayBounds(d Date) (time.Time, time.Time) {
	start := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, n.loc)
	end := time.Date(d.Year, d.Month, d.Day+1, 0, 0, 0, 0, n.loc)
	return start, end
}

// WindowBounds returns the absolute [start, end) instants of the attendance
// window for the given day.
func (n *Normalizer) WindowBounds(d Date) (time.Time, time.Time) {
	start := time.Date(d.Year, d.Month, d.Day, 0, n.windowStart, 0, 0, n.loc)
	end := time.Date(d.Year, d.Month, d.Day+1, 0, n.windowStart, 0, 0, n.loc)
	return start, end
}

// At projects a minute-of-day onto the date, returning an absolute instant.
// Shift start/end times are stored as minutes after local midnight and only
// become instants here.
func (n *Normalizer) At(d Date, minuteOfDay int) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, minuteOfDay, 0, 0, n.loc)
}

// WindowStartHour returns the local hour at which an attendance day opens.
func (n *Normalizer) WindowStartHour() int {
	return n.windowStart / 60
}

// Today returns the current local calendar date.
func (n *Normalizer) Today() Date {
	return n.ToLocalDay(time.Now())
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// DatesBetween returns every date from from to to inclusive. An empty slice
// is returned when to precedes from.
func DatesBetween(from, to Date) []Date {
	var dates []Date
	for d := from; !d.After(to); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates
}
