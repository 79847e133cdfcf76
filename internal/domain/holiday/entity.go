package holiday

import (
	"time"

	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
)

// Holiday is an inclusive local-date range on the company calendar.
type Holiday struct {
	ID           string
	CompanyID    string
	Name         string
	StartDate    localtime.Date
	EndDate      localtime.Date
	AppliesToAll bool
	CreatedAt    time.Time
}

// Covers reports whether the date falls inside the holiday range.
func (h Holiday) Covers(d localtime.Date) bool {
	return !d.Before(h.StartDate) && !d.After(h.EndDate)
}
