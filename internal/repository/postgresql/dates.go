package postgresql

import (
	"time"

	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
)

// dateParam converts a local date into the value bound to a DATE column.
func dateParam(d localtime.Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// dateValue converts a scanned DATE column back into a local date.
func dateValue(t time.Time) localtime.Date {
	return localtime.Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}
