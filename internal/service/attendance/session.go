package attendance

import (
	"sort"
	"time"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/attendance"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/punch"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
)

// DeriveSession groups a subject's punches into the attendance window for
// the given day: earliest punch is check-in, latest is check-out. A single
// punch yields check-in only. Punches outside the day's window are ignored,
// so a post-midnight punch (before the window start) lands on the previous
// day's session, not this one.
func DeriveSession(n *localtime.Normalizer, day localtime.Date, punches []punch.Punch) attendance.Session {
	var inWindow []time.Time
	for _, p := range punches {
		if n.WindowDay(p.Timestamp) == day {
			inWindow = append(inWindow, p.Timestamp)
		}
	}

	if len(inWindow) == 0 {
		return attendance.Session{}
	}

	sort.Slice(inWindow, func(i, j int) bool { return inWindow[i].Before(inWindow[j]) })

	first := inWindow[0]
	session := attendance.Session{CheckIn: &first}
	if len(inWindow) > 1 {
		last := inWindow[len(inWindow)-1]
		session.CheckOut = &last
	}
	return session
}
