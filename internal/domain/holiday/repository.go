package holiday

import (
	"context"

	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
)

type HolidayRepository interface {
	// ListOverlapping returns all holidays whose range intersects
	// [from, to] inclusive.
	ListOverlapping(ctx context.Context, from, to localtime.Date) ([]Holiday, error)
}
