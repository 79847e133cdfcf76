package schedule

import "context"

type ShiftRepository interface {
	// GetByID returns nil (not an error) when the shift does not exist, so a
	// deleted shift degrades to "no shift assigned" during resolution.
	GetByID(ctx context.Context, id string) (*Shift, error)
}
