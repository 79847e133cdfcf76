package punch

import (
	"context"
	"time"
)

type PunchRepository interface {
	// UpsertBatch inserts the punches, ignoring rows whose
	// (subject_id, timestamp) key already exists. Returns how many rows were
	// actually inserted.
	UpsertBatch(ctx context.Context, punches []Punch) (int, error)

	// ListForSubjectBetween returns the subject's punches with
	// timestamp in [from, to), ordered ascending.
	ListForSubjectBetween(ctx context.Context, subjectID string, from, to time.Time) ([]Punch, error)

	// GetWatermark returns the device watermark; LastSeen is the zero time
	// when the device has never synced.
	GetWatermark(ctx context.Context, deviceID string) (Watermark, error)

	// AdvanceWatermark moves the device watermark forward to ts. A ts at or
	// behind the stored value leaves it unchanged.
	AdvanceWatermark(ctx context.Context, deviceID string, ts time.Time) error

	GetDevice(ctx context.Context, deviceID string) (Device, error)
	ListDevices(ctx context.Context) ([]Device, error)
}
