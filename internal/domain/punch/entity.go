package punch

import "time"

// Punch is one biometric scan. Immutable once ingested; uniqueness is
// (SubjectID, Timestamp), so re-ingesting a known punch is a no-op.
type Punch struct {
	ID        string
	SubjectID string
	Timestamp time.Time // absolute, stored UTC
	DeviceID  string
	CreatedAt time.Time
}

// Watermark is the latest-ingested-timestamp checkpoint per device. It only
// ever moves forward; syncs fetch punches strictly after it.
type Watermark struct {
	DeviceID  string
	LastSeen  time.Time
	UpdatedAt time.Time
}

// Device is a registered biometric terminal. PushKeyHash is the bcrypt hash
// of the shared key the terminal presents when pushing punches.
type Device struct {
	ID          string
	Name        string
	PushKeyHash *string
	CreatedAt   time.Time
}

// IngestReport summarizes one ingestion batch. Rejected rows were malformed
// and skipped; they never abort the batch.
type IngestReport struct {
	DeviceID string `json:"device_id"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
	Inserted int    `json:"inserted"`
}
