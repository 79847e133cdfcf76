package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/punch"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type punchRepository struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) punch.PunchRepository {
	return &punchRepository{db: db}
}

// UpsertBatch implements punch.PunchRepository. The whole batch commits in
// one transaction; rows whose (subject_id, ts) key already exists are left
// untouched, so re-ingesting a known punch is a no-op.
func (r *punchRepository) UpsertBatch(ctx context.Context, punches []punch.Punch) (int, error) {
	inserted := 0

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO punches (id, subject_id, ts, device_id)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (subject_id, ts) DO NOTHING
		`
		for _, p := range punches {
			tag, err := tx.Exec(ctx, query, p.ID, p.SubjectID, p.Timestamp, p.DeviceID)
			if err != nil {
				return fmt.Errorf("failed to insert punch: %w", err)
			}
			inserted += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

// ListForSubjectBetween implements punch.PunchRepository.
func (r *punchRepository) ListForSubjectBetween(ctx context.Context, subjectID string, from, to time.Time) ([]punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, subject_id, ts, device_id, created_at
		FROM punches
		WHERE subject_id = $1
		  AND ts >= $2
		  AND ts < $3
		ORDER BY ts ASC
	`

	rows, err := q.Query(ctx, query, subjectID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}
	defer rows.Close()

	var punches []punch.Punch
	for rows.Next() {
		var p punch.Punch
		if err := rows.Scan(&p.ID, &p.SubjectID, &p.Timestamp, &p.DeviceID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		punches = append(punches, p)
	}
	return punches, rows.Err()
}

// GetWatermark implements punch.PunchRepository. A device that has never
// synced yields a zero LastSeen, so the first sync fetches everything.
func (r *punchRepository) GetWatermark(ctx context.Context, deviceID string) (punch.Watermark, error) {
	q := GetQuerier(ctx, r.db)

	wm := punch.Watermark{DeviceID: deviceID}
	err := q.QueryRow(ctx, `
		SELECT last_seen, updated_at FROM sync_watermarks WHERE device_id = $1
	`, deviceID).Scan(&wm.LastSeen, &wm.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return punch.Watermark{DeviceID: deviceID}, nil
		}
		return punch.Watermark{}, fmt.Errorf("failed to get watermark: %w", err)
	}
	return wm, nil
}

// AdvanceWatermark implements punch.PunchRepository. GREATEST keeps the
// watermark monotonically non-decreasing regardless of caller ordering.
func (r *punchRepository) AdvanceWatermark(ctx context.Context, deviceID string, ts time.Time) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO sync_watermarks (device_id, last_seen, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (device_id) DO UPDATE
		SET last_seen = GREATEST(sync_watermarks.last_seen, EXCLUDED.last_seen),
		    updated_at = NOW()
	`, deviceID, ts)
	if err != nil {
		return fmt.Errorf("failed to advance watermark: %w", err)
	}
	return nil
}

// GetDevice implements punch.PunchRepository.
func (r *punchRepository) GetDevice(ctx context.Context, deviceID string) (punch.Device, error) {
	q := GetQuerier(ctx, r.db)

	var d punch.Device
	err := q.QueryRow(ctx, `
		SELECT id, name, push_key_hash, created_at FROM devices WHERE id = $1
	`, deviceID).Scan(&d.ID, &d.Name, &d.PushKeyHash, &d.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return punch.Device{}, punch.ErrDeviceNotFound
		}
		return punch.Device{}, fmt.Errorf("failed to get device: %w", err)
	}
	return d, nil
}

// ListDevices implements punch.PunchRepository.
func (r *punchRepository) ListDevices(ctx context.Context) ([]punch.Device, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, name, push_key_hash, created_at FROM devices ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer rows.Close()

	var devices []punch.Device
	for rows.Next() {
		var d punch.Device
		if err := rows.Scan(&d.ID, &d.Name, &d.PushKeyHash, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}
