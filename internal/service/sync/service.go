package sync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/attendance"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/employee"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/punch"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/activity"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/terminal"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/validator"
	"github.com/google/uuid"
)

// Reconciler re-derives the employee-days touched by an ingest batch.
type Reconciler interface {
	ReconcileKeys(ctx context.Context, keys []attendance.DayKey)
}

// Service is the punch ingestor: it pulls raw punches from terminal
// devices, deduplicates them against the persisted log, advances per-device
// watermarks, and hands the touched days to the reconciler.
type Service struct {
	terminal terminal.Client
	punch.PunchRepository
	employee.EmployeeRepository
	reconciler Reconciler
	normalizer *localtime.Normalizer
	recorder   *activity.Recorder

	// deviceFilter restricts scheduled sweeps to the configured devices.
	// Empty means every registered device.
	deviceFilter []string

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewService(
	terminalClient terminal.Client,
	punchRepo punch.PunchRepository,
	employeeRepo employee.EmployeeRepository,
	reconciler Reconciler,
	normalizer *localtime.Normalizer,
	recorder *activity.Recorder,
	deviceFilter []string,
) *Service {
	return &Service{
		terminal:           terminalClient,
		PunchRepository:    punchRepo,
		EmployeeRepository: employeeRepo,
		reconciler:         reconciler,
		normalizer:         normalizer,
		recorder:           recorder,
		deviceFilter:       deviceFilter,
		inFlight:           make(map[string]bool),
	}
}

// Ingest pulls everything the device recorded after its watermark and
// commits the batch. Malformed rows are skipped and counted, never fatal; a
// terminal failure aborts the whole batch with the watermark untouched, so
// the next tick retries naturally. Single-flight per device: a second
// Ingest for a device still syncing returns ErrSyncInProgress.
func (s *Service) Ingest(ctx context.Context, deviceID string) (punch.IngestReport, error) {
	if !s.acquire(deviceID) {
		return punch.IngestReport{}, punch.ErrSyncInProgress
	}
	defer s.release(deviceID)

	watermark, err := s.PunchRepository.GetWatermark(ctx, deviceID)
	if err != nil {
		return punch.IngestReport{}, fmt.Errorf("failed to get watermark: %w", err)
	}

	raws, err := s.terminal.FetchPunchesSince(ctx, deviceID, watermark.LastSeen)
	if err != nil {
		return punch.IngestReport{}, fmt.Errorf("%w: %v", punch.ErrTerminalUnavailable, err)
	}

	return s.commitBatch(ctx, deviceID, raws)
}

// IngestPush accepts a batch pushed by the terminal itself, authenticated
// with the device's shared push key.
func (s *Service) IngestPush(ctx context.Context, deviceID, pushKey string, raws []terminal.RawPunch) (punch.IngestReport, error) {
	device, err := s.PunchRepository.GetDevice(ctx, deviceID)
	if err != nil {
		return punch.IngestReport{}, err
	}
	if device.PushKeyHash == nil || !terminal.VerifyPushKey(*device.PushKeyHash, pushKey) {
		return punch.IngestReport{}, punch.ErrInvalidPushKey
	}

	if !s.acquire(deviceID) {
		return punch.IngestReport{}, punch.ErrSyncInProgress
	}
	defer s.release(deviceID)

	return s.commitBatch(ctx, deviceID, raws)
}

// SyncAll runs one pull per registered device. Used by the scheduler; an
// unreachable terminal or an in-flight sync is logged and skipped, the next
// tick retries.
func (s *Service) SyncAll(ctx context.Context) error {
	devices, err := s.PunchRepository.ListDevices(ctx)
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}

	for _, device := range devices {
		if len(s.deviceFilter) > 0 && !validator.IsInSlice(device.ID, s.deviceFilter) {
			continue
		}
		report, err := s.Ingest(ctx, device.ID)
		if err != nil {
			slog.Warn("device sync skipped", "device_id", device.ID, "error", err)
			continue
		}
		if report.Accepted > 0 || report.Rejected > 0 {
			slog.Info("device synced",
				"device_id", device.ID,
				"accepted", report.Accepted,
				"rejected", report.Rejected,
				"inserted", report.Inserted)
		}
	}
	return nil
}

// SyncKnownSubjects pulls the device roster and reports subjects that no
// employee is linked to yet.
func (s *Service) SyncKnownSubjects(ctx context.Context, deviceID string) ([]terminal.Subject, error) {
	subjects, err := s.terminal.FetchKnownSubjects(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", punch.ErrTerminalUnavailable, err)
	}

	for _, subject := range subjects {
		if _, err := s.EmployeeRepository.GetByDeviceSubject(ctx, subject.SubjectID); err != nil {
			slog.Warn("terminal subject not linked to any employee",
				"device_id", deviceID,
				"subject_id", subject.SubjectID,
				"display_name", subject.DisplayName)
		}
	}
	return subjects, nil
}

func (s *Service) commitBatch(ctx context.Context, deviceID string, raws []terminal.RawPunch) (punch.IngestReport, error) {
	report := punch.IngestReport{DeviceID: deviceID}

	var accepted []punch.Punch
	var maxSeen time.Time
	for _, raw := range raws {
		p, ok := parseRawPunch(deviceID, raw)
		if !ok {
			report.Rejected++
			slog.Warn("malformed punch skipped",
				"device_id", deviceID,
				"subject_id", raw.SubjectID,
				"timestamp", raw.Timestamp)
			continue
		}
		accepted = append(accepted, p)
		if p.Timestamp.After(maxSeen) {
			maxSeen = p.Timestamp
		}
	}
	report.Accepted = len(accepted)

	if len(accepted) > 0 {
		inserted, err := s.PunchRepository.UpsertBatch(ctx, accepted)
		if err != nil {
			return punch.IngestReport{}, fmt.Errorf("failed to upsert punches: %w", err)
		}
		report.Inserted = inserted

		// The watermark moves only after the batch is durably committed, so
		// an interrupted sync re-fetches instead of losing punches.
		if err := s.PunchRepository.AdvanceWatermark(ctx, deviceID, maxSeen); err != nil {
			return punch.IngestReport{}, fmt.Errorf("failed to advance watermark: %w", err)
		}
	}

	s.reconciler.ReconcileKeys(ctx, s.touchedDays(ctx, accepted))

	s.recorder.Record(activity.Event{
		Kind: activity.KindPunchBatchIngested,
		Detail: map[string]interface{}{
			"device_id": deviceID,
			"accepted":  report.Accepted,
			"rejected":  report.Rejected,
			"inserted":  report.Inserted,
		},
	})
	return report, nil
}

// touchedDays maps an accepted batch onto the distinct employee-days it
// affects. Unknown subjects are skipped; their punches stay in the log and
// reconcile once the subject is linked.
func (s *Service) touchedDays(ctx context.Context, punches []punch.Punch) []attendance.DayKey {
	seen := make(map[attendance.DayKey]bool)
	var keys []attendance.DayKey
	for _, p := range punches {
		emp, err := s.EmployeeRepository.GetByDeviceSubject(ctx, p.SubjectID)
		if err != nil {
			continue
		}
		key := attendance.DayKey{EmployeeID: emp.ID, Date: s.normalizer.WindowDay(p.Timestamp)}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// parseRawPunch validates one raw row. Terminals report timestamps either
// as RFC 3339 or as "2006-01-02 15:04:05" in UTC.
func parseRawPunch(deviceID string, raw terminal.RawPunch) (punch.Punch, bool) {
	if strings.TrimSpace(raw.SubjectID) == "" {
		return punch.Punch{}, false
	}

	ts, err := time.Parse(time.RFC3339, raw.Timestamp)
	if err != nil {
		ts, err = time.Parse("2006-01-02 15:04:05", raw.Timestamp)
		if err != nil {
			return punch.Punch{}, false
		}
		ts = ts.UTC()
	}
	if ts.IsZero() {
		return punch.Punch{}, false
	}

	return punch.Punch{
		ID:        uuid.NewString(),
		SubjectID: strings.TrimSpace(raw.SubjectID),
		Timestamp: ts.UTC(),
		DeviceID:  deviceID,
	}, true
}

func (s *Service) acquire(deviceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[deviceID] {
		return false
	}
	s.inFlight[deviceID] = true
	return true
}

func (s *Service) release(deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, deviceID)
}
