package sync

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/attendance"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/employee"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/punch"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/activity"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTerminal struct {
	punches  []terminal.RawPunch
	subjects []terminal.Subject
	err      error
	fetches  int
}

func (f *fakeTerminal) FetchPunchesSince(_ context.Context, _ string, _ time.Time) ([]terminal.RawPunch, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.punches, nil
}

func (f *fakeTerminal) FetchKnownSubjects(_ context.Context, _ string) ([]terminal.Subject, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.subjects, nil
}

type fakePunchRepo struct {
	punches    []punch.Punch
	watermarks map[string]time.Time
	devices    map[string]punch.Device
}

func newFakePunchRepo() *fakePunchRepo {
	return &fakePunchRepo{
		watermarks: make(map[string]time.Time),
		devices:    make(map[string]punch.Device),
	}
}

func (f *fakePunchRepo) UpsertBatch(_ context.Context, punches []punch.Punch) (int, error) {
	inserted := 0
	for _, p := range punches {
		exists := false
		for _, have := range f.punches {
			if have.SubjectID == p.SubjectID && have.Timestamp.Equal(p.Timestamp) {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		f.punches = append(f.punches, p)
		inserted++
	}
	return inserted, nil
}

func (f *fakePunchRepo) ListForSubjectBetween(_ context.Context, subjectID string, from, to time.Time) ([]punch.Punch, error) {
	var out []punch.Punch
	for _, p := range f.punches {
		if p.SubjectID == subjectID && !p.Timestamp.Before(from) && p.Timestamp.Before(to) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (f *fakePunchRepo) GetWatermark(_ context.Context, deviceID string) (punch.Watermark, error) {
	return punch.Watermark{DeviceID: deviceID, LastSeen: f.watermarks[deviceID]}, nil
}

func (f *fakePunchRepo) AdvanceWatermark(_ context.Context, deviceID string, ts time.Time) error {
	if ts.After(f.watermarks[deviceID]) {
		f.watermarks[deviceID] = ts
	}
	return nil
}

func (f *fakePunchRepo) GetDevice(_ context.Context, deviceID string) (punch.Device, error) {
	device, ok := f.devices[deviceID]
	if !ok {
		return punch.Device{}, punch.ErrDeviceNotFound
	}
	return device, nil
}

func (f *fakePunchRepo) ListDevices(_ context.Context) ([]punch.Device, error) {
	var out []punch.Device
	for _, d := range f.devices {
		out = append(out, d)
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetByEmail(_ context.Context, email string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.Email != nil && *e.Email == email {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetByDeviceSubject(_ context.Context, subjectID string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.DeviceSubjectID != nil && *e.DeviceSubjectID == subjectID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrUnknownSubject
}

func (f *fakeEmployeeRepo) FindManager(_ context.Context, _ string) (*employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) FirstByRole(_ context.Context, _ employee.Role) (*employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	return f.employees, nil
}

type fakeReconciler struct {
	keys []attendance.DayKey
}

func (f *fakeReconciler) ReconcileKeys(_ context.Context, keys []attendance.DayKey) {
	f.keys = append(f.keys, keys...)
}

type noopSink struct{}

func (noopSink) Insert(context.Context, activity.Event) error { return nil }

func newTestRecorder(t *testing.T) *activity.Recorder {
	t.Helper()
	r := activity.NewRecorder(noopSink{}, 64)
	t.Cleanup(r.Close)
	return r
}

type syncFixture struct {
	svc        *Service
	terminal   *fakeTerminal
	punches    *fakePunchRepo
	employees  *fakeEmployeeRepo
	reconciler *fakeReconciler
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	f := &syncFixture{
		terminal:   &fakeTerminal{},
		punches:    newFakePunchRepo(),
		employees:  &fakeEmployeeRepo{},
		reconciler: &fakeReconciler{},
	}
	subjectID := "subj-1"
	f.employees.employees = []employee.Employee{{
		ID:              "emp-1",
		FullName:        "Test Employee",
		DeviceSubjectID: &subjectID,
		Role:            employee.RoleEmployee,
		IsActive:        true,
	}}
	normalizer := localtime.NewNormalizer(time.FixedZone("AST", 3*60*60), 6*60)
	f.svc = NewService(f.terminal, f.punches, f.employees, f.reconciler, normalizer, newTestRecorder(t), nil)
	return f
}

func TestIngestCommitsBatchAndAdvancesWatermark(t *testing.T) {
	f := newSyncFixture(t)
	f.terminal.punches = []terminal.RawPunch{
		{SubjectID: "subj-1", Timestamp: "2026-03-10T05:55:00Z"},
		{SubjectID: "subj-1", Timestamp: "2026-03-10T14:05:00Z"},
	}

	report, err := f.svc.Ingest(context.Background(), "dev-1")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Accepted)
	assert.Equal(t, 0, report.Rejected)
	assert.Equal(t, 2, report.Inserted)

	watermark := f.punches.watermarks["dev-1"]
	assert.True(t, watermark.Equal(time.Date(2026, time.March, 10, 14, 5, 0, 0, time.UTC)))

	// Both punches land on one local day (05:55Z is 08:55 local), so the
	// reconciler sees exactly one key.
	require.Len(t, f.reconciler.keys, 1)
	assert.Equal(t, attendance.DayKey{
		EmployeeID: "emp-1",
		Date:       localtime.Date{Year: 2026, Month: time.March, Day: 10},
	}, f.reconciler.keys[0])
}

func TestIngestIsIdempotent(t *testing.T) {
	f := newSyncFixture(t)
	f.terminal.punches = []terminal.RawPunch{
		{SubjectID: "subj-1", Timestamp: "2026-03-10T05:55:00Z"},
		{SubjectID: "subj-1", Timestamp: "2026-03-10T14:05:00Z"},
	}

	first, err := f.svc.Ingest(context.Background(), "dev-1")
	require.NoError(t, err)
	second, err := f.svc.Ingest(context.Background(), "dev-1")
	require.NoError(t, err)

	assert.Equal(t, 2, first.Inserted)
	assert.Equal(t, 2, second.Accepted)
	assert.Equal(t, 0, second.Inserted)
	assert.Len(t, f.punches.punches, 2)
}

func TestIngestRejectsMalformedRows(t *testing.T) {
	f := newSyncFixture(t)
	f.terminal.punches = []terminal.RawPunch{
		{SubjectID: "", Timestamp: "2026-03-10T08:00:00Z"},
		{SubjectID: "subj-1", Timestamp: "not-a-timestamp"},
		{SubjectID: "subj-1", Timestamp: "2026-03-10 08:55:00"},
	}

	report, err := f.svc.Ingest(context.Background(), "dev-1")
	require.NoError(t, err)

	assert.Equal(t, 1, report.Accepted)
	assert.Equal(t, 2, report.Rejected)
	assert.Equal(t, 1, report.Inserted)
}

func TestIngestTerminalFailureLeavesWatermarkUntouched(t *testing.T) {
	f := newSyncFixture(t)
	f.terminal.err = errors.New("connection refused")

	_, err := f.svc.Ingest(context.Background(), "dev-1")
	assert.ErrorIs(t, err, punch.ErrTerminalUnavailable)
	assert.True(t, f.punches.watermarks["dev-1"].IsZero())
	assert.Empty(t, f.reconciler.keys)
}

func TestIngestSingleFlightPerDevice(t *testing.T) {
	f := newSyncFixture(t)
	f.svc.inFlight["dev-1"] = true

	_, err := f.svc.Ingest(context.Background(), "dev-1")
	assert.ErrorIs(t, err, punch.ErrSyncInProgress)

	// Other devices are unaffected.
	_, err = f.svc.Ingest(context.Background(), "dev-2")
	assert.NoError(t, err)
}

func TestIngestSkipsUnknownSubjects(t *testing.T) {
	f := newSyncFixture(t)
	f.terminal.punches = []terminal.RawPunch{
		{SubjectID: "subj-unknown", Timestamp: "2026-03-10T05:55:00Z"},
	}

	report, err := f.svc.Ingest(context.Background(), "dev-1")
	require.NoError(t, err)

	// The punch is kept in the log but no employee-day reconciles until
	// the subject is linked.
	assert.Equal(t, 1, report.Inserted)
	assert.Empty(t, f.reconciler.keys)
}

func TestIngestPushVerifiesKey(t *testing.T) {
	f := newSyncFixture(t)
	hash, err := terminal.HashPushKey("super-secret")
	require.NoError(t, err)
	f.punches.devices["dev-1"] = punch.Device{ID: "dev-1", Name: "Lobby", PushKeyHash: &hash}

	raws := []terminal.RawPunch{
		{SubjectID: "subj-1", Timestamp: "2026-03-10T05:55:00Z"},
	}

	_, err = f.svc.IngestPush(context.Background(), "dev-1", "wrong-key", raws)
	assert.ErrorIs(t, err, punch.ErrInvalidPushKey)
	assert.Empty(t, f.punches.punches)

	report, err := f.svc.IngestPush(context.Background(), "dev-1", "super-secret", raws)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)
}

func TestIngestPushUnknownDevice(t *testing.T) {
	f := newSyncFixture(t)

	_, err := f.svc.IngestPush(context.Background(), "dev-missing", "any", nil)
	assert.ErrorIs(t, err, punch.ErrDeviceNotFound)
}

func TestSyncAllSkipsFailingDevices(t *testing.T) {
	f := newSyncFixture(t)
	f.punches.devices["dev-1"] = punch.Device{ID: "dev-1"}
	f.punches.devices["dev-2"] = punch.Device{ID: "dev-2"}
	f.terminal.err = errors.New("connection refused")

	// Unreachable terminals are logged and skipped, never fatal to the
	// sweep itself.
	err := f.svc.SyncAll(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, f.terminal.fetches)
}

func TestSyncAllHonorsDeviceFilter(t *testing.T) {
	f := newSyncFixture(t)
	f.svc.deviceFilter = []string{"dev-2"}
	f.punches.devices["dev-1"] = punch.Device{ID: "dev-1"}
	f.punches.devices["dev-2"] = punch.Device{ID: "dev-2"}

	err := f.svc.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.terminal.fetches)
}
