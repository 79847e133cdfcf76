package attendance

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/attendance"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/employee"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/holiday"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/leave"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/punch"
	"github.com/developers-alawaf/hrms-app-sub000/internal/domain/schedule"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/activity"
	"github.com/developers-alawaf/hrms-app-sub000/internal/pkg/localtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttendanceRepo struct {
	records map[attendance.DayKey]attendance.Record
	upserts int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[attendance.DayKey]attendance.Record)}
}

func (f *fakeAttendanceRepo) Upsert(_ context.Context, record attendance.Record) (attendance.Record, error) {
	f.upserts++
	if existing, ok := f.records[record.Key()]; ok {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	}
	if record.ID == "" {
		record.ID = fmt.Sprintf("rec-%d", len(f.records)+1)
		record.CreatedAt = time.Now().UTC()
	}
	record.UpdatedAt = time.Now().UTC()
	f.records[record.Key()] = record
	return record, nil
}

func (f *fakeAttendanceRepo) GetByKey(_ context.Context, key attendance.DayKey) (*attendance.Record, error) {
	record, ok := f.records[key]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (f *fakeAttendanceRepo) ListRange(_ context.Context, employeeID string, from, to localtime.Date) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, record := range f.records {
		if record.EmployeeID == employeeID && !record.Date.Before(from) && !record.Date.After(to) {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
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
		if f.has(p.SubjectID, p.Timestamp) {
			continue
		}
		f.punches = append(f.punches, p)
		inserted++
	}
	return inserted, nil
}

func (f *fakePunchRepo) has(subjectID string, ts time.Time) bool {
	for _, p := range f.punches {
		if p.SubjectID == subjectID && p.Timestamp.Equal(ts) {
			return true
		}
	}
	return false
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

func (f *fakeEmployeeRepo) FindManager(ctx context.Context, employeeID string) (*employee.Employee, error) {
	emp, err := f.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if emp.ManagerID == nil {
		return nil, nil
	}
	manager, err := f.GetByID(ctx, *emp.ManagerID)
	if err != nil {
		return nil, nil
	}
	return &manager, nil
}

func (f *fakeEmployeeRepo) FirstByRole(_ context.Context, role employee.Role) (*employee.Employee, error) {
	for _, e := range f.employees {
		if e.Role == role && e.IsActive {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeShiftRepo struct {
	shifts map[string]*schedule.Shift
}

func (f *fakeShiftRepo) GetByID(_ context.Context, id string) (*schedule.Shift, error) {
	return f.shifts[id], nil
}

type fakeHolidayRepo struct {
	holidays []holiday.Holiday
}

func (f *fakeHolidayRepo) ListOverlapping(_ context.Context, from, to localtime.Date) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for _, h := range f.holidays {
		if !h.EndDate.Before(from) && !h.StartDate.After(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeLeaveRepo struct {
	requests []leave.Request
}

func (f *fakeLeaveRepo) ListApprovedOverlapping(_ context.Context, employeeID string, from, to localtime.Date) ([]leave.Request, error) {
	var out []leave.Request
	for _, r := range f.requests {
		if r.EmployeeID == employeeID && r.Status == leave.StatusApproved &&
			!r.EndDate.Before(from) && !r.StartDate.After(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

type noopSink struct{}

func (noopSink) Insert(context.Context, activity.Event) error { return nil }

func newTestRecorder(t *testing.T) *activity.Recorder {
	t.Helper()
	r := activity.NewRecorder(noopSink{}, 64)
	t.Cleanup(r.Close)
	return r
}

type serviceFixture struct {
	svc        *Service
	attendance *fakeAttendanceRepo
	punches    *fakePunchRepo
	employees  *fakeEmployeeRepo
	shifts     *fakeShiftRepo
	holidays   *fakeHolidayRepo
	leaves     *fakeLeaveRepo
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		attendance: newFakeAttendanceRepo(),
		punches:    newFakePunchRepo(),
		employees:  &fakeEmployeeRepo{},
		shifts:     &fakeShiftRepo{shifts: make(map[string]*schedule.Shift)},
		holidays:   &fakeHolidayRepo{},
		leaves:     &fakeLeaveRepo{},
	}
	f.svc = NewService(
		f.attendance,
		f.punches,
		f.employees,
		f.shifts,
		f.holidays,
		f.leaves,
		testNormalizer(),
		newTestRecorder(t),
	)
	return f
}

func (f *serviceFixture) addEmployee(id, subjectID, shiftID string) {
	emp := employee.Employee{ID: id, FullName: "Test Employee", Role: employee.RoleEmployee, IsActive: true}
	if subjectID != "" {
		emp.DeviceSubjectID = &subjectID
	}
	if shiftID != "" {
		emp.ShiftID = &shiftID
	}
	f.employees.employees = append(f.employees.employees, emp)
}

func TestWriteKeepsPresenceOverCalendar(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	day := localtime.Date{Year: 2026, Month: time.March, Day: 10}

	in := localInstant(2026, time.March, 10, 8, 55)
	out := localInstant(2026, time.March, 10, 17, 5)
	_, err := f.attendance.Upsert(ctx, attendance.Record{
		EmployeeID: "emp-1",
		Date:       day,
		CheckIn:    &in,
		CheckOut:   &out,
		Status:     attendance.StatusPresent,
		Source:     attendance.SourceDevice,
	})
	require.NoError(t, err)

	// A later calendar-only rewrite (say a holiday added after the fact)
	// must not erase the real session.
	written, err := f.svc.Write(ctx, attendance.Record{
		EmployeeID: "emp-1",
		Date:       day,
		Status:     attendance.StatusHoliday,
		Source:     attendance.SourceDevice,
	}, false)
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, written.Status)
	stored := f.attendance.records[attendance.DayKey{EmployeeID: "emp-1", Date: day}]
	assert.Equal(t, attendance.StatusPresent, stored.Status)
	require.NotNil(t, stored.CheckIn)
}

func TestWriteOperatorOverrideBypassesGuard(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	day := localtime.Date{Year: 2026, Month: time.March, Day: 10}

	in := localInstant(2026, time.March, 10, 8, 55)
	_, err := f.attendance.Upsert(ctx, attendance.Record{
		EmployeeID: "emp-1",
		Date:       day,
		CheckIn:    &in,
		Status:     attendance.StatusIncomplete,
		Source:     attendance.SourceDevice,
	})
	require.NoError(t, err)

	written, err := f.svc.Write(ctx, attendance.Record{
		EmployeeID: "emp-1",
		Date:       day,
		Status:     attendance.StatusAbsent,
	}, true)
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusAbsent, written.Status)
	assert.Equal(t, attendance.SourceOperator, written.Source)
}

func TestWriteUpgradesCalendarToPresence(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	day := localtime.Date{Year: 2026, Month: time.March, Day: 10}

	_, err := f.attendance.Upsert(ctx, attendance.Record{
		EmployeeID: "emp-1",
		Date:       day,
		Status:     attendance.StatusAbsent,
		Source:     attendance.SourceDevice,
	})
	require.NoError(t, err)

	in := localInstant(2026, time.March, 10, 9, 0)
	written, err := f.svc.Write(ctx, attendance.Record{
		EmployeeID: "emp-1",
		Date:       day,
		CheckIn:    &in,
		Status:     attendance.StatusIncomplete,
		Source:     attendance.SourceDevice,
	}, false)
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusIncomplete, written.Status)
}

func TestWriteKeepsOperatorRecordOverDevice(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	day := localtime.Date{Year: 2026, Month: time.March, Day: 10}

	attestedIn := localInstant(2026, time.March, 10, 9, 0)
	_, err := f.svc.Write(ctx, attendance.Record{
		EmployeeID: "emp-1",
		Date:       day,
		CheckIn:    &attestedIn,
		Status:     attendance.StatusPresent,
	}, true)
	require.NoError(t, err)

	deviceIn := localInstant(2026, time.March, 10, 9, 30)
	written, err := f.svc.Write(ctx, attendance.Record{
		EmployeeID: "emp-1",
		Date:       day,
		CheckIn:    &deviceIn,
		Status:     attendance.StatusPresent,
		Source:     attendance.SourceDevice,
	}, false)
	require.NoError(t, err)

	assert.Equal(t, attendance.SourceOperator, written.Source)
	require.NotNil(t, written.CheckIn)
	assert.True(t, written.CheckIn.Equal(attestedIn))
}

func TestReconcileDayIsIdempotent(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	day := localtime.Date{Year: 2026, Month: time.March, Day: 10}

	f.shifts.shifts["shift-1"] = &schedule.Shift{
		ID:          "shift-1",
		StartMinute: 9 * 60,
		EndMinute:   17 * 60,
	}
	f.addEmployee("emp-1", "subj-1", "shift-1")
	_, err := f.punches.UpsertBatch(ctx, []punch.Punch{
		punchAt(localInstant(2026, time.March, 10, 8, 55)),
		punchAt(localInstant(2026, time.March, 10, 17, 5)),
	})
	require.NoError(t, err)

	first, err := f.svc.ReconcileDay(ctx, "emp-1", day)
	require.NoError(t, err)
	second, err := f.svc.ReconcileDay(ctx, "emp-1", day)
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, first.Status)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.WorkMinutes, second.WorkMinutes)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.attendance.records, 1)
}

func TestReconcileDayPreservesOperatorRecord(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	day := localtime.Date{Year: 2026, Month: time.March, Day: 10}

	f.addEmployee("emp-1", "subj-1", "")
	_, err := f.punches.UpsertBatch(ctx, []punch.Punch{
		punchAt(localInstant(2026, time.March, 10, 9, 30)),
		punchAt(localInstant(2026, time.March, 10, 17, 0)),
	})
	require.NoError(t, err)

	// An approved adjustment attested an earlier check-in than the device
	// recorded.
	attestedIn := localInstant(2026, time.March, 10, 9, 0)
	attestedOut := localInstant(2026, time.March, 10, 17, 0)
	_, err = f.svc.Write(ctx, attendance.Record{
		EmployeeID:  "emp-1",
		Date:        day,
		CheckIn:     &attestedIn,
		CheckOut:    &attestedOut,
		WorkMinutes: 480,
		Status:      attendance.StatusPresent,
	}, true)
	require.NoError(t, err)

	// A later re-reconcile of the same day (new punch, sweep, manual
	// recompute) must not revert the attested times to the raw session.
	record, err := f.svc.ReconcileDay(ctx, "emp-1", day)
	require.NoError(t, err)

	assert.Equal(t, attendance.SourceOperator, record.Source)
	require.NotNil(t, record.CheckIn)
	assert.True(t, record.CheckIn.Equal(attestedIn))
	assert.Equal(t, 480, record.WorkMinutes)

	stored := f.attendance.records[attendance.DayKey{EmployeeID: "emp-1", Date: day}]
	assert.Equal(t, attendance.SourceOperator, stored.Source)
	assert.True(t, stored.CheckIn.Equal(attestedIn))
}

func TestReconcileDayOrphanedShiftDegrades(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	day := localtime.Date{Year: 2026, Month: time.March, Day: 10}

	// Shift reference points at nothing; resolution proceeds without
	// lateness or weekend data instead of failing.
	f.addEmployee("emp-1", "subj-1", "shift-gone")
	_, err := f.punches.UpsertBatch(ctx, []punch.Punch{
		punchAt(localInstant(2026, time.March, 10, 9, 30)),
		punchAt(localInstant(2026, time.March, 10, 17, 0)),
	})
	require.NoError(t, err)

	record, err := f.svc.ReconcileDay(ctx, "emp-1", day)
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusPresent, record.Status)
	assert.Equal(t, 450, record.WorkMinutes)
	assert.Equal(t, 0, record.LateMinutes)
}

func TestReconcileRangeRejectsInvertedRange(t *testing.T) {
	f := newServiceFixture(t)
	f.addEmployee("emp-1", "subj-1", "")

	from := localtime.Date{Year: 2026, Month: time.March, Day: 10}
	err := f.svc.ReconcileRange(context.Background(), "emp-1", from, from.AddDays(-1))
	assert.ErrorIs(t, err, attendance.ErrInvalidRange)
}

func TestRangeResolvesGapsLazily(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	f.addEmployee("emp-1", "subj-1", "")
	day := localtime.Date{Year: 2026, Month: time.March, Day: 10}

	in := localInstant(2026, time.March, 10, 9, 0)
	out := localInstant(2026, time.March, 10, 17, 0)
	_, err := f.attendance.Upsert(ctx, attendance.Record{
		EmployeeID:  "emp-1",
		Date:        day,
		CheckIn:     &in,
		CheckOut:    &out,
		WorkMinutes: 480,
		Status:      attendance.StatusPresent,
		Source:      attendance.SourceDevice,
	})
	require.NoError(t, err)

	result, err := f.svc.Range(ctx, attendance.RangeQuery{
		EmployeeID: "emp-1",
		From:       "2026-03-10",
		To:         "2026-03-12",
	})
	require.NoError(t, err)

	require.Len(t, result.Records, 3)
	assert.Equal(t, attendance.StatusPresent, result.Records[0].Status)
	assert.Equal(t, attendance.StatusAbsent, result.Records[1].Status)
	assert.Equal(t, attendance.StatusAbsent, result.Records[2].Status)

	assert.Equal(t, 1, result.Totals.PresentDays)
	assert.Equal(t, 2, result.Totals.AbsentDays)
	assert.Equal(t, 480, result.Totals.TotalWorkMinutes)

	// Lazily resolved gaps are a view concern, not writes.
	assert.Len(t, f.attendance.records, 1)
}

func TestRangeRejectsInvertedRange(t *testing.T) {
	f := newServiceFixture(t)
	f.addEmployee("emp-1", "subj-1", "")

	_, err := f.svc.Range(context.Background(), attendance.RangeQuery{
		EmployeeID: "emp-1",
		From:       "2026-03-12",
		To:         "2026-03-10",
	})
	assert.ErrorIs(t, err, attendance.ErrInvalidRange)
}

func TestRangeHolidayAndLeaveStatuses(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	f.addEmployee("emp-1", "subj-1", "")
	f.holidays.holidays = []holiday.Holiday{{
		Name:         "Founding Day",
		StartDate:    localtime.Date{Year: 2026, Month: time.March, Day: 11},
		EndDate:      localtime.Date{Year: 2026, Month: time.March, Day: 11},
		AppliesToAll: true,
	}}
	f.leaves.requests = []leave.Request{{
		EmployeeID: "emp-1",
		Type:       leave.TypeAnnual,
		StartDate:  localtime.Date{Year: 2026, Month: time.March, Day: 12},
		EndDate:    localtime.Date{Year: 2026, Month: time.March, Day: 12},
		Status:     leave.StatusApproved,
	}}

	result, err := f.svc.Range(ctx, attendance.RangeQuery{
		EmployeeID: "emp-1",
		From:       "2026-03-11",
		To:         "2026-03-12",
	})
	require.NoError(t, err)

	require.Len(t, result.Records, 2)
	assert.Equal(t, attendance.StatusHoliday, result.Records[0].Status)
	assert.Equal(t, attendance.StatusLeave, result.Records[1].Status)
	assert.Equal(t, 1, result.Totals.HolidayDays)
	assert.Equal(t, 1, result.Totals.LeaveDays)
}

func TestResolveDayScopedHolidayHonorsCompany(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	day := localtime.Date{Year: 2026, Month: time.March, Day: 11}

	f.employees.employees = append(f.employees.employees, employee.Employee{
		ID: "emp-1", CompanyID: "co-1", FullName: "Worker",
		Role: employee.RoleEmployee, IsActive: true,
	})
	f.holidays.holidays = []holiday.Holiday{{
		CompanyID: "co-2",
		Name:      "Branch Anniversary",
		StartDate: day,
		EndDate:   day,
	}}

	// Another company's scoped holiday does not apply here.
	record, err := f.svc.ReconcileDay(ctx, "emp-1", day)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, record.Status)

	f.holidays.holidays[0].CompanyID = "co-1"
	record, err = f.svc.ReconcileDay(ctx, "emp-1", day)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusHoliday, record.Status)
}
