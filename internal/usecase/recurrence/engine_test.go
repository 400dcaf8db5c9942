package recurrence

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/recurrence"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

func TestMaterialize_WeeklyOpenEndedFillsOneYear(t *testing.T) {
	f := newFixture(t, thursdayNoon)

	out := f.mustCreate(t, f.draft("2026-10-19", ""))
	assert.Equal(t, 52, out.Report.Count(domain.Created))
	assert.Zero(t, out.Report.Count(domain.SkippedConflict))

	apps := f.appointmentsOf(t, out.Rule.ID)
	require.Len(t, apps, 52)

	assert.True(t, apps[0].StartAt.Equal(utc(2026, time.October, 19, 10, 0)))
	for i, ap := range apps {
		assert.Equal(t, string(appointment.StatusConfirmed), ap.Status)
		assert.Equal(t, appointment.CreatedBySystem, ap.CreatedBy)
		assert.Equal(t, time.Hour, ap.EndAt.Sub(ap.StartAt))
		assert.Equal(t, time.Monday, ap.StartAt.Weekday())
		if i > 0 {
			assert.Equal(t, 7*24*time.Hour, ap.StartAt.Sub(apps[i-1].StartAt))
		}
	}
}

func TestMaterialize_RerunCreatesNothing(t *testing.T) {
	f := newFixture(t, thursdayNoon)
	out := f.mustCreate(t, f.draft("2026-10-19", "2026-12-28"))

	before := f.appointmentsOf(t, out.Rule.ID)
	require.Len(t, before, 11)

	report, err := f.engine.Materialize(context.Background(), out.Rule)
	require.NoError(t, err)
	assert.Zero(t, report.Count(domain.Created))
	assert.Equal(t, 11, report.Count(domain.SkippedConflict))

	after := f.appointmentsOf(t, out.Rule.ID)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
	}
}

func TestMaterialize_SkipsConflictingOccurrence(t *testing.T) {
	f := newFixture(t, thursdayNoon)

	f.book(t, f.salon.Staff.ID, utc(2026, time.October, 26, 10, 15), 30, appointment.StatusConfirmed)
	// neither cancelled bookings nor other staff block a slot
	f.book(t, f.salon.Staff.ID, utc(2026, time.November, 2, 10, 0), 60, appointment.StatusCancelled)
	f.book(t, "other-staff", utc(2026, time.November, 9, 10, 0), 60, appointment.StatusConfirmed)

	out := f.mustCreate(t, f.draft("2026-10-19", "2026-11-16"))
	assert.Equal(t, 4, out.Report.Count(domain.Created))
	assert.Equal(t, 1, out.Report.Count(domain.SkippedConflict))

	for _, ap := range f.appointmentsOf(t, out.Rule.ID) {
		assert.NotEqual(t, 26, ap.StartAt.Day(), "Oct 26 overlaps the existing booking")
	}
}

func TestMaterialize_AdjacentBookingIsNotAConflict(t *testing.T) {
	f := newFixture(t, thursdayNoon)

	f.book(t, f.salon.Staff.ID, utc(2026, time.October, 19, 9, 0), 60, appointment.StatusConfirmed)
	f.book(t, f.salon.Staff.ID, utc(2026, time.October, 19, 11, 0), 30, appointment.StatusConfirmed)

	out := f.mustCreate(t, f.draft("2026-10-19", "2026-10-19"))
	assert.Equal(t, 1, out.Report.Count(domain.Created))
}

func TestMaterialize_NeverBooksThePast(t *testing.T) {
	f := newFixture(t, thursdayNoon)

	out := f.mustCreate(t, f.draft("2026-10-05", "2026-11-30"))
	assert.Equal(t, 2, out.Report.Count(domain.SkippedPast))
	assert.Equal(t, 7, out.Report.Count(domain.Created))

	for _, ap := range f.appointmentsOf(t, out.Rule.ID) {
		assert.False(t, ap.StartAt.Before(thursdayNoon))
	}
}

func TestMaterialize_MonthlyClampsToMonthEnd(t *testing.T) {
	f := newFixture(t, utc(2027, time.January, 1, 0, 0))

	d := f.draft("2027-01-31", "2027-05-31")
	d.Frequency = "monthly"
	out := f.mustCreate(t, d)

	var got []string
	for _, ap := range f.appointmentsOf(t, out.Rule.ID) {
		got = append(got, ap.StartAt.Format("2006-01-02 15:04"))
	}
	assert.Equal(t, []string{
		"2027-01-31 10:00",
		"2027-02-28 10:00",
		"2027-03-31 10:00",
		"2027-04-30 10:00",
		"2027-05-31 10:00",
	}, got)
}

func TestMaterialize_StoreFailureRollsBackRuleAndOccurrences(t *testing.T) {
	var calls int32
	f := newFixtureWithStore(t, thursdayNoon, func(s appointment.Store) appointment.Store {
		return &failingStore{Store: s, failOnCreate: 3, calls: &calls}
	})

	_, err := f.create.Execute(context.Background(), CreateRecurringBookingInput{
		TenantID: f.salon.Tenant.ID,
		Draft:    f.draft("2026-10-19", "2026-12-28"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errDiskFull)

	var rules, apps int64
	require.NoError(t, f.db.Model(&models.RecurringBooking{}).Count(&rules).Error)
	require.NoError(t, f.db.Model(&models.Appointment{}).Count(&apps).Error)
	assert.Zero(t, rules)
	assert.Zero(t, apps)
}

func TestMaterialize_SlotTakenByStoreIsSkipped(t *testing.T) {
	f := newFixtureWithStore(t, thursdayNoon, func(s appointment.Store) appointment.Store {
		return &slotTakenStore{Store: s, day: 26}
	})

	out := f.mustCreate(t, f.draft("2026-10-19", "2026-11-02"))
	assert.Equal(t, 2, out.Report.Count(domain.Created))
	assert.Equal(t, 1, out.Report.Count(domain.SkippedConflict))
}

// concurrentCreates starts identical rules from several workers at once.
// No database transaction is opened and every conflict check is held at a
// gate until all workers have checked, so only the staff lock keeps the
// check-then-insert sequences apart.
func concurrentCreates(t *testing.T, locker appointment.StaffLocker) []models.Appointment {
	t.Helper()

	const workers = 4
	gate := &checkGate{parties: workers, hold: time.Second, open: make(chan struct{})}
	f := newFixtureWithStore(t, thursdayNoon, func(s appointment.Store) appointment.Store {
		gate.Store = s
		return gate
	})
	f.engine = NewEngine(
		f.appointments,
		f.services,
		directTx{},
		locker,
		WithClock(f.clock.Now),
		WithLocation(time.UTC),
	)
	f.create = NewCreateRecurringBooking(f.rules, f.services, f.engine, nil, nil)

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.create.Execute(context.Background(), CreateRecurringBookingInput{
				TenantID: f.salon.Tenant.ID,
				Draft:    f.draft("2026-10-19", "2026-11-30"),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var apps []models.Appointment
	require.NoError(t, f.db.
		Where("staff_id = ? AND status = ?", f.salon.Staff.ID, string(appointment.StatusConfirmed)).
		Find(&apps).Error)
	return apps
}

func bookingsPerStart(apps []models.Appointment) map[time.Time]int {
	seen := map[time.Time]int{}
	for _, ap := range apps {
		seen[ap.StartAt.UTC()]++
	}
	return seen
}

func TestMaterialize_StaffLockPreventsDoubleBooking(t *testing.T) {
	apps := concurrentCreates(t, lock.NewMemoryLocker())

	assert.Len(t, apps, 7)
	for start, n := range bookingsPerStart(apps) {
		assert.Equal(t, 1, n, "double booking at %s", start)
	}
}

func TestMaterialize_UnlockedChecksDoubleBook(t *testing.T) {
	apps := concurrentCreates(t, noLock{})

	doubled := false
	for _, n := range bookingsPerStart(apps) {
		if n > 1 {
			doubled = true
		}
	}
	assert.True(t, doubled, "without the staff lock the gated checks must interleave")
	assert.Greater(t, len(apps), 7)
}

func TestCancelFutureByProvenance_PartialFailure(t *testing.T) {
	var failID atomic.Value
	f := newFixtureWithStore(t, thursdayNoon, func(s appointment.Store) appointment.Store {
		return &failingUpdateStore{Store: s, failID: &failID}
	})

	out := f.mustCreate(t, f.draft("2026-10-19", "2026-11-09"))
	apps := f.appointmentsOf(t, out.Rule.ID)
	require.Len(t, apps, 4)
	failID.Store(apps[1].ID)

	n, err := f.engine.CancelFutureByProvenance(context.Background(), out.Rule.ID, "owner@schnittwerk.ch")
	require.Error(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, f.countByStatus(t, out.Rule.ID, appointment.StatusConfirmed))

	// the retry only has the failed row left
	failID.Store("")
	n, err = f.engine.CancelFutureByProvenance(context.Background(), out.Rule.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 4, f.countByStatus(t, out.Rule.ID, appointment.StatusCancelled))
}

// ======================================================
// STORE DOUBLES
// ======================================================

var errDiskFull = errors.New("disk full")

type failingStore struct {
	appointment.Store
	failOnCreate int32
	calls        *int32
}

func (s *failingStore) Create(ctx context.Context, ap *models.Appointment) error {
	if atomic.AddInt32(s.calls, 1) == s.failOnCreate {
		return errDiskFull
	}
	return s.Store.Create(ctx, ap)
}

// slotTakenStore answers like the exclusion constraint would for one day.
type slotTakenStore struct {
	appointment.Store
	day int
}

func (s *slotTakenStore) Create(ctx context.Context, ap *models.Appointment) error {
	if ap.StartAt.Day() == s.day {
		return appointment.ErrSlotTaken
	}
	return s.Store.Create(ctx, ap)
}

type failingUpdateStore struct {
	appointment.Store
	failID *atomic.Value
}

func (s *failingUpdateStore) Update(ctx context.Context, ap *models.Appointment) error {
	if id, _ := s.failID.Load().(string); id != "" && id == ap.ID {
		return errDiskFull
	}
	return s.Store.Update(ctx, ap)
}

// checkGate holds each conflict check until parties checks have run or
// hold has passed. After that it lets every check through.
type checkGate struct {
	appointment.Store
	parties int
	hold    time.Duration
	open    chan struct{}

	mu      sync.Mutex
	arrived int
	once    sync.Once
}

func (g *checkGate) FindOverlapping(
	ctx context.Context,
	tenantID string,
	staffID string,
	window appointment.Interval,
) ([]models.Appointment, error) {
	rows, err := g.Store.FindOverlapping(ctx, tenantID, staffID, window)

	g.mu.Lock()
	g.arrived++
	all := g.arrived >= g.parties
	g.mu.Unlock()
	if all {
		g.release()
	}

	select {
	case <-g.open:
	case <-time.After(g.hold):
		g.release()
	}
	return rows, err
}

func (g *checkGate) release() {
	g.once.Do(func() { close(g.open) })
}

// ======================================================
// LOCK / TX DOUBLES
// ======================================================

// directTx runs fn without a database transaction.
type directTx struct{}

func (directTx) Within(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noLock struct{}

func (noLock) Lock(context.Context, string, string) (func(), error) {
	return func() {}, nil
}
