package recurrence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/recurrence"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/testfixtures"
)

// 2026-10-15 is a Thursday; 2026-10-19 the following Monday.
var thursdayNoon = time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db    *gorm.DB
	salon testfixtures.Salon
	clock *testfixtures.Clock

	appointments appointment.Store
	rules        *repository.RecurringBookingGormRepository
	services     *repository.ServiceGormRepository
	engine       *Engine

	create *CreateRecurringBooking
	update *UpdateRecurringBooking
	delete *DeleteRecurringBooking
}

func newFixture(t *testing.T, now time.Time) *fixture {
	return newFixtureWithStore(t, now, nil)
}

// newFixtureWithStore lets a test wrap the appointment store.
func newFixtureWithStore(t *testing.T, now time.Time, wrap func(appointment.Store) appointment.Store) *fixture {
	t.Helper()

	db := testfixtures.NewDB(t)
	f := &fixture{
		db:       db,
		salon:    testfixtures.SeedSalon(t, db, "schnittwerk"),
		clock:    testfixtures.NewClock(now),
		rules:    repository.NewRecurringBookingGormRepository(db),
		services: repository.NewServiceGormRepository(db),
	}

	f.appointments = repository.NewAppointmentGormRepository(db)
	if wrap != nil {
		f.appointments = wrap(f.appointments)
	}

	f.engine = NewEngine(
		f.appointments,
		f.services,
		repository.NewGormTransactor(db),
		lock.NewMemoryLocker(),
		WithClock(f.clock.Now),
		WithLocation(time.UTC),
	)

	f.create = NewCreateRecurringBooking(f.rules, f.services, f.engine, nil, nil)
	f.update = NewUpdateRecurringBooking(f.rules, f.engine, nil, nil)
	f.delete = NewDeleteRecurringBooking(f.rules, f.engine, nil, nil)
	return f
}

func (f *fixture) draft(start, end string) domain.Draft {
	return domain.Draft{
		ServiceID:     f.salon.Service.ID,
		StaffID:       f.salon.Staff.ID,
		CustomerEmail: "lena@example.ch",
		Frequency:     "weekly",
		TimeSlot:      "10:00",
		StartDate:     start,
		EndDate:       end,
	}
}

func (f *fixture) mustCreate(t *testing.T, d domain.Draft) *CreateRecurringBookingOutput {
	t.Helper()
	out, err := f.create.Execute(context.Background(), CreateRecurringBookingInput{
		TenantID: f.salon.Tenant.ID,
		Actor:    "owner@schnittwerk.ch",
		Draft:    d,
	})
	require.NoError(t, err)
	return out
}

func (f *fixture) appointmentsOf(t *testing.T, ruleID string) []models.Appointment {
	t.Helper()
	var apps []models.Appointment
	require.NoError(t, f.db.
		Where("recurring_booking_id = ?", ruleID).
		Order("start_at ASC").
		Find(&apps).Error)
	return apps
}

func (f *fixture) countByStatus(t *testing.T, ruleID string, status appointment.Status) int {
	t.Helper()
	n := 0
	for _, ap := range f.appointmentsOf(t, ruleID) {
		if ap.Status == string(status) {
			n++
		}
	}
	return n
}

func (f *fixture) book(t *testing.T, staffID string, start time.Time, minutes int, status appointment.Status) models.Appointment {
	t.Helper()
	ap := models.Appointment{
		TenantID:      f.salon.Tenant.ID,
		ServiceID:     f.salon.Service.ID,
		StaffID:       staffID,
		CustomerEmail: "walkin@example.ch",
		StartAt:       start.UTC(),
		EndAt:         start.Add(time.Duration(minutes) * time.Minute).UTC(),
		Status:        string(status),
		CreatedBy:     "owner@schnittwerk.ch",
	}
	require.NoError(t, f.db.Create(&ap).Error)
	return ap
}

func utc(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}
