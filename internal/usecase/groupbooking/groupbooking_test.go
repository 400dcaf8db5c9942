package groupbooking_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/testfixtures"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/groupbooking"
)

func setup(t *testing.T) (*groupbooking.Service, *gorm.DB, testfixtures.Salon) {
	t.Helper()
	db := testfixtures.NewDB(t)
	salon := testfixtures.SeedSalon(t, db, "schnittwerk")
	clock := testfixtures.NewClock(time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC))

	svc := groupbooking.NewService(
		repository.NewGroupBookingGormRepository(db),
		repository.NewAppointmentGormRepository(db),
		repository.NewServiceGormRepository(db),
		repository.NewGormTransactor(db),
		lock.NewMemoryLocker(),
		nil,
		clock.Now,
		nil,
	)
	return svc, db, salon
}

func member(salon testfixtures.Salon, email, start string) groupbooking.Member {
	return groupbooking.Member{
		ServiceID:     salon.Service.ID,
		StaffID:       salon.Staff.ID,
		CustomerEmail: email,
		StartAt:       start,
	}
}

func TestCreate_SkipsInvalidConflictingAndOverflowMembers(t *testing.T) {
	svc, _, salon := setup(t)

	out, err := svc.Create(context.Background(), groupbooking.CreateInput{
		TenantID: salon.Tenant.ID,
		Actor:    "owner@schnittwerk.ch",
		Name:     "Brautfrisuren",
		MaxSize:  2,
		Members: []groupbooking.Member{
			member(salon, "braut@example.ch", "2026-10-24T09:00:00Z"),
			member(salon, "", "2026-10-24T11:00:00Z"),
			member(salon, "mutter@example.ch", "2026-10-24T09:30:00Z"),
			member(salon, "schwester@example.ch", "24.10.2026"),
			{ServiceID: "other", StaffID: salon.Staff.ID, CustomerEmail: "a@example.ch", StartAt: "2026-10-24T13:00:00Z"},
			member(salon, "trauzeugin@example.ch", "2026-10-24T10:00:00Z"),
			member(salon, "tante@example.ch", "2026-10-24T12:00:00Z"),
		},
	})
	require.NoError(t, err)

	require.Len(t, out.Group.Bookings, 2)
	assert.Equal(t, "braut@example.ch", out.Group.Bookings[0].CustomerEmail)
	assert.Equal(t, "trauzeugin@example.ch", out.Group.Bookings[1].CustomerEmail)

	reasons := map[int]string{}
	for _, s := range out.Skipped {
		reasons[s.Index] = s.Reason
	}
	assert.Equal(t, map[int]string{
		1: groupbooking.SkipMissingFields,
		2: groupbooking.SkipConflict,
		3: groupbooking.SkipInvalidStart,
		4: groupbooking.SkipUnknownSvc,
		6: groupbooking.SkipGroupFull,
	}, reasons)
}

func TestCreate_RequiresNameAndSize(t *testing.T) {
	svc, _, salon := setup(t)

	_, err := svc.Create(context.Background(), groupbooking.CreateInput{TenantID: salon.Tenant.ID, Name: "x"})
	assert.True(t, httperr.IsValidation(err))
}

func TestDelete_CancelsMembers(t *testing.T) {
	svc, db, salon := setup(t)
	ctx := context.Background()

	out, err := svc.Create(ctx, groupbooking.CreateInput{
		TenantID: salon.Tenant.ID,
		Name:     "Kurs",
		MaxSize:  5,
		Members: []groupbooking.Member{
			member(salon, "a@example.ch", "2026-10-24T09:00:00Z"),
			member(salon, "b@example.ch", "2026-10-24T10:00:00Z"),
		},
	})
	require.NoError(t, err)

	groups, err := svc.List(ctx, salon.Tenant.ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Bookings, 2)

	n, err := svc.Delete(ctx, salon.Tenant.ID, out.Group.ID, "owner@schnittwerk.ch")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var apps []models.Appointment
	require.NoError(t, db.Where("group_booking_id = ?", out.Group.ID).Find(&apps).Error)
	require.Len(t, apps, 2)
	for _, ap := range apps {
		assert.Equal(t, string(appointment.StatusCancelled), ap.Status)
		assert.Equal(t, "owner@schnittwerk.ch", ap.CancelledBy)
	}

	_, err = svc.Delete(ctx, salon.Tenant.ID, out.Group.ID, "")
	assert.True(t, httperr.IsNotFound(err))
}
