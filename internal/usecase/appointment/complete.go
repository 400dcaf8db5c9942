package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type CompleteAppointment struct {
	appointments domain.Store
	audit        *audit.Dispatcher
	now          func() time.Time
}

func NewCompleteAppointment(
	appointments domain.Store,
	audit *audit.Dispatcher,
	now func() time.Time,
) *CompleteAppointment {
	return &CompleteAppointment{
		appointments: appointments,
		audit:        audit,
		now:          now,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	tenantID string,
	actor string,
	appointmentID string,
) (*models.Appointment, error) {

	ap, err := getInTenant(ctx, uc.appointments, tenantID, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Complete(ap, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.appointments.Update(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		Actor:    actor,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: ap.ID,
	})

	return ap, nil
}

// getInTenant hides appointments of other tenants behind not found.
func getInTenant(ctx context.Context, store domain.Store, tenantID, id string) (*models.Appointment, error) {
	ap, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ap.TenantID != tenantID {
		return nil, httperr.ErrNotFound("appointment_not_found")
	}
	return ap, nil
}
