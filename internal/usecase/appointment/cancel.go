package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type CancelAppointment struct {
	appointments domain.Store
	audit        *audit.Dispatcher
	now          func() time.Time
}

func NewCancelAppointment(
	appointments domain.Store,
	audit *audit.Dispatcher,
	now func() time.Time,
) *CancelAppointment {
	return &CancelAppointment{
		appointments: appointments,
		audit:        audit,
		now:          now,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	tenantID string,
	actor string,
	appointmentID string,
) (*models.Appointment, error) {

	ap, err := getInTenant(ctx, uc.appointments, tenantID, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Cancel(ap, actor, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.appointments.Update(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		Actor:    actor,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: ap.ID,
	})

	return ap, nil
}
