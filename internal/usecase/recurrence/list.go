package recurrence

import (
	"context"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/recurrence"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// RecurringBookingView is a rule with its confirmed appointments.
type RecurringBookingView struct {
	models.RecurringBooking
	Appointments []models.Appointment `json:"appointments"`
}

type ListRecurringBookings struct {
	rules        domain.RuleStore
	appointments appointment.Store
}

func NewListRecurringBookings(
	rules domain.RuleStore,
	appointments appointment.Store,
) *ListRecurringBookings {
	return &ListRecurringBookings{rules: rules, appointments: appointments}
}

func (uc *ListRecurringBookings) Execute(
	ctx context.Context,
	tenantID string,
) ([]RecurringBookingView, error) {

	rules, err := uc.rules.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rules))
	for _, r := range rules {
		ids = append(ids, r.ID)
	}

	apps, err := uc.appointments.ListConfirmedByProvenance(ctx, ids)
	if err != nil {
		return nil, err
	}

	byRule := make(map[string][]models.Appointment, len(rules))
	for _, ap := range apps {
		if ap.RecurringBookingID != nil {
			byRule[*ap.RecurringBookingID] = append(byRule[*ap.RecurringBookingID], ap)
		}
	}

	out := make([]RecurringBookingView, 0, len(rules))
	for _, r := range rules {
		view := RecurringBookingView{RecurringBooking: r, Appointments: byRule[r.ID]}
		if view.Appointments == nil {
			view.Appointments = []models.Appointment{}
		}
		out = append(out, view)
	}

	return out, nil
}
