package recurrence

import (
	"context"
	"fmt"

	ics "github.com/arran4/golang-ical"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/recurrence"
)

const calendarProductID = "-//salon-scheduler//recurring bookings//DE"

// ExportCalendar renders every appointment a rule produced as an
// iCalendar feed. Cancelled ones are kept with STATUS:CANCELLED so
// subscribed clients drop them.
type ExportCalendar struct {
	rules        domain.RuleStore
	appointments appointment.Store
}

func NewExportCalendar(rules domain.RuleStore, appointments appointment.Store) *ExportCalendar {
	return &ExportCalendar{rules: rules, appointments: appointments}
}

func (uc *ExportCalendar) Execute(
	ctx context.Context,
	tenantID string,
	id string,
) (string, error) {

	rule, err := uc.rules.Get(ctx, tenantID, id)
	if err != nil {
		return "", err
	}

	apps, err := uc.appointments.ListByProvenance(ctx, rule.ID)
	if err != nil {
		return "", err
	}

	title := "Termin"
	if rule.Service != nil && rule.Service.Name != "" {
		title = rule.Service.Name
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName(fmt.Sprintf("%s (%s)", title, rule.CustomerEmail))

	for _, ap := range apps {
		ev := cal.AddEvent(ap.ID)
		ev.SetDtStampTime(ap.UpdatedAt)
		ev.SetCreatedTime(ap.CreatedAt)
		ev.SetStartAt(ap.StartAt)
		ev.SetEndAt(ap.EndAt)
		ev.SetSummary(title)
		ev.SetDescription(fmt.Sprintf("Kunde: %s", ap.CustomerEmail))

		switch appointment.Status(ap.Status) {
		case appointment.StatusCancelled:
			ev.SetStatus(ics.ObjectStatusCancelled)
		default:
			ev.SetStatus(ics.ObjectStatusConfirmed)
		}
	}

	return cal.Serialize(), nil
}
