package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/recurrence"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// ListAppointments reads a tenant's calendar by day or by month, in the
// salon's timezone.
type ListAppointments struct {
	appointments domain.Store
	services     recurrence.ServiceLookup
	loc          *time.Location
}

func NewListAppointments(
	appointments domain.Store,
	services recurrence.ServiceLookup,
	loc *time.Location,
) *ListAppointments {
	return &ListAppointments{
		appointments: appointments,
		services:     services,
		loc:          loc,
	}
}

func (uc *ListAppointments) ByDate(
	ctx context.Context,
	tenantID string,
	staffID string,
	date string,
) ([]dto.AppointmentListDTO, error) {

	d, err := timezone.ParseDate(date)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}

	start := d.Midnight(uc.loc)
	return uc.list(ctx, tenantID, staffID, start, start.AddDate(0, 0, 1))
}

func (uc *ListAppointments) ByMonth(
	ctx context.Context,
	tenantID string,
	staffID string,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if year < 2000 || year > 2100 {
		return nil, httperr.ErrValidation("invalid_year")
	}
	if month < 1 || month > 12 {
		return nil, httperr.ErrValidation("invalid_month")
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, uc.loc)
	return uc.list(ctx, tenantID, staffID, start, start.AddDate(0, 1, 0))
}

func (uc *ListAppointments) list(
	ctx context.Context,
	tenantID string,
	staffID string,
	from time.Time,
	to time.Time,
) ([]dto.AppointmentListDTO, error) {

	appointments, err := uc.appointments.ListForPeriod(ctx, tenantID, staffID, from, to)
	if err != nil {
		return nil, err
	}

	names := map[string]string{}
	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		name, ok := names[ap.ServiceID]
		if !ok {
			// services removed since booking keep an empty name
			if svc, err := uc.services.GetService(ctx, tenantID, ap.ServiceID); err == nil {
				name = svc.Name
			} else if !httperr.IsNotFound(err) {
				return nil, err
			}
			names[ap.ServiceID] = name
		}

		out = append(out, dto.AppointmentListDTO{
			ID:                 ap.ID,
			StaffID:            ap.StaffID,
			StartAt:            ap.StartAt,
			EndAt:              ap.EndAt,
			Status:             ap.Status,
			CustomerEmail:      ap.CustomerEmail,
			ServiceName:        name,
			RecurringBookingID: ap.RecurringBookingID,
			GroupBookingID:     ap.GroupBookingID,
		})
	}

	return out, nil
}
