package appointment

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/recurrence"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
	"github.com/BruksfildServices01/salon-scheduler/internal/mail"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	TenantID string
	Actor    string

	ServiceID     string
	StaffID       string
	CustomerEmail string

	Date string // YYYY-MM-DD
	Time string // HH:MM
}

// ======================================================
// USE CASE
// ======================================================

// CreateAppointment books a single appointment under the same staff lock
// and overlap predicate as recurring materialization.
type CreateAppointment struct {
	appointments domain.Store
	services     recurrence.ServiceLookup
	tx           domain.Transactor
	locker       domain.StaffLocker
	mailer       mail.Mailer
	audit        *audit.Dispatcher
	now          func() time.Time
	loc          *time.Location
	logger       *slog.Logger
}

func NewCreateAppointment(
	appointments domain.Store,
	services recurrence.ServiceLookup,
	tx domain.Transactor,
	locker domain.StaffLocker,
	mailer mail.Mailer,
	audit *audit.Dispatcher,
	now func() time.Time,
	loc *time.Location,
	logger *slog.Logger,
) *CreateAppointment {
	return &CreateAppointment{
		appointments: appointments,
		services:     services,
		tx:           tx,
		locker:       locker,
		mailer:       mailer,
		audit:        audit,
		now:          now,
		loc:          loc,
		logger:       logging.Default(logger),
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	logger := logging.Service(uc.logger, "Appointments", "Create", "tenant_id", in.TenantID)

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	email := strings.ToLower(strings.TrimSpace(in.CustomerEmail))
	if in.ServiceID == "" || in.StaffID == "" || email == "" || in.Date == "" || in.Time == "" {
		return nil, httperr.ErrValidation("missing_required_fields")
	}
	if !validators.IsEmail(email) {
		return nil, httperr.ErrValidation("invalid_customer_email")
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.Time, uc.loc)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date_or_time")
	}
	if start.Before(uc.now()) {
		return nil, httperr.ErrBusiness("in_the_past")
	}

	// --------------------------------------------------
	// 2. Service
	// --------------------------------------------------
	svc, err := uc.services.GetService(ctx, in.TenantID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	window := domain.IntervalOf(start, svc.DurationMin)

	// --------------------------------------------------
	// 3. Conflict check + insert under the staff lock
	// --------------------------------------------------
	unlock, err := uc.locker.Lock(ctx, in.TenantID, in.StaffID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ap := &models.Appointment{
		TenantID:      in.TenantID,
		ServiceID:     svc.ID,
		StaffID:       in.StaffID,
		CustomerEmail: email,
		StartAt:       window.Start,
		EndAt:         window.End,
		Status:        string(domain.InitialStatus()),
		CreatedBy:     in.Actor,
	}

	err = uc.tx.Within(ctx, func(ctx context.Context) error {
		existing, err := uc.appointments.FindOverlapping(ctx, in.TenantID, in.StaffID, window)
		if err != nil {
			return err
		}
		if domain.AnyOverlap(intervalsOf(existing), window) {
			return httperr.ErrConflict("time_conflict")
		}
		if err := uc.appointments.Create(ctx, ap); err != nil {
			if errors.Is(err, domain.ErrSlotTaken) {
				return httperr.ErrConflict("time_conflict")
			}
			return err
		}
		return nil
	})
	if err != nil {
		if httperr.IsBusiness(err, "time_conflict") {
			uc.audit.Dispatch(audit.Event{
				TenantID: in.TenantID,
				Actor:    in.Actor,
				Action:   "appointment_conflict",
				Entity:   "appointment",
				Metadata: map[string]any{"staff_id": in.StaffID, "start": window.Start, "end": window.End},
			})
		}
		return nil, err
	}

	// --------------------------------------------------
	// 4. Audit + confirmation
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		Actor:    in.Actor,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: ap.ID,
	})

	local := start.In(uc.loc)
	msg, err := mail.BookingConfirmation(email, mail.AppointmentDetails{
		CustomerName: email,
		ServiceName:  svc.Name,
		Date:         local.Format("02.01.2006"),
		Time:         local.Format("15:04"),
	})
	if err == nil {
		err = uc.mailer.Send(ctx, msg)
	}
	if err != nil {
		logger.WarnContext(ctx, "confirmation mail failed", "appointment_id", ap.ID, "error", err)
	}

	return ap, nil
}

func intervalsOf(apps []models.Appointment) []domain.Interval {
	out := make([]domain.Interval, 0, len(apps))
	for _, ap := range apps {
		out = append(out, domain.Interval{Start: ap.StartAt, End: ap.EndAt})
	}
	return out
}
