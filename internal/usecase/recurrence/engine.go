package recurrence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/recurrence"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// ======================================================
// ENGINE
// ======================================================

// Engine turns recurring bookings into appointments and cancels what they
// produced when they are paused or removed.
type Engine struct {
	appointments appointment.Store
	services     domain.ServiceLookup
	tx           appointment.Transactor
	locker       appointment.StaffLocker

	now     func() time.Time
	loc     *time.Location
	horizon time.Duration
	logger  *slog.Logger
}

type EngineOption func(*Engine)

func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func WithLocation(loc *time.Location) EngineOption {
	return func(e *Engine) { e.loc = loc }
}

// WithHorizon sets how far ahead open-ended rules are materialized.
func WithHorizon(d time.Duration) EngineOption {
	return func(e *Engine) { e.horizon = d }
}

func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

func NewEngine(
	appointments appointment.Store,
	services domain.ServiceLookup,
	tx appointment.Transactor,
	locker appointment.StaffLocker,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		appointments: appointments,
		services:     services,
		tx:           tx,
		locker:       locker,
		now:          time.Now,
		loc:          timezone.Location(timezone.DefaultTimezone),
		horizon:      domain.DefaultHorizon,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.Default(e.logger)
	return e
}

// Now is the engine's clock.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Guard runs fn while holding the staff calendar lock, inside one
// transaction. A failing fn leaves nothing behind.
func (e *Engine) Guard(
	ctx context.Context,
	tenantID string,
	staffID string,
	fn func(ctx context.Context) error,
) error {
	unlock, err := e.locker.Lock(ctx, tenantID, staffID)
	if err != nil {
		return fmt.Errorf("lock staff calendar: %w", err)
	}
	defer unlock()

	return e.tx.Within(ctx, fn)
}

// Materialize runs one guarded pass for rule.
func (e *Engine) Materialize(
	ctx context.Context,
	rule *models.RecurringBooking,
) (*domain.Report, error) {

	var report *domain.Report
	err := e.Guard(ctx, rule.TenantID, rule.StaffID, func(ctx context.Context) error {
		var err error
		report, err = e.Pass(ctx, rule)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// ======================================================
// PASS
// ======================================================

// Pass walks the rule from its start date to its horizon and books every
// future occurrence that does not overlap a confirmed appointment of the
// same staff member. Each check sees the bookings made earlier in the same
// pass. Callers must hold Guard.
func (e *Engine) Pass(
	ctx context.Context,
	rule *models.RecurringBooking,
) (*domain.Report, error) {

	logger := logging.Service(e.logger, "RecurrenceEngine", "Pass",
		"tenant_id", rule.TenantID,
		"rule_id", rule.ID,
		"staff_id", rule.StaffID,
	)

	// --------------------------------------------------
	// Rule shape
	// --------------------------------------------------
	svc, err := e.services.GetService(ctx, rule.TenantID, rule.ServiceID)
	if err != nil {
		return nil, err
	}

	slot, err := domain.ParseTimeSlot(rule.TimeSlot)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_time_slot")
	}

	start := timezone.StoredDate(time.Time(rule.StartDate))

	var end *timezone.CivilDate
	if rule.EndDate != nil {
		d := timezone.StoredDate(time.Time(*rule.EndDate))
		end = &d
	}

	now := e.now()
	horizon := domain.Horizon(end, now, e.horizon, e.loc)

	next, err := domain.Occurrences(domain.Frequency(rule.Frequency), start, horizon, e.loc)
	if err != nil {
		return nil, fmt.Errorf("expand rule %s: %w", rule.ID, err)
	}

	// --------------------------------------------------
	// Walk
	// --------------------------------------------------
	report := &domain.Report{RuleID: rule.ID}

	for date, ok := next(); ok; date, ok = next() {
		if date.Before(now) {
			report.Record(date, time.Time{}, domain.SkippedPast, "")
			continue
		}

		window := appointment.IntervalOf(slot.On(date), svc.DurationMin)

		existing, err := e.appointments.FindOverlapping(ctx, rule.TenantID, rule.StaffID, window)
		if err != nil {
			logger.ErrorContext(ctx, "conflict check failed", "error", err, "date", date)
			return nil, err
		}
		if appointment.AnyOverlap(intervals(existing), window) {
			report.Record(date, window.Start, domain.SkippedConflict, "")
			continue
		}

		ruleID := rule.ID
		ap := &models.Appointment{
			TenantID:           rule.TenantID,
			ServiceID:          rule.ServiceID,
			StaffID:            rule.StaffID,
			CustomerEmail:      rule.CustomerEmail,
			StartAt:            window.Start,
			EndAt:              window.End,
			Status:             string(appointment.InitialStatus()),
			RecurringBookingID: &ruleID,
			CreatedBy:          appointment.CreatedBySystem,
		}

		if err := e.appointments.Create(ctx, ap); err != nil {
			if errors.Is(err, appointment.ErrSlotTaken) {
				report.Record(date, window.Start, domain.SkippedConflict, "")
				continue
			}
			logger.ErrorContext(ctx, "create occurrence failed", "error", err, "date", date)
			return nil, err
		}

		report.Record(date, window.Start, domain.Created, ap.ID)
	}

	summary := report.Summary()
	logger.InfoContext(ctx, "pass finished",
		"created", summary.Created,
		"skipped_conflict", summary.SkippedConflict,
		"skipped_past", summary.SkippedPast,
	)

	return report, nil
}

func intervals(apps []models.Appointment) []appointment.Interval {
	out := make([]appointment.Interval, 0, len(apps))
	for _, ap := range apps {
		out = append(out, appointment.Interval{Start: ap.StartAt, End: ap.EndAt})
	}
	return out
}

// ======================================================
// CASCADE
// ======================================================

// CancelFutureByProvenance cancels every CONFIRMED appointment produced by
// the rule that starts at or after now. Rows are handled one by one; a
// failing row does not stop the rest. It returns how many were cancelled
// together with every row error.
func (e *Engine) CancelFutureByProvenance(
	ctx context.Context,
	ruleID string,
	cancelledBy string,
) (int, error) {

	logger := logging.Service(e.logger, "RecurrenceEngine", "CancelFutureByProvenance",
		"rule_id", ruleID,
	)

	now := e.now()

	targets, err := e.appointments.ListFutureByProvenance(ctx, ruleID, now)
	if err != nil {
		return 0, err
	}

	ids := make([]string, 0, len(targets))
	for _, ap := range targets {
		ids = append(ids, ap.ID)
	}

	var (
		cancelled int
		errs      []error
	)
	for _, id := range ids {
		changed, err := e.cancelOne(ctx, id, cancelledBy, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("cancel appointment %s: %w", id, err))
			continue
		}
		if changed {
			cancelled++
		}
	}

	err = errors.Join(errs...)
	if err != nil {
		logger.ErrorContext(ctx, "cascade incomplete",
			"cancelled", cancelled,
			"failed", len(errs),
			"error", err,
		)
	} else {
		logger.InfoContext(ctx, "cascade finished", "cancelled", cancelled)
	}

	return cancelled, err
}

// cancelOne re-reads the row; one settled in the meantime is left alone.
func (e *Engine) cancelOne(ctx context.Context, id, by string, now time.Time) (bool, error) {
	ap, err := e.appointments.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if appointment.Status(ap.Status) != appointment.StatusConfirmed {
		return false, nil
	}
	if err := appointment.Cancel(ap, by, now); err != nil {
		return false, err
	}
	return true, e.appointments.Update(ctx, ap)
}
