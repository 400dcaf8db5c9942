package recurrence

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/recurrence"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type UpdateRecurringBookingInput struct {
	TenantID string
	ID       string
	Actor    string

	Active *bool
	// EndDate: nil leaves it, "" clears it, otherwise YYYY-MM-DD.
	EndDate *string
}

type UpdateRecurringBookingOutput struct {
	Rule      *models.RecurringBooking
	Cancelled int
	// Report is set when the update resumed a paused rule.
	Report *domain.Report
}

// ======================================================
// USE CASE
// ======================================================

type UpdateRecurringBooking struct {
	rules  domain.RuleStore
	engine *Engine
	audit  *audit.Dispatcher
	logger *slog.Logger
}

func NewUpdateRecurringBooking(
	rules domain.RuleStore,
	engine *Engine,
	audit *audit.Dispatcher,
	logger *slog.Logger,
) *UpdateRecurringBooking {
	return &UpdateRecurringBooking{
		rules:  rules,
		engine: engine,
		audit:  audit,
		logger: logging.Default(logger),
	}
}

// Execute applies active/endDate. Pausing cancels the rule's future
// appointments first and the rule keeps its previous state if any of them
// could not be cancelled. Resuming runs a pass. End date changes alone
// never touch appointments.
func (uc *UpdateRecurringBooking) Execute(
	ctx context.Context,
	in UpdateRecurringBookingInput,
) (*UpdateRecurringBookingOutput, error) {

	logger := logging.Service(uc.logger, "RecurringBookings", "Update",
		"tenant_id", in.TenantID,
		"rule_id", in.ID,
	)

	rule, err := uc.rules.Get(ctx, in.TenantID, in.ID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 1. End date
	// --------------------------------------------------
	if in.EndDate != nil {
		raw := strings.TrimSpace(*in.EndDate)
		if raw == "" {
			rule.EndDate = nil
		} else {
			end, err := timezone.ParseDate(raw)
			if err != nil {
				return nil, httperr.ErrValidation("invalid_end_date")
			}
			if end.Before(timezone.StoredDate(time.Time(rule.StartDate))) {
				return nil, httperr.ErrValidation("end_before_start")
			}
			d := datatypes.Date(end.UTC())
			rule.EndDate = &d
		}
	}

	// --------------------------------------------------
	// 2. Active transitions
	// --------------------------------------------------
	out := &UpdateRecurringBookingOutput{Rule: rule}
	pausing := in.Active != nil && !*in.Active && rule.Active
	resuming := in.Active != nil && *in.Active && !rule.Active

	if pausing {
		n, err := uc.engine.CancelFutureByProvenance(ctx, rule.ID, in.Actor)
		out.Cancelled = n
		if err != nil {
			logger.ErrorContext(ctx, "pause cascade failed", "error", err, "cancelled", n)
			return nil, err
		}
		rule.Active = false
	}

	// --------------------------------------------------
	// 3. Persist
	// --------------------------------------------------
	if resuming {
		rule.Active = true
		err = uc.engine.Guard(ctx, rule.TenantID, rule.StaffID, func(ctx context.Context) error {
			if err := uc.rules.Update(ctx, rule); err != nil {
				return err
			}
			var err error
			out.Report, err = uc.engine.Pass(ctx, rule)
			return err
		})
	} else {
		err = uc.rules.Update(ctx, rule)
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to update recurring booking", "error", err, "error_kind", logging.ErrorKind(err))
		return nil, err
	}

	logger.InfoContext(ctx, "recurring booking updated",
		"active", rule.Active,
		"cancelled", out.Cancelled,
	)

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		Actor:    in.Actor,
		Action:   "recurring_booking_updated",
		Entity:   "recurring_booking",
		EntityID: rule.ID,
		Metadata: map[string]any{
			"active":    rule.Active,
			"cancelled": out.Cancelled,
		},
	})

	return out, nil
}
