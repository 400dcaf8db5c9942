package recurrence

import (
	"context"
	"log/slog"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/recurrence"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
)

type DeleteRecurringBookingInput struct {
	TenantID string
	ID       string
	Actor    string
}

type DeleteRecurringBooking struct {
	rules  domain.RuleStore
	engine *Engine
	audit  *audit.Dispatcher
	logger *slog.Logger
}

func NewDeleteRecurringBooking(
	rules domain.RuleStore,
	engine *Engine,
	audit *audit.Dispatcher,
	logger *slog.Logger,
) *DeleteRecurringBooking {
	return &DeleteRecurringBooking{
		rules:  rules,
		engine: engine,
		audit:  audit,
		logger: logging.Default(logger),
	}
}

// Execute cancels the rule's future appointments, then removes the rule.
// Generated appointments stay with their provenance. The rule is kept when
// the cascade is incomplete so the delete can be retried.
func (uc *DeleteRecurringBooking) Execute(
	ctx context.Context,
	in DeleteRecurringBookingInput,
) (int, error) {

	logger := logging.Service(uc.logger, "RecurringBookings", "Delete",
		"tenant_id", in.TenantID,
		"rule_id", in.ID,
	)

	rule, err := uc.rules.Get(ctx, in.TenantID, in.ID)
	if err != nil {
		return 0, err
	}

	cancelled, err := uc.engine.CancelFutureByProvenance(ctx, rule.ID, in.Actor)
	if err != nil {
		logger.ErrorContext(ctx, "delete cascade failed", "error", err, "cancelled", cancelled)
		return cancelled, err
	}

	if err := uc.rules.Delete(ctx, in.TenantID, rule.ID); err != nil {
		return cancelled, err
	}

	logger.InfoContext(ctx, "recurring booking deleted", "cancelled", cancelled)

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		Actor:    in.Actor,
		Action:   "recurring_booking_deleted",
		Entity:   "recurring_booking",
		EntityID: rule.ID,
		Metadata: map[string]int{"cancelled": cancelled},
	})

	return cancelled, nil
}
