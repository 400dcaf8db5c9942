package recurrence

import (
	"context"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/recurrence"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

// MaterializeRecurringBooking re-runs the pass for one rule on demand.
// Slots booked by earlier passes count as conflicts, so a rerun only fills
// what is new: later horizon, freed slots.
type MaterializeRecurringBooking struct {
	rules  domain.RuleStore
	engine *Engine
}

func NewMaterializeRecurringBooking(rules domain.RuleStore, engine *Engine) *MaterializeRecurringBooking {
	return &MaterializeRecurringBooking{rules: rules, engine: engine}
}

func (uc *MaterializeRecurringBooking) Execute(
	ctx context.Context,
	tenantID string,
	id string,
) (*domain.Report, error) {

	rule, err := uc.rules.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !rule.Active {
		return nil, httperr.ErrBusiness("recurring_booking_inactive")
	}

	return uc.engine.Materialize(ctx, rule)
}
