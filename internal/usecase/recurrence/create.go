package recurrence

import (
	"context"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/recurrence"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CreateRecurringBookingInput struct {
	TenantID string
	Actor    string
	Draft    domain.Draft
}

type CreateRecurringBookingOutput struct {
	Rule   *models.RecurringBooking
	Report *domain.Report
}

// ======================================================
// USE CASE
// ======================================================

type CreateRecurringBooking struct {
	rules    domain.RuleStore
	services domain.ServiceLookup
	engine   *Engine
	audit    *audit.Dispatcher
	logger   *slog.Logger
}

func NewCreateRecurringBooking(
	rules domain.RuleStore,
	services domain.ServiceLookup,
	engine *Engine,
	audit *audit.Dispatcher,
	logger *slog.Logger,
) *CreateRecurringBooking {
	return &CreateRecurringBooking{
		rules:    rules,
		services: services,
		engine:   engine,
		audit:    audit,
		logger:   logging.Default(logger),
	}
}

// Execute validates the draft, stores the rule and materializes it. The
// rule and its appointments are committed together or not at all.
func (uc *CreateRecurringBooking) Execute(
	ctx context.Context,
	in CreateRecurringBookingInput,
) (*CreateRecurringBookingOutput, error) {

	logger := logging.Service(uc.logger, "RecurringBookings", "Create", "tenant_id", in.TenantID)

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	spec, err := in.Draft.Validate()
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Service of this tenant
	// --------------------------------------------------
	if _, err := uc.services.GetService(ctx, in.TenantID, spec.ServiceID); err != nil {
		return nil, err
	}

	rule := &models.RecurringBooking{
		TenantID:      in.TenantID,
		ServiceID:     spec.ServiceID,
		StaffID:       spec.StaffID,
		CustomerEmail: spec.CustomerEmail,
		Frequency:     string(spec.Frequency),
		DayOfWeek:     spec.DayOfWeek,
		TimeSlot:      spec.TimeSlot.String(),
		StartDate:     datatypes.Date(spec.StartDate.UTC()),
		Active:        true,
	}
	if spec.EndDate != nil {
		end := datatypes.Date(spec.EndDate.UTC())
		rule.EndDate = &end
	}

	// --------------------------------------------------
	// 3. Persist + first pass
	// --------------------------------------------------
	var report *domain.Report
	err = uc.engine.Guard(ctx, rule.TenantID, rule.StaffID, func(ctx context.Context) error {
		if err := uc.rules.Create(ctx, rule); err != nil {
			return err
		}
		var err error
		report, err = uc.engine.Pass(ctx, rule)
		return err
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to create recurring booking", "error", err, "error_kind", logging.ErrorKind(err))
		return nil, err
	}

	summary := report.Summary()
	logger.With("rule_id", rule.ID).InfoContext(ctx, "recurring booking created",
		"created", summary.Created,
		"skipped_conflict", summary.SkippedConflict,
	)

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		Actor:    in.Actor,
		Action:   "recurring_booking_created",
		Entity:   "recurring_booking",
		EntityID: rule.ID,
		Metadata: summary,
	})

	return &CreateRecurringBookingOutput{Rule: rule, Report: report}, nil
}
