package recurrence

import (
	"context"
	"log/slog"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/recurrence"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
)

// RefreshResult sums one refresh run over all rules.
type RefreshResult struct {
	Rules   int
	Created int
	Failed  int
}

// RefreshHorizons materializes every active rule that has not ended, so
// open-ended rules keep a full horizon ahead of them.
type RefreshHorizons struct {
	rules  domain.RuleStore
	engine *Engine
	logger *slog.Logger
}

func NewRefreshHorizons(rules domain.RuleStore, engine *Engine, logger *slog.Logger) *RefreshHorizons {
	return &RefreshHorizons{rules: rules, engine: engine, logger: logging.Default(logger)}
}

// Execute keeps going past failing rules; they are logged and counted.
func (uc *RefreshHorizons) Execute(ctx context.Context) (RefreshResult, error) {
	logger := logging.Service(uc.logger, "RecurringBookings", "RefreshHorizons")

	today := timezone.CivilDateOf(uc.engine.Now().In(uc.engine.loc)).UTC()

	rules, err := uc.rules.ListRefreshable(ctx, today)
	if err != nil {
		return RefreshResult{}, err
	}

	res := RefreshResult{Rules: len(rules)}
	for i := range rules {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		report, err := uc.engine.Materialize(ctx, &rules[i])
		if err != nil {
			res.Failed++
			logger.ErrorContext(ctx, "refresh failed",
				"rule_id", rules[i].ID,
				"error", err,
				"error_kind", logging.ErrorKind(err),
			)
			continue
		}
		res.Created += report.Count(domain.Created)
	}

	logger.InfoContext(ctx, "refresh finished",
		"rules", res.Rules,
		"created", res.Created,
		"failed", res.Failed,
	)
	return res, nil
}
