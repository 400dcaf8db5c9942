package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/recurrence"
)

// runTimeout bounds a single job run.
const runTimeout = 10 * time.Minute

type Job func(ctx context.Context) error

// Scheduler runs background jobs on cron expressions. Overlapping runs of
// the same job are skipped.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

func NewScheduler(loc *time.Location, logger *slog.Logger) *Scheduler {
	logger = logging.Default(logger)
	cronLog := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelWarn))

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// Add registers job under spec. An empty spec leaves the job disabled.
func (s *Scheduler) Add(name, spec string, job Job) error {
	if spec == "" {
		s.logger.Info("job disabled", "job", name)
		return nil
	}
	if _, err := s.cron.AddJob(spec, s.wrap(name, job)); err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	s.logger.Info("job scheduled", "job", name, "spec", spec)
	return nil
}

func (s *Scheduler) wrap(name string, job Job) cron.FuncJob {
	return func() {
		ctx, cancel := context.WithTimeout(s.ctx, runTimeout)
		defer cancel()

		started := time.Now()
		err := job(ctx)
		if err != nil {
			s.logger.Error("job failed",
				"job", name,
				"error", err,
				"error_kind", logging.ErrorKind(err),
				"duration", time.Since(started),
			)
			return
		}
		s.logger.Info("job finished", "job", name, "duration", time.Since(started))
	}
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop cancels running jobs and waits for them, or for ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// ======================================================
// JOBS
// ======================================================

// HorizonRefresh keeps open-ended recurring bookings materialized a full
// horizon ahead.
func HorizonRefresh(uc *recurrence.RefreshHorizons) Job {
	return func(ctx context.Context) error {
		_, err := uc.Execute(ctx)
		return err
	}
}

func Reminders(uc *appointment.SendReminders) Job {
	return func(ctx context.Context) error {
		_, err := uc.Execute(ctx)
		return err
	}
}
