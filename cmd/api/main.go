package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-scheduler/internal/db"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/jobs"
	"github.com/BruksfildServices01/salon-scheduler/internal/mail"
	"github.com/BruksfildServices01/salon-scheduler/internal/routes"
	"github.com/BruksfildServices01/salon-scheduler/internal/storage"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
	ucRecurrence "github.com/BruksfildServices01/salon-scheduler/internal/usecase/recurrence"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	if cfg.DevMode {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	slog.SetDefault(logger)

	db := dbpkg.NewDB(cfg)
	loc := timezone.Location(cfg.Timezone)

	// ======================================================
	// INFRA
	// ======================================================
	auditDispatcher := audit.NewDispatcher(audit.New(db))
	defer auditDispatcher.Close()

	var locker domain.StaffLocker = lock.NewMemoryLocker()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		locker = lock.NewRedisLocker(client, logger)
	}

	images, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to init image storage: %v", err)
	}

	mailer := mail.New(cfg, logger)

	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	serviceRepo := infraRepo.NewServiceGormRepository(db)
	ruleRepo := infraRepo.NewRecurringBookingGormRepository(db)

	engine := ucRecurrence.NewEngine(
		appointmentRepo,
		serviceRepo,
		infraRepo.NewGormTransactor(db),
		locker,
		ucRecurrence.WithLocation(loc),
		ucRecurrence.WithHorizon(time.Duration(cfg.HorizonDays)*24*time.Hour),
		ucRecurrence.WithLogger(logger),
	)

	// ======================================================
	// JOBS
	// ======================================================
	scheduler := jobs.NewScheduler(loc, logger)

	refresh := ucRecurrence.NewRefreshHorizons(ruleRepo, engine, logger)
	if err := scheduler.Add("horizon_refresh", cfg.HorizonRefreshCron, jobs.HorizonRefresh(refresh)); err != nil {
		log.Fatalf("failed to schedule horizon refresh: %v", err)
	}

	reminders := ucAppointment.NewSendReminders(appointmentRepo, serviceRepo, mailer, time.Now, loc, logger)
	if err := scheduler.Add("reminders", cfg.ReminderCron, jobs.Reminders(reminders)); err != nil {
		log.Fatalf("failed to schedule reminders: %v", err)
	}

	scheduler.Start()

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, routes.Deps{
		Audit:  auditDispatcher,
		Locker: locker,
		Mailer: mailer,
		Images: images,
		Engine: engine,
		Now:    time.Now,
		Loc:    loc,
		Logger: logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server running on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	scheduler.Stop(shutdownCtx)
}
