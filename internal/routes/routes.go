package routes

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/mail"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/storage"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/groupbooking"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/portfolio"
	ucRecurrence "github.com/BruksfildServices01/salon-scheduler/internal/usecase/recurrence"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/waitinglist"
)

// Deps are the process-wide singletons built in main.
type Deps struct {
	Audit  *audit.Dispatcher
	Locker domain.StaffLocker
	Mailer mail.Mailer
	Images storage.ImageStore
	Engine *ucRecurrence.Engine

	Now    func() time.Time
	Loc    *time.Location
	Logger *slog.Logger
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	ruleRepo := infraRepo.NewRecurringBookingGormRepository(db)
	serviceRepo := infraRepo.NewServiceGormRepository(db)
	waitingRepo := infraRepo.NewWaitingListGormRepository(db)
	groupRepo := infraRepo.NewGroupBookingGormRepository(db)
	portfolioRepo := infraRepo.NewPortfolioGormRepository(db)
	staffRepo := infraRepo.NewStaffGormRepository(db)
	tx := infraRepo.NewGormTransactor(db)

	// ======================================================
	// USE CASES
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		serviceRepo,
		tx,
		deps.Locker,
		deps.Mailer,
		deps.Audit,
		deps.Now,
		deps.Loc,
		deps.Logger,
	)
	completeAppointmentUC := ucAppointment.NewCompleteAppointment(appointmentRepo, deps.Audit, deps.Now)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(appointmentRepo, deps.Audit, deps.Now)
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo, serviceRepo, deps.Loc)

	createRuleUC := ucRecurrence.NewCreateRecurringBooking(ruleRepo, serviceRepo, deps.Engine, deps.Audit, deps.Logger)
	updateRuleUC := ucRecurrence.NewUpdateRecurringBooking(ruleRepo, deps.Engine, deps.Audit, deps.Logger)
	deleteRuleUC := ucRecurrence.NewDeleteRecurringBooking(ruleRepo, deps.Engine, deps.Audit, deps.Logger)
	listRulesUC := ucRecurrence.NewListRecurringBookings(ruleRepo, appointmentRepo)
	materializeUC := ucRecurrence.NewMaterializeRecurringBooking(ruleRepo, deps.Engine)
	calendarUC := ucRecurrence.NewExportCalendar(ruleRepo, appointmentRepo)

	waitingList := waitinglist.NewService(waitingRepo, serviceRepo, deps.Mailer, deps.Audit, deps.Logger)
	groups := groupbooking.NewService(
		groupRepo,
		appointmentRepo,
		serviceRepo,
		tx,
		deps.Locker,
		deps.Audit,
		deps.Now,
		deps.Logger,
	)
	gallery := portfolio.NewService(portfolioRepo, staffRepo, deps.Images, deps.Audit, deps.Logger)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	tenantHandler := handlers.NewTenantHandler(db)
	staffHandler := handlers.NewStaffHandler(db, deps.Audit)
	serviceHandler := handlers.NewServiceHandler(db, deps.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	publicHandler := handlers.NewPublicHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		completeAppointmentUC,
		cancelAppointmentUC,
		listAppointmentsUC,
	)
	recurringHandler := handlers.NewRecurringBookingHandler(
		createRuleUC,
		updateRuleUC,
		deleteRuleUC,
		listRulesUC,
		materializeUC,
		calendarUC,
	)
	waitingListHandler := handlers.NewWaitingListHandler(waitingList, cfg.VerifyEmailDomain)
	groupHandler := handlers.NewGroupBookingHandler(groups)
	portfolioHandler := handlers.NewPortfolioHandler(gallery)

	// ======================================================
	// STATIC UPLOADS (local storage only)
	// ======================================================
	if cfg.Storage.S3Bucket == "" && strings.HasPrefix(cfg.Storage.PublicURL, "/") {
		r.Static(cfg.Storage.PublicURL, cfg.Storage.UploadDir)
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/staff", publicHandler.ListStaff)
		}

		tenantScoped := api.Group("/")
		tenantScoped.Use(middleware.PublicTenant())
		{
			tenantScoped.POST("/waiting-list", waitingListHandler.Join)
			tenantScoped.GET("/staff/:staffId/portfolio", portfolioHandler.ListPublic)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole("owner", "admin"))
		{
			admin.GET("/tenant", tenantHandler.Get)
			admin.PATCH("/tenant", tenantHandler.Update)

			admin.GET("/staff", staffHandler.List)
			admin.POST("/staff", staffHandler.Create)
			admin.PATCH("/staff/:staffId", staffHandler.Update)

			admin.GET("/services", serviceHandler.List)
			admin.POST("/services", serviceHandler.Create)
			admin.PATCH("/services/:id", serviceHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			admin.POST("/appointments", appointmentHandler.Create)
			admin.GET("/appointments", appointmentHandler.ListByDate)
			admin.GET("/appointments/month", appointmentHandler.ListByMonth)
			admin.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			admin.PATCH("/appointments/:id/complete", appointmentHandler.Complete)

			// ------------------------------
			// RECURRING BOOKINGS
			// ------------------------------
			admin.GET("/recurring-bookings", recurringHandler.List)
			admin.POST("/recurring-bookings", recurringHandler.Create)
			admin.PUT("/recurring-bookings/:id", recurringHandler.Update)
			admin.DELETE("/recurring-bookings/:id", recurringHandler.Delete)
			admin.POST("/recurring-bookings/:id/materialize", recurringHandler.Materialize)
			admin.GET("/recurring-bookings/:id/calendar.ics", recurringHandler.Calendar)

			// ------------------------------
			// WAITING LIST / GROUPS
			// ------------------------------
			admin.GET("/waiting-list", waitingListHandler.List)
			admin.POST("/waiting-list/notify", waitingListHandler.Notify)
			admin.DELETE("/waiting-list/:id", waitingListHandler.Delete)

			admin.GET("/group-bookings", groupHandler.List)
			admin.POST("/group-bookings", groupHandler.Create)
			admin.DELETE("/group-bookings/:id", groupHandler.Delete)

			// ------------------------------
			// PORTFOLIO
			// ------------------------------
			admin.GET("/staff/:staffId/portfolio", portfolioHandler.ListAdmin)
			admin.POST("/staff/:staffId/portfolio", portfolioHandler.Create)
			admin.PATCH("/staff/:staffId/portfolio/:id", portfolioHandler.Update)
			admin.DELETE("/staff/:staffId/portfolio/:id", portfolioHandler.Delete)
			admin.POST("/staff/:staffId/upload", portfolioHandler.UploadAvatar)

			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
