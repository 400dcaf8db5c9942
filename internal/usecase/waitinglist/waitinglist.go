package waitinglist

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/recurrence"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
	"github.com/BruksfildServices01/salon-scheduler/internal/mail"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

// notifyConcurrency bounds simultaneous SMTP sessions of one fan-out.
const notifyConcurrency = 8

type Repository interface {
	Exists(ctx context.Context, tenantID, serviceID, email string) (bool, error)
	Create(ctx context.Context, e *models.WaitingListEntry) error
	List(ctx context.Context, tenantID string) ([]models.WaitingListEntry, error)
	ListForService(ctx context.Context, tenantID, serviceID string) ([]models.WaitingListEntry, error)
	Delete(ctx context.Context, tenantID, id string) error
}

// ======================================================
// SERVICE
// ======================================================

type Service struct {
	repo     Repository
	services recurrence.ServiceLookup
	mailer   mail.Mailer
	audit    *audit.Dispatcher
	logger   *slog.Logger
}

func NewService(
	repo Repository,
	services recurrence.ServiceLookup,
	mailer mail.Mailer,
	audit *audit.Dispatcher,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		services: services,
		mailer:   mailer,
		audit:    audit,
		logger:   logging.Default(logger),
	}
}

// ------------------------------------------------------
// Join
// ------------------------------------------------------

type JoinInput struct {
	TenantID      string
	ServiceID     string
	StaffID       string
	CustomerEmail string
	PreferredDate string
}

func (s *Service) Join(ctx context.Context, in JoinInput) (*models.WaitingListEntry, error) {
	serviceID := strings.TrimSpace(in.ServiceID)
	email := strings.ToLower(strings.TrimSpace(in.CustomerEmail))

	if serviceID == "" || email == "" {
		return nil, httperr.ErrValidation("missing_required_fields")
	}
	if !validators.IsEmail(email) {
		return nil, httperr.ErrValidation("invalid_customer_email")
	}

	entry := &models.WaitingListEntry{
		TenantID:      in.TenantID,
		ServiceID:     serviceID,
		CustomerEmail: email,
	}

	if staffID := strings.TrimSpace(in.StaffID); staffID != "" {
		entry.StaffID = &staffID
	}

	if raw := strings.TrimSpace(in.PreferredDate); raw != "" {
		d, err := timezone.ParseDate(raw)
		if err != nil {
			return nil, httperr.ErrValidation("invalid_preferred_date")
		}
		pd := datatypes.Date(d.UTC())
		entry.PreferredDate = &pd
	}

	if _, err := s.services.GetService(ctx, in.TenantID, serviceID); err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, in.TenantID, serviceID, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, httperr.ErrConflict("already_on_waiting_list")
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		Actor:    email,
		Action:   "waiting_list_joined",
		Entity:   "waiting_list",
		EntityID: entry.ID,
	})

	return entry, nil
}

// ------------------------------------------------------
// List / Remove
// ------------------------------------------------------

func (s *Service) List(ctx context.Context, tenantID string) ([]models.WaitingListEntry, error) {
	return s.repo.List(ctx, tenantID)
}

func (s *Service) Remove(ctx context.Context, tenantID, id, actor string) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		Actor:    actor,
		Action:   "waiting_list_removed",
		Entity:   "waiting_list",
		EntityID: id,
	})
	return nil
}

// ------------------------------------------------------
// Notify
// ------------------------------------------------------

type NotifyInput struct {
	TenantID      string
	Actor         string
	ServiceID     string
	StaffID       string
	AvailableDate string
	AvailableTime string
}

// Notify mails every waiting customer of the service that an earlier slot
// opened. Sends run concurrently and independently: a failed send is
// logged and does not affect the others. The result is the number of
// entries processed, not the number of mails delivered.
func (s *Service) Notify(ctx context.Context, in NotifyInput) (int, error) {
	if strings.TrimSpace(in.ServiceID) == "" ||
		strings.TrimSpace(in.AvailableDate) == "" ||
		strings.TrimSpace(in.AvailableTime) == "" {
		return 0, httperr.ErrValidation("missing_required_fields")
	}

	logger := logging.Service(s.logger, "WaitingList", "Notify",
		"tenant_id", in.TenantID,
		"service_id", in.ServiceID,
	)

	entries, err := s.repo.ListForService(ctx, in.TenantID, in.ServiceID)
	if err != nil {
		return 0, err
	}

	var (
		g      errgroup.Group
		failed atomic.Int32
	)
	g.SetLimit(notifyConcurrency)

	for _, e := range entries {
		g.Go(func() error {
			if err := s.notifyOne(ctx, e, in); err != nil {
				logger.WarnContext(ctx, "notification failed",
					"entry_id", e.ID,
					"to", e.CustomerEmail,
					"error", err,
				)
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	logger.InfoContext(ctx, "waiting list notified", "entries", len(entries), "failed", failed.Load())

	s.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		Actor:    in.Actor,
		Action:   "waiting_list_notified",
		Entity:   "service",
		EntityID: in.ServiceID,
		Metadata: map[string]any{
			"entries":        len(entries),
			"staff_id":       in.StaffID,
			"available_date": in.AvailableDate,
			"available_time": in.AvailableTime,
			"notified_at":    time.Now().UTC(),
		},
	})

	return len(entries), nil
}

func (s *Service) notifyOne(ctx context.Context, e models.WaitingListEntry, in NotifyInput) error {
	serviceName := ""
	if e.Service != nil {
		serviceName = e.Service.Name
	}

	msg, err := mail.EarlierAppointmentAvailable(e.CustomerEmail, mail.AppointmentDetails{
		CustomerName: e.CustomerEmail,
		ServiceName:  serviceName,
		Date:         in.AvailableDate,
		Time:         in.AvailableTime,
	})
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, msg)
}
