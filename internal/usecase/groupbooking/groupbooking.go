package groupbooking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/domain/recurrence"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

type Repository interface {
	Create(ctx context.Context, g *models.GroupBooking) error
	Get(ctx context.Context, tenantID, id string) (*models.GroupBooking, error)
	List(ctx context.Context, tenantID string) ([]models.GroupBooking, error)
	Delete(ctx context.Context, tenantID, id string) error
}

// Skip reasons reported for members that were not booked.
const (
	SkipMissingFields = "missing_fields"
	SkipInvalidStart  = "invalid_start"
	SkipUnknownSvc    = "service_not_found"
	SkipConflict      = "conflict"
	SkipGroupFull     = "group_full"
)

type Member struct {
	ServiceID     string
	StaffID       string
	CustomerEmail string
	StartAt       string
}

type SkippedMember struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type CreateInput struct {
	TenantID    string
	Actor       string
	Name        string
	Description string
	MaxSize     int
	Members     []Member
}

type CreateOutput struct {
	Group   *models.GroupBooking
	Skipped []SkippedMember
}

// ======================================================
// SERVICE
// ======================================================

type Service struct {
	groups       Repository
	appointments appointment.Store
	services     recurrence.ServiceLookup
	tx           appointment.Transactor
	locker       appointment.StaffLocker
	audit        *audit.Dispatcher
	now          func() time.Time
	logger       *slog.Logger
}

func NewService(
	groups Repository,
	appointments appointment.Store,
	services recurrence.ServiceLookup,
	tx appointment.Transactor,
	locker appointment.StaffLocker,
	audit *audit.Dispatcher,
	now func() time.Time,
	logger *slog.Logger,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		groups:       groups,
		appointments: appointments,
		services:     services,
		tx:           tx,
		locker:       locker,
		audit:        audit,
		now:          now,
		logger:       logging.Default(logger),
	}
}

// Create stores the group and books each member that is complete, belongs
// to the tenant and fits the staff calendar. Members that do not are
// skipped, as are members beyond MaxSize.
func (s *Service) Create(ctx context.Context, in CreateInput) (*CreateOutput, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.MaxSize <= 0 {
		return nil, httperr.ErrValidation("missing_required_fields")
	}

	group := &models.GroupBooking{
		TenantID:    in.TenantID,
		Name:        name,
		Description: in.Description,
		MaxSize:     in.MaxSize,
	}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, err
	}

	out := &CreateOutput{Group: group}
	for i, m := range in.Members {
		if len(group.Bookings) >= group.MaxSize {
			out.Skipped = append(out.Skipped, SkippedMember{Index: i, Reason: SkipGroupFull})
			continue
		}

		ap, reason, err := s.bookMember(ctx, group, in.Actor, m)
		if err != nil {
			return nil, err
		}
		if reason != "" {
			out.Skipped = append(out.Skipped, SkippedMember{Index: i, Reason: reason})
			continue
		}
		group.Bookings = append(group.Bookings, *ap)
	}

	logging.Service(s.logger, "GroupBookings", "Create", "tenant_id", in.TenantID).
		InfoContext(ctx, "group booking created",
			"group_id", group.ID,
			"booked", len(group.Bookings),
			"skipped", len(out.Skipped),
		)

	s.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		Actor:    in.Actor,
		Action:   "group_booking_created",
		Entity:   "group_booking",
		EntityID: group.ID,
		Metadata: map[string]int{"booked": len(group.Bookings), "skipped": len(out.Skipped)},
	})

	return out, nil
}

func (s *Service) bookMember(
	ctx context.Context,
	group *models.GroupBooking,
	actor string,
	m Member,
) (*models.Appointment, string, error) {

	email := strings.ToLower(strings.TrimSpace(m.CustomerEmail))
	if strings.TrimSpace(m.ServiceID) == "" || strings.TrimSpace(m.StaffID) == "" ||
		email == "" || strings.TrimSpace(m.StartAt) == "" {
		return nil, SkipMissingFields, nil
	}
	if !validators.IsEmail(email) {
		return nil, SkipMissingFields, nil
	}

	start, err := time.Parse(time.RFC3339, strings.TrimSpace(m.StartAt))
	if err != nil {
		return nil, SkipInvalidStart, nil
	}

	svc, err := s.services.GetService(ctx, group.TenantID, m.ServiceID)
	if err != nil {
		if httperr.IsNotFound(err) {
			return nil, SkipUnknownSvc, nil
		}
		return nil, "", err
	}

	window := appointment.IntervalOf(start, svc.DurationMin)
	groupID := group.ID
	ap := &models.Appointment{
		TenantID:       group.TenantID,
		ServiceID:      svc.ID,
		StaffID:        m.StaffID,
		CustomerEmail:  email,
		StartAt:        window.Start,
		EndAt:          window.End,
		Status:         string(appointment.InitialStatus()),
		GroupBookingID: &groupID,
		CreatedBy:      actor,
	}

	unlock, err := s.locker.Lock(ctx, group.TenantID, m.StaffID)
	if err != nil {
		return nil, "", err
	}
	defer unlock()

	conflict := false
	err = s.tx.Within(ctx, func(ctx context.Context) error {
		existing, err := s.appointments.FindOverlapping(ctx, group.TenantID, m.StaffID, window)
		if err != nil {
			return err
		}
		var booked []appointment.Interval
		for _, e := range existing {
			booked = append(booked, appointment.Interval{Start: e.StartAt, End: e.EndAt})
		}
		if appointment.AnyOverlap(booked, window) {
			conflict = true
			return nil
		}

		err = s.appointments.Create(ctx, ap)
		if errors.Is(err, appointment.ErrSlotTaken) {
			conflict = true
			return nil
		}
		return err
	})
	if err != nil {
		return nil, "", err
	}
	if conflict {
		return nil, SkipConflict, nil
	}
	return ap, "", nil
}

// List returns the tenant's groups, newest first, with their appointments.
func (s *Service) List(ctx context.Context, tenantID string) ([]models.GroupBooking, error) {
	groups, err := s.groups.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.ID)
	}

	apps, err := s.appointments.ListByGroup(ctx, ids)
	if err != nil {
		return nil, err
	}

	byGroup := map[string][]models.Appointment{}
	for _, ap := range apps {
		if ap.GroupBookingID != nil {
			byGroup[*ap.GroupBookingID] = append(byGroup[*ap.GroupBookingID], ap)
		}
	}
	for i := range groups {
		groups[i].Bookings = byGroup[groups[i].ID]
		if groups[i].Bookings == nil {
			groups[i].Bookings = []models.Appointment{}
		}
	}
	return groups, nil
}

// Delete cancels the group's confirmed appointments, then removes the
// group. The group is kept if any cancellation failed.
func (s *Service) Delete(ctx context.Context, tenantID, id, actor string) (int, error) {
	group, err := s.groups.Get(ctx, tenantID, id)
	if err != nil {
		return 0, err
	}

	apps, err := s.appointments.ListByGroup(ctx, []string{group.ID})
	if err != nil {
		return 0, err
	}

	now := s.now()
	var (
		cancelled int
		errs      []error
	)
	for i := range apps {
		ap := &apps[i]
		if appointment.Status(ap.Status) != appointment.StatusConfirmed {
			continue
		}
		if err := appointment.Cancel(ap, actor, now); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := s.appointments.Update(ctx, ap); err != nil {
			errs = append(errs, fmt.Errorf("cancel appointment %s: %w", ap.ID, err))
			continue
		}
		cancelled++
	}
	if err := errors.Join(errs...); err != nil {
		return cancelled, err
	}

	if err := s.groups.Delete(ctx, tenantID, group.ID); err != nil {
		return cancelled, err
	}

	s.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		Actor:    actor,
		Action:   "group_booking_deleted",
		Entity:   "group_booking",
		EntityID: group.ID,
		Metadata: map[string]int{"cancelled": cancelled},
	})
	return cancelled, nil
}
