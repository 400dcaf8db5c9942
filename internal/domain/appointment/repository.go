package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// ErrSlotTaken is returned by Create when the store itself rejects an
// overlapping confirmed appointment.
var ErrSlotTaken = errors.New("appointment: slot already taken")

type Store interface {
	// -------- Conflict --------
	FindOverlapping(
		ctx context.Context,
		tenantID string,
		staffID string,
		window Interval,
	) ([]models.Appointment, error)

	// -------- Create --------
	Create(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Provenance --------
	ListFutureByProvenance(
		ctx context.Context,
		ruleID string,
		now time.Time,
	) ([]models.Appointment, error)

	ListConfirmedByProvenance(
		ctx context.Context,
		ruleIDs []string,
	) ([]models.Appointment, error)

	ListByProvenance(
		ctx context.Context,
		ruleID string,
	) ([]models.Appointment, error)

	ListByGroup(
		ctx context.Context,
		groupIDs []string,
	) ([]models.Appointment, error)

	// -------- Calendar --------

	// ListForPeriod returns appointments of any status starting in
	// [from, to). An empty staffID covers the whole tenant.
	ListForPeriod(
		ctx context.Context,
		tenantID string,
		staffID string,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	// ListReminderDue returns CONFIRMED appointments of every tenant
	// starting in [from, to) whose reminder has not been sent.
	ListReminderDue(
		ctx context.Context,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	// -------- State change --------
	Get(
		ctx context.Context,
		id string,
	) (*models.Appointment, error)

	Update(
		ctx context.Context,
		ap *models.Appointment,
	) error
}

// Transactor runs fn inside one unit of work. Stores reached through the
// ctx handed to fn take part in it.
type Transactor interface {
	Within(ctx context.Context, fn func(ctx context.Context) error) error
}

// StaffLocker serialises conflict-check-then-insert for one staff calendar.
type StaffLocker interface {
	Lock(ctx context.Context, tenantID, staffID string) (unlock func(), err error)
}
