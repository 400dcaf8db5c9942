package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Conflict
// --------------------------------------------------

// FindOverlapping returns CONFIRMED appointments of the staff member whose
// interval overlaps window. Rows are locked when the dialect supports it.
func (r *AppointmentGormRepository) FindOverlapping(
	ctx context.Context,
	tenantID string,
	staffID string,
	window domain.Interval,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"tenant_id = ? AND staff_id = ? AND status = ? AND start_at < ? AND end_at > ?",
			tenantID,
			staffID,
			string(domain.StatusConfirmed),
			window.End.UTC(),
			window.Start.UTC(),
		).
		Order("start_at ASC").
		Find(&apps).Error; err != nil {
		return nil, httperr.Store("find overlapping", err)
	}

	return apps, nil
}

// --------------------------------------------------
// Create
// --------------------------------------------------

// Create inserts inside a savepoint so that an exclusion violation leaves
// the surrounding transaction usable.
func (r *AppointmentGormRepository) Create(
	ctx context.Context,
	ap *models.Appointment,
) error {
	ap.StartAt = ap.StartAt.UTC()
	ap.EndAt = ap.EndAt.UTC()

	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return tx.Create(ap).Error
	})
	if httperr.IsExclusionConflict(err) {
		return domain.ErrSlotTaken
	}
	return httperr.Store("create appointment", err)
}

// --------------------------------------------------
// Provenance
// --------------------------------------------------

func (r *AppointmentGormRepository) ListFutureByProvenance(
	ctx context.Context,
	ruleID string,
	now time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := conn(ctx, r.db).
		Where(
			"recurring_booking_id = ? AND status = ? AND start_at >= ?",
			ruleID,
			string(domain.StatusConfirmed),
			now.UTC(),
		).
		Order("start_at ASC").
		Find(&apps).Error; err != nil {
		return nil, httperr.Store("list future by provenance", err)
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListConfirmedByProvenance(
	ctx context.Context,
	ruleIDs []string,
) ([]models.Appointment, error) {

	if len(ruleIDs) == 0 {
		return nil, nil
	}

	var apps []models.Appointment
	if err := conn(ctx, r.db).
		Where(
			"recurring_booking_id IN ? AND status = ?",
			ruleIDs,
			string(domain.StatusConfirmed),
		).
		Order("start_at ASC").
		Find(&apps).Error; err != nil {
		return nil, httperr.Store("list confirmed by provenance", err)
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListByProvenance(
	ctx context.Context,
	ruleID string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := conn(ctx, r.db).
		Where("recurring_booking_id = ?", ruleID).
		Order("start_at ASC").
		Find(&apps).Error; err != nil {
		return nil, httperr.Store("list by provenance", err)
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListByGroup(
	ctx context.Context,
	groupIDs []string,
) ([]models.Appointment, error) {

	if len(groupIDs) == 0 {
		return nil, nil
	}

	var apps []models.Appointment
	if err := conn(ctx, r.db).
		Where("group_booking_id IN ?", groupIDs).
		Order("start_at ASC").
		Find(&apps).Error; err != nil {
		return nil, httperr.Store("list by group", err)
	}

	return apps, nil
}

// --------------------------------------------------
// Calendar
// --------------------------------------------------

func (r *AppointmentGormRepository) ListForPeriod(
	ctx context.Context,
	tenantID string,
	staffID string,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	q := conn(ctx, r.db).Where(
		"tenant_id = ? AND start_at >= ? AND start_at < ?",
		tenantID,
		from.UTC(),
		to.UTC(),
	)
	if staffID != "" {
		q = q.Where("staff_id = ?", staffID)
	}

	var apps []models.Appointment
	if err := q.Order("start_at ASC").Find(&apps).Error; err != nil {
		return nil, httperr.Store("list for period", err)
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListReminderDue(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := conn(ctx, r.db).
		Where(
			"status = ? AND reminder_sent_at IS NULL AND start_at >= ? AND start_at < ?",
			string(domain.StatusConfirmed),
			from.UTC(),
			to.UTC(),
		).
		Order("start_at ASC").
		Find(&apps).Error; err != nil {
		return nil, httperr.Store("list reminder due", err)
	}

	return apps, nil
}

// --------------------------------------------------
// State change
// --------------------------------------------------

func (r *AppointmentGormRepository) Get(
	ctx context.Context,
	id string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := conn(ctx, r.db).
		Where("id = ?", id).
		First(&ap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("appointment_not_found")
		}
		return nil, httperr.Store("get appointment", err)
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) Update(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return httperr.Store("update appointment", conn(ctx, r.db).Save(ap).Error)
}

// Compile-time check
var _ domain.Store = (*AppointmentGormRepository)(nil)
