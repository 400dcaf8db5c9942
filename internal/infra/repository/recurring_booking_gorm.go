package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/recurrence"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type RecurringBookingGormRepository struct {
	db *gorm.DB
}

func NewRecurringBookingGormRepository(db *gorm.DB) *RecurringBookingGormRepository {
	return &RecurringBookingGormRepository{db: db}
}

func (r *RecurringBookingGormRepository) Create(
	ctx context.Context,
	rule *models.RecurringBooking,
) error {
	return httperr.Store("create recurring booking", conn(ctx, r.db).Create(rule).Error)
}

func (r *RecurringBookingGormRepository) Get(
	ctx context.Context,
	tenantID string,
	id string,
) (*models.RecurringBooking, error) {

	var rule models.RecurringBooking
	if err := conn(ctx, r.db).
		Preload("Service").
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("recurring_booking_not_found")
		}
		return nil, httperr.Store("get recurring booking", err)
	}

	return &rule, nil
}

func (r *RecurringBookingGormRepository) List(
	ctx context.Context,
	tenantID string,
) ([]models.RecurringBooking, error) {

	var rules []models.RecurringBooking
	if err := conn(ctx, r.db).
		Preload("Service").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&rules).Error; err != nil {
		return nil, httperr.Store("list recurring bookings", err)
	}

	return rules, nil
}

func (r *RecurringBookingGormRepository) Update(
	ctx context.Context,
	rule *models.RecurringBooking,
) error {
	err := conn(ctx, r.db).
		Model(rule).
		Select("active", "end_date", "updated_at").
		Updates(rule).Error
	return httperr.Store("update recurring booking", err)
}

func (r *RecurringBookingGormRepository) Delete(
	ctx context.Context,
	tenantID string,
	id string,
) error {
	res := conn(ctx, r.db).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&models.RecurringBooking{})
	if res.Error != nil {
		return httperr.Store("delete recurring booking", res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("recurring_booking_not_found")
	}
	return nil
}

func (r *RecurringBookingGormRepository) ListRefreshable(
	ctx context.Context,
	today time.Time,
) ([]models.RecurringBooking, error) {

	var rules []models.RecurringBooking
	if err := conn(ctx, r.db).
		Where("active = ? AND (end_date IS NULL OR end_date >= ?)", true, today.UTC()).
		Order("created_at ASC").
		Find(&rules).Error; err != nil {
		return nil, httperr.Store("list refreshable recurring bookings", err)
	}

	return rules, nil
}

var _ recurrence.RuleStore = (*RecurringBookingGormRepository)(nil)
