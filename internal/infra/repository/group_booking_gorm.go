package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/groupbooking"
)

type GroupBookingGormRepository struct {
	db *gorm.DB
}

func NewGroupBookingGormRepository(db *gorm.DB) *GroupBookingGormRepository {
	return &GroupBookingGormRepository{db: db}
}

func (r *GroupBookingGormRepository) Create(ctx context.Context, g *models.GroupBooking) error {
	return httperr.Store("create group booking", conn(ctx, r.db).Create(g).Error)
}

func (r *GroupBookingGormRepository) Get(ctx context.Context, tenantID, id string) (*models.GroupBooking, error) {
	var g models.GroupBooking
	if err := conn(ctx, r.db).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("group_booking_not_found")
		}
		return nil, httperr.Store("get group booking", err)
	}
	return &g, nil
}

func (r *GroupBookingGormRepository) List(ctx context.Context, tenantID string) ([]models.GroupBooking, error) {
	var groups []models.GroupBooking
	if err := conn(ctx, r.db).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&groups).Error; err != nil {
		return nil, httperr.Store("list group bookings", err)
	}
	return groups, nil
}

func (r *GroupBookingGormRepository) Delete(ctx context.Context, tenantID, id string) error {
	res := conn(ctx, r.db).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&models.GroupBooking{})
	if res.Error != nil {
		return httperr.Store("delete group booking", res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("group_booking_not_found")
	}
	return nil
}

var _ groupbooking.Repository = (*GroupBookingGormRepository)(nil)
