package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type StaffGormRepository struct {
	db *gorm.DB
}

func NewStaffGormRepository(db *gorm.DB) *StaffGormRepository {
	return &StaffGormRepository{db: db}
}

func (r *StaffGormRepository) GetStaff(
	ctx context.Context,
	tenantID string,
	staffID string,
) (*models.Staff, error) {

	var st models.Staff
	if err := conn(ctx, r.db).
		Where("id = ? AND tenant_id = ?", staffID, tenantID).
		First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("staff_not_found")
		}
		return nil, httperr.Store("get staff", err)
	}

	return &st, nil
}

func (r *StaffGormRepository) UpdateImage(
	ctx context.Context,
	st *models.Staff,
) error {
	err := conn(ctx, r.db).
		Model(st).
		Select("image_url", "image_key", "updated_at").
		Updates(st).Error
	return httperr.Store("update staff image", err)
}
