package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/waitinglist"
)

type WaitingListGormRepository struct {
	db *gorm.DB
}

func NewWaitingListGormRepository(db *gorm.DB) *WaitingListGormRepository {
	return &WaitingListGormRepository{db: db}
}

func (r *WaitingListGormRepository) Exists(
	ctx context.Context,
	tenantID string,
	serviceID string,
	email string,
) (bool, error) {

	var count int64
	if err := conn(ctx, r.db).
		Model(&models.WaitingListEntry{}).
		Where("tenant_id = ? AND service_id = ? AND customer_email = ?", tenantID, serviceID, email).
		Count(&count).Error; err != nil {
		return false, httperr.Store("count waiting list", err)
	}
	return count > 0, nil
}

// Create maps the unique index violation of a racing duplicate to a
// conflict.
func (r *WaitingListGormRepository) Create(
	ctx context.Context,
	e *models.WaitingListEntry,
) error {
	err := conn(ctx, r.db).Create(e).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return httperr.ErrConflict("already_on_waiting_list")
	}
	return httperr.Store("create waiting list entry", err)
}

func (r *WaitingListGormRepository) List(
	ctx context.Context,
	tenantID string,
) ([]models.WaitingListEntry, error) {
	return r.find(ctx, "tenant_id = ?", tenantID)
}

func (r *WaitingListGormRepository) ListForService(
	ctx context.Context,
	tenantID string,
	serviceID string,
) ([]models.WaitingListEntry, error) {
	return r.find(ctx, "tenant_id = ? AND service_id = ?", tenantID, serviceID)
}

func (r *WaitingListGormRepository) find(
	ctx context.Context,
	where string,
	args ...any,
) ([]models.WaitingListEntry, error) {

	var entries []models.WaitingListEntry
	if err := conn(ctx, r.db).
		Preload("Service").
		Where(where, args...).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, httperr.Store("list waiting list", err)
	}
	return entries, nil
}

func (r *WaitingListGormRepository) Delete(
	ctx context.Context,
	tenantID string,
	id string,
) error {
	res := conn(ctx, r.db).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&models.WaitingListEntry{})
	if res.Error != nil {
		return httperr.Store("delete waiting list entry", res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("waiting_list_entry_not_found")
	}
	return nil
}

var _ waitinglist.Repository = (*WaitingListGormRepository)(nil)
