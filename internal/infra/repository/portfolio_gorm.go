package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/portfolio"
)

type PortfolioGormRepository struct {
	db *gorm.DB
}

func NewPortfolioGormRepository(db *gorm.DB) *PortfolioGormRepository {
	return &PortfolioGormRepository{db: db}
}

func (r *PortfolioGormRepository) Create(ctx context.Context, p *models.PortfolioItem) error {
	return httperr.Store("create portfolio item", conn(ctx, r.db).Create(p).Error)
}

func (r *PortfolioGormRepository) Get(ctx context.Context, tenantID, staffID, id string) (*models.PortfolioItem, error) {
	var p models.PortfolioItem
	if err := conn(ctx, r.db).
		Where("id = ? AND tenant_id = ? AND staff_id = ?", id, tenantID, staffID).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("portfolio_item_not_found")
		}
		return nil, httperr.Store("get portfolio item", err)
	}
	return &p, nil
}

func (r *PortfolioGormRepository) List(
	ctx context.Context,
	tenantID string,
	staffID string,
	featuredFirst bool,
) ([]models.PortfolioItem, error) {

	q := conn(ctx, r.db).Where("tenant_id = ? AND staff_id = ?", tenantID, staffID)
	if featuredFirst {
		q = q.Order("featured DESC")
	}

	var items []models.PortfolioItem
	if err := q.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, httperr.Store("list portfolio", err)
	}
	return items, nil
}

func (r *PortfolioGormRepository) Update(ctx context.Context, p *models.PortfolioItem) error {
	err := conn(ctx, r.db).
		Model(p).
		Select("title", "description", "category", "featured", "updated_at").
		Updates(p).Error
	return httperr.Store("update portfolio item", err)
}

func (r *PortfolioGormRepository) Delete(ctx context.Context, tenantID, id string) error {
	res := conn(ctx, r.db).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Delete(&models.PortfolioItem{})
	if res.Error != nil {
		return httperr.Store("delete portfolio item", res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("portfolio_item_not_found")
	}
	return nil
}

var _ portfolio.Repository = (*PortfolioGormRepository)(nil)
var _ portfolio.StaffStore = (*StaffGormRepository)(nil)
