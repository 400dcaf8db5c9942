package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/recurrence"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type ServiceGormRepository struct {
	db *gorm.DB
}

func NewServiceGormRepository(db *gorm.DB) *ServiceGormRepository {
	return &ServiceGormRepository{db: db}
}

// GetService resolves a service of the tenant. A service of another tenant
// is reported as not found.
func (r *ServiceGormRepository) GetService(
	ctx context.Context,
	tenantID string,
	serviceID string,
) (*models.Service, error) {

	var svc models.Service
	if err := conn(ctx, r.db).
		Where("id = ? AND tenant_id = ?", serviceID, tenantID).
		First(&svc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("service_not_found")
		}
		return nil, httperr.Store("get service", err)
	}

	return &svc, nil
}

var _ recurrence.ServiceLookup = (*ServiceGormRepository)(nil)
