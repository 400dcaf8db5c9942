package recurrence

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// RuleStore persists recurring bookings, always scoped by tenant.
type RuleStore interface {
	Create(ctx context.Context, rule *models.RecurringBooking) error
	Get(ctx context.Context, tenantID, id string) (*models.RecurringBooking, error)
	List(ctx context.Context, tenantID string) ([]models.RecurringBooking, error)
	Update(ctx context.Context, rule *models.RecurringBooking) error
	Delete(ctx context.Context, tenantID, id string) error

	// ListRefreshable returns active rules, across tenants, whose end date
	// is absent or not before the given date.
	ListRefreshable(ctx context.Context, today time.Time) ([]models.RecurringBooking, error)
}

// ServiceLookup resolves a tenant's service.
type ServiceLookup interface {
	GetService(ctx context.Context, tenantID, serviceID string) (*models.Service, error)
}
