package testfixtures

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// Salon is a seeded tenant with one staff member and one service.
type Salon struct {
	Tenant  models.Tenant
	Staff   models.Staff
	Service models.Service
}

// SeedSalon inserts a tenant, a staff member and a 60 minute service.
func SeedSalon(t *testing.T, db *gorm.DB, slug string) Salon {
	t.Helper()

	s := Salon{
		Tenant: models.Tenant{Name: "Salon " + slug, Slug: slug},
	}
	mustCreate(t, db, &s.Tenant)

	s.Staff = models.Staff{TenantID: s.Tenant.ID, Name: "Mara", Active: true}
	mustCreate(t, db, &s.Staff)

	s.Service = models.Service{
		TenantID:    s.Tenant.ID,
		Name:        "Haarschnitt",
		DurationMin: 60,
		Price:       decimal.RequireFromString("65.00"),
		Active:      true,
	}
	mustCreate(t, db, &s.Service)

	return s
}

// AddService inserts another service for the tenant.
func AddService(t *testing.T, db *gorm.DB, tenantID string, minutes int) models.Service {
	t.Helper()
	svc := models.Service{
		TenantID:    tenantID,
		Name:        "Service",
		DurationMin: minutes,
		Price:       decimal.NewFromInt(40),
		Active:      true,
	}
	mustCreate(t, db, &svc)
	return svc
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("seed %T: %v", v, err)
	}
}
