package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

// PublicHandler serves the read-only salon pages that need no login.
type PublicHandler struct {
	db *gorm.DB
}

func NewPublicHandler(db *gorm.DB) *PublicHandler {
	return &PublicHandler{db: db}
}

func (h *PublicHandler) tenantBySlug(c *gin.Context) (*models.Tenant, bool) {
	var tenant models.Tenant
	err := h.db.WithContext(c.Request.Context()).
		Where("slug = ?", c.Param("slug")).
		First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "salon_not_found", "Salon not found.")
		} else {
			httperr.Internal(c, "failed_to_load_salon", "Could not load salon.")
		}
		return nil, false
	}
	return &tenant, true
}

// ======================================================
// SERVICES
// ======================================================

func (h *PublicHandler) ListServices(c *gin.Context) {
	tenant, ok := h.tenantBySlug(c)
	if !ok {
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ? AND active = ?", tenant.ID, true)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"salon":    tenant,
		"services": services,
	})
}

// ======================================================
// STAFF
// ======================================================

func (h *PublicHandler) ListStaff(c *gin.Context) {
	tenant, ok := h.tenantBySlug(c)
	if !ok {
		return
	}

	var staff []models.Staff
	if err := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ? AND active = ?", tenant.ID, true).
		Order("name ASC").
		Find(&staff).Error; err != nil {
		httperr.Internal(c, "failed_to_list_staff", "Could not list staff.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"salon": tenant,
		"staff": staff,
	})
}
