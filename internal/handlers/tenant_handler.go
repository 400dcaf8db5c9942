package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type TenantHandler struct {
	db *gorm.DB
}

func NewTenantHandler(db *gorm.DB) *TenantHandler {
	return &TenantHandler{db: db}
}

type UpdateTenantRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func (h *TenantHandler) load(c *gin.Context) (*models.Tenant, bool) {
	var tenant models.Tenant
	if err := h.db.WithContext(c.Request.Context()).
		First(&tenant, "id = ?", middleware.TenantID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "tenant_not_found", "Salon not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_tenant", "Could not load salon.")
		return nil, false
	}
	return &tenant, true
}

func (h *TenantHandler) Get(c *gin.Context) {
	tenant, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandler) Update(c *gin.Context) {
	tenant, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.Unprocessable(c, "invalid_name", "Name must not be empty.")
			return
		}
		tenant.Name = name
	}
	if req.Phone != nil {
		tenant.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		tenant.Address = strings.TrimSpace(*req.Address)
	}

	if err := h.db.WithContext(c.Request.Context()).Save(tenant).Error; err != nil {
		httperr.Internal(c, "failed_to_update_tenant", "Could not save salon.")
		return
	}

	c.JSON(http.StatusOK, tenant)
}
