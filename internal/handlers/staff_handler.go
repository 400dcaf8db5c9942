package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

type StaffHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewStaffHandler(db *gorm.DB, audit *audit.Dispatcher) *StaffHandler {
	return &StaffHandler{db: db, audit: audit}
}

type CreateStaffRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
}

type UpdateStaffRequest struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

func (h *StaffHandler) List(c *gin.Context) {
	var staff []models.Staff
	if err := h.db.WithContext(c.Request.Context()).
		Where("tenant_id = ?", middleware.TenantID(c)).
		Order("name ASC").
		Find(&staff).Error; err != nil {
		httperr.Internal(c, "failed_to_list_staff", "Could not list staff.")
		return
	}
	c.JSON(http.StatusOK, staff)
}

func (h *StaffHandler) Create(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Unprocessable(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != "" && !validators.IsEmail(email) {
		httperr.Unprocessable(c, "invalid_email", "Invalid email address.")
		return
	}

	staff := models.Staff{
		TenantID: tenantID,
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Active:   true,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&staff).Error; err != nil {
		httperr.Internal(c, "failed_to_create_staff", "Could not create staff member.")
		return
	}

	h.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		Actor:    middleware.Actor(c),
		Action:   "staff_created",
		Entity:   "staff",
		EntityID: staff.ID,
	})

	c.JSON(http.StatusCreated, staff)
}

func (h *StaffHandler) Update(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	db := h.db.WithContext(c.Request.Context())

	var staff models.Staff
	if err := db.
		Where("id = ? AND tenant_id = ?", c.Param("staffId"), tenantID).
		First(&staff).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "staff_not_found", "Staff member not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_staff", "Could not load staff member.")
		return
	}

	var req UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.Unprocessable(c, "name_required", "Name is required.")
			return
		}
		staff.Name = name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != "" && !validators.IsEmail(email) {
			httperr.Unprocessable(c, "invalid_email", "Invalid email address.")
			return
		}
		staff.Email = email
	}
	if req.Active != nil {
		staff.Active = *req.Active
	}

	if err := db.Save(&staff).Error; err != nil {
		httperr.Internal(c, "failed_to_update_staff", "Could not update staff member.")
		return
	}

	h.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		Actor:    middleware.Actor(c),
		Action:   "staff_updated",
		Entity:   "staff",
		EntityID: staff.ID,
	})

	c.JSON(http.StatusOK, staff)
}
