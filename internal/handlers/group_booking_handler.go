package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/groupbooking"
)

type GroupBookingHandler struct {
	svc *groupbooking.Service
}

func NewGroupBookingHandler(svc *groupbooking.Service) *GroupBookingHandler {
	return &GroupBookingHandler{svc: svc}
}

// --------- Requests ---------

type GroupMemberRequest struct {
	ServiceID     string `json:"service_id"`
	StaffID       string `json:"staff_id"`
	CustomerEmail string `json:"customer_email"`
	StartAt       string `json:"start_at"` // RFC 3339
}

type CreateGroupBookingRequest struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	MaxSize     int                  `json:"max_size"`
	Bookings    []GroupMemberRequest `json:"bookings"`
}

// --------- Handlers ---------

func (h *GroupBookingHandler) Create(c *gin.Context) {
	var req CreateGroupBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	members := make([]groupbooking.Member, 0, len(req.Bookings))
	for _, b := range req.Bookings {
		members = append(members, groupbooking.Member{
			ServiceID:     b.ServiceID,
			StaffID:       b.StaffID,
			CustomerEmail: b.CustomerEmail,
			StartAt:       b.StartAt,
		})
	}

	out, err := h.svc.Create(c.Request.Context(), groupbooking.CreateInput{
		TenantID:    middleware.TenantID(c),
		Actor:       middleware.Actor(c),
		Name:        req.Name,
		Description: req.Description,
		MaxSize:     req.MaxSize,
		Members:     members,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	skipped := out.Skipped
	if skipped == nil {
		skipped = []groupbooking.SkippedMember{}
	}
	httpresp.Created(c, gin.H{
		"group":   out.Group,
		"skipped": skipped,
	})
}

func (h *GroupBookingHandler) List(c *gin.Context) {
	groups, err := h.svc.List(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, groups)
}

func (h *GroupBookingHandler) Delete(c *gin.Context) {
	if _, err := h.svc.Delete(c.Request.Context(), middleware.TenantID(c), c.Param("id"), middleware.Actor(c)); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.NoContent(c)
}
