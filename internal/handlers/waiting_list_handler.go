package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/waitinglist"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

type WaitingListHandler struct {
	svc          *waitinglist.Service
	verifyDomain bool
}

func NewWaitingListHandler(svc *waitinglist.Service, verifyDomain bool) *WaitingListHandler {
	return &WaitingListHandler{svc: svc, verifyDomain: verifyDomain}
}

// --------- Requests ---------

type JoinWaitingListRequest struct {
	ServiceID     string `json:"service_id"`
	StaffID       string `json:"staff_id"`
	CustomerEmail string `json:"customer_email"`
	PreferredDate string `json:"preferred_date"`
}

type NotifyWaitingListRequest struct {
	ServiceID     string `json:"service_id"`
	StaffID       string `json:"staff_id"`
	AvailableDate string `json:"available_date"`
	AvailableTime string `json:"available_time"`
}

// --------- Handlers ---------

// Join is public; the tenant comes from the tenant header.
func (h *WaitingListHandler) Join(c *gin.Context) {
	var req JoinWaitingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if h.verifyDomain && req.CustomerEmail != "" && !validators.IsEmailDomainValid(req.CustomerEmail) {
		httperr.Unprocessable(c, "invalid_email_domain", "Email domain does not accept mail.")
		return
	}

	entry, err := h.svc.Join(c.Request.Context(), waitinglist.JoinInput{
		TenantID:      middleware.TenantID(c),
		ServiceID:     req.ServiceID,
		StaffID:       req.StaffID,
		CustomerEmail: req.CustomerEmail,
		PreferredDate: req.PreferredDate,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, entry)
}

func (h *WaitingListHandler) List(c *gin.Context) {
	entries, err := h.svc.List(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, entries)
}

func (h *WaitingListHandler) Notify(c *gin.Context) {
	var req NotifyWaitingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	n, err := h.svc.Notify(c.Request.Context(), waitinglist.NotifyInput{
		TenantID:      middleware.TenantID(c),
		Actor:         middleware.Actor(c),
		ServiceID:     req.ServiceID,
		StaffID:       req.StaffID,
		AvailableDate: req.AvailableDate,
		AvailableTime: req.AvailableTime,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, gin.H{"notified": n})
}

func (h *WaitingListHandler) Delete(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), middleware.TenantID(c), c.Param("id"), middleware.Actor(c)); err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.NoContent(c)
}
