package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/recurrence"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	ucRecurrence "github.com/BruksfildServices01/salon-scheduler/internal/usecase/recurrence"
)

// ======================================================
// HANDLER
// ======================================================

type RecurringBookingHandler struct {
	create      *ucRecurrence.CreateRecurringBooking
	update      *ucRecurrence.UpdateRecurringBooking
	delete      *ucRecurrence.DeleteRecurringBooking
	list        *ucRecurrence.ListRecurringBookings
	materialize *ucRecurrence.MaterializeRecurringBooking
	calendar    *ucRecurrence.ExportCalendar
}

func NewRecurringBookingHandler(
	create *ucRecurrence.CreateRecurringBooking,
	update *ucRecurrence.UpdateRecurringBooking,
	remove *ucRecurrence.DeleteRecurringBooking,
	list *ucRecurrence.ListRecurringBookings,
	materialize *ucRecurrence.MaterializeRecurringBooking,
	calendar *ucRecurrence.ExportCalendar,
) *RecurringBookingHandler {
	return &RecurringBookingHandler{
		create:      create,
		update:      update,
		delete:      remove,
		list:        list,
		materialize: materialize,
		calendar:    calendar,
	}
}

// ======================================================
// REQUESTS / RESPONSES
// ======================================================

type CreateRecurringBookingRequest struct {
	ServiceID     string `json:"service_id"`
	StaffID       string `json:"staff_id"`
	CustomerEmail string `json:"customer_email"`
	Frequency     string `json:"frequency"`
	TimeSlot      string `json:"time_slot"`
	DayOfWeek     *int   `json:"day_of_week"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
}

// UpdateRecurringBookingRequest: end_date null or absent leaves it, ""
// clears it.
type UpdateRecurringBookingRequest struct {
	Active  *bool   `json:"active"`
	EndDate *string `json:"end_date"`
}

type recurringBookingResponse struct {
	*models.RecurringBooking
	Materialized *domain.Summary `json:"materialized,omitempty"`
	Cancelled    *int            `json:"cancelled,omitempty"`
}

// ======================================================
// LIST
// ======================================================

func (h *RecurringBookingHandler) List(c *gin.Context) {
	views, err := h.list.Execute(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, views)
}

// ======================================================
// CREATE
// ======================================================

func (h *RecurringBookingHandler) Create(c *gin.Context) {
	var req CreateRecurringBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	out, err := h.create.Execute(c.Request.Context(), ucRecurrence.CreateRecurringBookingInput{
		TenantID: middleware.TenantID(c),
		Actor:    middleware.Actor(c),
		Draft: domain.Draft{
			ServiceID:     req.ServiceID,
			StaffID:       req.StaffID,
			CustomerEmail: req.CustomerEmail,
			Frequency:     req.Frequency,
			DayOfWeek:     req.DayOfWeek,
			TimeSlot:      req.TimeSlot,
			StartDate:     req.StartDate,
			EndDate:       req.EndDate,
		},
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	summary := out.Report.Summary()
	httpresp.Created(c, recurringBookingResponse{
		RecurringBooking: out.Rule,
		Materialized:     &summary,
	})
}

// ======================================================
// UPDATE
// ======================================================

func (h *RecurringBookingHandler) Update(c *gin.Context) {
	var req UpdateRecurringBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	out, err := h.update.Execute(c.Request.Context(), ucRecurrence.UpdateRecurringBookingInput{
		TenantID: middleware.TenantID(c),
		ID:       c.Param("id"),
		Actor:    middleware.Actor(c),
		Active:   req.Active,
		EndDate:  req.EndDate,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	resp := recurringBookingResponse{RecurringBooking: out.Rule}
	if out.Cancelled > 0 {
		resp.Cancelled = &out.Cancelled
	}
	if out.Report != nil {
		summary := out.Report.Summary()
		resp.Materialized = &summary
	}
	httpresp.OK(c, resp)
}

// ======================================================
// DELETE
// ======================================================

func (h *RecurringBookingHandler) Delete(c *gin.Context) {
	_, err := h.delete.Execute(c.Request.Context(), ucRecurrence.DeleteRecurringBookingInput{
		TenantID: middleware.TenantID(c),
		ID:       c.Param("id"),
		Actor:    middleware.Actor(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.NoContent(c)
}

// ======================================================
// MATERIALIZE
// ======================================================

func (h *RecurringBookingHandler) Materialize(c *gin.Context) {
	report, err := h.materialize.Execute(c.Request.Context(), middleware.TenantID(c), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, gin.H{
		"rule_id":      report.RuleID,
		"materialized": report.Summary(),
	})
}

// ======================================================
// CALENDAR
// ======================================================

func (h *RecurringBookingHandler) Calendar(c *gin.Context) {
	feed, err := h.calendar.Execute(c.Request.Context(), middleware.TenantID(c), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="recurring-booking.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}
