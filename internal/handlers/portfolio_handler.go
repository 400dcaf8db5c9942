package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/imaging"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/portfolio"
)

type PortfolioHandler struct {
	svc *portfolio.Service
}

func NewPortfolioHandler(svc *portfolio.Service) *PortfolioHandler {
	return &PortfolioHandler{svc: svc}
}

// --------- Requests ---------

type UpdatePortfolioItemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Featured    *bool   `json:"featured"`
}

// readImage pulls the "image" part. A missing part yields nil so the use
// case reports the validation error.
func readImage(c *gin.Context) (*portfolio.Upload, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, nil
	}
	if err := imaging.CheckUpload(fh.Header.Get("Content-Type"), fh.Size); err != nil {
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return portfolio.ReadAll(fh.Header.Get("Content-Type"), f)
}

// --------- Handlers ---------

func (h *PortfolioHandler) ListPublic(c *gin.Context) {
	items, err := h.svc.ListPublic(c.Request.Context(), middleware.TenantID(c), c.Param("staffId"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, items)
}

func (h *PortfolioHandler) ListAdmin(c *gin.Context) {
	items, err := h.svc.ListAdmin(c.Request.Context(), middleware.TenantID(c), c.Param("staffId"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, items)
}

func (h *PortfolioHandler) Create(c *gin.Context) {
	img, err := readImage(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	featured, _ := strconv.ParseBool(c.PostForm("featured"))

	item, err := h.svc.Create(c.Request.Context(), portfolio.CreateInput{
		TenantID:    middleware.TenantID(c),
		StaffID:     c.Param("staffId"),
		Actor:       middleware.Actor(c),
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Featured:    featured,
		Image:       img,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, item)
}

func (h *PortfolioHandler) Update(c *gin.Context) {
	var req UpdatePortfolioItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	item, err := h.svc.Update(c.Request.Context(), portfolio.UpdateInput{
		TenantID:    middleware.TenantID(c),
		StaffID:     c.Param("staffId"),
		ID:          c.Param("id"),
		Actor:       middleware.Actor(c),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Featured:    req.Featured,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, item)
}

func (h *PortfolioHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), middleware.TenantID(c), c.Param("staffId"), c.Param("id"), middleware.Actor(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.NoContent(c)
}

func (h *PortfolioHandler) UploadAvatar(c *gin.Context) {
	img, err := readImage(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	st, err := h.svc.UploadAvatar(c.Request.Context(), middleware.TenantID(c), c.Param("staffId"), middleware.Actor(c), img)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, st)
}
