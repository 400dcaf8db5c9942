package portfolio

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/imaging"
	"github.com/BruksfildServices01/salon-scheduler/internal/logging"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/storage"
)

type Repository interface {
	Create(ctx context.Context, p *models.PortfolioItem) error
	Get(ctx context.Context, tenantID, staffID, id string) (*models.PortfolioItem, error)
	List(ctx context.Context, tenantID, staffID string, featuredFirst bool) ([]models.PortfolioItem, error)
	Update(ctx context.Context, p *models.PortfolioItem) error
	Delete(ctx context.Context, tenantID, id string) error
}

type StaffStore interface {
	GetStaff(ctx context.Context, tenantID, staffID string) (*models.Staff, error)
	UpdateImage(ctx context.Context, st *models.Staff) error
}

// ======================================================
// SERVICE
// ======================================================

type Service struct {
	items  Repository
	staff  StaffStore
	images storage.ImageStore
	audit  *audit.Dispatcher
	logger *slog.Logger
}

func NewService(
	items Repository,
	staff StaffStore,
	images storage.ImageStore,
	audit *audit.Dispatcher,
	logger *slog.Logger,
) *Service {
	return &Service{
		items:  items,
		staff:  staff,
		images: images,
		audit:  audit,
		logger: logging.Default(logger),
	}
}

// Upload is the raw file as received from the client.
type Upload struct {
	ContentType string
	Size        int64
	Body        io.Reader
}

// store validates, resizes and persists an upload, returning its key and URL.
func (s *Service) store(ctx context.Context, up *Upload, box imaging.Size) (string, string, error) {
	if up == nil || up.Body == nil {
		return "", "", httperr.ErrValidation("image_required")
	}
	if err := imaging.CheckUpload(up.ContentType, up.Size); err != nil {
		return "", "", err
	}

	data, err := imaging.Process(up.Body, box)
	if err != nil {
		return "", "", err
	}

	key := uuid.NewString() + ".webp"
	url, err := s.images.Put(ctx, key, data, imaging.ContentType)
	if err != nil {
		return "", "", err
	}
	return key, url, nil
}

// removeImage is best effort; a dangling file never blocks the caller.
func (s *Service) removeImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		s.logger.Warn("image delete failed", "key", key, "err", err)
	}
}

// ------------------------------------------------------
// Public / admin listing
// ------------------------------------------------------

// ListPublic orders featured work first, then newest.
func (s *Service) ListPublic(ctx context.Context, tenantID, staffID string) ([]models.PortfolioItem, error) {
	return s.items.List(ctx, tenantID, staffID, true)
}

func (s *Service) ListAdmin(ctx context.Context, tenantID, staffID string) ([]models.PortfolioItem, error) {
	return s.items.List(ctx, tenantID, staffID, false)
}

// ------------------------------------------------------
// Create
// ------------------------------------------------------

type CreateInput struct {
	TenantID    string
	StaffID     string
	Actor       string
	Title       string
	Description string
	Category    string
	Featured    bool
	Image       *Upload
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.PortfolioItem, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.Image == nil {
		return nil, httperr.ErrValidation("title_and_image_required")
	}

	if _, err := s.staff.GetStaff(ctx, in.TenantID, in.StaffID); err != nil {
		return nil, err
	}

	key, url, err := s.store(ctx, in.Image, imaging.Portfolio)
	if err != nil {
		return nil, err
	}

	item := &models.PortfolioItem{
		TenantID:    in.TenantID,
		StaffID:     in.StaffID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Featured:    in.Featured,
		ImageURL:    url,
		ImageKey:    key,
	}
	if err := s.items.Create(ctx, item); err != nil {
		s.removeImage(ctx, key)
		return nil, err
	}

	s.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		Actor:    in.Actor,
		Action:   "create",
		Entity:   "portfolio_item",
		EntityID: item.ID,
		Metadata: map[string]any{"staff_id": in.StaffID, "title": title},
	})

	return item, nil
}

// ------------------------------------------------------
// Update
// ------------------------------------------------------

// UpdateInput carries metadata only; nil fields are left untouched.
type UpdateInput struct {
	TenantID    string
	StaffID     string
	ID          string
	Actor       string
	Title       *string
	Description *string
	Category    *string
	Featured    *bool
}

func (s *Service) Update(ctx context.Context, in UpdateInput) (*models.PortfolioItem, error) {
	item, err := s.items.Get(ctx, in.TenantID, in.StaffID, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, httperr.ErrValidation("title_required")
		}
		item.Title = title
	}
	if in.Description != nil {
		item.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		item.Category = strings.TrimSpace(*in.Category)
	}
	if in.Featured != nil {
		item.Featured = *in.Featured
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}

	s.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		Actor:    in.Actor,
		Action:   "update",
		Entity:   "portfolio_item",
		EntityID: item.ID,
	})

	return item, nil
}

// ------------------------------------------------------
// Delete
// ------------------------------------------------------

func (s *Service) Delete(ctx context.Context, tenantID, staffID, id, actor string) error {
	item, err := s.items.Get(ctx, tenantID, staffID, id)
	if err != nil {
		return err
	}

	s.removeImage(ctx, item.ImageKey)

	if err := s.items.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		Actor:    actor,
		Action:   "delete",
		Entity:   "portfolio_item",
		EntityID: id,
	})
	return nil
}

// ------------------------------------------------------
// Staff avatar
// ------------------------------------------------------

// UploadAvatar replaces the staff picture with a 400x400 WebP.
func (s *Service) UploadAvatar(ctx context.Context, tenantID, staffID, actor string, up *Upload) (*models.Staff, error) {
	st, err := s.staff.GetStaff(ctx, tenantID, staffID)
	if err != nil {
		return nil, err
	}

	key, url, err := s.store(ctx, up, imaging.Avatar)
	if err != nil {
		return nil, err
	}

	previous := st.ImageKey
	st.ImageURL = url
	st.ImageKey = key
	if err := s.staff.UpdateImage(ctx, st); err != nil {
		s.removeImage(ctx, key)
		return nil, err
	}
	s.removeImage(ctx, previous)

	s.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		Actor:    actor,
		Action:   "upload_image",
		Entity:   "staff",
		EntityID: staffID,
	})

	return st, nil
}

// ReadAll buffers a multipart file so its size is known before processing.
func ReadAll(contentType string, r io.Reader) (*Upload, error) {
	data, err := io.ReadAll(io.LimitReader(r, imaging.MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	return &Upload{ContentType: contentType, Size: int64(len(data)), Body: bytes.NewReader(data)}, nil
}
