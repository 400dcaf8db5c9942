package portfolio_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/imaging"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/storage"
	"github.com/BruksfildServices01/salon-scheduler/internal/testfixtures"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/portfolio"
)

type env struct {
	svc   *portfolio.Service
	db    *gorm.DB
	dir   string
	salon testfixtures.Salon
}

func setup(t *testing.T) env {
	t.Helper()
	db := testfixtures.NewDB(t)
	salon := testfixtures.SeedSalon(t, db, "schnittwerk")

	dir := t.TempDir()
	images, err := storage.NewLocalStore(dir, "/uploads/portfolio")
	require.NoError(t, err)

	svc := portfolio.NewService(
		repository.NewPortfolioGormRepository(db),
		repository.NewStaffGormRepository(db),
		images,
		nil,
		nil,
	)
	return env{svc: svc, db: db, dir: dir, salon: salon}
}

func pngUpload(t *testing.T, w, h int) *portfolio.Upload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 120, G: 60, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	up, err := portfolio.ReadAll("image/png", &buf)
	require.NoError(t, err)
	return up
}

func files(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestCreate_StoresWebP(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	item, err := e.svc.Create(ctx, portfolio.CreateInput{
		TenantID: e.salon.Tenant.ID,
		StaffID:  e.salon.Staff.ID,
		Title:    "  Balayage ",
		Category: "color",
		Featured: true,
		Image:    pngUpload(t, 1000, 1000),
	})
	require.NoError(t, err)

	assert.Equal(t, "Balayage", item.Title)
	assert.Equal(t, "/uploads/portfolio/"+item.ImageKey, item.ImageURL)
	assert.Equal(t, []string{item.ImageKey}, files(t, e.dir))
	assert.Equal(t, ".webp", filepath.Ext(item.ImageKey))
}

func TestCreate_Rejections(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	_, err := e.svc.Create(ctx, portfolio.CreateInput{
		TenantID: e.salon.Tenant.ID,
		StaffID:  e.salon.Staff.ID,
		Image:    pngUpload(t, 10, 10),
	})
	assert.True(t, httperr.IsBusiness(err, "title_and_image_required"))

	_, err = e.svc.Create(ctx, portfolio.CreateInput{
		TenantID: e.salon.Tenant.ID,
		StaffID:  "missing",
		Title:    "Cut",
		Image:    pngUpload(t, 10, 10),
	})
	assert.True(t, httperr.IsNotFound(err))

	pdf := &portfolio.Upload{ContentType: "application/pdf", Size: 10, Body: bytes.NewReader([]byte("%PDF"))}
	_, err = e.svc.Create(ctx, portfolio.CreateInput{
		TenantID: e.salon.Tenant.ID,
		StaffID:  e.salon.Staff.ID,
		Title:    "Cut",
		Image:    pdf,
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_file_type"))

	huge := &portfolio.Upload{ContentType: "image/png", Size: imaging.MaxUploadBytes + 1, Body: bytes.NewReader(nil)}
	_, err = e.svc.Create(ctx, portfolio.CreateInput{
		TenantID: e.salon.Tenant.ID,
		StaffID:  e.salon.Staff.ID,
		Title:    "Cut",
		Image:    huge,
	})
	assert.True(t, httperr.IsBusiness(err, "file_too_large"))

	assert.Empty(t, files(t, e.dir))
}

func TestList_Ordering(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	base := time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)
	for i, spec := range []struct {
		title    string
		featured bool
	}{
		{"oldest featured", true},
		{"middle", false},
		{"newest", false},
	} {
		require.NoError(t, e.db.Create(&models.PortfolioItem{
			TenantID:  e.salon.Tenant.ID,
			StaffID:   e.salon.Staff.ID,
			Title:     spec.title,
			Featured:  spec.featured,
			ImageURL:  "/uploads/portfolio/x.webp",
			ImageKey:  "x.webp",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}).Error)
	}

	titles := func(items []models.PortfolioItem) []string {
		var out []string
		for _, it := range items {
			out = append(out, it.Title)
		}
		return out
	}

	public, err := e.svc.ListPublic(ctx, e.salon.Tenant.ID, e.salon.Staff.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"oldest featured", "newest", "middle"}, titles(public))

	admin, err := e.svc.ListAdmin(ctx, e.salon.Tenant.ID, e.salon.Staff.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "middle", "oldest featured"}, titles(admin))
}

func TestUpdateAndDelete(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	item, err := e.svc.Create(ctx, portfolio.CreateInput{
		TenantID: e.salon.Tenant.ID,
		StaffID:  e.salon.Staff.ID,
		Title:    "Bob",
		Featured: true,
		Image:    pngUpload(t, 50, 50),
	})
	require.NoError(t, err)

	off := false
	desc := "kinnlang"
	updated, err := e.svc.Update(ctx, portfolio.UpdateInput{
		TenantID:    e.salon.Tenant.ID,
		StaffID:     e.salon.Staff.ID,
		ID:          item.ID,
		Description: &desc,
		Featured:    &off,
	})
	require.NoError(t, err)
	assert.False(t, updated.Featured)
	assert.Equal(t, "Bob", updated.Title)

	var stored models.PortfolioItem
	require.NoError(t, e.db.First(&stored, "id = ?", item.ID).Error)
	assert.False(t, stored.Featured)
	assert.Equal(t, "kinnlang", stored.Description)

	_, err = e.svc.Update(ctx, portfolio.UpdateInput{
		TenantID: e.salon.Tenant.ID,
		StaffID:  "someone-else",
		ID:       item.ID,
	})
	assert.True(t, httperr.IsNotFound(err), "item must belong to the staff in the path")

	require.NoError(t, e.svc.Delete(ctx, e.salon.Tenant.ID, e.salon.Staff.ID, item.ID, "owner@salon.ch"))
	assert.Empty(t, files(t, e.dir))

	err = e.svc.Delete(ctx, e.salon.Tenant.ID, e.salon.Staff.ID, item.ID, "owner@salon.ch")
	assert.True(t, httperr.IsNotFound(err))
}

func TestUploadAvatar_ReplacesPrevious(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	first, err := e.svc.UploadAvatar(ctx, e.salon.Tenant.ID, e.salon.Staff.ID, "owner@salon.ch", pngUpload(t, 600, 300))
	require.NoError(t, err)
	firstKey := first.ImageKey

	second, err := e.svc.UploadAvatar(ctx, e.salon.Tenant.ID, e.salon.Staff.ID, "owner@salon.ch", pngUpload(t, 300, 600))
	require.NoError(t, err)

	assert.NotEqual(t, firstKey, second.ImageKey)
	assert.Equal(t, []string{second.ImageKey}, files(t, e.dir))

	var st models.Staff
	require.NoError(t, e.db.First(&st, "id = ?", e.salon.Staff.ID).Error)
	assert.Equal(t, second.ImageURL, st.ImageURL)
}
