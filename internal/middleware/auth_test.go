package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func router(cfg *config.Config, roles ...string) *gin.Engine {
	r := gin.New()
	r.GET("/x", AuthMiddleware(cfg), RequireRole(roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tenant": TenantID(c), "actor": Actor(c)})
	})
	return r
}

func get(r http.Handler, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret"}
	r := router(cfg, "owner", "admin")

	valid := sign(t, "s3cret", jwt.MapClaims{
		"sub":      "u-1",
		"tenantId": "t-1",
		"role":     "admin",
		"email":    "admin@salon.ch",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	w := get(r, "Bearer "+valid)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tenant":"t-1","actor":"admin@salon.ch"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Token "+valid).Code)

	forged := sign(t, "other", jwt.MapClaims{"sub": "u-1", "tenantId": "t-1", "role": "admin"})
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+forged).Code)

	expired := sign(t, "s3cret", jwt.MapClaims{
		"sub": "u-1", "tenantId": "t-1", "role": "admin",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+expired).Code)

	noTenant := sign(t, "s3cret", jwt.MapClaims{"sub": "u-1", "role": "admin"})
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+noTenant).Code)
}

func TestRequireRole(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret"}
	r := router(cfg, "owner", "admin")

	staff := sign(t, "s3cret", jwt.MapClaims{"sub": "u-2", "tenantId": "t-1", "role": "staff"})
	assert.Equal(t, http.StatusForbidden, get(r, "Bearer "+staff).Code)
}

func TestPublicTenant(t *testing.T) {
	r := gin.New()
	r.GET("/p", PublicTenant(), func(c *gin.Context) {
		c.String(http.StatusOK, TenantID(c))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set(TenantHeader, " t-9 ")
	r.ServeHTTP(w, req)
	assert.Equal(t, "t-9", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/p", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://schnittwerk.ch")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://schnittwerk.ch", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), TenantHeader)
}

func TestCORS_AllowList(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://schnittwerk.ch/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	preflight := func(origin string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/x", nil)
		req.Header.Set("Origin", origin)
		r.ServeHTTP(w, req)
		return w
	}

	w := preflight("https://Schnittwerk.ch")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://Schnittwerk.ch", w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight("https://evil.example")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	// plain requests still reach the handler, the browser enforces the rest
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
