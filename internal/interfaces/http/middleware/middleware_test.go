package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := serve(r, req)
	assert.Equal(t, "abc-123", rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("x", 200))
	rec = serve(r, req)
	assert.Len(t, rec.Body.String(), 36)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery(logging.NewNopLogger()))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
	assert.NotContains(t, rec.Body.String(), "kaboom")
}

func TestTokenBucketLimiter(t *testing.T) {
	l := NewTokenBucketLimiter(1, 2, 0)
	defer l.Stop()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	ok, info := l.Allow("a")
	assert.True(t, ok)
	assert.Equal(t, 1, info.Remaining)
	ok, _ = l.Allow("a")
	assert.True(t, ok)
	ok, _ = l.Allow("a")
	assert.False(t, ok)

	// other keys have their own bucket
	ok, _ = l.Allow("b")
	assert.True(t, ok)
	assert.Equal(t, 2, l.BucketCount())

	now = now.Add(time.Second)
	ok, _ = l.Allow("a")
	assert.True(t, ok)
}

func TestTokenBucketLimiter_Sweep(t *testing.T) {
	l := NewTokenBucketLimiter(1, 1, time.Minute)
	defer l.Stop()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = now.Add(30 * time.Second)
	l.Allow("b")
	now = now.Add(45 * time.Second)
	l.sweep()
	assert.Equal(t, 1, l.BucketCount())

	l.Stop()
	l.Stop()
}

func TestAdminAuth(t *testing.T) {
	auth := NewAdminAuth([]string{"k1", " k2 "}, logging.NewNopLogger())
	require.True(t, auth.Enabled())

	r := gin.New()
	r.POST("/admin", auth.Handler(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		name   string
		header string
		value  string
		status int
	}{
		{"no credential", "", "", http.StatusUnauthorized},
		{"bearer", "Authorization", "Bearer k1", http.StatusNoContent},
		{"bearer lowercase scheme", "Authorization", "bearer k2", http.StatusNoContent},
		{"api key header", HeaderAPIKey, "k2", http.StatusNoContent},
		{"wrong key", HeaderAPIKey, "k3", http.StatusUnauthorized},
		{"basic scheme", "Authorization", "Basic azE=", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			assert.Equal(t, tt.status, serve(r, req).Code)
		})
	}
}

func TestCORS_Wildcard(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = []string{"*.tjsp.jus.br"}
	cfg.AllowWildcard = true

	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://esaj.tjsp.jus.br")
	rec := serve(r, req)
	assert.Equal(t, "https://esaj.tjsp.jus.br", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), HeaderRequestID)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://tjsp.jus.br.evil.com")
	rec = serve(r, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

//Personal.AI order the ending
