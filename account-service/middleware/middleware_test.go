package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"madajob-backend/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc", "abc"},
		{"Basic dXNlcjpwYXNz", ""},
		{"Bearer", ""},
		{"abc.def.ghi", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.want, ExtractTokenFromHeader(req), tt.header)
	}
}

func TestClientCacheMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(ClientCacheMiddleware(60))
	router.GET("/thing", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/thing", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/private", NoStore(), func(c *gin.Context) { c.Status(http.StatusOK) })

	get := httptest.NewRecorder()
	router.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/thing", nil))
	assert.Equal(t, "public, max-age=60", get.Header().Get("Cache-Control"))

	authed := httptest.NewRequest(http.MethodGet, "/thing", nil)
	authed.Header.Set("Authorization", "Bearer abc")
	authedRec := httptest.NewRecorder()
	router.ServeHTTP(authedRec, authed)
	assert.Equal(t, "private, max-age=60", authedRec.Header().Get("Cache-Control"))

	post := httptest.NewRecorder()
	router.ServeHTTP(post, httptest.NewRequest(http.MethodPost, "/thing", nil))
	assert.Empty(t, post.Header().Get("Cache-Control"))

	private := httptest.NewRecorder()
	router.ServeHTTP(private, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, "no-store", private.Header().Get("Cache-Control"))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/ping", func(c *gin.Context) {
		logger.FromContext(c.Request.Context()).Info("inside")
		c.Status(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))
	require.Equal(t, 2, logs.Len())
	for _, entry := range logs.All() {
		assert.Equal(t, "req-1", entry.ContextMap()["request_id"])
	}
	assert.Equal(t, int64(http.StatusTeapot), logs.All()[1].ContextMap()["status"])
}

func TestRequestLogger_GeneratesID(t *testing.T) {
	router := gin.New()
	router.Use(RequestLogger(zap.NewNop()))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)
}
