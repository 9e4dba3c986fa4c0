package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classfee-api/internal/service"
)

func TestMetricsMiddlewareRecordsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()

	router := gin.New()
	router.Use(Metrics(metrics))
	router.GET("/classes/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/classes/class1", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.EqualValues(t, 3, metrics.Snapshot().RequestsTotal)
	assert.Equal(t, map[string]uint64{"classes": 3}, metrics.Snapshot().RequestsByResource)
}

func TestMetricsMiddlewareGroupsByResource(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()

	router := gin.New()
	router.Use(Metrics(metrics))
	api := router.Group("/api/v1")
	api.PATCH("/payments/:id/status", func(c *gin.Context) { c.Status(http.StatusOK) })
	api.GET("/dashboard", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPatch, "/api/v1/payments/p1/status", nil),
		httptest.NewRequest(http.MethodPatch, "/api/v1/payments/p2/status", nil),
		httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil),
		httptest.NewRequest(http.MethodGet, "/health", nil),
		httptest.NewRequest(http.MethodGet, "/wp-login.php", nil),
	} {
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, map[string]uint64{
		"payments":  2,
		"dashboard": 1,
		"system":    1,
		"unmatched": 1,
	}, metrics.Snapshot().RequestsByResource)
}

func TestResource(t *testing.T) {
	assert.Equal(t, "students", Resource("/api/v1/students/:id"))
	assert.Equal(t, "classes", Resource("/api/v1/classes/:id/eligible-students"))
	assert.Equal(t, "system", Resource("/ready"))
	assert.Equal(t, "unmatched", Resource(""))
}

func TestMetricsMiddlewareNilService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Metrics(nil))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestResponseMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, ExtractMeta(c))
	SetCacheHit(c, true)
	assert.Equal(t, map[string]interface{}{"cache_hit": true}, ExtractMeta(c))
}
