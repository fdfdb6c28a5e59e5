package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceID(), RequestLogger(zap.NewNop()), Metrics())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(pkg.TraceId))
	})
	return r
}

func TestTraceID_EchoesIncomingHeader(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(pkg.HeaderTraceId, "trace-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "trace-123", w.Header().Get(pkg.HeaderTraceId))
	assert.Equal(t, "trace-123", w.Body.String())
}

func TestTraceID_GeneratesWhenMissing(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	got := w.Header().Get(pkg.HeaderTraceId)
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
	assert.Equal(t, got, w.Body.String())
}

func TestTraceID_SetOnUnmatchedRoute(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get(pkg.HeaderTraceId))
}
