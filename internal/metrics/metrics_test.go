package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservePurchase(t *testing.T) {
	before := testutil.ToFloat64(purchases.WithLabelValues("gallery"))
	revBefore := testutil.ToFloat64(revenue.WithLabelValues("gallery"))

	ObservePurchase("gallery", 24.99)

	assert.Equal(t, before+1, testutil.ToFloat64(purchases.WithLabelValues("gallery")))
	assert.InDelta(t, revBefore+24.99, testutil.ToFloat64(revenue.WithLabelValues("gallery")), 1e-9)
}

func TestObserveUpload_Labels(t *testing.T) {
	before := testutil.ToFloat64(uploads.WithLabelValues("video", "rejected"))
	ObserveUpload("video", false)
	assert.Equal(t, before+1, testutil.ToFloat64(uploads.WithLabelValues("video", "rejected")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `gallery_http_requests_total{method="GET",path="/ping",status="200"}`)
}
