package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", rl.Handler(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func post(r *gin.Engine, remote string) int {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_BurstThenReject(t *testing.T) {
	r := newRouter(NewRateLimiter(0.001, 2))

	assert.Equal(t, http.StatusOK, post(r, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, post(r, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, post(r, "10.0.0.1:1234"))

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, post(r, "10.0.0.2:1234"))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	for i := 0; i <= maxTrackedClients; i++ {
		rl.getLimiter(string(rune(i)))
	}
	rl.Cleanup()
	assert.Empty(t, rl.limiters)
}
