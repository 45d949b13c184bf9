package middleware

import (
	"band-manager/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_Handler(t *testing.T) {
	rl := NewRateLimiter(1, 2, testLogger())
	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(remote string, user *models.User) int {
		req := httptest.NewRequest(http.MethodGet, "/songs", nil)
		req.RemoteAddr = remote
		if user != nil {
			req = req.WithContext(WithUser(req.Context(), user))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1000", nil))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1000", nil))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1000", nil))

	// other callers have their own bucket
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1000", nil))

	user := &models.User{ID: "u1"}
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1000", user))
	assert.Equal(t, http.StatusOK, call("10.0.0.3:1000", user))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.4:1000", user))
}

func TestRateLimiter_Prune(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(10, 10, testLogger())
	rl.now = func() time.Time { return now }

	rl.getLimiter("old")
	now = now.Add(time.Hour)
	rl.getLimiter("fresh")

	assert.Equal(t, 1, rl.Prune(30*time.Minute))
	assert.Len(t, rl.limiters, 1)
	assert.Contains(t, rl.limiters, "fresh")
}
