package middleware

import (
	"band-manager/internal/apperrors"
	"band-manager/internal/domain/models"
	"band-manager/internal/http/v1/response"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeAuthenticator struct {
	users  map[string]*models.User
	failOn map[string]error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*models.User, error) {
	if err, ok := f.failOn[token]; ok {
		return nil, err
	}
	if user, ok := f.users[token]; ok {
		return user, nil
	}
	return nil, fmt.Errorf("service.auth.Authenticate: %w", apperrors.ErrUnauthenticated)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuth(t *testing.T) {
	auth := &fakeAuthenticator{
		users: map[string]*models.User{
			"good-token": {ID: "u1", Email: "ada@example.com", Name: "Ada"},
		},
		failOn: map[string]error{
			"db-down": errors.New("service.auth.Authenticate: repo.session.Get: dial tcp: connection refused"),
		},
	}

	var seen *models.User
	var seenToken string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		seenToken = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Auth(auth, "session_id", testLogger())(next)

	tests := []struct {
		name       string
		cookie     *http.Cookie
		wantStatus int
		wantCode   string
	}{
		{name: "no cookie", cookie: nil, wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHENTICATED"},
		{name: "empty cookie", cookie: &http.Cookie{Name: "session_id", Value: ""}, wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHENTICATED"},
		{name: "unknown session", cookie: &http.Cookie{Name: "session_id", Value: "expired"}, wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHENTICATED"},
		{name: "other cookie name", cookie: &http.Cookie{Name: "sid", Value: "good-token"}, wantStatus: http.StatusUnauthorized, wantCode: "UNAUTHENTICATED"},
		{name: "storage failure", cookie: &http.Cookie{Name: "session_id", Value: "db-down"}, wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
		{name: "valid session", cookie: &http.Cookie{Name: "session_id", Value: "good-token"}, wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen, seenToken = nil, ""

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				var body response.ErrorResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, tt.wantCode, body.Error.Code)
				assert.Nil(t, seen)
				return
			}

			require.NotNil(t, seen)
			assert.Equal(t, "u1", seen.ID)
			assert.Equal(t, "good-token", seenToken)
		})
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)
	assert.Empty(t, SessionFromContext(context.Background()))
}
