package handler

import (
	"band-manager/internal/apperrors"
	"band-manager/internal/config"
	"band-manager/internal/domain/models"
	"band-manager/internal/http/v1/middleware"
	"band-manager/internal/http/v1/response"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorDetail {
	t.Helper()

	var body response.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{apperrors.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{apperrors.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{apperrors.ErrAdminRequired, http.StatusForbidden, "ADMIN_REQUIRED"},
		{apperrors.ErrBandNotFound, http.StatusNotFound, "BAND_NOT_FOUND"},
		{apperrors.ErrSongNotFound, http.StatusNotFound, "SONG_NOT_FOUND"},
		{apperrors.ErrSetlistNotFound, http.StatusNotFound, "SETLIST_NOT_FOUND"},
		{apperrors.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{apperrors.ErrAlreadyMember, http.StatusConflict, "ALREADY_MEMBER"},
		{apperrors.ErrLastAdmin, http.StatusConflict, "LAST_ADMIN"},
		{apperrors.ErrDuplicateSetlistSong, http.StatusBadRequest, "DUPLICATE_SONG"},
		{apperrors.ErrForeignSetlistSong, http.StatusBadRequest, "FOREIGN_SONG"},
		{apperrors.ErrRecordedAtMalformed, http.StatusBadRequest, "RECORDED_AT_INVALID"},
		{errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			rec := httptest.NewRecorder()
			wrapped := fmt.Errorf("service.x.Op: %w", fmt.Errorf("repo.x.Op: %w", tt.err))

			writeServiceError(rec, testLogger(), wrapped, "failed")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			detail := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, detail.Code)
			assert.NotContains(t, detail.Message, "connection refused")
		})
	}
}

func TestHandlers_RequireUser(t *testing.T) {
	log := testLogger()
	handlers := map[string]http.HandlerFunc{
		"bands":    NewBandHandler(nil, log).ListBands,
		"songs":    NewSongHandler(nil, log).ListSongs,
		"setlists": NewSetlistHandler(nil, log).ListSetlists,
		"stats":    NewStatsHandler(nil, log).GetBandStats,
		"me":       NewAuthHandler(nil, config.SessionConfig{CookieName: "session_id"}, log).Me,
	}

	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "UNAUTHENTICATED", decodeError(t, rec).Code)
		})
	}
}

func TestHandlers_InvalidBody(t *testing.T) {
	log := testLogger()
	user := &models.User{ID: "u1"}

	r := chi.NewRouter()
	r.Post("/bands", NewBandHandler(nil, log).CreateBand)
	r.Post("/bands/{id}/members", NewBandHandler(nil, log).AddMember)
	r.Post("/songs", NewSongHandler(nil, log).CreateSong)
	r.Put("/songs/{id}", NewSongHandler(nil, log).UpdateSong)
	r.Post("/songs/{id}/charts", NewSongHandler(nil, log).AddChart)
	r.Post("/setlists", NewSetlistHandler(nil, log).CreateSetlist)
	r.Put("/setlists/{id}", NewSetlistHandler(nil, log).ReorderSetlist)

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/bands"},
		{http.MethodPost, "/bands/b1/members"},
		{http.MethodPost, "/songs"},
		{http.MethodPut, "/songs/s1"},
		{http.MethodPost, "/songs/s1/charts"},
		{http.MethodPost, "/setlists"},
		{http.MethodPut, "/setlists/sl1"},
	}

	for _, req := range requests {
		t.Run(req.method+" "+req.path, func(t *testing.T) {
			httpReq := httptest.NewRequest(req.method, req.path, strings.NewReader(`{not json`))
			httpReq = httpReq.WithContext(middleware.WithUser(httpReq.Context(), user))
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, httpReq)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "INVALID_REQUEST", decodeError(t, rec).Code)
		})
	}
}

func TestReorderSetlist_SongIDsRequired(t *testing.T) {
	r := chi.NewRouter()
	r.Put("/setlists/{id}", NewSetlistHandler(nil, testLogger()).ReorderSetlist)

	req := httptest.NewRequest(http.MethodPut, "/setlists/sl1", strings.NewReader(`{"songs": ["a"]}`))
	req = req.WithContext(middleware.WithUser(req.Context(), &models.User{ID: "u1"}))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "SONG_IDS_REQUIRED", decodeError(t, rec).Code)
}

func TestMe(t *testing.T) {
	h := NewAuthHandler(nil, config.SessionConfig{CookieName: "session_id"}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), &models.User{ID: "u1", Email: "ada@example.com", Name: "Ada"}))
	rec := httptest.NewRecorder()

	h.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body MeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ada@example.com", body.User.Email)
}

func TestLogout_WithoutSessionClearsCookie(t *testing.T) {
	h := NewAuthHandler(nil, config.SessionConfig{CookieName: "sid", Secure: true}, testLogger())

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].Secure)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestSetSessionCookie(t *testing.T) {
	h := NewAuthHandler(nil, config.SessionConfig{CookieName: "session_id"}, testLogger())

	rec := httptest.NewRecorder()
	h.SetSessionCookie(rec, &models.Session{ID: "token"})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}
