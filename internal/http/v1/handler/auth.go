package handler

import (
	"band-manager/internal/config"
	"band-manager/internal/domain/models"
	"band-manager/internal/http/v1/middleware"
	"band-manager/internal/http/v1/response"
	"band-manager/internal/service"
	"log/slog"
	"net/http"
)

type MeResponse struct {
	User models.User `json:"user"`
}

type AuthHandler struct {
	authService *service.AuthService
	cookie      config.SessionConfig
	log         *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, cookie config.SessionConfig, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
		log:         log,
	}
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	const op = "handler.auth.Me"

	log := h.log.With(slog.String("op", op))

	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	response.JSON(w, log, http.StatusOK, MeResponse{User: *user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "handler.auth.Logout"

	log := h.log.With(slog.String("op", op))

	token := middleware.SessionFromContext(r.Context())
	if token != "" {
		if err := h.authService.SignOut(r.Context(), token); err != nil {
			writeServiceError(w, log, err, "failed to sign out")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	w.WriteHeader(http.StatusNoContent)
	log.Info("user signed out")
}

// SetSessionCookie writes the cookie for a freshly created session. Identity-provider
// callbacks use it after AuthService.SignIn.
func (h *AuthHandler) SetSessionCookie(w http.ResponseWriter, session *models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
