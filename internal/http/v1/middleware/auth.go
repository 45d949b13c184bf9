package middleware

import (
	"band-manager/internal/apperrors"
	"band-manager/internal/domain/models"
	"band-manager/internal/http/v1/response"
	"band-manager/internal/lib/logger/sl"
	"context"
	"errors"
	"log/slog"
	"net/http"
)

type ctxKey int

const (
	userKey ctxKey = iota
	sessionKey
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Auth resolves the session cookie to a user and rejects the request with 401 otherwise.
func Auth(auth Authenticator, cookieName string, log *slog.Logger) func(http.Handler) http.Handler {
	const op = "middleware.Auth"

	log = log.With(slog.String("op", op))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				response.Error(w, log, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
				return
			}

			user, err := auth.Authenticate(r.Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, apperrors.ErrUnauthenticated) {
					log.Debug("session rejected", slog.String("path", r.URL.Path), sl.Err(err))
					response.Error(w, log, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
					return
				}
				log.Error("failed to authenticate session", slog.String("path", r.URL.Path), sl.Err(err))
				response.Error(w, log, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to authenticate session")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			ctx = context.WithValue(ctx, sessionKey, cookie.Value)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

func SessionFromContext(ctx context.Context) string {
	token, _ := ctx.Value(sessionKey).(string)
	return token
}

// WithUser is used by handler tests to bypass the session lookup.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}
