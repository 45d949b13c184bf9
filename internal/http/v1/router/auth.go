package router

import (
	"band-manager/internal/config"
	"band-manager/internal/http/v1/handler"
	"band-manager/internal/service"
	"github.com/go-chi/chi/v5"
	"log/slog"
)

type AuthRouter struct {
	handler *handler.AuthHandler
}

func NewAuthRouter(authService *service.AuthService, session config.SessionConfig, log *slog.Logger) *AuthRouter {
	return &AuthRouter{
		handler: handler.NewAuthHandler(authService, session, log),
	}
}

func (ar *AuthRouter) SetupRoutes(r chi.Router) {
	r.Get("/me", ar.handler.Me)
	r.Post("/auth/logout", ar.handler.Logout)
}
