package v1

import (
	"band-manager/internal/config"
	"band-manager/internal/http/v1/middleware"
	"band-manager/internal/http/v1/router"
	"band-manager/internal/service"
	"github.com/go-chi/chi/v5"
	"log/slog"
)

type Router interface {
	SetupRoutes(r chi.Router)
}

type RouterDependencies struct {
	AuthService    *service.AuthService
	BandService    *service.BandService
	SongService    *service.SongService
	SetlistService *service.SetlistService
	StatsService   *service.StatsService
	Session        config.SessionConfig
	RateLimiter    *middleware.RateLimiter
}

// SetupRoutes mounts every API route behind the session guard.
func SetupRoutes(r chi.Router, deps *RouterDependencies, log *slog.Logger) {
	routers := []Router{
		router.NewAuthRouter(deps.AuthService, deps.Session, log),
		router.NewBandRouter(deps.BandService, deps.StatsService, log),
		router.NewSongRouter(deps.SongService, log),
		router.NewSetlistRouter(deps.SetlistService, log),
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(deps.AuthService, deps.Session.CookieName, log))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Handler)
		}

		for _, serviceRouter := range routers {
			serviceRouter.SetupRoutes(r)
		}
	})
}
