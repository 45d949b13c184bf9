package router

import (
	"band-manager/internal/http/v1/handler"
	"band-manager/internal/service"
	"github.com/go-chi/chi/v5"
	"log/slog"
)

type SetlistRouter struct {
	handler *handler.SetlistHandler
}

func NewSetlistRouter(setlistService *service.SetlistService, log *slog.Logger) *SetlistRouter {
	return &SetlistRouter{
		handler: handler.NewSetlistHandler(setlistService, log),
	}
}

func (sr *SetlistRouter) SetupRoutes(r chi.Router) {
	r.Route("/setlists", func(r chi.Router) {
		r.Get("/", sr.handler.ListSetlists)
		r.Post("/", sr.handler.CreateSetlist)

		r.Get("/{id}", sr.handler.GetSetlist)
		r.Put("/{id}", sr.handler.ReorderSetlist)
		r.Delete("/{id}", sr.handler.DeleteSetlist)
	})
}
