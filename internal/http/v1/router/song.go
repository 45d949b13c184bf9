package router

import (
	"band-manager/internal/http/v1/handler"
	"band-manager/internal/service"
	"github.com/go-chi/chi/v5"
	"log/slog"
)

type SongRouter struct {
	handler *handler.SongHandler
}

func NewSongRouter(songService *service.SongService, log *slog.Logger) *SongRouter {
	return &SongRouter{
		handler: handler.NewSongHandler(songService, log),
	}
}

func (sr *SongRouter) SetupRoutes(r chi.Router) {
	r.Route("/songs", func(r chi.Router) {
		r.Get("/", sr.handler.ListSongs)
		r.Post("/", sr.handler.CreateSong)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", sr.handler.GetSong)
			r.Put("/", sr.handler.UpdateSong)
			r.Delete("/", sr.handler.DeleteSong)

			r.Post("/charts", sr.handler.AddChart)
			r.Post("/recordings", sr.handler.AddRecording)
		})
	})
}
