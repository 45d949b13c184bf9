package router

import (
	"band-manager/internal/http/v1/handler"
	"band-manager/internal/service"
	"github.com/go-chi/chi/v5"
	"log/slog"
)

type BandRouter struct {
	handler      *handler.BandHandler
	statsHandler *handler.StatsHandler
}

func NewBandRouter(bandService *service.BandService, statsService *service.StatsService, log *slog.Logger) *BandRouter {
	return &BandRouter{
		handler:      handler.NewBandHandler(bandService, log),
		statsHandler: handler.NewStatsHandler(statsService, log),
	}
}

func (br *BandRouter) SetupRoutes(r chi.Router) {
	r.Route("/bands", func(r chi.Router) {
		r.Get("/", br.handler.ListBands)
		r.Post("/", br.handler.CreateBand)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", br.handler.GetBand)
			r.Get("/stats", br.statsHandler.GetBandStats)

			r.Post("/members", br.handler.AddMember)
			r.Delete("/members/{userId}", br.handler.RemoveMember)
		})
	})
}
