package handler

import (
	"band-manager/internal/http/v1/response"
	"band-manager/internal/service"
	"github.com/go-chi/chi/v5"
	"log/slog"
	"net/http"
)

type (
	BandStatsResponse struct {
		BandID string        `json:"band_id"`
		Stats  BandStatsData `json:"stats"`
	}

	BandStatsData struct {
		Songs    int `json:"songs"`
		Members  int `json:"members"`
		Setlists int `json:"setlists"`
	}
)

type StatsHandler struct {
	statsService *service.StatsService
	log          *slog.Logger
}

func NewStatsHandler(statsService *service.StatsService, log *slog.Logger) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		log:          log,
	}
}

func (h *StatsHandler) GetBandStats(w http.ResponseWriter, r *http.Request) {
	const op = "handler.stats.GetBandStats"

	bandID := chi.URLParam(r, "id")
	log := h.log.With(slog.String("op", op), slog.String("band_id", bandID))

	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	counts, err := h.statsService.GetBandStats(r.Context(), user.ID, bandID)
	if err != nil {
		writeServiceError(w, log, err, "failed to get band statistics")
		return
	}

	response.JSON(w, log, http.StatusOK, BandStatsResponse{
		BandID: bandID,
		Stats: BandStatsData{
			Songs:    counts.Songs,
			Members:  counts.Members,
			Setlists: counts.Setlists,
		},
	})
}
