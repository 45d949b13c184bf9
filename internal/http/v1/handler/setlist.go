package handler

import (
	"band-manager/internal/domain/models"
	"band-manager/internal/http/v1/response"
	"band-manager/internal/service"
	"encoding/json"
	"github.com/go-chi/chi/v5"
	"log/slog"
	"net/http"
)

type (
	CreateSetlistRequest struct {
		BandID string   `json:"band_id"`
		Name   string   `json:"name"`
		Date   string   `json:"date"`
		Venue  *string  `json:"venue"`
		Notes  *string  `json:"notes"`
		Songs  []string `json:"songs"`
	}

	ReorderSetlistRequest struct {
		SongIDs *[]string `json:"song_ids"`
	}

	ListSetlistsResponse struct {
		Setlists []models.SetlistDetails `json:"setlists"`
	}

	SetlistResponse struct {
		Setlist models.SetlistDetails `json:"setlist"`
	}
)

type SetlistHandler struct {
	setlistService *service.SetlistService
	log            *slog.Logger
}

func NewSetlistHandler(setlistService *service.SetlistService, log *slog.Logger) *SetlistHandler {
	return &SetlistHandler{
		setlistService: setlistService,
		log:            log,
	}
}

func (h *SetlistHandler) ListSetlists(w http.ResponseWriter, r *http.Request) {
	const op = "handler.setlist.ListSetlists"

	bandID := r.URL.Query().Get("band_id")
	log := h.log.With(slog.String("op", op), slog.String("band_id", bandID))

	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	setlists, err := h.setlistService.ListSetlists(r.Context(), user.ID, bandID)
	if err != nil {
		writeServiceError(w, log, err, "failed to list setlists")
		return
	}

	response.JSON(w, log, http.StatusOK, ListSetlistsResponse{Setlists: setlists})
}

func (h *SetlistHandler) CreateSetlist(w http.ResponseWriter, r *http.Request) {
	const op = "handler.setlist.CreateSetlist"

	log := h.log.With(slog.String("op", op))

	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req CreateSetlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, log, err)
		return
	}

	setlist, err := h.setlistService.CreateSetlist(r.Context(), user.ID, service.SetlistInput{
		BandID:  req.BandID,
		Name:    req.Name,
		Date:    req.Date,
		Venue:   req.Venue,
		Notes:   req.Notes,
		SongIDs: req.Songs,
	})
	if err != nil {
		writeServiceError(w, log, err, "failed to create setlist")
		return
	}

	response.JSON(w, log, http.StatusCreated, SetlistResponse{Setlist: *setlist})
	log.Info("setlist created successfully", slog.String("setlist_id", setlist.ID))
}

func (h *SetlistHandler) GetSetlist(w http.ResponseWriter, r *http.Request) {
	const op = "handler.setlist.GetSetlist"

	setlistID := chi.URLParam(r, "id")
	log := h.log.With(slog.String("op", op), slog.String("setlist_id", setlistID))

	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	setlist, err := h.setlistService.GetSetlist(r.Context(), user.ID, setlistID)
	if err != nil {
		writeServiceError(w, log, err, "failed to get setlist")
		return
	}

	response.JSON(w, log, http.StatusOK, SetlistResponse{Setlist: *setlist})
}

func (h *SetlistHandler) ReorderSetlist(w http.ResponseWriter, r *http.Request) {
	const op = "handler.setlist.ReorderSetlist"

	setlistID := chi.URLParam(r, "id")
	log := h.log.With(slog.String("op", op), slog.String("setlist_id", setlistID))

	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req ReorderSetlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, log, err)
		return
	}

	if req.SongIDs == nil {
		log.Error("song_ids is required")
		response.Error(w, log, http.StatusBadRequest, "SONG_IDS_REQUIRED", "song_ids is required")
		return
	}

	setlist, err := h.setlistService.Reorder(r.Context(), user.ID, setlistID, *req.SongIDs)
	if err != nil {
		writeServiceError(w, log, err, "failed to reorder setlist")
		return
	}

	response.JSON(w, log, http.StatusOK, SetlistResponse{Setlist: *setlist})
	log.Info("setlist reordered successfully", slog.Int("songs", len(setlist.Songs)))
}

func (h *SetlistHandler) DeleteSetlist(w http.ResponseWriter, r *http.Request) {
	const op = "handler.setlist.DeleteSetlist"

	setlistID := chi.URLParam(r, "id")
	log := h.log.With(slog.String("op", op), slog.String("setlist_id", setlistID))

	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	if err := h.setlistService.DeleteSetlist(r.Context(), user.ID, setlistID); err != nil {
		writeServiceError(w, log, err, "failed to delete setlist")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
