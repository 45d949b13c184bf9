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
	SongRequest struct {
		BandID   string  `json:"band_id"`
		Title    string  `json:"title"`
		Artist   *string `json:"artist"`
		Comments *string `json:"comments"`
	}

	AttachmentRequest struct {
		Name       string `json:"name"`
		DriveURL   string `json:"drive_url"`
		RecordedAt string `json:"recorded_at"`
	}

	ListSongsResponse struct {
		Songs []models.SongWithBand `json:"songs"`
	}

	SongResponse struct {
		Song models.Song `json:"song"`
	}

	SongDetailsResponse struct {
		Song models.SongDetails `json:"song"`
	}

	ChartResponse struct {
		Chart models.Chart `json:"chart"`
	}

	RecordingResponse struct {
		Recording models.Recording `json:"recording"`
	}
)

func (req SongRequest) input() service.SongInput {
	return service.SongInput{
		BandID:   req.BandID,
		Title:    req.Title,
		Artist:   req.Artist,
		Comments: req.Comments,
	}
}

func (req AttachmentRequest) input() service.AttachmentInput {
	return service.AttachmentInput{
		Name:       req.Name,
		DriveURL:   req.DriveURL,
		RecordedAt: req.RecordedAt,
	}
}

type SongHandler struct {
	songService *service.SongService
	log         *slog.Logger
}

func NewSongHandler(songService *service.SongService, log *slog.Logger) *SongHandler {
	return &SongHandler{
		songService: songService,
		log:         log,
	}
}

func (h *SongHandler) ListSongs(w http.ResponseWriter, r *http.Request) {
	const op = "handler.song.ListSongs"

	log := h.log.With(slog.String("op", op))

	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	songs, err := h.songService.ListSongs(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, log, err, "failed to list songs")
		return
	}

	response.JSON(w, log, http.StatusOK, ListSongsResponse{Songs: songs})
}

func (h *SongHandler) CreateSong(w http.ResponseWriter, r *http.Request) {
	const op = "handler.song.CreateSong"

	log := h.log.With(slog.String("op", op))

	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req SongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, log, err)
		return
	}

	song, err := h.songService.CreateSong(r.Context(), user.ID, req.input())
	if err != nil {
		writeServiceError(w, log, err, "failed to create song")
		return
	}

	response.JSON(w, log, http.StatusCreated, SongResponse{Song: *song})
	log.Info("song created successfully", slog.String("song_id", song.ID))
}

func (h *SongHandler) GetSong(w http.ResponseWriter, r *http.Request) {
	const op = "handler.song.GetSong"

	songID := chi.URLParam(r, "id")
	log := h.log.With(slog.String("op", op), slog.String("song_id", songID))

	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	song, err := h.songService.GetSong(r.Context(), user.ID, songID)
	if err != nil {
		writeServiceError(w, log, err, "failed to get song")
		return
	}

	response.JSON(w, log, http.StatusOK, SongDetailsResponse{Song: *song})
}

func (h *SongHandler) UpdateSong(w http.ResponseWriter, r *http.Request) {
	const op = "handler.song.UpdateSong"

	songID := chi.URLParam(r, "id")
	log := h.log.With(slog.String("op", op), slog.String("song_id", songID))

	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req SongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, log, err)
		return
	}

	song, err := h.songService.UpdateSong(r.Context(), user.ID, songID, req.input())
	if err != nil {
		writeServiceError(w, log, err, "failed to update song")
		return
	}

	response.JSON(w, log, http.StatusOK, SongResponse{Song: *song})
}

func (h *SongHandler) DeleteSong(w http.ResponseWriter, r *http.Request) {
	const op = "handler.song.DeleteSong"

	songID := chi.URLParam(r, "id")
	log := h.log.With(slog.String("op", op), slog.String("song_id", songID))

	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	if err := h.songService.DeleteSong(r.Context(), user.ID, songID); err != nil {
		writeServiceError(w, log, err, "failed to delete song")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SongHandler) AddChart(w http.ResponseWriter, r *http.Request) {
	const op = "handler.song.AddChart"

	songID := chi.URLParam(r, "id")
	log := h.log.With(slog.String("op", op), slog.String("song_id", songID))

	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req AttachmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, log, err)
		return
	}

	chart, err := h.songService.AddChart(r.Context(), user.ID, songID, req.input())
	if err != nil {
		writeServiceError(w, log, err, "failed to add chart")
		return
	}

	response.JSON(w, log, http.StatusCreated, ChartResponse{Chart: *chart})
}

func (h *SongHandler) AddRecording(w http.ResponseWriter, r *http.Request) {
	const op = "handler.song.AddRecording"

	songID := chi.URLParam(r, "id")
	log := h.log.With(slog.String("op", op), slog.String("song_id", songID))

	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req AttachmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, log, err)
		return
	}

	recording, err := h.songService.AddRecording(r.Context(), user.ID, songID, req.input())
	if err != nil {
		writeServiceError(w, log, err, "failed to add recording")
		return
	}

	response.JSON(w, log, http.StatusCreated, RecordingResponse{Recording: *recording})
}
