package handler

import (
	"band-manager/internal/domain/models"
	"band-manager/internal/http/v1/middleware"
	"band-manager/internal/http/v1/response"
	"band-manager/internal/service"
	"encoding/json"
	"github.com/go-chi/chi/v5"
	"log/slog"
	"net/http"
)

type (
	CreateBandRequest struct {
		Name string `json:"name"`
	}

	AddMemberRequest struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}

	ListBandsResponse struct {
		Bands []models.BandSummary `json:"bands"`
	}

	BandResponse struct {
		Band models.Band `json:"band"`
	}

	BandDetailsResponse struct {
		Band models.BandDetails `json:"band"`
	}

	MemberResponse struct {
		Member models.BandMember `json:"member"`
	}
)

type BandHandler struct {
	bandService *service.BandService
	log         *slog.Logger
}

func NewBandHandler(bandService *service.BandService, log *slog.Logger) *BandHandler {
	return &BandHandler{
		bandService: bandService,
		log:         log,
	}
}

func (h *BandHandler) ListBands(w http.ResponseWriter, r *http.Request) {
	const op = "handler.band.ListBands"

	log := h.log.With(slog.String("op", op))

	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	bands, err := h.bandService.ListBands(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, log, err, "failed to list bands")
		return
	}

	response.JSON(w, log, http.StatusOK, ListBandsResponse{Bands: bands})
}

func (h *BandHandler) CreateBand(w http.ResponseWriter, r *http.Request) {
	const op = "handler.band.CreateBand"

	log := h.log.With(slog.String("op", op))

	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req CreateBandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, log, err)
		return
	}

	band, err := h.bandService.CreateBand(r.Context(), user.ID, req.Name)
	if err != nil {
		writeServiceError(w, log, err, "failed to create band")
		return
	}

	response.JSON(w, log, http.StatusCreated, BandResponse{Band: *band})
	log.Info("band created successfully", slog.String("band_id", band.ID))
}

func (h *BandHandler) GetBand(w http.ResponseWriter, r *http.Request) {
	const op = "handler.band.GetBand"

	bandID := chi.URLParam(r, "id")
	log := h.log.With(slog.String("op", op), slog.String("band_id", bandID))

	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	band, err := h.bandService.GetBand(r.Context(), user.ID, bandID)
	if err != nil {
		writeServiceError(w, log, err, "failed to get band")
		return
	}

	response.JSON(w, log, http.StatusOK, BandDetailsResponse{Band: *band})
}

func (h *BandHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	const op = "handler.band.AddMember"

	bandID := chi.URLParam(r, "id")
	log := h.log.With(slog.String("op", op), slog.String("band_id", bandID))

	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, log, err)
		return
	}

	member, err := h.bandService.AddMember(r.Context(), user.ID, bandID, req.Email, req.Role)
	if err != nil {
		writeServiceError(w, log, err, "failed to add member")
		return
	}

	response.JSON(w, log, http.StatusCreated, MemberResponse{Member: *member})
}

func (h *BandHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	const op = "handler.band.RemoveMember"

	bandID := chi.URLParam(r, "id")
	memberID := chi.URLParam(r, "userId")
	log := h.log.With(
		slog.String("op", op),
		slog.String("band_id", bandID),
		slog.String("member_id", memberID),
	)

	user, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	if err := h.bandService.RemoveMember(r.Context(), user.ID, bandID, memberID); err != nil {
		writeServiceError(w, log, err, "failed to remove member")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requireUser returns the user attached by the auth middleware.
func requireUser(w http.ResponseWriter, r *http.Request, log *slog.Logger) (*models.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, log, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		return nil, false
	}
	return user, true
}
