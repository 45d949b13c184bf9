package handler

import (
	"band-manager/internal/apperrors"
	"band-manager/internal/http/v1/response"
	"band-manager/internal/lib/logger/sl"
	"errors"
	"log/slog"
	"net/http"
)

type apiError struct {
	status  int
	code    string
	message string
}

var knownErrors = []struct {
	err error
	apiError
}{
	{apperrors.ErrUnauthenticated, apiError{http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required"}},
	{apperrors.ErrForbidden, apiError{http.StatusForbidden, "FORBIDDEN", "you are not a member of this band"}},
	{apperrors.ErrAdminRequired, apiError{http.StatusForbidden, "ADMIN_REQUIRED", "band admin role required"}},

	{apperrors.ErrBandNotFound, apiError{http.StatusNotFound, "BAND_NOT_FOUND", "band not found"}},
	{apperrors.ErrUserNotFound, apiError{http.StatusNotFound, "USER_NOT_FOUND", "user not found"}},
	{apperrors.ErrMemberNotFound, apiError{http.StatusNotFound, "MEMBER_NOT_FOUND", "member not found"}},
	{apperrors.ErrSongNotFound, apiError{http.StatusNotFound, "SONG_NOT_FOUND", "song not found"}},
	{apperrors.ErrSetlistNotFound, apiError{http.StatusNotFound, "SETLIST_NOT_FOUND", "setlist not found"}},

	{apperrors.ErrAlreadyMember, apiError{http.StatusConflict, "ALREADY_MEMBER", "user is already a member of this band"}},
	{apperrors.ErrLastAdmin, apiError{http.StatusConflict, "LAST_ADMIN", "the last admin cannot be removed"}},

	{apperrors.ErrBandNameRequired, apiError{http.StatusBadRequest, "NAME_REQUIRED", "name is required"}},
	{apperrors.ErrInvalidRole, apiError{http.StatusBadRequest, "INVALID_ROLE", "role must be admin or member"}},
	{apperrors.ErrUserEmailMissing, apiError{http.StatusBadRequest, "EMAIL_REQUIRED", "email is required"}},
	{apperrors.ErrBandIDRequired, apiError{http.StatusBadRequest, "BAND_ID_REQUIRED", "band_id is required"}},
	{apperrors.ErrSongTitleRequired, apiError{http.StatusBadRequest, "TITLE_REQUIRED", "title is required"}},
	{apperrors.ErrAttachmentRequired, apiError{http.StatusBadRequest, "ATTACHMENT_REQUIRED", "name and drive_url are required"}},
	{apperrors.ErrRecordedAtRequired, apiError{http.StatusBadRequest, "RECORDED_AT_REQUIRED", "recorded_at is required"}},
	{apperrors.ErrRecordedAtMalformed, apiError{http.StatusBadRequest, "RECORDED_AT_INVALID", "recorded_at must be RFC3339 or YYYY-MM-DD"}},
	{apperrors.ErrSetlistNameRequired, apiError{http.StatusBadRequest, "NAME_REQUIRED", "name is required"}},
	{apperrors.ErrSetlistDateMalformed, apiError{http.StatusBadRequest, "DATE_INVALID", "date must be RFC3339 or YYYY-MM-DD"}},
	{apperrors.ErrDuplicateSetlistSong, apiError{http.StatusBadRequest, "DUPLICATE_SONG", "a song may appear only once in a setlist"}},
	{apperrors.ErrForeignSetlistSong, apiError{http.StatusBadRequest, "FOREIGN_SONG", "all songs must belong to the setlist's band"}},
}

// writeServiceError maps err onto the API error shape. Unknown errors become a logged 500.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error, fallback string) {
	for _, known := range knownErrors {
		if errors.Is(err, known.err) {
			log.Warn("request rejected", slog.String("code", known.code), sl.Err(err))
			response.Error(w, log, known.status, known.code, known.message)
			return
		}
	}

	log.Error(fallback, sl.Err(err))
	response.Error(w, log, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
}

func writeBadRequest(w http.ResponseWriter, log *slog.Logger, err error) {
	log.Error("invalid request body", sl.Err(err))
	response.Error(w, log, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
}
