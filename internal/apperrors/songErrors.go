package apperrors

import "errors"

var (
	ErrSongNotFound        = errors.New("song not found")
	ErrSongTitleRequired   = errors.New("song title is required")
	ErrBandIDRequired      = errors.New("band_id is required")
	ErrAttachmentRequired  = errors.New("name and drive_url are required")
	ErrRecordedAtRequired  = errors.New("recorded_at is required")
	ErrRecordedAtMalformed = errors.New("recorded_at must be RFC3339 or YYYY-MM-DD")
)
