package apperrors

import "errors"

var (
	ErrSetlistNotFound      = errors.New("setlist not found")
	ErrSetlistNameRequired  = errors.New("setlist name is required")
	ErrDuplicateSetlistSong = errors.New("song appears more than once in setlist")
	ErrForeignSetlistSong   = errors.New("song does not belong to the setlist's band")
	ErrSetlistDateMalformed = errors.New("date must be RFC3339 or YYYY-MM-DD")
)
