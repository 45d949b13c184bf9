package apperrors

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrSessionNotFound = errors.New("session not found or expired")
	ErrForbidden       = errors.New("forbidden")
)
