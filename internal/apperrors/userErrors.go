package apperrors

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserEmailMissing = errors.New("user email is required")
)
