package apperrors

import "errors"

var (
	ErrBandNotFound     = errors.New("band not found")
	ErrBandNameRequired = errors.New("band name is required")
	ErrAlreadyMember    = errors.New("user is already a member of this band")
	ErrMemberNotFound   = errors.New("user is not a member of this band")
	ErrInvalidRole      = errors.New("role must be admin or member")
	ErrLastAdmin        = errors.New("band must keep at least one admin")
	ErrAdminRequired    = errors.New("band admin role required")
)
