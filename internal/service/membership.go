package service

import (
	"band-manager/internal/apperrors"
	"band-manager/internal/domain/models"
	"band-manager/internal/lib/logger/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// MembershipIndex answers "which bands does this user belong to" and turns the answer
// into authorization decisions for band-scoped resources.
type MembershipIndex struct {
	log     *slog.Logger
	members MembershipProvider
}

type MembershipProvider interface {
	ListBandIDs(ctx context.Context, userID string) ([]string, error)
	GetMember(ctx context.Context, bandID, userID string) (*models.BandMember, error)
}

func NewMembershipIndex(log *slog.Logger, members MembershipProvider) *MembershipIndex {
	return &MembershipIndex{
		log:     log,
		members: members,
	}
}

func (s *MembershipIndex) BandIDs(ctx context.Context, userID string) ([]string, error) {
	const op = "service.membership.BandIDs"

	bandIDs, err := s.members.ListBandIDs(ctx, userID)
	if err != nil {
		s.log.Error("failed to load memberships", slog.String("op", op), slog.String("user_id", userID), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bandIDs, nil
}

// Authorize fails with ErrForbidden unless bandID is in the user's membership set.
func (s *MembershipIndex) Authorize(ctx context.Context, userID, bandID string) error {
	const op = "service.membership.Authorize"

	bandIDs, err := s.BandIDs(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !slices.Contains(bandIDs, bandID) {
		s.log.Warn("access denied",
			slog.String("op", op),
			slog.String("user_id", userID),
			slog.String("band_id", bandID))
		return fmt.Errorf("%s: %w", op, apperrors.ErrForbidden)
	}

	return nil
}

// RequireAdmin fails with ErrForbidden for non-members and ErrAdminRequired for plain members.
func (s *MembershipIndex) RequireAdmin(ctx context.Context, userID, bandID string) error {
	const op = "service.membership.RequireAdmin"

	member, err := s.members.GetMember(ctx, bandID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrMemberNotFound) {
			return fmt.Errorf("%s: %w", op, apperrors.ErrForbidden)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if member.Role != models.RoleAdmin {
		return fmt.Errorf("%s: %w", op, apperrors.ErrAdminRequired)
	}

	return nil
}
