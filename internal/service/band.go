package service

import (
	"band-manager/internal/apperrors"
	"band-manager/internal/domain/models"
	"band-manager/internal/lib/logger/sl"
	"context"
	"fmt"
	"log/slog"
	"strings"
)

type BandService struct {
	log      *slog.Logger
	bands    BandProvider
	members  MemberManager
	users    UserFinder
	songs    BandSongLister
	setlists BandSetlistLister
	access   *MembershipIndex
}

type BandProvider interface {
	CreateWithAdmin(ctx context.Context, bandID, name, userID string) (*models.Band, error)
	Get(ctx context.Context, id string) (*models.Band, error)
	ListForUser(ctx context.Context, userID string) ([]models.BandSummary, error)
	ListMembers(ctx context.Context, bandID string) ([]models.BandMemberWithUser, error)
}

type MemberManager interface {
	AddMember(ctx context.Context, bandID, userID, role string) (*models.BandMember, error)
	RemoveMember(ctx context.Context, bandID, userID string) error
}

type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type BandSongLister interface {
	ListSummariesByBand(ctx context.Context, bandID string) ([]models.SongSummary, error)
}

type BandSetlistLister interface {
	ListByBand(ctx context.Context, bandID string) ([]models.Setlist, error)
}

func NewBandService(
	log *slog.Logger,
	bands BandProvider,
	members MemberManager,
	users UserFinder,
	songs BandSongLister,
	setlists BandSetlistLister,
	access *MembershipIndex) *BandService {
	return &BandService{
		log:      log,
		bands:    bands,
		members:  members,
		users:    users,
		songs:    songs,
		setlists: setlists,
		access:   access,
	}
}

func (s *BandService) ListBands(ctx context.Context, userID string) ([]models.BandSummary, error) {
	const op = "service.band.ListBands"

	bands, err := s.bands.ListForUser(ctx, userID)
	if err != nil {
		s.log.Error("failed to list bands", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bands, nil
}

// CreateBand creates the band and makes the creator its admin atomically.
func (s *BandService) CreateBand(ctx context.Context, userID, name string) (*models.Band, error) {
	const op = "service.band.CreateBand"

	name = strings.TrimSpace(name)

	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID),
		slog.String("band_name", name),
	)

	if name == "" {
		log.Warn("band name is required")
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrBandNameRequired)
	}

	band, err := s.bands.CreateWithAdmin(ctx, newID(), name, userID)
	if err != nil {
		log.Error("failed to create band", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("band created", slog.String("band_id", band.ID))

	return band, nil
}

func (s *BandService) GetBand(ctx context.Context, userID, bandID string) (*models.BandDetails, error) {
	const op = "service.band.GetBand"

	log := s.log.With(
		slog.String("op", op),
		slog.String("band_id", bandID),
	)

	// membership is checked before existence
	if err := s.access.Authorize(ctx, userID, bandID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	band, err := s.bands.Get(ctx, bandID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	members, err := s.bands.ListMembers(ctx, bandID)
	if err != nil {
		log.Error("failed to load members", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	songs, err := s.songs.ListSummariesByBand(ctx, bandID)
	if err != nil {
		log.Error("failed to load songs", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	setlists, err := s.setlists.ListByBand(ctx, bandID)
	if err != nil {
		log.Error("failed to load setlists", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.BandDetails{
		Band:     *band,
		Members:  members,
		Songs:    songs,
		Setlists: setlists,
	}, nil
}

func (s *BandService) AddMember(ctx context.Context, userID, bandID, email, role string) (*models.BandMember, error) {
	const op = "service.band.AddMember"

	email = strings.TrimSpace(strings.ToLower(email))
	if role == "" {
		role = models.RoleMember
	}

	log := s.log.With(
		slog.String("op", op),
		slog.String("band_id", bandID),
		slog.String("email", email),
		slog.String("role", role),
	)

	if email == "" {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrUserEmailMissing)
	}
	if !models.IsValidRole(role) {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrInvalidRole)
	}

	if _, err := s.bands.Get(ctx, bandID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.access.RequireAdmin(ctx, userID, bandID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	member, err := s.members.AddMember(ctx, bandID, user.ID, role)
	if err != nil {
		log.Error("failed to add member", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("member added", slog.String("member_id", user.ID))

	return member, nil
}

// RemoveMember lets admins remove anyone and members remove themselves.
func (s *BandService) RemoveMember(ctx context.Context, userID, bandID, memberID string) error {
	const op = "service.band.RemoveMember"

	log := s.log.With(
		slog.String("op", op),
		slog.String("band_id", bandID),
		slog.String("member_id", memberID),
	)

	if _, err := s.bands.Get(ctx, bandID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var err error
	if memberID == userID {
		err = s.access.Authorize(ctx, userID, bandID)
	} else {
		err = s.access.RequireAdmin(ctx, userID, bandID)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.members.RemoveMember(ctx, bandID, memberID); err != nil {
		log.Error("failed to remove member", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("member removed")

	return nil
}
