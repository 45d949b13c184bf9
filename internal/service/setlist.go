package service

import (
	"band-manager/internal/apperrors"
	"band-manager/internal/domain/models"
	"band-manager/internal/lib/logger/sl"
	"band-manager/internal/lib/metrics"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
)

type SetlistService struct {
	log      *slog.Logger
	setlists SetlistProvider
	songs    SongCounter
	access   *MembershipIndex
}

type SetlistProvider interface {
	Create(ctx context.Context, setlist models.Setlist, songIDs []string) (*models.Setlist, error)
	Get(ctx context.Context, id string) (*models.SetlistDetails, error)
	ListByBands(ctx context.Context, bandIDs []string) ([]models.SetlistDetails, error)
	ListSongs(ctx context.Context, setlistID string) ([]models.OrderedSong, error)
	ListSongsForSetlists(ctx context.Context, setlistIDs []string) (map[string][]models.OrderedSong, error)
	ReplaceSongs(ctx context.Context, setlistID string, songIDs []string) error
	Delete(ctx context.Context, id string) error
}

type SongCounter interface {
	CountInBand(ctx context.Context, bandID string, songIDs []string) (int, error)
}

type SetlistInput struct {
	BandID  string
	Name    string
	Date    string
	Venue   *string
	Notes   *string
	SongIDs []string
}

func NewSetlistService(
	log *slog.Logger,
	setlists SetlistProvider,
	songs SongCounter,
	access *MembershipIndex) *SetlistService {
	return &SetlistService{
		log:      log,
		setlists: setlists,
		songs:    songs,
		access:   access,
	}
}

// ListSetlists returns setlists of every band the user belongs to. A non-empty bandFilter
// narrows the result only when the user is a member of that band.
func (s *SetlistService) ListSetlists(ctx context.Context, userID, bandFilter string) ([]models.SetlistDetails, error) {
	const op = "service.setlist.ListSetlists"

	log := s.log.With(slog.String("op", op), slog.String("user_id", userID))

	bandIDs, err := s.access.BandIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if bandFilter != "" && slices.Contains(bandIDs, bandFilter) {
		bandIDs = []string{bandFilter}
	}

	setlists, err := s.setlists.ListByBands(ctx, bandIDs)
	if err != nil {
		log.Error("failed to list setlists", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ids := make([]string, len(setlists))
	for i, setlist := range setlists {
		ids[i] = setlist.ID
	}

	songs, err := s.setlists.ListSongsForSetlists(ctx, ids)
	if err != nil {
		log.Error("failed to load setlist songs", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range setlists {
		setlists[i].Songs = songs[setlists[i].ID]
		if setlists[i].Songs == nil {
			setlists[i].Songs = []models.OrderedSong{}
		}
	}

	return setlists, nil
}

func (s *SetlistService) CreateSetlist(ctx context.Context, userID string, in SetlistInput) (*models.SetlistDetails, error) {
	const op = "service.setlist.CreateSetlist"

	log := s.log.With(
		slog.String("op", op),
		slog.String("band_id", in.BandID),
	)

	in.Name = strings.TrimSpace(in.Name)
	if in.BandID == "" {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrBandIDRequired)
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrSetlistNameRequired)
	}

	var date *time.Time
	if strings.TrimSpace(in.Date) != "" {
		parsed, ok := parseDate(in.Date)
		if !ok {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrSetlistDateMalformed)
		}
		date = &parsed
	}

	if err := s.access.Authorize(ctx, userID, in.BandID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.validateSongs(ctx, in.BandID, in.SongIDs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.setlists.Create(ctx, models.Setlist{
		ID:     newID(),
		BandID: in.BandID,
		Name:   in.Name,
		Date:   date,
		Venue:  optional(in.Venue),
		Notes:  optional(in.Notes),
	}, in.SongIDs)
	if err != nil {
		log.Error("failed to create setlist", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("setlist created",
		slog.String("setlist_id", created.ID),
		slog.Int("songs", len(in.SongIDs)))

	return s.details(ctx, created.ID)
}

func (s *SetlistService) GetSetlist(ctx context.Context, userID, setlistID string) (*models.SetlistDetails, error) {
	const op = "service.setlist.GetSetlist"

	setlist, err := s.authorizedSetlist(ctx, userID, setlistID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	songs, err := s.setlists.ListSongs(ctx, setlistID)
	if err != nil {
		s.log.Error("failed to load setlist songs", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	setlist.Songs = songs

	return setlist, nil
}

// Reorder replaces the setlist's song order with songIDs, position i becoming order i+1.
// An empty list clears the setlist.
func (s *SetlistService) Reorder(ctx context.Context, userID, setlistID string, songIDs []string) (*models.SetlistDetails, error) {
	const op = "service.setlist.Reorder"

	log := s.log.With(
		slog.String("op", op),
		slog.String("setlist_id", setlistID),
		slog.Int("songs", len(songIDs)),
	)

	setlist, err := s.authorizedSetlist(ctx, userID, setlistID)
	if err != nil {
		metrics.RecordSetlistReorder(reorderResult(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.validateSongs(ctx, setlist.BandID, songIDs); err != nil {
		metrics.RecordSetlistReorder(reorderResult(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.setlists.ReplaceSongs(ctx, setlistID, songIDs); err != nil {
		metrics.RecordSetlistReorder(reorderResult(err))
		log.Error("failed to reorder setlist", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.RecordSetlistReorder("ok")
	log.Info("setlist reordered")

	return s.details(ctx, setlistID)
}

func (s *SetlistService) DeleteSetlist(ctx context.Context, userID, setlistID string) error {
	const op = "service.setlist.DeleteSetlist"

	if _, err := s.authorizedSetlist(ctx, userID, setlistID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.setlists.Delete(ctx, setlistID); err != nil {
		s.log.Error("failed to delete setlist", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("setlist deleted", slog.String("op", op), slog.String("setlist_id", setlistID))

	return nil
}

func (s *SetlistService) authorizedSetlist(ctx context.Context, userID, setlistID string) (*models.SetlistDetails, error) {
	setlist, err := s.setlists.Get(ctx, setlistID)
	if err != nil {
		return nil, err
	}

	if err := s.access.Authorize(ctx, userID, setlist.BandID); err != nil {
		return nil, err
	}

	return setlist, nil
}

func (s *SetlistService) details(ctx context.Context, setlistID string) (*models.SetlistDetails, error) {
	setlist, err := s.setlists.Get(ctx, setlistID)
	if err != nil {
		return nil, err
	}

	songs, err := s.setlists.ListSongs(ctx, setlistID)
	if err != nil {
		return nil, err
	}
	setlist.Songs = songs

	return setlist, nil
}

// validateSongs rejects duplicate IDs and songs that belong to another band.
func (s *SetlistService) validateSongs(ctx context.Context, bandID string, songIDs []string) error {
	seen := make(map[string]struct{}, len(songIDs))
	for _, id := range songIDs {
		if _, ok := seen[id]; ok {
			return apperrors.ErrDuplicateSetlistSong
		}
		seen[id] = struct{}{}
	}

	if len(songIDs) == 0 {
		return nil
	}

	count, err := s.songs.CountInBand(ctx, bandID, songIDs)
	if err != nil {
		return err
	}
	if count != len(songIDs) {
		return apperrors.ErrForeignSetlistSong
	}

	return nil
}

func reorderResult(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrSetlistNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrForbidden):
		return "forbidden"
	case errors.Is(err, apperrors.ErrDuplicateSetlistSong),
		errors.Is(err, apperrors.ErrForeignSetlistSong),
		errors.Is(err, apperrors.ErrSongNotFound):
		return "invalid"
	default:
		return "error"
	}
}
