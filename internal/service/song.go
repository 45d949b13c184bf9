package service

import (
	"band-manager/internal/apperrors"
	"band-manager/internal/domain/models"
	"band-manager/internal/lib/logger/sl"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type SongService struct {
	log    *slog.Logger
	songs  SongProvider
	bands  BandGetter
	access *MembershipIndex
}

type SongProvider interface {
	Create(ctx context.Context, song models.Song) (*models.Song, error)
	Get(ctx context.Context, id string) (*models.Song, error)
	Update(ctx context.Context, song models.Song) (*models.Song, error)
	Delete(ctx context.Context, id string) error
	ListByBands(ctx context.Context, bandIDs []string) ([]models.SongWithBand, error)
	AddChart(ctx context.Context, chart models.Chart) (*models.Chart, error)
	AddRecording(ctx context.Context, recording models.Recording) (*models.Recording, error)
	ListCharts(ctx context.Context, songID string) ([]models.Chart, error)
	ListRecordings(ctx context.Context, songID string) ([]models.Recording, error)
}

type (
	SongInput struct {
		BandID   string
		Title    string
		Artist   *string
		Comments *string
	}

	AttachmentInput struct {
		Name       string
		DriveURL   string
		RecordedAt string
	}
)

func NewSongService(
	log *slog.Logger,
	songs SongProvider,
	bands BandGetter,
	access *MembershipIndex) *SongService {
	return &SongService{
		log:    log,
		songs:  songs,
		bands:  bands,
		access: access,
	}
}

func (s *SongService) ListSongs(ctx context.Context, userID string) ([]models.SongWithBand, error) {
	const op = "service.song.ListSongs"

	bandIDs, err := s.access.BandIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	songs, err := s.songs.ListByBands(ctx, bandIDs)
	if err != nil {
		s.log.Error("failed to list songs", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return songs, nil
}

func (s *SongService) CreateSong(ctx context.Context, userID string, in SongInput) (*models.Song, error) {
	const op = "service.song.CreateSong"

	log := s.log.With(
		slog.String("op", op),
		slog.String("band_id", in.BandID),
	)

	in.Title = strings.TrimSpace(in.Title)
	if in.BandID == "" {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrBandIDRequired)
	}
	if in.Title == "" {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrSongTitleRequired)
	}

	if err := s.access.Authorize(ctx, userID, in.BandID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	song, err := s.songs.Create(ctx, models.Song{
		ID:       newID(),
		BandID:   in.BandID,
		Title:    in.Title,
		Artist:   optional(in.Artist),
		Comments: optional(in.Comments),
	})
	if err != nil {
		log.Error("failed to create song", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("song created", slog.String("song_id", song.ID))

	return song, nil
}

// authorizedSong loads the song and checks the caller belongs to its band.
func (s *SongService) authorizedSong(ctx context.Context, userID, songID string) (*models.Song, error) {
	song, err := s.songs.Get(ctx, songID)
	if err != nil {
		return nil, err
	}

	if err := s.access.Authorize(ctx, userID, song.BandID); err != nil {
		return nil, err
	}

	return song, nil
}

func (s *SongService) GetSong(ctx context.Context, userID, songID string) (*models.SongDetails, error) {
	const op = "service.song.GetSong"

	log := s.log.With(slog.String("op", op), slog.String("song_id", songID))

	song, err := s.authorizedSong(ctx, userID, songID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	band, err := s.bands.Get(ctx, song.BandID)
	if err != nil {
		log.Error("failed to load band", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	charts, err := s.songs.ListCharts(ctx, songID)
	if err != nil {
		log.Error("failed to load charts", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	recordings, err := s.songs.ListRecordings(ctx, songID)
	if err != nil {
		log.Error("failed to load recordings", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.SongDetails{
		Song:       *song,
		Band:       models.BandRef{ID: band.ID, Name: band.Name},
		Charts:     charts,
		Recordings: recordings,
	}, nil
}

func (s *SongService) UpdateSong(ctx context.Context, userID, songID string, in SongInput) (*models.Song, error) {
	const op = "service.song.UpdateSong"

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrSongTitleRequired)
	}

	song, err := s.authorizedSong(ctx, userID, songID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	song.Title = in.Title
	song.Artist = optional(in.Artist)
	song.Comments = optional(in.Comments)

	updated, err := s.songs.Update(ctx, *song)
	if err != nil {
		s.log.Error("failed to update song", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return updated, nil
}

func (s *SongService) DeleteSong(ctx context.Context, userID, songID string) error {
	const op = "service.song.DeleteSong"

	if _, err := s.authorizedSong(ctx, userID, songID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.songs.Delete(ctx, songID); err != nil {
		s.log.Error("failed to delete song", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("song deleted", slog.String("op", op), slog.String("song_id", songID))

	return nil
}

func (s *SongService) AddChart(ctx context.Context, userID, songID string, in AttachmentInput) (*models.Chart, error) {
	const op = "service.song.AddChart"

	in.Name = strings.TrimSpace(in.Name)
	in.DriveURL = strings.TrimSpace(in.DriveURL)
	if in.Name == "" || in.DriveURL == "" {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrAttachmentRequired)
	}

	if _, err := s.authorizedSong(ctx, userID, songID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	chart, err := s.songs.AddChart(ctx, models.Chart{
		ID:               newID(),
		SongID:           songID,
		UploadedByUserID: userID,
		Name:             in.Name,
		DriveURL:         in.DriveURL,
	})
	if err != nil {
		s.log.Error("failed to add chart", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return chart, nil
}

func (s *SongService) AddRecording(ctx context.Context, userID, songID string, in AttachmentInput) (*models.Recording, error) {
	const op = "service.song.AddRecording"

	in.Name = strings.TrimSpace(in.Name)
	in.DriveURL = strings.TrimSpace(in.DriveURL)
	if in.Name == "" || in.DriveURL == "" {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrAttachmentRequired)
	}
	if strings.TrimSpace(in.RecordedAt) == "" {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrRecordedAtRequired)
	}

	recordedAt, ok := parseDate(in.RecordedAt)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrRecordedAtMalformed)
	}

	if _, err := s.authorizedSong(ctx, userID, songID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	recording, err := s.songs.AddRecording(ctx, models.Recording{
		ID:               newID(),
		SongID:           songID,
		UploadedByUserID: userID,
		Name:             in.Name,
		DriveURL:         in.DriveURL,
		RecordedAt:       recordedAt.UTC().Truncate(time.Second),
	})
	if err != nil {
		s.log.Error("failed to add recording", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return recording, nil
}
