package service

import (
	"band-manager/internal/domain/models"
	"band-manager/internal/lib/logger/sl"
	"context"
	"fmt"
	"log/slog"
)

type StatsService struct {
	log       *slog.Logger
	statsRepo StatsProvider
	bands     BandGetter
	access    *MembershipIndex
}

type StatsProvider interface {
	GetBandCounts(ctx context.Context, bandID string) (*models.BandCounts, error)
}

type BandGetter interface {
	Get(ctx context.Context, id string) (*models.Band, error)
}

func NewStatsService(
	log *slog.Logger,
	statsRepo StatsProvider,
	bands BandGetter,
	access *MembershipIndex) *StatsService {
	return &StatsService{
		log:       log,
		statsRepo: statsRepo,
		bands:     bands,
		access:    access,
	}
}

func (s *StatsService) GetBandStats(ctx context.Context, userID, bandID string) (*models.BandCounts, error) {
	const op = "service.stats.GetBandStats"

	log := s.log.With(slog.String("op", op), slog.String("band_id", bandID))

	if err := s.access.Authorize(ctx, userID, bandID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.bands.Get(ctx, bandID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	counts, err := s.statsRepo.GetBandCounts(ctx, bandID)
	if err != nil {
		log.Error("failed to get band stats", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Debug("band stats retrieved",
		slog.Int("songs", counts.Songs),
		slog.Int("members", counts.Members),
		slog.Int("setlists", counts.Setlists))

	return counts, nil
}
