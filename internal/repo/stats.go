package repo

import (
	"band-manager/internal/domain/models"
	"context"
	"fmt"
	"github.com/jmoiron/sqlx"
)

type StatsRepo struct {
	storage *sqlx.DB
}

func NewStatsRepo(storage *sqlx.DB) *StatsRepo {
	return &StatsRepo{storage: storage}
}

func (r *StatsRepo) GetBandCounts(ctx context.Context, bandID string) (*models.BandCounts, error) {
	const op = "repo.stats.GetBandCounts"

	query := `
		SELECT
			(SELECT COUNT(*) FROM songs WHERE band_id = $1) AS songs,
			(SELECT COUNT(*) FROM band_members WHERE band_id = $1) AS members,
			(SELECT COUNT(*) FROM setlists WHERE band_id = $1) AS setlists
	`

	var counts models.BandCounts
	if err := r.storage.GetContext(ctx, &counts, query, bandID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &counts, nil
}
