package repo

import (
	"band-manager/internal/apperrors"
	"band-manager/internal/domain/models"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/jmoiron/sqlx"
)

type BandRepo struct {
	storage *sqlx.DB
}

func NewBandRepo(storage *sqlx.DB) *BandRepo {
	return &BandRepo{storage: storage}
}

// CreateWithAdmin inserts the band and the creator's admin membership in one transaction.
func (r *BandRepo) CreateWithAdmin(ctx context.Context, bandID, name, userID string) (*models.Band, error) {
	const op = "repo.band.CreateWithAdmin"

	tx, err := r.storage.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	bandQuery := `
		INSERT INTO bands (id, name)
		VALUES ($1, $2)
		RETURNING id, name, created_at, updated_at
	`

	var band models.Band
	if err := tx.QueryRowxContext(ctx, bandQuery, bandID, name).StructScan(&band); err != nil {
		return nil, fmt.Errorf("%s: failed to create band: %w", op, err)
	}

	memberQuery := `INSERT INTO band_members (band_id, user_id, role) VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, memberQuery, band.ID, userID, models.RoleAdmin); err != nil {
		if isForeignKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: failed to add admin member: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return &band, nil
}

func (r *BandRepo) Get(ctx context.Context, id string) (*models.Band, error) {
	const op = "repo.band.Get"

	var band models.Band
	err := r.storage.GetContext(ctx, &band, `SELECT id, name, created_at, updated_at FROM bands WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrBandNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &band, nil
}

func (r *BandRepo) ListForUser(ctx context.Context, userID string) ([]models.BandSummary, error) {
	const op = "repo.band.ListForUser"

	query := `
		SELECT
			b.id,
			b.name,
			b.created_at,
			b.updated_at,
			bm.role AS member_role,
			bm.joined_at,
			(SELECT COUNT(*) FROM songs s WHERE s.band_id = b.id) AS "counts.songs",
			(SELECT COUNT(*) FROM band_members m WHERE m.band_id = b.id) AS "counts.members",
			(SELECT COUNT(*) FROM setlists sl WHERE sl.band_id = b.id) AS "counts.setlists"
		FROM band_members bm
		JOIN bands b ON b.id = bm.band_id
		WHERE bm.user_id = $1
		ORDER BY bm.joined_at DESC
	`

	bands := []models.BandSummary{}
	if err := r.storage.SelectContext(ctx, &bands, query, userID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bands, nil
}

func (r *BandRepo) ListMembers(ctx context.Context, bandID string) ([]models.BandMemberWithUser, error) {
	const op = "repo.band.ListMembers"

	query := `
		SELECT
			bm.band_id,
			bm.user_id,
			bm.role,
			bm.joined_at,
			u.id AS "user.id",
			u.name AS "user.name",
			u.email AS "user.email",
			u.profile_picture_url AS "user.profile_picture_url"
		FROM band_members bm
		JOIN users u ON u.id = bm.user_id
		WHERE bm.band_id = $1
		ORDER BY bm.joined_at ASC
	`

	members := []models.BandMemberWithUser{}
	if err := r.storage.SelectContext(ctx, &members, query, bandID); err != nil {
		return nil, fmt.Errorf("%s: failed to get band members: %w", op, err)
	}

	return members, nil
}
