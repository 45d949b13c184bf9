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

type MembershipRepo struct {
	storage *sqlx.DB
}

func NewMembershipRepo(storage *sqlx.DB) *MembershipRepo {
	return &MembershipRepo{storage: storage}
}

func (r *MembershipRepo) ListBandIDs(ctx context.Context, userID string) ([]string, error) {
	const op = "repo.membership.ListBandIDs"

	var bandIDs []string
	if err := r.storage.SelectContext(ctx, &bandIDs, `SELECT band_id FROM band_members WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bandIDs, nil
}

func (r *MembershipRepo) GetMember(ctx context.Context, bandID, userID string) (*models.BandMember, error) {
	const op = "repo.membership.GetMember"

	query := `
		SELECT band_id, user_id, role, joined_at
		FROM band_members
		WHERE band_id = $1 AND user_id = $2
	`

	var member models.BandMember
	if err := r.storage.GetContext(ctx, &member, query, bandID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrMemberNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &member, nil
}

func (r *MembershipRepo) AddMember(ctx context.Context, bandID, userID, role string) (*models.BandMember, error) {
	const op = "repo.membership.AddMember"

	query := `
		INSERT INTO band_members (band_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING band_id, user_id, role, joined_at
	`

	var member models.BandMember
	if err := r.storage.QueryRowxContext(ctx, query, bandID, userID, role).StructScan(&member); err != nil {
		switch {
		case isDuplicateKeyError(err):
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrAlreadyMember)
		case isForeignKeyError(err):
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &member, nil
}

// RemoveMember deletes the membership row, refusing to drop the band's last admin.
func (r *MembershipRepo) RemoveMember(ctx context.Context, bandID, userID string) error {
	const op = "repo.membership.RemoveMember"

	tx, err := r.storage.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	var admins []string
	lockQuery := `SELECT user_id FROM band_members WHERE band_id = $1 AND role = 'admin' FOR UPDATE`
	if err := tx.SelectContext(ctx, &admins, lockQuery, bandID); err != nil {
		return fmt.Errorf("%s: failed to lock admins: %w", op, err)
	}

	if len(admins) == 1 && admins[0] == userID {
		return fmt.Errorf("%s: %w", op, apperrors.ErrLastAdmin)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM band_members WHERE band_id = $1 AND user_id = $2`, bandID, userID)
	if err != nil {
		return fmt.Errorf("%s: failed to delete member: %w", op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, apperrors.ErrMemberNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return nil
}
