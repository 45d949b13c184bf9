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

const userColumns = `id, email, name, profile_picture_url, created_at, updated_at`

type UserRepo struct {
	storage *sqlx.DB
}

func NewUserRepo(storage *sqlx.DB) *UserRepo {
	return &UserRepo{storage: storage}
}

// Upsert creates the user keyed by email or refreshes name and picture of an existing one.
func (r *UserRepo) Upsert(ctx context.Context, id string, profile models.Profile) (*models.User, error) {
	const op = "repo.user.Upsert"

	query := `
		INSERT INTO users (id, email, name, profile_picture_url)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		ON CONFLICT (email)
		DO UPDATE SET
			name = EXCLUDED.name,
			profile_picture_url = EXCLUDED.profile_picture_url,
			updated_at = NOW()
		RETURNING ` + userColumns

	var user models.User
	err := r.storage.QueryRowxContext(ctx, query, id, profile.Email, profile.Name, profile.ProfilePictureURL).StructScan(&user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	const op = "repo.user.GetByID"

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user models.User
	if err := r.storage.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "repo.user.GetByEmail"

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user models.User
	if err := r.storage.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}
