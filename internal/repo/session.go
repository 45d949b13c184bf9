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

type SessionRepo struct {
	storage *sqlx.DB
}

func NewSessionRepo(storage *sqlx.DB) *SessionRepo {
	return &SessionRepo{storage: storage}
}

func (r *SessionRepo) Create(ctx context.Context, session models.Session) error {
	const op = "repo.session.Create"

	query := `INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`

	if _, err := r.storage.ExecContext(ctx, query, session.ID, session.UserID, session.CreatedAt, session.ExpiresAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Get returns the session only while it has not expired.
func (r *SessionRepo) Get(ctx context.Context, id string) (*models.Session, error) {
	const op = "repo.session.Get"

	query := `
		SELECT id, user_id, created_at, expires_at
		FROM sessions
		WHERE id = $1 AND expires_at > NOW()
	`

	var session models.Session
	if err := r.storage.GetContext(ctx, &session, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrSessionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &session, nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	const op = "repo.session.Delete"

	if _, err := r.storage.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	const op = "repo.session.DeleteExpired"

	result, err := r.storage.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return rowsAffected, nil
}
