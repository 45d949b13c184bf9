package service

import (
	"band-manager/internal/apperrors"
	"band-manager/internal/domain/models"
	"band-manager/internal/lib/logger/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// AuthService maps session tokens to users. SignIn is the entry point for whichever
// identity provider adapter fronts the service.
type AuthService struct {
	log        *slog.Logger
	users      UserProvider
	sessions   SessionProvider
	sessionTTL time.Duration
	now        func() time.Time
}

type UserProvider interface {
	Upsert(ctx context.Context, id string, profile models.Profile) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type SessionProvider interface {
	Create(ctx context.Context, session models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

func NewAuthService(
	log *slog.Logger,
	users UserProvider,
	sessions SessionProvider,
	sessionTTL time.Duration) *AuthService {
	return &AuthService{
		log:        log,
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

func (s *AuthService) SignIn(ctx context.Context, profile models.Profile) (*models.User, *models.Session, error) {
	const op = "service.auth.SignIn"

	profile.Email = strings.TrimSpace(strings.ToLower(profile.Email))

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", profile.Email),
	)

	if profile.Email == "" {
		log.Warn("sign-in without email rejected")
		return nil, nil, fmt.Errorf("%s: %w", op, apperrors.ErrUserEmailMissing)
	}

	user, err := s.users.Upsert(ctx, newID(), profile)
	if err != nil {
		log.Error("failed to upsert user", sl.Err(err))
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err := newSessionToken()
	if err != nil {
		log.Error("failed to generate session token", sl.Err(err))
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	session := models.Session{
		ID:        token,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		log.Error("failed to create session", sl.Err(err))
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user signed in", slog.String("user_id", user.ID))

	return user, &session, nil
}

// Authenticate resolves a session token to its user. Every failure is ErrUnauthenticated
// except storage errors.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	const op = "service.auth.Authenticate"

	if token == "" {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrUnauthenticated)
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			return nil, fmt.Errorf("%s: %w: %w", op, apperrors.ErrUnauthenticated, err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w: %w", op, apperrors.ErrUnauthenticated, err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *AuthService) SignOut(ctx context.Context, token string) error {
	const op = "service.auth.SignOut"

	if err := s.sessions.Delete(ctx, token); err != nil {
		s.log.Error("failed to delete session", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	const op = "service.auth.PurgeExpiredSessions"

	purged, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if purged > 0 {
		s.log.Info("expired sessions purged", slog.String("op", op), slog.Int64("count", purged))
	}

	return purged, nil
}
