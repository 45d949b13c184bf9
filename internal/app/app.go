package app

import (
	"band-manager/internal/app/rest"
	"band-manager/internal/config"
	v1 "band-manager/internal/http/v1"
	"band-manager/internal/http/v1/middleware"
	"band-manager/internal/lib/janitor"
	"band-manager/internal/lib/logger/sl"
	"band-manager/internal/lib/migrator"
	"band-manager/internal/repo"
	"band-manager/internal/service"
	"band-manager/internal/storage/postgresql"
	"context"
	"errors"
	"github.com/jmoiron/sqlx"
	"log/slog"
	"net/http"
	"time"
)

const limiterIdleTTL = 30 * time.Minute

type App struct {
	log     *slog.Logger
	storage *postgresql.Storage
	janitor *janitor.Janitor
	restApp *rest.App
}

func MustNew(log *slog.Logger, cfg *config.Config) *App {
	if err := migrator.RunMigrations(cfg.Postgres.DSN(), log); err != nil {
		log.Error("failed to run migrations", sl.Err(err))
		panic(err)
	}

	storage := postgresql.Init(cfg.Postgres)

	deps := NewDependencies(log, storage.GetDB(), cfg)

	cleaner, err := janitor.New(log, deps.AuthService, cfg.Session.PurgeSchedule)
	if err != nil {
		log.Error("failed to schedule session janitor", sl.Err(err))
		panic(err)
	}

	err = cleaner.AddJob("@every 10m", "rate-limit-prune", func() {
		deps.RateLimiter.Prune(limiterIdleTTL)
	})
	if err != nil {
		panic(err)
	}

	restApp := rest.New(log, deps, cfg.Server)

	return &App{
		log:     log,
		storage: storage,
		janitor: cleaner,
		restApp: restApp,
	}
}

// NewDependencies wires repositories and services on top of an open database.
func NewDependencies(log *slog.Logger, db *sqlx.DB, cfg *config.Config) *v1.RouterDependencies {
	userRepo := repo.NewUserRepo(db)
	sessionRepo := repo.NewSessionRepo(db)
	membershipRepo := repo.NewMembershipRepo(db)
	bandRepo := repo.NewBandRepo(db)
	songRepo := repo.NewSongRepo(db)
	setlistRepo := repo.NewSetlistRepo(db)
	statsRepo := repo.NewStatsRepo(db)

	access := service.NewMembershipIndex(log, membershipRepo)

	authService := service.NewAuthService(log, userRepo, sessionRepo, cfg.Session.TTL)
	bandService := service.NewBandService(log, bandRepo, membershipRepo, userRepo, songRepo, setlistRepo, access)
	songService := service.NewSongService(log, songRepo, bandRepo, access)
	setlistService := service.NewSetlistService(log, setlistRepo, songRepo, access)
	statsService := service.NewStatsService(log, statsRepo, bandRepo, access)

	return &v1.RouterDependencies{
		AuthService:    authService,
		BandService:    bandService,
		SongService:    songService,
		SetlistService: setlistService,
		StatsService:   statsService,
		Session:        cfg.Session,
		RateLimiter:    middleware.NewRateLimiter(float64(cfg.RateLimit.RPS), cfg.RateLimit.Burst, log),
	}
}

func (a *App) MustRun() {
	const op = "app.MustRun"
	a.log.With(slog.String("op", op)).Info("starting application")

	a.janitor.Start()

	if err := a.restApp.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}
}

func (a *App) GracefulShutdown() {
	const op = "app.GracefulShutdown"
	a.log.With(slog.String("op", op)).Info("shutting down application")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.restApp.Stop(ctx); err != nil {
		a.log.Error("failed to stop HTTP server", sl.Err(err))
	}

	a.janitor.Stop(ctx)

	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			a.log.Error("failed to close database", sl.Err(err))
			return
		}
		a.log.Info("database connection closed")
	}
}
