package integration

import (
	"band-manager/internal/app"
	"band-manager/internal/app/rest"
	"band-manager/internal/config"
	"band-manager/internal/lib/migrator"
	"fmt"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

const (
	cookieName = "session_id"

	aliceToken = "alice-session"
	bobToken   = "bob-session"
	carolToken = "carol-session"
)

type TestServer struct {
	DB     *sqlx.DB
	Server *httptest.Server
}

// NewTestServer runs the full router against the database named by TEST_POSTGRES_DSN
// and skips the test when it is unset.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set, skipping integration test")
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	if err := migrator.RunMigrations(dsn, log); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	cfg := &config.Config{
		Session: config.SessionConfig{
			CookieName: cookieName,
			TTL:        time.Hour,
		},
		RateLimit: config.RateLimitConfig{RPS: 1000, Burst: 1000},
	}

	deps := app.NewDependencies(log, db, cfg)
	ts := httptest.NewServer(rest.NewRouter(log, deps))

	s := &TestServer{DB: db, Server: ts}
	t.Cleanup(s.Close)

	if err := s.LoadFixtures(); err != nil {
		t.Fatalf("failed to load fixtures: %v", err)
	}

	return s
}

// LoadFixtures seeds two bands: "The Beatles" (alice admin, bob member) with three songs
// and a setlist, and "Stones" (carol admin) with one song.
func (s *TestServer) LoadFixtures() error {
	tables := []string{"setlist_songs", "setlists", "recordings", "charts", "songs", "band_members", "bands", "sessions", "users"}
	for _, table := range tables {
		if _, err := s.DB.Exec(fmt.Sprintf("TRUNCATE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}

	fixtures := `
		INSERT INTO users(id, email, name) VALUES
			('u-alice', 'alice@example.com', 'Alice'),
			('u-bob', 'bob@example.com', 'Bob'),
			('u-carol', 'carol@example.com', 'Carol'),
			('u-dave', 'dave@example.com', 'Dave');

		INSERT INTO sessions(id, user_id, expires_at) VALUES
			('alice-session', 'u-alice', NOW() + INTERVAL '1 hour'),
			('bob-session', 'u-bob', NOW() + INTERVAL '1 hour'),
			('carol-session', 'u-carol', NOW() + INTERVAL '1 hour'),
			('expired-session', 'u-alice', NOW() - INTERVAL '1 hour');

		INSERT INTO bands(id, name) VALUES
			('b-beatles', 'The Beatles'),
			('b-stones', 'Stones');

		INSERT INTO band_members(band_id, user_id, role) VALUES
			('b-beatles', 'u-alice', 'admin'),
			('b-beatles', 'u-bob', 'member'),
			('b-stones', 'u-carol', 'admin');

		INSERT INTO songs(id, band_id, title, artist) VALUES
			('s-help', 'b-beatles', 'Help!', 'Lennon'),
			('s-yesterday', 'b-beatles', 'Yesterday', 'McCartney'),
			('s-something', 'b-beatles', 'Something', 'Harrison'),
			('s-angie', 'b-stones', 'Angie', 'Jagger');

		INSERT INTO setlists(id, band_id, name) VALUES
			('sl-cavern', 'b-beatles', 'Cavern Club');

		INSERT INTO setlist_songs(setlist_id, song_id, song_order) VALUES
			('sl-cavern', 's-help', 1),
			('sl-cavern', 's-yesterday', 2);
	`

	if _, err := s.DB.Exec(fixtures); err != nil {
		return fmt.Errorf("failed to load fixtures: %w", err)
	}

	return nil
}

func (s *TestServer) Close() {
	s.Server.Close()
	s.DB.Close()
}
