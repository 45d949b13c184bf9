package repo

import (
	"band-manager/internal/apperrors"
	"band-manager/internal/domain/models"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const setlistWithBandColumns = `
	sl.id, sl.band_id, sl.name, sl.date, sl.venue, sl.notes, sl.created_at, sl.updated_at,
	b.id AS "band.id",
	b.name AS "band.name"
`

type SetlistRepo struct {
	storage *sqlx.DB
}

func NewSetlistRepo(storage *sqlx.DB) *SetlistRepo {
	return &SetlistRepo{storage: storage}
}

// Create inserts the setlist together with its ordered songs.
func (r *SetlistRepo) Create(ctx context.Context, setlist models.Setlist, songIDs []string) (*models.Setlist, error) {
	const op = "repo.setlist.Create"

	tx, err := r.storage.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO setlists (id, band_id, name, date, venue, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, band_id, name, date, venue, notes, created_at, updated_at
	`

	var created models.Setlist
	err = tx.QueryRowxContext(ctx, query,
		setlist.ID, setlist.BandID, setlist.Name, setlist.Date, setlist.Venue, setlist.Notes).StructScan(&created)
	if err != nil {
		if isForeignKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrBandNotFound)
		}
		return nil, fmt.Errorf("%s: failed to create setlist: %w", op, err)
	}

	if err := insertSetlistSongs(ctx, tx, models.OrderSongs(created.ID, songIDs)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return &created, nil
}

func (r *SetlistRepo) Get(ctx context.Context, id string) (*models.SetlistDetails, error) {
	const op = "repo.setlist.Get"

	query := `SELECT ` + setlistWithBandColumns + `
		FROM setlists sl
		JOIN bands b ON b.id = sl.band_id
		WHERE sl.id = $1
	`

	var setlist models.SetlistDetails
	if err := r.storage.GetContext(ctx, &setlist, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrSetlistNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &setlist, nil
}

func (r *SetlistRepo) ListByBands(ctx context.Context, bandIDs []string) ([]models.SetlistDetails, error) {
	const op = "repo.setlist.ListByBands"

	setlists := []models.SetlistDetails{}
	if len(bandIDs) == 0 {
		return setlists, nil
	}

	query := `SELECT ` + setlistWithBandColumns + `
		FROM setlists sl
		JOIN bands b ON b.id = sl.band_id
		WHERE sl.band_id = ANY($1)
		ORDER BY sl.created_at DESC
	`

	if err := r.storage.SelectContext(ctx, &setlists, query, pq.Array(bandIDs)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return setlists, nil
}

func (r *SetlistRepo) ListByBand(ctx context.Context, bandID string) ([]models.Setlist, error) {
	const op = "repo.setlist.ListByBand"

	query := `
		SELECT id, band_id, name, date, venue, notes, created_at, updated_at
		FROM setlists
		WHERE band_id = $1
		ORDER BY date DESC NULLS LAST
	`

	setlists := []models.Setlist{}
	if err := r.storage.SelectContext(ctx, &setlists, query, bandID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return setlists, nil
}

// ListSongs returns the setlist's songs ordered by song_order.
func (r *SetlistRepo) ListSongs(ctx context.Context, setlistID string) ([]models.OrderedSong, error) {
	const op = "repo.setlist.ListSongs"

	query := `
		SELECT
			s.id, s.band_id, s.title, s.artist, s.comments, s.created_at, s.updated_at,
			ss.song_order
		FROM setlist_songs ss
		JOIN songs s ON s.id = ss.song_id
		WHERE ss.setlist_id = $1
		ORDER BY ss.song_order ASC
	`

	songs := []models.OrderedSong{}
	if err := r.storage.SelectContext(ctx, &songs, query, setlistID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return songs, nil
}

// ListSongsForSetlists groups ordered songs by setlist ID.
func (r *SetlistRepo) ListSongsForSetlists(ctx context.Context, setlistIDs []string) (map[string][]models.OrderedSong, error) {
	const op = "repo.setlist.ListSongsForSetlists"

	grouped := make(map[string][]models.OrderedSong, len(setlistIDs))
	if len(setlistIDs) == 0 {
		return grouped, nil
	}

	query := `
		SELECT
			ss.setlist_id,
			s.id, s.band_id, s.title, s.artist, s.comments, s.created_at, s.updated_at,
			ss.song_order
		FROM setlist_songs ss
		JOIN songs s ON s.id = ss.song_id
		WHERE ss.setlist_id = ANY($1)
		ORDER BY ss.setlist_id, ss.song_order ASC
	`

	var rows []struct {
		SetlistID string `db:"setlist_id"`
		models.OrderedSong
	}
	if err := r.storage.SelectContext(ctx, &rows, query, pq.Array(setlistIDs)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, row := range rows {
		grouped[row.SetlistID] = append(grouped[row.SetlistID], row.OrderedSong)
	}

	return grouped, nil
}

// ReplaceSongs rewrites the setlist's order rows from scratch. The setlist row is locked
// first so concurrent reorders of the same setlist serialize, and readers never observe
// the intermediate empty state.
func (r *SetlistRepo) ReplaceSongs(ctx context.Context, setlistID string, songIDs []string) error {
	const op = "repo.setlist.ReplaceSongs"

	tx, err := r.storage.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	var lockedID string
	if err := tx.GetContext(ctx, &lockedID, `SELECT id FROM setlists WHERE id = $1 FOR UPDATE`, setlistID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, apperrors.ErrSetlistNotFound)
		}
		return fmt.Errorf("%s: failed to lock setlist: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM setlist_songs WHERE setlist_id = $1`, setlistID); err != nil {
		return fmt.Errorf("%s: failed to clear setlist songs: %w", op, err)
	}

	if err := insertSetlistSongs(ctx, tx, models.OrderSongs(setlistID, songIDs)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE setlists SET updated_at = NOW() WHERE id = $1`, setlistID); err != nil {
		return fmt.Errorf("%s: failed to touch setlist: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return nil
}

func (r *SetlistRepo) Delete(ctx context.Context, id string) error {
	const op = "repo.setlist.Delete"

	result, err := r.storage.ExecContext(ctx, `DELETE FROM setlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, apperrors.ErrSetlistNotFound)
	}

	return nil
}

func insertSetlistSongs(ctx context.Context, tx *sqlx.Tx, rows []models.SetlistSong) error {
	query := `INSERT INTO setlist_songs (setlist_id, song_id, song_order) VALUES ($1, $2, $3)`

	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, query, row.SetlistID, row.SongID, row.SongOrder); err != nil {
			switch {
			case isDuplicateKeyError(err):
				return apperrors.ErrDuplicateSetlistSong
			case isForeignKeyError(err):
				return apperrors.ErrSongNotFound
			}
			return fmt.Errorf("failed to add song %s at position %d: %w", row.SongID, row.SongOrder, err)
		}
	}

	return nil
}
