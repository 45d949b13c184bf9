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

const songColumns = `id, band_id, title, artist, comments, created_at, updated_at`

type SongRepo struct {
	storage *sqlx.DB
}

func NewSongRepo(storage *sqlx.DB) *SongRepo {
	return &SongRepo{storage: storage}
}

func (r *SongRepo) Create(ctx context.Context, song models.Song) (*models.Song, error) {
	const op = "repo.song.Create"

	query := `
		INSERT INTO songs (id, band_id, title, artist, comments)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + songColumns

	var created models.Song
	err := r.storage.QueryRowxContext(ctx, query, song.ID, song.BandID, song.Title, song.Artist, song.Comments).StructScan(&created)
	if err != nil {
		if isForeignKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrBandNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &created, nil
}

func (r *SongRepo) Get(ctx context.Context, id string) (*models.Song, error) {
	const op = "repo.song.Get"

	var song models.Song
	if err := r.storage.GetContext(ctx, &song, `SELECT `+songColumns+` FROM songs WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrSongNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &song, nil
}

func (r *SongRepo) Update(ctx context.Context, song models.Song) (*models.Song, error) {
	const op = "repo.song.Update"

	query := `
		UPDATE songs
		SET title = $2, artist = $3, comments = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + songColumns

	var updated models.Song
	err := r.storage.QueryRowxContext(ctx, query, song.ID, song.Title, song.Artist, song.Comments).StructScan(&updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrSongNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &updated, nil
}

func (r *SongRepo) Delete(ctx context.Context, id string) error {
	const op = "repo.song.Delete"

	result, err := r.storage.ExecContext(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, apperrors.ErrSongNotFound)
	}

	return nil
}

func (r *SongRepo) ListByBands(ctx context.Context, bandIDs []string) ([]models.SongWithBand, error) {
	const op = "repo.song.ListByBands"

	songs := []models.SongWithBand{}
	if len(bandIDs) == 0 {
		return songs, nil
	}

	query := `
		SELECT
			s.id, s.band_id, s.title, s.artist, s.comments, s.created_at, s.updated_at,
			b.id AS "band.id",
			b.name AS "band.name"
		FROM songs s
		JOIN bands b ON b.id = s.band_id
		WHERE s.band_id = ANY($1)
		ORDER BY s.created_at DESC
	`

	if err := r.storage.SelectContext(ctx, &songs, query, pq.Array(bandIDs)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return songs, nil
}

func (r *SongRepo) ListSummariesByBand(ctx context.Context, bandID string) ([]models.SongSummary, error) {
	const op = "repo.song.ListSummariesByBand"

	query := `
		SELECT
			s.id, s.band_id, s.title, s.artist, s.comments, s.created_at, s.updated_at,
			(SELECT COUNT(*) FROM charts c WHERE c.song_id = s.id) AS chart_count,
			(SELECT COUNT(*) FROM recordings rc WHERE rc.song_id = s.id) AS recording_count
		FROM songs s
		WHERE s.band_id = $1
		ORDER BY s.updated_at DESC
	`

	songs := []models.SongSummary{}
	if err := r.storage.SelectContext(ctx, &songs, query, bandID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return songs, nil
}

// CountInBand reports how many of songIDs belong to bandID.
func (r *SongRepo) CountInBand(ctx context.Context, bandID string, songIDs []string) (int, error) {
	const op = "repo.song.CountInBand"

	if len(songIDs) == 0 {
		return 0, nil
	}

	var count int
	query := `SELECT COUNT(*) FROM songs WHERE band_id = $1 AND id = ANY($2)`
	if err := r.storage.GetContext(ctx, &count, query, bandID, pq.Array(songIDs)); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

func (r *SongRepo) AddChart(ctx context.Context, chart models.Chart) (*models.Chart, error) {
	const op = "repo.song.AddChart"

	query := `
		WITH inserted AS (
			INSERT INTO charts (id, song_id, uploaded_by_user_id, name, drive_url)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, song_id, uploaded_by_user_id, name, drive_url, created_at
		)
		SELECT
			i.id, i.song_id, i.uploaded_by_user_id, i.name, i.drive_url, i.created_at,
			u.id AS "uploaded_by.id",
			u.name AS "uploaded_by.name",
			u.email AS "uploaded_by.email"
		FROM inserted i
		JOIN users u ON u.id = i.uploaded_by_user_id
	`

	var created models.Chart
	err := r.storage.QueryRowxContext(ctx, query,
		chart.ID, chart.SongID, chart.UploadedByUserID, chart.Name, chart.DriveURL).StructScan(&created)
	if err != nil {
		if isForeignKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrSongNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &created, nil
}

func (r *SongRepo) AddRecording(ctx context.Context, recording models.Recording) (*models.Recording, error) {
	const op = "repo.song.AddRecording"

	query := `
		WITH inserted AS (
			INSERT INTO recordings (id, song_id, uploaded_by_user_id, name, drive_url, recorded_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, song_id, uploaded_by_user_id, name, drive_url, recorded_at, created_at
		)
		SELECT
			i.id, i.song_id, i.uploaded_by_user_id, i.name, i.drive_url, i.recorded_at, i.created_at,
			u.id AS "uploaded_by.id",
			u.name AS "uploaded_by.name",
			u.email AS "uploaded_by.email"
		FROM inserted i
		JOIN users u ON u.id = i.uploaded_by_user_id
	`

	var created models.Recording
	err := r.storage.QueryRowxContext(ctx, query,
		recording.ID, recording.SongID, recording.UploadedByUserID,
		recording.Name, recording.DriveURL, recording.RecordedAt).StructScan(&created)
	if err != nil {
		if isForeignKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrSongNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &created, nil
}

func (r *SongRepo) ListCharts(ctx context.Context, songID string) ([]models.Chart, error) {
	const op = "repo.song.ListCharts"

	query := `
		SELECT
			c.id, c.song_id, c.uploaded_by_user_id, c.name, c.drive_url, c.created_at,
			u.id AS "uploaded_by.id",
			u.name AS "uploaded_by.name",
			u.email AS "uploaded_by.email"
		FROM charts c
		JOIN users u ON u.id = c.uploaded_by_user_id
		WHERE c.song_id = $1
		ORDER BY c.created_at ASC
	`

	charts := []models.Chart{}
	if err := r.storage.SelectContext(ctx, &charts, query, songID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return charts, nil
}

func (r *SongRepo) ListRecordings(ctx context.Context, songID string) ([]models.Recording, error) {
	const op = "repo.song.ListRecordings"

	query := `
		SELECT
			rc.id, rc.song_id, rc.uploaded_by_user_id, rc.name, rc.drive_url, rc.recorded_at, rc.created_at,
			u.id AS "uploaded_by.id",
			u.name AS "uploaded_by.name",
			u.email AS "uploaded_by.email"
		FROM recordings rc
		JOIN users u ON u.id = rc.uploaded_by_user_id
		WHERE rc.song_id = $1
		ORDER BY rc.recorded_at DESC
	`

	recordings := []models.Recording{}
	if err := r.storage.SelectContext(ctx, &recordings, query, songID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return recordings, nil
}
