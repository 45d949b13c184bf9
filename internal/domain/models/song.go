package models

import "time"

type Song struct {
	ID        string    `db:"id" json:"id"`
	BandID    string    `db:"band_id" json:"band_id"`
	Title     string    `db:"title" json:"title"`
	Artist    *string   `db:"artist" json:"artist,omitempty"`
	Comments  *string   `db:"comments" json:"comments,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type SongWithBand struct {
	Song
	Band BandRef `db:"band" json:"band"`
}

type SongSummary struct {
	Song
	ChartCount     int `db:"chart_count" json:"chart_count"`
	RecordingCount int `db:"recording_count" json:"recording_count"`
}

type SongDetails struct {
	Song
	Band       BandRef     `db:"band" json:"band"`
	Charts     []Chart     `db:"-" json:"charts"`
	Recordings []Recording `db:"-" json:"recordings"`
}

type Chart struct {
	ID               string    `db:"id" json:"id"`
	SongID           string    `db:"song_id" json:"song_id"`
	UploadedByUserID string    `db:"uploaded_by_user_id" json:"uploaded_by_user_id"`
	Name             string    `db:"name" json:"name"`
	DriveURL         string    `db:"drive_url" json:"drive_url"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UploadedBy       UserRef   `db:"uploaded_by" json:"uploaded_by"`
}

type Recording struct {
	ID               string    `db:"id" json:"id"`
	SongID           string    `db:"song_id" json:"song_id"`
	UploadedByUserID string    `db:"uploaded_by_user_id" json:"uploaded_by_user_id"`
	Name             string    `db:"name" json:"name"`
	DriveURL         string    `db:"drive_url" json:"drive_url"`
	RecordedAt       time.Time `db:"recorded_at" json:"recorded_at"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UploadedBy       UserRef   `db:"uploaded_by" json:"uploaded_by"`
}
