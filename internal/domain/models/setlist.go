package models

import "time"

type Setlist struct {
	ID        string     `db:"id" json:"id"`
	BandID    string     `db:"band_id" json:"band_id"`
	Name      string     `db:"name" json:"name"`
	Date      *time.Time `db:"date" json:"date,omitempty"`
	Venue     *string    `db:"venue" json:"venue,omitempty"`
	Notes     *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

type SetlistSong struct {
	SetlistID string `db:"setlist_id" json:"setlist_id"`
	SongID    string `db:"song_id" json:"song_id"`
	SongOrder int    `db:"song_order" json:"song_order"`
}

// OrderedSong is a song flattened with its position in a setlist.
type OrderedSong struct {
	Song
	Order int `db:"song_order" json:"order"`
}

type SetlistDetails struct {
	Setlist
	Band  BandRef       `db:"band" json:"band"`
	Songs []OrderedSong `db:"-" json:"songs"`
}

// OrderSongs maps position i of songIDs to song_order i+1.
func OrderSongs(setlistID string, songIDs []string) []SetlistSong {
	rows := make([]SetlistSong, len(songIDs))
	for i, songID := range songIDs {
		rows[i] = SetlistSong{
			SetlistID: setlistID,
			SongID:    songID,
			SongOrder: i + 1,
		}
	}
	return rows
}
