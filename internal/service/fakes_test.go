package service

import (
	"band-manager/internal/apperrors"
	"band-manager/internal/domain/models"
	"context"
	"io"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"
)

// memDB is an in-memory stand-in for the repositories.
type memDB struct {
	mu       sync.Mutex
	users    map[string]models.User
	sessions map[string]models.Session
	bands    map[string]models.Band
	members  []models.BandMember
	songs    map[string]models.Song
	charts   []models.Chart
	setlists map[string]models.Setlist
	order    map[string][]string

	replaceErr   error
	replaceCalls int
}

func newMemDB() *memDB {
	return &memDB{
		users:    map[string]models.User{},
		sessions: map[string]models.Session{},
		bands:    map[string]models.Band{},
		songs:    map[string]models.Song{},
		setlists: map[string]models.Setlist{},
		order:    map[string][]string{},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (db *memDB) addUser(id, email string) {
	db.users[id] = models.User{ID: id, Email: email, Name: id}
}

func (db *memDB) addBand(id string, members map[string]string) {
	db.bands[id] = models.Band{ID: id, Name: id}
	for userID, role := range members {
		db.members = append(db.members, models.BandMember{BandID: id, UserID: userID, Role: role})
	}
}

func (db *memDB) addSong(id, bandID string) {
	db.songs[id] = models.Song{ID: id, BandID: bandID, Title: id}
}

func (db *memDB) addSetlist(id, bandID string, songIDs ...string) {
	db.setlists[id] = models.Setlist{ID: id, BandID: bandID, Name: id}
	db.order[id] = songIDs
}

type fakeUsers struct{ db *memDB }

func (f fakeUsers) Upsert(_ context.Context, id string, profile models.Profile) (*models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()

	for key, user := range f.db.users {
		if user.Email == profile.Email {
			user.Name = profile.Name
			f.db.users[key] = user
			return &user, nil
		}
	}
	user := models.User{ID: id, Email: profile.Email, Name: profile.Name}
	f.db.users[id] = user
	return &user, nil
}

func (f fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	user, ok := f.db.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &user, nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.db.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

type fakeSessions struct {
	db  *memDB
	now func() time.Time
}

func (f fakeSessions) Create(_ context.Context, session models.Session) error {
	f.db.sessions[session.ID] = session
	return nil
}

func (f fakeSessions) Get(_ context.Context, id string) (*models.Session, error) {
	session, ok := f.db.sessions[id]
	if !ok || !session.ExpiresAt.After(f.now()) {
		return nil, apperrors.ErrSessionNotFound
	}
	return &session, nil
}

func (f fakeSessions) Delete(_ context.Context, id string) error {
	delete(f.db.sessions, id)
	return nil
}

func (f fakeSessions) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	for id, session := range f.db.sessions {
		if !session.ExpiresAt.After(f.now()) {
			delete(f.db.sessions, id)
			n++
		}
	}
	return n, nil
}

type fakeMembers struct{ db *memDB }

func (f fakeMembers) ListBandIDs(_ context.Context, userID string) ([]string, error) {
	ids := []string{}
	for _, m := range f.db.members {
		if m.UserID == userID {
			ids = append(ids, m.BandID)
		}
	}
	return ids, nil
}

func (f fakeMembers) GetMember(_ context.Context, bandID, userID string) (*models.BandMember, error) {
	for _, m := range f.db.members {
		if m.BandID == bandID && m.UserID == userID {
			return &m, nil
		}
	}
	return nil, apperrors.ErrMemberNotFound
}

func (f fakeMembers) AddMember(ctx context.Context, bandID, userID, role string) (*models.BandMember, error) {
	if _, err := f.GetMember(ctx, bandID, userID); err == nil {
		return nil, apperrors.ErrAlreadyMember
	}
	member := models.BandMember{BandID: bandID, UserID: userID, Role: role}
	f.db.members = append(f.db.members, member)
	return &member, nil
}

func (f fakeMembers) RemoveMember(_ context.Context, bandID, userID string) error {
	admins := 0
	idx := -1
	for i, m := range f.db.members {
		if m.BandID != bandID {
			continue
		}
		if m.Role == models.RoleAdmin {
			admins++
		}
		if m.UserID == userID {
			idx = i
		}
	}
	if idx < 0 {
		return apperrors.ErrMemberNotFound
	}
	if f.db.members[idx].Role == models.RoleAdmin && admins == 1 {
		return apperrors.ErrLastAdmin
	}
	f.db.members = slices.Delete(f.db.members, idx, idx+1)
	return nil
}

type fakeBands struct{ db *memDB }

func (f fakeBands) CreateWithAdmin(_ context.Context, bandID, name, userID string) (*models.Band, error) {
	band := models.Band{ID: bandID, Name: name}
	f.db.bands[bandID] = band
	f.db.members = append(f.db.members, models.BandMember{BandID: bandID, UserID: userID, Role: models.RoleAdmin})
	return &band, nil
}

func (f fakeBands) Get(_ context.Context, id string) (*models.Band, error) {
	band, ok := f.db.bands[id]
	if !ok {
		return nil, apperrors.ErrBandNotFound
	}
	return &band, nil
}

func (f fakeBands) ListForUser(_ context.Context, userID string) ([]models.BandSummary, error) {
	bands := []models.BandSummary{}
	for _, m := range f.db.members {
		if m.UserID == userID {
			bands = append(bands, models.BandSummary{Band: f.db.bands[m.BandID], MemberRole: m.Role})
		}
	}
	return bands, nil
}

func (f fakeBands) ListMembers(_ context.Context, bandID string) ([]models.BandMemberWithUser, error) {
	members := []models.BandMemberWithUser{}
	for _, m := range f.db.members {
		if m.BandID == bandID {
			members = append(members, models.BandMemberWithUser{BandMember: m})
		}
	}
	return members, nil
}

type fakeSongs struct{ db *memDB }

func (f fakeSongs) Create(_ context.Context, song models.Song) (*models.Song, error) {
	f.db.songs[song.ID] = song
	return &song, nil
}

func (f fakeSongs) Get(_ context.Context, id string) (*models.Song, error) {
	song, ok := f.db.songs[id]
	if !ok {
		return nil, apperrors.ErrSongNotFound
	}
	return &song, nil
}

func (f fakeSongs) Update(_ context.Context, song models.Song) (*models.Song, error) {
	if _, ok := f.db.songs[song.ID]; !ok {
		return nil, apperrors.ErrSongNotFound
	}
	f.db.songs[song.ID] = song
	return &song, nil
}

func (f fakeSongs) Delete(_ context.Context, id string) error {
	if _, ok := f.db.songs[id]; !ok {
		return apperrors.ErrSongNotFound
	}
	delete(f.db.songs, id)
	return nil
}

func (f fakeSongs) ListByBands(_ context.Context, bandIDs []string) ([]models.SongWithBand, error) {
	songs := []models.SongWithBand{}
	for _, song := range f.db.songs {
		if slices.Contains(bandIDs, song.BandID) {
			songs = append(songs, models.SongWithBand{Song: song, Band: models.BandRef{ID: song.BandID}})
		}
	}
	sort.Slice(songs, func(i, j int) bool { return songs[i].ID < songs[j].ID })
	return songs, nil
}

func (f fakeSongs) ListSummariesByBand(_ context.Context, bandID string) ([]models.SongSummary, error) {
	songs := []models.SongSummary{}
	for _, song := range f.db.songs {
		if song.BandID == bandID {
			songs = append(songs, models.SongSummary{Song: song})
		}
	}
	return songs, nil
}

func (f fakeSongs) CountInBand(_ context.Context, bandID string, songIDs []string) (int, error) {
	n := 0
	for _, id := range songIDs {
		if song, ok := f.db.songs[id]; ok && song.BandID == bandID {
			n++
		}
	}
	return n, nil
}

func (f fakeSongs) AddChart(_ context.Context, chart models.Chart) (*models.Chart, error) {
	f.db.charts = append(f.db.charts, chart)
	return &chart, nil
}

func (f fakeSongs) AddRecording(_ context.Context, recording models.Recording) (*models.Recording, error) {
	return &recording, nil
}

func (f fakeSongs) ListCharts(_ context.Context, songID string) ([]models.Chart, error) {
	charts := []models.Chart{}
	for _, chart := range f.db.charts {
		if chart.SongID == songID {
			charts = append(charts, chart)
		}
	}
	return charts, nil
}

func (f fakeSongs) ListRecordings(_ context.Context, _ string) ([]models.Recording, error) {
	return []models.Recording{}, nil
}

type fakeSetlists struct{ db *memDB }

func (f fakeSetlists) Create(_ context.Context, setlist models.Setlist, songIDs []string) (*models.Setlist, error) {
	f.db.setlists[setlist.ID] = setlist
	f.db.order[setlist.ID] = slices.Clone(songIDs)
	return &setlist, nil
}

func (f fakeSetlists) Get(_ context.Context, id string) (*models.SetlistDetails, error) {
	setlist, ok := f.db.setlists[id]
	if !ok {
		return nil, apperrors.ErrSetlistNotFound
	}
	return &models.SetlistDetails{Setlist: setlist, Band: models.BandRef{ID: setlist.BandID}}, nil
}

func (f fakeSetlists) ListByBands(_ context.Context, bandIDs []string) ([]models.SetlistDetails, error) {
	setlists := []models.SetlistDetails{}
	for _, setlist := range f.db.setlists {
		if slices.Contains(bandIDs, setlist.BandID) {
			setlists = append(setlists, models.SetlistDetails{Setlist: setlist})
		}
	}
	sort.Slice(setlists, func(i, j int) bool { return setlists[i].ID < setlists[j].ID })
	return setlists, nil
}

func (f fakeSetlists) ListSongs(_ context.Context, setlistID string) ([]models.OrderedSong, error) {
	songs := []models.OrderedSong{}
	for _, row := range models.OrderSongs(setlistID, f.db.order[setlistID]) {
		songs = append(songs, models.OrderedSong{Song: f.db.songs[row.SongID], Order: row.SongOrder})
	}
	return songs, nil
}

func (f fakeSetlists) ListSongsForSetlists(ctx context.Context, setlistIDs []string) (map[string][]models.OrderedSong, error) {
	grouped := map[string][]models.OrderedSong{}
	for _, id := range setlistIDs {
		songs, _ := f.ListSongs(ctx, id)
		if len(songs) > 0 {
			grouped[id] = songs
		}
	}
	return grouped, nil
}

func (f fakeSetlists) ReplaceSongs(_ context.Context, setlistID string, songIDs []string) error {
	f.db.replaceCalls++
	if f.db.replaceErr != nil {
		return f.db.replaceErr
	}
	f.db.order[setlistID] = slices.Clone(songIDs)
	return nil
}

func (f fakeSetlists) Delete(_ context.Context, id string) error {
	if _, ok := f.db.setlists[id]; !ok {
		return apperrors.ErrSetlistNotFound
	}
	delete(f.db.setlists, id)
	delete(f.db.order, id)
	return nil
}

type fakeStats struct{ db *memDB }

func (f fakeStats) GetBandCounts(_ context.Context, bandID string) (*models.BandCounts, error) {
	counts := &models.BandCounts{}
	for _, song := range f.db.songs {
		if song.BandID == bandID {
			counts.Songs++
		}
	}
	for _, m := range f.db.members {
		if m.BandID == bandID {
			counts.Members++
		}
	}
	for _, setlist := range f.db.setlists {
		if setlist.BandID == bandID {
			counts.Setlists++
		}
	}
	return counts, nil
}

// services bundles every service over one memDB.
type services struct {
	db       *memDB
	access   *MembershipIndex
	auth     *AuthService
	bands    *BandService
	songs    *SongService
	setlists *SetlistService
	stats    *StatsService
}

func newServices(db *memDB) *services {
	log := discardLogger()
	access := NewMembershipIndex(log, fakeMembers{db})
	now := time.Now

	auth := NewAuthService(log, fakeUsers{db}, fakeSessions{db: db, now: now}, time.Hour)

	return &services{
		db:       db,
		access:   access,
		auth:     auth,
		bands:    NewBandService(log, fakeBands{db}, fakeMembers{db}, fakeUsers{db}, fakeSongs{db}, fakeSetlistsByBand{db}, access),
		songs:    NewSongService(log, fakeSongs{db}, fakeBands{db}, access),
		setlists: NewSetlistService(log, fakeSetlists{db}, fakeSongs{db}, access),
		stats:    NewStatsService(log, fakeStats{db}, fakeBands{db}, access),
	}
}

type fakeSetlistsByBand struct{ db *memDB }

func (f fakeSetlistsByBand) ListByBand(_ context.Context, bandID string) ([]models.Setlist, error) {
	setlists := []models.Setlist{}
	for _, setlist := range f.db.setlists {
		if setlist.BandID == bandID {
			setlists = append(setlists, setlist)
		}
	}
	return setlists, nil
}

// fixture: alice admins "beatles" with bob as member; carol admins "stones".
func newFixture() *services {
	db := newMemDB()
	db.addUser("alice", "alice@example.com")
	db.addUser("bob", "bob@example.com")
	db.addUser("carol", "carol@example.com")
	db.addUser("dave", "dave@example.com")

	db.addBand("beatles", map[string]string{"alice": models.RoleAdmin, "bob": models.RoleMember})
	db.addBand("stones", map[string]string{"carol": models.RoleAdmin})

	db.addSong("help", "beatles")
	db.addSong("yesterday", "beatles")
	db.addSong("something", "beatles")
	db.addSong("angie", "stones")

	db.addSetlist("cavern", "beatles", "help", "yesterday")

	return newServices(db)
}
