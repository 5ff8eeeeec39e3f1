package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	dbutil "github.com/llehouerou/odeon/internal/db"
)

// Verify SQLiteRepository implements Repository at compile time.
var _ Repository = (*SQLiteRepository)(nil)

// SQLiteRepository serves the library tables of a SQLite database.
// It keeps the latest loaded snapshot and replays it to readers until
// Reload picks up new data.
type SQLiteRepository struct {
	Broadcaster

	db   *sql.DB
	path string

	reloadMu sync.Mutex
	current  atomic.Pointer[Snapshot]
}

// OpenSQLite opens the library database at path, creating the schema if needed.
// Returns an error wrapping ErrPermissionDenied if the file cannot be read.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if f, err := os.Open(path); err == nil {
		f.Close()
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, wrapStorageError(err)
	}

	db, err := dbutil.Open(path)
	if err != nil {
		return nil, wrapStorageError(err)
	}
	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, wrapStorageError(err)
	}

	r := NewSQLiteRepository(db)
	r.path = path
	return r, nil
}

// NewSQLiteRepository serves the library tables of an already opened database.
// The schema must exist (see InitSchema).
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// InitSchema creates the library tables if they do not exist.
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS artists (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS albums (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			artist_id INTEGER REFERENCES artists(id) ON DELETE SET NULL,
			release_year INTEGER
		);

		CREATE TABLE IF NOT EXISTS tracks (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			artist_id INTEGER REFERENCES artists(id) ON DELETE SET NULL,
			album_id INTEGER REFERENCES albums(id) ON DELETE SET NULL,
			disc_number INTEGER,
			track_number INTEGER,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL DEFAULT 0,
			added_at INTEGER NOT NULL,
			path TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_tracks_album ON tracks(album_id);
		CREATE INDEX IF NOT EXISTS idx_tracks_artist ON tracks(artist_id);

		CREATE TABLE IF NOT EXISTS playlists (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS playlist_tracks (
			playlist_id INTEGER NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			track_id INTEGER NOT NULL,
			PRIMARY KEY (playlist_id, position)
		);
	`)
	return err
}

// Path returns the database file path, or "" if the repository was built
// from an existing connection.
func (r *SQLiteRepository) Path() string {
	return r.path
}

// Close closes all subscriptions and the database.
func (r *SQLiteRepository) Close() error {
	r.CloseAll()
	return r.db.Close()
}

// Reload re-reads every table and publishes the notifications computed by
// Diff against the previously loaded snapshot. The first load publishes nothing.
func (r *SQLiteRepository) Reload(ctx context.Context) error {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	updated, err := r.load(ctx)
	if err != nil {
		return err
	}
	old := r.current.Swap(updated)
	if old == nil {
		return nil
	}

	changes := Diff(old, updated)
	if len(changes) > 0 {
		log.Debug().Int("notifications", len(changes)).Msg("Library reloaded")
	}
	r.Publish(changes...)
	return nil
}

func (r *SQLiteRepository) snapshot(ctx context.Context) (*Snapshot, error) {
	if s := r.current.Load(); s != nil {
		return s, nil
	}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r.current.Load(), nil
}

func (r *SQLiteRepository) Tracks(ctx context.Context) ([]Track, error) {
	s, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(s.Tracks), nil
}

func (r *SQLiteRepository) Albums(ctx context.Context) ([]Album, error) {
	s, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(s.Albums), nil
}

func (r *SQLiteRepository) Artists(ctx context.Context) ([]Artist, error) {
	s, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(s.Artists), nil
}

func (r *SQLiteRepository) Playlists(ctx context.Context) ([]Playlist, error) {
	s, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return clonePlaylists(s.Playlists), nil
}

func (r *SQLiteRepository) load(ctx context.Context) (*Snapshot, error) {
	start := time.Now()

	artists, err := r.loadArtists(ctx)
	if err != nil {
		return nil, wrapStorageError(fmt.Errorf("read artists: %w", err))
	}
	albums, err := r.loadAlbums(ctx)
	if err != nil {
		return nil, wrapStorageError(fmt.Errorf("read albums: %w", err))
	}
	tracks, err := r.loadTracks(ctx)
	if err != nil {
		return nil, wrapStorageError(fmt.Errorf("read tracks: %w", err))
	}
	playlists, err := r.loadPlaylists(ctx)
	if err != nil {
		return nil, wrapStorageError(fmt.Errorf("read playlists: %w", err))
	}

	log.Debug().
		Int("tracks", len(tracks)).
		Int("albums", len(albums)).
		Int("artists", len(artists)).
		Int("playlists", len(playlists)).
		Dur("elapsed", time.Since(start)).
		Msg("Library snapshot loaded")

	return NewSnapshot(tracks, albums, artists, playlists), nil
}

func (r *SQLiteRepository) loadArtists(ctx context.Context) ([]Artist, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ar.id, ar.name,
		       (SELECT COUNT(*) FROM albums al WHERE al.artist_id = ar.id),
		       (SELECT COUNT(*) FROM tracks t WHERE t.artist_id = ar.id)
		FROM artists ar
		ORDER BY ar.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artists []Artist
	for rows.Next() {
		var a Artist
		if err := rows.Scan(&a.ID, &a.Name, &a.AlbumCount, &a.TrackCount); err != nil {
			return nil, err
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

func (r *SQLiteRepository) loadAlbums(ctx context.Context) ([]Album, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT al.id, al.title, al.artist_id, ar.name, al.release_year,
		       (SELECT COUNT(*) FROM tracks t WHERE t.album_id = al.id)
		FROM albums al
		LEFT JOIN artists ar ON ar.id = al.artist_id
		ORDER BY al.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var albums []Album
	for rows.Next() {
		var a Album
		var artistID, year sql.NullInt64
		var artist sql.NullString
		if err := rows.Scan(&a.ID, &a.Title, &artistID, &artist, &year, &a.TrackCount); err != nil {
			return nil, err
		}
		a.ArtistID = dbutil.NullInt64Value(artistID)
		a.Artist = dbutil.NullStringValue(artist)
		a.ReleaseYear = int(dbutil.NullInt64Value(year))
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

func (r *SQLiteRepository) loadTracks(ctx context.Context) ([]Track, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.title, t.artist_id, ar.name, t.album_id, al.title,
		       t.disc_number, t.track_number, t.duration_ms, t.score, t.added_at, t.path
		FROM tracks t
		LEFT JOIN artists ar ON ar.id = t.artist_id
		LEFT JOIN albums al ON al.id = t.album_id
		ORDER BY t.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		var t Track
		var artistID, albumID, discNum, trackNum sql.NullInt64
		var artist, album sql.NullString
		var durationMs, addedAt int64
		if err := rows.Scan(&t.ID, &t.Title, &artistID, &artist, &albumID, &album,
			&discNum, &trackNum, &durationMs, &t.Score, &addedAt, &t.Path); err != nil {
			return nil, err
		}
		t.ArtistID = dbutil.NullInt64Value(artistID)
		t.Artist = dbutil.NullStringValue(artist)
		t.AlbumID = dbutil.NullInt64Value(albumID)
		t.Album = dbutil.NullStringValue(album)
		t.DiscNumber = int(dbutil.NullInt64Value(discNum))
		t.TrackNumber = int(dbutil.NullInt64Value(trackNum))
		t.Duration = time.Duration(durationMs) * time.Millisecond
		t.AddedAt = time.Unix(addedAt, 0)
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

func (r *SQLiteRepository) loadPlaylists(ctx context.Context) ([]Playlist, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.title, pt.track_id
		FROM playlists p
		LEFT JOIN playlist_tracks pt ON pt.playlist_id = p.id
		ORDER BY p.id, pt.position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var playlists []Playlist
	for rows.Next() {
		var id int64
		var title string
		var trackID sql.NullInt64
		if err := rows.Scan(&id, &title, &trackID); err != nil {
			return nil, err
		}
		if n := len(playlists); n == 0 || playlists[n-1].ID != id {
			playlists = append(playlists, Playlist{ID: id, Title: title, TrackIDs: []int64{}})
		}
		if trackID.Valid {
			last := &playlists[len(playlists)-1]
			last.TrackIDs = append(last.TrackIDs, trackID.Int64)
		}
	}
	return playlists, rows.Err()
}

func wrapStorageError(err error) error {
	if dbutil.IsPermission(err) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	return err
}
